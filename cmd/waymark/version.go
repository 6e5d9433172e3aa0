// Version command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the waymark version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if flagJSON {
			printJSON(map[string]string{"version": Version})
			return
		}
		fmt.Println("waymark", Version)
	},
}
