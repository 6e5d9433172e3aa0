// Show command: display one entity by ID.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a path, milestone, or task by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		entity, err := backend.GetEntity(args[0])
		if err != nil {
			fatalf("show", err)
		}

		if flagJSON {
			printJSON(entity)
			return nil
		}
		printEntity(entity)
		return nil
	},
}
