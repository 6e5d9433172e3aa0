// Archive command: freeze the project.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive the project, rejecting further completion changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "archive:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		project, err := backend.ArchiveProject()
		if err != nil {
			fatalf("archive", err)
		}

		if flagJSON {
			printJSON(project)
			return nil
		}
		fmt.Printf("archived project %s  %s\n", project.ProjectID, project.Name)
		return nil
	},
}
