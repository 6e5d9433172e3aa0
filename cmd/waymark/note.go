// Note commands: append and list audit notes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage the append-only note log",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <type> <message>",
	Short: "Append a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "note add:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		note, err := backend.AppendNote(args[0], args[1])
		if err != nil {
			fatalf("note add", err)
		}

		if flagJSON {
			printJSON(note)
			return nil
		}
		fmt.Printf("added note %s [%s]\n", note.NoteID, note.NoteType)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list [type]",
	Short: "List notes, optionally filtered by type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "note list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		noteType := ""
		if len(args) == 1 {
			noteType = args[0]
		}

		notes, err := backend.Notes(noteType)
		if err != nil {
			fatalf("note list", err)
		}

		if flagJSON {
			printJSON(notes)
			return nil
		}
		for _, note := range notes {
			fmt.Printf("%s  [%s]  %s\n", note.CreatedAt.Format("2006-01-02 15:04:05"), note.NoteType, note.Message)
		}
		return nil
	},
}

func init() {
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
}
