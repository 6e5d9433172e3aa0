// Item command: mark a checklist item done.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage checklist items",
}

var itemDoneCmd = &cobra.Command{
	Use:   "done <task-id> <item-id>",
	Short: "Mark an item done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "item done:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		result, err := backend.CompleteItem(args[0], args[1])
		if err != nil {
			fatalf("item done", err)
		}

		if flagJSON {
			printJSON(result)
			return nil
		}
		if result.AlreadyComplete {
			fmt.Println("item already done")
			return nil
		}
		done := 0
		for _, it := range result.Task.Items {
			if it.Done {
				done++
			}
		}
		fmt.Printf("item done (%d/%d on task %s)\n", done, len(result.Task.Items), result.Task.TaskID)
		if result.TaskCompletable {
			fmt.Printf("all items done; run `waymark task done %s` to complete the task\n", result.Task.TaskID)
		}
		return nil
	},
}

func init() {
	itemCmd.AddCommand(itemDoneCmd)
}
