// Next command: report the next pending unit of work.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

var nextCmd = &cobra.Command{
	Use:   "next [parent-id]",
	Short: "Show the next pending child of an entity (or the next pending path)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "next:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		parentID := ""
		if len(args) == 1 {
			parentID = args[0]
		} else {
			project, err := backend.GetProject()
			if err != nil {
				fatalf("next", err)
			}
			parentID = project.ProjectID
		}

		entity, err := backend.NextPending(parentID)
		if err != nil {
			if errors.Is(err, types.ErrNoPending) {
				if flagJSON {
					printJSON(map[string]any{"next": nil})
				} else {
					fmt.Println("nothing pending")
				}
				return nil
			}
			fatalf("next", err)
		}

		if flagJSON {
			printJSON(map[string]any{"next": entity})
			return nil
		}
		printEntity(entity)
		return nil
	},
}

// printEntity renders a single tree entity in human form.
func printEntity(entity any) {
	switch e := entity.(type) {
	case *types.CompletionPath:
		fmt.Printf("path %s  %s [%s]\n", e.PathID, e.Name, e.Status)
	case *types.Milestone:
		fmt.Printf("milestone %s  %s [%s]\n", e.MilestoneID, e.Name, e.Status)
	case *types.Task:
		fmt.Printf("task %s  %s [%s]\n", e.TaskID, e.Name, e.Status)
		for _, it := range e.Items {
			mark := " "
			if it.Done {
				mark = "x"
			}
			fmt.Printf("  [%s] %s  %s\n", mark, it.ItemID, it.Description)
		}
	case *types.Item:
		fmt.Printf("item %s  %s\n", e.ItemID, e.Description)
	default:
		fmt.Printf("%v\n", entity)
	}
}
