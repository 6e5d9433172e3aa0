// Task commands: add tasks to a milestone, mark tasks done.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

var (
	flagTaskItems []string
	flagTaskForce bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <milestone-id> <name>",
	Short: "Add a task to a milestone",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "task add:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		task, err := backend.AddTask(args[0], args[1], flagTaskItems)
		if err != nil {
			fatalf("task add", err)
		}

		if flagJSON {
			printJSON(task)
			return nil
		}
		fmt.Printf("added task %s  %s (%d items)\n", task.TaskID, task.Name, len(task.Items))
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task complete and roll completion up the tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "task done:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		result, err := backend.CompleteTask(args[0], flagTaskForce)
		if err != nil {
			fatalf("task done", err)
		}

		if flagJSON {
			printJSON(result)
			return nil
		}
		printTaskCompletion(result)
		return nil
	},
}

// printTaskCompletion reports how far the completion rolled up.
func printTaskCompletion(result *types.TaskCompletion) {
	if result.AlreadyComplete {
		fmt.Printf("task %s already complete\n", result.Task.TaskID)
		return
	}
	fmt.Printf("completed task %s  %s\n", result.Task.TaskID, result.Task.Name)
	if result.MilestoneCompleted {
		fmt.Println("milestone complete")
	}
	if result.PathCompleted {
		fmt.Println("completion path complete")
	}
	if result.ProjectCompleted {
		fmt.Println("project complete")
	}
	if result.NextMilestone != nil {
		fmt.Printf("next milestone: %s  %s (awaiting tasks)\n",
			result.NextMilestone.MilestoneID, result.NextMilestone.Name)
	}
}

func init() {
	taskAddCmd.Flags().StringArrayVar(&flagTaskItems, "item", nil, "checklist item (repeatable)")
	taskDoneCmd.Flags().BoolVar(&flagTaskForce, "force", false, "complete even with undone items, marking them done")
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)
}
