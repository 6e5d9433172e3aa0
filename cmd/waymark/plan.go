// Plan command: apply an externally-authored completion blueprint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waymark/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage the project's completion plan",
}

var planApplyCmd = &cobra.Command{
	Use:   "apply <file.yaml>",
	Short: "Create the completion tree from a YAML blueprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "plan apply:", err)
			os.Exit(exitUserError)
		}

		plan, err := types.ParsePlan(data)
		if err != nil {
			fmt.Fprintln(os.Stderr, "plan apply:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "plan apply:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.ApplyPlan(plan); err != nil {
			fatalf("plan apply", err)
		}

		if flagJSON {
			paths, err := backend.Paths()
			if err != nil {
				fatalf("plan apply", err)
			}
			printJSON(paths)
			return nil
		}

		total := 0
		for _, p := range plan.Paths {
			total += len(p.Milestones)
		}
		fmt.Printf("Applied plan: %d paths, %d milestones\n", len(plan.Paths), total)
		return nil
	},
}

func init() {
	planCmd.AddCommand(planApplyCmd)
}
