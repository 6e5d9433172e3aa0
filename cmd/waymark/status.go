// Status command: render the completion tree.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waymark/internal/sqlite"
	"github.com/mesh-intelligence/waymark/pkg/types"
)

// Styles for the status tree.
var (
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	stylePending = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHeader  = lipgloss.NewStyle().Bold(true)
)

// statusGlyph maps a progress state to its marker.
func statusGlyph(status string) string {
	switch status {
	case types.StatusCompleted:
		return styleDone.Render("✓")
	case types.StatusInProgress:
		return styleActive.Render("▸")
	default:
		return stylePending.Render("·")
	}
}

// statusTree is the JSON shape of the full status output.
type statusTree struct {
	Project *types.Project `json:"project"`
	Paths   []statusPath   `json:"paths"`
}

type statusPath struct {
	*types.CompletionPath
	Milestones []statusMilestone `json:"milestones"`
}

type statusMilestone struct {
	*types.Milestone
	Tasks []*types.Task `json:"tasks"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the project's completion tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "status:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		tree, err := collectStatus(backend)
		if err != nil {
			fatalf("status", err)
		}

		if flagJSON {
			printJSON(tree)
			return nil
		}

		fmt.Println(renderStatus(tree))
		return nil
	},
}

// collectStatus assembles the full tree from the store.
func collectStatus(backend *sqlite.Backend) (*statusTree, error) {
	project, err := backend.GetProject()
	if err != nil {
		return nil, err
	}

	paths, err := backend.Paths()
	if err != nil {
		return nil, err
	}

	tree := &statusTree{Project: project}
	for _, p := range paths {
		sp := statusPath{CompletionPath: p}
		milestones, err := backend.MilestonesForPath(p.PathID)
		if err != nil {
			return nil, err
		}
		for _, m := range milestones {
			tasks, err := backend.TasksForMilestone(m.MilestoneID)
			if err != nil {
				return nil, err
			}
			sp.Milestones = append(sp.Milestones, statusMilestone{Milestone: m, Tasks: tasks})
		}
		tree.Paths = append(tree.Paths, sp)
	}
	return tree, nil
}

// renderStatus formats the tree for the terminal.
func renderStatus(tree *statusTree) string {
	var b strings.Builder

	header := fmt.Sprintf("%s [%s]", tree.Project.Name, tree.Project.Status)
	b.WriteString(styleHeader.Render(header))
	if tree.Project.LastKnownGitHash != nil {
		short := *tree.Project.LastKnownGitHash
		if len(short) > 12 {
			short = short[:12]
		}
		b.WriteString(stylePending.Render("  git:" + short))
	}
	b.WriteString("\n")

	for _, p := range tree.Paths {
		fmt.Fprintf(&b, "%s %s\n", statusGlyph(p.Status), p.Name)
		for _, m := range p.Milestones {
			fmt.Fprintf(&b, "  %s %s\n", statusGlyph(m.Status), m.Name)
			for _, t := range m.Tasks {
				done := 0
				for _, it := range t.Items {
					if it.Done {
						done++
					}
				}
				if len(t.Items) > 0 {
					fmt.Fprintf(&b, "    %s %s (%d/%d)\n", statusGlyph(t.Status), t.Name, done, len(t.Items))
				} else {
					fmt.Fprintf(&b, "    %s %s\n", statusGlyph(t.Status), t.Name)
				}
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
