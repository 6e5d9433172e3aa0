// Sync command: run a git revision checkpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waymark/internal/gitsync"
	"github.com/mesh-intelligence/waymark/pkg/types"
)

var flagSyncRepoDir string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Record the tracked repository's current git hash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "sync:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		repoDir := flagSyncRepoDir
		if repoDir == "" {
			repoDir = configGit.RepoDir
		}
		if repoDir == "" {
			repoDir = "."
		}

		checkpoint := gitsync.New(backend, repoDir, time.Duration(configGit.TimeoutMS)*time.Millisecond)
		result, err := checkpoint.Sync(context.Background())
		if err != nil {
			fatalf("sync", err)
		}

		if flagJSON {
			printJSON(result)
			return nil
		}
		printSyncResult(result)
		return nil
	},
}

func printSyncResult(result *types.SyncResult) {
	switch result.Kind {
	case types.SyncInitialized:
		fmt.Printf("sync baseline recorded: %s\n", result.NewHash)
	case types.SyncUnchanged:
		fmt.Printf("no change since last sync (%s)\n", result.NewHash)
	case types.SyncChanged:
		fmt.Printf("repository moved: %s -> %s\n", result.OldHash, result.NewHash)
	}
}

func init() {
	syncCmd.Flags().StringVar(&flagSyncRepoDir, "repo-dir", "", "repository to checkpoint (default: config git.repo_dir, then current directory)")
}
