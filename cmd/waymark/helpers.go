// Shared helpers for waymark CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/waymark/internal/sqlite"
	"github.com/mesh-intelligence/waymark/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		Git: types.GitConfig{
			RepoDir:   configGit.RepoDir,
			TimeoutMS: configGit.TimeoutMS,
		},
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}

// fatalf classifies an error, prints an actionable message, and exits with
// the matching code. User-state errors (not initialized, not found, invalid
// transition) exit 1; everything else exits 2.
func fatalf(context string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", context, err)
	if isUserError(err) {
		os.Exit(exitUserError)
	}
	os.Exit(exitSysError)
}

// isUserError reports whether the error reflects caller state rather than a
// system failure.
func isUserError(err error) bool {
	for _, target := range []error{
		types.ErrNotInitialized,
		types.ErrAlreadyInitialized,
		types.ErrNotFound,
		types.ErrInvalidID,
		types.ErrInvalidName,
		types.ErrInvalidData,
		types.ErrInvalidTransition,
		types.ErrNoPending,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
