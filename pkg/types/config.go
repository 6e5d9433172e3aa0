package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend string    `json:"backend" yaml:"backend"`
	DataDir string    `json:"data_dir" yaml:"data_dir"`
	Git     GitConfig `json:"git" yaml:"git"`
}

// GitConfig parameterizes the revision checkpoint.
type GitConfig struct {
	// RepoDir is the tracked repository's working directory.
	// Empty means the current working directory.
	RepoDir string `json:"repo_dir" yaml:"repo_dir"`

	// TimeoutMS bounds the git subprocess call. Zero means the default.
	TimeoutMS int `json:"timeout_ms" yaml:"timeout_ms"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrGitTimeoutInvalid = errors.New("git timeout must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Git.TimeoutMS < 0 {
		return ErrGitTimeoutInvalid
	}
	return nil
}
