package types

import "errors"

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendFS     = "fs"
	BackendSQL    = "sql"
)

// Config holds backend selection and backend-specific parameters.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	DBPath  string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
	Addr    string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDataDirEmpty   = errors.New("fs backend requires data_dir")
	ErrDBPathEmpty    = errors.New("sql backend requires db_path")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendFS:     true,
	BackendSQL:    true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendFS && c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.Backend == BackendSQL && c.DBPath == "" {
		return ErrDBPathEmpty
	}
	return nil
}
