// Config for the tally store: backend selection, storage key, and the
// fixed set of categories tallied for the lifetime of the process.
package types

import (
	"errors"
	"fmt"
)

// Config holds backend selection and the category definitions used to
// build a tally Store.
type Config struct {
	Backend    string           `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir    string           `json:"data_dir" yaml:"data_dir,omitempty" mapstructure:"data_dir"`
	StorageKey string           `json:"storage_key" yaml:"storage_key" mapstructure:"storage_key"`
	LogLevel   string           `json:"log_level" yaml:"log_level,omitempty" mapstructure:"log_level"`
	Categories []CategoryConfig `json:"categories" yaml:"categories" mapstructure:"categories"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// DefaultStorageKey is the key the full category list is persisted under.
// It matches the key used by the browser build so exported blobs load as-is.
const DefaultStorageKey = "death-stranding-materials"

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrStorageKeyEmpty   = errors.New("storage key must not be empty")
	ErrNoCategories      = errors.New("at least one category is required")
	ErrCategoryNameEmpty = errors.New("category name must not be empty")
	ErrDuplicateCategory = errors.New("duplicate category name")
	ErrSizesInvalid      = errors.New("category sizes must be a non-empty list of positive integers")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendFile:   true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure, wrapped with the offending value where one
// exists.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return fmt.Errorf("%w: %q", ErrBackendUnknown, c.Backend)
	}
	if c.StorageKey == "" {
		return ErrStorageKeyEmpty
	}
	return ValidateCategories(c.Categories)
}
