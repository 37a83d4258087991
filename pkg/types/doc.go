// Package types defines the Recipe entity, the backend-agnostic Store
// interface, the Config used to select and parameterize a backend, and the
// standard error values shared by all storage implementations.
package types
