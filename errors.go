package rfscope

import (
	"errors"
	"fmt"
)

// Error kinds shared by all rfscope packages. Callers match them with
// errors.Is; sub-packages wrap them with context.
var (
	// ErrOutOfMemory reports that a host or device allocation failed.
	ErrOutOfMemory = errors.New("rfscope: out of memory")

	// ErrResourceNotFound reports that a named asset is not available.
	ErrResourceNotFound = errors.New("rfscope: resource not found")

	// ErrEnvironment is the kind carried by EnvironmentFault.
	ErrEnvironment = errors.New("rfscope: graphics environment fault")
)

// EnvironmentFault is raised with panic when the graphics environment
// fails in a way the display cannot recover from, such as a vertex buffer
// that cannot be mapped for writing. It is never returned as an error.
type EnvironmentFault struct {
	Op  string
	Err error
}

func (e *EnvironmentFault) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rfscope: %s: graphics environment fault", e.Op)
	}
	return fmt.Sprintf("rfscope: %s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrEnvironment and the underlying cause.
func (e *EnvironmentFault) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEnvironment}
	}
	return []error{ErrEnvironment, e.Err}
}
