// Package reduceerr defines the error taxonomy shared by the
// dimensionality-reduction core: shape mismatches, numeric failures,
// and out-of-range configuration.
package reduceerr

import "fmt"

// ShapeError reports a mismatched or out-of-range matrix shape, such as
// inconsistent row lengths or a requested output dimension outside the
// supported range.
type ShapeError struct {
	Op      string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("reduce: shape error in %s: %s", e.Op, e.Message)
}

// NewShapeError builds a ShapeError for the given operation.
func NewShapeError(op, format string, args ...interface{}) *ShapeError {
	return &ShapeError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// NumericError reports a failure in the underlying numeric routine, such
// as PCA failing to converge or non-finite values reaching the core.
type NumericError struct {
	Op      string
	Message string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("reduce: numeric error in %s: %s", e.Op, e.Message)
}

// NewNumericError builds a NumericError for the given operation.
func NewNumericError(op, format string, args ...interface{}) *NumericError {
	return &NumericError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// ConfigError reports a UmapParams field outside its permitted range.
// pkg/store also returns it for database open, schema, and query
// failures, with the failing operation in Field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("reduce: config error on %s: %s", e.Field, e.Message)
}

// NewConfigError builds a ConfigError for the given parameter field.
func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}
