// errors/tool_errors.go
package errors

import "errors"

var (
	ErrToolNotFound    = errors.New("tool integration not found")
	ErrToolConflict    = errors.New("tool integration already exists")
	ErrInvalidToolData = errors.New("invalid tool integration data")
)
