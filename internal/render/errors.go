package render

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by RenderError.
var (
	ErrUnresolvedToken  = errors.New("unresolved token")
	ErrMalformedToken   = errors.New("malformed token")
	ErrUnknownCondition = errors.New("unknown conditional key")
	ErrNestedCondition  = errors.New("nested conditional block")
	ErrInvalidPath      = errors.New("invalid path segment")
	ErrCollision        = errors.New("name collision")
	ErrMissingRequired  = errors.New("required entry not rendered")
)

// RenderError reports the first failure of a render pass.
type RenderError struct {
	Op   string
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("render %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("render %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
