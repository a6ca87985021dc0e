package matcher

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMode        = errors.New("unknown search mode")
	ErrUnknownGranularity = errors.New("unknown match mode")
	ErrUnknownEngine      = errors.New("unknown regex engine")
)

// InvalidPatternMessage is the text shown to users when a Regex mode term
// does not compile.
const InvalidPatternMessage = "search term is not a valid pattern"

// InvalidPatternError reports a Regex mode term that failed to compile.
type InvalidPatternError struct {
	Pattern string
	Engine  Engine
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Engine, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// IsInvalidPattern reports whether err wraps an InvalidPatternError.
func IsInvalidPattern(err error) bool {
	var ipe *InvalidPatternError
	return errors.As(err, &ipe)
}
