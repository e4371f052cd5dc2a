package position

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// ErrUnlocatable is matched by errors.Is for every UnlocatableError.
var ErrUnlocatable = errors.New("unlocatable raw text")

// maxWindowQuote bounds how much of the searched window Error prints.
const maxWindowQuote = 60

// UnlocatableError reports raw text that could not be found in its search
// window. It means the token tree was not derived from the supplied source,
// or a lexer produced raw text that does not occur literally in it.
type UnlocatableError struct {
	// Type is the tag of the token being located.
	Type string

	// Raw is the raw text that was searched for.
	Raw string

	// Window is the full window that was searched.
	Window string

	// At is where the window began.
	At token.Point
}

func (e *UnlocatableError) Error() string {
	window := e.Window
	if len(window) > maxWindowQuote {
		window = window[:maxWindowQuote] + "..."
	}
	kind := e.Type
	if kind == "" {
		kind = "token"
	}
	return fmt.Sprintf("cannot locate %s %q at %s in %q", kind, e.Raw, e.At, window)
}

// Unwrap returns ErrUnlocatable.
func (e *UnlocatableError) Unwrap() error {
	return ErrUnlocatable
}
