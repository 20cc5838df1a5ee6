package proof

import (
	"errors"
	"fmt"
)

// Parse failure kinds. Every ParseError unwraps to exactly one of these.
var (
	ErrEmptyInput            = errors.New("markdown is empty")
	ErrMissingTheoremHeading = errors.New("missing theorem heading")
	ErrMissingSeparator      = errors.New("missing separator")
	ErrMissingProofHeading   = errors.New("missing proof heading")
	ErrUnparsableLine        = errors.New("unparsable line")
)

// ParseError is a fatal failure while walking the canonical Markdown grammar.
type ParseError struct {
	Kind error
	Line int    // 1-based; 0 when the failure is not tied to a line
	Text string // offending line or reason
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Text != "":
		return fmt.Sprintf("%s at line %d: '%s'", e.Kind, e.Line, e.Text)
	case e.Text != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Text)
	default:
		return e.Kind.Error()
	}
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}
