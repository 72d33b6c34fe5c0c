package svtoolbox_api

import (
	"errors"
	"fmt"
)

// Errors reported by svtoolbox, test for them with errors.Is
var (
	// A data line is structurally invalid
	ErrMalformedRecord = errors.New("malformed record")

	// Two data lines share the same ID
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// An INFO field was requested that the variant doesn't have
	ErrInfoFieldNotFound = errors.New("info field not found")

	// The mate locus of a breakend ALT couldn't be decoded
	ErrMalformedBreakend = errors.New("malformed breakend")

	// An alignment has no query name
	ErrMissingQueryName = errors.New("missing query name")
)

// ParseError represents an error during VCF parsing with line context
type ParseError struct {
	// The 1-based line number of the offending line
	Line int

	// One of the sentinel errors above
	Kind error

	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %v: %s", e.Line, e.Kind, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}
