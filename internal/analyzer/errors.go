package analyzer

import "errors"

var (
	// ErrInvalidNode is returned when a value handed to the block builder is
	// not a statement-level syntax node.
	ErrInvalidNode = errors.New("invalid syntax node")

	// ErrDuplicateIdentifier is returned when an identifier is added twice to
	// the same EquivalenceClasses.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrUntrackedIdentifier is returned when an operation refers to an
	// identifier that was never added.
	ErrUntrackedIdentifier = errors.New("untracked identifier")

	// ErrNestingTooDeep is returned when the builder exceeds its configured
	// recursion limit.
	ErrNestingTooDeep = errors.New("nesting too deep")
)
