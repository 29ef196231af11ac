package resolve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFunction reports a call to a name with no overload set.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrNoMatch reports that no overload accepts the arguments.
	ErrNoMatch = errors.New("no matching overload")
	// ErrAmbiguous reports several equally good overloads.
	ErrAmbiguous = errors.New("ambiguous overload")
)

// NoMatchError details ErrNoMatch.
type NoMatchError struct {
	Name string
	Args string
	// Arity is set when no overload takes len(args) parameters at all.
	Arity bool
	// UnsafeOnly is set when some overload would match if unsafe
	// conversions were allowed.
	UnsafeOnly bool
}

func (e *NoMatchError) Error() string {
	switch {
	case e.Arity:
		return fmt.Sprintf("%s%s: no overload takes that many arguments", e.Name, e.Args)
	case e.UnsafeOnly:
		return fmt.Sprintf("%s%s: only unsafe conversions match", e.Name, e.Args)
	default:
		return fmt.Sprintf("%s%s: no matching overload", e.Name, e.Args)
	}
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }

// AmbiguousError details ErrAmbiguous.
type AmbiguousError struct {
	Name string
	Args string
	// Candidates are indices into the function's overload list.
	Candidates []int
	// Signatures are the rendered tied signatures.
	Signatures []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous overloading for %s%s:\n  %s", e.Name, e.Args, strings.Join(e.Signatures, "\n  "))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }
