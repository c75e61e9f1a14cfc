package errors

import "fmt"

// CompileError is returned by any pass that fails. It carries enough
// structure for an embedder to react programmatically (Code) as well as a
// human-readable rendering (Error()).
type CompileError struct {
	Code     string
	Phase    Phase
	Message  string
	Pos      string // formatted source region, e.g. "file.ml:3:10"
	Expected string // populated for Mismatch/OccursIn-style errors
	Actual   string
}

func (e *CompileError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds a CompileError, looking up Phase from the Registry.
func New(code, pos, message string) *CompileError {
	info, ok := GetInfo(code)
	phase := PhaseInternal
	if ok {
		phase = info.Phase
	}
	return &CompileError{Code: code, Phase: phase, Message: message, Pos: pos}
}

// Mismatchf builds a Mismatch error with expected/actual type strings.
func Mismatchf(pos, expected, actual string) *CompileError {
	return &CompileError{
		Code:     Mismatch,
		Phase:    PhaseTyper,
		Message:  fmt.Sprintf("expected %s, got %s", expected, actual),
		Pos:      pos,
		Expected: expected,
		Actual:   actual,
	}
}

// Warning is a non-fatal diagnostic (NonExhaustiveMatch, RedundantMatchArm).
type Warning struct {
	Code    string
	Pos     string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: warning %s: %s", w.Pos, w.Code, w.Message)
}

// Sink collects warnings across a compilation, shared read-write by
// reference down the pass chain (the only other cross-pass mutable state
// besides the fresh-name service — see spec.md §5).
type Sink struct {
	Warnings []Warning
}

// NewSink creates an empty warning sink.
func NewSink() *Sink { return &Sink{} }

// Add records a warning.
func (s *Sink) Add(w Warning) { s.Warnings = append(s.Warnings, w) }
