// Package errors provides the centralized error-code taxonomy for wasmc.
// Every pass reports failures and warnings through the types defined here
// instead of bare error values, so a caller can switch on Code without
// string-matching messages.
package errors

// Phase identifies which compiler pass raised a diagnostic.
type Phase string

const (
	PhaseParser        Phase = "parser"
	PhaseRename        Phase = "rename"
	PhaseTyper         Phase = "typer"
	PhaseCaseSimplify  Phase = "casesimplify"
	PhaseLower         Phase = "lower"
	PhaseHIR2MIR       Phase = "hir2mir"
	PhaseUnAlias       Phase = "unalias"
	PhaseInternal      Phase = "internal"
)

// Error code constants, grouped by phase. Names mirror the taxonomy in
// spec.md §7.
const (
	// Parser errors (out-of-scope boundary, reported verbatim by the stand-in parser)
	ParseError = "PAR001"

	// Rename / scoping errors
	FreeVariable = "RNM001"

	// Typer errors
	Mismatch                 = "TC001"
	OccursIn                 = "TC002"
	NotAFunction             = "TC003"
	ConstructorArityMismatch = "TC004"
	CannotInfer              = "TC005"

	// CaseSimplify warnings (non-fatal)
	NonExhaustiveMatch = "CSE001"
	RedundantMatchArm  = "CSE002"

	// Internal compiler errors (bugs, not user-facing)
	Internal = "INT001"
)

// Info is static metadata about an error/warning code.
type Info struct {
	Code        string
	Phase       Phase
	Description string
}

// Registry maps every known code to its static info, mirroring the
// teacher's ErrorRegistry.
var Registry = map[string]Info{
	ParseError:               {ParseError, PhaseParser, "malformed source text"},
	FreeVariable:             {FreeVariable, PhaseRename, "reference to an unbound identifier"},
	Mismatch:                 {Mismatch, PhaseTyper, "expected and actual types disagree"},
	OccursIn:                 {OccursIn, PhaseTyper, "infinite type (occurs check failed)"},
	NotAFunction:             {NotAFunction, PhaseTyper, "applied a non-function value"},
	ConstructorArityMismatch: {ConstructorArityMismatch, PhaseTyper, "constructor used with the wrong number of arguments"},
	CannotInfer:              {CannotInfer, PhaseTyper, "insufficient information to infer a type"},
	NonExhaustiveMatch:       {NonExhaustiveMatch, PhaseCaseSimplify, "case expression does not cover every constructor"},
	RedundantMatchArm:        {RedundantMatchArm, PhaseCaseSimplify, "match arm can never be reached"},
	Internal:                 {Internal, PhaseInternal, "compiler bug"},
}

// GetInfo looks up static metadata for a code.
func GetInfo(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}
