// Package diag defines the compiler's shared diagnostic model: every phase
// from the lexer through code generation reports failures as a Diagnostic
// rather than a bare error string, so the driver can render Rust-style
// source snippets uniformly regardless of which phase raised them.
package diag

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer   Stage = "lexer"
	StageParser  Stage = "parser"
	StageLoader  Stage = "loader"
	StageLinker  Stage = "linker"
	StageChecker Stage = "checker"
	StageMono    Stage = "mono"
	StageCodegen Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic, independent of its message text.
type Code string

const (
	CodeLexerUnterminatedString       Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerUnterminatedBlockComment Code = "LEXER_UNTERMINATED_BLOCK_COMMENT"
	CodeLexerIllegalRune              Code = "LEXER_ILLEGAL_RUNE"
	CodeLexerInvalidEscape            Code = "LEXER_INVALID_ESCAPE"
	CodeLexerInvalidNumber            Code = "LEXER_INVALID_NUMBER"

	CodeParserUnexpectedToken  Code = "PARSER_UNEXPECTED_TOKEN"
	CodeParserUnclosedDelim    Code = "PARSER_UNCLOSED_DELIMITER"

	CodeLoaderFileNotFound Code = "LOADER_FILE_NOT_FOUND"
	CodeLoaderCyclicImport Code = "LOADER_CYCLIC_IMPORT"
	CodeLoaderIOError      Code = "LOADER_IO_ERROR"

	CodeLinkerUnresolvedImport Code = "LINKER_UNRESOLVED_IMPORT"
	CodeLinkerNameConflict     Code = "LINKER_NAME_CONFLICT"

	CodeCheckerTypeMismatch        Code = "CHECKER_TYPE_MISMATCH"
	CodeCheckerArityMismatch       Code = "CHECKER_ARITY_MISMATCH"
	CodeCheckerGenericConflict     Code = "CHECKER_GENERIC_CONFLICT"
	CodeCheckerUnknownIdentifier   Code = "CHECKER_UNKNOWN_IDENTIFIER"
	CodeCheckerUnknownField        Code = "CHECKER_UNKNOWN_FIELD"
	CodeCheckerImmutableAssignment Code = "CHECKER_IMMUTABLE_ASSIGNMENT"
	CodeCheckerUnsupportedConstruct Code = "CHECKER_UNSUPPORTED_CONSTRUCT"

	CodeCodegenUnsupportedConstruct Code = "CODEGEN_UNSUPPORTED_CONSTRUCT"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// IsValid reports whether the span names a real source location.
func (s Span) IsValid() bool { return s.Line > 0 }

func (s Span) String() string {
	name := s.Filename
	if name == "" {
		name = "<input>"
	}
	return name + ":" + itoa(s.Line) + ":" + itoa(s.Column)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// LabeledSpan attaches a rendering style and an inline label to a span, for
// diagnostics that point at more than one location (e.g. "expected here"
// plus "because of this earlier declaration").
type LabeledSpan struct {
	Span  Span
	Style string // "primary" or "secondary"
	Label string
}

// Diagnostic is a compiler diagnostic surfaced to end users.
type Diagnostic struct {
	Stage        Stage
	Severity     Severity
	Code         Code
	Message      string
	Span         Span
	LabeledSpans []LabeledSpan
	Notes        []string
	Help         string
}

// Error implements the error interface so a Diagnostic can be returned and
// wrapped anywhere ordinary Go code expects an error.
func (d Diagnostic) Error() string {
	if d.Span.IsValid() {
		return d.Span.String() + ": " + d.Message
	}
	return d.Message
}
