/*
Package playlang is a table-driven LALR(1) parser library with a stateful regexp scanner.

Consists of subpackages:
  - grammar: declarative grammar records (tokens, scanner contexts, precedence levels, rules) and a builder;
  - lexer: scanner compiled from grammar tokens and contexts, with a context stack for nested lexical modes;
  - table: LALR(1) parse table construction with precedence and associativity based conflict resolution;
  - parser: shift/reduce parse engine invoking semantic actions bottom-up;
  - source: source text and position information;
  - tree: derivation trees for debugging grammars;
  - cmd/playlang: console utility evaluating expressions, splitting command lines and dumping parse tables.

Typical usage is:

1. Describe tokens, scanner contexts, precedence levels, and rules with grammar.Builder.
Token actions compute token values, rule actions compute nonterminal values.

2. Create a parser with parser.New. All grammar errors (bad patterns, undefined symbols,
unresolved conflicts) are reported here, never during parsing.

3. Call Parse for each input, passing an evaluation context that every action receives.
A parser is immutable and may be shared by goroutines, evaluation contexts may not.
*/
package playlang

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors  = 1   // used by grammar, lexer, and table at build time
	LexicalErrors  = 101 // used by lexer at parse time
	SyntaxErrors   = 201 // used by parser
	SemanticErrors = 301 // used by parser for failed rule actions
)

// Error is the error type used by playlang subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source or 0.
	Line int

	// Col contains column number in source or 0.
	Col int

	// Offset contains byte offset in source or 0.
	Offset int

	// Text contains offending input text for lexical errors or token type name for syntax errors.
	Text string

	// Cause contains the error returned by a user action, if any.
	Cause error
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
	// Offset returns byte offset.
	Offset() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name == "" {
			msg += fmt.Sprintf(" at line %d col %d", line, col)
		} else {
			msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
		}
	}
	return &Error{Code: code, Message: msg, SourceName: name, Line: line, Col: col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the action error wrapped by e or nil.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Class returns the error class e.Code belongs to.
func (e *Error) Class() int {
	return (e.Code-1)/100*100 + 1
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	e := NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
	e.Offset = pos.Offset()
	return e
}

func hasClass(e error, class int) bool {
	ee, valid := e.(*Error)
	return valid && ee.Class() == class
}

// IsGrammarError tells whether e was produced while building a parser.
func IsGrammarError(e error) bool {
	return hasClass(e, GrammarErrors)
}

// IsLexError tells whether e is a lexical error.
func IsLexError(e error) bool {
	return hasClass(e, LexicalErrors)
}

// IsSyntaxError tells whether e is a syntax error.
func IsSyntaxError(e error) bool {
	return hasClass(e, SyntaxErrors)
}
