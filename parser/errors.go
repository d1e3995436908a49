package parser

import (
	"strings"

	"github.com/ava12/playlang"
	"github.com/ava12/playlang/lexer"
	"github.com/ava12/playlang/source"
)

// Syntax error codes:
const (
	// UnexpectedEofError indicates end of input in a state expecting more tokens.
	UnexpectedEofError = playlang.SyntaxErrors + iota

	// UnexpectedTokenError indicates a token not expected in current state.
	UnexpectedTokenError
)

// Semantic error codes:
const (
	// ActionError indicates that a rule action returned an error other than *playlang.Error.
	ActionError = playlang.SemanticErrors + iota

	// ResultTypeError indicates that ParseAs got a parse result of unexpected type.
	ResultTypeError
)

// TableMismatchError indicates that a table passed with WithTable was built for another grammar.
const TableMismatchError = playlang.GrammarErrors + 60

func unexpectedTokenError(t *lexer.Token, expected []string) *playlang.Error {
	list := strings.Join(expected, ", ")
	var e *playlang.Error
	if t.IsEof() {
		e = playlang.FormatErrorPos(t, UnexpectedEofError, "unexpected end of input, expecting %s", list)
	} else {
		e = playlang.FormatErrorPos(t, UnexpectedTokenError, "unexpected %s %q, expecting %s", t.TypeName(), t.Text(), list)
	}
	e.Text = t.TypeName()
	return e
}

func actionError(rule string, pos source.Pos, e error) error {
	pe, is := e.(*playlang.Error)
	if !is {
		result := playlang.FormatErrorPos(pos, ActionError, "%s: %s", rule, e.Error())
		result.Cause = e
		return result
	}

	if pe.Line != 0 {
		return pe
	}

	result := playlang.FormatErrorPos(pos, pe.Code, "%s", pe.Message)
	result.Text = pe.Text
	result.Cause = pe.Cause
	return result
}
