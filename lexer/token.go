package lexer

import (
	"fmt"

	"github.com/ava12/playlang/source"
)

const (
	// EofTokenType is the type of the end-of-input marker returned by Scanner.Next after all input is consumed.
	EofTokenType = -1

	// EofTokenName is the type name for EofTokenType.
	EofTokenName = "-end-of-input-"
)

// Token is a lexeme delivered to the parser.
type Token struct {
	tokenType int
	typeName  string
	text      string
	value     any
	pos       source.Pos
}

// NewToken creates new token. tokenType is the index of grammar token or EofTokenType.
func NewToken(tokenType int, typeName, text string, value any, pos source.Pos) *Token {
	return &Token{tokenType, typeName, text, value, pos}
}

// EofToken creates end-of-input marker.
func EofToken(pos source.Pos) *Token {
	return &Token{tokenType: EofTokenType, typeName: EofTokenName, pos: pos}
}

// Type returns index of the token in grammar.Grammar.Tokens or EofTokenType.
func (t *Token) Type() int {
	return t.tokenType
}

func (t *Token) TypeName() string {
	return t.typeName
}

// Text returns matched text or accumulated text for capture tokens.
func (t *Token) Text() string {
	return t.text
}

// Value returns the result of token action or token text if the token has no action.
func (t *Token) Value() any {
	return t.value
}

func (t *Token) Pos() source.Pos {
	return t.pos
}

func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

func (t *Token) Line() int {
	return t.pos.Line()
}

func (t *Token) Col() int {
	return t.pos.Col()
}

func (t *Token) Offset() int {
	return t.pos.Offset()
}

func (t *Token) IsEof() bool {
	return t.tokenType == EofTokenType
}

func (t *Token) String() string {
	if t.IsEof() {
		return t.typeName
	}
	return fmt.Sprintf("%s(%q)", t.typeName, t.text)
}
