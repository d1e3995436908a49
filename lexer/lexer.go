// Package lexer defines lexical analyzer with switchable scanner contexts.
package lexer

import (
	"regexp"

	"github.com/ava12/playlang"
	"github.com/ava12/playlang/grammar"
	"github.com/ava12/playlang/internal/logging"
	"github.com/ava12/playlang/internal/logging/logfields"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "lexer")

// Error codes used by New:
const (
	// WrongRegexpError indicates that token pattern cannot be compiled.
	WrongRegexpError = playlang.GrammarErrors + 20 + iota

	// EmptyMatchError indicates that token pattern matches empty string.
	EmptyMatchError

	// EofTokensError indicates that a scanner context lists more than one EoF token.
	EofTokensError
)

// Error codes used by Scanner:
const (
	// WrongCharError indicates that no token of current context matches at current position.
	// Error message contains the rune at current source position.
	WrongCharError = playlang.LexicalErrors + iota

	// BadTokenError indicates that a token flagged as grammar.ErrorToken has matched.
	BadTokenError

	// TokenActionError indicates that a token action returned an error.
	TokenActionError

	// UnterminatedContextError indicates end of input inside a nested scanner context.
	UnterminatedContextError

	// ContextError indicates entering unknown context or leaving the root context.
	ContextError
)

type tokenRec struct {
	name     string
	re       *regexp.Regexp
	trailing *regexp.Regexp
	flags    grammar.TokenFlags
	action   grammar.TokenAction
}

type contextRec struct {
	name    string
	tokens  []int
	eof     int
	capture int
}

// Lexer is compiled from grammar tokens and scanner contexts.
// Lexer itself is immutable and safe for concurrent use, all per-input state lives in Scanner.
type Lexer struct {
	tokens   []tokenRec
	contexts []contextRec
	names    map[string]int
}

func anchored(re string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + re + `)`)
}

// New compiles token patterns and scanner contexts of g.
// Token types of emitted tokens are indexes in g.Tokens.
func New(g *grammar.Grammar) (*Lexer, error) {
	l := &Lexer{
		tokens: make([]tokenRec, len(g.Tokens)),
		names:  make(map[string]int),
	}
	tokenIndex := make(map[string]int, len(g.Tokens))

	for i, t := range g.Tokens {
		tokenIndex[t.Name] = i
		tr := tokenRec{name: t.Name, flags: t.Flags, action: t.Action}
		if t.Re != "" {
			re, e := anchored(t.Re)
			if e != nil {
				return nil, playlang.FormatError(WrongRegexpError, "incorrect pattern for token %q: %s", t.Name, e.Error())
			}
			if re.MatchString("") {
				return nil, playlang.FormatError(EmptyMatchError, "token %q matches empty string", t.Name)
			}
			re.Longest()
			tr.re = re
		}
		if t.Trailing != "" {
			re, e := anchored(t.Trailing)
			if e != nil {
				return nil, playlang.FormatError(WrongRegexpError, "incorrect trailing pattern for token %q: %s", t.Name, e.Error())
			}
			tr.trailing = re
		}
		l.tokens[i] = tr
	}

	for _, c := range g.ScannerContexts() {
		cr := contextRec{name: c.Name, eof: -1, capture: -1}
		for _, name := range c.Tokens {
			i, found := tokenIndex[name]
			if !found {
				return nil, playlang.FormatError(grammar.UnknownContextTokenError, "scanner context %q: unknown token %q", c.Name, name)
			}

			if l.tokens[i].flags&grammar.EofToken == 0 {
				cr.tokens = append(cr.tokens, i)
			} else if cr.eof < 0 {
				cr.eof = i
			} else {
				return nil, playlang.FormatError(EofTokensError, "scanner context %q has more than one EoF token", c.Name)
			}
		}
		if c.Capture != "" {
			i, found := tokenIndex[c.Capture]
			if !found {
				return nil, playlang.FormatError(grammar.CaptureError, "scanner context %q: unknown capture token %q", c.Name, c.Capture)
			}
			cr.capture = i
		}

		l.names[c.Name] = len(l.contexts)
		l.contexts = append(l.contexts, cr)
	}

	if _, found := l.names[grammar.RootContext]; !found {
		return nil, playlang.FormatError(grammar.ContextDefinedError, "root scanner context is not defined")
	}

	return l, nil
}

// TokenName returns name of token type or EofTokenName.
func (l *Lexer) TokenName(tokenType int) string {
	if tokenType >= 0 && tokenType < len(l.tokens) {
		return l.tokens[tokenType].name
	}
	return EofTokenName
}

// TokenCount returns the number of grammar tokens.
func (l *Lexer) TokenCount() int {
	return len(l.tokens)
}

// ContextNames returns scanner context names in declaration order.
func (l *Lexer) ContextNames() []string {
	result := make([]string, len(l.contexts))
	for i, c := range l.contexts {
		result[i] = c.name
	}
	return result
}
