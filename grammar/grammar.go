// Package grammar defines declarative grammar records consumed by lexer, table, and parser packages.
//
// A grammar is plain data: tokens with patterns and actions, scanner contexts grouping tokens,
// precedence levels, and rules with actions. Use Builder to assemble one or fill the structures directly.
package grammar

import (
	"strings"

	"github.com/ava12/playlang"
)

// RootContext is the name of the scanner context active at the start of input.
const RootContext = ""

// Error codes used by Validate:
const (
	TokenDefinedError = playlang.GrammarErrors + iota
	NonterminalClashError
	UndefinedSymbolError
	UndefinedStartError
	ContextDefinedError
	UnknownContextTokenError
	CaptureError
	PrecedenceDefinedError
	UndefinedPrecedenceError
	TokenPatternError
	BuilderError
)

// TokenFlags modify token handling.
type TokenFlags int

const (
	// DiscardToken is consumed (its action runs) but never delivered to the parser.
	DiscardToken TokenFlags = 1 << iota

	// EofToken has no pattern, it fires once when the scanner reaches the end of input
	// while its context is active.
	EofToken

	// ErrorToken reports its match as a lexical error, it is a catch-all for unexpected input.
	ErrorToken
)

// Assoc is the associativity of a precedence level.
type Assoc int

const (
	Left Assoc = iota + 1
	Right
	NonAssoc
)

func (a Assoc) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case NonAssoc:
		return "nonassoc"
	default:
		return "none"
	}
}

// TokenContext is passed to token actions. It is valid only during the action call.
type TokenContext interface {
	// Text returns matched text, or accumulated text for capture tokens, or empty string for EoF tokens.
	Text() string

	// Env returns evaluation context passed to the parser.
	Env() any

	// Buffer returns accumulation buffer of current scanner context, it is nil for the root context.
	Buffer() *strings.Builder

	// Enter suspends current context and switches to named context with a fresh buffer containing initial text.
	Enter(context, initial string) error

	// Leave returns to the suspended context, emitting the capture token of the left context if any.
	Leave() error

	// SourceName, Line, Col, and Offset describe the position of matched text.
	SourceName() string
	Line() int
	Col() int
	Offset() int
}

// TokenAction computes token value. If a token has no action, its value is the matched text.
type TokenAction func(tc TokenContext) (value any, e error)

// RuleAction computes nonterminal value from evaluation context and values of right-hand side symbols.
type RuleAction func(env any, values []any) (value any, e error)

// Token is a terminal symbol.
type Token struct {
	// Name must be unique among tokens and nonterminals.
	Name string

	// Re is a regular expression (regexp syntax) matched at the current position.
	// Empty Re means a virtual token emitted by a scanner context as its capture, or an EoF token.
	Re string

	// Trailing is an optional regular expression that must match right after the token text,
	// the trailing text is not consumed.
	Trailing string

	Flags  TokenFlags
	Action TokenAction
}

// IsVirtual tells whether the token is never matched against input.
func (t *Token) IsVirtual() bool {
	return t.Re == ""
}

// Context is a named scanner context: an ordered set of tokens active at a lexing position.
// Earlier tokens win over later ones when their matches have equal length.
type Context struct {
	Name    string
	Tokens  []string
	Capture string // virtual token emitted with accumulated text when the context is left
}

// Precedence is a precedence level. Levels declared later bind tighter.
// Symbols are token names or names used only as rule precedence tags.
type Precedence struct {
	Assoc   Assoc
	Symbols []string
}

// Rule is a production. Rules with the same Nonterm are alternatives of one nonterminal.
type Rule struct {
	Nonterm string
	Symbols []string
	Action  RuleAction

	// Precedence overrides the default rule precedence taken from the rightmost token with precedence.
	Precedence string

	// Priority resolves reduce/reduce conflicts, higher value wins.
	Priority int
}

func (r *Rule) String() string {
	if len(r.Symbols) == 0 {
		return r.Nonterm + ": /* empty */"
	}
	return r.Nonterm + ": " + strings.Join(r.Symbols, " ")
}

// Grammar is a complete grammar definition.
// If Contexts has no RootContext entry and no other contexts, all tokens with patterns
// form the root context in declaration order.
type Grammar struct {
	Tokens     []Token
	Contexts   []Context
	Precedence []Precedence
	Rules      []Rule
	Start      string
}

// TokenIndex returns index of named token or -1.
func (g *Grammar) TokenIndex(name string) int {
	for i := range g.Tokens {
		if g.Tokens[i].Name == name {
			return i
		}
	}
	return -1
}

// Nonterms returns nonterminal names in order of their first rule.
func (g *Grammar) Nonterms() []string {
	seen := make(map[string]bool)
	var result []string
	for _, r := range g.Rules {
		if !seen[r.Nonterm] {
			seen[r.Nonterm] = true
			result = append(result, r.Nonterm)
		}
	}
	return result
}

// ScannerContexts returns declared contexts or the implicit root context.
func (g *Grammar) ScannerContexts() []Context {
	if len(g.Contexts) != 0 {
		return g.Contexts
	}

	root := Context{Name: RootContext}
	for _, t := range g.Tokens {
		if !t.IsVirtual() || t.Flags&EofToken != 0 {
			root.Tokens = append(root.Tokens, t.Name)
		}
	}
	return []Context{root}
}

// Validate checks that all names are defined and unique. It does not check patterns or conflicts,
// lexer.New and table.Build do.
func (g *Grammar) Validate() error {
	tokens := make(map[string]*Token, len(g.Tokens))
	for i := range g.Tokens {
		t := &g.Tokens[i]
		if t.Name == "" {
			return playlang.FormatError(TokenDefinedError, "token #%d has no name", i)
		}
		if tokens[t.Name] != nil {
			return playlang.FormatError(TokenDefinedError, "token %q already defined", t.Name)
		}
		if t.Trailing != "" && t.IsVirtual() {
			return playlang.FormatError(TokenPatternError, "virtual token %q cannot have trailing pattern", t.Name)
		}
		if t.Flags&EofToken != 0 && !t.IsVirtual() {
			return playlang.FormatError(TokenPatternError, "EoF token %q cannot have pattern", t.Name)
		}
		tokens[t.Name] = t
	}

	nonterms := make(map[string]bool)
	for _, r := range g.Rules {
		if tokens[r.Nonterm] != nil {
			return playlang.FormatError(NonterminalClashError, "nonterminal %q is already defined as token", r.Nonterm)
		}
		nonterms[r.Nonterm] = true
	}

	var undefined []string
	for _, r := range g.Rules {
		for _, s := range r.Symbols {
			if tokens[s] == nil && !nonterms[s] {
				undefined = appendUnique(undefined, s)
			}
		}
	}
	if len(undefined) != 0 {
		return playlang.FormatError(UndefinedSymbolError, "undefined symbols: %s", strings.Join(undefined, ", "))
	}

	if !nonterms[g.Start] {
		return playlang.FormatError(UndefinedStartError, "start nonterminal %q has no rules", g.Start)
	}

	e := g.validateContexts(tokens)
	if e != nil {
		return e
	}

	return g.validatePrecedence()
}

func (g *Grammar) validateContexts(tokens map[string]*Token) error {
	contexts := make(map[string]bool)
	for _, c := range g.Contexts {
		if contexts[c.Name] {
			return playlang.FormatError(ContextDefinedError, "scanner context %q already defined", c.Name)
		}
		contexts[c.Name] = true

		for _, name := range c.Tokens {
			t := tokens[name]
			if t == nil {
				return playlang.FormatError(UnknownContextTokenError, "scanner context %q: unknown token %q", c.Name, name)
			}
			if t.IsVirtual() && t.Flags&EofToken == 0 {
				return playlang.FormatError(UnknownContextTokenError, "scanner context %q: virtual token %q cannot be matched", c.Name, name)
			}
		}

		if c.Capture != "" {
			t := tokens[c.Capture]
			if t == nil || !t.IsVirtual() || t.Flags&EofToken != 0 {
				return playlang.FormatError(CaptureError, "scanner context %q: capture %q must be a virtual token", c.Name, c.Capture)
			}
		}
	}

	if len(g.Contexts) != 0 && !contexts[RootContext] {
		return playlang.FormatError(ContextDefinedError, "root scanner context is not defined")
	}

	return nil
}

func (g *Grammar) validatePrecedence() error {
	declared := make(map[string]bool)
	for _, p := range g.Precedence {
		for _, s := range p.Symbols {
			if declared[s] {
				return playlang.FormatError(PrecedenceDefinedError, "precedence of %q already defined", s)
			}
			declared[s] = true
		}
	}

	for i := range g.Rules {
		r := &g.Rules[i]
		if r.Precedence != "" && !declared[r.Precedence] {
			return playlang.FormatError(UndefinedPrecedenceError, "rule %q: undefined precedence %q", r.String(), r.Precedence)
		}
	}

	return nil
}

func appendUnique(list []string, s string) []string {
	for _, item := range list {
		if item == s {
			return list
		}
	}
	return append(list, s)
}
