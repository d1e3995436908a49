package grammar

import (
	"github.com/ava12/playlang"
)

// TokenOption modifies a token added by Builder.
type TokenOption func(*Token)

// Discard marks the token as consumed but never delivered to the parser.
func Discard() TokenOption {
	return func(t *Token) {
		t.Flags |= DiscardToken
	}
}

// Mismatch marks the token as a catch-all reporting its match as a lexical error.
func Mismatch() TokenOption {
	return func(t *Token) {
		t.Flags |= ErrorToken
	}
}

// Trailing sets the pattern that must follow the token text.
func Trailing(re string) TokenOption {
	return func(t *Token) {
		t.Trailing = re
	}
}

// Do sets the token action.
func Do(action TokenAction) TokenOption {
	return func(t *Token) {
		t.Action = action
	}
}

// Builder assembles a Grammar. Methods return the builder itself, the first misuse is reported by Grammar.
//
//	b := grammar.NewBuilder()
//	b.Token("NUM", `[0-9]+`, grammar.Do(toInt)).Token("PLUS", `\+`).Token("SPACE", ` +`, grammar.Discard())
//	b.Left("PLUS")
//	b.Rule("SUM", add, "SUM", "PLUS", "NUM").Rule("SUM", nil, "NUM")
//	g, e := b.Start("SUM").Grammar()
type Builder struct {
	g        Grammar
	lastRule int
	err      error
}

func NewBuilder() *Builder {
	return &Builder{lastRule: -1}
}

// Token adds a token matching re. Empty re defines a virtual token.
func (b *Builder) Token(name, re string, opts ...TokenOption) *Builder {
	t := Token{Name: name, Re: re}
	for _, opt := range opts {
		opt(&t)
	}
	b.g.Tokens = append(b.g.Tokens, t)
	return b
}

// Virtual adds a token with no pattern, e.g. a capture of a scanner context.
func (b *Builder) Virtual(name string, opts ...TokenOption) *Builder {
	return b.Token(name, "", opts...)
}

// Eof adds a token firing once at the end of input in contexts that list it.
func (b *Builder) Eof(name string, opts ...TokenOption) *Builder {
	return b.Token(name, "", append(opts, func(t *Token) { t.Flags |= EofToken })...)
}

// Context adds a scanner context. Use RootContext name for the initial context.
func (b *Builder) Context(name, capture string, tokens ...string) *Builder {
	b.g.Contexts = append(b.g.Contexts, Context{name, tokens, capture})
	return b
}

// Left adds a left-associative precedence level binding tighter than all previous levels.
func (b *Builder) Left(symbols ...string) *Builder {
	return b.precedence(Left, symbols)
}

// Right adds a right-associative precedence level binding tighter than all previous levels.
func (b *Builder) Right(symbols ...string) *Builder {
	return b.precedence(Right, symbols)
}

// NonAssoc adds a non-associative precedence level binding tighter than all previous levels.
func (b *Builder) NonAssoc(symbols ...string) *Builder {
	return b.precedence(NonAssoc, symbols)
}

func (b *Builder) precedence(assoc Assoc, symbols []string) *Builder {
	b.g.Precedence = append(b.g.Precedence, Precedence{assoc, symbols})
	return b
}

// Rule adds an alternative for nonterm. nil action passes a single child value through.
func (b *Builder) Rule(nonterm string, action RuleAction, symbols ...string) *Builder {
	b.g.Rules = append(b.g.Rules, Rule{Nonterm: nonterm, Symbols: symbols, Action: action})
	b.lastRule = len(b.g.Rules) - 1
	return b
}

// Prec sets precedence tag of the last added rule.
func (b *Builder) Prec(symbol string) *Builder {
	if b.lastRule < 0 {
		b.fail("Prec(%q) called before any rule", symbol)
	} else {
		b.g.Rules[b.lastRule].Precedence = symbol
	}
	return b
}

// Priority sets reduce/reduce priority of the last added rule.
func (b *Builder) Priority(priority int) *Builder {
	if b.lastRule < 0 {
		b.fail("Priority(%d) called before any rule", priority)
	} else {
		b.g.Rules[b.lastRule].Priority = priority
	}
	return b
}

// Start sets the start nonterminal.
func (b *Builder) Start(nonterm string) *Builder {
	b.g.Start = nonterm
	return b
}

func (b *Builder) fail(msg string, params ...any) {
	if b.err == nil {
		b.err = playlang.FormatError(BuilderError, msg, params...)
	}
}

// Grammar returns a validated copy of assembled grammar.
func (b *Builder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}

	g := &Grammar{
		Tokens:     append([]Token(nil), b.g.Tokens...),
		Contexts:   append([]Context(nil), b.g.Contexts...),
		Precedence: append([]Precedence(nil), b.g.Precedence...),
		Rules:      append([]Rule(nil), b.g.Rules...),
		Start:      b.g.Start,
	}
	e := g.Validate()
	if e != nil {
		return nil, e
	}
	return g, nil
}
