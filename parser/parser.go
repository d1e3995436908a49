// Package parser drives LALR(1) parsing of token streams, invoking rule actions bottom-up.
package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/ava12/playlang"
	"github.com/ava12/playlang/grammar"
	"github.com/ava12/playlang/internal/logging"
	"github.com/ava12/playlang/internal/logging/logfields"
	"github.com/ava12/playlang/lexer"
	"github.com/ava12/playlang/source"
	"github.com/ava12/playlang/table"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "parser")

// Option configures New.
type Option func(*Parser)

// WithTable makes parser use prebuilt table instead of building one.
// The table must be built for the same grammar.
func WithTable(t *table.Table) Option {
	return func(p *Parser) {
		p.table = t
	}
}

// WithLogger sets the logger used for table construction and parse tracing.
func WithLogger(l *logrus.Entry) Option {
	return func(p *Parser) {
		p.log = l
	}
}

// Parser combines compiled lexer and parse table of a grammar.
// Parser is immutable, one parser may serve concurrent Parse calls.
type Parser struct {
	grammar *grammar.Grammar
	lexer   *lexer.Lexer
	table   *table.Table
	log     *logrus.Entry
}

// New compiles g. Grammar errors are returned here and never by Parse.
func New(g *grammar.Grammar, opts ...Option) (*Parser, error) {
	p := &Parser{grammar: g, log: log}
	for _, opt := range opts {
		opt(p)
	}

	var e error
	if p.table == nil {
		p.table, e = table.Build(g, table.WithLogger(p.log))
		if e != nil {
			return nil, e
		}
	} else {
		e = g.Validate()
		if e != nil {
			return nil, e
		}
		if p.table.Start() != g.Start || p.table.TerminalCount() != len(g.Tokens)+1 || len(p.table.Productions()) != len(g.Rules)+1 {
			return nil, playlang.FormatError(TableMismatchError, "parse table for %q does not match grammar for %q", p.table.Start(), g.Start)
		}
	}

	p.lexer, e = lexer.New(g)
	if e != nil {
		return nil, e
	}
	return p, nil
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

func (p *Parser) Table() *table.Table {
	return p.table
}

func (p *Parser) Lexer() *lexer.Lexer {
	return p.lexer
}

// Parse parses input and returns the value of the start symbol.
// env is passed to every token and rule action.
func (p *Parser) Parse(input string, env any) (any, error) {
	return p.ParseSource(source.New("", input), env)
}

// ParseSource is like Parse but uses named source for error positions.
func (p *Parser) ParseSource(src *source.Source, env any) (any, error) {
	pc := &parseContext{
		parser:  p,
		scanner: p.lexer.Scan(src, env),
		stack:   newFrameStack(),
		env:     env,
		trace:   p.log.Logger.IsLevelEnabled(logrus.TraceLevel),
	}
	return pc.parse()
}

// Tokenize returns all delivered tokens of input, excluding end-of-input marker.
func (p *Parser) Tokenize(input string, env any) ([]*lexer.Token, error) {
	return p.lexer.Scan(source.New("", input), env).All()
}

// ParseAs parses input and converts the result to T.
// A nil result yields zero T.
func ParseAs[T any](p *Parser, input string, env any) (T, error) {
	var zero T
	v, e := p.Parse(input, env)
	if e != nil || v == nil {
		return zero, e
	}

	result, valid := v.(T)
	if !valid {
		return zero, playlang.FormatError(ResultTypeError, "parse result has type %T, expecting %T", v, zero)
	}
	return result, nil
}

type parseContext struct {
	parser  *Parser
	scanner *lexer.Scanner
	stack   *frameStack
	env     any
	trace   bool
}

func (pc *parseContext) parse() (any, error) {
	t := pc.parser.table
	tok, e := pc.scanner.Next()
	if e != nil {
		return nil, e
	}

	for {
		term := tok.Type()
		if tok.IsEof() {
			term = t.EofSymbol()
		}
		state := pc.stack.Top().state
		a := t.Action(state, term)

		switch a.Kind {
		case table.ShiftAction:
			if pc.trace {
				pc.parser.log.WithFields(logrus.Fields{logfields.State: a.Target, logfields.Symbol: tok.TypeName()}).Trace("shift")
			}
			pc.stack.Push(frame{a.Target, tok.Value(), tok.Pos()})
			tok, e = pc.scanner.Next()
			if e != nil {
				return nil, e
			}

		case table.ReduceAction:
			e = pc.reduce(a.Target, tok)
			if e != nil {
				return nil, e
			}

		case table.AcceptAction:
			return pc.stack.Top().value, nil

		default:
			return nil, unexpectedTokenError(tok, t.Expected(state))
		}
	}
}

func (pc *parseContext) reduce(prodIndex int, lookahead *lexer.Token) error {
	t := pc.parser.table
	prod := t.Production(prodIndex)
	rule := pc.parser.grammar.Rules[prod.Rule]
	values, pos := pc.stack.Pop(len(prod.Symbols), lookahead.Pos())

	if pc.trace {
		pc.parser.log.WithFields(logrus.Fields{logfields.Rule: rule.String(), logfields.Offset: pos.Offset()}).Trace("reduce")
	}

	var value any
	switch {
	case rule.Action != nil:
		var e error
		value, e = rule.Action(pc.env, values)
		if e != nil {
			return actionError(rule.String(), pos, e)
		}
	case len(values) == 1:
		value = values[0]
	case len(values) > 1:
		value = values
	}

	pc.stack.Push(frame{t.Goto(pc.stack.Top().state, prod.Nonterm), value, pos})
	return nil
}
