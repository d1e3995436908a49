package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/ava12/playlang"
	"github.com/ava12/playlang/grammar"
	"github.com/ava12/playlang/internal/logging/logfields"
	"github.com/ava12/playlang/source"
)

type frame struct {
	context int
	buf     *strings.Builder
	start   int
}

// Scanner splits a single source into tokens. Scanner is not safe for concurrent use.
type Scanner struct {
	lexer    *Lexer
	src      *source.Source
	input    string
	pos      int
	env      any
	context  int
	buf      *strings.Builder
	start    int
	stack    []frame
	pending  []*Token
	finished bool
}

// Scan creates a scanner for src starting in the root context.
// env is made available to token actions.
func (l *Lexer) Scan(src *source.Source, env any) *Scanner {
	return &Scanner{
		lexer:   l,
		src:     src,
		input:   src.Content(),
		env:     env,
		context: l.names[grammar.RootContext],
	}
}

// Context returns the name of current scanner context.
func (s *Scanner) Context() string {
	return s.lexer.contexts[s.context].name
}

// Depth returns the number of suspended contexts.
func (s *Scanner) Depth() int {
	return len(s.stack)
}

// Next returns the next delivered token.
// After the input is exhausted it returns end-of-input marker on every call.
func (s *Scanner) Next() (*Token, error) {
	for len(s.pending) == 0 {
		if s.pos >= len(s.input) {
			e := s.finish()
			if e != nil {
				return nil, e
			}

			if len(s.pending) == 0 {
				return EofToken(s.src.Pos(len(s.input))), nil
			}
			break
		}

		e := s.step()
		if e != nil {
			return nil, e
		}
	}

	t := s.pending[0]
	s.pending = s.pending[1:]
	return t, nil
}

// All returns all remaining tokens excluding end-of-input marker.
func (s *Scanner) All() ([]*Token, error) {
	var result []*Token
	for {
		t, e := s.Next()
		if e != nil {
			return result, e
		}
		if t.IsEof() {
			return result, nil
		}
		result = append(result, t)
	}
}

func (s *Scanner) step() error {
	c := &s.lexer.contexts[s.context]
	rest := s.input[s.pos:]
	best, bestLen := -1, 0
	for _, ti := range c.tokens {
		t := &s.lexer.tokens[ti]
		loc := t.re.FindStringIndex(rest)
		if loc == nil || loc[1] <= bestLen {
			continue
		}
		if t.trailing != nil && !t.trailing.MatchString(rest[loc[1]:]) {
			continue
		}
		best, bestLen = ti, loc[1]
	}

	if best < 0 {
		r, _ := utf8.DecodeRuneInString(rest)
		e := playlang.FormatErrorPos(s.src.Pos(s.pos), WrongCharError, "wrong char %q (u+%x)", r, r)
		e.Text = string(r)
		return e
	}

	start := s.pos
	s.pos += bestLen
	return s.fire(best, rest[:bestLen], start)
}

func (s *Scanner) finish() error {
	if s.finished {
		return nil
	}

	s.finished = true
	// eof tokens fire innermost first; an outer context gets its turn only
	// after the inner eof action has left down to it.
	for {
		c := &s.lexer.contexts[s.context]
		if c.eof < 0 {
			break
		}
		depth := len(s.stack)
		e := s.fire(c.eof, "", s.pos)
		if e != nil {
			return e
		}
		if len(s.stack) >= depth || depth == 0 {
			break
		}
	}

	if len(s.stack) != 0 {
		name := s.Context()
		e := playlang.FormatErrorPos(s.src.Pos(s.start), UnterminatedContextError, "unexpected end of input in context %q", name)
		e.Text = name
		return e
	}

	return nil
}

func (s *Scanner) fire(tokenType int, text string, start int) error {
	t := &s.lexer.tokens[tokenType]
	pos := s.src.Pos(start)
	var value any = text
	if t.action != nil {
		v, e := t.action(&actionContext{s, text, pos})
		if e != nil {
			return actionError(t, text, pos, e)
		}
		value = v
	}

	if t.flags&grammar.ErrorToken != 0 {
		e := playlang.FormatErrorPos(pos, BadTokenError, "bad token %s %q", t.name, text)
		e.Text = text
		return e
	}

	if t.flags&grammar.DiscardToken == 0 {
		s.pending = append(s.pending, NewToken(tokenType, t.name, text, value, pos))
	}
	return nil
}

func actionError(t *tokenRec, text string, pos source.Pos, e error) error {
	if pe, is := e.(*playlang.Error); is {
		if pe.Line != 0 {
			return e
		}
		result := playlang.FormatErrorPos(pos, pe.Code, "%s", pe.Message)
		result.Text = pe.Text
		if result.Text == "" {
			result.Text = text
		}
		result.Cause = pe.Cause
		return result
	}

	result := playlang.FormatErrorPos(pos, TokenActionError, "token %s action failed on %q: %s", t.name, text, e.Error())
	result.Text = text
	result.Cause = e
	return result
}

func (s *Scanner) enter(name, initial string, pos source.Pos) error {
	ci, found := s.lexer.names[name]
	if !found {
		e := playlang.FormatErrorPos(pos, ContextError, "unknown scanner context %q", name)
		e.Text = name
		return e
	}
	if name == grammar.RootContext {
		return playlang.FormatErrorPos(pos, ContextError, "cannot enter root scanner context")
	}

	s.stack = append(s.stack, frame{s.context, s.buf, s.start})
	s.context = ci
	s.buf = &strings.Builder{}
	s.buf.WriteString(initial)
	s.start = pos.Offset()

	if log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		log.WithFields(logrus.Fields{logfields.Context: name, logfields.Offset: s.start}).Trace("enter context")
	}
	return nil
}

func (s *Scanner) leave(pos source.Pos) error {
	if len(s.stack) == 0 {
		return playlang.FormatErrorPos(pos, ContextError, "cannot leave root scanner context")
	}

	left := &s.lexer.contexts[s.context]
	text := s.buf.String()
	start := s.start
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.context, s.buf, s.start = top.context, top.buf, top.start

	if log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		log.WithFields(logrus.Fields{logfields.Context: left.name, logfields.Offset: pos.Offset()}).Trace("leave context")
	}

	if left.capture < 0 {
		return nil
	}
	return s.fire(left.capture, text, start)
}

type actionContext struct {
	s    *Scanner
	text string
	pos  source.Pos
}

func (ac *actionContext) Text() string {
	return ac.text
}

func (ac *actionContext) Env() any {
	return ac.s.env
}

func (ac *actionContext) Buffer() *strings.Builder {
	return ac.s.buf
}

func (ac *actionContext) Enter(context, initial string) error {
	return ac.s.enter(context, initial, ac.pos)
}

func (ac *actionContext) Leave() error {
	return ac.s.leave(ac.pos)
}

func (ac *actionContext) SourceName() string {
	return ac.pos.SourceName()
}

func (ac *actionContext) Line() int {
	return ac.pos.Line()
}

func (ac *actionContext) Col() int {
	return ac.pos.Col()
}

func (ac *actionContext) Offset() int {
	return ac.pos.Offset()
}
