package lexer

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ava12/playlang"
	"github.com/ava12/playlang/grammar"
	"github.com/ava12/playlang/internal/test"
	"github.com/ava12/playlang/source"
)

func enter(context string) grammar.TokenOption {
	return grammar.Do(func(tc grammar.TokenContext) (any, error) {
		return nil, tc.Enter(context, "")
	})
}

func leave() grammar.TokenOption {
	return grammar.Do(func(tc grammar.TokenContext) (any, error) {
		return nil, tc.Leave()
	})
}

func appendText(text func(string) string) grammar.TokenOption {
	return grammar.Do(func(tc grammar.TokenContext) (any, error) {
		tc.Buffer().WriteString(text(tc.Text()))
		return nil, nil
	})
}

func toInt(tc grammar.TokenContext) (any, error) {
	return strconv.ParseInt(tc.Text(), 10, 64)
}

func sampleBuilder() *grammar.Builder {
	b := grammar.NewBuilder()
	b.Token("NUM", `[0-9]+`, grammar.Do(toInt))
	b.Token("NAME", `[a-z]+`)
	b.Token("GT", `>`).Token("GE", `>=`)
	b.Token("SPACE", `\s+`, grammar.Discard())
	b.Token("QUOTE", `"`, grammar.Discard(), enter("str"))
	b.Token("CHARS", `[^"\\]+`, grammar.Discard(), appendText(func(s string) string { return s }))
	b.Token("ESC", `\\.`, grammar.Discard(), appendText(func(s string) string { return s[1:] }))
	b.Token("END", `"`, grammar.Discard(), leave())
	b.Virtual("STR")
	b.Context(grammar.RootContext, "", "NUM", "NAME", "GT", "GE", "SPACE", "QUOTE")
	b.Context("str", "STR", "CHARS", "ESC", "END")
	return b.Rule("S", nil, "NAME").Start("S")
}

func newScanner(t *testing.T, b *grammar.Builder, input string) *Scanner {
	g, e := b.Grammar()
	test.ExpectNoError(t, e)
	l, e := New(g)
	test.ExpectNoError(t, e)
	return l.Scan(source.New("sample", input), nil)
}

func tokenStrings(t *testing.T, s *Scanner) []string {
	ts, e := s.All()
	test.ExpectNoError(t, e)
	result := make([]string, len(ts))
	for i, tok := range ts {
		result[i] = tok.String()
	}
	return result
}

func TestEmpty(t *testing.T) {
	sources := []string{"", " ", "  ", " \t\r\n "}
	for _, src := range sources {
		s := newScanner(t, sampleBuilder(), src)
		for i := 0; i < 2; i++ {
			tok, e := s.Next()
			if e != nil {
				t.Fatalf("source %q: unexpected error %s", src, e)
			}
			if tok.Type() != EofTokenType || tok.TypeName() != EofTokenName {
				t.Fatalf("source %q: unexpected token %s", src, tok.TypeName())
			}
		}
	}
}

func TestTokenSamples(t *testing.T) {
	s := newScanner(t, sampleBuilder(), `x >= 10 > "a\"b"`)
	expected := []string{`NAME("x")`, `GE(">=")`, `NUM("10")`, `GT(">")`, `STR("a\"b")`}
	got := tokenStrings(t, s)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenValues(t *testing.T) {
	s := newScanner(t, sampleBuilder(), "  42 \"q\"")
	tok, e := s.Next()
	test.ExpectNoError(t, e)
	test.Expect(t, tok.Value() == int64(42), int64(42), tok.Value())
	test.ExpectInt(t, 1, tok.Line())
	test.ExpectInt(t, 3, tok.Col())
	test.ExpectString(t, "sample", tok.SourceName())

	tok, e = s.Next()
	test.ExpectNoError(t, e)
	test.ExpectString(t, "STR", tok.TypeName())
	test.Expect(t, tok.Value() == "q", "q", tok.Value())
	test.ExpectInt(t, 6, tok.Col())
	test.ExpectInt(t, 0, s.Depth())
}

func TestUnterminatedContext(t *testing.T) {
	s := newScanner(t, sampleBuilder(), "x\n  \"abc")
	_, e := s.All()
	test.ExpectErrorPos(t, UnterminatedContextError, 2, 3, e)
}

func TestEofTokenFlushesContext(t *testing.T) {
	b := grammar.NewBuilder()
	b.Token("FIRST", `[a-z]`, grammar.Discard(), grammar.Do(func(tc grammar.TokenContext) (any, error) {
		return nil, tc.Enter("word", tc.Text())
	}))
	b.Token("SPACE", `\s+`, grammar.Discard())
	b.Token("LETTERS", `[a-z]+`, grammar.Discard(), appendText(func(s string) string { return s }))
	b.Token("SEP", `\s`, grammar.Discard(), leave())
	b.Eof("EOW", grammar.Discard(), leave())
	b.Virtual("WORD")
	b.Context(grammar.RootContext, "", "FIRST", "SPACE")
	b.Context("word", "WORD", "LETTERS", "SEP", "EOW")
	b.Rule("S", nil, "WORD").Start("S")

	got := tokenStrings(t, newScanner(t, b, "ab c  def"))
	expected := []string{`WORD("ab")`, `WORD("c")`, `WORD("def")`}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestEofTokensFireInStackOrder(t *testing.T) {
	b := grammar.NewBuilder()
	b.Token("FIRST", `[a-z]`, grammar.Discard(), grammar.Do(func(tc grammar.TokenContext) (any, error) {
		return nil, tc.Enter("word", tc.Text())
	}))
	b.Token("SPACE", `\s+`, grammar.Discard())
	b.Eof("END")
	b.Token("LETTERS", `[a-z]+`, grammar.Discard(), appendText(func(s string) string { return s }))
	b.Token("SEP", `\s`, grammar.Discard(), leave())
	b.Eof("EOW", grammar.Discard(), leave())
	b.Virtual("WORD")
	b.Context(grammar.RootContext, "", "FIRST", "SPACE", "END")
	b.Context("word", "WORD", "LETTERS", "SEP", "EOW")
	b.Rule("S", nil, "WORD", "END").Start("S")

	samples := []struct {
		src      string
		expected []string
	}{
		{"abc", []string{`WORD("abc")`, `END("")`}},
		{"ab ", []string{`WORD("ab")`, `END("")`}},
		{"", []string{`END("")`}},
	}
	for _, smp := range samples {
		s := newScanner(t, b, smp.src)
		got := tokenStrings(t, s)
		if diff := cmp.Diff(smp.expected, got); diff != "" {
			t.Errorf("%q: token mismatch (-want +got):\n%s", smp.src, diff)
		}

		tok, e := s.Next()
		test.ExpectNoError(t, e)
		test.Assert(t, tok.IsEof(), "%q: expecting end of input after END, got %s", smp.src, tok)
	}
}

func TestBadToken(t *testing.T) {
	g, e := sampleBuilder().Token("BAD", `.`, grammar.Mismatch()).Grammar()
	test.ExpectNoError(t, e)
	g.Contexts[0].Tokens = append(g.Contexts[0].Tokens, "BAD")
	l, e := New(g)
	test.ExpectNoError(t, e)

	_, e = l.Scan(source.New("", "x\n 1 #"), nil).All()
	ee := test.ExpectErrorCode(t, BadTokenError, e)
	test.ExpectString(t, "#", ee.Text)
	test.ExpectInt(t, 2, ee.Line)
	test.ExpectInt(t, 4, ee.Col)
}

func TestWrongChar(t *testing.T) {
	s := newScanner(t, sampleBuilder(), "x ?")
	tok, e := s.Next()
	test.ExpectNoError(t, e)
	test.ExpectString(t, "NAME", tok.TypeName())
	_, e = s.Next()
	ee := test.ExpectErrorCode(t, WrongCharError, e)
	test.ExpectString(t, "?", ee.Text)
	test.ExpectInt(t, 3, ee.Col)
	test.ExpectInt(t, 2, ee.Offset)
}

func TestTokenActionError(t *testing.T) {
	failure := errors.New("too big")
	b := grammar.NewBuilder()
	b.Token("NUM", `[0-9]+`, grammar.Do(func(tc grammar.TokenContext) (any, error) {
		return nil, failure
	}))
	b.Rule("S", nil, "NUM").Start("S")

	_, e := newScanner(t, b, "123").Next()
	test.ExpectErrorCode(t, TokenActionError, e)
	test.Assert(t, errors.Is(e, failure), "expecting wrapped action error, got %v", e)
}

func TestTokenActionErrorPosition(t *testing.T) {
	const badNumberError = playlang.LexicalErrors + 50
	b := grammar.NewBuilder()
	b.Token("NUM", `[0-9]+`, grammar.Do(func(tc grammar.TokenContext) (any, error) {
		return nil, playlang.FormatError(badNumberError, "bad number")
	}))
	b.Token("SPACE", `\s+`, grammar.Discard())
	b.Rule("S", nil, "NUM").Start("S")

	_, e := newScanner(t, b, "   12").Next()
	test.ExpectErrorPos(t, badNumberError, 1, 4, e)
	ee := test.ExpectErrorCode(t, badNumberError, e)
	test.ExpectInt(t, 3, ee.Offset)
	test.ExpectString(t, "12", ee.Text)
	test.ExpectString(t, "sample", ee.SourceName)
}

func TestContextErrors(t *testing.T) {
	b := grammar.NewBuilder()
	b.Token("UP", `\^`, leave())
	b.Token("IN", `>`, enter("nowhere"))
	b.Token("ROOT", `<`, enter(grammar.RootContext))
	b.Rule("S", nil, "UP", "IN", "ROOT").Start("S")

	_, e := newScanner(t, b, "^").Next()
	test.ExpectErrorCode(t, ContextError, e)

	_, e = newScanner(t, b, ">").Next()
	ee := test.ExpectErrorCode(t, ContextError, e)
	test.ExpectString(t, "nowhere", ee.Text)

	s := newScanner(t, b, "<")
	_, e = s.Next()
	test.ExpectErrorCode(t, ContextError, e)
	test.ExpectInt(t, 0, s.Depth())
}

func TestTrailing(t *testing.T) {
	b := grammar.NewBuilder()
	b.Token("KEY", `[a-z]+`, grammar.Trailing(`\s*=`))
	b.Token("NAME", `[a-z]+`)
	b.Token("EQ", `=`)
	b.Token("SPACE", `\s+`, grammar.Discard())
	b.Rule("S", nil, "KEY", "EQ", "NAME").Start("S")

	got := tokenStrings(t, newScanner(t, b, "key = value"))
	expected := []string{`KEY("key")`, `EQ("=")`, `NAME("value")`}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestEarliestTokenWinsTie(t *testing.T) {
	b := grammar.NewBuilder()
	b.Token("IF", `if`).Token("NAME", `[a-z]+`).Token("SPACE", ` `, grammar.Discard())
	b.Rule("S", nil, "IF", "NAME").Start("S")

	got := tokenStrings(t, newScanner(t, b, "if iffy"))
	expected := []string{`IF("if")`, `NAME("iffy")`}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvInActions(t *testing.T) {
	b := grammar.NewBuilder()
	b.Token("NUM", `[0-9]+`, grammar.Do(func(tc grammar.TokenContext) (any, error) {
		n, e := strconv.Atoi(tc.Text())
		return n * tc.Env().(int), e
	}))
	b.Rule("S", nil, "NUM").Start("S")
	g, e := b.Grammar()
	test.ExpectNoError(t, e)
	l, e := New(g)
	test.ExpectNoError(t, e)

	tok, e := l.Scan(source.New("", "21"), 2).Next()
	test.ExpectNoError(t, e)
	test.Expect(t, tok.Value() == 42, 42, tok.Value())
}

func TestBuildErrors(t *testing.T) {
	samples := []struct {
		re, trailing string
		code         int
	}{
		{`(`, "", WrongRegexpError},
		{`a`, `[`, WrongRegexpError},
		{`a*`, "", EmptyMatchError},
	}

	for _, s := range samples {
		b := grammar.NewBuilder()
		b.Token("T", s.re, grammar.Trailing(s.trailing))
		b.Rule("S", nil, "T").Start("S")
		g, e := b.Grammar()
		test.ExpectNoError(t, e)
		_, e = New(g)
		test.ExpectErrorCode(t, s.code, e)
	}
}

func TestContextNames(t *testing.T) {
	g, e := sampleBuilder().Grammar()
	test.ExpectNoError(t, e)
	l, e := New(g)
	test.ExpectNoError(t, e)
	names := l.ContextNames()
	test.Assert(t, len(names) == 2 && names[0] == grammar.RootContext && names[1] == "str", "unexpected contexts: %v", names)
	test.ExpectString(t, "STR", l.TokenName(9))
	test.ExpectString(t, EofTokenName, l.TokenName(EofTokenType))
}
