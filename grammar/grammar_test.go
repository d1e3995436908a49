package grammar

import (
	"testing"

	"github.com/ava12/playlang/internal/test"
)

func sumBuilder() *Builder {
	b := NewBuilder()
	b.Token("NUM", `[0-9]+`).Token("PLUS", `\+`).Token("MINUS", `-`).Token("SPACE", ` +`, Discard())
	b.Left("PLUS", "MINUS").Right("UMINUS")
	b.Rule("SUM", nil, "SUM", "PLUS", "SUM")
	b.Rule("SUM", nil, "MINUS", "SUM").Prec("UMINUS")
	b.Rule("SUM", nil, "NUM")
	return b.Start("SUM")
}

func TestBuilder(t *testing.T) {
	g, e := sumBuilder().Grammar()
	test.ExpectNoError(t, e)

	test.ExpectInt(t, 4, len(g.Tokens))
	test.ExpectInt(t, 3, len(g.Rules))
	test.ExpectInt(t, 2, len(g.Precedence))
	test.ExpectString(t, "UMINUS", g.Rules[1].Precedence)
	test.ExpectString(t, "SUM: SUM PLUS SUM", g.Rules[0].String())
	test.Assert(t, g.Tokens[3].Flags&DiscardToken != 0, "SPACE must be discarded")
	test.ExpectInt(t, 2, g.TokenIndex("MINUS"))
	test.ExpectInt(t, -1, g.TokenIndex("SUM"))

	nts := g.Nonterms()
	test.Assert(t, len(nts) == 1 && nts[0] == "SUM", "unexpected nonterminals: %v", nts)
}

func TestImplicitRootContext(t *testing.T) {
	b := sumBuilder()
	b.Virtual("STR").Eof("END")
	g, e := b.Grammar()
	test.ExpectNoError(t, e)

	cs := g.ScannerContexts()
	test.ExpectInt(t, 1, len(cs))
	test.ExpectString(t, RootContext, cs[0].Name)
	test.Assert(t, len(cs[0].Tokens) == 5 && cs[0].Tokens[4] == "END", "unexpected root tokens: %v", cs[0].Tokens)
}

func TestEmptyRuleString(t *testing.T) {
	r := Rule{Nonterm: "LIST"}
	test.ExpectString(t, "LIST: /* empty */", r.String())
}

func TestValidationErrors(t *testing.T) {
	samples := []struct {
		build func(b *Builder)
		code  int
	}{
		{func(b *Builder) { b.Token("NUM", "x") }, TokenDefinedError},
		{func(b *Builder) { b.Token("", "x") }, TokenDefinedError},
		{func(b *Builder) { b.Rule("NUM", nil, "PLUS") }, NonterminalClashError},
		{func(b *Builder) { b.Rule("SUM", nil, "TIMES") }, UndefinedSymbolError},
		{func(b *Builder) { b.Start("PRODUCT") }, UndefinedStartError},
		{func(b *Builder) { b.Context(RootContext, "").Context(RootContext, "") }, ContextDefinedError},
		{func(b *Builder) { b.Context("str", "") }, ContextDefinedError},
		{func(b *Builder) { b.Context(RootContext, "", "NUM", "NOPE") }, UnknownContextTokenError},
		{func(b *Builder) { b.Virtual("STR").Context(RootContext, "", "STR") }, UnknownContextTokenError},
		{func(b *Builder) { b.Context(RootContext, "").Context("str", "NUM") }, CaptureError},
		{func(b *Builder) { b.Left("PLUS") }, PrecedenceDefinedError},
		{func(b *Builder) { b.Rule("SUM", nil, "NUM").Prec("TIMES") }, UndefinedPrecedenceError},
		{func(b *Builder) { b.Token("TAIL", "", Trailing("x")) }, TokenPatternError},
	}

	for i, s := range samples {
		b := sumBuilder()
		s.build(b)
		_, e := b.Grammar()
		if e == nil {
			t.Fatalf("sample #%d: expecting error code %d, got success", i, s.code)
		}
		test.ExpectErrorCode(t, s.code, e)
	}
}

func TestBuilderMisuse(t *testing.T) {
	_, e := NewBuilder().Prec("X").Grammar()
	test.ExpectErrorCode(t, BuilderError, e)

	_, e = NewBuilder().Priority(1).Grammar()
	test.ExpectErrorCode(t, BuilderError, e)
}

func TestAssocString(t *testing.T) {
	test.ExpectString(t, "left", Left.String())
	test.ExpectString(t, "right", Right.String())
	test.ExpectString(t, "nonassoc", NonAssoc.String())
	test.ExpectString(t, "none", Assoc(0).String())
}
