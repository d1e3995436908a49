package tree

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ava12/playlang/grammar"
	"github.com/ava12/playlang/internal/test"
	"github.com/ava12/playlang/parser"
)

var errOverflow = errors.New("overflow")

func sumGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder()
	b.Token("NUM", `[0-9]+`, grammar.Do(func(tc grammar.TokenContext) (any, error) {
		return strconv.ParseInt(tc.Text(), 10, 64)
	}))
	b.Token("PLUS", `\+`).Token("SPACE", ` +`, grammar.Discard())
	b.Rule("E", func(env any, values []any) (any, error) {
		sum := values[0].(int64) + values[2].(int64)
		if sum > 100 {
			return nil, errOverflow
		}
		return sum, nil
	}, "E", "PLUS", "NUM")
	b.Rule("E", nil, "NUM")
	g, e := b.Start("E").Grammar()
	test.ExpectNoError(t, e)
	return g
}

func parse(t *testing.T, input string) *Node {
	p, e := New(sumGrammar(t))
	test.ExpectNoError(t, e)
	n, e := Parse(p, input, nil)
	test.ExpectNoError(t, e)
	return n
}

func TestFormat(t *testing.T) {
	expected := `E = 3  [E: E PLUS NUM]
  E = 1  [E: NUM]
    NUM "1"
  PLUS "+"
  NUM "2"
`
	if diff := cmp.Diff(expected, Format(parse(t, "1 + 2"))); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigation(t *testing.T) {
	root := parse(t, "1 + 2 + 3")
	test.ExpectInt(t, 3, len(root.Children))
	test.Expect(t, root.Value == int64(6), 6, root.Value)

	last := root.NthChild(-1)
	test.ExpectString(t, "3", last.Text)
	test.ExpectInt(t, 9, last.Col())
	test.ExpectInt(t, 1, last.Level())
	test.Assert(t, last.Ancestor(0) == root, "parent must be root")
	test.Assert(t, last.Ancestor(1) == nil, "root has no parent")
	test.Assert(t, root.NthChild(3) == nil && root.NthChild(-4) == nil, "out of range children must be nil")

	var texts []string
	for _, n := range root.Tokens() {
		texts = append(texts, n.Text)
	}
	if diff := cmp.Diff([]string{"1", "+", "2", "+", "3"}, texts); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}

	deepest := root.NthChild(0).NthChild(0).NthChild(0)
	test.ExpectInt(t, 3, deepest.Level())
	test.ExpectInt(t, 1, deepest.Col())
	test.ExpectInt(t, 1, root.Col())
}

func TestWalkSkip(t *testing.T) {
	var names []string
	Walk(parse(t, "1 + 2"), func(n *Node) bool {
		names = append(names, n.Name)
		return n.Level() == 0
	})
	if diff := cmp.Diff([]string{"E", "E", "PLUS", "NUM"}, names); diff != "" {
		t.Fatalf("walk mismatch (-want +got):\n%s", diff)
	}
}

func TestActionErrors(t *testing.T) {
	p, e := New(sumGrammar(t))
	test.ExpectNoError(t, e)
	_, e = Parse(p, "99 + 2", nil)
	test.ExpectErrorCode(t, parser.ActionError, e)
	test.Assert(t, errors.Is(e, errOverflow), "expecting overflow cause, got %v", e)
}

func TestGrammarCopy(t *testing.T) {
	g := sumGrammar(t)
	tg := Grammar(g)
	test.Assert(t, g.Tokens[1].Action == nil, "source grammar must not change")
	test.Assert(t, tg.Tokens[1].Action != nil, "token actions must be wrapped")
	test.ExpectString(t, g.Start, tg.Start)
}
