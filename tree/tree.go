// Package tree builds derivation trees of parsed input for grammar debugging.
package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/ava12/playlang/grammar"
	"github.com/ava12/playlang/parser"
)

// Node is a derivation tree node. Token nodes have no children and empty Rule.
type Node struct {
	// Name is a token type name or a nonterminal name.
	Name string
	// Text is the token text, empty for nonterminals.
	Text string
	// Value is the token value or the result of the rule action.
	Value any
	// Rule is the reduced rule in "X: a b" form, empty for tokens.
	Rule     string
	Parent   *Node
	Children []*Node

	sourceName        string
	line, col, offset int
}

func (n *Node) IsToken() bool {
	return n.Rule == ""
}

func (n *Node) SourceName() string {
	return n.sourceName
}

func (n *Node) Line() int {
	return n.line
}

func (n *Node) Col() int {
	return n.col
}

func (n *Node) Offset() int {
	return n.offset
}

// Ancestor returns parent for level 0, grandparent for level 1, and so on. It returns nil if there is no such node.
func (n *Node) Ancestor(level int) *Node {
	for n != nil && level >= 0 {
		n = n.Parent
		level--
	}
	return n
}

// Level returns the number of ancestors.
func (n *Node) Level() (l int) {
	for p := n.Parent; p != nil; p = p.Parent {
		l++
	}
	return
}

// NthChild returns i-th child or nil. Negative i counts from the last child, -1 is the last one.
func (n *Node) NthChild(i int) *Node {
	if i < 0 {
		i += len(n.Children)
	}
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Tokens returns token nodes of the subtree in source order.
func (n *Node) Tokens() []*Node {
	var result []*Node
	Walk(n, func(n *Node) bool {
		if n.IsToken() {
			result = append(result, n)
		}
		return true
	})
	return result
}

// Visitor is called for every node, returning false skips node children.
type Visitor func(n *Node) bool

// Walk visits nodes of the subtree depth-first, parents before children.
func Walk(n *Node, v Visitor) {
	if n == nil || !v(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, v)
	}
}

// Fprint writes indented tree dump.
func Fprint(w io.Writer, n *Node) error {
	var e error
	Walk(n, func(n *Node) bool {
		indent := strings.Repeat("  ", n.Level())
		if n.IsToken() {
			_, e = fmt.Fprintf(w, "%s%s %q\n", indent, n.Name, n.Text)
		} else {
			_, e = fmt.Fprintf(w, "%s%s = %v  [%s]\n", indent, n.Name, n.Value, n.Rule)
		}
		return e == nil
	})
	return e
}

// Format returns indented tree dump.
func Format(n *Node) string {
	sb := &strings.Builder{}
	_ = Fprint(sb, n)
	return sb.String()
}

// Grammar returns a copy of g with actions producing *Node values.
// Original actions still compute node values.
func Grammar(g *grammar.Grammar) *grammar.Grammar {
	result := *g
	result.Tokens = make([]grammar.Token, len(g.Tokens))
	for i, t := range g.Tokens {
		t.Action = tokenAction(t.Name, t.Action)
		result.Tokens[i] = t
	}

	result.Rules = make([]grammar.Rule, len(g.Rules))
	for i, r := range g.Rules {
		r.Action = ruleAction(r.Nonterm, r.String(), r.Action)
		result.Rules[i] = r
	}
	return &result
}

func tokenAction(name string, action grammar.TokenAction) grammar.TokenAction {
	return func(tc grammar.TokenContext) (any, error) {
		var value any = tc.Text()
		if action != nil {
			v, e := action(tc)
			if e != nil {
				return nil, e
			}
			value = v
		}
		return &Node{
			Name:       name,
			Text:       tc.Text(),
			Value:      value,
			sourceName: tc.SourceName(),
			line:       tc.Line(),
			col:        tc.Col(),
			offset:     tc.Offset(),
		}, nil
	}
}

func ruleAction(name, rule string, action grammar.RuleAction) grammar.RuleAction {
	return func(env any, values []any) (any, error) {
		n := &Node{Name: name, Rule: rule, Children: make([]*Node, len(values))}
		childValues := make([]any, len(values))
		for i, v := range values {
			c := v.(*Node)
			c.Parent = n
			n.Children[i] = c
			childValues[i] = c.Value
		}
		if len(n.Children) > 0 {
			first := n.Children[0]
			n.sourceName, n.line, n.col, n.offset = first.sourceName, first.line, first.col, first.offset
		}

		switch {
		case action != nil:
			v, e := action(env, childValues)
			if e != nil {
				return nil, e
			}
			n.Value = v
		case len(childValues) == 1:
			n.Value = childValues[0]
		case len(childValues) > 1:
			n.Value = childValues
		}
		return n, nil
	}
}

// New creates a parser producing derivation trees for g.
func New(g *grammar.Grammar, opts ...parser.Option) (*parser.Parser, error) {
	return parser.New(Grammar(g), opts...)
}

// Parse parses input with a parser created by New.
func Parse(p *parser.Parser, input string, env any) (*Node, error) {
	return parser.ParseAs[*Node](p, input, env)
}
