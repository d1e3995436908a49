package main

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ava12/playlang/examples/command"
	"github.com/ava12/playlang/examples/expr"
	"github.com/ava12/playlang/grammar"
)

type grammarEntry struct {
	build   func() (*grammar.Grammar, error)
	needEnv bool
}

var grammars = map[string]grammarEntry{
	"expr":       {expr.Grammar, true},
	"comparator": {expr.ComparatorGrammar, true},
	"command":    {command.Grammar, false},
}

func grammarNames() string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

type grammarOptions struct {
	name string
}

func (o *grammarOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.name, "grammar", "g", "expr", "grammar: "+grammarNames())
}

// load builds the selected grammar and the parse environment it needs.
func (o *grammarOptions) load(root *rootOptions) (*grammar.Grammar, any, error) {
	entry, found := grammars[o.name]
	if !found {
		return nil, nil, errors.Errorf("unknown grammar %q, expecting one of %s", o.name, grammarNames())
	}

	g, e := entry.build()
	if e != nil {
		return nil, nil, errors.Wrapf(e, "cannot build %s grammar", o.name)
	}
	if !entry.needEnv {
		return g, nil, nil
	}

	env, e := root.vars.env()
	if e != nil {
		return nil, nil, e
	}
	return g, env, nil
}
