package main

import (
	"github.com/spf13/cobra"

	"github.com/ava12/playlang/tree"
)

func newTreeCommand(root *rootOptions) *cobra.Command {
	var gopts grammarOptions
	cmd := &cobra.Command{
		Use:     "tree INPUT...",
		Short:   "Print the derivation tree of the input",
		Example: `  playlang tree '1 + 2 * 3'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, env, e := gopts.load(root)
			if e != nil {
				return e
			}
			p, e := tree.New(g)
			if e != nil {
				return e
			}

			n, e := tree.Parse(p, joinArgs(args), env)
			if e != nil {
				return e
			}
			return tree.Fprint(cmd.OutOrStdout(), n)
		},
	}
	gopts.addFlags(cmd.Flags())
	return cmd
}
