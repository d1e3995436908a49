package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ava12/playlang/parser"
)

func newTokensCommand(root *rootOptions) *cobra.Command {
	var gopts grammarOptions
	cmd := &cobra.Command{
		Use:     "tokens INPUT...",
		Short:   "Print tokens produced by the grammar lexer",
		Example: `  playlang tokens -g command 'echo "a b"'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, env, e := gopts.load(root)
			if e != nil {
				return e
			}
			p, e := parser.New(g)
			if e != nil {
				return e
			}

			tokens, e := p.Tokenize(joinArgs(args), env)
			if e != nil {
				return e
			}

			tw := tablewriter.NewWriter(cmd.OutOrStdout())
			tw.SetAutoFormatHeaders(false)
			tw.SetHeader([]string{"#", "TYPE", "TEXT", "VALUE", "POS"})
			for i, t := range tokens {
				value := ""
				if t.Value() != nil {
					value = fmt.Sprintf("%v", t.Value())
				}
				tw.Append([]string{
					strconv.Itoa(i),
					t.TypeName(),
					strconv.Quote(t.Text()),
					value,
					fmt.Sprintf("%d:%d", t.Line(), t.Col()),
				})
			}
			tw.Render()
			root.dump(cmd, tokens)
			return nil
		},
	}
	gopts.addFlags(cmd.Flags())
	return cmd
}
