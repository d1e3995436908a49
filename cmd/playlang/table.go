package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ava12/playlang/table"
)

func newTableCommand(root *rootOptions) *cobra.Command {
	var (
		gopts       grammarOptions
		asJSON      bool
		resolutions bool
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the LALR(1) parse table of a grammar",
		Example: `  playlang table -g comparator
  playlang table -g command --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, e := gopts.load(root)
			if e != nil {
				return e
			}
			t, e := table.Build(g, table.WithLogger(log.WithField("grammar", gopts.name)))
			if e != nil {
				return e
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				data, e := json.MarshalIndent(t, "", "  ")
				if e != nil {
					return e
				}
				fmt.Fprintln(out, string(data))
			case resolutions:
				printResolutions(out, t)
			default:
				printProductions(out, t)
				printStates(out, t)
			}
			return nil
		},
	}
	gopts.addFlags(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	cmd.Flags().BoolVar(&resolutions, "resolutions", false, "print conflicts resolved by precedence instead of the table")
	return cmd
}

func printProductions(w io.Writer, t *table.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader([]string{"#", "RULE", "PREC"})
	for i, p := range t.Productions() {
		prec := ""
		if p.Prec > 0 {
			prec = strconv.Itoa(p.Prec)
		}
		tw.Append([]string{strconv.Itoa(i), productionText(t, p), prec})
	}
	tw.Render()
}

func productionText(t *table.Table, p table.Production) string {
	sb := &strings.Builder{}
	if p.Nonterm < 0 {
		sb.WriteString("-start-:")
	} else {
		sb.WriteString(t.Nonterms()[p.Nonterm] + ":")
	}
	for _, s := range p.Symbols {
		sb.WriteString(" " + t.SymbolName(s))
	}
	return sb.String()
}

func printStates(w io.Writer, t *table.Table) {
	terminals, nonterms := t.Terminals(), t.Nonterms()
	header := make([]string, 0, 1+len(terminals)+len(nonterms))
	header = append(header, "STATE")
	header = append(header, terminals...)
	header = append(header, nonterms...)

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(header)
	for state := 0; state < t.StateCount(); state++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(state))
		for term := range terminals {
			a := t.Action(state, term)
			if a.Kind == table.ErrorAction {
				row = append(row, "")
			} else {
				row = append(row, a.String())
			}
		}
		for nt := range nonterms {
			target := t.Goto(state, nt)
			if target < 0 {
				row = append(row, "")
			} else {
				row = append(row, strconv.Itoa(target))
			}
		}
		tw.Append(row)
	}
	tw.Render()
}

func printResolutions(w io.Writer, t *table.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader([]string{"STATE", "SYMBOL", "RULE", "CHOSEN"})
	for _, r := range t.Resolutions() {
		tw.Append([]string{strconv.Itoa(r.State), r.Symbol, r.Rule, r.Chosen})
	}
	tw.Render()
}
