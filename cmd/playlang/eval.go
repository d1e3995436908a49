package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava12/playlang/examples/expr"
)

func formatValue(v int64, hex bool) string {
	if hex {
		return fmt.Sprintf("%#x", uint64(v))
	}
	return fmt.Sprint(v)
}

func newEvalCommand(root *rootOptions) *cobra.Command {
	var steps, hex bool
	cmd := &cobra.Command{
		Use:   "eval EXPRESSION...",
		Short: "Evaluate an address expression",
		Example: `  playlang eval '0x10 + 3 * 0o5'
  playlang eval --var base=0x1000 '$base + 8' --hex`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, e := root.vars.env()
			if e != nil {
				return e
			}

			v, e := expr.Evaluate(joinArgs(args), env)
			if e != nil {
				return e
			}

			out := cmd.OutOrStdout()
			if steps {
				for _, s := range env.Steps {
					noteColor.Fprintln(out, s)
				}
			}
			resultColor.Fprintln(out, formatValue(v, hex))
			root.dump(cmd, env)
			return nil
		},
	}
	cmd.Flags().BoolVar(&steps, "steps", false, "print evaluated operations")
	cmd.Flags().BoolVar(&hex, "hex", false, "print the result in hexadecimal")
	return cmd
}
