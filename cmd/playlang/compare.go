package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ava12/playlang/examples/expr"
)

func newCompareCommand(root *rootOptions) *cobra.Command {
	var previous string
	cmd := &cobra.Command{
		Use:   "compare COMPARATOR VALUE",
		Short: "Check whether a value passes a comparator",
		Example: `  playlang compare '== [1, 10]' 5
  playlang compare '>' 5 --previous 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, e := root.vars.env()
			if e != nil {
				return e
			}

			c, e := expr.ParseComparator(args[0], env)
			if e != nil {
				return e
			}
			cur, e := expr.Evaluate(args[1], env)
			if e != nil {
				return errors.Wrap(e, "value")
			}

			var prev int64
			if c.Kind == expr.ComparePrevious {
				if previous == "" {
					return errors.Errorf("comparator %q needs --previous value", c)
				}
				prev, e = expr.Evaluate(previous, env)
				if e != nil {
					return errors.Wrap(e, "previous value")
				}
			}

			out := cmd.OutOrStdout()
			if c.Match(prev, cur) {
				resultColor.Fprintf(out, "%d matches %s\n", cur, c)
			} else {
				errorColor.Fprintf(out, "%d does not match %s\n", cur, c)
			}
			root.dump(cmd, c)
			return nil
		},
	}
	cmd.Flags().StringVar(&previous, "previous", "", "previous value for comparators without operand")
	return cmd
}
