package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava12/playlang/examples/command"
)

func newSplitCommand(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "split LINE...",
		Short:   "Split a command line into words",
		Example: `  playlang split 'run "hello world" foo\ bar'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, e := command.Split(joinArgs(args))
			if e != nil {
				return e
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, e := json.Marshal(words)
				if e != nil {
					return e
				}
				fmt.Fprintln(out, string(data))
			} else {
				for _, w := range words {
					fmt.Fprintf(out, "%q\n", w)
				}
			}
			root.dump(cmd, words)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print words as a JSON array")
	return cmd
}
