package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ava12/playlang/examples/expr"
)

const replHelp = `expression     evaluate, the result is stored in $_
name = expr    assign a variable
:vars          list variables
:steps         toggle printing of evaluated operations
:hex           toggle hexadecimal output
:quit          exit`

type repl struct {
	env   *expr.Env
	out   io.Writer
	steps bool
	hex   bool
}

// splitAssign recognizes "name = expr", "==" is a comparison.
func splitAssign(line string) (name, value string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 || strings.HasPrefix(line[i:], "==") {
		return "", "", false
	}
	name = strings.TrimSpace(line[:i])
	if !varNameRe.MatchString(name) {
		return "", "", false
	}
	return name, line[i+1:], true
}

// exec runs one input line, quit is set on :quit.
func (r *repl) exec(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false, nil
	case ":quit", ":q":
		return true, nil
	case ":help", ":h":
		fmt.Fprintln(r.out, replHelp)
		return false, nil
	case ":vars":
		r.printVars()
		return false, nil
	case ":steps":
		r.steps = !r.steps
		return false, nil
	case ":hex":
		r.hex = !r.hex
		return false, nil
	}
	if strings.HasPrefix(line, ":") {
		return false, errors.Errorf("unknown command %s, try :help", line)
	}

	r.env.Steps = nil
	name, src, assign := splitAssign(line)
	if !assign {
		name, src = "_", line
	}
	v, e := expr.Evaluate(src, r.env)
	if e != nil {
		return false, e
	}
	r.env.Vars[name] = v

	if r.steps {
		for _, s := range r.env.Steps {
			noteColor.Fprintln(r.out, s)
		}
	}
	if assign {
		fmt.Fprintf(r.out, "$%s = ", name)
	}
	resultColor.Fprintln(r.out, formatValue(v, r.hex))
	return false, nil
}

func (r *repl) printVars() {
	names := make([]string, 0, len(r.env.Vars))
	for name := range r.env.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.out, "$%s = %s\n", name, formatValue(r.env.Vars[name], r.hex))
	}
}

func newReplCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, e := root.vars.env()
			if e != nil {
				return e
			}
			r := &repl{env: env, out: cmd.OutOrStdout()}

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			for {
				input, e := line.Prompt("> ")
				if e == io.EOF || e == liner.ErrPromptAborted {
					return nil
				}
				if e != nil {
					return errors.Wrap(e, "cannot read input")
				}
				line.AppendHistory(input)

				quit, e := r.exec(input)
				if e != nil {
					printError(cmd.ErrOrStderr(), e)
				}
				if quit {
					return nil
				}
			}
		},
	}
}
