package main

import (
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ava12/playlang"
	"github.com/ava12/playlang/internal/logging"
	"github.com/ava12/playlang/internal/logging/logfields"
)

var log = logging.DefaultLogger.WithField(logfields.LogSubsys, "cli")

var (
	errorColor  = color.New(color.FgRed)
	resultColor = color.New(color.FgGreen, color.Bold)
	noteColor   = color.New(color.FgYellow)
)

type rootOptions struct {
	logLevel  string
	logFormat string
	noColor   bool
	debug     bool
	vars      varOptions
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "playlang",
		Short:         "Evaluate address expressions and inspect playlang grammars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if e := logging.SetLogLevelName(opts.logLevel); e != nil {
				return errors.Wrap(e, "invalid --log-level")
			}
			if e := logging.SetLogFormat(opts.logFormat); e != nil {
				return errors.Wrap(e, "invalid --log-format")
			}
			if opts.noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: trace, debug, info, warning, error")
	flags.StringVar(&opts.logFormat, "log-format", logging.LogFormatText, "log format: text or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&opts.debug, "debug", false, "dump parse results to stderr")
	opts.vars.addFlags(flags)

	cmd.AddCommand(
		newEvalCommand(opts),
		newCompareCommand(opts),
		newSplitCommand(opts),
		newTokensCommand(opts),
		newTreeCommand(opts),
		newTableCommand(opts),
		newReplCommand(opts),
	)
	return cmd
}

// dump writes v to stderr of cmd when --debug is set.
func (o *rootOptions) dump(cmd *cobra.Command, v any) {
	if o.debug {
		spew.Fdump(cmd.ErrOrStderr(), v)
	}
}

func printError(w io.Writer, e error) {
	errorColor.Fprintf(w, "error: %s\n", e)
	var pe *playlang.Error
	if errors.As(e, &pe) && pe.Cause != nil {
		noteColor.Fprintf(w, "  caused by: %s\n", pe.Cause)
	}
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if e := cmd.Execute(); e != nil {
		log.WithError(e).Debug("command failed")
		printError(stderr, e)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
