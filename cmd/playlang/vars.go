package main

import (
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ava12/playlang/examples/expr"
)

var varNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

type varOptions struct {
	assigns []string
	file    string
}

func (o *varOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringArrayVar(&o.assigns, "var", nil, "set variable, name=expression (repeatable)")
	flags.StringVar(&o.file, "vars", "", "YAML file mapping variable names to expressions")
}

// env builds the expression environment from --vars file and --var flags, flags win.
func (o *varOptions) env() (*expr.Env, error) {
	env := &expr.Env{Vars: make(map[string]int64)}
	if o.file != "" {
		if e := loadVars(o.file, env); e != nil {
			return nil, e
		}
	}
	for _, assign := range o.assigns {
		name, value, found := strings.Cut(assign, "=")
		if !found {
			return nil, errors.Errorf("--var %q: expecting name=expression", assign)
		}
		if e := setVar(env, strings.TrimSpace(name), value); e != nil {
			return nil, errors.Wrapf(e, "--var %q", assign)
		}
	}
	env.Steps = nil
	return env, nil
}

func loadVars(path string, env *expr.Env) error {
	data, e := os.ReadFile(path)
	if e != nil {
		return errors.Wrap(e, "cannot read variables")
	}

	var doc yaml.Node
	if e = yaml.Unmarshal(data, &doc); e != nil {
		return errors.Wrapf(e, "cannot parse %s", path)
	}
	if len(doc.Content) == 0 {
		return nil
	}

	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return errors.Errorf("%s:%d: expecting a mapping of variable names to expressions", path, m.Line)
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return errors.Errorf("%s:%d: variable %q must be a scalar", path, value.Line, key.Value)
		}
		if e = setVar(env, key.Value, value.Value); e != nil {
			return errors.Wrapf(e, "%s:%d", path, value.Line)
		}
	}
	return nil
}

// setVar evaluates value in env and stores the result, so variables may refer to already set ones.
func setVar(env *expr.Env, name, value string) error {
	if !varNameRe.MatchString(name) {
		return errors.Errorf("invalid variable name %q", name)
	}
	v, e := expr.Evaluate(value, env)
	if e != nil {
		return e
	}
	env.Vars[name] = v
	log.WithField("var", name).WithField("value", v).Debug("variable set")
	return nil
}
