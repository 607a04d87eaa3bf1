package cli

import (
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/nixeval/lang"
)

// argBindings returns the host bindings given by --arg and --argstr. Each
// --arg value is an expression evaluated on the host, which may read the
// process environment with env("NAME"). Each --argstr value is bound as a
// string verbatim.
func argBindings(args, argstrs map[string]string) (*lang.Set, error) {
	bindings := lang.NewSet()

	env := exprEnv()

	for _, name := range slices.Sorted(maps.Keys(args)) {
		if !lang.IsIdent(name) {
			return nil, ErrInvalidArg.With(slog.String("name", name))
		}

		v, err := evalArg(args[name], env)
		if err != nil {
			return nil, ErrInvalidArg.Wrap(err).With(slog.String("name", name))
		}

		bindings.Set(name, v)
	}

	for _, name := range slices.Sorted(maps.Keys(argstrs)) {
		if !lang.IsIdent(name) {
			return nil, ErrInvalidArg.With(slog.String("name", name))
		}

		bindings.Set(name, lang.Str(argstrs[name]))
	}

	return bindings, nil
}

// evalArg compiles and runs source as an expr-lang expression and converts
// the result to a value.
func evalArg(source string, env map[string]any) (lang.Value, error) {
	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, err
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return nil, err
	}

	return lang.FromNative(out)
}

// exprEnv returns the environment visible to --arg expressions.
func exprEnv() map[string]any {
	environ := make(map[string]string)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}

	return map[string]any{
		"env": func(name string) string { return environ[name] },
	}
}
