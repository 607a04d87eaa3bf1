package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nixeval/lang"
	"github.com/ardnew/nixeval/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// flagIgnore lists the prefixes of flags never written to the configuration
// file.
var flagIgnore = []string{"help", "version", "arg", profile.Tag}

// Init generates a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrNoConfig
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || confPath == "" {
		return ErrNoConfig
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	node, err := lang.Quote(configSet(ktx))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	if err := writeFormatted(file, &lang.AST{Root: node}, defaultConfigIndent); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	hostFrom(ctx).Logger.DebugContext(ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configSet collects the values of the configurable flags of ktx. Flags in a
// group are nested in a set named by the group key, without the key prefix.
func configSet(ktx *kong.Context) *lang.Set {
	config := lang.NewSet()

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(flagIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		v, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		target, name := config, flag.Name

		if flag.Group != nil && flag.Group.Key != "" {
			if rest, ok := strings.CutPrefix(name, flag.Group.Key+"-"); ok {
				target, name = nestedSet(config, flag.Group.Key), rest
			}
		}

		target.Set(name, v)
	}

	return config
}

// nestedSet returns the set bound to key in parent, creating it if needed.
func nestedSet(parent *lang.Set, key string) *lang.Set {
	if v, ok := parent.Get(key); ok {
		if s, ok := v.(*lang.Set); ok {
			return s
		}
	}

	s := lang.NewSet()
	parent.Set(key, s)

	return s
}

// flagValue converts the value of a flag, reporting false for unset and
// empty values.
func flagValue(x any) (lang.Value, bool) {
	if x == nil {
		return nil, false
	}

	switch rv := reflect.ValueOf(x); rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		if rv.Len() == 0 {
			return nil, false
		}
	}

	v, err := lang.FromNative(x)
	if err != nil {
		return nil, false
	}

	return v, true
}
