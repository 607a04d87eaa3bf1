package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nixeval/lang"
	"github.com/ardnew/nixeval/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in the language itself. The file must evaluate to an attribute
// set. Nested sets are flattened, joining keys with "-", so that
//
//	{
//	  log = {
//	    level = "debug";
//	    pretty = false;
//	  };
//	  include = [ "nixpkgs=/src/nixpkgs" ];
//	}
//
// sets the defaults of --log-level, --log-pretty and --include. Names that
// are not flags are ignored, and command-line flags override the file.
//
// A file that cannot be parsed or evaluated is reported and otherwise
// ignored, so that a broken configuration can be replaced with init --force.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		ast, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		v, err := lang.EvalAST(ctx, ast, lang.Builtins())
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		set, ok := v.(*lang.Set)
		if !ok {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("type", v.Type().String()))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", set)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for flattened configuration sets.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	// Hyphens and underscores are interchangeable: log_level in the file
	// sets --log-level, and a flag named log_level finds log-level.
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
		strings.ReplaceAll(flag.Name, "_", "-"),
	} {
		if value, ok := c[name]; ok {
			return value, nil
		}
	}

	return nil, nil
}

func (c config) flatten(prefix string, set *lang.Set) {
	for key, v := range set.All() {
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := v.(type) {
		case *lang.Set:
			c.flatten(key, v)
		case lang.Dep, *lang.Func, *lang.PFunc:
			// unresolvable
		default:
			c[key] = flagValue(lang.ToNative(v))
		}
	}
}

// flagValue converts a native value to the form kong decodes. Kong requires
// numbers as strings.
func flagValue(x any) any {
	switch x := x.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = flagValue(e)
		}

		return out
	}

	return x
}
