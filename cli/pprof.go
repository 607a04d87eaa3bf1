//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nixeval/log"
	"github.com/ardnew/nixeval/profile"
)

// pprofConfig selects a runtime profile. Each command writes its profiles to
// its own subdirectory of Dir, so that profiles of eval and repl runs do not
// overwrite one another.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Record a runtime profile of the command"   placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Directory holding per-command profiles"                             type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start records the selected profile of command until the returned function
// is called.
func (f pprofConfig) start(ctx context.Context, command string) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	dir := filepath.Join(f.Dir, command)
	attrs := []slog.Attr{
		slog.String("mode", f.Mode),
		slog.String("command", command),
		slog.String("dir", dir),
	}

	log.DebugContext(ctx, "pprof start", attrs...)

	profiler := profile.Profiler{Mode: f.Mode, Path: dir, Quiet: true}.Start()

	return func() {
		profiler.Stop()
		log.InfoContext(ctx, "profile written", attrs...)
	}
}
