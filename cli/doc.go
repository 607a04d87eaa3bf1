// Package cli contains the command line interface for nixeval.
//
// # Usage
//
//	nixeval [flags] [eval] [source]
//	nixeval tokens [source]
//	nixeval fmt [native|json|yaml|ast] [source]
//	nixeval repl [file...]
//	nixeval init [--force]
//
// Without a command, the source is evaluated. A source of "-" reads stdin,
// and -e evaluates an expression given on the command line:
//
//	nixeval -e '{ a = 1; b = a + 1; }.b'
//	nixeval eval -o json ./default.nix
//
// # Host bindings
//
// Names bound with --arg and --argstr are visible to the evaluated source.
// Other unbound names evaluate to deferred values unless --strict is given:
//
//	nixeval --argstr name=demo --arg 'jobs=2 * 4' -e '{ inherit name jobs; }'
//	nixeval --arg 'home=env("HOME")' -e 'home + "/src"'
//
// # Imports
//
// The import builtin reads files relative to the importing file. A <name>
// path is looked up in the entries given with -I and then in NIX_PATH:
//
//	nixeval -I nixpkgs=/src/nixpkgs -e 'import <nixpkgs/lib>'
//
// # Configuration
//
// Flag defaults are read from a configuration file in the user
// configuration directory, itself written in the language. The init command
// writes the current flag values to it:
//
//	nixeval --log-level=debug -I ./lib init
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o nixeval .
//
// The profiling flags are:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
