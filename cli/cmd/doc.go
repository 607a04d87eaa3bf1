// Package cmd implements the nixeval subcommands: tokens, fmt, eval, init
// and repl.
//
// Commands read one source, either a file, standard input ("-"), or an
// expression given with --expr. They share a [Host], stored in the context
// by [WithHost], holding the bindings and importer configured on the command
// line.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
