//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of nixeval, embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories.
	Name = "nixeval"
	// Description summarizes the command in help output.
	Description = "Evaluate and partially evaluate Nix-like expressions"
)

// AuthorInfo identifies one author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors shown in version output.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
