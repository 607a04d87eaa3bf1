package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"
)

// searchPathEnv names the environment variable holding the default search
// path, a list of entries separated by [os.PathListSeparator].
const searchPathEnv = "NIX_PATH"

// SearchPath is the ordered list of entries used to resolve <name> paths.
// Each entry is either a directory or a prefix=directory pair.
type SearchPath []string

// NewSearchPath returns the entries of include followed by those of list,
// a path list such as the value of NIX_PATH. Empty and repeated entries are
// dropped.
func NewSearchPath(include []string, list string) SearchPath {
	sep := string(os.PathListSeparator)

	// The trailing prefix item leads the result, so the includes are
	// reversed to keep the first -I entry first.
	prefix := slices.Clone(include)
	slices.Reverse(prefix)

	joined := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(sep),
		mung.WithPrefixItems(prefix...),
	).String()

	var sp SearchPath

	for entry := range strings.SplitSeq(joined, sep) {
		entry = strings.TrimSpace(entry)
		if entry == "" || slices.Contains(sp, entry) {
			continue
		}

		sp = append(sp, entry)
	}

	return sp
}

// Lookup returns the first existing file named by name, the contents of a
// <name> path. A prefix=directory entry matches when the first elements of
// name equal the prefix; a plain directory entry matches any name.
func (sp SearchPath) Lookup(name string) (string, bool) {
	name = filepath.Clean(filepath.FromSlash(name))

	for _, entry := range sp {
		dir, rest := entry, name

		if prefix, target, ok := strings.Cut(entry, "="); ok {
			prefix = filepath.Clean(filepath.FromSlash(prefix))

			switch {
			case name == prefix:
				rest = ""
			case strings.HasPrefix(name, prefix+string(filepath.Separator)):
				rest = name[len(prefix)+1:]
			default:
				continue
			}

			dir = target
		}

		path := filepath.Join(dir, rest)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}
