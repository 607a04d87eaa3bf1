package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/nixeval/lang"
	"github.com/ardnew/nixeval/log"
)

// defaultFile is the file imported when an import names a directory.
const defaultFile = "default.nix"

// Importer loads the files named by import expressions. Each file is parsed
// and evaluated once, in an environment holding only the builtins, and its
// value is shared by every later import.
type Importer struct {
	search SearchPath
	logger log.Logger

	mu     sync.Mutex
	cache  map[string]lang.Value
	active []string
}

// NewImporter returns an Importer resolving <name> paths with search.
func NewImporter(search SearchPath, logger log.Logger) *Importer {
	return &Importer{
		search: search,
		logger: logger,
		cache:  make(map[string]lang.Value),
	}
}

// For returns the [lang.Importer] used while evaluating the source named
// name. Relative paths are resolved against the directory of that source,
// or the working directory when name is not a file.
func (im *Importer) For(name string) lang.Importer {
	dir := "."
	if name != "" && !strings.HasPrefix(name, "<") {
		dir = filepath.Dir(name)
	}

	return lang.ImporterFunc(func(ctx context.Context, path lang.Value) (lang.Value, error) {
		return im.load(ctx, dir, path)
	})
}

// resolve returns the absolute name of the file path refers to.
func (im *Importer) resolve(dir string, path lang.Value) (string, error) {
	var file string

	switch p := path.(type) {
	case lang.Path:
		file = string(p)
	case lang.Str:
		file = string(p)
	case lang.NixPath:
		found, ok := im.search.Lookup(string(p))
		if !ok {
			return "", ErrNotFound.With(
				slog.String("path", lang.FormatValue(p)),
				slog.Any("search", []string(im.search)),
			)
		}

		file = found
	default:
		return "", lang.ErrTypeMismatch.Detailf("cannot import %s", path.Type())
	}

	if home, ok := strings.CutPrefix(file, "~/"); ok {
		if dir, err := os.UserHomeDir(); err == nil {
			file = filepath.Join(dir, home)
		}
	}

	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}

	file, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(file); err == nil && info.IsDir() {
		file = filepath.Join(file, defaultFile)
	}

	return file, nil
}

func (im *Importer) load(ctx context.Context, dir string, path lang.Value) (lang.Value, error) {
	file, err := im.resolve(dir, path)
	if err != nil {
		return nil, err
	}

	im.mu.Lock()

	if v, ok := im.cache[file]; ok {
		im.mu.Unlock()

		return v, nil
	}

	if slices.Contains(im.active, file) {
		chain := append(slices.Clone(im.active), file)
		im.mu.Unlock()

		return nil, ErrImportCycle.With(slog.String("chain", strings.Join(chain, " -> ")))
	}

	im.active = append(im.active, file)
	im.mu.Unlock()

	defer func() {
		im.mu.Lock()
		im.active = slices.DeleteFunc(im.active, func(s string) bool { return s == file })
		im.mu.Unlock()
	}()

	im.logger.DebugContext(ctx, "import", slog.String("file", file))

	v, err := im.eval(ctx, file)
	if err != nil {
		return nil, err
	}

	im.mu.Lock()
	im.cache[file] = v
	im.mu.Unlock()

	return v, nil
}

func (im *Importer) eval(ctx context.Context, file string) (lang.Value, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("file", file))
	}

	src := lang.NewNamedSource(file, string(data))

	ast, err := lang.Parse(ctx, src, lang.WithLogger(im.logger))
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("file", file))
	}

	return lang.EvalAST(ctx, ast, lang.Builtins(),
		lang.WithImporter(im.For(file)),
		lang.WithEvalLogger(im.logger),
	)
}
