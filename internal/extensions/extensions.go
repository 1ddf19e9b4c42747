// Package extensions discovers script files and preloads them into the
// environment before the first run.
package extensions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/robbyt/go-polyscript/platform/script/loader"
)

// DefaultGlob matches extension files in the extensions directory.
const DefaultGlob = "*.star"

// Preloader runs extension code once against the shared environment.
type Preloader interface {
	Preload(ctx context.Context, name, code string) error
}

// Source is one extension ready to be read.
type Source struct {
	Name   string
	Loader loader.Loader
}

// Loader collects extensions from a directory, URIs and inline code.
type Loader struct {
	logger *slog.Logger
	dir    string
	glob   string
	uris   []string
	inline []Source
}

// New creates a Loader. Without options it finds nothing.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger: slog.Default(),
		glob:   DefaultGlob,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithGroup("extensions")
	return l
}

// Discover returns the sorted extension files of the directory. A missing
// directory yields no files.
func (l *Loader) Discover() ([]string, error) {
	if l.dir == "" {
		return nil, nil
	}
	info, err := os.Stat(l.dir)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("Extensions directory not found", "dir", l.dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectory, l.dir)
	}

	matches, err := filepath.Glob(filepath.Join(l.dir, l.glob))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

// Sources returns every extension in load order: directory files first, then
// URIs, then inline code.
func (l *Loader) Sources() ([]Source, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(files)+len(l.uris)+len(l.inline))
	for _, f := range files {
		ld, err := fromURI(f)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Name: filepath.Base(f), Loader: ld})
	}
	for _, uri := range l.uris {
		ld, err := fromURI(uri)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Name: uri, Loader: ld})
	}
	return append(sources, l.inline...), nil
}

// Load reads every source and preloads it into target. Every source is
// attempted; the failures are returned joined along with the number loaded.
func (l *Loader) Load(ctx context.Context, target Preloader) (int, error) {
	sources, err := l.Sources()
	if err != nil {
		return 0, err
	}

	var errs []error
	loaded := 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		code, err := read(src.Loader)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrRead, src.Name, err))
			continue
		}
		if err := target.Preload(ctx, src.Name, code); err != nil {
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrPreload, src.Name, err))
			continue
		}
		loaded++
		l.logger.Info("Extension loaded", "name", src.Name, "source", src.Loader.GetSourceURL())
	}
	return loaded, errors.Join(errs...)
}

func read(ld loader.Loader) (string, error) {
	r, err := ld.GetReader()
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fromURI(uri string) (loader.Loader, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return loader.NewFromHTTP(uri)
	}

	path := strings.TrimPrefix(uri, "file://")
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
		}
		path = abs
	}
	return loader.NewFromDisk(path)
}

// ReadURI reads a single script from a file path, file:// URI or http(s) URL.
func ReadURI(uri string) (string, error) {
	ld, err := fromURI(uri)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrRead, uri, err)
	}
	code, err := read(ld)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrRead, uri, err)
	}
	return code, nil
}
