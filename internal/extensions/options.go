package extensions

import (
	"log/slog"

	"github.com/robbyt/go-polyscript/platform/script/loader"
)

type Option func(*Loader)

// WithLogger sets a custom logger for the Loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Loader.
func WithLogHandler(handler slog.Handler) Option {
	return func(l *Loader) {
		l.logger = slog.New(handler)
	}
}

// WithDirectory scans dir for files matching glob. An empty glob keeps the
// default.
func WithDirectory(dir, glob string) Option {
	return func(l *Loader) {
		l.dir = dir
		if glob != "" {
			l.glob = glob
		}
	}
}

// WithURIs adds file paths, file:// or http(s):// URIs.
func WithURIs(uris ...string) Option {
	return func(l *Loader) {
		l.uris = append(l.uris, uris...)
	}
}

// WithInline adds extension code held in memory.
func WithInline(name, code string) Option {
	return func(l *Loader) {
		ld, err := loader.NewFromString(code)
		if err != nil {
			l.logger.Warn("Skipping inline extension", "name", name, "error", err)
			return
		}
		l.inline = append(l.inline, Source{Name: name, Loader: ld})
	}
}
