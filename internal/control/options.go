package control

import "log/slog"

type Option func(*Server)

// WithLogger sets a custom logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Server.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Server) {
		s.logger = slog.New(handler)
	}
}

// WithImplementation overrides the name and version announced to clients.
func WithImplementation(name, version string) Option {
	return func(s *Server) {
		s.name = name
		s.version = version
	}
}
