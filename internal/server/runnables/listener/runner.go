// Package listener serves the MCP control surface over HTTP on a
// go-supervisor httpserver runnable.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// serverImplementation abstracts the underlying HTTP server sub-runnable
type serverImplementation interface {
	Run(ctx context.Context) error
	Stop()
	GetState() string
	IsRunning() bool
	GetStateChan(ctx context.Context) <-chan string
}

type Runner struct {
	address  string
	path     string
	route    httpserver.Route
	timeouts Timeouts
	server   serverImplementation
	logger   *slog.Logger
}

// NewRunner creates a Runner serving handler at path on address.
func NewRunner(address, path string, handler http.Handler, opts ...Option) (*Runner, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}
	if handler == nil {
		return nil, ErrNilHandler
	}
	r := &Runner{
		address: address,
		path:    path,
		logger:  slog.Default().WithGroup("listener.Runner"),
	}
	for _, opt := range opts {
		opt(r)
	}

	route, err := httpserver.NewRouteFromHandlerFunc("control", path, handler.ServeHTTP, accessLog(r.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create control route: %w", err)
	}
	r.route = *route

	runner, err := httpserver.NewRunner(httpserver.WithConfigCallback(r.config))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server runner: %w", err)
	}
	r.server = runner
	return r, nil
}

func (r *Runner) config() (*httpserver.Config, error) {
	options := []httpserver.ConfigOption{}
	if r.timeouts.ReadTimeout > 0 {
		options = append(options, httpserver.WithReadTimeout(r.timeouts.ReadTimeout))
	}
	if r.timeouts.WriteTimeout > 0 {
		options = append(options, httpserver.WithWriteTimeout(r.timeouts.WriteTimeout))
	}
	if r.timeouts.IdleTimeout > 0 {
		options = append(options, httpserver.WithIdleTimeout(r.timeouts.IdleTimeout))
	}
	if r.timeouts.DrainTimeout > 0 {
		options = append(options, httpserver.WithDrainTimeout(r.timeouts.DrainTimeout))
	}

	cfg, err := httpserver.NewConfig(r.address, []httpserver.Route{r.route}, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server config: %w", err)
	}
	return cfg, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return fmt.Sprintf("listener.Runner[%s%s]", r.address, r.path)
}

// Run implements the supervisor.Runnable interface
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Starting control listener", "address", r.address, "path", r.path)
	return r.server.Run(ctx)
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Info("Stopping control listener", "address", r.address)
	r.server.Stop()
}

func (r *Runner) GetState() string {
	return r.server.GetState()
}

func (r *Runner) IsRunning() bool {
	return r.server.IsRunning()
}

func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.server.GetStateChan(ctx)
}
