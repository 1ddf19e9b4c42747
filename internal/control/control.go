// Package control exposes the execution slot as MCP tools so a remote client
// can start, feed, stop and inspect scripts.
package control

import (
	"log/slog"
	"net/http"

	"github.com/atlanticdynamic/scribe/internal/scripting/slot"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ToolExecute    = "execute"
	ToolInjectLine = "inject_line"
	ToolStop       = "stop"
	ToolStatus     = "status"
	ToolRunLogs    = "run_logs"
)

// Controller is the part of the execution slot driven by the tools.
type Controller interface {
	Execute(code string, silent bool) *slot.Run
	InjectLine(code string) *slot.Run
	Stop()
	IsActive() bool
	IsPaused() bool
	QueueLen() int
	CurrentRun() *slot.Run
}

var _ Controller = (*slot.Slot)(nil)

// Server holds an MCP server whose tools drive a Controller.
type Server struct {
	ctrl    Controller
	logger  *slog.Logger
	name    string
	version string
	mcp     *mcpsdk.Server
}

// NewServer creates the MCP server and registers every tool.
func NewServer(ctrl Controller, opts ...Option) (*Server, error) {
	if ctrl == nil {
		return nil, ErrNilSlot
	}
	s := &Server{
		ctrl:    ctrl,
		logger:  slog.Default(),
		name:    "scribe",
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithGroup("control")

	s.mcp = mcpsdk.NewServer(&mcpsdk.Implementation{Name: s.name, Version: s.version}, nil)
	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying MCP server, for use with any transport.
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.mcp
}

// Handler serves the MCP streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return s.mcp
	}, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        ToolExecute,
		Description: "Run a script, displacing any running one",
	}, s.execute)
	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        ToolInjectLine,
		Description: "Run a line inline when idle, or queue it for the running script",
	}, s.injectLine)
	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        ToolStop,
		Description: "Abort the running script",
	}, s.stop)
	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        ToolStatus,
		Description: "Report whether a script is running, paused and how much input is queued",
	}, s.status)
	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        ToolRunLogs,
		Description: "Return the log history of the most recent run",
	}, s.runLogs)
}
