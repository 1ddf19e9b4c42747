package control

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atlanticdynamic/scribe/internal/scripting/slot"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robbyt/go-loglater/storage"
)

type ExecuteInput struct {
	Code   string `json:"code"             jsonschema:"script source to run"`
	Silent bool   `json:"silent,omitempty" jsonschema:"do not echo the code to the console"`
	Wait   bool   `json:"wait,omitempty"   jsonschema:"block until the run has finished"`
}

type InjectLineInput struct {
	Code string `json:"code" jsonschema:"one line of console input"`
}

type Empty struct{}

// RunInfo describes one run.
type RunInfo struct {
	RunID     string `json:"run_id"`
	State     string `json:"state"`
	Inline    bool   `json:"inline,omitempty"`
	Finished  bool   `json:"finished"`
	Error     string `json:"error,omitempty"`
	Steps     uint64 `json:"steps,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms,omitempty"`
}

type InjectLineOutput struct {
	Queued bool     `json:"queued"`
	Queue  int      `json:"queue"`
	Run    *RunInfo `json:"run,omitempty"`
}

// Status is a point-in-time view of the slot.
type Status struct {
	Active bool   `json:"active"`
	Paused bool   `json:"paused"`
	Queued int    `json:"queued"`
	RunID  string `json:"run_id,omitempty"`
	State  string `json:"state,omitempty"`
}

// LogRecord is one entry of a run's log history.
type LogRecord struct {
	Time    string            `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

type RunLogsOutput struct {
	RunID   string      `json:"run_id"`
	Records []LogRecord `json:"records"`
}

func (s *Server) execute(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	in ExecuteInput,
) (*mcpsdk.CallToolResult, RunInfo, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, RunInfo{}, ErrEmptyCode
	}
	run := s.ctrl.Execute(in.Code, in.Silent)
	s.logger.Debug("Execute requested", "run", run.ID, "wait", in.Wait)
	if in.Wait {
		if err := run.Wait(ctx); err != nil {
			return nil, RunInfo{}, fmt.Errorf("waiting for run %s: %w", run.ID, err)
		}
	}
	return nil, runInfo(run), nil
}

func (s *Server) injectLine(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	in InjectLineInput,
) (*mcpsdk.CallToolResult, InjectLineOutput, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, InjectLineOutput{}, ErrEmptyCode
	}
	run := s.ctrl.InjectLine(in.Code)
	if run == nil {
		return nil, InjectLineOutput{Queued: true, Queue: s.ctrl.QueueLen()}, nil
	}
	info := runInfo(run)
	return nil, InjectLineOutput{Queue: s.ctrl.QueueLen(), Run: &info}, nil
}

func (s *Server) stop(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ Empty,
) (*mcpsdk.CallToolResult, Status, error) {
	s.logger.Debug("Stop requested")
	s.ctrl.Stop()
	return nil, s.snapshot(), nil
}

func (s *Server) status(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ Empty,
) (*mcpsdk.CallToolResult, Status, error) {
	return nil, s.snapshot(), nil
}

func (s *Server) runLogs(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ Empty,
) (*mcpsdk.CallToolResult, RunLogsOutput, error) {
	run := s.ctrl.CurrentRun()
	if run == nil {
		return nil, RunLogsOutput{}, ErrNoRun
	}
	logs := run.Logs()
	out := RunLogsOutput{
		RunID:   run.ID.String(),
		Records: make([]LogRecord, 0, len(logs)),
	}
	for _, rec := range logs {
		out.Records = append(out.Records, convertRecord(rec))
	}
	return nil, out, nil
}

func (s *Server) snapshot() Status {
	st := Status{
		Active: s.ctrl.IsActive(),
		Paused: s.ctrl.IsPaused(),
		Queued: s.ctrl.QueueLen(),
	}
	if run := s.ctrl.CurrentRun(); run != nil {
		st.RunID = run.ID.String()
		st.State = run.State()
	}
	return st
}

func runInfo(run *slot.Run) RunInfo {
	info := RunInfo{
		RunID:    run.ID.String(),
		State:    run.State(),
		Inline:   run.Inline,
		Finished: run.Finished(),
	}
	if info.Finished {
		info.Steps = run.Steps()
		info.ElapsedMS = run.Elapsed().Milliseconds()
		if err := run.Err(); err != nil {
			info.Error = err.Error()
		}
	}
	return info
}

// convertRecord flattens a stored log record, rendering attribute values as
// strings and group members under dotted keys.
func convertRecord(rec storage.Record) LogRecord {
	out := LogRecord{
		Time:    rec.Time.Format(time.RFC3339Nano),
		Level:   rec.Level.String(),
		Message: rec.Message,
	}
	if len(rec.Attrs) == 0 {
		return out
	}
	out.Attrs = make(map[string]string, len(rec.Attrs))
	for _, attr := range rec.Attrs {
		flattenAttr(out.Attrs, "", attr)
	}
	return out
}

func flattenAttr(dst map[string]string, prefix string, attr slog.Attr) {
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	val := attr.Value.Resolve()
	if val.Kind() == slog.KindGroup {
		for _, member := range val.Group() {
			flattenAttr(dst, key, member)
		}
		return
	}
	dst[key] = val.String()
}
