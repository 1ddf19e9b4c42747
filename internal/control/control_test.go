package control

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/scripting/environment"
	"github.com/atlanticdynamic/scribe/internal/scripting/finitestate"
	"github.com/atlanticdynamic/scribe/internal/scripting/slot"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robbyt/go-loglater/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitTimeout  = 5 * time.Second
	pollInterval = 5 * time.Millisecond
)

type harness struct {
	slot    *slot.Slot
	rec     *console.Recorder
	session *mcpsdk.ClientSession
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	rec := console.NewRecorder()
	env, err := environment.New(rec, environment.WithPerformanceStats(false))
	require.NoError(t, err)
	s, err := slot.New(env)
	require.NoError(t, err)

	srv, err := NewServer(s, WithImplementation("scribe-test", "v0.0.1"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, session.Close())
		_ = serverSession.Wait()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), waitTimeout)
		defer shutdownCancel()
		assert.NoError(t, s.Shutdown(shutdownCtx))
		cancel()
	})
	return &harness{slot: s, rec: rec, session: session}
}

// call invokes a tool and decodes its structured output into out. It returns
// the raw result so callers can check IsError.
func (h *harness) call(t *testing.T, name string, args any, out any) *mcpsdk.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	res, err := h.session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if out != nil && !res.IsError {
		raw, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return res
}

func errorText(t *testing.T, res *mcpsdk.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok, "unexpected content type %T", res.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	_, err := NewServer(nil)
	assert.ErrorIs(t, err, ErrNilSlot)
}

func TestListTools(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	res, err := h.session.ListTools(ctx, &mcpsdk.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolExecute, ToolInjectLine, ToolStop, ToolStatus, ToolRunLogs}, names)
}

func TestExecuteTool(t *testing.T) {
	t.Parallel()

	t.Run("wait for completion", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		var info RunInfo
		res := h.call(t, ToolExecute, map[string]any{"code": "answer = 6 * 7", "wait": true}, &info)
		require.False(t, res.IsError)
		assert.Equal(t, finitestate.StateCompleted, info.State)
		assert.True(t, info.Finished)
		assert.Empty(t, info.Error)
		assert.NotEmpty(t, info.RunID)

		v, ok := h.slot.Environment().Global("answer")
		require.True(t, ok)
		assert.Equal(t, "42", v.String())
		assert.Contains(t, h.rec.Texts(console.SeverityEcho), "> answer = 6 * 7")
	})

	t.Run("silent", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		var info RunInfo
		h.call(t, ToolExecute, map[string]any{"code": "x = 1", "silent": true, "wait": true}, &info)
		assert.Equal(t, finitestate.StateCompleted, info.State)
		assert.Empty(t, h.rec.Texts(console.SeverityEcho))
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		var info RunInfo
		h.call(t, ToolExecute, map[string]any{"code": "x = (", "wait": true}, &info)
		assert.Equal(t, finitestate.StateFailedSyntax, info.State)
		assert.NotEmpty(t, info.Error)
	})

	t.Run("empty code", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		res := h.call(t, ToolExecute, map[string]any{"code": "  "}, nil)
		assert.Contains(t, errorText(t, res), ErrEmptyCode.Error())
		assert.Nil(t, h.slot.CurrentRun())
	})
}

func TestInjectLineTool(t *testing.T) {
	t.Parallel()

	t.Run("idle runs inline", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		var out InjectLineOutput
		h.call(t, ToolInjectLine, map[string]any{"code": "y = 3"}, &out)
		assert.False(t, out.Queued)
		require.NotNil(t, out.Run)
		assert.True(t, out.Run.Inline)
		assert.Equal(t, finitestate.StateCompleted, out.Run.State)

		v, ok := h.slot.Environment().Global("y")
		require.True(t, ok)
		assert.Equal(t, "3", v.String())
	})

	t.Run("active run queues", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		h.call(t, ToolExecute, map[string]any{"code": "core.sleep(30)", "silent": true}, &RunInfo{})
		require.Eventually(t, h.slot.IsPaused, waitTimeout, pollInterval)

		var out InjectLineOutput
		h.call(t, ToolInjectLine, map[string]any{"code": "z = 1"}, &out)
		assert.True(t, out.Queued)
		assert.Equal(t, 1, out.Queue)
		assert.Nil(t, out.Run)
	})
}

func TestStopAndStatusTools(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	var st Status
	h.call(t, ToolStatus, map[string]any{}, &st)
	assert.Equal(t, Status{}, st)

	var info RunInfo
	h.call(t, ToolExecute, map[string]any{"code": "core.sleep(30)", "silent": true}, &info)

	assert.Eventually(t, func() bool {
		var st Status
		h.call(t, ToolStatus, map[string]any{}, &st)
		return st.Active && st.Paused && st.RunID == info.RunID
	}, waitTimeout, 20*time.Millisecond)

	h.call(t, ToolStop, map[string]any{}, &st)
	assert.Equal(t, info.RunID, st.RunID)

	assert.Eventually(t, func() bool {
		var st Status
		h.call(t, ToolStatus, map[string]any{}, &st)
		return !st.Active && st.State == finitestate.StateAborted
	}, waitTimeout, 20*time.Millisecond)
}

func TestRunLogsTool(t *testing.T) {
	t.Parallel()

	t.Run("no run", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		res := h.call(t, ToolRunLogs, map[string]any{}, nil)
		assert.Contains(t, errorText(t, res), ErrNoRun.Error())
	})

	t.Run("finished run", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		var info RunInfo
		h.call(t, ToolExecute, map[string]any{"code": "a = 1", "wait": true}, &info)

		var out RunLogsOutput
		h.call(t, ToolRunLogs, map[string]any{}, &out)
		assert.Equal(t, info.RunID, out.RunID)

		var messages []string
		for _, rec := range out.Records {
			messages = append(messages, rec.Message)
		}
		assert.Contains(t, messages, "Run finished")
	})
}

func TestConvertRecord(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := storage.Record{
		Time:    when,
		Level:   slog.LevelWarn,
		Message: "something",
		Attrs: []slog.Attr{
			slog.String("run", "abc"),
			slog.Int("steps", 12),
			slog.Group("fsm", slog.String("state", "running")),
		},
	}

	got := convertRecord(rec)
	assert.Equal(t, LogRecord{
		Time:    "2024-05-01T12:00:00Z",
		Level:   "WARN",
		Message: "something",
		Attrs: map[string]string{
			"run":       "abc",
			"steps":     "12",
			"fsm.state": "running",
		},
	}, got)

	empty := convertRecord(storage.Record{Time: when, Level: slog.LevelInfo, Message: "plain"})
	assert.Nil(t, empty.Attrs)
}
