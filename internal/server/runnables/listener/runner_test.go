package listener

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/control"
	"github.com/atlanticdynamic/scribe/internal/scripting/environment"
	"github.com/atlanticdynamic/scribe/internal/scripting/slot"
	"github.com/atlanticdynamic/scribe/internal/testutil"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 5 * time.Second

type mockServer struct {
	mock.Mock
}

func (m *mockServer) Run(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockServer) Stop() {
	m.Called()
}

func (m *mockServer) GetState() string {
	return m.Called().String(0)
}

func (m *mockServer) IsRunning() bool {
	return m.Called().Bool(0)
}

func (m *mockServer) GetStateChan(ctx context.Context) <-chan string {
	return m.Called(ctx).Get(0).(<-chan string)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewRunner(t *testing.T) {
	t.Parallel()

	_, err := NewRunner("", "/mcp", okHandler())
	require.ErrorIs(t, err, ErrEmptyAddress)

	_, err = NewRunner("127.0.0.1:0", "/mcp", nil)
	require.ErrorIs(t, err, ErrNilHandler)

	r, err := NewRunner("127.0.0.1:8765", "/mcp", okHandler(), WithTimeouts(Timeouts{ReadTimeout: time.Second}))
	require.NoError(t, err)
	assert.Equal(t, "listener.Runner[127.0.0.1:8765/mcp]", r.String())
	assert.Equal(t, time.Second, r.timeouts.ReadTimeout)

	cfg, err := r.config()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestRunner_Delegates(t *testing.T) {
	t.Parallel()

	m := &mockServer{}
	r := &Runner{address: "127.0.0.1:1", path: "/mcp", server: m, logger: slog.New(slog.DiscardHandler)}

	ctx := context.Background()
	ch := make(chan string)
	var recv <-chan string = ch

	m.On("Run", ctx).Return(nil).Once()
	m.On("Stop").Once()
	m.On("GetState").Return("Running").Once()
	m.On("IsRunning").Return(true).Once()
	m.On("GetStateChan", ctx).Return(recv).Once()

	require.NoError(t, r.Run(ctx))
	r.Stop()
	assert.Equal(t, "Running", r.GetState())
	assert.True(t, r.IsRunning())
	assert.Equal(t, recv, r.GetStateChan(ctx))
	m.AssertExpectations(t)
}

func TestRunner_ServesControlTools(t *testing.T) {
	t.Parallel()

	env, err := environment.New(console.NewRecorder(), environment.WithPerformanceStats(false))
	require.NoError(t, err)
	s, err := slot.New(env)
	require.NoError(t, err)
	srv, err := control.NewServer(s)
	require.NoError(t, err)

	addr := testutil.FreeAddress(t)
	var logs testutil.SafeBuffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, err := NewRunner(addr, "/mcp", srv.Handler(), WithLogger(logger))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Run(ctx)
	}()

	endpoint := "http://" + addr + "/mcp"
	require.Eventually(t, func() bool {
		resp, err := http.Get(endpoint)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, waitTimeout, 20*time.Millisecond)

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcpsdk.StreamableClientTransport{
		Endpoint:             endpoint,
		DisableStandaloneSSE: true,
	}, nil)
	require.NoError(t, err)

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      control.ToolExecute,
		Arguments: map[string]any{"code": "remote = 1", "wait": true},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	v, ok := env.Global("remote")
	require.True(t, ok)
	assert.Equal(t, "1", v.String())

	require.NoError(t, session.Close())
	assert.Eventually(t, func() bool {
		out := logs.String()
		return strings.Contains(out, "Control request") && strings.Contains(out, "method=POST")
	}, waitTimeout, 10*time.Millisecond)

	r.Stop()
	select {
	case <-errCh:
	case <-time.After(waitTimeout):
		t.Fatal("listener did not stop")
	}
}
