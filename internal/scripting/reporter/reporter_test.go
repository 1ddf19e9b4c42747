package reporter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

func execErr(t *testing.T, code string) error {
	t.Helper()
	thread := &starlark.Thread{Name: "test"}
	_, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, "test.star", code, nil)
	require.Error(t, err)
	return err
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  func(t *testing.T) error
		want Kind
	}{
		{
			name: "parse error",
			err:  func(t *testing.T) error { return execErr(t, "x = (") },
			want: KindSyntax,
		},
		{
			name: "undefined name is rejected before execution",
			err:  func(t *testing.T) error { return execErr(t, "x = nope") },
			want: KindSyntax,
		},
		{
			name: "runtime failure",
			err:  func(t *testing.T) error { return execErr(t, "x = 1 // 0") },
			want: KindRuntime,
		},
		{
			name: "wrapped runtime failure",
			err: func(t *testing.T) error {
				return fmt.Errorf("while running: %w", execErr(t, "fail('boom')"))
			},
			want: KindRuntime,
		},
		{
			name: "foreign error",
			err:  func(t *testing.T) error { return errors.New("disk on fire") },
			want: KindUnclassified,
		},
		{
			name: "nil",
			err:  func(t *testing.T) error { return nil },
			want: KindUnclassified,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err(t)))
		})
	}
}

func TestReporter_Report(t *testing.T) {
	t.Parallel()

	t.Run("syntax error", func(t *testing.T) {
		rec := console.NewRecorder()
		r := New(rec, nil)

		assert.True(t, r.Report(execErr(t, "def")))
		lines := rec.Texts(console.SeverityError)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "Syntax Error: ")
	})

	t.Run("runtime error uses the message without backtrace", func(t *testing.T) {
		rec := console.NewRecorder()
		r := New(rec, nil)

		assert.True(t, r.Report(execErr(t, "fail('boom')")))
		lines := rec.Texts(console.SeverityError)
		require.Len(t, lines, 1)
		assert.Equal(t, "Runtime Error: fail: boom", lines[0])
	})

	t.Run("unclassified errors are not reported", func(t *testing.T) {
		rec := console.NewRecorder()
		r := New(rec, nil)

		assert.False(t, r.Report(errors.New("not ours")))
		assert.Empty(t, rec.Lines())
	})

	t.Run("WithSink redirects output", func(t *testing.T) {
		first, second := console.NewRecorder(), console.NewRecorder()
		r := New(first, nil).WithSink(second)

		assert.True(t, r.Report(execErr(t, "fail('x')")))
		assert.Empty(t, first.Lines())
		assert.Len(t, second.Lines(), 1)
	})
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Syntax Error", KindSyntax.String())
	assert.Equal(t, "Runtime Error", KindRuntime.String())
	assert.Equal(t, "Unclassified Error", KindUnclassified.String())
}
