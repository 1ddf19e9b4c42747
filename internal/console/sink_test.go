package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/atlanticdynamic/scribe/internal/fancy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Plain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WithColor(false))

	w.WriteLine(SeverityStatus, "-- ready")
	w.WriteLine(SeverityError, "Runtime Error: boom")
	w.WriteColored(fancy.ColorEcho, "> x = 1")

	assert.Equal(t, "-- ready\nRuntime Error: boom\n> x = 1\n", buf.String())
}

func TestWriter_ColorKeepsText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteLine(SeverityError, "Syntax Error: bad")

	assert.Contains(t, buf.String(), "Syntax Error: bad")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriter_ConcurrentLinesStayWhole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WithColor(false))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.WriteLine(SeverityPlain, "0123456789")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		assert.Equal(t, "0123456789", line)
	}
}

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "debug", SeverityDebug.String())
	assert.Equal(t, "Severity(42)", Severity(42).String())
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.WriteLine(SeverityDebug, "printed")
	r.WriteLine(SeverityError, "Runtime Error: nope")
	r.WriteColored(fancy.ColorStatus, "colored")

	assert.Len(t, r.Lines(), 3)
	assert.Equal(t, []string{"Runtime Error: nope"}, r.Texts(SeverityError))
	assert.Equal(t, []string{"printed", "Runtime Error: nope", "colored"}, r.Texts())
	assert.True(t, r.Contains("nope"))
	assert.False(t, r.Contains("missing"))

	r.Reset()
	assert.Empty(t, r.Lines())
}

func TestMulti(t *testing.T) {
	t.Parallel()

	a, b := NewRecorder(), NewRecorder()
	sink := Multi(a, b, Discard)
	sink.WriteLine(SeverityStatus, "hello")
	sink.WriteColored(fancy.ColorError, "red")

	assert.Equal(t, []string{"hello", "red"}, a.Texts())
	assert.Equal(t, a.Lines(), b.Lines())
}
