// Package console implements the line-oriented output sink scripts and the
// execution core write to.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/atlanticdynamic/scribe/internal/fancy"
	"github.com/charmbracelet/lipgloss"
)

// Severity tags a line written to a Sink.
type Severity int

const (
	SeverityPlain Severity = iota
	SeverityStatus
	SeverityEcho
	SeverityDebug
	SeverityPerf
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityPlain:
		return "plain"
	case SeverityStatus:
		return "status"
	case SeverityEcho:
		return "echo"
	case SeverityDebug:
		return "debug"
	case SeverityPerf:
		return "perf"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Sink accepts severity-tagged and explicitly colored lines.
type Sink interface {
	WriteLine(severity Severity, text string)
	WriteColored(color lipgloss.Color, text string)
}

// Writer is a Sink rendering lines onto an io.Writer.
type Writer struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	color    bool
	styles   map[Severity]lipgloss.Style
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithColor toggles styling of the rendered lines.
func WithColor(enabled bool) WriterOption {
	return func(w *Writer) {
		w.color = enabled
	}
}

// NewWriter creates a Sink writing to out, or os.Stdout when out is nil.
func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	if out == nil {
		out = os.Stdout
	}
	w := &Writer{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		color:    true,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.styles = map[Severity]lipgloss.Style{
		SeverityStatus: w.renderer.NewStyle().Inherit(fancy.StatusStyle),
		SeverityEcho:   w.renderer.NewStyle().Inherit(fancy.EchoStyle),
		SeverityDebug:  w.renderer.NewStyle().Inherit(fancy.EchoStyle),
		SeverityPerf:   w.renderer.NewStyle().Inherit(fancy.PerfStyle),
		SeverityError:  w.renderer.NewStyle().Inherit(fancy.ErrorStyle),
	}
	return w
}

// WriteLine renders text with the style registered for severity.
func (w *Writer) WriteLine(severity Severity, text string) {
	if w.color {
		if style, ok := w.styles[severity]; ok {
			text = style.Render(text)
		}
	}
	w.emit(text)
}

// WriteColored renders text in the given color.
func (w *Writer) WriteColored(color lipgloss.Color, text string) {
	if w.color {
		text = w.renderer.NewStyle().Foreground(color).Render(text)
	}
	w.emit(text)
}

func (w *Writer) emit(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintln(w.out, text)
}

// Discard is a Sink that drops every line.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteLine(Severity, string)          {}
func (discard) WriteColored(lipgloss.Color, string) {}
