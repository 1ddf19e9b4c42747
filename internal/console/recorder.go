package console

import (
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Line is one entry captured by a Recorder.
type Line struct {
	Severity Severity
	Color    lipgloss.Color
	Text     string
}

// Recorder is an in-memory Sink, mostly useful for tests and tool responses.
type Recorder struct {
	mu    sync.Mutex
	lines []Line
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) WriteLine(severity Severity, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, Line{Severity: severity, Text: text})
}

func (r *Recorder) WriteColored(color lipgloss.Color, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, Line{Severity: SeverityPlain, Color: color, Text: text})
}

// Lines returns a copy of everything recorded so far.
func (r *Recorder) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.lines)
}

// Texts returns the recorded text, optionally filtered to the given severities.
func (r *Recorder) Texts(severities ...Severity) []string {
	var out []string
	for _, line := range r.Lines() {
		if len(severities) > 0 && !slices.Contains(severities, line.Severity) {
			continue
		}
		out = append(out, line.Text)
	}
	return out
}

// Contains reports whether any recorded line contains substr.
func (r *Recorder) Contains(substr string) bool {
	for _, line := range r.Lines() {
		if strings.Contains(line.Text, substr) {
			return true
		}
	}
	return false
}

// Reset drops all recorded lines.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}
