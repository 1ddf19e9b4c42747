package console

import "github.com/charmbracelet/lipgloss"

type multiSink []Sink

// Multi fans every line out to all sinks, in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) WriteLine(severity Severity, text string) {
	for _, s := range m {
		s.WriteLine(severity, text)
	}
}

func (m multiSink) WriteColored(color lipgloss.Color, text string) {
	for _, s := range m {
		s.WriteColored(color, text)
	}
}
