// Package writers opens the log output named in the config file.
package writers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriterType represents the type of writer to create
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Open creates a writer for output. The standard streams are
// never closed by the returned Closer.
// Supported formats:
//   - "stderr" or "" - writes to os.Stderr
//   - "stdout" - writes to os.Stdout
//   - "file:///path/to/file" or "/path/to/file" - appends to the file
func Open(output string) (io.WriteCloser, error) {
	switch ParseWriterType(output) {
	case WriterTypeStdout:
		return nopCloser{os.Stdout}, nil
	case WriterTypeStderr:
		return nopCloser{os.Stderr}, nil
	}

	if strings.Contains(output, "://") && !strings.HasPrefix(output, "file://") {
		return nil, fmt.Errorf("unsupported output format: %s", output)
	}
	return createFileWriter(strings.TrimPrefix(output, "file://"))
}

// createFileWriter creates a file writer, ensuring the directory exists
func createFileWriter(filePath string) (io.WriteCloser, error) {
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	return file, nil
}

// ParseWriterType determines the writer type from an output string
func ParseWriterType(output string) WriterType {
	switch output {
	case "", "stderr":
		return WriterTypeStderr
	case "stdout":
		return WriterTypeStdout
	default:
		return WriterTypeFile
	}
}
