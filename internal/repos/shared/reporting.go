package shared

import (
	"fmt"
	"io"
	"os"
)

// Reporter prints operator-facing notices that are not part of the per-repository report.
type Reporter interface {
	Printf(format string, args ...any)
}

type writerReporter struct {
	writer io.Writer
}

// NewWriterReporter constructs a Reporter that writes to writer, defaulting to standard error.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = os.Stderr
	}
	return writerReporter{writer: writer}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	fmt.Fprintf(reporter.writer, format, args...)
}
