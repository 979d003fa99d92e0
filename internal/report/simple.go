package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/planetpage/internal/model"
)

// SimpleWriter outputs the history as plain text.
type SimpleWriter struct {
	baseWriter

	// verbose adds the step list and error details of each build.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-build details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the builds in human-readable format.
func (w *SimpleWriter) Write(builds []model.BuildRecord) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                     PLANETPAGE BUILD HISTORY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if len(builds) == 0 {
		sb.WriteString("No builds recorded.\n")
		return w.output.Write([]byte(sb.String()))
	}

	s := Summarize(builds)
	fmt.Fprintf(&sb, "Builds:        %d (%d ok, %d failed)\n", s.Total, s.Succeeded, s.Failed)
	if s.LastSuccess != nil {
		fmt.Fprintf(&sb, "Last success:  %s\n", s.LastSuccess.Format(timeLayout))
		fmt.Fprintf(&sb, "Average time:  %s\n", s.AverageDuration.Round(time.Millisecond))
	} else {
		sb.WriteString("Last success:  never\n")
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	for _, b := range builds {
		fmt.Fprintf(&sb, "#%-4d %s  %-6s  %3d items  %8d bytes  %s\n",
			b.ID,
			b.StartedAt.Format(timeLayout),
			status(b),
			b.ItemCount,
			b.Bytes,
			b.Destination(),
		)
		if !w.verbose {
			continue
		}
		fmt.Fprintf(&sb, "      feed:    %s\n", b.FeedURL)
		fmt.Fprintf(&sb, "      landing: %s\n", b.LandingURL)
		fmt.Fprintf(&sb, "      steps:   %s\n", strings.Join(b.Steps, " > "))
		if b.OutputHash != "" {
			fmt.Fprintf(&sb, "      sha3:    %s\n", b.OutputHash)
		}
		if !b.Succeeded() {
			fmt.Fprintf(&sb, "      error:   %s\n", b.Error)
		}
	}

	return w.output.Write([]byte(sb.String()))
}
