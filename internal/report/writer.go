package report

import (
	"io"
	"time"

	"github.com/samber/lo"

	"github.com/nao1215/planetpage/internal/model"
)

// Writer renders a list of builds, newest first.
type Writer interface {
	// Write outputs the builds and returns the number of bytes written.
	Write(builds []model.BuildRecord) (int, error)
}

// MultiWriter writes to multiple Writers. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the builds to every writer.
func (m *MultiWriter) Write(builds []model.BuildRecord) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(builds)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Summary aggregates a list of builds.
type Summary struct {
	// Total is the number of builds.
	Total int `json:"total"`

	// Succeeded is the number of builds without error.
	Succeeded int `json:"succeeded"`

	// Failed is the number of builds with an error.
	Failed int `json:"failed"`

	// LastSuccess is the start time of the newest successful build.
	LastSuccess *time.Time `json:"last_success,omitempty"`

	// LatestFailed reports whether the newest build failed.
	LatestFailed bool `json:"latest_failed"`

	// AverageDuration is the mean duration of successful builds.
	AverageDuration time.Duration `json:"average_duration"`
}

// Summarize aggregates builds, which must be sorted newest first.
func Summarize(builds []model.BuildRecord) Summary {
	ok, failed := lo.FilterReject(builds, func(b model.BuildRecord, _ int) bool {
		return b.Succeeded()
	})

	s := Summary{
		Total:     len(builds),
		Succeeded: len(ok),
		Failed:    len(failed),
	}
	if len(builds) > 0 {
		s.LatestFailed = !builds[0].Succeeded()
	}
	if len(ok) > 0 {
		last := ok[0].StartedAt
		s.LastSuccess = &last
		total := lo.SumBy(ok, func(b model.BuildRecord) time.Duration {
			return b.Duration
		})
		s.AverageDuration = total / time.Duration(len(ok))
	}
	return s
}

const timeLayout = "2006-01-02 15:04:05 MST"

func status(b model.BuildRecord) string {
	if b.Succeeded() {
		return "ok"
	}
	return "failed"
}
