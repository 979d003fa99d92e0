package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/planetpage/internal/model"
)

// MarkdownWriter outputs the history as Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the builds in Markdown format.
func (w *MarkdownWriter) Write(builds []model.BuildRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("planetpage build history")
	md.PlainText("")

	if len(builds) == 0 {
		md.Note("No builds recorded.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	s := Summarize(builds)
	w.writeSummary(md, s)
	w.writeAlert(md, builds[0], s)
	w.writeBuilds(md, builds)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s Summary) {
	lastSuccess := "never"
	if s.LastSuccess != nil {
		lastSuccess = s.LastSuccess.Format(timeLayout)
	}

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Builds", strconv.Itoa(s.Total)},
			{"Succeeded", strconv.Itoa(s.Succeeded)},
			{"Failed", strconv.Itoa(s.Failed)},
			{"Last success", lastSuccess},
			{"Average duration", s.AverageDuration.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	if s.Failed > 0 && s.Succeeded > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Build outcome"),
			piechart.WithShowData(true),
		)
		chart.LabelAndIntValue("Succeeded", uint64(s.Succeeded)) //nolint:gosec // counts are non-negative
		chart.LabelAndIntValue("Failed", uint64(s.Failed))       //nolint:gosec // counts are non-negative
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, latest model.BuildRecord, s Summary) {
	switch {
	case s.Succeeded == 0:
		md.Cautionf("No build has succeeded yet. Latest error: %s", latest.Error)
	case s.LatestFailed:
		md.Warningf("The latest build failed: %s", latest.Error)
	default:
		md.Tip("The latest build succeeded.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeBuilds(md *markdown.Markdown, builds []model.BuildRecord) {
	rows := make([][]string, 0, len(builds))
	for _, b := range builds {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.StartedAt.Format(timeLayout),
			status(b),
			strconv.Itoa(b.ItemCount),
			strconv.Itoa(b.Bytes),
			b.Duration.Round(time.Millisecond).String(),
			"`" + b.Destination() + "`",
		})
	}

	md.H2("Builds")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Status", "Items", "Bytes", "Duration", "Output"},
		Rows:   rows,
	})
	md.PlainText("")
}
