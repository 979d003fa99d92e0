package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/planetpage/internal/model"
)

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// sampleBuilds returns three builds, newest first; the middle one failed.
func sampleBuilds() []model.BuildRecord {
	return []model.BuildRecord{
		{
			ID: 3, StartedAt: base.Add(2 * time.Hour),
			FeedURL: "http://www.afpy.org/planet/rss.xml", LandingURL: "http://www.afpy.org/",
			ItemCount: 12, OutputPath: "/srv/www/planet.html", OutputHash: "h3", Bytes: 4096,
			Duration: 3 * time.Second, Steps: []string{"fetch", "serialize"},
		},
		{
			ID: 2, StartedAt: base.Add(time.Hour),
			FeedURL: "http://www.afpy.org/planet/rss.xml", LandingURL: "http://www.afpy.org/",
			Duration: 60 * time.Second, Steps: []string{"fetch"}, Error: "failed to fetch feed: timeout",
		},
		{
			ID: 1, StartedAt: base,
			FeedURL: "http://www.afpy.org/planet/rss.xml", LandingURL: "http://www.afpy.org/",
			ItemCount: 10, OutputHash: "h1", Bytes: 4000, Duration: time.Second,
		},
	}
}

// TestSummarize tests history aggregation.
func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("mixed history", func(t *testing.T) {
		t.Parallel()

		s := Summarize(sampleBuilds())
		if s.Total != 3 || s.Succeeded != 2 || s.Failed != 1 {
			t.Errorf("unexpected counts: %+v", s)
		}
		if s.LastSuccess == nil || !s.LastSuccess.Equal(base.Add(2*time.Hour)) {
			t.Errorf("unexpected last success: %v", s.LastSuccess)
		}
		if s.LatestFailed {
			t.Error("latest build succeeded")
		}
		if s.AverageDuration != 2*time.Second {
			t.Errorf("AverageDuration = %v, want 2s", s.AverageDuration)
		}
	})

	t.Run("latest failed", func(t *testing.T) {
		t.Parallel()

		s := Summarize(sampleBuilds()[1:])
		if !s.LatestFailed {
			t.Error("expected LatestFailed")
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		s := Summarize(nil)
		if s.Total != 0 || s.LastSuccess != nil || s.AverageDuration != 0 {
			t.Errorf("unexpected summary: %+v", s)
		}
	})
}

// TestSimpleWriter tests text output.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("lists builds", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(sampleBuilds())
		if err != nil {
			t.Fatalf("Write() error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"PLANETPAGE BUILD HISTORY",
			"Builds:        3 (2 ok, 1 failed)",
			"/srv/www/planet.html",
			"stdout",
			"failed",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
		if strings.Contains(out, "timeout") {
			t.Error("error details are only shown in verbose mode")
		}
	})

	t.Run("verbose shows details", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(sampleBuilds()); err != nil {
			t.Fatal(err)
		}

		out := buf.String()
		if !strings.Contains(out, "error:   failed to fetch feed: timeout") {
			t.Errorf("expected error details:\n%s", out)
		}
		if !strings.Contains(out, "steps:   fetch > serialize") {
			t.Errorf("expected step list:\n%s", out)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "No builds recorded.") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round trips builds and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteWithVersion(sampleBuilds(), "v1.2.3"); err != nil {
			t.Fatalf("Write() error: %v", err)
		}

		var got History
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if got.Version != "v1.2.3" {
			t.Errorf("Version = %q", got.Version)
		}
		if len(got.Builds) != 3 || got.Builds[1].Error == "" {
			t.Errorf("unexpected builds: %+v", got.Builds)
		}
		if got.Summary.Failed != 1 {
			t.Errorf("unexpected summary: %+v", got.Summary)
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleBuilds()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\n  \"summary\"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"builds":[]`) {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("tables and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleBuilds()); err != nil {
			t.Fatalf("Write() error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# planetpage build history",
			"## Summary",
			"## Builds",
			"```mermaid",
			"Build outcome",
			"`/srv/www/planet.html`",
			"[!TIP]",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("latest build failed", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleBuilds()[1:]); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Errorf("expected a warning:\n%s", buf.String())
		}
	})

	t.Run("no chart without failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleBuilds()[:1]); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(buf.String(), "mermaid") {
			t.Errorf("unexpected chart:\n%s", buf.String())
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "No builds recorded.") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}

type errWriter struct{}

func (errWriter) Write([]model.BuildRecord) (int, error) {
	return 0, errors.New("disk full")
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		n, err := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b)).Write(sampleBuilds())
		if err != nil {
			t.Fatal(err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, a.Len()+b.Len())
		}
	})

	t.Run("stops on error", func(t *testing.T) {
		t.Parallel()

		var a bytes.Buffer
		_, err := NewMultiWriter(errWriter{}, NewSimpleWriter(&a)).Write(sampleBuilds())
		if err == nil {
			t.Error("expected an error")
		}
		if a.Len() != 0 {
			t.Error("later writers must not run after an error")
		}
	})
}
