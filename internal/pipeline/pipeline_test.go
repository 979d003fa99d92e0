package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, build *Build) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, build *Build) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, build)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))
		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if p.StepCount() != 3 {
		t.Fatalf("expected 3 steps, got %d", p.StepCount())
	}

	expected := []string{"first", "second", "third"}
	for i, name := range p.StepNames() {
		if name != expected[i] {
			t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
		}
	}
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"fetch", "sanitize", "serialize"} {
			p.AddStep(&mockStep{name: name, doFunc: func(_ context.Context, _ *Build) error {
				order = append(order, name)
				return nil
			}})
		}

		build := NewBuild("http://example.com/rss.xml", "http://example.com/")
		if err := p.Execute(t.Context(), build); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if strings.Join(order, ",") != "fetch,sanitize,serialize" {
			t.Errorf("unexpected order: %v", order)
		}
		if strings.Join(build.PerformedSteps, ",") != "fetch,sanitize,serialize" {
			t.Errorf("unexpected performed steps: %v", build.PerformedSteps)
		}
		if build.StartedAt.IsZero() {
			t.Error("expected StartedAt to be set")
		}
		if build.Error != nil {
			t.Errorf("expected no error, got %v", build.Error)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("feed unreachable")
		failing := &mockStep{name: "fetch", doFunc: func(_ context.Context, _ *Build) error {
			return boom
		}}
		after := &mockStep{name: "sanitize"}

		p := New()
		p.AddSteps(failing, after)

		build := NewBuild("http://example.com/rss.xml", "http://example.com/")
		err := p.Execute(t.Context(), build)

		if !errors.Is(err, boom) {
			t.Errorf("expected %v, got %v", boom, err)
		}
		if after.callCount != 0 {
			t.Error("expected later steps to be skipped")
		}
		if !errors.Is(build.Error, boom) {
			t.Errorf("expected build error to be recorded, got %v", build.Error)
		}
		if len(build.PerformedSteps) != 1 || build.PerformedSteps[0] != "fetch" {
			t.Errorf("expected the failed step to be recorded, got %v", build.PerformedSteps)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		first := errors.New("first")
		second := errors.New("second")
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&mockStep{name: "a", doFunc: func(_ context.Context, _ *Build) error { return first }},
			&mockStep{name: "b", doFunc: func(_ context.Context, _ *Build) error { return second }},
		)
		last := &mockStep{name: "c"}
		p.AddStep(last)

		build := NewBuild("", "")
		err := p.Execute(t.Context(), build)

		if !errors.Is(err, first) {
			t.Errorf("expected first error to be returned, got %v", err)
		}
		if last.callCount != 1 {
			t.Error("expected the last step to run")
		}
		if len(build.PerformedSteps) != 3 {
			t.Errorf("expected 3 performed steps, got %v", build.PerformedSteps)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		p := New()
		p.AddSteps(
			&mockStep{name: "fetch", doFunc: func(_ context.Context, _ *Build) error {
				cancel()
				return nil
			}},
			&mockStep{name: "sanitize"},
		)

		build := NewBuild("", "")
		err := p.Execute(ctx, build)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(build.PerformedSteps) != 1 {
			t.Errorf("expected only the first step, got %v", build.PerformedSteps)
		}
		if !errors.Is(build.Error, context.Canceled) {
			t.Errorf("expected cancellation to be recorded, got %v", build.Error)
		}
	})
}

// TestPipelineWithLogger tests that steps are logged to the given logger.
func TestPipelineWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := New(WithLogger(logger))
	p.AddStep(&mockStep{name: "render_feed"})

	if err := p.Execute(t.Context(), NewBuild("http://example.com/rss.xml", "")); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "executing step") || !strings.Contains(out, "step=render_feed") {
		t.Errorf("expected step log, got: %s", out)
	}
	if !strings.Contains(out, "step completed") {
		t.Errorf("expected completion log, got: %s", out)
	}
}

// TestBuildRecord tests the history summary of a build.
func TestBuildRecord(t *testing.T) {
	t.Parallel()

	t.Run("successful build", func(t *testing.T) {
		t.Parallel()

		build := NewBuild("http://example.com/rss.xml", "http://example.com/")
		build.HTML = []byte("<!DOCTYPE html>")
		build.PerformedSteps = []string{"fetch", "serialize"}

		rec := build.Record("/srv/www/planet.html")

		if rec.OutputHash == "" {
			t.Error("expected output hash")
		}
		if rec.Bytes != len(build.HTML) {
			t.Errorf("expected %d bytes, got %d", len(build.HTML), rec.Bytes)
		}
		if !rec.Succeeded() {
			t.Error("expected success")
		}
		build.PerformedSteps[0] = "changed"
		if rec.Steps[0] != "fetch" {
			t.Error("record must not share the steps slice")
		}
	})

	t.Run("failed build", func(t *testing.T) {
		t.Parallel()

		build := NewBuild("http://example.com/rss.xml", "http://example.com/")
		build.Error = errors.New("timeout")

		rec := build.Record("")
		if rec.Succeeded() {
			t.Error("expected failure")
		}
		if rec.Error != "timeout" {
			t.Errorf("unexpected error message %q", rec.Error)
		}
		if rec.OutputHash != "" {
			t.Errorf("expected no hash, got %q", rec.OutputHash)
		}
	})
}
