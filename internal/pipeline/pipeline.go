package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Step is one stage of a build.
type Step interface {
	// Do executes the step. A returned error stops the build.
	Do(ctx context.Context, build *Build) error

	// Name returns the step's name for logging and history.
	Name() string
}

// Pipeline runs steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps executing steps after a failure.
	// Only useful for diagnostics; every default step needs its predecessor.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to keep going after a step
// fails. The first error is still recorded in the Build and returned.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against build.
//
// Cancellation is checked before each step; steps handle their own
// in-flight cancellation. The first error is stored in build.Error and
// returned.
func (p *Pipeline) Execute(ctx context.Context, build *Build) error {
	build.StartedAt = time.Now()
	defer func() {
		build.Duration = time.Since(build.StartedAt)
	}()

	var firstErr error
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			if firstErr == nil {
				firstErr = ctx.Err()
				build.Error = firstErr
			}
			return firstErr
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"feed", build.FeedURL,
		)

		build.PerformedSteps = append(build.PerformedSteps, step.Name())

		if err := step.Do(ctx, build); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"feed", build.FeedURL,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
				build.Error = err
			}
			if !p.continueOnError {
				return err
			}
			continue
		}

		p.logger.Debug("step completed", "step", step.Name())
	}

	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
