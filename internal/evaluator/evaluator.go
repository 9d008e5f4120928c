// Package evaluator wires the pipeline together: dependency bootstrap, test
// execution, output parsing, quality analysis, and scoring for each condition,
// then cross-condition comparison. Within one condition everything is strictly
// sequential; independent conditions run concurrently because each owns its
// working directory and all results are immutable values.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/probeworks/gauge/internal/compare"
	"github.com/probeworks/gauge/internal/models"
	"github.com/probeworks/gauge/internal/parser"
	"github.com/probeworks/gauge/internal/quality"
	"github.com/probeworks/gauge/internal/runner"
	"github.com/probeworks/gauge/internal/scoring"
)

// Condition is one evaluation target: a directory holding an implementation
// and its test suite, optionally a dependency manifest.
type Condition struct {
	Label string
	Dir   string

	// Implementation is the implementation file, relative to Dir. When set,
	// quality signals are derived from it.
	Implementation string

	// Requirements is a dependency manifest, relative to Dir. When set and
	// present, dependencies are installed before the tests run.
	Requirements string

	// Command overrides the evaluator-wide test command.
	Command []string

	// TimeoutSec overrides the evaluator-wide test timeout.
	TimeoutSec int
}

// EventType represents the type of progress event.
type EventType string

const (
	EventBatchStart        EventType = "batch_start"
	EventBatchComplete     EventType = "batch_complete"
	EventInstallStart      EventType = "install_start"
	EventConditionStart    EventType = "condition_start"
	EventConditionComplete EventType = "condition_complete"
	EventConditionFailed   EventType = "condition_failed"
)

// ProgressEvent is a progress update delivered to listeners.
type ProgressEvent struct {
	EventType  EventType
	Label      string
	Num        int
	Total      int
	Score      int
	DurationMs int64
	Err        error
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// defaultCommand runs a pytest-style suite rooted at the working directory.
var defaultCommand = []string{"python", "-m", "pytest", "-v", "--tb=short"}

// Evaluator runs evaluations. Construct with New; the zero value is unusable.
type Evaluator struct {
	command        []string
	timeout        time.Duration
	installTimeout time.Duration
	policy         scoring.Policy
	workers        int

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCommand sets the default test command run in each condition directory.
func WithCommand(command []string) Option {
	return func(e *Evaluator) {
		if len(command) > 0 {
			e.command = command
		}
	}
}

// WithTimeout sets the per-condition test execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithInstallTimeout sets the dependency bootstrap timeout.
func WithInstallTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.installTimeout = d
		}
	}
}

// WithPolicy sets the scoring policy.
func WithPolicy(p scoring.Policy) Option {
	return func(e *Evaluator) {
		e.policy = p
	}
}

// WithWorkers caps how many conditions run concurrently in EvaluateAll.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		command:        defaultCommand,
		timeout:        runner.DefaultTimeout,
		installTimeout: runner.DefaultInstallTimeout,
		policy:         scoring.DefaultPolicy(),
		workers:        4,
		listeners:      []ProgressListener{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// OnProgress registers a progress listener.
func (e *Evaluator) OnProgress(listener ProgressListener) {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	e.listeners = append(e.listeners, listener)
}

func (e *Evaluator) notifyProgress(event ProgressEvent) {
	e.progressMu.Lock()
	listeners := make([]ProgressListener, len(e.listeners))
	copy(listeners, e.listeners)
	e.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Evaluate runs one condition end to end: optional dependency install, test
// execution, parse, quality analysis, score. Execution-layer failures
// (timeout, install failure, missing binary) return an error; a suite that
// merely fails its tests returns a scored Evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, cond Condition) (*models.Evaluation, error) {
	start := time.Now()

	if info, err := os.Stat(cond.Dir); err != nil {
		return nil, fmt.Errorf("condition %q: %w", cond.Label, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("condition %q: %s is not a directory", cond.Label, cond.Dir)
	}

	// Install must finish before the tests start; both share the directory.
	if err := e.installDependencies(ctx, cond); err != nil {
		return nil, fmt.Errorf("condition %q: %w", cond.Label, err)
	}

	command := cond.Command
	if len(command) == 0 {
		command = e.command
	}
	timeout := e.timeout
	if cond.TimeoutSec > 0 {
		timeout = time.Duration(cond.TimeoutSec) * time.Second
	}

	exec, err := runner.Execute(ctx, runner.ExecRequest{
		Command: command,
		Dir:     cond.Dir,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", cond.Label, err)
	}

	result := parser.Parse(exec.Stdout, exec.Stderr)

	var qm *models.QualityMetrics
	if cond.Implementation != "" {
		qm, err = quality.AnalyzeFile(filepath.Join(cond.Dir, cond.Implementation))
		if err != nil {
			slog.Debug("quality analysis skipped", "condition", cond.Label, "error", err)
			qm = nil
		}
	}

	score, err := scoring.Score(result, qm, e.policy)
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", cond.Label, err)
	}

	return &models.Evaluation{
		Label:      cond.Label,
		WorkingDir: cond.Dir,
		Command:    command,
		Timestamp:  start,
		DurationMs: time.Since(start).Milliseconds(),
		Result:     result,
		Quality:    qm,
		Score:      score,
	}, nil
}

func (e *Evaluator) installDependencies(ctx context.Context, cond Condition) error {
	if cond.Requirements == "" {
		return nil
	}

	manifest := filepath.Join(cond.Dir, cond.Requirements)
	if _, err := os.Stat(manifest); err != nil {
		slog.Debug("dependency manifest not found, skipping install", "condition", cond.Label, "manifest", manifest)
		return nil
	}

	e.notifyProgress(ProgressEvent{EventType: EventInstallStart, Label: cond.Label})

	return runner.InstallDependencies(ctx, runner.InstallRequest{
		Requirements: cond.Requirements,
		Dir:          cond.Dir,
		Timeout:      e.installTimeout,
	})
}

// EvaluateAll evaluates every condition, up to the worker limit concurrently,
// and compares the scores of those that completed. A condition that fails at
// the execution layer is recorded as a classified ConditionFailure without
// aborting the batch; only caller cancellation stops the run early.
func (e *Evaluator) EvaluateAll(ctx context.Context, name string, conds []Condition) (*models.BatchOutcome, error) {
	if len(conds) == 0 {
		return nil, errors.New("evaluator: no conditions to evaluate")
	}

	start := time.Now()
	e.notifyProgress(ProgressEvent{EventType: EventBatchStart, Total: len(conds)})

	evals := make([]*models.Evaluation, len(conds))
	fails := make([]*models.ConditionFailure, len(conds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, cond := range conds {
		g.Go(func() error {
			e.notifyProgress(ProgressEvent{
				EventType: EventConditionStart,
				Label:     cond.Label,
				Num:       i + 1,
				Total:     len(conds),
			})

			ev, err := e.Evaluate(gctx, cond)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failure := classifyFailure(cond.Label, err)
				fails[i] = &failure
				e.notifyProgress(ProgressEvent{
					EventType: EventConditionFailed,
					Label:     cond.Label,
					Num:       i + 1,
					Total:     len(conds),
					Err:       err,
				})
				return nil
			}

			evals[i] = ev
			e.notifyProgress(ProgressEvent{
				EventType:  EventConditionComplete,
				Label:      cond.Label,
				Num:        i + 1,
				Total:      len(conds),
				Score:      ev.Score.Value,
				DurationMs: ev.DurationMs,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	outcome := &models.BatchOutcome{
		Name:      name,
		Timestamp: start,
	}
	for i := range conds {
		if evals[i] != nil {
			outcome.Evaluations = append(outcome.Evaluations, *evals[i])
		}
		if fails[i] != nil {
			outcome.Failures = append(outcome.Failures, *fails[i])
		}
	}

	if len(outcome.Evaluations) > 0 {
		summary, err := compare.Compare(outcome.LabeledScores(), e.policy)
		if err != nil {
			return nil, fmt.Errorf("comparing scores: %w", err)
		}
		outcome.Comparison = &summary
	}

	outcome.DurationMs = time.Since(start).Milliseconds()
	e.notifyProgress(ProgressEvent{EventType: EventBatchComplete, DurationMs: outcome.DurationMs})

	return outcome, nil
}

// classifyFailure maps a runner error to a reportable failure kind.
func classifyFailure(label string, err error) models.ConditionFailure {
	failure := models.ConditionFailure{
		Label:   label,
		Kind:    models.FailureOther,
		Message: err.Error(),
	}

	var timeoutErr *runner.TimeoutError
	var installErr *runner.DependencyInstallError
	var notFoundErr *runner.ExecutableNotFoundError

	switch {
	case errors.As(err, &timeoutErr):
		failure.Kind = models.FailureTimeout
		if timeoutErr.Execution != nil {
			failure.Output = timeoutErr.Execution.CombinedOutput()
		}
	case errors.As(err, &installErr):
		failure.Kind = models.FailureDependencyInstall
		failure.Output = installErr.Output
	case errors.As(err, &notFoundErr):
		failure.Kind = models.FailureExecutableNotFound
	}

	return failure
}
