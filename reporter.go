// Package allure implements a test-execution reporter that converts
// framework events (checks, HTTP call traces, end-of-test signals) into
// Allure-compatible result artifacts plus a bounded cross-run history.
//
// The reporter does not execute tests and performs no network I/O of its
// own: the test framework pushes events in, and the reporter persists one
// result document per completed test plus one history file per run.
package allure

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/apiprobe/allure-reporter/collector"
	"github.com/apiprobe/allure-reporter/history"
	"github.com/apiprobe/allure-reporter/metrics"
	"github.com/apiprobe/allure-reporter/reporting"
	"github.com/apiprobe/allure-reporter/types"
)

// RunResult is the run-scoped record kept for each written result,
// consumed by the history update and the console summary.
type RunResult struct {
	Key           types.TestKey
	UUID          string
	HistoryID     string
	Status        types.Status
	StatusMessage string
	Start         int64 // unix millis
	Stop          int64
}

// Duration returns the wall time between start and stop.
func (r RunResult) Duration() time.Duration {
	return time.Duration(r.Stop-r.Start) * time.Millisecond
}

// Reporter implements the framework's reporting callback surface.
//
// OnCheck and OnHTTPCall may be called concurrently for different tests;
// OnTestEnd consumes that test's buffer and writes its result artifact.
// OnRunSummary runs once per run and must not run concurrently with
// another summary against the same results directory.
type Reporter struct {
	cfg       Config
	log       log.Logger
	collector *collector.Collector
	assembler *reporting.Assembler
	sink      *reporting.Sink
	store     *history.Store
	formatter ResultFormatter
	tracer    trace.Tracer

	envMu       sync.Mutex
	environment map[string]string

	mu         sync.Mutex
	runResults []RunResult
}

// New creates a Reporter from the given configuration.
func New(cfg Config) (*Reporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.Root()
	}
	resultsDir, err := cfg.absResultsDir()
	if err != nil {
		return nil, err
	}

	sensitive := cfg.sensitiveHeaders()
	return &Reporter{
		cfg: cfg,
		log: logger,
		collector: collector.New(collector.Config{
			SensitiveHeaders: sensitive,
			Log:              logger,
		}),
		assembler:   reporting.NewAssembler(cfg.ExcludedParameters),
		sink:        reporting.NewSink(resultsDir, logger),
		store:       history.NewStore(resultsDir, cfg.HistoryLimit),
		formatter:   NewConsoleResultFormatter(logger),
		tracer:      otel.Tracer("allure-reporter"),
		environment: initializeEnvironment(cfg.Environment),
	}, nil
}

// SetFormatter replaces the console formatter used at run summary.
func (r *Reporter) SetFormatter(f ResultFormatter) {
	r.formatter = f
}

// AddEnvironment adds one key/value pair to environment.properties.
func (r *Reporter) AddEnvironment(key, value string) {
	r.envMu.Lock()
	defer r.envMu.Unlock()
	r.environment[key] = value
}

// SetEnvironment adds multiple environment pairs at once.
func (r *Reporter) SetEnvironment(env map[string]string) {
	r.envMu.Lock()
	defer r.envMu.Unlock()
	for key, value := range env {
		r.environment[key] = value
	}
}

// LoadFromEnv copies process environment variables with the given prefix
// into environment.properties, prefix stripped. APIPROBE_ALLURE_ variables
// are loaded automatically at construction.
func (r *Reporter) LoadFromEnv(prefix string) {
	r.envMu.Lock()
	defer r.envMu.Unlock()
	loadEnvWithPrefix(r.environment, prefix)
}

// OnCheck records an assertion result for a running test. An unstamped
// check is timestamped at arrival so step timings stay monotonic within
// the buffer.
func (r *Reporter) OnCheck(key types.TestKey, check types.Check) error {
	if check.StartedAt.IsZero() {
		now := time.Now()
		check.StartedAt = now
		check.EndedAt = now
	}
	metrics.RecordEvent("check")
	if err := r.collector.OnCheck(key, check); err != nil {
		metrics.RecordError("late_event")
		return NewMisuseError(err)
	}
	return nil
}

// OnHTTPCall records a captured HTTP request/response pair for a running
// test. Sensitive headers are masked before the trace is buffered.
func (r *Reporter) OnHTTPCall(key types.TestKey, call types.HTTPCall) error {
	metrics.RecordEvent("http_call")
	if err := r.collector.OnHTTPCall(key, call); err != nil {
		metrics.RecordError("late_event")
		return NewMisuseError(err)
	}
	return nil
}

// OnTestEnd consumes the test's event buffer, assembles its result
// document, and writes it to the results directory. A failure here is
// isolated to this test: the caller should report it and keep running
// other tests.
func (r *Reporter) OnTestEnd(ctx context.Context, key types.TestKey, outcome types.Outcome, meta types.Metadata) error {
	_, span := r.tracer.Start(ctx, "report test end")
	defer span.End()

	buf, err := r.collector.OnTestEnd(key)
	if err != nil {
		metrics.RecordError("duplicate_end")
		return NewMisuseError(err)
	}

	result, err := r.assembler.Assemble(key, buf, outcome, meta)
	if err != nil {
		metrics.RecordError("assemble")
		return err
	}

	path, err := r.sink.WriteResult(result)
	if err != nil {
		metrics.RecordError("write_result")
		return NewStorageError(err)
	}
	metrics.RecordResult(key.Project, result.Status)

	var message string
	if result.StatusDetails != nil {
		message = result.StatusDetails.Message
	}
	r.mu.Lock()
	r.runResults = append(r.runResults, RunResult{
		Key:           key,
		UUID:          result.UUID,
		HistoryID:     result.HistoryID,
		Status:        result.Status,
		StatusMessage: message,
		Start:         result.Start,
		Stop:          result.Stop,
	})
	r.mu.Unlock()

	r.log.Info("Reported test result", "test", key.String(), "status", result.Status, "path", path)
	return nil
}

// OnRunSummary finalizes the run: it merges every result written this run
// into the history log and persists it, writes environment.properties,
// and prints the console summary. It returns the run's result records.
//
// The history load, mutate, persist sequence is a single critical section;
// a history failure is surfaced here but does not invalidate the result
// files already written.
func (r *Reporter) OnRunSummary(ctx context.Context) ([]RunResult, error) {
	_, span := r.tracer.Start(ctx, "report run summary")
	defer span.End()

	r.mu.Lock()
	results := r.runResults
	r.runResults = nil
	r.mu.Unlock()
	r.collector.Reset()

	historyErr := r.updateHistory(results)
	if historyErr != nil {
		metrics.RecordError("history")
		r.log.Error("Failed to update history", "error", historyErr)
	}

	r.envMu.Lock()
	env := make(map[string]string, len(r.environment))
	for key, value := range r.environment {
		env[key] = value
	}
	r.envMu.Unlock()

	resultsDir, err := r.cfg.absResultsDir()
	if err == nil {
		err = writeEnvironment(resultsDir, env)
	}
	if err != nil {
		metrics.RecordError("environment")
		r.log.Error("Failed to write environment file", "error", err)
	}

	if fmtErr := r.formatter.FormatResults(results); fmtErr != nil {
		r.log.Error("Failed to format results", "error", fmtErr)
	}

	if historyErr != nil {
		return results, NewStorageError(historyErr)
	}
	if err != nil {
		return results, NewStorageError(err)
	}
	return results, nil
}

// updateHistory loads, extends, and persists the history log for this
// run's results.
func (r *Reporter) updateHistory(results []RunResult) error {
	hist, err := r.store.Load()
	if err != nil {
		return err
	}

	for _, result := range results {
		hist.Record(result.HistoryID, history.Item{
			UID:           result.UUID,
			Status:        result.Status,
			StatusDetails: result.StatusMessage,
			Time: history.Time{
				Start:    result.Start,
				Stop:     result.Stop,
				Duration: (result.Stop - result.Start) / 1000,
			},
		}, r.store.Limit())
	}

	if err := r.store.Persist(hist); err != nil {
		return err
	}
	metrics.RecordHistorySize(len(hist))
	return nil
}
