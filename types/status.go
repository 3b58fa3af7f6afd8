package types

import "fmt"

// Status represents the status values understood by the Allure report schema.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusBroken  Status = "broken"
	StatusSkipped Status = "skipped"
	StatusUnknown Status = "unknown"
)

// OutcomeKind enumerates the terminal outcomes the test framework reports.
// The set is closed: every kind must have an explicit mapping in
// Outcome.Status, so adding a kind without a mapping is surfaced as an
// error rather than silently defaulted.
type OutcomeKind int

const (
	// OutcomeCompleted means the test body ran to completion.
	OutcomeCompleted OutcomeKind = iota
	// OutcomeFailed means the test returned an assertion or expectation failure.
	OutcomeFailed
	// OutcomePanicked means the test terminated abnormally.
	OutcomePanicked
)

// Outcome is the terminal result of a single test execution.
type Outcome struct {
	Kind    OutcomeKind
	Message string // failure or panic message, empty on success
	Trace   string // stack trace for panics, if available
}

// Status maps the outcome to an Allure status. The mapping is exhaustive
// over OutcomeKind; an unrecognized kind is a defect in the caller and is
// returned as an error.
func (o Outcome) Status() (Status, error) {
	switch o.Kind {
	case OutcomeCompleted:
		return StatusPassed, nil
	case OutcomeFailed:
		return StatusFailed, nil
	case OutcomePanicked:
		return StatusBroken, nil
	default:
		return StatusUnknown, fmt.Errorf("unmapped outcome kind %d", o.Kind)
	}
}

// StatusForHTTPCode maps an HTTP response code to a step status.
// Success codes pass, client and server errors fail, and anything else
// (informational, redirects, out-of-range values) is treated as broken.
func StatusForHTTPCode(code int) Status {
	switch {
	case code >= 200 && code < 300:
		return StatusPassed
	case code >= 400 && code < 600:
		return StatusFailed
	default:
		return StatusBroken
	}
}
