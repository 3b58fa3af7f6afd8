package types

import (
	"fmt"
	"time"
)

// TestKey identifies one test-invocation slot within a single run.
// Parameterized re-invocations of the same logical test get distinct keys;
// cross-run correlation uses the history identity instead.
type TestKey struct {
	Project string
	Module  string
	Test    string
}

func (k TestKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Project, k.Module, k.Test)
}

// Event is one recorded observation within a running test: either a Check
// or an HTTPCall. The set is sealed so the assembler's conversion switch
// stays exhaustive.
type Event interface {
	isEvent()
}

// Check is a single assertion recorded by the framework.
type Check struct {
	// Expr is the checked expression as the framework captured it.
	// It may contain ANSI escapes; those are stripped at assembly time.
	Expr      string
	Passed    bool
	Message   string
	StartedAt time.Time
	EndedAt   time.Time
}

func (Check) isEvent() {}

// HTTPCall is a captured request/response pair reported by the framework.
// The reporter never performs the call itself. Header maps are redacted
// before the call is buffered, so a raw sensitive value is never retained.
type HTTPCall struct {
	Method          string
	URL             string
	StatusCode      int
	RequestHeaders  map[string]string
	ResponseHeaders map[string]string
	RequestBody     string // summary, not necessarily the full body
	ResponseBody    string
	StartedAt       time.Time
	EndedAt         time.Time
}

func (HTTPCall) isEvent() {}

// Metadata accompanies the end-of-test signal.
type Metadata struct {
	// Parameters are the invocation parameters of the test. Entries with
	// Excluded set do not affect the history identity.
	Parameters []Parameter
	StartedAt  time.Time
	EndedAt    time.Time
}

// UnixMillis converts a time to the unix-millisecond representation used
// throughout the result documents. The zero time maps to 0.
func UnixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
