// Package collector accumulates per-test event streams as they arrive from
// concurrently executing tests.
//
// Buffers are keyed by TestKey. Events for one key are kept in arrival
// order; no ordering exists between keys. Each buffer is consumed exactly
// once, by OnTestEnd; anything arriving for a key after that is a caller
// error and is rejected, never silently dropped into the wrong buffer.
package collector

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/apiprobe/allure-reporter/redact"
	"github.com/apiprobe/allure-reporter/types"
)

var (
	// ErrTestEnded is returned when an event arrives for a key whose
	// buffer has already been consumed.
	ErrTestEnded = errors.New("test already ended")
	// ErrDuplicateEnd is returned when OnTestEnd is called twice for the
	// same key within one run.
	ErrDuplicateEnd = errors.New("duplicate test end")
)

// Buffer holds the ordered events recorded for one test. It is handed out
// by OnTestEnd and owned by the caller from then on.
type Buffer struct {
	Key    types.TestKey
	Events []types.Event
}

// Config configures a Collector.
type Config struct {
	// SensitiveHeaders are the header names masked before an HTTP call is
	// buffered. Nil selects redact.DefaultSensitiveHeaders.
	SensitiveHeaders []string
	Log              log.Logger
}

// Collector is the single shared mutable resource across test concurrency.
// The map mutex is held only for lookup and insertion; appends and the
// final move-out are serialized per key by the entry mutex, so activity on
// one key never blocks another.
type Collector struct {
	mu        sync.Mutex
	active    map[types.TestKey]*entry
	ended     map[types.TestKey]struct{}
	sensitive []string
	log       log.Logger
}

type entry struct {
	mu     sync.Mutex
	events []types.Event
	done   bool
}

// New creates an empty Collector.
func New(cfg Config) *Collector {
	logger := cfg.Log
	if logger == nil {
		logger = log.Root()
	}
	sensitive := cfg.SensitiveHeaders
	if sensitive == nil {
		sensitive = redact.DefaultSensitiveHeaders()
	}
	return &Collector{
		active:    make(map[types.TestKey]*entry),
		ended:     make(map[types.TestKey]struct{}),
		sensitive: sensitive,
		log:       logger,
	}
}

// OnCheck records an assertion result for the given test.
func (c *Collector) OnCheck(key types.TestKey, check types.Check) error {
	return c.append(key, check)
}

// OnHTTPCall records a captured HTTP request/response pair for the given
// test. Headers are redacted here, before the call enters the buffer, so
// the raw values never persist anywhere downstream.
func (c *Collector) OnHTTPCall(key types.TestKey, call types.HTTPCall) error {
	call.RequestHeaders = redact.Headers(call.RequestHeaders, c.sensitive)
	call.ResponseHeaders = redact.Headers(call.ResponseHeaders, c.sensitive)
	return c.append(key, call)
}

func (c *Collector) append(key types.TestKey, ev types.Event) error {
	c.mu.Lock()
	if _, done := c.ended[key]; done {
		c.mu.Unlock()
		c.log.Warn("Rejecting event for ended test", "test", key.String())
		return fmt.Errorf("event for test %q: %w", key.String(), ErrTestEnded)
	}
	e, ok := c.active[key]
	if !ok {
		e = &entry{}
		c.active[key] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		c.log.Warn("Rejecting event for ended test", "test", key.String())
		return fmt.Errorf("event for test %q: %w", key.String(), ErrTestEnded)
	}
	e.events = append(e.events, ev)
	return nil
}

// OnTestEnd consumes and returns the buffer for the given key. The key's
// buffer is removed and further events for it are rejected. A key that
// never recorded an event still yields an empty buffer: a test that
// recorded nothing still gets a report.
func (c *Collector) OnTestEnd(key types.TestKey) (Buffer, error) {
	c.mu.Lock()
	if _, done := c.ended[key]; done {
		c.mu.Unlock()
		return Buffer{}, fmt.Errorf("test %q: %w", key.String(), ErrDuplicateEnd)
	}
	e := c.active[key]
	delete(c.active, key)
	c.ended[key] = struct{}{}
	c.mu.Unlock()

	if e == nil {
		return Buffer{Key: key}, nil
	}

	// Wait out any in-flight append, then seal the entry so a late
	// append cannot land after the move-out.
	e.mu.Lock()
	e.done = true
	events := e.events
	e.events = nil
	e.mu.Unlock()

	return Buffer{Key: key, Events: events}, nil
}

// Active returns the number of tests that have recorded events but not
// yet ended.
func (c *Collector) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// Reset drops all buffered and terminal state, preparing the collector
// for a new run.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = make(map[types.TestKey]*entry)
	c.ended = make(map[types.TestKey]struct{})
}
