package collector

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiprobe/allure-reporter/redact"
	"github.com/apiprobe/allure-reporter/types"
)

func testKey(test string) types.TestKey {
	return types.TestKey{Project: "demo", Module: "mod", Test: test}
}

func TestCollector_PreservesArrivalOrder(t *testing.T) {
	c := New(Config{})
	key := testKey("get_ok")

	require.NoError(t, c.OnCheck(key, types.Check{Expr: "first", Passed: true}))
	require.NoError(t, c.OnHTTPCall(key, types.HTTPCall{Method: "GET", URL: "https://example.com", StatusCode: 200}))
	require.NoError(t, c.OnCheck(key, types.Check{Expr: "second", Passed: false}))

	buf, err := c.OnTestEnd(key)
	require.NoError(t, err)
	require.Len(t, buf.Events, 3)

	check, ok := buf.Events[0].(types.Check)
	require.True(t, ok)
	assert.Equal(t, "first", check.Expr)

	_, ok = buf.Events[1].(types.HTTPCall)
	require.True(t, ok)

	check, ok = buf.Events[2].(types.Check)
	require.True(t, ok)
	assert.Equal(t, "second", check.Expr)
}

func TestCollector_PerKeyIsolation(t *testing.T) {
	c := New(Config{})
	keyA := testKey("test_a")
	keyB := testKey("test_b")

	require.NoError(t, c.OnCheck(keyA, types.Check{Expr: "a only", Passed: true}))
	require.NoError(t, c.OnCheck(keyB, types.Check{Expr: "b only", Passed: true}))
	require.NoError(t, c.OnCheck(keyA, types.Check{Expr: "a again", Passed: true}))

	bufA, err := c.OnTestEnd(keyA)
	require.NoError(t, err)
	bufB, err := c.OnTestEnd(keyB)
	require.NoError(t, err)

	require.Len(t, bufA.Events, 2)
	require.Len(t, bufB.Events, 1)
	assert.Equal(t, "b only", bufB.Events[0].(types.Check).Expr)
}

// TestCollector_ConcurrentWritersAreIsolated hammers the collector from
// many goroutines, each writing to its own key, and verifies no event
// leaks between buffers.
func TestCollector_ConcurrentWritersAreIsolated(t *testing.T) {
	const writers = 16
	const eventsPerWriter = 50

	c := New(Config{})
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := testKey(fmt.Sprintf("test_%d", id))
			for j := 0; j < eventsPerWriter; j++ {
				err := c.OnCheck(key, types.Check{
					Expr:   fmt.Sprintf("writer %d check %d", id, j),
					Passed: true,
				})
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		key := testKey(fmt.Sprintf("test_%d", i))
		buf, err := c.OnTestEnd(key)
		require.NoError(t, err)
		require.Len(t, buf.Events, eventsPerWriter)
		for j, ev := range buf.Events {
			check := ev.(types.Check)
			assert.Equal(t, fmt.Sprintf("writer %d check %d", i, j), check.Expr)
		}
	}
}

func TestCollector_EndWithoutEventsYieldsEmptyBuffer(t *testing.T) {
	c := New(Config{})
	key := testKey("silent")

	buf, err := c.OnTestEnd(key)
	require.NoError(t, err)
	assert.Equal(t, key, buf.Key)
	assert.Empty(t, buf.Events)
}

func TestCollector_RejectsEventsAfterEnd(t *testing.T) {
	c := New(Config{})
	key := testKey("done")

	_, err := c.OnTestEnd(key)
	require.NoError(t, err)

	err = c.OnCheck(key, types.Check{Expr: "too late", Passed: true})
	require.ErrorIs(t, err, ErrTestEnded)

	err = c.OnHTTPCall(key, types.HTTPCall{Method: "GET", URL: "https://example.com"})
	require.ErrorIs(t, err, ErrTestEnded)
}

func TestCollector_RejectsDuplicateEnd(t *testing.T) {
	c := New(Config{})
	key := testKey("once")

	require.NoError(t, c.OnCheck(key, types.Check{Expr: "ok", Passed: true}))
	_, err := c.OnTestEnd(key)
	require.NoError(t, err)

	_, err = c.OnTestEnd(key)
	require.ErrorIs(t, err, ErrDuplicateEnd)
}

// TestCollector_RedactsHeadersOnIngest verifies sensitive header values
// are masked before the call enters the buffer, so the raw value is never
// retained.
func TestCollector_RedactsHeadersOnIngest(t *testing.T) {
	c := New(Config{})
	key := testKey("get_ok")

	require.NoError(t, c.OnHTTPCall(key, types.HTTPCall{
		Method:     "GET",
		URL:        "https://example.com",
		StatusCode: 200,
		RequestHeaders: map[string]string{
			"Authorization": "Bearer xyz",
			"Accept":        "application/json",
		},
		ResponseHeaders: map[string]string{
			"Set-Cookie":   "session=abc",
			"Content-Type": "application/json",
		},
	}))

	buf, err := c.OnTestEnd(key)
	require.NoError(t, err)
	require.Len(t, buf.Events, 1)

	call := buf.Events[0].(types.HTTPCall)
	assert.Equal(t, redact.Mask, call.RequestHeaders["Authorization"])
	assert.Equal(t, "application/json", call.RequestHeaders["Accept"])
	assert.Equal(t, redact.Mask, call.ResponseHeaders["Set-Cookie"])
	assert.Equal(t, "application/json", call.ResponseHeaders["Content-Type"])
}

func TestCollector_Active(t *testing.T) {
	c := New(Config{})

	require.NoError(t, c.OnCheck(testKey("a"), types.Check{Expr: "x", Passed: true}))
	require.NoError(t, c.OnCheck(testKey("b"), types.Check{Expr: "y", Passed: true}))
	assert.Equal(t, 2, c.Active())

	_, err := c.OnTestEnd(testKey("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Active())
}

func TestCollector_ResetClearsTerminalState(t *testing.T) {
	c := New(Config{})
	key := testKey("recycled")

	_, err := c.OnTestEnd(key)
	require.NoError(t, err)
	require.ErrorIs(t, c.OnCheck(key, types.Check{Expr: "late", Passed: true}), ErrTestEnded)

	c.Reset()

	// After a reset the key is usable again for the next run.
	require.NoError(t, c.OnCheck(key, types.Check{Expr: "fresh", Passed: true}))
	buf, err := c.OnTestEnd(key)
	require.NoError(t, err)
	assert.Len(t, buf.Events, 1)
}
