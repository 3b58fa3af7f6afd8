package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/apiprobe/allure-reporter/types"
)

func TestRecordResult(t *testing.T) {
	before := testutil.ToFloat64(resultsTotal.WithLabelValues("demo", "passed"))
	RecordResult("demo", types.StatusPassed)
	after := testutil.ToFloat64(resultsTotal.WithLabelValues("demo", "passed"))

	assert.Equal(t, before+1, after)
}

func TestRecordError(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues("history"))
	RecordError("history")
	after := testutil.ToFloat64(errorsTotal.WithLabelValues("history"))

	assert.Equal(t, before+1, after)
}

func TestRecordEvent(t *testing.T) {
	before := testutil.ToFloat64(eventsTotal.WithLabelValues("check"))
	RecordEvent("check")
	after := testutil.ToFloat64(eventsTotal.WithLabelValues("check"))

	assert.Equal(t, before+1, after)
}

func TestRecordHistorySize(t *testing.T) {
	RecordHistorySize(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(historyIdentities))
}
