// Package reporting converts accumulated event buffers into Allure result
// documents and persists them, one self-contained file per test.
package reporting

import (
	"fmt"
	"sort"

	"github.com/acarl005/stripansi"
	"github.com/google/uuid"

	"github.com/apiprobe/allure-reporter/collector"
	"github.com/apiprobe/allure-reporter/identity"
	"github.com/apiprobe/allure-reporter/redact"
	"github.com/apiprobe/allure-reporter/types"
)

// Assembler builds one TestResult per completed test.
type Assembler struct {
	excludedParams []string
}

// NewAssembler creates an Assembler. excludedParams are the parameter
// names omitted from history-identity computation.
func NewAssembler(excludedParams []string) *Assembler {
	return &Assembler{excludedParams: excludedParams}
}

// Assemble converts a consumed event buffer plus the test's terminal
// outcome into a complete result document. The run-scoped UUID is freshly
// generated; the history id is deterministic across runs. An outcome kind
// without a status mapping is a defect and fails assembly for this test
// only.
func (a *Assembler) Assemble(key types.TestKey, buf collector.Buffer, outcome types.Outcome, meta types.Metadata) (*types.TestResult, error) {
	status, err := outcome.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to map outcome for test %q: %w", key.String(), err)
	}

	steps := make([]types.StepResult, 0, len(buf.Events))
	for _, ev := range buf.Events {
		step, err := eventToStep(ev)
		if err != nil {
			return nil, fmt.Errorf("failed to convert event for test %q: %w", key.String(), err)
		}
		steps = append(steps, step)
	}

	var details *types.StatusDetails
	if outcome.Message != "" || outcome.Trace != "" {
		details = &types.StatusDetails{
			Message: stripansi.Strip(outcome.Message),
			Trace:   outcome.Trace,
		}
	}

	params := make([]types.Parameter, len(meta.Parameters))
	copy(params, meta.Parameters)

	return &types.TestResult{
		UUID:       uuid.New().String(),
		HistoryID:  identity.Generate(key.Project, key.Module, key.Test, params, a.excludedParams),
		Name:       key.Test,
		FullName:   fmt.Sprintf("%s::%s", key.Module, key.Test),
		Links:      []types.Link{},
		Labels: []types.Label{
			types.ParentSuiteLabel(key.Project),
			types.SuiteLabel(key.Module),
		},
		Parameters:    params,
		Attachments:   []types.Attachment{},
		Status:        status,
		StatusDetails: details,
		Stage:         types.StageFinished,
		Start:         types.UnixMillis(meta.StartedAt),
		Stop:          types.UnixMillis(meta.EndedAt),
		Steps:         steps,
	}, nil
}

// eventToStep converts one buffered event into a report step. The switch
// covers the sealed event set; a new event type without a conversion is a
// defect.
func eventToStep(ev types.Event) (types.StepResult, error) {
	switch ev := ev.(type) {
	case types.Check:
		status := types.StatusPassed
		var details *types.StatusDetails
		if !ev.Passed {
			status = types.StatusFailed
			if ev.Message != "" {
				details = &types.StatusDetails{Message: stripansi.Strip(ev.Message)}
			}
		}
		return types.StepResult{
			Name:          stripansi.Strip(ev.Expr),
			Parameters:    []types.Parameter{},
			Attachments:   []types.Attachment{},
			Status:        status,
			StatusDetails: details,
			Stage:         types.StageFinished,
			Start:         types.UnixMillis(ev.StartedAt),
			Stop:          types.UnixMillis(ev.EndedAt),
			Steps:         []types.StepResult{},
		}, nil
	case types.HTTPCall:
		params := headerParameters("request.header", ev.RequestHeaders)
		params = append(params, headerParameters("response.header", ev.ResponseHeaders)...)
		return types.StepResult{
			Name:        fmt.Sprintf("%s %s", ev.Method, ev.URL),
			Parameters:  params,
			Attachments: []types.Attachment{},
			Status:      types.StatusForHTTPCode(ev.StatusCode),
			Stage:       types.StageFinished,
			Start:       types.UnixMillis(ev.StartedAt),
			Stop:        types.UnixMillis(ev.EndedAt),
			Steps:       []types.StepResult{},
		}, nil
	default:
		return types.StepResult{}, fmt.Errorf("unhandled event type %T", ev)
	}
}

// headerParameters converts an already-redacted header map into report
// parameters, sorted by name for deterministic output. Masked values get
// the masked display mode.
func headerParameters(prefix string, headers map[string]string) []types.Parameter {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]types.Parameter, 0, len(names))
	for _, name := range names {
		p := types.Parameter{
			Name:  fmt.Sprintf("%s.%s", prefix, name),
			Value: headers[name],
		}
		if redact.IsMasked(p.Value) {
			p.Mode = types.ParameterModeMasked
		}
		params = append(params, p)
	}
	return params
}
