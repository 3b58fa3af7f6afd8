package types

// This file models the Allure result document. Field names and casing
// follow the schema consumed by the Allure report generator; optional
// fields are omitted when empty so the emitted JSON matches what the
// generator expects.

// Stage is the lifecycle stage of a test or step.
type Stage string

const (
	StageScheduled   Stage = "scheduled"
	StageRunning     Stage = "running"
	StageFinished    Stage = "finished"
	StagePending     Stage = "pending"
	StageInterrupted Stage = "interrupted"
)

// ParameterMode controls how a parameter is displayed in the report.
type ParameterMode string

const (
	// ParameterModeDefault shows the parameter and its value.
	ParameterModeDefault ParameterMode = "default"
	// ParameterModeMasked shows the parameter but hides its value.
	ParameterModeMasked ParameterMode = "masked"
	// ParameterModeHidden hides the parameter entirely.
	ParameterModeHidden ParameterMode = "hidden"
)

// Parameter is a named value attached to a test or step.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	// Excluded parameters do not participate in history identity.
	Excluded bool          `json:"excluded,omitempty"`
	Mode     ParameterMode `json:"mode,omitempty"`
}

// Label is a classification attached to a test result.
type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Standard label names used by the report generator's suite grouping.
const (
	LabelParentSuite = "parentSuite"
	LabelSuite       = "suite"
)

// ParentSuiteLabel builds the parentSuite label.
func ParentSuiteLabel(value string) Label {
	return Label{Name: LabelParentSuite, Value: value}
}

// SuiteLabel builds the suite label.
func SuiteLabel(value string) Label {
	return Label{Name: LabelSuite, Value: value}
}

// Attachment references a file attached to a test or step.
type Attachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// Link is an external reference attached to a test result.
type Link struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StatusDetails carries the failure message and trace for a test or step.
type StatusDetails struct {
	Known   bool   `json:"known,omitempty"`
	Muted   bool   `json:"muted,omitempty"`
	Flaky   bool   `json:"flaky,omitempty"`
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

// StepResult is a single recorded step within a test result.
type StepResult struct {
	Name          string         `json:"name"`
	Parameters    []Parameter    `json:"parameters"`
	Attachments   []Attachment   `json:"attachments"`
	Status        Status         `json:"status"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
	Stage         Stage          `json:"stage,omitempty"`
	Start         int64          `json:"start,omitempty"`
	Stop          int64          `json:"stop,omitempty"`
	Steps         []StepResult   `json:"steps"`
}

// TestResult is the complete per-test artifact written to the results
// directory. It is immutable once written: one result file per completed
// test, named by its run-scoped UUID.
type TestResult struct {
	// UUID is the run-scoped unique id of this artifact.
	UUID string `json:"uuid"`
	// HistoryID is stable across runs for the same logical test and
	// retained parameters; it is the join key for trend history.
	HistoryID  string `json:"historyId"`
	TestCaseID string `json:"testCaseId,omitempty"`

	Name            string      `json:"name"`
	FullName        string      `json:"fullName,omitempty"`
	Description     string      `json:"description,omitempty"`
	DescriptionHTML string      `json:"descriptionHtml,omitempty"`
	Links           []Link      `json:"links"`
	Labels          []Label     `json:"labels"`
	Parameters      []Parameter `json:"parameters"`

	Attachments   []Attachment   `json:"attachments"`
	Status        Status         `json:"status"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
	Stage         Stage          `json:"stage,omitempty"`
	Start         int64          `json:"start,omitempty"`
	Stop          int64          `json:"stop,omitempty"`
	Steps         []StepResult   `json:"steps"`
}
