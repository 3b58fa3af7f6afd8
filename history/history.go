// Package history maintains the bounded cross-run history log the report
// generator uses for trend visualization.
//
// The log maps each history identity to a statistic block plus an ordered
// list of recent run entries, newest first, capped per identity. It lives
// at <results-dir>/history/history.json and is loaded, mutated, and
// persisted once per run, inside the run-summary critical section.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apiprobe/allure-reporter/types"
)

// DefaultLimit is the number of entries retained per identity when no
// custom limit is configured.
const DefaultLimit = 20

// Statistic counts outcomes per status across the retained window and
// beyond; it is cumulative, not derived from the item list.
type Statistic struct {
	Failed  int `json:"failed"`
	Broken  int `json:"broken"`
	Skipped int `json:"skipped"`
	Passed  int `json:"passed"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

// Record counts one result with the given status.
func (s *Statistic) Record(status types.Status) {
	switch status {
	case types.StatusFailed:
		s.Failed++
	case types.StatusBroken:
		s.Broken++
	case types.StatusSkipped:
		s.Skipped++
	case types.StatusPassed:
		s.Passed++
	default:
		s.Unknown++
	}
	s.Total++
}

// Time is the timing block of a history item, in unix milliseconds
// (duration in seconds, matching the report generator's expectations).
type Time struct {
	Start    int64 `json:"start"`
	Stop     int64 `json:"stop"`
	Duration int64 `json:"duration"`
}

// Item is one run's outcome for a single identity.
type Item struct {
	// UID is the run-scoped result UUID the entry refers back to.
	UID           string       `json:"uid"`
	ReportURL     string       `json:"reportUrl,omitempty"`
	Status        types.Status `json:"status"`
	StatusDetails string       `json:"statusDetails,omitempty"`
	Time          Time         `json:"time"`
}

// Entry is the full history record for one identity.
type Entry struct {
	Statistic Statistic `json:"statistic"`
	Items     []Item    `json:"items"`
}

// Log is the complete history document, keyed by history identity.
type Log map[string]*Entry

// Record appends one run outcome for the given identity, newest first,
// and evicts the oldest entries beyond limit. The entry list never
// exceeds limit after this call.
func (l Log) Record(historyID string, item Item, limit int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	e, ok := l[historyID]
	if !ok {
		e = &Entry{}
		l[historyID] = e
	}
	e.Statistic.Record(item.Status)
	e.Items = append([]Item{item}, e.Items...)
	if len(e.Items) > limit {
		e.Items = e.Items[:limit]
	}
}

// CorruptError indicates an existing history file that could not be read
// or parsed. It is surfaced rather than silently replaced with an empty
// log: the caller decides whether to proceed without history.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("history file %s is unreadable: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// IsCorruptError checks if the error is or wraps a CorruptError.
func IsCorruptError(err error) bool {
	var corruptErr *CorruptError
	return err != nil && errors.As(err, &corruptErr)
}

// Store reads and writes the history file of one results directory.
// It assumes single-writer discipline: no other run-summary may run
// concurrently against the same directory.
type Store struct {
	dir   string // results directory
	limit int
}

// NewStore creates a store for the given results directory. limit <= 0
// selects DefaultLimit.
func NewStore(resultsDir string, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{dir: resultsDir, limit: limit}
}

// Limit returns the per-identity entry cap.
func (s *Store) Limit() int {
	return s.limit
}

func (s *Store) path() string {
	return filepath.Join(s.dir, "history", "history.json")
}

// Load reads the history file. A missing file is the first-run case and
// yields an empty log; an existing but unreadable or unparsable file
// yields a CorruptError.
func (s *Store) Load() (Log, error) {
	path := s.path()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Log{}, nil
		}
		return nil, &CorruptError{Path: path, Err: err}
	}

	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if l == nil {
		l = Log{}
	}
	return l, nil
}

// Persist writes the full log in one write, creating the history
// subdirectory if needed.
func (s *Store) Persist(l Log) error {
	dir := filepath.Dir(s.path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write history file %s: %w", s.path(), err)
	}
	return nil
}
