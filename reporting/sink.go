package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"

	"github.com/apiprobe/allure-reporter/types"
)

// Sink writes result documents into the results directory, one file per
// completed test, named by the result's run-scoped UUID. Writes for
// different tests are independent; one failed write must not stop other
// results from being written.
type Sink struct {
	dir string
	log log.Logger
}

// NewSink creates a sink for the given results directory.
func NewSink(resultsDir string, logger log.Logger) *Sink {
	if logger == nil {
		logger = log.Root()
	}
	return &Sink{dir: resultsDir, log: logger}
}

// WriteResult persists one result document and returns its path. The
// results directory is created if needed. The written file is never
// mutated afterwards.
func (s *Sink) WriteResult(result *types.TestResult) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result %s: %w", result.UUID, err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s-result.json", result.UUID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result file %s: %w", path, err)
	}

	s.log.Debug("Wrote test result", "uuid", result.UUID, "status", result.Status, "path", path)
	return path, nil
}
