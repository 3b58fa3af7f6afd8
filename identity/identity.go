// Package identity derives stable cross-run identifiers for tests.
//
// The identifier joins results of the same logical test across independent
// runs, so it must be a pure function of the test's identity-relevant
// fields: no randomness, no wall clock, no run-specific state.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/apiprobe/allure-reporter/types"
)

// Generate computes the history identity for a test.
//
// The digest covers the fully-qualified test name and the retained
// invocation parameters. A parameter is dropped when its Excluded flag is
// set or its name appears in excludedNames, so volatile parameters
// (random seeds, environment-dependent values) do not break history
// correlation. Retained parameters are sorted by name before hashing; the
// "::" separator cannot appear in a well-formed name, so the encoding is
// unambiguous.
func Generate(project, module, test string, params []types.Parameter, excludedNames []string) string {
	excluded := make(map[string]struct{}, len(excludedNames))
	for _, name := range excludedNames {
		excluded[name] = struct{}{}
	}

	retained := make([]types.Parameter, 0, len(params))
	for _, p := range params {
		if p.Excluded {
			continue
		}
		if _, ok := excluded[p.Name]; ok {
			continue
		}
		retained = append(retained, p)
	}
	sort.Slice(retained, func(i, j int) bool { return retained[i].Name < retained[j].Name })

	h := sha256.New()
	fmt.Fprintf(h, "%s::%s::%s", project, module, test)
	for _, p := range retained {
		fmt.Fprintf(h, "::%s=%s", p.Name, p.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}
