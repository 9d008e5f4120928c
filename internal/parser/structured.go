package parser

import (
	"encoding/json"
	"strings"

	"github.com/probeworks/gauge/internal/models"
)

// structuredReport mirrors the JSON summary block emitted by test runners with
// a --json-report style flag. Only the fields we consume are declared.
type structuredReport struct {
	Duration float64 `json:"duration"`
	Summary  struct {
		Total     *int `json:"total"`
		Collected *int `json:"collected"`
		Passed    int  `json:"passed"`
		Failed    int  `json:"failed"`
		Error     int  `json:"error"`
		Skipped   int  `json:"skipped"`
	} `json:"summary"`
	Tests []struct {
		NodeID  string `json:"nodeid"`
		Outcome string `json:"outcome"`
		Call    *struct {
			Longrepr string `json:"longrepr"`
		} `json:"call"`
	} `json:"tests"`
}

// parseStructured scans the output for a machine-readable summary block: a
// single line holding a JSON object with both "summary" and "tests" keys.
// When present it is authoritative; any decode failure falls through to the
// text ladder by returning nil.
func parseStructured(output string) *models.TestRunResult {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			continue
		}

		var probe map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &probe); err != nil {
			continue
		}
		if _, ok := probe["summary"]; !ok {
			continue
		}
		if _, ok := probe["tests"]; !ok {
			continue
		}

		var report structuredReport
		if err := json.Unmarshal([]byte(line), &report); err != nil {
			continue
		}
		return report.toResult()
	}
	return nil
}

func (r *structuredReport) toResult() *models.TestRunResult {
	res := &models.TestRunResult{
		Passed:          r.Summary.Passed,
		Failed:          r.Summary.Failed,
		Errors:          r.Summary.Error,
		Skipped:         r.Summary.Skipped,
		DurationSeconds: r.Duration,
	}

	switch {
	case r.Summary.Total != nil:
		res.Total = *r.Summary.Total
	case r.Summary.Collected != nil:
		res.Total = *r.Summary.Collected
	default:
		res.Total = res.Passed + res.Failed + res.Errors + res.Skipped
	}
	res.CountsApproximate = !res.CountsConsistent()

	for _, t := range r.Tests {
		tc := models.TestCaseResult{
			Name:   testName(t.NodeID),
			Status: outcomeStatus(t.Outcome),
		}
		if t.Call != nil && (tc.Status == models.StatusFailed || tc.Status == models.StatusError) {
			tc.FailureReason = truncateReason(strings.TrimSpace(t.Call.Longrepr))
		}
		res.Tests = append(res.Tests, tc)
	}

	return res
}

func outcomeStatus(outcome string) models.Status {
	switch strings.ToLower(outcome) {
	case "passed", "xpassed":
		return models.StatusPassed
	case "failed", "xfailed":
		return models.StatusFailed
	case "skipped":
		return models.StatusSkipped
	default:
		return models.StatusError
	}
}

// testName strips the file/class qualifier from a node ID like
// "test_file.py::TestClass::test_name".
func testName(nodeID string) string {
	if i := strings.LastIndex(nodeID, "::"); i >= 0 {
		return nodeID[i+2:]
	}
	return nodeID
}
