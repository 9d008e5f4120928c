// Package parser turns raw test-runner output into a TestRunResult. The
// output may be anything from a clean machine-readable summary to a truncated
// import-error stack trace, so parsing is a fallback ladder of small matchers
// rather than a grammar: each strategy either yields a result or defers to the
// next, and the final rung always produces something scorable.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/probeworks/gauge/internal/models"
)

const (
	// maxReasonLines caps how many lines of a failure block feed one reason.
	maxReasonLines = 5

	// maxReasonLen bounds the rendered failure reason.
	maxReasonLen = 1000
)

var (
	passedPattern   = regexp.MustCompile(`(\d+)\s+passed`)
	failedPattern   = regexp.MustCompile(`(\d+)\s+failed`)
	errorPattern    = regexp.MustCompile(`(\d+)\s+error`)
	skippedPattern  = regexp.MustCompile(`(\d+)\s+skipped`)
	durationPattern = regexp.MustCompile(`in\s+(\d+(?:\.\d+)?)s\b`)

	// collectErrorPattern matches a Python-style exception line, optionally
	// prefixed with the runner's "E " marker.
	collectErrorPattern = regexp.MustCompile(`^(?:E\s+)?((?:\w+\.)*\w*(?:Error|Exception))\s*:\s*(.*)$`)
	missingModulePattern = regexp.MustCompile(`No module named '([^']+)'`)
)

// Parse converts raw stdout and stderr from a test run into a TestRunResult.
// It never fails: malformed or empty output degrades to a zero-total result
// with counts_approximate set and the raw output preserved.
func Parse(stdout, stderr string) *models.TestRunResult {
	combined := stdout + "\n" + stderr

	if res := parseStructured(combined); res != nil {
		res.RawOutput = combined
		return res
	}

	res := parseText(combined)
	res.RawOutput = combined
	return res
}

func parseText(output string) *models.TestRunResult {
	res := &models.TestRunResult{
		Passed:  lastCount(passedPattern, output),
		Failed:  lastCount(failedPattern, output),
		Errors:  lastCount(errorPattern, output),
		Skipped: lastCount(skippedPattern, output),
	}
	res.Total = res.Passed + res.Failed + res.Errors + res.Skipped

	if m := durationPattern.FindAllStringSubmatch(output, -1); len(m) > 0 {
		res.DurationSeconds, _ = strconv.ParseFloat(m[len(m)-1][1], 64)
	}

	res.Tests = extractTestCases(output)

	if res.Total > 0 {
		return res
	}

	// No summary line matched. If the test cases themselves were visible,
	// their statuses are the best signal available.
	if len(res.Tests) > 0 {
		for _, tc := range res.Tests {
			res.Total++
			switch tc.Status {
			case models.StatusPassed:
				res.Passed++
			case models.StatusFailed:
				res.Failed++
			case models.StatusSkipped:
				res.Skipped++
			default:
				res.Errors++
			}
		}
		return res
	}

	// Nothing ran at all. A visible import/collection error becomes a single
	// synthetic errored case so the failure survives into the scored result.
	if name, reason, ok := collectionFailure(output); ok {
		res.Errors = 1
		res.CountsApproximate = true
		res.Tests = []models.TestCaseResult{{
			Name:          name,
			Status:        models.StatusError,
			FailureReason: truncateReason(reason),
		}}
		return res
	}

	// Unknown format: legitimate, uninformative.
	res.CountsApproximate = true
	return res
}

// lastCount returns the count from the last occurrence of the pattern. The
// last match is the one from the final summary line; earlier matches come
// from progress output.
func lastCount(re *regexp.Regexp, output string) int {
	matches := re.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(matches[len(matches)-1][1])
	return n
}

// extractTestCases pulls per-test status lines of the shape
// "test_file.py::test_name PASSED", preserving output order.
func extractTestCases(output string) []models.TestCaseResult {
	var cases []models.TestCaseResult

	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "::") {
			continue
		}

		var status models.Status
		switch {
		case strings.Contains(line, " PASSED"):
			status = models.StatusPassed
		case strings.Contains(line, " FAILED"):
			status = models.StatusFailed
		case strings.Contains(line, " ERROR"):
			status = models.StatusError
		case strings.Contains(line, " SKIPPED"):
			status = models.StatusSkipped
		default:
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := testName(fields[0])
		if name == "" {
			continue
		}

		tc := models.TestCaseResult{Name: name, Status: status}
		if status == models.StatusFailed || status == models.StatusError {
			tc.FailureReason = extractFailureReason(output, name)
		}
		cases = append(cases, tc)
	}

	return cases
}

// extractFailureReason walks the FAILURES section for the named test and
// collects the assertion-error lines plus nearby keyword lines, pipe-joined
// and bounded.
func extractFailureReason(output, name string) string {
	lines := strings.Split(output, "\n")

	start := -1
	for i, line := range lines {
		if strings.Contains(line, "== FAILURES ==") || strings.Contains(line, "== ERRORS ==") {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}

	var reasons []string
	inBlock := false

	for _, line := range lines[start:] {
		// The block header looks like "______ test_name ______".
		if !inBlock {
			if strings.Contains(line, name) && strings.Contains(line, "_") {
				inBlock = true
			}
			continue
		}

		// Next block or section terminates ours.
		if strings.HasPrefix(line, "_") || strings.HasPrefix(line, "=") {
			break
		}

		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "E "):
			reasons = append(reasons, strings.TrimSpace(stripped[2:]))
		case stripped != "" && !strings.HasPrefix(stripped, "-") && hasFailureKeyword(stripped):
			reasons = append(reasons, stripped)
		}

		if len(reasons) >= maxReasonLines {
			break
		}
	}

	return truncateReason(strings.Join(reasons, " | "))
}

func hasFailureKeyword(line string) bool {
	for _, kw := range []string{"assert", "Error", "Exception", "Failed"} {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// collectionFailure detects output where the suite never ran: an exception
// surfaced during import/collection with no summary counts. It returns the
// failing module (or the exception type when no module is named) and the
// captured error line.
func collectionFailure(output string) (name, reason string, ok bool) {
	for _, line := range strings.Split(output, "\n") {
		m := collectErrorPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		reason = m[1] + ": " + m[2]
		if mod := missingModulePattern.FindStringSubmatch(m[2]); mod != nil {
			return mod[1], reason, true
		}
		return m[1], reason, true
	}
	return "", "", false
}

func truncateReason(reason string) string {
	if len(reason) > maxReasonLen {
		return reason[:maxReasonLen]
	}
	return reason
}
