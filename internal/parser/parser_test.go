package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauge/internal/models"
)

func TestParseSummaryLine(t *testing.T) {
	out := "collected 4 items\n\n3 passed, 1 failed in 0.12s\n"

	res := Parse(out, "")
	require.NotNil(t, res)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 3, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 0, res.Skipped)
	assert.InDelta(t, 0.12, res.DurationSeconds, 1e-9)
	assert.False(t, res.CountsApproximate)
	assert.True(t, res.CountsConsistent())
}

func TestParseSummaryWithErrorsAndSkips(t *testing.T) {
	out := "2 passed, 1 failed, 1 error, 3 skipped in 1.50s"

	res := Parse(out, "")

	assert.Equal(t, 7, res.Total)
	assert.Equal(t, 2, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 3, res.Skipped)
}

func TestParseLastSummaryWins(t *testing.T) {
	// Progress output can mention counts before the final summary line.
	out := "1 passed so far\nmore output\n5 passed in 0.30s"

	res := Parse(out, "")

	assert.Equal(t, 5, res.Passed)
	assert.Equal(t, 5, res.Total)
}

func TestParsePerTestMarkers(t *testing.T) {
	out := strings.Join([]string{
		"test_calc.py::test_add PASSED",
		"test_calc.py::test_sub FAILED",
		"test_calc.py::test_div SKIPPED",
		"",
		"=================================== FAILURES ===================================",
		"__________________________________ test_sub ____________________________________",
		"    def test_sub():",
		">       assert sub(3, 1) == 1",
		"E       assert 2 == 1",
		"=========================== short test summary info ============================",
		"1 failed, 1 passed, 1 skipped in 0.10s",
	}, "\n")

	res := Parse(out, "")

	require.Len(t, res.Tests, 3)
	assert.Equal(t, "test_add", res.Tests[0].Name)
	assert.Equal(t, models.StatusPassed, res.Tests[0].Status)
	assert.Equal(t, "test_sub", res.Tests[1].Name)
	assert.Equal(t, models.StatusFailed, res.Tests[1].Status)
	assert.Contains(t, res.Tests[1].FailureReason, "assert 2 == 1")
	assert.Equal(t, models.StatusSkipped, res.Tests[2].Status)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Skipped)
}

func TestParseCasesWithoutSummaryLine(t *testing.T) {
	out := "test_a.py::test_one PASSED\ntest_a.py::test_two FAILED\ntest_a.py::test_three ERROR"

	res := Parse(out, "")

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Errors)
	assert.True(t, res.CountsConsistent())
}

func TestParseCollectionFailure(t *testing.T) {
	out := "E   ModuleNotFoundError: No module named 'flask'"

	res := Parse(out, "")

	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Errors)
	assert.True(t, res.CountsApproximate)
	require.Len(t, res.Tests, 1)
	assert.Equal(t, "flask", res.Tests[0].Name)
	assert.Equal(t, models.StatusError, res.Tests[0].Status)
	assert.Contains(t, res.Tests[0].FailureReason, "No module named 'flask'")
}

func TestParseCollectionFailureOnStderr(t *testing.T) {
	res := Parse("", "SyntaxError: invalid syntax")

	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.Tests, 1)
	assert.Equal(t, "SyntaxError", res.Tests[0].Name)
}

func TestParseEmptyOutput(t *testing.T) {
	res := Parse("", "")

	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.Passed)
	assert.True(t, res.CountsApproximate)
	assert.Empty(t, res.Tests)
}

func TestParseUnknownFormatPreservesRawOutput(t *testing.T) {
	out := "something entirely unexpected\nwith no counts at all"

	res := Parse(out, "")

	assert.Equal(t, 0, res.Total)
	assert.True(t, res.CountsApproximate)
	assert.Contains(t, res.RawOutput, "something entirely unexpected")
}

func TestParseStructuredBlockIsAuthoritative(t *testing.T) {
	// The text around the JSON block disagrees with it; the block wins.
	out := strings.Join([]string{
		"9 passed in 3.00s",
		`{"summary": {"passed": 2, "failed": 1, "total": 3}, "tests": [{"nodeid": "test_a.py::test_one", "outcome": "passed"}, {"nodeid": "test_a.py::test_two", "outcome": "failed", "call": {"longrepr": "assert 1 == 2"}}, {"nodeid": "test_a.py::test_three", "outcome": "passed"}], "duration": 0.42}`,
	}, "\n")

	res := Parse(out, "")

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.InDelta(t, 0.42, res.DurationSeconds, 1e-9)

	require.Len(t, res.Tests, 3)
	assert.Equal(t, "test_two", res.Tests[1].Name)
	assert.Equal(t, models.StatusFailed, res.Tests[1].Status)
	assert.Equal(t, "assert 1 == 2", res.Tests[1].FailureReason)
}

func TestParseMalformedStructuredBlockFallsThrough(t *testing.T) {
	out := "{\"summary\": not valid json}\n2 passed in 0.05s"

	res := Parse(out, "")

	assert.Equal(t, 2, res.Passed)
	assert.Equal(t, 2, res.Total)
}

func TestParseIsDeterministic(t *testing.T) {
	out := "test_a.py::test_one PASSED\n1 passed in 0.01s"

	first := Parse(out, "")
	second := Parse(out, "")

	assert.Equal(t, first, second)
}

func TestTruncateReasonBounds(t *testing.T) {
	long := strings.Repeat("x", 5000)
	assert.Len(t, truncateReason(long), maxReasonLen)
	assert.Equal(t, "short", truncateReason("short"))
}
