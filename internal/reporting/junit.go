package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/probeworks/gauge/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one evaluated condition.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one parsed test case.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a test assertion failure.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

// JUnitError represents an unexpected error during test execution.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a test as skipped.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a BatchOutcome to JUnit XML: one testsuite per
// evaluated condition, with the score attached as suite properties. Conditions
// that failed at the execution layer become a suite holding a single errored
// case so CI tooling still surfaces them.
func ConvertToJUnit(outcome *models.BatchOutcome) *JUnitTestSuites {
	suites := &JUnitTestSuites{
		Time: float64(outcome.DurationMs) / 1000.0,
	}

	for _, ev := range outcome.Evaluations {
		suite := convertEvaluation(&ev)
		suites.Tests += suite.Tests
		suites.Failures += suite.Failures
		suites.Errors += suite.Errors
		suites.TestSuites = append(suites.TestSuites, suite)
	}

	for _, f := range outcome.Failures {
		suite := convertFailure(&f, outcome.Timestamp)
		suites.Tests++
		suites.Errors++
		suites.TestSuites = append(suites.TestSuites, suite)
	}

	return suites
}

func convertEvaluation(ev *models.Evaluation) JUnitTestSuite {
	r := ev.Result

	suite := JUnitTestSuite{
		Name:      ev.Label,
		Tests:     r.Total,
		Failures:  r.Failed,
		Errors:    r.Errors,
		Skipped:   r.Skipped,
		Time:      r.DurationSeconds,
		Timestamp: ev.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "score", Value: fmt.Sprintf("%d", ev.Score.Value)},
			{Name: "pass_rate", Value: fmt.Sprintf("%.4f", ev.Score.PassRate)},
			{Name: "success", Value: fmt.Sprintf("%t", ev.Score.Success)},
		},
	}

	for _, t := range r.Tests {
		tc := JUnitTestCase{
			Name:      t.Name,
			Classname: ev.Label,
		}
		switch t.Status {
		case models.StatusFailed:
			tc.Failure = &JUnitFailure{Message: t.FailureReason, Type: "TestFailure"}
		case models.StatusError:
			tc.Error = &JUnitError{Message: t.FailureReason, Type: "TestError"}
		case models.StatusSkipped:
			tc.Skipped = &JUnitSkipped{}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	return suite
}

func convertFailure(f *models.ConditionFailure, ts time.Time) JUnitTestSuite {
	return JUnitTestSuite{
		Name:      f.Label,
		Tests:     1,
		Errors:    1,
		Timestamp: ts.Format(time.RFC3339),
		TestCases: []JUnitTestCase{{
			Name:      string(f.Kind),
			Classname: f.Label,
			Error: &JUnitError{
				Message: f.Message,
				Type:    string(f.Kind),
				Body:    f.Output,
			},
		}},
	}
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(outcome *models.BatchOutcome, path string) error {
	suites := ConvertToJUnit(outcome)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
