// Package quality derives the four static quality signals from a generated
// implementation file. The signals are deliberately shallow heuristics: they
// gate a small score bonus, not a code review. Callers that already hold
// QualityMetrics from elsewhere can skip this package entirely.
package quality

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/probeworks/gauge/internal/models"
)

const (
	// minLines and maxLines bound the "reasonable length" signal, counted
	// over non-blank lines.
	minLines = 50
	maxLines = 500
)

var defPattern = regexp.MustCompile(`(?m)^\s*def\s+([A-Za-z_]\w*)\s*\(`)

// AnalyzeFile reads the implementation file and derives its quality signals.
func AnalyzeFile(path string) (*models.QualityMetrics, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading implementation file: %w", err)
	}
	m := AnalyzeSource(string(src))
	return &m, nil
}

// AnalyzeSource derives quality signals from source text.
func AnalyzeSource(src string) models.QualityMetrics {
	lines := strings.Split(src, "\n")

	nonBlank := 0
	commentLines := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonBlank++
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			commentLines++
		}
	}

	return models.QualityMetrics{
		LengthOK:           nonBlank >= minLines && nonBlank <= maxLines,
		HasErrorHandling:   hasErrorHandling(src),
		HasDocumentation:   hasDocumentation(src, commentLines),
		FollowsConventions: followsConventions(src),
	}
}

func hasErrorHandling(src string) bool {
	for _, marker := range []string{"try:", "except", "raise ", "if err != nil"} {
		if strings.Contains(src, marker) {
			return true
		}
	}
	return false
}

func hasDocumentation(src string, commentLines int) bool {
	if strings.Contains(src, `"""`) || strings.Contains(src, "'''") {
		return true
	}
	return commentLines >= 3
}

// followsConventions checks that every function definition uses snake_case.
// A file with no definitions at all earns nothing.
func followsConventions(src string) bool {
	defs := defPattern.FindAllStringSubmatch(src, -1)
	if len(defs) == 0 {
		return false
	}
	for _, d := range defs {
		name := d[1]
		if name != strings.ToLower(name) {
			return false
		}
	}
	return true
}
