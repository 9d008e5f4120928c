// Package scoring converts a parsed test run, plus optional code-quality
// signals, into a 0-100 gradient score. Score is a pure function: it performs
// no I/O, holds no state, and identical inputs always produce identical
// output.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/probeworks/gauge/internal/models"
)

// ErrNilResult is returned when Score is given no test run to score.
var ErrNilResult = errors.New("scoring: nil test run result")

// Score computes the gradient score for one test run. A nil quality pointer
// means no quality analysis was performed and contributes zero bonus. The
// result pointer must be non-nil; everything else, including a run with zero
// collected tests, is a legal input.
func Score(result *models.TestRunResult, quality *models.QualityMetrics, policy Policy) (models.Score, error) {
	if result == nil {
		return models.Score{}, ErrNilResult
	}
	if err := policy.Validate(); err != nil {
		return models.Score{}, fmt.Errorf("invalid scoring policy: %w", err)
	}

	passRate := result.PassRate()

	// A run that collected nothing cannot earn base points, whatever the
	// pass-rate formula would say.
	base := 0
	if result.Total > 0 {
		base = int(math.Round(passRate * policy.BaseWeight))
	}

	bonus := 0
	if quality != nil {
		bonus = int(math.Round(policy.QualityPointsPerSignal * float64(quality.TrueCount())))
		if bonus > policy.QualityBonusCap {
			bonus = policy.QualityBonusCap
		}
	}

	value := base + bonus
	if value < 0 {
		value = 0
	} else if value > 100 {
		value = 100
	}

	return models.Score{
		Value:     value,
		PassRate:  passRate,
		Success:   value >= policy.SuccessThreshold,
		Reasoning: reasoning(result, policy.BandFor(value), passRate, bonus),
		Details:   models.ScoreDetails{Base: base, QualityBonus: bonus},
	}, nil
}

// reasoning renders the mandated human-readable explanation: the band label,
// the pass rate, and any failing or errored counts.
func reasoning(result *models.TestRunResult, band Band, passRate float64, bonus int) string {
	var b strings.Builder

	if result.Total == 0 {
		fmt.Fprintf(&b, "%s: no tests were collected", band.Label)
		if len(result.Tests) == 1 && result.Tests[0].FailureReason != "" {
			fmt.Fprintf(&b, " (%s)", result.Tests[0].FailureReason)
		}
	} else {
		fmt.Fprintf(&b, "%s: %.1f%% pass rate (%d/%d)", band.Label, passRate*100, result.Passed, result.Total)
		if result.Failed > 0 {
			fmt.Fprintf(&b, ", %d failed", result.Failed)
		}
		if result.Errors > 0 {
			fmt.Fprintf(&b, ", %d errored", result.Errors)
		}
	}

	if bonus > 0 {
		fmt.Fprintf(&b, "; +%d quality bonus", bonus)
	}

	return b.String()
}
