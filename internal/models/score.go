package models

// QualityMetrics holds four independent static code-quality signals. Each true
// signal contributes a fixed bonus to the gradient score.
type QualityMetrics struct {
	LengthOK           bool `json:"length_ok"`
	HasErrorHandling   bool `json:"has_error_handling"`
	HasDocumentation   bool `json:"has_documentation"`
	FollowsConventions bool `json:"follows_conventions"`
}

// TrueCount returns how many of the four signals are set.
func (q QualityMetrics) TrueCount() int {
	n := 0
	for _, v := range []bool{q.LengthOK, q.HasErrorHandling, q.HasDocumentation, q.FollowsConventions} {
		if v {
			n++
		}
	}
	return n
}

// ScoreDetails breaks a score value into its components.
type ScoreDetails struct {
	Base         int `json:"base"`
	QualityBonus int `json:"quality_bonus"`
}

// Score is the 0-100 gradient quality measure for one evaluation.
// Value == clamp(Details.Base + Details.QualityBonus, 0, 100).
type Score struct {
	Value     int          `json:"value"`
	PassRate  float64      `json:"pass_rate"`
	Success   bool         `json:"success"`
	Reasoning string       `json:"reasoning"`
	Details   ScoreDetails `json:"details"`
}
