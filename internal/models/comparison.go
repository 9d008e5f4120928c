package models

// Trend classifies score movement across an ordered sequence of runs.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// LabeledScore pairs a score with the condition/run it came from.
type LabeledScore struct {
	Label string `json:"label"`
	Score Score  `json:"score"`
}

// ComparisonSummary aggregates scores across an ordered set of runs.
// Best/Worst ties resolve to the earliest label in input order.
type ComparisonSummary struct {
	Scores      []LabeledScore `json:"scores"`
	Best        string         `json:"best"`
	BestValue   int            `json:"best_value"`
	Worst       string         `json:"worst"`
	WorstValue  int            `json:"worst_value"`
	Average     float64        `json:"average"`
	StdDev      float64        `json:"std_dev"`
	Spread      float64        `json:"spread"`
	Improvement int            `json:"improvement"`
	Trend       Trend          `json:"trend"`
}
