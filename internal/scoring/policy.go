package scoring

import "fmt"

// Default policy constants. These are defaults, not hard-coded behavior: a
// spec file may override any of them through its scoring section.
const (
	DefaultBaseWeight             = 90.0
	DefaultQualityPointsPerSignal = 2.5
	DefaultQualityBonusCap        = 10
	DefaultSuccessThreshold       = 70
	DefaultTrendMargin            = 5.0
)

// Band is one labeled score range. Bounds are inclusive.
type Band struct {
	Min   int    `json:"min" mapstructure:"min"`
	Max   int    `json:"max" mapstructure:"max"`
	Label string `json:"label" mapstructure:"label"`
}

// Policy holds every tunable constant of the gradient scoring algorithm.
// The zero value is not usable; start from DefaultPolicy.
type Policy struct {
	// BaseWeight is the maximum number of points the pass rate alone can earn.
	BaseWeight float64 `mapstructure:"base_weight"`

	// QualityPointsPerSignal is the bonus per true quality signal.
	QualityPointsPerSignal float64 `mapstructure:"quality_points_per_signal"`

	// QualityBonusCap caps the total quality bonus.
	QualityBonusCap int `mapstructure:"quality_bonus_cap"`

	// SuccessThreshold is the minimum value considered a successful run.
	SuccessThreshold int `mapstructure:"success_threshold"`

	// TrendMargin is the minimum endpoint difference for a score series to
	// count as improving or declining rather than stable.
	TrendMargin float64 `mapstructure:"trend_margin"`

	// Bands maps value ranges to reasoning labels, highest first.
	Bands []Band `mapstructure:"bands"`
}

// DefaultPolicy returns the standard scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		BaseWeight:             DefaultBaseWeight,
		QualityPointsPerSignal: DefaultQualityPointsPerSignal,
		QualityBonusCap:        DefaultQualityBonusCap,
		SuccessThreshold:       DefaultSuccessThreshold,
		TrendMargin:            DefaultTrendMargin,
		Bands: []Band{
			{Min: 90, Max: 100, Label: "Excellent"},
			{Min: 70, Max: 89, Label: "Good"},
			{Min: 50, Max: 69, Label: "Moderate issues"},
			{Min: 30, Max: 49, Label: "Major issues"},
			{Min: 0, Max: 29, Label: "Critical issues"},
		},
	}
}

// BandFor returns the band containing the given score value.
func (p Policy) BandFor(value int) Band {
	for _, b := range p.Bands {
		if value >= b.Min && value <= b.Max {
			return b
		}
	}
	// Bands from a validated policy cover [0,100]; anything else is clamped
	// upstream, so this is unreachable in practice.
	return Band{Min: 0, Max: 100, Label: "Unrated"}
}

// Validate checks that the policy's constants are internally coherent.
func (p Policy) Validate() error {
	if p.BaseWeight <= 0 || p.BaseWeight > 100 {
		return fmt.Errorf("base_weight must be in (0, 100], got %v", p.BaseWeight)
	}
	if p.QualityPointsPerSignal < 0 {
		return fmt.Errorf("quality_points_per_signal must be >= 0, got %v", p.QualityPointsPerSignal)
	}
	if p.QualityBonusCap < 0 || p.QualityBonusCap > 100 {
		return fmt.Errorf("quality_bonus_cap must be in [0, 100], got %d", p.QualityBonusCap)
	}
	if p.SuccessThreshold < 0 || p.SuccessThreshold > 100 {
		return fmt.Errorf("success_threshold must be in [0, 100], got %d", p.SuccessThreshold)
	}
	if p.TrendMargin < 0 {
		return fmt.Errorf("trend_margin must be >= 0, got %v", p.TrendMargin)
	}
	if len(p.Bands) == 0 {
		return fmt.Errorf("at least one band is required")
	}

	covered := make([]bool, 101)
	for _, b := range p.Bands {
		if b.Label == "" {
			return fmt.Errorf("band [%d,%d] has no label", b.Min, b.Max)
		}
		if b.Min < 0 || b.Max > 100 || b.Min > b.Max {
			return fmt.Errorf("band %q has invalid range [%d,%d]", b.Label, b.Min, b.Max)
		}
		for v := b.Min; v <= b.Max; v++ {
			if covered[v] {
				return fmt.Errorf("band %q overlaps another band at value %d", b.Label, v)
			}
			covered[v] = true
		}
	}
	for v, ok := range covered {
		if !ok {
			return fmt.Errorf("bands leave value %d uncovered", v)
		}
	}

	return nil
}
