package pedigree

import (
	"fmt"
	"math"
)

const (
	DefaultLowPercent  = 3.125
	DefaultHighPercent = 6.25
)

// Thresholds son los cortes de riesgo en porcentaje.
// Low < LowPercent <= Medium <= HighPercent < High.
type Thresholds struct {
	LowPercent  float64
	HighPercent float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{LowPercent: DefaultLowPercent, HighPercent: DefaultHighPercent}
}

func (t Thresholds) Validate() error {
	if math.IsNaN(t.LowPercent) || math.IsNaN(t.HighPercent) {
		return fmt.Errorf("%w: risk thresholds must be numbers", ErrConfiguration)
	}
	if t.LowPercent < 0 || t.HighPercent > 100 {
		return fmt.Errorf("%w: risk thresholds must be within [0, 100] (low=%v high=%v)",
			ErrConfiguration, t.LowPercent, t.HighPercent)
	}
	if t.LowPercent >= t.HighPercent {
		return fmt.Errorf("%w: risk thresholds must be increasing (low=%v high=%v)",
			ErrConfiguration, t.LowPercent, t.HighPercent)
	}
	return nil
}

type Classifier struct {
	t Thresholds
}

func NewClassifier(t Thresholds) (Classifier, error) {
	if err := t.Validate(); err != nil {
		return Classifier{}, err
	}
	return Classifier{t: t}, nil
}

func (c Classifier) Thresholds() Thresholds { return c.t }

// Classify recibe el coeficiente como fracción.
func (c Classifier) Classify(coefficient float64) RiskTier {
	pct := coefficient * 100
	switch {
	case pct < c.t.LowPercent:
		return RiskLow
	case pct <= c.t.HighPercent:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Recommend mapea el tier a la recomendación y un texto para el criador.
func Recommend(tier RiskTier) (Recommendation, string) {
	switch tier {
	case RiskLow:
		return RecommendProceed, "safe mating: low genetic risk"
	case RiskMedium:
		return RecommendCaution, "mate with caution: monitor offspring"
	default:
		return RecommendNotRecommended, "avoid mating: high genetic risk"
	}
}
