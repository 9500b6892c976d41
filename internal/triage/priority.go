package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/weather"
)

// Ensemble weights. When no coordinates are available the weather term is
// dropped and ML/rules renormalize to 0.5 each.
const (
	weightML      = 0.45
	weightRules   = 0.45
	weightWeather = 0.10

	highThreshold   = 70
	mediumThreshold = 40

	// A rule score of 100 means a critical keyword or emergency location
	// matched; the combined score is floored so the complaint lands in the
	// high band even when the classifier disagrees.
	criticalFloor = 80
)

var slaTable = map[string][3]int{
	"water":       {2, 6, 24},
	"electricity": {2, 6, 24},
	"roads":       {4, 12, 48},
	"rail":        {1, 4, 24},
}

var slaDefault = [3]int{4, 12, 48}

// Draft is the complaint input to the aggregator, before persistence.
type Draft struct {
	Title       string
	Description string
	Category    string
	Lat         *float64
	Lon         *float64
}

// Aggregator combines the rule scorer, the trained classifier and the
// weather adjuster into a final priority and SLA window.
type Aggregator struct {
	Classifier *Classifier
	Weather    *weather.Adjuster
	Logger     zerolog.Logger
	Now        func() time.Time
}

func NewAggregator(classifier *Classifier, adjuster *weather.Adjuster, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		Classifier: classifier,
		Weather:    adjuster,
		Logger:     logger,
		Now:        time.Now,
	}
}

// Analyze is deterministic for a fixed clock and weather snapshot. The
// returned analysis always has priority in {high, medium, low}, a positive
// SLA window and a score in [0,100].
func (a *Aggregator) Analyze(ctx context.Context, draft Draft) models.PriorityAnalysis {
	prediction := a.Classifier.Classify(draft.Title + " " + draft.Description + " " + draft.Category)
	mlScore := labelBaseScore(prediction.Label)

	textScore := TextScore(draft.Title, draft.Description, draft.Category)
	timeScore := timeOfDayScore(a.Now())
	ruleScore := textScore + timeScore

	var boost weather.Boost
	hasWeather := false
	if draft.Lat != nil && draft.Lon != nil && a.Weather != nil {
		boost = a.Weather.PriorityBoost(ctx, *draft.Lat, *draft.Lon, draft.Category)
		hasWeather = true
	}

	var combined float64
	if hasWeather {
		combined = weightML*float64(mlScore) +
			weightRules*float64(ruleScore) +
			weightWeather*float64(boost.Boost*2) // scale 0-50 boost to a 0-100 term
	} else {
		combined = 0.5*float64(mlScore) + 0.5*float64(ruleScore)
	}

	if textScore >= 100 && combined < criticalFloor {
		combined = criticalFloor
	}
	score := clampScore(combined)

	priority := models.PriorityLow
	switch {
	case score >= highThreshold:
		priority = models.PriorityHigh
	case score >= mediumThreshold:
		priority = models.PriorityMedium
	}

	explanation := fmt.Sprintf("ml=%s(%.2f) text=%d time=%d", prediction.Label, prediction.Confidence, textScore, timeScore)
	if hasWeather {
		explanation += ". " + boost.Explanation
	}

	analysis := models.PriorityAnalysis{
		Priority: priority,
		SLAHours: slaHours(draft.Category, priority),
		Meta: models.AnalysisMeta{
			PriorityScore: score,
			MLPrediction:  prediction.Label,
			MLConfidence:  prediction.Confidence,
			TextScore:     textScore,
			TimeScore:     timeScore,
			WeatherBoost:  boost.Boost,
			Explanation:   explanation,
		},
	}

	a.Logger.Debug().
		Str("category", draft.Category).
		Str("priority", priority).
		Int("score", score).
		Int("sla_hours", analysis.SLAHours).
		Msg("priority analyzed")
	return analysis
}

func labelBaseScore(label string) int {
	switch label {
	case models.PriorityHigh:
		return 85
	case models.PriorityLow:
		return 20
	default:
		return 50
	}
}

// timeOfDayScore adds urgency during staffed hours and weekends, when crews
// are stretched thin.
func timeOfDayScore(now time.Time) int {
	score := 0
	hour := now.Hour()
	if hour >= 8 && hour <= 20 {
		score += 20
	}
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		score += 10
	}
	return score
}

func slaHours(category, priority string) int {
	tiers, ok := slaTable[strings.ToLower(category)]
	if !ok {
		tiers = slaDefault
	}
	switch priority {
	case models.PriorityHigh:
		return tiers[0]
	case models.PriorityMedium:
		return tiers[1]
	default:
		return tiers[2]
	}
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v + 0.5)
}
