package sla

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/satwikkini-01/Sahaay/internal/models"
)

const (
	historyWindow     = 90 * 24 * time.Hour
	predictionSamples = 100
	recommendSamples  = 200
)

// HistoryStore supplies resolved complaints for breach prediction and SLA
// recommendation.
type HistoryStore interface {
	ResolvedComplaints(ctx context.Context, category, priority string, since time.Time, limit int) ([]models.Complaint, error)
}

// BreachPrediction estimates how likely a complaint is to miss its SLA.
type BreachPrediction struct {
	BreachProbability        float64 `json:"breach_probability"`
	EstimatedResolutionHours float64 `json:"estimated_resolution_hours"`
	Confidence               float64 `json:"confidence"`
	HistoricalBreachRate     float64 `json:"historical_breach_rate,omitempty"`
	SampleSize               int     `json:"sample_size"`
	Reason                   string  `json:"reason"`
}

// Predictor answers breach-risk questions from 90 days of resolved history.
// Thin history yields conservative defaults flagged with low confidence,
// never an error.
type Predictor struct {
	Store HistoryStore
	Now   func() time.Time
}

func NewPredictor(store HistoryStore) *Predictor {
	return &Predictor{Store: store, Now: time.Now}
}

func (p *Predictor) PredictBreach(ctx context.Context, c models.Complaint) BreachPrediction {
	fallbackHours := float64(c.SLAHours)
	if fallbackHours <= 0 {
		fallbackHours = 24
	}
	conservative := BreachPrediction{
		BreachProbability:        0.3,
		EstimatedResolutionHours: fallbackHours,
		Confidence:               0.3,
		Reason:                   "Insufficient historical data",
	}

	history, err := p.Store.ResolvedComplaints(ctx, c.Category, c.Priority, p.Now().Add(-historyWindow), predictionSamples)
	if err != nil || len(history) < 5 {
		return conservative
	}

	var totalHours float64
	breached := 0
	for _, h := range history {
		hours := resolutionHours(h)
		totalHours += hours
		slaHours := float64(h.SLAHours)
		if slaHours <= 0 {
			slaHours = 24
		}
		if hours > slaHours {
			breached++
		}
	}
	avgResolution := totalHours / float64(len(history))
	breachRate := float64(breached) / float64(len(history))

	probability := breachRate
	if float64(c.SLAHours) < avgResolution {
		probability += 0.2
	}
	now := p.Now()
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		probability += 0.1
	}
	if hour := now.Hour(); hour < 8 || hour > 20 {
		probability += 0.1
	}
	probability = math.Min(1, math.Max(0, probability))

	return BreachPrediction{
		BreachProbability:        probability,
		EstimatedResolutionHours: avgResolution,
		Confidence:               math.Min(1, float64(len(history))/50),
		HistoricalBreachRate:     breachRate,
		SampleSize:               len(history),
		Reason:                   fmt.Sprintf("Based on %d similar complaints", len(history)),
	}
}

// Warning levels, most urgent first.
const (
	WarningNone     = "none"
	WarningMedium   = "medium"
	WarningHigh     = "high"
	WarningCritical = "critical"
	WarningBreached = "breached"
)

// EarlyWarning is the risk report for a single open complaint.
type EarlyWarning struct {
	ComplaintID    string           `json:"complaint_id"`
	WarningLevel   string           `json:"warning_level"`
	Message        string           `json:"message"`
	HoursPassed    float64          `json:"hours_passed"`
	HoursRemaining float64          `json:"hours_remaining"`
	SLAHours       int              `json:"sla_hours"`
	Prediction     BreachPrediction `json:"prediction"`
}

func (p *Predictor) CheckEarlyWarning(ctx context.Context, c models.Complaint) EarlyWarning {
	now := p.Now()
	slaHours := float64(c.SLAHours)
	if slaHours <= 0 {
		slaHours = 24
	}
	hoursPassed := now.Sub(c.CreatedAt).Hours()
	hoursRemaining := slaHours - hoursPassed

	prediction := p.PredictBreach(ctx, c)

	level := WarningNone
	message := ""
	switch {
	case hoursRemaining < 0:
		level = WarningBreached
		message = fmt.Sprintf("SLA already breached by %.1f hours", -hoursRemaining)
	case hoursRemaining < 2:
		level = WarningCritical
		message = fmt.Sprintf("Only %.1f hours remaining until SLA breach", hoursRemaining)
	case hoursRemaining < slaHours*0.25:
		level = WarningHigh
		message = fmt.Sprintf("%.1f hours remaining (%.0f%% of SLA)", hoursRemaining, hoursRemaining/slaHours*100)
	case prediction.BreachProbability > 0.7:
		level = WarningMedium
		message = fmt.Sprintf("High breach probability (%.0f%%)", prediction.BreachProbability*100)
	}

	return EarlyWarning{
		ComplaintID:    c.ID,
		WarningLevel:   level,
		Message:        message,
		HoursPassed:    hoursPassed,
		HoursRemaining: hoursRemaining,
		SLAHours:       c.SLAHours,
		Prediction:     prediction,
	}
}

// AtRisk filters and ranks open complaints by warning severity.
func (p *Predictor) AtRisk(ctx context.Context, open []models.Complaint) []EarlyWarning {
	rank := map[string]int{
		WarningBreached: 0,
		WarningCritical: 1,
		WarningHigh:     2,
		WarningMedium:   3,
	}

	var out []EarlyWarning
	for _, c := range open {
		w := p.CheckEarlyWarning(ctx, c)
		if w.WarningLevel != WarningNone {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i].WarningLevel] < rank[out[j].WarningLevel]
	})
	return out
}

// RecommendSLAHours derives a target from the 75th percentile of historical
// resolution times, so roughly three quarters of complaints resolve inside
// the window. Thin history falls back to fixed defaults.
func (p *Predictor) RecommendSLAHours(ctx context.Context, category, priority string) (int, bool) {
	defaults := map[string]int{
		models.PriorityHigh:   4,
		models.PriorityMedium: 12,
		models.PriorityLow:    48,
	}
	fallback, ok := defaults[priority]
	if !ok {
		fallback = 24
	}

	history, err := p.Store.ResolvedComplaints(ctx, category, priority, p.Now().Add(-historyWindow), recommendSamples)
	if err != nil || len(history) < 10 {
		return fallback, false
	}

	times := make([]float64, 0, len(history))
	for _, h := range history {
		times = append(times, resolutionHours(h))
	}
	sort.Float64s(times)
	idx := int(float64(len(times)) * 0.75)
	if idx >= len(times) {
		idx = len(times) - 1
	}
	return int(math.Ceil(times[idx])), true
}

func resolutionHours(c models.Complaint) float64 {
	resolved := c.UpdatedAt
	if resolved.IsZero() {
		resolved = c.CreatedAt
	}
	return resolved.Sub(c.CreatedAt).Hours()
}
