package sla

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satwikkini-01/Sahaay/internal/models"
)

type fakeHistoryStore struct {
	history []models.Complaint
	err     error
}

func (s *fakeHistoryStore) ResolvedComplaints(ctx context.Context, category, priority string, since time.Time, limit int) ([]models.Complaint, error) {
	return s.history, s.err
}

// Tuesday 10:00: no weekend or off-hours probability bonus.
var predictionNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestPredictor(store *fakeHistoryStore) *Predictor {
	p := NewPredictor(store)
	p.Now = func() time.Time { return predictionNow }
	return p
}

// resolvedIn builds a resolved complaint that took the given hours against
// the given SLA window.
func resolvedIn(hours float64, slaHours int) models.Complaint {
	created := predictionNow.Add(-30 * 24 * time.Hour)
	return models.Complaint{
		Status:    models.StatusResolved,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Duration(hours * float64(time.Hour))),
		SLAHours:  slaHours,
	}
}

func TestPredictBreachConservativeDefaults(t *testing.T) {
	cases := []struct {
		name  string
		store *fakeHistoryStore
	}{
		{"store failure", &fakeHistoryStore{err: assert.AnError}},
		{"thin history", &fakeHistoryStore{history: []models.Complaint{resolvedIn(2, 4), resolvedIn(3, 4)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPredictor(tc.store)
			got := p.PredictBreach(context.Background(), models.Complaint{Category: "water", SLAHours: 6})
			assert.InDelta(t, 0.3, got.BreachProbability, 0.001)
			assert.InDelta(t, 0.3, got.Confidence, 0.001)
			assert.InDelta(t, 6, got.EstimatedResolutionHours, 0.001)
			assert.Equal(t, "Insufficient historical data", got.Reason)
		})
	}
}

func TestPredictBreachFromHistory(t *testing.T) {
	// 10 resolved complaints, 4 of which breached their 4h SLA.
	history := make([]models.Complaint, 0, 10)
	for i := 0; i < 6; i++ {
		history = append(history, resolvedIn(2, 4))
	}
	for i := 0; i < 4; i++ {
		history = append(history, resolvedIn(8, 4))
	}
	p := newTestPredictor(&fakeHistoryStore{history: history})

	// avg resolution (4.4h) exceeds this complaint's 4h SLA: +0.2 on top of
	// the 0.4 historical rate.
	got := p.PredictBreach(context.Background(), models.Complaint{Category: "water", Priority: models.PriorityHigh, SLAHours: 4})
	assert.InDelta(t, 0.4, got.HistoricalBreachRate, 0.001)
	assert.InDelta(t, 0.6, got.BreachProbability, 0.001)
	assert.InDelta(t, 4.4, got.EstimatedResolutionHours, 0.001)
	assert.InDelta(t, 0.2, got.Confidence, 0.001) // 10/50
	assert.Equal(t, 10, got.SampleSize)
}

func TestPredictBreachProbabilityClamped(t *testing.T) {
	history := make([]models.Complaint, 0, 20)
	for i := 0; i < 20; i++ {
		history = append(history, resolvedIn(30, 4))
	}
	p := newTestPredictor(&fakeHistoryStore{history: history})
	got := p.PredictBreach(context.Background(), models.Complaint{Category: "water", SLAHours: 4})
	assert.LessOrEqual(t, got.BreachProbability, 1.0)
}

func TestCheckEarlyWarningLevels(t *testing.T) {
	p := newTestPredictor(&fakeHistoryStore{})

	cases := []struct {
		name      string
		createdAt time.Time
		slaHours  int
		want      string
	}{
		{"breached", predictionNow.Add(-10 * time.Hour), 4, WarningBreached},
		{"critical", predictionNow.Add(-3 * time.Hour), 4, WarningCritical},
		{"high", predictionNow.Add(-20 * time.Hour), 24, WarningHigh},
		{"none", predictionNow.Add(-1 * time.Hour), 24, WarningNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := p.CheckEarlyWarning(context.Background(), models.Complaint{
				ID:        tc.name,
				CreatedAt: tc.createdAt,
				SLAHours:  tc.slaHours,
			})
			assert.Equal(t, tc.want, w.WarningLevel)
		})
	}
}

func TestAtRiskRanking(t *testing.T) {
	p := newTestPredictor(&fakeHistoryStore{})
	open := []models.Complaint{
		{ID: "safe", CreatedAt: predictionNow.Add(-1 * time.Hour), SLAHours: 24},
		{ID: "critical", CreatedAt: predictionNow.Add(-3 * time.Hour), SLAHours: 4},
		{ID: "breached", CreatedAt: predictionNow.Add(-10 * time.Hour), SLAHours: 4},
	}

	warnings := p.AtRisk(context.Background(), open)
	require.Len(t, warnings, 2)
	assert.Equal(t, "breached", warnings[0].ComplaintID)
	assert.Equal(t, "critical", warnings[1].ComplaintID)
}

func TestRecommendSLAHoursDefaults(t *testing.T) {
	p := newTestPredictor(&fakeHistoryStore{})

	cases := []struct {
		priority string
		want     int
	}{
		{models.PriorityHigh, 4},
		{models.PriorityMedium, 12},
		{models.PriorityLow, 48},
		{"unknown", 24},
	}
	for _, tc := range cases {
		got, fromHistory := p.RecommendSLAHours(context.Background(), "water", tc.priority)
		assert.Equal(t, tc.want, got)
		assert.False(t, fromHistory)
	}
}

func TestRecommendSLAHoursPercentile(t *testing.T) {
	// Resolution times 1..20h: the 75th percentile index lands on 16h.
	history := make([]models.Complaint, 0, 20)
	for i := 1; i <= 20; i++ {
		history = append(history, resolvedIn(float64(i), 24))
	}
	p := newTestPredictor(&fakeHistoryStore{history: history})

	got, fromHistory := p.RecommendSLAHours(context.Background(), "water", models.PriorityMedium)
	assert.True(t, fromHistory)
	assert.Equal(t, 16, got)
}
