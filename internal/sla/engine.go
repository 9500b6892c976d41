package sla

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/satwikkini-01/Sahaay/internal/metrics"
	"github.com/satwikkini-01/Sahaay/internal/models"
)

// Thresholds drives the escalation state machine. Level2After and
// Level3After are measured from the SLA deadline, not from the previous
// level.
type Thresholds struct {
	WarningWindow time.Duration // predictive warning ahead of the deadline
	Level2After   time.Duration
	Level3After   time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		WarningWindow: 6 * time.Hour,
		Level2After:   4 * time.Hour,
		Level3After:   24 * time.Hour,
	}
}

// Store is the slice of the complaint store the escalation sweep needs.
type Store interface {
	OpenComplaints(ctx context.Context) ([]models.Complaint, error)
	UpdateEscalation(ctx context.Context, c models.Complaint) error
	AppendEscalation(ctx context.Context, e models.Escalation) error
}

// Engine advances each open complaint through the escalation state machine:
// on-track, predictive warning, breach (level 1), then levels 2 and 3.
// Levels only ever advance, one step per sweep, and a resolved complaint is
// never touched.
type Engine struct {
	Store      Store
	Thresholds Thresholds
	Logger     zerolog.Logger
	Now        func() time.Time
}

func NewEngine(store Store, thresholds Thresholds, logger zerolog.Logger) *Engine {
	return &Engine{
		Store:      store,
		Thresholds: thresholds,
		Logger:     logger,
		Now:        time.Now,
	}
}

// SweepSummary reports what a single sweep did.
type SweepSummary struct {
	Checked  int `json:"checked"`
	Warnings int `json:"warnings"`
	Level1   int `json:"level1"`
	Level2   int `json:"level2"`
	Level3   int `json:"level3"`
	Errors   int `json:"errors"`
}

// Sweep evaluates every open complaint once. Per-complaint failures are
// logged and counted, never fatal to the sweep.
func (e *Engine) Sweep(ctx context.Context) (SweepSummary, error) {
	start := time.Now()
	defer func() { metrics.ObserveSweep(time.Since(start)) }()

	open, err := e.Store.OpenComplaints(ctx)
	if err != nil {
		return SweepSummary{}, err
	}

	now := e.Now()
	summary := SweepSummary{Checked: len(open)}
	for i := range open {
		c := open[i]
		outcome := Evaluate(&c, now, e.Thresholds)
		if outcome == OutcomeNone {
			continue
		}

		if err := e.Store.UpdateEscalation(ctx, c); err != nil {
			e.Logger.Error().Err(err).Str("complaint_id", c.ID).Msg("escalation update failed")
			summary.Errors++
			continue
		}

		switch outcome {
		case OutcomeWarning:
			summary.Warnings++
			e.Logger.Warn().Str("complaint_id", c.ID).Time("deadline", c.SLADeadline).Msg("predictive SLA warning")
		case OutcomeLevel1, OutcomeLevel2, OutcomeLevel3:
			switch outcome {
			case OutcomeLevel1:
				summary.Level1++
			case OutcomeLevel2:
				summary.Level2++
			case OutcomeLevel3:
				summary.Level3++
			}
			record := models.Escalation{
				ComplaintID:     c.ID,
				Title:           c.Title,
				Category:        c.Category,
				CreatedAt:       c.CreatedAt,
				EscalationTime:  now,
				EscalationLevel: c.EscalationLevel,
			}
			if err := e.Store.AppendEscalation(ctx, record); err != nil {
				e.Logger.Error().Err(err).Str("complaint_id", c.ID).Msg("escalation record append failed")
				summary.Errors++
			}
			metrics.ObserveEscalation(c.EscalationLevel)
			e.Logger.Warn().
				Str("complaint_id", c.ID).
				Str("category", c.Category).
				Int("level", c.EscalationLevel).
				Msg("SLA escalation")
		}
	}

	if summary.Level1+summary.Level2+summary.Level3 > 0 {
		e.Logger.Info().
			Int("checked", summary.Checked).
			Int("level1", summary.Level1).
			Int("level2", summary.Level2).
			Int("level3", summary.Level3).
			Msg("sweep summary")
	}
	return summary, nil
}

// Outcome names the single transition (if any) a sweep tick applied.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWarning
	OutcomeLevel1
	OutcomeLevel2
	OutcomeLevel3
)

// Evaluate applies at most one transition to the complaint and reports
// which. Transitions are strictly sequential: a complaint far past its
// deadline still climbs one level per sweep. The breach timestamp records
// the deadline that was crossed, not the sweep time that noticed it.
func Evaluate(c *models.Complaint, now time.Time, t Thresholds) Outcome {
	if c.Status == models.StatusResolved {
		return OutcomeNone
	}

	deadline := c.SLADeadline
	if deadline.IsZero() {
		hours := c.SLAHours
		if hours <= 0 {
			hours = 24
		}
		deadline = c.CreatedAt.Add(time.Duration(hours) * time.Hour)
	}

	untilDeadline := deadline.Sub(now)
	pastDeadline := now.Sub(deadline)

	switch {
	case untilDeadline > 0 && untilDeadline <= t.WarningWindow && !c.Meta.PredictiveWarning:
		c.Meta.PredictiveWarning = true
		at := now
		c.Meta.PredictiveWarningAt = &at
		return OutcomeWarning

	case now.After(deadline) && !c.Meta.SLABreached:
		c.Meta.SLABreached = true
		breachedAt := deadline
		c.Meta.SLABreachedAt = &breachedAt
		c.EscalationLevel = 1
		c.Status = models.StatusEscalated
		return OutcomeLevel1

	case c.Meta.SLABreached && c.EscalationLevel == 1 && pastDeadline >= t.Level2After:
		c.EscalationLevel = 2
		at := now
		c.Meta.Level2EscalatedAt = &at
		return OutcomeLevel2

	case c.EscalationLevel == 2 && pastDeadline >= t.Level3After:
		c.EscalationLevel = 3
		at := now
		c.Meta.Level3EscalatedAt = &at
		return OutcomeLevel3
	}
	return OutcomeNone
}
