package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/satwikkini-01/Sahaay/internal/grouping"
	"github.com/satwikkini-01/Sahaay/internal/metrics"
	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/triage"
)

// ComplaintWriter persists new complaints.
type ComplaintWriter interface {
	SaveComplaint(ctx context.Context, c models.Complaint) (models.Complaint, error)
}

// NewComplaint is the validated create request.
type NewComplaint struct {
	Title       string
	Description string
	Category    string
	Subcategory string
	Lat         *float64
	Lon         *float64
	Address     string
	Zipcode     string
	City        string
}

// IntakeService runs the complaint creation pipeline: triage, persist,
// then duplicate grouping. Grouping failures never fail creation.
type IntakeService struct {
	Store      ComplaintWriter
	Aggregator *triage.Aggregator
	Grouper    *grouping.Grouper
	Logger     zerolog.Logger
	Now        func() time.Time
}

func NewIntake(store ComplaintWriter, aggregator *triage.Aggregator, grouper *grouping.Grouper, logger zerolog.Logger) *IntakeService {
	return &IntakeService{
		Store:      store,
		Aggregator: aggregator,
		Grouper:    grouper,
		Logger:     logger,
		Now:        time.Now,
	}
}

func (s *IntakeService) Create(ctx context.Context, req NewComplaint) (models.Complaint, models.PriorityAnalysis, error) {
	analysis := s.Aggregator.Analyze(ctx, triage.Draft{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Lat:         req.Lat,
		Lon:         req.Lon,
	})

	now := s.Now().UTC()
	c := models.Complaint{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       req.Title,
		Description: req.Description,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Subcategory: strings.ToLower(strings.TrimSpace(req.Subcategory)),
		Lat:         req.Lat,
		Lon:         req.Lon,
		Address:     req.Address,
		Zipcode:     req.Zipcode,
		City:        req.City,
		Priority:    analysis.Priority,
		Status:      models.StatusPending,
		SLAHours:    analysis.SLAHours,
		SLADeadline: now.Add(time.Duration(analysis.SLAHours) * time.Hour),
		Meta: models.TriageMeta{
			PriorityScore: analysis.Meta.PriorityScore,
			TextScore:     analysis.Meta.TextScore,
			TimeScore:     analysis.Meta.TimeScore,
			MLPrediction:  analysis.Meta.MLPrediction,
			MLConfidence:  analysis.Meta.MLConfidence,
			WeatherBoost:  analysis.Meta.WeatherBoost,
			Explanation:   analysis.Meta.Explanation,
		},
	}

	saved, err := s.Store.SaveComplaint(ctx, c)
	if err != nil {
		return models.Complaint{}, models.PriorityAnalysis{}, err
	}
	metrics.ObserveComplaintCreated(saved.Priority)

	// Concurrent creations may miss each other here and form singleton
	// groups; a later evaluation folds them together.
	if s.Grouper != nil {
		if group := s.Grouper.AssignGroup(ctx, &saved); group != nil {
			s.Logger.Info().
				Str("complaint_id", saved.ID).
				Str("group_id", group.ID).
				Int("group_size", group.Size()).
				Msg("complaint joined duplicate group")
		}
	}

	s.Logger.Info().
		Str("complaint_id", saved.ID).
		Str("category", saved.Category).
		Str("priority", saved.Priority).
		Int("sla_hours", saved.SLAHours).
		Msg("complaint created")
	return saved, analysis, nil
}
