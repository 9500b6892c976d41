package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/triage"
	"github.com/satwikkini-01/Sahaay/internal/weather"
)

type fakeWriter struct {
	saved   []models.Complaint
	saveErr error
}

func (w *fakeWriter) SaveComplaint(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	if w.saveErr != nil {
		return models.Complaint{}, w.saveErr
	}
	w.saved = append(w.saved, c)
	return c, nil
}

func newTestIntake(writer *fakeWriter) *IntakeService {
	adjuster := weather.NewAdjuster(weather.Disabled{}, time.Minute, zerolog.Nop())
	aggregator := triage.NewAggregator(triage.NewClassifier(), adjuster, zerolog.Nop())
	s := NewIntake(writer, aggregator, nil, zerolog.Nop())
	s.Now = func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestCreatePersistsTriagedComplaint(t *testing.T) {
	writer := &fakeWriter{}
	s := newTestIntake(writer)

	complaint, analysis, err := s.Create(context.Background(), NewComplaint{
		Title:       "Live wire hanging",
		Description: "live wire sparking near hospital entrance",
		Category:    "Electricity",
		Subcategory: "Wiring",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(writer.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(writer.saved))
	}
	if complaint.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if complaint.Category != "electricity" || complaint.Subcategory != "wiring" {
		t.Fatalf("expected normalized categories, got %q/%q", complaint.Category, complaint.Subcategory)
	}
	if complaint.Status != models.StatusPending {
		t.Fatalf("expected pending status, got %s", complaint.Status)
	}
	if complaint.Priority != analysis.Priority {
		t.Fatalf("priority mismatch: %s vs %s", complaint.Priority, analysis.Priority)
	}
	if complaint.Priority != models.PriorityHigh {
		t.Fatalf("expected high priority for live wire near hospital, got %s", complaint.Priority)
	}

	wantDeadline := complaint.CreatedAt.Add(time.Duration(complaint.SLAHours) * time.Hour)
	if !complaint.SLADeadline.Equal(wantDeadline) {
		t.Fatalf("expected deadline %v, got %v", wantDeadline, complaint.SLADeadline)
	}
	if complaint.Meta.PriorityScore != analysis.Meta.PriorityScore {
		t.Fatalf("expected scoring trace carried onto the complaint")
	}
}

func TestCreateSaveFailure(t *testing.T) {
	s := newTestIntake(&fakeWriter{saveErr: errors.New("db down")})
	_, _, err := s.Create(context.Background(), NewComplaint{
		Title:       "No water",
		Description: "no water since morning",
		Category:    "water",
	})
	if err == nil {
		t.Fatalf("expected error when save fails")
	}
}

func TestCreateWithoutGrouper(t *testing.T) {
	writer := &fakeWriter{}
	s := newTestIntake(writer)
	s.Grouper = nil

	lat, lon := 12.9716, 77.5946
	complaint, _, err := s.Create(context.Background(), NewComplaint{
		Title:       "Street light out",
		Description: "street light not working",
		Category:    "electricity",
		Lat:         &lat,
		Lon:         &lon,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if complaint.GroupID != "" {
		t.Fatalf("expected no group assignment, got %s", complaint.GroupID)
	}
}
