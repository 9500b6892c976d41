package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/weather"
)

type fixedProvider struct {
	cond weather.Conditions
	err  error
}

func (p fixedProvider) Current(ctx context.Context, lat, lon float64) (weather.Conditions, error) {
	return p.cond, p.err
}

// Tuesday 10:00 local: +20 time-of-day modifier, no weekend bonus.
var tuesdayMorning = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestAggregator(provider weather.Provider, now time.Time) *Aggregator {
	adjuster := weather.NewAdjuster(provider, time.Minute, zerolog.Nop())
	a := NewAggregator(NewClassifier(), adjuster, zerolog.Nop())
	a.Now = func() time.Time { return now }
	return a
}

func coord(v float64) *float64 { return &v }

func TestAnalyzeDeterministic(t *testing.T) {
	a := newTestAggregator(fixedProvider{cond: weather.Conditions{Temperature: 20}}, tuesdayMorning)
	draft := Draft{
		Title:       "Live wire near hospital",
		Description: "live wire sparking near hospital gate",
		Category:    "electricity",
		Lat:         coord(12.3),
		Lon:         coord(76.6),
	}
	first := a.Analyze(context.Background(), draft)
	second := a.Analyze(context.Background(), draft)
	if first.Priority != second.Priority || first.Meta.PriorityScore != second.Meta.PriorityScore {
		t.Fatalf("expected deterministic analysis, got %+v vs %+v", first, second)
	}
}

func TestAnalyzeCriticalComplaintIsHigh(t *testing.T) {
	a := newTestAggregator(weather.Disabled{}, tuesdayMorning)
	analysis := a.Analyze(context.Background(), Draft{
		Title:       "Live wire",
		Description: "live wire hanging near hospital",
		Category:    "electricity",
	})
	if analysis.Meta.TextScore != 100 {
		t.Fatalf("expected text score 100, got %d", analysis.Meta.TextScore)
	}
	if analysis.Meta.PriorityScore < 70 {
		t.Fatalf("expected combined score >= 70, got %d", analysis.Meta.PriorityScore)
	}
	if analysis.Priority != models.PriorityHigh {
		t.Fatalf("expected high priority, got %s", analysis.Priority)
	}
	if analysis.SLAHours != 2 {
		t.Fatalf("expected electricity high tier 2h, got %d", analysis.SLAHours)
	}
}

func TestAnalyzeScoreBounds(t *testing.T) {
	a := newTestAggregator(fixedProvider{cond: weather.Conditions{RainMMH: 20, WindSpeed: 20, Condition: "Thunderstorm"}}, tuesdayMorning)
	drafts := []Draft{
		{Title: "urgent emergency", Description: "burst pipeline near hospital", Category: "water", Lat: coord(12), Lon: coord(76)},
		{Title: "", Description: "", Category: ""},
		{Title: "minor", Description: "sign board faded", Category: "roads"},
	}
	for _, d := range drafts {
		analysis := a.Analyze(context.Background(), d)
		if analysis.Meta.PriorityScore < 0 || analysis.Meta.PriorityScore > 100 {
			t.Fatalf("score out of bounds: %d", analysis.Meta.PriorityScore)
		}
		if analysis.SLAHours <= 0 {
			t.Fatalf("expected positive SLA hours, got %d", analysis.SLAHours)
		}
	}
}

func TestAnalyzeWithoutCoordinatesSkipsWeather(t *testing.T) {
	a := newTestAggregator(fixedProvider{err: errors.New("boom")}, tuesdayMorning)
	analysis := a.Analyze(context.Background(), Draft{
		Title:       "No water supply",
		Description: "no water supply since morning",
		Category:    "water",
	})
	if analysis.Meta.WeatherBoost != 0 {
		t.Fatalf("expected zero weather boost, got %d", analysis.Meta.WeatherBoost)
	}
}

func TestAnalyzeWeatherFailureDegrades(t *testing.T) {
	a := newTestAggregator(fixedProvider{err: errors.New("provider down")}, tuesdayMorning)
	analysis := a.Analyze(context.Background(), Draft{
		Title:       "No water supply",
		Description: "no water supply since morning",
		Category:    "water",
		Lat:         coord(12.3),
		Lon:         coord(76.6),
	})
	if analysis.Meta.WeatherBoost != 0 {
		t.Fatalf("expected zero boost on provider failure, got %d", analysis.Meta.WeatherBoost)
	}
	if analysis.Priority == "" {
		t.Fatalf("expected analysis to succeed without weather")
	}
}

func TestTimeOfDayScore(t *testing.T) {
	weekdayNight := time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC)
	if got := timeOfDayScore(weekdayNight); got != 0 {
		t.Fatalf("expected 0 at weekday night, got %d", got)
	}
	saturdayNoon := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	if got := timeOfDayScore(saturdayNoon); got != 30 {
		t.Fatalf("expected 30 on saturday noon, got %d", got)
	}
}

func TestSLAHoursUnknownCategoryFallback(t *testing.T) {
	if got := slaHours("sanitation", models.PriorityHigh); got != 4 {
		t.Fatalf("expected default high tier 4h, got %d", got)
	}
	if got := slaHours("rail", models.PriorityHigh); got != 1 {
		t.Fatalf("expected rail high tier 1h, got %d", got)
	}
}
