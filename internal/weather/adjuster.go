package weather

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/satwikkini-01/Sahaay/internal/metrics"
)

const maxBoost = 50

// Boost is the weather contribution to a complaint's priority, with the
// conditions and reasoning that produced it. A zero boost with an
// explanation is the normal degraded path when data is missing.
type Boost struct {
	Boost       int         `json:"boost"`
	Conditions  *Conditions `json:"conditions,omitempty"`
	Explanation string      `json:"explanation"`
}

// Adjuster converts current weather into a bounded 0-50 priority boost.
// Lookups are cached per coordinate cell for the configured TTL so a burst
// of complaints from one area costs a single provider call.
type Adjuster struct {
	Provider Provider
	TTL      time.Duration
	Logger   zerolog.Logger
	Now      func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	cond    Conditions
	fetched time.Time
}

func NewAdjuster(provider Provider, ttl time.Duration, logger zerolog.Logger) *Adjuster {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Adjuster{
		Provider: provider,
		TTL:      ttl,
		Logger:   logger,
		Now:      time.Now,
		cache:    map[string]cacheEntry{},
	}
}

// PriorityBoost never returns an error: provider failures and missing data
// degrade to a zero boost with an explanatory reason.
func (a *Adjuster) PriorityBoost(ctx context.Context, lat, lon float64, category string) Boost {
	cond, ok := a.conditions(ctx, lat, lon)
	if !ok {
		return Boost{Boost: 0, Explanation: "Weather data unavailable"}
	}

	boost := 0
	var reasons []string
	cat := strings.ToLower(category)

	switch {
	case cond.RainMMH > 10:
		if cat == "water" || cat == "roads" {
			boost += 30
			reasons = append(reasons, fmt.Sprintf("Heavy rain (%.1fmm/h) increases %s issue urgency", cond.RainMMH, cat))
		} else if cat == "electricity" {
			boost += 20
			reasons = append(reasons, "Heavy rain may affect electrical systems")
		}
	case cond.RainMMH > 5:
		if cat == "water" || cat == "roads" {
			boost += 15
			reasons = append(reasons, fmt.Sprintf("Moderate rain (%.1fmm/h) affects %s issues", cond.RainMMH, cat))
		}
	}

	if cond.SnowMMH > 5 && (cat == "roads" || cat == "rail") {
		boost += 25
		reasons = append(reasons, fmt.Sprintf("Heavy snow (%.1fmm/h) severely impacts %s", cond.SnowMMH, cat))
	}

	if cond.Temperature > 40 {
		if cat == "electricity" || cat == "water" {
			boost += 20
			reasons = append(reasons, fmt.Sprintf("Extreme heat (%.1f°C) increases demand for %s services", cond.Temperature, cat))
		}
	} else if cond.Temperature < 0 && cat == "water" {
		boost += 15
		reasons = append(reasons, fmt.Sprintf("Freezing temperature (%.1f°C) may cause pipe issues", cond.Temperature))
	}

	if cond.WindSpeed > 15 && (cat == "electricity" || cat == "roads") {
		boost += 15
		reasons = append(reasons, fmt.Sprintf("High winds (%.1fm/s) affect %s infrastructure", cond.WindSpeed, cat))
	}

	if cond.Condition == "Thunderstorm" {
		if cat == "electricity" {
			boost += 25
			reasons = append(reasons, "Thunderstorm poses high risk to electrical systems")
		} else if cat == "roads" || cat == "water" {
			boost += 15
			reasons = append(reasons, "Thunderstorm affects infrastructure")
		}
	}

	if boost > maxBoost {
		boost = maxBoost
	}

	explanation := "No significant weather impact"
	if len(reasons) > 0 {
		explanation = strings.Join(reasons, ". ")
	}
	return Boost{Boost: boost, Conditions: &cond, Explanation: explanation}
}

func (a *Adjuster) conditions(ctx context.Context, lat, lon float64) (Conditions, bool) {
	key := cellKey(lat, lon)
	now := a.Now()

	a.mu.Lock()
	if entry, ok := a.cache[key]; ok && now.Sub(entry.fetched) < a.TTL {
		a.mu.Unlock()
		metrics.ObserveWeatherLookup("cache_hit")
		return entry.cond, true
	}
	a.mu.Unlock()

	cond, err := a.Provider.Current(ctx, lat, lon)
	if err != nil {
		a.Logger.Debug().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("weather fetch failed")
		metrics.ObserveWeatherLookup("error")
		return Conditions{}, false
	}
	metrics.ObserveWeatherLookup("fetched")

	a.mu.Lock()
	a.cache[key] = cacheEntry{cond: cond, fetched: now}
	a.mu.Unlock()
	return cond, true
}

// cellKey buckets coordinates into ~1km cells so nearby complaints share a
// cache entry.
func cellKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f:%.2f", lat, lon)
}
