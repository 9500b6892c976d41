package triage

import "strings"

// Keyword buckets per category. The highest matching bucket wins; buckets do
// not stack within a category.
var categoryKeywords = map[string]struct {
	critical []string // 100 points
	high     []string // 70 points
	medium   []string // 40 points
}{
	"water": {
		critical: []string{"burst pipeline", "major leak", "no water supply", "contamination", "sewage overflow"},
		high:     []string{"low pressure", "pipeline damage", "water quality", "pump failure", "drainage block"},
		medium:   []string{"leakage", "irregular supply", "meter issues", "billing", "connection issue"},
	},
	"electricity": {
		critical: []string{"power outage", "live wire", "transformer failure", "electric shock", "fire"},
		high:     []string{"frequent cuts", "voltage issue", "sparking", "cable damage", "meter burning"},
		medium:   []string{"street light", "connection problem", "billing", "meter issues", "installation"},
	},
	"roads": {
		critical: []string{"major accident", "road collapse", "bridge damage", "traffic signal failure", "flooding"},
		high:     []string{"large pothole", "traffic jam", "signal malfunction", "road damage", "fallen tree"},
		medium:   []string{"small pothole", "street light", "road marking", "sign board", "minor repairs"},
	},
	"rail": {
		critical: []string{"track damage", "signal failure", "accident", "barrier failure", "power issue"},
		high:     []string{"track flooding", "platform damage", "overhead line", "crossing issue", "rail crack"},
		medium:   []string{"amenity issue", "ticket system", "cleaning", "parking", "general repair"},
	},
}

// Critical location phrases, grouped into four severity tiers.
var locationTiers = []struct {
	score   int
	phrases []string
}{
	{100, []string{"hospital", "emergency", "ambulance", "fire station", "police station", "disaster response"}},
	{80, []string{"power station", "water plant", "metro station", "railway station", "airport", "bus terminal"}},
	{60, []string{"school", "college", "government office", "bank", "post office", "public office"}},
	{40, []string{"market", "mall", "commercial area", "business district", "residential complex", "apartment"}},
}

// TextScore rates the urgency of a complaint's text on a 0-100 scale using
// category keyword buckets and critical location phrases. An explicit
// urgency keyword adds 20, capped at 100. Unknown categories rely on the
// location and urgency signals alone.
func TextScore(title, description, category string) int {
	text := strings.ToLower(title + " " + description)
	score := 0

	if buckets, ok := categoryKeywords[strings.ToLower(category)]; ok {
		switch {
		case containsAny(text, buckets.critical):
			score = 100
		case containsAny(text, buckets.high):
			score = 70
		case containsAny(text, buckets.medium):
			score = 40
		}
	}

	for _, tier := range locationTiers {
		if tier.score <= score {
			break
		}
		if containsAny(text, tier.phrases) {
			score = tier.score
			break
		}
	}

	if strings.Contains(text, "urgent") || strings.Contains(text, "emergency") {
		score += 20
		if score > 100 {
			score = 100
		}
	}
	return score
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
