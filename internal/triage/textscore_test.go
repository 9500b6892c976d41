package triage

import "testing"

func TestTextScoreCriticalKeywordAndLocation(t *testing.T) {
	score := TextScore("Live wire hanging", "live wire near hospital entrance", "electricity")
	if score != 100 {
		t.Fatalf("expected 100, got %d", score)
	}
}

func TestTextScoreBucketsDoNotStack(t *testing.T) {
	// Both a high and a medium keyword match; the highest bucket wins.
	score := TextScore("Voltage issue", "voltage issue and billing problem", "electricity")
	if score != 70 {
		t.Fatalf("expected 70, got %d", score)
	}
}

func TestTextScoreLocationTiers(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"problem near hospital", 100},
		{"problem near railway station", 80},
		{"problem near school", 60},
		{"problem near market", 40},
	}
	for _, tc := range cases {
		got := TextScore("", tc.text, "unknown")
		if got != tc.want {
			t.Fatalf("text %q: expected %d, got %d", tc.text, tc.want, got)
		}
	}
}

func TestTextScoreUrgencyBonusCapped(t *testing.T) {
	score := TextScore("Urgent", "urgent power outage", "electricity")
	if score != 100 {
		t.Fatalf("expected cap at 100, got %d", score)
	}

	score = TextScore("Urgent", "urgent street light problem", "electricity")
	if score != 60 {
		t.Fatalf("expected 40+20=60, got %d", score)
	}
}

func TestTextScoreUnknownCategory(t *testing.T) {
	if score := TextScore("Noise", "loud construction at night", "noise"); score != 0 {
		t.Fatalf("expected 0 for unknown category without signals, got %d", score)
	}
}

func TestTextScoreEmptyText(t *testing.T) {
	if score := TextScore("", "", "water"); score != 0 {
		t.Fatalf("expected 0 for empty text, got %d", score)
	}
}

func TestTextScoreBounds(t *testing.T) {
	inputs := []struct {
		title, desc, cat string
	}{
		{"urgent emergency", "burst pipeline near hospital fire station", "water"},
		{"", "", ""},
		{"fire", "fire at power station urgent", "electricity"},
	}
	for _, in := range inputs {
		score := TextScore(in.title, in.desc, in.cat)
		if score < 0 || score > 100 {
			t.Fatalf("score out of bounds: %d for %+v", score, in)
		}
	}
}
