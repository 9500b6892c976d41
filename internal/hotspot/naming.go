package hotspot

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/satwikkini-01/Sahaay/internal/models"
)

// DescribeCluster derives a human-readable hotspot name and description from
// the cluster's dominant keywords (TF-IDF over member texts, terms longer
// than 3 characters) and a handful of pattern labels for common issues.
func DescribeCluster(members []models.Complaint) (name, description string, keywords []string) {
	if len(members) == 0 {
		return "Empty Cluster", "No complaints in this area", nil
	}

	docs := make([][]string, len(members))
	for i, c := range members {
		docs[i] = significantTerms(c.Title + " " + c.Description)
	}
	keywords = topKeywords(docs, 5)

	categories := map[string]int{}
	for _, c := range members {
		categories[c.Category]++
	}
	dominantCategory := ""
	for cat, count := range categories {
		if dominantCategory == "" || count > categories[dominantCategory] {
			dominantCategory = cat
		}
	}

	area := areaName(members[0])

	has := func(terms ...string) bool {
		for _, k := range keywords {
			for _, t := range terms {
				if k == t {
					return true
				}
			}
		}
		return false
	}

	switch {
	case has("outage", "power", "electricity", "blackout"):
		name = fmt.Sprintf("Power Issues in %s", area)
		description = "Multiple reports of electricity outages and power failures"
	case has("water", "supply", "leak", "pipe"):
		name = fmt.Sprintf("Water Supply Problems in %s", area)
		description = "Reports of water-related issues including leaks and supply disruptions"
	case has("road", "pothole", "street", "damage"):
		name = fmt.Sprintf("Road Infrastructure Issues in %s", area)
		description = "Multiple complaints about road conditions and maintenance"
	case has("garbage", "waste", "trash", "dump"):
		name = fmt.Sprintf("Waste Management Issues in %s", area)
		description = "Reports of garbage collection and disposal problems"
	default:
		label := dominantCategory
		if label != "" {
			label = strings.ToUpper(label[:1]) + label[1:]
		} else {
			label = "Mixed"
		}
		phrase := strings.Join(firstN(keywords, 2), " and ")
		name = fmt.Sprintf("%s Issues in %s", label, area)
		description = fmt.Sprintf("Multiple reports regarding %s", phrase)
	}
	return name, description, keywords
}

func areaName(c models.Complaint) string {
	parts := strings.Split(c.Address, ",")
	area := strings.TrimSpace(parts[0])
	if area == "" {
		area = "Unknown Area"
	}
	return area
}

// topKeywords weights each term by TF-IDF against the cluster corpus and
// returns the highest-scoring terms across all documents.
func topKeywords(docs [][]string, limit int) []string {
	df := map[string]int{}
	for _, doc := range docs {
		seen := map[string]bool{}
		for _, term := range doc {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}

	scores := map[string]float64{}
	n := float64(len(docs))
	for _, doc := range docs {
		tf := map[string]int{}
		for _, term := range doc {
			tf[term]++
		}
		for term, count := range tf {
			idf := math.Log(1 + n/float64(df[term]))
			scores[term] += float64(count) * idf
		}
	}

	terms := make([]string, 0, len(scores))
	for term := range scores {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if scores[terms[i]] == scores[terms[j]] {
			return terms[i] < terms[j]
		}
		return scores[terms[i]] > scores[terms[j]]
	})
	return firstN(terms, limit)
}

func significantTerms(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		term := strings.Trim(f, ".,;:!?\"'()[]")
		if len(term) > 3 {
			out = append(out, term)
		}
	}
	return out
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
