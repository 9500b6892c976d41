package triage

import (
	"math"
	"sort"
	"strings"
	"sync"
)

// Sample is a labelled training document.
type Sample struct {
	Text  string
	Label string
}

// DefaultTrainingData is the hand-labelled complaint corpus the classifier
// trains on when no other data is supplied.
var DefaultTrainingData = []Sample{
	{"Water pipeline burst near hospital", "high"},
	{"Major power outage in city center", "high"},
	{"Street light not working", "low"},
	{"Road pothole near school", "medium"},
	{"Rail track damage at crossing", "high"},
	{"Minor water leak in apartment", "medium"},
	{"Electric meter issue", "medium"},
	{"Garbage not collected", "low"},
	{"Traffic signal malfunction", "high"},
	{"Sewage overflow in market", "high"},
	{"Low water pressure", "medium"},
	{"Bus stop shelter broken", "low"},
}

const fallbackLabel = "medium"

// LabelScore pairs a priority label with its relative likelihood.
type LabelScore struct {
	Label string  `json:"priority"`
	Score float64 `json:"score"`
}

// Prediction is a classification result. Scores sum to 1 across labels.
type Prediction struct {
	Label      string       `json:"label"`
	Confidence float64      `json:"confidence"`
	Scores     []LabelScore `json:"scores"`
}

// Classifier is a multinomial naive Bayes model over lowercase word tokens.
// Classify never fails: an untrained classifier trains itself on
// DefaultTrainingData first, and with an empty corpus it falls back to a
// fixed medium label.
type Classifier struct {
	mu sync.RWMutex

	trained    bool
	labels     []string
	docCount   map[string]int
	wordCount  map[string]map[string]int
	totalWords map[string]int
	vocab      map[string]struct{}
	totalDocs  int
}

func NewClassifier() *Classifier {
	return &Classifier{
		docCount:   map[string]int{},
		wordCount:  map[string]map[string]int{},
		totalWords: map[string]int{},
		vocab:      map[string]struct{}{},
	}
}

// Train fits the model on the given corpus. Training replaces any previous
// state, so repeated calls with the same corpus are idempotent.
func (c *Classifier) Train(samples []Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.labels = nil
	c.docCount = map[string]int{}
	c.wordCount = map[string]map[string]int{}
	c.totalWords = map[string]int{}
	c.vocab = map[string]struct{}{}
	c.totalDocs = 0

	for _, s := range samples {
		label := strings.ToLower(strings.TrimSpace(s.Label))
		if label == "" {
			continue
		}
		if _, ok := c.docCount[label]; !ok {
			c.labels = append(c.labels, label)
			c.wordCount[label] = map[string]int{}
		}
		c.docCount[label]++
		c.totalDocs++
		for _, w := range tokenize(s.Text) {
			c.wordCount[label][w]++
			c.totalWords[label]++
			c.vocab[w] = struct{}{}
		}
	}
	sort.Strings(c.labels)
	c.trained = c.totalDocs > 0
}

// Trained reports whether the model has been fitted on a non-empty corpus.
func (c *Classifier) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trained
}

// Classify returns the arg-max label with a normalized per-label
// distribution. Untrained models train synchronously on the default corpus.
func (c *Classifier) Classify(text string) Prediction {
	if !c.Trained() {
		c.Train(DefaultTrainingData)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.trained {
		return Prediction{Label: fallbackLabel, Confidence: 0}
	}

	words := tokenize(text)
	vocabSize := float64(len(c.vocab))

	logProbs := make([]float64, len(c.labels))
	for i, label := range c.labels {
		lp := math.Log(float64(c.docCount[label]) / float64(c.totalDocs))
		denom := float64(c.totalWords[label]) + vocabSize
		for _, w := range words {
			lp += math.Log((float64(c.wordCount[label][w]) + 1) / denom)
		}
		logProbs[i] = lp
	}

	// Normalize via log-sum-exp so scores are comparable across inputs.
	maxLP := logProbs[0]
	for _, lp := range logProbs[1:] {
		if lp > maxLP {
			maxLP = lp
		}
	}
	var sum float64
	probs := make([]float64, len(logProbs))
	for i, lp := range logProbs {
		probs[i] = math.Exp(lp - maxLP)
		sum += probs[i]
	}

	scores := make([]LabelScore, len(c.labels))
	for i, label := range c.labels {
		scores[i] = LabelScore{Label: label, Score: probs[i] / sum}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	return Prediction{
		Label:      scores[0].Label,
		Confidence: scores[0].Score,
		Scores:     scores,
	}
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,;:!?\"'()[]")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
