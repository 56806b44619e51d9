// Package classifier maps free text to a canonical symptom by approximate
// string matching against the lexicon's synonym phrases.
package classifier

import (
	"strings"

	"github.com/giygas/symptom-advisor/entities"
	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/lexicon"
)

// DefaultThreshold is the score a match must exceed to be accepted.
const DefaultThreshold = 80

// Compile-time check to ensure Classifier implements SymptomClassifier
var _ interfaces.SymptomClassifier = (*Classifier)(nil)

type candidate struct {
	entry     entities.SynonymEntry
	processed string
	tokens    int
}

// Classifier scores text against every synonym and keeps the best one.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	candidates []candidate
	threshold  int
}

// New creates a classifier over the lexicon synonyms, in lexicon order.
func New(lex *lexicon.Lexicon, threshold int) *Classifier {
	synonyms := lex.Synonyms()
	c := &Classifier{
		candidates: make([]candidate, 0, len(synonyms)),
		threshold:  threshold,
	}
	for _, s := range synonyms {
		p := Process(s.Phrase)
		if p == "" {
			continue
		}
		c.candidates = append(c.candidates, candidate{
			entry:     s,
			processed: p,
			tokens:    len(strings.Fields(p)),
		})
	}
	return c
}

// Threshold returns the acceptance threshold.
func (c *Classifier) Threshold() int {
	return c.threshold
}

// Classify returns the symptom whose synonym scores highest against text.
// The first synonym wins among equal scores. Scores at or below the threshold,
// and empty input, are unrecognized.
func (c *Classifier) Classify(text string) entities.ClassificationResult {
	processed := Process(text)
	if processed == "" {
		return entities.Unrecognized(0)
	}
	tokens := strings.Fields(processed)

	best := -1
	var bestEntry entities.SynonymEntry
	for _, cand := range c.candidates {
		score := Score(processed, tokens, cand.processed, cand.tokens)
		if score > best {
			best = score
			bestEntry = cand.entry
		}
	}

	if best <= c.threshold {
		return entities.Unrecognized(max(best, 0))
	}

	return entities.ClassificationResult{
		Recognized: true,
		Symptom:    bestEntry.Symptom,
		Matched:    bestEntry.Phrase,
		Score:      best,
	}
}

// Score rates processed text against a processed phrase. It is the higher of
// the weighted ratio over the whole text and the plain ratio of the best run
// of consecutive text tokens as long as the phrase.
func Score(text string, textTokens []string, phrase string, phraseTokens int) int {
	score := WeightedRatio(text, phrase)
	if score == 100 || phraseTokens == 0 || phraseTokens > len(textTokens) {
		return score
	}

	for i := 0; i+phraseTokens <= len(textTokens); i++ {
		window := strings.Join(textTokens[i:i+phraseTokens], " ")
		if r := Ratio(window, phrase); r > score {
			score = r
		}
	}
	return score
}
