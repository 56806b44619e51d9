package entities

import "strings"

// SymptomKey identifies one of the canonical symptom categories.
type SymptomKey string

const (
	SymptomFever       SymptomKey = "fever"
	SymptomCold        SymptomKey = "cold"
	SymptomCough       SymptomKey = "cough"
	SymptomVomiting    SymptomKey = "vomiting"
	SymptomStomachAche SymptomKey = "stomach_ache"
	SymptomHeadache    SymptomKey = "headache"
	SymptomBodyPain    SymptomKey = "body_pain"
	SymptomDiarrhea    SymptomKey = "diarrhea"
)

// DisplayName returns the key as a phrase ("stomach_ache" -> "stomach ache").
func (k SymptomKey) DisplayName() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// SynonymEntry is a phrase that points at a symptom, tagged with its language.
type SynonymEntry struct {
	Symptom  SymptomKey `json:"symptom"`
	Phrase   string     `json:"phrase"`
	Language string     `json:"lang"`
}

// ClassificationResult is the outcome of matching free text against the synonyms.
// Recognized is false when no synonym scored above the threshold.
type ClassificationResult struct {
	Recognized bool       `json:"recognized"`
	Symptom    SymptomKey `json:"symptom,omitempty"`
	Matched    string     `json:"matched,omitempty"`
	Score      int        `json:"score"`
}

// Unrecognized is the zero-confidence classification.
func Unrecognized(score int) ClassificationResult {
	return ClassificationResult{Score: score}
}
