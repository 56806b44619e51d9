// Package lexicon holds the static symptom, synonym, brand and language tables
// used by the classifier, the medicine resolver and the label fetcher.
// A Lexicon is built once at startup and is read-only afterwards, so it can be
// shared between concurrent requests without locking.
package lexicon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/giygas/symptom-advisor/entities"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// PivotLanguage is the language all input is translated to before classification.
const PivotLanguage = "en"

var (
	ErrNoSymptoms       = errors.New("lexicon has no symptoms")
	ErrMissingSynonyms  = errors.New("symptom has no synonyms")
	ErrMissingMedicines = errors.New("symptom has no medicines")
	ErrDuplicateSymptom = errors.New("duplicate symptom key")
	ErrInvalidLanguage  = errors.New("invalid language tag")
)

// PhraseDefinition is a synonym phrase and its language tag.
type PhraseDefinition struct {
	Phrase   string `json:"phrase"`
	Language string `json:"lang"`
}

// SymptomDefinition is one symptom with its medicines and synonyms, in order.
type SymptomDefinition struct {
	Key       entities.SymptomKey `json:"key"`
	Medicines []string            `json:"medicines"`
	Synonyms  []PhraseDefinition  `json:"synonyms"`
}

// Definition is the serialized form of a lexicon (LEXICON_FILE).
type Definition struct {
	Symptoms  []SymptomDefinition `json:"symptoms"`
	Brands    map[string]string   `json:"brands"`
	Languages []string            `json:"languages"`
}

// Lexicon is the immutable set of lookup tables.
type Lexicon struct {
	symptoms  []entities.SymptomKey
	medicines map[entities.SymptomKey][]string
	synonyms  []entities.SynonymEntry
	brands    map[string]string
	languages []entities.Language
	tags      map[string]bool
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	lex, err := New(Definition{
		Symptoms:  defaultSymptoms,
		Brands:    defaultBrands,
		Languages: defaultLanguages,
	})
	if err != nil {
		// The built-in tables are covered by tests; failing here is a programming error.
		panic(fmt.Sprintf("lexicon: invalid built-in tables: %v", err))
	}
	return lex
}

// Load reads a lexicon definition from a JSON file. Sections missing from the
// file fall back to the built-in tables.
func Load(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file %s: %w", path, err)
	}

	var def Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("failed to decode lexicon file %s: %w", path, err)
	}

	if len(def.Symptoms) == 0 {
		def.Symptoms = defaultSymptoms
	}
	if def.Brands == nil {
		def.Brands = defaultBrands
	}
	if len(def.Languages) == 0 {
		def.Languages = defaultLanguages
	}

	return New(def)
}

// New validates a definition and builds a Lexicon from it.
// Every symptom must have at least one medicine and one synonym.
func New(def Definition) (*Lexicon, error) {
	if len(def.Symptoms) == 0 {
		return nil, ErrNoSymptoms
	}

	lex := &Lexicon{
		medicines: make(map[entities.SymptomKey][]string, len(def.Symptoms)),
		brands:    make(map[string]string, len(def.Brands)),
		tags:      make(map[string]bool, len(def.Languages)),
	}

	for _, s := range def.Symptoms {
		key := entities.SymptomKey(strings.TrimSpace(string(s.Key)))
		if key == "" {
			return nil, fmt.Errorf("symptom key cannot be empty")
		}
		if _, exists := lex.medicines[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSymptom, key)
		}
		if len(s.Medicines) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingMedicines, key)
		}

		synonymCount := 0
		for _, p := range s.Synonyms {
			phrase := strings.TrimSpace(p.Phrase)
			if phrase == "" {
				continue
			}
			tag, err := canonicalTag(p.Language)
			if err != nil {
				return nil, fmt.Errorf("synonym %q of %s: %w", phrase, key, err)
			}
			lex.synonyms = append(lex.synonyms, entities.SynonymEntry{
				Symptom:  key,
				Phrase:   phrase,
				Language: tag,
			})
			synonymCount++
		}
		if synonymCount == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingSynonyms, key)
		}

		lex.symptoms = append(lex.symptoms, key)
		lex.medicines[key] = append([]string(nil), s.Medicines...)
	}

	for brand, generic := range def.Brands {
		lex.brands[strings.ToLower(strings.TrimSpace(brand))] = generic
	}

	for _, l := range def.Languages {
		tag, err := canonicalTag(l)
		if err != nil {
			return nil, err
		}
		if lex.tags[tag] {
			continue
		}
		lex.tags[tag] = true
		lex.languages = append(lex.languages, describe(tag))
	}
	if !lex.tags[PivotLanguage] {
		lex.tags[PivotLanguage] = true
		lex.languages = append([]entities.Language{describe(PivotLanguage)}, lex.languages...)
	}

	return lex, nil
}

// canonicalTag parses a BCP-47 tag and returns its base language ("hi-IN" -> "hi").
func canonicalTag(s string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLanguage, s, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

func describe(tag string) entities.Language {
	t := language.Make(tag)
	return entities.Language{
		Tag:        tag,
		Name:       display.English.Languages().Name(t),
		NativeName: display.Self.Name(t),
	}
}

// Symptoms returns the symptom keys in definition order.
func (l *Lexicon) Symptoms() []entities.SymptomKey {
	return append([]entities.SymptomKey(nil), l.symptoms...)
}

// Synonyms returns every synonym entry in definition order.
func (l *Lexicon) Synonyms() []entities.SynonymEntry {
	return l.synonyms
}

// Medicines returns a copy of the medicine list for a symptom.
func (l *Lexicon) Medicines(key entities.SymptomKey) ([]string, bool) {
	meds, ok := l.medicines[key]
	if !ok {
		return nil, false
	}
	return append([]string(nil), meds...), true
}

// Normalize maps a brand or common name to its generic name.
// The lookup is case-insensitive; unknown names are returned unchanged.
func (l *Lexicon) Normalize(name string) string {
	if generic, ok := l.brands[strings.ToLower(strings.TrimSpace(name))]; ok {
		return generic
	}
	return name
}

// Languages returns the supported user languages, pivot first.
func (l *Lexicon) Languages() []entities.Language {
	return append([]entities.Language(nil), l.languages...)
}

// LanguageTag validates a user language and returns its canonical tag.
// An empty value selects the pivot language.
func (l *Lexicon) LanguageTag(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return PivotLanguage, nil
	}
	tag, err := canonicalTag(s)
	if err != nil {
		return "", err
	}
	if !l.tags[tag] {
		return "", fmt.Errorf("%w: %s is not supported", ErrInvalidLanguage, tag)
	}
	return tag, nil
}

// BrandCount returns the number of brand mappings.
func (l *Lexicon) BrandCount() int {
	return len(l.brands)
}
