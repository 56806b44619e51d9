// Package resolver maps a canonical symptom to its candidate medicines.
package resolver

import (
	"errors"
	"fmt"

	"github.com/giygas/symptom-advisor/entities"
	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/lexicon"
)

// ErrUnknownSymptom means the classifier produced a key the medicine map does
// not know. It indicates inconsistent tables, not bad user input.
var ErrUnknownSymptom = errors.New("unknown symptom key")

// Compile-time check to ensure Resolver implements MedicineResolver
var _ interfaces.MedicineResolver = (*Resolver)(nil)

// Resolver looks medicines up in the lexicon.
type Resolver struct {
	lex *lexicon.Lexicon
}

// New creates a resolver backed by lex.
func New(lex *lexicon.Lexicon) *Resolver {
	return &Resolver{lex: lex}
}

// Resolve returns the medicines for symptom in lexicon order.
// The returned slice is owned by the caller.
func (r *Resolver) Resolve(symptom entities.SymptomKey) ([]string, error) {
	meds, ok := r.lex.Medicines(symptom)
	if !ok || len(meds) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymptom, symptom)
	}
	return meds, nil
}
