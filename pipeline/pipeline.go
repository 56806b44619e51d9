// Package pipeline runs one user turn: translate the input to the pivot
// language, classify it, resolve medicines, fetch their labels and translate
// everything back.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/giygas/symptom-advisor/entities"
	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/lexicon"
	"github.com/giygas/symptom-advisor/logging"
	"github.com/giygas/symptom-advisor/metrics"
	"github.com/giygas/symptom-advisor/speech"
	"github.com/giygas/symptom-advisor/translation"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Compile-time check to ensure Pipeline implements TurnRunner
var _ interfaces.TurnRunner = (*Pipeline)(nil)

// Pipeline is stateless between turns; its collaborators are shared and
// read-only, so one Pipeline serves concurrent requests.
type Pipeline struct {
	translator interfaces.Translator
	classifier interfaces.SymptomClassifier
	resolver   interfaces.MedicineResolver
	fetcher    interfaces.LabelFetcher
}

// New wires a pipeline from its collaborators.
func New(
	translator interfaces.Translator,
	classifier interfaces.SymptomClassifier,
	resolver interfaces.MedicineResolver,
	fetcher interfaces.LabelFetcher,
) *Pipeline {
	return &Pipeline{
		translator: translator,
		classifier: classifier,
		resolver:   resolver,
		fetcher:    fetcher,
	}
}

// turn carries the per-request state of Run.
type turn struct {
	p      *Pipeline
	ctx    context.Context
	result entities.TurnResult
}

// say translates a pivot-language message into the user language.
func (t *turn) say(msg string) string {
	return translation.Apply(t.ctx, t.p.translator, msg, lexicon.PivotLanguage, t.result.Language).Text
}

func (p *Pipeline) begin(ctx context.Context, lang string) *turn {
	if lang == "" {
		lang = lexicon.PivotLanguage
	}
	return &turn{
		p:   p,
		ctx: ctx,
		result: entities.TurnResult{
			TurnID:   uuid.NewString(),
			State:    entities.StateAwaitingInput,
			Language: lang,
		},
	}
}

// Run executes one turn. It never returns an error: every failure ends in a
// terminal state with a translated message, and the disclaimer is always set.
func (p *Pipeline) Run(ctx context.Context, req entities.TurnRequest) entities.TurnResult {
	start := time.Now()
	t := p.begin(ctx, req.Language)
	t.result.Input = req.Text

	t.run(req)

	t.result.Disclaimer = t.say(msgDisclaimer)
	p.finish(&t.result, start)
	return t.result
}

func (t *turn) run(req entities.TurnRequest) {
	r := &t.result

	r.State = entities.StateTranslating
	pivot := translation.Apply(t.ctx, t.p.translator, req.Text, r.Language, lexicon.PivotLanguage)
	r.Interpreted = strings.ToLower(strings.TrimSpace(pivot.Text))
	r.InterpretedMsg = t.say(msgInterpreted)

	r.State = entities.StateClassifying
	r.Classification = t.p.classifier.Classify(r.Interpreted)
	metrics.ClassificationScore.
		WithLabelValues(boolLabel(r.Classification.Recognized)).
		Observe(float64(r.Classification.Score))

	if !r.Classification.Recognized {
		r.State = entities.StateUnrecognized
		r.Notice = t.say(msgNotRecognized)
		return
	}

	symptom := r.Classification.Symptom
	r.DetectedMsg = t.say(msgDetected(symptom.DisplayName()))

	duration := strings.TrimSpace(req.Duration)
	if duration == "" {
		r.State = entities.StateAwaitingDuration
		r.Prompt = t.say(msgAskDuration)
		r.Notice = t.say(msgDurationMissing)
		return
	}
	r.DurationMsg = t.say(msgDurationNoted(duration))

	r.State = entities.StateResolving
	medicines, err := t.p.resolver.Resolve(symptom)
	if err != nil {
		logging.Error("Medicine resolution failed", "turn_id", r.TurnID, "symptom", symptom, "error", err)
		r.State = entities.StateFailed
		r.Notice = t.say(msgFailed)
		return
	}

	r.State = entities.StateFetching
	captions := t.captions()
	r.Captions = &captions
	r.Medicines = make([]entities.MedicineResult, 0, len(medicines))
	for _, med := range medicines {
		r.Medicines = append(r.Medicines, t.medicine(med, req.RegistryKey))
	}

	r.State = entities.StateRendered
}

// medicine fetches and translates one label. Any fetch error becomes a
// "no info" notice so the remaining medicines are still tried.
func (t *turn) medicine(name, apiKey string) entities.MedicineResult {
	label, err := t.p.fetcher.FetchLabel(t.ctx, name, apiKey)
	if err != nil {
		logging.Debug("No label for medicine", "turn_id", t.result.TurnID, "medicine", name, "error", err)
		return entities.MedicineResult{
			Requested: name,
			Notice:    t.say(msgNoInfo(name)),
		}
	}

	translated := entities.LabelRecord{
		Name:     t.say(titleCase(label.Name)),
		Usage:    t.say(label.Usage),
		Dosage:   t.say(label.Dosage),
		Warnings: t.say(label.Warnings),
		Effects:  t.say(label.Effects),
	}
	return entities.MedicineResult{
		Requested: name,
		Found:     true,
		Label:     &translated,
	}
}

func (t *turn) captions() entities.LabelCaptions {
	return entities.LabelCaptions{
		Heading:     t.say(msgSuggested),
		Usage:       t.say(captionUsage),
		Dosage:      t.say(captionDosage),
		Warnings:    t.say(captionWarnings),
		SideEffects: t.say(captionSideEffects),
	}
}

// RecognitionFailed builds the result of a voice turn whose audio could not
// be turned into text.
func (p *Pipeline) RecognitionFailed(ctx context.Context, lang string, cause error) entities.TurnResult {
	start := time.Now()
	t := p.begin(ctx, lang)

	msg := msgSpeechError
	if errors.Is(cause, speech.ErrNoMatch) {
		msg = msgNoAudioMatch
	}
	t.result.State = entities.StateRecognitionFailed
	t.result.Notice = t.say(msg)
	t.result.Disclaimer = t.say(msgDisclaimer)

	p.finish(&t.result, start)
	return t.result
}

// DescribeMedicine looks a single medicine up outside of a turn, with
// captions in the requested language.
func (p *Pipeline) DescribeMedicine(ctx context.Context, name, lang, apiKey string) (entities.MedicineResult, entities.LabelCaptions) {
	t := p.begin(ctx, lang)
	return t.medicine(name, apiKey), t.captions()
}

func (p *Pipeline) finish(r *entities.TurnResult, start time.Time) {
	if !r.State.Terminal() {
		logging.Error("Turn stopped in a non-terminal state", "turn_id", r.TurnID, "state", r.State)
		r.State = entities.StateFailed
	}

	elapsed := time.Since(start)
	metrics.TurnsTotal.WithLabelValues(string(r.State)).Inc()
	metrics.TurnDuration.Observe(elapsed.Seconds())

	found := 0
	for _, m := range r.Medicines {
		if m.Found {
			found++
		}
	}
	logging.Info("Turn finished",
		"turn_id", r.TurnID,
		"language", r.Language,
		"state", r.State,
		"symptom", r.Classification.Symptom,
		"score", r.Classification.Score,
		"medicines", len(r.Medicines),
		"labels_found", found,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// titleCase builds a Caser per call; Casers are not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
