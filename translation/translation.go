// Package translation translates user-facing text between languages. Every
// backend may fail; Apply turns any failure into the original text so the
// pipeline never stops on a translation problem.
package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/giygas/symptom-advisor/config"
	"github.com/giygas/symptom-advisor/entities"
	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/logging"
	"github.com/giygas/symptom-advisor/metrics"
)

// ErrEmptyTranslation is returned when a backend answers with no text.
var ErrEmptyTranslation = errors.New("empty translation")

// Apply translates text from source to target. Blank text and equal
// languages are returned unchanged without calling the backend. An empty
// source lets the backend detect the language.
func Apply(ctx context.Context, t interfaces.Translator, text, source, target string) entities.Translation {
	if strings.TrimSpace(text) == "" || (source != "" && source == target) || t == nil {
		return entities.Translation{Text: text, Status: entities.TranslationUnchanged}
	}

	out, err := t.Translate(ctx, text, source, target)
	if err == nil && strings.TrimSpace(out) == "" {
		err = ErrEmptyTranslation
	}
	if err != nil {
		metrics.TranslationsTotal.WithLabelValues(t.Name(), string(entities.TranslationFailed)).Inc()
		logging.Debug("Translation failed, keeping original text",
			"backend", t.Name(), "source", source, "target", target, "error", err)
		return entities.Translation{Text: text, Status: entities.TranslationFailed}
	}

	status := entities.TranslationTranslated
	if out == text {
		status = entities.TranslationUnchanged
	}
	metrics.TranslationsTotal.WithLabelValues(t.Name(), string(status)).Inc()
	return entities.Translation{Text: out, Status: status}
}

// FromConfig builds the translator selected by TRANSLATOR.
func FromConfig(cfg *config.Config) (interfaces.Translator, error) {
	switch cfg.Translator {
	case config.TranslatorGoogle:
		return NewGoogle(cfg.TranslateBaseURL, cfg.TranslateAPIKey, cfg.TranslateTimeout), nil
	case config.TranslatorOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.TranslateTimeout), nil
	case config.TranslatorNone, "":
		return Noop{}, nil
	}
	return nil, fmt.Errorf("unknown translator %q", cfg.Translator)
}

// Noop returns every text unchanged.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

func (Noop) Name() string { return config.TranslatorNone }
