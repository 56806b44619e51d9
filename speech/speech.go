// Package speech sends recorded audio to a Whisper-compatible
// transcription service.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/logging"
	"github.com/giygas/symptom-advisor/metrics"
	"github.com/go-resty/resty/v2"
)

var (
	// ErrNoMatch means the service understood nothing in the audio.
	ErrNoMatch = errors.New("speech not understood")
	// ErrServiceUnavailable means the service could not be used.
	ErrServiceUnavailable = errors.New("speech service unavailable")
	// ErrDisabled is returned when no service URL is configured.
	ErrDisabled = errors.New("speech recognition disabled")
)

var _ interfaces.SpeechRecognizer = (*Recognizer)(nil)

type transcription struct {
	Text string `json:"text"`
}

// Recognizer posts one multipart request per recording.
type Recognizer struct {
	http *resty.Client
	url  string
}

// New creates a recognizer for the transcription endpoint url. An empty url
// yields a recognizer that always returns ErrDisabled.
func New(url string, timeout time.Duration) *Recognizer {
	return &Recognizer{
		http: resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
		url:  url,
	}
}

// Enabled reports whether a transcription endpoint is configured.
func (r *Recognizer) Enabled() bool {
	return r != nil && r.url != ""
}

// Recognize transcribes audio spoken in language.
func (r *Recognizer) Recognize(ctx context.Context, audio []byte, filename, language string) (string, error) {
	if !r.Enabled() {
		return "", ErrDisabled
	}
	if len(audio) == 0 {
		r.count("no_match")
		return "", ErrNoMatch
	}
	if filename == "" {
		filename = "audio.wav"
	}

	resp, err := r.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		SetMultipartFormData(map[string]string{
			"language":        language,
			"response_format": "json",
		}).
		Post(r.url)
	if err != nil {
		r.count("unavailable")
		logging.Warn("Speech service request failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	if !resp.IsSuccess() {
		r.count("unavailable")
		logging.Warn("Speech service returned an error", "status", resp.StatusCode())
		return "", fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode())
	}

	var out transcription
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		r.count("unavailable")
		return "", fmt.Errorf("%w: malformed response: %w", ErrServiceUnavailable, err)
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		r.count("no_match")
		return "", ErrNoMatch
	}

	r.count("recognized")
	return text, nil
}

func (r *Recognizer) count(outcome string) {
	metrics.RecognitionsTotal.WithLabelValues(outcome).Inc()
}
