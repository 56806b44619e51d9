package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/go-resty/resty/v2"
)

const googlePath = "/language/translate/v2"

var _ interfaces.Translator = (*Google)(nil)

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Google calls the Cloud Translation v2 REST API.
type Google struct {
	http   *resty.Client
	apiKey string
}

// NewGoogle creates a Cloud Translation client.
func NewGoogle(baseURL, apiKey string, timeout time.Duration) *Google {
	return &Google{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		apiKey: apiKey,
	}
}

func (g *Google) Name() string { return "google" }

// Translate sends one text. The source is omitted when empty so the API
// detects it.
func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	form := map[string]string{
		"q":      text,
		"target": target,
		"format": "text",
	}
	if source != "" {
		form["source"] = source
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetFormData(form).
		Post(googlePath)
	if err != nil {
		return "", fmt.Errorf("google translate request failed: %w", err)
	}

	var body googleResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil && resp.IsSuccess() {
		return "", fmt.Errorf("google translate: malformed response: %w", err)
	}
	if !resp.IsSuccess() {
		if body.Error != nil && body.Error.Message != "" {
			return "", fmt.Errorf("google translate: status %d: %s", resp.StatusCode(), body.Error.Message)
		}
		return "", fmt.Errorf("google translate: status %d", resp.StatusCode())
	}
	if len(body.Data.Translations) == 0 {
		return "", ErrEmptyTranslation
	}

	return html.UnescapeString(body.Data.Translations[0].TranslatedText), nil
}
