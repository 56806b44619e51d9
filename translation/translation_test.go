package translation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/giygas/symptom-advisor/config"
	"github.com/giygas/symptom-advisor/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	s.calls++
	return s.out, s.err
}

func (s *stubTranslator) Name() string { return "stub" }

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("translated", func(t *testing.T) {
		got := Apply(ctx, &stubTranslator{out: "i have fever"}, "मुझे बुखार है", "hi", "en")
		assert.Equal(t, entities.Translation{Text: "i have fever", Status: entities.TranslationTranslated}, got)
	})

	t.Run("same language skips backend", func(t *testing.T) {
		stub := &stubTranslator{out: "x"}
		got := Apply(ctx, stub, "fever", "en", "en")
		assert.Equal(t, entities.TranslationUnchanged, got.Status)
		assert.Equal(t, "fever", got.Text)
		assert.Zero(t, stub.calls)
	})

	t.Run("blank text skips backend", func(t *testing.T) {
		stub := &stubTranslator{out: "x"}
		got := Apply(ctx, stub, "  ", "hi", "en")
		assert.Equal(t, "  ", got.Text)
		assert.Zero(t, stub.calls)
	})

	t.Run("failure keeps original", func(t *testing.T) {
		got := Apply(ctx, &stubTranslator{err: errors.New("boom")}, "बुखार", "hi", "en")
		assert.Equal(t, entities.Translation{Text: "बुखार", Status: entities.TranslationFailed}, got)
	})

	t.Run("empty answer keeps original", func(t *testing.T) {
		got := Apply(ctx, &stubTranslator{out: " "}, "बुखार", "hi", "en")
		assert.Equal(t, entities.TranslationFailed, got.Status)
		assert.Equal(t, "बुखार", got.Text)
	})

	t.Run("identical answer is unchanged", func(t *testing.T) {
		got := Apply(ctx, Noop{}, "paracetamol", "en", "hi")
		assert.Equal(t, entities.Translation{Text: "paracetamol", Status: entities.TranslationUnchanged}, got)
	})

	t.Run("nil translator", func(t *testing.T) {
		got := Apply(ctx, nil, "fever", "en", "hi")
		assert.Equal(t, entities.TranslationUnchanged, got.Status)
	})
}

func TestGoogleTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, googlePath, r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "मुझे बुखार है", r.PostForm.Get("q"))
		assert.Equal(t, "hi", r.PostForm.Get("source"))
		assert.Equal(t, "en", r.PostForm.Get("target"))
		assert.Equal(t, "text", r.PostForm.Get("format"))
		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"I have fever"}]}}`))
	}))
	defer srv.Close()

	g := NewGoogle(srv.URL, "g-key", time.Second)
	got, err := g.Translate(context.Background(), "मुझे बुखार है", "hi", "en")
	require.NoError(t, err)
	assert.Equal(t, "I have fever", got)
	assert.Equal(t, "google", g.Name())
}

func TestGoogleTranslateDetectsSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.False(t, r.PostForm.Has("source"))
		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"Tom &amp; Jerry"}]}}`))
	}))
	defer srv.Close()

	got, err := NewGoogle(srv.URL, "k", time.Second).Translate(context.Background(), "x", "", "en")
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", got)
}

func TestGoogleTranslateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"code":400,"message":"Invalid Value"}}`, "Invalid Value"},
		{"server error", http.StatusBadGateway, `gateway`, "status 502"},
		{"no translations", http.StatusOK, `{"data":{"translations":[]}}`, "empty translation"},
		{"malformed", http.StatusOK, `{"data":`, "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGoogle(srv.URL, "k", time.Second).Translate(context.Background(), "x", "en", "hi")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOpenAITranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[0].Content, "from English to Hindi")
		assert.Equal(t, "fever", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":" बुखार \n"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test", srv.URL+"/v1", "gpt-test", time.Second)
	got, err := o.Translate(context.Background(), "fever", "en", "hi")
	require.NoError(t, err)
	assert.Equal(t, "बुखार", got)
	assert.Equal(t, "openai", o.Name())
}

func TestOpenAITranslateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-bad", srv.URL+"/v1", "", time.Second)
	got := Apply(context.Background(), o, "fever", "en", "hi")
	assert.Equal(t, entities.Translation{Text: "fever", Status: entities.TranslationFailed}, got)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Hindi", languageName("hi"))
	assert.Equal(t, "Spanish", languageName("es"))
	assert.Equal(t, "the detected language", languageName(""))
	assert.Equal(t, "???", languageName("???"))
}

func TestFromConfig(t *testing.T) {
	tr, err := FromConfig(&config.Config{Translator: config.TranslatorNone})
	require.NoError(t, err)
	assert.Equal(t, "none", tr.Name())

	tr, err = FromConfig(&config.Config{Translator: config.TranslatorGoogle, TranslateBaseURL: "http://localhost", TranslateAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &Google{}, tr)

	tr, err = FromConfig(&config.Config{Translator: config.TranslatorOpenAI, OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, tr)

	_, err = FromConfig(&config.Config{Translator: "babelfish"})
	assert.Error(t, err)
}
