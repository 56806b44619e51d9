// Package handlers provides the HTTP handlers of the symptom advisor API:
// text and voice turns, symptom and language listings, single label lookups
// and the health check.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/symptom-advisor/entities"
	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/lexicon"
	"github.com/giygas/symptom-advisor/logging"
	"github.com/giygas/symptom-advisor/render"
	"github.com/go-chi/chi/v5"
)

// RegistryKeyHeader carries the registry credential when it is not in the body.
const RegistryKeyHeader = "X-Registry-Key"

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	runner     interfaces.TurnRunner
	lex        *lexicon.Lexicon
	validator  interfaces.InputValidator
	recognizer interfaces.SpeechRecognizer // nil when voice input is off
	health     interfaces.HealthChecker
	status     interfaces.StatusStore
	maxAudio   int64
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	runner interfaces.TurnRunner,
	lex *lexicon.Lexicon,
	validator interfaces.InputValidator,
	recognizer interfaces.SpeechRecognizer,
	health interfaces.HealthChecker,
	status interfaces.StatusStore,
	maxAudio int64,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		runner:     runner,
		lex:        lex,
		validator:  validator,
		recognizer: recognizer,
		health:     health,
		status:     status,
		maxAudio:   maxAudio,
	}
}

// registryKey prefers the body value over the header.
func registryKey(r *http.Request, fromBody string) string {
	if key := strings.TrimSpace(fromBody); key != "" {
		return key
	}
	return strings.TrimSpace(r.Header.Get(RegistryKeyHeader))
}

// checkTurnInput validates language and duration and canonicalizes the tag.
func (h *HTTPHandlerImpl) checkTurnInput(req *entities.TurnRequest) error {
	tag, err := h.lex.LanguageTag(req.Language)
	if err != nil {
		return err
	}
	req.Language = tag

	req.Duration = strings.TrimSpace(req.Duration)
	if req.Duration != "" {
		if err := h.validator.ValidateDuration(req.Duration); err != nil {
			return err
		}
	}
	return nil
}

func (h *HTTPHandlerImpl) respondTurn(w http.ResponseWriter, r *http.Request, code int, result entities.TurnResult) {
	if wantsMarkdown(r) {
		RespondWithMarkdown(w, code, render.Markdown(result))
		return
	}
	RespondWithJSON(w, code, result)
}

// CreateTurn runs one text turn.
func (h *HTTPHandlerImpl) CreateTurn(w http.ResponseWriter, r *http.Request) {
	var req entities.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	// blank text is a regular unrecognized turn
	if strings.TrimSpace(req.Text) != "" {
		if err := h.validator.ValidateSymptomText(req.Text); err != nil {
			logging.Warn("Unusual user input", "field", "text", "error", err)
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := h.checkTurnInput(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.RegistryKey = registryKey(r, req.RegistryKey)

	h.respondTurn(w, r, http.StatusOK, h.runner.Run(r.Context(), req))
}

// CreateVoiceTurn transcribes an uploaded recording and runs it as a turn.
// Recognition failures answer 422 with a translated notice.
func (h *HTTPHandlerImpl) CreateVoiceTurn(w http.ResponseWriter, r *http.Request) {
	if h.recognizer == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Voice input is not enabled")
		return
	}

	if err := r.ParseMultipartForm(h.maxAudio); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Missing audio file")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, h.maxAudio+1))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Could not read audio file")
		return
	}
	if err := h.validator.ValidateAudio(audio, header.Header.Get("Content-Type")); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := entities.TurnRequest{
		Language: r.FormValue("language"),
		Duration: r.FormValue("duration"),
	}
	if err := h.checkTurnInput(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.RegistryKey = registryKey(r, r.FormValue("api_key"))

	text, err := h.recognizer.Recognize(r.Context(), audio, header.Filename, req.Language)
	if err != nil {
		logging.Info("Voice recognition failed", "language", req.Language, "error", err)
		h.respondTurn(w, r, http.StatusUnprocessableEntity, h.runner.RecognitionFailed(r.Context(), req.Language, err))
		return
	}
	req.Text = text

	h.respondTurn(w, r, http.StatusOK, h.runner.Run(r.Context(), req))
}

// SymptomInfo describes one symptom category
type SymptomInfo struct {
	Key       entities.SymptomKey `json:"key"`
	Name      string              `json:"name"`
	Medicines []string            `json:"medicines"`
	Synonyms  []string            `json:"synonyms"`
}

// ListSymptoms returns the symptom categories in lexicon order.
func (h *HTTPHandlerImpl) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	phrases := make(map[entities.SymptomKey][]string)
	for _, s := range h.lex.Synonyms() {
		phrases[s.Symptom] = append(phrases[s.Symptom], s.Phrase)
	}

	keys := h.lex.Symptoms()
	out := make([]SymptomInfo, 0, len(keys))
	for _, key := range keys {
		meds, _ := h.lex.Medicines(key)
		out = append(out, SymptomInfo{
			Key:       key,
			Name:      key.DisplayName(),
			Medicines: meds,
			Synonyms:  phrases[key],
		})
	}

	RespondWithJSON(w, http.StatusOK, out)
}

// ListLanguages returns the selectable user languages.
func (h *HTTPHandlerImpl) ListLanguages(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.lex.Languages())
}

// LabelResponse is the body of a single label lookup
type LabelResponse struct {
	Medicine entities.MedicineResult `json:"medicine"`
	Captions entities.LabelCaptions  `json:"captions"`
}

// GetMedicineLabel looks one medicine up and translates its label.
func (h *HTTPHandlerImpl) GetMedicineLabel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateMedicineName(name); err != nil {
		logging.Warn("Unusual user input", "field", "name", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	lang, err := h.lex.LanguageTag(r.URL.Query().Get("language"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	med, captions := h.runner.DescribeMedicine(r.Context(), strings.TrimSpace(name), lang, registryKey(r, ""))

	code := http.StatusOK
	if !med.Found {
		code = http.StatusNotFound
	}
	if wantsMarkdown(r) {
		RespondWithMarkdown(w, code, render.Medicine(med, captions))
		return
	}
	if !med.Found {
		RespondWithError(w, code, med.Notice)
		return
	}
	RespondWithJSON(w, code, LabelResponse{Medicine: med, Captions: captions})
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Duration(0)
	if start := h.status.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}

	RespondWithJSON(w, httpStatus, HealthResponse{
		Status: status,
		Uptime: formatUptimeHuman(uptime),
		Data:   details,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	})
}

