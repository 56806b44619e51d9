// Package interfaces defines core abstractions for the symptom advisor
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/symptom-advisor/entities"
)

// SymptomClassifier maps pivot-language text to a canonical symptom.
type SymptomClassifier interface {
	Classify(text string) entities.ClassificationResult
}

// MedicineResolver returns the candidate medicines of a symptom.
type MedicineResolver interface {
	Resolve(symptom entities.SymptomKey) ([]string, error)
}

// LabelFetcher retrieves drug-label data for a medicine name.
// The registry credential is supplied per call and never stored.
type LabelFetcher interface {
	FetchLabel(ctx context.Context, medicine string, apiKey string) (entities.LabelRecord, error)
}

// RegistryProber checks that the label registry answers at all.
type RegistryProber interface {
	Probe(ctx context.Context) error
}

// Translator translates text between two language tags.
// An empty source lets the backend detect the language.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}

// SpeechRecognizer turns recorded audio into text in the given language.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, audio []byte, filename, language string) (string, error)
}

// TurnRunner executes one user turn end to end.
type TurnRunner interface {
	Run(ctx context.Context, req entities.TurnRequest) entities.TurnResult
	RecognitionFailed(ctx context.Context, language string, cause error) entities.TurnResult
	DescribeMedicine(ctx context.Context, name, language, apiKey string) (entities.MedicineResult, entities.LabelCaptions)
}

// StatusStore holds process-wide status read by the health endpoint.
// It provides thread-safe access with atomic operations.
type StatusStore interface {
	RecordProbe(at time.Time, err error)
	LastProbe() (at time.Time, reachable bool, lastError string)
	BeginProbe() bool
	EndProbe()
	IsProbing() bool
	SetServerStartTime(startTime time.Time)
	GetServerStartTime() time.Time
}

// Scheduler defines the contract for background job scheduling.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator defines the contract for validating user input.
type InputValidator interface {
	// ValidateSymptomText checks free-text symptom descriptions
	ValidateSymptomText(input string) error

	// ValidateDuration checks the free-form duration answer
	ValidateDuration(input string) error

	// ValidateMedicineName checks a medicine name used for direct label lookups
	ValidateMedicineName(input string) error

	// ValidateAudio checks an uploaded voice recording
	ValidateAudio(audio []byte, contentType string) error
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	CreateTurn(w http.ResponseWriter, r *http.Request)
	CreateVoiceTurn(w http.ResponseWriter, r *http.Request)
	ListSymptoms(w http.ResponseWriter, r *http.Request)
	ListLanguages(w http.ResponseWriter, r *http.Request)
	GetMedicineLabel(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}
