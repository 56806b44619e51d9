package entities

// TurnState is the state a turn ended in.
type TurnState string

const (
	StateAwaitingInput     TurnState = "awaiting_input"
	StateTranslating       TurnState = "translating"
	StateClassifying       TurnState = "classifying"
	StateUnrecognized      TurnState = "unrecognized"
	StateAwaitingDuration  TurnState = "awaiting_duration"
	StateResolving         TurnState = "resolving"
	StateFetching          TurnState = "fetching"
	StateRendered          TurnState = "rendered"
	StateFailed            TurnState = "failed"
	StateRecognitionFailed TurnState = "recognition_failed"
)

// Terminal reports whether a turn can end in this state.
func (s TurnState) Terminal() bool {
	switch s {
	case StateUnrecognized, StateAwaitingDuration, StateRendered, StateFailed, StateRecognitionFailed:
		return true
	}
	return false
}

// TranslationStatus tells callers how a translated text was obtained.
type TranslationStatus string

const (
	TranslationTranslated TranslationStatus = "translated"
	TranslationUnchanged  TranslationStatus = "unchanged"
	TranslationFailed     TranslationStatus = "failed"
)

// Translation always carries usable text: on failure Text is the original input.
type Translation struct {
	Text   string            `json:"text"`
	Status TranslationStatus `json:"status"`
}

// TurnRequest is one unit of user input.
type TurnRequest struct {
	Text        string `json:"text"`
	Language    string `json:"language"`
	Duration    string `json:"duration,omitempty"`
	RegistryKey string `json:"api_key,omitempty"`
}

// LabelCaptions are the translated field headings for rendered labels.
type LabelCaptions struct {
	Heading     string `json:"heading"`
	Usage       string `json:"usage"`
	Dosage      string `json:"dosage"`
	Warnings    string `json:"warnings"`
	SideEffects string `json:"side_effects"`
}

// MedicineResult is the per-medicine part of a rendered turn.
type MedicineResult struct {
	Requested string       `json:"requested"`
	Found     bool         `json:"found"`
	Label     *LabelRecord `json:"label,omitempty"`
	Notice    string       `json:"notice,omitempty"`
}

// TurnResult is everything the presentation layer needs to show one turn.
type TurnResult struct {
	TurnID         string               `json:"turn_id"`
	State          TurnState            `json:"state"`
	Language       string               `json:"language"`
	Input          string               `json:"input"`
	Interpreted    string               `json:"interpreted"`
	InterpretedMsg string               `json:"interpreted_message,omitempty"`
	Classification ClassificationResult `json:"classification"`
	DetectedMsg    string               `json:"detected_message,omitempty"`
	Prompt         string               `json:"prompt,omitempty"`
	DurationMsg    string               `json:"duration_message,omitempty"`
	Notice         string               `json:"notice,omitempty"`
	Captions       *LabelCaptions       `json:"captions,omitempty"`
	Medicines      []MedicineResult     `json:"medicines,omitempty"`
	Disclaimer     string               `json:"disclaimer"`
}
