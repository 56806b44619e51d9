package pipeline

import "fmt"

// User-facing text, written in the pivot language and translated per turn.
const (
	msgInterpreted     = "Interpreted Symptoms:"
	msgNotRecognized   = "Symptom not recognized. Please try again."
	msgAskDuration     = "How many days have you had this symptom?"
	msgDurationMissing = "Please enter how long you've had the symptom."
	msgSuggested       = "Suggested Medicines"
	msgFailed          = "Something went wrong. Please try again."
	msgNoAudioMatch    = "Could not understand audio."
	msgSpeechError     = "Speech service error."
	msgDisclaimer      = "This is not medical advice. Always consult a doctor."

	captionUsage       = "Usage"
	captionDosage      = "Dosage"
	captionWarnings    = "Warnings"
	captionSideEffects = "Side Effects"
)

func msgDetected(symptom string) string {
	return fmt.Sprintf("You seem to have %s", symptom)
}

func msgDurationNoted(duration string) string {
	return fmt.Sprintf("Duration noted: %s days", duration)
}

func msgNoInfo(medicine string) string {
	return fmt.Sprintf("No info found for %s", medicine)
}
