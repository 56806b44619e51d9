package render

import (
	"testing"

	"github.com/giygas/symptom-advisor/entities"
	"github.com/stretchr/testify/assert"
)

func TestMarkdownRenderedTurn(t *testing.T) {
	r := entities.TurnResult{
		State:          entities.StateRendered,
		Interpreted:    "i have a fever",
		InterpretedMsg: "Interpreted Symptoms:",
		DetectedMsg:    "You seem to have fever",
		DurationMsg:    "Duration noted: 3 days",
		Captions: &entities.LabelCaptions{
			Heading: "Suggested Medicines", Usage: "Usage", Dosage: "Dosage",
			Warnings: "Warnings", SideEffects: "Side Effects",
		},
		Medicines: []entities.MedicineResult{
			{Requested: "paracetamol", Found: true, Label: &entities.LabelRecord{
				Name: "Paracetamol", Usage: "Fever\n\nand pain.", Dosage: "500 mg",
				Warnings: entities.NotAvailable, Effects: "Rash",
			}},
			{Requested: "ibuprofen", Notice: "No info found for ibuprofen"},
		},
		Disclaimer: "This is not medical advice. Always consult a doctor.",
	}

	want := "Interpreted Symptoms: **i have a fever**\n\n" +
		"You seem to have fever\n\n" +
		"Duration noted: 3 days\n\n" +
		"### Suggested Medicines\n\n" +
		"#### Paracetamol\n" +
		"- **Usage**: Fever and pain.\n" +
		"- **Dosage**: 500 mg\n" +
		"- **Warnings**: Not available\n" +
		"- **Side Effects**: Rash\n\n" +
		"> No info found for ibuprofen\n\n" +
		"_This is not medical advice. Always consult a doctor._\n"

	assert.Equal(t, want, Markdown(r))
}

func TestMarkdownUnrecognizedTurn(t *testing.T) {
	r := entities.TurnResult{
		State:          entities.StateUnrecognized,
		Interpreted:    "food poisoning",
		InterpretedMsg: "Interpreted Symptoms:",
		Notice:         "Symptom not recognized. Please try again.",
		Disclaimer:     "This is not medical advice. Always consult a doctor.",
	}

	want := "Interpreted Symptoms: **food poisoning**\n\n" +
		"> Symptom not recognized. Please try again.\n\n" +
		"_This is not medical advice. Always consult a doctor._\n"
	assert.Equal(t, want, Markdown(r))
}

func TestMedicine(t *testing.T) {
	out := Medicine(entities.MedicineResult{Notice: "No info found for x"}, entities.LabelCaptions{})
	assert.Equal(t, "> No info found for x\n\n", out)
}
