// Package render formats a turn result as Markdown for chat-style clients.
package render

import (
	"fmt"
	"strings"

	"github.com/giygas/symptom-advisor/entities"
)

// Markdown renders r. Only the parts the turn reached are written; the
// disclaimer always closes the document.
func Markdown(r entities.TurnResult) string {
	var b strings.Builder

	if r.InterpretedMsg != "" {
		fmt.Fprintf(&b, "%s **%s**\n\n", r.InterpretedMsg, r.Interpreted)
	}
	if r.DetectedMsg != "" {
		fmt.Fprintf(&b, "%s\n\n", r.DetectedMsg)
	}
	if r.Prompt != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Prompt)
	}
	if r.DurationMsg != "" {
		fmt.Fprintf(&b, "%s\n\n", r.DurationMsg)
	}
	if r.Notice != "" {
		fmt.Fprintf(&b, "> %s\n\n", r.Notice)
	}

	if r.Captions != nil && len(r.Medicines) > 0 {
		fmt.Fprintf(&b, "### %s\n\n", r.Captions.Heading)
		for _, m := range r.Medicines {
			writeMedicine(&b, m, *r.Captions)
		}
	}

	if r.Disclaimer != "" {
		fmt.Fprintf(&b, "_%s_\n", r.Disclaimer)
	}
	return b.String()
}

// Medicine renders a single lookup outside a turn.
func Medicine(m entities.MedicineResult, c entities.LabelCaptions) string {
	var b strings.Builder
	writeMedicine(&b, m, c)
	return b.String()
}

func writeMedicine(b *strings.Builder, m entities.MedicineResult, c entities.LabelCaptions) {
	if !m.Found || m.Label == nil {
		fmt.Fprintf(b, "> %s\n\n", m.Notice)
		return
	}
	l := m.Label
	fmt.Fprintf(b, "#### %s\n", l.Name)
	fmt.Fprintf(b, "- **%s**: %s\n", c.Usage, oneLine(l.Usage))
	fmt.Fprintf(b, "- **%s**: %s\n", c.Dosage, oneLine(l.Dosage))
	fmt.Fprintf(b, "- **%s**: %s\n", c.Warnings, oneLine(l.Warnings))
	fmt.Fprintf(b, "- **%s**: %s\n\n", c.SideEffects, oneLine(l.Effects))
}

// oneLine keeps multi-paragraph label text inside its list item.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
