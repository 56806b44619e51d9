// Package validation checks user input before it reaches the pipeline.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giygas/symptom-advisor/interfaces"
)

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Free text in any script: letters with their combining marks, digits,
	// whitespace, punctuation of any script (danda, ¿, ¡) and a few symbols
	// used when describing symptoms
	symptomRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\p{P}°%+]+$`)

	// Punctuation that is markup or escaping rather than prose
	symptomForbiddenRegex = regexp.MustCompile(`[{}\[\]\\|]`)

	// Medicine names: letters, digits, spaces and the separators seen in
	// compound generics ("ibuprofen + paracetamol")
	medicineRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\-\.\+'/]+$`)

	durationRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\-\.,]+$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "eval(", "expression(", "@import",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"/*", "*/", "exec(", "execute(",
		// Command injection patterns
		"`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
		// NoSQL injection patterns
		"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:",
	}

	// audioTypes are the accepted upload media types
	audioTypes = []string{"audio/", "video/webm", "application/octet-stream"}
)

// Limits for user input
const (
	MaxSymptomRunes   = 500
	MaxSymptomWords   = 80
	MaxDurationRunes  = 20
	MaxDurationDays   = 3650
	MinMedicineRunes  = 2
	MaxMedicineRunes  = 60
	MaxRepeatedRunes  = 10
	DefaultAudioLimit = 10 << 20
)

// Compile-time check to ensure InputValidatorImpl implements InputValidator
var _ interfaces.InputValidator = (*InputValidatorImpl)(nil)

// InputValidatorImpl implements the interfaces.InputValidator interface
type InputValidatorImpl struct {
	maxAudioBytes int
}

// NewInputValidator creates a validator. maxAudioBytes <= 0 uses
// DefaultAudioLimit.
func NewInputValidator(maxAudioBytes int) *InputValidatorImpl {
	if maxAudioBytes <= 0 {
		maxAudioBytes = DefaultAudioLimit
	}
	return &InputValidatorImpl{maxAudioBytes: maxAudioBytes}
}

// ValidateSymptomText validates a free-text symptom description in any
// supported language.
func (v *InputValidatorImpl) ValidateSymptomText(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if !utf8.ValidString(input) {
		return fmt.Errorf("input is not valid UTF-8")
	}

	if n := utf8.RuneCountInString(input); n > MaxSymptomRunes {
		return fmt.Errorf("input too long: maximum %d characters, got %d", MaxSymptomRunes, n)
	}

	// Word count validation to prevent DoS attacks with many short words
	if words := len(strings.Fields(input)); words > MaxSymptomWords {
		return fmt.Errorf("input too complex: maximum %d words allowed", MaxSymptomWords)
	}

	if err := checkDangerous(input); err != nil {
		return err
	}

	if !symptomRegex.MatchString(input) || symptomForbiddenRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces and basic punctuation are allowed")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateDuration validates the answer to "how many days". Numbers must be
// positive and at most MaxDurationDays; short words ("two", "दो") are kept as
// given.
func (v *InputValidatorImpl) ValidateDuration(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("duration cannot be empty")
	}

	if n := utf8.RuneCountInString(trimmed); n > MaxDurationRunes {
		return fmt.Errorf("duration too long: maximum %d characters", MaxDurationRunes)
	}

	if days, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if days <= 0 || days > MaxDurationDays {
			return fmt.Errorf("duration must be between 0 and %d days", MaxDurationDays)
		}
		return nil
	}

	if !durationRegex.MatchString(trimmed) {
		return fmt.Errorf("duration contains invalid characters")
	}

	return nil
}

// ValidateMedicineName validates a brand or generic name for a label lookup.
func (v *InputValidatorImpl) ValidateMedicineName(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("medicine name cannot be empty")
	}

	n := utf8.RuneCountInString(trimmed)
	if n < MinMedicineRunes {
		return fmt.Errorf("medicine name too short: minimum %d characters", MinMedicineRunes)
	}
	if n > MaxMedicineRunes {
		return fmt.Errorf("medicine name too long: maximum %d characters", MaxMedicineRunes)
	}

	if err := checkDangerous(trimmed); err != nil {
		return err
	}

	if !medicineRegex.MatchString(trimmed) {
		return fmt.Errorf("medicine name contains invalid characters")
	}

	return nil
}

// ValidateAudio validates an uploaded recording by size and media type.
func (v *InputValidatorImpl) ValidateAudio(audio []byte, contentType string) error {
	if len(audio) == 0 {
		return fmt.Errorf("audio cannot be empty")
	}

	if len(audio) > v.maxAudioBytes {
		return fmt.Errorf("audio too large: maximum %d bytes", v.maxAudioBytes)
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, allowed := range audioTypes {
		if strings.HasPrefix(mediaType, allowed) {
			return nil
		}
	}

	return fmt.Errorf("unsupported audio type %q", contentType)
}

func checkDangerous(input string) error {
	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}
	return nil
}

// hasExcessiveRepetition reports a rune repeated more than MaxRepeatedRunes
// times in a row.
func hasExcessiveRepetition(input string) bool {
	var prev rune
	run := 0
	for _, r := range input {
		if r == prev {
			run++
			if run > MaxRepeatedRunes {
				return true
			}
			continue
		}
		prev = r
		run = 1
	}
	return false
}
