package privacy

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// Phone patterns: 555-123-4567, (555) 123-4567, +91 98765 43210, 555-1234
	phoneRegex = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]\d{4}|(\+\d{1,3}[-.\s]?)?\d{5}[-.\s]\d{5}\b|\b\d{3}[-.\s]\d{4}\b`)

	// US social security numbers
	ssnRegex = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	// Credit/debit cards, four groups of four. Checked before Aadhaar so
	// the longer match wins.
	cardRegex = regexp.MustCompile(`\b\d{4}[-\s]\d{4}[-\s]\d{4}[-\s]\d{4}\b`)

	// Aadhaar numbers, three groups of four
	aadhaarRegex = regexp.MustCompile(`\b\d{4}[-\s]\d{4}[-\s]\d{4}\b`)

	// Medical record identifiers (MRN, UHID, patient IDs)
	medicalIDRegex = regexp.MustCompile(`\b(MRN|UHID|Medical Record|Patient ID)[-:\s]*[A-Z0-9]{6,}\b`)
)

// RedactSensitiveData removes PII from text before it leaves the service
func RedactSensitiveData(text string) string {
	text = emailRegex.ReplaceAllString(text, "[EMAIL]")
	text = phoneRegex.ReplaceAllString(text, "[PHONE]")
	text = ssnRegex.ReplaceAllString(text, "[ID]")
	text = cardRegex.ReplaceAllString(text, "[CARD]")
	text = aadhaarRegex.ReplaceAllString(text, "[ID]")

	text = medicalIDRegex.ReplaceAllStringFunc(text, func(s string) string {
		lower := strings.ToLower(s)
		if strings.Contains(lower, "mrn") ||
			strings.Contains(lower, "uhid") ||
			strings.Contains(lower, "medical") ||
			strings.Contains(lower, "patient") {
			return "[MEDICAL_ID]"
		}
		return s
	})

	return text
}

// SanitizeForLogging prepares text for safe logging
func SanitizeForLogging(text string) string {
	redacted := RedactSensitiveData(text)

	if len(redacted) > 200 {
		return redacted[:197] + "..."
	}
	return redacted
}

// ContainsPII checks if text contains potential PII
func ContainsPII(text string) bool {
	return emailRegex.MatchString(text) ||
		phoneRegex.MatchString(text) ||
		ssnRegex.MatchString(text) ||
		cardRegex.MatchString(text) ||
		aadhaarRegex.MatchString(text) ||
		medicalIDRegex.MatchString(text)
}
