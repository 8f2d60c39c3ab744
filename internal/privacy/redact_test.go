package privacy

import (
	"strings"
	"testing"
)

func TestRedactSensitiveData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "email redaction",
			input:    "My email is asha.rao@example.com",
			expected: "My email is [EMAIL]",
		},
		{
			name:     "phone redaction",
			input:    "Call me at 555-123-4567",
			expected: "Call me at [PHONE]",
		},
		{
			name:     "indian mobile redaction",
			input:    "My number is +91 98765 43210",
			expected: "My number is [PHONE]",
		},
		{
			name:     "SSN redaction",
			input:    "My SSN is 123-45-6789",
			expected: "My SSN is [ID]",
		},
		{
			name:     "aadhaar redaction",
			input:    "Aadhaar 1234 5678 9012 on file",
			expected: "Aadhaar [ID] on file",
		},
		{
			name:     "credit card redaction",
			input:    "Card: 4532-1234-5678-9010",
			expected: "Card: [CARD]",
		},
		{
			name:     "medical record number",
			input:    "See MRN: A1B2C3D4 for history",
			expected: "See [MEDICAL_ID] for history",
		},
		{
			name:     "uhid redaction",
			input:    "UHID 20250123X admitted yesterday",
			expected: "[MEDICAL_ID] admitted yesterday",
		},
		{
			name:     "multiple PII types",
			input:    "Email: test@test.com, Phone: 555-1234",
			expected: "Email: [EMAIL], Phone: [PHONE]",
		},
		{
			name:     "no PII",
			input:    "My sugar level was 140 after lunch",
			expected: "My sugar level was 140 after lunch",
		},
		{
			name:     "lab values untouched",
			input:    "Hemoglobin 13.5, WBC 7200, platelets 250000",
			expected: "Hemoglobin 13.5, WBC 7200, platelets 250000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RedactSensitiveData(tt.input)
			if result != tt.expected {
				t.Errorf("got %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestContainsPII(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "contains email",
			input:    "Contact me at user@example.com",
			expected: true,
		},
		{
			name:     "contains phone",
			input:    "My number is 555-1234",
			expected: true,
		},
		{
			name:     "contains medical id",
			input:    "Patient ID: XK93842A",
			expected: true,
		},
		{
			name:     "no PII",
			input:    "I have a headache and mild fever",
			expected: false,
		},
		{
			name:     "report talk",
			input:    "What does high cholesterol in my report mean?",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ContainsPII(tt.input)
			if result != tt.expected {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSanitizeForLogging(t *testing.T) {
	longText := strings.Repeat("a", 250)
	result := SanitizeForLogging(longText)

	if len(result) > 200 {
		t.Errorf("result not truncated: got length %d, want <= 200", len(result))
	}

	if !strings.HasSuffix(result, "...") {
		t.Errorf("truncated text should end with '...'")
	}

	withPII := "Reach me on asha@example.com please"
	if strings.Contains(SanitizeForLogging(withPII), "asha@example.com") {
		t.Error("email leaked into log output")
	}
}
