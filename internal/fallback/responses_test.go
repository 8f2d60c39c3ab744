package fallback

import (
	"strings"
	"testing"

	"github.com/simplymedi/simplymedi-be/internal/classifier"
)

func TestGetFallbackResponse(t *testing.T) {
	tests := []struct {
		name           string
		intent         classifier.Intent
		language       string
		expectedAction string
		containsText   string
	}{
		{
			name:           "english medical fallback",
			intent:         classifier.IntentMedicalQ,
			language:       "english",
			expectedAction: "see_doctor",
			containsText:   "contact your doctor",
		},
		{
			name:           "hindi medical fallback",
			intent:         classifier.IntentMedicalQ,
			language:       "hindi",
			expectedAction: "see_doctor",
			containsText:   "डॉक्टर",
		},
		{
			name:           "spanish medical fallback",
			intent:         classifier.IntentMedicalQ,
			language:       "spanish",
			expectedAction: "see_doctor",
			containsText:   "médico",
		},
		{
			name:           "english report fallback",
			intent:         classifier.IntentReportQ,
			language:       "english",
			expectedAction: "retry",
			containsText:   "safely stored",
		},
		{
			name:           "english scheduling fallback",
			intent:         classifier.IntentScheduling,
			language:       "english",
			expectedAction: "manual_booking",
			containsText:   "appointments page",
		},
		{
			name:           "french small talk fallback",
			intent:         classifier.IntentSmallTalk,
			language:       "french",
			expectedAction: "retry",
			containsText:   "souci technique",
		},
		{
			name:           "arabic unclear fallback",
			intent:         classifier.IntentUnclear,
			language:       "arabic",
			expectedAction: "retry",
			containsText:   "سؤالك",
		},
		{
			name:           "unknown language defaults to english",
			intent:         classifier.IntentMedicalQ,
			language:       "german",
			expectedAction: "see_doctor",
			containsText:   "contact your doctor",
		},
		{
			name:           "unknown intent gets unclear reply",
			intent:         classifier.Intent("something_new"),
			language:       "english",
			expectedAction: "retry",
			containsText:   "rephrasing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := GetFallbackResponse(tt.intent, tt.language)

			if response.Action != tt.expectedAction {
				t.Errorf("got action %q, want %q", response.Action, tt.expectedAction)
			}

			if !strings.Contains(strings.ToLower(response.Content), strings.ToLower(tt.containsText)) {
				t.Errorf("response %q does not contain %q", response.Content, tt.containsText)
			}
		})
	}
}

func TestGetTimeoutResponse(t *testing.T) {
	tests := []struct {
		name         string
		language     string
		containsText string
	}{
		{
			name:         "english timeout",
			language:     "english",
			containsText: "taking longer",
		},
		{
			name:         "spanish timeout",
			language:     "spanish",
			containsText: "tardando más",
		},
		{
			name:         "unknown language defaults to english",
			language:     "german",
			containsText: "taking longer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := GetTimeoutResponse(tt.language)

			if response.Action != "retry" {
				t.Errorf("got action %q, want retry", response.Action)
			}

			if !strings.Contains(strings.ToLower(response.Content), strings.ToLower(tt.containsText)) {
				t.Errorf("response %q does not contain %q", response.Content, tt.containsText)
			}
		})
	}
}

func TestGetCircuitOpenResponse(t *testing.T) {
	tests := []struct {
		name         string
		language     string
		containsText string
	}{
		{
			name:         "english circuit open",
			language:     "english",
			containsText: "temporarily unavailable",
		},
		{
			name:         "french circuit open",
			language:     "french",
			containsText: "temporairement indisponible",
		},
		{
			name:         "unknown language defaults to english",
			language:     "italian",
			containsText: "temporarily unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := GetCircuitOpenResponse(tt.language)

			if response.Action != "see_doctor" {
				t.Errorf("got action %q, want see_doctor", response.Action)
			}

			if !strings.Contains(strings.ToLower(response.Content), strings.ToLower(tt.containsText)) {
				t.Errorf("response %q does not contain %q", response.Content, tt.containsText)
			}
		})
	}
}

func TestAllLanguagesHaveCompleteCoverage(t *testing.T) {
	intents := []classifier.Intent{
		classifier.IntentMedicalQ,
		classifier.IntentReportQ,
		classifier.IntentScheduling,
		classifier.IntentSmallTalk,
		classifier.IntentGratitude,
		classifier.IntentUnclear,
	}

	languages := Languages()
	if len(languages) != 5 {
		t.Fatalf("got %d languages, want 5", len(languages))
	}

	for _, lang := range languages {
		t.Run("language_"+lang, func(t *testing.T) {
			for _, intent := range intents {
				response := GetFallbackResponse(intent, lang)

				if response.Content == "" {
					t.Errorf("missing content for language %s, intent %v", lang, intent)
				}

				if response.Action == "" {
					t.Errorf("missing action for language %s, intent %v", lang, intent)
				}
			}

			if GetTimeoutResponse(lang).Content == "" {
				t.Errorf("missing timeout response for language %s", lang)
			}

			if GetCircuitOpenResponse(lang).Content == "" {
				t.Errorf("missing circuit open response for language %s", lang)
			}
		})
	}
}
