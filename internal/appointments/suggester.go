package appointments

import (
	"strings"

	"github.com/simplymedi/simplymedi-be/internal/classifier"
)

// SuggestionResult is the decision on whether chat should offer to book an
// appointment.
type SuggestionResult struct {
	ShouldSuggest bool
	Priority      string // "urgent" or "high"
}

// Suggestion is the payload chat sends alongside an answer when a visit to a
// doctor seems warranted.
type Suggestion struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Suggester decides when a chat message warrants an appointment suggestion.
type Suggester struct {
	urgentKeywords []string
}

// NewSuggester creates a suggester with the urgent symptom vocabulary.
func NewSuggester() *Suggester {
	return &Suggester{
		urgentKeywords: []string{
			"severe", "bleeding", "emergency", "urgent", "chest pain",
			"can't breathe", "cannot breathe", "unbearable", "fainted",
			"unconscious", "emergencia", "urgente", "खून", "तेज दर्द",
		},
	}
}

// ShouldSuggest returns a positive result for scheduling requests and for
// medical questions describing urgent symptoms.
func (s *Suggester) ShouldSuggest(intent classifier.Intent, message string) SuggestionResult {
	lower := strings.ToLower(message)

	urgent := false
	for _, keyword := range s.urgentKeywords {
		if strings.Contains(lower, keyword) {
			urgent = true
			break
		}
	}

	switch intent {
	case classifier.IntentScheduling:
		priority := "high"
		if urgent {
			priority = "urgent"
		}
		return SuggestionResult{ShouldSuggest: true, Priority: priority}
	case classifier.IntentMedicalQ, classifier.IntentReportQ:
		if urgent {
			return SuggestionResult{ShouldSuggest: true, Priority: "urgent"}
		}
	}
	return SuggestionResult{}
}

// BuildSuggestion creates the suggestion payload for a message.
func (s *Suggester) BuildSuggestion(intent classifier.Intent, message string, result SuggestionResult) Suggestion {
	if result.Priority == "urgent" {
		return Suggestion{
			Type:        "book_appointment",
			Title:       "See a doctor soon",
			Description: "What you describe may need prompt medical attention. Would you like to book an appointment?",
			Priority:    result.Priority,
		}
	}
	return Suggestion{
		Type:        "book_appointment",
		Title:       "Book an appointment",
		Description: "I can help you book a time with one of our doctors.",
		Priority:    result.Priority,
	}
}
