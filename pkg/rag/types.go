package rag

// Turn is a single prior exchange passed along for conversational context
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// QueryRequest asks the webhook to answer a patient question
type QueryRequest struct {
	Query          string   `json:"query"`
	UserID         string   `json:"user_id"`
	ConversationID string   `json:"conversation_id,omitempty"`
	Language       string   `json:"language"`
	History        []Turn   `json:"history,omitempty"`
	ReportContext  []string `json:"report_context,omitempty"`
}

// Source describes a retrieved document fragment backing an answer
type Source struct {
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// QueryResponse is the webhook's answer
type QueryResponse struct {
	Answer   string   `json:"answer"`
	Language string   `json:"language"`
	Sources  []Source `json:"sources,omitempty"`
}

// IngestRequest adds a document to the retrieval index
type IngestRequest struct {
	DocumentID string            `json:"document_id"`
	UserID     string            `json:"user_id"`
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Language   string            `json:"language"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// IngestResponse reports how the document was indexed
type IngestResponse struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

// TranslateRequest translates a single text
type TranslateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language"`
	Context        string `json:"context,omitempty"`
	Quality        string `json:"quality,omitempty"` // "fast", "balanced", "accurate"
}

// TranslateResponse carries the translated text
type TranslateResponse struct {
	TranslatedText   string `json:"translated_text"`
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// BatchTranslateRequest translates several texts in one round trip
type BatchTranslateRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"target_language"`
	Context        string   `json:"context,omitempty"`
}

// BatchTranslateResponse carries translations aligned with the request order
type BatchTranslateResponse struct {
	Translations []string `json:"translations"`
}

// DetectRequest asks which language a text is written in
type DetectRequest struct {
	Text string `json:"text"`
}

// DetectResponse names the detected language
type DetectResponse struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// SimplifyRequest rewrites medical text in plain language
type SimplifyRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	Quality        string `json:"quality,omitempty"`
}

// SimplifyResponse carries the plain-language rewrite
type SimplifyResponse struct {
	SimplifiedText string `json:"simplified_text"`
}
