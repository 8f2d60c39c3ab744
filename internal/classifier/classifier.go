package classifier

import (
	"regexp"
	"strings"
)

// Intent represents the classified intent of a patient message
type Intent string

const (
	IntentSmallTalk  Intent = "small_talk"
	IntentGratitude  Intent = "gratitude"
	IntentReportQ    Intent = "report_question"
	IntentMedicalQ   Intent = "medical_question"
	IntentScheduling Intent = "scheduling_related"
	IntentUnclear    Intent = "unclear"
)

// Result contains the classification result
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classifier performs rule-based intent classification
type Classifier struct {
	greetingPatterns   []*regexp.Regexp
	goodbyePatterns    []*regexp.Regexp
	thanksPatterns     []*regexp.Regexp
	reportPatterns     []*regexp.Regexp
	medicalPatterns    []*regexp.Regexp
	schedulingPatterns []*regexp.Regexp
	spaceNormalizer    *regexp.Regexp
}

// New creates a new intent classifier
func New() *Classifier {
	return &Classifier{
		spaceNormalizer: regexp.MustCompile(`\s+`),
		greetingPatterns: compilePatterns([]string{
			`\b(hi|hello|hey|hola|bonjour|namaste|good morning|good afternoon|good evening)\b`,
			`\bhow are you\b`,
			`\bwhat's up\b`,
			`नमस्ते`,
			`مرحبا`,
		}),
		goodbyePatterns: compilePatterns([]string{
			`\b(bye|goodbye|see you|farewell|adiós|au revoir|alvida)\b`,
			`\btalk to you later\b`,
		}),
		thanksPatterns: compilePatterns([]string{
			`\b(thanks|thank you|thx|gracias|merci|dhanyavad|shukriya)\b`,
			`\bappreciate it\b`,
			`धन्यवाद`,
			`شكرا`,
		}),
		reportPatterns: compilePatterns([]string{
			`\b(report|reports|informe|rapport)\b`,
			`\b(result|results|resultado|resultados)\b`,
			`\b(lab|labs|blood test|blood work|análisis)\b`,
			`\b(x-?ray|scan|mri|ct|ultrasound|ecografía|sonogram)\b`,
			`\b(value|values|level|levels|range|normal range)\b`,
			`\bwhat does my\b`,
			`\bmy (test|blood|lab)\b`,
			`रिपोर्ट`,
			`जांच`,
			`تقرير`,
		}),
		medicalPatterns: compilePatterns([]string{
			`\b(pain|hurt|hurting|ache|aching|dolor|douleur|dard)\b`,
			`\b(fever|fiebre|fièvre|bukhar|temperature)\b`,
			`\b(headache|migraine|dolor de cabeza)\b`,
			`\b(nausea|nauseous|náuseas|vomit|vómito)\b`,
			`\b(cough|cold|flu|tos|gripe)\b`,
			`\b(diabetes|sugar|cholesterol|blood pressure|bp|thyroid|anemia)\b`,
			`\b(medicine|medication|medicament|tablet|dose|dosage|dawai)\b`,
			`\b(side effects?|efectos secundarios)\b`,
			`\b(symptom|symptoms|síntoma|síntomas)\b`,
			`\bis (it|this) (normal|serious|dangerous)\b`,
			`\bwhat (is|are|does)\b`,
			`\bshould i (worry|be worried|take)\b`,
			`\bme duele\b`,
			`\btengo (fiebre|dolor|náuseas|tos)\b`,
			`दर्द`,
			`बुखार`,
			`दवा`,
			`ألم`,
		}),
		schedulingPatterns: compilePatterns([]string{
			`\b(appointment|appointments|cita|rendez-vous)\b`,
			`\b(book|booking|schedule|scheduling|reschedule|programar|agendar)\b`,
			`\b(cancel|cancelar)\b.*\b(appointment|visit|cita)\b`,
			`\b(see|visit|consult) (a |the )?(doctor|specialist|dr)\b`,
			`\b(doctor|doctors|médico|docteur) (available|near|who)\b`,
			`\bwhen (is|can) my\b`,
			`\bnext (appointment|visit|checkup)\b`,
			`डॉक्टर`,
			`موعد`,
		}),
	}
}

// Classify determines the intent of the input message
func (c *Classifier) Classify(input string) Result {
	normalized := c.normalizeText(input)

	if normalized == "" {
		return Result{Intent: IntentUnclear, Confidence: 0.1}
	}

	if c.matchesPatterns(normalized, c.greetingPatterns) ||
		c.matchesPatterns(normalized, c.goodbyePatterns) {
		return Result{Intent: IntentSmallTalk, Confidence: 0.9}
	}

	if c.matchesPatterns(normalized, c.thanksPatterns) {
		return Result{Intent: IntentGratitude, Confidence: 0.9}
	}

	// Report questions take priority so answers stay grounded in the
	// patient's own documents
	if reportMatches := c.countMatches(normalized, c.reportPatterns); reportMatches > 0 {
		return Result{
			Intent:     IntentReportQ,
			Confidence: cappedConfidence(0.75, reportMatches),
		}
	}

	if schedulingMatches := c.countMatches(normalized, c.schedulingPatterns); schedulingMatches > 0 {
		return Result{
			Intent:     IntentScheduling,
			Confidence: cappedConfidence(0.75, schedulingMatches),
		}
	}

	if medicalMatches := c.countMatches(normalized, c.medicalPatterns); medicalMatches > 0 {
		return Result{
			Intent:     IntentMedicalQ,
			Confidence: cappedConfidence(0.7, medicalMatches),
		}
	}

	return Result{Intent: IntentUnclear, Confidence: 0.3}
}

func cappedConfidence(base float64, matches int) float64 {
	confidence := base + float64(matches)*0.05
	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}

// normalizeText preprocesses input text for classification
func (c *Classifier) normalizeText(input string) string {
	text := strings.ToLower(input)
	text = strings.TrimSpace(text)
	text = c.spaceNormalizer.ReplaceAllString(text, " ")
	text = strings.TrimRight(text, "!?.,;:")
	return text
}

func (c *Classifier) matchesPatterns(text string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func (c *Classifier) countMatches(text string, patterns []*regexp.Regexp) int {
	count := 0
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			count++
		}
	}
	return count
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}
