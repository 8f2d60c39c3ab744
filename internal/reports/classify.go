package reports

import "strings"

// Report types
const (
	TypeLabResult        = "lab_result"
	TypeImaging          = "imaging"
	TypePrescription     = "prescription"
	TypeDischargeSummary = "discharge_summary"
	TypeOther            = "other"
)

// typeKeywords is checked in order; the first group with a hit wins.
// Discharge summaries and prescriptions come first because their documents
// routinely mention labs and scans in passing.
var typeKeywords = []struct {
	reportType string
	keywords   []string
}{
	{TypeDischargeSummary, []string{
		"discharge", "hospital course", "summary of care", "admission summary",
	}},
	{TypePrescription, []string{
		"prescription", "medication list", "dosage", "pharmacy", " rx", "rx_", "rx-", "rx.",
	}},
	{TypeImaging, []string{
		"x-ray", "xray", "mri", "ct scan", "ct_", "ultrasound", "sonography",
		"radiology", "echocardiogram", "mammogram", "scan",
	}},
	{TypeLabResult, []string{
		"lab", "blood", "cbc", "panel", "urine", "lipid", "glucose", "hba1c",
		"thyroid", "pathology", "culture", "test result", "serum",
	}},
}

// ClassifyType guesses a report's type from its filename and title. Unmatched
// documents land in "other".
func ClassifyType(filename, title string) string {
	haystack := strings.ToLower(filename + " " + title)

	for _, group := range typeKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(haystack, keyword) {
				return group.reportType
			}
		}
	}
	return TypeOther
}
