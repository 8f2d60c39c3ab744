package reports

import "testing"

func TestClassifyType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		title    string
		want     string
	}{
		{"blood panel filename", "cbc_blood_panel.pdf", "", TypeLabResult},
		{"lab in title", "results.pdf", "Annual lab work", TypeLabResult},
		{"lipid profile", "lipid-profile-2026.pdf", "", TypeLabResult},
		{"xray", "chest_xray.jpg", "", TypeImaging},
		{"mri title", "scan001.png", "Brain MRI", TypeImaging},
		{"ultrasound", "abdominal_ultrasound.pdf", "", TypeImaging},
		{"prescription", "rx_amoxicillin.pdf", "", TypePrescription},
		{"medication list", "meds.txt", "Medication list after visit", TypePrescription},
		{"discharge", "discharge_summary.pdf", "", TypeDischargeSummary},
		{"discharge beats lab mention", "notes.pdf", "Discharge summary with blood counts", TypeDischargeSummary},
		{"prescription beats scan mention", "scanned_prescription.pdf", "", TypePrescription},
		{"unmatched", "photo.jpg", "Holiday", TypeOther},
		{"empty", "", "", TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyType(tt.filename, tt.title); got != tt.want {
				t.Errorf("ClassifyType(%q, %q) = %q, want %q", tt.filename, tt.title, got, tt.want)
			}
		})
	}
}
