package language

import (
	"testing"
)

func TestManager_IsSupported(t *testing.T) {
	tests := []struct {
		name       string
		langCode   string
		wantResult bool
	}{
		{
			name:       "English is supported",
			langCode:   "english",
			wantResult: true,
		},
		{
			name:       "Hindi is supported",
			langCode:   "hindi",
			wantResult: true,
		},
		{
			name:       "Arabic is supported",
			langCode:   "arabic",
			wantResult: true,
		},
		{
			name:       "German is not supported",
			langCode:   "german",
			wantResult: false,
		},
		{
			name:       "ISO code form is not supported",
			langCode:   "en",
			wantResult: false,
		},
		{
			name:       "Empty code is not supported",
			langCode:   "",
			wantResult: false,
		},
	}

	manager := NewManager()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := manager.IsSupported(tt.langCode)
			if result != tt.wantResult {
				t.Errorf("IsSupported(%s) = %v, want %v", tt.langCode, result, tt.wantResult)
			}
		})
	}
}

func TestManager_Validate(t *testing.T) {
	tests := []struct {
		name         string
		langCode     string
		wantCode     string
		wantFallback bool
	}{
		{
			name:         "Valid English returns english",
			langCode:     "english",
			wantCode:     "english",
			wantFallback: false,
		},
		{
			name:         "Valid Tamil returns tamil",
			langCode:     "tamil",
			wantCode:     "tamil",
			wantFallback: false,
		},
		{
			name:         "Unsupported language falls back to English",
			langCode:     "german",
			wantCode:     "english",
			wantFallback: true,
		},
		{
			name:         "Empty language falls back to English",
			langCode:     "",
			wantCode:     "english",
			wantFallback: true,
		},
		{
			name:         "Garbage falls back to English",
			langCode:     "not-a-language",
			wantCode:     "english",
			wantFallback: true,
		},
	}

	manager := NewManager()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := manager.Validate(tt.langCode)
			if result.Code != tt.wantCode {
				t.Errorf("Validate(%s).Code = %s, want %s", tt.langCode, result.Code, tt.wantCode)
			}
			if result.UsedFallback != tt.wantFallback {
				t.Errorf("Validate(%s).UsedFallback = %v, want %v", tt.langCode, result.UsedFallback, tt.wantFallback)
			}
		})
	}
}

func TestManager_Get(t *testing.T) {
	tests := []struct {
		name       string
		langCode   string
		wantName   string
		wantNative string
		wantRTL    bool
		wantFound  bool
	}{
		{
			name:       "English info",
			langCode:   "english",
			wantName:   "English",
			wantNative: "English",
			wantFound:  true,
		},
		{
			name:       "Hindi info",
			langCode:   "hindi",
			wantName:   "Hindi",
			wantNative: "हिन्दी",
			wantFound:  true,
		},
		{
			name:       "Arabic is right-to-left",
			langCode:   "arabic",
			wantName:   "Arabic",
			wantNative: "العربية",
			wantRTL:    true,
			wantFound:  true,
		},
		{
			name:      "Unsupported language returns not found",
			langCode:  "german",
			wantFound: false,
		},
	}

	manager := NewManager()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, found := manager.Get(tt.langCode)
			if found != tt.wantFound {
				t.Errorf("Get(%s) found = %v, want %v", tt.langCode, found, tt.wantFound)
			}
			if !found {
				return
			}
			if info.Name != tt.wantName {
				t.Errorf("Get(%s).Name = %s, want %s", tt.langCode, info.Name, tt.wantName)
			}
			if info.NativeName != tt.wantNative {
				t.Errorf("Get(%s).NativeName = %s, want %s", tt.langCode, info.NativeName, tt.wantNative)
			}
			if info.IsRTL != tt.wantRTL {
				t.Errorf("Get(%s).IsRTL = %v, want %v", tt.langCode, info.IsRTL, tt.wantRTL)
			}
		})
	}
}

func TestIsRightToLeft(t *testing.T) {
	manager := NewManager()
	for _, info := range manager.List() {
		if got := IsRightToLeft(info.Code); got != (info.Code == "arabic") {
			t.Errorf("IsRightToLeft(%s) = %v, want %v", info.Code, got, info.Code == "arabic")
		}
		if info.IsRTL != IsRightToLeft(info.Code) {
			t.Errorf("catalog IsRTL for %s disagrees with IsRightToLeft", info.Code)
		}
	}
}

func TestManager_EnableDisable(t *testing.T) {
	manager := NewManager()

	if !manager.IsSupported("spanish") {
		t.Error("Spanish should be enabled initially")
	}

	manager.Disable("spanish")
	if manager.IsSupported("spanish") {
		t.Error("Spanish should be disabled after Disable")
	}

	// Disabled languages validate to the base language
	result := manager.Validate("spanish")
	if result.Code != BaseLanguage || !result.UsedFallback {
		t.Errorf("Validate(disabled) = %+v, want base language fallback", result)
	}

	manager.Enable("spanish")
	if !manager.IsSupported("spanish") {
		t.Error("Spanish should be enabled after Enable")
	}

	// The base language cannot be disabled
	manager.Disable(BaseLanguage)
	if !manager.IsSupported(BaseLanguage) {
		t.Error("base language should always stay enabled")
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()

	langs := manager.List()
	if len(langs) != len(defaultCatalog) {
		t.Errorf("expected %d supported languages, got %d", len(defaultCatalog), len(langs))
	}

	foundEnglish := false
	for i, lang := range langs {
		if lang.Code == "english" {
			foundEnglish = true
		}
		if i > 0 && langs[i-1].Name > lang.Name {
			t.Errorf("list not sorted by name: %s before %s", langs[i-1].Name, lang.Name)
		}
	}
	if !foundEnglish {
		t.Error("English should be in the supported list")
	}
}

func TestManager_Replace(t *testing.T) {
	manager := NewManager()

	manager.Replace([]Info{
		{Code: "hindi", Name: "Hindi", NativeName: "हिन्दी", IsEnabled: true},
	})

	if !manager.IsSupported("hindi") {
		t.Error("Hindi should be supported after Replace")
	}
	if manager.IsSupported("tamil") {
		t.Error("Tamil should be gone after Replace")
	}
	// Base language is reinstated even when missing from the new rows
	if !manager.IsSupported(BaseLanguage) {
		t.Error("base language must survive Replace")
	}
}

func TestRulesFor(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantTag      string
		wantDir      string
		wantCurrency string
		wantFallback bool
	}{
		{
			name:         "English rules",
			code:         "english",
			wantTag:      "en",
			wantDir:      "ltr",
			wantCurrency: "USD",
		},
		{
			name:         "Hindi rules",
			code:         "hindi",
			wantTag:      "hi",
			wantDir:      "ltr",
			wantCurrency: "INR",
		},
		{
			name:         "Arabic rules are right-to-left",
			code:         "arabic",
			wantTag:      "ar",
			wantDir:      "rtl",
			wantCurrency: "AED",
		},
		{
			name:         "Unknown code falls back to English rules",
			code:         "klingon",
			wantTag:      "en",
			wantDir:      "ltr",
			wantCurrency: "USD",
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, fallback := RulesFor(tt.code)
			if fallback != tt.wantFallback {
				t.Errorf("RulesFor(%s) fallback = %v, want %v", tt.code, fallback, tt.wantFallback)
			}
			if rules.Tag != tt.wantTag {
				t.Errorf("RulesFor(%s).Tag = %s, want %s", tt.code, rules.Tag, tt.wantTag)
			}
			if rules.Direction != tt.wantDir {
				t.Errorf("RulesFor(%s).Direction = %s, want %s", tt.code, rules.Direction, tt.wantDir)
			}
			if rules.Currency.Code != tt.wantCurrency {
				t.Errorf("RulesFor(%s).Currency.Code = %s, want %s", tt.code, rules.Currency.Code, tt.wantCurrency)
			}
		})
	}
}

func TestEveryCatalogEntryHasRules(t *testing.T) {
	for _, info := range defaultCatalog {
		rules, fallback := RulesFor(info.Code)
		if fallback {
			t.Errorf("no locale rules for catalog language %s", info.Code)
			continue
		}
		if rules.Tag == "" || rules.DateFormat == "" || rules.Currency.Symbol == "" {
			t.Errorf("incomplete rules for %s: %+v", info.Code, rules)
		}
		wantDir := "ltr"
		if info.IsRTL {
			wantDir = "rtl"
		}
		if rules.Direction != wantDir {
			t.Errorf("rules direction for %s = %s, want %s", info.Code, rules.Direction, wantDir)
		}
	}
}
