package language

import (
	"sort"
	"sync"
)

// BaseLanguage is the language UI strings and medical explanations are
// authored in. It can never be disabled or removed.
const BaseLanguage = "english"

// RTLLanguage is the only right-to-left language in the catalog.
const RTLLanguage = "arabic"

// Info describes one entry of the supported-language catalog.
type Info struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	IsRTL      bool   `json:"is_rtl"`
	IsEnabled  bool   `json:"is_enabled"`
}

// ValidationResult reports which language code was settled on and whether
// the caller's code had to be replaced with the base language.
type ValidationResult struct {
	Code         string `json:"code"`
	UsedFallback bool   `json:"used_fallback"`
}

// Manager holds the in-memory language catalog. It is seeded with the
// static table below and can be resynced from the database.
type Manager struct {
	mu        sync.RWMutex
	languages map[string]*Info
}

// NewManager creates a manager seeded with the default catalog.
func NewManager() *Manager {
	m := &Manager{languages: make(map[string]*Info, len(defaultCatalog))}
	for _, info := range defaultCatalog {
		entry := info
		m.languages[entry.Code] = &entry
	}
	return m
}

var defaultCatalog = []Info{
	{Code: "english", Name: "English", NativeName: "English", IsEnabled: true},
	{Code: "hindi", Name: "Hindi", NativeName: "हिन्दी", IsEnabled: true},
	{Code: "bengali", Name: "Bengali", NativeName: "বাংলা", IsEnabled: true},
	{Code: "tamil", Name: "Tamil", NativeName: "தமிழ்", IsEnabled: true},
	{Code: "telugu", Name: "Telugu", NativeName: "తెలుగు", IsEnabled: true},
	{Code: "marathi", Name: "Marathi", NativeName: "मराठी", IsEnabled: true},
	{Code: "gujarati", Name: "Gujarati", NativeName: "ગુજરાતી", IsEnabled: true},
	{Code: "kannada", Name: "Kannada", NativeName: "ಕನ್ನಡ", IsEnabled: true},
	{Code: "malayalam", Name: "Malayalam", NativeName: "മലയാളം", IsEnabled: true},
	{Code: "punjabi", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ", IsEnabled: true},
	{Code: "spanish", Name: "Spanish", NativeName: "Español", IsEnabled: true},
	{Code: "french", Name: "French", NativeName: "Français", IsEnabled: true},
	{Code: "arabic", Name: "Arabic", NativeName: "العربية", IsRTL: true, IsEnabled: true},
}

// IsRightToLeft reports whether text in the given language renders
// right-to-left. True only for Arabic.
func IsRightToLeft(code string) bool {
	return code == RTLLanguage
}

// IsSupported checks if a language code is in the catalog and enabled.
func (m *Manager) IsSupported(code string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lang, exists := m.languages[code]
	return exists && lang.IsEnabled
}

// Validate settles a requested language code. Unsupported or disabled codes
// fall back to the base language.
func (m *Manager) Validate(code string) ValidationResult {
	if m.IsSupported(code) {
		return ValidationResult{Code: code}
	}
	return ValidationResult{Code: BaseLanguage, UsedFallback: true}
}

// Get returns the catalog entry for a code.
func (m *Manager) Get(code string) (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lang, exists := m.languages[code]
	if !exists {
		return Info{}, false
	}
	return *lang, true
}

// List returns all enabled languages sorted by display name.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	languages := make([]Info, 0, len(m.languages))
	for _, lang := range m.languages {
		if lang.IsEnabled {
			languages = append(languages, *lang)
		}
	}
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Name < languages[j].Name
	})
	return languages
}

// Add inserts or replaces a catalog entry. Used when admins create
// languages so the in-memory view matches the database.
func (m *Manager) Add(info Info) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.languages[info.Code] = &info
}

// Enable enables a language.
func (m *Manager) Enable(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lang, exists := m.languages[code]; exists {
		lang.IsEnabled = true
	}
}

// Disable disables a language. The base language cannot be disabled.
func (m *Manager) Disable(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if code == BaseLanguage {
		return
	}
	if lang, exists := m.languages[code]; exists {
		lang.IsEnabled = false
	}
}

// Replace swaps the whole catalog, keeping the base language present and
// enabled even if the incoming rows omit or disable it.
func (m *Manager) Replace(entries []Info) {
	m.mu.Lock()
	defer m.mu.Unlock()

	languages := make(map[string]*Info, len(entries))
	for _, info := range entries {
		entry := info
		languages[entry.Code] = &entry
	}
	if base, ok := languages[BaseLanguage]; ok {
		base.IsEnabled = true
	} else {
		languages[BaseLanguage] = &Info{
			Code:       BaseLanguage,
			Name:       "English",
			NativeName: "English",
			IsEnabled:  true,
		}
	}
	m.languages = languages
}
