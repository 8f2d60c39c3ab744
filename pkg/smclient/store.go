package smclient

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// BaseLanguage is the fallback for every degraded path. Language codes
// are full lowercase names throughout ("english", "hindi"), never BCP 47
// tags.
const BaseLanguage = "english"

// RTLLanguage is the only right-to-left language in the catalog.
const RTLLanguage = "arabic"

// Translation quality levels.
const (
	QualityFast     = "fast"
	QualityBalanced = "balanced"
	QualityAccurate = "accurate"
)

// Preferences are the formatting settings persisted under the
// languagePreferences storage key. Field names match the web client's
// stored object.
type Preferences struct {
	Language           string `json:"language"`
	AutoTranslate      bool   `json:"autoTranslate"`
	TranslationQuality string `json:"translationQuality"`
	DateFormat         string `json:"dateFormat"`
	TimeFormat         string `json:"timeFormat"`
	NumberFormat       string `json:"numberFormat"`
	Currency           string `json:"currency"`
	Timezone           string `json:"timezone"`
}

func defaultPreferences() Preferences {
	return Preferences{
		Language:           BaseLanguage,
		AutoTranslate:      true,
		TranslationQuality: QualityBalanced,
		DateFormat:         "MM/DD/YYYY",
		TimeFormat:         "12h",
		NumberFormat:       "1,234.56",
		Currency:           "USD",
		Timezone:           "UTC",
	}
}

// State is a snapshot of the localization store.
type State struct {
	Language      string
	IsRightToLeft bool
	Preferences   Preferences
	Catalog       []Language
}

// defaultLanguageCatalog mirrors the server's built-in catalog so
// language switches validate without a network round trip.
var defaultLanguageCatalog = []Language{
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

// Store holds the current language, formatting preferences, and the
// supported-language catalog. It is an explicit object, not a package
// singleton; every mutation goes through one apply path, serialized by
// a mutex, so listeners observe each change exactly once.
type Store struct {
	client *Client
	log    zerolog.Logger

	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// NewStore builds a store backed by the client's storage. A previously
// persisted language and preferences are restored; malformed stored
// JSON is logged and replaced with defaults.
func NewStore(client *Client) *Store {
	s := &Store{
		client:    client,
		log:       client.log,
		listeners: make(map[int]func(State)),
	}

	prefs := defaultPreferences()
	if raw, ok := client.storage.Get(KeyLanguagePreferences); ok && raw != "" {
		restored := defaultPreferences()
		if err := json.Unmarshal([]byte(raw), &restored); err != nil {
			s.log.Warn().Err(err).Msg("stored language preferences are malformed, using defaults")
		} else {
			prefs = restored
		}
	}

	code := prefs.Language
	if stored, ok := client.storage.Get(KeyPreferredLanguage); ok && stored != "" {
		code = stored
	} else if stored, ok := client.storage.Get(KeySelectedLanguage); ok && stored != "" {
		code = stored
	}
	if !catalogSupports(defaultLanguageCatalog, code) {
		code = BaseLanguage
	}
	prefs.Language = code

	s.state = State{
		Language:      code,
		IsRightToLeft: code == RTLLanguage,
		Preferences:   prefs,
		Catalog:       defaultLanguageCatalog,
	}
	return s
}

func catalogSupports(catalog []Language, code string) bool {
	for _, lang := range catalog {
		if lang.Code == code {
			return lang.IsEnabled
		}
	}
	return false
}

// apply mutates a copy of the state under the write lock, re-derives the
// RTL flag, commits, and notifies listeners. Listeners run outside the
// lock.
func (s *Store) apply(mutate func(*State)) State {
	s.mu.Lock()
	next := s.state
	mutate(&next)
	next.IsRightToLeft = next.Language == RTLLanguage
	s.state = next

	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

// State returns a snapshot. The catalog slice is a copy.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := s.state
	state.Catalog = append([]Language(nil), s.state.Catalog...)
	return state
}

// Language returns the current language code.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Language
}

// IsRightToLeft reports whether the current language renders
// right-to-left. True only for arabic.
func (s *Store) IsRightToLeft() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsRightToLeft
}

// Preferences returns the current formatting preferences.
func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Preferences
}

// Subscribe registers a listener fired after every applied change, the
// channel through which embedders mirror language and text direction
// into their UI. The returned function removes the listener.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SetLanguage switches the current language. Codes not in the catalog,
// or disabled there, leave the state untouched and return false. A
// successful switch persists both language keys and syncs the profile
// endpoint on a best-effort basis.
func (s *Store) SetLanguage(ctx context.Context, code string) bool {
	s.mu.RLock()
	supported := catalogSupports(s.state.Catalog, code)
	s.mu.RUnlock()
	if !supported {
		return false
	}

	state := s.apply(func(st *State) {
		st.Language = code
		st.Preferences.Language = code
	})

	s.persistLanguage(state)
	s.syncPreferences(ctx, state.Preferences)
	return true
}

// PreferencesPatch updates a subset of preferences; nil fields keep
// their current value. Language goes through the same catalog check as
// SetLanguage: an unknown code is dropped from the patch.
type PreferencesPatch struct {
	Language           *string
	AutoTranslate      *bool
	TranslationQuality *string
	DateFormat         *string
	TimeFormat         *string
	NumberFormat       *string
	Currency           *string
	Timezone           *string
}

// SetPreferences shallow-merges the patch, persists the full preference
// object, and syncs the profile endpoint on a best-effort basis.
func (s *Store) SetPreferences(ctx context.Context, patch PreferencesPatch) {
	if patch.Language != nil {
		s.mu.RLock()
		supported := catalogSupports(s.state.Catalog, *patch.Language)
		s.mu.RUnlock()
		if !supported {
			patch.Language = nil
		}
	}

	state := s.apply(func(st *State) {
		p := &st.Preferences
		if patch.Language != nil {
			st.Language = *patch.Language
			p.Language = *patch.Language
		}
		if patch.AutoTranslate != nil {
			p.AutoTranslate = *patch.AutoTranslate
		}
		if patch.TranslationQuality != nil {
			p.TranslationQuality = *patch.TranslationQuality
		}
		if patch.DateFormat != nil {
			p.DateFormat = *patch.DateFormat
		}
		if patch.TimeFormat != nil {
			p.TimeFormat = *patch.TimeFormat
		}
		if patch.NumberFormat != nil {
			p.NumberFormat = *patch.NumberFormat
		}
		if patch.Currency != nil {
			p.Currency = *patch.Currency
		}
		if patch.Timezone != nil {
			p.Timezone = *patch.Timezone
		}
	})

	if patch.Language != nil {
		s.persistLanguage(state)
	} else {
		s.persistPreferences(state.Preferences)
	}
	s.syncPreferences(ctx, state.Preferences)
}

// RefreshCatalog replaces the static catalog with the server's. On any
// failure the current catalog stays.
func (s *Store) RefreshCatalog(ctx context.Context) error {
	languages, err := s.client.SupportedLanguages(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("catalog refresh failed, keeping current catalog")
		return err
	}
	if len(languages) == 0 {
		s.log.Debug().Msg("catalog refresh returned no languages, keeping current catalog")
		return nil
	}

	s.apply(func(st *State) {
		st.Catalog = languages
	})
	return nil
}

func (s *Store) persistLanguage(state State) {
	if err := s.client.storage.Set(KeyPreferredLanguage, state.Language); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist preferred language")
	}
	if err := s.client.storage.Set(KeySelectedLanguage, state.Language); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist selected language")
	}
	s.persistPreferences(state.Preferences)
}

func (s *Store) persistPreferences(prefs Preferences) {
	data, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := s.client.storage.Set(KeyLanguagePreferences, string(data)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist language preferences")
	}
}

// syncPreferences pushes the full preference object to the profile
// endpoint when a session exists. Failures are logged and swallowed;
// the local state is already committed and stays authoritative.
func (s *Store) syncPreferences(ctx context.Context, prefs Preferences) {
	if token, ok := s.client.storage.Get(KeyAccessToken); !ok || token == "" {
		return
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	var patch map[string]interface{}
	if err := json.Unmarshal(data, &patch); err != nil {
		return
	}

	if _, err := s.client.UpdateLanguagePreferences(ctx, patch); err != nil {
		s.log.Debug().
			Str("endpoint", "/users/language-preferences").
			Err(err).
			Msg("preference sync failed")
	}
}
