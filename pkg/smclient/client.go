// Package smclient is the Go client for the SimplyMedi API. It bundles a
// REST client with token handling, a localization store with durable
// preferences, and a translation facade that treats the server as an
// optional enhancement: when translation is unavailable the original
// text is shown, never an error.
package smclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is used when neither Config.BaseURL nor the
// SIMPLYMEDI_API_URL environment variable is set.
const DefaultBaseURL = "http://localhost:8080/api"

// ErrSessionExpired is returned for any 401 response. By the time a
// caller sees it the stored tokens are gone and the OnSessionExpired
// hook has run.
var ErrSessionExpired = errors.New("smclient: session expired")

// ErrNotAuthenticated is returned when a call needs a stored token that
// is not there.
var ErrNotAuthenticated = errors.New("smclient: not authenticated")

// APIError is a non-2xx response that is not a session expiry.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("smclient: server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("smclient: server returned %d", e.Status)
}

// Config configures a Client. The zero value works against a local
// development server with in-memory storage and no logging.
type Config struct {
	// BaseURL of the API including the /api prefix. Empty falls back to
	// the SIMPLYMEDI_API_URL environment variable, then DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the default client; Timeout is ignored when
	// set.
	HTTPClient *http.Client

	// Timeout for the default HTTP client. Zero means 30 seconds. This
	// is the only timeout; there are no per-call retries.
	Timeout time.Duration

	// Storage holds tokens and language settings across sessions. Nil
	// gets a MemoryStorage.
	Storage Storage

	// Logger receives request latency and soft-failure logs. The zero
	// value is silent.
	Logger zerolog.Logger

	// OnSessionExpired runs after a 401 clears the stored tokens, once
	// per expired response. The login-redirect analog for embedders.
	OnSessionExpired func()
}

// Client is a SimplyMedi API client. All methods are safe for concurrent
// use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    Storage
	log        zerolog.Logger
	onExpired  func()
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("SIMPLYMEDI_API_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	storage := cfg.Storage
	if storage == nil {
		storage = NewMemoryStorage()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		storage:    storage,
		log:        cfg.Logger,
		onExpired:  cfg.OnSessionExpired,
	}
}

// Storage returns the client's durable storage.
func (c *Client) Storage() Storage {
	return c.storage
}

// do runs one request: bearer token attached when present, latency
// logged on completion, and the global 401 policy applied before any
// caller sees the response.
func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("smclient: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("smclient: failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.storage.Get(KeyAccessToken); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("request failed")
		return fmt.Errorf("smclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession()
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("smclient: failed to decode response: %w", err)
	}
	return nil
}

// expireSession clears both tokens and fires the hook. Applied to every
// 401 regardless of which endpoint produced it.
func (c *Client) expireSession() {
	if err := c.storage.Delete(KeyAccessToken); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear access token")
	}
	if err := c.storage.Delete(KeyRefreshToken); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear refresh token")
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}

func errorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}

// User is the account as the API reports it.
type User struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name,omitempty"`
	Language    string          `json:"language"`
	Preferences json.RawMessage `json:"language_preferences,omitempty"`
	IsAdmin     bool            `json:"is_admin"`
}

// AuthResponse is a token pair plus the authenticated user.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

func (c *Client) saveTokens(auth *AuthResponse) {
	if auth.AccessToken != "" {
		if err := c.storage.Set(KeyAccessToken, auth.AccessToken); err != nil {
			c.log.Warn().Err(err).Msg("failed to store access token")
		}
	}
	if auth.RefreshToken != "" {
		if err := c.storage.Set(KeyRefreshToken, auth.RefreshToken); err != nil {
			c.log.Warn().Err(err).Msg("failed to store refresh token")
		}
	}
}

// Login authenticates with email and password and stores the returned
// token pair so later calls carry it.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.saveTokens(&resp)
	return &resp, nil
}

// RegisterRequest creates an account. Language is the full lowercase
// name ("hindi", not "hi"); unknown values land on english.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Language string `json:"language,omitempty"`
}

// Register creates an account and stores the returned token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.saveTokens(&resp)
	return &resp, nil
}

// Refresh exchanges the stored refresh token for a fresh pair.
func (c *Client) Refresh(ctx context.Context) (*AuthResponse, error) {
	token, ok := c.storage.Get(KeyRefreshToken)
	if !ok || token == "" {
		return nil, ErrNotAuthenticated
	}

	req := map[string]string{"refresh_token": token}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", req, &resp); err != nil {
		return nil, err
	}
	c.saveTokens(&resp)
	return &resp, nil
}

// Me returns the authenticated account.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Language is one supported-catalog entry.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	IsRTL      bool   `json:"is_rtl"`
	IsEnabled  bool   `json:"is_enabled"`
}

// SupportedLanguages fetches the server's language catalog.
func (c *Client) SupportedLanguages(ctx context.Context) ([]Language, error) {
	var resp struct {
		Languages []Language `json:"languages"`
	}
	if err := c.do(ctx, http.MethodGet, "/languages/supported", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Languages, nil
}

// NumberRules describes digit grouping for a locale.
type NumberRules struct {
	DecimalSeparator   string `json:"decimal_separator"`
	ThousandsSeparator string `json:"thousands_separator"`
}

// CurrencyRules describes default currency presentation for a locale.
type CurrencyRules struct {
	Code             string `json:"code"`
	Symbol           string `json:"symbol"`
	Position         string `json:"position"`
	DecimalPlaces    int    `json:"decimal_places"`
	SpaceAfterSymbol bool   `json:"space_after_symbol"`
}

// FormattingRules is everything needed to format values for a language.
type FormattingRules struct {
	Code       string        `json:"code"`
	Tag        string        `json:"tag"`
	Direction  string        `json:"direction"`
	DateFormat string        `json:"date_format"`
	TimeFormat string        `json:"time_format"`
	Number     NumberRules   `json:"number_format"`
	Currency   CurrencyRules `json:"currency_format"`
}

// FormattingRules fetches the formatting rules for a language code. The
// second return reports whether the server fell back to the base
// language for an unknown code.
func (c *Client) FormattingRules(ctx context.Context, code string) (*FormattingRules, bool, error) {
	var resp struct {
		Rules        FormattingRules `json:"rules"`
		UsedFallback bool            `json:"used_fallback"`
	}
	path := "/languages/formatting-rules/" + url.PathEscape(code)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, false, err
	}
	return &resp.Rules, resp.UsedFallback, nil
}

// TranslateRequest translates text between languages. Codes are full
// lowercase names; SourceLanguage defaults to english server-side.
type TranslateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language"`
	Quality        string `json:"quality,omitempty"`
}

// TranslateResponse is the server's translation outcome. UsedFallback
// means the text came back unchanged; Cached means the server answered
// from its own cache.
type TranslateResponse struct {
	Text         string `json:"text"`
	UsedFallback bool   `json:"used_fallback"`
	Cached       bool   `json:"cached"`
}

func (c *Client) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	var resp TranslateResponse
	if err := c.do(ctx, http.MethodPost, "/languages/translate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TranslateUIRequest translates an interface string, with an optional
// context hint to disambiguate short labels.
type TranslateUIRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	Context        string `json:"context,omitempty"`
}

func (c *Client) TranslateUI(ctx context.Context, req TranslateUIRequest) (*TranslateResponse, error) {
	var resp TranslateResponse
	if err := c.do(ctx, http.MethodPost, "/languages/translate-ui", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TranslateBatchRequest translates several strings in one round trip.
type TranslateBatchRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"target_language"`
	Context        string   `json:"context,omitempty"`
}

// TranslateBatch returns one result per input, in input order.
func (c *Client) TranslateBatch(ctx context.Context, req TranslateBatchRequest) ([]TranslateResponse, error) {
	var resp struct {
		Results []TranslateResponse `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/languages/translate-batch", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// DetectResponse is the server's guess at a text's language.
type DetectResponse struct {
	Language     string  `json:"language"`
	Confidence   float64 `json:"confidence"`
	UsedFallback bool    `json:"used_fallback"`
}

func (c *Client) Detect(ctx context.Context, text string) (*DetectResponse, error) {
	req := map[string]string{"text": text}
	var resp DetectResponse
	if err := c.do(ctx, http.MethodPost, "/languages/detect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimplifyRequest rewrites medical text in plain language.
type SimplifyRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language,omitempty"`
	Quality        string `json:"quality,omitempty"`
}

func (c *Client) Simplify(ctx context.Context, req SimplifyRequest) (*TranslateResponse, error) {
	var resp TranslateResponse
	if err := c.do(ctx, http.MethodPost, "/languages/simplify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LanguagePreferencesResponse is the account's language plus its opaque
// preference object.
type LanguagePreferencesResponse struct {
	Language    string          `json:"language"`
	Preferences json.RawMessage `json:"language_preferences"`
}

func (c *Client) GetLanguagePreferences(ctx context.Context) (*LanguagePreferencesResponse, error) {
	var resp LanguagePreferencesResponse
	if err := c.do(ctx, http.MethodGet, "/users/language-preferences", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateLanguagePreferences merges the patch into the account's stored
// preferences. A "language" key switches the account language when the
// server recognizes it.
func (c *Client) UpdateLanguagePreferences(ctx context.Context, patch map[string]interface{}) (*LanguagePreferencesResponse, error) {
	var resp LanguagePreferencesResponse
	if err := c.do(ctx, http.MethodPatch, "/users/language-preferences", patch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
