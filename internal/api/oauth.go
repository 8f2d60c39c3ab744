package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/simplymedi/simplymedi-be/internal/api/middleware"
	"github.com/simplymedi/simplymedi-be/internal/db"
)

// GoogleUserInfo represents user data from Google OAuth
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// OAuthHandler handles the Google sign-in flows: the web redirect flow and
// the mobile ID-token flow
type OAuthHandler struct {
	db               *db.DB
	jwtSecret        string
	google           *oauth2.Config
	allowedClientIDs string

	// Endpoint and client overrides for tests
	httpClient   *http.Client
	tokenInfoURL string
	userInfoURL  string
}

// NewOAuthHandler creates a new OAuth handler configured from the
// environment
func NewOAuthHandler(database *db.DB, jwtSecret string) *OAuthHandler {
	googleConfig := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_WEB_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &OAuthHandler{
		db:               database,
		jwtSecret:        jwtSecret,
		google:           googleConfig,
		allowedClientIDs: os.Getenv("GOOGLE_ALLOWED_CLIENT_IDS"),
		httpClient:       &http.Client{Timeout: 10 * time.Second},
		tokenInfoURL:     "https://oauth2.googleapis.com/tokeninfo",
		userInfoURL:      "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// GoogleLogin initiates the Google web OAuth flow
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	state := generateRandomState()
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)

	url := h.google.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles the Google web OAuth callback
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	stateCookie, err := c.Cookie("oauth_state")
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state parameter"})
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	token, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange token"})
		return
	}

	userInfo, err := h.getGoogleUserInfo(token.AccessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}

	h.signInGoogleUser(c, userInfo)
}

// GoogleTokenAuth handles Google ID token authentication from mobile apps.
// The google_sign_in flow on the device yields an ID token which is
// verified here against Google's tokeninfo endpoint.
func (h *OAuthHandler) GoogleTokenAuth(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID token is required"})
		return
	}

	userInfo, err := h.verifyGoogleIDToken(req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
		return
	}

	h.signInGoogleUser(c, userInfo)
}

// signInGoogleUser finishes both flows: enforce verified email, find or
// create the account, and hand back a token pair
func (h *OAuthHandler) signInGoogleUser(c *gin.Context, userInfo *GoogleUserInfo) {
	if !userInfo.VerifiedEmail {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified with Google"})
		return
	}

	user, err := h.findOrCreateGoogleUser(c.Request.Context(), userInfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate user"})
		return
	}

	access, err := signUserToken(user, middleware.TokenTypeAccess, accessTokenTTL, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}
	refresh, err := signUserToken(user, middleware.TokenTypeRefresh, refreshTokenTTL, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         userToUserInfo(user),
	})
}

// findOrCreateGoogleUser resolves the Google identity to an account. The
// email is the canonical identifier: an existing password account gets the
// Google ID linked on first sign-in.
func (h *OAuthHandler) findOrCreateGoogleUser(ctx context.Context, info *GoogleUserInfo) (*db.User, error) {
	user, err := h.db.GetUserByGoogleID(ctx, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	user, err = h.db.GetUserByEmail(ctx, info.Email)
	if err == nil {
		if err := h.db.LinkGoogleID(ctx, user.ID, info.ID); err != nil {
			return nil, err
		}
		googleID := info.ID
		user.GoogleID = &googleID
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	return h.db.CreateOAuthUser(ctx, info.Email, info.Name, info.ID)
}

// getGoogleUserInfo fetches the profile behind an OAuth access token
func (h *OAuthHandler) getGoogleUserInfo(accessToken string) (*GoogleUserInfo, error) {
	resp, err := h.httpClient.Get(h.userInfoURL + "?access_token=" + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	return &userInfo, nil
}

// verifyGoogleIDToken validates a mobile ID token against Google's
// tokeninfo endpoint. Tokens from any of the configured client IDs (web,
// Android, iOS) are accepted.
func (h *OAuthHandler) verifyGoogleIDToken(idToken string) (*GoogleUserInfo, error) {
	if h.allowedClientIDs == "" {
		return nil, fmt.Errorf("GOOGLE_ALLOWED_CLIENT_IDS not configured")
	}

	resp, err := h.httpClient.Get(h.tokenInfoURL + "?id_token=" + idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var tokenInfo struct {
		Aud           string `json:"aud"`
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"` // "true" or "false"
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(body, &tokenInfo); err != nil {
		return nil, fmt.Errorf("failed to parse token info: %w", err)
	}

	if !isAllowedClientID(tokenInfo.Aud, h.allowedClientIDs) {
		return nil, fmt.Errorf("token audience mismatch: got %s", tokenInfo.Aud)
	}

	return &GoogleUserInfo{
		ID:            tokenInfo.Sub,
		Email:         tokenInfo.Email,
		VerifiedEmail: tokenInfo.EmailVerified == "true",
		Name:          tokenInfo.Name,
		Picture:       tokenInfo.Picture,
	}, nil
}

// isAllowedClientID checks a client ID against the comma-separated allow
// list
func isAllowedClientID(clientID, allowedList string) bool {
	for _, allowed := range strings.Split(allowedList, ",") {
		if allowed = strings.TrimSpace(allowed); allowed != "" && allowed == clientID {
			return true
		}
	}
	return false
}

// generateRandomState generates a random state string for CSRF protection
func generateRandomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
