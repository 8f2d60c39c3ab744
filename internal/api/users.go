package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simplymedi/simplymedi-be/internal/api/middleware"
	"github.com/simplymedi/simplymedi-be/internal/db"
	"github.com/simplymedi/simplymedi-be/internal/language"
)

// UsersHandler serves the caller's language preference profile.
type UsersHandler struct {
	db        *db.DB
	languages *language.Manager
}

func NewUsersHandler(database *db.DB, languages *language.Manager) *UsersHandler {
	return &UsersHandler{db: database, languages: languages}
}

// LanguagePreferences is the preference payload returned to clients.
type LanguagePreferences struct {
	Language    string          `json:"language"`
	Preferences json.RawMessage `json:"language_preferences"`
}

// GetLanguagePreferences returns the caller's preferred language and stored
// preference object.
func (h *UsersHandler) GetLanguagePreferences(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.db.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, preferencesPayload(user))
}

// UpdateLanguagePreferences shallow-merges the request body into the stored
// preference object. A "language" key moves the preferred language when the
// code is in the catalog; unknown codes are dropped while the rest of the
// patch still applies.
func (h *UsersHandler) UpdateLanguagePreferences(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var preferred *string
	if raw, ok := body["language"]; ok {
		if code, isString := raw.(string); isString && h.languages.IsSupported(code) {
			preferred = &code
		}
		delete(body, "language")
	}

	patch, err := json.Marshal(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.db.UpdateLanguagePreferences(c.Request.Context(), userID, patch, preferred)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, preferencesPayload(user))
}

func preferencesPayload(user *db.User) LanguagePreferences {
	prefs := user.Preferences
	if len(prefs) == 0 {
		prefs = []byte("{}")
	}
	return LanguagePreferences{Language: user.Language, Preferences: json.RawMessage(prefs)}
}
