package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simplymedi/simplymedi-be/internal/db"
	"github.com/simplymedi/simplymedi-be/internal/language"
)

// AdminHandler serves the management surface: the language catalog, the
// doctor directory, and usage statistics.
type AdminHandler struct {
	db        *db.DB
	languages *language.Manager
}

func NewAdminHandler(database *db.DB, languages *language.Manager) *AdminHandler {
	return &AdminHandler{db: database, languages: languages}
}

func languageToInfo(lang *db.Language) language.Info {
	return language.Info{
		Code:       lang.Code,
		Name:       lang.Name,
		NativeName: lang.NativeName,
		IsRTL:      lang.IsRTL,
		IsEnabled:  lang.IsEnabled,
	}
}

// ListLanguages returns the full catalog, disabled entries included.
func (h *AdminHandler) ListLanguages(c *gin.Context) {
	languages, err := h.db.GetAllLanguages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list languages"})
		return
	}

	infos := make([]language.Info, 0, len(languages))
	for i := range languages {
		infos = append(infos, languageToInfo(&languages[i]))
	}

	c.JSON(http.StatusOK, gin.H{"languages": infos})
}

// CreateLanguageRequest adds a language to the catalog.
type CreateLanguageRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	NativeName string `json:"native_name" binding:"required"`
	IsRTL      bool   `json:"is_rtl"`
	IsEnabled  *bool  `json:"is_enabled"`
}

// CreateLanguage adds a language and makes it visible to validation and
// the chat engine immediately.
func (h *AdminHandler) CreateLanguage(c *gin.Context) {
	var req CreateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code, name, and native_name are required"})
		return
	}

	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code, name, and native_name are required"})
		return
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	lang := &db.Language{
		Code:       code,
		Name:       req.Name,
		NativeName: req.NativeName,
		IsRTL:      req.IsRTL,
		IsEnabled:  enabled,
	}
	if err := h.db.CreateLanguage(c.Request.Context(), lang); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Language already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create language"})
		return
	}

	h.languages.Add(languageToInfo(lang))

	c.JSON(http.StatusCreated, languageToInfo(lang))
}

// UpdateLanguageRequest changes catalog fields. Omitted fields keep
// their current value.
type UpdateLanguageRequest struct {
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	IsRTL      *bool  `json:"is_rtl"`
	IsEnabled  *bool  `json:"is_enabled"`
}

// UpdateLanguage edits a catalog entry. The base language cannot be
// disabled since every fallback path lands on it.
func (h *AdminHandler) UpdateLanguage(c *gin.Context) {
	code := c.Param("code")

	var req UpdateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if code == language.BaseLanguage && req.IsEnabled != nil && !*req.IsEnabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "The base language cannot be disabled"})
		return
	}

	if err := h.db.UpdateLanguage(c.Request.Context(), code, req.Name, req.NativeName, req.IsRTL, req.IsEnabled); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Language not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update language"})
		return
	}

	h.syncCatalog(c)

	c.JSON(http.StatusOK, gin.H{"message": "Language updated"})
}

// DeleteLanguage removes a language from the catalog. The base language
// stays.
func (h *AdminHandler) DeleteLanguage(c *gin.Context) {
	code := c.Param("code")
	if code == language.BaseLanguage {
		c.JSON(http.StatusForbidden, gin.H{"error": "The base language cannot be removed"})
		return
	}

	if err := h.db.DeleteLanguage(c.Request.Context(), code); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Language not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete language"})
		return
	}

	h.syncCatalog(c)

	c.JSON(http.StatusOK, gin.H{"message": "Language deleted"})
}

// syncCatalog reloads the in-memory catalog from the database after a
// mutation so validation and the chat engine see the change without a
// restart.
func (h *AdminHandler) syncCatalog(c *gin.Context) {
	languages, err := h.db.GetAllLanguages(c.Request.Context())
	if err != nil {
		return
	}

	infos := make([]language.Info, 0, len(languages))
	for i := range languages {
		infos = append(infos, languageToInfo(&languages[i]))
	}
	h.languages.Replace(infos)
}

// ListDoctors returns the full directory, deactivated profiles included.
func (h *AdminHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.db.GetAllDoctors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list doctors"})
		return
	}

	views := make([]DoctorView, 0, len(doctors))
	for i := range doctors {
		views = append(views, doctorToView(&doctors[i]))
	}

	c.JSON(http.StatusOK, gin.H{"doctors": views})
}

// CreateDoctorRequest adds a doctor to the directory.
type CreateDoctorRequest struct {
	FullName  string   `json:"full_name" binding:"required"`
	Specialty string   `json:"specialty" binding:"required"`
	Bio       string   `json:"bio"`
	Languages []string `json:"languages"`
	IsActive  *bool    `json:"is_active"`
}

func (h *AdminHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name and specialty are required"})
		return
	}

	languages := req.Languages
	if len(languages) == 0 {
		languages = []string{language.BaseLanguage}
	}

	var bio *string
	if s := strings.TrimSpace(req.Bio); s != "" {
		bio = &s
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	doc := &db.Doctor{
		FullName:  req.FullName,
		Specialty: req.Specialty,
		Bio:       bio,
		Languages: languages,
		IsActive:  active,
	}
	if err := h.db.CreateDoctor(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create doctor"})
		return
	}

	c.JSON(http.StatusCreated, doctorToView(doc))
}

// UpdateDoctorRequest edits directory fields. Omitted fields keep their
// current value; is_active false deactivates the profile.
type UpdateDoctorRequest struct {
	FullName  string   `json:"full_name"`
	Specialty string   `json:"specialty"`
	Bio       string   `json:"bio"`
	Languages []string `json:"languages"`
	IsActive  *bool    `json:"is_active"`
}

func (h *AdminHandler) UpdateDoctor(c *gin.Context) {
	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.db.UpdateDoctor(c.Request.Context(), c.Param("id"),
		req.FullName, req.Specialty, req.Bio, req.Languages, req.IsActive)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update doctor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor updated"})
}

// Stats returns aggregate usage counts for the dashboard.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.db.GetUsageStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
