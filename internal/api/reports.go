package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simplymedi/simplymedi-be/internal/api/middleware"
	"github.com/simplymedi/simplymedi-be/internal/db"
	"github.com/simplymedi/simplymedi-be/internal/language"
	"github.com/simplymedi/simplymedi-be/internal/reports"
)

const (
	defaultReportPageSize = 20
	maxReportPageSize     = 100
)

// ReportView is the report shape returned to clients. The stored file name
// stays server-side.
type ReportView struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	OriginalFilename   string    `json:"original_filename"`
	MimeType           string    `json:"mime_type"`
	SizeBytes          int64     `json:"size_bytes"`
	Language           string    `json:"language"`
	ReportType         string    `json:"report_type"`
	Status             string    `json:"status"`
	SimplifiedText     *string   `json:"simplified_text,omitempty"`
	SimplifiedLanguage *string   `json:"simplified_language,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func reportToView(rep *db.Report) ReportView {
	return ReportView{
		ID:                 rep.ID,
		Title:              rep.Title,
		OriginalFilename:   rep.OriginalFilename,
		MimeType:           rep.MimeType,
		SizeBytes:          rep.SizeBytes,
		Language:           rep.Language,
		ReportType:         rep.ReportType,
		Status:             rep.Status,
		SimplifiedText:     rep.SimplifiedText,
		SimplifiedLanguage: rep.SimplifiedLanguage,
		CreatedAt:          rep.CreatedAt,
		UpdatedAt:          rep.UpdatedAt,
	}
}

// ReportsHandler serves the medical report lifecycle endpoints.
type ReportsHandler struct {
	service   *reports.Service
	languages *language.Manager
}

func NewReportsHandler(service *reports.Service, languages *language.Manager) *ReportsHandler {
	return &ReportsHandler{service: service, languages: languages}
}

// Upload accepts a multipart report file. Title defaults to the filename and
// an unknown language falls back to the base language.
func (h *ReportsHandler) Upload(c *gin.Context) {
	userID := middleware.GetUserID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = header.Filename
	}
	lang := h.languages.Validate(c.PostForm("language")).Code

	rep, err := h.service.Upload(c.Request.Context(), reports.UploadInput{
		UserID:   userID,
		Title:    title,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Language: lang,
		File:     file,
	})
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrUnsupportedType):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "This file type is not supported"})
		case errors.Is(err, reports.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store report"})
		}
		return
	}

	c.JSON(http.StatusCreated, reportToView(rep))
}

// List returns the caller's reports, newest first.
func (h *ReportsHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultReportPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultReportPageSize
	}
	if limit > maxReportPageSize {
		limit = maxReportPageSize
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	list, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reports"})
		return
	}

	views := make([]ReportView, 0, len(list))
	for i := range list {
		views = append(views, reportToView(&list[i]))
	}

	c.JSON(http.StatusOK, gin.H{"reports": views})
}

// Get returns one report owned by the caller.
func (h *ReportsHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rep, err := h.service.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report"})
		return
	}

	c.JSON(http.StatusOK, reportToView(rep))
}

// Download streams the original uploaded file.
func (h *ReportsHandler) Download(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rep, err := h.service.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report"})
		return
	}

	c.FileAttachment(h.service.FilePath(rep.StoredName), rep.OriginalFilename)
}

// Delete removes a report and its stored file.
func (h *ReportsHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

type SimplifyReportRequest struct {
	TargetLanguage string `json:"target_language"`
	Quality        string `json:"quality"`
}

// Simplify produces a plain-language explanation of the report. Provider
// failure still answers 200 with the raw text and used_fallback set.
func (h *ReportsHandler) Simplify(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req SimplifyReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	outcome, err := h.service.Simplify(c.Request.Context(), c.Param("id"), userID, req.TargetLanguage, req.Quality)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		case errors.Is(err, reports.ErrNoText):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This report has no extractable text"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to simplify report"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":          outcome.Text,
		"language":      outcome.Language,
		"used_fallback": outcome.UsedFallback,
	})
}

// Export renders the simplified explanation as a PDF download.
func (h *ReportsHandler) Export(c *gin.Context) {
	userID := middleware.GetUserID(c)

	data, filename, err := h.service.ExportPDF(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		case errors.Is(err, reports.ErrNotSimplified):
			c.JSON(http.StatusConflict, gin.H{"error": "Simplify the report before exporting it"})
		case errors.Is(err, reports.ErrFontUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PDF export is temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
