package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"

	"github.com/simplymedi/simplymedi-be/internal/db"
	"github.com/simplymedi/simplymedi-be/internal/privacy"
	"github.com/simplymedi/simplymedi-be/internal/translation"
	"github.com/simplymedi/simplymedi-be/pkg/rag"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("file type not supported")
	ErrNoText          = errors.New("no extractable text in this file type")
	ErrNotSimplified   = errors.New("report has not been simplified yet")
	ErrFontUnavailable = errors.New("pdf font not available")
)

// DefaultMaxUploadBytes caps uploads at 10 MiB.
const DefaultMaxUploadBytes = 10 << 20

// allowedMimeTypes maps accepted upload types to a canonical extension used
// when the original filename has none.
var allowedMimeTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"text/plain":      ".txt",
	"text/markdown":   ".md",
}

// defaultFontPaths are the usual locations of a Unicode-capable TTF font on
// the images we deploy to.
var defaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
}

// Config holds report storage settings.
type Config struct {
	UploadDir      string
	MaxUploadBytes int64    // default DefaultMaxUploadBytes
	FontPaths      []string // candidate TTF files for PDF export
}

// Service owns the report lifecycle: upload and storage, type
// classification, RAG indexing, simplification, export, and deletion.
type Service struct {
	db         *db.DB
	provider   rag.Client
	translator *translation.Service
	logger     zerolog.Logger
	uploadDir  string
	maxBytes   int64
	fontPaths  []string
}

// NewService creates the report service and ensures the upload directory
// exists.
func NewService(database *db.DB, provider rag.Client, translator *translation.Service, cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(cfg.FontPaths) == 0 {
		cfg.FontPaths = defaultFontPaths
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &Service{
		db:         database,
		provider:   provider,
		translator: translator,
		logger:     logger.With().Str("component", "reports").Logger(),
		uploadDir:  cfg.UploadDir,
		maxBytes:   cfg.MaxUploadBytes,
		fontPaths:  cfg.FontPaths,
	}, nil
}

// UploadInput describes an incoming report file.
type UploadInput struct {
	UserID   string
	Title    string
	Filename string
	MimeType string
	Size     int64
	Language string
	File     io.Reader
}

// Upload validates and stores a report file, records it, and indexes
// text-bearing uploads into the RAG service. Indexing failure never fails
// the upload.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*db.Report, error) {
	mime := normalizeMime(in.MimeType)
	canonicalExt, ok := allowedMimeTypes[mime]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if in.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if ext == "" {
		ext = canonicalExt
	}
	storedName := uuid.New().String() + ext

	written, err := s.writeFile(storedName, in.File)
	if err != nil {
		return nil, err
	}

	rep := &db.Report{
		UserID:           in.UserID,
		Title:            in.Title,
		OriginalFilename: in.Filename,
		StoredName:       storedName,
		MimeType:         mime,
		SizeBytes:        written,
		Language:         in.Language,
		ReportType:       ClassifyType(in.Filename, in.Title),
		Status:           db.ReportUploaded,
	}
	if err := s.db.CreateReport(ctx, rep); err != nil {
		os.Remove(s.FilePath(storedName))
		return nil, err
	}

	if isTextMime(mime) {
		s.ingest(ctx, rep)
	}
	return rep, nil
}

func (s *Service) writeFile(storedName string, src io.Reader) (int64, error) {
	path := s.FilePath(storedName)
	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to store file: %w", err)
	}

	// The size header can lie, so the cap is enforced on the actual bytes.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to store file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(path)
		return 0, ErrFileTooLarge
	}
	return written, nil
}

// ingest pushes redacted report text into the RAG index so chat answers can
// reference it. Best effort only.
func (s *Service) ingest(ctx context.Context, rep *db.Report) {
	text, err := s.extractText(rep)
	if err != nil || strings.TrimSpace(text) == "" {
		return
	}

	_, err = s.provider.Ingest(ctx, rag.IngestRequest{
		DocumentID: rep.ID,
		UserID:     rep.UserID,
		Title:      rep.Title,
		Text:       privacy.RedactSensitiveData(text),
		Language:   rep.Language,
		Metadata:   map[string]string{"report_type": rep.ReportType},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("report_id", rep.ID).Msg("report indexing failed, continuing without it")
	}
}

// Get returns a report owned by the user.
func (s *Service) Get(ctx context.Context, id, userID string) (*db.Report, error) {
	return s.db.GetReportByID(ctx, id, userID)
}

// List returns the user's reports, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]db.Report, error) {
	return s.db.GetUserReports(ctx, userID, limit, offset)
}

// FilePath resolves a stored name to its location on disk.
func (s *Service) FilePath(storedName string) string {
	return filepath.Join(s.uploadDir, storedName)
}

// SimplifyOutcome is the result of a simplification attempt. When the
// provider cannot help, Text carries the raw extracted report text and
// UsedFallback is set; nothing is persisted in that case.
type SimplifyOutcome struct {
	Text         string
	Language     string
	UsedFallback bool
}

// Simplify extracts the report's text, redacts it, and asks the provider for
// a plain-language explanation in the target language. Success persists the
// explanation on the report.
func (s *Service) Simplify(ctx context.Context, id, userID, targetLanguage, quality string) (*SimplifyOutcome, error) {
	rep, err := s.db.GetReportByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	text, err := s.extractText(rep)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	if targetLanguage == "" {
		targetLanguage = rep.Language
	}

	result := s.translator.Simplify(ctx, privacy.RedactSensitiveData(text), targetLanguage, quality)
	if result.UsedFallback {
		return &SimplifyOutcome{Text: text, Language: targetLanguage, UsedFallback: true}, nil
	}

	if err := s.db.SetReportSimplified(ctx, id, userID, result.Text, targetLanguage); err != nil {
		return nil, err
	}
	return &SimplifyOutcome{Text: result.Text, Language: targetLanguage}, nil
}

// extractText reads the report body for text-bearing MIME types.
func (s *Service) extractText(rep *db.Report) (string, error) {
	if !isTextMime(rep.MimeType) {
		return "", ErrNoText
	}
	raw, err := os.ReadFile(s.FilePath(rep.StoredName))
	if err != nil {
		return "", fmt.Errorf("failed to read report file: %w", err)
	}
	return string(raw), nil
}

// Delete removes the report row and its file. A missing file is not an
// error; the row is the source of truth.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	storedName, err := s.db.DeleteReport(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := os.Remove(s.FilePath(storedName)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("report_id", id).Msg("failed to remove report file")
	}
	return nil
}

// ExportPDF renders the simplified explanation as a PDF and returns the
// bytes with a download filename.
func (s *Service) ExportPDF(ctx context.Context, id, userID string) ([]byte, string, error) {
	rep, err := s.db.GetReportByID(ctx, id, userID)
	if err != nil {
		return nil, "", err
	}
	if rep.Status != db.ReportSimplified || rep.SimplifiedText == nil {
		return nil, "", ErrNotSimplified
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	fontLoaded := false
	var fontErr error
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont("body", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		s.logger.Error().Err(fontErr).Msg("no usable TTF font for PDF export")
		return nil, "", ErrFontUnavailable
	}

	if err := pdf.SetFont("body", "", 18); err != nil {
		return nil, "", err
	}
	pdf.SetXY(40, 40)
	pdf.Cell(nil, rep.Title)
	pdf.Br(26)

	if err := pdf.SetFont("body", "", 10); err != nil {
		return nil, "", err
	}
	pdf.SetX(40)
	pdf.Cell(nil, fmt.Sprintf("Original file: %s", rep.OriginalFilename))
	pdf.Br(14)
	pdf.SetX(40)
	lang := rep.Language
	if rep.SimplifiedLanguage != nil {
		lang = *rep.SimplifiedLanguage
	}
	pdf.Cell(nil, fmt.Sprintf("Explanation language: %s", lang))
	pdf.Br(14)
	pdf.SetX(40)
	pdf.Cell(nil, fmt.Sprintf("Generated: %s", time.Now().Format("02 Jan 2006 15:04")))
	pdf.Br(24)

	if err := pdf.SetFont("body", "", 12); err != nil {
		return nil, "", err
	}
	for _, paragraph := range strings.Split(*rep.SimplifiedText, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			pdf.Br(8)
			continue
		}
		lines, _ := pdf.SplitText(paragraph, 515)
		for _, line := range lines {
			if pdf.GetY() > 780 {
				pdf.AddPage()
				pdf.SetXY(40, 40)
			}
			pdf.SetX(40)
			pdf.Cell(nil, line)
			pdf.Br(16)
		}
		pdf.Br(6)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("simplified_%s.pdf", rep.ID), nil
}

func isTextMime(mime string) bool {
	return strings.HasPrefix(mime, "text/")
}

// normalizeMime strips parameters like "; charset=utf-8".
func normalizeMime(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}
