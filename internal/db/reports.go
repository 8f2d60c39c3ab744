package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Report statuses
const (
	ReportUploaded   = "uploaded"
	ReportSimplified = "simplified"
)

const reportColumns = `id, user_id, title, original_filename, stored_name, mime_type, size_bytes, language, report_type, status, simplified_text, simplified_language, created_at, updated_at`

func scanReport(row *sql.Row) (*Report, error) {
	rep := &Report{}
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Title, &rep.OriginalFilename, &rep.StoredName,
		&rep.MimeType, &rep.SizeBytes, &rep.Language, &rep.ReportType, &rep.Status,
		&rep.SimplifiedText, &rep.SimplifiedLanguage, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

// CreateReport records an uploaded report file
func (db *DB) CreateReport(ctx context.Context, rep *Report) error {
	query := `
		INSERT INTO reports (user_id, title, original_filename, stored_name, mime_type, size_bytes, language, report_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRowContext(ctx, query,
		rep.UserID, rep.Title, rep.OriginalFilename, rep.StoredName,
		rep.MimeType, rep.SizeBytes, rep.Language, rep.ReportType, rep.Status,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetReportByID retrieves a report owned by the given user
func (db *DB) GetReportByID(ctx context.Context, id, userID string) (*Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1 AND user_id = $2`
	return scanReport(db.QueryRowContext(ctx, query, id, userID))
}

// GetUserReports returns a user's reports, newest first
func (db *DB) GetUserReports(ctx context.Context, userID string, limit, offset int) ([]Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var rep Report
		err := rows.Scan(
			&rep.ID, &rep.UserID, &rep.Title, &rep.OriginalFilename, &rep.StoredName,
			&rep.MimeType, &rep.SizeBytes, &rep.Language, &rep.ReportType, &rep.Status,
			&rep.SimplifiedText, &rep.SimplifiedLanguage, &rep.CreatedAt, &rep.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// SetReportSimplified stores the simplified text for a report and marks
// it simplified
func (db *DB) SetReportSimplified(ctx context.Context, id, userID, simplifiedText, language string) error {
	query := `
		UPDATE reports
		SET simplified_text = $3,
		    simplified_language = $4,
		    status = 'simplified',
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	result, err := db.ExecContext(ctx, query, id, userID, simplifiedText, language)
	if err != nil {
		return fmt.Errorf("failed to store simplified report: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReport removes a report owned by the given user and returns the
// stored file name so the caller can remove the file from disk
func (db *DB) DeleteReport(ctx context.Context, id, userID string) (string, error) {
	query := `DELETE FROM reports WHERE id = $1 AND user_id = $2 RETURNING stored_name`

	var storedName string
	err := db.QueryRowContext(ctx, query, id, userID).Scan(&storedName)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete report: %w", err)
	}
	return storedName, nil
}
