package db

import (
	"context"
	"fmt"
)

// GetEnabledLanguages returns all languages available for selection
func (db *DB) GetEnabledLanguages(ctx context.Context) ([]Language, error) {
	return db.queryLanguages(ctx, `
		SELECT code, name, native_name, is_rtl, is_enabled, created_at
		FROM languages
		WHERE is_enabled = true
		ORDER BY name
	`)
}

// GetAllLanguages returns every language row, enabled or not
func (db *DB) GetAllLanguages(ctx context.Context) ([]Language, error) {
	return db.queryLanguages(ctx, `
		SELECT code, name, native_name, is_rtl, is_enabled, created_at
		FROM languages
		ORDER BY name
	`)
}

func (db *DB) queryLanguages(ctx context.Context, query string) ([]Language, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query languages: %w", err)
	}
	defer rows.Close()

	var languages []Language
	for rows.Next() {
		var lang Language
		err := rows.Scan(&lang.Code, &lang.Name, &lang.NativeName, &lang.IsRTL, &lang.IsEnabled, &lang.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		languages = append(languages, lang)
	}
	return languages, rows.Err()
}

// CreateLanguage adds a new language to the catalog
func (db *DB) CreateLanguage(ctx context.Context, lang *Language) error {
	query := `
		INSERT INTO languages (code, name, native_name, is_rtl, is_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := db.QueryRowContext(ctx, query,
		lang.Code, lang.Name, lang.NativeName, lang.IsRTL, lang.IsEnabled,
	).Scan(&lang.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create language: %w", err)
	}
	return nil
}

// UpdateLanguage updates catalog fields for a language. Empty strings
// leave the existing value in place.
func (db *DB) UpdateLanguage(ctx context.Context, code, name, nativeName string, isRTL, isEnabled *bool) error {
	query := `
		UPDATE languages
		SET name = COALESCE(NULLIF($2, ''), name),
		    native_name = COALESCE(NULLIF($3, ''), native_name),
		    is_rtl = COALESCE($4, is_rtl),
		    is_enabled = COALESCE($5, is_enabled)
		WHERE code = $1
	`

	result, err := db.ExecContext(ctx, query, code, name, nativeName, isRTL, isEnabled)
	if err != nil {
		return fmt.Errorf("failed to update language: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLanguage removes a language from the catalog
func (db *DB) DeleteLanguage(ctx context.Context, code string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM languages WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete language: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
