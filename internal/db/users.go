package db

import (
	"context"
	"database/sql"
	"fmt"
)

const userColumns = `id, email, password_hash, display_name, google_id, preferred_language, language_preferences, is_admin, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.GoogleID,
		&user.Language, &user.Preferences, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateUser creates a new user with an email/password credential
func (db *DB) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, display_name, preferred_language)
		VALUES ($1, $2, $3, $4)
		RETURNING id, language_preferences, created_at, updated_at
	`

	err := db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Language,
	).Scan(&user.ID, &user.Preferences, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// CreateOAuthUser creates a user from a Google profile (no password)
func (db *DB) CreateOAuthUser(ctx context.Context, email, name, googleID string) (*User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name, google_id)
		VALUES ($1, '', $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(db.QueryRowContext(ctx, query, email, name, googleID))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves a user by ID
func (db *DB) GetUserByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.QueryRowContext(ctx, query, id))
}

// GetUserByGoogleID retrieves a user by linked Google account
func (db *DB) GetUserByGoogleID(ctx context.Context, googleID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(db.QueryRowContext(ctx, query, googleID))
}

// LinkGoogleID attaches a Google account to an existing user
func (db *DB) LinkGoogleID(ctx context.Context, userID, googleID string) error {
	query := `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := db.ExecContext(ctx, query, userID, googleID)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLanguagePreferences shallow-merges a JSON patch into the user's
// stored preference object and optionally moves the preferred language.
// The || operator gives top-level (shallow) merge semantics in Postgres.
func (db *DB) UpdateLanguagePreferences(ctx context.Context, userID string, patch []byte, preferredLanguage *string) (*User, error) {
	query := `
		UPDATE users
		SET language_preferences = language_preferences || $2::jsonb,
		    preferred_language = COALESCE($3, preferred_language),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(db.QueryRowContext(ctx, query, userID, patch, preferredLanguage))
}

// UsageStats aggregates counts for the admin dashboard
type UsageStats struct {
	TotalUsers        int            `json:"total_users"`
	TotalReports      int            `json:"total_reports"`
	SimplifiedReports int            `json:"simplified_reports"`
	TotalAppointments int            `json:"total_appointments"`
	UsersByLanguage   map[string]int `json:"users_by_language"`
}

// GetUsageStats returns aggregate usage counts
func (db *DB) GetUsageStats(ctx context.Context) (*UsageStats, error) {
	stats := &UsageStats{UsersByLanguage: make(map[string]int)}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'simplified') FROM reports`).
		Scan(&stats.TotalReports, &stats.SimplifiedReports); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&stats.TotalAppointments); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT preferred_language, COUNT(*)
		FROM users
		GROUP BY preferred_language
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by language: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lang string
		var count int
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("failed to scan language count: %w", err)
		}
		stats.UsersByLanguage[lang] = count
	}

	return stats, nil
}
