package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// DoctorFilter narrows the doctor listing. Zero values match everything.
type DoctorFilter struct {
	Specialty string
	Language  string
}

// ListDoctors returns active doctors matching the filter
func (db *DB) ListDoctors(ctx context.Context, filter DoctorFilter) ([]Doctor, error) {
	return db.queryDoctors(ctx, `
		SELECT id, full_name, specialty, bio, languages, is_active, created_at
		FROM doctors
		WHERE is_active = true
		  AND ($1 = '' OR specialty = $1)
		  AND ($2 = '' OR $2 = ANY(languages))
		ORDER BY full_name
	`, filter.Specialty, filter.Language)
}

// GetAllDoctors returns every doctor, deactivated profiles included
func (db *DB) GetAllDoctors(ctx context.Context) ([]Doctor, error) {
	return db.queryDoctors(ctx, `
		SELECT id, full_name, specialty, bio, languages, is_active, created_at
		FROM doctors
		ORDER BY full_name
	`)
}

func (db *DB) queryDoctors(ctx context.Context, query string, args ...interface{}) ([]Doctor, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	var doctors []Doctor
	for rows.Next() {
		var doc Doctor
		err := rows.Scan(&doc.ID, &doc.FullName, &doc.Specialty, &doc.Bio,
			pq.Array(&doc.Languages), &doc.IsActive, &doc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, doc)
	}
	return doctors, rows.Err()
}

// GetDoctorByID retrieves a doctor by ID
func (db *DB) GetDoctorByID(ctx context.Context, id string) (*Doctor, error) {
	query := `
		SELECT id, full_name, specialty, bio, languages, is_active, created_at
		FROM doctors
		WHERE id = $1
	`

	doc := &Doctor{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.FullName, &doc.Specialty, &doc.Bio,
		pq.Array(&doc.Languages), &doc.IsActive, &doc.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doc, nil
}

// CreateDoctor adds a doctor to the directory
func (db *DB) CreateDoctor(ctx context.Context, doc *Doctor) error {
	query := `
		INSERT INTO doctors (full_name, specialty, bio, languages, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := db.QueryRowContext(ctx, query,
		doc.FullName, doc.Specialty, doc.Bio, pq.Array(doc.Languages), doc.IsActive,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

// UpdateDoctor updates directory fields for a doctor. Empty strings and
// nil slices leave the existing value in place.
func (db *DB) UpdateDoctor(ctx context.Context, id, fullName, specialty, bio string, languages []string, isActive *bool) error {
	query := `
		UPDATE doctors
		SET full_name = COALESCE(NULLIF($2, ''), full_name),
		    specialty = COALESCE(NULLIF($3, ''), specialty),
		    bio = COALESCE(NULLIF($4, ''), bio),
		    languages = COALESCE($5, languages),
		    is_active = COALESCE($6, is_active)
		WHERE id = $1
	`

	var langArg interface{}
	if languages != nil {
		langArg = pq.Array(languages)
	}

	result, err := db.ExecContext(ctx, query, id, fullName, specialty, bio, langArg, isActive)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
