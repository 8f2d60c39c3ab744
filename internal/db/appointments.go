package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Appointment statuses
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// CreateAppointment books an appointment slot
func (db *DB) CreateAppointment(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (user_id, doctor_id, scheduled_at, duration_minutes, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRowContext(ctx, query,
		appt.UserID, appt.DoctorID, appt.ScheduledAt, appt.DurationMinutes, appt.Reason, appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetAppointmentByID retrieves an appointment owned by the given user
func (db *DB) GetAppointmentByID(ctx context.Context, id, userID string) (*Appointment, error) {
	query := `
		SELECT id, user_id, doctor_id, scheduled_at, duration_minutes, reason, status, created_at, updated_at
		FROM appointments
		WHERE id = $1 AND user_id = $2
	`

	appt := &Appointment{}
	err := db.QueryRowContext(ctx, query, id, userID).Scan(
		&appt.ID, &appt.UserID, &appt.DoctorID, &appt.ScheduledAt,
		&appt.DurationMinutes, &appt.Reason, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appt, nil
}

// GetUserAppointments returns a user's appointments, soonest first.
// When upcomingOnly is set, past appointments are excluded.
func (db *DB) GetUserAppointments(ctx context.Context, userID string, upcomingOnly bool) ([]Appointment, error) {
	query := `
		SELECT id, user_id, doctor_id, scheduled_at, duration_minutes, reason, status, created_at, updated_at
		FROM appointments
		WHERE user_id = $1
		  AND ($2 = false OR scheduled_at >= NOW())
		ORDER BY scheduled_at
	`

	rows, err := db.QueryContext(ctx, query, userID, upcomingOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		var appt Appointment
		err := rows.Scan(&appt.ID, &appt.UserID, &appt.DoctorID, &appt.ScheduledAt,
			&appt.DurationMinutes, &appt.Reason, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, appt)
	}
	return appointments, rows.Err()
}

// UpdateAppointment reschedules an appointment and/or changes its status.
// A nil scheduledAt keeps the current slot, an empty status keeps the
// current status.
func (db *DB) UpdateAppointment(ctx context.Context, id, userID string, scheduledAt *time.Time, status string) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET scheduled_at = COALESCE($3, scheduled_at),
		    status = COALESCE(NULLIF($4, ''), status),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, doctor_id, scheduled_at, duration_minutes, reason, status, created_at, updated_at
	`

	appt := &Appointment{}
	err := db.QueryRowContext(ctx, query, id, userID, scheduledAt, status).Scan(
		&appt.ID, &appt.UserID, &appt.DoctorID, &appt.ScheduledAt,
		&appt.DurationMinutes, &appt.Reason, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appt, nil
}

// HasDoctorConflict reports whether the doctor already has a scheduled
// appointment overlapping [start, start+duration). excludeID skips one
// appointment, for reschedule checks against itself.
func (db *DB) HasDoctorConflict(ctx context.Context, doctorID string, start time.Time, durationMinutes int, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND status = 'scheduled'
			  AND ($2 = '' OR id::text <> $2)
			  AND scheduled_at < $3::timestamptz + make_interval(mins => $4)
			  AND scheduled_at + make_interval(mins => duration_minutes) > $3::timestamptz
		)
	`

	var conflict bool
	err := db.QueryRowContext(ctx, query, doctorID, excludeID, start, durationMinutes).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment conflict: %w", err)
	}
	return conflict, nil
}
