package appointments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/simplymedi/simplymedi-be/internal/db"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewService(&db.DB{DB: conn}), mock
}

func doctorRow(active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "full_name", "specialty", "bio", "languages", "is_active", "created_at",
	}).AddRow("d1", "Dr. Priya Sharma", "General Medicine", nil, "{english,hindi}", active, time.Now())
}

func appointmentRow(id, status string, at time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "doctor_id", "scheduled_at", "duration_minutes",
		"reason", "status", "created_at", "updated_at",
	}).AddRow(id, "u1", "d1", at, 30, nil, status, now, now)
}

func existsRow(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}

func TestService_Book(t *testing.T) {
	svc, mock := newTestService(t)
	at := time.Now().Add(48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM doctors WHERE id = \\$1").
		WithArgs("d1").
		WillReturnRows(doctorRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("d1", "", at, 30).
		WillReturnRows(existsRow(false))
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs("u1", "d1", at, 30, "routine checkup", db.AppointmentScheduled).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("a1", time.Now(), time.Now()))

	appt, err := svc.Book(context.Background(), BookInput{
		UserID:          "u1",
		DoctorID:        "d1",
		ScheduledAt:     at,
		DurationMinutes: 30,
		Reason:          "routine checkup",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.ID != "a1" || appt.Status != db.AppointmentScheduled {
		t.Errorf("appointment = %+v", appt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestService_Book_PastTime(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Book(context.Background(), BookInput{
		UserID:      "u1",
		DoctorID:    "d1",
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	if !errors.Is(err, ErrPastTime) {
		t.Errorf("err = %v, want ErrPastTime", err)
	}
}

func TestService_Book_SlotConflict(t *testing.T) {
	svc, mock := newTestService(t)
	at := time.Now().Add(48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM doctors").
		WillReturnRows(doctorRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(existsRow(true))

	_, err := svc.Book(context.Background(), BookInput{
		UserID:      "u1",
		DoctorID:    "d1",
		ScheduledAt: at,
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestService_Book_InactiveDoctor(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM doctors").
		WillReturnRows(doctorRow(false))

	_, err := svc.Book(context.Background(), BookInput{
		UserID:      "u1",
		DoctorID:    "d1",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, ErrDoctorInactive) {
		t.Errorf("err = %v, want ErrDoctorInactive", err)
	}
}

func TestService_Book_UnknownDoctor(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM doctors").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Book(context.Background(), BookInput{
		UserID:      "u1",
		DoctorID:    "missing",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("err = %v, want db.ErrNotFound", err)
	}
}

func TestService_Book_DefaultDuration(t *testing.T) {
	svc, mock := newTestService(t)
	at := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM doctors").
		WillReturnRows(doctorRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("d1", "", at, DefaultDurationMinutes).
		WillReturnRows(existsRow(false))
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs("u1", "d1", at, DefaultDurationMinutes, nil, db.AppointmentScheduled).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("a1", time.Now(), time.Now()))

	appt, err := svc.Book(context.Background(), BookInput{
		UserID:      "u1",
		DoctorID:    "d1",
		ScheduledAt: at,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.DurationMinutes != DefaultDurationMinutes {
		t.Errorf("DurationMinutes = %d, want %d", appt.DurationMinutes, DefaultDurationMinutes)
	}
}

func TestService_Reschedule(t *testing.T) {
	svc, mock := newTestService(t)
	oldTime := time.Now().Add(24 * time.Hour)
	newTime := time.Now().Add(72 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("a1", "u1").
		WillReturnRows(appointmentRow("a1", db.AppointmentScheduled, oldTime))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("d1", "a1", newTime, 30).
		WillReturnRows(existsRow(false))
	mock.ExpectQuery("UPDATE appointments").
		WithArgs("a1", "u1", newTime, "").
		WillReturnRows(appointmentRow("a1", db.AppointmentScheduled, newTime))

	appt, err := svc.Reschedule(context.Background(), "a1", "u1", newTime)
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if !appt.ScheduledAt.Equal(newTime) {
		t.Errorf("ScheduledAt = %v, want %v", appt.ScheduledAt, newTime)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestService_Reschedule_Conflict(t *testing.T) {
	svc, mock := newTestService(t)
	newTime := time.Now().Add(72 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WillReturnRows(appointmentRow("a1", db.AppointmentScheduled, time.Now().Add(24*time.Hour)))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(existsRow(true))

	_, err := svc.Reschedule(context.Background(), "a1", "u1", newTime)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestService_Reschedule_CancelledAppointment(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WillReturnRows(appointmentRow("a1", db.AppointmentCancelled, time.Now().Add(24*time.Hour)))

	_, err := svc.Reschedule(context.Background(), "a1", "u1", time.Now().Add(48*time.Hour))
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
}

func TestService_Cancel(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("UPDATE appointments").
		WithArgs("a1", "u1", nil, db.AppointmentCancelled).
		WillReturnRows(appointmentRow("a1", db.AppointmentCancelled, time.Now().Add(24*time.Hour)))

	appt, err := svc.Cancel(context.Background(), "a1", "u1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if appt.Status != db.AppointmentCancelled {
		t.Errorf("Status = %q", appt.Status)
	}
}

func TestService_Cancel_OtherUsersAppointment(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("UPDATE appointments").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Cancel(context.Background(), "a1", "u2")
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("err = %v, want db.ErrNotFound", err)
	}
}
