package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/simplymedi/simplymedi-be/internal/db"
)

var (
	ErrPastTime       = errors.New("appointment time is in the past")
	ErrConflict       = errors.New("doctor is already booked for this slot")
	ErrDoctorInactive = errors.New("doctor is not accepting appointments")
	ErrCancelled      = errors.New("appointment is cancelled")
)

// DefaultDurationMinutes is the slot length when the caller does not pick one.
const DefaultDurationMinutes = 30

// Service enforces the booking rules in front of the appointment tables.
type Service struct {
	db *db.DB
}

// NewService creates the appointment service.
func NewService(database *db.DB) *Service {
	return &Service{db: database}
}

// BookInput describes a booking request.
type BookInput struct {
	UserID          string
	DoctorID        string
	ScheduledAt     time.Time
	DurationMinutes int
	Reason          string
}

// Book creates an appointment after checking the time is in the future, the
// doctor exists and is active, and the slot does not overlap an existing one.
func (s *Service) Book(ctx context.Context, in BookInput) (*db.Appointment, error) {
	if !in.ScheduledAt.After(time.Now()) {
		return nil, ErrPastTime
	}
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = DefaultDurationMinutes
	}

	doctor, err := s.db.GetDoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		return nil, ErrDoctorInactive
	}

	conflict, err := s.db.HasDoctorConflict(ctx, in.DoctorID, in.ScheduledAt, in.DurationMinutes, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrConflict
	}

	appt := &db.Appointment{
		UserID:          in.UserID,
		DoctorID:        in.DoctorID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Status:          db.AppointmentScheduled,
	}
	if in.Reason != "" {
		appt.Reason = &in.Reason
	}
	if err := s.db.CreateAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Get returns an appointment owned by the user.
func (s *Service) Get(ctx context.Context, id, userID string) (*db.Appointment, error) {
	return s.db.GetAppointmentByID(ctx, id, userID)
}

// List returns the user's appointments, soonest first.
func (s *Service) List(ctx context.Context, userID string, upcomingOnly bool) ([]db.Appointment, error) {
	return s.db.GetUserAppointments(ctx, userID, upcomingOnly)
}

// Reschedule moves an appointment to a new future slot, re-running the
// conflict check against the doctor's other appointments.
func (s *Service) Reschedule(ctx context.Context, id, userID string, newTime time.Time) (*db.Appointment, error) {
	if !newTime.After(time.Now()) {
		return nil, ErrPastTime
	}

	appt, err := s.db.GetAppointmentByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if appt.Status == db.AppointmentCancelled {
		return nil, ErrCancelled
	}

	conflict, err := s.db.HasDoctorConflict(ctx, appt.DoctorID, newTime, appt.DurationMinutes, appt.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrConflict
	}

	return s.db.UpdateAppointment(ctx, id, userID, &newTime, "")
}

// Cancel marks an appointment cancelled. Cancelling twice is a no-op.
func (s *Service) Cancel(ctx context.Context, id, userID string) (*db.Appointment, error) {
	return s.db.UpdateAppointment(ctx, id, userID, nil, db.AppointmentCancelled)
}
