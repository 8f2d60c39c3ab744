package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simplymedi/simplymedi-be/internal/api/middleware"
	"github.com/simplymedi/simplymedi-be/internal/appointments"
	"github.com/simplymedi/simplymedi-be/internal/db"
)

// DoctorView is the doctor shape returned to clients.
type DoctorView struct {
	ID        string   `json:"id"`
	FullName  string   `json:"full_name"`
	Specialty string   `json:"specialty"`
	Bio       *string  `json:"bio,omitempty"`
	Languages []string `json:"languages"`
	IsActive  bool     `json:"is_active"`
}

func doctorToView(doc *db.Doctor) DoctorView {
	return DoctorView{
		ID:        doc.ID,
		FullName:  doc.FullName,
		Specialty: doc.Specialty,
		Bio:       doc.Bio,
		Languages: doc.Languages,
		IsActive:  doc.IsActive,
	}
}

// AppointmentView is the appointment shape returned to clients.
type AppointmentView struct {
	ID              string    `json:"id"`
	DoctorID        string    `json:"doctor_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          *string   `json:"reason,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func appointmentToView(appt *db.Appointment) AppointmentView {
	return AppointmentView{
		ID:              appt.ID,
		DoctorID:        appt.DoctorID,
		ScheduledAt:     appt.ScheduledAt,
		DurationMinutes: appt.DurationMinutes,
		Reason:          appt.Reason,
		Status:          appt.Status,
		CreatedAt:       appt.CreatedAt,
	}
}

// AppointmentsHandler serves the doctor roster and the booking endpoints.
type AppointmentsHandler struct {
	db      *db.DB
	service *appointments.Service
}

func NewAppointmentsHandler(database *db.DB, service *appointments.Service) *AppointmentsHandler {
	return &AppointmentsHandler{db: database, service: service}
}

// ListDoctors returns the active roster, optionally filtered by specialty
// or spoken language.
func (h *AppointmentsHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.db.ListDoctors(c.Request.Context(), db.DoctorFilter{
		Specialty: c.Query("specialty"),
		Language:  c.Query("language"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load doctors"})
		return
	}

	views := make([]DoctorView, 0, len(doctors))
	for i := range doctors {
		views = append(views, doctorToView(&doctors[i]))
	}

	c.JSON(http.StatusOK, gin.H{"doctors": views})
}

type BookAppointmentRequest struct {
	DoctorID        string    `json:"doctor_id" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason"`
}

// Book creates an appointment with a doctor.
func (h *AppointmentsHandler) Book(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctor_id and scheduled_at are required"})
		return
	}

	appt, err := h.service.Book(c.Request.Context(), appointments.BookInput{
		UserID:          userID,
		DoctorID:        req.DoctorID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrPastTime):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment time must be in the future"})
		case errors.Is(err, appointments.ErrDoctorInactive):
			c.JSON(http.StatusBadRequest, gin.H{"error": "This doctor is not accepting appointments"})
		case errors.Is(err, appointments.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "The doctor is already booked for this slot"})
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book appointment"})
		}
		return
	}

	c.JSON(http.StatusCreated, appointmentToView(appt))
}

// List returns the caller's appointments, soonest first. ?upcoming=true
// restricts to future scheduled slots.
func (h *AppointmentsHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	upcomingOnly := c.Query("upcoming") == "true"

	list, err := h.service.List(c.Request.Context(), userID, upcomingOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load appointments"})
		return
	}

	views := make([]AppointmentView, 0, len(list))
	for i := range list {
		views = append(views, appointmentToView(&list[i]))
	}

	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

type UpdateAppointmentRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
	Status      string     `json:"status"`
}

// Update reschedules or cancels an appointment. A body with
// status "cancelled" cancels; a scheduled_at reschedules.
func (h *AppointmentsHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var appt *db.Appointment
	var err error
	switch {
	case req.Status == db.AppointmentCancelled:
		appt, err = h.service.Cancel(c.Request.Context(), c.Param("id"), userID)
	case req.Status != "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only cancellation is supported via status"})
		return
	case req.ScheduledAt != nil:
		appt, err = h.service.Reschedule(c.Request.Context(), c.Param("id"), userID, *req.ScheduledAt)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide scheduled_at or status"})
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, appointments.ErrPastTime):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment time must be in the future"})
		case errors.Is(err, appointments.ErrCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Cancelled appointments cannot be rescheduled"})
		case errors.Is(err, appointments.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "The doctor is already booked for this slot"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		}
		return
	}

	c.JSON(http.StatusOK, appointmentToView(appt))
}
