package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

// The status vocabulary is a closed five-value enum. Transitions outside
// allowedTransitions are rejected at the service layer.
const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusMissed    AppointmentStatus = "missed"
)

var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusScheduled, AppointmentStatusCancelled},
	AppointmentStatusScheduled: {AppointmentStatusCompleted, AppointmentStatusMissed, AppointmentStatusCancelled},
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusScheduled, AppointmentStatusCancelled,
		AppointmentStatusCompleted, AppointmentStatusMissed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next. Cancelled,
// completed and missed are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID                 uuid.UUID         `db:"id" json:"id"`
	PatientID          uuid.UUID         `db:"patient_id" json:"patient_id"`
	Schedule           time.Time         `db:"schedule" json:"schedule"`
	Status             AppointmentStatus `db:"status" json:"status"`
	PrimaryPhysician   string            `db:"primary_physician" json:"primary_physician"`
	Reason             string            `db:"reason" json:"reason"`
	Note               string            `db:"note" json:"note,omitempty"`
	CancellationReason *string           `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	Archived           bool              `db:"archived" json:"archived"`
	AppointmentCode    string            `db:"appointment_code" json:"appointment_code"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updated_at"`

	// Patient is populated on lookup-by-code reads.
	Patient *Patient `db:"-" json:"patient,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID        uuid.UUID `json:"patient_id" binding:"required"`
	Schedule         time.Time `json:"schedule" binding:"required"`
	PrimaryPhysician string    `json:"primary_physician" binding:"required"`
	Reason           string    `json:"reason" binding:"required,max=500"`
	Note             string    `json:"note" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type AppointmentFilters struct {
	Doctor          string            `form:"doctor"`
	PatientID       uuid.UUID         `form:"patient_id"`
	Status          AppointmentStatus `form:"status"`
	IncludeArchived bool              `form:"archived"`
	StartDate       time.Time         `form:"start_date" time_format:"2006-01-02"`
	EndDate         time.Time         `form:"end_date" time_format:"2006-01-02"`
}

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
