package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Appointment change event types published to the realtime channel.
const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentUpdated   = "appointment.updated"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentArchived  = "appointment.archived"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// AppointmentEvent is the payload published for every appointment change.
// Subscribers must treat delivery as at-least-once and apply idempotently.
type AppointmentEvent struct {
	AppointmentID   uuid.UUID         `json:"appointment_id"`
	AppointmentCode string            `json:"appointment_code"`
	PatientID       uuid.UUID         `json:"patient_id"`
	PatientEmail    string            `json:"patient_email,omitempty"`
	PatientName     string            `json:"patient_name,omitempty"`
	Doctor          string            `json:"doctor"`
	Schedule        time.Time         `json:"schedule"`
	Status          AppointmentStatus `json:"status"`
}
