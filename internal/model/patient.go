package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PatientCategory string

const (
	PatientCategoryStudent  PatientCategory = "student"
	PatientCategoryEmployee PatientCategory = "employee"
)

func (c PatientCategory) Valid() bool {
	return c == PatientCategoryStudent || c == PatientCategoryEmployee
}

type Patient struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	Name                 string          `db:"name" json:"name"`
	Email                string          `db:"email" json:"email"`
	Phone                string          `db:"phone" json:"phone"`
	BirthDate            time.Time       `db:"birth_date" json:"birth_date"`
	Gender               string          `db:"gender" json:"gender"`
	Address              string          `db:"address" json:"address"`
	Category             PatientCategory `db:"category" json:"category"`
	IdentificationType   string          `db:"identification_type" json:"identification_type"`
	IdentificationNumber string          `db:"identification_number" json:"identification_number"`
	DocumentRefs         pq.StringArray  `db:"document_refs" json:"document_refs"`
	Allergies            string          `db:"allergies" json:"allergies,omitempty"`
	CurrentMedication    string          `db:"current_medication" json:"current_medication,omitempty"`
	FamilyHistory        string          `db:"family_history" json:"family_history,omitempty"`
	PastHistory          string          `db:"past_history" json:"past_history,omitempty"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

type CreatePatientRequest struct {
	Name                 string   `json:"name" binding:"required"`
	Email                string   `json:"email" binding:"required,email"`
	Phone                string   `json:"phone" binding:"required"`
	BirthDate            string   `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Gender               string   `json:"gender" binding:"required,oneof=male female other"`
	Address              string   `json:"address" binding:"required"`
	Category             string   `json:"category" binding:"required,oneof=student employee"`
	IdentificationType   string   `json:"identification_type" binding:"required"`
	IdentificationNumber string   `json:"identification_number" binding:"required"`
	DocumentRefs         []string `json:"document_refs"`
	Allergies            string   `json:"allergies"`
	CurrentMedication    string   `json:"current_medication"`
	FamilyHistory        string   `json:"family_history"`
	PastHistory          string   `json:"past_history"`
}

type UpdatePatientRequest struct {
	Name              *string   `json:"name"`
	Email             *string   `json:"email" binding:"omitempty,email"`
	Phone             *string   `json:"phone"`
	Address           *string   `json:"address"`
	Category          *string   `json:"category" binding:"omitempty,oneof=student employee"`
	DocumentRefs      *[]string `json:"document_refs"`
	Allergies         *string   `json:"allergies"`
	CurrentMedication *string   `json:"current_medication"`
	FamilyHistory     *string   `json:"family_history"`
	PastHistory       *string   `json:"past_history"`
}

type PatientFilters struct {
	SearchTerm string          `form:"search"`
	Category   PatientCategory `form:"category"`
	Pagination
}
