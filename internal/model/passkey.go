package model

import (
	"time"

	"github.com/google/uuid"
)

// PasskeyRecord pairs a patient identification number with the bcrypt hash
// of their 6-digit passkey. The plaintext is never stored or logged.
type PasskeyRecord struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	IdentificationNumber string    `db:"identification_number" json:"identification_number"`
	PasskeyHash          string    `db:"passkey_hash" json:"-"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

type SetPasskeyRequest struct {
	IdentificationNumber string `json:"id_number" binding:"required"`
	Passkey              string `json:"passkey" binding:"required,passkey"`
}

type VerifyPasskeyRequest struct {
	IdentificationNumber string `json:"id_number" binding:"required"`
	Passkey              string `json:"passkey" binding:"required"`
}

// PasskeyImportRow is one record of a bulk CSV import.
type PasskeyImportRow struct {
	IdentificationNumber string
	Passkey              string
}

// PasskeyImportError records why a single row was rejected. The batch
// continues past individual failures.
type PasskeyImportError struct {
	IdentificationNumber string `json:"id_number"`
	Reason               string `json:"reason"`
}

// PasskeyImportResult tallies a bulk import.
type PasskeyImportResult struct {
	Total      int                  `json:"total"`
	Processed  int                  `json:"processed"`
	Successful int                  `json:"successful"`
	Failed     int                  `json:"failed"`
	Errors     []PasskeyImportError `json:"errors,omitempty"`
}
