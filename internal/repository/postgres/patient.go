package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
)

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, email, phone, birth_date, gender, address, category,
			identification_type, identification_number, document_refs,
			allergies, current_medication, family_history, past_history,
			created_at, updated_at
		) VALUES (
			:id, :name, :email, :phone, :birth_date, :gender, :address, :category,
			:identification_type, :identification_number, :document_refs,
			:allergies, :current_medication, :family_history, :past_history,
			:created_at, :updated_at
		)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByIdentificationNumber(ctx context.Context, idNumber string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE identification_number = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, idNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient by identification number: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = :name, email = :email, phone = :phone, address = :address,
			category = :category, document_refs = :document_refs,
			allergies = :allergies, current_medication = :current_medication,
			family_history = :family_history, past_history = :past_history,
			updated_at = :updated_at
		WHERE id = :id
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filters != nil {
		if filters.SearchTerm != "" {
			query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR identification_number ILIKE $%d)", argPos, argPos, argPos)
			args = append(args, "%"+filters.SearchTerm+"%")
			argPos++
		}
		if filters.Category != "" {
			query += fmt.Sprintf(" AND category = $%d", argPos)
			args = append(args, filters.Category)
			argPos++
		}
	}

	query += " ORDER BY name ASC"

	if filters != nil && filters.PageSize > 0 {
		offset := 0
		if filters.Page > 1 {
			offset = (filters.Page - 1) * filters.PageSize
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filters.PageSize, offset)
	}

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
