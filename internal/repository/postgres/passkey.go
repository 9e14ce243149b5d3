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

// Upsert inserts or replaces the passkey record for an identification
// number. One record per identification number is the invariant; the
// unique constraint on the column enforces it.
func (r *passkeyRepository) Upsert(ctx context.Context, record *model.PasskeyRecord) error {
	query := `
		INSERT INTO passkeys (id, identification_number, passkey_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identification_number)
		DO UPDATE SET passkey_hash = EXCLUDED.passkey_hash, updated_at = EXCLUDED.updated_at
	`
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.IdentificationNumber,
		record.PasskeyHash,
		record.CreatedAt,
		record.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert passkey: %w", err)
	}
	return nil
}

func (r *passkeyRepository) GetByIdentificationNumber(ctx context.Context, idNumber string) (*model.PasskeyRecord, error) {
	query := `SELECT * FROM passkeys WHERE identification_number = $1`

	var record model.PasskeyRecord
	if err := r.db.GetContext(ctx, &record, query, idNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get passkey: %w", err)
	}
	return &record, nil
}

func (r *passkeyRepository) List(ctx context.Context) ([]*model.PasskeyRecord, error) {
	query := `SELECT * FROM passkeys ORDER BY identification_number ASC`

	records := []*model.PasskeyRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list passkeys: %w", err)
	}
	return records, nil
}

func (r *passkeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM passkeys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete passkey: %w", err)
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
