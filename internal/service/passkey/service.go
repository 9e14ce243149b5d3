package passkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/repository"
	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
	"github.com/wexxqt/ecatsulta-api/pkg/security"
)

const (
	// Bulk import is chunked to bound per-request latency, not for
	// concurrency: batches run sequentially.
	importBatchSize = 50

	maxFailedAttempts  = 5
	attemptWindowTTL   = 5 * time.Minute
	attemptSweepPeriod = 10 * time.Minute
)

// RolePasskeys maps the four static access roles to their configured
// secrets. These live in configuration, not in the passkeys table.
type RolePasskeys map[model.AccessRole]string

type Service struct {
	repo     repository.PasskeyRepository
	hasher   security.PasskeyHasher
	roles    RolePasskeys
	attempts *gocache.Cache
}

func NewService(repo repository.PasskeyRepository, hasher security.PasskeyHasher, roles RolePasskeys) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		roles:    roles,
		attempts: gocache.New(attemptWindowTTL, attemptSweepPeriod),
	}
}

// SetPasskey validates and hashes a 6-digit secret, then upserts the
// record for the identification number. The plaintext never reaches the
// store or the logs.
func (s *Service) SetPasskey(ctx context.Context, idNumber, raw string) (*model.PasskeyRecord, error) {
	if idNumber == "" {
		return nil, apperrors.BadRequest("identification number is required", nil)
	}
	if !security.ValidPasskey(raw) {
		return nil, apperrors.BadRequest("passkey must be exactly 6 digits", nil)
	}

	hash, err := s.hasher.Hash(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to hash passkey: %w", err)
	}

	record := &model.PasskeyRecord{
		IdentificationNumber: idNumber,
		PasskeyHash:          hash,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, apperrors.Upstream("passkey upsert", err)
	}

	s.attempts.Delete(idNumber)
	return record, nil
}

// VerifyPasskey checks a patient passkey. Unknown identification numbers
// and wrong secrets both come back (false, nil) so callers cannot probe
// which identities exist.
func (s *Service) VerifyPasskey(ctx context.Context, idNumber, raw string) (bool, error) {
	if idNumber == "" || !security.ValidPasskey(raw) {
		return false, nil
	}

	if s.throttled(idNumber) {
		log.Warn().Str("id_number", idNumber).Msg("passkey verification throttled")
		return false, nil
	}

	record, err := s.repo.GetByIdentificationNumber(ctx, idNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordFailure(idNumber)
			return false, nil
		}
		return false, apperrors.Upstream("passkey lookup", err)
	}

	if err := s.hasher.Compare(record.PasskeyHash, raw); err != nil {
		s.recordFailure(idNumber)
		return false, nil
	}

	s.attempts.Delete(idNumber)
	return true, nil
}

// VerifyRolePasskey checks one of the four static role passkeys against
// configuration. The comparison is constant-time over fixed-length
// digests; no artificial delay is needed. The failure counter is keyed
// per client so one caller's bad attempts cannot lock a role out for
// everyone else.
func (s *Service) VerifyRolePasskey(role model.AccessRole, raw, client string) bool {
	if !role.Valid() {
		return false
	}

	configured, ok := s.roles[role]
	if !ok || configured == "" {
		return false
	}

	key := "role:" + string(role) + ":" + client
	if s.throttled(key) {
		log.Warn().Str("role", string(role)).Msg("role passkey verification throttled")
		return false
	}

	if !security.ConstantTimeEquals(configured, raw) {
		s.recordFailure(key)
		return false
	}

	s.attempts.Delete(key)
	return true
}

// ImportPasskeys applies SetPasskey semantics to each row, continuing
// past failures, and returns the tally. A store failure on one row marks
// that row failed; it never aborts the batch.
func (s *Service) ImportPasskeys(ctx context.Context, rows []model.PasskeyImportRow) *model.PasskeyImportResult {
	result := &model.PasskeyImportResult{Total: len(rows)}

	for start := 0; start < len(rows); start += importBatchSize {
		end := start + importBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		for _, row := range rows[start:end] {
			result.Processed++
			if _, err := s.SetPasskey(ctx, row.IdentificationNumber, row.Passkey); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, model.PasskeyImportError{
					IdentificationNumber: row.IdentificationNumber,
					Reason:               importFailureReason(err),
				})
				continue
			}
			result.Successful++
		}
	}

	return result
}

func (s *Service) ListPasskeys(ctx context.Context) ([]*model.PasskeyRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Upstream("passkey list", err)
	}
	return records, nil
}

func (s *Service) DeletePasskey(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("passkey", err)
		}
		return apperrors.Upstream("passkey delete", err)
	}
	return nil
}

func (s *Service) throttled(key string) bool {
	if v, ok := s.attempts.Get(key); ok {
		if count, ok := v.(int); ok && count >= maxFailedAttempts {
			return true
		}
	}
	return false
}

func (s *Service) recordFailure(key string) {
	if _, err := s.attempts.IncrementInt(key, 1); err != nil {
		s.attempts.Set(key, 1, gocache.DefaultExpiration)
	}
}

func importFailureReason(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
