package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventory-tracker/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrQRLimitReached = errors.New("qr code limit reached")
)

// ProfileRepository stores per-user review settings and the QR codes
// generated for them.
type ProfileRepository interface {
	// Get returns an empty profile when none has been saved yet
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	CountQRCodes(ctx context.Context, userID uuid.UUID) (int, error)
	// CreateQRCode stores code and makes its target the owner's review link.
	// It returns the owner's code count after the insert, or
	// ErrQRLimitReached when the owner already has limit codes.
	CreateQRCode(ctx context.Context, code *domain.QRCode, limit int) (int, error)
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile := &domain.Profile{UserID: userID}

	err := r.db.QueryRowContext(ctx,
		`SELECT review_link, updated_at FROM profiles WHERE id = $1`, userID,
	).Scan(&profile.ReviewLink, &profile.UpdatedAt)

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (r *profileRepository) CountQRCodes(ctx context.Context, userID uuid.UUID) (int, error) {
	return countQRCodes(ctx, r.db, userID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func countQRCodes(ctx context.Context, q queryRower, userID uuid.UUID) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM qr_codes WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count qr codes: %w", err)
	}
	return count, nil
}

func (r *profileRepository) CreateQRCode(ctx context.Context, code *domain.QRCode, limit int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// held until commit, so the count below cannot go stale
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, code.UserID.String()); err != nil {
		return 0, fmt.Errorf("failed to lock qr codes: %w", err)
	}

	count, err := countQRCodes(ctx, tx, code.UserID)
	if err != nil {
		return 0, err
	}
	if count >= limit {
		return count, ErrQRLimitReached
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO qr_codes (id, user_id, target_url, created_at) VALUES ($1, $2, $3, $4)`,
		code.ID, code.UserID, code.TargetURL, code.CreatedAt,
	); err != nil {
		return 0, fmt.Errorf("failed to create qr code: %w", err)
	}

	query := `
		INSERT INTO profiles (id, review_link, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET review_link = EXCLUDED.review_link
	`
	if _, err := tx.ExecContext(ctx, query, code.UserID, code.TargetURL, time.Now()); err != nil {
		return 0, fmt.Errorf("failed to save review link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit qr code: %w", err)
	}
	return count + 1, nil
}
