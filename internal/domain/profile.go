package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds per-user settings that live outside the auth record
type Profile struct {
	UserID     uuid.UUID `json:"user_id" db:"id"`
	ReviewLink string    `json:"review_link" db:"review_link"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	// QRCodesRemaining is derived from the generated code count
	QRCodesRemaining int `json:"qr_codes_remaining" db:"-"`
}

// QRCode records a generated review QR code
type QRCode struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TargetURL string    `json:"target_url" db:"target_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
