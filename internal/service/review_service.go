package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

var (
	ErrInvalidReviewLink = errors.New("review link must start with http")
	ErrQRLimitReached    = repository.ErrQRLimitReached
)

// QRCode is a generated review code
type QRCode struct {
	PNG       []byte
	TargetURL string
	Remaining int
}

// ReviewService manages the review link and its QR codes
type ReviewService interface {
	GetProfile(ctx context.Context) (*domain.Profile, error)
	// GenerateQR records a code for link, saves link as the review link and
	// returns the PNG. Each user may generate at most the configured number
	// of codes; the store enforces the limit, so concurrent requests cannot
	// exceed it.
	GenerateQR(ctx context.Context, link string) (*QRCode, error)
}

type reviewService struct {
	profiles repository.ProfileRepository
	maxCodes int
	size     int
	logger   *zap.Logger
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(profiles repository.ProfileRepository, maxCodes, size int, logger *zap.Logger) ReviewService {
	if size <= 0 {
		size = 256
	}
	return &reviewService{profiles: profiles, maxCodes: maxCodes, size: size, logger: logger}
}

func (s *reviewService) GetProfile(ctx context.Context) (*domain.Profile, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	count, err := s.profiles.CountQRCodes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	profile.QRCodesRemaining = max(0, s.maxCodes-count)
	return profile, nil
}

func (s *reviewService) GenerateQR(ctx context.Context, link string) (*QRCode, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, "http") {
		return nil, ErrInvalidReviewLink
	}

	png, err := qrcode.Encode(link, qrcode.Medium, s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	code := &domain.QRCode{
		ID:        uuid.New(),
		UserID:    userID,
		TargetURL: link,
		CreatedAt: time.Now(),
	}
	total, err := s.profiles.CreateQRCode(ctx, code, s.maxCodes)
	if errors.Is(err, repository.ErrQRLimitReached) {
		return nil, ErrQRLimitReached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save qr code: %w", err)
	}

	s.logger.Info("QR code generated",
		zap.String("user_id", userID.String()),
		zap.Int("generated", total),
	)

	return &QRCode{PNG: png, TargetURL: link, Remaining: s.maxCodes - total}, nil
}
