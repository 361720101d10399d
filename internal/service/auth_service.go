package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-tracker/internal/auth"
	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	DefaultRole = "user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = auth.ErrInvalidToken
	ErrTokenExpired       = auth.ErrTokenExpired
)

// TokenPair is returned on sign-in and refresh
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthService is the auth provider: accounts, sessions and session events
type AuthService interface {
	SignUp(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	// SignOut revokes refreshToken, or every refresh token of the caller
	// when it is empty.
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	CurrentUser(ctx context.Context) (*domain.User, error)
	CurrentSession(ctx context.Context) (*domain.Session, error)
	// Subscribe streams session changes of the caller until cancel is called
	Subscribe(ctx context.Context) (<-chan domain.SessionEvent, func(), error)
	ValidateToken(tokenString string) (*auth.Claims, error)
}

type authService struct {
	users      repository.UserRepository
	refresh    repository.RefreshTokenRepository
	tokens     *auth.Tokens
	broker     *auth.Broker
	refreshTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	users repository.UserRepository,
	refresh repository.RefreshTokenRepository,
	tokens *auth.Tokens,
	broker *auth.Broker,
	refreshTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:      users,
		refresh:    refresh,
		tokens:     tokens,
		broker:     broker,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	email = normalizeEmail(email)

	existingUser, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Role:         DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(domain.SessionSignedIn, user.ID)
	return pair, user, nil
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	userID, err := owner(ctx)
	if err != nil {
		return err
	}

	if refreshToken == "" {
		if err := s.refresh.RevokeAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}
	} else if err := s.refresh.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		// an unknown token is already signed out
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.publish(domain.SessionSignedOut, userID)
	return nil
}

// Refresh rotates the refresh token and mints a new access token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.refresh.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenRevoked) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	if s.now().After(stored.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(domain.SessionTokenRefreshed, user.ID)
	return pair, nil
}

func (s *authService) CurrentUser(ctx context.Context) (*domain.User, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) CurrentSession(ctx context.Context) (*domain.Session, error) {
	id, ok := auth.IdentityFrom(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	session := id.Session()
	return &session, nil
}

func (s *authService) Subscribe(ctx context.Context) (<-chan domain.SessionEvent, func(), error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.broker.Subscribe(userID)
	return ch, cancel, nil
}

func (s *authService) ValidateToken(tokenString string) (*auth.Claims, error) {
	return s.tokens.Parse(tokenString)
}

func (s *authService) issue(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := s.now()
	refresh := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if err := s.refresh.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refresh.Token, ExpiresAt: expiresAt}, nil
}

func (s *authService) publish(kind domain.SessionEventType, userID uuid.UUID) {
	n := s.broker.Publish(domain.SessionEvent{Type: kind, UserID: userID, At: s.now()})
	s.logger.Debug("Session event published",
		zap.String("type", string(kind)),
		zap.String("user_id", userID.String()),
		zap.Int("subscribers", n),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
