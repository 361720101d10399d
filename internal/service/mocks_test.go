package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"inventory-tracker/internal/auth"
	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

var errStore = errors.New("store unavailable")

func withUser(userID uuid.UUID) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID, Role: DefaultRole})
}

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for _, tok := range m.tokens {
		if tok.UserID == userID {
			tok.Revoked = true
		}
	}
	return nil
}

type mockItemRepository struct {
	items   map[uuid.UUID]domain.Item
	order   []uuid.UUID
	listErr error
}

func newMockItemRepository() *mockItemRepository {
	return &mockItemRepository{items: make(map[uuid.UUID]domain.Item)}
}

func (m *mockItemRepository) Create(ctx context.Context, item *domain.Item) error {
	m.items[item.ID] = *item
	m.order = append(m.order, item.ID)
	return nil
}

func (m *mockItemRepository) Update(ctx context.Context, item *domain.Item) error {
	existing, ok := m.items[item.ID]
	if !ok || existing.UserID != item.UserID {
		return repository.ErrItemNotFound
	}
	m.items[item.ID] = *item
	return nil
}

func (m *mockItemRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, ok := m.items[id]
	if !ok || existing.UserID != userID {
		return repository.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockItemRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Item, error) {
	item, ok := m.items[id]
	if !ok || item.UserID != userID {
		return nil, repository.ErrItemNotFound
	}
	return &item, nil
}

// List returns items newest first like the postgres implementation
func (m *mockItemRepository) List(ctx context.Context, userID uuid.UUID, search string) ([]domain.Item, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	items := []domain.Item{}
	for i := len(m.order) - 1; i >= 0; i-- {
		item, ok := m.items[m.order[i]]
		if !ok || item.UserID != userID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(search)) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

type mockActivityRepository struct {
	entries []domain.ActivityLogEntry
	err     error
}

func (m *mockActivityRepository) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockActivityRepository) List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error) {
	out := []domain.ActivityLogEntry{}
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockActivityRepository) actions() []domain.ActivityAction {
	out := make([]domain.ActivityAction, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

type mockProfileRepository struct {
	mu    sync.Mutex
	links map[uuid.UUID]string
	codes map[uuid.UUID][]domain.QRCode
	// delay stretches CreateQRCode to widen races between concurrent callers
	delay time.Duration
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{links: map[uuid.UUID]string{}, codes: map[uuid.UUID][]domain.QRCode{}}
}

func (m *mockProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.Profile{UserID: userID, ReviewLink: m.links[userID]}, nil
}

func (m *mockProfileRepository) CountQRCodes(ctx context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.codes[userID]), nil
}

func (m *mockProfileRepository) CreateQRCode(ctx context.Context, code *domain.QRCode, limit int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	time.Sleep(m.delay)

	count := len(m.codes[code.UserID])
	if count >= limit {
		return count, repository.ErrQRLimitReached
	}
	m.codes[code.UserID] = append(m.codes[code.UserID], *code)
	m.links[code.UserID] = code.TargetURL
	return count + 1, nil
}
