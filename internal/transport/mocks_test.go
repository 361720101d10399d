package transport

import (
	"context"
	"strings"
	"sync"

	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

// memStore implements every repository interface in memory
type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	tokens   map[string]*domain.RefreshToken
	items    map[uuid.UUID]domain.Item
	order    []uuid.UUID
	activity []domain.ActivityLogEntry
	links    map[uuid.UUID]string
	codes    map[uuid.UUID]int
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*domain.User{},
		tokens: map[string]*domain.RefreshToken{},
		items:  map[uuid.UUID]domain.Item{},
		links:  map[uuid.UUID]string{},
		codes:  map[uuid.UUID]int{},
	}
}

type memUsers struct{ *memStore }

func (m memUsers) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m memUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m memUsers) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type memTokens struct{ *memStore }

func (m memTokens) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.Token] = token
	return nil
}

func (m memTokens) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if t.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return t, nil
}

func (m memTokens) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return repository.ErrRefreshTokenNotFound
	}
	t.Revoked = true
	return nil
}

func (m memTokens) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

type memItems struct{ *memStore }

func (m memItems) Create(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = *item
	m.order = append(m.order, item.ID)
	return nil
}

func (m memItems) Update(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.items[item.ID]; !ok || existing.UserID != item.UserID {
		return repository.ErrItemNotFound
	}
	m.items[item.ID] = *item
	return nil
}

func (m memItems) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.items[id]; !ok || existing.UserID != userID {
		return repository.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m memItems) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok || item.UserID != userID {
		return nil, repository.ErrItemNotFound
	}
	return &item, nil
}

func (m memItems) List(ctx context.Context, userID uuid.UUID, search string) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Item{}
	for i := len(m.order) - 1; i >= 0; i-- {
		item, ok := m.items[m.order[i]]
		if !ok || item.UserID != userID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

type memActivity struct{ *memStore }

func (m memActivity) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity = append(m.activity, *entry)
	return nil
}

func (m memActivity) List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ActivityLogEntry{}
	for i := len(m.activity) - 1; i >= 0 && len(out) < limit; i-- {
		if m.activity[i].UserID == userID {
			out = append(out, m.activity[i])
		}
	}
	return out, nil
}

type memProfiles struct{ *memStore }

func (m memProfiles) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.Profile{UserID: userID, ReviewLink: m.links[userID]}, nil
}

func (m memProfiles) CountQRCodes(ctx context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[userID], nil
}

func (m memProfiles) CreateQRCode(ctx context.Context, code *domain.QRCode, limit int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes[code.UserID] >= limit {
		return m.codes[code.UserID], repository.ErrQRLimitReached
	}
	m.codes[code.UserID]++
	m.links[code.UserID] = code.TargetURL
	return m.codes[code.UserID], nil
}
