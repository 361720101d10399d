package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"inventory-tracker/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	_, ok = UserID(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok, "nil user id is not an identity")

	id := Identity{UserID: uuid.New(), Email: "a@example.com", Role: "user"}
	ctx := WithIdentity(context.Background(), id)

	got, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, id.Email, got.Session().Email)
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", 15*time.Minute)
	userID := uuid.New()

	signed, expiresAt, err := tokens.Issue(userID, "a@example.com", "user")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)

	id := claims.Identity()
	assert.Equal(t, userID, id.UserID)
	assert.False(t, id.ExpiresAt.IsZero())
}

func TestTokensRejectWrongSecret(t *testing.T) {
	signed, _, err := NewTokens("one", time.Minute).Issue(uuid.New(), "", "user")
	require.NoError(t, err)

	_, err = NewTokens("two", time.Minute).Parse(signed)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = NewTokens("one", time.Minute).Parse("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokensExpire(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, _, err := tokens.Issue(uuid.New(), "", "user")
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Minute).Parse(signed)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestBrokerDeliversPerUser(t *testing.T) {
	b := NewBroker(4)
	alice, bob := uuid.New(), uuid.New()

	aliceCh, cancelAlice := b.Subscribe(alice)
	defer cancelAlice()
	bobCh, cancelBob := b.Subscribe(bob)
	defer cancelBob()

	n := b.Publish(domain.SessionEvent{Type: domain.SessionSignedIn, UserID: alice, At: time.Now()})
	assert.Equal(t, 1, n)

	select {
	case evt := <-aliceCh:
		assert.Equal(t, domain.SessionSignedIn, evt.Type)
	case <-time.After(time.Second):
		t.Fatal("alice did not receive the event")
	}

	select {
	case evt := <-bobCh:
		t.Fatalf("bob received %v", evt)
	default:
	}
}

func TestBrokerPublishDoesNotBlock(t *testing.T) {
	b := NewBroker(1)
	user := uuid.New()
	_, cancel := b.Subscribe(user)
	defer cancel()

	assert.Equal(t, 1, b.Publish(domain.SessionEvent{UserID: user}))
	assert.Equal(t, 0, b.Publish(domain.SessionEvent{UserID: user}))
}

func TestBrokerCancel(t *testing.T) {
	b := NewBroker(1)
	user := uuid.New()

	ch, cancel := b.Subscribe(user)
	assert.Equal(t, 1, b.Subscribers(user))

	cancel()
	cancel()
	assert.Equal(t, 0, b.Subscribers(user))

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Publish(domain.SessionEvent{UserID: user}))
}

func TestBrokerConcurrentUse(t *testing.T) {
	b := NewBroker(8)
	user := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancel := b.Subscribe(user)
			cancel()
		}()
		go func() {
			defer wg.Done()
			b.Publish(domain.SessionEvent{UserID: user})
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, b.Subscribers(user))
}
