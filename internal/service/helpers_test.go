package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"go-marketplace/internal/cache"
	"go-marketplace/internal/model"
	"go-marketplace/internal/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSessions(t *testing.T) (*cache.SessionCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client), srv
}

func newTestTokens(t *testing.T, sessions sessionReader, clock *testClock) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(testSecret, 30*time.Minute, 7*24*time.Hour, sessions, WithClock(clock.Now))
	require.NoError(t, err)
	return tokens
}

// memUsers is an in-memory credential store.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]model.User{}}
}

func (m *memUsers) Users() repository.Users { return m }

func (m *memUsers) WithinTx(ctx context.Context, fn func(ctx context.Context, users repository.Users) error) error {
	return fn(ctx, m)
}

func (m *memUsers) Save(_ context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.User{}, model.ErrDuplicatedEmail
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFoundUser
	}
	return u, nil
}

func (m *memUsers) FindAll(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.byID))
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// staleExistsUsers reports every email as free, as a concurrent signup would
// see it before the other transaction commits.
type staleExistsUsers struct {
	*memUsers
}

func (s *staleExistsUsers) Users() repository.Users { return s }

func (s *staleExistsUsers) WithinTx(ctx context.Context, fn func(ctx context.Context, users repository.Users) error) error {
	return fn(ctx, s)
}

func (s *staleExistsUsers) ExistsByEmail(context.Context, string) (bool, error) {
	return false, nil
}

type memHearts struct {
	products map[int64]model.HeartDataProduct
	hearts   map[[2]int64]bool
}

func newMemHearts(products ...model.HeartDataProduct) *memHearts {
	h := &memHearts{products: map[int64]model.HeartDataProduct{}, hearts: map[[2]int64]bool{}}
	for _, p := range products {
		h.products[p.ProductID] = p
	}
	return h
}

func (h *memHearts) FindHeartedByUser(_ context.Context, userID int64) ([]model.HeartDataProduct, error) {
	out := make([]model.HeartDataProduct, 0)
	for key := range h.hearts {
		if key[0] == userID {
			out = append(out, h.products[key[1]])
		}
	}
	return out, nil
}

func (h *memHearts) AddHeart(_ context.Context, userID int64, productID int64) (model.Heart, error) {
	if _, ok := h.products[productID]; !ok {
		return model.Heart{}, model.ErrNotFoundDataProduct
	}
	key := [2]int64{userID, productID}
	if h.hearts[key] {
		return model.Heart{}, model.ErrDuplicatedHeart
	}
	h.hearts[key] = true
	return model.Heart{ID: int64(len(h.hearts)), UserID: userID, ProductID: productID}, nil
}
