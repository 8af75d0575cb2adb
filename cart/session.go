package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("cart session not found")

// Store persists carts by session id. Implementations must return
// ErrSessionNotFound for unknown ids.
type Store interface {
	Load(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, id string, c *Cart) error
	Delete(ctx context.Context, id string) error
}

// Session owns one cart for the duration of a request. The cart is loaded once
// when the session is opened and written back after each successful mutation.
type Session struct {
	ID    string
	Cart  *Cart
	IsNew bool

	store Store
}

// Open loads the cart for id, or starts an empty cart under a fresh id when
// id is empty or unknown to the store.
func Open(ctx context.Context, store Store, id string) (*Session, error) {
	if id != "" {
		c, err := store.Load(ctx, id)
		switch {
		case err == nil:
			return &Session{ID: id, Cart: c, store: store}, nil
		case !errors.Is(err, ErrSessionNotFound):
			return nil, err
		}
	}
	return &Session{ID: uuid.NewString(), Cart: New(), IsNew: true, store: store}, nil
}

// Mutate applies fn to the cart and persists it when fn succeeds
func (s *Session) Mutate(ctx context.Context, fn func(c *Cart) error) error {
	if err := fn(s.Cart); err != nil {
		return err
	}
	if err := s.store.Save(ctx, s.ID, s.Cart); err != nil {
		return err
	}
	s.IsNew = false
	return nil
}

// Clear empties the cart and removes it from the store
func (s *Session) Clear(ctx context.Context) error {
	s.Cart.Clear()
	return s.store.Delete(ctx, s.ID)
}

// MemoryStore keeps carts in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, id string, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[id] = c.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, id)
	return nil
}
