// Package memory provides in-memory repository implementations. Records are
// held in their serialized form and pass through the same codecs as the
// PostgreSQL driver, so persistence round-trips are exercised even in tests.
package memory

import (
	"context"
	"sync"

	"github.com/xenking/warung-digital/internal/domain/cart"
	"github.com/xenking/warung-digital/internal/domain/menu"
	"github.com/xenking/warung-digital/internal/domain/order"
	"github.com/xenking/warung-digital/internal/storage/codec"
)

var (
	_ cart.Repository         = (*CartRepository)(nil)
	_ order.Repository        = (*OrderRepository)(nil)
	_ order.SessionRepository = (*SessionRepository)(nil)
	_ menu.Repository         = (*MenuRepository)(nil)
	_ order.Connectivity      = (*Connectivity)(nil)
)

// CartRepository implements cart.Repository keyed by table number.
type CartRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewCartRepository returns an empty in-memory cart repository.
func NewCartRepository() *CartRepository {
	return &CartRepository{records: make(map[string][]byte)}
}

func (r *CartRepository) Save(_ context.Context, c *cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[c.TableNumber] = codec.EncodeCart(c)
	return nil
}

func (r *CartRepository) Load(_ context.Context, tableNumber string) (*cart.Cart, error) {
	r.mu.RLock()
	data, ok := r.records[tableNumber]
	r.mu.RUnlock()
	if !ok {
		return nil, cart.ErrNotFound
	}
	return codec.DecodeCart(data)
}

func (r *CartRepository) Delete(_ context.Context, tableNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, tableNumber)
	return nil
}

// SessionRepository implements order.SessionRepository keyed by table number.
type SessionRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewSessionRepository returns an empty in-memory session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{records: make(map[string][]byte)}
}

func (r *SessionRepository) Save(_ context.Context, s *order.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[s.TableNumber] = codec.EncodeSession(s)
	return nil
}

func (r *SessionRepository) Load(_ context.Context, tableNumber string) (*order.Session, error) {
	r.mu.RLock()
	data, ok := r.records[tableNumber]
	r.mu.RUnlock()
	if !ok {
		return nil, order.ErrSessionNotFound
	}
	return codec.DecodeSession(data)
}

// OrderRepository implements order.Repository keyed by order id, with an
// append-only history index.
type OrderRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
	history []byte
}

// NewOrderRepository returns an empty in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		records: make(map[string][]byte),
		history: codec.EncodeHistory(nil),
	}
}

func (r *OrderRepository) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[o.ID] = codec.EncodeOrder(o)
	return nil
}

func (r *OrderRepository) Load(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	data, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return codec.DecodeOrder(data)
}

func (r *OrderRepository) AppendHistory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids, err := codec.DecodeHistory(r.history)
	if err != nil {
		return err
	}
	r.history = codec.EncodeHistory(append(ids, id))
	return nil
}

func (r *OrderRepository) History(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return codec.DecodeHistory(r.history)
}

// MenuRepository serves a fixed catalog from memory.
type MenuRepository struct {
	items []menu.Item
	info  menu.RestaurantInfo
}

// NewMenuRepository returns a read-only catalog over the given items.
func NewMenuRepository(items []menu.Item, info menu.RestaurantInfo) *MenuRepository {
	return &MenuRepository{items: items, info: info}
}

func (r *MenuRepository) List(_ context.Context) ([]menu.Item, error) {
	out := make([]menu.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MenuRepository) GetByID(_ context.Context, id string) (*menu.Item, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, menu.ErrNotFound
}

func (r *MenuRepository) RestaurantInfo(_ context.Context) (*menu.RestaurantInfo, error) {
	info := r.info
	return &info, nil
}

// Connectivity is a toggleable connectivity probe for tests and local runs.
type Connectivity struct {
	mu      sync.Mutex
	offline bool
}

// NewConnectivity returns a probe that reports online until toggled.
func NewConnectivity() *Connectivity {
	return &Connectivity{}
}

// SetOffline flips the probe's reported state.
func (c *Connectivity) SetOffline(offline bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offline = offline
}

func (c *Connectivity) Online(_ context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.offline
}
