package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
)

// Registry hands out one Store per session. Stores are created lazily on first
// access, each over its own namespace of the shared storage.
//
// A Store is leased by Open until the returned release func is called. Only
// stores without a lease are evicted, so a session never has two live Stores.
// When every cached store is leased the registry grows past maxStores.
type Registry struct {
	storage   port.Storage
	maxStores int
	storeOpts []Option

	mu       sync.Mutex
	stores   map[string]*entry
	onChange func(sessionID string, cart domain.Cart)
}

type entry struct {
	store  *Store
	leases int
}

func NewRegistry(storage port.Storage, maxStores int, opts ...Option) *Registry {
	return &Registry{
		storage:   storage,
		maxStores: maxStores,
		storeOpts: opts,
		stores:    make(map[string]*entry),
	}
}

// OnChange subscribes fn to every Store opened after the call.
func (r *Registry) OnChange(fn func(sessionID string, cart domain.Cart)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onChange = fn
}

// Open leases the Store of sessionID, loading it from storage on first use.
// The caller must call release once it no longer uses the Store. A storage
// read failure is returned and nothing is cached.
func (r *Registry) Open(ctx context.Context, sessionID string) (_ *Store, release func(), _ error) {
	if sessionID == "" {
		return nil, nil, fmt.Errorf("sessionID is empty")
	}

	r.mu.Lock()
	if e, ok := r.stores[sessionID]; ok {
		e.leases++
		r.mu.Unlock()
		return e.store, r.releaser(e), nil
	}
	onChange := r.onChange
	r.mu.Unlock()

	// loading happens outside the lock so one slow read does not stall
	// other sessions
	s, err := NewStore(ctx, repository.Namespace(r.storage, sessionNamespace(sessionID)), r.storeOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("NewStore: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// a concurrent Open for the same session may have won the race
	if e, ok := r.stores[sessionID]; ok {
		e.leases++
		return e.store, r.releaser(e), nil
	}

	if onChange != nil {
		s.Subscribe(func(cart domain.Cart) {
			onChange(sessionID, cart)
		})
	}

	r.evictIdle()

	e := &entry{store: s, leases: 1}
	r.stores[sessionID] = e

	return s, r.releaser(e), nil
}

func (r *Registry) releaser(e *entry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()

			e.leases--
		})
	}
}

// evictIdle drops unleased stores until there is room for one more. Their
// state was persisted on every mutation and is reloaded on the next Open.
func (r *Registry) evictIdle() {
	if r.maxStores <= 0 {
		return
	}

	for id, e := range r.stores {
		if len(r.stores) < r.maxStores {
			return
		}
		if e.leases == 0 {
			delete(r.stores, id)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.stores)
}

func sessionNamespace(sessionID string) string {
	return "session:" + sessionID
}
