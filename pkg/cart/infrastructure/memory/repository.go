package memory

import (
	"context"
	"sync"

	"storefront/pkg/cart/domain/model"
)

type Repository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func New() *Repository {
	return &Repository{store: make(map[string][]byte)}
}

func (r *Repository) Load(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.store[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (r *Repository) Save(_ context.Context, key string, raw []byte) error {
	stored := make([]byte, len(raw))
	copy(stored, raw)
	r.mu.Lock()
	r.store[key] = stored
	r.mu.Unlock()
	return nil
}

func (r *Repository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.store, key)
	r.mu.Unlock()
	return nil
}

var _ model.Repository = (*Repository)(nil)
