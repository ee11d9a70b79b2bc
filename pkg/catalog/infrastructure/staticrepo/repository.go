package staticrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"storefront/pkg/catalog/domain/model"
)

// Repository serves an immutable product list loaded at construction time.
// An optional delay simulates a slow upstream on List, honouring context
// cancellation.
type Repository struct {
	products []model.Product
	byID     map[int]model.Product
	delay    time.Duration
}

func New(products []model.Product, delay time.Duration) (*Repository, error) {
	byID := make(map[int]model.Product, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product %d %q: %w", p.ID, p.Name, err)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("product %d %q: %w: duplicate id", p.ID, p.Name, model.ErrInvalidProduct)
		}
		byID[p.ID] = p
	}
	return &Repository{products: products, byID: byID, delay: delay}, nil
}

func NewFromFile(path string, delay time.Duration) (*Repository, error) {
	products, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(products, delay)
}

// LoadFile parses a catalog file without validating it, so callers can
// report every offending product rather than the first.
func LoadFile(path string) ([]model.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, errors.Wrap(err, "parse catalog file")
	}
	return products, nil
}

func (r *Repository) List(ctx context.Context) ([]model.Product, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *Repository) Find(ctx context.Context, id int) (*model.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return &p, nil
}

func (r *Repository) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(r.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ model.ProductRepository = (*Repository)(nil)
