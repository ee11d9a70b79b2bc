package redis

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"storefront/pkg/cart/domain/model"
)

type Repository struct {
	client *redis.Client
}

func New(addr string) *Repository {
	return &Repository{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Repository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, cartKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "load cart")
	}
	return raw, true, nil
}

func (r *Repository) Save(ctx context.Context, key string, raw []byte) error {
	return errors.Wrap(r.client.Set(ctx, cartKey(key), raw, 0).Err(), "save cart")
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	return errors.Wrap(r.client.Del(ctx, cartKey(key)).Err(), "delete cart")
}

func (r *Repository) Close() error {
	return r.client.Close()
}

func cartKey(key string) string {
	return fmt.Sprintf("storefront:cart:%s", key)
}

var _ model.Repository = (*Repository)(nil)
