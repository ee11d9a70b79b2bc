package mysql

import (
	"context"
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/pkg/cart/domain/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Repository struct {
	db *sqlx.DB
}

func New(dsn string) (*Repository, error) {
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mysql")
	}
	return &Repository{db: db}, nil
}

// Migrate brings the carts table up to the current schema.
func Migrate(dsn string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, "mysql://"+dsn)
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

func (r *Repository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw, "SELECT payload FROM carts WHERE cart_key = ?", key)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "load cart")
	}
	return raw, true, nil
}

func (r *Repository) Save(ctx context.Context, key string, raw []byte) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO carts (cart_key, payload) VALUES (?, ?) ON DUPLICATE KEY UPDATE payload = VALUES(payload)",
		key, raw)
	return errors.Wrap(err, "save cart")
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM carts WHERE cart_key = ?", key)
	return errors.Wrap(err, "delete cart")
}

func (r *Repository) Close() error {
	return r.db.Close()
}

var _ model.Repository = (*Repository)(nil)
