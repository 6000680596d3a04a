package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/dbx"
	"github.com/AbdoulayeSG/site-antigravi/internal/kvstore"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
)

// Local stores users and products as whole JSON arrays under fixed kv keys.
// Every write is a read-modify-write of the full collection inside one
// transaction; the kv database runs on a single connection, which serialises
// concurrent writers.
type Local struct {
	db     *sql.DB
	logger logging.Logger
}

func NewLocal(db *sql.DB, logger logging.Logger) *Local {
	return &Local{db: db, logger: logger.With("module", "storage", "backend", NameLocal)}
}

func (l *Local) Name() string { return NameLocal }

func (l *Local) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if _, err := kvstore.GetJSON(ctx, kvstore.NewSQLiteRepository(l.db), kvstore.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (l *Local) SaveUser(ctx context.Context, u *models.User) error {
	return l.mutateUsers(ctx, func(users []models.User) ([]models.User, error) {
		if u.ID == "" {
			u.ID = newID()
		}
		if existing := FindUserByID(users, u.ID); existing != nil {
			*existing = *u
			return users, nil
		}
		return append(users, *u), nil
	})
}

func (l *Local) UpdateUserStatus(ctx context.Context, id string, status models.Status, at time.Time) error {
	return l.mutateUsers(ctx, func(users []models.User) ([]models.User, error) {
		u := FindUserByID(users, id)
		if u == nil {
			return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
		}
		transition(u, status, at)
		return users, nil
	})
}

func (l *Local) PasswordHash(ctx context.Context, userID string) (string, error) {
	users, err := l.ListUsers(ctx)
	if err != nil {
		return "", err
	}
	u := FindUserByID(users, userID)
	if u == nil || u.Password == "" {
		return "", fmt.Errorf("credentials of %s: %w", userID, common.ErrNotFound)
	}
	return u.Password, nil
}

func (l *Local) ListProducts(ctx context.Context) ([]models.Product, error) {
	return readProducts(ctx, kvstore.NewSQLiteRepository(l.db))
}

func (l *Local) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	products, err := l.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, common.ErrNotFound)
}

func (l *Local) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	created := *p
	created.ID = newID()
	created.CreatedAt = now()
	created.UpdatedAt = nil

	err := l.mutateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		return append(products, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (l *Local) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	var updated models.Product
	err := l.mutateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID == id {
				patch.Apply(&products[i], now())
				updated = products[i]
				return products, nil
			}
		}
		return nil, fmt.Errorf("product %s: %w", id, common.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (l *Local) DeleteProduct(ctx context.Context, id string) error {
	return l.mutateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID == id {
				return append(products[:i], products[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("product %s: %w", id, common.ErrNotFound)
	})
}

// SubscribeProducts always fails: a flat kv file has no push channel.
func (l *Local) SubscribeProducts(ctx context.Context, onChange func()) (func(), error) {
	return nil, common.ErrNoPushChannel
}

func (l *Local) mutateUsers(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	return dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kvstore.NewSQLiteRepository(tx)

		var users []models.User
		if _, err := kvstore.GetJSON(ctx, repo, kvstore.KeyUsers, &users); err != nil {
			return err
		}
		users, err := fn(users)
		if err != nil {
			return err
		}
		return kvstore.SetJSON(ctx, repo, kvstore.KeyUsers, users)
	})
}

func (l *Local) mutateProducts(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error {
	return dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kvstore.NewSQLiteRepository(tx)

		products, err := readProducts(ctx, repo)
		if err != nil {
			return err
		}
		products, err = fn(products)
		if err != nil {
			return err
		}
		return kvstore.SetJSON(ctx, repo, kvstore.KeyProducts, products)
	})
}

func readProducts(ctx context.Context, s kvstore.Store) ([]models.Product, error) {
	var products []models.Product
	if _, err := kvstore.GetJSON(ctx, s, kvstore.KeyProducts, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
