package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/docstore"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
)

const (
	pathUsers       = "users"
	pathProducts    = "products"
	pathCredentials = "credentials"
)

type credential struct {
	Hash string `json:"hash"`
}

// Remote maps users to users/<id> and products to products/<key> nodes.
// Credential hashes live under credentials/<id>, outside the user document.
// List reads that fail are logged and degrade to an empty result; write
// failures are reported as common.ErrBackendUnavailable.
type Remote struct {
	store  docstore.Store
	logger logging.Logger
}

func NewRemote(store docstore.Store, logger logging.Logger) *Remote {
	return &Remote{store: store, logger: logger.With("module", "storage", "backend", NameRemote)}
}

func (r *Remote) Name() string { return NameRemote }

func (r *Remote) ListUsers(ctx context.Context) ([]models.User, error) {
	children, keys, err := r.store.Children(ctx, pathUsers)
	if err != nil {
		r.logger.Error(ctx, "list users failed", "error", err)
		return []models.User{}, nil
	}

	users := make([]models.User, 0, len(keys))
	for _, k := range keys {
		var u models.User
		if err := json.Unmarshal(children[k], &u); err != nil {
			r.logger.Warn(ctx, "skipping undecodable user", "id", k, "error", err)
			continue
		}
		u.ID = k
		users = append(users, u)
	}
	return users, nil
}

func (r *Remote) SaveUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}

	doc := *u
	doc.Password = ""
	if err := r.setJSON(ctx, docstore.Join(pathUsers, u.ID), doc); err != nil {
		return err
	}
	if u.Password != "" {
		if err := r.setJSON(ctx, docstore.Join(pathCredentials, u.ID), credential{Hash: u.Password}); err != nil {
			return err
		}
	}
	return nil
}

// UpdateUserStatus merges only the status and its timestamp into the user node.
func (r *Remote) UpdateUserStatus(ctx context.Context, id string, status models.Status, at time.Time) error {
	path := docstore.Join(pathUsers, id)

	var u models.User
	if err := r.getJSON(ctx, path, &u); err != nil {
		return err
	}
	prior := u.Status
	transition(&u, status, at)

	fields := map[string]any{"status": u.Status}
	switch {
	case status == models.StatusBanned:
		fields["bannedAt"] = u.BannedAt
	case status == models.StatusApproved && prior == models.StatusBanned:
		fields["unbannedAt"] = u.UnbannedAt
	case status == models.StatusApproved:
		fields["approvedAt"] = u.ApprovedAt
	}

	if err := r.store.Update(ctx, path, fields); err != nil {
		return r.unavailable("update user status", err)
	}
	return nil
}

func (r *Remote) PasswordHash(ctx context.Context, userID string) (string, error) {
	var c credential
	if err := r.getJSON(ctx, docstore.Join(pathCredentials, userID), &c); err != nil {
		return "", err
	}
	return c.Hash, nil
}

func (r *Remote) ListProducts(ctx context.Context) ([]models.Product, error) {
	children, keys, err := r.store.Children(ctx, pathProducts)
	if err != nil {
		r.logger.Error(ctx, "list products failed", "error", err)
		return []models.Product{}, nil
	}

	products := make([]models.Product, 0, len(keys))
	for _, k := range keys {
		var p models.Product
		if err := json.Unmarshal(children[k], &p); err != nil {
			r.logger.Warn(ctx, "skipping undecodable product", "id", k, "error", err)
			continue
		}
		p.ID = k
		products = append(products, p)
	}
	return products, nil
}

func (r *Remote) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.getJSON(ctx, docstore.Join(pathProducts, id), &p); err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (r *Remote) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	created := *p
	created.ID = ""
	created.CreatedAt = now()
	created.UpdatedAt = nil

	raw, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	key, err := r.store.Push(ctx, pathProducts, raw)
	if err != nil {
		return nil, r.unavailable("create product", err)
	}
	created.ID = key
	return &created, nil
}

func (r *Remote) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	p, err := r.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p, now())

	doc := *p
	doc.ID = ""
	if err := r.setJSON(ctx, docstore.Join(pathProducts, id), doc); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Remote) DeleteProduct(ctx context.Context, id string) error {
	path := docstore.Join(pathProducts, id)
	raw, err := r.store.Get(ctx, path)
	if err != nil {
		return r.unavailable("delete product", err)
	}
	if raw == nil {
		return fmt.Errorf("product %s: %w", id, common.ErrNotFound)
	}
	if err := r.store.Remove(ctx, path); err != nil {
		return r.unavailable("delete product", err)
	}
	return nil
}

func (r *Remote) SubscribeProducts(ctx context.Context, onChange func()) (func(), error) {
	stop, err := r.store.Listen(ctx, pathProducts, func(path string) {
		r.logger.Debug(ctx, "product change", "path", path)
		onChange()
	})
	if err != nil {
		return nil, r.unavailable("subscribe products", err)
	}
	return stop, nil
}

func (r *Remote) getJSON(ctx context.Context, path string, dst any) error {
	raw, err := r.store.Get(ctx, path)
	if err != nil {
		return r.unavailable("get "+path, err)
	}
	if raw == nil {
		return fmt.Errorf("%s: %w", path, common.ErrNotFound)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (r *Remote) setJSON(ctx context.Context, path string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := r.store.Set(ctx, path, raw); err != nil {
		return r.unavailable("set "+path, err)
	}
	return nil
}

func (r *Remote) unavailable(op string, err error) error {
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrBackendUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrBackendUnavailable, err)
}
