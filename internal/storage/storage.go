// Package storage is the data-access layer of the marketplace. Backend has
// two variants: Local keeps each collection as one JSON array in the kv
// store, Remote keeps one document per entity in a docstore. Records written
// by either variant decode identically.
package storage

import (
	"context"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/google/uuid"
)

const (
	NameLocal  = "local"
	NameRemote = "remote"
)

// Backend is implemented identically by Local and Remote.
//
// SaveUser creates or replaces a user by ID and assigns an ID when empty.
// UpdateUserStatus, GetProduct, UpdateProduct and DeleteProduct fail with
// common.ErrNotFound for unknown IDs. CreateProduct assigns ID and CreatedAt.
// UpdateProduct merges the patch (models.ProductPatch.Apply). PasswordHash
// returns the stored credential hash of a user.
//
// SubscribeProducts calls onChange after every change to the product
// collection; Local has no push channel and returns common.ErrNoPushChannel.
type Backend interface {
	Name() string

	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	UpdateUserStatus(ctx context.Context, id string, status models.Status, at time.Time) error
	PasswordHash(ctx context.Context, userID string) (string, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	SubscribeProducts(ctx context.Context, onChange func()) (stop func(), err error)
}

// seams for deterministic tests
var (
	now   = func() time.Time { return time.Now().UTC() }
	newID = uuid.NewString
)

// FindUserByEmail returns the user whose normalized email matches, or nil.
func FindUserByEmail(users []models.User, email string) *models.User {
	email = models.NormalizeEmail(email)
	for i := range users {
		if models.NormalizeEmail(users[i].Email) == email {
			return &users[i]
		}
	}
	return nil
}

// FindUserByID returns the user with id, or nil.
func FindUserByID(users []models.User, id string) *models.User {
	for i := range users {
		if users[i].ID == id {
			return &users[i]
		}
	}
	return nil
}

// transition applies status to u, treating approval of a banned user as an unban.
func transition(u *models.User, status models.Status, at time.Time) {
	unban := status == models.StatusApproved && u.Status == models.StatusBanned
	u.ApplyStatus(status, at, unban)
}
