package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/docstore"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kvProduct = models.Product{UserID: "u1", SellerName: "A", Name: "Sac", Price: 1, Images: []string{"a.png"}}

func TestRemoteBackendContract(t *testing.T) {
	runBackendContract(t, func(t *testing.T) Backend {
		return NewRemote(docstore.NewMemoryStore(), logging.Nop())
	})
}

func TestRemote_PasswordKeptOutOfUserNode(t *testing.T) {
	store := docstore.NewMemoryStore()
	b := NewRemote(store, logging.Nop())
	ctx := context.Background()

	u := &models.User{Name: "A", Email: "a@x.com", Password: "argon2id$s$k"}
	require.NoError(t, b.SaveUser(ctx, u))

	raw, err := store.Get(ctx, "users/"+u.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "argon2id")

	users, err := b.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users[0].Password)
}

func TestRemote_StatusUpdateIsPartialMerge(t *testing.T) {
	store := docstore.NewMemoryStore()
	b := NewRemote(store, logging.Nop())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "users/u1", []byte(`{"name":"A","email":"a@x.com","extra":"kept"}`)))
	require.NoError(t, b.UpdateUserStatus(ctx, "u1", models.StatusBanned, time.Now()))

	raw, err := store.Get(ctx, "users/u1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"extra":"kept"`)
	assert.Contains(t, string(raw), `"status":"banned"`)
}

func TestRemote_LegacyImageAndMissingStatus(t *testing.T) {
	store := docstore.NewMemoryStore()
	b := NewRemote(store, logging.Nop())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "products/k", []byte(`{"userId":"u1","name":"Pagne","image":"x.png"}`)))
	require.NoError(t, store.Set(ctx, "users/u1", []byte(`{"name":"Old","email":"old@x.com"}`)))

	products, err := b.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "k", products[0].ID)
	assert.Equal(t, []string{"x.png"}, products[0].Images)

	users, err := b.ListUsers(ctx)
	require.NoError(t, err)
	assert.True(t, users[0].CanSell(), "absent status is approved")
}

func TestRemote_SubscribeProducts(t *testing.T) {
	b := NewRemote(docstore.NewMemoryStore(), logging.Nop())
	ctx := context.Background()

	changed := make(chan struct{}, 8)
	stop, err := b.SubscribeProducts(ctx, func() { changed <- struct{}{} })
	require.NoError(t, err)
	defer stop()

	_, err = b.CreateProduct(ctx, &kvProduct)
	require.NoError(t, err)

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("no change notification")
	}
}

// failingStore fails every call.
type failingStore struct{ docstore.Store }

var errDown = errors.New("network down")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errDown }
func (failingStore) Children(context.Context, string) (map[string][]byte, []string, error) {
	return nil, nil, errDown
}
func (failingStore) Set(context.Context, string, []byte) error { return errDown }
func (failingStore) Push(context.Context, string, []byte) (string, error) {
	return "", errDown
}
func (failingStore) Listen(context.Context, string, func(string)) (func(), error) {
	return nil, errDown
}

func TestRemote_FailuresDegradeReadsAndReportWrites(t *testing.T) {
	b := NewRemote(failingStore{}, logging.Nop())
	ctx := context.Background()

	products, err := b.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	users, err := b.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = b.CreateProduct(ctx, &kvProduct)
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
	assert.ErrorIs(t, err, errDown)

	assert.ErrorIs(t, b.SaveUser(ctx, &models.User{Email: "a@x.com"}), common.ErrBackendUnavailable)
	assert.ErrorIs(t, b.DeleteProduct(ctx, "k"), common.ErrBackendUnavailable)

	_, err = b.SubscribeProducts(ctx, func() {})
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
}
