package storage

import (
	"context"
	"testing"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBackendContract exercises the behaviour both variants must share.
func runBackendContract(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("users", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		u := &models.User{Name: "Aïcha", Email: "aicha@x.com", WhatsApp: "+221700000000",
			Password: "argon2id$s$k", Status: models.StatusPending, CreatedAt: time.Now().UTC()}
		require.NoError(t, b.SaveUser(ctx, u))
		require.NotEmpty(t, u.ID)

		users, err := b.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, u.ID, users[0].ID)
		assert.Equal(t, "aicha@x.com", users[0].Email)
		assert.Equal(t, models.StatusPending, users[0].Status)

		hash, err := b.PasswordHash(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "argon2id$s$k", hash)

		_, err = b.PasswordHash(ctx, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)

		u.Name = "Aïcha D."
		require.NoError(t, b.SaveUser(ctx, u))
		users, err = b.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Aïcha D.", users[0].Name)

		found := FindUserByEmail(users, "  AICHA@x.com ")
		require.NotNil(t, found)
		assert.Equal(t, u.ID, found.ID)
	})

	t.Run("user status transitions", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		err := b.UpdateUserStatus(ctx, "nobody", models.StatusApproved, time.Now())
		assert.ErrorIs(t, err, common.ErrNotFound)

		u := &models.User{Name: "B", Email: "b@x.com", Status: models.StatusPending}
		require.NoError(t, b.SaveUser(ctx, u))

		t1 := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, b.UpdateUserStatus(ctx, u.ID, models.StatusApproved, t1))
		got := FindUserByID(mustUsers(t, b), u.ID)
		assert.Equal(t, models.StatusApproved, got.Status)
		require.NotNil(t, got.ApprovedAt)
		assert.True(t, got.ApprovedAt.Equal(t1))

		t2 := t1.Add(time.Hour)
		require.NoError(t, b.UpdateUserStatus(ctx, u.ID, models.StatusBanned, t2))
		got = FindUserByID(mustUsers(t, b), u.ID)
		assert.Equal(t, models.StatusBanned, got.Status)
		require.NotNil(t, got.BannedAt)
		assert.True(t, got.BannedAt.Equal(t2))

		t3 := t2.Add(time.Hour)
		require.NoError(t, b.UpdateUserStatus(ctx, u.ID, models.StatusApproved, t3))
		got = FindUserByID(mustUsers(t, b), u.ID)
		assert.Equal(t, models.StatusApproved, got.Status)
		require.NotNil(t, got.UnbannedAt)
		assert.True(t, got.UnbannedAt.Equal(t3))
		assert.True(t, got.ApprovedAt.Equal(t1), "first approval stamp is kept")
	})

	t.Run("product round trip", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		in := &models.Product{UserID: "u1", SellerName: "Aïcha", Name: "Sac", Description: "cuir",
			Price: 15000, WhatsApp: "+221700000000", Images: []string{"a.png", "b.png"}}
		created, err := b.CreateProduct(ctx, in)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Empty(t, in.ID, "input is not mutated")

		got, err := b.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		diff := cmp.Diff(in, got, cmpopts.IgnoreFields(models.Product{}, "ID", "CreatedAt", "UpdatedAt"))
		assert.Empty(t, diff)

		updated, err := b.UpdateProduct(ctx, created.ID, models.ProductPatch{
			ProductFields: models.ProductFields{Name: "Sac rouge", Description: "cuir", Price: 12000, WhatsApp: "+221700000000"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.png", "b.png"}, updated.Images, "empty image list retains images")
		assert.Equal(t, "Aïcha", updated.SellerName)
		require.NotNil(t, updated.UpdatedAt)

		got, err = b.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sac rouge", got.Name)
		assert.Equal(t, float64(12000), got.Price)
		assert.Equal(t, []string{"a.png", "b.png"}, got.Images)

		_, err = b.UpdateProduct(ctx, created.ID, models.ProductPatch{
			ProductFields: models.ProductFields{Name: "Sac rouge", Images: []string{"c.png"}},
			SellerName:    "Aïcha D.",
		})
		require.NoError(t, err)
		got, err = b.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"c.png"}, got.Images)
		assert.Equal(t, "Aïcha D.", got.SellerName)
	})

	t.Run("product not found", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		_, err := b.GetProduct(ctx, "nope")
		assert.ErrorIs(t, err, common.ErrNotFound)
		_, err = b.UpdateProduct(ctx, "nope", models.ProductPatch{})
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.ErrorIs(t, b.DeleteProduct(ctx, "nope"), common.ErrNotFound)
	})

	t.Run("list order and delete", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		var ids []string
		for _, name := range []string{"p1", "p2", "p3"} {
			p, err := b.CreateProduct(ctx, &models.Product{UserID: "u", Name: name})
			require.NoError(t, err)
			ids = append(ids, p.ID)
		}

		products, err := b.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, []string{"p1", "p2", "p3"}, names(products))

		require.NoError(t, b.DeleteProduct(ctx, ids[1]))
		assert.ErrorIs(t, b.DeleteProduct(ctx, ids[1]), common.ErrNotFound)

		products, err = b.ListProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p3"}, names(products))
	})

	t.Run("empty collections", func(t *testing.T) {
		b := newBackend(t)
		users, err := b.ListUsers(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)

		products, err := b.ListProducts(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})
}

func mustUsers(t *testing.T, b Backend) []models.User {
	t.Helper()
	users, err := b.ListUsers(context.Background())
	require.NoError(t, err)
	return users
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}
