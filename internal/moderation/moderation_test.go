package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/docstore"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/AbdoulayeSG/site-antigravi/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct{ admin bool }

func (f *fakeAuth) IsAdmin() bool { return f.admin }

func setup(t *testing.T) (*Service, storage.Backend, *fakeAuth) {
	t.Helper()
	b := storage.NewRemote(docstore.NewMemoryStore(), logging.Nop())
	a := &fakeAuth{admin: true}
	return NewService(b, a, logging.Nop()), b, a
}

func seedUser(t *testing.T, b storage.Backend, email string, status models.Status) string {
	t.Helper()
	u := &models.User{Name: email, Email: email, Status: status, Password: "argon2id$a$b"}
	require.NoError(t, b.SaveUser(context.Background(), u))
	return u.ID
}

func TestRequiresAdmin(t *testing.T) {
	s, b, a := setup(t)
	ctx := context.Background()
	id := seedUser(t, b, "a@x.com", models.StatusPending)
	a.admin = false

	_, err := s.ListUsers(ctx, FilterAll)
	assert.ErrorIs(t, err, common.ErrAdminRequired)
	assert.ErrorIs(t, s.ApproveUser(ctx, id), common.ErrAdminRequired)
	assert.ErrorIs(t, s.UnbanUser(ctx, id), common.ErrAdminRequired)
	_, err = s.BanUser(ctx, id, common.Always)
	assert.ErrorIs(t, err, common.ErrAdminRequired)
	_, err = s.ListProducts(ctx)
	assert.ErrorIs(t, err, common.ErrAdminRequired)
	_, err = s.DeleteProduct(ctx, "p", common.Always)
	assert.ErrorIs(t, err, common.ErrAdminRequired)

	users, err := b.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, users[0].Status)
}

func TestApproveBanUnban(t *testing.T) {
	s, b, _ := setup(t)
	ctx := context.Background()
	id := seedUser(t, b, "a@x.com", models.StatusPending)

	require.NoError(t, s.ApproveUser(ctx, id))
	require.NoError(t, s.ApproveUser(ctx, id), "idempotent")
	u := storage.FindUserByID(mustList(t, s, FilterAll), id)
	assert.Equal(t, models.StatusApproved, u.Status)
	assert.NotNil(t, u.ApprovedAt)

	done, err := s.BanUser(ctx, id, common.Never)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, models.StatusApproved, storage.FindUserByID(mustList(t, s, FilterAll), id).Status)

	var prompt string
	done, err = s.BanUser(ctx, id, func(p string) bool { prompt = p; return true })
	require.NoError(t, err)
	assert.True(t, done)
	assert.NotEmpty(t, prompt)
	u = storage.FindUserByID(mustList(t, s, FilterAll), id)
	assert.Equal(t, models.StatusBanned, u.Status)
	assert.NotNil(t, u.BannedAt)

	require.NoError(t, s.UnbanUser(ctx, id))
	u = storage.FindUserByID(mustList(t, s, FilterAll), id)
	assert.Equal(t, models.StatusApproved, u.Status)
	assert.NotNil(t, u.UnbannedAt)
}

func TestUnknownUser(t *testing.T) {
	s, _, _ := setup(t)
	assert.ErrorIs(t, s.ApproveUser(context.Background(), "ghost"), common.ErrNotFound)
	_, err := s.BanUser(context.Background(), "ghost", common.Always)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListUsers_Filter(t *testing.T) {
	s, b, _ := setup(t)
	ctx := context.Background()
	seedUser(t, b, "p@x.com", models.StatusPending)
	seedUser(t, b, "a@x.com", models.StatusApproved)
	seedUser(t, b, "legacy@x.com", "")
	seedUser(t, b, "b@x.com", models.StatusBanned)

	assert.Len(t, mustList(t, s, FilterAll), 4)
	assert.Len(t, mustList(t, s, FilterPending), 1)
	assert.Len(t, mustList(t, s, FilterApproved), 2, "legacy status counts as approved")
	assert.Len(t, mustList(t, s, FilterBanned), 1)

	for _, u := range mustList(t, s, FilterAll) {
		assert.Empty(t, u.Password)
	}

	counts, err := s.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.StatusApproved])

	assert.Equal(t, FilterBanned, ParseFilter("banned"))
	assert.Equal(t, FilterAll, ParseFilter("whatever"))
}

func TestAdminDeleteProduct_IgnoresOwnership(t *testing.T) {
	s, b, _ := setup(t)
	ctx := context.Background()

	p, err := b.CreateProduct(ctx, &models.Product{UserID: "someone-else", Name: "Sac"})
	require.NoError(t, err)

	done, err := s.DeleteProduct(ctx, p.ID, common.Never)
	require.NoError(t, err)
	assert.False(t, done)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	done, err = s.DeleteProduct(ctx, p.ID, common.Always)
	require.NoError(t, err)
	assert.True(t, done)

	_, err = b.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.DeleteProduct(ctx, p.ID, common.Always)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTimestampsUseClock(t *testing.T) {
	s, b, _ := setup(t)
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	s.now = func() time.Time { return at }
	id := seedUser(t, b, "a@x.com", models.StatusPending)

	require.NoError(t, s.ApproveUser(context.Background(), id))
	u := storage.FindUserByID(mustList(t, s, FilterAll), id)
	require.NotNil(t, u.ApprovedAt)
	assert.True(t, u.ApprovedAt.Equal(at))
}

func mustList(t *testing.T, s *Service, f Filter) []models.User {
	t.Helper()
	users, err := s.ListUsers(context.Background(), f)
	require.NoError(t, err)
	return users
}
