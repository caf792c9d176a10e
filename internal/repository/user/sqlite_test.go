package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
	"github.com/ahmethakanbesel/jobtracker-api/internal/platform/sqlite"
	domain "github.com/ahmethakanbesel/jobtracker-api/internal/user"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCreate_And_Get(t *testing.T) {
	repo := NewRepository(setupTestDB(t).DB)
	ctx := context.Background()

	u := &domain.User{Username: "dina", Email: "dina@example.com", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dina", got.Username)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.Empty(t, got.ProfilePicture)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreate_Duplicate(t *testing.T) {
	repo := NewRepository(setupTestDB(t).DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "dina", Email: "dina@example.com", Role: domain.RoleUser}))

	err := repo.Create(ctx, &domain.User{Username: "dina", Email: "other@example.com", Role: domain.RoleUser})
	ae, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, apperror.Conflict, ae.Code())
}

func TestGet_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t).DB)

	_, err := repo.Get(context.Background(), 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList(t *testing.T) {
	repo := NewRepository(setupTestDB(t).DB)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "dina", Email: "dina@example.com", Role: domain.RoleAdmin}))
	require.NoError(t, repo.Create(ctx, &domain.User{Username: "omar", Email: "omar@example.com", Role: domain.RoleUser, ProfilePicture: "https://cdn.test/omar.png"}))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "dina", users[0].Username)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.Equal(t, "https://cdn.test/omar.png", users[1].ProfilePicture)
}

func TestUpdate(t *testing.T) {
	repo := NewRepository(setupTestDB(t).DB)
	ctx := context.Background()

	u := &domain.User{Username: "dina", Email: "dina@example.com", Role: domain.RoleUser, ProfilePicture: "https://cdn.test/d.png"}
	require.NoError(t, repo.Create(ctx, u))

	u.Username = "dina.k"
	u.Role = domain.RoleAdmin
	u.ProfilePicture = ""
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dina.k", got.Username)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Empty(t, got.ProfilePicture)
	assert.Equal(t, "dina@example.com", got.Email)
}

func TestUpdate_ConflictAndNotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t).DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "dina", Email: "dina@example.com", Role: domain.RoleUser}))
	omar := &domain.User{Username: "omar", Email: "omar@example.com", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, omar))

	omar.Email = "dina@example.com"
	ae, ok := apperror.From(repo.Update(ctx, omar))
	require.True(t, ok)
	assert.Equal(t, apperror.Conflict, ae.Code())

	ghost := &domain.User{ID: 99, Username: "ghost", Email: "ghost@example.com", Role: domain.RoleUser}
	assert.True(t, apperror.IsNotFound(repo.Update(ctx, ghost)))
}

func TestDelete(t *testing.T) {
	repo := NewRepository(setupTestDB(t).DB)
	ctx := context.Background()

	u := &domain.User{Username: "dina", Email: "dina@example.com", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err := repo.Get(ctx, u.ID)
	assert.True(t, apperror.IsNotFound(err))

	assert.True(t, apperror.IsNotFound(repo.Delete(ctx, u.ID)))
}
