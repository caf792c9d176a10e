package user

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
)

type mockRepo struct {
	mu     sync.Mutex
	users  map[int64]*User
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[int64]*User), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperror.New(apperror.Conflict, "username or email already taken")
		}
	}
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	slices.SortFunc(out, func(a, b User) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return apperror.New(apperror.NotFound, "user not found")
	}
	for id, existing := range m.users {
		if id != u.ID && (existing.Username == u.Username || existing.Email == u.Email) {
			return apperror.New(apperror.Conflict, "username or email already taken")
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperror.New(apperror.NotFound, "user not found")
	}
	delete(m.users, id)
	return nil
}

func codeOf(t *testing.T, err error) apperror.Code {
	t.Helper()
	ae, ok := apperror.From(err)
	require.True(t, ok, "expected an app error, got %v", err)
	return ae.Code()
}

func TestService_Create(t *testing.T) {
	svc := NewService(newMockRepo())

	u, err := svc.Create(context.Background(), CreateUserRequest{Username: " dina ", Email: "dina@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "dina", u.Username)
	assert.Equal(t, RoleUser, u.Role)

	_, err = svc.Create(context.Background(), CreateUserRequest{Username: "dina", Email: "other@example.com"})
	ae, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, apperror.Conflict, ae.Code())
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"short username", CreateUserRequest{Username: "ab", Email: "ab@example.com"}},
		{"blank username", CreateUserRequest{Username: "     ", Email: "ab@example.com"}},
		{"missing email", CreateUserRequest{Username: "dina"}},
		{"bad email", CreateUserRequest{Username: "dina", Email: "dina.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			ae, ok := apperror.From(err)
			require.True(t, ok)
			assert.Equal(t, apperror.BadRequest, ae.Code())
		})
	}
}

func TestService_Get(t *testing.T) {
	svc := NewService(newMockRepo())
	created, err := svc.Create(context.Background(), CreateUserRequest{Username: "dina", Email: "dina@example.com"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), GetUserRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "dina@example.com", got.Email)

	_, err = svc.Get(context.Background(), GetUserRequest{ID: 42})
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Get(context.Background(), GetUserRequest{})
	assert.Error(t, err)
}

func TestService_Create_AdminEmails(t *testing.T) {
	svc := NewService(newMockRepo(), WithAdminEmails(" Ops@Example.com ", ""))

	admin, err := svc.Create(context.Background(), CreateUserRequest{Username: "ops", Email: "ops@example.com"})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)

	regular, err := svc.Create(context.Background(), CreateUserRequest{Username: "dina", Email: "dina@example.com"})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, regular.Role)
}

func TestService_RequireAdmin(t *testing.T) {
	svc := NewService(newMockRepo(), WithAdminEmails("ops@example.com"))
	ctx := context.Background()

	admin, err := svc.Create(ctx, CreateUserRequest{Username: "ops", Email: "ops@example.com"})
	require.NoError(t, err)
	regular, err := svc.Create(ctx, CreateUserRequest{Username: "dina", Email: "dina@example.com"})
	require.NoError(t, err)

	assert.NoError(t, svc.RequireAdmin(ctx, admin.ID))
	assert.Equal(t, apperror.Forbidden, codeOf(t, svc.RequireAdmin(ctx, regular.ID)))
	assert.Equal(t, apperror.Forbidden, codeOf(t, svc.RequireAdmin(ctx, 404)))
	assert.Equal(t, apperror.Forbidden, codeOf(t, svc.RequireAdmin(ctx, 0)))
}

func TestService_AdminCreate(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	u, err := svc.AdminCreate(ctx, AdminCreateUserRequest{Username: "ops", Email: "ops@example.com", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)

	u, err = svc.AdminCreate(ctx, AdminCreateUserRequest{Username: "dina", Email: "dina@example.com"})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, u.Role, "role defaults to user")

	_, err = svc.AdminCreate(ctx, AdminCreateUserRequest{Username: "omar", Email: "omar@example.com", Role: "owner"})
	assert.Equal(t, apperror.BadRequest, codeOf(t, err))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ops", users[0].Username)
}

func TestService_Update(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	admin, err := svc.AdminCreate(ctx, AdminCreateUserRequest{Username: "ops", Email: "ops@example.com", Role: RoleAdmin})
	require.NoError(t, err)
	u, err := svc.AdminCreate(ctx, AdminCreateUserRequest{Username: "dina", Email: "dina@example.com", ProfilePicture: "https://cdn.test/d.png"})
	require.NoError(t, err)

	role := RoleAdmin
	got, err := svc.Update(ctx, UpdateUserRequest{ActorID: admin.ID, ID: u.ID, Username: ptr("  dina.k "), Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "dina.k", got.Username)
	assert.Equal(t, RoleAdmin, got.Role)
	assert.Equal(t, "dina@example.com", got.Email, "unset fields are kept")
	assert.Equal(t, "https://cdn.test/d.png", got.ProfilePicture)

	_, err = svc.Update(ctx, UpdateUserRequest{ActorID: admin.ID, ID: u.ID, Email: ptr("ops@example.com")})
	assert.Equal(t, apperror.Conflict, codeOf(t, err))

	_, err = svc.Update(ctx, UpdateUserRequest{ActorID: admin.ID, ID: 404, Username: ptr("ghost")})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Update_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	demote := RoleUser
	bogus := Role("owner")

	tests := []struct {
		name string
		req  UpdateUserRequest
	}{
		{"missing id", UpdateUserRequest{ActorID: 1}},
		{"short username", UpdateUserRequest{ActorID: 1, ID: 2, Username: ptr("ab")}},
		{"bad email", UpdateUserRequest{ActorID: 1, ID: 2, Email: ptr("nope")}},
		{"unknown role", UpdateUserRequest{ActorID: 1, ID: 2, Role: &bogus}},
		{"self demotion", UpdateUserRequest{ActorID: 1, ID: 1, Role: &demote}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tt.req)
			assert.Equal(t, apperror.BadRequest, codeOf(t, err))
		})
	}
}

func TestService_Delete(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	admin, err := svc.AdminCreate(ctx, AdminCreateUserRequest{Username: "ops", Email: "ops@example.com", Role: RoleAdmin})
	require.NoError(t, err)
	u, err := svc.AdminCreate(ctx, AdminCreateUserRequest{Username: "dina", Email: "dina@example.com"})
	require.NoError(t, err)

	assert.Equal(t, apperror.BadRequest, codeOf(t, svc.Delete(ctx, DeleteUserRequest{ActorID: admin.ID, ID: admin.ID})))

	require.NoError(t, svc.Delete(ctx, DeleteUserRequest{ActorID: admin.ID, ID: u.ID}))
	_, err = svc.Get(ctx, GetUserRequest{ID: u.ID})
	assert.True(t, apperror.IsNotFound(err))

	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, DeleteUserRequest{ActorID: admin.ID, ID: u.ID})))
}

func ptr[T any](v T) *T { return &v }
