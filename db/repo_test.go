package db

import (
	"context"
	"testing"
	"time"

	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string, admin bool) *models.User {
	return &models.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: email,
		IsAdmin:     admin,
	}
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	u := newUser("  Nurse@Hospital.ORG ", false)
	require.NoError(t, r.CreateUser(ctx, u))

	got, err := r.FindUserByEmail(ctx, "NURSE@hospital.org")
	require.NoError(t, err)
	assert.Equal(t, "nurse@hospital.org", got.Email)
}

func TestCountAdminsAndSetAdmin(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	u := newUser("a@h.org", false)
	require.NoError(t, r.CreateUser(ctx, u))

	n, err := r.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	require.NoError(t, r.SetUserAdmin(ctx, u.ID, true))
	n, err = r.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestListUsersSearch(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	for _, e := range []string{"alice@h.org", "bob@h.org", "carol@other.org"} {
		require.NoError(t, r.CreateUser(ctx, newUser(e, false)))
	}

	res, err := r.ListUsers(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total)

	res, err = r.ListUsers(ctx, "ALICE", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "alice@h.org", res.Users[0].Email)

	// 分页越界给空页,不报错
	res, err = r.ListUsers(ctx, "", 5, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total)
	assert.Empty(t, res.Users)
}

func TestDeleteUserRemovesCredentials(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	u := newUser("a@h.org", false)
	require.NoError(t, r.CreateUser(ctx, u))
	require.NoError(t, r.AddCredential(ctx, &models.Credential{
		UserID:       u.ID,
		CredentialID: []byte("cred-1"),
		PublicKey:    []byte("pk"),
	}))

	require.NoError(t, r.DeleteUserByID(ctx, u.ID))

	_, err := r.FindUserByEmail(ctx, "a@h.org")
	assert.Error(t, err)
	cs, err := r.LoadUserCredentials(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cs)
}

func TestInviteLifecycle(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	inv, err := r.CreateInvite(ctx, "New@H.org", "tok-1", time.Now().Add(24*time.Hour), "admin@h.org")
	require.NoError(t, err)
	assert.Equal(t, "new@h.org", inv.Email)

	got, err := r.GetInviteByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, got.UsedAt)

	require.NoError(t, r.MarkInviteUsed(ctx, "tok-1"))
	got, err = r.GetInviteByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.NotNil(t, got.UsedAt)

	// 一次性:用过的令牌不能再标记
	assert.Error(t, r.MarkInviteUsed(ctx, "tok-1"))
	assert.Error(t, r.MarkInviteUsed(ctx, "no-such-token"))
}
