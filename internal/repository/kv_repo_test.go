package repository_test

import (
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/consts"
	"WorkUs/internal/pkg/kvstore"
	"WorkUs/internal/pkg/util"
	"WorkUs/internal/repository"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupKV(t *testing.T) (kvstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return kvstore.NewRedisStore(rdb, consts.KVPrefix), mr
}

func TestOverrideRepoEmptyTables(t *testing.T) {
	store, _ := setupKV(t)
	repo := repository.NewOverrideRepo(store)

	tables, err := repo.Tables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables.Roles)
	assert.Empty(t, tables.Full)
	assert.Empty(t, tables.Deleted)
	assert.NotNil(t, tables.Roles)
}

func TestOverrideRepoDualKeyedRole(t *testing.T) {
	store, _ := setupKV(t)
	repo := repository.NewOverrideRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.PutRole(ctx, util.UserKeys("u1", "A@x.com"), model.RoleModerator))

	tables, err := repo.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, tables.Roles["u1"])
	assert.Equal(t, model.RoleModerator, tables.Roles["a@x.com"])
}

func TestOverrideRepoDropsInvalidAndMalformed(t *testing.T) {
	store, mr := setupKV(t)
	repo := repository.NewOverrideRepo(store)
	require.NoError(t, mr.Set(consts.KVPrefix+consts.RoleOverridesKey, `{"u1":"root","u2":"Admin"}`))
	require.NoError(t, mr.Set(consts.KVPrefix+consts.FullOverridesKey, `not-json`))
	require.NoError(t, mr.Set(consts.KVPrefix+consts.DeletedUsersKey, `{"u3":false,"u4":true}`))

	tables, err := repo.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RoleOverrides{"u2": model.RoleAdmin}, tables.Roles)
	assert.Empty(t, tables.Full)
	assert.Equal(t, model.DeletionMarkers{"u4": true}, tables.Deleted)
}

func TestOverrideRepoFullMergesPatches(t *testing.T) {
	store, _ := setupKV(t)
	repo := repository.NewOverrideRepo(store)
	ctx := context.Background()
	keys := util.UserKeys("u1", "a@x.com")

	require.NoError(t, repo.PutFull(ctx, keys, model.FullOverride{Username: util.Ptr("alice")}))
	require.NoError(t, repo.PutFull(ctx, keys, model.FullOverride{IsActive: util.Ptr(false)}))

	tables, err := repo.Tables(ctx)
	require.NoError(t, err)
	for _, k := range keys {
		o := tables.Full[k]
		require.NotNil(t, o.Username)
		require.NotNil(t, o.IsActive)
		assert.Equal(t, "alice", *o.Username)
		assert.False(t, *o.IsActive)
		assert.Nil(t, o.Role)
	}
}

func TestOverrideRepoDeleteAndClear(t *testing.T) {
	store, _ := setupKV(t)
	repo := repository.NewOverrideRepo(store)
	ctx := context.Background()
	keys := util.UserKeys("u1", "a@x.com")

	require.NoError(t, repo.PutRole(ctx, keys, model.RoleAdmin))
	require.NoError(t, repo.PutFull(ctx, keys, model.FullOverride{Username: util.Ptr("x")}))
	require.NoError(t, repo.PutRole(ctx, []string{"u2"}, model.RoleCreator))
	require.NoError(t, repo.MarkDeleted(ctx, keys))
	require.NoError(t, repo.ClearOverrides(ctx, keys))

	tables, err := repo.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOverrides{"u2": model.RoleCreator}, tables.Roles)
	assert.Empty(t, tables.Full)
	assert.True(t, tables.Deleted["u1"])
	assert.True(t, tables.Deleted["a@x.com"])
}

func TestRegisteredUserRepoPatchAndRemove(t *testing.T) {
	store, mr := setupKV(t)
	repo := repository.NewRegisteredUserRepo(store)
	ctx := context.Background()
	require.NoError(t, mr.Set(consts.KVPrefix+consts.RegisteredUsersKey,
		`[{"id":"l1","email":"A@x.com","username":"a","role":"user"},{"id":"l2","email":"b@x.com","username":"b","role":"user"}]`))

	hit, err := repo.PatchUser(ctx, "", "a@x.com", model.FullOverride{Role: util.Ptr(model.RoleCreator)})
	require.NoError(t, err)
	assert.True(t, hit)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.RoleCreator, users[0].Role)
	assert.Equal(t, model.RoleUser, users[1].Role)

	hit, err = repo.RemoveUser(ctx, "l2", "")
	require.NoError(t, err)
	assert.True(t, hit)
	hit, err = repo.RemoveUser(ctx, "missing", "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, hit)

	users, err = repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "l1", users[0].ID)
}

func TestAdminStatsRepoDefaults(t *testing.T) {
	store, _ := setupKV(t)
	repo := repository.NewAdminStatsRepo(store)
	ctx := context.Background()

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsers)

	stats.TotalUsers = 12
	stats.NewUsersThisWeek = 3
	require.NoError(t, repo.SaveStats(ctx, stats))

	got, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, got.TotalUsers)
	assert.Equal(t, 3, got.NewUsersThisWeek)
}
