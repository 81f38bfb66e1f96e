package service

import (
	"context"
	"testing"

	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAdminUsers(t *testing.T, repo *repository.GormUserRepository, statuses ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(statuses))
	for i, status := range statuses {
		user := &models.User{
			Name:         string(rune('A' + i)),
			Email:        string(rune('a'+i)) + "@example.com",
			PasswordHash: "hash",
			Status:       status,
		}
		require.NoError(t, repo.Create(context.Background(), user))
		users = append(users, user)
	}
	return users
}

func TestNormalizeListQuery(t *testing.T) {
	filter, sorting := NormalizeListQuery(UserListQuery{})
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 10, filter.PageSize)
	assert.Equal(t, constants.UserSortByLastLogin, filter.SortBy)
	assert.Equal(t, constants.UserStatusFilterAll, filter.Status)
	assert.Equal(t, ListSorting{SortBy: "last_login", SortOrder: "DESC"}, sorting)

	filter, sorting = NormalizeListQuery(UserListQuery{Page: -2, Limit: 500, SortBy: "password_hash", SortOrder: "ASC", Status: "weird"})
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 100, filter.PageSize)
	assert.Equal(t, constants.UserSortByLastLogin, filter.SortBy)
	assert.Equal(t, constants.UserStatusFilterAll, filter.Status)
	assert.Equal(t, "ASC", sorting.SortOrder)

	filter, _ = NormalizeListQuery(UserListQuery{Limit: -5, SortBy: "email", Status: "blocked"})
	assert.Equal(t, 1, filter.PageSize)
	assert.Equal(t, "email", filter.SortBy)
	assert.Equal(t, "blocked", filter.Status)
}

func TestBuildPagination(t *testing.T) {
	assert.Equal(t, ListPagination{CurrentPage: 1, TotalPages: 3, TotalUsers: 25, HasNextPage: true, HasPrevPage: false, Limit: 10}, BuildPagination(1, 10, 25))
	assert.Equal(t, ListPagination{CurrentPage: 3, TotalPages: 3, TotalUsers: 25, HasNextPage: false, HasPrevPage: true, Limit: 10}, BuildPagination(3, 10, 25))
	assert.Equal(t, ListPagination{CurrentPage: 1, TotalPages: 0, TotalUsers: 0, Limit: 10}, BuildPagination(1, 10, 0))
}

func TestAdminList(t *testing.T) {
	repo, _ := newTestUserRepository(t)
	seedAdminUsers(t, repo, constants.UserStatusActive, constants.UserStatusBlocked, constants.UserStatusUnverified)
	svc := NewUserAdminService(repo, nil)

	result, err := svc.List(context.Background(), UserListQuery{Limit: 2, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, result.Users, 2)
	assert.Equal(t, "A", result.Users[0].Name)
	assert.Equal(t, int64(3), result.Pagination.TotalUsers)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.True(t, result.Pagination.HasNextPage)
	assert.Equal(t, "ASC", result.Sorting.SortOrder)
}

func TestAdminBlockUnblockDelete(t *testing.T) {
	repo, _ := newTestUserRepository(t)
	users := seedAdminUsers(t, repo, constants.UserStatusActive, constants.UserStatusActive, constants.UserStatusBlocked)
	cache := &fakeStatsCache{}
	svc := NewUserAdminService(repo, cache)
	ctx := context.Background()
	actor := users[0]

	_, err := svc.Block(ctx, actor.ID, nil)
	assert.ErrorIs(t, err, ErrUserIDsRequired)
	_, err = svc.Block(ctx, actor.ID, []string{"not-a-uuid"})
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = svc.Block(ctx, actor.ID, []string{users[1].ID, actor.ID})
	assert.ErrorIs(t, err, ErrSelfBlock)
	_, err = svc.Block(ctx, actor.ID, []string{users[2].ID})
	assert.ErrorIs(t, err, ErrNoUsersBlocked)

	blocked, err := svc.Block(ctx, actor.ID, []string{users[1].ID, users[1].ID})
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, constants.UserStatusBlocked, blocked[0].Status)
	assert.Equal(t, 1, cache.invalidated)

	unblocked, err := svc.Unblock(ctx, []string{users[1].ID, users[2].ID, actor.ID})
	require.NoError(t, err)
	assert.Len(t, unblocked, 2)
	_, err = svc.Unblock(ctx, []string{actor.ID})
	assert.ErrorIs(t, err, ErrNoUsersUnblocked)

	_, err = svc.Delete(ctx, actor.ID, []string{actor.ID})
	assert.ErrorIs(t, err, ErrSelfDelete)
	deleted, err := svc.Delete(ctx, actor.ID, []string{users[1].ID})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, users[1].Email, deleted[0].Email)
	_, err = svc.Delete(ctx, actor.ID, []string{users[1].ID})
	assert.ErrorIs(t, err, ErrNoUsersDeleted)
}

func TestAdminDeleteUnverifiedAndStatsCache(t *testing.T) {
	repo, _ := newTestUserRepository(t)
	seedAdminUsers(t, repo, constants.UserStatusActive, constants.UserStatusUnverified, constants.UserStatusUnverified, constants.UserStatusBlocked)
	cache := &fakeStatsCache{}
	svc := NewUserAdminService(repo, cache)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.UserStats{Total: 4, Active: 1, Unverified: 2, Blocked: 1}, stats)
	assert.Equal(t, 1, cache.sets)

	_, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second read should be served from cache")

	count, err := svc.DeleteUnverified(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, 1, cache.invalidated)

	count, err = svc.DeleteUnverified(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.UserStats{Total: 2, Active: 1, Blocked: 1}, stats)
}
