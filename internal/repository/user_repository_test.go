package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserRepositoryTest(t *testing.T) (*GormUserRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite failed")
	require.NoError(t, models.Migrate(db), "migrate users failed")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewUserRepository(db), db
}

func seedUser(t *testing.T, repo *GormUserRepository, name, email, status string, lastLogin *time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Status:       status,
		LastLogin:    lastLogin,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestCreateAssignsUUIDAndNormalizesEmail(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	user := seedUser(t, repo, "  Alice ", " Alice@Example.COM ", constants.UserStatusUnverified, nil)
	assert.Len(t, user.ID, 36)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)

	found, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateDuplicateEmailTranslatesError(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	seedUser(t, repo, "A", "dup@example.com", constants.UserStatusActive, nil)

	err := repo.Create(context.Background(), &models.User{Name: "B", Email: "DUP@example.com", PasswordHash: "h", Status: constants.UserStatusUnverified})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "want duplicated key, got %v", err)
}

func TestActivateOnlyPromotesUnverified(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	pending := seedUser(t, repo, "P", "p@example.com", constants.UserStatusUnverified, nil)
	blocked := seedUser(t, repo, "B", "b@example.com", constants.UserStatusBlocked, nil)

	activated, err := repo.Activate(ctx, pending.ID)
	require.NoError(t, err)
	require.NotNil(t, activated)
	assert.Equal(t, constants.UserStatusActive, activated.Status)

	again, err := repo.Activate(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusActive, again.Status)

	stillBlocked, err := repo.Activate(ctx, blocked.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UserStatusBlocked, stillBlocked.Status)

	gone, err := repo.Activate(ctx, "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestListSortsLastLoginWithNullsLast(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()
	now := time.Now().UTC()
	older := now.Add(-time.Hour)

	seedUser(t, repo, "Never", "never@example.com", constants.UserStatusActive, nil)
	seedUser(t, repo, "Old", "old@example.com", constants.UserStatusActive, &older)
	seedUser(t, repo, "Recent", "recent@example.com", constants.UserStatusBlocked, &now)

	users, total, err := repo.List(ctx, UserListFilter{Page: 1, PageSize: 10, SortBy: "last_login", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"recent@example.com", "old@example.com", "never@example.com"},
		[]string{users[0].Email, users[1].Email, users[2].Email})

	users, total, err = repo.List(ctx, UserListFilter{Page: 1, PageSize: 10, SortBy: "name", SortOrder: "asc", Status: constants.UserStatusActive})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Never", users[0].Name)
	assert.Equal(t, "Old", users[1].Name)

	users, total, err = repo.List(ctx, UserListFilter{Page: 2, PageSize: 2, SortBy: "email", SortOrder: "asc", Status: constants.UserStatusFilterAll})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "recent@example.com", users[0].Email)

	users, total, err = repo.List(ctx, UserListFilter{Page: 1, PageSize: 10, Keyword: "rec"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "recent@example.com", users[0].Email)
}

func TestBlockUnblockTransitions(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	active := seedUser(t, repo, "A", "a@example.com", constants.UserStatusActive, nil)
	pending := seedUser(t, repo, "U", "u@example.com", constants.UserStatusUnverified, nil)
	blocked := seedUser(t, repo, "B", "b@example.com", constants.UserStatusBlocked, nil)

	changed, err := repo.BlockByIDs(ctx, []string{active.ID, pending.ID, blocked.ID, "ghost"})
	require.NoError(t, err)
	require.Len(t, changed, 2)
	for _, user := range changed {
		assert.Equal(t, constants.UserStatusBlocked, user.Status)
	}

	again, err := repo.BlockByIDs(ctx, []string{active.ID})
	require.NoError(t, err)
	assert.Empty(t, again)

	unblocked, err := repo.UnblockByIDs(ctx, []string{active.ID, pending.ID})
	require.NoError(t, err)
	require.Len(t, unblocked, 2)
	for _, user := range unblocked {
		assert.Equal(t, constants.UserStatusActive, user.Status)
	}
}

func TestDeleteByIDsAndUnverified(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	a := seedUser(t, repo, "A", "a@example.com", constants.UserStatusActive, nil)
	seedUser(t, repo, "U1", "u1@example.com", constants.UserStatusUnverified, nil)
	seedUser(t, repo, "U2", "u2@example.com", constants.UserStatusUnverified, nil)

	deleted, err := repo.DeleteByIDs(ctx, []string{a.ID, "ghost"})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, a.Email, deleted[0].Email)

	count, err := repo.DeleteUnverified(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = repo.DeleteUnverified(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestCountByStatus(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	seedUser(t, repo, "A", "a@example.com", constants.UserStatusActive, nil)
	seedUser(t, repo, "B", "b@example.com", constants.UserStatusActive, nil)
	seedUser(t, repo, "C", "c@example.com", constants.UserStatusUnverified, nil)
	seedUser(t, repo, "D", "d@example.com", constants.UserStatusBlocked, nil)

	stats, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, UserStats{Total: 4, Active: 2, Unverified: 1, Blocked: 1}, stats)
}

func TestTouchLastLogin(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()
	user := seedUser(t, repo, "A", "a@example.com", constants.UserStatusActive, nil)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastLogin(ctx, user.ID, at))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLogin)
	assert.True(t, found.LastLogin.Equal(at), "want %v got %v", at, *found.LastLogin)
}
