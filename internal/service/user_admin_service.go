package service

import (
	"context"
	"strings"

	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultUserPageSize = 10
	maxUserPageSize     = 100
)

// StatsCache 用户统计缓存
type StatsCache interface {
	GetUserStats(ctx context.Context) (*repository.UserStats, bool, error)
	SetUserStats(ctx context.Context, stats repository.UserStats) error
	InvalidateUserStats(ctx context.Context) error
}

// UserListQuery 用户列表查询参数（未经校验的原始值）
type UserListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Status    string
	Search    string
}

// ListPagination 列表分页信息
type ListPagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalUsers  int64 `json:"totalUsers"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

// ListSorting 列表排序信息
type ListSorting struct {
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// UserListResult 用户列表结果
type UserListResult struct {
	Users      []models.User  `json:"users"`
	Pagination ListPagination `json:"pagination"`
	Sorting    ListSorting    `json:"sorting"`
}

// UserAdminService 用户管理服务
type UserAdminService struct {
	userRepo repository.UserRepository
	cache    StatsCache
}

// NewUserAdminService 创建用户管理服务
func NewUserAdminService(userRepo repository.UserRepository, cache StatsCache) *UserAdminService {
	return &UserAdminService{userRepo: userRepo, cache: cache}
}

// NormalizeListQuery 规范化分页、排序与状态筛选参数
func NormalizeListQuery(q UserListQuery) (repository.UserListFilter, ListSorting) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultUserPageSize
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxUserPageSize {
		limit = maxUserPageSize
	}

	sortBy := strings.TrimSpace(q.SortBy)
	switch sortBy {
	case constants.UserSortByName, constants.UserSortByEmail, constants.UserSortByLastLogin,
		constants.UserSortByCreatedAt, constants.UserSortByStatus:
	default:
		sortBy = constants.UserSortByLastLogin
	}
	sortOrder := constants.SortOrderDesc
	if strings.EqualFold(strings.TrimSpace(q.SortOrder), constants.SortOrderAsc) {
		sortOrder = constants.SortOrderAsc
	}

	status := strings.TrimSpace(q.Status)
	switch status {
	case constants.UserStatusActive, constants.UserStatusUnverified, constants.UserStatusBlocked:
	default:
		status = constants.UserStatusFilterAll
	}

	filter := repository.UserListFilter{
		Page:      page,
		PageSize:  limit,
		Status:    status,
		Keyword:   strings.TrimSpace(q.Search),
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
	return filter, ListSorting{SortBy: sortBy, SortOrder: strings.ToUpper(sortOrder)}
}

// BuildPagination 计算分页元数据
func BuildPagination(page, limit int, total int64) ListPagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return ListPagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalUsers:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
		Limit:       limit,
	}
}

// List 分页查询用户
func (s *UserAdminService) List(ctx context.Context, q UserListQuery) (*UserListResult, error) {
	filter, sorting := NormalizeListQuery(q)
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &UserListResult{
		Users:      users,
		Pagination: BuildPagination(filter.Page, filter.PageSize, total),
		Sorting:    sorting,
	}, nil
}

// Block 批量封禁用户，禁止封禁自己
func (s *UserAdminService) Block(ctx context.Context, actorID string, ids []string) ([]models.User, error) {
	normalized, err := normalizeUserIDs(ids)
	if err != nil {
		return nil, err
	}
	if containsID(normalized, actorID) {
		return nil, ErrSelfBlock
	}
	users, err := s.userRepo.BlockByIDs(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsersBlocked
	}
	s.invalidateStats(ctx)
	return users, nil
}

// Unblock 批量解封用户
func (s *UserAdminService) Unblock(ctx context.Context, ids []string) ([]models.User, error) {
	normalized, err := normalizeUserIDs(ids)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.UnblockByIDs(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsersUnblocked
	}
	s.invalidateStats(ctx)
	return users, nil
}

// Delete 批量物理删除用户，禁止删除自己
func (s *UserAdminService) Delete(ctx context.Context, actorID string, ids []string) ([]models.User, error) {
	normalized, err := normalizeUserIDs(ids)
	if err != nil {
		return nil, err
	}
	if containsID(normalized, actorID) {
		return nil, ErrSelfDelete
	}
	users, err := s.userRepo.DeleteByIDs(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsersDeleted
	}
	s.invalidateStats(ctx)
	return users, nil
}

// DeleteUnverified 删除全部未验证用户，返回删除数量
func (s *UserAdminService) DeleteUnverified(ctx context.Context) (int64, error) {
	count, err := s.userRepo.DeleteUnverified(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.invalidateStats(ctx)
	}
	return count, nil
}

// Stats 用户状态统计，启用缓存时优先读取缓存
func (s *UserAdminService) Stats(ctx context.Context) (repository.UserStats, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetUserStats(ctx)
		if err != nil {
			logger.Warnw("user_stats_cache_get_failed", "error", err)
		} else if ok && cached != nil {
			return *cached, nil
		}
	}

	stats, err := s.userRepo.CountByStatus(ctx)
	if err != nil {
		return repository.UserStats{}, err
	}
	if s.cache != nil {
		if err := s.cache.SetUserStats(ctx, stats); err != nil {
			logger.Warnw("user_stats_cache_set_failed", "error", err)
		}
	}
	return stats, nil
}

// InvalidateStats 用户数据变更后清理统计缓存
func (s *UserAdminService) InvalidateStats(ctx context.Context) {
	s.invalidateStats(ctx)
}

func (s *UserAdminService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUserStats(ctx); err != nil {
		logger.Warnw("user_stats_cache_invalidate_failed", "error", err)
	}
}

// normalizeUserIDs 校验 UUID 格式并去重
func normalizeUserIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, ErrUserIDsRequired
	}
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, raw := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, ErrInvalidUserID
		}
		id := parsed.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result, nil
}

func containsID(ids []string, target string) bool {
	for _, id := range ids {
		if strings.EqualFold(id, target) {
			return true
		}
	}
	return false
}
