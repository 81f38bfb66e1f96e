package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/userdesk/internal/constants"
	"github.com/userdesk/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Activate(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter UserListFilter) ([]models.User, int64, error)
	BlockByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UnblockByIDs(ctx context.Context, ids []string) ([]models.User, error)
	DeleteByIDs(ctx context.Context, ids []string) ([]models.User, error)
	DeleteUnverified(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (UserStats, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByID 根据 ID 获取用户，不存在时返回 nil
func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户，不存在时返回 nil
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户，邮箱冲突时返回 gorm.ErrDuplicatedKey
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// TouchLastLogin 更新最后登录时间
func (r *GormUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

// Activate 仅将未验证用户置为激活，其余状态保持不变；用户不存在时返回 nil
func (r *GormUserRepository) Activate(ctx context.Context, id string) (*models.User, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("status", gorm.Expr(
			"CASE WHEN status = ? THEN ? ELSE status END",
			constants.UserStatusUnverified,
			constants.UserStatusActive,
		))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// List 用户列表
func (r *GormUserRepository) List(ctx context.Context, filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	dialect := dbDialectName(r.db)

	status := strings.TrimSpace(filter.Status)
	if status != "" && status != constants.UserStatusFilterAll {
		query = query.Where("status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(dialect, []string{"name", "email"})
		query = query.Where(condition, repeatLikeArgs("%"+keyword+"%", argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	users := make([]models.User, 0)
	if err := query.Order(userOrderExprByDialect(dialect, filter.SortBy, filter.SortOrder)).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// BlockByIDs 封禁激活或未验证的用户，返回实际被封禁的用户
func (r *GormUserRepository) BlockByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return r.transitionStatus(ctx, ids,
		[]string{constants.UserStatusActive, constants.UserStatusUnverified},
		constants.UserStatusBlocked,
	)
}

// UnblockByIDs 解封被封禁的用户，返回实际被解封的用户
func (r *GormUserRepository) UnblockByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return r.transitionStatus(ctx, ids,
		[]string{constants.UserStatusBlocked},
		constants.UserStatusActive,
	)
}

func (r *GormUserRepository) transitionStatus(ctx context.Context, ids []string, from []string, to string) ([]models.User, error) {
	changed := make([]models.User, 0)
	if len(ids) == 0 {
		return changed, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidateIDs []string
		if err := tx.Model(&models.User{}).
			Where("id IN ? AND status IN ?", ids, from).
			Pluck("id", &candidateIDs).Error; err != nil {
			return err
		}
		if len(candidateIDs) == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).
			Where("id IN ? AND status IN ?", candidateIDs, from).
			UpdateColumn("status", to).Error; err != nil {
			return err
		}
		return tx.Where("id IN ? AND status = ?", candidateIDs, to).
			Order("email ASC").
			Find(&changed).Error
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

// DeleteByIDs 物理删除用户，返回被删除的用户
func (r *GormUserRepository) DeleteByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	deleted := make([]models.User, 0)
	if len(ids) == 0 {
		return deleted, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Order("email ASC").Find(&deleted).Error; err != nil {
			return err
		}
		if len(deleted) == 0 {
			return nil
		}
		found := make([]string, 0, len(deleted))
		for _, user := range deleted {
			found = append(found, user.ID)
		}
		return tx.Where("id IN ?", found).Delete(&models.User{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// DeleteUnverified 删除全部未验证用户
func (r *GormUserRepository) DeleteUnverified(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ?", constants.UserStatusUnverified).
		Delete(&models.User{})
	return result.RowsAffected, result.Error
}

// CountByStatus 按状态统计用户数量
func (r *GormUserRepository) CountByStatus(ctx context.Context) (UserStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return UserStats{}, err
	}

	var stats UserStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case constants.UserStatusActive:
			stats.Active = row.Count
		case constants.UserStatusUnverified:
			stats.Unverified = row.Count
		case constants.UserStatusBlocked:
			stats.Blocked = row.Count
		}
	}
	return stats, nil
}

// applyPagination 按页码与页大小截取结果，页码小于 1 时按第一页处理
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
