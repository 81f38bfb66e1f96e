package repository

import (
	"fmt"
	"strings"

	"github.com/userdesk/internal/constants"

	"gorm.io/gorm"
)

// 允许参与排序的用户列
var userSortColumns = map[string]struct{}{
	constants.UserSortByName:      {},
	constants.UserSortByEmail:     {},
	constants.UserSortByLastLogin: {},
	constants.UserSortByCreatedAt: {},
	constants.UserSortByStatus:    {},
}

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgres(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// userOrderExprByDialect 生成用户列表排序表达式。
// last_login 固定按降序且空值置后，其余列按指定方向排序，并以 id 兜底保证分页稳定。
func userOrderExprByDialect(dialect, sortBy, sortOrder string) string {
	if _, ok := userSortColumns[sortBy]; !ok {
		sortBy = constants.UserSortByLastLogin
	}
	if sortBy == constants.UserSortByLastLogin {
		if isPostgres(dialect) {
			return "last_login DESC NULLS LAST, id ASC"
		}
		// sqlite 降序时 NULL 天然排在最后
		return "last_login DESC, id ASC"
	}
	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), constants.SortOrderAsc) {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, id ASC", sortBy, direction)
}

// buildLikeCondition 构建多列 LIKE 条件，并返回参数数量。
func buildLikeCondition(dialect string, columns []string) (string, int) {
	parts := make([]string, 0, len(columns))
	operator := likeOperatorByDialect(dialect)
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", trimmed, operator))
	}
	return strings.Join(parts, " OR "), len(parts)
}

func likeOperatorByDialect(dialect string) string {
	if isPostgres(dialect) {
		return "ILIKE"
	}
	return "LIKE"
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
