package repository

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page      int
	PageSize  int
	Status    string // 空或 all 表示不过滤
	Keyword   string
	SortBy    string
	SortOrder string
}

// UserStats 用户状态统计
type UserStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Unverified int64 `json:"unverified"`
	Blocked    int64 `json:"blocked"`
}
