package constants

// 用户状态常量
const (
	UserStatusUnverified = "unverified"
	UserStatusActive     = "active"
	UserStatusBlocked    = "blocked"
)

// 用户列表状态筛选：全部
const UserStatusFilterAll = "all"

// Token 用途常量
const (
	TokenPurposeSession      = "session"
	TokenPurposeVerification = "verification"
)

// 用户列表排序字段
const (
	UserSortByName      = "name"
	UserSortByEmail     = "email"
	UserSortByLastLogin = "last_login"
	UserSortByCreatedAt = "created_at"
	UserSortByStatus    = "status"
)

// 排序方向
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务名称常量
const (
	TaskVerificationEmail = "user:verification_email"
)

// 请求上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeyAuthUser  = "auth_user"
	ContextKeyUserID    = "user_id"
)

// 运行环境
const (
	ServerModeDebug   = "debug"
	ServerModeRelease = "release"
)

// AppVersion 接口版本
const AppVersion = "1.0.0"
