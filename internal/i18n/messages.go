package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":              "Invalid request",
		"error.missing_fields":           "Missing required fields: %s",
		"error.email_invalid":            "Invalid email format",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.password_weak":            "Password does not meet the password policy",
		"error.email_exists":             "Email already exists",
		"error.register_failed":          "Registration failed",
		"error.login_invalid":            "Invalid email or password",
		"error.account_blocked":          "Account has been blocked",
		"error.login_failed":             "Login failed",
		"error.verify_token_invalid":     "Invalid or expired verification token",
		"error.token_type_invalid":       "Invalid token type",
		"error.user_not_found":           "User not found",
		"error.verify_blocked":           "Account is blocked",
		"error.verify_failed":            "Email verification failed",
		"error.refresh_token_required":   "Refresh token required",
		"error.token_invalid":            "Invalid token",
		"error.refresh_failed":           "Token refresh failed",
		"error.access_token_required":    "Access token required",
		"error.token_expired_or_invalid": "Invalid or expired token",
		"error.user_gone":                "User no longer exists",
		"error.auth_failed":              "Authentication failed",
		"error.active_required":          "Active account required for this action",
		"error.user_ids_required":        "User IDs array required",
		"error.user_ids_invalid":         "User IDs must be valid UUIDs",
		"error.self_block":               "Cannot block your own account",
		"error.self_delete":              "Cannot delete your own account",
		"error.none_blocked":             "No users were blocked (users may already be blocked or not exist)",
		"error.none_unblocked":           "No users were unblocked (users may not be blocked or not exist)",
		"error.none_deleted":             "No users were deleted (users may not exist)",
		"error.users_list_failed":        "Failed to retrieve users",
		"error.block_failed":             "Failed to block users",
		"error.unblock_failed":           "Failed to unblock users",
		"error.delete_failed":            "Failed to delete users",
		"error.delete_unverified_failed": "Failed to delete unverified users",
		"error.stats_failed":             "Failed to retrieve user statistics",
		"error.rate_limited":             "Too many requests, please try again later",
		"error.route_not_found":          "Route not found",
		"error.method_not_allowed":       "Method not allowed",
		"error.internal":                 "Internal server error",
		"message.register_success":       "User registered successfully. Please check your email for verification.",
		"message.login_success":          "Login successful",
		"message.verify_success":         "Email verified successfully",
		"message.refresh_success":        "Token refreshed successfully",
		"message.users_retrieved":        "Users retrieved successfully",
		"message.users_blocked":          "Successfully blocked %d user(s)",
		"message.users_unblocked":        "Successfully unblocked %d user(s)",
		"message.users_deleted":          "Successfully deleted %d user(s)",
		"message.unverified_deleted":     "Successfully deleted %d unverified user(s)",
		"message.unverified_none":        "No unverified users to delete",
		"message.stats_retrieved":        "User statistics retrieved",
		"message.health_ok":              "Server is healthy",
		"message.health_degraded":        "Server is unhealthy",
		"message.api_root":               "UserDesk API",
		"email.verification.subject":     "Verify Your Email Address - %s",
		"email.verification.body":        "Hi %s,\n\nThank you for registering with %s! To complete your registration and activate your account, please verify your email address by visiting this link:\n\n%s\n\nThis verification link will expire in %d hours.\n\nIf you didn't create an account with us, you can safely ignore this email.\n\nBest regards,\nThe %s Team",
	},
	LocaleZH: {
		"error.bad_request":              "请求参数错误",
		"error.missing_fields":           "缺少必填字段: %s",
		"error.email_invalid":            "邮箱格式不正确",
		"error.password_min_length":      "密码长度至少为 %d 位",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",
		"error.password_weak":            "密码不符合密码策略",
		"error.email_exists":             "邮箱已被注册",
		"error.register_failed":          "注册失败",
		"error.login_invalid":            "邮箱或密码错误",
		"error.account_blocked":          "账号已被封禁",
		"error.login_failed":             "登录失败",
		"error.verify_token_invalid":     "验证链接无效或已过期",
		"error.token_type_invalid":       "Token 类型错误",
		"error.user_not_found":           "用户不存在",
		"error.verify_blocked":           "账号已被封禁",
		"error.verify_failed":            "邮箱验证失败",
		"error.refresh_token_required":   "缺少刷新 Token",
		"error.token_invalid":            "Token 无效",
		"error.refresh_failed":           "Token 刷新失败",
		"error.access_token_required":    "缺少访问 Token",
		"error.token_expired_or_invalid": "Token 无效或已过期",
		"error.user_gone":                "用户已不存在",
		"error.auth_failed":              "鉴权失败",
		"error.active_required":          "该操作需要已激活的账号",
		"error.user_ids_required":        "用户 ID 列表不能为空",
		"error.user_ids_invalid":         "用户 ID 格式错误",
		"error.self_block":               "不能封禁自己的账号",
		"error.self_delete":              "不能删除自己的账号",
		"error.none_blocked":             "没有用户被封禁（用户可能已被封禁或不存在）",
		"error.none_unblocked":           "没有用户被解封（用户可能未被封禁或不存在）",
		"error.none_deleted":             "没有用户被删除（用户可能不存在）",
		"error.users_list_failed":        "获取用户列表失败",
		"error.block_failed":             "封禁用户失败",
		"error.unblock_failed":           "解封用户失败",
		"error.delete_failed":            "删除用户失败",
		"error.delete_unverified_failed": "删除未验证用户失败",
		"error.stats_failed":             "获取用户统计失败",
		"error.rate_limited":             "请求过于频繁，请稍后再试",
		"error.route_not_found":          "接口不存在",
		"error.method_not_allowed":       "请求方法不允许",
		"error.internal":                 "服务器内部错误",
		"message.register_success":       "注册成功，请查收验证邮件",
		"message.login_success":          "登录成功",
		"message.verify_success":         "邮箱验证成功",
		"message.refresh_success":        "Token 刷新成功",
		"message.users_retrieved":        "获取用户列表成功",
		"message.users_blocked":          "已封禁 %d 个用户",
		"message.users_unblocked":        "已解封 %d 个用户",
		"message.users_deleted":          "已删除 %d 个用户",
		"message.unverified_deleted":     "已删除 %d 个未验证用户",
		"message.unverified_none":        "没有需要删除的未验证用户",
		"message.stats_retrieved":        "获取用户统计成功",
		"message.health_ok":              "服务运行正常",
		"message.health_degraded":        "服务异常",
		"message.api_root":               "UserDesk API",
		"email.verification.subject":     "验证您的邮箱地址 - %s",
		"email.verification.body":        "%s，您好：\n\n感谢您注册 %s！请访问以下链接完成邮箱验证并激活账号：\n\n%s\n\n该链接将在 %d 小时后失效。\n\n如果这不是您本人的操作，请忽略此邮件。\n\n%s 团队",
	},
}
