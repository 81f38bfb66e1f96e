package admin

import (
	handlershared "github.com/userdesk/internal/http/handlers/shared"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// UserIDsRequest 批量操作请求
type UserIDsRequest struct {
	UserIDs []string `json:"userIds"`
}

// bindUserIDs 解析批量用户 ID，请求体非法时按缺少 ID 处理
func bindUserIDs(c *gin.Context) ([]string, bool) {
	var req UserIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.user_ids_required", nil)
		return nil, false
	}
	return req.UserIDs, true
}

// ListUsers 分页查询用户
func (h *Handler) ListUsers(c *gin.Context) {
	result, err := h.UserAdminService.List(c.Request.Context(), service.UserListQuery{
		Page:      handlershared.QueryInt(c, "page", 1),
		Limit:     handlershared.QueryInt(c, "limit", 0),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.users_list_failed", err)
		return
	}
	response.Success(c, handlershared.T(c, "message.users_retrieved"), result)
}

// BlockUsers 批量封禁用户
func (h *Handler) BlockUsers(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	ids, ok := bindUserIDs(c)
	if !ok {
		return
	}

	users, err := h.UserAdminService.Block(c.Request.Context(), actor.ID, ids)
	if err != nil {
		respondWithMappedError(c, err, blockErrorRules, "error.block_failed")
		return
	}
	requestLog(c).Infow("users_blocked", "actor_id", actor.ID, "count", len(users))
	response.Success(c, handlershared.T(c, "message.users_blocked", len(users)), gin.H{
		"blockedUsers": users,
	})
}

// UnblockUsers 批量解封用户
func (h *Handler) UnblockUsers(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	ids, ok := bindUserIDs(c)
	if !ok {
		return
	}

	users, err := h.UserAdminService.Unblock(c.Request.Context(), ids)
	if err != nil {
		respondWithMappedError(c, err, unblockErrorRules, "error.unblock_failed")
		return
	}
	requestLog(c).Infow("users_unblocked", "actor_id", actor.ID, "count", len(users))
	response.Success(c, handlershared.T(c, "message.users_unblocked", len(users)), gin.H{
		"unblockedUsers": users,
	})
}

// DeleteUsers 批量删除用户
func (h *Handler) DeleteUsers(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	ids, ok := bindUserIDs(c)
	if !ok {
		return
	}

	users, err := h.UserAdminService.Delete(c.Request.Context(), actor.ID, ids)
	if err != nil {
		respondWithMappedError(c, err, deleteErrorRules, "error.delete_failed")
		return
	}
	requestLog(c).Infow("users_deleted", "actor_id", actor.ID, "count", len(users))
	response.Success(c, handlershared.T(c, "message.users_deleted", len(users)), gin.H{
		"deletedCount": len(users),
		"deletedUsers": users,
	})
}

// DeleteUnverifiedUsers 删除全部未验证用户
func (h *Handler) DeleteUnverifiedUsers(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	count, err := h.UserAdminService.DeleteUnverified(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.delete_unverified_failed", err)
		return
	}
	if count == 0 {
		response.Success(c, handlershared.T(c, "message.unverified_none"), nil)
		return
	}
	requestLog(c).Infow("unverified_users_deleted", "actor_id", actor.ID, "count", count)
	response.Success(c, handlershared.T(c, "message.unverified_deleted", count), gin.H{
		"deletedCount": count,
	})
}

// UserStats 用户状态统计
func (h *Handler) UserStats(c *gin.Context) {
	stats, err := h.UserAdminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.stats_failed", err)
		return
	}
	response.Success(c, handlershared.T(c, "message.stats_retrieved"), gin.H{
		"stats": stats,
	})
}
