// Package authflow 请求鉴权流水线：按顺序执行鉴权步骤，首个失败即终止
package authflow

import (
	"context"

	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/service"
)

// State 流水线在步骤之间传递的请求状态
type State struct {
	Header string // Authorization 头原文
	Method string
	Path   string // 路由模板，例如 /api/v1/users/block
	Claims *service.TokenClaims
	User   *models.User // 数据库中的最新用户，覆盖 Token 中的声明
}

// Step 单个鉴权步骤
type Step func(ctx context.Context, st State) (State, error)

// Pipeline 有序鉴权步骤
type Pipeline struct {
	steps []Step
}

// New 创建流水线
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: append([]Step(nil), steps...)}
}

// Then 追加步骤并返回新的流水线，原流水线不变
func (p *Pipeline) Then(steps ...Step) *Pipeline {
	combined := make([]Step, 0, len(p.steps)+len(steps))
	combined = append(combined, p.steps...)
	combined = append(combined, steps...)
	return &Pipeline{steps: combined}
}

// Len 步骤数量
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Run 依次执行步骤，返回的错误总是 *response.AppError
func (p *Pipeline) Run(ctx context.Context, st State) (State, error) {
	for _, step := range p.steps {
		next, err := step(ctx, st)
		if err != nil {
			if appErr, ok := response.AsAppError(err); ok {
				return st, appErr
			}
			return st, response.WrapError(response.CodeInternal, "error.auth_failed", err)
		}
		st = next
	}
	return st, nil
}
