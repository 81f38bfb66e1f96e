package authz

import (
	"fmt"

	"github.com/userdesk/internal/constants"
)

// StatusSeed 预置账号状态策略
type StatusSeed struct {
	Status   string
	Inherits []string
	Policies []Policy
}

// BuiltinStatusSeeds 账号状态访问矩阵，blocked 不授予任何权限
func BuiltinStatusSeeds() []StatusSeed {
	return []StatusSeed{
		{
			Status: constants.UserStatusUnverified,
			Policies: []Policy{
				{Object: "/users", Action: "GET"},
				{Object: "/users/stats", Action: "GET"},
			},
		},
		{
			Status:   constants.UserStatusActive,
			Inherits: []string{constants.UserStatusUnverified},
			Policies: []Policy{
				{Object: "/users/*", Action: "PATCH"},
				{Object: "/users/*", Action: "DELETE"},
			},
		},
	}
}

// BootstrapStatusPolicies 初始化账号状态默认策略，重复执行无副作用
func (s *Service) BootstrapStatusPolicies() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinStatusSeeds() {
		for _, parent := range seed.Inherits {
			if _, err := s.InheritStatus(seed.Status, parent); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantStatusPolicy(seed.Status, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
