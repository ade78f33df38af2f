package service

import (
	"errors"
	"testing"

	"github.com/communityboard/board/internal/core/domain"
)

func TestGate_Authorize(t *testing.T) {
	env := newTestEnv(t)
	memberToken, _, err := env.tokens.Issue("u-1", "alice", domain.RoleMember)
	if err != nil {
		t.Fatalf("issue member token: %v", err)
	}
	adminToken, _, err := env.tokens.Issue("admin-001", "root", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}

	tests := []struct {
		name   string
		action domain.Action
		token  string
		want   error
	}{
		{"list anonymous", domain.ActionListPosts, "", nil},
		{"list with garbage token", domain.ActionListPosts, "garbage", nil},
		{"register anonymous", domain.ActionRegister, "", nil},
		{"login anonymous", domain.ActionLogin, "", nil},
		{"create anonymous", domain.ActionCreatePost, "", domain.ErrUnauthenticated},
		{"create garbage token", domain.ActionCreatePost, "garbage", domain.ErrUnauthenticated},
		{"create member", domain.ActionCreatePost, memberToken, nil},
		{"create admin", domain.ActionCreatePost, adminToken, nil},
		{"delete anonymous", domain.ActionDeletePost, "", domain.ErrUnauthenticated},
		{"delete member", domain.ActionDeletePost, memberToken, domain.ErrForbidden},
		{"delete admin", domain.ActionDeletePost, adminToken, nil},
		{"unknown action member", domain.Action(99), memberToken, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := env.gate.Authorize(tt.action, tt.token)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if claims != (domain.Claims{}) {
				t.Fatalf("expected zero claims on failure, got %+v", claims)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	member := domain.Claims{UserID: "u-1", Role: domain.RoleMember}
	if err := RequireRole(member, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := RequireRole(member, domain.RoleMember); err != nil {
		t.Fatalf("expected member to pass, got %v", err)
	}
}
