package domain

import "time"

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	UserID    string
	Username  string
	Role      Role
	ExpiresAt time.Time
}

// Action names an operation guarded by the authorization policy.
type Action int

const (
	ActionRegister Action = iota + 1
	ActionLogin
	ActionListPosts
	ActionCreatePost
	ActionDeletePost
)

func (a Action) String() string {
	switch a {
	case ActionRegister:
		return "register"
	case ActionLogin:
		return "login"
	case ActionListPosts:
		return "list_posts"
	case ActionCreatePost:
		return "create_post"
	case ActionDeletePost:
		return "delete_post"
	}
	return "unknown"
}

// Requirement describes what a caller must prove before an Action runs.
// A zero Role means any authenticated role is accepted.
type Requirement struct {
	Authenticated bool
	Role          Role
}

var policy = map[Action]Requirement{
	ActionRegister:   {},
	ActionLogin:      {},
	ActionListPosts:  {},
	ActionCreatePost: {Authenticated: true},
	ActionDeletePost: {Authenticated: true, Role: RoleAdmin},
}

// Requirement returns the policy entry for a. Unknown actions require admin.
func (a Action) Requirement() Requirement {
	if r, ok := policy[a]; ok {
		return r
	}
	return Requirement{Authenticated: true, Role: RoleAdmin}
}
