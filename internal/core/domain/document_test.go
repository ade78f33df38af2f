package domain

import (
	"encoding/json"
	"testing"
)

func TestNewDocument_SerialisesEmptyCollections(t *testing.T) {
	out, err := json.Marshal(NewDocument())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"users":[],"posts":[]}` {
		t.Fatalf("unexpected encoding: %s", out)
	}
}

func TestDocument_Normalize(t *testing.T) {
	d := &Document{}
	d.Normalize()
	if d.Users == nil || d.Posts == nil {
		t.Fatalf("collections should be non-nil after Normalize")
	}
}

func TestDocument_CloneIsIndependent(t *testing.T) {
	d := NewDocument()
	d.Users = append(d.Users, User{ID: "1", Username: "alice", Role: RoleMember})
	d.Posts = append(d.Posts, Post{ID: "p1", Title: "t"})

	c := d.Clone()
	c.Users[0].Username = "mallory"
	c.Posts = append(c.Posts, Post{ID: "p2"})

	if d.Users[0].Username != "alice" {
		t.Fatalf("clone shares user storage with original")
	}
	if len(d.Posts) != 1 {
		t.Fatalf("clone shares post storage with original")
	}
}

func TestDocument_Lookups(t *testing.T) {
	d := NewDocument()
	d.Users = append(d.Users,
		User{ID: "1", Username: "alice", Role: RoleMember},
		User{ID: "2", Username: "root", Role: RoleAdmin},
	)
	d.Posts = append(d.Posts, Post{ID: "a"}, Post{ID: "b"})

	if _, ok := d.UserByUsername("Alice"); ok {
		t.Fatalf("username lookup must be case-sensitive")
	}
	if u, ok := d.UserByUsername("alice"); !ok || u.ID != "1" {
		t.Fatalf("expected alice, got %+v", u)
	}
	if u, ok := d.UserByID("2"); !ok || u.Username != "root" {
		t.Fatalf("expected root, got %+v", u)
	}
	if !d.HasAdmin() {
		t.Fatalf("expected HasAdmin")
	}
	if d.PostIndex("b") != 1 || d.PostIndex("zzz") != -1 {
		t.Fatalf("unexpected PostIndex results")
	}
}

func TestAction_Requirement(t *testing.T) {
	cases := []struct {
		action Action
		want   Requirement
	}{
		{ActionRegister, Requirement{}},
		{ActionLogin, Requirement{}},
		{ActionListPosts, Requirement{}},
		{ActionCreatePost, Requirement{Authenticated: true}},
		{ActionDeletePost, Requirement{Authenticated: true, Role: RoleAdmin}},
		{Action(99), Requirement{Authenticated: true, Role: RoleAdmin}},
	}
	for _, tc := range cases {
		if got := tc.action.Requirement(); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.action, got, tc.want)
		}
	}
}
