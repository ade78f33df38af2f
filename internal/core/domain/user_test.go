package domain

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":  RoleAdmin,
		"member": RoleMember,
		"user":   RoleMember,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %v, want %v", in, got, want)
		}
	}

	for _, bad := range []string{"", "Admin", "root", "guest"} {
		if _, err := ParseRole(bad); err == nil {
			t.Fatalf("ParseRole(%q) expected error", bad)
		}
	}
}

func TestRole_MarshalText_RejectsZero(t *testing.T) {
	var r Role
	if _, err := r.MarshalText(); err == nil {
		t.Fatalf("expected error marshalling zero role")
	}
}

func TestUser_JSONRoundTrip(t *testing.T) {
	raw := []byte(`{"id":"u1","name":"Old","username":"old","passwordHash":"h","role":"user"}`)

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Role != RoleMember {
		t.Fatalf("legacy role should decode as member, got %v", u.Role)
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(out, &m)
	if m["role"] != "member" {
		t.Fatalf("expected role to be written as member, got %v", m["role"])
	}
	if m["passwordHash"] != "h" {
		t.Fatalf("passwordHash not persisted: %v", m)
	}
}

func TestUser_UnmarshalUnknownRole(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":"x","role":"superuser"}`), &u); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
