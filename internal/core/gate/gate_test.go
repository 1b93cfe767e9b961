package gate

import (
	"testing"

	"github.com/gsme/workorder-system/internal/core/domain"
)

func TestCheck_Anonymous(t *testing.T) {
	var anon Session

	if d := Check(anon, Authenticated()); d != Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %s", d)
	}
	// role check on an anonymous session must not report Forbidden
	if d := Check(anon, Role(domain.RoleAdmin)); d != Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %s", d)
	}
}

func TestCheck_RoleMismatch(t *testing.T) {
	sub := Session{Username: "alice", Role: domain.RoleSubordinate}

	if d := Check(sub, Role(domain.RoleAdmin)); d != Forbidden {
		t.Fatalf("expected Forbidden, got %s", d)
	}
	if d := Check(sub, Role(domain.RoleSubordinate)); d != Ok {
		t.Fatalf("expected Ok, got %s", d)
	}
}

func TestCheck_OrderedGuards(t *testing.T) {
	admin := Session{Username: "boss", Role: domain.RoleAdmin}

	if d := Check(admin, Authenticated(), Role(domain.RoleAdmin)); d != Ok {
		t.Fatalf("expected Ok, got %s", d)
	}
	if d := Check(admin); d != Ok {
		t.Fatalf("no guards should pass, got %s", d)
	}
}

func TestHomePath(t *testing.T) {
	admin := Session{Username: "boss", Role: domain.RoleAdmin}
	sub := Session{Username: "alice", Role: domain.RoleSubordinate}

	if admin.HomePath() != "/admin/dashboard" {
		t.Fatalf("unexpected admin home: %s", admin.HomePath())
	}
	if sub.HomePath() != "/dashboard" {
		t.Fatalf("unexpected subordinate home: %s", sub.HomePath())
	}
}
