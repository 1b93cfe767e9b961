// Package gate implements the authorization check invoked at the start of
// every protected operation. Instead of nesting handler wrappers, callers
// compose a small ordered list of guards and get back a typed decision.
package gate

import "github.com/gsme/workorder-system/internal/core/domain"

// Decision is the outcome of an authorization check.
type Decision int

const (
	Ok Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Ok:
		return "ok"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// Session is the authenticated identity supplied by the request layer.
// A zero Session is anonymous.
type Session struct {
	Username string
	Role     string
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s Session) Authenticated() bool {
	return s.Username != "" && s.Role != ""
}

// HomePath is where a wrong-role caller is sent instead of an error page.
func (s Session) HomePath() string {
	if s.Role == domain.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

// Guard checks one condition against a session.
type Guard func(Session) Decision

// Authenticated requires a logged-in session.
func Authenticated() Guard {
	return func(s Session) Decision {
		if !s.Authenticated() {
			return Unauthenticated
		}
		return Ok
	}
}

// Role requires the session to hold exactly the given role. It implies an
// authentication check: an anonymous caller gets Unauthenticated, never
// Forbidden.
func Role(role string) Guard {
	return func(s Session) Decision {
		if !s.Authenticated() {
			return Unauthenticated
		}
		if s.Role != role {
			return Forbidden
		}
		return Ok
	}
}

// Check evaluates guards in order and returns the first non-Ok decision.
func Check(s Session, guards ...Guard) Decision {
	for _, g := range guards {
		if d := g(s); d != Ok {
			return d
		}
	}
	return Ok
}
