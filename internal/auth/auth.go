package auth

import (
	"time"
)

// Role is the single role carried by every user. The guard only ever grants
// access to roles it knows about.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleResponsable   Role = "responsable"
	RoleCollaborateur Role = "collaborateur"
)

// KnownRoles is the closed set the route guard validates against.
var KnownRoles = []Role{RoleAdmin, RoleResponsable, RoleCollaborateur}

func (r Role) Known() bool {
	for _, k := range KnownRoles {
		if r == k {
			return true
		}
	}
	return false
}

// ParseRole normalizes a stored role string; anything outside the known set
// comes back as-is with ok=false so callers can deny it.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Known()
}

// rolePermissions is the static lookup from role to permission set. Feature
// code checks permissions, not roles, so a future role only needs a row here.
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		"manage_users", "manage_salles", "approve_reservations",
		"view_all_reservations", "create_reservations", "view_dashboard",
	},
	RoleResponsable: {
		"manage_salles", "approve_reservations",
		"view_all_reservations", "create_reservations", "view_dashboard",
	},
	RoleCollaborateur: {
		"create_reservations", "view_dashboard",
	},
}

func (r Role) Permissions() []string {
	return rolePermissions[r]
}

func (r Role) Can(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

// User is the session-cached view of the authenticated account, the payload
// behind the "who am I" probe.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsResponsable() bool {
	return u.Role == RoleResponsable
}

func (u *User) Can(permission string) bool {
	return u.Role.Can(permission)
}

// Session is a server-side login session. Until login succeeds UserID is
// nil: the pre-session only exists to anchor the CSRF token.
type Session struct {
	Token     string
	CSRFToken string
	UserID    *int64
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s *Session) Authenticated() bool {
	return s.UserID != nil
}
