package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization is the route guard. Allow-lists are declared once at
// the router; handlers below a guarded group can assume the role check
// already passed.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

// RequireRoles denies with 401 when no user reached the context (missing or
// dead session) and 403 when the user's role is unknown or absent from the
// allow-list.
func (ra *RBACAuthorization) RequireRoles(allowed ...Role) func(http.Handler) http.Handler {
	allowList := make(map[Role]bool, len(allowed))
	for _, r := range allowed {
		allowList[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("route guard: user not found in context", "path", r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.Role.Known() || !allowList[user.Role] {
				ra.logger.Warn("route guard: role not allowed",
					"user_id", user.ID,
					"role", user.Role,
					"path", r.URL.Path)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission gates on an entry of the static role permission table
// instead of a role list, for routes shared by several roles.
func (ra *RBACAuthorization) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.Can(permission) {
				ra.logger.Warn("route guard: missing permission",
					"user_id", user.ID,
					"role", user.Role,
					"permission", permission)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
