package middleware

import (
	"context"
	"errors"
	"net/http"

	"clinic-backoffice/internal/authz"
	"clinic-backoffice/pkg/response"

	"github.com/sirupsen/logrus"
)

// GrantSource resolves the current grant of a user.
type GrantSource interface {
	GrantFor(ctx context.Context, userID int64) (authz.Grant, error)
}

// PermissionMiddleware gates routes on the caller's role permissions. The
// grant is looked up on every request.
type PermissionMiddleware struct {
	catalog *authz.Catalog
	grants  GrantSource
	log     *logrus.Logger
}

func NewPermissionMiddleware(catalog *authz.Catalog, grants GrantSource, log *logrus.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		catalog: catalog,
		grants:  grants,
		log:     log,
	}
}

// Require returns a middleware that lets the request through only when the
// caller's grant satisfies mode over perms. A denied request gets 403 with
// the requirement, never the caller's own permissions.
func (m *PermissionMiddleware) Require(mode authz.Mode, perms ...string) func(http.Handler) http.Handler {
	req := authz.Requirement{Mode: mode, Permissions: perms}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			grant, err := m.grants.GrantFor(r.Context(), userID)
			if err != nil {
				if errors.Is(err, authz.ErrNoGrant) {
					response.Unauthorized(w, "Account is not available")
					return
				}
				m.log.Warnf("Failed to resolve permissions of user %d: %+v", userID, err)
				response.InternalServerError(w, "Failed to resolve permissions")
				return
			}

			if !m.catalog.Check(grant, req) {
				response.Error(w, http.StatusForbidden, "You don't have permission to access this resource", req)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny passes when the caller holds at least one of perms.
func (m *PermissionMiddleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return m.Require(authz.ModeAny, perms...)
}

// RequireAll passes when the caller holds every one of perms.
func (m *PermissionMiddleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.Require(authz.ModeAll, perms...)
}

// RequireOne passes when the caller holds perm.
func (m *PermissionMiddleware) RequireOne(perm string) func(http.Handler) http.Handler {
	return m.Require(authz.ModeOne, perm)
}
