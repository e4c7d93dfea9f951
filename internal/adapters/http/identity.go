package httpadapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
)

const (
	userIDHeader   = "X-User-Id"
	userRoleHeader = "X-User-Role"
)

type actorContextKey struct{}

func actorFromContext(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor
}

// identityMiddleware resolves the calling actor from trusted gateway
// headers. Requests without a user id are rejected before any handler
// runs.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(userIDHeader))
		if userID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user identity"})
			return
		}

		role := domain.RoleViewer
		if strings.EqualFold(strings.TrimSpace(r.Header.Get(userRoleHeader)), string(domain.RoleAdmin)) {
			role = domain.RoleAdmin
		}

		actor := domain.Actor{UserID: userID, Role: role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorContextKey{}, actor)))
	})
}

// ownerFromRequest picks the owner scope for list style endpoints. Only
// admins may look at another owner's documents.
func ownerFromRequest(r *http.Request, actor domain.Actor) string {
	owner := strings.TrimSpace(r.URL.Query().Get("owner_id"))
	if owner == "" || !actor.IsAdmin() {
		return actor.UserID
	}
	return owner
}
