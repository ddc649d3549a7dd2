package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jason-govender/salesflow-api/internal/auth"
)

// OwnerFilterMiddleware scopes list queries for callers whose only role is
// sales rep: they see opportunities they own. Managers and admins see
// everything. This is data scoping, not authorization; single-record reads
// are unaffected.
type OwnerFilterMiddleware struct {
	logger *zap.Logger
}

func NewOwnerFilterMiddleware(logger *zap.Logger) *OwnerFilterMiddleware {
	return &OwnerFilterMiddleware{logger: logger}
}

// Filter sets the effective owner filter on the request context
func (m *OwnerFilterMiddleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := auth.FromContext(r.Context())
		if !ok {
			// Authentication middleware rejects unauthenticated requests;
			// nothing to scope here.
			next.ServeHTTP(w, r)
			return
		}

		if userCtx.IsSalesRepOnly() {
			ctx := auth.WithOwnerFilter(r.Context(), userCtx.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		next.ServeHTTP(w, r)
	})
}
