package middleware

import (
	"net/http"

	"github.com/coronelbarros/storefront/api/responses"
	"github.com/coronelbarros/storefront/internal/identity"
	"github.com/coronelbarros/storefront/pkg/logger"
)

// Gate enforces the route declarations of g against the identity resolved by
// Identify. Anonymous callers on a protected route get 401, signed-in callers
// without the required role get 403.
func Gate(g *identity.Gate, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if g == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Decide(identity.CurrentUser(r.Context()), r.URL.Path)
			if err := decision.Err(); err != nil {
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithField(ctx, "gate_decision", decision.String())
				}
				responses.WriteError(ctx, logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
