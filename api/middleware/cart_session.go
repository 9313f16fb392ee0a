package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coronelbarros/storefront/pkg/logger"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"
	cartCookieMaxAge  = 30 * 24 * time.Hour
)

type cartSessionKey struct{}

// CartSession resolves the anonymous cart id from the X-Cart-Session header or
// the cart_session cookie, minting a fresh one when neither holds a valid
// UUID. The id is echoed on the response so the client can keep it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cartSessionFromRequest(r)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(CartSessionHeader, id)
			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cartCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), cartSessionKey{}, id)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CartSessionFromContext returns the id stored by CartSession, or "".
func CartSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(cartSessionKey{}).(string)
	return id
}

// WithCartSession stores id on ctx the same way CartSession does.
func WithCartSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cartSessionKey{}, id)
}

func cartSessionFromRequest(r *http.Request) string {
	if id := normalizeSessionID(r.Header.Get(CartSessionHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(CartSessionCookie); err == nil {
		return normalizeSessionID(c.Value)
	}
	return ""
}

func normalizeSessionID(raw string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == uuid.Nil {
		return ""
	}
	return parsed.String()
}
