package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func runCartSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	h := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestCartSessionMintsIDWhenMissing(t *testing.T) {
	seen, rec := runCartSession(t, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	require.Equal(t, seen, rec.Header().Get(CartSessionHeader))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CartSessionCookie, cookies[0].Name)
	require.Equal(t, seen, cookies[0].Value)
}

func TestCartSessionPrefersHeaderOverCookie(t *testing.T) {
	headerID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CartSessionHeader, headerID)
	req.AddCookie(&http.Cookie{Name: CartSessionCookie, Value: uuid.NewString()})

	seen, _ := runCartSession(t, req)
	require.Equal(t, headerID, seen)
}

func TestCartSessionFallsBackToCookie(t *testing.T) {
	cookieID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CartSessionHeader, "not-a-uuid")
	req.AddCookie(&http.Cookie{Name: CartSessionCookie, Value: cookieID})

	seen, _ := runCartSession(t, req)
	require.Equal(t, cookieID, seen)
}

func TestCartSessionReplacesInvalidIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CartSessionHeader, uuid.Nil.String())

	seen, _ := runCartSession(t, req)
	require.NotEqual(t, uuid.Nil.String(), seen)
	require.NotEmpty(t, seen)
}
