package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coronelbarros/storefront/api/middleware"
	"github.com/coronelbarros/storefront/internal/cart"
	"github.com/coronelbarros/storefront/internal/catalog"
	"github.com/coronelbarros/storefront/internal/checkout"
	"github.com/coronelbarros/storefront/pkg/config"
	"github.com/coronelbarros/storefront/pkg/enums"
	"github.com/coronelbarros/storefront/pkg/logger"
)

type stubAccessor struct {
	products []catalog.Product
}

func (s stubAccessor) ListAll(context.Context) ([]catalog.Product, error) {
	return s.products, nil
}

func (s stubAccessor) ListByCategory(_ context.Context, c enums.ProductCategory) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range s.products {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s stubAccessor) Search(_ context.Context, q string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s stubAccessor) GetByID(_ context.Context, id string) (*catalog.Product, bool, error) {
	for _, p := range s.products {
		if p.ID == id {
			p := p
			return &p, true, nil
		}
	}
	return nil, false, nil
}

var testProducts = stubAccessor{products: []catalog.Product{
	{ID: "p-motor", Code: "MOT-001", Name: "Motor AP 1.8", Price: decimal.NewFromInt(100), Category: enums.ProductCategoryMotor, Stock: 2},
	{ID: "p-freio", Code: "FRE-010", Name: "Pastilha de freio", Price: decimal.NewFromInt(50), Category: enums.ProductCategoryFreios, Stock: 4},
}}

var testStore = config.StoreConfig{
	Name:              "Coronel Barros",
	WhatsAppPhone:     "5555984069184",
	MessagingHost:     "api.whatsapp.com",
	Locale:            "pt-BR",
	ShippingFlatRate:  "35.00",
	ShippingMinDigits: 8,
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, dst any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if dst != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
	return env
}

func newRequest(method, path, body, sessionID string, params map[string]string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	ctx := req.Context()
	if sessionID != "" {
		ctx = middleware.WithCartSession(ctx, sessionID)
	}
	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for k, v := range params {
			routeCtx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return req.WithContext(ctx)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListProducts(t *testing.T) {
	logg := logger.Nop()
	h := ListProducts(testProducts, logg)

	cases := []struct {
		name   string
		query  string
		status int
		ids    []string
	}{
		{"all", "", http.StatusOK, []string{"p-motor", "p-freio"}},
		{"explicit all", "?category=all", http.StatusOK, []string{"p-motor", "p-freio"}},
		{"category", "?category=FREIOS", http.StatusOK, []string{"p-freio"}},
		{"search", "?q=motor", http.StatusOK, []string{"p-motor"}},
		{"search within category", "?q=motor&category=freios", http.StatusOK, []string{}},
		{"unknown category", "?category=rodas-de-liga", http.StatusBadRequest, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, newRequest(http.MethodGet, "/api/v1/products"+tc.query, "", "", nil))
			require.Equal(t, tc.status, rec.Code)
			if tc.ids == nil {
				return
			}
			var got []catalog.Product
			decodeEnvelope(t, rec, &got)
			ids := []string{}
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			require.Equal(t, tc.ids, ids)
		})
	}
}

func TestGetProduct(t *testing.T) {
	h := GetProduct(testProducts, logger.Nop())

	rec := serve(h, newRequest(http.MethodGet, "/api/v1/products/p-motor", "", "", map[string]string{"productId": "p-motor"}))
	require.Equal(t, http.StatusOK, rec.Code)
	var p catalog.Product
	decodeEnvelope(t, rec, &p)
	require.Equal(t, "MOT-001", p.Code)

	rec = serve(h, newRequest(http.MethodGet, "/api/v1/products/missing", "", "", map[string]string{"productId": "missing"}))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func newCartService(t *testing.T) cart.Service {
	t.Helper()
	svc, err := cart.NewService(cart.NewStore(time.Now), testProducts, nil)
	require.NoError(t, err)
	return svc
}

func TestCartEndpoints(t *testing.T) {
	logg := logger.Nop()
	svc := newCartService(t)
	session := uuid.NewString()

	rec := serve(CartAddItem(svc, logg), newRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"p-motor","quantity":2}`, session, nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(CartAddItem(svc, logg), newRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"p-freio"}`, session, nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var view cartResponse
	rec = serve(CartView(svc, logg), newRequest(http.MethodGet, "/api/v1/cart", "", session, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &view)
	require.Equal(t, 3, view.ItemCount)
	require.True(t, decimal.NewFromInt(250).Equal(view.Subtotal))
	require.Equal(t, "R$ 250,00", view.SubtotalFormatted)
	require.Len(t, view.Lines, 2)
	require.Equal(t, "R$ 200,00", view.Lines[0].LineTotalFormatted)

	rec = serve(CartUpdateItem(svc, logg), newRequest(http.MethodPatch, "/api/v1/cart/items/p-motor", `{"quantity":1}`, session, map[string]string{"productId": "p-motor"}))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &view)
	require.Equal(t, 2, view.ItemCount)

	rec = serve(CartRemoveItem(svc, logg), newRequest(http.MethodDelete, "/api/v1/cart/items/p-freio", "", session, map[string]string{"productId": "p-freio"}))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &view)
	require.Len(t, view.Lines, 1)

	rec = serve(CartClear(svc, logg), newRequest(http.MethodDelete, "/api/v1/cart", "", session, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &view)
	require.True(t, view.IsEmpty)
}

func TestCartAddUnknownProductIs404(t *testing.T) {
	rec := serve(CartAddItem(newCartService(t), logger.Nop()),
		newRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"nope","quantity":1}`, uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartWithoutSessionFailsClosed(t *testing.T) {
	rec := serve(CartView(newCartService(t), logger.Nop()), newRequest(http.MethodGet, "/api/v1/cart", "", "", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

const validOrderForm = `{
	"name":" Maria Souza ","email":"maria@example.com","cpf":"123.456.789-00",
	"phone":"(55) 99999-0000","cep":"98735-000","street":"Rua A","number":"10",
	"neighborhood":"Centro","city":"Coronel Barros","state":"",
	"payment_method":"pix","delivery_method":"shipping"
}`

func newCheckout(t *testing.T, carts cart.Service, launch checkout.LauncherFunc) checkout.Service {
	t.Helper()
	svc, err := checkout.NewService(checkout.ServiceParams{
		Carts:    carts,
		Composer: checkout.NewComposer(testStore),
		Launcher: launch,
	})
	require.NoError(t, err)
	return svc
}

func attempted(context.Context, string) (enums.HandoffStatus, error) {
	return enums.HandoffAttempted, nil
}

func TestCheckoutSubmitHandsOffAndClearsCart(t *testing.T) {
	logg := logger.Nop()
	carts := newCartService(t)
	session := uuid.NewString()
	_, err := carts.AddProduct(context.Background(), session, "p-motor", 2)
	require.NoError(t, err)

	var launched string
	svc := newCheckout(t, carts, func(ctx context.Context, link string) (enums.HandoffStatus, error) {
		launched = link
		return enums.HandoffAttempted, nil
	})

	rec := serve(CheckoutPreview(svc, logg), newRequest(http.MethodPost, "/api/v1/checkout/preview", validOrderForm, session, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var preview orderMessageResponse
	decodeEnvelope(t, rec, &preview)
	require.Equal(t, "R$ 235,00", preview.TotalFormatted)
	require.Contains(t, preview.Text, "Maria Souza")
	require.Contains(t, preview.Text, "RS")

	rec = serve(CheckoutSubmit(svc, logg), newRequest(http.MethodPost, "/api/v1/checkout", validOrderForm, session, nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var out checkoutResponse
	decodeEnvelope(t, rec, &out)
	require.Equal(t, enums.HandoffAttempted, out.Status)
	require.Equal(t, launched, out.Message.Link)
	require.True(t, strings.HasPrefix(out.Message.Link, "https://api.whatsapp.com/send?phone=5555984069184&text="))
	require.True(t, carts.View(context.Background(), session).IsEmpty())
}

func TestCheckoutSubmitErrors(t *testing.T) {
	logg := logger.Nop()

	t.Run("empty cart", func(t *testing.T) {
		svc := newCheckout(t, newCartService(t), attempted)
		rec := serve(CheckoutSubmit(svc, logg), newRequest(http.MethodPost, "/api/v1/checkout", validOrderForm, uuid.NewString(), nil))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid form", func(t *testing.T) {
		svc := newCheckout(t, newCartService(t), attempted)
		body := strings.Replace(validOrderForm, `"pix"`, `"bitcoin"`, 1)
		rec := serve(CheckoutSubmit(svc, logg), newRequest(http.MethodPost, "/api/v1/checkout", body, uuid.NewString(), nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec, nil)
		require.NotNil(t, env.Error)
		require.Contains(t, env.Error.Details, "payment_method")
	})

	t.Run("launch failure keeps cart", func(t *testing.T) {
		carts := newCartService(t)
		session := uuid.NewString()
		_, err := carts.AddProduct(context.Background(), session, "p-freio", 1)
		require.NoError(t, err)
		svc := newCheckout(t, carts, func(context.Context, string) (enums.HandoffStatus, error) {
			return "", errors.New("no handler")
		})
		rec := serve(CheckoutSubmit(svc, logg), newRequest(http.MethodPost, "/api/v1/checkout", validOrderForm, session, nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.False(t, carts.View(context.Background(), session).IsEmpty())
	})
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := serve(HealthReady(cfg, map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{}}, nil), httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "dev", rec.Header().Get(envHeader))

	rec = serve(HealthReady(cfg, map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{err: errors.New("down")}}, nil), httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	require.Equal(t, "down", env.Error.Details["redis"])

	rec = serve(HealthLive(cfg), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListCategoriesIncludesFreios(t *testing.T) {
	rec := serve(ListCategories(), httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []catalog.Category
	decodeEnvelope(t, rec, &cats)
	var found bool
	for _, c := range cats {
		if c.ID == enums.ProductCategoryFreios {
			found = true
		}
	}
	require.True(t, found)
}
