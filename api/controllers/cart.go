package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/coronelbarros/storefront/api/middleware"
	"github.com/coronelbarros/storefront/api/responses"
	"github.com/coronelbarros/storefront/api/validators"
	"github.com/coronelbarros/storefront/internal/cart"
	"github.com/coronelbarros/storefront/internal/catalog"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/format"
	"github.com/coronelbarros/storefront/pkg/logger"
)

type cartLineResponse struct {
	Product            catalog.Product `json:"product"`
	Quantity           int             `json:"quantity"`
	LineTotal          decimal.Decimal `json:"line_total"`
	LineTotalFormatted string          `json:"line_total_formatted"`
	UnitPriceFormatted string          `json:"unit_price_formatted"`
}

type cartResponse struct {
	SessionID         string             `json:"session_id"`
	Lines             []cartLineResponse `json:"lines"`
	ItemCount         int                `json:"item_count"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	SubtotalFormatted string             `json:"subtotal_formatted"`
	IsEmpty           bool               `json:"is_empty"`
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"max=9999"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"max=9999"`
}

func newCartResponse(sessionID string, snap cart.Snapshot) cartResponse {
	lines := make([]cartLineResponse, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		total := l.Total()
		lines = append(lines, cartLineResponse{
			Product:            l.Product,
			Quantity:           l.Quantity,
			LineTotal:          total,
			LineTotalFormatted: format.BRL(total),
			UnitPriceFormatted: format.BRL(l.Product.Price),
		})
	}
	return cartResponse{
		SessionID:         sessionID,
		Lines:             lines,
		ItemCount:         snap.ItemCount,
		Subtotal:          snap.Subtotal,
		SubtotalFormatted: format.BRL(snap.Subtotal),
		IsEmpty:           snap.IsEmpty(),
	}
}

// cartSession fails closed when the CartSession middleware is not mounted.
func cartSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	id := middleware.CartSessionFromContext(r.Context())
	if id == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
		return "", false
	}
	return id, true
}

func CartView(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, svc.View(r.Context(), sessionID)))
	}
}

// CartAddItem adds a product by id. A missing or non-positive quantity adds one unit.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.AddProduct(r.Context(), sessionID, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(sessionID, snap))
	}
}

// CartUpdateItem sets a line's quantity; zero or less removes the line.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		productID, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap := svc.UpdateQuantity(r.Context(), sessionID, productID, payload.Quantity)
		responses.WriteSuccess(w, newCartResponse(sessionID, snap))
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		productID, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, svc.Remove(r.Context(), sessionID, productID)))
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newCartResponse(sessionID, svc.Clear(r.Context(), sessionID)))
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "productId"))
	if id == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
		return "", false
	}
	return id, true
}
