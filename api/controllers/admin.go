package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coronelbarros/storefront/api/responses"
	"github.com/coronelbarros/storefront/api/validators"
	"github.com/coronelbarros/storefront/internal/catalog"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/logger"
	"github.com/coronelbarros/storefront/pkg/pagination"
)

type productRequest struct {
	Code          string            `json:"code" validate:"omitempty,max=40"`
	Name          string            `json:"name" validate:"required,max=200"`
	Brand         string            `json:"brand" validate:"omitempty,max=80"`
	Price         decimal.Decimal   `json:"price"`
	OriginalPrice *decimal.Decimal  `json:"original_price,omitempty"`
	Category      string            `json:"category" validate:"required"`
	ImageURL      string            `json:"image_url" validate:"omitempty,url"`
	Images        []string          `json:"images" validate:"omitempty,dive,url"`
	Description   string            `json:"description" validate:"omitempty,max=4000"`
	Compatibility []string          `json:"compatibility" validate:"omitempty,dive,max=120"`
	Specs         map[string]string `json:"specs"`
	Stock         int               `json:"stock" validate:"gte=0"`
	IsNew         bool              `json:"is_new"`
}

func (p productRequest) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Code:          p.Code,
		Name:          p.Name,
		Brand:         p.Brand,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      enums.ProductCategory(strings.ToLower(strings.TrimSpace(p.Category))),
		ImageURL:      p.ImageURL,
		Images:        p.Images,
		Description:   p.Description,
		Compatibility: p.Compatibility,
		Specs:         p.Specs,
		Stock:         p.Stock,
		IsNew:         p.IsNew,
	}
}

// AdminInventoryReport serves the admin dashboard aggregates.
func AdminInventoryReport(svc catalog.Service, logg *logger.Logger, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.InventoryReport(r.Context(), now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// AdminListProducts pages through the full catalog with ?limit= and ?cursor=.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := pagination.Params{Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = limit
		}
		page, err := svc.ListPage(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct replaces every editable field of a product.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
