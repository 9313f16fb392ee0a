package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coronelbarros/storefront/api/responses"
	"github.com/coronelbarros/storefront/api/validators"
	"github.com/coronelbarros/storefront/internal/catalog"
	"github.com/coronelbarros/storefront/internal/content"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/logger"
)

const maxSearchLen = 100

func ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, catalog.ListCategories())
	}
}

// ListProducts serves the catalog grid. ?q= searches, ?category= narrows;
// both may be combined.
func ListProducts(svc catalog.Accessor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		category := enums.ProductCategoryAll
		if raw := strings.ToLower(validators.SanitizeString(query.Get("category"), 32)); raw != "" && raw != string(enums.ProductCategoryAll) {
			parsed, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			category = parsed
		}
		term := validators.SanitizeString(query.Get("q"), maxSearchLen)

		var (
			products []catalog.Product
			err      error
		)
		switch {
		case term != "":
			products, err = svc.Search(r.Context(), term)
			if err == nil && category != enums.ProductCategoryAll {
				products = filterCategory(products, category)
			}
		case category != enums.ProductCategoryAll:
			products, err = svc.ListByCategory(r.Context(), category)
		default:
			products, err = svc.ListAll(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if products == nil {
			products = []catalog.Product{}
		}
		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc catalog.Accessor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "productId"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}
		product, ok, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ListHeroSlides(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}
		slides, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if slides == nil {
			slides = []content.HeroSlide{}
		}
		responses.WriteSuccess(w, slides)
	}
}

func filterCategory(products []catalog.Product, category enums.ProductCategory) []catalog.Product {
	out := products[:0:0]
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
