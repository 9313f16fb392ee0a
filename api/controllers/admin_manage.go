package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coronelbarros/storefront/api/responses"
	"github.com/coronelbarros/storefront/api/validators"
	"github.com/coronelbarros/storefront/internal/catalog"
	"github.com/coronelbarros/storefront/internal/content"
	"github.com/coronelbarros/storefront/internal/identity"
	"github.com/coronelbarros/storefront/internal/promotions"
	"github.com/coronelbarros/storefront/internal/users"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/logger"
)

// dashboardResponse is the admin landing page: the inventory report plus
// headcounts from the other admin areas.
type dashboardResponse struct {
	catalog.InventoryReport
	TotalUsers       int `json:"total_users"`
	ActivePromotions int `json:"active_promotions"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type activeRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type slideRequest struct {
	Order          *int    `json:"order" validate:"omitempty,min=0"`
	IsActive       bool    `json:"is_active"`
	BackgroundURL  string  `json:"background_image" validate:"required,max=2048"`
	TagText        string  `json:"tag_text" validate:"omitempty,max=80"`
	TitlePrefix    string  `json:"title_prefix" validate:"omitempty,max=120"`
	TitleHighlight string  `json:"title_highlight" validate:"omitempty,max=120"`
	TitleSuffix    string  `json:"title_suffix" validate:"omitempty,max=120"`
	Description    string  `json:"description" validate:"omitempty,max=500"`
	PrimaryText    string  `json:"button_primary_text" validate:"omitempty,max=60"`
	PrimaryLink    string  `json:"button_primary_link" validate:"omitempty,max=2048"`
	SecondaryText  *string `json:"button_secondary_text,omitempty" validate:"omitempty,max=60"`
	SecondaryLink  *string `json:"button_secondary_link,omitempty" validate:"omitempty,max=2048"`
}

func (s slideRequest) toInput() content.SlideInput {
	return content.SlideInput{
		Position:       s.Order,
		IsActive:       s.IsActive,
		BackgroundURL:  s.BackgroundURL,
		TagText:        s.TagText,
		TitlePrefix:    s.TitlePrefix,
		TitleHighlight: s.TitleHighlight,
		TitleSuffix:    s.TitleSuffix,
		Description:    s.Description,
		PrimaryText:    s.PrimaryText,
		PrimaryLink:    s.PrimaryLink,
		SecondaryText:  s.SecondaryText,
		SecondaryLink:  s.SecondaryLink,
	}
}

type reorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type promotionRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Description     string `json:"description" validate:"omitempty,max=1000"`
	DiscountPercent int    `json:"discount_percent" validate:"min=1,max=100"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	IsActive        bool   `json:"is_active"`
	BannerURL       string `json:"banner_url" validate:"omitempty,url"`
	Category        string `json:"category"`
}

func (p promotionRequest) toInput() promotions.Input {
	return promotions.Input{
		Name:            p.Name,
		Description:     p.Description,
		DiscountPercent: p.DiscountPercent,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		IsActive:        p.IsActive,
		BannerURL:       p.BannerURL,
		Category:        p.Category,
	}
}

func AdminDashboard(products catalog.Service, people users.Service, promos promotions.Service, logg *logger.Logger, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		report, err := products.InventoryReport(ctx, now())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		totalUsers, err := people.Count(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		activePromos, err := promos.CountActive(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboardResponse{
			InventoryReport:  *report,
			TotalUsers:       totalUsers,
			ActivePromotions: activePromos,
		})
	}
}

// AdminListUsers lists every profile, newest first.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminCreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.CreateRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// AdminSetUserRole grants or revokes admin. The caller cannot demote themselves.
func AdminSetUserRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "userId")
		if !ok {
			return
		}
		var req roleRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.SetRole(r.Context(), actorID(r), id, enums.Role(req.Role))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func AdminDeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "userId")
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), actorID(r), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminListSlides includes inactive slides.
func AdminListSlides(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slides, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slides)
	}
}

func AdminCreateSlide(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req slideRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		slide, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, slide)
	}
}

func AdminUpdateSlide(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "slideId")
		if !ok {
			return
		}
		var req slideRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		slide, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slide)
	}
}

func AdminSetSlideActive(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "slideId")
		if !ok {
			return
		}
		var req activeRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		slide, err := svc.SetActive(r.Context(), id, *req.IsActive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slide)
	}
}

// AdminReorderSlides takes the full carousel order as a list of slide ids.
func AdminReorderSlides(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		slides, err := svc.Reorder(r.Context(), req.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slides)
	}
}

func AdminDeleteSlide(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "slideId")
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

func AdminListPromotions(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminCreatePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req promotionRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		promo, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promo)
	}
}

func AdminUpdatePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "promotionId")
		if !ok {
			return
		}
		var req promotionRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		promo, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promo)
	}
}

func AdminSetPromotionActive(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "promotionId")
		if !ok {
			return
		}
		var req activeRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		promo, err := svc.SetActive(r.Context(), id, *req.IsActive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promo)
	}
}

func AdminDeletePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, logg, "promotionId")
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

func pathID(w http.ResponseWriter, r *http.Request, logg *logger.Logger, param string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, param))
	if id == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "id is required"))
		return "", false
	}
	return id, true
}

func actorID(r *http.Request) string {
	if id := identity.CurrentUser(r.Context()); id != nil {
		return id.UserID
	}
	return ""
}
