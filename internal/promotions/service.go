// Package promotions manages discount campaigns shown in the admin panel.
package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coronelbarros/storefront/internal/repo"
	"github.com/coronelbarros/storefront/pkg/db/models"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"gorm.io/gorm"
)

// DateLayout is the wire format of StartDate and EndDate.
const DateLayout = "2006-01-02"

// Status is where a promotion sits relative to now.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusScheduled Status = "scheduled"
	StatusRunning   Status = "running"
	StatusExpired   Status = "expired"
)

type Promotion struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	DiscountPercent int                    `json:"discount_percent"`
	StartDate       string                 `json:"start_date"`
	EndDate         string                 `json:"end_date"`
	IsActive        bool                   `json:"is_active"`
	BannerURL       *string                `json:"banner_url,omitempty"`
	Category        *enums.ProductCategory `json:"category,omitempty"`
	Status          Status                 `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
}

// Input is every editable field. Dates use DateLayout; EndDate is inclusive.
type Input struct {
	Name            string
	Description     string
	DiscountPercent int
	StartDate       string
	EndDate         string
	IsActive        bool
	BannerURL       string
	Category        string
}

type Service interface {
	List(ctx context.Context) ([]Promotion, error)
	Create(ctx context.Context, in Input) (*Promotion, error)
	Update(ctx context.Context, id string, in Input) (*Promotion, error)
	SetActive(ctx context.Context, id string, active bool) (*Promotion, error)
	Delete(ctx context.Context, id string) error
	// CountActive is the dashboard's "active promotions" figure: switched on,
	// whatever the dates.
	CountActive(ctx context.Context) (int, error)
}

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.DB(ctx).Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

// FindByID returns (nil, nil) when no row matches.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Promotion, error) {
	var row models.Promotion
	err := r.DB(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts row, writing is_active separately when false because the
// column has a default.
func (r *Repository) Create(ctx context.Context, row *models.Promotion) error {
	active := row.IsActive
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		row.IsActive = false
		return tx.Model(&models.Promotion{}).Where("id = ?", row.ID).UpdateColumn("is_active", false).Error
	})
}

func (r *Repository) Save(ctx context.Context, row *models.Promotion) error {
	return r.DB(ctx).Save(row).Error
}

// Delete reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Promotion{})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Promotion{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

type service struct {
	promos *Repository
	now    func() time.Time
}

// NewService builds the promotions service. now defaults to time.Now.
func NewService(promos *Repository, now func() time.Time) (Service, error) {
	if promos == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{promos: promos, now: now}, nil
}

func (s *service) List(ctx context.Context) ([]Promotion, error) {
	rows, err := s.promos.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}
	today := s.today()
	out := make([]Promotion, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPromotion(row, today))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Promotion, error) {
	row := &models.Promotion{}
	if err := in.apply(row); err != nil {
		return nil, err
	}
	if err := s.promos.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}
	p := toPromotion(*row, s.today())
	return &p, nil
}

func (s *service) Update(ctx context.Context, id string, in Input) (*Promotion, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(row); err != nil {
		return nil, err
	}
	if err := s.promos.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotion")
	}
	p := toPromotion(*row, s.today())
	return &p, nil
}

func (s *service) SetActive(ctx context.Context, id string, active bool) (*Promotion, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	row.IsActive = active
	if err := s.promos.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle promotion")
	}
	p := toPromotion(*row, s.today())
	return &p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	removed, err := s.promos.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promotion")
	}
	if !removed {
		return errPromotionNotFound()
	}
	return nil
}

func (s *service) CountActive(ctx context.Context) (int, error) {
	n, err := s.promos.CountActive(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count promotions")
	}
	return int(n), nil
}

func (s *service) load(ctx context.Context, id string) (*models.Promotion, error) {
	row, err := s.promos.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	if row == nil {
		return nil, errPromotionNotFound()
	}
	return row, nil
}

func (s *service) today() time.Time {
	return day(s.now())
}

// StatusAt classifies a promotion for the calendar day containing at.
func StatusAt(active bool, start, end, at time.Time) Status {
	today := day(at)
	switch {
	case !active:
		return StatusInactive
	case today.Before(day(start)):
		return StatusScheduled
	case today.After(day(end)):
		return StatusExpired
	default:
		return StatusRunning
	}
}

func (in Input) apply(row *models.Promotion) error {
	details := map[string]any{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		details["name"] = "is required"
	}
	if in.DiscountPercent < 1 || in.DiscountPercent > 100 {
		details["discount_percent"] = "must be between 1 and 100"
	}
	start, startErr := time.Parse(DateLayout, strings.TrimSpace(in.StartDate))
	if startErr != nil {
		details["start_date"] = "must be a date like 2025-01-31"
	}
	end, endErr := time.Parse(DateLayout, strings.TrimSpace(in.EndDate))
	if endErr != nil {
		details["end_date"] = "must be a date like 2025-01-31"
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		details["end_date"] = "must not be before start_date"
	}
	var category *enums.ProductCategory
	if raw := strings.ToLower(strings.TrimSpace(in.Category)); raw != "" {
		c, err := enums.ParseProductCategory(raw)
		if err != nil || c == enums.ProductCategoryAll {
			details["category"] = "is not a product category"
		} else {
			category = &c
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid promotion").WithDetails(details)
	}

	row.Name = name
	row.Description = blankToNil(in.Description)
	row.DiscountPercent = in.DiscountPercent
	row.StartDate = start
	row.EndDate = end
	row.IsActive = in.IsActive
	row.BannerURL = blankToNil(in.BannerURL)
	row.Category = category
	return nil
}

func toPromotion(row models.Promotion, today time.Time) Promotion {
	p := Promotion{
		ID:              row.ID,
		Name:            row.Name,
		DiscountPercent: row.DiscountPercent,
		StartDate:       row.StartDate.UTC().Format(DateLayout),
		EndDate:         row.EndDate.UTC().Format(DateLayout),
		IsActive:        row.IsActive,
		BannerURL:       row.BannerURL,
		Category:        row.Category,
		Status:          StatusAt(row.IsActive, row.StartDate.UTC(), row.EndDate.UTC(), today),
		CreatedAt:       row.CreatedAt,
	}
	if row.Description != nil {
		p.Description = *row.Description
	}
	return p
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func blankToNil(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func errPromotionNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
}
