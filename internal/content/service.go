package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coronelbarros/storefront/internal/repo"
	"github.com/coronelbarros/storefront/pkg/db/models"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"gorm.io/gorm"
)

// HeroSlide is one banner of the home carousel.
type HeroSlide struct {
	ID             string  `json:"id"`
	Position       int     `json:"order"`
	IsActive       bool    `json:"is_active"`
	BackgroundURL  string  `json:"background_image"`
	TagText        string  `json:"tag_text"`
	TitlePrefix    string  `json:"title_prefix"`
	TitleHighlight string  `json:"title_highlight"`
	TitleSuffix    string  `json:"title_suffix"`
	Description    string  `json:"description"`
	PrimaryText    string  `json:"button_primary_text"`
	PrimaryLink    string  `json:"button_primary_link"`
	SecondaryText  *string `json:"button_secondary_text,omitempty"`
	SecondaryLink  *string `json:"button_secondary_link,omitempty"`
}

// SlideInput is every editable field of a slide. A nil Position appends the
// slide after the last one.
type SlideInput struct {
	Position       *int
	IsActive       bool
	BackgroundURL  string
	TagText        string
	TitlePrefix    string
	TitleHighlight string
	TitleSuffix    string
	Description    string
	PrimaryText    string
	PrimaryLink    string
	SecondaryText  *string
	SecondaryLink  *string
}

type Service interface {
	ListActive(ctx context.Context) ([]HeroSlide, error)

	// ListAll includes inactive slides, in carousel order.
	ListAll(ctx context.Context) ([]HeroSlide, error)
	Create(ctx context.Context, in SlideInput) (*HeroSlide, error)
	Update(ctx context.Context, id string, in SlideInput) (*HeroSlide, error)
	SetActive(ctx context.Context, id string, active bool) (*HeroSlide, error)
	Delete(ctx context.Context, id string) error
	// Reorder assigns positions 0..n-1 following ids. Every slide must be
	// listed exactly once.
	Reorder(ctx context.Context, ids []string) ([]HeroSlide, error)
}

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

const carouselOrder = "position ASC, created_at ASC"

// ListActive returns active slides in carousel order.
func (r *Repository) ListActive(ctx context.Context) ([]models.HeroSlide, error) {
	var rows []models.HeroSlide
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order(carouselOrder).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListAll(ctx context.Context) ([]models.HeroSlide, error) {
	var rows []models.HeroSlide
	err := r.DB(ctx).Order(carouselOrder).Find(&rows).Error
	return rows, err
}

// FindByID returns (nil, nil) when no row matches.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.HeroSlide, error) {
	var row models.HeroSlide
	err := r.DB(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts row. is_active has a column default, so an inactive slide
// is written in a second statement.
func (r *Repository) Create(ctx context.Context, row *models.HeroSlide) error {
	active := row.IsActive
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		row.IsActive = false
		return tx.Model(&models.HeroSlide{}).Where("id = ?", row.ID).UpdateColumn("is_active", false).Error
	})
}

// Save writes every column of row.
func (r *Repository) Save(ctx context.Context, row *models.HeroSlide) error {
	return r.DB(ctx).Save(row).Error
}

// Delete reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.HeroSlide{})
	return res.RowsAffected > 0, res.Error
}

// NextPosition is one past the highest position in use.
func (r *Repository) NextPosition(ctx context.Context) (int, error) {
	var last int
	err := r.DB(ctx).Model(&models.HeroSlide{}).Select("COALESCE(MAX(position), -1)").Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// SetPositions applies positions in one transaction.
func (r *Repository) SetPositions(ctx context.Context, ids []string) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(&models.HeroSlide{}).Where("id = ?", id).UpdateColumn("position", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

type service struct {
	slides *Repository
}

func NewService(slides *Repository) (Service, error) {
	if slides == nil {
		return nil, fmt.Errorf("content repository required")
	}
	return &service{slides: slides}, nil
}

func (s *service) ListActive(ctx context.Context) ([]HeroSlide, error) {
	rows, err := s.slides.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hero slides")
	}
	return toSlides(rows), nil
}

func (s *service) ListAll(ctx context.Context) ([]HeroSlide, error) {
	rows, err := s.slides.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hero slides")
	}
	return toSlides(rows), nil
}

func (s *service) Create(ctx context.Context, in SlideInput) (*HeroSlide, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	row := &models.HeroSlide{}
	in.apply(row)
	if in.Position == nil {
		next, err := s.slides.NextPosition(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next slide position")
		}
		row.Position = next
	}
	if err := s.slides.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create hero slide")
	}
	slide := toSlide(*row)
	return &slide, nil
}

func (s *service) Update(ctx context.Context, id string, in SlideInput) (*HeroSlide, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(row)
	if err := s.slides.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update hero slide")
	}
	slide := toSlide(*row)
	return &slide, nil
}

func (s *service) SetActive(ctx context.Context, id string, active bool) (*HeroSlide, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	row.IsActive = active
	if err := s.slides.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle hero slide")
	}
	slide := toSlide(*row)
	return &slide, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	removed, err := s.slides.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete hero slide")
	}
	if !removed {
		return errSlideNotFound()
	}
	return nil
}

func (s *service) Reorder(ctx context.Context, ids []string) ([]HeroSlide, error) {
	rows, err := s.slides.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hero slides")
	}
	known := make(map[string]bool, len(rows))
	for _, row := range rows {
		known[row.ID] = false
	}
	if len(ids) != len(rows) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must list every slide exactly once")
	}
	for _, id := range ids {
		seen, ok := known[id]
		if !ok || seen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must list every slide exactly once").
				WithDetails(map[string]any{"id": id})
		}
		known[id] = true
	}

	if err := s.slides.SetPositions(ctx, ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reorder hero slides")
	}
	return s.ListAll(ctx)
}

func (s *service) load(ctx context.Context, id string) (*models.HeroSlide, error) {
	row, err := s.slides.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hero slide")
	}
	if row == nil {
		return nil, errSlideNotFound()
	}
	return row, nil
}

func (in SlideInput) validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.BackgroundURL) == "" {
		details["background_image"] = "is required"
	}
	if in.Position != nil && *in.Position < 0 {
		details["order"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid hero slide").WithDetails(details)
	}
	return nil
}

func (in SlideInput) apply(row *models.HeroSlide) {
	if in.Position != nil {
		row.Position = *in.Position
	}
	row.IsActive = in.IsActive
	row.BackgroundImage = strings.TrimSpace(in.BackgroundURL)
	row.TagText = strings.TrimSpace(in.TagText)
	row.TitlePrefix = strings.TrimSpace(in.TitlePrefix)
	row.TitleHighlight = strings.TrimSpace(in.TitleHighlight)
	row.TitleSuffix = strings.TrimSpace(in.TitleSuffix)
	row.Description = strings.TrimSpace(in.Description)
	row.PrimaryText = strings.TrimSpace(in.PrimaryText)
	row.PrimaryLink = strings.TrimSpace(in.PrimaryLink)
	row.SecondaryText = blankToNil(in.SecondaryText)
	row.SecondaryLink = blankToNil(in.SecondaryLink)
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func toSlides(rows []models.HeroSlide) []HeroSlide {
	out := make([]HeroSlide, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSlide(row))
	}
	return out
}

func toSlide(row models.HeroSlide) HeroSlide {
	return HeroSlide{
		ID:             row.ID,
		Position:       row.Position,
		IsActive:       row.IsActive,
		BackgroundURL:  row.BackgroundImage,
		TagText:        row.TagText,
		TitlePrefix:    row.TitlePrefix,
		TitleHighlight: row.TitleHighlight,
		TitleSuffix:    row.TitleSuffix,
		Description:    row.Description,
		PrimaryText:    row.PrimaryText,
		PrimaryLink:    row.PrimaryLink,
		SecondaryText:  row.SecondaryText,
		SecondaryLink:  row.SecondaryLink,
	}
}

func errSlideNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "hero slide not found")
}
