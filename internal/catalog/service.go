package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coronelbarros/storefront/pkg/db/models"
	dbtypes "github.com/coronelbarros/storefront/pkg/db/types"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Accessor is the read side every storefront page depends on. A missing
// product is a normal outcome of GetByID, reported through the bool.
type Accessor interface {
	ListAll(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category enums.ProductCategory) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, bool, error)
}

// Service adds the admin-side operations on top of Accessor.
type Service interface {
	Accessor
	ListPage(ctx context.Context, params pagination.Params) (*ProductPage, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*Product, error)
	Delete(ctx context.Context, id string) error
	InventoryReport(ctx context.Context, now time.Time) (*InventoryReport, error)
}

// ProductInput is the admin form for creating or replacing a product.
type ProductInput struct {
	Code          string
	Name          string
	Brand         string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Category      enums.ProductCategory
	ImageURL      string
	Images        []string
	Description   string
	Compatibility []string
	Specs         map[string]string
	Stock         int
	IsNew         bool
}

// ProductPage is one cursor page of the admin product table.
type ProductPage struct {
	Products   []Product `json:"products"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type repository interface {
	List(ctx context.Context, category enums.ProductCategory) ([]models.Product, error)
	Page(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	Search(ctx context.Context, term string) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, row *models.Product) error
	Save(ctx context.Context, row *models.Product) error
	Delete(ctx context.Context, id string) (bool, error)
}

type service struct {
	repo repository
}

// NewService constructs the catalog service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListAll(ctx context.Context) ([]Product, error) {
	return s.list(ctx, enums.ProductCategoryAll)
}

func (s *service) ListByCategory(ctx context.Context, category enums.ProductCategory) ([]Product, error) {
	return s.list(ctx, category)
}

func (s *service) list(ctx context.Context, category enums.ProductCategory) ([]Product, error) {
	rows, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toProducts(rows), nil
}

func (s *service) ListPage(ctx context.Context, params pagination.Params) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.Page(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "page products")
	}

	page := &ProductPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Products = toProducts(rows)
	return page, nil
}

// Search returns an empty list for a blank query without hitting the store.
func (s *service) Search(ctx context.Context, query string) ([]Product, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return []Product{}, nil
	}
	rows, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return toProducts(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, nil
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if row == nil {
		return nil, false, nil
	}
	p := toProduct(*row)
	return &p, true, nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	row := &models.Product{}
	input.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	p := toProduct(*row)
	return &p, nil
}

func (s *service) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	input.apply(row)
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	p := toProduct(*row)
	return &p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) InventoryReport(ctx context.Context, now time.Time) (*InventoryReport, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	report := BuildInventoryReport(products, now)
	return &report, nil
}

func (in ProductInput) validate() error {
	details := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "is required"
	}
	if !in.Price.IsPositive() {
		details["price"] = "must be greater than zero"
	}
	if in.OriginalPrice != nil && in.OriginalPrice.LessThan(in.Price) {
		details["original_price"] = "must not be lower than price"
	}
	if !in.Category.IsValid() {
		details["category"] = "is not a known category"
	}
	if in.Stock < 0 {
		details["stock"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func (in ProductInput) apply(row *models.Product) {
	stock := in.Stock
	isNew := in.IsNew
	row.Code = optional(in.Code)
	row.Name = strings.TrimSpace(in.Name)
	row.Brand = optional(in.Brand)
	row.Price = in.Price.Round(2)
	row.OriginalPrice = nil
	if in.OriginalPrice != nil {
		op := in.OriginalPrice.Round(2)
		row.OriginalPrice = &op
	}
	row.Category = in.Category
	row.ImageURL = optional(in.ImageURL)
	row.Images = encodeImages(in.Images)
	row.Description = optional(in.Description)
	row.Compatibility = dbtypes.StringList(in.Compatibility)
	row.Specs = dbtypes.StringMap(in.Specs)
	row.Stock = &stock
	row.IsNew = &isNew
}

func toProducts(rows []models.Product) []Product {
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProduct(row))
	}
	return out
}
