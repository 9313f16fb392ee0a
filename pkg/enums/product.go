package enums

import "fmt"

// ProductCategory groups parts on the storefront navigation.
type ProductCategory string

const (
	ProductCategoryMotor       ProductCategory = "motor"
	ProductCategoryTransmissao ProductCategory = "transmissao"
	ProductCategoryLataria     ProductCategory = "lataria"
	ProductCategorySuspensao   ProductCategory = "suspensao"
	ProductCategoryEletrica    ProductCategory = "eletrica"
	ProductCategoryInterior    ProductCategory = "interior"
	ProductCategoryFreios      ProductCategory = "freios"
)

// ProductCategoryAll is the listing filter meaning "every category". It is
// never stored on a product.
const ProductCategoryAll ProductCategory = "all"

var validProductCategories = []ProductCategory{
	ProductCategoryMotor,
	ProductCategoryTransmissao,
	ProductCategoryLataria,
	ProductCategorySuspensao,
	ProductCategoryEletrica,
	ProductCategoryInterior,
	ProductCategoryFreios,
}

var productCategoryNames = map[ProductCategory]string{
	ProductCategoryMotor:       "Motores",
	ProductCategoryTransmissao: "Caixas de Câmbio",
	ProductCategoryLataria:     "Lataria & Carroceria",
	ProductCategorySuspensao:   "Suspensão",
	ProductCategoryEletrica:    "Elétrica & Módulos",
	ProductCategoryInterior:    "Acabamento Interno",
	ProductCategoryFreios:      "Freios",
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// DisplayName returns the storefront label, or the raw slug when unknown.
func (c ProductCategory) DisplayName() string {
	if name, ok := productCategoryNames[c]; ok {
		return name
	}
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ProductCategories lists the categories in navigation order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
