package checkout

import (
	"strings"

	"github.com/coronelbarros/storefront/pkg/enums"
)

// BuyerOrderForm is what the buyer fills in on the checkout page. Field
// validation happens at the HTTP boundary; the composer trusts it.
type BuyerOrderForm struct {
	Name           string               `json:"name" validate:"required,max=120"`
	Email          string               `json:"email" validate:"required,email"`
	CPF            string               `json:"cpf" validate:"required,max=20"`
	Phone          string               `json:"phone" validate:"required,max=20"`
	PostalCode     string               `json:"cep" validate:"required,max=10"`
	Street         string               `json:"street" validate:"required,max=200"`
	Number         string               `json:"number" validate:"required,max=20"`
	Complement     string               `json:"complement,omitempty" validate:"omitempty,max=120"`
	Neighborhood   string               `json:"neighborhood" validate:"required,max=120"`
	City           string               `json:"city" validate:"required,max=120"`
	State          string               `json:"state" validate:"required,len=2,alpha"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method" validate:"required,oneof=pix credit_card boleto cash"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method" validate:"required,oneof=shipping pickup"`
	Notes          string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// DefaultState is pre-selected on a fresh form.
const DefaultState = "RS"

// Normalize trims every free-text field and upper-cases the state.
func (f BuyerOrderForm) Normalize() BuyerOrderForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.CPF = strings.TrimSpace(f.CPF)
	f.Phone = strings.TrimSpace(f.Phone)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Street = strings.TrimSpace(f.Street)
	f.Number = strings.TrimSpace(f.Number)
	f.Complement = strings.TrimSpace(f.Complement)
	f.Neighborhood = strings.TrimSpace(f.Neighborhood)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.ToUpper(strings.TrimSpace(f.State))
	f.Notes = strings.TrimSpace(f.Notes)
	if f.State == "" {
		f.State = DefaultState
	}
	return f
}

// AddressLine renders the single-line delivery address used in the message.
func (f BuyerOrderForm) AddressLine() string {
	var b strings.Builder
	b.WriteString(f.Street)
	b.WriteString(", ")
	b.WriteString(f.Number)
	if f.Complement != "" {
		b.WriteString(" - ")
		b.WriteString(f.Complement)
	}
	b.WriteString(", ")
	b.WriteString(f.Neighborhood)
	b.WriteString(", ")
	b.WriteString(f.City)
	b.WriteString("/")
	b.WriteString(f.State)
	b.WriteString(" - CEP: ")
	b.WriteString(f.PostalCode)
	return b.String()
}
