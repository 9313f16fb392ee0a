package checkout

import (
	"fmt"
	"strings"

	"github.com/coronelbarros/storefront/internal/cart"
	"github.com/coronelbarros/storefront/pkg/config"
	"github.com/coronelbarros/storefront/pkg/format"
	"github.com/shopspring/decimal"
)

// ComposedOrderMessage is the order text plus the figures it was built from.
type ComposedOrderMessage struct {
	Text     string          `json:"text"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Link     string          `json:"link"`
	WebLink  string          `json:"web_link"`
}

// Composer turns a cart snapshot and buyer form into the store's order message.
// It holds no mutable state.
type Composer struct {
	storeName string
	currency  format.Currency
	flatRate  decimal.Decimal
	minDigits int
	host      string
	phone     string
}

// NewComposer builds a composer from store settings.
func NewComposer(cfg config.StoreConfig) *Composer {
	host := strings.TrimSpace(cfg.MessagingHost)
	if host == "" {
		host = "api.whatsapp.com"
	}
	return &Composer{
		storeName: strings.TrimSpace(cfg.Name),
		currency:  format.NewCurrency(cfg.Locale),
		flatRate:  cfg.FlatRate(),
		minDigits: cfg.ShippingMinDigits,
		host:      host,
		phone:     format.Digits(cfg.WhatsAppPhone),
	}
}

// Shipping estimates the freight for a postal code.
func (c *Composer) Shipping(postalCode string) decimal.Decimal {
	return PlaceholderShippingEstimate(postalCode, c.flatRate, c.minDigits)
}

// Compose is deterministic: the same snapshot and form always yield the same
// text and link.
func (c *Composer) Compose(snapshot cart.Snapshot, form BuyerOrderForm) ComposedOrderMessage {
	subtotal := snapshot.Subtotal
	shipping := c.Shipping(form.PostalCode)
	total := subtotal.Add(shipping)

	lines := make([]string, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, fmt.Sprintf("- %s | %s | %dx %s = %s",
			line.Product.Code,
			line.Product.Name,
			line.Quantity,
			c.currency.Format(line.Product.Price),
			c.currency.Format(line.Total()),
		))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*NOVO PEDIDO - %s*\n\n", strings.ToUpper(c.storeName))
	b.WriteString("*CLIENTE:*\n")
	fmt.Fprintf(&b, "%s\nCPF: %s\nTel: %s\nEmail: %s\n\n", form.Name, form.CPF, form.Phone, form.Email)
	b.WriteString("*ENDERECO:*\n")
	b.WriteString(form.AddressLine())
	b.WriteString("\n\n*PECAS:*\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n*VALORES:*\n")
	fmt.Fprintf(&b, "Subtotal: %s\nFrete: %s\nTOTAL: %s\n\n",
		c.currency.Format(subtotal), c.currency.Format(shipping), c.currency.Format(total))
	fmt.Fprintf(&b, "*PAGAMENTO:* %s\n", form.PaymentMethod.Label())
	fmt.Fprintf(&b, "*ENTREGA:* %s", form.DeliveryMethod.Label())
	if form.Notes != "" {
		fmt.Fprintf(&b, "\n\nObs: %s", form.Notes)
	}
	b.WriteString("\n\nAguardo confirmacao!")

	text := b.String()
	return ComposedOrderMessage{
		Text:     text,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    total,
		Link:     BuildDeepLink(c.host, c.phone, text),
		WebLink:  BuildWebLink(c.phone, text),
	}
}

// BuildDeepLink returns https://<host>/send?phone=<digits>&text=<escaped>.
// The text is escaped like a browser's encodeURIComponent, so spaces become
// %20 and the message's '*' markers stay readable.
func BuildDeepLink(host, phone, text string) string {
	return "https://" + host + "/send?phone=" + format.Digits(phone) + "&text=" + escapeComponent(text)
}

// BuildWebLink is the wa.me form of the same link, used when the API host is
// unreachable from the buyer's device.
func BuildWebLink(phone, text string) string {
	return "https://wa.me/" + format.Digits(phone) + "?text=" + escapeComponent(text)
}

// escapeComponent percent-encodes every byte outside the URI component
// unreserved set (A-Z a-z 0-9 - _ . ! ~ * ' ( )).
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
