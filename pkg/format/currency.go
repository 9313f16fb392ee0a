package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is the storefront's display locale.
const DefaultLocale = "pt-BR"

var (
	supportedLocales = []language.Tag{
		language.BrazilianPortuguese,
		language.AmericanEnglish,
	}
	localeMatcher = language.NewMatcher(supportedLocales)
)

// Currency renders BRL amounts for one locale. The zero value formats like
// pt-BR.
type Currency struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCurrency picks the closest supported locale for the given BCP 47 tag and
// falls back to pt-BR when nothing matches.
func NewCurrency(locale string) Currency {
	tag := supportedLocales[0]
	if parsed, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		if _, idx, confidence := localeMatcher.Match(parsed); confidence != language.No {
			tag = supportedLocales[idx]
		}
	}
	return Currency{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale returns the matched locale tag.
func (c Currency) Locale() string {
	if c.printer == nil {
		return supportedLocales[0].String()
	}
	return c.tag.String()
}

// Format renders amount with exactly two decimals, rounding half away from
// zero at the cent. Negative amounts carry a leading minus.
func (c Currency) Format(amount decimal.Decimal) string {
	p := c.printer
	if p == nil {
		p = defaultCurrency.printer
	}

	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + p.Sprintf("%v", currency.Symbol(currency.BRL.Amount(rounded.InexactFloat64())))
}

var defaultCurrency = NewCurrency(DefaultLocale)

// BRL formats amount with the default pt-BR formatter.
func BRL(amount decimal.Decimal) string {
	return defaultCurrency.Format(amount)
}
