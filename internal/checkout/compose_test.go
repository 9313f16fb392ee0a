package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/coronelbarros/storefront/internal/cart"
	"github.com/coronelbarros/storefront/internal/catalog"
	"github.com/coronelbarros/storefront/pkg/config"
	"github.com/coronelbarros/storefront/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{
		Name:              "Coronel Barros",
		WhatsAppPhone:     "5555984069184",
		MessagingHost:     "api.whatsapp.com",
		Locale:            "pt-BR",
		ShippingFlatRate:  "35.00",
		ShippingMinDigits: 8,
	}
}

func testSnapshot() cart.Snapshot {
	c := cart.New()
	c.Add(catalog.Product{ID: "p1", Code: "MOT-001", Name: "Motor AP 1.8", Price: decimal.RequireFromString("100.00")}, 2)
	c.Add(catalog.Product{ID: "p2", Code: "FRE-010", Name: "Pastilha de freio", Price: decimal.RequireFromString("50.00")}, 1)
	return c.Snapshot()
}

func testForm() BuyerOrderForm {
	return BuyerOrderForm{
		Name:           "Maria Souza",
		Email:          "maria@example.com",
		CPF:            "123.456.789-00",
		Phone:          "(55) 98406-9184",
		PostalCode:     "98735-000",
		Street:         "Rua Principal",
		Number:         "100",
		Complement:     "Fundos",
		Neighborhood:   "Centro",
		City:           "Coronel Barros",
		State:          "RS",
		PaymentMethod:  enums.PaymentMethodPix,
		DeliveryMethod: enums.DeliveryMethodShipping,
		Notes:          "Entregar pela manha",
	}
}

func TestComposeRendersOrderMessage(t *testing.T) {
	msg := NewComposer(testStoreConfig()).Compose(testSnapshot(), testForm())

	want := "*NOVO PEDIDO - CORONEL BARROS*\n\n" +
		"*CLIENTE:*\n" +
		"Maria Souza\n" +
		"CPF: 123.456.789-00\n" +
		"Tel: (55) 98406-9184\n" +
		"Email: maria@example.com\n\n" +
		"*ENDERECO:*\n" +
		"Rua Principal, 100 - Fundos, Centro, Coronel Barros/RS - CEP: 98735-000\n\n" +
		"*PECAS:*\n" +
		"- MOT-001 | Motor AP 1.8 | 2x R$ 100,00 = R$ 200,00\n" +
		"- FRE-010 | Pastilha de freio | 1x R$ 50,00 = R$ 50,00\n\n" +
		"*VALORES:*\n" +
		"Subtotal: R$ 250,00\n" +
		"Frete: R$ 35,00\n" +
		"TOTAL: R$ 285,00\n\n" +
		"*PAGAMENTO:* PIX\n" +
		"*ENTREGA:* Envio\n\n" +
		"Obs: Entregar pela manha\n\n" +
		"Aguardo confirmacao!"

	require.Equal(t, want, msg.Text)
	require.True(t, msg.Subtotal.Equal(decimal.RequireFromString("250.00")))
	require.True(t, msg.Shipping.Equal(decimal.RequireFromString("35.00")))
	require.True(t, msg.Total.Equal(decimal.RequireFromString("285.00")))
}

func TestComposeOmitsOptionalParts(t *testing.T) {
	form := testForm()
	form.Complement = ""
	form.Notes = ""
	form.PaymentMethod = enums.PaymentMethodCash
	form.DeliveryMethod = enums.DeliveryMethodPickup

	text := NewComposer(testStoreConfig()).Compose(testSnapshot(), form).Text

	require.Contains(t, text, "Rua Principal, 100, Centro, Coronel Barros/RS - CEP: 98735-000")
	require.NotContains(t, text, "Obs:")
	require.True(t, strings.HasSuffix(text, "*PAGAMENTO:* Dinheiro\n*ENTREGA:* Retirada\n\nAguardo confirmacao!"))
}

func TestComposeIsDeterministic(t *testing.T) {
	composer := NewComposer(testStoreConfig())
	first := composer.Compose(testSnapshot(), testForm())
	second := composer.Compose(testSnapshot(), testForm())
	require.Equal(t, first, second)
}

func TestComposeLinksDecodeToText(t *testing.T) {
	msg := NewComposer(testStoreConfig()).Compose(testSnapshot(), testForm())

	require.True(t, strings.HasPrefix(msg.Link, "https://api.whatsapp.com/send?phone=5555984069184&text="))
	u, err := url.Parse(msg.Link)
	require.NoError(t, err)
	require.Equal(t, msg.Text, u.Query().Get("text"))

	require.True(t, strings.HasPrefix(msg.WebLink, "https://wa.me/5555984069184?text="))
	w, err := url.Parse(msg.WebLink)
	require.NoError(t, err)
	require.Equal(t, msg.Text, w.Query().Get("text"))
}

func TestBuildDeepLinkEscapesLikeURIComponent(t *testing.T) {
	link := BuildDeepLink("api.whatsapp.com", "+55 (55) 98406-9184", "*Olá* a+b & c=d!")
	require.Equal(t,
		"https://api.whatsapp.com/send?phone=5555984069184&text=*Ol%C3%A1*%20a%2Bb%20%26%20c%3Dd!",
		link)
	require.NotContains(t, link, "+")
}

func TestPlaceholderShippingEstimate(t *testing.T) {
	rate := decimal.RequireFromString("35.00")
	cases := []struct {
		cep  string
		want string
	}{
		{"98735000", "35"},
		{"98735-000", "35"},
		{"9873500", "0"},
		{"98735-00", "0"},
		{"", "0"},
		{"abcdefgh", "0"},
	}
	for _, tc := range cases {
		got := PlaceholderShippingEstimate(tc.cep, rate, 8)
		require.True(t, got.Equal(decimal.RequireFromString(tc.want)), "%q => %s", tc.cep, got)
	}
	require.True(t, PlaceholderShippingEstimate("98735000", rate, 0).Equal(rate))
}

func TestComposeWithoutPostalCodeHasNoShipping(t *testing.T) {
	form := testForm()
	form.PostalCode = "987"
	msg := NewComposer(testStoreConfig()).Compose(testSnapshot(), form)
	require.True(t, msg.Total.Equal(decimal.RequireFromString("250.00")))
	require.Contains(t, msg.Text, "Frete: R$ 0,00\n")
}

func TestNormalizeDefaultsState(t *testing.T) {
	form := BuyerOrderForm{Name: "  Ana ", State: " "}.Normalize()
	require.Equal(t, "Ana", form.Name)
	require.Equal(t, DefaultState, form.State)

	require.Equal(t, "SC", BuyerOrderForm{State: "sc"}.Normalize().State)
}
