package format

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBRL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.5", "R$ 1.234,50"},
		{"0", "R$ 0,00"},
		{"35", "R$ 35,00"},
		{"999.999", "R$ 1.000,00"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"0.005", "R$ 0,01"},
		{"-12.5", "-R$ 12,50"},
		{"-0.001", "R$ 0,00"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, BRL(decimal.RequireFromString(tc.in)), "input %s", tc.in)
	}
}

func TestNewCurrencyLocaleMatching(t *testing.T) {
	us := NewCurrency("en-US")
	require.Equal(t, "en-US", us.Locale())
	formatted := us.Format(decimal.RequireFromString("1234.5"))
	require.True(t, strings.HasPrefix(formatted, "R$"), formatted)
	require.Contains(t, formatted, "1,234.50")

	require.Equal(t, "R$ 10,00", NewCurrency("pt").Format(decimal.NewFromInt(10)))
	require.Equal(t, "R$ 10,00", NewCurrency("not a tag!").Format(decimal.NewFromInt(10)))
	require.Equal(t, "R$ 10,00", Currency{}.Format(decimal.NewFromInt(10)))
	require.Equal(t, "pt-BR", Currency{}.Locale())
	require.Equal(t, "pt-BR", NewCurrency("xx-invalid-").Locale())
}

func TestMaskPhone(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"abc":               "",
		"5":                 "(5",
		"55":                "(55",
		"559":               "(55) 9",
		"559840":            "(55) 9840",
		"5598406":           "(55) 9840-6",
		"5533334444":        "(55) 3333-4444",
		"55984069184":       "(55) 98406-9184",
		"(55) 98406-918499": "(55) 98406-9184",
	}
	for in, want := range cases {
		require.Equal(t, want, MaskPhone(in), "input %q", in)
	}
}

func TestMaskCEP(t *testing.T) {
	cases := map[string]string{
		"":            "",
		"987":         "987",
		"98735":       "98735",
		"987350":      "98735-0",
		"98735000":    "98735-000",
		"98735-000":   "98735-000",
		"9873500012":  "98735-000",
		"cep 98.735x": "98735",
	}
	for in, want := range cases {
		require.Equal(t, want, MaskCEP(in), "input %q", in)
	}
}

func TestMasksAreIdempotent(t *testing.T) {
	for _, in := range []string{"55984069184", "5533334444", "559"} {
		once := MaskPhone(in)
		require.Equal(t, once, MaskPhone(once))
	}
	once := MaskCEP("98735000")
	require.Equal(t, once, MaskCEP(once))
}
