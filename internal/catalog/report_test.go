package catalog

import (
	"testing"
	"time"

	"github.com/coronelbarros/storefront/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBuildInventoryReport(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	products := []Product{
		{ID: "1", Name: "Motor", Price: decimal.NewFromInt(3500), Category: enums.ProductCategoryMotor, Stock: 1, CreatedAt: now.Add(-time.Hour)},
		{ID: "2", Name: "Disco", Price: decimal.RequireFromString("210.50"), Category: enums.ProductCategoryFreios, Stock: 25, CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "3", Name: "Câmbio", Price: decimal.NewFromInt(2800), Category: enums.ProductCategoryTransmissao, Stock: 0, CreatedAt: now.AddDate(0, -1, 0)},
		{ID: "4", Name: "Cabeçote", Price: decimal.NewFromInt(900), Category: enums.ProductCategoryMotor, Stock: 3, CreatedAt: now.AddDate(0, -2, 0)},
	}

	report := BuildInventoryReport(products, now)

	require.Equal(t, 4, report.TotalProducts)
	// 3500*1 + 210.50*25 + 0 + 900*3
	require.True(t, report.TotalValue.Equal(decimal.RequireFromString("11462.50")), report.TotalValue.String())
	require.True(t, report.AvgPrice.Equal(decimal.RequireFromString("1852.63")), report.AvgPrice.String())
	require.Equal(t, 2, report.LowStockCount)
	require.Equal(t, 1, report.OutOfStockCount)
	require.Equal(t, 2, report.NewProductsThisMonth)

	require.Len(t, report.Categories, 3)
	require.Equal(t, enums.ProductCategoryMotor, report.Categories[0].Category)
	require.Equal(t, 2, report.Categories[0].Count)
	require.Equal(t, "Motores", report.Categories[0].Name)
	require.True(t, report.Categories[0].AvgPrice.Equal(decimal.NewFromInt(2200)))
	require.Equal(t, enums.ProductCategoryFreios, report.Categories[1].Category)

	require.Equal(t, "1", report.TopProducts[0].ID)
	require.Equal(t, "3", report.TopProducts[1].ID)
	require.Equal(t, "1", report.RecentProducts[0].ID)
}

func TestBuildInventoryReportEmpty(t *testing.T) {
	report := BuildInventoryReport(nil, time.Now())
	require.Zero(t, report.TotalProducts)
	require.True(t, report.AvgPrice.IsZero())
	require.Empty(t, report.Categories)
	require.Empty(t, report.TopProducts)
}

func TestListCategories(t *testing.T) {
	cats := ListCategories()
	require.Len(t, cats, len(enums.ProductCategories()))
	require.Equal(t, enums.ProductCategoryMotor, cats[0].ID)
	require.Equal(t, "Motores", cats[0].Name)
	require.Len(t, cats[0].Tips, 3)

	freios, ok := LookupCategory(enums.ProductCategoryFreios)
	require.True(t, ok)
	require.Equal(t, "Freios", freios.Name)
	require.Empty(t, freios.Tips)

	_, ok = LookupCategory("all")
	require.False(t, ok)
}
