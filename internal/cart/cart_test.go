package cart

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/coronelbarros/storefront/internal/catalog"
	"github.com/coronelbarros/storefront/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func product(id, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Code:     "SKU-" + id,
		Name:     "Peça " + id,
		Price:    decimal.RequireFromString(price),
		Category: enums.ProductCategoryMotor,
	}
}

func TestAddAccumulatesSubtotal(t *testing.T) {
	c := New()
	c.Add(product("a", "100.00"), 2)
	c.Add(product("b", "50.00"), 1)

	require.True(t, c.Subtotal().Equal(decimal.RequireFromString("250.00")), c.Subtotal().String())
	require.Equal(t, 3, c.ItemCount())
	require.Len(t, c.Items(), 2)
}

func TestAddSameProductMergesLine(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 1)
	c.Add(product("a", "10"), 1)

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)
}

func TestAddClampsQuantityBelowOne(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 0)
	c.Add(product("b", "10"), -5)

	for _, line := range c.Items() {
		require.Equal(t, 1, line.Quantity, line.Product.ID)
	}
	require.Equal(t, 2, c.ItemCount())
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	c := New()
	c.Add(product("c", "1"), 1)
	c.Add(product("a", "1"), 1)
	c.Add(product("b", "1"), 1)
	c.Add(product("a", "1"), 1)

	var ids []string
	for _, l := range c.Items() {
		ids = append(ids, l.Product.ID)
	}
	require.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 1)
	before := c.Snapshot()

	c.Remove("missing")

	require.Equal(t, before, c.Snapshot())
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 1)
	c.Add(product("b", "20"), 1)

	c.UpdateQuantity("a", 5)
	require.Equal(t, 5, c.Items()[0].Quantity)

	c.UpdateQuantity("a", 0)
	require.Len(t, c.Items(), 1)
	require.Equal(t, "b", c.Items()[0].Product.ID)

	c.UpdateQuantity("b", -1)
	require.True(t, c.IsEmpty())

	c.UpdateQuantity("ghost", 3)
	require.True(t, c.IsEmpty())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 3)
	c.Clear()

	require.True(t, c.IsEmpty())
	require.Zero(t, c.ItemCount())
	require.True(t, c.Subtotal().IsZero())
}

func TestClearedSnapshotEncodesEmptyLines(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 1)
	c.Clear()

	raw, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"lines":[]`)
}

func TestQuantitySaturatesAtMax(t *testing.T) {
	c := New()
	p := product("a", "10.00")
	c.Add(p, 3)
	before := c.Snapshot()

	c.Add(p, math.MaxInt)
	c.Add(p, 2)
	require.Equal(t, MaxQuantity, c.Items()[0].Quantity)
	require.Equal(t, MaxQuantity, c.ItemCount())
	require.True(t, c.Subtotal().Equal(decimal.NewFromInt(10*MaxQuantity)), c.Subtotal().String())
	require.True(t, c.Subtotal().GreaterThan(before.Subtotal))

	c.UpdateQuantity("a", math.MaxInt)
	require.Equal(t, MaxQuantity, c.Items()[0].Quantity)

	c.Add(product("b", "1.00"), math.MaxInt)
	for _, line := range c.Items() {
		require.GreaterOrEqual(t, line.Quantity, 1)
		require.LessOrEqual(t, line.Quantity, MaxQuantity)
	}
}

func TestDeductKeepsUnitsAddedAfterSnapshot(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 2)
	c.Add(product("b", "5"), 1)
	snap := c.Snapshot()

	c.Add(product("a", "10"), 1)
	c.Add(product("late", "7"), 4)

	c.Deduct(snap.Lines)

	items := c.Items()
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].Product.ID)
	require.Equal(t, 1, items[0].Quantity)
	require.Equal(t, "late", items[1].Product.ID)
	require.Equal(t, 4, items[1].Quantity)
}

func TestDeductDropsLinesLoweredDuringHandoff(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 3)
	snap := c.Snapshot()

	c.UpdateQuantity("a", 1)
	c.Remove("missing")
	c.Deduct(snap.Lines)

	require.True(t, c.IsEmpty())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New()
	c.Add(product("a", "10"), 1)
	items := c.Items()
	items[0].Quantity = 99

	require.Equal(t, 1, c.Items()[0].Quantity)
}

func TestSnapshotIsConsistent(t *testing.T) {
	c := New()
	c.Add(product("a", "19.90"), 3)
	c.Add(product("b", "0.10"), 1)

	snap := c.Snapshot()
	require.Equal(t, 4, snap.ItemCount)
	require.True(t, snap.Subtotal.Equal(decimal.RequireFromString("59.80")), snap.Subtotal.String())
	require.True(t, snap.Lines[0].Total().Equal(decimal.RequireFromString("59.70")))
	require.False(t, snap.IsEmpty())
}

func TestConcurrentAddsAreSerialised(t *testing.T) {
	c := New()
	p := product("a", "1.00")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(p, 2)
			_ = c.Snapshot()
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	require.Equal(t, 100, snap.ItemCount)
	require.True(t, snap.Subtotal.Equal(decimal.NewFromInt(100)))
}
