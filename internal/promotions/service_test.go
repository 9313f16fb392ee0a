package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/coronelbarros/storefront/pkg/db/dbtest"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

func newTestPromotions(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t).DB()), func() time.Time { return fixedNow })
	require.NoError(t, err)
	return svc
}

func validInput() Input {
	return Input{
		Name:            "Semana do Freio",
		Description:     "Pastilhas e discos",
		DiscountPercent: 15,
		StartDate:       "2025-06-01",
		EndDate:         "2025-06-10",
		IsActive:        true,
		Category:        "Freios",
	}
}

func TestPromotionLifecycle(t *testing.T) {
	svc := newTestPromotions(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	require.Equal(t, StatusRunning, created.Status)
	require.Equal(t, "2025-06-10", created.EndDate)
	require.NotNil(t, created.Category)
	require.Equal(t, enums.ProductCategoryFreios, *created.Category)
	require.Nil(t, created.BannerURL)

	future := validInput()
	future.Name = "Natal"
	future.StartDate, future.EndDate = "2025-12-01", "2025-12-25"
	future.IsActive = false
	scheduled, err := svc.Create(ctx, future)
	require.NoError(t, err)
	require.Equal(t, StatusInactive, scheduled.Status)
	require.False(t, scheduled.IsActive)

	active, err := svc.CountActive(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, active)

	toggled, err := svc.SetActive(ctx, scheduled.ID, true)
	require.NoError(t, err)
	require.Equal(t, StatusScheduled, toggled.Status)

	update := validInput()
	update.DiscountPercent = 20
	update.Category = ""
	updated, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	require.Equal(t, 20, updated.DiscountPercent)
	require.Nil(t, updated.Category)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))
	_, err = svc.Update(ctx, created.ID, validInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestPromotionValidation(t *testing.T) {
	svc := newTestPromotions(t)
	ctx := context.Background()

	cases := map[string]func(*Input){
		"name":             func(in *Input) { in.Name = "  " },
		"discount_percent": func(in *Input) { in.DiscountPercent = 0 },
		"start_date":       func(in *Input) { in.StartDate = "01/06/2025" },
		"end_date":         func(in *Input) { in.EndDate = "2025-05-01" },
		"category":         func(in *Input) { in.Category = "all" },
	}
	for field, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := svc.Create(ctx, in)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), field)
		require.Contains(t, pkgerrors.As(err).Details(), field)
	}
}

func TestStatusAt(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	require.Equal(t, StatusScheduled, StatusAt(true, start, end, start.Add(-time.Minute)))
	require.Equal(t, StatusRunning, StatusAt(true, start, end, start))
	require.Equal(t, StatusRunning, StatusAt(true, start, end, end.Add(23*time.Hour)))
	require.Equal(t, StatusExpired, StatusAt(true, start, end, end.Add(24*time.Hour)))
	require.Equal(t, StatusInactive, StatusAt(false, start, end, start))
}
