package cashcard_test

import (
	"context"
	"testing"

	"github.com/Laieb786/tutorial-spring-boot/cashcard"
	"github.com/Laieb786/tutorial-spring-boot/cashcard/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		service := cashcard.NewService(cashcard.NewRepository())

		create := models.CreateCashCard{}
		value := amount(t, "250.00")
		create.Amount = &value

		card, err := service.Create(ctx, create, "sarah1")
		require.NoError(t, err)
		require.Equal(t, "sarah1", card.OwnerID)

		found, err := service.FindByID(ctx, card.ID, "sarah1")
		require.NoError(t, err)
		require.True(t, found.Amount.Equal(value))
		require.Equal(t, "sarah1", found.OwnerID)
	})

	t.Run("missing amount is an invalid argument", func(t *testing.T) {
		service := cashcard.NewService(cashcard.NewRepository())

		_, err := service.Create(ctx, models.CreateCashCard{}, "sarah1")
		require.ErrorIs(t, err, models.ErrInvalidArgument)
	})

	t.Run("amounts are rounded to two decimal places", func(t *testing.T) {
		service := cashcard.NewService(cashcard.NewRepository())

		value := amount(t, "19.999")
		card, err := service.Create(ctx, models.CreateCashCard{Amount: &value}, "sarah1")
		require.NoError(t, err)
		require.Equal(t, "20", card.Amount.String())
	})

	t.Run("negative amounts are accepted", func(t *testing.T) {
		service := cashcard.NewService(cashcard.NewRepository())

		value := amount(t, "-42.50")
		card, err := service.Create(ctx, models.CreateCashCard{Amount: &value}, "sarah1")
		require.NoError(t, err)
		require.True(t, card.Amount.Equal(value))
	})
}

func TestServiceFindByID(t *testing.T) {
	ctx := context.Background()
	service := cashcard.NewService(seededRepository(t))

	t.Run("not found passes through", func(t *testing.T) {
		_, err := service.FindByID(ctx, 1000, "sarah1")
		require.ErrorIs(t, err, cashcard.ErrNotFound)
	})

	t.Run("cross-owner lookup is not found", func(t *testing.T) {
		_, err := service.FindByID(ctx, 99, "kumar2")
		require.ErrorIs(t, err, cashcard.ErrNotFound)
	})
}

func TestServiceFindPage(t *testing.T) {
	ctx := context.Background()
	service := cashcard.NewService(seededRepository(t))

	t.Run("rejects an invalid page request", func(t *testing.T) {
		page := models.DefaultPageRequest()
		page.Size = 0
		_, err := service.FindPage(ctx, "sarah1", page)
		require.ErrorIs(t, err, models.ErrInvalidArgument)
	})

	t.Run("largest amount first with size one", func(t *testing.T) {
		page := models.DefaultPageRequest()
		page.Size = 1
		page.Direction = models.Descending

		result, err := service.FindPage(ctx, "sarah1", page)
		require.NoError(t, err)
		require.Equal(t, 3, result.TotalCount)
		require.Len(t, result.Items, 1)
		require.True(t, result.Items[0].Amount.Equal(decimal.RequireFromString("150.00")))
	})

	t.Run("a fresh owner gets an empty page", func(t *testing.T) {
		result, err := service.FindPage(ctx, "newcomer", models.DefaultPageRequest())
		require.NoError(t, err)
		require.Zero(t, result.TotalCount)
		require.Empty(t, result.Items)
	})
}
