package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/kiosk-api/internal/entity"
)

func TestProductCreate(t *testing.T) {
	svc := NewProductService(newMemProducts())

	p, err := svc.Create(context.Background(), ProductInput{
		Name:     "Classic Burger",
		Price:    decimal.RequireFromString("15.99"),
		Category: entity.CategoryBurger,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	_, err = svc.Create(context.Background(), ProductInput{
		Name:     "Mystery",
		Price:    decimal.RequireFromString("1.00"),
		Category: "PIZZA",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Create(context.Background(), ProductInput{
		Name:     "Free Burger",
		Price:    decimal.Zero,
		Category: entity.CategoryBurger,
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestProductUpdateAndDelete(t *testing.T) {
	repo := newMemProducts(burger("p1", "15.99"))
	svc := NewProductService(repo)

	updated, err := svc.Update(context.Background(), "p1", ProductInput{
		Name:     "Double Burger",
		Price:    decimal.RequireFromString("19.99"),
		Category: entity.CategoryBurger,
	})
	require.NoError(t, err)
	assert.Equal(t, "Double Burger", updated.Name)

	_, err = svc.Update(context.Background(), "ghost", ProductInput{
		Name:     "Nope",
		Price:    decimal.RequireFromString("1.00"),
		Category: entity.CategoryBurger,
	})
	var pErr *ProductNotFoundError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "ghost", pErr.ID)

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.True(t, errors.As(svc.Delete(context.Background(), "p1"), &pErr))
}

func TestProductFindByCategory(t *testing.T) {
	repo := newMemProducts(burger("p1", "15.99"))
	svc := NewProductService(repo)

	got, err := svc.FindByCategory(context.Background(), entity.CategoryBurger)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.FindByCategory(context.Background(), "PIZZA")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
