package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with derived slug", func(t *testing.T) {
		product, err := NewProduct("Mouse Gamer Óptico", decimal.RequireFromString("149.90"), 5)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, "Mouse Gamer Óptico", product.Name)
		assert.Equal(t, "mouse-gamer-optico", product.Slug)
		assert.Equal(t, 5, product.Stock)
		assert.Len(t, product.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeProductCreated, product.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("   ", decimal.Zero, 0)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects name without slug characters", func(t *testing.T) {
		_, err := NewProduct("???", decimal.Zero, 0)
		assert.Error(t, err)
	})

	t.Run("rejects overly long name", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("a", 201), decimal.Zero, 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Teclado", decimal.NewFromInt(-1), 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewProduct("Teclado", decimal.NewFromInt(10), -1)
		assert.Error(t, err)
	})
}

func TestProduct_Rename(t *testing.T) {
	product, err := NewProduct("Teclado", decimal.NewFromInt(300), 1)
	require.NoError(t, err)
	product.ClearDomainEvents()

	require.NoError(t, product.Rename("Teclado Mecânico"))
	assert.Equal(t, "teclado-mecanico", product.Slug)
	require.Len(t, product.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProductUpdated, product.GetDomainEvents()[0].EventType())

	assert.Error(t, product.Rename(""))
	assert.Equal(t, "Teclado Mecânico", product.Name)
}

func TestProduct_SetTag(t *testing.T) {
	product, err := NewProduct("Monitor", decimal.NewFromInt(900), 2)
	require.NoError(t, err)

	require.NoError(t, product.SetTag(ProductTagSale))
	assert.Equal(t, ProductTagSale, product.Tag)
	require.NoError(t, product.SetTag(ProductTagNone))

	assert.Error(t, product.SetTag("clearance"))
}

func TestProduct_HasStockFor(t *testing.T) {
	product, err := NewProduct("Monitor", decimal.NewFromInt(900), 2)
	require.NoError(t, err)

	assert.True(t, product.HasStockFor(2))
	assert.False(t, product.HasStockFor(3))
}

func TestNewCategory(t *testing.T) {
	category, err := NewCategory("  Periféricos  ")
	require.NoError(t, err)
	assert.Equal(t, "Periféricos", category.Name)
	assert.Equal(t, "perifericos", category.Slug)

	_, err = NewCategory("")
	assert.Error(t, err)
}
