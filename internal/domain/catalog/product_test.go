package catalog

import (
	"testing"

	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	product, err := NewProduct("BD-20V-5AH", "20V MAX 5.0Ah Battery", "PowerCore",
		decimal.NewFromInt(20), decimal.NewFromFloat(5.0), ChemistryLiIon)
	require.NoError(t, err)
	return product
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product := newTestProduct(t)

		assert.Equal(t, "BD-20V-5AH", product.SKU)
		assert.Equal(t, "20v-max-5-0ah-battery", product.Slug)
		assert.Equal(t, "20V MAX 5.0Ah Battery", product.Name)
		assert.Equal(t, "PowerCore", product.ProductLine)
		assert.Equal(t, ChemistryLiIon, product.Chemistry)
		assert.Equal(t, ProductStatusDraft, product.Status)
		assert.True(t, product.BasePrice.IsZero())
		assert.True(t, product.Engravable)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("converts sku to uppercase", func(t *testing.T) {
		product, err := NewProduct("bd-20v-5ah", "Battery", "PowerCore",
			decimal.NewFromInt(20), decimal.NewFromFloat(5.0), ChemistryLiIon)
		require.NoError(t, err)
		assert.Equal(t, "BD-20V-5AH", product.SKU)
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product := newTestProduct(t)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())

		event, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, product.ID, event.ProductID)
		assert.Equal(t, product.SKU, event.SKU)
		assert.Equal(t, product.Slug, event.Slug)
	})

	t.Run("fails with empty sku", func(t *testing.T) {
		_, err := NewProduct("", "Battery", "PowerCore",
			decimal.NewFromInt(20), decimal.NewFromFloat(5.0), ChemistryLiIon)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKU cannot be empty")
	})

	t.Run("fails with invalid sku characters", func(t *testing.T) {
		_, err := NewProduct("BD@20V", "Battery", "PowerCore",
			decimal.NewFromInt(20), decimal.NewFromFloat(5.0), ChemistryLiIon)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can only contain letters")
	})

	t.Run("fails with zero voltage", func(t *testing.T) {
		_, err := NewProduct("BD-20V-5AH", "Battery", "PowerCore",
			decimal.Zero, decimal.NewFromFloat(5.0), ChemistryLiIon)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Voltage must be positive")
	})

	t.Run("fails with unknown chemistry", func(t *testing.T) {
		_, err := NewProduct("BD-20V-5AH", "Battery", "PowerCore",
			decimal.NewFromInt(20), decimal.NewFromFloat(5.0), Chemistry("plutonium"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown cell chemistry")
	})
}

func TestProductLifecycle(t *testing.T) {
	t.Run("activate requires a price", func(t *testing.T) {
		product := newTestProduct(t)

		err := product.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "without a price")
	})

	t.Run("activates draft product with price", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetBasePrice(valueobject.NewMoneyUSDFromFloat(149.00)))

		require.NoError(t, product.Activate())
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.True(t, product.IsActive())
	})

	t.Run("cannot activate twice", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetBasePrice(valueobject.NewMoneyUSDFromFloat(149.00)))
		require.NoError(t, product.Activate())

		err := product.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already active")
	})

	t.Run("retired product cannot be reactivated", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetBasePrice(valueobject.NewMoneyUSDFromFloat(149.00)))
		require.NoError(t, product.Activate())
		require.NoError(t, product.Retire())

		err := product.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "retired")
	})

	t.Run("retire publishes status change event", func(t *testing.T) {
		product := newTestProduct(t)
		product.ClearDomainEvents()
		require.NoError(t, product.Retire())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*ProductStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, ProductStatusDraft, event.OldStatus)
		assert.Equal(t, ProductStatusRetired, event.NewStatus)
	})
}

func TestProductUpdate(t *testing.T) {
	t.Run("regenerates slug when name changes", func(t *testing.T) {
		product := newTestProduct(t)

		require.NoError(t, product.Update("60V FlexPack 9.0Ah", "High output pack"))
		assert.Equal(t, "60v-flexpack-9-0ah", product.Slug)
		assert.Equal(t, "High output pack", product.Description)
		assert.Equal(t, 2, product.GetVersion())
	})

	t.Run("keeps slug when name unchanged", func(t *testing.T) {
		product := newTestProduct(t)
		oldSlug := product.Slug

		require.NoError(t, product.Update(product.Name, "New description"))
		assert.Equal(t, oldSlug, product.Slug)
	})
}

func TestDiscountTiers(t *testing.T) {
	t.Run("applies best matching tier", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetBasePrice(valueobject.NewMoneyUSDFromFloat(100.00)))
		require.NoError(t, product.AddDiscountTier(5, decimal.NewFromInt(10)))
		require.NoError(t, product.AddDiscountTier(10, decimal.NewFromInt(20)))

		assert.Equal(t, "100.00", product.UnitPriceFor(1).StringFixed(2))
		assert.Equal(t, "90.00", product.UnitPriceFor(5).StringFixed(2))
		assert.Equal(t, "80.00", product.UnitPriceFor(12).StringFixed(2))
	})

	t.Run("rejects duplicate minimum quantity", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.AddDiscountTier(5, decimal.NewFromInt(10)))

		err := product.AddDiscountTier(5, decimal.NewFromInt(15))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects tier above 90 percent", func(t *testing.T) {
		product := newTestProduct(t)
		err := product.AddDiscountTier(5, decimal.NewFromInt(95))
		require.Error(t, err)
	})
}

func TestWattHours(t *testing.T) {
	product := newTestProduct(t)
	assert.True(t, product.WattHours().Equal(decimal.NewFromInt(100)))
}
