package cart

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pskitchenware/storefront/internal/domain"
)

func TestSelectSizeLargeYields150(t *testing.T) {
	p := sizedProduct()
	size, err := SelectSize(p, "L")
	require.NoError(t, err)

	c := New(nil)
	item, ok := c.Add(p, 1, size)
	require.True(t, ok)
	assert.Equal(t, 150.0, item.Price)
}

func TestSelectSizeRequiredForSizedProduct(t *testing.T) {
	_, err := SelectSize(sizedProduct(), "")
	assert.True(t, errors.Is(err, ErrSizeRequired))
}

func TestSelectSizeUnknown(t *testing.T) {
	_, err := SelectSize(sizedProduct(), "XXL")
	assert.True(t, errors.Is(err, ErrUnknownSize))

	_, err = SelectSize(flatProduct("a", 1), "M")
	assert.True(t, errors.Is(err, ErrUnknownSize))
}

func TestSelectSizeFlatProduct(t *testing.T) {
	size, err := SelectSize(flatProduct("a", 1), " ")
	require.NoError(t, err)
	assert.Nil(t, size)
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, ValidateQuantity(1))
	assert.NoError(t, ValidateQuantity(300))
	assert.ErrorIs(t, ValidateQuantity(0), ErrInvalidQuantity)
	assert.ErrorIs(t, ValidateQuantity(301), ErrInvalidQuantity)
}

func TestDisplayPrice(t *testing.T) {
	assert.Nil(t, DisplayPrice(sizedProduct()))
	assert.Equal(t, 12.0, *DisplayPrice(flatProduct("a", 12)))
	assert.Nil(t, DisplayPrice(domain.Product{ID: "x"}))
}
