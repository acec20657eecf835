package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizesStockScan(t *testing.T) {
	var s SizesStock
	require.NoError(t, s.Scan([]byte(`{"M":3,"L":2}`)))
	assert.Equal(t, SizesStock{"M": 3, "L": 2}, s)

	require.NoError(t, s.Scan(`{"S":1}`))
	assert.Equal(t, SizesStock{"S": 1}, s)

	require.NoError(t, s.Scan(nil))
	assert.Nil(t, s)

	require.NoError(t, s.Scan([]byte("null")))
	assert.Nil(t, s)

	assert.Error(t, s.Scan(42))
	assert.Error(t, s.Scan([]byte("{")))
}

func TestSizesStockValue(t *testing.T) {
	v, err := SizesStock(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = SizesStock{"M": 3}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"M":3}`, v)
}

func TestNormalizeStockSumsSizes(t *testing.T) {
	p := Product{Stock: 99, SizesStock: SizesStock{"S": 1, "M": 4}}
	p.NormalizeStock()
	assert.Equal(t, 5, p.Stock)

	plain := Product{Stock: 7}
	plain.NormalizeStock()
	assert.Equal(t, 7, plain.Stock)
}

func TestAvailableFor(t *testing.T) {
	plain := Product{Stock: 4}
	qty, ok := plain.AvailableFor("")
	assert.True(t, ok)
	assert.Equal(t, 4, qty)
	_, ok = plain.AvailableFor("M")
	assert.False(t, ok)

	sized := Product{SizesStock: SizesStock{"M": 2}}
	qty, ok = sized.AvailableFor("M")
	assert.True(t, ok)
	assert.Equal(t, 2, qty)
	_, ok = sized.AvailableFor("XL")
	assert.False(t, ok)
}

func TestStockStatus(t *testing.T) {
	cases := []struct {
		stock, threshold int
		want             StockStatus
	}{
		{0, 5, StockStatusOutOfStock},
		{5, 5, StockStatusLowStock},
		{1, 5, StockStatusLowStock},
		{6, 5, StockStatusInStock},
		{3, 0, StockStatusInStock},
	}
	for _, tc := range cases {
		p := Product{Stock: tc.stock, LowStockThreshold: tc.threshold}
		assert.Equal(t, tc.want, p.StockStatus(), "stock=%d threshold=%d", tc.stock, tc.threshold)
	}
}

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: decimal.NewFromInt(200), DiscountPercentage: decimal.NewFromInt(10)}
	assert.True(t, p.EffectivePrice().Equal(decimal.NewFromInt(180)), p.EffectivePrice().String())
}

func TestWithStatus(t *testing.T) {
	ps := WithStatus(Product{Stock: 0})
	assert.Equal(t, StockStatusOutOfStock, ps.Status)
}
