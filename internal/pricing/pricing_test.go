package pricing

import (
	"context"
	"errors"
	"testing"

	"clinic-backoffice/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	products map[int64]entity.Product
	links    map[int64][]int64
	err      error
}

func (f *fakeLookup) FindProduct(_ context.Context, id int64) (*entity.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeLookup) FindSupplementaries(_ context.Context, parentID int64) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range f.links[parentID] {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// A (10.00) carries supplementary B (2.50); B itself links C, which must never be added.
func scenarioLookup() *fakeLookup {
	return &fakeLookup{
		products: map[int64]entity.Product{
			1: {ID: 1, Name: "A", Price: dec("10.00")},
			2: {ID: 2, Name: "B", Price: dec("2.50"), IsSupplementary: true},
			3: {ID: 3, Name: "C", Price: dec("99.00"), IsSupplementary: true},
			4: {ID: 4, Name: "D", Price: dec("4.00")},
		},
		links: map[int64][]int64{
			1: {2},
			2: {3},
		},
	}
}

func TestPriceWithSupplementary(t *testing.T) {
	engine := NewEngine(scenarioLookup(), Clamp)

	quote, err := engine.Price(context.Background(),
		[]LineInput{{ProductID: 1, Quantity: 2}},
		Discount{Amount: decimal.Zero, Type: entity.DiscountFixed})
	require.NoError(t, err)

	require.Len(t, quote.Items, 2)
	assert.Equal(t, int64(1), quote.Items[0].ProductID)
	assert.Equal(t, 2, quote.Items[0].Quantity)
	assert.True(t, dec("20.00").Equal(quote.Items[0].Price))
	assert.False(t, quote.Items[0].IsSupplementary)
	assert.Nil(t, quote.Items[0].SupplementaryParentID)

	assert.Equal(t, int64(2), quote.Items[1].ProductID)
	assert.Equal(t, 1, quote.Items[1].Quantity)
	assert.True(t, dec("2.50").Equal(quote.Items[1].Price))
	assert.True(t, quote.Items[1].IsSupplementary)
	require.NotNil(t, quote.Items[1].SupplementaryParentID)
	assert.Equal(t, int64(1), *quote.Items[1].SupplementaryParentID)

	assert.True(t, dec("22.50").Equal(quote.Total), quote.Total.String())
}

func TestPriceDiscounts(t *testing.T) {
	tests := []struct {
		name     string
		discount Discount
		amount   string
		total    string
	}{
		{name: "percent", discount: Discount{Amount: dec("10"), Type: entity.DiscountPercent}, amount: "2.25", total: "20.25"},
		{name: "fixed", discount: Discount{Amount: dec("5"), Type: entity.DiscountFixed}, amount: "5", total: "17.50"},
		{name: "none", discount: Discount{Amount: decimal.Zero, Type: entity.DiscountFixed}, amount: "0", total: "22.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(scenarioLookup(), Clamp)

			quote, err := engine.Price(context.Background(), []LineInput{{ProductID: 1, Quantity: 2}}, tt.discount)
			require.NoError(t, err)

			assert.True(t, dec(tt.amount).Equal(quote.DiscountAmount), quote.DiscountAmount.String())
			assert.True(t, dec(tt.total).Equal(quote.Total), quote.Total.String())
			assert.True(t, dec("22.50").Equal(quote.Subtotal))
		})
	}
}

func TestPriceMissingProduct(t *testing.T) {
	engine := NewEngine(scenarioLookup(), Clamp)

	quote, err := engine.Price(context.Background(),
		[]LineInput{{ProductID: 1, Quantity: 1}, {ProductID: 42, Quantity: 1}},
		Discount{Type: entity.DiscountFixed})

	assert.Nil(t, quote)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPriceLookupFailure(t *testing.T) {
	boom := errors.New("connection reset")
	engine := NewEngine(&fakeLookup{err: boom}, Clamp)

	_, err := engine.Price(context.Background(), []LineInput{{ProductID: 1}}, Discount{Type: entity.DiscountFixed})

	assert.ErrorIs(t, err, boom)
}

func TestPriceDoesNotExpandSupplementaryOfSupplementary(t *testing.T) {
	engine := NewEngine(scenarioLookup(), Clamp)

	quote, err := engine.Price(context.Background(), []LineInput{{ProductID: 1, Quantity: 1}}, Discount{Type: entity.DiscountFixed})
	require.NoError(t, err)

	for _, item := range quote.Items {
		assert.NotEqual(t, int64(3), item.ProductID)
	}
	assert.True(t, dec("12.50").Equal(quote.Total))
}

func TestPriceSupplementaryFollowsItsPrimary(t *testing.T) {
	engine := NewEngine(scenarioLookup(), Clamp)

	quote, err := engine.Price(context.Background(),
		[]LineInput{{ProductID: 4}, {ProductID: 1}, {ProductID: 4, Quantity: 3}},
		Discount{Type: entity.DiscountFixed})
	require.NoError(t, err)

	var ids []int64
	for _, item := range quote.Items {
		ids = append(ids, item.ProductID)
	}
	assert.Equal(t, []int64{4, 1, 2, 4}, ids)
	assert.Equal(t, 1, quote.Items[0].Quantity, "missing quantity defaults to one")
	assert.True(t, dec("28.50").Equal(quote.Total), quote.Total.String())
}

func TestNegativeTotalPolicy(t *testing.T) {
	discount := Discount{Amount: dec("30"), Type: entity.DiscountFixed}

	_, clamped := ApplyDiscount(dec("22.50"), discount, Clamp)
	assert.True(t, clamped.IsZero())

	_, negative := ApplyDiscount(dec("22.50"), discount, AllowNegative)
	assert.True(t, dec("-7.50").Equal(negative), negative.String())
}

func TestRecalculateMatchesPrice(t *testing.T) {
	engine := NewEngine(scenarioLookup(), Clamp)
	discount := Discount{Amount: dec("10"), Type: entity.DiscountPercent}

	quote, err := engine.Price(context.Background(), []LineInput{{ProductID: 1, Quantity: 2}}, discount)
	require.NoError(t, err)

	first := Recalculate(quote.Items, discount, Clamp)
	second := Recalculate(quote.Items, discount, Clamp)

	assert.True(t, quote.Total.Equal(first.Total))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestDiscountValidate(t *testing.T) {
	assert.NoError(t, Discount{Amount: dec("100"), Type: entity.DiscountPercent}.Validate())
	assert.NoError(t, Discount{Amount: dec("500"), Type: entity.DiscountFixed}.Validate())
	assert.ErrorIs(t, Discount{Amount: dec("101"), Type: entity.DiscountPercent}.Validate(), ErrInvalidDiscount)
	assert.ErrorIs(t, Discount{Amount: dec("-1"), Type: entity.DiscountFixed}.Validate(), ErrInvalidDiscount)
	assert.ErrorIs(t, Discount{Amount: dec("1"), Type: "coupon"}.Validate(), ErrInvalidDiscount)
	assert.ErrorIs(t, Discount{Amount: dec("12.345"), Type: entity.DiscountPercent}.Validate(), ErrInvalidDiscount)
	assert.ErrorIs(t, Discount{Amount: dec("0.001"), Type: entity.DiscountFixed}.Validate(), ErrInvalidDiscount)
	assert.NoError(t, Discount{Amount: dec("12.340"), Type: entity.DiscountPercent}.Validate())
}

func TestWholeCents(t *testing.T) {
	assert.True(t, WholeCents(dec("7")))
	assert.True(t, WholeCents(dec("7.25")))
	assert.True(t, WholeCents(dec("7.2500")))
	assert.False(t, WholeCents(dec("7.255")))
}

// Totals must survive a round trip through two-decimal money columns.
func TestRecalculateMatchesPriceAfterStoringCents(t *testing.T) {
	engine := NewEngine(scenarioLookup(), Clamp)
	discount := Discount{Amount: dec("12.34"), Type: entity.DiscountPercent}
	require.NoError(t, discount.Validate())

	quote, err := engine.Price(context.Background(), []LineInput{{ProductID: 4, Quantity: 20}}, discount)
	require.NoError(t, err)

	stored := make([]entity.SaleItem, len(quote.Items))
	for i, item := range quote.Items {
		item.Price = item.Price.Round(2)
		stored[i] = item
	}
	storedDiscount := Discount{Amount: discount.Amount.Round(2), Type: discount.Type}

	recalc := Recalculate(stored, storedDiscount, Clamp)
	assert.True(t, quote.Total.Equal(recalc.Total), "price %s, recalculate %s", quote.Total, recalc.Total)
	assert.True(t, dec("70.13").Equal(quote.Total), quote.Total.String())
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, AllowNegative, ParsePolicy("allow"))
	assert.Equal(t, Clamp, ParsePolicy("clamp"))
	assert.Equal(t, Clamp, ParsePolicy(""))
}

func TestApplyDiscountRoundsPercentToCents(t *testing.T) {
	amount, total := ApplyDiscount(dec("80.00"), Discount{Amount: dec("12.34"), Type: entity.DiscountPercent}, Clamp)
	assert.True(t, dec("9.87").Equal(amount), amount.String())
	assert.True(t, dec("70.13").Equal(total), total.String())
}
