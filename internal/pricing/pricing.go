package pricing

import (
	"context"
	"errors"
	"fmt"

	"clinic-backoffice/internal/domain/entity"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidDiscount = errors.New("invalid discount")
)

var hundred = decimal.NewFromInt(100)

// NegativeTotalPolicy decides what happens when a discount exceeds the subtotal.
type NegativeTotalPolicy string

const (
	// Clamp floors the final total at zero.
	Clamp NegativeTotalPolicy = "clamp"
	// AllowNegative keeps the raw subtraction result.
	AllowNegative NegativeTotalPolicy = "allow"
)

// ParsePolicy maps a configuration value onto a policy. Unknown values clamp.
func ParsePolicy(s string) NegativeTotalPolicy {
	if NegativeTotalPolicy(s) == AllowNegative {
		return AllowNegative
	}
	return Clamp
}

// ProductLookup resolves products during pricing.
type ProductLookup interface {
	// FindProduct returns nil, nil when id does not exist.
	FindProduct(ctx context.Context, id int64) (*entity.Product, error)
	// FindSupplementaries returns the existing supplementary products linked
	// to parentID, in configured order.
	FindSupplementaries(ctx context.Context, parentID int64) ([]entity.Product, error)
}

// LineInput is one requested sale line. Quantity <= 0 means one.
type LineInput struct {
	ProductID int64
	Quantity  int
}

// Discount is the discount requested on a sale.
type Discount struct {
	Amount decimal.Decimal
	Type   entity.DiscountType
}

// WholeCents reports whether d has no more than two decimal places, which is
// what the money columns store.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// Validate rejects negative amounts, amounts finer than cents, unknown types
// and percentages above 100.
func (d Discount) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDiscount, d.Type)
	}
	if d.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidDiscount)
	}
	if !WholeCents(d.Amount) {
		return fmt.Errorf("%w: at most two decimal places", ErrInvalidDiscount)
	}
	if d.Type == entity.DiscountPercent && d.Amount.GreaterThan(hundred) {
		return fmt.Errorf("%w: percentage above 100", ErrInvalidDiscount)
	}
	return nil
}

// Quote is the outcome of pricing a sale.
type Quote struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	Items          []entity.SaleItem
}

// Engine prices sales. It holds no mutable state.
type Engine struct {
	lookup ProductLookup
	policy NegativeTotalPolicy
}

func NewEngine(lookup ProductLookup, policy NegativeTotalPolicy) *Engine {
	return &Engine{lookup: lookup, policy: policy}
}

// Policy returns the negative total policy in effect.
func (e *Engine) Policy() NegativeTotalPolicy {
	return e.policy
}

// Price resolves every line, appends each primary product's supplementary
// products right after it and applies the discount to the subtotal.
// Supplementary products are added one level deep only.
func (e *Engine) Price(ctx context.Context, lines []LineInput, discount Discount) (*Quote, error) {
	subtotal := decimal.Zero
	items := make([]entity.SaleItem, 0, len(lines))

	for _, line := range lines {
		product, err := e.lookup.FindProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, line.ProductID)
		}

		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		items = append(items, entity.SaleItem{
			ProductID: product.ID,
			Quantity:  qty,
			Price:     lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)

		supplementaries, err := e.lookup.FindSupplementaries(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		for _, supp := range supplementaries {
			parentID := product.ID
			items = append(items, entity.SaleItem{
				ProductID:             supp.ID,
				Quantity:              1,
				Price:                 supp.Price,
				IsSupplementary:       true,
				SupplementaryParentID: &parentID,
			})
			subtotal = subtotal.Add(supp.Price)
		}
	}

	discountAmount, total := ApplyDiscount(subtotal, discount, e.policy)
	return &Quote{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          total,
		Items:          items,
	}, nil
}

// Recalculate re-derives a sale's totals from already priced items.
// Item prices already include quantity.
func Recalculate(items []entity.SaleItem, discount Discount, policy NegativeTotalPolicy) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price)
	}
	discountAmount, total := ApplyDiscount(subtotal, discount, policy)
	return Quote{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          total,
		Items:          items,
	}
}

// ApplyDiscount returns the discount amount and final total for subtotal.
// Percent discounts are a share of subtotal, anything else is an absolute amount.
// Unlike the plain subtotal*pct/100 formula, the discount amount is rounded to
// cents before it is subtracted so the total always fits the stored scale.
func ApplyDiscount(subtotal decimal.Decimal, discount Discount, policy NegativeTotalPolicy) (decimal.Decimal, decimal.Decimal) {
	var amount decimal.Decimal
	if discount.Type == entity.DiscountPercent {
		amount = subtotal.Mul(discount.Amount).Div(hundred)
	} else {
		amount = discount.Amount
	}
	amount = amount.Round(2)

	total := subtotal.Sub(amount)
	if policy != AllowNegative && total.IsNegative() {
		total = decimal.Zero
	}
	return amount, total
}
