// Package pricing computes document totals.
package pricing

import "github.com/atelierbooks/facturio/internal/document/domain"

// Compute prices a set of line items under a discount.
//
// This function is PURE:
// - No side effects
// - Fully deterministic
//
// A percent discount takes discountValue as a percentage of the
// subtotal; an absolute discount is capped at the subtotal so the total
// never goes negative. There is no tax line: tax is fixed at zero and
// rendered as not applicable.
func Compute(items []domain.LineItem, discountValue float64, discountIsPercent bool) domain.Totals {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	var discount float64
	if discountIsPercent {
		discount = subtotal * (discountValue / 100.0)
	} else {
		discount = min(discountValue, subtotal)
	}

	return domain.Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal - discount,
	}
}

// ComputeSerialized prices an invoice that carries serial bindings: each
// serialized unit is billed at the unit price of its originating item,
// matched by product description.
func ComputeSerialized(items []domain.LineItem, serials []domain.SerialBinding, discountValue float64, discountIsPercent bool) domain.Totals {
	subtotal := 0.0
	for _, binding := range serials {
		subtotal += unitPrice(items, binding.Product)
	}

	var discount float64
	if discountIsPercent {
		discount = subtotal * (discountValue / 100.0)
	} else {
		discount = min(discountValue, subtotal)
	}

	return domain.Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal - discount,
	}
}

func unitPrice(items []domain.LineItem, product string) float64 {
	for _, item := range items {
		if item.Description == product {
			return item.UnitPrice
		}
	}
	return 0
}
