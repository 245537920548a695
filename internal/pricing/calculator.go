// Package pricing implements the pure discount arithmetic of the
// promotion engine. All currency maths goes through shopspring/decimal;
// rounding happens once, at the end of a computation chain, half-up to
// the currency's two minor units.
package pricing

import (
	"fmt"

	"nexcommerce/internal/model"

	"github.com/shopspring/decimal"
)

// minorUnits is the number of decimal places of the currency.
const minorUnits = 2

// Apply computes the discounted amount for a single promotion applied to
// baseAmount. It is side-effect free: validity (window, kill switch,
// usage) is the caller's concern, only the discount modality is
// interpreted here.
//
// Percentage and flash-sale promotions treat an unmet minimum purchase as
// a no-op and return baseAmount unchanged. Fixed coupons treat it as a
// hard rejection and return model.ErrBelowMinimumPurchase.
func Apply(p *model.Promotion, baseAmount decimal.Decimal) (decimal.Decimal, error) {
	if baseAmount.IsNegative() {
		return decimal.Zero, fmt.Errorf("base amount must be non-negative, got %s", baseAmount)
	}

	switch p.Kind {
	case model.KindPercentage, model.KindFlashSale:
		return applyRate(p, baseAmount)
	case model.KindFixedCoupon:
		return applyCoupon(p, baseAmount)
	default:
		return decimal.Zero, fmt.Errorf("unsupported promotion kind %q", p.Kind)
	}
}

// applyRate handles the automatic rate-based modalities. The minimum
// purchase threshold is soft: below it the promotion simply has no effect.
func applyRate(p *model.Promotion, baseAmount decimal.Decimal) (decimal.Decimal, error) {
	if p.DiscountRate == nil {
		return decimal.Zero, fmt.Errorf("promotion %d has kind %q but no discount rate", p.ID, p.Kind)
	}

	if p.MinPurchaseAmount != nil && baseAmount.LessThan(*p.MinPurchaseAmount) {
		return baseAmount, nil
	}

	return roundHalfUp(baseAmount.Mul(*p.DiscountRate)), nil
}

// applyCoupon handles fixed coupons. The minimum purchase threshold is
// hard: the caller must not silently proceed with an unchanged amount.
func applyCoupon(p *model.Promotion, baseAmount decimal.Decimal) (decimal.Decimal, error) {
	if p.MinPurchaseAmount != nil && baseAmount.LessThan(*p.MinPurchaseAmount) {
		return decimal.Zero, model.ErrBelowMinimumPurchase
	}

	// Absolute deduction, floored at zero.
	if p.DiscountAmount != nil {
		discounted := baseAmount.Sub(*p.DiscountAmount)
		if discounted.IsNegative() {
			discounted = decimal.Zero
		}
		return roundHalfUp(discounted), nil
	}

	// Rate-based coupon: the deduction is capped at MaxDiscountAmount.
	if p.DiscountRate != nil {
		deduction := baseAmount.Sub(baseAmount.Mul(*p.DiscountRate))
		if p.MaxDiscountAmount != nil && deduction.GreaterThan(*p.MaxDiscountAmount) {
			return roundHalfUp(baseAmount.Sub(*p.MaxDiscountAmount)), nil
		}
		return roundHalfUp(baseAmount.Mul(*p.DiscountRate)), nil
	}

	return decimal.Zero, fmt.Errorf("coupon promotion %d has neither a discount amount nor a discount rate", p.ID)
}

// roundHalfUp rounds to the currency's minor unit, halves away from zero.
// Amounts here are always non-negative, so Round's away-from-zero halves
// match commercial half-up rounding.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(minorUnits)
}
