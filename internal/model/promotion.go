package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromotionKind identifies the discount modality of a promotion. It is a
// closed set: values outside the declared constants are rejected at
// validation time.
type PromotionKind string

const (
	// KindPercentage multiplies the base amount by the promotion's
	// discount rate; applied automatically, no code needed.
	KindPercentage PromotionKind = "percentage"
	// KindFixedCoupon deducts a fixed amount (or a capped rate-based
	// deduction) and is redeemed through a unique code.
	KindFixedCoupon PromotionKind = "fixed_coupon"
	// KindFlashSale is a time-boxed rate discount over an explicit
	// product set.
	KindFlashSale PromotionKind = "flash_sale"
)

// Valid reports whether the kind is one of the supported modalities.
func (k PromotionKind) Valid() bool {
	switch k {
	case KindPercentage, KindFixedCoupon, KindFlashSale:
		return true
	}
	return false
}

// Promotion represents a discount rule, its applicability, validity window
// and usage accounting.
type Promotion struct {
	ID                   int64            `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	Description          string           `json:"description" db:"description"`
	Kind                 PromotionKind    `json:"kind" db:"kind"`
	DiscountRate         *decimal.Decimal `json:"discountRate,omitempty" db:"discount_rate"`
	DiscountAmount       *decimal.Decimal `json:"discountAmount,omitempty" db:"discount_amount"`
	MinPurchaseAmount    *decimal.Decimal `json:"minPurchaseAmount,omitempty" db:"min_purchase_amount"`
	MaxDiscountAmount    *decimal.Decimal `json:"maxDiscountAmount,omitempty" db:"max_discount_amount"`
	Code                 *string          `json:"code,omitempty" db:"code"`
	ApplicableProducts   []string         `json:"applicableProducts"`
	ApplicableCategories []string         `json:"applicableCategories"`
	StartDate            time.Time        `json:"startDate" db:"start_date"`
	EndDate              time.Time        `json:"endDate" db:"end_date"`
	IsActive             bool             `json:"isActive" db:"is_active"`
	MaxUsageCount        *int             `json:"maxUsageCount,omitempty" db:"max_usage_count"`
	CurrentUsageCount    int              `json:"currentUsageCount" db:"current_usage_count"`
	CreatedAt            time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time        `json:"updatedAt" db:"updated_at"`
}

// ActiveAt reports whether the kill switch is on and the instant falls
// inside the inclusive activity window.
func (p *Promotion) ActiveAt(at time.Time) bool {
	return p.IsActive && !at.Before(p.StartDate) && !at.After(p.EndDate)
}

// UsageExhausted reports whether the usage cap is set and reached.
func (p *Promotion) UsageExhausted() bool {
	return p.MaxUsageCount != nil && p.CurrentUsageCount >= *p.MaxUsageCount
}

// PromotionRequest is the payload for creating or updating a promotion.
// Applicability id lists are pointers at the slice level on update: a nil
// slice leaves the existing links untouched, an empty slice clears them.
type PromotionRequest struct {
	Name                  string           `json:"name" validate:"required,max=255"`
	Description           string           `json:"description" validate:"max=500"`
	Kind                  PromotionKind    `json:"kind" validate:"required"`
	DiscountRate          *decimal.Decimal `json:"discountRate,omitempty"`
	DiscountAmount        *decimal.Decimal `json:"discountAmount,omitempty"`
	MinPurchaseAmount     *decimal.Decimal `json:"minPurchaseAmount,omitempty"`
	MaxDiscountAmount     *decimal.Decimal `json:"maxDiscountAmount,omitempty"`
	Code                  *string          `json:"code,omitempty" validate:"omitempty,min=3,max=64"`
	ApplicableProductIDs  []string         `json:"applicableProductIds,omitempty"`
	ApplicableCategoryIDs []string         `json:"applicableCategoryIds,omitempty"`
	StartDate             time.Time        `json:"startDate" validate:"required"`
	EndDate               time.Time        `json:"endDate" validate:"required"`
	IsActive              *bool            `json:"isActive,omitempty"`
	MaxUsageCount         *int             `json:"maxUsageCount,omitempty" validate:"omitempty,gte=0"`
}

// FlashSaleRequest is the payload for creating a flash sale over an
// explicit product set. Zero-valued rate and duration fall back to the
// configured defaults.
type FlashSaleRequest struct {
	ProductIDs    []string        `json:"productIds" validate:"required,min=1,dive,required"`
	DiscountRate  decimal.Decimal `json:"discountRate"`
	DurationHours int             `json:"durationHours" validate:"gte=0"`
}

// RedeemRequest is the payload for applying a promotion code to a subtotal.
type RedeemRequest struct {
	Code     string          `json:"code" validate:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// RedeemResponse reports the outcome of a successful redemption.
type RedeemResponse struct {
	Code             string          `json:"code"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountedAmount decimal.Decimal `json:"discountedAmount"`
}

// ValidateCodeResponse reports the outcome of a pre-flight code check.
type ValidateCodeResponse struct {
	Code  string `json:"code"`
	Valid bool   `json:"valid"`
}
