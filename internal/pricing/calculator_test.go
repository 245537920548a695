package pricing

import (
	"testing"
	"time"

	"nexcommerce/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func percentagePromotion(rate string) *model.Promotion {
	return &model.Promotion{
		ID:           1,
		Name:         "Standard Discount",
		Kind:         model.KindPercentage,
		DiscountRate: decPtr(rate),
		StartDate:    time.Now().Add(-time.Hour),
		EndDate:      time.Now().Add(time.Hour),
		IsActive:     true,
	}
}

func TestApply_Percentage(t *testing.T) {
	tests := []struct {
		name        string
		rate        string
		minPurchase string
		base        string
		expected    string
	}{
		{
			name:     "20 percent off",
			rate:     "0.8",
			base:     "100.00",
			expected: "80.00",
		},
		{
			name:        "below soft minimum returns base unchanged",
			rate:        "0.8",
			minPurchase: "150",
			base:        "100.00",
			expected:    "100.00",
		},
		{
			name:        "at soft minimum applies discount",
			rate:        "0.8",
			minPurchase: "100",
			base:        "100.00",
			expected:    "80.00",
		},
		{
			name:     "rounds half up to minor unit",
			rate:     "0.5",
			base:     "10.01",
			expected: "5.01", // 5.005 rounds half up
		},
		{
			name:     "zero base stays zero",
			rate:     "0.8",
			base:     "0",
			expected: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := percentagePromotion(tt.rate)
			if tt.minPurchase != "" {
				p.MinPurchaseAmount = decPtr(tt.minPurchase)
			}

			got, err := Apply(p, dec(tt.base))
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestApply_FlashSale(t *testing.T) {
	p := &model.Promotion{
		ID:           7,
		Kind:         model.KindFlashSale,
		DiscountRate: decPtr("0.7"),
		IsActive:     true,
	}

	got, err := Apply(p, dec("50.00"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("35.00")), "got %s", got)
}

func TestApply_FixedCoupon_Amount(t *testing.T) {
	code := "SAVE10"

	tests := []struct {
		name        string
		amount      string
		minPurchase string
		base        string
		expected    string
		expectedErr error
	}{
		{
			name:     "absolute deduction",
			amount:   "10.00",
			base:     "100.00",
			expected: "90.00",
		},
		{
			name:     "deduction floored at zero",
			amount:   "25.00",
			base:     "20.00",
			expected: "0.00",
		},
		{
			name:        "below hard minimum rejects",
			amount:      "10.00",
			minPurchase: "50",
			base:        "40.00",
			expectedErr: model.ErrBelowMinimumPurchase,
		},
		{
			name:        "at hard minimum applies",
			amount:      "10.00",
			minPurchase: "50",
			base:        "50.00",
			expected:    "40.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.Promotion{
				ID:             2,
				Kind:           model.KindFixedCoupon,
				Code:           &code,
				DiscountAmount: decPtr(tt.amount),
			}
			if tt.minPurchase != "" {
				p.MinPurchaseAmount = decPtr(tt.minPurchase)
			}

			got, err := Apply(p, dec(tt.base))
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestApply_FixedCoupon_RateWithCap(t *testing.T) {
	code := "HALFOFF"

	tests := []struct {
		name     string
		rate     string
		cap      string
		base     string
		expected string
	}{
		{
			name:     "cap limits the deduction",
			rate:     "0.5",
			cap:      "20.00",
			base:     "100.00",
			expected: "80.00",
		},
		{
			name:     "uncapped rate applies fully",
			rate:     "0.5",
			base:     "100.00",
			expected: "50.00",
		},
		{
			name:     "deduction under the cap is untouched",
			rate:     "0.9",
			cap:      "20.00",
			base:     "100.00",
			expected: "90.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.Promotion{
				ID:           3,
				Kind:         model.KindFixedCoupon,
				Code:         &code,
				DiscountRate: decPtr(tt.rate),
			}
			if tt.cap != "" {
				p.MaxDiscountAmount = decPtr(tt.cap)
			}

			got, err := Apply(p, dec(tt.base))
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestApply_Errors(t *testing.T) {
	t.Run("negative base amount", func(t *testing.T) {
		_, err := Apply(percentagePromotion("0.8"), dec("-1"))
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		p := &model.Promotion{ID: 4, Kind: model.PromotionKind("bundle")}
		_, err := Apply(p, dec("100"))
		assert.Error(t, err)
	})

	t.Run("percentage without rate", func(t *testing.T) {
		p := &model.Promotion{ID: 5, Kind: model.KindPercentage}
		_, err := Apply(p, dec("100"))
		assert.Error(t, err)
	})

	t.Run("coupon without amount or rate", func(t *testing.T) {
		code := "EMPTY"
		p := &model.Promotion{ID: 6, Kind: model.KindFixedCoupon, Code: &code}
		_, err := Apply(p, dec("100"))
		assert.Error(t, err)
	})
}

func TestApply_IsPure(t *testing.T) {
	p := percentagePromotion("0.8")
	before := *p

	_, err := Apply(p, dec("100.00"))
	require.NoError(t, err)
	assert.Equal(t, before, *p, "Apply must not mutate the promotion")
}
