package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPromotionKind_Valid(t *testing.T) {
	assert.True(t, KindPercentage.Valid())
	assert.True(t, KindFixedCoupon.Valid())
	assert.True(t, KindFlashSale.Valid())
	assert.False(t, PromotionKind("buy_one_get_one").Valid())
	assert.False(t, PromotionKind("").Valid())
}

func TestPromotion_ActiveAt(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	p := Promotion{IsActive: true, StartDate: start, EndDate: end}

	assert.True(t, p.ActiveAt(start))
	assert.True(t, p.ActiveAt(end))
	assert.True(t, p.ActiveAt(start.Add(24*time.Hour)))
	assert.False(t, p.ActiveAt(start.Add(-time.Millisecond)))
	assert.False(t, p.ActiveAt(end.Add(time.Millisecond)))

	p.IsActive = false
	assert.False(t, p.ActiveAt(start.Add(24*time.Hour)))
}

func TestPromotion_UsageExhausted(t *testing.T) {
	p := Promotion{CurrentUsageCount: 100}
	assert.False(t, p.UsageExhausted())

	maxUsage := 100
	p.MaxUsageCount = &maxUsage
	assert.True(t, p.UsageExhausted())

	p.CurrentUsageCount = 99
	assert.False(t, p.UsageExhausted())
}
