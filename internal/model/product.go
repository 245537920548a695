package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalogue.
type Product struct {
	ID         string          `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Price      decimal.Decimal `json:"price" db:"price"`
	CategoryID string          `json:"categoryId" db:"category_id"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// DiscountedPriceResponse is the payload returned by the product price
// endpoint: the original price alongside the best discounted price found.
type DiscountedPriceResponse struct {
	ProductID       string          `json:"productId"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
}
