package model

import "github.com/shopspring/decimal"

// Product is owned by the catalog. A missing Price means "contact for price".
type Product struct {
	ID         string
	TenantID   string
	Name       string
	Price      decimal.NullDecimal
	CategoryID string
	IsActive   bool
}

// BasePrice returns the price and whether one is set.
func (p *Product) BasePrice() (decimal.Decimal, bool) {
	if p == nil || !p.Price.Valid {
		return decimal.Zero, false
	}
	return p.Price.Decimal, true
}
