package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bos-storefront/internal/domain"
)

type PromotionType string

const (
	PromotionDiscount PromotionType = "discount" // percentage off
	PromotionNxM      PromotionType = "nxm"      // buy N pay M
	PromotionBundle   PromotionType = "bundle"   // combo sold as its own cart line
)

// Promotion only reads the fields relevant to its Type.
type Promotion struct {
	ID          string
	TenantID    string
	Name        string
	Type        PromotionType
	Active      bool
	Description string
	ProductIDs  []string
	Percentage  decimal.NullDecimal
	BuyQty      *int
	PayQty      *int
	FixedPrice  decimal.NullDecimal
}

// Targets reports whether productID is part of the promotion.
func (p *Promotion) Targets(productID string) bool {
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// BundleQty returns buy/pay when they form a usable N-for-M rule (buy > pay > 0).
func (p *Promotion) BundleQty() (buy, pay int, ok bool) {
	if p.BuyQty != nil {
		buy = *p.BuyQty
	}
	if p.PayQty != nil {
		pay = *p.PayQty
	}
	if buy <= 0 || pay <= 0 || buy <= pay {
		return 0, 0, false
	}
	return buy, pay, true
}

// Validate checks the fields required by the declared type. Pricing never calls it;
// it guards writes into the catalog.
func (p *Promotion) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: promotion name is required", domain.ErrInvalidArgument)
	}
	switch p.Type {
	case PromotionDiscount:
		if !p.Percentage.Valid {
			return fmt.Errorf("%w: discount promotion requires a percentage", domain.ErrInvalidArgument)
		}
		pct := p.Percentage.Decimal
		if !pct.IsPositive() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percentage must be in (0, 100]", domain.ErrInvalidArgument)
		}
	case PromotionNxM:
		if _, _, ok := p.BundleQty(); !ok {
			return fmt.Errorf("%w: nxm promotion requires buy > pay > 0", domain.ErrInvalidArgument)
		}
	case PromotionBundle:
		if len(p.ProductIDs) == 0 && !p.FixedPrice.Valid {
			return fmt.Errorf("%w: bundle promotion requires products or a fixed price", domain.ErrInvalidArgument)
		}
		if p.FixedPrice.Valid && p.FixedPrice.Decimal.IsNegative() {
			return fmt.Errorf("%w: bundle price cannot be negative", domain.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown promotion type %q", domain.ErrInvalidArgument, p.Type)
	}
	return nil
}
