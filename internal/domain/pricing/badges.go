package pricing

import (
	"fmt"

	"bos-storefront/internal/domain/model"
)

// Badges labels every active promotion on productID, including the ones that
// lose on price.
func (e *Engine) Badges(productID string) []string {
	promos := e.ProductPromotions(productID)
	out := make([]string, 0, len(promos))
	for _, p := range promos {
		out = append(out, FormatBadge(p))
	}
	return out
}

// FormatBadge renders "-20%" for discounts, "3x2" for buy-N-pay-M, and the
// promotion name otherwise.
func FormatBadge(p *model.Promotion) string {
	switch p.Type {
	case model.PromotionDiscount:
		if p.Percentage.Valid && !p.Percentage.Decimal.IsZero() {
			return "-" + p.Percentage.Decimal.String() + "%"
		}
	case model.PromotionNxM:
		if p.BuyQty != nil && p.PayQty != nil && *p.BuyQty != 0 && *p.PayQty != 0 {
			return fmt.Sprintf("%dx%d", *p.BuyQty, *p.PayQty)
		}
	}
	return p.Name
}
