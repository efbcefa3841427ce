package pricing

import (
	"github.com/shopspring/decimal"

	"bos-storefront/internal/domain/model"
)

// LineQuote is the priced view of one cart line.
type LineQuote struct {
	Line      model.CartLine
	Name      string
	Found     bool // false when the referenced product/promotion is unknown
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Badges    []string
}

// CartTotals aggregates a priced cart.
type CartTotals struct {
	Lines       []LineQuote
	TotalAmount decimal.Decimal
	TotalItems  int
}

// Totals prices lines against products. Unknown references and non-positive
// quantities contribute zero.
func (e *Engine) Totals(lines []model.CartLine, products []*model.Product) CartTotals {
	byID := make(map[string]*model.Product, len(products))
	for _, p := range products {
		if p != nil {
			byID[p.ID] = p
		}
	}

	q := CartTotals{TotalAmount: decimal.Zero}
	for _, l := range lines {
		lq := LineQuote{Line: l, UnitPrice: decimal.Zero, LineTotal: decimal.Zero}
		switch l.Kind {
		case model.LineProduct:
			if p, ok := byID[l.ItemRef]; ok {
				lq.Found = true
				lq.Name = p.Name
				lq.UnitPrice, _ = e.UnitPrice(p)
				lq.LineTotal = e.LineTotal(p, l.Quantity)
				lq.Badges = e.Badges(p.ID)
			}
		case model.LinePromotion:
			if promo, ok := e.Promotion(l.ItemRef); ok {
				lq.Found = true
				lq.Name = promo.Name
				lq.UnitPrice = PromoPrice(promo, products)
				if l.Quantity > 0 {
					lq.LineTotal = Round2(lq.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
				}
			}
		}
		if l.Quantity > 0 {
			q.TotalItems += l.Quantity
		}
		q.TotalAmount = q.TotalAmount.Add(lq.LineTotal)
		q.Lines = append(q.Lines, lq)
	}
	return q
}
