// Package pricing computes what a customer pays for products and promotion
// bundles. It is pure: an Engine is built once from a tenant's promotions and
// never mutated, so it can be shared across goroutines.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"bos-storefront/internal/domain/model"
)

// Engine prices products against a fixed set of promotions.
type Engine struct {
	active  []*model.Promotion          // input order, drives badges
	bundles []*model.Promotion          // nxm promotions sorted by id
	byID    map[string]*model.Promotion // active promotions, for promotion cart lines
}

// New copies the active promotions out of promos. Inactive ones are ignored.
func New(promos []*model.Promotion) *Engine {
	e := &Engine{byID: make(map[string]*model.Promotion)}
	for _, p := range promos {
		if p == nil || !p.Active {
			continue
		}
		cp := *p
		cp.ProductIDs = append([]string(nil), p.ProductIDs...)
		e.active = append(e.active, &cp)
		e.byID[cp.ID] = &cp
		if cp.Type == model.PromotionNxM {
			e.bundles = append(e.bundles, &cp)
		}
	}
	sort.SliceStable(e.bundles, func(i, j int) bool { return e.bundles[i].ID < e.bundles[j].ID })
	return e
}

// Promotion returns an active promotion by id.
func (e *Engine) Promotion(id string) (*model.Promotion, bool) {
	p, ok := e.byID[id]
	return p, ok
}

// ProductPromotions lists every active promotion that targets productID.
func (e *Engine) ProductPromotions(productID string) []*model.Promotion {
	if productID == "" {
		return nil
	}
	var out []*model.Promotion
	for _, p := range e.active {
		if p.Targets(productID) {
			out = append(out, p)
		}
	}
	return out
}

// HasPromotion reports whether any active promotion targets productID.
func (e *Engine) HasPromotion(productID string) bool {
	return len(e.ProductPromotions(productID)) > 0
}

// BestDiscountPercent is the largest percentage among discount promotions for
// productID, or zero. Discounts never stack.
func (e *Engine) BestDiscountPercent(productID string) decimal.Decimal {
	best := decimal.Zero
	for _, p := range e.ProductPromotions(productID) {
		if p.Type != model.PromotionDiscount || !p.Percentage.Valid {
			continue
		}
		if p.Percentage.Decimal.GreaterThan(best) {
			best = p.Percentage.Decimal
		}
	}
	return best
}

// BestBundle returns the usable buy-N-pay-M promotion with the lowest id.
func (e *Engine) BestBundle(productID string) *model.Promotion {
	for _, p := range e.bundles {
		if !p.Targets(productID) {
			continue
		}
		if _, _, ok := p.BundleQty(); ok {
			return p
		}
	}
	return nil
}

// UnitPrice is the per-unit price after the best discount. ok is false when the
// product has no base price.
func (e *Engine) UnitPrice(p *model.Product) (price decimal.Decimal, ok bool) {
	base, ok := p.BasePrice()
	if !ok {
		return decimal.Zero, false
	}
	pct := e.BestDiscountPercent(p.ID)
	if !pct.IsPositive() {
		return base, true
	}
	return discountedUnit(base, pct), true
}

// LineTotal prices qty units under the discount and the bundle scheme
// independently and returns the cheaper one.
func (e *Engine) LineTotal(p *model.Product, qty int) decimal.Decimal {
	base, ok := p.BasePrice()
	if !ok || qty <= 0 {
		return decimal.Zero
	}
	q := decimal.NewFromInt(int64(qty))
	baseTotal := base.Mul(q)

	discountTotal := baseTotal
	if pct := e.BestDiscountPercent(p.ID); pct.IsPositive() {
		discountTotal = Round2(discountedUnit(base, pct).Mul(q))
	}

	bundleTotal := baseTotal
	if promo := e.BestBundle(p.ID); promo != nil {
		bundleTotal = BundleTotal(base, qty, promo)
	}

	return decimal.Min(discountTotal, bundleTotal)
}

// BundleTotal charges groups of buy units as pay units; leftovers pay full price.
// An unusable promotion falls back to base × qty.
func BundleTotal(base decimal.Decimal, qty int, promo *model.Promotion) decimal.Decimal {
	if qty <= 0 {
		return decimal.Zero
	}
	buy, pay, ok := promo.BundleQty()
	if !ok {
		return base.Mul(decimal.NewFromInt(int64(qty)))
	}
	groups := qty / buy
	remainder := qty % buy
	payable := groups*pay + remainder
	return base.Mul(decimal.NewFromInt(int64(payable)))
}

// PromoPrice is the combo price of a promotion: its fixed price when set,
// otherwise the sum of its member products (unpriced members count as zero).
func PromoPrice(promo *model.Promotion, products []*model.Product) decimal.Decimal {
	if promo == nil {
		return decimal.Zero
	}
	if promo.FixedPrice.Valid {
		return Round2(promo.FixedPrice.Decimal)
	}
	sum := decimal.Zero
	for _, p := range products {
		if p == nil || !promo.Targets(p.ID) {
			continue
		}
		if base, ok := p.BasePrice(); ok {
			sum = sum.Add(base)
		}
	}
	return Round2(sum)
}
