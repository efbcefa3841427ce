package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bos-storefront/internal/domain"
	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
	"bos-storefront/internal/domain/pricing"
	"bos-storefront/internal/infra/logging"
)

// OrderRequest is a customer checkout. Client-side prices are never accepted.
type OrderRequest struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  *string
	DeliveryMethod string
	PaymentMethod  string
	Address        *model.Address
	Lines          []model.CartLine
}

// OrderUseCase prices carts and records orders for a tenant's storefront.
type OrderUseCase interface {
	Quote(ctx context.Context, tenantID string, lines []model.CartLine) (*pricing.CartTotals, error)
	PlaceOrder(ctx context.Context, tenantID string, req OrderRequest) (*model.Order, error)
}

var _ OrderUseCase = (*orderUC)(nil)

type orderUC struct {
	catalog  repository.CatalogRepository
	orders   repository.OrderRepository
	currency string
	now      func() time.Time
	log      *zerolog.Logger
}

// NewOrderUseCase wires the checkout flow. An empty currency defaults to ARS.
func NewOrderUseCase(catalog repository.CatalogRepository, orders repository.OrderRepository, currency string, logger *zerolog.Logger) OrderUseCase {
	if currency == "" {
		currency = model.DefaultCurrency
	}
	l := logging.OrNop(logger).With().Str("component", "OrderUC").Logger()
	return &orderUC{
		catalog:  catalog,
		orders:   orders,
		currency: currency,
		now:      func() time.Time { return time.Now().UTC() },
		log:      &l,
	}
}

func (uc *orderUC) Quote(ctx context.Context, tenantID string, lines []model.CartLine) (*pricing.CartTotals, error) {
	cart, err := model.NewCart(lines...)
	if err != nil {
		return nil, err
	}
	totals, err := uc.price(ctx, tenantID, cart)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// PlaceOrder prices every line server-side and stores the order as pending.
// Lines naming an unknown or inactive product, or an inactive promotion, are rejected.
func (uc *orderUC) PlaceOrder(ctx context.Context, tenantID string, req OrderRequest) (*model.Order, error) {
	defer logging.TraceDuration(uc.log, "OrderUC.PlaceOrder")()

	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}
	cart, err := model.NewCart(req.Lines...)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("%w: order has no items", domain.ErrInvalidArgument)
	}

	totals, err := uc.price(ctx, tenantID, cart)
	if err != nil {
		return nil, err
	}
	for _, lq := range totals.Lines {
		if !lq.Found {
			return nil, fmt.Errorf("%w: unknown %s %q", domain.ErrInvalidArgument, lq.Line.Kind, lq.Line.ItemRef)
		}
	}

	order := &model.Order{
		ID:             model.NewOrderID(),
		TenantID:       tenantID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:  req.CustomerEmail,
		Status:         model.OrderStatusPending,
		DeliveryMethod: req.DeliveryMethod,
		PaymentMethod:  req.PaymentMethod,
		Total:          totals.TotalAmount,
		Currency:       uc.currency,
		CreatedAt:      uc.now(),
	}
	if req.DeliveryMethod == model.DeliveryDelivery {
		order.Address = req.Address
	}
	for _, lq := range totals.Lines {
		item := model.OrderItem{
			ID:        uuid.NewString(),
			Kind:      lq.Line.Kind,
			Quantity:  lq.Line.Quantity,
			UnitPrice: lq.UnitPrice,
			LineTotal: lq.LineTotal,
		}
		ref := lq.Line.ItemRef
		if lq.Line.Kind == model.LineProduct {
			item.ProductID = &ref
		} else {
			item.PromotionID = &ref
		}
		order.Items = append(order.Items, item)
	}

	if err := uc.orders.Save(ctx, repository.NoTX, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	logging.With(logging.WithTenantID(ctx, tenantID), uc.log).Info().
		Str("order_id", order.ID).
		Str("total", order.Total.StringFixed(2)).
		Int("items", totals.TotalItems).
		Msg("order placed")
	return order, nil
}

func (uc *orderUC) price(ctx context.Context, tenantID string, cart *model.Cart) (pricing.CartTotals, error) {
	if strings.TrimSpace(tenantID) == "" {
		return pricing.CartTotals{}, fmt.Errorf("%w: tenant is required", domain.ErrInvalidArgument)
	}
	all, err := uc.catalog.ListProductsByTenant(ctx, repository.NoTX, tenantID)
	if err != nil {
		return pricing.CartTotals{}, fmt.Errorf("load products: %w", err)
	}
	// inactive products are hidden from the storefront
	products := make([]*model.Product, 0, len(all))
	for _, p := range all {
		if p != nil && p.IsActive {
			products = append(products, p)
		}
	}
	promos, err := uc.catalog.ListActivePromotionsByTenant(ctx, repository.NoTX, tenantID)
	if err != nil {
		return pricing.CartTotals{}, fmt.Errorf("load promotions: %w", err)
	}
	return pricing.New(promos).Totals(cart.Lines(), products), nil
}

func validateOrderRequest(req OrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer name and phone are required", domain.ErrInvalidArgument)
	}
	switch req.DeliveryMethod {
	case model.DeliveryPickup:
	case model.DeliveryDelivery:
		if req.Address == nil || strings.TrimSpace(req.Address.Street) == "" {
			return fmt.Errorf("%w: delivery orders need an address", domain.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown delivery method %q", domain.ErrInvalidArgument, req.DeliveryMethod)
	}
	switch req.PaymentMethod {
	case model.PaymentCash, model.PaymentTransfer, model.PaymentCard:
	default:
		return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidArgument, req.PaymentMethod)
	}
	if len(req.Lines) == 0 {
		return fmt.Errorf("%w: order has no items", domain.ErrInvalidArgument)
	}
	return nil
}
