package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/infra/logging"
	"bos-storefront/internal/infra/metrics"
	"bos-storefront/internal/usecase"
)

type quoteRequest struct {
	Items []model.CartLine `json:"items"`
}

type quoteLineDTO struct {
	Kind      string          `json:"kind"`
	ItemRef   string          `json:"itemRef"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name,omitempty"`
	Found     bool            `json:"found"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Badges    []string        `json:"badges"`
}

type quoteDTO struct {
	Lines       []quoteLineDTO  `json:"lines"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int             `json:"totalItems"`
	Currency    string          `json:"currency"`
}

func (s *Server) quote(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantId")
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	totals, err := s.orderUC.Quote(logging.WithTenantID(r.Context(), tenantID), tenantID, req.Items)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := quoteDTO{
		Lines:       make([]quoteLineDTO, 0, len(totals.Lines)),
		TotalAmount: totals.TotalAmount,
		TotalItems:  totals.TotalItems,
		Currency:    s.opts.Currency,
	}
	for _, lq := range totals.Lines {
		badges := lq.Badges
		if badges == nil {
			badges = []string{}
		}
		out.Lines = append(out.Lines, quoteLineDTO{
			Kind:      string(lq.Line.Kind),
			ItemRef:   lq.Line.ItemRef,
			Quantity:  lq.Line.Quantity,
			Name:      lq.Name,
			Found:     lq.Found,
			UnitPrice: lq.UnitPrice,
			LineTotal: lq.LineTotal,
			Badges:    badges,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type orderRequest struct {
	CustomerName   string           `json:"customerName"`
	CustomerPhone  string           `json:"customerPhone"`
	CustomerEmail  *string          `json:"customerEmail"`
	DeliveryMethod string           `json:"deliveryMethod"`
	PaymentMethod  string           `json:"paymentMethod"`
	Address        *model.Address   `json:"address"`
	Items          []model.CartLine `json:"items"`
}

type orderItemDTO struct {
	Kind        string          `json:"kind"`
	ProductID   *string         `json:"productId,omitempty"`
	PromotionID *string         `json:"promotionId,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type orderDTO struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	DeliveryMethod string          `json:"deliveryMethod"`
	PaymentMethod  string          `json:"paymentMethod"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	Items          []orderItemDTO  `json:"items"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// placeOrder prices the cart server-side; any client price is ignored.
func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantId")
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := s.orderUC.PlaceOrder(logging.WithTenantID(r.Context(), tenantID), tenantID, usecase.OrderRequest{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		DeliveryMethod: req.DeliveryMethod,
		PaymentMethod:  req.PaymentMethod,
		Address:        req.Address,
		Lines:          req.Items,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	total, _ := order.Total.Float64()
	metrics.ObserveOrder(order.DeliveryMethod, order.Currency, total)

	out := orderDTO{
		ID:             order.ID,
		Status:         string(order.Status),
		DeliveryMethod: order.DeliveryMethod,
		PaymentMethod:  order.PaymentMethod,
		Total:          order.Total,
		Currency:       order.Currency,
		Items:          make([]orderItemDTO, 0, len(order.Items)),
		CreatedAt:      order.CreatedAt,
	}
	for _, it := range order.Items {
		out.Items = append(out.Items, orderItemDTO{
			Kind:        string(it.Kind),
			ProductID:   it.ProductID,
			PromotionID: it.PromotionID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	writeJSON(w, http.StatusCreated, out)
}
