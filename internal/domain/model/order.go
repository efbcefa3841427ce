package model

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"

	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"

	DefaultCurrency = "ARS"
)

// Address is only filled for delivery orders.
type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	Floor        string `json:"floor,omitempty"`
	Apartment    string `json:"apartment,omitempty"`
	Reference    string `json:"reference,omitempty"`
}

// Order is a priced cart persisted for the merchant.
type Order struct {
	ID             string
	TenantID       string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  *string
	Status         OrderStatus
	DeliveryMethod string
	PaymentMethod  string
	Total          decimal.Decimal
	Currency       string
	Address        *Address
	Items          []OrderItem
	CreatedAt      time.Time
}

// OrderItem freezes the price computed at checkout.
type OrderItem struct {
	ID          string
	Kind        LineKind
	ProductID   *string
	PromotionID *string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// NewOrderID returns a lexicographically sortable id.
func NewOrderID() string {
	return ulid.Make().String()
}
