package dto

import (
	"time"

	"github.com/mikrobrand/mikro1/internal/domain/model"
)

type RegisterUserRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type RegisterSellerRequest struct {
	ShopName                 string `json:"shopName"`
	ShippingFeeKrw           *int64 `json:"shippingFeeKrw,omitempty"`
	FreeShippingThresholdKrw *int64 `json:"freeShippingThresholdKrw,omitempty"`
}

type IssueSessionRequest struct {
	UserID string `json:"userId"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expiresAt"`
}

type CreateAddressRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	ZipCode string `json:"zipCode"`
	Addr1   string `json:"addr1"`
	Addr2   string `json:"addr2"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type VariantRequest struct {
	Color     string `json:"color"`
	SizeLabel string `json:"sizeLabel"`
	Stock     int64  `json:"stock"`
}

type CreateProductRequest struct {
	Title    string           `json:"title"`
	PriceKrw int64            `json:"priceKrw"`
	Variants []VariantRequest `json:"variants"`
}

type UpdatePriceRequest struct {
	PriceKrw int64 `json:"priceKrw"`
}

type CreateOrdersRequest struct {
	CheckoutAttemptID string `json:"checkoutAttemptId"`
	AddressID         string `json:"addressId"`
}

type CreateOrdersResponse struct {
	OK               bool       `json:"ok"`
	Idempotent       bool       `json:"idempotent"`
	Orders           []OrderDTO `json:"orders"`
	RemovedCartItems []string   `json:"removedCartItems"`
}

type ConfirmPaymentRequest struct {
	OrderID    string `json:"orderId"`
	PaymentKey string `json:"paymentKey,omitempty"`
}

type ConfirmPaymentResponse struct {
	Status  string `json:"status"` // confirmed | already_paid
	OrderID string `json:"orderId"`
}

type SimulatePaymentsRequest struct {
	OrderIDs []string `json:"orderIds"`
}

type SimulatePaymentsResponse struct {
	OK          bool `json:"ok"`
	AlreadyPaid bool `json:"alreadyPaid,omitempty"`
}

type OrderItemDTO struct {
	OrderItemID  string `json:"orderItemId"`
	ProductID    string `json:"productId"`
	VariantID    string `json:"variantId,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPriceKrw int64  `json:"unitPriceKrw"`
}

type OrderDTO struct {
	OrderID          string         `json:"orderId"`
	OrderNo          string         `json:"orderNo"`
	SellerID         string         `json:"sellerId"`
	Status           string         `json:"status"`
	ItemsSubtotalKrw int64          `json:"itemsSubtotalKrw"`
	ShippingFeeKrw   int64          `json:"shippingFeeKrw"`
	TotalPayKrw      int64          `json:"totalPayKrw"`
	ExpiresAt        time.Time      `json:"expiresAt"`
	CreatedAt        time.Time      `json:"createdAt"`
	Items            []OrderItemDTO `json:"items"`
}

type OrderListResponse struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total,omitempty"`
}

func ConvertOrderToDTO(order model.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			OrderItemID:  item.OrderItemID,
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			Quantity:     item.Quantity,
			UnitPriceKrw: item.UnitPriceKrw,
		})
	}
	return OrderDTO{
		OrderID:          order.OrderID,
		OrderNo:          order.OrderNo,
		SellerID:         order.SellerID,
		Status:           order.Status,
		ItemsSubtotalKrw: order.ItemsSubtotalKrw,
		ShippingFeeKrw:   order.ShippingFeeKrw,
		TotalPayKrw:      order.TotalPayKrw,
		ExpiresAt:        order.ExpiresAt,
		CreatedAt:        order.CreatedAt,
		Items:            items,
	}
}

func ConvertOrdersToDTO(orders []model.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, ConvertOrderToDTO(o))
	}
	return dtos
}
