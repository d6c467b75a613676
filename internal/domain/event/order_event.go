package event

import "time"

const (
	TypeOrderCreated  = "OrderCreated"
	TypeOrderPaid     = "OrderPaid"
	TypeOrderCanceled = "OrderCanceled"
)

// OrderEvent 訂單領域事件，commit後才發佈
type OrderEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	OrderNo     string    `json:"order_no"`
	BuyerID     string    `json:"buyer_id"`
	SellerID    string    `json:"seller_id"`
	TotalPayKrw int64     `json:"total_pay_krw"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e OrderEvent) StreamID() string {
	return "order-" + e.OrderID
}
