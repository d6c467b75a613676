package model

import "time"

const (
	OrderStatusPending  = "PENDING"
	OrderStatusPaid     = "PAID"
	OrderStatusCanceled = "CANCELED"
)

// Order 一張訂單只屬於一個賣家
// 同一次checkout的多賣家購物車會產生多張兄弟訂單，共用checkout_attempt_id
// (buyer_id, checkout_attempt_id, seller_id)唯一索引是冪等性的最後防線
type Order struct {
	OrderID           string      `gorm:"primaryKey;type:varchar(255)" json:"order_id"`
	OrderNo           string      `gorm:"not null;type:varchar(32);index" json:"order_no"`
	BuyerID           string      `gorm:"not null;type:varchar(255);index;uniqueIndex:idx_order_attempt,priority:1" json:"buyer_id"`
	SellerID          string      `gorm:"not null;type:varchar(255);index;uniqueIndex:idx_order_attempt,priority:3" json:"seller_id"`
	Status            string      `gorm:"not null;type:varchar(20);default:PENDING" json:"status"`
	TotalAmountKrw    int64       `gorm:"not null" json:"total_amount_krw"` // legacy欄位，同items subtotal
	ItemsSubtotalKrw  int64       `gorm:"not null" json:"items_subtotal_krw"`
	ShippingFeeKrw    int64       `gorm:"not null" json:"shipping_fee_krw"`
	TotalPayKrw       int64       `gorm:"not null" json:"total_pay_krw"`
	ShipToName        string      `gorm:"not null;type:varchar(50)" json:"ship_to_name"`
	ShipToPhone       string      `gorm:"not null;type:varchar(30)" json:"ship_to_phone"`
	ShipToZip         string      `gorm:"not null;type:varchar(10)" json:"ship_to_zip"`
	ShipToAddr1       string      `gorm:"not null;type:varchar(200)" json:"ship_to_addr1"`
	ShipToAddr2       string      `gorm:"type:varchar(200)" json:"ship_to_addr2"`
	CheckoutAttemptID string      `gorm:"not null;type:varchar(255);uniqueIndex:idx_order_attempt,priority:2" json:"checkout_attempt_id"`
	ExpiresAt         time.Time   `gorm:"not null" json:"expires_at"`
	Items             []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"` // 一對多，級聯刪除
	Payment           *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	BaseModel
}

// OrderItem unit_price_krw為建單當下快照，之後商品改價不得回溯影響
type OrderItem struct {
	OrderItemID  string          `gorm:"primaryKey;type:varchar(255)" json:"order_item_id"`
	OrderID      string          `gorm:"not null;type:varchar(255);index" json:"order_id"`
	ProductID    string          `gorm:"not null;type:varchar(255)" json:"product_id"`
	VariantID    string          `gorm:"type:varchar(255)" json:"variant_id"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPriceKrw int64           `gorm:"not null" json:"unit_price_krw"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant      *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	BaseModel
}
