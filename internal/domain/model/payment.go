package model

import "time"

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusConfirmed = "CONFIRMED"
	PaymentStatusDone      = "DONE"
	PaymentStatusCanceled  = "CANCELED"

	PaymentMethodTestSimulation = "TEST_SIMULATION"
)

// Payment 與Order一對一，可能在建單時建立或confirm時lazy建立
type Payment struct {
	PaymentID  string     `gorm:"primaryKey;type:varchar(255)" json:"payment_id"`
	OrderID    string     `gorm:"not null;type:varchar(255);uniqueIndex" json:"order_id"`
	Status     string     `gorm:"not null;type:varchar(20);default:PENDING" json:"status"`
	PaymentKey string     `gorm:"type:varchar(255)" json:"payment_key"`
	AmountKrw  int64      `gorm:"not null" json:"amount_krw"`
	Method     string     `gorm:"type:varchar(50)" json:"method"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	BaseModel
}
