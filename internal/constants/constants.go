package constants

import "time"

type ContextKey string

const (
	RequestIDKey      ContextKey = "request_id"
	SessionPayloadKey ContextKey = "session_payload"
)

const (
	// 訂單建立後的付款期限，超過視為過期(由外部sweeper處理)
	OrderExpiryDuration = 30 * time.Minute

	SessionDuration = 24 * time.Hour
)

const (
	RoleBuyer  = "BUYER"
	RoleSeller = "SELLER"
)
