package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 錯誤分類，同時作為內部信號與對外的machine-readable code
type Kind string

const (
	KindCartEmpty              Kind = "CART_EMPTY"
	KindCartItemInvalidRemoved Kind = "CART_ITEM_INVALID_REMOVED"
	KindCartItemInvalid        Kind = "CART_ITEM_INVALID"
	KindSelfPurchase           Kind = "SELF_PURCHASE_NOT_ALLOWED"
	KindOutOfStock             Kind = "OUT_OF_STOCK"
	KindAddressInvalid         Kind = "ADDRESS_INVALID"
	KindOrderNotFound          Kind = "ORDER_NOT_FOUND"
	KindInvalidOrderStatus     Kind = "INVALID_ORDER_STATUS"
	KindVariantNotFound        Kind = "VARIANT_NOT_FOUND"
	KindVariantDuplicated      Kind = "VARIANT_DUPLICATED"
	KindProductNotFound        Kind = "PRODUCT_NOT_FOUND"
	KindUnauthenticated        Kind = "UNAUTHENTICATED"
	KindForbidden              Kind = "FORBIDDEN"
	KindBadRequest             Kind = "BAD_REQUEST"
	KindInternal               Kind = "INTERNAL"
)

// kind對應的http status, 未列出的一律500
var statusMap = map[Kind]int{
	KindCartEmpty:              http.StatusBadRequest,
	KindCartItemInvalidRemoved: http.StatusConflict,
	KindCartItemInvalid:        http.StatusBadRequest,
	KindSelfPurchase:           http.StatusConflict,
	KindOutOfStock:             http.StatusConflict,
	KindAddressInvalid:         http.StatusBadRequest,
	KindOrderNotFound:          http.StatusNotFound,
	KindInvalidOrderStatus:     http.StatusBadRequest,
	KindVariantNotFound:        http.StatusBadRequest,
	KindVariantDuplicated:      http.StatusConflict,
	KindProductNotFound:        http.StatusNotFound,
	KindUnauthenticated:        http.StatusUnauthorized,
	KindForbidden:              http.StatusForbidden,
	KindBadRequest:             http.StatusBadRequest,
	KindInternal:               http.StatusInternalServerError,
}

// MarketError 帶Kind的領域錯誤
// Error()維持 "KIND: message" 格式，舊callers靠substring判斷仍可運作
type MarketError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *MarketError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *MarketError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *MarketError {
	return &MarketError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *MarketError {
	return &MarketError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *MarketError {
	return &MarketError{Kind: kind, Message: message, Err: err}
}

// KindOf 取出錯誤分類，非MarketError一律視為INTERNAL
func KindOf(err error) Kind {
	var me *MarketError
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindInternal
}

// StatusOf 轉換為http status
func StatusOf(err error) int {
	if status, ok := statusMap[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsKind 判斷錯誤是否屬於指定分類
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
