package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/constants"
	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/domain/event"
	"github.com/mikrobrand/mikro1/internal/domain/model"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
	"github.com/mikrobrand/mikro1/internal/pkg/util"
)

// CreateOrdersResult create-orders的回應內容
// Idempotent為true時Orders是先前已建立的訂單，本次呼叫沒有任何寫入
type CreateOrdersResult struct {
	Idempotent         bool
	Orders             []model.Order
	RemovedCartItemIDs []string
}

type ICheckoutService interface {
	CreateOrders(ctx context.Context, buyerID, checkoutAttemptID, addressID string) (*CreateOrdersResult, error)
}

/*
CheckoutService 把購物車轉成每個賣家一張的PENDING訂單

整個流程在單一transaction內完成：
 1. 冪等檢查 (buyer_id, checkout_attempt_id)，已存在就原樣回傳
 2. 地址驗證
 3. 購物車對帳：variant已消失或product已下架/刪除的項目直接清掉
 4. 逐項驗證：不可買自己的商品、數量不可超過現有庫存(預檢，非扣帳)
 5. 按賣家分組建單，單價當場快照，運費按賣家政策結算

建單階段「不」扣庫存，扣庫存延後到付款確認，
避免30分鐘過期的棄單長時間佔住庫存
*/
type CheckoutService struct {
	store  db.UnifiedDB
	events IOrderEventService
}

func NewCheckoutService(store db.UnifiedDB, events IOrderEventService) *CheckoutService {
	return &CheckoutService{
		store:  store,
		events: events,
	}
}

func (s *CheckoutService) CreateOrders(ctx context.Context, buyerID, checkoutAttemptID, addressID string) (*CreateOrdersResult, error) {
	if checkoutAttemptID == "" {
		return nil, apperr.New(apperr.KindBadRequest, "checkoutAttemptId is required")
	}
	if addressID == "" {
		return nil, apperr.New(apperr.KindAddressInvalid, "addressId is required")
	}

	result := &CreateOrdersResult{}

	err := s.store.ExecTx(ctx, func(tx db.UnifiedDB) error {
		// 冪等檢查必須最先做，retry的請求不能產生第二組訂單
		existing, err := tx.GetOrdersByAttempt(ctx, buyerID, checkoutAttemptID)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "query existing orders failed", err)
		}
		if len(existing) > 0 {
			orders, err := s.reloadOrders(ctx, tx, existing)
			if err != nil {
				return err
			}
			result.Idempotent = true
			result.Orders = orders
			return nil
		}

		address, err := tx.GetAddressByID(ctx, addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindAddressInvalid, "address not found")
			}
			return apperr.Wrap(apperr.KindInternal, "query address failed", err)
		}
		if address.UserID != buyerID {
			return apperr.New(apperr.KindAddressInvalid, "address does not belong to buyer")
		}

		validItems, removedIDs, err := s.reconcileCart(ctx, tx, buyerID)
		if err != nil {
			return err
		}
		result.RemovedCartItemIDs = removedIDs

		orders, err := s.assembleOrders(ctx, tx, buyerID, checkoutAttemptID, address, validItems)
		if err != nil {
			return err
		}
		result.Orders = orders
		return nil
	})
	if err != nil {
		// 兩個併發請求同時通過冪等檢查時，unique index是最後防線
		// 輸的那邊改回傳先贏者建立的訂單
		if isDuplicateOrderErr(err) {
			return s.recoverIdempotent(ctx, buyerID, checkoutAttemptID)
		}
		return nil, err
	}

	if !result.Idempotent {
		s.publishCreatedEvents(ctx, result.Orders)
	}
	return result, nil
}

// reconcileCart 清掉已失效的購物車項目並驗證剩餘項目
// 刪除與建單同一個transaction，下游失敗時清理也一起rollback
func (s *CheckoutService) reconcileCart(ctx context.Context, tx db.UnifiedDB, buyerID string) ([]model.CartItem, []string, error) {
	items, err := tx.GetCartItemsDetailed(ctx, buyerID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindInternal, "load cart failed", err)
	}
	if len(items) == 0 {
		return nil, nil, apperr.New(apperr.KindCartEmpty, "cart is empty")
	}

	var valid []model.CartItem
	var removedIDs []string
	for _, item := range items {
		if isStaleCartItem(item) {
			removedIDs = append(removedIDs, item.CartItemID)
			continue
		}
		valid = append(valid, item)
	}

	if len(removedIDs) > 0 {
		if _, err := tx.DeleteCartItemsByIDs(ctx, removedIDs); err != nil {
			return nil, nil, apperr.Wrap(apperr.KindInternal, "remove stale cart items failed", err)
		}
	}

	if len(valid) == 0 {
		if len(removedIDs) > 0 {
			return nil, nil, apperr.New(apperr.KindCartItemInvalidRemoved, "all cart items were invalid and removed")
		}
		return nil, nil, apperr.New(apperr.KindCartEmpty, "cart is empty")
	}

	for _, item := range valid {
		if item.Variant == nil {
			return nil, nil, apperr.Newf(apperr.KindCartItemInvalid, "cart item %s has no variant", item.CartItemID)
		}
		if item.Product.SellerID == buyerID {
			return nil, nil, apperr.New(apperr.KindSelfPurchase, "cannot purchase your own product")
		}
		// 預檢而已，權威的庫存扣減在付款確認時的conditional decrement
		if int64(item.Quantity) > item.Variant.Stock {
			return nil, nil, apperr.Newf(apperr.KindOutOfStock, "insufficient stock for variant %s", item.VariantID)
		}
	}
	return valid, removedIDs, nil
}

// assembleOrders 按賣家分組建單，分組保留購物車內首次出現的順序
func (s *CheckoutService) assembleOrders(ctx context.Context, tx db.UnifiedDB, buyerID, checkoutAttemptID string, address *model.Address, items []model.CartItem) ([]model.Order, error) {
	groups := make(map[string][]model.CartItem)
	var sellerOrder []string
	for _, item := range items {
		sellerID := item.Product.SellerID
		if _, ok := groups[sellerID]; !ok {
			sellerOrder = append(sellerOrder, sellerID)
		}
		groups[sellerID] = append(groups[sellerID], item)
	}

	now := time.Now()
	orders := make([]model.Order, 0, len(sellerOrder))
	for _, sellerID := range sellerOrder {
		group := groups[sellerID]

		profile, err := tx.GetSellerProfile(ctx, sellerID)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "load seller profile failed", err)
		}
		policy := model.ResolveShippingPolicy(profile)

		subtotal := decimal.Zero
		orderID := uuid.NewString()
		orderItems := make([]model.OrderItem, 0, len(group))
		for _, item := range group {
			// 單價在此刻快照進order item，之後改價不得回溯
			unitPrice := item.Product.PriceKrw
			subtotal = subtotal.Add(decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, model.OrderItem{
				OrderItemID:  uuid.NewString(),
				OrderID:      orderID,
				ProductID:    item.ProductID,
				VariantID:    item.VariantID,
				Quantity:     item.Quantity,
				UnitPriceKrw: unitPrice,
			})
		}

		itemsSubtotalKrw := subtotal.IntPart()
		shippingFeeKrw := policy.FeeFor(itemsSubtotalKrw)
		totalPayKrw := itemsSubtotalKrw + shippingFeeKrw

		order := model.Order{
			OrderID:           orderID,
			OrderNo:           util.GenerateOrderNoAt(now),
			BuyerID:           buyerID,
			SellerID:          sellerID,
			Status:            model.OrderStatusPending,
			TotalAmountKrw:    itemsSubtotalKrw,
			ItemsSubtotalKrw:  itemsSubtotalKrw,
			ShippingFeeKrw:    shippingFeeKrw,
			TotalPayKrw:       totalPayKrw,
			ShipToName:        address.Name,
			ShipToPhone:       address.Phone,
			ShipToZip:         address.ZipCode,
			ShipToAddr1:       address.Addr1,
			ShipToAddr2:       address.Addr2,
			CheckoutAttemptID: checkoutAttemptID,
			ExpiresAt:         now.Add(constants.OrderExpiryDuration),
			Items:             orderItems,
		}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *CheckoutService) reloadOrders(ctx context.Context, tx db.UnifiedDB, orders []model.Order) ([]model.Order, error) {
	full := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		loaded, err := tx.GetOrderByID(ctx, o.OrderID)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "reload order failed", err)
		}
		full = append(full, *loaded)
	}
	return full, nil
}

func (s *CheckoutService) recoverIdempotent(ctx context.Context, buyerID, checkoutAttemptID string) (*CreateOrdersResult, error) {
	existing, err := s.store.GetOrdersByAttempt(ctx, buyerID, checkoutAttemptID)
	if err != nil || len(existing) == 0 {
		return nil, apperr.Wrap(apperr.KindInternal, "create orders failed", err)
	}
	orders, err := s.reloadOrders(ctx, s.store, existing)
	if err != nil {
		return nil, err
	}
	return &CreateOrdersResult{Idempotent: true, Orders: orders}, nil
}

func (s *CheckoutService) publishCreatedEvents(ctx context.Context, orders []model.Order) {
	if s.events == nil {
		return
	}
	now := time.Now()
	events := make([]event.OrderEvent, 0, len(orders))
	for _, o := range orders {
		events = append(events, event.OrderEvent{
			EventID:     uuid.NewString(),
			Type:        event.TypeOrderCreated,
			OrderID:     o.OrderID,
			OrderNo:     o.OrderNo,
			BuyerID:     o.BuyerID,
			SellerID:    o.SellerID,
			TotalPayKrw: o.TotalPayKrw,
			OccurredAt:  now,
		})
	}
	if err := s.events.PublishOrderEvents(ctx, events); err != nil {
		log.Warn().Err(err).Msg("publish order created events failed")
	}
}

func isStaleCartItem(item model.CartItem) bool {
	if item.Variant == nil {
		return true
	}
	if item.Product == nil {
		return true
	}
	return item.Product.IsDeleted || !item.Product.IsActive
}

func isDuplicateOrderErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

var _ ICheckoutService = (*CheckoutService)(nil)
