package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/domain/event"
	"github.com/mikrobrand/mikro1/internal/domain/model"
	"github.com/mikrobrand/mikro1/internal/infra/gateway/toss"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
	"github.com/mikrobrand/mikro1/internal/infra/repository/redis_repo"
)

const (
	ConfirmStatusConfirmed   = "confirmed"
	ConfirmStatusAlreadyPaid = "already_paid"
)

type ConfirmResult struct {
	Status     string
	OrderID    string
	VariantIDs []string // 成功付款的variant，caller拿去清購物車
}

type SimulateResult struct {
	OK          bool
	AlreadyPaid bool
	VariantIDs  []string
}

type IPaymentService interface {
	ConfirmPayment(ctx context.Context, orderID, paymentKey string) (*ConfirmResult, error)
	SimulatePayments(ctx context.Context, buyerID string, orderIDs []string) (*SimulateResult, error)
}

/*
PaymentService PENDING -> PAID / CANCELED 的狀態機

扣庫存只在這裡發生，且一律走conditional decrement：
UPDATE ... SET stock = stock - qty WHERE stock >= qty
影響0列即OUT_OF_STOCK，整個transaction rollback，
同單內先扣成功的項目一併回滾，不存在部份扣減

gateway呼叫(取消退款)是網路round-trip，一律在transaction外執行
*/
type PaymentService struct {
	store      db.UnifiedDB
	gateway    toss.IGateway
	stockCache redis_repo.IVariantStockRepository
	events     IOrderEventService
}

func NewPaymentService(store db.UnifiedDB, gateway toss.IGateway, stockCache redis_repo.IVariantStockRepository, events IOrderEventService) *PaymentService {
	return &PaymentService{
		store:      store,
		gateway:    gateway,
		stockCache: stockCache,
		events:     events,
	}
}

// ConfirmPayment 單筆訂單付款確認
// 已PAID的訂單直接回already_paid，不碰庫存，重送confirm是安全的
func (s *PaymentService) ConfirmPayment(ctx context.Context, orderID, paymentKey string) (*ConfirmResult, error) {
	result := &ConfirmResult{OrderID: orderID}
	var paidOrder *model.Order

	err := s.store.ExecTx(ctx, func(tx db.UnifiedDB) error {
		order, err := loadOrderForPayment(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusPaid {
			result.Status = ConfirmStatusAlreadyPaid
			return nil
		}
		if order.Status != model.OrderStatusPending {
			return apperr.Newf(apperr.KindInvalidOrderStatus, "order %s is %s", orderID, order.Status)
		}

		variantIDs, err := s.deductOrderStock(ctx, tx, order)
		if err != nil {
			return err
		}
		result.VariantIDs = variantIDs

		paid, err := s.markOrderPaid(ctx, tx, order, paymentKey, "", false)
		if err != nil {
			return err
		}
		paidOrder = paid
		result.Status = ConfirmStatusConfirmed
		return nil
	})
	if err != nil {
		s.compensateFailedConfirm(ctx, orderID, paymentKey, err)
		return nil, err
	}

	if result.Status == ConfirmStatusConfirmed {
		s.afterPaid(ctx, []*model.Order{paidOrder}, result.VariantIDs)
	}
	return result, nil
}

// SimulatePayments 測試/開發用批次付款，一次付掉整個checkout attempt的多賣家訂單
// 任一訂單已是PAID就立刻回成功(alreadyPaid)，不處理batch其餘訂單
func (s *PaymentService) SimulatePayments(ctx context.Context, buyerID string, orderIDs []string) (*SimulateResult, error) {
	if len(orderIDs) == 0 {
		return nil, apperr.New(apperr.KindBadRequest, "orderIds is required")
	}

	result := &SimulateResult{}
	var paidOrders []*model.Order

	err := s.store.ExecTx(ctx, func(tx db.UnifiedDB) error {
		orders := make([]*model.Order, 0, len(orderIDs))
		for _, orderID := range orderIDs {
			order, err := loadOrderForPayment(ctx, tx, orderID)
			if err != nil {
				return err
			}
			if order.BuyerID != buyerID {
				return apperr.Newf(apperr.KindForbidden, "order %s does not belong to buyer", orderID)
			}
			if order.Status == model.OrderStatusPaid {
				result.OK = true
				result.AlreadyPaid = true
				return nil
			}
			if order.Status != model.OrderStatusPending {
				return apperr.Newf(apperr.KindInvalidOrderStatus, "order %s is %s", orderID, order.Status)
			}
			orders = append(orders, order)
		}

		var variantIDs []string
		for _, order := range orders {
			ids, err := s.deductOrderStock(ctx, tx, order)
			if err != nil {
				return err
			}
			variantIDs = append(variantIDs, ids...)
		}

		for _, order := range orders {
			paid, err := s.markOrderPaid(ctx, tx, order, "TEST-"+uuid.NewString(), model.PaymentMethodTestSimulation, true)
			if err != nil {
				return err
			}
			paidOrders = append(paidOrders, paid)
		}
		result.OK = true
		result.VariantIDs = variantIDs
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyPaid {
		s.afterPaid(ctx, paidOrders, result.VariantIDs)
	}
	return result, nil
}

// deductOrderStock 對訂單每個item做conditional decrement
// variant_id為空的舊資料fallback到該商品的預設variant
func (s *PaymentService) deductOrderStock(ctx context.Context, tx db.UnifiedDB, order *model.Order) ([]string, error) {
	variantIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		variantID := item.VariantID
		if variantID == "" {
			fallback, err := tx.GetDefaultVariantByProductID(ctx, item.ProductID)
			if err != nil {
				return nil, apperr.Wrap(apperr.KindInternal, "resolve default variant failed", err)
			}
			if fallback == nil {
				return nil, apperr.Newf(apperr.KindVariantNotFound, "no variant for product %s", item.ProductID)
			}
			variantID = fallback.VariantID
		}

		ok, err := tx.DeductVariantStock(ctx, variantID, item.Quantity)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "deduct stock failed", err)
		}
		if !ok {
			return nil, apperr.Newf(apperr.KindOutOfStock, "insufficient stock for variant %s", variantID)
		}
		variantIDs = append(variantIDs, variantID)
	}
	return variantIDs, nil
}

// markOrderPaid 標記PAID並upsert payment
// refreshTotals只有simulate帶true：以item快照重算小計並套用當下的運費政策
// 單筆confirm維持建單時算好的金額不動
func (s *PaymentService) markOrderPaid(ctx context.Context, tx db.UnifiedDB, order *model.Order, paymentKey, method string, refreshTotals bool) (*model.Order, error) {
	itemsSubtotalKrw := order.ItemsSubtotalKrw
	shippingFeeKrw := order.ShippingFeeKrw
	if refreshTotals {
		subtotal := decimal.Zero
		for _, item := range order.Items {
			subtotal = subtotal.Add(decimal.NewFromInt(item.UnitPriceKrw).Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		itemsSubtotalKrw = subtotal.IntPart()

		profile, err := tx.GetSellerProfile(ctx, order.SellerID)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "load seller profile failed", err)
		}
		policy := model.ResolveShippingPolicy(profile)
		shippingFeeKrw = policy.FeeFor(itemsSubtotalKrw)
	}
	totalPayKrw := itemsSubtotalKrw + shippingFeeKrw

	if err := tx.UpdateOrderPaid(ctx, order.OrderID, itemsSubtotalKrw, shippingFeeKrw, totalPayKrw); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "update order paid failed", err)
	}

	now := time.Now()
	payment, err := tx.GetPaymentByOrderID(ctx, order.OrderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load payment failed", err)
	}
	if payment == nil {
		payment = &model.Payment{
			PaymentID:  uuid.NewString(),
			OrderID:    order.OrderID,
			Status:     model.PaymentStatusConfirmed,
			PaymentKey: paymentKey,
			AmountKrw:  totalPayKrw,
			Method:     method,
			ApprovedAt: &now,
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "create payment failed", err)
		}
	} else {
		payment.Status = model.PaymentStatusConfirmed
		if paymentKey != "" {
			payment.PaymentKey = paymentKey
		}
		if method != "" {
			payment.Method = method
		}
		payment.AmountKrw = totalPayKrw
		payment.ApprovedAt = &now
		if err := tx.UpdatePayment(ctx, payment); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "update payment failed", err)
		}
	}

	paid := *order
	paid.Status = model.OrderStatusPaid
	paid.TotalAmountKrw = itemsSubtotalKrw
	paid.ItemsSubtotalKrw = itemsSubtotalKrw
	paid.ShippingFeeKrw = shippingFeeKrw
	paid.TotalPayKrw = totalPayKrw
	paid.Payment = payment
	return &paid, nil
}

// compensateFailedConfirm 庫存不足時的善後，都是best-effort：
// 1. 訂單標成CANCELED，買家看到終態而不是卡死的PENDING
// 2. gateway已授權的款項打取消
// 善後自己失敗只記log，對外仍回報原始的OUT_OF_STOCK
func (s *PaymentService) compensateFailedConfirm(ctx context.Context, orderID, paymentKey string, cause error) {
	if !apperr.IsKind(cause, apperr.KindOutOfStock) {
		return
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, model.OrderStatusCanceled); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("mark order canceled failed")
	} else {
		s.publishOrderEvent(ctx, orderID, event.TypeOrderCanceled)
	}

	if paymentKey != "" && s.gateway != nil {
		cancel := s.gateway.CancelPayment(ctx, paymentKey, "재고 부족으로 주문 취소")
		if !cancel.OK {
			log.Warn().Str("order_id", orderID).Str("code", cancel.Code).Msg("gateway cancel failed")
		}
	}
}

// afterPaid commit後的收尾：清redis庫存快取、發OrderPaid事件
func (s *PaymentService) afterPaid(ctx context.Context, orders []*model.Order, variantIDs []string) {
	if s.stockCache != nil {
		for _, variantID := range variantIDs {
			if err := s.stockCache.DeleteVariantStock(ctx, variantID); err != nil {
				log.Warn().Err(err).Str("variant_id", variantID).Msg("invalidate stock cache failed")
			}
		}
	}

	if s.events == nil {
		return
	}
	now := time.Now()
	events := make([]event.OrderEvent, 0, len(orders))
	for _, o := range orders {
		if o == nil {
			continue
		}
		events = append(events, event.OrderEvent{
			EventID:     uuid.NewString(),
			Type:        event.TypeOrderPaid,
			OrderID:     o.OrderID,
			OrderNo:     o.OrderNo,
			BuyerID:     o.BuyerID,
			SellerID:    o.SellerID,
			TotalPayKrw: o.TotalPayKrw,
			OccurredAt:  now,
		})
	}
	if err := s.events.PublishOrderEvents(ctx, events); err != nil {
		log.Warn().Err(err).Msg("publish order paid events failed")
	}
}

func (s *PaymentService) publishOrderEvent(ctx context.Context, orderID, eventType string) {
	if s.events == nil {
		return
	}
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return
	}
	evt := event.OrderEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		OrderID:     order.OrderID,
		OrderNo:     order.OrderNo,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		TotalPayKrw: order.TotalPayKrw,
		OccurredAt:  time.Now(),
	}
	if err := s.events.PublishOrderEvents(ctx, []event.OrderEvent{evt}); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("publish order event failed")
	}
}

func loadOrderForPayment(ctx context.Context, tx db.UnifiedDB, orderID string) (*model.Order, error) {
	order, err := tx.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindOrderNotFound, "order %s not found", orderID)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load order failed", err)
	}
	return order, nil
}

var _ IPaymentService = (*PaymentService)(nil)
