package db

import (
	"context"

	"github.com/mikrobrand/mikro1/internal/domain/model"
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrder 連同order items一起建立
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Variant").
		Preload("Payment").
		First(&order, "order_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByAttempt 冪等性查詢，同一(buyer, attempt)已存在的訂單原樣回傳
func (s *OrderRepo) GetOrdersByAttempt(ctx context.Context, buyerID, checkoutAttemptID string) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Variant").
		Where("buyer_id = ? AND checkout_attempt_id = ?", buyerID, checkoutAttemptID).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (s *OrderRepo) GetOrdersByBuyerID(ctx context.Context, buyerID string) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// 分頁查詢賣家訂單
func (s *OrderRepo) GetOrdersBySellerID(ctx context.Context, sellerID string, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize
	query := s.db.WithContext(ctx).Model(&model.Order{}).Where("seller_id = ?", sellerID)

	// 計算總數
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items").
		Preload("Payment").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	return s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", id).
		Update("status", status).Error
}

// UpdateOrderPaid 付款成功時一次更新狀態與金額欄位
func (s *OrderRepo) UpdateOrderPaid(ctx context.Context, id string, totalAmountKrw, shippingFeeKrw, totalPayKrw int64) error {
	return s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", id).
		Updates(map[string]interface{}{
			"status":           model.OrderStatusPaid,
			"total_amount_krw": totalAmountKrw,
			"shipping_fee_krw": shippingFeeKrw,
			"total_pay_krw":    totalPayKrw,
		}).Error
}

func (s *OrderRepo) GetOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}
