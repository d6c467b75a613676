package service

import (
	"context"

	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/domain/model"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
)

type IOrderService interface {
	GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
	GetBuyerOrders(ctx context.Context, buyerID string) ([]model.Order, error)
	GetSellerOrders(ctx context.Context, sellerID string, page, pageSize int) ([]model.Order, int64, error)
}

type OrderService struct {
	store db.UnifiedDB
}

func NewOrderService(store db.UnifiedDB) *OrderService {
	return &OrderService{store: store}
}

// GetOrder 買家或該單賣家以外的人一律回not found，不洩漏訂單存在與否
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := loadOrderForPayment(ctx, s.store, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID && order.SellerID != userID {
		return nil, apperr.Newf(apperr.KindOrderNotFound, "order %s not found", orderID)
	}
	return order, nil
}

func (s *OrderService) GetBuyerOrders(ctx context.Context, buyerID string) ([]model.Order, error) {
	orders, err := s.store.GetOrdersByBuyerID(ctx, buyerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load buyer orders failed", err)
	}
	return orders, nil
}

func (s *OrderService) GetSellerOrders(ctx context.Context, sellerID string, page, pageSize int) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	orders, total, err := s.store.GetOrdersBySellerID(ctx, sellerID, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "load seller orders failed", err)
	}
	return orders, total, nil
}

var _ IOrderService = (*OrderService)(nil)
