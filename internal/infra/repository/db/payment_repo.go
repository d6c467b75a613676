package db

import (
	"context"
	"errors"

	"github.com/mikrobrand/mikro1/internal/domain/model"
	"gorm.io/gorm"
)

type PaymentRepo struct {
	db *DbDao
}

func NewPaymentRepo(db *DbDao) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (s *PaymentRepo) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}

// GetPaymentByOrderID 查無回傳nil, nil，payment可能在confirm時才lazy建立
func (s *PaymentRepo) GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).First(&payment, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentRepo) UpdatePayment(ctx context.Context, payment *model.Payment) error {
	return s.db.WithContext(ctx).Save(payment).Error
}
