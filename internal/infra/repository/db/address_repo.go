package db

import (
	"context"

	"github.com/mikrobrand/mikro1/internal/domain/model"
)

type AddressRepo struct {
	db *DbDao
}

func NewAddressRepo(db *DbDao) *AddressRepo {
	return &AddressRepo{db: db}
}

func (s *AddressRepo) CreateAddress(ctx context.Context, address *model.Address) error {
	return s.db.WithContext(ctx).Create(address).Error
}

func (s *AddressRepo) GetAddressByID(ctx context.Context, addressID string) (*model.Address, error) {
	var address model.Address
	err := s.db.WithContext(ctx).First(&address, "address_id = ?", addressID).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (s *AddressRepo) GetAddressesByUserID(ctx context.Context, userID string) ([]model.Address, error) {
	var addresses []model.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&addresses).Error
	return addresses, err
}
