package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/domain/model"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
)

type IAddressService interface {
	CreateAddress(ctx context.Context, userID string, input AddressInput) (*model.Address, error)
	GetAddresses(ctx context.Context, userID string) ([]model.Address, error)
	GetAddress(ctx context.Context, userID, addressID string) (*model.Address, error)
}

type AddressInput struct {
	Name    string
	Phone   string
	ZipCode string
	Addr1   string
	Addr2   string
}

type AddressService struct {
	store db.UnifiedDB
}

func NewAddressService(store db.UnifiedDB) *AddressService {
	return &AddressService{store: store}
}

func (s *AddressService) CreateAddress(ctx context.Context, userID string, input AddressInput) (*model.Address, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Addr1) == "" {
		return nil, apperr.New(apperr.KindAddressInvalid, "name and addr1 are required")
	}

	address := &model.Address{
		AddressID: uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		ZipCode:   strings.TrimSpace(input.ZipCode),
		Addr1:     strings.TrimSpace(input.Addr1),
		Addr2:     strings.TrimSpace(input.Addr2),
	}
	if err := s.store.CreateAddress(ctx, address); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create address failed", err)
	}
	return address, nil
}

func (s *AddressService) GetAddresses(ctx context.Context, userID string) ([]model.Address, error) {
	addresses, err := s.store.GetAddressesByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load addresses failed", err)
	}
	return addresses, nil
}

func (s *AddressService) GetAddress(ctx context.Context, userID, addressID string) (*model.Address, error) {
	address, err := s.store.GetAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindAddressInvalid, "address not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load address failed", err)
	}
	if address.UserID != userID {
		return nil, apperr.New(apperr.KindAddressInvalid, "address not found")
	}
	return address, nil
}

var _ IAddressService = (*AddressService)(nil)
