package db

import (
	"context"
	"errors"
	"time"

	"github.com/mikrobrand/mikro1/internal/domain/model"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *DbDao
}

func NewUserRepo(db *DbDao) *UserRepo {
	return &UserRepo{db: db}
}

func (s *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserRepo) CreateSellerProfile(ctx context.Context, profile *model.SellerProfile) error {
	return s.db.WithContext(ctx).Create(profile).Error
}

// GetSellerProfile 查無profile回傳nil, nil，由ShippingPolicy套預設值
func (s *UserRepo) GetSellerProfile(ctx context.Context, userID string) (*model.SellerProfile, error) {
	var profile model.SellerProfile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *UserRepo) CreateSession(ctx context.Context, session *model.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

// GetSessionByToken 只回傳未過期的session
func (s *UserRepo) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now().Unix()).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *UserRepo) DeleteSession(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&model.Session{}).Error
}
