package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/constants"
	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/domain/model"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
)

// SessionPayload request期間的身份，由middleware塞進context
// 絕不放在process-wide的可變狀態
type SessionPayload struct {
	UserID string
	Role   string
}

type IUserService interface {
	Register(ctx context.Context, userName, email, role string) (*model.User, error)
	RegisterSeller(ctx context.Context, userID, shopName string, shippingFeeKrw, freeShippingThresholdKrw *int64) (*model.SellerProfile, error)
	IssueSession(ctx context.Context, userID string) (*model.Session, error)
	VerifySession(ctx context.Context, token string) (*SessionPayload, error)
	RevokeSession(ctx context.Context, token string) error
}

// UserService 帳號與session，密碼/OAuth等真正的認證在外部系統
type UserService struct {
	store db.UnifiedDB
}

func NewUserService(store db.UnifiedDB) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Register(ctx context.Context, userName, email, role string) (*model.User, error) {
	userName = strings.TrimSpace(userName)
	email = strings.TrimSpace(strings.ToLower(email))
	if userName == "" || email == "" {
		return nil, apperr.New(apperr.KindBadRequest, "userName and email are required")
	}
	if role != constants.RoleBuyer && role != constants.RoleSeller {
		role = constants.RoleBuyer
	}

	user := &model.User{
		UserID:    uuid.NewString(),
		UserName:  userName,
		UserEmail: email,
		Role:      role,
		IsActive:  true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, apperr.New(apperr.KindBadRequest, "email already registered")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "create user failed", err)
	}
	return user, nil
}

func (s *UserService) RegisterSeller(ctx context.Context, userID, shopName string, shippingFeeKrw, freeShippingThresholdKrw *int64) (*model.SellerProfile, error) {
	shopName = strings.TrimSpace(shopName)
	if shopName == "" {
		return nil, apperr.New(apperr.KindBadRequest, "shopName is required")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindBadRequest, "user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load user failed", err)
	}
	if user.Role != constants.RoleSeller {
		return nil, apperr.New(apperr.KindForbidden, "only sellers can register a shop")
	}

	profile := &model.SellerProfile{
		UserID:                   userID,
		ShopName:                 shopName,
		ShippingFeeKrw:           shippingFeeKrw,
		FreeShippingThresholdKrw: freeShippingThresholdKrw,
	}
	if err := s.store.CreateSellerProfile(ctx, profile); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create seller profile failed", err)
	}
	return profile, nil
}

func (s *UserService) IssueSession(ctx context.Context, userID string) (*model.Session, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindUnauthenticated, "user not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load user failed", err)
	}
	if !user.IsActive {
		return nil, apperr.New(apperr.KindForbidden, "user is deactivated")
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    user.UserID,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(constants.SessionDuration).Unix(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create session failed", err)
	}
	return session, nil
}

func (s *UserService) VerifySession(ctx context.Context, token string) (*SessionPayload, error) {
	if token == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "missing session token")
	}
	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindUnauthenticated, "invalid or expired session")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load session failed", err)
	}
	return &SessionPayload{UserID: session.UserID, Role: session.Role}, nil
}

func (s *UserService) RevokeSession(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

var _ IUserService = (*UserService)(nil)
