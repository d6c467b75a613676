package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mikrobrand/mikro1/internal/api/dto"
	"github.com/mikrobrand/mikro1/internal/service"
)

type UserHandler struct {
	userService    service.IUserService
	addressService service.IAddressService
}

func NewUserHandler(userService service.IUserService, addressService service.IAddressService) *UserHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &UserHandler{
		userService:    userService,
		addressService: addressService,
	}
}

// @Summary register user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RegisterUserRequest true "user"
// @Router /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), req.UserName, req.Email, req.Role)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, user)
}

// @Summary register seller shop profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RegisterSellerRequest true "shop"
// @Router /sellers/me [post]
func (h *UserHandler) RegisterSeller(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	var req dto.RegisterSellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	profile, err := h.userService.RegisterSeller(r.Context(), payload.UserID, req.ShopName, req.ShippingFeeKrw, req.FreeShippingThresholdKrw)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, profile)
}

// @Summary issue session (dev-grade login)
// @Description 真正的認證在外部系統，這裡只發session token
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.IssueSessionRequest true "user id"
// @Router /sessions [post]
func (h *UserHandler) IssueSession(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	session, err := h.userService.IssueSession(r.Context(), req.UserID)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, dto.SessionResponse{
		Token:     session.Token,
		UserID:    session.UserID,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	})
}

// @Summary revoke session (logout)
// @Tags users
// @Router /sessions [delete]
func (h *UserHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if len(token) > 7 {
		token = token[7:] // strip "Bearer "
	}
	if err := h.userService.RevokeSession(r.Context(), token); err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// @Summary create address
// @Tags addresses
// @Accept json
// @Produce json
// @Param request body dto.CreateAddressRequest true "address"
// @Router /addresses [post]
func (h *UserHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	var req dto.CreateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	address, err := h.addressService.CreateAddress(r.Context(), payload.UserID, service.AddressInput{
		Name:    req.Name,
		Phone:   req.Phone,
		ZipCode: req.ZipCode,
		Addr1:   req.Addr1,
		Addr2:   req.Addr2,
	})
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, address)
}

// @Summary list my addresses
// @Tags addresses
// @Produce json
// @Router /addresses [get]
func (h *UserHandler) GetAddresses(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	addresses, err := h.addressService.GetAddresses(r.Context(), payload.UserID)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, addresses)
}
