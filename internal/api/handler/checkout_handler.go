package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mikrobrand/mikro1/internal/api/dto"
	"github.com/mikrobrand/mikro1/internal/api/middleware"
	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.ICheckoutService
}

func NewCheckoutHandler(checkoutService service.ICheckoutService) *CheckoutHandler {
	if checkoutService == nil {
		panic("checkoutService cannot be nil")
	}
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// @Summary create orders from cart
// @Description 把購物車轉成每個賣家一張的PENDING訂單，同一checkoutAttemptId重送不會重複建單
// @Tags orders
// @Accept json
// @Produce json
// @Param request body dto.CreateOrdersRequest true "checkout attempt"
// @Success 200 {object} dto.CreateOrdersResponse "success"
// @Failure 400 {object} map[string]string "CART_EMPTY / ADDRESS_INVALID"
// @Failure 409 {object} map[string]string "OUT_OF_STOCK / SELF_PURCHASE_NOT_ALLOWED / CART_ITEM_INVALID_REMOVED"
// @Router /orders [post]
func (h *CheckoutHandler) CreateOrders(w http.ResponseWriter, r *http.Request) {
	payload := middleware.GetSessionPayload(r)
	if payload == nil {
		ErrorJSON(w, apperr.New(apperr.KindUnauthenticated, "authentication required"))
		return
	}

	var req dto.CreateOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	result, err := h.checkoutService.CreateOrders(r.Context(), payload.UserID, req.CheckoutAttemptID, req.AddressID)
	if err != nil {
		ErrorJSON(w, err)
		return
	}

	removed := result.RemovedCartItemIDs
	if removed == nil {
		removed = []string{}
	}
	SuccessJSON(w, http.StatusOK, dto.CreateOrdersResponse{
		OK:               true,
		Idempotent:       result.Idempotent,
		Orders:           dto.ConvertOrdersToDTO(result.Orders),
		RemovedCartItems: removed,
	})
}
