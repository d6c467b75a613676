package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mikrobrand/mikro1/internal/api/dto"
	"github.com/mikrobrand/mikro1/internal/api/middleware"
	"github.com/mikrobrand/mikro1/internal/constants"
	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/service"
)

type PaymentHandler struct {
	paymentService service.IPaymentService
	cartService    service.ICartService
}

func NewPaymentHandler(paymentService service.IPaymentService, cartService service.ICartService) *PaymentHandler {
	if paymentService == nil {
		panic("paymentService cannot be nil")
	}
	return &PaymentHandler{
		paymentService: paymentService,
		cartService:    cartService,
	}
}

// @Summary confirm payment
// @Description PENDING訂單轉PAID並原子扣庫存，已PAID的訂單回already_paid
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.ConfirmPaymentRequest true "order to confirm"
// @Success 200 {object} dto.ConfirmPaymentResponse "success"
// @Failure 404 {object} map[string]string "ORDER_NOT_FOUND"
// @Failure 409 {object} map[string]string "OUT_OF_STOCK"
// @Router /payments/confirm [post]
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}
	if req.OrderID == "" {
		BadRequestJSON(w, "orderId is required")
		return
	}

	result, err := h.paymentService.ConfirmPayment(r.Context(), req.OrderID, req.PaymentKey)
	if err != nil {
		ErrorJSON(w, err)
		return
	}

	// 付款成功後清掉購物車內已買的項目，失敗不影響回應
	if result.Status == service.ConfirmStatusConfirmed {
		if payload := middleware.GetSessionPayload(r); payload != nil && h.cartService != nil {
			h.cartService.RemovePurchasedVariants(r.Context(), payload.UserID, result.VariantIDs)
		}
	}

	SuccessJSON(w, http.StatusOK, dto.ConfirmPaymentResponse{
		Status:  result.Status,
		OrderID: result.OrderID,
	})
}

// @Summary simulate payments (test/dev)
// @Description 批次付款模擬，一次付掉整個checkout attempt的多張訂單
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.SimulatePaymentsRequest true "orders to pay"
// @Success 200 {object} dto.SimulatePaymentsResponse "success"
// @Failure 403 {object} map[string]string "FORBIDDEN"
// @Failure 404 {object} map[string]string "ORDER_NOT_FOUND"
// @Failure 409 {object} map[string]string "OUT_OF_STOCK"
// @Router /payments/simulate [post]
func (h *PaymentHandler) SimulatePayments(w http.ResponseWriter, r *http.Request) {
	payload := middleware.GetSessionPayload(r)
	if payload == nil {
		ErrorJSON(w, apperr.New(apperr.KindUnauthenticated, "authentication required"))
		return
	}
	// 模擬付款是買家專用的測試入口
	if payload.Role == constants.RoleSeller {
		ErrorJSON(w, apperr.New(apperr.KindForbidden, "sellers cannot simulate payment"))
		return
	}

	var req dto.SimulatePaymentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	result, err := h.paymentService.SimulatePayments(r.Context(), payload.UserID, req.OrderIDs)
	if err != nil {
		ErrorJSON(w, err)
		return
	}

	if result.OK && !result.AlreadyPaid && h.cartService != nil {
		h.cartService.RemovePurchasedVariants(r.Context(), payload.UserID, result.VariantIDs)
	}

	SuccessJSON(w, http.StatusOK, dto.SimulatePaymentsResponse{
		OK:          result.OK,
		AlreadyPaid: result.AlreadyPaid,
	})
}
