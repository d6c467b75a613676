package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mikrobrand/mikro1/internal/api/dto"
	"github.com/mikrobrand/mikro1/internal/service"
)

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{
		orderService: orderService,
	}
}

// @Summary get order detail
// @Tags orders
// @Produce json
// @Success 200 {object} dto.OrderDTO "success"
// @Failure 404 {object} map[string]string "ORDER_NOT_FOUND"
// @Router /orders/{orderId} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	orderID := chi.URLParam(r, "orderId")
	order, err := h.orderService.GetOrder(r.Context(), payload.UserID, orderID)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, dto.ConvertOrderToDTO(*order))
}

// @Summary list my orders (buyer)
// @Tags orders
// @Produce json
// @Router /orders [get]
func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	orders, err := h.orderService.GetBuyerOrders(r.Context(), payload.UserID)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, dto.OrderListResponse{
		Orders: dto.ConvertOrdersToDTO(orders),
	})
}

// @Summary list received orders (seller)
// @Tags orders
// @Produce json
// @Param page query int false "page, default 1"
// @Param pageSize query int false "page size, default 20"
// @Router /sellers/me/orders [get]
func (h *OrderHandler) GetMySales(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	orders, total, err := h.orderService.GetSellerOrders(r.Context(), payload.UserID, page, pageSize)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, dto.OrderListResponse{
		Orders: dto.ConvertOrdersToDTO(orders),
		Total:  total,
	})
}
