package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mikrobrand/mikro1/internal/api/dto"
	"github.com/mikrobrand/mikro1/internal/api/middleware"
	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/service"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{
		cartService: cartService,
	}
}

// @Summary add item to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body dto.AddCartItemRequest true "item"
// @Success 200 {object} model.CartItem "success"
// @Router /cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	var req dto.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	item, err := h.cartService.AddItem(r.Context(), payload.UserID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, item)
}

// @Summary get cart
// @Tags cart
// @Produce json
// @Success 200 {array} model.CartItem "success"
// @Router /cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	items, err := h.cartService.GetCart(r.Context(), payload.UserID)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, items)
}

// @Summary update cart item quantity
// @Tags cart
// @Accept json
// @Router /cart/items/{cartItemId} [patch]
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	var req dto.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	cartItemID := chi.URLParam(r, "cartItemId")
	if err := h.cartService.UpdateQuantity(r.Context(), payload.UserID, cartItemID, req.Quantity); err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// @Summary remove cart item
// @Tags cart
// @Router /cart/items/{cartItemId} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	cartItemID := chi.URLParam(r, "cartItemId")
	if err := h.cartService.RemoveItem(r.Context(), payload.UserID, cartItemID); err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func requirePayload(w http.ResponseWriter, r *http.Request) *service.SessionPayload {
	payload := middleware.GetSessionPayload(r)
	if payload == nil {
		ErrorJSON(w, apperr.New(apperr.KindUnauthenticated, "authentication required"))
		return nil
	}
	return payload
}
