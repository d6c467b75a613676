package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mikrobrand/mikro1/internal/api/dto"
	"github.com/mikrobrand/mikro1/internal/service"
)

type ProductHandler struct {
	productService service.IProductService
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &ProductHandler{
		productService: productService,
	}
}

// @Summary create product with variants
// @Tags products
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "product"
// @Success 200 {object} model.Product "success"
// @Failure 409 {object} map[string]string "VARIANT_DUPLICATED"
// @Router /products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	variants := make([]service.VariantInput, 0, len(req.Variants))
	for _, v := range req.Variants {
		variants = append(variants, service.VariantInput{
			Color:     v.Color,
			SizeLabel: v.SizeLabel,
			Stock:     v.Stock,
		})
	}

	product, err := h.productService.CreateProduct(r.Context(), payload.UserID, req.Title, req.PriceKrw, variants)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, product)
}

// @Summary get product
// @Tags products
// @Produce json
// @Router /products/{productId} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	product, err := h.productService.GetProduct(r.Context(), productID)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, product)
}

// @Summary batch get products by ids
// @Description ids逗號分隔，下架/刪除的商品直接略過不回傳
// @Tags products
// @Produce json
// @Param ids query string true "comma separated product ids"
// @Router /products/by-ids [get]
func (h *ProductHandler) GetProductsByIDs(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		BadRequestJSON(w, "ids is required")
		return
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	products, err := h.productService.GetProductsByIDs(r.Context(), ids)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, products)
}

// @Summary list my products (seller)
// @Tags products
// @Produce json
// @Router /sellers/me/products [get]
func (h *ProductHandler) GetMyProducts(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	products, err := h.productService.GetSellerProducts(r.Context(), payload.UserID)
	if err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, products)
}

// @Summary update product price
// @Description 改價只影響之後建立的訂單，既有訂單的快照價不變
// @Tags products
// @Accept json
// @Router /products/{productId}/price [patch]
func (h *ProductHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	payload := requirePayload(w, r)
	if payload == nil {
		return
	}

	var req dto.UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequestJSON(w, "invalid request body")
		return
	}

	productID := chi.URLParam(r, "productId")
	if err := h.productService.UpdatePrice(r.Context(), payload.UserID, productID, req.PriceKrw); err != nil {
		ErrorJSON(w, err)
		return
	}
	SuccessJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
