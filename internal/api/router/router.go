package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mikrobrand/mikro1/internal/api"
	m "github.com/mikrobrand/mikro1/internal/api/middleware"
	"github.com/mikrobrand/mikro1/internal/constants"
	"github.com/mikrobrand/mikro1/internal/service"
)

func SetupRouter(server *api.Server, userService service.IUserService, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.SessionMiddleware(userService))
	r.Use(m.LoggerMiddleware(logger))

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		// 不需要身份的路由
		r.Post("/users", server.UserHandler.Register)
		r.Post("/sessions", server.UserHandler.IssueSession)
		r.Get("/products/by-ids", server.ProductHandler.GetProductsByIDs)
		r.Get("/products/{productId}", server.ProductHandler.GetProduct)

		// confirm不驗身份，payment gateway redirect回來時可能沒有session
		r.Post("/payments/confirm", server.PaymentHandler.ConfirmPayment)

		// 買家路由
		r.Group(func(r chi.Router) {
			r.Use(m.AuthMiddleware)
			r.Delete("/sessions", server.UserHandler.RevokeSession)

			r.Post("/addresses", server.UserHandler.CreateAddress)
			r.Get("/addresses", server.UserHandler.GetAddresses)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", server.CartHandler.GetCart)
				r.Post("/items", server.CartHandler.AddItem)
				r.Patch("/items/{cartItemId}", server.CartHandler.UpdateQuantity)
				r.Delete("/items/{cartItemId}", server.CartHandler.RemoveItem)
			})

			r.Post("/orders", server.CheckoutHandler.CreateOrders)
			r.Get("/orders", server.OrderHandler.GetMyOrders)
			r.Get("/orders/{orderId}", server.OrderHandler.GetOrder)

			r.Post("/payments/simulate", server.PaymentHandler.SimulatePayments)
		})

		// 賣家路由
		r.Group(func(r chi.Router) {
			r.Use(m.AuthMiddleware)
			r.Use(m.RequireRole(constants.RoleSeller))

			r.Post("/sellers/me", server.UserHandler.RegisterSeller)
			r.Post("/products", server.ProductHandler.CreateProduct)
			r.Patch("/products/{productId}/price", server.ProductHandler.UpdatePrice)
			r.Get("/sellers/me/products", server.ProductHandler.GetMyProducts)
			r.Get("/sellers/me/orders", server.OrderHandler.GetMySales)
		})
	})

	return r
}
