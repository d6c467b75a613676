package api

import (
	"github.com/mikrobrand/mikro1/internal/api/handler"
)

// Server 集中持有所有handler
type Server struct {
	UserHandler     *handler.UserHandler
	CartHandler     *handler.CartHandler
	ProductHandler  *handler.ProductHandler
	CheckoutHandler *handler.CheckoutHandler
	PaymentHandler  *handler.PaymentHandler
	OrderHandler    *handler.OrderHandler
}

func NewServer(
	userHandler *handler.UserHandler,
	cartHandler *handler.CartHandler,
	productHandler *handler.ProductHandler,
	checkoutHandler *handler.CheckoutHandler,
	paymentHandler *handler.PaymentHandler,
	orderHandler *handler.OrderHandler,
) *Server {
	return &Server{
		UserHandler:     userHandler,
		CartHandler:     cartHandler,
		ProductHandler:  productHandler,
		CheckoutHandler: checkoutHandler,
		PaymentHandler:  paymentHandler,
		OrderHandler:    orderHandler,
	}
}
