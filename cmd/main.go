package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mikrobrand/mikro1/internal/api"
	"github.com/mikrobrand/mikro1/internal/api/handler"
	"github.com/mikrobrand/mikro1/internal/api/router"
	"github.com/mikrobrand/mikro1/internal/appcontext"
	"github.com/mikrobrand/mikro1/internal/config"
)

// @title mikro1 marketplace
// @version 1.0
// @description 多賣家購物車下單與付款確認服務
// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        Authorization

func main() {
	app, err := appcontext.NewApplicationContext(config.GetConfig())
	if err != nil {
		log.Fatal(err)
		return
	}

	// 初始化 handler
	userHandler := handler.NewUserHandler(app.UserService, app.AddressService)
	cartHandler := handler.NewCartHandler(app.CartService)
	productHandler := handler.NewProductHandler(app.ProductService)
	checkoutHandler := handler.NewCheckoutHandler(app.CheckoutService)
	paymentHandler := handler.NewPaymentHandler(app.PaymentService, app.CartService)
	orderHandler := handler.NewOrderHandler(app.OrderService)

	server := api.NewServer(userHandler, cartHandler, productHandler, checkoutHandler, paymentHandler, orderHandler)

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// 設置路由
	r := router.SetupRouter(server, app.UserService, &logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", app.Cf.ServerPort),
		Handler: r,
	}

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutDownCompleted := make(chan struct{}, 1)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Printf("Application shutdown error: %v", err)
		}

		shutDownCompleted <- struct{}{}
	}()

	log.Printf("Server starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal(err)
	}
	<-shutDownCompleted
	log.Printf("closed completed")
}
