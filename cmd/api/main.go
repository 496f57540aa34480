package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shop-backend/internal/client"
	"shop-backend/internal/config"
	"shop-backend/internal/metrics"
	"shop-backend/internal/notifier"
	"shop-backend/internal/repository"
	"shop-backend/internal/server"
	"shop-backend/internal/service"
	"shop-backend/internal/webhook"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitDBClient(cfg.DatabaseURL)
	acquiringClient := client.NewAcquiringClient(&cfg.Acquiring)

	verifier, err := webhook.NewVerifier(cfg.Acquiring.WebhookPublicKey)
	if err != nil {
		log.Fatal("init webhook verifier: ", err)
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	if cfg.Environment.Name == "development" {
		if err := productRepo.Seed(context.Background()); err != nil {
			log.Println("seed catalog:", err)
		}
	}

	shopMetrics := metrics.NewShopMetrics()
	orderNotifier := notifier.NewSMTPNotifier(cfg.SMTP)

	orderService := service.NewOrderService(
		db,
		acquiringClient,
		verifier,
		orderNotifier,
		productRepo,
		orderRepo,
		webhookEventRepo,
		shopMetrics,
	)
	catalogService := service.NewCatalogService(productRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(orderService, catalogService, cfg.Admin.Token)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
