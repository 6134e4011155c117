package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/picknship/backend/internal/cache"
	"github.com/picknship/backend/internal/config"
	"github.com/picknship/backend/internal/db"
	"github.com/picknship/backend/internal/httpapi"
	"github.com/picknship/backend/internal/kafka"
	"github.com/picknship/backend/internal/maps"
	"github.com/picknship/backend/internal/notify"
	"github.com/picknship/backend/internal/rates"
	"github.com/picknship/backend/internal/reconcile"
	"github.com/picknship/backend/internal/repo"
	"github.com/picknship/backend/internal/tiendanube"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CFG] %v", err)
	}
	log.Printf("[CFG] http=%s dsn_present=%t maps_key_present=%t kafka=%q",
		cfg.HTTPAddr, cfg.PostgresDSN != "", cfg.GoogleMapsAPIKey != "", cfg.KafkaBrokers)

	startCtx := context.Background()
	pool, err := db.NewPool(startCtx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[DB] new pool: %v", err)
	}

	if err := db.Ping(startCtx, pool); err != nil {
		pool.Close()
		log.Fatalf("[DB] ping: %v", err)
	}
	defer pool.Close()
	log.Println("[DB] connected")

	storesRepo := repo.NewStoresRepo(pool)
	ordersRepo := repo.NewOrdersRepo(pool)
	storesCache := cache.New()

	if cfg.WarmStoresCache {
		warmCtx, cancel := context.WithTimeout(startCtx, 15*time.Second)
		stores, err := storesRepo.ListStores(warmCtx)
		cancel()
		if err != nil {
			log.Printf("[CACHE] warm stores: %v", err)
		} else {
			for _, s := range stores {
				storesCache.Set(s.StoreID, s)
			}
			log.Printf("[CACHE] warmed %d stores", len(stores))
		}
	}

	tiers, err := rates.ParseTiers(cfg.RateTiers)
	if err != nil {
		log.Fatalf("[CFG] RATE_TIERS: %v", err)
	}
	zone, err := rates.ParseZone(cfg.EligibleZone)
	if err != nil {
		log.Fatalf("[CFG] ELIGIBLE_ZONE: %v", err)
	}

	reconciler := reconcile.New(ordersRepo)
	router := notify.NewRouter(
		notify.NewSlackSink(cfg.SlackOrdersWebhookURL, cfg.SlackStoresWebhookURL),
		log.Printf,
	)
	engine := rates.NewEngine(maps.NewClient(cfg.GoogleMapsAPIKey), tiers, zone, log.Printf)
	platform := tiendanube.New(
		cfg.TiendanubeClientID, cfg.TiendanubeClientSecret,
		cfg.TiendanubeRedirectURI, cfg.ContactEmail,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.KafkaBrokers != "" {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup,
			reconciler, router, log.Printf)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[KAFKA] consumer stopped: %v", err)
			}
		}()
	}

	api := httpapi.New(httpapi.Deps{
		Stores:       storesRepo,
		Orders:       ordersRepo,
		Reconciler:   reconciler,
		Quoter:       engine,
		Notify:       router,
		Platform:     platform,
		Cache:        storesCache,
		ShippingZips: zone.ZipCodes(),
		APIKey:       cfg.APIKey,
		Logf:         log.Printf,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("[HTTP] listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[HTTP] %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[HTTP] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[HTTP] shutdown error: %v", err)
	}
	log.Printf("[HTTP] bye")
}
