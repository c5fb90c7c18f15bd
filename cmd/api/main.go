package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stagekit-api/internal/bridge"
	"stagekit-api/internal/cache"
	"stagekit-api/internal/config"
	"stagekit-api/internal/handler"
	"stagekit-api/internal/repository"
	"stagekit-api/internal/router"
	"stagekit-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting StageKit API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Desktop builds open the embedded database and register the
	// bridge BEFORE the first repository is constructed; the factory
	// probes for it exactly once.
	if cfg.App.Desktop {
		localBridge, err := bridge.OpenSQLite(cfg.LocalDB.Path)
		if err != nil {
			log.Fatalf("Failed to open embedded database: %v", err)
		}
		defer localBridge.Close()
		bridge.Register(localBridge)
		log.Println("Desktop bridge registered")
	} else {
		repository.Configure(repository.FactoryConfig{
			PostgresDSN: cfg.RemoteDB.PostgresDSN(),
		})
	}

	inventoryRepo, err := repository.Inventory()
	if err != nil {
		log.Fatalf("Failed to initialize inventory repository: %v", err)
	}
	defer inventoryRepo.Close()

	pullSheetRepo, err := repository.PullSheets()
	if err != nil {
		log.Fatalf("Failed to initialize pull sheet repository: %v", err)
	}
	defer pullSheetRepo.Close()

	log.Printf("Repositories initialized (desktop=%v)", repository.IsDesktop())

	// Initialize cache (memory by default, Redis when configured)
	var appCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
		} else {
			appCache = redisCache
		}
	}
	if appCache == nil {
		appCache = cache.NewMemoryCache()
	}
	defer appCache.Close()

	// Initialize services
	inventoryService := service.NewInventoryService(inventoryRepo, appCache, cfg.Cache.TTL)
	pullSheetService := service.NewPullSheetService(pullSheetRepo, inventoryRepo)

	// Initialize handlers
	healthHandler := handler.New()
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	pullSheetHandler := handler.NewPullSheetHandler(pullSheetService)

	// Create router
	r := router.New(router.Config{
		Handler:          healthHandler,
		InventoryHandler: inventoryHandler,
		PullSheetHandler: pullSheetHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
