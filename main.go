package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/LenoreWoW/Themis-sub003/config"
	"github.com/LenoreWoW/Themis-sub003/database"
	"github.com/LenoreWoW/Themis-sub003/handlers"
	"github.com/LenoreWoW/Themis-sub003/middleware"
	"github.com/LenoreWoW/Themis-sub003/notify"
	"github.com/LenoreWoW/Themis-sub003/routes"
	"github.com/LenoreWoW/Themis-sub003/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	config.LoadConfig()

	// Database connection
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	handlers.InitCollections()

	// Notification store and rule engine share one Mongo-backed KV so the
	// per-user logs and dedup keys survive restarts.
	kv := database.NewKVStore()
	store := notify.NewStore(kv)
	store.OnAppend(websocket.SendNotification)
	handlers.SetNotificationStore(store)

	handlers.InitAuditHandlers()

	engine := notify.NewEngine(notify.Config{
		Interval:      config.NotifyInterval,
		UpdateWeekday: config.UpdateWeekday,
		Deduplicate:   config.NotifyDedup,
		DedupWindow:   24 * time.Hour,
	}, database.NewSnapshotSource(), store, notify.SystemClock(), kv)

	engineCtx, stopEngine := context.WithCancel(context.Background())
	engine.Start(engineCtx)

	// Router setup
	router := mux.NewRouter()
	routes.RegisterRoutes(router)

	// Global middlewares (order matters!)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CorsMiddleware)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Themis backend running on http://localhost:%s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	engine.Stop()
	stopEngine()
	database.Disconnect()
	log.Println("Server stopped gracefully")
}
