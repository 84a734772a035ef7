package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/vnkhanh/ai-learning-journal/config"
	"github.com/vnkhanh/ai-learning-journal/observability"
	"github.com/vnkhanh/ai-learning-journal/routes"
	"github.com/vnkhanh/ai-learning-journal/services"
	"github.com/vnkhanh/ai-learning-journal/utils"
	"github.com/vnkhanh/ai-learning-journal/ws"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("không thể khởi tạo logger: %v", err)
	}
	utils.Log = logger
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.OtelEnabled, cfg.Env)
	if err != nil {
		logger.Warn("otel init failed, tracing disabled", "error", err)
	}

	if err := config.InitDB(cfg); err != nil {
		logger.Fatal("database init failed", "error", err)
	}

	// Gemini: thiếu key thì server vẫn chạy, các route sinh quiz trả 500
	var gen services.Generator
	gemini, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiStructured)
	if err != nil {
		logger.Warn("gemini disabled", "error", err)
	} else {
		defer gemini.Close()
		gen = gemini
	}

	var store utils.ObjectStorage
	if supa, err := utils.NewSupabaseStorage(); err != nil {
		logger.Warn("supabase storage disabled", "error", err)
	} else {
		store = supa
	}

	// Redis pub/sub cho websocket khi chạy nhiều instance
	if cfg.RedisAddr != "" {
		bus, err := ws.NewRedisBus(cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			logger.Warn("redis bus disabled", "error", err)
		} else if err := bus.Start(ctx, ws.H); err != nil {
			logger.Warn("redis subscribe failed", "error", err)
			_ = bus.Close()
		} else {
			defer bus.Close()
		}
	}

	svc := services.New(config.DB, gen, cfg.Retry)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	if cfg.OtelEnabled {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
	}))
	r = routes.SetupRouter(r, config.DB, svc, store)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logger.Info("server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if shutdownTracing != nil {
		_ = shutdownTracing(shutdownCtx)
	}
}
