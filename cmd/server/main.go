package main

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hearthhub/hearthhub/internal/auth"
	"github.com/hearthhub/hearthhub/internal/handler"
	"github.com/hearthhub/hearthhub/internal/middleware"
	"github.com/hearthhub/hearthhub/internal/service"
	"github.com/hearthhub/hearthhub/internal/storage/sqlite"
	"github.com/hearthhub/hearthhub/pkg/logging"
)

const tokenTTL = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logger := logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/hearthhub.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)
	authn := auth.NewPasswordAuthenticator(store)
	families := service.NewFamilyService(store, logger)
	todos := service.NewTodoService(store, logger)

	mux := http.NewServeMux()
	handler.New(families, todos, authn, jwtManager).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// h2c allows HTTP/2 without TLS when running behind a terminating proxy.
	h2cHandler := h2c.NewHandler(middleware.Logging(middleware.CORS(mux)), &http2.Server{})

	addr := ":" + port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
