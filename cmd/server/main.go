package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"mingle/infrastructure/db"
	"mingle/infrastructure/ws"
	httpHandler "mingle/internal/delivery/http"
	wsDelivery "mingle/internal/delivery/websocket"
	"mingle/internal/repository"
	"mingle/internal/usecase"
	"mingle/pkg/jwt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("godotenv: error loading .env file")
	}

	ctx := context.Background()

	mongoUri := os.Getenv("MONGODB_URI")
	mongoDbName := os.Getenv("MONGODB_DATABASE")
	if mongoDbName == "" {
		mongoDbName = "mingle"
	}
	mongoDb, err := db.NewMongoStore(ctx, mongoUri, mongoDbName)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer mongoDb.Close(ctx)

	log.Println("Connected to MongoDB")

	// Repositories
	userRepo := repository.NewUserRepository(mongoDb.DB)
	messageRepo := repository.NewMessageRepository(mongoDb.DB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(mongoDb.DB)

	// JWT manager
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-this-in-production" // Default for development
		log.Println("Warning: Using default JWT secret. Set JWT_SECRET in .env for production")
	}

	// Access token: 15 minutes, Refresh token: 30 days
	jwtManager := jwt.NewJWTManager(jwtSecret, 15*time.Minute, 30*24*time.Hour)

	// Hub: single-server in-memory unless Redis is configured
	var hub ws.IHub
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		serverID := os.Getenv("SERVER_ID")
		if serverID == "" {
			serverID = "server-1" // Default
		}
		log.Printf("Using Redis hub at %s with server ID: %s", redisAddr, serverID)
		hub = ws.NewRedisHub(redisAddr, serverID)
	} else {
		log.Println("Using in-memory hub (single server)")
		hub = ws.NewHub()
	}
	defer hub.Close()

	// Use cases
	authUc := usecase.NewAuthUsecase(userRepo, refreshTokenRepo, jwtManager)
	userUc := usecase.NewUserUsecase(userRepo)
	presenceUc := usecase.NewPresenceUsecase(hub)
	messageUc := usecase.NewMessageUsecase(messageRepo, userRepo, presenceUc)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(corsMiddleware)

	// Handlers
	websocketH := wsDelivery.NewWebsocketHandler(presenceUc, messageUc, authUc)
	httpH := httpHandler.NewHttpHandler(messageUc, userUc)
	authH := httpHandler.NewAuthHandler(authUc)
	authMiddleware := httpHandler.NewAuthMiddleware(authUc)

	httpHandler.MapHttpRoutes(router, httpH, websocketH, authH, authMiddleware)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP server is running on :%s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigin := os.Getenv("CLIENT_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
