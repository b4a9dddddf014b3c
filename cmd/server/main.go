// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/shadowai/shadowai/internal/config"
	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/handlers"
	"github.com/shadowai/shadowai/internal/middleware"
	"github.com/shadowai/shadowai/internal/ratelimit"
	"github.com/shadowai/shadowai/internal/realtime"
	"github.com/shadowai/shadowai/internal/repository/conversation"
	"github.com/shadowai/shadowai/internal/repository/message"
	"github.com/shadowai/shadowai/internal/repository/subscriber"
	"github.com/shadowai/shadowai/internal/repository/user"
	"github.com/shadowai/shadowai/internal/services"
	"github.com/shadowai/shadowai/internal/services/ai"
	"github.com/shadowai/shadowai/internal/services/billing"
	"github.com/shadowai/shadowai/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("shadowai")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}, &domain.Subscriber{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := user.NewUserRepository(db)
	convRepo := conversation.NewConversationRepository(db)
	messageRepo := message.NewMessageRepository(db)
	subscriberRepo := subscriber.NewSubscriberRepository(db)

	// --- Completion provider ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiProvider, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize completion provider: %v", err)
	}

	// --- Billing provider ---
	billingConfig := billing.DefaultConfig()
	billingConfig.SecretKey = cfg.StripeSecretKey
	billingConfig.SuccessURL = cfg.CheckoutSuccessURL
	billingConfig.CancelURL = cfg.CheckoutCancelURL
	billingConfig.PriceIDs = map[string]string{domain.TierPremium: cfg.StripePremiumPriceID}
	billingConfig.ReconcileDelay = cfg.ReconcileDelay
	billingProvider := billing.NewStripeProvider(billingConfig)

	// --- Services ---
	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)
	subscriptionService := services.NewSubscriptionService(subscriberRepo, cfg.FreeModel, cfg.PremiumModel, logger)

	hub := realtime.NewHub()
	go hub.Run()

	chatService, err := services.NewChatService(
		convRepo, messageRepo, aiProvider, subscriptionService, hub,
		cfg.SystemPrompt, cfg.HistoryWindow, logger,
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize chat service: %v", err)
	}

	billingService, err := services.NewBillingService(billingConfig, billingProvider, subscriberRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize billing service: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandler(chatService)
	billingHandler := handlers.NewBillingHandler(billingService, subscriptionService)
	realtimeHandler := handlers.NewRealtimeHandler(hub, chatService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)

	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()
	turnLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.TurnConfig())
	defer turnLimiter.Close()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", handlers.Health).Methods("GET")

	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.Use(middleware.RateLimitMiddleware(authLimiter, "auth"))
	authRoutes.Use(middleware.AuthSuccessMiddleware(authLimiter, "auth"))
	authRoutes.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRoutes.HandleFunc("/login", authHandler.Login).Methods("POST")
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/conversations", chatHandler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations", chatHandler.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", chatHandler.GetMessages).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}", chatHandler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/conversations/{id:[0-9]+}/ws", realtimeHandler.Subscribe).Methods("GET")

	api.Handle("/conversations/{id:[0-9]+}/messages",
		middleware.RateLimitMiddleware(turnLimiter, "turn")(http.HandlerFunc(chatHandler.SendMessage))).Methods("POST")

	api.HandleFunc("/subscription", billingHandler.GetSubscription).Methods("GET")
	api.HandleFunc("/billing/checkout", billingHandler.StartCheckout).Methods("POST")
	api.HandleFunc("/billing/reconcile", billingHandler.Reconcile).Methods("POST")

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("ShadowAI server starting on port %s", cfg.ServerPort)
	log.Printf("Free tier model: %s | Premium tier model: %s", cfg.FreeModel, cfg.PremiumModel)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	if zl, ok := logger.(*services.ZapLogger); ok {
		zl.Sync()
	}
	log.Println("Server stopped gracefully")
}
