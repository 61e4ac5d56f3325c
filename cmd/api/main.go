package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/http/handlers"
	imw "github.com/glambook/glambook-api/internal/http/middleware"
	"github.com/glambook/glambook-api/internal/platform/mailer"
	"github.com/glambook/glambook-api/internal/platform/payments"
	"github.com/glambook/glambook-api/internal/repo/postgres"
	"github.com/glambook/glambook-api/internal/service"
	"github.com/glambook/glambook-api/pkg/config"
	"github.com/glambook/glambook-api/pkg/database"
	"github.com/glambook/glambook-api/pkg/events"
	"github.com/glambook/glambook-api/pkg/logger"
	mw "github.com/glambook/glambook-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	apptRepo := postgres.NewAppointmentRepository(pool)
	hoursRepo := postgres.NewHoursRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	idemRepo := postgres.NewIdempotencyRepository(pool)

	// Services
	mail := pickMailer(cfg)
	authService := service.NewAuthService(userRepo, cfg.Auth)
	bookingService := service.NewBookingService(apptRepo, hoursRepo, userRepo, serviceRepo, idemRepo, eventBus, mail)
	stripeProvider := payments.NewStripeProvider(cfg.Stripe.SecretKey)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo)
	catalogHandler := handlers.NewCatalogHandler(userRepo, serviceRepo, hoursRepo, reviewRepo)
	apptHandler := handlers.NewAppointmentHandler(bookingService, apptRepo)
	reviewHandler := handlers.NewReviewHandler(reviewRepo, apptRepo, eventBus)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, eventBus)
	paymentHandler := handlers.NewPaymentHandler(stripeProvider, apptRepo, serviceRepo, eventBus)

	rateLimiter := mw.NewRedisRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, "rl:api")

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("glambook-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireJWT := imw.RequireJWT(cfg.Auth.JWTSecret)
	requireSpecialist := imw.RequireRole(domain.RoleSpecialist, domain.RoleAdmin)

	r.With(rateLimiter.Middleware()).Mount("/auth", authHandler.Routes())
	r.Mount("/specialists", catalogHandler.SpecialistRoutes(requireJWT, requireSpecialist))

	r.Group(func(r chi.Router) {
		r.Use(requireJWT)
		r.Mount("/users", userHandler.Routes())
		r.With(rateLimiter.Middleware()).Mount("/appointments", apptHandler.Routes())
		r.Mount("/reviews", reviewHandler.Routes())
		r.Mount("/messages", messageHandler.Routes())
		r.Mount("/payments", paymentHandler.Routes())
		r.With(requireSpecialist).Mount("/services", catalogHandler.ServiceRoutes())
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

func pickMailer(cfg *config.Config) mailer.Mailer {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	}
}
