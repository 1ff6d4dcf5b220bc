package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"school-service/internal/assignment"
	"school-service/internal/auth"
	"school-service/internal/class"
	"school-service/internal/config"
	"school-service/internal/course"
	"school-service/internal/db"
	"school-service/internal/health"
	"school-service/internal/logger"
	"school-service/internal/messaging"
	"school-service/internal/middleware"
	"school-service/internal/staff"
	"school-service/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config      *config.Config
	router      chi.Router
	server      *http.Server
	logger      *slog.Logger
	producer    *messaging.Producer
	stopJanitor context.CancelFunc
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)

	ctx := context.Background()
	err = db.RunMigrations(ctx, database,
		(*auth.User)(nil),
		(*auth.RefreshToken)(nil),
		(*class.Class)(nil),
		(*class.Section)(nil),
		(*course.Course)(nil),
		(*staff.Staff)(nil),
		(*student.Student)(nil),
		(*assignment.Assignment)(nil),
		(*db.Counter)(nil),
	)
	if err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Auth setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slogLogger.Warn("redis unavailable, token blacklist disabled", "error", err)
		redisClient = nil
	}

	tokens := auth.NewTokens(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute)
	blacklist := auth.NewRedisBlacklist(redisClient)
	authRepo := auth.NewRepository(database)
	authService := auth.NewService(authRepo, tokens, blacklist, time.Duration(cfg.JWT.RefreshTTLDays)*24*time.Hour)
	authHandler := auth.NewHandler(authService, slogLogger)
	authHandler.RegisterRoutes(app.router)

	// Sweep expired refresh tokens in the background.
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	app.stopJanitor = stopJanitor
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				if err := authService.CleanupExpiredTokens(janitorCtx); err != nil {
					slogLogger.Warn("refresh token cleanup failed", "error", err)
				}
			}
		}
	}()

	// NATS producer (optional - entity events)
	producer, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize NATS producer", "error", err)
		producer = nil
	}
	app.producer = producer

	var events messaging.Publisher
	if producer != nil {
		events = producer
	}

	classHandler := class.NewHandler(class.NewService(class.NewRepository(database)), slogLogger)
	courseHandler := course.NewHandler(course.NewService(course.NewRepository(database)), slogLogger)
	assignmentHandler := assignment.NewHandler(
		assignment.NewService(assignment.NewRepository(database), events, slogLogger), slogLogger)
	staffHandler := staff.NewHandler(staff.NewService(staff.NewRepository(database)), slogLogger)
	studentHandler := student.NewHandler(
		student.NewService(student.NewRepository(database), events, slogLogger), slogLogger)

	// Protected routes
	app.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(tokens, blacklist, slogLogger))
		authHandler.RegisterProtectedRoutes(r)
		classHandler.RegisterRoutes(r)
		courseHandler.RegisterRoutes(r)
		assignmentHandler.RegisterRoutes(r)
		staffHandler.RegisterRoutes(r)
		studentHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	if a.stopJanitor != nil {
		a.stopJanitor()
	}
	if a.producer != nil {
		a.producer.Close()
	}
	return a.server.Shutdown(ctx)
}
