package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postboard/pkg/cache"
	"postboard/pkg/config"
	"postboard/pkg/database"
	"postboard/pkg/jwt"
	"postboard/pkg/logger"
	"postboard/pkg/payment"
	"postboard/pkg/queue"
	"postboard/pkg/s3"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *gorm.DB
	redisClient  *redis.Client
	s3Client     *s3.Client
	jwtService   *jwt.Service
	queueClient  *queue.Client
	stripeClient *payment.StripeClient
	httpServer   *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without rate limiting)", err)
		redisClient = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s3Client, err := s3.NewClient(ctx, cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	var queueClient *queue.Client
	if cfg.RabbitMQHost != "" {
		queueClient, err = queue.NewRabbitMQClient(cfg, log)
		if err != nil {
			log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
			queueClient = nil
		}
	}

	if cfg.StripeSecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY is not set, purchases will fail")
	}

	return &App{
		cfg:          cfg,
		log:          log,
		db:           db,
		redisClient:  redisClient,
		s3Client:     s3Client,
		jwtService:   jwt.NewService(cfg.JWTSecret),
		queueClient:  queueClient,
		stripeClient: payment.NewStripeClient(cfg),
	}, nil
}

func (a *App) Run() error {
	deps := Dependencies{
		DB:       a.db,
		Redis:    a.redisClient,
		Storage:  a.s3Client,
		Checkout: a.stripeClient,
		JWT:      a.jwtService,
	}
	// a nil *queue.Client must not become a non-nil interface
	if a.queueClient != nil {
		deps.Events = a.queueClient
	}

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           NewRouter(a.cfg, a.log, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Postboard service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down postboard service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Postboard service exited")
	return nil
}
