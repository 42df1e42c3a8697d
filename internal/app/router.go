package app

import (
	"net/http"
	"strings"
	"time"

	"postboard/internal/aggregate"
	handlers "postboard/internal/controller/http"
	"postboard/internal/entity"
	"postboard/internal/integrity"
	"postboard/internal/repo/persistent"
	"postboard/internal/usecase"
	"postboard/pkg/config"
	"postboard/pkg/jwt"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "postboard/docs" // Swagger docs
)

// Dependencies are the connected collaborators the router is built from.
// Redis and Events may be nil; rate limiting and event publishing are then off.
type Dependencies struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Storage  usecase.FileStorage
	Events   usecase.EventPublisher
	Checkout usecase.CheckoutProvider
	JWT      *jwt.Service
}

func NewRouter(cfg *config.Config, log *logger.Logger, deps Dependencies) *gin.Engine {
	userRepo := persistent.NewUserRepository(deps.DB)
	postRepo := persistent.NewPostRepository(deps.DB)

	layer := integrity.NewLayer(postRepo, userRepo, log)
	enricher := aggregate.NewEnricher(userRepo)

	authUseCase := usecase.NewAuthUseCase(userRepo, deps.JWT, log)
	postUseCase := usecase.NewPostUseCase(postRepo, userRepo, layer, enricher, deps.Storage, deps.Events, log)
	userUseCase := usecase.NewUserUseCase(userRepo, deps.Storage, log)
	adminUseCase := usecase.NewAdminUseCase(userRepo, postRepo, layer, enricher, deps.Storage, deps.Events, log)
	paymentUseCase := usecase.NewPaymentUseCase(postRepo, userRepo, deps.Checkout, log)

	authHandler := handlers.NewAuthHandler(authUseCase, deps.JWT.TTL(), cfg.CookieSecure, log)
	postHandler := handlers.NewPostHandler(postUseCase, paymentUseCase, log)
	userHandler := handlers.NewUserHandler(userUseCase, log)
	adminHandler := handlers.NewAdminHandler(adminUseCase, log)

	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORSAllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Login and registration are limited per client IP; everything behind
	// AuthMiddleware is limited per user.
	var limiter gin.HandlerFunc
	if deps.Redis != nil {
		limiter = middleware.RateLimitMiddleware(deps.Redis, cfg.RateLimitPerMinute, time.Minute)
	} else {
		log.Warn("Redis unavailable, rate limiting disabled")
	}

	auth := r.Group("/auth")
	if limiter != nil {
		auth.Use(limiter)
	}
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWT, userRepo))
	if limiter != nil {
		protected.Use(limiter)
	}

	posts := protected.Group("/posts")
	{
		posts.POST("/create", postHandler.CreatePost)
		posts.DELETE("/delete", postHandler.DeletePost)
		posts.POST("/add-comment", postHandler.AddComment)
		posts.DELETE("/delete-comment", postHandler.DeleteComment)
		posts.PATCH("/like-or-dislike", postHandler.LikeOrDislike)
		posts.GET("/get-all-posts", postHandler.GetAllPosts)
		posts.GET("/get-my-posts", postHandler.GetMyPosts)
		posts.GET("/get-user-posts", postHandler.GetUserPosts)
		posts.GET("/get-post", postHandler.GetPost)
		posts.GET("/search", postHandler.Search)
		posts.POST("/purchase", postHandler.Purchase)
		posts.POST("/verify-payment", postHandler.VerifyPayment)
	}

	user := protected.Group("/user")
	{
		user.GET("/user", userHandler.GetUser)
		user.PUT("/user", userHandler.UpdateUser)
		user.POST("/avatar", userHandler.UploadAvatar)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/get-users", adminHandler.GetUsers)
		admin.GET("/get-all-posts", adminHandler.GetAllPosts)
		admin.DELETE("/delete-users", adminHandler.DeleteUsers)
		admin.DELETE("/delete-posts", adminHandler.DeletePosts)
	}

	return r
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}
