package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkup/pkg/cache"
	"linkup/pkg/captcha"
	"linkup/pkg/config"
	"linkup/pkg/database"
	"linkup/pkg/email"
	"linkup/pkg/jwt"
	"linkup/pkg/logger"
	"linkup/pkg/middleware"
	"linkup/pkg/s3"
	authhandlers "linkup/services/auth/handlers"
	authrepo "linkup/services/auth/repository"
	authusecase "linkup/services/auth/usecase"
	posthandlers "linkup/services/post/handlers"
	postrepo "linkup/services/post/repository"
	postusecase "linkup/services/post/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "linkup/docs" // Swagger docs
)

// @title           LinkUp API
// @version         1.0
// @description     Professional networking backend: accounts, posts, likes, comments and reposts

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	// Migrations are handled by goose - see cmd/migrate/main.go

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	jwtService := jwt.NewService(cfg.JWTSecret)
	mailer := email.NewSender(cfg)
	captchaClient := captcha.New(cfg.HCaptchaSecret)
	googleVerifier := authusecase.NewGoogleVerifier(cfg.GoogleClientID)

	userRepo := authrepo.NewUserRepository(db)
	authUseCase := authusecase.NewAuthUseCase(
		userRepo, jwtService, mailer, captchaClient, googleVerifier, cfg.FrontendURL, log,
	)
	authHandler := authhandlers.NewAuthHandler(authUseCase, log)

	postRepo := postrepo.NewPostRepository(db)
	likeRepo := postrepo.NewLikeRepository(db)
	commentRepo := postrepo.NewCommentRepository(db)
	repostRepo := postrepo.NewRepostRepository(db)
	postUseCase := postusecase.NewPostUseCase(
		db, postRepo, likeRepo, commentRepo, repostRepo, s3Client, log,
	)
	postHandler := posthandlers.NewPostHandler(postUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.GET("/verify/:token", authHandler.VerifyEmail)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password/:token", authHandler.ResetPassword)
		auth.POST("/google", authHandler.GoogleLogin)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute)) // 100 requests per minute
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts", postHandler.GetFeed)
		protected.POST("/posts/:id/like", postHandler.LikePost)
		protected.GET("/posts/:id/likes", postHandler.GetPostLikes)
		protected.POST("/posts/:id/comment", postHandler.CommentPost)
		protected.GET("/posts/:id/comments", postHandler.GetPostComments)
		protected.POST("/posts/:id/repost", postHandler.RepostPost)
		protected.GET("/posts/:id/reposts", postHandler.GetPostReposts)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("LinkUp API starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("LinkUp API exited")
}
