package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "aiiabox/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"aiiabox/internal/auth"
	"aiiabox/internal/cache"
	"aiiabox/internal/config"
	"aiiabox/internal/db"
	"aiiabox/internal/handler"
	"aiiabox/internal/model"
	"aiiabox/internal/repository"
	"aiiabox/internal/router"
	"aiiabox/internal/service"
	"aiiabox/internal/storage"
	"aiiabox/internal/web"
)

// @title aiiabox API
// @version 1.0
// @description Multi-tenant chat/profile API with per-user data isolation.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token, or "Token" followed by an API token key.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Message{},
			&model.Chat{},
			&model.Settings{},
			&model.Profile{},
			&model.Project{},
			&model.APIToken{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.APIToken{},
		&model.Project{},
		&model.Profile{},
		&model.Settings{},
		&model.Chat{},
		&model.Message{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	settingsRepo := repository.NewSettingsRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Avatar storage is optional: without MINIO_ENDPOINT the upload
	// endpoint reports the store as unavailable instead of failing startup.
	var avatarStore service.AvatarStorage
	if cfg.MinioEndpoint != "" {
		store, err := storage.NewAvatarStore(
			context.Background(),
			cfg.MinioEndpoint,
			cfg.MinioAccessKey,
			cfg.MinioSecretKey,
			cfg.MinioBucket,
			cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("avatar store init: %v", err)
		}
		avatarStore = store
	} else {
		log.Println("MINIO_ENDPOINT not set, avatar uploads disabled")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenRepo, jwtService, tokenStore)
	chatService := service.NewChatService(chatRepo)
	messageService := service.NewMessageService(chatRepo, messageRepo)
	profileService := service.NewProfileService(profileRepo, avatarStore)
	settingsService := service.NewSettingsService(settingsRepo, projectRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	messageHandler := handler.NewMessageHandler(messageService)
	profileHandler := handler.NewProfileHandler(profileService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	webHandler := web.NewHandler(cfg.JWTSecret, authService, chatService, messageService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		authService,
		authHandler,
		chatHandler,
		messageHandler,
		profileHandler,
		settingsHandler,
		webHandler,
	)

	// Log swagger full path
	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
