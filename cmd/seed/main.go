package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/datatypes"

	"aiiabox/internal/auth"
	"aiiabox/internal/cache"
	"aiiabox/internal/config"
	"aiiabox/internal/db"
	"aiiabox/internal/model"
	"aiiabox/internal/repository"
	"aiiabox/internal/service"
)

// demoUser describes one seeded account and its sample conversations.
type demoUser struct {
	Email    string
	Password string
	Name     string
	Chats    []demoChat
}

type demoChat struct {
	Title    string
	Messages []demoMessage
}

type demoMessage struct {
	Role    model.MessageRole
	Content string
	Tokens  int
}

var demoUsers = []demoUser{
	{
		Email:    "alice@example.com",
		Password: "alice-demo-password",
		Name:     "Alice",
		Chats: []demoChat{
			{
				Title: "Trip planning",
				Messages: []demoMessage{
					{Role: model.RoleUser, Content: "What should I pack for a week in Lisbon?", Tokens: 12},
					{Role: model.RoleAssistant, Content: "Light layers, comfortable walking shoes, and a rain jacket for the evenings.", Tokens: 18},
				},
			},
			{
				Title: "Recipe ideas",
				Messages: []demoMessage{
					{Role: model.RoleUser, Content: "Give me a quick weeknight pasta recipe.", Tokens: 9},
				},
			},
		},
	},
	{
		Email:    "bob@example.com",
		Password: "bob-demo-password",
		Name:     "Bob",
		Chats: []demoChat{
			{
				Title: "Code review notes",
				Messages: []demoMessage{
					{Role: model.RoleSystem, Content: "You are a thorough but kind code reviewer.", Tokens: 10},
					{Role: model.RoleUser, Content: "Review this function for error handling issues.", Tokens: 9},
				},
			},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.APIToken{},
		&model.Project{},
		&model.Profile{},
		&model.Settings{},
		&model.Chat{},
		&model.Message{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	authService := service.NewAuthService(userRepo, tokenRepo, jwtService, tokenStore)
	chatService := service.NewChatService(chatRepo)
	messageService := service.NewMessageService(chatRepo, messageRepo)

	ctx := context.Background()

	users, chats, messages, err := seedDemoData(ctx, userRepo, authService, chatService, messageService)
	if err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d", users)
	log.Printf("  - Chats created: %d", chats)
	log.Printf("  - Messages created: %d", messages)
}

// seedDemoData creates the demo users with their chats and messages. Users
// that already exist are skipped entirely so reruns stay idempotent.
func seedDemoData(
	ctx context.Context,
	userRepo repository.UserRepository,
	authService service.AuthService,
	chatService service.ChatService,
	messageService service.MessageService,
) (users int, chats int, messages int, err error) {
	for _, demo := range demoUsers {
		existing, findErr := userRepo.FindByEmail(ctx, demo.Email)
		if findErr == nil && existing != nil {
			log.Printf("User %s already exists, skipping", demo.Email)
			continue
		}

		user, regErr := authService.Register(ctx, demo.Email, demo.Password, demo.Name)
		if regErr != nil {
			if errors.Is(regErr, service.ErrUserAlreadyExists) {
				log.Printf("User %s already exists, skipping", demo.Email)
				continue
			}
			return users, chats, messages, fmt.Errorf("create user %s: %w", demo.Email, regErr)
		}
		users++

		for _, dc := range demo.Chats {
			chat, chatErr := chatService.Create(ctx, user.ID, dc.Title, datatypes.JSON(`{"seeded":true}`))
			if chatErr != nil {
				return users, chats, messages, fmt.Errorf("create chat %q for %s: %w", dc.Title, demo.Email, chatErr)
			}
			chats++

			for _, dm := range dc.Messages {
				if _, msgErr := messageService.Create(ctx, user.ID, chat.ID, dm.Content, dm.Role, dm.Tokens); msgErr != nil {
					return users, chats, messages, fmt.Errorf("create message in chat %q: %w", dc.Title, msgErr)
				}
				messages++
			}
		}
	}

	return users, chats, messages, nil
}
