package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"aiiabox/internal/auth"
	"aiiabox/internal/config"
	"aiiabox/internal/handler"
	"aiiabox/internal/service"
	"aiiabox/internal/web"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	chatHandler *handler.ChatHandler,
	messageHandler *handler.MessageHandler,
	profileHandler *handler.ProfileHandler,
	settingsHandler *handler.SettingsHandler,
	webHandler *web.Handler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes accept either "Bearer <jwt>" or "Token <key>".
	secured := api.Group("", auth.RequireUser(jwtService, authService))

	secured.GET("/auth/token/", authHandler.Token)
	secured.POST("/auth/token/regenerate", authHandler.RegenerateToken)

	// Chat routes
	secured.GET("/chats/", chatHandler.List)
	secured.POST("/chats/", chatHandler.Create)
	secured.GET("/chats/:id/", chatHandler.Get)
	secured.PATCH("/chats/:id/", chatHandler.Update)
	secured.DELETE("/chats/:id/", chatHandler.Delete)

	// Message routes, nested under the owning chat
	secured.GET("/chats/:chat_id/messages/", messageHandler.List)
	secured.POST("/chats/:chat_id/messages/", messageHandler.Create)
	secured.GET("/chats/:chat_id/messages/:id/", messageHandler.Get)
	secured.PATCH("/chats/:chat_id/messages/:id/", messageHandler.Update)
	secured.DELETE("/chats/:chat_id/messages/:id/", messageHandler.Delete)

	// Profile and settings routes
	secured.GET("/profile/", profileHandler.Get)
	secured.PUT("/profile/", profileHandler.Update)
	secured.POST("/profile/avatar/", profileHandler.UploadAvatar)
	secured.GET("/settings/", settingsHandler.Get)
	secured.PUT("/settings/", settingsHandler.Update)

	// Browser-facing pages share the services but authenticate with a
	// session cookie and redirect to the login page when it is missing.
	if webHandler != nil {
		webHandler.Register(e)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
