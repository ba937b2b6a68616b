package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"aiiabox/internal/auth"
	apperrors "aiiabox/internal/errors"
	"aiiabox/internal/model"
	"aiiabox/internal/service"
)

const (
	sessionCookie = "aiiabox_session"
	pageSize      = 20
)

// Handler serves the browser-facing pages. The same services back the API;
// only the authentication transport (session cookie) and the response shape
// (HTML, redirects) differ.
type Handler struct {
	jwtSecret      string
	authService    service.AuthService
	chatService    service.ChatService
	messageService service.MessageService
}

// NewHandler creates the web page handler.
func NewHandler(jwtSecret string, authService service.AuthService, chatService service.ChatService, messageService service.MessageService) *Handler {
	return &Handler{
		jwtSecret:      jwtSecret,
		authService:    authService,
		chatService:    chatService,
		messageService: messageService,
	}
}

// Register wires the page routes. Authenticated pages carry the JWT in a
// cookie; a missing or invalid cookie redirects to the login page.
func (h *Handler) Register(e *echo.Echo) {
	e.Renderer = NewRenderer()

	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)

	pages := e.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(h.jwtSecret),
		TokenLookup: "cookie:" + sessionCookie,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			if claims, ok := token.Claims.(*auth.Claims); ok {
				auth.SetCurrentUserID(c, claims.UserID)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusFound, "/login")
		},
	}))

	pages.GET("/chats", h.ChatList)
	pages.GET("/chats/new", h.ChatCreateForm)
	pages.POST("/chats/new", h.ChatCreate)
	pages.GET("/chats/:id", h.ChatDetail)
	pages.POST("/chats/:id", h.PostMessage)
	pages.GET("/chats/:id/delete", h.ChatDeleteForm)
	pages.POST("/chats/:id/delete", h.ChatDelete)
}

// LoginForm renders the login page.
func (h *Handler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", map[string]interface{}{})
}

// Login authenticates the posted credentials and starts a cookie session.
func (h *Handler) Login(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	accessToken, _, _, err := h.authService.Login(c.Request().Context(), email, password)
	if err != nil {
		return c.Render(http.StatusOK, "login.html", map[string]interface{}{
			"Error": "Invalid email or password.",
			"Email": email,
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  time.Now().Add(auth.AccessTokenExpiry),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/chats")
}

// Logout clears the session cookie.
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/login")
}

// ChatList renders the user's chats, newest-updated first, 20 per page.
func (h *Handler) ChatList(c echo.Context) error {
	userID := auth.CurrentUserID(c)

	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}

	chats, count, err := h.chatService.List(c.Request().Context(), userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.Render(http.StatusOK, "chat_list.html", map[string]interface{}{
		"Chats":   chats,
		"Count":   count,
		"Page":    page,
		"HasNext": int64(page*pageSize) < count,
		"HasPrev": page > 1,
	})
}

// ChatCreateForm renders the new-chat form.
func (h *Handler) ChatCreateForm(c echo.Context) error {
	return c.Render(http.StatusOK, "chat_create.html", map[string]interface{}{})
}

// ChatCreate creates a chat from the posted form and redirects to it.
func (h *Handler) ChatCreate(c echo.Context) error {
	userID := auth.CurrentUserID(c)
	title := c.FormValue("title")

	chat, err := h.chatService.Create(c.Request().Context(), userID, title, nil)
	if err != nil {
		return c.Render(http.StatusOK, "chat_create.html", map[string]interface{}{
			"Error": err.Error(),
			"Title": title,
		})
	}
	return c.Redirect(http.StatusFound, "/chats/"+chat.ID.String())
}

// ChatDetail renders an owned chat with its messages. Another user's chat is
// indistinguishable from a missing one.
func (h *Handler) ChatDetail(c echo.Context) error {
	userID := auth.CurrentUserID(c)
	chat, messages, err := h.ownedChatWithMessages(c, userID)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "chat_detail.html", map[string]interface{}{
		"Chat":     chat,
		"Messages": messages,
	})
}

// PostMessage appends a user message to the chat and redirects back.
func (h *Handler) PostMessage(c echo.Context) error {
	userID := auth.CurrentUserID(c)
	chatID, err := parseChatID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	content := c.FormValue("content")
	if _, err := h.messageService.Create(c.Request().Context(), userID, chatID, content, model.RoleUser, 0); err != nil {
		if errors.Is(err, apperrors.ErrChatForbidden) {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		chat, messages, pageErr := h.ownedChatWithMessages(c, userID)
		if pageErr != nil {
			return pageErr
		}
		return c.Render(http.StatusOK, "chat_detail.html", map[string]interface{}{
			"Chat":     chat,
			"Messages": messages,
			"Error":    err.Error(),
			"Content":  content,
		})
	}
	return c.Redirect(http.StatusFound, "/chats/"+chatID.String())
}

// ChatDeleteForm renders the delete confirmation page.
func (h *Handler) ChatDeleteForm(c echo.Context) error {
	userID := auth.CurrentUserID(c)
	chatID, err := parseChatID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	chat, err := h.chatService.Get(c.Request().Context(), userID, chatID)
	if err != nil {
		return pageError(err)
	}
	return c.Render(http.StatusOK, "chat_delete.html", map[string]interface{}{
		"Chat": chat,
	})
}

// ChatDelete deletes an owned chat and redirects to the list.
func (h *Handler) ChatDelete(c echo.Context) error {
	userID := auth.CurrentUserID(c)
	chatID, err := parseChatID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	if err := h.chatService.Delete(c.Request().Context(), userID, chatID); err != nil {
		return pageError(err)
	}
	return c.Redirect(http.StatusFound, "/chats")
}

func (h *Handler) ownedChatWithMessages(c echo.Context, userID uint) (*model.Chat, []model.Message, error) {
	chatID, err := parseChatID(c)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound)
	}

	chat, err := h.chatService.Get(c.Request().Context(), userID, chatID)
	if err != nil {
		return nil, nil, pageError(err)
	}
	messages, _, err := h.messageService.List(c.Request().Context(), userID, chatID, 0, pageSize)
	if err != nil {
		return nil, nil, pageError(err)
	}
	return chat, messages, nil
}
