package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inventory-console/internal/domain"
	"inventory-console/internal/service"
)

const (
	msgLoginInProgress = "Iniciando sesión..."
	msgInternalError   = "No se pudo completar la operación. Intenta nuevamente."
	defaultUserName    = "Usuario"
)

// Handler wires the console pages to the session gate.
type Handler struct {
	gate  service.SessionGate
	users service.UserService
	log   logrus.FieldLogger
}

func NewHandler(gate service.SessionGate, users service.UserService, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		gate:  gate,
		users: users,
		log:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(pages)
	router.Use(requestLogger(h.log))

	router.GET("/login", h.redirectIfAuthenticated, h.loginPage)
	router.POST("/login", h.redirectIfAuthenticated, h.login)
	router.GET("/", h.requireSession, h.dashboard)
	router.POST("/logout", h.logout)

	api := router.Group("/api")
	api.Use(corsMiddleware())
	{
		api.GET("/session", h.sessionState)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	router.NoRoute(h.redirectByState)
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
		}).Debug("request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requireSession(c *gin.Context) {
	if !h.gate.Current().Authenticated() {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) redirectIfAuthenticated(c *gin.Context) {
	if h.gate.Current().Authenticated() {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) redirectByState(c *gin.Context) {
	if h.gate.Current().Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{"Title": "Iniciar Sesión"})
}

func (h *Handler) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	err := h.gate.Login(c.Request.Context(), email, password)
	if err == nil || errors.Is(err, service.ErrAlreadyAuthenticated) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	status := http.StatusOK
	msg := msgInternalError
	var displayErr *service.DisplayError
	switch {
	case errors.As(err, &displayErr):
		msg = displayErr.Message
		switch {
		case errors.Is(err, service.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrRejected):
			status = http.StatusUnauthorized
		case errors.Is(err, service.ErrConnection):
			status = http.StatusBadGateway
		}
	case errors.Is(err, service.ErrLoginInProgress):
		status = http.StatusConflict
		msg = msgLoginInProgress
	default:
		h.log.WithError(err).Error("login failed")
		status = http.StatusInternalServerError
	}

	c.HTML(status, "login", gin.H{
		"Title": "Iniciar Sesión",
		"Email": email,
		"Error": msg,
	})
}

func (h *Handler) dashboard(c *gin.Context) {
	session := h.gate.Current()
	data := gin.H{
		"Title":    "Inicio",
		"UserName": displayName(session),
	}
	if creds, ok := session.Credentials(); ok {
		if info := service.InspectToken(creds.Token); info.ExpiresAt != nil {
			data["ExpiresAt"] = info.ExpiresAt.Local().Format("02/01/2006 15:04")
		}
	}

	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		var displayErr *service.DisplayError
		if errors.As(err, &displayErr) {
			data["Error"] = displayErr.Message
		} else {
			h.log.WithError(err).Error("list users failed")
			data["Error"] = service.MsgUsersLoadFailed
		}
	}
	data["Users"] = users

	c.HTML(http.StatusOK, "dashboard", data)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.gate.Logout(c.Request.Context()); err != nil {
		h.log.WithError(err).Error("logout failed")
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

type SessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	State         domain.SessionState `json:"state"`
	UserName      string              `json:"userName,omitempty"`
}

func (h *Handler) sessionState(c *gin.Context) {
	session := h.gate.Current()
	c.JSON(http.StatusOK, SessionResponse{
		Authenticated: session.Authenticated(),
		State:         session.State(),
		UserName:      session.UserName(),
	})
}

func displayName(session domain.Session) string {
	if name := session.UserName(); name != "" {
		return name
	}
	return defaultUserName
}
