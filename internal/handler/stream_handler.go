package handler

import (
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"
	internalWS "ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// StreamHandler upgrades a tab to a websocket that receives its session
// frames.
type StreamHandler struct {
	sessions     service.IAssistantService
	hub          *internalWS.Hub
	jwtSecret    string
	requireLogin bool
	logger       logger.ILogger
}

func NewStreamHandler(sessions service.IAssistantService, hub *internalWS.Hub, jwtSecret string, requireLogin bool, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		sessions:     sessions,
		hub:          hub,
		jwtSecret:    jwtSecret,
		requireLogin: requireLogin,
		logger:       log,
	}
}

// ServeWs handles GET /ws?session=<id>&token=<jwt>.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Query("session")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Missing session"))
	}

	// Priority 1: query param (browsers cannot set headers on upgrade).
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	ctx := c.UserContext()
	userID := ""
	if tokenStr != "" {
		user, err := identity.ParseToken(h.jwtSecret, tokenStr)
		if err != nil {
			h.logger.Warn("StreamHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}
		userID = user.ID
		ctx = identity.WithUser(ctx, user)
	} else if h.requireLogin {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')"))
	}

	if !h.sessions.HasSession(ctx, sessionID) {
		return c.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			fields := map[string]interface{}{"session_id": sessionID, "user_id": userID}
			h.logger.Info("StreamHandler", "Starting WebSocket session", fields)
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("StreamHandler", "WebSocket session ended", fields)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
