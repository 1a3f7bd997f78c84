package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"librarium/internal/http-api/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API is served behind a gateway that owns origin policy.
		return true
	},
}

// AuthFunc validates a raw access token and returns the caller's identity.
type AuthFunc func(token string) (userID string, role string, err error)

// Handler upgrades authenticated requests to websocket connections and
// registers them with the hub.
type Handler struct {
	hub    *Hub
	auth   AuthFunc
	logger *slog.Logger
}

func NewHandler(hub *Hub, auth AuthFunc, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, auth: auth, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/notifications", h.serve)
}

// serve authenticates via the access_token query parameter because browser
// websocket clients cannot set an Authorization header.
func (h *Handler) serve(c *gin.Context) {
	token := c.Query("access_token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	userID, role, err := h.auth(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	var groups []string
	if role == models.RoleLibrarian {
		groups = append(groups, LibrariansGroup)
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
		groups: groups,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
