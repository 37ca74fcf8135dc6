package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/general/jwt"
	"delivery-dispatch/internal/general/logger"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	ctrlTimeout  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades authenticated clients and keeps their connections in
// the hub so order status updates can be pushed to them.
type Handler struct {
	hub    *Hub
	jwtMgr *jwt.Manager
	log    *logger.Logger
}

func NewHandler(hub *Hub, jwtMgr *jwt.Manager, log *logger.Logger) *Handler {
	return &Handler{hub: hub, jwtMgr: jwtMgr, log: log}
}

// Connect handles GET /ws. The token travels in the Authorization header
// or the "token" query parameter.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	raw, err := jwt.FromAuthorization(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	_, claims, err := h.jwtMgr.ParseAndValidate(raw)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if err := jwt.RoleAllowed(claims, user.RoleCustomer, user.RoleDriver); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", logger.Err(err))
		return
	}

	userID := claims.Subject
	conn.SetReadLimit(1 << 20)
	h.hub.Add(userID, conn)
	defer h.hub.Remove(userID, conn)

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	stop := make(chan struct{})
	defer close(stop)
	go h.pingLoop(conn, stop)

	// the socket is push-only; the read loop just consumes control frames
	// and detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket closed unexpectedly", logger.String("user_id", userID), logger.Err(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	}
}

func (h *Handler) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctrlTimeout)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
