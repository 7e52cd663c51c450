package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// registerTimeout bounds how long a fresh connection may take to
	// identify itself before being dropped.
	registerTimeout = 10 * time.Second

	// writeTimeout bounds every outbound frame so a stalled client cannot
	// block a dispatch in progress.
	writeTimeout = 5 * time.Second
)

// Envelope is the frame shape pushed to clients.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// registerFrame is the first message a client sends after connecting,
// naming the recipient the connection belongs to.
type registerFrame struct {
	UserID uuid.UUID `json:"user_id"`
}

// wsChannel adapts a websocket connection to the Channel interface.
// gorilla/websocket allows only one concurrent writer, so writes are
// serialized with a mutex.
type wsChannel struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

var _ Channel = (*wsChannel)(nil)

// Send implements Channel.Send with a bounded write deadline.
func (c *wsChannel) Send(ctx context.Context, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	return c.conn.WriteJSON(payload)
}

// Close implements Channel.Close, attempting a normal close handshake
// before tearing the connection down.
func (c *wsChannel) Close() error {
	c.mu.Lock()
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.mu.Unlock()
	return c.conn.Close()
}

// Handler upgrades HTTP requests to websocket push channels and feeds the
// connection lifecycle into the Registry: a register frame opens the entry,
// the read loop ending closes it.
type Handler struct {
	registry *Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket Handler bound to the given registry.
// If logger is nil, a default logger will be used.
func NewHandler(registry *Registry, logger *slog.Logger) *Handler {
	if registry == nil {
		panic("registry cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With(slog.String("component", "push_handler")),
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	recipient, err := h.readRegisterFrame(conn)
	if err != nil {
		h.logger.Warn("closing unidentified push connection",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		_ = conn.Close()
		return
	}

	ch := &wsChannel{conn: conn}
	h.registry.Register(recipient, ch)

	// Block reading until the connection dies, then drop the registration.
	// Inbound frames after registration carry no meaning and are discarded.
	_ = conn.SetReadDeadline(time.Time{})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.registry.Deregister(ch)
	_ = conn.Close()
}

func (h *Handler) readRegisterFrame(conn *websocket.Conn) (uuid.UUID, error) {
	if err := conn.SetReadDeadline(time.Now().Add(registerTimeout)); err != nil {
		return uuid.Nil, err
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		return uuid.Nil, err
	}

	var frame registerFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return uuid.Nil, err
	}
	if frame.UserID == uuid.Nil {
		return uuid.Nil, errEmptyRegisterFrame
	}

	return frame.UserID, nil
}
