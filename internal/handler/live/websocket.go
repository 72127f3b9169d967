package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/reply-studio/backend/internal/handler/apierr"
	"github.com/zhouzirui/reply-studio/backend/internal/service/studio"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
)

// WebSocketHandler WebSocket回复生成处理器
type WebSocketHandler struct {
	studio   *studio.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(studioSvc *studio.Service, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		studio: studioSvc,
		logger: logger.Named("websocket"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serializes writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.studio.Sessions().GetSession(r.Context(), sessionID); err != nil {
		status, message := apierr.Status(err)
		http.Error(w, message, status)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()
	c := &conn{ws: ws}

	h.logger.Debug("connection opened", zap.String("session", sessionID))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, ws)

	h.send(c, sessionID, "connected", nil)

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed", zap.String("session", sessionID), zap.Error(err))
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(c, sessionID, "session mismatch")
			continue
		}

		h.handleMessage(ctx, c, sessionID, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, c *conn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "generate":
		h.handleGenerate(ctx, c, sessionID, msg.Data)
	case "transcript":
		h.handleTranscript(ctx, c, sessionID)
	default:
		h.sendError(c, sessionID, "unsupported message type: "+msg.Type)
	}
}

// handleGenerate runs synchronously, so a connection never has two turns in flight.
func (h *WebSocketHandler) handleGenerate(ctx context.Context, c *conn, sessionID string, raw json.RawMessage) {
	var req studio.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(c, sessionID, "invalid generate payload")
		return
	}

	h.send(c, sessionID, "working", nil)

	turn, err := h.studio.Reply(ctx, sessionID, req.Message, req.Params())
	if err != nil {
		_, message := apierr.Status(err)
		h.sendError(c, sessionID, message)
		return
	}

	h.send(c, sessionID, "reply", turn)
}

func (h *WebSocketHandler) handleTranscript(ctx context.Context, c *conn, sessionID string) {
	store, err := h.studio.Sessions().Transcript(ctx, sessionID)
	if err != nil {
		_, message := apierr.Status(err)
		h.sendError(c, sessionID, message)
		return
	}
	h.send(c, sessionID, "transcript", store.Exchanges())
}

func (h *WebSocketHandler) send(c *conn, sessionID, kind string, data interface{}) {
	msg := outgoingMessage{
		Type:      kind,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := c.writeJSON(msg); err != nil {
		h.logger.Warn("write failed", zap.String("type", kind), zap.Error(err))
	}
}

func (h *WebSocketHandler) sendError(c *conn, sessionID, message string) {
	h.send(c, sessionID, "error", map[string]string{"message": message})
}

// pingLoop 定期发送ping消息
func (h *WebSocketHandler) pingLoop(ctx context.Context, ws *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
