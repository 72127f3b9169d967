package stream

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/reply-studio/backend/internal/handler/apierr"
	"github.com/zhouzirui/reply-studio/backend/internal/service/studio"
	"github.com/zhouzirui/reply-studio/backend/pkg/utils"
)

// Handler reports reply generation progress via Server-Sent Events.
// The reply is delivered whole; there is no token streaming.
type Handler struct {
	studio *studio.Service
	logger *zap.Logger
}

// New creates a new stream handler
func New(studioSvc *studio.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		studio: studioSvc,
		logger: logger.Named("stream"),
	}
}

// Event is the payload of every SSE frame.
type Event struct {
	SessionID string `json:"sessionId,omitempty"`
	Content   string `json:"content,omitempty"`
	Exchanges int    `json:"exchanges,omitempty"`
	Status    int    `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RegisterRoutes registers the SSE endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	query := r.URL.Query()
	req := studio.Request{
		Message:    query.Get("message"),
		Emotion:    query.Get("emotion"),
		Tone:       query.Get("tone"),
		Suggestion: query.Get("suggestion"),
	}

	if _, err := h.studio.Sessions().GetSession(r.Context(), sessionID); err != nil {
		status, message := apierr.Status(err)
		utils.RespondError(w, status, message)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	utils.SendSSEEvent(w, flusher, "working", Event{SessionID: sessionID})

	turn, err := h.studio.Reply(r.Context(), sessionID, req.Message, req.Params())
	if err != nil {
		status, message := apierr.Status(err)
		h.logger.Warn("stream reply failed", zap.String("session", sessionID), zap.Error(err))
		utils.SendSSEEvent(w, flusher, "error", Event{
			SessionID: sessionID,
			Status:    status,
			Error:     fmt.Sprintf("reply generation failed: %s", message),
		})
		return
	}

	utils.SendSSEEvent(w, flusher, "message", Event{
		SessionID: sessionID,
		Content:   turn.Reply,
		Exchanges: turn.Exchanges,
	})
	utils.SendSSEEvent(w, flusher, "end", Event{SessionID: sessionID})

	h.logger.Debug("stream completed", zap.String("session", sessionID))
}
