package session

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/reply-studio/backend/internal/handler/apierr"
	"github.com/zhouzirui/reply-studio/backend/internal/model/transcript"
	"github.com/zhouzirui/reply-studio/backend/internal/service/studio"
	"github.com/zhouzirui/reply-studio/backend/pkg/utils"
)

// Handler 会话与回复生成的HTTP处理器
type Handler struct {
	studio *studio.Service
	logger *zap.Logger
}

// New 创建会话处理器
func New(studioSvc *studio.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		studio: studioSvc,
		logger: logger.Named("session"),
	}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Delete("/", h.handleDeleteSession)
		r.Get("/transcript", h.handleTranscript)
		r.Post("/replies", h.handleReply)
		r.Post("/prompt", h.handlePrompt)
	})
}

type transcriptResponse struct {
	SessionID string                `json:"sessionId"`
	Segments  []transcript.Segment  `json:"segments"`
	Exchanges []transcript.Exchange `json:"exchanges"`
}

type replyResponse struct {
	studio.Turn
	Transcript []transcript.Segment `json:"transcript"`
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.studio.Sessions().CreateSession(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.logger.Debug("session created", zap.String("session", session.ID))
	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleDeleteSession 删除会话及其记录
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.studio.Sessions().DeleteSession(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTranscript 返回会话记录
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	store, err := h.studio.Sessions().Transcript(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, transcriptResponse{
		SessionID: sessionID,
		Segments:  collectSegments(store),
		Exchanges: store.Exchanges(),
	})
}

// handleReply 生成一条回复并写入会话记录
func (h *Handler) handleReply(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload studio.Request
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.studio.Reply(r.Context(), sessionID, payload.Message, payload.Params())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	store, err := h.studio.Sessions().Transcript(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, replyResponse{
		Turn:       turn,
		Transcript: collectSegments(store),
	})
}

// handlePrompt 预览将要发送给模型的提示词
func (h *Handler) handlePrompt(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload studio.Request
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt, err := h.studio.Preview(r.Context(), sessionID, payload.Message, payload.Params())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"prompt": prompt})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	status, message := apierr.Status(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	}
	utils.RespondError(w, status, message)
}

func collectSegments(store *transcript.Store) []transcript.Segment {
	segments := slices.Collect(store.RenderForDisplay())
	if segments == nil {
		segments = []transcript.Segment{}
	}
	return segments
}
