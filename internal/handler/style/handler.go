package style

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/reply-studio/backend/internal/model/style"
	"github.com/zhouzirui/reply-studio/backend/pkg/utils"
)

// Handler 回复风格选项的HTTP处理器
type Handler struct {
	options style.Options
}

// New 创建风格处理器
func New(options style.Options) *Handler {
	return &Handler{options: options}
}

// RegisterRoutes 注册风格相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/styles", h.handleListStyles)
}

// handleListStyles 列出可选的情绪与语气
func (h *Handler) handleListStyles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.options)
}
