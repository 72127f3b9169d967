package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/reply-studio/backend/internal/handler/live"
	"github.com/zhouzirui/reply-studio/backend/internal/handler/page"
	"github.com/zhouzirui/reply-studio/backend/internal/handler/session"
	"github.com/zhouzirui/reply-studio/backend/internal/handler/stream"
	stylehandler "github.com/zhouzirui/reply-studio/backend/internal/handler/style"
	middlewarePkg "github.com/zhouzirui/reply-studio/backend/internal/middleware"
	"github.com/zhouzirui/reply-studio/backend/internal/model/style"
	"github.com/zhouzirui/reply-studio/backend/internal/service/studio"
	"github.com/zhouzirui/reply-studio/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(studioSvc *studio.Service, logger *zap.Logger) (http.Handler, error) {
	options := style.Catalog()

	pageHandler, err := page.New(options)
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	pageHandler.RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		stylehandler.New(options).RegisterRoutes(api)
		session.New(studioSvc, logger).RegisterRoutes(api)
		stream.New(studioSvc, logger).RegisterRoutes(api)
		live.NewWebSocketHandler(studioSvc, logger).RegisterRoutes(api)
	})

	return r, nil
}
