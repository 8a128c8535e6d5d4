package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/emotion-detector/backend/internal/handler/emotion"
	"github.com/zhouzirui/emotion-detector/backend/internal/handler/page"
	middlewarePkg "github.com/zhouzirui/emotion-detector/backend/internal/middleware"
	"github.com/zhouzirui/emotion-detector/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the emotion scorer.
func NewRouter(scorer emotion.Scorer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// Create handlers
	pageHandler := page.New()
	emotionHandler := emotion.New(scorer, logger)
	wsHandler := emotion.NewWebSocketHandler(scorer, logger)

	pageHandler.RegisterRoutes(r)
	emotionHandler.RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"provider": scorer.ProviderName(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		emotionHandler.RegisterAPIRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)
	})

	return r
}
