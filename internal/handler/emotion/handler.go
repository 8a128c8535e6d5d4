package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	model "github.com/zhouzirui/emotion-detector/backend/internal/model/emotion"
	emotionservice "github.com/zhouzirui/emotion-detector/backend/internal/service/emotion"
	"github.com/zhouzirui/emotion-detector/backend/pkg/utils"
)

const invalidTextMessage = "Invalid text! Please try again!."

// Scorer 是处理器依赖的情绪评分能力。
type Scorer interface {
	Score(ctx context.Context, text string) (model.Result, error)
	ProviderName() string
}

// Handler 情绪分析的HTTP处理器
type Handler struct {
	scorer Scorer
	logger *slog.Logger
}

// New 创建情绪分析处理器
func New(scorer Scorer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{scorer: scorer, logger: logger}
}

// RegisterRoutes 注册兼容旧版的文本接口
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/emotionDetector", h.handleDetectText)
}

// RegisterAPIRoutes 注册JSON接口
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/emotion", h.handleDetectJSON)
	r.Post("/emotion", h.handleDetectJSONBody)
}

// handleDetectText 以一句话的形式返回分析结果
func (h *Handler) handleDetectText(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("textToAnalyze")

	result, err := h.scorer.Score(r.Context(), text)
	if err != nil {
		h.logFailure(r, err)
		utils.RespondText(w, statusForError(err), "Emotion analysis is unavailable right now. Please try again later.")
		return
	}

	if result.IsEmpty() {
		utils.RespondText(w, http.StatusOK, invalidTextMessage)
		return
	}
	utils.RespondText(w, http.StatusOK, FormatResult(result))
}

func (h *Handler) handleDetectJSON(w http.ResponseWriter, r *http.Request) {
	h.respondScore(w, r, r.URL.Query().Get("text"))
}

func (h *Handler) handleDetectJSONBody(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text *string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := ""
	if payload.Text != nil {
		text = *payload.Text
	}
	h.respondScore(w, r, text)
}

func (h *Handler) respondScore(w http.ResponseWriter, r *http.Request, text string) {
	result, err := h.scorer.Score(r.Context(), text)
	if err != nil {
		h.logFailure(r, err)
		utils.RespondError(w, statusForError(err), errorMessage(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) logFailure(r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "[emotion] scoring failed",
		slog.String("path", r.URL.Path),
		slog.String("provider", h.scorer.ProviderName()),
		slog.String("error", err.Error()))
}

// FormatResult 生成与旧版接口一致的描述文本。
func FormatResult(result model.Result) string {
	s := result.Scores
	return fmt.Sprintf(
		"For the given statement, the system response is 'anger': %s 'disgust': %s, 'fear': %s, 'joy': %s and 'sadness': %s. The dominant emotion is %s.",
		formatScore(s.Anger), formatScore(s.Disgust), formatScore(s.Fear), formatScore(s.Joy), formatScore(s.Sadness),
		result.Dominant,
	)
}

// formatScore prints the shortest representation, switching to exponent form below 1e-4.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, emotionservice.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, emotionservice.ErrContractViolation), errors.Is(err, emotionservice.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, emotionservice.ErrTimeout):
		return "emotion provider timed out"
	case errors.Is(err, emotionservice.ErrContractViolation):
		return "emotion provider returned an unexpected response"
	case errors.Is(err, emotionservice.ErrTransport):
		return "emotion provider unavailable"
	default:
		return "emotion analysis failed"
	}
}
