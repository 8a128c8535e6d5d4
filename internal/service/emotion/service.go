package emotion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	analysis "github.com/zhouzirui/emotion-detector/backend/internal/analysis/emotion"
	model "github.com/zhouzirui/emotion-detector/backend/internal/model/emotion"
)

// Provider 是外部情绪预测服务的抽象。
//
// Predict returns the raw label → score mapping of the first prediction.
// It returns ErrRejected when the provider refuses the text, and a
// *ProviderError for contract or transport faults.
type Provider interface {
	Name() string
	Predict(ctx context.Context, text string) (map[string]float64, error)
}

// Config 控制情绪评分服务的行为。
type Config struct {
	// Timeout bounds a single provider call. Zero leaves only the caller's deadline.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Service scores text through a Provider. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewService 创建情绪评分服务。
func NewService(provider Provider, cfg Config) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("emotion provider is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		provider: provider,
		timeout:  cfg.Timeout,
		logger:   logger,
	}, nil
}

// ProviderName 返回当前使用的提供方名称。
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Score 分析 text 的情绪。空文本或被提供方拒绝的文本返回全空结果且不返回错误；
// 提供方契约或传输故障以 *ProviderError 返回。
func (s *Service) Score(ctx context.Context, text string) (model.Result, error) {
	if text == "" {
		return model.Empty(), nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.provider.Predict(ctx, text)
	if errors.Is(err, ErrRejected) {
		s.logger.DebugContext(ctx, "[emotion] provider rejected text",
			slog.String("provider", s.provider.Name()),
			slog.Int("text_length", len(text)))
		return model.Empty(), nil
	}
	if err != nil {
		s.logger.DebugContext(ctx, "[emotion] provider call failed",
			slog.String("provider", s.provider.Name()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return model.Result{}, err
	}

	// An empty mapping has no dominant label to report.
	if len(raw) == 0 {
		return model.Result{}, contractError(s.provider.Name(), "parse", errors.New("empty emotion mapping"))
	}

	result := analysis.Analyze(raw)
	s.logger.DebugContext(ctx, "[emotion] scored text",
		slog.String("provider", s.provider.Name()),
		slog.String("dominant", string(result.Dominant)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}
