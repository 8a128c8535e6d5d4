package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultWatsonURL is the Watson NLP EmotionPredict endpoint.
	DefaultWatsonURL = "https://sn-watson-emotion.labs.skills.network/v1/watson.runtime.nlp.v1/NlpService/EmotionPredict"
	// DefaultWatsonModelID selects the stock English emotion workflow.
	DefaultWatsonModelID = "emotion_aggregated-workflow_lang_en_stock"

	watsonModelHeader = "grpc-metadata-mm-model-id"
	maxWatsonBody     = 1 << 20
	watsonName        = "watson"
)

// WatsonConfig 描述 Watson NLP 情绪接口的连接参数。
type WatsonConfig struct {
	URL        string
	ModelID    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// WatsonProvider calls the Watson NLP EmotionPredict endpoint.
type WatsonProvider struct {
	url     string
	modelID string
	client  *http.Client
	logger  *slog.Logger
}

// NewWatsonProvider 创建 Watson 提供方，未设置的字段使用默认值。
func NewWatsonProvider(cfg WatsonConfig) *WatsonProvider {
	p := &WatsonProvider{
		url:     cfg.URL,
		modelID: cfg.ModelID,
		client:  cfg.HTTPClient,
		logger:  cfg.Logger,
	}
	if p.url == "" {
		p.url = DefaultWatsonURL
	}
	if p.modelID == "" {
		p.modelID = DefaultWatsonModelID
	}
	if p.client == nil {
		p.client = &http.Client{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Name implements Provider.
func (p *WatsonProvider) Name() string { return watsonName }

type watsonRequest struct {
	RawDocument watsonDocument `json:"raw_document"`
}

type watsonDocument struct {
	Text string `json:"text"`
}

type watsonResponse struct {
	EmotionPredictions []watsonPrediction `json:"emotionPredictions"`
}

type watsonPrediction struct {
	Emotion map[string]json.RawMessage `json:"emotion"`
}

// Predict implements Provider.
func (p *WatsonProvider) Predict(ctx context.Context, text string) (map[string]float64, error) {
	req, err := p.newRequest(ctx, text)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, transportError(watsonName, "request", 0, err)
	}
	defer resp.Body.Close()

	p.logger.DebugContext(ctx, "[watson] response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrRejected
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatsonBody+1))
	if err != nil {
		return nil, transportError(watsonName, "read body", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, transportError(watsonName, "request", resp.StatusCode,
			fmt.Errorf("unexpected status %s: %s", resp.Status, preview(body)))
	}
	if len(body) > maxWatsonBody {
		return nil, contractError(watsonName, "read body", fmt.Errorf("response body exceeds %d bytes", maxWatsonBody))
	}

	return decodeWatsonResponse(body)
}

func (p *WatsonProvider) newRequest(ctx context.Context, text string) (*http.Request, error) {
	payload, err := json.Marshal(watsonRequest{RawDocument: watsonDocument{Text: text}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal watson request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build watson request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(watsonModelHeader, p.modelID)
	return req, nil
}

func decodeWatsonResponse(body []byte) (map[string]float64, error) {
	var out watsonResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, contractError(watsonName, "decode", fmt.Errorf("%w (body %q)", err, preview(body)))
	}
	if len(out.EmotionPredictions) == 0 {
		return nil, contractError(watsonName, "decode", errors.New("emotionPredictions is empty or missing"))
	}

	emotions := out.EmotionPredictions[0].Emotion
	if emotions == nil {
		return nil, contractError(watsonName, "decode", errors.New("emotionPredictions[0].emotion is missing"))
	}

	scores, err := knownScores(emotions)
	if err != nil {
		return nil, contractError(watsonName, "decode", err)
	}
	return scores, nil
}

func preview(body []byte) string {
	const limit = 120
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
