package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const llmName = "ark"

// LLMProvider 使用大模型给出与 Watson 相同形状的五维情绪得分。
type LLMProvider struct {
	classifier compose.Runnable[map[string]any, *schema.Message]
}

// NewLLMProvider compiles the scoring chain on top of chatModel.
func NewLLMProvider(ctx context.Context, chatModel model.BaseChatModel) (*LLMProvider, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(scoringSystemPrompt),
		schema.UserMessage(scoringUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile emotion scoring chain: %w", err)
	}

	return &LLMProvider{classifier: runnable}, nil
}

// Name implements Provider.
func (p *LLMProvider) Name() string { return llmName }

// Predict implements Provider.
func (p *LLMProvider) Predict(ctx context.Context, text string) (map[string]float64, error) {
	msg, err := p.classifier.Invoke(ctx, map[string]any{"text": text})
	if err != nil {
		return nil, transportError(llmName, "invoke", 0, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, contractError(llmName, "decode", errors.New("empty model output"))
	}

	payload, err := parseScoringOutput(msg.Content)
	if err != nil {
		return nil, contractError(llmName, "decode", err)
	}
	if payload.Rejected {
		return nil, ErrRejected
	}
	if payload.Emotion == nil {
		return nil, contractError(llmName, "decode", errors.New("emotion field is missing"))
	}

	scores, err := knownScores(payload.Emotion)
	if err != nil {
		return nil, contractError(llmName, "decode", err)
	}
	return scores, nil
}

type scoringPayload struct {
	Rejected bool                       `json:"rejected"`
	Emotion  map[string]json.RawMessage `json:"emotion"`
}

// parseScoringOutput 从模型输出中截取第一个 JSON 对象并解析。
func parseScoringOutput(content string) (*scoringPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &scoringPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

const scoringSystemPrompt = "You are an emotion analysis engine. Rate the emotions expressed in the user's text. " +
	"Reply with a single JSON object only, no extra text. The object has a field \"emotion\" holding an object whose keys are " +
	"anger, disgust, fear, joy and sadness, each mapped to a number between 0 and 1, and a boolean field \"rejected\" " +
	"that is true only when the text carries no analyzable language."

const scoringUserPrompt = "Text:\n{text}"
