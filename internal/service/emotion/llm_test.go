package emotion

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	content string
	err     error
	lastIn  []*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.lastIn = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.content, nil), nil
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *fakeChatModel) BindTools([]*schema.ToolInfo) error { return nil }

func newLLMProvider(t *testing.T, m *fakeChatModel) *LLMProvider {
	t.Helper()
	p, err := NewLLMProvider(context.Background(), m)
	require.NoError(t, err)
	return p
}

func TestLLMProviderParsesScores(t *testing.T) {
	m := &fakeChatModel{content: "Here you go:\n{\"emotion\":{\"anger\":0.1,\"joy\":0.8},\"rejected\":false}"}
	p := newLLMProvider(t, m)

	scores, err := p.Predict(context.Background(), "what a lovely day")

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"anger": 0.1, "joy": 0.8}, scores)
	require.NotEmpty(t, m.lastIn)
	assert.Contains(t, m.lastIn[len(m.lastIn)-1].Content, "what a lovely day")
}

func TestLLMProviderIgnoresUnknownKeys(t *testing.T) {
	p := newLLMProvider(t, &fakeChatModel{content: `{"emotion":{"fear":0.6,"note":"mostly anxious"}}`})

	scores, err := p.Predict(context.Background(), "the exam is tomorrow")

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"fear": 0.6}, scores)
}

func TestLLMProviderRejection(t *testing.T) {
	p := newLLMProvider(t, &fakeChatModel{content: `{"rejected":true}`})

	_, err := p.Predict(context.Background(), "???")
	assert.ErrorIs(t, err, ErrRejected)
}

func TestLLMProviderContractViolations(t *testing.T) {
	for name, content := range map[string]string{
		"no json":         "I think the text is happy.",
		"missing emotion": `{"rejected":false}`,
		"blank":           "   ",
	} {
		t.Run(name, func(t *testing.T) {
			p := newLLMProvider(t, &fakeChatModel{content: content})
			_, err := p.Predict(context.Background(), "text")
			assert.ErrorIs(t, err, ErrContractViolation)
		})
	}
}

func TestLLMProviderInvokeFailureIsTransport(t *testing.T) {
	p := newLLMProvider(t, &fakeChatModel{err: errors.New("connection reset")})

	_, err := p.Predict(context.Background(), "text")

	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestParseScoringOutputMissingObject(t *testing.T) {
	_, err := parseScoringOutput("no braces here")
	assert.Error(t, err)
}
