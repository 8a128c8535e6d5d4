package emotion

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/emotion-detector/backend/internal/model/emotion"
	emotionservice "github.com/zhouzirui/emotion-detector/backend/internal/service/emotion"
)

type fakeScorer struct {
	result model.Result
	err    error
	texts  []string
}

func (f *fakeScorer) Score(_ context.Context, text string) (model.Result, error) {
	f.texts = append(f.texts, text)
	if text == "" {
		return model.Empty(), nil
	}
	return f.result, f.err
}

func (f *fakeScorer) ProviderName() string { return "fake" }

func fearResult() model.Result {
	return model.Result{
		Scores:   &model.Scores{Anger: 0.2, Disgust: 0.1, Fear: 0.9, Joy: 0.05, Sadness: 0.3},
		Dominant: model.Fear,
	}
}

func setupRouter(scorer Scorer) *chi.Mux {
	h := New(scorer, nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	r.Route("/api", h.RegisterAPIRoutes)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestDetectTextFormatsResult(t *testing.T) {
	scorer := &fakeScorer{result: fearResult()}
	r := setupRouter(scorer)

	req := httptest.NewRequest(http.MethodGet, "/emotionDetector?textToAnalyze="+url.QueryEscape("I am scared"), nil)
	resp := serve(r, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t,
		"For the given statement, the system response is 'anger': 0.2 'disgust': 0.1, 'fear': 0.9, 'joy': 0.05 and 'sadness': 0.3. The dominant emotion is fear.",
		resp.Body.String())
	assert.Equal(t, []string{"I am scared"}, scorer.texts)
}

func TestFormatResultSmallScores(t *testing.T) {
	res := model.Result{
		Scores:   &model.Scores{Anger: 1e-05, Disgust: 0.0001, Fear: 0.000123, Joy: 0.99, Sadness: 0},
		Dominant: model.Joy,
	}

	assert.Equal(t,
		"For the given statement, the system response is 'anger': 1e-05 'disgust': 0.0001, 'fear': 0.000123, 'joy': 0.99 and 'sadness': 0. The dominant emotion is joy.",
		FormatResult(res))
}

func TestDetectTextInvalidInput(t *testing.T) {
	r := setupRouter(&fakeScorer{result: fearResult()})

	resp := serve(r, httptest.NewRequest(http.MethodGet, "/emotionDetector", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, invalidTextMessage, resp.Body.String())
}

func TestDetectTextProviderFault(t *testing.T) {
	fault := &emotionservice.ProviderError{Kind: emotionservice.KindContract, Provider: "fake", Op: "decode"}
	r := setupRouter(&fakeScorer{err: fault})

	resp := serve(r, httptest.NewRequest(http.MethodGet, "/emotionDetector?textToAnalyze=hi", nil))

	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.NotEqual(t, invalidTextMessage, resp.Body.String())
}

func TestDetectJSONQuery(t *testing.T) {
	r := setupRouter(&fakeScorer{result: fearResult()})

	resp := serve(r, httptest.NewRequest(http.MethodGet, "/api/emotion?text=boo", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"anger":0.2,"disgust":0.1,"fear":0.9,"joy":0.05,"sadness":0.3,"dominant_emotion":"fear"}`, resp.Body.String())
}

func TestDetectJSONBodyEmptyText(t *testing.T) {
	r := setupRouter(&fakeScorer{result: fearResult()})

	for _, body := range []string{`{}`, `{"text":null}`, `{"text":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/emotion", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp := serve(r, req)

		require.Equal(t, http.StatusOK, resp.Code, body)
		assert.JSONEq(t, `{"anger":null,"disgust":null,"fear":null,"joy":null,"sadness":null,"dominant_emotion":null}`, resp.Body.String())
	}
}

func TestDetectJSONBodyMalformed(t *testing.T) {
	r := setupRouter(&fakeScorer{result: fearResult()})

	req := httptest.NewRequest(http.MethodPost, "/api/emotion", bytes.NewReader([]byte(`{"text":`)))
	resp := serve(r, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStatusForError(t *testing.T) {
	timeout := &emotionservice.ProviderError{Kind: emotionservice.KindTimeout}
	transport := &emotionservice.ProviderError{Kind: emotionservice.KindTransport, Status: http.StatusServiceUnavailable}
	contract := &emotionservice.ProviderError{Kind: emotionservice.KindContract}

	assert.Equal(t, http.StatusGatewayTimeout, statusForError(timeout))
	assert.Equal(t, http.StatusBadGateway, statusForError(transport))
	assert.Equal(t, http.StatusBadGateway, statusForError(contract))
	assert.Equal(t, http.StatusInternalServerError, statusForError(errors.New("boom")))
}
