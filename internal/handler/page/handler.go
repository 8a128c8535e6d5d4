package page

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/russross/blackfriday/v2"

	"github.com/zhouzirui/emotion-detector/backend/pkg/utils"
)

//go:embed index.md
var indexMarkdown []byte

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Emotion Detector</title>
</head>
<body>
`

const pageForm = `<form action="/emotionDetector" method="get">
<input type="text" name="textToAnalyze" placeholder="Text to analyze" size="60">
<button type="submit">Run Sentiment Analysis</button>
</form>
</body>
</html>
`

// Handler 渲染首页
type Handler struct {
	body []byte
}

// New 预先渲染首页 HTML
func New() *Handler {
	html := blackfriday.Run(indexMarkdown, blackfriday.WithExtensions(blackfriday.CommonExtensions))

	body := make([]byte, 0, len(pageHead)+len(html)+len(pageForm))
	body = append(body, pageHead...)
	body = append(body, html...)
	body = append(body, pageForm...)
	return &Handler{body: body}
}

// RegisterRoutes 注册首页路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	utils.RespondHTML(w, http.StatusOK, h.body)
}
