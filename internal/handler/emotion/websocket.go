package emotion

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

// WebSocketHandler 通过 WebSocket 连续分析文本
type WebSocketHandler struct {
	scorer   Scorer
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(scorer Scorer, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		scorer: scorer,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/emotion", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

// TextMessage 待分析的文本
type TextMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type         string      `json:"type"`
	ConnectionID string      `json:"connectionId"`
	ID           string      `json:"id,omitempty"`
	Data         interface{} `json:"data,omitempty"`
	Timestamp    int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("[websocket] upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.logger.With(slog.String("connection_id", connID))
	logger.Info("[websocket] connection opened")
	defer logger.Info("[websocket] connection closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	pingDone := make(chan struct{})
	go func() {
		defer close(pingDone)
		pingLoop(ctx, conn)
	}()
	defer func() {
		cancel()
		<-pingDone
	}()

	h.send(conn, logger, outgoingMessage{
		Type:         "connected",
		ConnectionID: connID,
		Data:         map[string]string{"provider": h.scorer.ProviderName()},
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("[websocket] read error", slog.String("error", err.Error()))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		h.send(conn, logger, h.handleMessage(ctx, logger, connID, &msg))
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, logger *slog.Logger, connID string, msg *inboundMessage) outgoingMessage {
	reply := outgoingMessage{ConnectionID: connID, ID: msg.ID}

	if msg.Type != "text" {
		return errorReply(reply, "unsupported message type: "+msg.Type)
	}

	var text TextMessage
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			return errorReply(reply, "invalid text payload")
		}
	}

	result, err := h.scorer.Score(ctx, text.Text)
	if err != nil {
		logger.ErrorContext(ctx, "[websocket] scoring failed", slog.String("error", err.Error()))
		return errorReply(reply, errorMessage(err))
	}

	reply.Type = "result"
	reply.Data = result
	return reply
}

func errorReply(reply outgoingMessage, message string) outgoingMessage {
	reply.Type = "error"
	reply.Data = map[string]string{"message": message}
	return reply
}

func (h *WebSocketHandler) send(conn *websocket.Conn, logger *slog.Logger, msg outgoingMessage) {
	msg.Timestamp = time.Now().Unix()
	if err := conn.WriteJSON(msg); err != nil {
		logger.Warn("[websocket] write failed", slog.String("type", msg.Type), slog.String("error", err.Error()))
	}
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
