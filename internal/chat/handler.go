package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tool-advisor/internal/actions"
	"tool-advisor/internal/advisor"
	"tool-advisor/internal/shared/server/middleware"
	"tool-advisor/internal/shared/server/respond"
	"tool-advisor/internal/shared/telemetry"
)

const (
	maxFrameBytes = 16 << 10
	idleTimeout   = 5 * time.Minute
	writeTimeout  = 10 * time.Second
)

// Responder answers one support-chat turn.
type Responder interface {
	Chat(ctx context.Context, history []advisor.ChatMessage, message string) (actions.Result[advisor.ChatReply], error)
}

type Handler struct {
	Svc            Responder
	AllowedOrigins []string
}

func NewHandler(svc Responder, allowedOrigins []string) *Handler {
	return &Handler{Svc: svc, AllowedOrigins: allowedOrigins}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.post)
	rg.GET("/chat/ws", h.stream)
}

type chatRequest struct {
	History []advisor.ChatMessage `json:"history"`
	Message string                `json:"message"`
}

func (h *Handler) post(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	c.Set(middleware.OperationKey, advisor.OpChat)
	res, err := h.Svc.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		actions.RespondError(c, err)
		return
	}
	respond.OK(c, res)
}

// Frame is one server-to-client message on the chat socket.
type Frame struct {
	Type     string             `json:"type"`
	Reply    string             `json:"reply,omitempty"`
	Fallback bool               `json:"fallback,omitempty"`
	Notice   string             `json:"notice,omitempty"`
	Error    *respond.ErrorBody `json:"error,omitempty"`
}

type inbound struct {
	Message string `json:"message"`
}

// stream serves the chat over a websocket: each inbound {"message"} frame gets one reply
// frame, and the conversation history is kept server-side for the life of the socket.
func (h *Handler) stream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout: 5 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		telemetry.Warn("chat.ws_upgrade_failed", telemetry.ContextFields(c.Request.Context(), map[string]any{
			"error": err.Error(),
		}))
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	conn.SetReadLimit(maxFrameBytes)
	telemetry.Info("chat.ws_connected", telemetry.ContextFields(ctx, nil))

	var history []advisor.ChatMessage
	turns := 0
	for {
		_ = conn.SetReadDeadline(time.Now().Add(idleTimeout))
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if !isDecodeError(err) {
				break
			}
			if werr := writeFrame(conn, Frame{Type: "error", Error: &respond.ErrorBody{Code: "validation_error", Message: "invalid JSON frame"}}); werr != nil {
				break
			}
			continue
		}

		res, err := h.Svc.Chat(ctx, history, msg.Message)
		if err != nil {
			if werr := writeFrame(conn, errorFrame(err)); werr != nil {
				break
			}
			continue
		}
		turns++
		history = appendTurn(history, msg.Message, res.Data.Reply)
		if werr := writeFrame(conn, Frame{Type: "reply", Reply: res.Data.Reply, Fallback: res.Fallback, Notice: res.Notice}); werr != nil {
			break
		}
	}
	telemetry.Info("chat.ws_closed", telemetry.ContextFields(ctx, map[string]any{"turns": turns}))
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" || len(h.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.AllowedOrigins {
		if strings.EqualFold(origin, strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}

// isDecodeError reports a malformed frame, after which the socket is still usable.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func errorFrame(err error) Frame {
	var verr *advisor.ValidationError
	if errors.As(err, &verr) {
		return Frame{Type: "error", Error: &respond.ErrorBody{Code: "validation_error", Message: verr.Error(), Details: verr.Fields}}
	}
	return Frame{Type: "error", Error: &respond.ErrorBody{Code: "internal", Message: "Unexpected server error"}}
}

// appendTurn records a completed exchange, keeping at most MaxChatHistory messages.
func appendTurn(history []advisor.ChatMessage, message, reply string) []advisor.ChatMessage {
	history = append(history,
		advisor.ChatMessage{Role: "user", Text: strings.TrimSpace(message)},
		advisor.ChatMessage{Role: "assistant", Text: reply},
	)
	if len(history) > advisor.MaxChatHistory {
		history = append([]advisor.ChatMessage(nil), history[len(history)-advisor.MaxChatHistory:]...)
	}
	return history
}

func writeFrame(conn *websocket.Conn, f Frame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(f)
}
