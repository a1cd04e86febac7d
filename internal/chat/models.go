package chat

import (
	"encoding/json"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

type SendMessageResponse struct {
	Response string `json:"response"`
	Mode     Mode   `json:"mode"`
	Command  string `json:"command,omitempty"`
}

type ChatHistoryItem struct {
	ID        uuid.UUID       `json:"id"`
	Message   string          `json:"message"`
	Response  string          `json:"response"`
	Context   json.RawMessage `json:"context_json"`
	CreatedAt time.Time       `json:"created_at"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func chatLogToDTO(log storage.ChatLog) ChatHistoryItem {
	ctxJSON := json.RawMessage("null")
	if len(log.Context) > 0 {
		ctxJSON = json.RawMessage(log.Context)
	}
	return ChatHistoryItem{
		ID:        log.ID,
		Message:   log.Message,
		Response:  log.Response,
		Context:   ctxJSON,
		CreatedAt: log.CreatedAt,
	}
}
