package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/userctx"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")
	ErrAIFailed       = errors.New("ai failed")
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	maxMessageLength    = 4000
)

type profileSummaries interface {
	Summary(ctx context.Context, userID string) (*ai.UserProfileSummary, error)
}

type Service struct {
	router   *Router
	chatLogs storage.ChatLogsStorage
	profiles profileSummaries
	now      func() time.Time
}

func NewService(router *Router, chatLogs storage.ChatLogsStorage, profiles profileSummaries) *Service {
	return &Service{
		router:   router,
		chatLogs: chatLogs,
		profiles: profiles,
		now:      time.Now,
	}
}

// SendMessage routes one turn and records it as a ChatLog. Failed turns are not recorded.
func (s *Service) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	message := strings.TrimSpace(req.Message)
	if message == "" || len(message) > maxMessageLength {
		return nil, ErrInvalidRequest
	}

	profile, err := s.profiles.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := s.router.Route(ctx, Turn{
		UserID:  userID,
		Message: message,
		Context: req.Context,
		Profile: profile,
		Today:   s.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrValidation):
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		case errors.Is(err, ai.ErrGeneration):
			log.Printf("WARN chat: user=%s mode=%s: %v", userID, modeOf(message), err)
			return nil, fmt.Errorf("%w: %v", ErrAIFailed, err)
		default:
			return nil, err
		}
	}

	var contextJSON []byte
	if len(req.Context) > 0 {
		contextJSON, err = json.Marshal(req.Context)
		if err != nil {
			return nil, fmt.Errorf("%w: context is not serializable", ErrInvalidRequest)
		}
	}

	if err := s.chatLogs.CreateChatLog(ctx, &storage.ChatLog{
		UserID:   userID,
		Message:  message,
		Response: reply.Text,
		Context:  contextJSON,
	}); err != nil {
		return nil, err
	}

	return &SendMessageResponse{
		Response: reply.Text,
		Mode:     reply.Mode,
		Command:  reply.Command,
	}, nil
}

func (s *Service) ListHistory(ctx context.Context, limit int) ([]ChatHistoryItem, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	rows, err := s.chatLogs.ListChatLogs(ctx, userID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}

	items := make([]ChatHistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, chatLogToDTO(row))
	}
	return items, nil
}

func modeOf(message string) Mode {
	if _, ok := ParseCommand(message); ok {
		return ModeCommand
	}
	return ModeFreeform
}

func userIDFromContext(ctx context.Context) string {
	userID, ok := userctx.GetUserID(ctx)
	if !ok {
		return ""
	}
	return strings.TrimSpace(userID)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
