package chat

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/insights"
	"github.com/fdg312/health-assistant/internal/storage"
)

type Mode string

const (
	ModeCommand  Mode = "command"
	ModeFreeform Mode = "freeform"
)

const (
	commandPrefix = "/"
	// historyLimit is how many prior exchanges a freeform turn sees.
	historyLimit = 10
)

// Command is a parsed slash command. Name is lower-cased and keeps its prefix.
type Command struct {
	Name    string
	Args    string
	HasArgs bool
}

// ParseCommand reports whether message is a command and splits it into name and argument.
func ParseCommand(message string) (Command, bool) {
	trimmed := strings.TrimSpace(message)
	if !strings.HasPrefix(trimmed, commandPrefix) {
		return Command{}, false
	}

	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		return Command{Name: strings.ToLower(trimmed)}, true
	}

	return Command{
		Name:    strings.ToLower(trimmed[:idx]),
		Args:    strings.TrimLeftFunc(trimmed[idx:], unicode.IsSpace),
		HasArgs: true,
	}, true
}

// RecordStore is what the router reads. It never writes.
type RecordStore interface {
	insights.DayReader
	ListChatLogs(ctx context.Context, userID string, limit int) ([]storage.ChatLog, error)
}

// Turn is one inbound chat message with the caller's identity.
type Turn struct {
	UserID  string
	Message string
	Context map[string]any
	Profile *ai.UserProfileSummary
	Today   time.Time
}

type Reply struct {
	Mode    Mode
	Command string
	Text    string
}

type commandHandler func(ctx context.Context, turn Turn, cmd Command) (string, error)

type command struct {
	name        string
	description string
	run         commandHandler
}

// Router decides per message between a command handler and freeform chat.
type Router struct {
	provider ai.Provider
	store    RecordStore
	commands []command
}

func NewRouter(provider ai.Provider, store RecordStore) *Router {
	r := &Router{
		provider: provider,
		store:    store,
	}
	r.commands = []command{
		{name: "/analyze_today", description: "分析今日饮食摄入情况", run: r.analyzeToday},
		{name: "/ingredient", description: "分析配料表 (用法: /ingredient <配料文本>)", run: r.ingredient},
		{name: "/insight", description: "生成今日健康洞察", run: r.insight},
		{name: "/help", description: "显示可用命令", run: r.help},
	}
	return r
}

// Route produces the reply for one turn. Provider failures are returned unchanged.
func (r *Router) Route(ctx context.Context, turn Turn) (Reply, error) {
	if cmd, ok := ParseCommand(turn.Message); ok {
		for _, c := range r.commands {
			if c.name == cmd.Name {
				text, err := c.run(ctx, turn, cmd)
				if err != nil {
					return Reply{}, err
				}
				return Reply{Mode: ModeCommand, Command: cmd.Name, Text: text}, nil
			}
		}
		return Reply{Mode: ModeCommand, Command: cmd.Name, Text: r.unknownCommandText()}, nil
	}

	text, err := r.freeform(ctx, turn)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Mode: ModeFreeform, Text: text}, nil
}

func (r *Router) freeform(ctx context.Context, turn Turn) (string, error) {
	logs, err := r.store.ListChatLogs(ctx, turn.UserID, historyLimit)
	if err != nil {
		return "", err
	}

	// Store order is newest first; providers expect chronological.
	history := make([]ai.ChatExchange, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		history = append(history, ai.ChatExchange{
			Message:  logs[i].Message,
			Response: logs[i].Response,
		})
	}

	return r.provider.Chat(ctx, ai.ChatRequest{
		Message: turn.Message,
		Context: turn.Context,
		History: history,
		Profile: turn.Profile,
	})
}
