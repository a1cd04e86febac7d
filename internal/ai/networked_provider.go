package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-4"

	maxAttempts    = 2
	attemptTimeout = 10 * time.Second
	historyWindow  = 5
)

const (
	temperatureParseFood  = 0.3
	temperatureIngredient = 0.3
	temperatureInsight    = 0.5
	temperatureChat       = 0.7
)

const (
	nutritionExpertPrompt = "You are a nutrition expert. Always respond with valid JSON only."
	healthCoachPrompt     = "You are a health coach. Always respond with valid JSON only."
	chatSystemPrompt      = `You are a helpful health and wellness assistant.

IMPORTANT BOUNDARIES:
- Do NOT provide medical diagnoses
- Do NOT recommend specific medications
- Do NOT replace professional medical advice
- Always suggest consulting healthcare professionals for medical concerns

You CAN help with:
- General nutrition information
- Exercise guidance
- Wellness tips
- Interpreting health data trends
- Answering questions about healthy habits`
)

// errEmptyEnvelope marks a completion response without a usable choice.
var errEmptyEnvelope = errors.New("completion response does not contain choices")

type Logger interface {
	Printf(format string, v ...any)
}

// NetworkedProvider delegates generation to an OpenAI-compatible chat-completions endpoint.
type NetworkedProvider struct {
	apiKey    string
	endpoint  string
	model     string
	transport Transport
	logger    Logger
}

var _ Provider = (*NetworkedProvider)(nil)

type Option func(*NetworkedProvider)

func WithTransport(t Transport) Option {
	return func(p *NetworkedProvider) {
		if t != nil {
			p.transport = t
		}
	}
}

func WithEndpoint(url string) Option {
	return func(p *NetworkedProvider) {
		if strings.TrimSpace(url) != "" {
			p.endpoint = url
		}
	}
}

func WithModel(model string) Option {
	return func(p *NetworkedProvider) {
		if strings.TrimSpace(model) != "" {
			p.model = model
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(p *NetworkedProvider) {
		p.logger = logger
	}
}

func NewNetworkedProvider(apiKey string, opts ...Option) *NetworkedProvider {
	p := &NetworkedProvider{
		apiKey:    apiKey,
		endpoint:  DefaultEndpoint,
		model:     DefaultModel,
		transport: NewHTTPTransport(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *NetworkedProvider) ParseFood(ctx context.Context, text string, goal GoalType) (FoodParseResult, error) {
	text, err := requireText(OpParseFood, text)
	if err != nil {
		return FoodParseResult{}, err
	}

	prompt := fmt.Sprintf(`Parse the following food description into structured JSON. User goal: %s

Food description: %s

Return ONLY valid JSON in this exact format:
{
  "items": [
    {
      "name": "food name",
      "portion_assumption": "description of assumed portion",
      "portion_options": ["0.5x", "1x", "1.5x", "2x"],
      "kcal_min": 100,
      "kcal_max": 150,
      "notes": "estimation notes"
    }
  ],
  "total_kcal_min": 100,
  "total_kcal_max": 150,
  "cautions": "any warnings or notes"
}`, goal, text)

	req := p.jsonRequest(temperatureParseFood, []chatMessage{
		{Role: "system", Content: nutritionExpertPrompt},
		{Role: "user", Content: prompt},
	})
	result, err := generate(ctx, p, OpParseFood, req, decodeFoodParse)
	if err != nil {
		return FoodParseResult{}, err
	}
	return applyGoalCaution(result, goal), nil
}

func (p *NetworkedProvider) AnalyzeIngredient(ctx context.Context, text string, goal GoalType) (IngredientAnalyzeResult, error) {
	text, err := requireText(OpAnalyzeIngredient, text)
	if err != nil {
		return IngredientAnalyzeResult{}, err
	}

	prompt := fmt.Sprintf(`Analyze these ingredients for someone with goal: %s

Ingredients: %s

Return ONLY valid JSON in this exact format:
{
  "verdict": {
    "category": "recommend or caution or avoid",
    "reason": "brief explanation",
    "suggestions": ["suggestion 1", "suggestion 2"]
  },
  "details": "detailed analysis"
}`, goal, text)

	req := p.jsonRequest(temperatureIngredient, []chatMessage{
		{Role: "system", Content: nutritionExpertPrompt},
		{Role: "user", Content: prompt},
	})
	return generate(ctx, p, OpAnalyzeIngredient, req, decodeIngredient)
}

func (p *NetworkedProvider) GenerateInsight(ctx context.Context, in InsightRequest) (InsightData, error) {
	profile := in.Profile
	if profile == nil {
		profile = &UserProfileSummary{GoalType: GoalMaintain}
	}

	prompt := fmt.Sprintf(`Generate a daily health insight for %s.

User profile: %s
Food logs: %s
Workout logs: %s
Body logs: %s

Return ONLY valid JSON in this exact format:
{
  "gap_summary": "brief summary of progress vs goals",
  "reasons": ["reason 1", "reason 2"],
  "next_actions": ["action 1", "action 2"]
}`,
		in.Date.Format("2006-01-02"),
		mustJSON(profile),
		mustJSON(nonNilSlice(in.FoodLogs)),
		mustJSON(nonNilSlice(in.WorkoutLogs)),
		mustJSON(nonNilSlice(in.BodyLogs)),
	)

	req := p.jsonRequest(temperatureInsight, []chatMessage{
		{Role: "system", Content: healthCoachPrompt},
		{Role: "user", Content: prompt},
	})
	return generate(ctx, p, OpGenerateInsight, req, decodeInsight)
}

func (p *NetworkedProvider) Chat(ctx context.Context, in ChatRequest) (string, error) {
	message, err := requireText(OpChat, in.Message)
	if err != nil {
		return "", err
	}

	req := chatCompletionsRequest{
		Model:       p.model,
		Temperature: temperatureChat,
		Messages:    buildChatMessages(message, in),
	}
	return generate(ctx, p, OpChat, req, decodeChatReply)
}

// buildChatMessages orders the prompt as system, context, profile, the last five exchanges, then
// the current message.
func buildChatMessages(message string, in ChatRequest) []chatMessage {
	history := in.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	messages := make([]chatMessage, 0, 4+2*len(history))
	messages = append(messages, chatMessage{Role: "system", Content: chatSystemPrompt})
	if len(in.Context) > 0 {
		messages = append(messages, chatMessage{Role: "system", Content: "Context: " + mustJSON(in.Context)})
	}
	if in.Profile != nil {
		messages = append(messages, chatMessage{Role: "system", Content: "User profile: " + mustJSON(in.Profile)})
	}
	for _, exchange := range history {
		messages = append(messages,
			chatMessage{Role: "user", Content: exchange.Message},
			chatMessage{Role: "assistant", Content: exchange.Response},
		)
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})
	return messages
}

func (p *NetworkedProvider) jsonRequest(temperature float64, messages []chatMessage) chatCompletionsRequest {
	return chatCompletionsRequest{
		Model:          p.model,
		Temperature:    temperature,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
}

// generate runs at most maxAttempts round trips. Transport and envelope failures move on to the
// next attempt; a contract failure ends the call at once.
func generate[T any](ctx context.Context, p *NetworkedProvider, op string, req chatCompletionsRequest, decode func(string) decodeResult[T]) (T, error) {
	var zero T

	body, err := json.Marshal(req)
	if err != nil {
		return zero, &GenerationError{Op: op, Cause: err}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, &GenerationError{Op: op, Attempts: attempt - 1, Cause: err}
		}

		content, err := p.roundTrip(ctx, body)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return zero, &GenerationError{Op: op, Attempts: attempt, Cause: ctx.Err()}
			}
			p.logf("WARN ai: %s attempt %d/%d failed: %v", op, attempt, maxAttempts, err)
			continue
		}

		res := decode(content)
		if res.Err != nil {
			p.logf("WARN ai: %s returned malformed output: %v", op, res.Err)
			return zero, &GenerationError{Op: op, Attempts: attempt, Cause: res.Err}
		}
		return res.Value, nil
	}

	return zero, &GenerationError{Op: op, Attempts: maxAttempts, Cause: lastErr}
}

func (p *NetworkedProvider) roundTrip(ctx context.Context, body []byte) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	raw, err := p.transport.Post(attemptCtx, p.endpoint, p.apiKey, body)
	if err != nil {
		return "", err
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode completion envelope: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errEmptyEnvelope
	}
	return parsed.Choices[0].Message.Content, nil
}

func (p *NetworkedProvider) logf(format string, v ...any) {
	if p.logger != nil {
		p.logger.Printf(format, v...)
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type chatCompletionsRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
