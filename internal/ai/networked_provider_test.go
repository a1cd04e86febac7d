package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransport replays one step per call and records every request body.
type scriptedTransport struct {
	mu     sync.Mutex
	steps  []func(ctx context.Context) ([]byte, error)
	bodies [][]byte
}

func (s *scriptedTransport) Post(ctx context.Context, url, apiKey string, body []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bodies = append(s.bodies, body)
	idx := len(s.bodies) - 1
	if idx >= len(s.steps) {
		return nil, fmt.Errorf("unexpected call %d", idx+1)
	}
	return s.steps[idx](ctx)
}

func (s *scriptedTransport) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

func (s *scriptedTransport) request(t *testing.T, i int) chatCompletionsRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	var req chatCompletionsRequest
	require.NoError(t, json.Unmarshal(s.bodies[i], &req))
	return req
}

func completion(content string) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) {
		return json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func failure(err error) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) {
		return nil, err
	}
}

func newTestProvider(steps ...func(context.Context) ([]byte, error)) (*NetworkedProvider, *scriptedTransport) {
	transport := &scriptedTransport{steps: steps}
	return NewNetworkedProvider("sk-test", WithTransport(transport)), transport
}

const eggParse = `{"items":[{"name":"egg","portion_assumption":"1 egg","portion_options":["1x"],"kcal_min":60,"kcal_max":80,"notes":""}],"total_kcal_min":60,"total_kcal_max":80,"cautions":""}`

func TestNetworkedParseFood_RetriesOnceAfterTransportFailure(t *testing.T) {
	p, transport := newTestProvider(
		failure(errors.New("connection reset")),
		completion(eggParse),
	)

	result, err := p.ParseFood(context.Background(), "one egg", GoalMaintain)
	require.NoError(t, err)
	assert.Equal(t, 2, transport.calls())
	require.Len(t, result.Items, 1)
	assert.Equal(t, 80, result.TotalKcalMax)
}

func TestNetworkedParseFood_GivesUpAfterTwoAttempts(t *testing.T) {
	p, transport := newTestProvider(
		failure(&StatusError{StatusCode: http.StatusServiceUnavailable}),
		failure(&StatusError{StatusCode: http.StatusBadGateway}),
	)

	_, err := p.ParseFood(context.Background(), "one egg", GoalMaintain)
	require.Error(t, err)
	assert.Equal(t, 2, transport.calls())
	assert.True(t, errors.Is(err, ErrGeneration))

	genErr, ok := AsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, OpParseFood, genErr.Op)
	assert.Equal(t, 2, genErr.Attempts)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestNetworkedParseFood_EmptyEnvelopeIsRetried(t *testing.T) {
	p, transport := newTestProvider(
		func(context.Context) ([]byte, error) { return []byte(`{"choices":[]}`), nil },
		completion(eggParse),
	)

	_, err := p.ParseFood(context.Background(), "egg", GoalMaintain)
	require.NoError(t, err)
	assert.Equal(t, 2, transport.calls())
}

func TestNetworkedParseFood_MalformedOutputIsNotRetried(t *testing.T) {
	p, transport := newTestProvider(
		completion("You ate roughly 70 calories."),
		completion(eggParse),
	)

	_, err := p.ParseFood(context.Background(), "egg", GoalMaintain)
	require.Error(t, err)
	assert.Equal(t, 1, transport.calls())
	assert.True(t, errors.Is(err, ErrGeneration))
	assert.True(t, errors.Is(err, errMalformedOutput))
}

func TestNetworkedParseFood_RequestShape(t *testing.T) {
	p, transport := newTestProvider(completion("```json\n" + eggParse + "\n```"))

	_, err := p.ParseFood(context.Background(), "  egg  ", GoalCut)
	require.NoError(t, err)

	req := transport.request(t, 0)
	assert.Equal(t, DefaultModel, req.Model)
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, "json_object", req.ResponseFormat.Type)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, nutritionExpertPrompt, req.Messages[0].Content)
	assert.Contains(t, req.Messages[1].Content, "Food description: egg")
	assert.Contains(t, req.Messages[1].Content, "User goal: cut")
}

func TestNetworkedParseFood_BlankTextSkipsTransport(t *testing.T) {
	p, transport := newTestProvider()

	_, err := p.ParseFood(context.Background(), "\n", GoalMaintain)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, 0, transport.calls())
}

func TestNetworkedAnalyzeIngredient_MapsAlias(t *testing.T) {
	p, transport := newTestProvider(completion(
		`{"verdict":{"category":"不推荐","reason":"High sugar","suggestions":["Pick unsweetened"]},"details":"Sugar is the first ingredient"}`,
	))

	result, err := p.AnalyzeIngredient(context.Background(), "白砂糖, 水", GoalCut)
	require.NoError(t, err)
	assert.Equal(t, VerdictAvoid, result.Verdict.Category)
	assert.Equal(t, []string{"Pick unsweetened"}, result.Verdict.Suggestions)

	req := transport.request(t, 0)
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)
}

func TestNetworkedGenerateInsight(t *testing.T) {
	p, transport := newTestProvider(completion(
		`{"gap_summary":"Slightly under target","reasons":["Low breakfast"],"next_actions":["Add a snack"]}`,
	))

	result, err := p.GenerateInsight(context.Background(), InsightRequest{
		Date:     time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		FoodLogs: []FoodLogSummary{{RawInput: "rice", TotalKcalMin: 150, TotalKcalMax: 200}},
		Profile:  &UserProfileSummary{GoalType: GoalCut, HeightCM: 170, StartWeightKG: 70, ActivityLevel: ActivityLight},
	})
	require.NoError(t, err)
	assert.Equal(t, "Slightly under target", result.GapSummary)

	req := transport.request(t, 0)
	assert.InDelta(t, 0.5, req.Temperature, 1e-9)
	assert.Equal(t, healthCoachPrompt, req.Messages[0].Content)
	assert.Contains(t, req.Messages[1].Content, "Generate a daily health insight for 2024-03-09.")
	assert.Contains(t, req.Messages[1].Content, `"goal_type":"cut"`)
	assert.Contains(t, req.Messages[1].Content, "Workout logs: []")
}

func TestNetworkedChat_PromptLayout(t *testing.T) {
	p, transport := newTestProvider(completion("Try adding some eggs to breakfast."))

	history := make([]ChatExchange, 0, 8)
	for i := 1; i <= 8; i++ {
		history = append(history, ChatExchange{
			Message:  fmt.Sprintf("q%d", i),
			Response: fmt.Sprintf("a%d", i),
		})
	}

	reply, err := p.Chat(context.Background(), ChatRequest{
		Message: "What should I eat?",
		Context: map[string]any{"screen": "today"},
		History: history,
		Profile: &UserProfileSummary{GoalType: GoalBulk},
	})
	require.NoError(t, err)
	assert.Equal(t, "Try adding some eggs to breakfast.", reply)

	req := transport.request(t, 0)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Nil(t, req.ResponseFormat)

	// system, context, profile, 5 exchanges, current message
	require.Len(t, req.Messages, 3+10+1)
	assert.Equal(t, chatSystemPrompt, req.Messages[0].Content)
	assert.Equal(t, `Context: {"screen":"today"}`, req.Messages[1].Content)
	assert.Contains(t, req.Messages[2].Content, "User profile: ")
	assert.Equal(t, "q4", req.Messages[3].Content)
	assert.Equal(t, "user", req.Messages[3].Role)
	assert.Equal(t, "a4", req.Messages[4].Content)
	assert.Equal(t, "assistant", req.Messages[4].Role)
	assert.Equal(t, "a8", req.Messages[12].Content)
	assert.Equal(t, "What should I eat?", req.Messages[13].Content)

	assert.Len(t, history, 8, "caller history is not modified")
}

func TestNetworkedChat_EmptyReplyFails(t *testing.T) {
	p, transport := newTestProvider(completion("   "))

	_, err := p.Chat(context.Background(), ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGeneration))
	assert.Equal(t, 1, transport.calls())
}

func TestNetworkedProvider_CallerCancellation(t *testing.T) {
	t.Run("already cancelled", func(t *testing.T) {
		p, transport := newTestProvider(completion(eggParse))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.ParseFood(ctx, "egg", GoalMaintain)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.True(t, errors.Is(err, ErrGeneration))
		assert.Equal(t, 0, transport.calls())
	})

	t.Run("cancelled during attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		p, transport := newTestProvider(
			func(attemptCtx context.Context) ([]byte, error) {
				cancel()
				<-attemptCtx.Done()
				return nil, attemptCtx.Err()
			},
			completion(eggParse),
		)

		_, err := p.ParseFood(ctx, "egg", GoalMaintain)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, transport.calls())
	})
}

func TestNetworkedProvider_AttemptHasDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	p, _ := newTestProvider(func(ctx context.Context) ([]byte, error) {
		deadline, ok = ctx.Deadline()
		return completion(eggParse)(ctx)
	})

	start := time.Now()
	_, err := p.ParseFood(context.Background(), "egg", GoalMaintain)
	require.NoError(t, err)
	require.True(t, ok)
	assert.WithinDuration(t, start.Add(attemptTimeout), deadline, 2*time.Second)
}

func TestHTTPTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limited"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.Client())

	body, err := transport.Post(context.Background(), server.URL+"/ok", "sk-test", []byte(`{}`))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"content":"ok"`)

	_, err = transport.Post(context.Background(), server.URL+"/fail", "sk-test", []byte(`{}`))
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "rate limited")
}

func TestNetworkedProvider_EndToEndOverHTTP(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Stay hydrated."}}]}`))
	}))
	defer server.Close()

	p := NewNetworkedProvider("sk-test",
		WithEndpoint(server.URL),
		WithTransport(NewHTTPTransport(server.Client())),
	)

	reply, err := p.Chat(context.Background(), ChatRequest{Message: "tips?"})
	require.NoError(t, err)
	assert.Equal(t, "Stay hydrated.", reply)
	assert.Equal(t, 2, calls)
}

func TestNetworkedParseFood_CutGoalGetsCaution(t *testing.T) {
	const heavy = `{"items":[{"name":"fried rice","kcal_min":700,"kcal_max":900}],"cautions":""}`

	p, _ := newTestProvider(completion(heavy))
	result, err := p.ParseFood(context.Background(), "big plate of fried rice", GoalCut)
	require.NoError(t, err)
	assert.Equal(t, 900, result.TotalKcalMax)
	assert.Equal(t, cutCaution, result.Cautions)

	p, _ = newTestProvider(completion(heavy))
	result, err = p.ParseFood(context.Background(), "big plate of fried rice", GoalMaintain)
	require.NoError(t, err)
	assert.Empty(t, result.Cautions)
}

func TestNetworkedParseFood_ModelCautionIsKept(t *testing.T) {
	p, _ := newTestProvider(completion(`{"items":[{"name":"cake","kcal_min":600,"kcal_max":800}],"cautions":"Very sweet"}`))

	result, err := p.ParseFood(context.Background(), "cake", GoalCut)
	require.NoError(t, err)
	assert.Equal(t, "Very sweet", result.Cautions)
}
