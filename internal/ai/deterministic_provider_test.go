package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicParseFood_SingleEgg(t *testing.T) {
	p := NewDeterministicProvider()

	result, err := p.ParseFood(context.Background(), "鸡蛋", GoalMaintain)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "鸡蛋", result.Items[0].Name)
	assert.Equal(t, 60, result.Items[0].KcalMin)
	assert.Equal(t, 80, result.Items[0].KcalMax)
	assert.Equal(t, "1x medium egg ~50g", result.Items[0].PortionAssumption)
	assert.Equal(t, []string{"0.5x", "1x", "1.5x", "2x"}, result.Items[0].PortionOptions)
	assert.Equal(t, 60, result.TotalKcalMin)
	assert.Equal(t, 80, result.TotalKcalMax)
	assert.Empty(t, result.Cautions)
}

func TestDeterministicParseFood_Quantity(t *testing.T) {
	p := NewDeterministicProvider()

	tests := []struct {
		name    string
		text    string
		wantMin int
		wantMax int
	}{
		{name: "digit token", text: "2 鸡蛋", wantMin: 120, wantMax: 160},
		{name: "quantity word", text: "两个 鸡蛋", wantMin: 120, wantMax: 160},
		{name: "english", text: "3 Eggs", wantMin: 180, wantMax: 240},
		{name: "no quantity", text: "一碗 米饭", wantMin: 150, wantMax: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseFood(context.Background(), tt.text, GoalMaintain)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, result.TotalKcalMin)
			assert.Equal(t, tt.wantMax, result.TotalKcalMax)
		})
	}
}

func TestDeterministicParseFood_HugeQuantityIsClamped(t *testing.T) {
	p := NewDeterministicProvider()

	for _, text := range []string{"131762457080000000 egg", "99999999999999999999999 鸡蛋", "21 eggs"} {
		result, err := p.ParseFood(context.Background(), text, GoalMaintain)
		require.NoError(t, err, text)
		require.NotEmpty(t, result.Items, text)
		for _, item := range result.Items {
			assert.GreaterOrEqual(t, item.KcalMin, 0, text)
			assert.LessOrEqual(t, item.KcalMin, item.KcalMax, text)
		}
		assert.Equal(t, maxQuantity*80, result.TotalKcalMax, text)
	}
}

func TestDeterministicParseFood_UnknownFoodFallsBack(t *testing.T) {
	p := NewDeterministicProvider()

	result, err := p.ParseFood(context.Background(), "a slice of pizza", GoalCut)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Mixed meal", result.Items[0].Name)
	assert.Equal(t, "1 serving", result.Items[0].PortionAssumption)
	assert.Equal(t, 200, result.TotalKcalMin)
	assert.Equal(t, 400, result.TotalKcalMax)
	assert.Empty(t, result.Cautions, "400 kcal stays under the cut threshold")
}

func TestDeterministicParseFood_CutCaution(t *testing.T) {
	p := NewDeterministicProvider()

	result, err := p.ParseFood(context.Background(), "米饭 牛肉 面包", GoalCut)
	require.NoError(t, err)
	assert.Equal(t, 550, result.TotalKcalMin)
	assert.Equal(t, 750, result.TotalKcalMax)
	assert.Equal(t, "High calorie meal for weight loss goal. Consider smaller portions.", result.Cautions)

	result, err = p.ParseFood(context.Background(), "米饭 牛肉 面包", GoalBulk)
	require.NoError(t, err)
	assert.Empty(t, result.Cautions)
}

func TestDeterministicParseFood_TotalsMatchItems(t *testing.T) {
	p := NewDeterministicProvider()

	for _, text := range []string{"鸡蛋 苹果", "2 香蕉 牛奶", "rice and beef", "酸奶", "something else"} {
		result, err := p.ParseFood(context.Background(), text, GoalMaintain)
		require.NoError(t, err)

		sumMin, sumMax := 0, 0
		for _, item := range result.Items {
			assert.LessOrEqual(t, item.KcalMin, item.KcalMax)
			assert.GreaterOrEqual(t, item.KcalMin, 0)
			sumMin += item.KcalMin
			sumMax += item.KcalMax
		}
		assert.Equal(t, sumMin, result.TotalKcalMin, text)
		assert.Equal(t, sumMax, result.TotalKcalMax, text)
	}
}

func TestDeterministicParseFood_RejectsBlankText(t *testing.T) {
	p := NewDeterministicProvider()

	_, err := p.ParseFood(context.Background(), "   ", GoalMaintain)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDeterministicAnalyzeIngredient(t *testing.T) {
	p := NewDeterministicProvider()

	tests := []struct {
		name       string
		text       string
		want       VerdictCategory
		wantReason string
	}{
		{
			name:       "unfavorable keywords",
			text:       "水, 白砂糖, 食用盐, 柠檬酸",
			want:       VerdictCaution,
			wantReason: "Contains ingredients that may not align with your health goals",
		},
		{
			name:       "favorable keywords",
			text:       "乳清蛋白, 膳食纤维",
			want:       VerdictRecommend,
			wantReason: "Contains beneficial nutrients aligned with your goals",
		},
		{
			name:       "nothing recognized",
			text:       "水",
			want:       VerdictCaution,
			wantReason: "Unable to determine nutritional value from ingredients",
		},
		{
			name:       "tie prefers recommend",
			text:       "Sugar, Protein",
			want:       VerdictRecommend,
			wantReason: "Contains beneficial nutrients aligned with your goals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.AnalyzeIngredient(context.Background(), tt.text, GoalCut)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Verdict.Category)
			assert.Equal(t, tt.wantReason, result.Verdict.Reason)
			assert.Len(t, result.Verdict.Suggestions, 2)
			assert.Equal(t, "Analysis based on ingredient keywords. Goal: cut", result.Details)
		})
	}
}

func TestDeterministicAnalyzeIngredient_NeverAvoids(t *testing.T) {
	p := NewDeterministicProvider()

	inputs := []string{
		"糖 油 盐 添加剂",
		"sugar oil salt additive, more sugar",
		"蛋白 纤维 维生素",
		"water",
		"糖",
	}
	for _, text := range inputs {
		result, err := p.AnalyzeIngredient(context.Background(), text, GoalMaintain)
		require.NoError(t, err)
		assert.NotEqual(t, VerdictAvoid, result.Verdict.Category, text)
	}
}

func TestDeterministicGenerateInsight_Bands(t *testing.T) {
	p := NewDeterministicProvider()

	t.Run("near target with exercise", func(t *testing.T) {
		result, err := p.GenerateInsight(context.Background(), InsightRequest{
			FoodLogs:    []FoodLogSummary{{TotalKcalMin: 1500, TotalKcalMax: 2100}},
			WorkoutLogs: []WorkoutLogSummary{{WorkoutType: "run", DurationMinutes: 30}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Great job! You're on track with your maintain goal.", result.GapSummary)
		assert.Equal(t, []string{"Consumed ~2100 kcal (target: 2200)", "Completed 30 minutes of exercise"}, result.Reasons)
		assert.Equal(t, []string{"Keep up the good work!", "Stay consistent tomorrow"}, result.NextActions)
	})

	t.Run("near target without exercise", func(t *testing.T) {
		result, err := p.GenerateInsight(context.Background(), InsightRequest{
			FoodLogs: []FoodLogSummary{{TotalKcalMax: 2300}},
		})
		require.NoError(t, err)
		assert.Equal(t, "No exercise logged today", result.Reasons[1])
	})

	t.Run("below target", func(t *testing.T) {
		result, err := p.GenerateInsight(context.Background(), InsightRequest{
			FoodLogs: []FoodLogSummary{{TotalKcalMax: 600}, {TotalKcalMax: 400}},
			Profile:  &UserProfileSummary{GoalType: GoalCut},
		})
		require.NoError(t, err)
		assert.Equal(t, "You're 800 kcal below your target for cut.", result.GapSummary)
		assert.Equal(t, "Only consumed 1000 kcal (target: 1800)", result.Reasons[0])
		assert.Equal(t, []string{"Add a protein-rich snack", "Consider a balanced meal to reach target"}, result.NextActions)
	})

	t.Run("above target", func(t *testing.T) {
		result, err := p.GenerateInsight(context.Background(), InsightRequest{
			FoodLogs: []FoodLogSummary{{TotalKcalMax: 3200}},
			Profile:  &UserProfileSummary{GoalType: GoalBulk},
		})
		require.NoError(t, err)
		assert.Equal(t, "You're 400 kcal above your target for bulk.", result.GapSummary)
		assert.Equal(t, "Consumed 3200 kcal (target: 2800)", result.Reasons[0])
		assert.Equal(t, []string{"Adjust portions tomorrow", "Increase physical activity"}, result.NextActions)
	})

	t.Run("boundary is outside the near band", func(t *testing.T) {
		result, err := p.GenerateInsight(context.Background(), InsightRequest{
			FoodLogs: []FoodLogSummary{{TotalKcalMax: 2000}},
		})
		require.NoError(t, err)
		assert.Equal(t, "You're 200 kcal below your target for maintain.", result.GapSummary)
	})
}

func TestDeterministicChat_Buckets(t *testing.T) {
	p := NewDeterministicProvider()

	proteinReply := "Aim for 1.6-2.2g of protein per kg of body weight for muscle building, or 1.2-1.6g for general health. Good sources include chicken, fish, eggs, tofu, and legumes."
	for _, msg := range []string{"protein intake?", "PROTEIN intake?", "Protein Intake?", "我需要多少蛋白质"} {
		reply, err := p.Chat(context.Background(), ChatRequest{Message: msg})
		require.NoError(t, err)
		assert.Equal(t, proteinReply, reply, msg)
	}

	reply, err := p.Chat(context.Background(), ChatRequest{Message: "你好"})
	require.NoError(t, err)
	assert.Equal(t, "Hello! I'm your health assistant. How can I help you today?", reply)

	reply, err = p.Chat(context.Background(), ChatRequest{Message: "体重 trend"})
	require.NoError(t, err)
	assert.Contains(t, reply, "0.5-1kg per week")
}

func TestDeterministicChat_DefaultEchoesMessage(t *testing.T) {
	p := NewDeterministicProvider()

	reply, err := p.Chat(context.Background(), ChatRequest{Message: "sleep quality"})
	require.NoError(t, err)
	assert.Contains(t, reply, "I understand you're asking about: 'sleep quality'.")
	assert.Contains(t, reply, "I cannot provide medical diagnoses")
}

func TestDeterministicResults_SurviveContractDecoding(t *testing.T) {
	p := NewDeterministicProvider()

	parsed, err := p.ParseFood(context.Background(), "鸡蛋 牛奶", GoalMaintain)
	require.NoError(t, err)
	raw, err := json.Marshal(parsed)
	require.NoError(t, err)
	decoded := decodeFoodParse(string(raw))
	require.NoError(t, decoded.Err)
	assert.Equal(t, parsed, decoded.Value)

	analysis, err := p.AnalyzeIngredient(context.Background(), "维生素C", GoalGain)
	require.NoError(t, err)
	raw, err = json.Marshal(analysis)
	require.NoError(t, err)
	decodedAnalysis := decodeIngredient(string(raw))
	require.NoError(t, decodedAnalysis.Err)
	assert.Equal(t, analysis, decodedAnalysis.Value)

	insight, err := p.GenerateInsight(context.Background(), InsightRequest{})
	require.NoError(t, err)
	raw, err = json.Marshal(insight)
	require.NoError(t, err)
	decodedInsight := decodeInsight(string(raw))
	require.NoError(t, decodedInsight.Err)
	assert.Equal(t, insight, decodedInsight.Value)
}
