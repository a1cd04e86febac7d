package ai

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DeterministicProvider answers every operation from fixed tables. It does no I/O and only
// fails on blank input.
type DeterministicProvider struct{}

var _ Provider = (*DeterministicProvider)(nil)

func NewDeterministicProvider() *DeterministicProvider {
	return &DeterministicProvider{}
}

type foodEntry struct {
	name    string
	kcalMin int
	kcalMax int
	portion string
}

// Matched in order; names are compared against lower-cased input.
var foodTable = []foodEntry{
	{name: "鸡蛋", kcalMin: 60, kcalMax: 80, portion: "medium egg ~50g"},
	{name: "红薯", kcalMin: 100, kcalMax: 150, portion: "medium sweet potato ~150g"},
	{name: "米饭", kcalMin: 150, kcalMax: 200, portion: "1 bowl ~150g"},
	{name: "鸡胸肉", kcalMin: 150, kcalMax: 200, portion: "100g"},
	{name: "牛肉", kcalMin: 200, kcalMax: 250, portion: "100g"},
	{name: "苹果", kcalMin: 50, kcalMax: 80, portion: "medium apple ~150g"},
	{name: "香蕉", kcalMin: 80, kcalMax: 120, portion: "medium banana ~120g"},
	{name: "面包", kcalMin: 200, kcalMax: 300, portion: "2 slices ~80g"},
	{name: "牛奶", kcalMin: 100, kcalMax: 150, portion: "1 cup ~250ml"},
	{name: "酸奶", kcalMin: 80, kcalMax: 120, portion: "1 cup ~200g"},
	{name: "egg", kcalMin: 60, kcalMax: 80, portion: "medium egg ~50g"},
	{name: "sweet potato", kcalMin: 100, kcalMax: 150, portion: "medium sweet potato ~150g"},
	{name: "rice", kcalMin: 150, kcalMax: 200, portion: "1 bowl ~150g"},
	{name: "chicken breast", kcalMin: 150, kcalMax: 200, portion: "100g"},
	{name: "beef", kcalMin: 200, kcalMax: 250, portion: "100g"},
	{name: "apple", kcalMin: 50, kcalMax: 80, portion: "medium apple ~150g"},
	{name: "banana", kcalMin: 80, kcalMax: 120, portion: "medium banana ~120g"},
	{name: "bread", kcalMin: 200, kcalMax: 300, portion: "2 slices ~80g"},
	{name: "milk", kcalMin: 100, kcalMax: 150, portion: "1 cup ~250ml"},
	{name: "yogurt", kcalMin: 80, kcalMax: 120, portion: "1 cup ~200g"},
}

var quantityWords = map[string]int{
	"一个":  1,
	"一碗":  1,
	"一杯":  1,
	"one": 1,
	"两个":  2,
	"两碗":  2,
	"two": 2,
}

var defaultPortionOptions = []string{"0.5x", "1x", "1.5x", "2x"}

// Caution thresholds on the total maximum, per goal.
var cautionThresholdKcal = map[GoalType]int{
	GoalCut: 500,
}

const cutCaution = "High calorie meal for weight loss goal. Consider smaller portions."

// maxQuantity bounds the portion multiplier so calorie products stay in range.
const maxQuantity = 20

// applyGoalCaution fills an empty caution when the total maximum is over the goal threshold.
func applyGoalCaution(result FoodParseResult, goal GoalType) FoodParseResult {
	if result.Cautions != "" {
		return result
	}
	if threshold, ok := cautionThresholdKcal[goal]; ok && result.TotalKcalMax > threshold {
		result.Cautions = cutCaution
	}
	return result
}

var (
	unfavorableKeywords = []string{"糖", "sugar", "油", "oil", "盐", "salt", "添加剂", "additive"}
	favorableKeywords   = []string{"蛋白", "protein", "纤维", "fiber", "维生素", "vitamin"}
)

type chatBucket struct {
	keywords []string
	reply    string
}

// Checked in order; the first bucket with a matching keyword answers.
var chatBuckets = []chatBucket{
	{
		keywords: []string{"hello", "hi", "你好"},
		reply:    "Hello! I'm your health assistant. How can I help you today?",
	},
	{
		keywords: []string{"calorie", "卡路里", "热量"},
		reply:    "Calorie needs vary based on your goals. For weight loss, aim for a 300-500 calorie deficit. For muscle gain, a 300-500 surplus. Always prioritize whole foods and adequate protein!",
	},
	{
		keywords: []string{"protein", "蛋白质"},
		reply:    "Aim for 1.6-2.2g of protein per kg of body weight for muscle building, or 1.2-1.6g for general health. Good sources include chicken, fish, eggs, tofu, and legumes.",
	},
	{
		keywords: []string{"workout", "exercise", "运动"},
		reply:    "For best results, combine resistance training 3-4x/week with cardio 2-3x/week. Rest days are important for recovery!",
	},
	{
		keywords: []string{"weight", "体重"},
		reply:    "Healthy weight loss is 0.5-1kg per week. Weight fluctuates daily due to water retention, so focus on weekly trends rather than daily changes.",
	},
}

func (p *DeterministicProvider) ParseFood(ctx context.Context, text string, goal GoalType) (FoodParseResult, error) {
	_ = ctx

	text, err := requireText(OpParseFood, text)
	if err != nil {
		return FoodParseResult{}, err
	}

	lowered := strings.ToLower(text)
	quantity := parseQuantity(lowered)

	result := FoodParseResult{Items: make([]FoodItem, 0, 2)}
	for _, entry := range foodTable {
		if !strings.Contains(lowered, entry.name) {
			continue
		}
		item := FoodItem{
			Name:              entry.name,
			PortionAssumption: fmt.Sprintf("%dx %s", quantity, entry.portion),
			PortionOptions:    append([]string(nil), defaultPortionOptions...),
			KcalMin:           entry.kcalMin * quantity,
			KcalMax:           entry.kcalMax * quantity,
			Notes:             fmt.Sprintf("Estimated based on typical %s", entry.portion),
		}
		result.Items = append(result.Items, item)
		result.TotalKcalMin += item.KcalMin
		result.TotalKcalMax += item.KcalMax
	}

	if len(result.Items) == 0 {
		result.Items = append(result.Items, FoodItem{
			Name:              "Mixed meal",
			PortionAssumption: "1 serving",
			PortionOptions:    append([]string(nil), defaultPortionOptions...),
			KcalMin:           200,
			KcalMax:           400,
			Notes:             "Generic estimate - please adjust portion",
		})
		result.TotalKcalMin = 200
		result.TotalKcalMax = 400
	}

	return applyGoalCaution(result, goal), nil
}

// parseQuantity returns the multiplier for matched foods. The first all-digit token wins and is
// clamped to maxQuantity; quantity words update the multiplier and the scan goes on.
func parseQuantity(text string) int {
	quantity := 1
	for _, token := range strings.Fields(text) {
		if isASCIIDigits(token) {
			n, err := strconv.Atoi(token)
			if err != nil || n > maxQuantity {
				return maxQuantity
			}
			return n
		}
		if n, ok := quantityWords[token]; ok {
			quantity = n
		}
	}
	return quantity
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (p *DeterministicProvider) AnalyzeIngredient(ctx context.Context, text string, goal GoalType) (IngredientAnalyzeResult, error) {
	_ = ctx

	text, err := requireText(OpAnalyzeIngredient, text)
	if err != nil {
		return IngredientAnalyzeResult{}, err
	}

	lowered := strings.ToLower(text)
	unfavorable := countKeywords(lowered, unfavorableKeywords)
	favorable := countKeywords(lowered, favorableKeywords)

	var verdict IngredientVerdict
	switch {
	case unfavorable > favorable:
		verdict = IngredientVerdict{
			Category:    VerdictCaution,
			Reason:      "Contains ingredients that may not align with your health goals",
			Suggestions: []string{"Look for alternatives with less sugar/salt", "Check portion sizes"},
		}
	case favorable > 0:
		verdict = IngredientVerdict{
			Category:    VerdictRecommend,
			Reason:      "Contains beneficial nutrients aligned with your goals",
			Suggestions: []string{"Good choice for your health goals", "Maintain moderate portions"},
		}
	default:
		verdict = IngredientVerdict{
			Category:    VerdictCaution,
			Reason:      "Unable to determine nutritional value from ingredients",
			Suggestions: []string{"Consult nutrition label", "Consider whole food alternatives"},
		}
	}

	return IngredientAnalyzeResult{
		Verdict: verdict,
		Details: fmt.Sprintf("Analysis based on ingredient keywords. Goal: %s", goal),
	}, nil
}

func countKeywords(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

func (p *DeterministicProvider) GenerateInsight(ctx context.Context, req InsightRequest) (InsightData, error) {
	_ = ctx

	consumed := 0
	for _, log := range req.FoodLogs {
		consumed += log.TotalKcalMax
	}
	workoutMinutes := 0
	for _, log := range req.WorkoutLogs {
		workoutMinutes += log.DurationMinutes
	}

	goal := req.Profile.Goal()
	gap := ClassifyGap(goal, consumed)

	switch gap.Band {
	case BandNearTarget:
		exercise := "No exercise logged today"
		if workoutMinutes > 0 {
			exercise = fmt.Sprintf("Completed %d minutes of exercise", workoutMinutes)
		}
		return InsightData{
			GapSummary: fmt.Sprintf("Great job! You're on track with your %s goal.", goal),
			Reasons: []string{
				fmt.Sprintf("Consumed ~%d kcal (target: %d)", gap.Consumed, gap.Target),
				exercise,
			},
			NextActions: []string{"Keep up the good work!", "Stay consistent tomorrow"},
		}, nil
	case BandBelowTarget:
		return InsightData{
			GapSummary: fmt.Sprintf("You're %d kcal below your target for %s.", gap.Delta, goal),
			Reasons: []string{
				fmt.Sprintf("Only consumed %d kcal (target: %d)", gap.Consumed, gap.Target),
				"May need more protein/carbs to meet goals",
			},
			NextActions: []string{"Add a protein-rich snack", "Consider a balanced meal to reach target"},
		}, nil
	default:
		return InsightData{
			GapSummary: fmt.Sprintf("You're %d kcal above your target for %s.", -gap.Delta, goal),
			Reasons: []string{
				fmt.Sprintf("Consumed %d kcal (target: %d)", gap.Consumed, gap.Target),
				"Higher intake than planned",
			},
			NextActions: []string{"Adjust portions tomorrow", "Increase physical activity"},
		}, nil
	}
}

func (p *DeterministicProvider) Chat(ctx context.Context, req ChatRequest) (string, error) {
	_ = ctx

	lowered := strings.ToLower(req.Message)
	for _, bucket := range chatBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lowered, kw) {
				return bucket.reply, nil
			}
		}
	}

	return fmt.Sprintf(
		"I understand you're asking about: '%s'. As a health assistant, I can help with nutrition, exercise, and wellness questions. Please note: I cannot provide medical diagnoses or replace professional medical advice.",
		req.Message,
	), nil
}
