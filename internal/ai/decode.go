package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errMalformedOutput marks model content that does not satisfy a result contract.
var errMalformedOutput = errors.New("malformed model output")

type decodeResult[T any] struct {
	Value T
	Err   error
}

func decodeOK[T any](v T) decodeResult[T] {
	return decodeResult[T]{Value: v}
}

func decodeFail[T any](format string, args ...any) decodeResult[T] {
	return decodeResult[T]{Err: fmt.Errorf("%w: %s", errMalformedOutput, fmt.Sprintf(format, args...))}
}

// stripCodeFences removes a surrounding ```json ... ``` block if present.
func stripCodeFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the info string ("json", "JSON", ...).
		s = s[nl+1:]
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// firstJSONObject returns the first balanced {...} span in s, honoring string literals.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func unmarshalContent(content string, v any) error {
	cleaned := stripCodeFences(content)
	if cleaned == "" {
		return fmt.Errorf("%w: empty content", errMalformedOutput)
	}

	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}

	if obj, ok := firstJSONObject(cleaned); ok {
		if errObj := json.Unmarshal([]byte(obj), v); errObj == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", errMalformedOutput, err)
}

func decodeFoodParse(content string) decodeResult[FoodParseResult] {
	var result FoodParseResult
	if err := unmarshalContent(content, &result); err != nil {
		return decodeResult[FoodParseResult]{Err: err}
	}

	if len(result.Items) == 0 {
		return decodeFail[FoodParseResult]("food parse has no items")
	}

	totalMin, totalMax := 0, 0
	for i := range result.Items {
		item := &result.Items[i]
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return decodeFail[FoodParseResult]("item %d has no name", i)
		}
		if item.KcalMin < 0 || item.KcalMax < 0 {
			return decodeFail[FoodParseResult]("item %q has negative calories", item.Name)
		}
		if item.KcalMin > item.KcalMax {
			return decodeFail[FoodParseResult]("item %q has kcal_min %d > kcal_max %d", item.Name, item.KcalMin, item.KcalMax)
		}
		if item.PortionOptions == nil {
			item.PortionOptions = []string{}
		}
		totalMin += item.KcalMin
		totalMax += item.KcalMax
	}

	// Totals are derivable, so model arithmetic is never trusted.
	result.TotalKcalMin = totalMin
	result.TotalKcalMax = totalMax
	result.Cautions = strings.TrimSpace(result.Cautions)

	return decodeOK(result)
}

var verdictAliases = map[string]VerdictCategory{
	"推荐":        VerdictRecommend,
	"谨慎":        VerdictCaution,
	"不推荐":       VerdictAvoid,
	"recommend": VerdictRecommend,
	"caution":   VerdictCaution,
	"avoid":     VerdictAvoid,
}

func normalizeVerdict(raw VerdictCategory) (VerdictCategory, bool) {
	key := strings.ToLower(strings.TrimSpace(string(raw)))
	category, ok := verdictAliases[key]
	return category, ok
}

func decodeIngredient(content string) decodeResult[IngredientAnalyzeResult] {
	var result IngredientAnalyzeResult
	if err := unmarshalContent(content, &result); err != nil {
		return decodeResult[IngredientAnalyzeResult]{Err: err}
	}

	category, ok := normalizeVerdict(result.Verdict.Category)
	if !ok {
		return decodeFail[IngredientAnalyzeResult]("unknown verdict category %q", result.Verdict.Category)
	}
	result.Verdict.Category = category
	result.Verdict.Reason = strings.TrimSpace(result.Verdict.Reason)
	if result.Verdict.Suggestions == nil {
		result.Verdict.Suggestions = []string{}
	}
	result.Details = strings.TrimSpace(result.Details)

	return decodeOK(result)
}

func decodeInsight(content string) decodeResult[InsightData] {
	var result InsightData
	if err := unmarshalContent(content, &result); err != nil {
		return decodeResult[InsightData]{Err: err}
	}

	result.GapSummary = strings.TrimSpace(result.GapSummary)
	if result.GapSummary == "" {
		return decodeFail[InsightData]("insight has empty gap_summary")
	}
	if result.Reasons == nil {
		result.Reasons = []string{}
	}
	if result.NextActions == nil {
		result.NextActions = []string{}
	}

	return decodeOK(result)
}

func decodeChatReply(content string) decodeResult[string] {
	reply := strings.TrimSpace(content)
	if reply == "" {
		return decodeFail[string]("empty chat reply")
	}
	return decodeOK(reply)
}
