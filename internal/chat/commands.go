package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/insights"
	"github.com/fdg312/health-assistant/internal/storage"
)

const (
	noFoodRecordsText   = "今日暂无饮食记录。请先记录您的饮食，然后再使用此命令分析。"
	ingredientUsageText = "请提供配料表文本。用法: `/ingredient <配料文本>`\n\n例如: `/ingredient 水, 白砂糖, 食用盐, 柠檬酸`"
	disclaimerText      = "⚠️ *免责声明: 此分析仅供参考，不构成医疗或营养建议。*"
)

var goalLabels = map[ai.GoalType]string{
	ai.GoalCut:      "减脂",
	ai.GoalBulk:     "增肌",
	ai.GoalGain:     "增重",
	ai.GoalMaintain: "维持体重",
}

var verdictLabels = map[ai.VerdictCategory]struct{ emoji, text string }{
	ai.VerdictRecommend: {"✅", "推荐"},
	ai.VerdictCaution:   {"⚠️", "谨慎"},
	ai.VerdictAvoid:     {"❌", "不推荐"},
}

// analyzeToday reports the day's intake from stored logs only.
func (r *Router) analyzeToday(ctx context.Context, turn Turn, _ Command) (string, error) {
	day, err := insights.CollectDay(ctx, r.store, turn.UserID, turn.Today)
	if err != nil {
		return "", err
	}
	if len(day.Food) == 0 {
		return noFoodRecordsText, nil
	}

	minKcal, maxKcal := day.KcalRange()
	lines := []string{
		fmt.Sprintf("📊 **今日饮食分析** (%s)", turn.Today.Format(storage.DateLayout)),
		"",
		fmt.Sprintf("🍽️ **已记录餐次**: %d 餐", len(day.Food)),
		fmt.Sprintf("🔥 **估计摄入热量**: %d-%d kcal", minKcal, maxKcal),
	}
	if len(day.Workouts) > 0 {
		lines = append(lines, fmt.Sprintf("💪 **运动时长**: %d 分钟", day.WorkoutMinutes()))
	} else {
		lines = append(lines, "💪 **运动**: 今日暂无运动记录")
	}

	goal, ok := goalLabels[turn.Profile.Goal()]
	if !ok {
		goal = goalLabels[ai.GoalMaintain]
	}
	lines = append(lines,
		"",
		"🎯 **您的目标**: "+goal,
		"",
		"💡 *提示: 这只是估算值，实际热量可能因份量和烹饪方式有所不同。*",
	)
	return strings.Join(lines, "\n"), nil
}

func (r *Router) ingredient(ctx context.Context, turn Turn, cmd Command) (string, error) {
	text := strings.TrimSpace(cmd.Args)
	if text == "" {
		return ingredientUsageText, nil
	}

	result, err := r.provider.AnalyzeIngredient(ctx, text, turn.Profile.Goal())
	if err != nil {
		return "", err
	}

	label := verdictLabels[result.Verdict.Category]
	lines := []string{
		"🔍 **配料分析结果**",
		"",
		fmt.Sprintf("%s **结论**: %s", label.emoji, label.text),
		"",
		"**分析理由**:",
		"- " + result.Verdict.Reason,
	}
	if len(result.Verdict.Suggestions) > 0 {
		lines = append(lines, "", "**建议**:")
		for _, s := range result.Verdict.Suggestions {
			lines = append(lines, "- "+s)
		}
	}
	lines = append(lines, "", disclaimerText)
	return strings.Join(lines, "\n"), nil
}

func (r *Router) insight(ctx context.Context, turn Turn, _ Command) (string, error) {
	day, err := insights.CollectDay(ctx, r.store, turn.UserID, turn.Today)
	if err != nil {
		return "", err
	}

	data, err := r.provider.GenerateInsight(ctx, day.InsightRequest(turn.Profile))
	if err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("💡 **今日洞察** (%s)", turn.Today.Format(storage.DateLayout)),
		"",
		data.GapSummary,
	}
	if len(data.Reasons) > 0 {
		lines = append(lines, "", "**原因**:")
		for _, reason := range data.Reasons {
			lines = append(lines, "- "+reason)
		}
	}
	if len(data.NextActions) > 0 {
		lines = append(lines, "", "**下一步**:")
		for _, action := range data.NextActions {
			lines = append(lines, "- "+action)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Router) help(context.Context, Turn, Command) (string, error) {
	return r.commandList("📖 **可用命令**"), nil
}

func (r *Router) unknownCommandText() string {
	return r.commandList("❓ **未知命令**")
}

func (r *Router) commandList(header string) string {
	lines := []string{header, "", "可用命令:"}
	for _, c := range r.commands {
		lines = append(lines, fmt.Sprintf("- `%s` - %s", c.name, c.description))
	}
	return strings.Join(lines, "\n")
}
