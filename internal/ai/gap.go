package ai

type GapBand string

const (
	BandNearTarget  GapBand = "near_target"
	BandBelowTarget GapBand = "below_target"
	BandAboveTarget GapBand = "above_target"
)

// GapToleranceKcal is the half-width of the near-target band.
const GapToleranceKcal = 200

const defaultTargetKcal = 2200

var targetKcalByGoal = map[GoalType]int{
	GoalCut:      1800,
	GoalMaintain: 2200,
	GoalBulk:     2800,
	GoalGain:     2800,
}

// TargetCalories returns the daily calorie target for a goal, 2200 when the goal is unknown.
func TargetCalories(goal GoalType) int {
	if target, ok := targetKcalByGoal[goal]; ok {
		return target
	}
	return defaultTargetKcal
}

// Gap is the classified difference between a goal target and consumed calories.
type Gap struct {
	Target   int
	Consumed int
	// Delta is Target - Consumed; positive means below target.
	Delta int
	Band  GapBand
}

func ClassifyGap(goal GoalType, consumed int) Gap {
	target := TargetCalories(goal)
	delta := target - consumed

	band := BandAboveTarget
	switch {
	case absInt(delta) < GapToleranceKcal:
		band = BandNearTarget
	case delta > 0:
		band = BandBelowTarget
	}

	return Gap{
		Target:   target,
		Consumed: consumed,
		Delta:    delta,
		Band:     band,
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
