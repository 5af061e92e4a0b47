package scoring

// HintStage tracks how much of the worked solution is revealed for the
// current problem: 0 shows nothing, 3 shows everything.
type HintStage int

const (
	StageNone HintStage = 0
	StageFull HintStage = 3
)

// ClampStage bounds n to [StageNone, StageFull].
func ClampStage(n int) HintStage {
	if n < int(StageNone) {
		return StageNone
	}
	if n > int(StageFull) {
		return StageFull
	}
	return HintStage(n)
}

// Next returns the stage one step further, saturating at StageFull.
func (s HintStage) Next() HintStage {
	return ClampStage(int(s) + 1)
}

// Reward returns the stars earned for a correct answer given at stage s.
// Fewer hints earn more stars.
func Reward(s HintStage) int {
	switch {
	case s <= 1:
		return 3
	case s == 2:
		return 2
	default:
		return 1
	}
}
