package scoring

// LevelUpStreak is the streak length that raises the current operation's
// level. Every multiple of it triggers another level-up.
const LevelUpStreak = 5

// AnswersToLevelUp returns how many more correct answers the current
// streak needs before the next level-up.
func AnswersToLevelUp(streak int) int {
	if streak < 0 {
		streak = 0
	}
	return LevelUpStreak - streak%LevelUpStreak
}
