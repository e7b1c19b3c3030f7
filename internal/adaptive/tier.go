package adaptive

// Tier is a difficulty level, strictly ordered easy < medium < hard.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Next returns the tier above t; ok is false at the top of the ladder.
func (t Tier) Next() (Tier, bool) {
	switch t {
	case TierEasy:
		return TierMedium, true
	case TierMedium:
		return TierHard, true
	default:
		return t, false
	}
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierEasy, TierMedium, TierHard:
		return true
	}
	return false
}

// Points returns the score value of a correct answer at tier t.
func Points(t Tier) int {
	switch t {
	case TierMedium:
		return 2
	case TierHard:
		return 3
	default:
		return 1
	}
}

// LevelUpMessage returns the encouragement shown when a session is promoted
// to tier t.
func LevelUpMessage(t Tier) string {
	switch t {
	case TierMedium:
		return "Great job! You've unlocked Medium level. Keep it up!"
	case TierHard:
		return "Excellent! You're now at Hard level. Show your expertise!"
	default:
		return "Keep going!"
	}
}
