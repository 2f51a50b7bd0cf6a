package game

// MaxLevel is the level cap.
const MaxLevel = 20

// xpThresholds[n] is the total experience needed to reach level n+1.
var xpThresholds = [MaxLevel]int{
	0, 300, 900, 2700, 6500,
	14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000,
	195000, 225000, 265000, 305000, 355000,
}

// ExpForLevel is the total experience a character needs to be level. Levels
// outside 1..MaxLevel clamp.
func ExpForLevel(level int) int {
	return xpThresholds[min(max(level, 1), MaxLevel)-1]
}

// ExpToNextLevel is how much more experience a character at level with xp
// needs to level up. It is 0 at the cap.
func ExpToNextLevel(level, xp int) int {
	if level >= MaxLevel {
		return 0
	}
	return max(ExpForLevel(level+1)-xp, 0)
}
