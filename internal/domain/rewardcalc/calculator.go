// Package rewardcalc computes the points of a rewarded action. It is pure:
// no storage, no context, just the multiplier tables and the combination
// rule, so every earning path prices an action the same way.
package rewardcalc

import (
	"fmt"
	"math"
)

// streakTiers maps consecutive active days to a loyalty multiplier. Tiers
// are checked from the highest threshold down.
var streakTiers = []struct {
	MinDays    int
	Multiplier float64
}{
	{60, 1.25},
	{30, 1.20},
	{14, 1.15},
	{7, 1.10},
	{3, 1.05},
	{0, 1.00},
}

func StreakMultiplier(days int) float64 {
	for _, tier := range streakTiers {
		if days >= tier.MinDays {
			return tier.Multiplier
		}
	}

	return 1.00
}

// Tier is a lifetime-points level. The multiplier permanently boosts every
// credit once the threshold is crossed; Name shows up on the user profile.
type Tier struct {
	Name       string
	MinPoints  uint64
	Multiplier float64
}

var levelTiers = []Tier{
	{"diamond", 1_000_000, 1.15},
	{"platinum", 500_000, 1.12},
	{"gold", 100_000, 1.08},
	{"silver", 50_000, 1.05},
	{"bronze", 10_000, 1.02},
	{"starter", 0, 1.00},
}

func LevelTierOf(lifetimePoints uint64) Tier {
	for _, tier := range levelTiers {
		if lifetimePoints >= tier.MinPoints {
			return tier
		}
	}

	return levelTiers[len(levelTiers)-1]
}

// ModifierSet is the full set of multipliers applied to a base amount. A
// field of zero means "not applicable" and is treated as 1.
type ModifierSet struct {
	Streak    float64
	HappyHour float64
	Level     float64
}

func (m ModifierSet) normalized() (float64, float64, float64) {
	streak, happyHour, level := m.Streak, m.HappyHour, m.Level
	if streak == 0 {
		streak = 1
	}
	if happyHour == 0 {
		happyHour = 1
	}
	if level == 0 {
		level = 1
	}

	return streak, happyHour, level
}

// Calculate multiplies the base amount by every modifier and floors the
// result. Flooring is last, so multipliers never compound rounding.
func Calculate(base uint64, m ModifierSet) uint64 {
	streak, happyHour, level := m.normalized()
	return uint64(math.Floor(float64(base) * streak * happyHour * level))
}

// Breakdown renders the applied modifiers for the transaction note and the
// reward record, e.g. "base=10 streak=1.10 happy_hour=2.00 level=1.02 => 22".
func Breakdown(base uint64, m ModifierSet) string {
	streak, happyHour, level := m.normalized()
	return fmt.Sprintf("base=%d streak=%.2f happy_hour=%.2f level=%.2f => %d",
		base, streak, happyHour, level, Calculate(base, m))
}
