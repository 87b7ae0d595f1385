package service

import (
	"math"

	"heist/models"
)

// expOverrideLogBase scales monetary amounts down to experience terms when
// an action awards exp based on money moved rather than level.
const expOverrideLogBase = 1.1

// awardExp draws and applies this action's experience gain, mutating the
// user in place (including any level-ups). Without an override the award is
// based on the user's level, drawn from [level, round(1 + level*2*mult)].
// With an override the base is log_1.1 of the override amount and the lower
// bound drops to zero.
func awardExp(rng Rand, user *models.User, multiplier float64, override *int64) (gained int64, leveledUp bool) {
	var base float64
	var lower int64

	if override != nil {
		if v := float64(*override); v >= 1 {
			base = math.Log(v) / math.Log(expOverrideLogBase)
		}
		lower = 0
	} else {
		base = float64(user.Level)
		lower = user.Level
	}

	upper := int64(math.Round(1 + base*2*multiplier))
	gained = uniformInt(rng, lower, upper)
	leveledUp = user.AddExp(gained)
	return gained, leveledUp
}
