package dice

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"

	"github.com/suzubot/suzu-rpg/internal/errors"
)

// RollResult holds the outcome of a dice roll
type RollResult struct {
	Total   int
	Highest int
	Lowest  int
	Rolls   []int
	Bonus   int
}

// Roll rolls count dice with the given number of sides and adds a bonus
func Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.InvalidArgument("invalid dice count")
	}

	if sides < 1 {
		return nil, errors.InvalidArgument("invalid dice size")
	}

	maxValue, minValue, total := 0, 0, 0

	out := make([]int, count)
	for i := 0; i < count; i++ {
		roll := rand.Intn(sides) + 1
		total += roll
		if i == 0 {
			minValue = roll
			maxValue = roll
		}

		if minValue > roll {
			minValue = roll
		}

		if maxValue < roll {
			maxValue = roll
		}

		out[i] = roll
	}

	slog.Debug("rolled dice", "count", count, "sides", sides, "rolls", out, "total", total)
	return &RollResult{
		Total:   total + bonus,
		Highest: maxValue,
		Lowest:  minValue,
		Rolls:   out,
		Bonus:   bonus,
	}, nil
}

// RollString rolls dice described in tabletop notation: "2d6" or "2d6+3".
// Malformed notation is an invalid-argument error; callers presenting
// user-supplied notation should surface the message rather than a total.
func RollString(notation string) (*RollResult, error) {
	count, sides, bonus, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}
	return Roll(count, sides, bonus)
}

// ParseNotation splits "NdM" or "NdM+B" into its parts
func ParseNotation(notation string) (count, sides, bonus int, err error) {
	dicePart := notation
	if base, bonusPart, found := strings.Cut(notation, "+"); found {
		bonus, err = strconv.Atoi(strings.TrimSpace(bonusPart))
		if err != nil {
			return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation %q", notation)
		}
		dicePart = base
	}

	countPart, sidesPart, found := strings.Cut(strings.TrimSpace(dicePart), "d")
	if !found {
		return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation %q", notation)
	}

	count, err = strconv.Atoi(countPart)
	if err != nil {
		return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation %q", notation)
	}
	sides, err = strconv.Atoi(sidesPart)
	if err != nil {
		return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation %q", notation)
	}

	return count, sides, bonus, nil
}

// Modifier derives the ability modifier from an ability score using the
// tabletop convention (score-10)/2, floored. Scores below 10 yield negative
// modifiers, so plain integer division (which truncates toward zero) is not
// enough.
func Modifier(score int) int {
	d := score - 10
	if d >= 0 {
		return d / 2
	}
	return (d - 1) / 2
}

// String formats the result for chat display
func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	if r.Bonus != 0 {
		return fmt.Sprintf("**%d** : %s%+d", r.Total, compact, r.Bonus)
	}
	return fmt.Sprintf("**%d** : %s", r.Total, compact)
}
