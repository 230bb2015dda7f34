package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suzubot/suzu-rpg/internal/dice"
	"github.com/suzubot/suzu-rpg/internal/errors"
)

func TestRoll_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		count int
		sides int
		bonus int
	}{
		{name: "1d20", count: 1, sides: 20},
		{name: "2d6", count: 2, sides: 6},
		{name: "3d8+2", count: 3, sides: 8, bonus: 2},
		{name: "d1 is degenerate but legal", count: 4, sides: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// randomized, so sample a few times
			for i := 0; i < 50; i++ {
				result, err := dice.Roll(tt.count, tt.sides, tt.bonus)
				require.NoError(t, err)

				assert.Len(t, result.Rolls, tt.count)
				assert.GreaterOrEqual(t, result.Total, tt.count+tt.bonus)
				assert.LessOrEqual(t, result.Total, tt.count*tt.sides+tt.bonus)
				for _, roll := range result.Rolls {
					assert.GreaterOrEqual(t, roll, 1)
					assert.LessOrEqual(t, roll, tt.sides)
				}
				assert.GreaterOrEqual(t, result.Highest, result.Lowest)
			}
		})
	}
}

func TestRoll_InvalidInput(t *testing.T) {
	_, err := dice.Roll(0, 6, 0)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = dice.Roll(1, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestRollString(t *testing.T) {
	result, err := dice.RollString("2d6")
	require.NoError(t, err)
	assert.Len(t, result.Rolls, 2)
	assert.GreaterOrEqual(t, result.Total, 2)
	assert.LessOrEqual(t, result.Total, 12)

	result, err = dice.RollString("1d4+3")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Bonus)
	assert.GreaterOrEqual(t, result.Total, 4)
	assert.LessOrEqual(t, result.Total, 7)
}

func TestRollString_Malformed(t *testing.T) {
	for _, notation := range []string{"", "d6", "2d", "abc", "2x6", "2d6+x", "2d6-1"} {
		t.Run(notation, func(t *testing.T) {
			_, err := dice.RollString(notation)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{score: 1, want: -5},
		{score: 8, want: -1},
		{score: 9, want: -1},
		{score: 10, want: 0},
		{score: 11, want: 0},
		{score: 12, want: 1},
		{score: 15, want: 2},
		{score: 20, want: 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, dice.Modifier(tt.score), "score %d", tt.score)
	}

	// monotonically non-decreasing
	prev := dice.Modifier(0)
	for score := 1; score <= 30; score++ {
		mod := dice.Modifier(score)
		assert.GreaterOrEqual(t, mod, prev)
		prev = mod
	}
}

func TestMockRoller(t *testing.T) {
	roller := dice.NewMockRoller()
	roller.SetRolls([]int{4, 5})

	result, err := roller.Roll(2, 6, 3)
	require.NoError(t, err)
	assert.Equal(t, 12, result.Total)
	assert.Equal(t, []int{4, 5}, result.Rolls)

	// queue exhausted
	_, err = roller.Roll(1, 6, 0)
	require.Error(t, err)

	// out of range for the die
	roller.SetRolls([]int{7})
	_, err = roller.Roll(1, 6, 0)
	require.Error(t, err)
}
