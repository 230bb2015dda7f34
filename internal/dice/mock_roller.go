package dice

import (
	"sync"

	"github.com/suzubot/suzu-rpg/internal/errors"
)

// MockRoller implements Roller for testing with predetermined results
type MockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
}

// NewMockRoller creates a new mock dice roller
func NewMockRoller() *MockRoller {
	return &MockRoller{
		rolls: []int{},
	}
}

// SetNextRoll appends a predetermined roll result
func (m *MockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls replaces the queued roll results
func (m *MockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Reset clears all rolls and resets the index
func (m *MockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = []int{}
	m.rollIndex = 0
}

// getNextRoll returns the next predetermined roll
func (m *MockRoller) getNextRoll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, errors.Internal("mock roller ran out of predetermined rolls")
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	return roll, nil
}

// Roll implements Roller using the queued results
func (m *MockRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.InvalidArgument("invalid dice count")
	}
	if sides < 1 {
		return nil, errors.InvalidArgument("invalid dice size")
	}

	maxValue, minValue, total := 0, 0, 0
	out := make([]int, count)
	for i := 0; i < count; i++ {
		roll, err := m.getNextRoll()
		if err != nil {
			return nil, err
		}
		if roll < 1 || roll > sides {
			return nil, errors.Internalf("mock roll %d out of range for d%d", roll, sides)
		}

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

	return &RollResult{
		Total:   total + bonus,
		Highest: maxValue,
		Lowest:  minValue,
		Rolls:   out,
		Bonus:   bonus,
	}, nil
}
