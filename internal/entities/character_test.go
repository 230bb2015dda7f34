package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suzubot/suzu-rpg/internal/entities"
)

func TestNewCharacter_Defaults(t *testing.T) {
	c := entities.NewCharacter("alice")

	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 0, c.Tokens)
	assert.Equal(t, 10, c.Dexterity)
	assert.Equal(t, 20, c.CurrentHP)
	assert.Equal(t, 20, c.MaxHP)
	assert.Empty(t, c.Inventory)
}

func TestCharacter_ApplyDamage_FloorsAtZero(t *testing.T) {
	c := entities.NewCharacter("alice")
	c.ApplyDamage(5)
	assert.Equal(t, 15, c.CurrentHP)

	c.ApplyDamage(100)
	assert.Equal(t, 0, c.CurrentHP)
	assert.False(t, c.IsAlive())
}

func TestCharacter_Heal_ClampsToMax(t *testing.T) {
	c := entities.NewCharacter("alice")
	c.CurrentHP = 5

	healed := c.Heal(10)
	assert.Equal(t, 10, healed)
	assert.Equal(t, 15, c.CurrentHP)

	healed = c.Heal(100)
	assert.Equal(t, 5, healed)
	assert.Equal(t, 20, c.CurrentHP)

	healed = c.Heal(10)
	assert.Equal(t, 0, healed)
}

func TestCharacter_Inventory(t *testing.T) {
	c := entities.NewCharacter("alice")

	c.AddItem("small potion", 2)
	assert.Equal(t, 2, c.ItemCount("small potion"))

	assert.True(t, c.RemoveItem("small potion", 1))
	assert.Equal(t, 1, c.ItemCount("small potion"))

	assert.False(t, c.RemoveItem("small potion", 2))
	assert.Equal(t, 1, c.ItemCount("small potion"))

	assert.True(t, c.RemoveItem("small potion", 1))
	assert.Equal(t, 0, c.ItemCount("small potion"))
	assert.NotContains(t, c.Inventory, "small potion")
}

func TestCharacter_Clone(t *testing.T) {
	c := entities.NewCharacter("alice")
	c.AddItem("small potion", 1)

	clone := c.Clone()
	clone.Tokens = 500
	clone.AddItem("small potion", 4)

	assert.Equal(t, 0, c.Tokens)
	assert.Equal(t, 1, c.ItemCount("small potion"))
}
