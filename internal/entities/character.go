package entities

import "time"

// Default attribute values for a freshly provisioned character. Every user
// gets a record with these on first contact so the currency and RPG
// subsystems share one provisioning policy.
const (
	DefaultAbilityScore = 10
	DefaultMaxHP        = 20
	DefaultLevel        = 1
)

// Character is the persistent per-user record: progression, ability scores,
// hit points and inventory. Keyed by chat username and never destroyed.
type Character struct {
	Username     string         `json:"username"`
	Tokens       int            `json:"tokens"`
	Level        int            `json:"level"`
	XP           int            `json:"xp"`
	Strength     int            `json:"strength"`
	Dexterity    int            `json:"dexterity"`
	Intelligence int            `json:"intelligence"`
	Vitality     int            `json:"vitality"`
	CurrentHP    int            `json:"hp"`
	MaxHP        int            `json:"max_hp"`
	Inventory    map[string]int `json:"inventory"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewCharacter creates a character with default provisioning values
func NewCharacter(username string) *Character {
	return &Character{
		Username:     username,
		Tokens:       0,
		Level:        DefaultLevel,
		XP:           0,
		Strength:     DefaultAbilityScore,
		Dexterity:    DefaultAbilityScore,
		Intelligence: DefaultAbilityScore,
		Vitality:     DefaultAbilityScore,
		CurrentHP:    DefaultMaxHP,
		MaxHP:        DefaultMaxHP,
		Inventory:    make(map[string]int),
	}
}

// IsAlive returns true if the character has hit points remaining
func (c *Character) IsAlive() bool {
	return c.CurrentHP > 0
}

// ApplyDamage reduces current HP, floored at 0
func (c *Character) ApplyDamage(damage int) {
	c.CurrentHP -= damage
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}

// Heal restores hit points, clamped to max HP. Returns the amount actually
// restored.
func (c *Character) Heal(amount int) int {
	before := c.CurrentHP
	c.CurrentHP += amount
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
	return c.CurrentHP - before
}

// ItemCount returns how many of the named item the character carries
func (c *Character) ItemCount(itemName string) int {
	if c.Inventory == nil {
		return 0
	}
	return c.Inventory[itemName]
}

// AddItem increments the inventory count for an item
func (c *Character) AddItem(itemName string, quantity int) {
	if c.Inventory == nil {
		c.Inventory = make(map[string]int)
	}
	c.Inventory[itemName] += quantity
}

// RemoveItem decrements the inventory count, deleting the entry when it
// reaches zero. Returns false if the character does not carry enough.
func (c *Character) RemoveItem(itemName string, quantity int) bool {
	if c.ItemCount(itemName) < quantity {
		return false
	}
	c.Inventory[itemName] -= quantity
	if c.Inventory[itemName] <= 0 {
		delete(c.Inventory, itemName)
	}
	return true
}

// Clone returns a deep copy so repository callers cannot alias stored state
func (c *Character) Clone() *Character {
	clone := *c
	clone.Inventory = make(map[string]int, len(c.Inventory))
	for name, count := range c.Inventory {
		clone.Inventory[name] = count
	}
	return &clone
}
