package entities

// MonsterTemplate is a static catalog row. Hit points and damage are dice
// expressions rolled once when a template is materialized into a Monster.
type MonsterTemplate struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	HPDice          string `json:"hp_dice"`
	HPModifier      int    `json:"hp_modifier"`
	DamageDice      string `json:"damage_dice"`
	DamageModifier  int    `json:"damage_modifier"`
	Special         string `json:"special"`
	Trigger         string `json:"trigger"`
	Tokens          int    `json:"tokens"`
	ChallengeRating int    `json:"challenge_rating"`
	Strength        int    `json:"strength"`
	Dexterity       int    `json:"dexterity"`
	Constitution    int    `json:"constitution"`
	Intelligence    int    `json:"intelligence"`
	Wisdom          int    `json:"wisdom"`
	Charisma        int    `json:"charisma"`
	ArmorClass      int    `json:"armor_class"`
}

// Monster is the ephemeral instance fighting in a battle: HP and damage are
// already rolled, and HP decreases as players land attacks. Owned exclusively
// by the active battle and discarded with it.
type Monster struct {
	TemplateID      int    `json:"template_id"`
	Name            string `json:"name"`
	HP              int    `json:"hp"`
	Damage          int    `json:"damage"`
	Dexterity       int    `json:"dexterity"`
	ArmorClass      int    `json:"armor_class"`
	Special         string `json:"special"`
	Trigger         string `json:"trigger"`
	Tokens          int    `json:"tokens"`
	ChallengeRating int    `json:"challenge_rating"`
}

// IsAlive returns true while the monster has hit points remaining
func (m *Monster) IsAlive() bool {
	return m.HP > 0
}
