package monsters

import (
	"context"
	"math/rand"
	"sync"

	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
)

type inMemoryRepository struct {
	mu        sync.RWMutex
	templates []*entities.MonsterTemplate
}

// NewInMemoryRepository creates a monster catalog seeded with the given
// templates. Passing nil seeds the default bestiary.
func NewInMemoryRepository(seed []*entities.MonsterTemplate) Repository {
	if seed == nil {
		seed = DefaultBestiary()
	}
	return &inMemoryRepository{templates: seed}
}

// DefaultBestiary returns the stock monster catalog. Mirrors the rows seeded
// by the database migrations.
func DefaultBestiary() []*entities.MonsterTemplate {
	return []*entities.MonsterTemplate{
		{ID: 1, Name: "Slime", HPDice: "2d6", HPModifier: 2, DamageDice: "1d4", Special: "Splits when struck", Trigger: "A gelatinous slime oozes into the chat!", Tokens: 25, ChallengeRating: 1, Strength: 6, Dexterity: 8, Constitution: 12, Intelligence: 1, Wisdom: 6, Charisma: 2, ArmorClass: 8},
		{ID: 2, Name: "Goblin", HPDice: "2d8", HPModifier: 2, DamageDice: "1d6", DamageModifier: 1, Special: "Nimble Escape", Trigger: "A sneaky goblin jumps out of the bushes!", Tokens: 50, ChallengeRating: 1, Strength: 8, Dexterity: 14, Constitution: 10, Intelligence: 10, Wisdom: 8, Charisma: 8, ArmorClass: 13},
		{ID: 3, Name: "Wolf", HPDice: "3d8", HPModifier: 3, DamageDice: "2d4", DamageModifier: 2, Special: "Pack Tactics", Trigger: "A hungry wolf circles the channel!", Tokens: 75, ChallengeRating: 2, Strength: 12, Dexterity: 15, Constitution: 12, Intelligence: 3, Wisdom: 12, Charisma: 6, ArmorClass: 13},
		{ID: 4, Name: "Orc", HPDice: "4d8", HPModifier: 6, DamageDice: "1d12", DamageModifier: 3, Special: "Aggressive", Trigger: "An orc bellows a war cry!", Tokens: 100, ChallengeRating: 2, Strength: 16, Dexterity: 12, Constitution: 16, Intelligence: 7, Wisdom: 11, Charisma: 10, ArmorClass: 13},
		{ID: 5, Name: "Ogre", HPDice: "7d10", HPModifier: 21, DamageDice: "2d8", DamageModifier: 4, Special: "Sweeping Club", Trigger: "The ground shakes as an ogre lumbers in!", Tokens: 200, ChallengeRating: 3, Strength: 19, Dexterity: 8, Constitution: 16, Intelligence: 5, Wisdom: 7, Charisma: 7, ArmorClass: 11},
		{ID: 6, Name: "Young Dragon", HPDice: "10d10", HPModifier: 30, DamageDice: "2d10", DamageModifier: 5, Special: "Fire Breath", Trigger: "A young dragon descends with a roar!", Tokens: 500, ChallengeRating: 5, Strength: 23, Dexterity: 10, Constitution: 21, Intelligence: 14, Wisdom: 11, Charisma: 19, ArmorClass: 18},
	}
}

func (r *inMemoryRepository) GetByID(ctx context.Context, id int) (*entities.MonsterTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, template := range r.templates {
		if template.ID == id {
			clone := *template
			return &clone, nil
		}
	}

	return nil, errors.NotFoundf("monster template not found: %d", id)
}

func (r *inMemoryRepository) Random(ctx context.Context) (*entities.MonsterTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.templates) == 0 {
		return nil, errors.NotFound("monster catalog is empty")
	}

	clone := *r.templates[rand.Intn(len(r.templates))]
	return &clone, nil
}

func (r *inMemoryRepository) RandomByChallengeRating(ctx context.Context, challengeRating int) (*entities.MonsterTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*entities.MonsterTemplate
	for _, template := range r.templates {
		if template.ChallengeRating == challengeRating {
			matches = append(matches, template)
		}
	}

	if len(matches) == 0 {
		return nil, errors.NotFoundf("no monster with challenge rating %d", challengeRating)
	}

	clone := *matches[rand.Intn(len(matches))]
	return &clone, nil
}

func (r *inMemoryRepository) List(ctx context.Context) ([]*entities.MonsterTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.MonsterTemplate, 0, len(r.templates))
	for _, template := range r.templates {
		clone := *template
		out = append(out, &clone)
	}

	return out, nil
}
