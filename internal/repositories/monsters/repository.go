package monsters

import (
	"context"

	"github.com/suzubot/suzu-rpg/internal/entities"
)

// Repository defines read access to the static monster catalog
type Repository interface {
	// GetByID retrieves a template by catalog id
	GetByID(ctx context.Context, id int) (*entities.MonsterTemplate, error)

	// Random returns a uniformly random template from the whole catalog
	Random(ctx context.Context) (*entities.MonsterTemplate, error)

	// RandomByChallengeRating returns a random template with the given
	// challenge rating
	RandomByChallengeRating(ctx context.Context, challengeRating int) (*entities.MonsterTemplate, error)

	// List returns the full catalog
	List(ctx context.Context) ([]*entities.MonsterTemplate, error)
}
