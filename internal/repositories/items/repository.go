package items

import (
	"context"

	"github.com/suzubot/suzu-rpg/internal/entities"
)

// Repository defines read access to the static item catalog
type Repository interface {
	// GetByName retrieves an item by its catalog name
	GetByName(ctx context.Context, name string) (*entities.Item, error)

	// List returns the full catalog
	List(ctx context.Context) ([]*entities.Item, error)
}
