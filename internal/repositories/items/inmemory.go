package items

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
)

type inMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*entities.Item
}

// NewInMemoryRepository creates an item catalog seeded with the given items.
// Passing nil seeds the default shop catalog.
func NewInMemoryRepository(seed []*entities.Item) Repository {
	if seed == nil {
		seed = DefaultCatalog()
	}

	items := make(map[string]*entities.Item, len(seed))
	for _, item := range seed {
		items[strings.ToLower(item.Name)] = item
	}

	return &inMemoryRepository{items: items}
}

// DefaultCatalog returns the stock shop items
func DefaultCatalog() []*entities.Item {
	return []*entities.Item{
		{Name: "small potion", Cost: 50, Effect: "Heals 10 HP", LevelRequired: 1},
		{Name: "medium potion", Cost: 150, Effect: "Heals 20 HP", LevelRequired: 3},
		{Name: "large potion", Cost: 300, Effect: "Heals 30 HP", LevelRequired: 5},
	}
}

func (r *inMemoryRepository) GetByName(ctx context.Context, name string) (*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[strings.ToLower(name)]
	if !exists {
		return nil, errors.NotFoundf("item not found: %s", name)
	}

	clone := *item
	return &clone, nil
}

func (r *inMemoryRepository) List(ctx context.Context) ([]*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Item, 0, len(r.items))
	for _, item := range r.items {
		clone := *item
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })

	return out, nil
}
