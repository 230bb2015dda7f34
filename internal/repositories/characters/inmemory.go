package characters

import (
	"context"
	"sync"

	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
)

type inMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*entities.Character
}

// NewInMemoryRepository creates a new in-memory character repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		characters: make(map[string]*entities.Character),
	}
}

func (r *inMemoryRepository) Get(ctx context.Context, username string) (*entities.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	character, exists := r.characters[username]
	if !exists {
		return nil, errors.NotFoundf("character not found: %s", username)
	}

	return character.Clone(), nil
}

func (r *inMemoryRepository) GetOrCreate(ctx context.Context, username string) (*entities.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	character, exists := r.characters[username]
	if !exists {
		character = entities.NewCharacter(username)
		r.characters[username] = character
	}

	return character.Clone(), nil
}

func (r *inMemoryRepository) Save(ctx context.Context, character *entities.Character) error {
	if character == nil || character.Username == "" {
		return errors.InvalidArgument("character with username is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.characters[character.Username] = character.Clone()
	return nil
}

func (r *inMemoryRepository) Delete(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[username]; !exists {
		return errors.NotFoundf("character not found: %s", username)
	}

	delete(r.characters, username)
	return nil
}
