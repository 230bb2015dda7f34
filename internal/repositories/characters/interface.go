package characters

//go:generate mockgen -destination=mock/mock_repository.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/suzubot/suzu-rpg/internal/entities"
)

// Repository defines the interface for character persistence.
//
// Characters are auto-provisioned: GetOrCreate returns a default record for
// usernames that have never been seen, so callers never handle a missing
// character. Get exists for callers that need to distinguish "never seen"
// (it returns a not-found error instead of provisioning).
type Repository interface {
	// Get retrieves a character by username
	Get(ctx context.Context, username string) (*entities.Character, error)

	// GetOrCreate retrieves a character, provisioning a default record if
	// the username has no row yet
	GetOrCreate(ctx context.Context, username string) (*entities.Character, error)

	// Save persists the full character record
	Save(ctx context.Context, character *entities.Character) error

	// Delete removes a character
	Delete(ctx context.Context, username string) error
}
