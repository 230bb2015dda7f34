package characters

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/suzubot/suzu-rpg/internal/database"
	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
)

// characterColumns must match the Scan order in scanCharacter.
const characterColumns = `username, tokens, level, xp, strength, dexterity, intelligence, vitality, hp, max_hp, inventory, created_at, updated_at`

// postgresRepository implements Repository backed by PostgreSQL
type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a character repository on the shared DB pool
func NewPostgresRepository(db *database.DB) Repository {
	return &postgresRepository{db: db.DB}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (*entities.Character, error) {
	var character entities.Character
	var inventory []byte

	err := row.Scan(
		&character.Username, &character.Tokens, &character.Level, &character.XP,
		&character.Strength, &character.Dexterity, &character.Intelligence, &character.Vitality,
		&character.CurrentHP, &character.MaxHP, &inventory,
		&character.CreatedAt, &character.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(inventory, &character.Inventory); err != nil {
		return nil, errors.Wrapf(err, "failed to decode inventory for %q", character.Username)
	}
	if character.Inventory == nil {
		character.Inventory = make(map[string]int)
	}

	return &character, nil
}

func (r *postgresRepository) Get(ctx context.Context, username string) (*entities.Character, error) {
	character, err := scanCharacter(r.db.QueryRowContext(ctx, `
		SELECT `+characterColumns+`
		FROM characters
		WHERE username = $1
	`, username))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("character not found: %s", username)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character %q", username)
	}

	return character, nil
}

func (r *postgresRepository) GetOrCreate(ctx context.Context, username string) (*entities.Character, error) {
	defaults := entities.NewCharacter(username)

	// Insert-if-absent then read back, all in one round trip. The DO UPDATE
	// no-op makes RETURNING yield the existing row on conflict.
	character, err := scanCharacter(r.db.QueryRowContext(ctx, `
		INSERT INTO characters (username, tokens, level, xp, strength, dexterity, intelligence, vitality, hp, max_hp, inventory, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '{}', NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING `+characterColumns+`
	`, username, defaults.Tokens, defaults.Level, defaults.XP,
		defaults.Strength, defaults.Dexterity, defaults.Intelligence, defaults.Vitality,
		defaults.CurrentHP, defaults.MaxHP))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to provision character %q", username)
	}

	return character, nil
}

func (r *postgresRepository) Save(ctx context.Context, character *entities.Character) error {
	if character == nil || character.Username == "" {
		return errors.InvalidArgument("character with username is required")
	}

	inventory, err := json.Marshal(character.Inventory)
	if err != nil {
		return errors.Wrapf(err, "failed to encode inventory for %q", character.Username)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO characters (username, tokens, level, xp, strength, dexterity, intelligence, vitality, hp, max_hp, inventory, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET
			tokens = EXCLUDED.tokens,
			level = EXCLUDED.level,
			xp = EXCLUDED.xp,
			strength = EXCLUDED.strength,
			dexterity = EXCLUDED.dexterity,
			intelligence = EXCLUDED.intelligence,
			vitality = EXCLUDED.vitality,
			hp = EXCLUDED.hp,
			max_hp = EXCLUDED.max_hp,
			inventory = EXCLUDED.inventory,
			updated_at = NOW()
	`, character.Username, character.Tokens, character.Level, character.XP,
		character.Strength, character.Dexterity, character.Intelligence, character.Vitality,
		character.CurrentHP, character.MaxHP, inventory)
	if err != nil {
		return errors.Wrapf(err, "failed to save character %q", character.Username)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE username = $1`, username)
	if err != nil {
		return errors.Wrapf(err, "failed to delete character %q", username)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "failed to delete character %q", username)
	}
	if affected == 0 {
		return errors.NotFoundf("character not found: %s", username)
	}

	return nil
}
