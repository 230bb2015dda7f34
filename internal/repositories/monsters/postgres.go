package monsters

import (
	"context"
	"database/sql"

	"github.com/suzubot/suzu-rpg/internal/database"
	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
)

// monsterColumns must match the Scan order in scanTemplate.
const monsterColumns = `id, name, hp_dice, hp_modifier, damage_dice, damage_modifier, special, trigger, tokens, challenge_rating, strength, dexterity, constitution, intelligence, wisdom, charisma, armor_class`

// postgresRepository implements Repository backed by PostgreSQL
type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a monster repository on the shared DB pool
func NewPostgresRepository(db *database.DB) Repository {
	return &postgresRepository{db: db.DB}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*entities.MonsterTemplate, error) {
	var t entities.MonsterTemplate
	err := row.Scan(
		&t.ID, &t.Name, &t.HPDice, &t.HPModifier, &t.DamageDice, &t.DamageModifier,
		&t.Special, &t.Trigger, &t.Tokens, &t.ChallengeRating,
		&t.Strength, &t.Dexterity, &t.Constitution, &t.Intelligence, &t.Wisdom, &t.Charisma,
		&t.ArmorClass,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int) (*entities.MonsterTemplate, error) {
	template, err := scanTemplate(r.db.QueryRowContext(ctx, `
		SELECT `+monsterColumns+`
		FROM monsters
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("monster template not found: %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get monster template %d", id)
	}

	return template, nil
}

func (r *postgresRepository) Random(ctx context.Context) (*entities.MonsterTemplate, error) {
	template, err := scanTemplate(r.db.QueryRowContext(ctx, `
		SELECT `+monsterColumns+`
		FROM monsters
		ORDER BY RANDOM()
		LIMIT 1
	`))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("monster catalog is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to pick random monster")
	}

	return template, nil
}

func (r *postgresRepository) RandomByChallengeRating(ctx context.Context, challengeRating int) (*entities.MonsterTemplate, error) {
	template, err := scanTemplate(r.db.QueryRowContext(ctx, `
		SELECT `+monsterColumns+`
		FROM monsters
		WHERE challenge_rating = $1
		ORDER BY RANDOM()
		LIMIT 1
	`, challengeRating))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no monster with challenge rating %d", challengeRating)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pick monster with challenge rating %d", challengeRating)
	}

	return template, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*entities.MonsterTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+monsterColumns+`
		FROM monsters
		ORDER BY id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list monsters")
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []*entities.MonsterTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan monster template")
		}
		out = append(out, template)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list monsters")
	}

	return out, nil
}
