package items

import (
	"context"
	"database/sql"

	"github.com/suzubot/suzu-rpg/internal/database"
	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
)

// postgresRepository implements Repository backed by PostgreSQL
type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates an item repository on the shared DB pool
func NewPostgresRepository(db *database.DB) Repository {
	return &postgresRepository{db: db.DB}
}

func (r *postgresRepository) GetByName(ctx context.Context, name string) (*entities.Item, error) {
	var item entities.Item
	err := r.db.QueryRowContext(ctx, `
		SELECT name, cost, effect, level_required
		FROM items
		WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&item.Name, &item.Cost, &item.Effect, &item.LevelRequired)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("item not found: %s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get item %q", name)
	}

	return &item, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*entities.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, cost, effect, level_required
		FROM items
		ORDER BY cost
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []*entities.Item
	for rows.Next() {
		var item entities.Item
		if err := rows.Scan(&item.Name, &item.Cost, &item.Effect, &item.LevelRequired); err != nil {
			return nil, errors.Wrap(err, "failed to scan item")
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}

	return out, nil
}
