package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the shared PostgreSQL connection pool
type DB struct {
	*sql.DB
}

// Connect opens a pooled PostgreSQL connection and verifies it
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connection pool settings for production use
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// HealthCheck pings the database
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// RunMigrations creates the schema and seeds the static item and monster
// catalogs. Safe to run on every startup.
func (db *DB) RunMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS characters (
			username TEXT PRIMARY KEY,
			tokens INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			xp INTEGER NOT NULL DEFAULT 0,
			strength INTEGER NOT NULL DEFAULT 10,
			dexterity INTEGER NOT NULL DEFAULT 10,
			intelligence INTEGER NOT NULL DEFAULT 10,
			vitality INTEGER NOT NULL DEFAULT 10,
			hp INTEGER NOT NULL DEFAULT 20,
			max_hp INTEGER NOT NULL DEFAULT 20,
			inventory JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			name TEXT PRIMARY KEY,
			cost INTEGER NOT NULL,
			effect TEXT NOT NULL DEFAULT '',
			level_required INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS monsters (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			hp_dice TEXT NOT NULL,
			hp_modifier INTEGER NOT NULL DEFAULT 0,
			damage_dice TEXT NOT NULL,
			damage_modifier INTEGER NOT NULL DEFAULT 0,
			special TEXT NOT NULL DEFAULT '',
			trigger TEXT NOT NULL DEFAULT '',
			tokens INTEGER NOT NULL DEFAULT 0,
			challenge_rating INTEGER NOT NULL DEFAULT 1,
			strength INTEGER NOT NULL DEFAULT 10,
			dexterity INTEGER NOT NULL DEFAULT 10,
			constitution INTEGER NOT NULL DEFAULT 10,
			intelligence INTEGER NOT NULL DEFAULT 10,
			wisdom INTEGER NOT NULL DEFAULT 10,
			charisma INTEGER NOT NULL DEFAULT 10,
			armor_class INTEGER NOT NULL DEFAULT 10
		)`,
		`CREATE INDEX IF NOT EXISTS idx_monsters_challenge_rating ON monsters(challenge_rating)`,
		`INSERT INTO items (name, cost, effect, level_required) VALUES
			('small potion', 50, 'Heals 10 HP', 1),
			('medium potion', 150, 'Heals 20 HP', 3),
			('large potion', 300, 'Heals 30 HP', 5)
		ON CONFLICT (name) DO NOTHING`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	if err := db.seedMonsters(); err != nil {
		return err
	}

	slog.Info("database migrations completed")
	return nil
}

// seedMonsters inserts the default monster catalog once
func (db *DB) seedMonsters() error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM monsters`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count monsters: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(`INSERT INTO monsters
		(name, hp_dice, hp_modifier, damage_dice, damage_modifier, special, trigger, tokens, challenge_rating,
		 strength, dexterity, constitution, intelligence, wisdom, charisma, armor_class) VALUES
		('Slime', '2d6', 2, '1d4', 0, 'Splits when struck', 'A gelatinous slime oozes into the chat!', 25, 1, 6, 8, 12, 1, 6, 2, 8),
		('Goblin', '2d8', 2, '1d6', 1, 'Nimble Escape', 'A sneaky goblin jumps out of the bushes!', 50, 1, 8, 14, 10, 10, 8, 8, 13),
		('Wolf', '3d8', 3, '2d4', 2, 'Pack Tactics', 'A hungry wolf circles the channel!', 75, 2, 12, 15, 12, 3, 12, 6, 13),
		('Orc', '4d8', 6, '1d12', 3, 'Aggressive', 'An orc bellows a war cry!', 100, 2, 16, 12, 16, 7, 11, 10, 13),
		('Ogre', '7d10', 21, '2d8', 4, 'Sweeping Club', 'The ground shakes as an ogre lumbers in!', 200, 3, 19, 8, 16, 5, 7, 7, 11),
		('Young Dragon', '10d10', 30, '2d10', 5, 'Fire Breath', 'A young dragon descends with a roar!', 500, 5, 23, 10, 21, 14, 11, 19, 18)`)
	if err != nil {
		return fmt.Errorf("failed to seed monsters: %w", err)
	}

	return nil
}
