package characters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
)

// redisRepository implements Repository using Redis JSON documents.
// Deployments that already run the bot's economy on Redis can share one
// store instead of standing up Postgres.
type redisRepository struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}
	return &redisRepository{client: cfg.Client}
}

func characterKey(username string) string {
	return fmt.Sprintf("character:%s", username)
}

func (r *redisRepository) Get(ctx context.Context, username string) (*entities.Character, error) {
	data, err := r.client.Get(ctx, characterKey(username)).Result()
	if err == redis.Nil {
		return nil, errors.NotFoundf("character not found: %s", username)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character %q", username)
	}

	var character entities.Character
	if err := json.Unmarshal([]byte(data), &character); err != nil {
		return nil, errors.Wrapf(err, "failed to decode character %q", username)
	}
	if character.Inventory == nil {
		character.Inventory = make(map[string]int)
	}

	return &character, nil
}

func (r *redisRepository) GetOrCreate(ctx context.Context, username string) (*entities.Character, error) {
	character, err := r.Get(ctx, username)
	if err == nil {
		return character, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	character = entities.NewCharacter(username)
	data, err := json.Marshal(character)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode character %q", username)
	}

	// SETNX keeps a concurrent first-contact from clobbering a record that
	// won the race.
	created, err := r.client.SetNX(ctx, characterKey(username), data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to provision character %q", username)
	}
	if !created {
		return r.Get(ctx, username)
	}

	return character, nil
}

func (r *redisRepository) Save(ctx context.Context, character *entities.Character) error {
	if character == nil || character.Username == "" {
		return errors.InvalidArgument("character with username is required")
	}

	data, err := json.Marshal(character)
	if err != nil {
		return errors.Wrapf(err, "failed to encode character %q", character.Username)
	}

	if err := r.client.Set(ctx, characterKey(character.Username), data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to save character %q", character.Username)
	}

	return nil
}

func (r *redisRepository) Delete(ctx context.Context, username string) error {
	deleted, err := r.client.Del(ctx, characterKey(username)).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to delete character %q", username)
	}
	if deleted == 0 {
		return errors.NotFoundf("character not found: %s", username)
	}

	return nil
}
