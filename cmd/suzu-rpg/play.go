package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/suzubot/suzu-rpg/internal/config"
	"github.com/suzubot/suzu-rpg/internal/database"
	"github.com/suzubot/suzu-rpg/internal/handlers/commands"
	"github.com/suzubot/suzu-rpg/internal/logging"
	"github.com/suzubot/suzu-rpg/internal/repositories/characters"
	"github.com/suzubot/suzu-rpg/internal/repositories/items"
	"github.com/suzubot/suzu-rpg/internal/repositories/monsters"
	"github.com/suzubot/suzu-rpg/internal/services"
)

var (
	playUser    string
	playChannel string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run an interactive console session against the battle engine",
	Long: `play reads chat commands from stdin and prints the bot's replies,
using the same command handler the chat transports would. Persistence picks
the first configured backend: Postgres (DATABASE_URL), Redis (REDIS_URL),
or in-memory.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playUser, "user", "player", "username to play as")
	playCmd.Flags().StringVar(&playChannel, "channel", "console", "channel the battle runs in")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	providerConfig := &services.ProviderConfig{
		ResortOnJoin: cfg.Game.ResortOnJoin,
	}

	switch {
	case cfg.Database.URL != "":
		db, connectErr := database.Connect(cfg.Database.URL)
		if connectErr != nil {
			return fmt.Errorf("failed to connect to Postgres: %w", connectErr)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Warn("failed to close database", "error", closeErr)
			}
		}()

		if migrateErr := db.RunMigrations(); migrateErr != nil {
			return fmt.Errorf("failed to run migrations: %w", migrateErr)
		}

		providerConfig.CharacterRepository = characters.NewPostgresRepository(db)
		providerConfig.ItemRepository = items.NewPostgresRepository(db)
		providerConfig.MonsterRepository = monsters.NewPostgresRepository(db)
		slog.Info("using Postgres for persistence")

	case cfg.Redis.URL != "":
		opts, parseErr := redis.ParseURL(cfg.Redis.URL)
		if parseErr != nil {
			return fmt.Errorf("failed to parse Redis URL: %w", parseErr)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr := client.Ping(pingCtx).Err()
		cancel()
		if pingErr != nil {
			return fmt.Errorf("failed to connect to Redis: %w", pingErr)
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				slog.Warn("failed to close Redis client", "error", closeErr)
			}
		}()

		// characters live in Redis; the static catalogs stay in memory
		providerConfig.CharacterRepository = characters.NewRedisRepository(&characters.RedisRepoConfig{
			Client: client,
		})
		slog.Info("using Redis for character persistence")

	default:
		slog.Info("no DATABASE_URL or REDIS_URL set, using in-memory repositories")
	}

	provider := services.NewProvider(providerConfig)
	handler := commands.NewHandler(&commands.HandlerConfig{Provider: provider})

	fmt.Printf("Playing as %s in #%s. Type commands like ~spawn, ~joinbattle, ~attack. Ctrl-D to quit.\n",
		playUser, playChannel)

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		if reply := handler.Handle(ctx, playChannel, playUser, scanner.Text()); reply != "" {
			fmt.Println(reply)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Println("Goodbye!")
	return nil
}
