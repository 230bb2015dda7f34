package services

import (
	"github.com/jonboulle/clockwork"

	"github.com/suzubot/suzu-rpg/internal/dice"
	"github.com/suzubot/suzu-rpg/internal/repositories/characters"
	"github.com/suzubot/suzu-rpg/internal/repositories/items"
	"github.com/suzubot/suzu-rpg/internal/repositories/monsters"
	battleService "github.com/suzubot/suzu-rpg/internal/services/battle"
	characterService "github.com/suzubot/suzu-rpg/internal/services/character"
	"github.com/suzubot/suzu-rpg/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
	BattleService    battleService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	CharacterRepository characters.Repository
	ItemRepository      items.Repository
	MonsterRepository   monsters.Repository
	Roller              dice.Roller
	UUIDGenerator       uuid.Generator
	Clock               clockwork.Clock
	ResortOnJoin        bool
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repositories if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	itemRepo := cfg.ItemRepository
	if itemRepo == nil {
		itemRepo = items.NewInMemoryRepository(items.DefaultCatalog())
	}

	monsterRepo := cfg.MonsterRepository
	if monsterRepo == nil {
		monsterRepo = monsters.NewInMemoryRepository(monsters.DefaultBestiary())
	}

	charService := characterService.NewService(&characterService.ServiceConfig{
		Repository:     charRepo,
		ItemRepository: itemRepo,
	})

	btlService := battleService.NewService(&battleService.ServiceConfig{
		CharacterService:  charService,
		MonsterRepository: monsterRepo,
		Roller:            cfg.Roller,
		UUIDGenerator:     cfg.UUIDGenerator,
		Clock:             cfg.Clock,
		ResortOnJoin:      cfg.ResortOnJoin,
	})

	return &Provider{
		CharacterService: charService,
		BattleService:    btlService,
	}
}
