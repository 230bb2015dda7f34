package battle

//go:generate mockgen -destination=mock/mock_service.go -package=mockbattle -source=service.go

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/suzubot/suzu-rpg/internal/dice"
	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
	"github.com/suzubot/suzu-rpg/internal/repositories/monsters"
	"github.com/suzubot/suzu-rpg/internal/services/character"
	"github.com/suzubot/suzu-rpg/internal/uuid"
)

// turn messages are clamped so a chat line never overflows the platform limit
const maxTurnMessage = 500

// Service is the battle engine. It owns at most one battle per channel and
// resolves turns against the initiative order: the head of the order is
// always the actor whose turn it is, and consuming a turn rotates the head
// to the tail.
type Service interface {
	// SpawnMonster materializes a monster instance from the catalog, rolling
	// its hit point and damage dice. A challengeRating of 0 picks uniformly
	// from the whole catalog.
	SpawnMonster(ctx context.Context, challengeRating int) (*entities.Monster, error)

	// StartBattle opens a battle in the channel around a spawned monster and
	// rolls the monster's initiative. Fails if the channel already has one.
	StartBattle(ctx context.Context, channelID string, monster *entities.Monster) (string, error)

	// JoinBattle adds a player to the channel's battle, rolling initiative
	// from their dexterity
	JoinBattle(ctx context.Context, channelID, username string) (string, error)

	// StartBattleTrigger begins combat once at least one player has joined,
	// sorting the initiative order and announcing it
	StartBattleTrigger(ctx context.Context, channelID string) (string, error)

	// PlayerAttack resolves an attack by the player at the head of the order
	PlayerAttack(ctx context.Context, channelID, username string) (string, error)

	// MonsterAttack resolves the monster's attack on a random roster member
	MonsterAttack(ctx context.Context, channelID string) (string, error)

	// TakeTurn advances the battle: monster turns at the head of the order
	// resolve automatically, then the next player is prompted to act
	TakeTurn(ctx context.Context, channelID string) (string, error)

	// GetNextTurn peeks at the head of the initiative order
	GetNextTurn(ctx context.Context, channelID string) (*entities.InitiativeEntry, error)

	// HealPlayer restores a battling player's hit points, to full when
	// amount <= 0
	HealPlayer(ctx context.Context, channelID, username string, amount int) (string, error)

	// EndBattle discards the channel's battle. Idempotent.
	EndBattle(ctx context.Context, channelID string) (string, error)
}

type service struct {
	characters   character.Service
	monsterRepo  monsters.Repository
	roller       dice.Roller
	uuidGen      uuid.Generator
	clock        clockwork.Clock
	resortOnJoin bool

	mu      sync.Mutex
	battles map[string]*entities.Battle
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	CharacterService  character.Service
	MonsterRepository monsters.Repository
	Roller            dice.Roller
	UUIDGenerator     uuid.Generator
	Clock             clockwork.Clock

	// ResortOnJoin re-sorts the initiative order on every join. This can
	// reorder actors mid-rotation once combat has begun, which is why it is
	// a knob and not a given.
	ResortOnJoin bool
}

// NewService creates a new battle engine service
func NewService(cfg *ServiceConfig) Service {
	if cfg.CharacterService == nil {
		panic("character service is required")
	}
	if cfg.MonsterRepository == nil {
		panic("monster repository is required")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}
	uuidGen := cfg.UUIDGenerator
	if uuidGen == nil {
		uuidGen = uuid.NewGoogleUUIDGenerator()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &service{
		characters:   cfg.CharacterService,
		monsterRepo:  cfg.MonsterRepository,
		roller:       roller,
		uuidGen:      uuidGen,
		clock:        clock,
		resortOnJoin: cfg.ResortOnJoin,
		battles:      make(map[string]*entities.Battle),
	}
}

// rollInitiative rolls d20 + dexterity modifier, floored at 1
func (s *service) rollInitiative(dexterity int) (int, error) {
	result, err := s.roller.Roll(1, 20, dice.Modifier(dexterity))
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll initiative")
	}
	if result.Total < 1 {
		return 1, nil
	}
	return result.Total, nil
}

// battleFor returns the channel's live battle. Callers must hold s.mu.
func (s *service) battleFor(channelID string) (*entities.Battle, error) {
	battle, exists := s.battles[channelID]
	if !exists || battle.Status == entities.BattleStatusEnded {
		return nil, errors.PreconditionFailed("No battle is currently active!")
	}
	return battle, nil
}

// endBattle marks the battle finished and drops it from the channel map.
// Callers must hold s.mu.
func (s *service) endBattle(battle *entities.Battle) {
	battle.End(s.clock.Now())
	delete(s.battles, battle.ChannelID)
}

func (s *service) SpawnMonster(ctx context.Context, challengeRating int) (*entities.Monster, error) {
	var (
		template *entities.MonsterTemplate
		err      error
	)
	if challengeRating > 0 {
		template, err = s.monsterRepo.RandomByChallengeRating(ctx, challengeRating)
	} else {
		template, err = s.monsterRepo.Random(ctx)
	}
	if err != nil {
		return nil, err
	}

	hp, err := s.rollExpression(template.HPDice, template.HPModifier)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll hit points for %q", template.Name)
	}
	damage, err := s.rollExpression(template.DamageDice, template.DamageModifier)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll damage for %q", template.Name)
	}

	monster := &entities.Monster{
		TemplateID:      template.ID,
		Name:            template.Name,
		HP:              hp,
		Damage:          damage,
		Dexterity:       template.Dexterity,
		ArmorClass:      template.ArmorClass,
		Special:         template.Special,
		Trigger:         template.Trigger,
		Tokens:          template.Tokens,
		ChallengeRating: template.ChallengeRating,
	}

	slog.Debug("spawned monster", "name", monster.Name, "hp", monster.HP, "damage", monster.Damage)
	return monster, nil
}

// rollExpression rolls a catalog dice expression like "2d8" plus a flat
// modifier
func (s *service) rollExpression(notation string, modifier int) (int, error) {
	count, sides, bonus, err := dice.ParseNotation(notation)
	if err != nil {
		return 0, err
	}
	result, err := s.roller.Roll(count, sides, bonus+modifier)
	if err != nil {
		return 0, err
	}
	return result.Total, nil
}

func (s *service) StartBattle(ctx context.Context, channelID string, monster *entities.Monster) (string, error) {
	if monster == nil {
		return "", errors.InvalidArgument("monster is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.battles[channelID]; exists && existing.Status != entities.BattleStatusEnded {
		return "", errors.PreconditionFailed("A battle is already in progress!")
	}

	initiative, err := s.rollInitiative(monster.Dexterity)
	if err != nil {
		return "", err
	}

	battle := entities.NewBattle(s.uuidGen.New(), channelID, monster, initiative, s.clock.Now())
	s.battles[channelID] = battle

	slog.Info("battle started", "channel", channelID, "monster", monster.Name, "hp", monster.HP)
	return fmt.Sprintf("A wild %s has appeared with %d HP! Type `~joinbattle` to join the fight!",
		monster.Name, monster.HP), nil
}

func (s *service) JoinBattle(ctx context.Context, channelID, username string) (string, error) {
	// look up dexterity before taking the battle lock, the ledger may hit
	// the database
	record, err := s.characters.GetRecord(ctx, username)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	battle, err := s.battleFor(channelID)
	if err != nil {
		return "", err
	}

	if battle.HasPlayer(username) {
		return "", errors.PreconditionFailedf("%s, you are already in the battle!", username)
	}

	initiative, err := s.rollInitiative(record.Dexterity)
	if err != nil {
		return "", err
	}

	battle.AddPlayer(username, initiative)
	if s.resortOnJoin {
		battle.SortOrder()
	}

	return fmt.Sprintf("%s has joined the battle with an initiative roll of %d!", username, initiative), nil
}

func (s *service) StartBattleTrigger(ctx context.Context, channelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	battle, err := s.battleFor(channelID)
	if err != nil {
		return "", err
	}

	if len(battle.Roster) < 1 {
		return "", errors.PreconditionFailed("Not enough players have joined the battle! At least one player is required to start.")
	}

	battle.SortOrder()
	battle.Start(s.clock.Now())

	entries := make([]string, 0, len(battle.Order))
	for _, entry := range battle.Order {
		entries = append(entries, fmt.Sprintf("%s (Initiative: %d)", entry.Name, entry.Score))
	}

	return fmt.Sprintf("The battle begins! Turn order: %s", strings.Join(entries, ", ")), nil
}

func (s *service) PlayerAttack(ctx context.Context, channelID, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	battle, err := s.battleFor(channelID)
	if err != nil {
		return "", err
	}

	if !battle.HasPlayer(username) {
		return "", errors.PreconditionFailedf("%s, you are not in the battle!", username)
	}
	if !battle.IsTurn(username) {
		return "", errors.PreconditionFailedf("It's not your turn, %s!", username)
	}

	result, err := s.roller.Roll(1, 6, 0)
	if err != nil {
		return "", errors.Wrap(err, "failed to roll attack damage")
	}
	damage := result.Total
	battle.Monster.HP -= damage

	if !battle.Monster.IsAlive() {
		monsterName := battle.Monster.Name
		reward := battle.Monster.Tokens
		roster := append([]string(nil), battle.Roster...)
		s.endBattle(battle)

		// everyone on the roster at the moment of defeat gets the reward,
		// exactly once
		for _, player := range roster {
			if _, err := s.characters.AdjustTokens(ctx, player, reward); err != nil {
				return "", errors.Wrapf(err, "failed to credit %q with battle reward", player)
			}
		}

		slog.Info("monster defeated", "channel", channelID, "monster", monsterName, "by", username, "reward", reward)
		return fmt.Sprintf("%s dealt %d damage and defeated the %s! Everyone gains %d tokens!",
			username, damage, monsterName, reward), nil
	}

	battle.RotateOrder()
	return fmt.Sprintf("%s dealt %d damage! The monster has %d HP remaining.",
		username, damage, battle.Monster.HP), nil
}

func (s *service) MonsterAttack(ctx context.Context, channelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	battle, err := s.battleFor(channelID)
	if err != nil {
		return "", err
	}

	return s.monsterAttackLocked(ctx, battle)
}

// monsterAttackLocked resolves one monster attack. Callers must hold s.mu.
func (s *service) monsterAttackLocked(ctx context.Context, battle *entities.Battle) (string, error) {
	if len(battle.Roster) == 0 {
		return "", errors.PreconditionFailed("No players are in the battle!")
	}

	target := battle.Roster[rand.Intn(len(battle.Roster))]
	damage := battle.Monster.Damage

	record, err := s.characters.ApplyDamage(ctx, target, damage)
	if err != nil {
		return "", errors.Wrapf(err, "failed to apply monster damage to %q", target)
	}

	battle.RotateOrder()

	if !record.IsAlive() {
		battle.RemovePlayer(target)

		if len(battle.Roster) == 0 {
			s.endBattle(battle)
			return fmt.Sprintf("The monster attacked %s for %d damage! %s has been defeated by the monster! The battle is over. The monster wins!",
				target, damage, target), nil
		}
		return fmt.Sprintf("The monster attacked %s for %d damage! %s has been defeated by the monster!",
			target, damage, target), nil
	}

	return fmt.Sprintf("The monster attacked %s for %d damage! %s has %d HP remaining.",
		target, damage, target, record.CurrentHP), nil
}

func (s *service) TakeTurn(ctx context.Context, channelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	battle, err := s.battleFor(channelID)
	if err != nil {
		return "", err
	}
	if len(battle.Roster) == 0 {
		return "", errors.PreconditionFailed("No players are in the battle!")
	}

	var parts []string
	for {
		current := battle.CurrentTurn()
		if current == nil {
			break
		}

		if current.Kind == entities.ActorKindPlayer {
			parts = append(parts, fmt.Sprintf("It's %s's turn! Use `~attack` to attack the monster.", current.Name))
			break
		}

		result, err := s.monsterAttackLocked(ctx, battle)
		if err != nil {
			return "", err
		}
		parts = append(parts, result)

		if battle.Status == entities.BattleStatusEnded {
			break
		}
	}

	message := strings.Join(parts, "\n")
	if len(message) > maxTurnMessage {
		message = message[:maxTurnMessage]
	}
	return message, nil
}

func (s *service) GetNextTurn(ctx context.Context, channelID string) (*entities.InitiativeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	battle, err := s.battleFor(channelID)
	if err != nil {
		return nil, err
	}

	current := battle.CurrentTurn()
	if current == nil {
		return nil, errors.NotFound("the initiative order is empty")
	}

	entry := *current
	return &entry, nil
}

func (s *service) HealPlayer(ctx context.Context, channelID, username string, amount int) (string, error) {
	s.mu.Lock()
	_, err := s.battleFor(channelID)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	record, healed, err := s.characters.Heal(ctx, username, amount)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s has been healed for %d HP and now has %d/%d HP!",
		username, healed, record.CurrentHP, record.MaxHP), nil
}

func (s *service) EndBattle(ctx context.Context, channelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if battle, exists := s.battles[channelID]; exists {
		s.endBattle(battle)
		slog.Info("battle ended", "channel", channelID, "monster", battle.Monster.Name)
	}

	return "The battle has ended.", nil
}
