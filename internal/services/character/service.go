package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
	"github.com/suzubot/suzu-rpg/internal/repositories/characters"
	"github.com/suzubot/suzu-rpg/internal/repositories/items"
)

// Service is the character ledger: persistent progression, the token/XP
// economy and the item inventory. Every read-modify-write is serialized per
// username so concurrent chat commands cannot lose updates.
type Service interface {
	// GetRecord returns the full character record, provisioning defaults on
	// first contact
	GetRecord(ctx context.Context, username string) (*entities.Character, error)

	// GetStats returns the stats line for chat display
	GetStats(ctx context.Context, username string) (string, error)

	// GetXP returns the level/XP line for chat display
	GetXP(ctx context.Context, username string) (string, error)

	// AdjustTokens applies a token delta (may be negative). Affordability is
	// the caller's concern; the ledger does not reject overdrafts.
	AdjustTokens(ctx context.Context, username string, delta int) (*entities.Character, error)

	// GainExperience converts tokens into XP 1:1 and applies level-ups
	GainExperience(ctx context.Context, username string, amount int) (string, error)

	// BuyItem purchases quantity of a catalog item
	BuyItem(ctx context.Context, username, itemName string, quantity int) (string, error)

	// UseItem consumes one unit of an inventory item and reports its effect
	UseItem(ctx context.Context, username, itemName string) (string, error)

	// HealWithPotion consumes a potion from the inventory and restores HP
	HealWithPotion(ctx context.Context, username, potionName string) (string, error)

	// ApplyDamage persists combat damage, flooring HP at 0
	ApplyDamage(ctx context.Context, username string, damage int) (*entities.Character, error)

	// Heal restores HP toward max, persisting the change. amount <= 0 means
	// heal to full. Returns the updated record and the amount restored;
	// a character already at full health is a precondition failure and no
	// write happens.
	Heal(ctx context.Context, username string, amount int) (*entities.Character, int, error)
}

type service struct {
	repository characters.Repository
	items      items.Repository

	// one lock per username, held across each read-modify-write
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository     characters.Repository
	ItemRepository items.Repository
}

// NewService creates a new character ledger service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("character repository is required")
	}
	if cfg.ItemRepository == nil {
		panic("item repository is required")
	}

	return &service{
		repository: cfg.Repository,
		items:      cfg.ItemRepository,
		locks:      make(map[string]*sync.Mutex),
	}
}

// lockUser acquires the per-username mutex and returns the unlock func
func (s *service) lockUser(username string) func() {
	s.locksMu.Lock()
	lock, exists := s.locks[username]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[username] = lock
	}
	s.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *service) GetRecord(ctx context.Context, username string) (*entities.Character, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.InvalidArgument("username is required")
	}

	character, err := s.repository.GetOrCreate(ctx, username)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load character %q", username)
	}

	return character, nil
}

func (s *service) GetStats(ctx context.Context, username string) (string, error) {
	character, err := s.GetRecord(ctx, username)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s's Stats: Tokens: %d, Level: %d, XP: %d, HP: %d/%d",
		character.Username, character.Tokens, character.Level, character.XP,
		character.CurrentHP, character.MaxHP), nil
}

func (s *service) GetXP(ctx context.Context, username string) (string, error) {
	character, err := s.GetRecord(ctx, username)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s is level %d with %d XP.", character.Username, character.Level, character.XP), nil
}

func (s *service) AdjustTokens(ctx context.Context, username string, delta int) (*entities.Character, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.InvalidArgument("username is required")
	}

	defer s.lockUser(username)()

	character, err := s.repository.GetOrCreate(ctx, username)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load character %q", username)
	}

	character.Tokens += delta
	if err := s.repository.Save(ctx, character); err != nil {
		return nil, errors.Wrapf(err, "failed to save character %q", username)
	}

	return character, nil
}

func (s *service) GainExperience(ctx context.Context, username string, amount int) (string, error) {
	if amount < 0 {
		return "", errors.InvalidArgument("You can't gain negative XP!")
	}
	if amount == 0 {
		return fmt.Sprintf("%s gained no XP.", username), nil
	}

	defer s.lockUser(username)()

	character, err := s.repository.GetOrCreate(ctx, username)
	if err != nil {
		return "", errors.Wrapf(err, "failed to load character %q", username)
	}

	// XP is bought with tokens, one for one
	if amount > character.Tokens {
		return "", errors.PreconditionFailedf("%s you don't have enough tokens to gain that much XP!", username)
	}

	character.Tokens -= amount
	character.XP += amount

	// The threshold is fixed at the level the grant started from, so one
	// big grant can level several times against the same threshold.
	threshold := character.Level * 1000
	for character.XP >= threshold {
		character.XP -= threshold
		character.Level++
	}

	if err := s.repository.Save(ctx, character); err != nil {
		return "", errors.Wrapf(err, "failed to save character %q", username)
	}

	slog.Debug("gained experience", "username", username, "amount", amount, "level", character.Level, "xp", character.XP)
	return fmt.Sprintf("%s gained %d XP and is now level %d with %d XP.",
		username, amount, character.Level, character.XP), nil
}

func (s *service) BuyItem(ctx context.Context, username, itemName string, quantity int) (string, error) {
	if quantity < 1 {
		return "", errors.InvalidArgument("quantity must be at least 1")
	}

	item, err := s.items.GetByName(ctx, itemName)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.NotFound("That item doesn't exist!")
		}
		return "", errors.Wrapf(err, "failed to look up item %q", itemName)
	}

	defer s.lockUser(username)()

	character, err := s.repository.GetOrCreate(ctx, username)
	if err != nil {
		return "", errors.Wrapf(err, "failed to load character %q", username)
	}

	totalCost := item.Cost * quantity
	if character.Tokens < totalCost {
		return "", errors.PreconditionFailedf("You don't have enough tokens! You need %d tokens to buy %d %s(s).",
			totalCost, quantity, item.Name)
	}
	if character.Level < item.LevelRequired {
		return "", errors.PreconditionFailedf("You must be level %d to buy this item!", item.LevelRequired)
	}

	character.Tokens -= totalCost
	character.AddItem(item.Name, quantity)

	if err := s.repository.Save(ctx, character); err != nil {
		return "", errors.Wrapf(err, "failed to save character %q", username)
	}

	return fmt.Sprintf("%s bought %d %s(s) for %d tokens!", username, quantity, item.Name, totalCost), nil
}

func (s *service) UseItem(ctx context.Context, username, itemName string) (string, error) {
	item, err := s.items.GetByName(ctx, itemName)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.NotFound("That item doesn't exist!")
		}
		return "", errors.Wrapf(err, "failed to look up item %q", itemName)
	}

	defer s.lockUser(username)()

	character, err := s.repository.GetOrCreate(ctx, username)
	if err != nil {
		return "", errors.Wrapf(err, "failed to load character %q", username)
	}

	if character.Level < item.LevelRequired {
		return "", errors.PreconditionFailedf("You must be level %d to use this item!", item.LevelRequired)
	}
	if !character.RemoveItem(item.Name, 1) {
		return "", errors.PreconditionFailedf("You don't have a %s!", item.Name)
	}

	if err := s.repository.Save(ctx, character); err != nil {
		return "", errors.Wrapf(err, "failed to save character %q", username)
	}

	return fmt.Sprintf("%s used %s! Effect: %s", username, item.Name, item.Effect), nil
}

func (s *service) HealWithPotion(ctx context.Context, username, potionName string) (string, error) {
	healAmount, isPotion := entities.PotionHealing[strings.ToLower(potionName)]
	if !isPotion {
		return "", errors.InvalidArgumentf("%s is not a potion!", potionName)
	}

	defer s.lockUser(username)()

	character, err := s.repository.GetOrCreate(ctx, username)
	if err != nil {
		return "", errors.Wrapf(err, "failed to load character %q", username)
	}

	if !character.RemoveItem(strings.ToLower(potionName), 1) {
		return "", errors.PreconditionFailed("You don't have that potion!")
	}

	healed := character.Heal(healAmount)

	if err := s.repository.Save(ctx, character); err != nil {
		return "", errors.Wrapf(err, "failed to save character %q", username)
	}

	return fmt.Sprintf("%s, you have used a %s and healed for %d HP!", username, potionName, healed), nil
}

func (s *service) ApplyDamage(ctx context.Context, username string, damage int) (*entities.Character, error) {
	if damage < 0 {
		return nil, errors.InvalidArgument("damage cannot be negative")
	}

	defer s.lockUser(username)()

	character, err := s.repository.GetOrCreate(ctx, username)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load character %q", username)
	}

	character.ApplyDamage(damage)

	if err := s.repository.Save(ctx, character); err != nil {
		return nil, errors.Wrapf(err, "failed to save character %q", username)
	}

	return character, nil
}

func (s *service) Heal(ctx context.Context, username string, amount int) (*entities.Character, int, error) {
	defer s.lockUser(username)()

	character, err := s.repository.GetOrCreate(ctx, username)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to load character %q", username)
	}

	if character.CurrentHP >= character.MaxHP {
		return nil, 0, errors.PreconditionFailedf("%s is already at full health!", username)
	}

	if amount <= 0 {
		amount = character.MaxHP - character.CurrentHP
	}
	healed := character.Heal(amount)

	if err := s.repository.Save(ctx, character); err != nil {
		return nil, 0, errors.Wrapf(err, "failed to save character %q", username)
	}

	return character, healed, nil
}
