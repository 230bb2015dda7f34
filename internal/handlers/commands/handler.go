package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/suzubot/suzu-rpg/internal/dice"
	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
	"github.com/suzubot/suzu-rpg/internal/services"
)

// Handler maps chat command words onto the game services and renders every
// outcome, success or failure, as a single display string. It is transport
// free: whatever chat platform delivers the line, the contract is the same.
type Handler struct {
	services *services.Provider
}

// HandlerConfig holds configuration for the handler
type HandlerConfig struct {
	Provider *services.Provider
}

// NewHandler creates a new command handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg.Provider == nil {
		panic("service provider is required")
	}
	return &Handler{services: cfg.Provider}
}

// Handle dispatches one chat command line for the given channel and user.
// A leading "~" prefix is tolerated. Unknown commands produce an empty
// string so chat noise passes through silently.
func (h *Handler) Handle(ctx context.Context, channelID, username, input string) string {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(input), "~"))
	if len(fields) == 0 {
		return ""
	}

	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "roll":
		return h.rollDice(username, args)
	case "spawn":
		return h.spawnMonster(ctx, channelID, args)
	case "joinbattle":
		return h.display(h.services.BattleService.JoinBattle(ctx, channelID, username))
	case "startbattle":
		return h.display(h.services.BattleService.StartBattleTrigger(ctx, channelID))
	case "attack":
		return h.display(h.services.BattleService.PlayerAttack(ctx, channelID, username))
	case "turn":
		return h.display(h.services.BattleService.TakeTurn(ctx, channelID))
	case "nextturn":
		return h.nextTurn(ctx, channelID)
	case "heal":
		return h.heal(ctx, channelID, username, args)
	case "endbattle":
		return h.display(h.services.BattleService.EndBattle(ctx, channelID))
	case "buy":
		return h.buyItem(ctx, username, args)
	case "use":
		return h.display(h.services.CharacterService.UseItem(ctx, username, strings.Join(args, " ")))
	case "potion":
		return h.display(h.services.CharacterService.HealWithPotion(ctx, username, strings.Join(args, " ")))
	case "xp":
		return h.gainXP(ctx, username, args)
	case "myxp":
		return h.display(h.services.CharacterService.GetXP(ctx, username))
	case "stats":
		return h.display(h.services.CharacterService.GetStats(ctx, username))
	default:
		return ""
	}
}

// display renders a service result: the message on success, the error text
// on expected failures, and a generic line for internal faults.
func (h *Handler) display(message string, err error) string {
	if err == nil {
		return message
	}

	switch errors.GetCode(err) {
	case errors.CodeInternal, errors.CodeUnknown:
		slog.Error("command failed", "error", err)
		return "Something went wrong. Try again later."
	default:
		return err.Error()
	}
}

func (h *Handler) rollDice(username string, args []string) string {
	if len(args) == 0 {
		return "Usage: ~roll <dice>, e.g. ~roll 2d6"
	}

	result, err := dice.RollString(args[0])
	if err != nil {
		return h.display("", err)
	}
	return fmt.Sprintf("%s rolled %s: %d", username, args[0], result.Total)
}

func (h *Handler) spawnMonster(ctx context.Context, channelID string, args []string) string {
	challengeRating := 0
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return "Usage: ~spawn [challenge rating]"
		}
		challengeRating = parsed
	}

	monster, err := h.services.BattleService.SpawnMonster(ctx, challengeRating)
	if err != nil {
		if errors.IsNotFound(err) {
			return "No monster matches that challenge rating!"
		}
		return h.display("", err)
	}

	return h.display(h.services.BattleService.StartBattle(ctx, channelID, monster))
}

func (h *Handler) nextTurn(ctx context.Context, channelID string) string {
	entry, err := h.services.BattleService.GetNextTurn(ctx, channelID)
	if err != nil {
		return h.display("", err)
	}

	if entry.Kind == entities.ActorKindMonster {
		return fmt.Sprintf("Next up: the monster %s!", entry.Name)
	}
	return fmt.Sprintf("Next up: %s!", entry.Name)
}

func (h *Handler) heal(ctx context.Context, channelID, username string, args []string) string {
	amount := 0 // zero heals to full
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return "Usage: ~heal [amount]"
		}
		amount = parsed
	}

	return h.display(h.services.BattleService.HealPlayer(ctx, channelID, username, amount))
}

func (h *Handler) buyItem(ctx context.Context, username string, args []string) string {
	if len(args) == 0 {
		return "Usage: ~buy <item> [quantity]"
	}

	// a trailing number is the quantity, the rest is the item name
	quantity := 1
	nameFields := args
	if len(args) > 1 {
		if parsed, err := strconv.Atoi(args[len(args)-1]); err == nil {
			if parsed < 1 {
				return "Usage: ~buy <item> [quantity]"
			}
			quantity = parsed
			nameFields = args[:len(args)-1]
		}
	}

	itemName := strings.Join(nameFields, " ")
	return h.display(h.services.CharacterService.BuyItem(ctx, username, itemName, quantity))
}

func (h *Handler) gainXP(ctx context.Context, username string, args []string) string {
	if len(args) == 0 {
		return "Usage: ~xp <amount>"
	}

	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return "Usage: ~xp <amount>"
	}

	return h.display(h.services.CharacterService.GainExperience(ctx, username, amount))
}
