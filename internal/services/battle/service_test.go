package battle_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/suzubot/suzu-rpg/internal/dice"
	"github.com/suzubot/suzu-rpg/internal/entities"
	"github.com/suzubot/suzu-rpg/internal/errors"
	"github.com/suzubot/suzu-rpg/internal/repositories/characters"
	"github.com/suzubot/suzu-rpg/internal/repositories/items"
	"github.com/suzubot/suzu-rpg/internal/repositories/monsters"
	"github.com/suzubot/suzu-rpg/internal/services/battle"
	"github.com/suzubot/suzu-rpg/internal/services/character"
)

const channelID = "the-pit"

// trainingDummy is a deterministic single-template catalog: 1d10 HP,
// 1d4+2 damage, 100 token reward.
func trainingDummy() []*entities.MonsterTemplate {
	return []*entities.MonsterTemplate{
		{
			ID:              1,
			Name:            "Training Dummy",
			HPDice:          "1d10",
			HPModifier:      0,
			DamageDice:      "1d4",
			DamageModifier:  2,
			Dexterity:       10,
			ArmorClass:      10,
			Tokens:          100,
			ChallengeRating: 1,
		},
	}
}

type BattleServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	roller   *dice.MockRoller
	clock    clockwork.FakeClock
	charRepo characters.Repository
	charSvc  character.Service
	service  battle.Service
}

func (s *BattleServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.roller = dice.NewMockRoller()
	s.clock = clockwork.NewFakeClock()
	s.charRepo = characters.NewInMemoryRepository()
	s.charSvc = character.NewService(&character.ServiceConfig{
		Repository:     s.charRepo,
		ItemRepository: items.NewInMemoryRepository(items.DefaultCatalog()),
	})

	s.service = battle.NewService(&battle.ServiceConfig{
		CharacterService:  s.charSvc,
		MonsterRepository: monsters.NewInMemoryRepository(trainingDummy()),
		Roller:            s.roller,
		Clock:             s.clock,
		ResortOnJoin:      true,
	})
}

func TestBattleServiceSuite(t *testing.T) {
	suite.Run(t, new(BattleServiceTestSuite))
}

// spawnAndStart rolls a monster into the channel using the next three queued
// rolls: hit points (d10), damage (d4) and monster initiative (d20).
func (s *BattleServiceTestSuite) spawnAndStart() *entities.Monster {
	monster, err := s.service.SpawnMonster(s.ctx, 0)
	s.Require().NoError(err)

	_, err = s.service.StartBattle(s.ctx, channelID, monster)
	s.Require().NoError(err)
	return monster
}

// SpawnMonster Tests

func (s *BattleServiceTestSuite) TestSpawnMonster_RollsStats() {
	s.roller.SetRolls([]int{7, 3})

	monster, err := s.service.SpawnMonster(s.ctx, 1)

	s.NoError(err)
	s.Equal("Training Dummy", monster.Name)
	s.Equal(7, monster.HP)
	s.Equal(5, monster.Damage) // 3 + damage modifier 2
	s.Equal(100, monster.Tokens)
}

func (s *BattleServiceTestSuite) TestSpawnMonster_UnknownChallengeRating() {
	_, err := s.service.SpawnMonster(s.ctx, 99)

	s.Error(err)
	s.True(errors.IsNotFound(err))
}

// StartBattle Tests

func (s *BattleServiceTestSuite) TestStartBattle_Announces() {
	s.roller.SetRolls([]int{10, 2, 15})

	monster, err := s.service.SpawnMonster(s.ctx, 0)
	s.Require().NoError(err)

	msg, err := s.service.StartBattle(s.ctx, channelID, monster)

	s.NoError(err)
	s.Equal("A wild Training Dummy has appeared with 10 HP! Type `~joinbattle` to join the fight!", msg)
}

func (s *BattleServiceTestSuite) TestStartBattle_RejectsSecondBattle() {
	s.roller.SetRolls([]int{10, 2, 15})
	monster := s.spawnAndStart()

	_, err := s.service.StartBattle(s.ctx, channelID, monster)

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
	s.Contains(err.Error(), "A battle is already in progress!")
}

func (s *BattleServiceTestSuite) TestStartBattle_OtherChannelUnaffected() {
	s.roller.SetRolls([]int{10, 2, 15, 9})
	monster := s.spawnAndStart()

	_, err := s.service.StartBattle(s.ctx, "another-channel", monster)

	s.NoError(err)
}

// JoinBattle Tests

func (s *BattleServiceTestSuite) TestJoinBattle_NoBattle() {
	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
}

func (s *BattleServiceTestSuite) TestJoinBattle_RollsInitiative() {
	s.roller.SetRolls([]int{10, 2, 15, 12})
	s.spawnAndStart()

	msg, err := s.service.JoinBattle(s.ctx, channelID, "alice")

	s.NoError(err)
	s.Equal("alice has joined the battle with an initiative roll of 12!", msg)
}

func (s *BattleServiceTestSuite) TestJoinBattle_DuplicateRejected() {
	s.roller.SetRolls([]int{10, 2, 15, 12, 8})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)

	_, err = s.service.JoinBattle(s.ctx, channelID, "alice")

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
	s.Contains(err.Error(), "already in the battle")

	// the duplicate join consumed no initiative roll, so the queued 8 is
	// still available for another player
	msg, err := s.service.JoinBattle(s.ctx, channelID, "bob")
	s.NoError(err)
	s.Equal("bob has joined the battle with an initiative roll of 8!", msg)
}

// StartBattleTrigger Tests

func (s *BattleServiceTestSuite) TestStartBattleTrigger_NeedsAPlayer() {
	s.roller.SetRolls([]int{10, 2, 15})
	s.spawnAndStart()

	_, err := s.service.StartBattleTrigger(s.ctx, channelID)

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
}

func (s *BattleServiceTestSuite) TestStartBattleTrigger_AnnouncesSortedOrder() {
	s.roller.SetRolls([]int{10, 2, 5, 12, 8})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)
	_, err = s.service.JoinBattle(s.ctx, channelID, "bob")
	s.Require().NoError(err)

	msg, err := s.service.StartBattleTrigger(s.ctx, channelID)

	s.NoError(err)
	s.Equal("The battle begins! Turn order: alice (Initiative: 12), bob (Initiative: 8), Training Dummy (Initiative: 5)", msg)
}

// PlayerAttack Tests

func (s *BattleServiceTestSuite) TestPlayerAttack_NotInBattle() {
	s.roller.SetRolls([]int{10, 2, 15})
	s.spawnAndStart()

	_, err := s.service.PlayerAttack(s.ctx, channelID, "mallory")

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
	s.Contains(err.Error(), "not in the battle")
}

func (s *BattleServiceTestSuite) TestPlayerAttack_OutOfTurnLeavesMonsterUntouched() {
	// monster wins initiative (20 vs 1), so after the trigger it is the
	// monster's turn
	s.roller.SetRolls([]int{10, 2, 20, 1, 6})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)
	_, err = s.service.StartBattleTrigger(s.ctx, channelID)
	s.Require().NoError(err)

	_, err = s.service.PlayerAttack(s.ctx, channelID, "alice")
	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
	s.Contains(err.Error(), "It's not your turn, alice!")

	// resolve the monster's turn, then attack for 6: the monster sits at
	// 10-6=4 HP, proving the rejected attack dealt nothing
	_, err = s.service.MonsterAttack(s.ctx, channelID)
	s.Require().NoError(err)

	msg, err := s.service.PlayerAttack(s.ctx, channelID, "alice")
	s.NoError(err)
	s.Equal("alice dealt 6 damage! The monster has 4 HP remaining.", msg)
}

func (s *BattleServiceTestSuite) TestPlayerAttack_RotatesOrder() {
	s.roller.SetRolls([]int{10, 2, 5, 12, 3})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)
	_, err = s.service.StartBattleTrigger(s.ctx, channelID)
	s.Require().NoError(err)

	_, err = s.service.PlayerAttack(s.ctx, channelID, "alice")
	s.Require().NoError(err)

	next, err := s.service.GetNextTurn(s.ctx, channelID)
	s.NoError(err)
	s.Equal(entities.ActorKindMonster, next.Kind)
	s.Equal("Training Dummy", next.Name)
}

// MonsterAttack Tests

func (s *BattleServiceTestSuite) TestMonsterAttack_NoPlayers() {
	s.roller.SetRolls([]int{10, 2, 15})
	s.spawnAndStart()

	_, err := s.service.MonsterAttack(s.ctx, channelID)

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
}

func (s *BattleServiceTestSuite) TestMonsterAttack_PersistsDamage() {
	s.roller.SetRolls([]int{10, 2, 15, 12})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)

	msg, err := s.service.MonsterAttack(s.ctx, channelID)

	s.NoError(err)
	s.Equal("The monster attacked alice for 4 damage! alice has 16 HP remaining.", msg)

	record, err := s.charRepo.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(16, record.CurrentHP)
}

func (s *BattleServiceTestSuite) TestMonsterAttack_LastPlayerDownEndsBattle() {
	s.roller.SetRolls([]int{10, 2, 15, 12})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)

	// grind alice from 20 HP down in 4-damage hits; the fifth drops her
	for i := 0; i < 4; i++ {
		_, err = s.service.MonsterAttack(s.ctx, channelID)
		s.Require().NoError(err)
	}

	msg, err := s.service.MonsterAttack(s.ctx, channelID)
	s.NoError(err)
	s.Contains(msg, "alice has been defeated by the monster!")
	s.Contains(msg, "The monster wins!")

	_, err = s.service.MonsterAttack(s.ctx, channelID)
	s.Error(err)
	s.Contains(err.Error(), "No battle is currently active!")
}

// TakeTurn Tests

func (s *BattleServiceTestSuite) TestTakeTurn_NoPlayers() {
	s.roller.SetRolls([]int{10, 2, 15})
	s.spawnAndStart()

	_, err := s.service.TakeTurn(s.ctx, channelID)

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
}

func (s *BattleServiceTestSuite) TestTakeTurn_PromptsPlayerWithoutRotating() {
	s.roller.SetRolls([]int{10, 2, 5, 12})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)
	// resort on join already put alice (12) ahead of the monster (5)

	msg, err := s.service.TakeTurn(s.ctx, channelID)
	s.NoError(err)
	s.Equal("It's alice's turn! Use `~attack` to attack the monster.", msg)

	// prompting does not consume the turn
	next, err := s.service.GetNextTurn(s.ctx, channelID)
	s.NoError(err)
	s.Equal("alice", next.Name)
}

func (s *BattleServiceTestSuite) TestTakeTurn_ResolvesMonsterThenPrompts() {
	s.roller.SetRolls([]int{10, 2, 20, 1})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)

	msg, err := s.service.TakeTurn(s.ctx, channelID)

	s.NoError(err)
	lines := strings.Split(msg, "\n")
	s.Require().Len(lines, 2)
	s.Equal("The monster attacked alice for 4 damage! alice has 16 HP remaining.", lines[0])
	s.Equal("It's alice's turn! Use `~attack` to attack the monster.", lines[1])
}

func (s *BattleServiceTestSuite) TestTakeTurn_JoinOrderKeptWhenResortDisabled() {
	service := battle.NewService(&battle.ServiceConfig{
		CharacterService:  s.charSvc,
		MonsterRepository: monsters.NewInMemoryRepository(trainingDummy()),
		Roller:            s.roller,
		Clock:             s.clock,
		ResortOnJoin:      false,
	})
	// the monster was seeded first, so without a resort it stays at the
	// head even though alice rolled higher
	s.roller.SetRolls([]int{10, 2, 5, 12})

	monster, err := service.SpawnMonster(s.ctx, 0)
	s.Require().NoError(err)
	_, err = service.StartBattle(s.ctx, channelID, monster)
	s.Require().NoError(err)
	_, err = service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)

	msg, err := service.TakeTurn(s.ctx, channelID)

	s.NoError(err)
	s.Contains(msg, "The monster attacked alice")
}

// HealPlayer Tests

func (s *BattleServiceTestSuite) TestHealPlayer_NoBattle() {
	_, err := s.service.HealPlayer(s.ctx, channelID, "alice", 0)

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
}

func (s *BattleServiceTestSuite) TestHealPlayer_AlreadyAtFull() {
	s.roller.SetRolls([]int{10, 2, 15, 12})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)

	_, err = s.service.HealPlayer(s.ctx, channelID, "alice", 5)

	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
	s.Contains(err.Error(), "already at full health")
}

func (s *BattleServiceTestSuite) TestHealPlayer_FullHealClampsToMax() {
	s.roller.SetRolls([]int{10, 2, 15, 12})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)
	_, err = s.service.MonsterAttack(s.ctx, channelID)
	s.Require().NoError(err)

	msg, err := s.service.HealPlayer(s.ctx, channelID, "alice", 0)

	s.NoError(err)
	s.Equal("alice has been healed for 4 HP and now has 20/20 HP!", msg)
}

// EndBattle Tests

func (s *BattleServiceTestSuite) TestEndBattle_Idempotent() {
	s.roller.SetRolls([]int{10, 2, 15})
	s.spawnAndStart()

	msg, err := s.service.EndBattle(s.ctx, channelID)
	s.NoError(err)
	s.Equal("The battle has ended.", msg)

	msg, err = s.service.EndBattle(s.ctx, channelID)
	s.NoError(err)
	s.Equal("The battle has ended.", msg)

	_, err = s.service.GetNextTurn(s.ctx, channelID)
	s.Error(err)
	s.True(errors.IsPreconditionFailed(err))
}

// End-to-end: a 10 HP monster goes down to two attacks, and the reward is
// credited to every roster member exactly once.

func (s *BattleServiceTestSuite) TestVictory_CreditsRosterOnce() {
	s.roller.SetRolls([]int{10, 2, 5, 12, 6, 6})
	s.spawnAndStart()

	_, err := s.service.JoinBattle(s.ctx, channelID, "alice")
	s.Require().NoError(err)
	_, err = s.service.StartBattleTrigger(s.ctx, channelID)
	s.Require().NoError(err)

	msg, err := s.service.PlayerAttack(s.ctx, channelID, "alice")
	s.Require().NoError(err)
	s.Equal("alice dealt 6 damage! The monster has 4 HP remaining.", msg)

	// the monster's turn resolves, handing the head back to alice
	_, err = s.service.TakeTurn(s.ctx, channelID)
	s.Require().NoError(err)

	msg, err = s.service.PlayerAttack(s.ctx, channelID, "alice")
	s.NoError(err)
	s.Equal("alice dealt 6 damage and defeated the Training Dummy! Everyone gains 100 tokens!", msg)

	record, err := s.charRepo.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(100, record.Tokens)

	// the battle is gone; further attacks report no battle
	_, err = s.service.PlayerAttack(s.ctx, channelID, "alice")
	s.Error(err)
	s.Contains(err.Error(), "No battle is currently active!")
}
