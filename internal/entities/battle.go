package entities

import (
	"sort"
	"time"
)

// BattleStatus represents the current state of a battle
type BattleStatus string

const (
	BattleStatusSpawned BattleStatus = "spawned" // monster spawned, players joining
	BattleStatusActive  BattleStatus = "active"  // combat in progress
	BattleStatusEnded   BattleStatus = "ended"   // battle finished
)

// ActorKind distinguishes initiative entries
type ActorKind string

const (
	ActorKindMonster ActorKind = "monster"
	ActorKindPlayer  ActorKind = "player"
)

// InitiativeEntry is one (actor, score) pair in the turn order
type InitiativeEntry struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Kind  ActorKind `json:"kind"`
}

// Battle owns the state of one active fight in a channel: the monster, the
// roster of joined players (in join order) and the initiative order. The
// head of the order is always whose turn it is now; consuming a turn rotates
// the head to the tail.
type Battle struct {
	ID        string            `json:"id"`
	ChannelID string            `json:"channel_id"`
	Monster   *Monster          `json:"monster"`
	Roster    []string          `json:"roster"`
	Order     []InitiativeEntry `json:"order"`
	Status    BattleStatus      `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	StartedAt *time.Time        `json:"started_at"`
	EndedAt   *time.Time        `json:"ended_at"`
}

// NewBattle creates a battle around a freshly spawned monster. The initiative
// order is seeded with the monster alone; players add themselves on join.
func NewBattle(id, channelID string, monster *Monster, monsterInitiative int, createdAt time.Time) *Battle {
	return &Battle{
		ID:        id,
		ChannelID: channelID,
		Monster:   monster,
		Roster:    []string{},
		Order: []InitiativeEntry{
			{Name: monster.Name, Score: monsterInitiative, Kind: ActorKindMonster},
		},
		Status:    BattleStatusSpawned,
		CreatedAt: createdAt,
	}
}

// HasPlayer reports whether the username already joined
func (b *Battle) HasPlayer(username string) bool {
	for _, name := range b.Roster {
		if name == username {
			return true
		}
	}
	return false
}

// AddPlayer appends a player to the roster and the initiative order
func (b *Battle) AddPlayer(username string, initiative int) {
	b.Roster = append(b.Roster, username)
	b.Order = append(b.Order, InitiativeEntry{
		Name:  username,
		Score: initiative,
		Kind:  ActorKindPlayer,
	})
}

// RemovePlayer drops a defeated player from the roster and the order
func (b *Battle) RemovePlayer(username string) {
	roster := b.Roster[:0]
	for _, name := range b.Roster {
		if name != username {
			roster = append(roster, name)
		}
	}
	b.Roster = roster

	order := b.Order[:0]
	for _, entry := range b.Order {
		if entry.Kind == ActorKindPlayer && entry.Name == username {
			continue
		}
		order = append(order, entry)
	}
	b.Order = order
}

// SortOrder sorts the initiative order descending by score. The sort is
// stable, so tied actors keep their join order.
func (b *Battle) SortOrder() {
	sort.SliceStable(b.Order, func(i, j int) bool {
		return b.Order[i].Score > b.Order[j].Score
	})
}

// RotateOrder consumes the head's turn: pop the head, append it to the tail.
// Relative order among the remaining actors is preserved.
func (b *Battle) RotateOrder() {
	if len(b.Order) < 2 {
		return
	}
	head := b.Order[0]
	copy(b.Order, b.Order[1:])
	b.Order[len(b.Order)-1] = head
}

// CurrentTurn returns the head of the initiative order, or nil when empty
func (b *Battle) CurrentTurn() *InitiativeEntry {
	if len(b.Order) == 0 {
		return nil
	}
	return &b.Order[0]
}

// IsTurn reports whether it is currently this player's turn
func (b *Battle) IsTurn(username string) bool {
	current := b.CurrentTurn()
	return current != nil && current.Kind == ActorKindPlayer && current.Name == username
}

// Start transitions the battle into active combat
func (b *Battle) Start(at time.Time) {
	b.Status = BattleStatusActive
	b.StartedAt = &at
}

// End marks the battle finished. Idempotent.
func (b *Battle) End(at time.Time) {
	if b.Status == BattleStatusEnded {
		return
	}
	b.Status = BattleStatusEnded
	b.EndedAt = &at
}
