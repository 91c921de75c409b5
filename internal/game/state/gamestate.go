package state

import (
	"sort"

	"github.com/innovationgame/innovation-server-go/internal/game/achievements"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
)

// MaxAge is the highest age with a draw pile.
const MaxAge = 10

// GameState is the shared table: players in seat order, one draw pile per
// age (front of the slice is the top of the pile) and unclaimed achievements.
type GameState struct {
	Players      []*player.Player
	DrawPiles    map[int][]*cards.Card
	Achievements []*achievements.Achievement
}

// New creates a game state with empty draw piles.
func New(players ...*player.Player) *GameState {
	return &GameState{
		Players:   players,
		DrawPiles: make(map[int][]*cards.Card),
	}
}

// Player looks a player up by ID.
func (gs *GameState) Player(id string) (*player.Player, bool) {
	for _, p := range gs.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Opponents returns every other player, clockwise starting after p.
func (gs *GameState) Opponents(p *player.Player) []*player.Player {
	start := -1
	for i, other := range gs.Players {
		if other.Equal(p) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	out := make([]*player.Player, 0, len(gs.Players)-1)
	for i := 1; i < len(gs.Players); i++ {
		out = append(out, gs.Players[(start+i)%len(gs.Players)])
	}
	return out
}

// PileSize returns the number of cards left in an age's draw pile.
func (gs *GameState) PileSize(age int) int {
	return len(gs.DrawPiles[age])
}

// DrawFromPile removes the top card of an age's pile.
func (gs *GameState) DrawFromPile(age int) (*cards.Card, bool) {
	pile := gs.DrawPiles[age]
	if len(pile) == 0 {
		return nil, false
	}
	card := pile[0]
	gs.DrawPiles[age] = pile[1:]
	return card, true
}

// ReturnToPile places a card at the bottom of its age's pile.
func (gs *GameState) ReturnToPile(card *cards.Card) {
	if gs.DrawPiles == nil {
		gs.DrawPiles = make(map[int][]*cards.Card)
	}
	gs.DrawPiles[card.Age] = append(gs.DrawPiles[card.Age], card)
}

// Achievement finds an unclaimed achievement by name.
func (gs *GameState) Achievement(name string) (*achievements.Achievement, bool) {
	for _, a := range gs.Achievements {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// ClaimAchievement removes an unclaimed achievement from the table.
func (gs *GameState) ClaimAchievement(name string) (*achievements.Achievement, bool) {
	for i, a := range gs.Achievements {
		if a.Name == name {
			gs.Achievements = append(gs.Achievements[:i:i], gs.Achievements[i+1:]...)
			return a, true
		}
	}
	return nil, false
}

// Clone deep-copies players, piles and achievements.
func (gs *GameState) Clone() *GameState {
	clone := &GameState{
		Players:      make([]*player.Player, len(gs.Players)),
		DrawPiles:    make(map[int][]*cards.Card, len(gs.DrawPiles)),
		Achievements: append([]*achievements.Achievement(nil), gs.Achievements...),
	}
	for i, p := range gs.Players {
		clone.Players[i] = p.Clone()
	}
	for age, pile := range gs.DrawPiles {
		clone.DrawPiles[age] = append([]*cards.Card(nil), pile...)
	}
	return clone
}

// pileAges returns the ages that have a pile, ascending.
func (gs *GameState) pileAges() []int {
	ages := make([]int, 0, len(gs.DrawPiles))
	for age := range gs.DrawPiles {
		ages = append(ages, age)
	}
	sort.Ints(ages)
	return ages
}
