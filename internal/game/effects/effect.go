// Package effects describes card effects as plain values. Nothing in this
// package mutates game state: an Effect is a tree of primitives and sequence
// operators that the rules resolver interprets. A nil Effect means "no
// effect"; card definitions return nil when a precondition is not met.
package effects

import (
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// Effect is one node of an effect tree.
type Effect interface {
	effectNode()
}

// Primitive is an effect that mutates game state.
type Primitive interface {
	Effect
	primitive()
	// Continuation returns the OnCompletion hook, or nil.
	Continuation() Continuation
}

// Location is a player zone.
type Location int

const (
	LocationHand Location = iota + 1
	LocationBoard
	LocationScorePile
)

// String returns the zone name.
func (l Location) String() string {
	switch l {
	case LocationHand:
		return "hand"
	case LocationBoard:
		return "board"
	case LocationScorePile:
		return "score_pile"
	default:
		return "unknown"
	}
}

// Outcome is what a resolved effect touched.
type Outcome struct {
	// Cards moved, drawn, melded or scored by the effect. For an exchange
	// these are the cards given.
	Cards []*cards.Card
	// Received holds the cards taken in an exchange.
	Received []*cards.Card
	// Revealed holds cards shown to every player by a revealing draw.
	Revealed []*cards.Card
	// Player is the receiving player of a transfer or exchange.
	Player *player.Player
	// Color and Direction record a splay.
	Color     cards.Color
	Direction cards.SplayDirection
	// Achievement is the name of an achievement granted.
	Achievement string
}

// Empty reports whether the outcome touched nothing.
func (o Outcome) Empty() bool {
	return len(o.Cards) == 0 && len(o.Received) == 0 && o.Color == 0 && o.Achievement == ""
}

// Merge combines two outcomes, keeping the first non-zero scalar fields.
func (o Outcome) Merge(other Outcome) Outcome {
	merged := Outcome{
		Cards:       cards.Union(o.Cards, other.Cards),
		Received:    cards.Union(o.Received, other.Received),
		Revealed:    cards.Union(o.Revealed, other.Revealed),
		Player:      o.Player,
		Color:       o.Color,
		Direction:   o.Direction,
		Achievement: o.Achievement,
	}
	if merged.Player == nil {
		merged.Player = other.Player
	}
	if merged.Color == 0 {
		merged.Color = other.Color
		merged.Direction = other.Direction
	}
	if merged.Achievement == "" {
		merged.Achievement = other.Achievement
	}
	return merged
}

// Continuation computes the next effect from a primitive's outcome.
type Continuation func(Outcome) Effect

// CardSelector computes the cards an effect may act on. Every input is an
// explicit parameter; target is the player the effect is being resolved
// for (the activating player for a dogma).
type CardSelector func(gs *state.GameState, activating, target *player.Player) []*cards.Card

// Fixed returns a selector yielding the given cards.
func Fixed(list ...*cards.Card) CardSelector {
	fixed := append([]*cards.Card(nil), list...)
	return func(*state.GameState, *player.Player, *player.Player) []*cards.Card {
		return fixed
	}
}

// HandOf returns a selector over p's current hand.
func HandOf(p *player.Player) CardSelector {
	return func(*state.GameState, *player.Player, *player.Player) []*cards.Card {
		return p.Hand
	}
}

// TargetHand returns a selector over the target player's current hand.
func TargetHand() CardSelector {
	return func(_ *state.GameState, _, target *player.Player) []*cards.Card {
		return target.Hand
	}
}

// ScorePileOf returns a selector over p's current score pile.
func ScorePileOf(p *player.Player) CardSelector {
	return func(*state.GameState, *player.Player, *player.Player) []*cards.Card {
		return p.ScorePile
	}
}

// TopCardsOf returns a selector over p's current top cards.
func TopCardsOf(p *player.Player) CardSelector {
	return func(*state.GameState, *player.Player, *player.Player) []*cards.Card {
		return p.TopCards()
	}
}

// Filtered narrows another selector.
func Filtered(sel CardSelector, keep func(*cards.Card) bool) CardSelector {
	return func(gs *state.GameState, activating, target *player.Player) []*cards.Card {
		return cards.Filter(sel(gs, activating, target), keep)
	}
}

// HighestOf narrows another selector to its highest-age cards.
func HighestOf(sel CardSelector) CardSelector {
	return func(gs *state.GameState, activating, target *player.Player) []*cards.Card {
		return cards.Highest(sel(gs, activating, target))
	}
}

// LowestOf narrows another selector to its lowest-age cards.
func LowestOf(sel CardSelector) CardSelector {
	return func(gs *state.GameState, activating, target *player.Player) []*cards.Card {
		return cards.Lowest(sel(gs, activating, target))
	}
}

// Then returns a continuation ignoring the outcome.
func Then(next Effect) Continuation {
	return func(Outcome) Effect { return next }
}

// Always returns a location function ignoring the drawn cards.
func Always(loc Location) func([]*cards.Card) Location {
	return func([]*cards.Card) Location { return loc }
}
