// Package dogma runs the ordered effect list of an activated card. Dogma
// effects resolve once for the activating player; demand effects resolve
// once per targeted opponent and may chain a follow-up from the collected
// outcomes.
package dogma

import (
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// Kind tags which resolver an Effect carries.
type Kind int

const (
	KindDogma Kind = iota + 1
	KindDemand
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDogma:
		return "dogma"
	case KindDemand:
		return "demand"
	default:
		return "unknown"
	}
}

// DogmaFunc builds the effect for the activating player.
type DogmaFunc func(gs *state.GameState, activating *player.Player) effects.Effect

// DemandFunc builds the effect one targeted opponent must resolve.
type DemandFunc func(gs *state.GameState, activating, target *player.Player) effects.Effect

// ChainedFunc builds a follow-up for the activating player from the
// per-target outcomes of a demand, in target order. A nil entry means the
// demand had no effect on that target.
type ChainedFunc func(gs *state.GameState, activating *player.Player, outcomes []*effects.Outcome) effects.Effect

// Effect is one entry of a card's effect list. Exactly one of Dogma and
// Demand is set, matching Kind.
type Effect struct {
	Kind    Kind
	Symbol  cards.SymbolType
	Dogma   DogmaFunc
	Demand  DemandFunc
	Chained ChainedFunc
}

// NewDogma builds a dogma effect.
func NewDogma(symbol cards.SymbolType, fn DogmaFunc) Effect {
	return Effect{Kind: KindDogma, Symbol: symbol, Dogma: fn}
}

// NewDemand builds a demand effect. chained may be nil.
func NewDemand(symbol cards.SymbolType, fn DemandFunc, chained ChainedFunc) Effect {
	return Effect{Kind: KindDemand, Symbol: symbol, Demand: fn, Chained: chained}
}

// AnyAffected reports whether at least one target was affected.
func AnyAffected(outcomes []*effects.Outcome) bool {
	for _, o := range outcomes {
		if o != nil && !o.Empty() {
			return true
		}
	}
	return false
}

// NoneAffected reports whether no target was affected.
func NoneAffected(outcomes []*effects.Outcome) bool {
	return !AnyAffected(outcomes)
}
