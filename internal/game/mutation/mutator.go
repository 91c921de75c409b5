// Package mutation applies resolved card movements to a GameState.
package mutation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// Mutator is the default rules.Mutator. It keeps every card in exactly one
// zone: a move that would take a card from a zone it is not in fails
// before anything changes.
type Mutator struct {
	logger *zap.Logger
}

var _ rules.Mutator = (*Mutator)(nil)

// New creates a mutator. The logger may be nil.
func New(logger *zap.Logger) *Mutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mutator{logger: logger}
}

func (m *Mutator) Draw(gs *state.GameState, p *player.Player, age, n int) []*cards.Card {
	var drawn []*cards.Card
	for i := 0; i < n; i++ {
		card, ok := gs.DrawFromPile(age)
		if !ok {
			m.logger.Debug("draw pile exhausted",
				zap.String("player", p.ID),
				zap.Int("age", age),
				zap.Int("requested", n),
				zap.Int("drawn", len(drawn)))
			break
		}
		drawn = append(drawn, card)
	}
	return drawn
}

func (m *Mutator) Place(gs *state.GameState, p *player.Player, card *cards.Card, loc effects.Location, tuck bool) error {
	switch loc {
	case effects.LocationHand:
		p.AddToHand(card)
	case effects.LocationScorePile:
		p.AddToScorePile(card)
	case effects.LocationBoard:
		if tuck {
			p.TuckOnBoard(card)
		} else {
			p.MeldOnBoard(card)
		}
	default:
		return fmt.Errorf("%w: cannot place %s in %s", rules.ErrInvariantViolation, card.Name, loc)
	}
	return nil
}

func (m *Mutator) Meld(gs *state.GameState, p *player.Player, card *cards.Card) error {
	if !p.Meld(card) {
		return notIn(p, card, effects.LocationHand)
	}
	return nil
}

func (m *Mutator) Tuck(gs *state.GameState, p *player.Player, card *cards.Card) error {
	if !p.RemoveFromHand(card) {
		return notIn(p, card, effects.LocationHand)
	}
	p.TuckOnBoard(card)
	return nil
}

func (m *Mutator) Return(gs *state.GameState, p *player.Player, card *cards.Card) error {
	if !p.RemoveFromHand(card) {
		return notIn(p, card, effects.LocationHand)
	}
	gs.ReturnToPile(card)
	return nil
}

func (m *Mutator) Score(gs *state.GameState, p *player.Player, card *cards.Card) error {
	if !p.RemoveFromHand(card) {
		return notIn(p, card, effects.LocationHand)
	}
	p.AddToScorePile(card)
	return nil
}

func (m *Mutator) Transfer(gs *state.GameState, from, to *player.Player, card *cards.Card, fromLoc, toLoc effects.Location) error {
	if err := take(from, card, fromLoc); err != nil {
		return err
	}
	return m.Place(gs, to, card, toLoc, false)
}

func (m *Mutator) Exchange(gs *state.GameState, giver, receiver *player.Player, giving, receiving []*cards.Card, givingLoc, receivingLoc effects.Location) error {
	for _, c := range giving {
		if !inZone(giver, c, givingLoc) {
			return notIn(giver, c, givingLoc)
		}
	}
	for _, c := range receiving {
		if !inZone(receiver, c, receivingLoc) {
			return notIn(receiver, c, receivingLoc)
		}
	}
	// Both sides leave their zones before either lands, so a player
	// exchanging with themselves does not pick their own cards back up.
	for _, c := range giving {
		if err := take(giver, c, givingLoc); err != nil {
			return err
		}
	}
	for _, c := range receiving {
		if err := take(receiver, c, receivingLoc); err != nil {
			return err
		}
	}
	for _, c := range giving {
		if err := m.Place(gs, receiver, c, receivingLoc, false); err != nil {
			return err
		}
	}
	for _, c := range receiving {
		if err := m.Place(gs, giver, c, givingLoc, false); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mutator) Splay(gs *state.GameState, p *player.Player, color cards.Color, dir cards.SplayDirection) error {
	stack := p.Stack(color)
	if stack == nil || !stack.SetSplay(dir) {
		return fmt.Errorf("%w: %s cannot splay %s %s", rules.ErrInvariantViolation, p.ID, color, dir)
	}
	return nil
}

func (m *Mutator) Achieve(gs *state.GameState, p *player.Player, name string) (bool, error) {
	if p.HasAchievement(name) {
		return false, nil
	}
	if _, ok := gs.ClaimAchievement(name); !ok {
		m.logger.Debug("achievement not available",
			zap.String("player", p.ID),
			zap.String("achievement", name))
		return false, nil
	}
	p.Achievements = append(p.Achievements, name)
	return true, nil
}

func inZone(p *player.Player, card *cards.Card, loc effects.Location) bool {
	switch loc {
	case effects.LocationHand:
		return cards.Contains(p.Hand, card)
	case effects.LocationScorePile:
		return cards.Contains(p.ScorePile, card)
	case effects.LocationBoard:
		top, ok := p.TopCard(card.Color)
		return ok && top.Equal(card)
	default:
		return false
	}
}

func take(p *player.Player, card *cards.Card, loc effects.Location) error {
	var ok bool
	switch loc {
	case effects.LocationHand:
		ok = p.RemoveFromHand(card)
	case effects.LocationScorePile:
		ok = p.RemoveFromScorePile(card)
	case effects.LocationBoard:
		ok = p.RemoveTopCard(card)
	}
	if !ok {
		return notIn(p, card, loc)
	}
	return nil
}

func notIn(p *player.Player, card *cards.Card, loc effects.Location) error {
	return fmt.Errorf("%w: %s is not in the %s of %s", rules.ErrInvariantViolation, card.Name, loc, p.ID)
}
