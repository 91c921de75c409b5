package catalog

import (
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/dogma"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

func ageThree() map[string][]dogma.Effect {
	return map[string][]dogma.Effect{
		"Engineering": {
			dogma.NewDemand(cards.SymbolCastle, engineeringDemand, nil),
			dogma.NewDogma(cards.SymbolCastle, splayRedLeft),
		},
		"Optics": {dogma.NewDogma(cards.SymbolCrown, optics)},
		"Machinery": {
			dogma.NewDemand(cards.SymbolLeaf, machineryDemand, nil),
			dogma.NewDogma(cards.SymbolLeaf, machineryScore),
		},
		"Medicine": {dogma.NewDemand(cards.SymbolLeaf, medicine, nil)},
		"Compass":  {dogma.NewDemand(cards.SymbolCrown, compass, nil)},
	}
}

func withCastle(c *cards.Card) bool { return c.HasSymbol(cards.SymbolCastle) }

// I demand you transfer all top cards with a castle from your board to my
// score pile.
func engineeringDemand(_ *state.GameState, activating, target *player.Player) effects.Effect {
	castles := cards.Filter(target.TopCards(), withCastle)
	if len(castles) == 0 {
		return nil
	}
	return &effects.TransferCard{
		Giving:           target,
		AllowedReceiving: []*player.Player{activating},
		Allowed:          effects.Filtered(effects.TopCardsOf(target), withCastle),
		From:             effects.LocationBoard,
		To:               effects.LocationScorePile,
		NumCards:         len(castles),
	}
}

func redLeft(p *player.Player) *effects.Optional {
	return &effects.Optional{Operation: &effects.Splay{
		Player:            p,
		AllowedColors:     []cards.Color{cards.ColorRed},
		AllowedDirections: []cards.SplayDirection{cards.SplayLeft},
	}}
}

// You may splay your red cards left.
func splayRedLeft(_ *state.GameState, activating *player.Player) effects.Effect {
	if !hasColor(activating.SplayableColors(), cards.ColorRed) {
		return nil
	}
	return redLeft(activating)
}

// Draw and meld a 3. If it has a crown, draw and score a 4. Otherwise
// transfer a card from your score pile to an opponent with fewer points.
func optics(gs *state.GameState, activating *player.Player) effects.Effect {
	return &effects.Draw{
		Player:   activating,
		Level:    3,
		Location: effects.Always(effects.LocationBoard),
		OnCompletion: func(o effects.Outcome) effects.Effect {
			if len(cards.WithSymbol(o.Cards, cards.SymbolCrown)) > 0 {
				return drawTo(activating, 4, effects.LocationScorePile)
			}
			var poorer []*player.Player
			for _, p := range gs.Opponents(activating) {
				if p.Score() < activating.Score() {
					poorer = append(poorer, p)
				}
			}
			if len(poorer) == 0 || len(activating.ScorePile) == 0 {
				return nil
			}
			return &effects.TransferCard{
				Giving:           activating,
				AllowedReceiving: poorer,
				Allowed:          effects.ScorePileOf(activating),
				From:             effects.LocationScorePile,
				To:               effects.LocationScorePile,
			}
		},
	}
}

// I demand you exchange all the highest cards in your hand with all the
// highest cards in my hand.
func machineryDemand(_ *state.GameState, activating, target *player.Player) effects.Effect {
	mine := cards.Highest(activating.Hand)
	theirs := cards.Highest(target.Hand)
	if len(mine) == 0 && len(theirs) == 0 {
		return nil
	}
	return &effects.ExchangeCards{
		AllowedGiving:     []*player.Player{activating},
		AllowedReceiving:  []*player.Player{target},
		GivingCards:       effects.Fixed(mine...),
		ReceivingCards:    effects.Fixed(theirs...),
		NumGiving:         len(mine),
		NumReceiving:      len(theirs),
		GivingLocation:    effects.LocationHand,
		ReceivingLocation: effects.LocationHand,
	}
}

// Score a card from your hand with a castle. You may splay your red cards
// left.
func machineryScore(_ *state.GameState, activating *player.Player) effects.Effect {
	if len(cards.Filter(activating.Hand, withCastle)) == 0 {
		return splayRedLeft(nil, activating)
	}
	return &effects.Score{
		Player:       activating,
		Allowed:      effects.Filtered(effects.HandOf(activating), withCastle),
		MinCards:     1,
		MaxCards:     1,
		OnCompletion: effects.Then(redLeft(activating)),
	}
}

// I demand you exchange the highest card in your score pile with the lowest
// card in my score pile.
func medicine(_ *state.GameState, activating, target *player.Player) effects.Effect {
	if len(activating.ScorePile) == 0 && len(target.ScorePile) == 0 {
		return nil
	}
	return &effects.ExchangeCards{
		AllowedGiving:     []*player.Player{activating},
		AllowedReceiving:  []*player.Player{target},
		GivingCards:       effects.Fixed(cards.Lowest(activating.ScorePile)...),
		ReceivingCards:    effects.Fixed(cards.Highest(target.ScorePile)...),
		NumGiving:         1,
		NumReceiving:      1,
		GivingLocation:    effects.LocationScorePile,
		ReceivingLocation: effects.LocationScorePile,
	}
}

// I demand you transfer a top non-green card with a leaf from your board to
// my board. If you do, transfer a top card without a leaf from my board to
// your board.
func compass(_ *state.GameState, activating, target *player.Player) effects.Effect {
	leafy := func(c *cards.Card) bool { return c.HasSymbol(cards.SymbolLeaf) && c.Color != cards.ColorGreen }
	bare := func(c *cards.Card) bool { return !c.HasSymbol(cards.SymbolLeaf) }
	giveBack := &effects.TransferCard{
		Giving:           activating,
		AllowedReceiving: []*player.Player{target},
		Allowed:          effects.Filtered(effects.TopCardsOf(activating), bare),
		From:             effects.LocationBoard,
		To:               effects.LocationBoard,
	}

	switch {
	case len(cards.Filter(target.TopCards(), leafy)) > 0:
		return &effects.TransferCard{
			Giving:           target,
			AllowedReceiving: []*player.Player{activating},
			Allowed:          effects.Filtered(effects.TopCardsOf(target), leafy),
			From:             effects.LocationBoard,
			To:               effects.LocationBoard,
			OnCompletion:     effects.Then(giveBack),
		}
	case len(cards.Filter(activating.TopCards(), bare)) > 0:
		return giveBack
	default:
		return nil
	}
}
