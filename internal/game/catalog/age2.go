package catalog

import (
	"github.com/innovationgame/innovation-server-go/internal/game/achievements"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/dogma"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

func ageTwo() map[string][]dogma.Effect {
	return map[string][]dogma.Effect{
		"Construction": {
			dogma.NewDemand(cards.SymbolCastle, constructionDemand, nil),
			dogma.NewDogma(cards.SymbolCastle, constructionEmpire),
		},
		"Road Building":  {dogma.NewDogma(cards.SymbolCastle, roadBuilding)},
		"Canal Building": {dogma.NewDogma(cards.SymbolCrown, canalBuilding)},
		"Fermenting":     {dogma.NewDogma(cards.SymbolLeaf, fermenting)},
		"Currency":       {dogma.NewDogma(cards.SymbolCrown, currency)},
		"Mapmaking":      {dogma.NewDemand(cards.SymbolCrown, mapmaking, mapmakingChained)},
		"Calendar":       {dogma.NewDogma(cards.SymbolLeaf, calendar)},
		"Mathematics":    {dogma.NewDogma(cards.SymbolLightBulb, mathematics)},
		"Monotheism": {
			dogma.NewDemand(cards.SymbolCastle, monotheismDemand, nil),
			dogma.NewDogma(cards.SymbolCastle, monotheismTuck),
		},
		"Philosophy": {
			dogma.NewDogma(cards.SymbolLightBulb, philosophySplay),
			dogma.NewDogma(cards.SymbolLightBulb, philosophyScore),
		},
	}
}

// I demand you transfer two cards from your hand to my hand, then draw a 2.
func constructionDemand(_ *state.GameState, activating, target *player.Player) effects.Effect {
	draw := drawTo(target, 2, effects.LocationHand)
	if len(target.Hand) == 0 {
		return draw
	}
	return &effects.TransferCard{
		Giving:           target,
		AllowedReceiving: []*player.Player{activating},
		Allowed:          effects.HandOf(target),
		From:             effects.LocationHand,
		To:               effects.LocationHand,
		NumCards:         2,
		OnCompletion:     effects.Then(draw),
	}
}

// If you are the only player with five top cards, claim Empire.
func constructionEmpire(gs *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.TopCards()) < len(cards.AllColors) {
		return nil
	}
	for _, p := range gs.Opponents(activating) {
		if len(p.TopCards()) == len(cards.AllColors) {
			return nil
		}
	}
	return &effects.Achieve{Player: activating, Achievement: achievements.Empire}
}

func topOf(p *player.Player, color cards.Color) []*cards.Card {
	if top, ok := p.TopCard(color); ok {
		return []*cards.Card{top}
	}
	return nil
}

// Meld one or two cards from your hand. If you melded two, you may
// transfer your top red card to an opponent's board and take their top
// green card onto yours.
func roadBuilding(gs *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.Hand) == 0 {
		return nil
	}
	opponents := gs.Opponents(activating)
	return &effects.Meld{
		Player:   activating,
		Allowed:  effects.HandOf(activating),
		MinCards: 1,
		MaxCards: 2,
		OnCompletion: func(o effects.Outcome) effects.Effect {
			if len(o.Cards) != 2 || len(opponents) == 0 {
				return nil
			}
			return &effects.Optional{Operation: &effects.ExchangeCards{
				AllowedGiving:    []*player.Player{activating},
				AllowedReceiving: opponents,
				GivingCards: func(_ *state.GameState, giver, _ *player.Player) []*cards.Card {
					return topOf(giver, cards.ColorRed)
				},
				ReceivingCards: func(_ *state.GameState, _, receiver *player.Player) []*cards.Card {
					return topOf(receiver, cards.ColorGreen)
				},
				NumGiving:         1,
				NumReceiving:      1,
				GivingLocation:    effects.LocationBoard,
				ReceivingLocation: effects.LocationBoard,
			}}
		},
	}
}

// You may exchange all the highest cards in your hand with all the highest
// cards in your score pile.
func canalBuilding(_ *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.Hand) == 0 && len(activating.ScorePile) == 0 {
		return nil
	}
	hand := cards.Highest(activating.Hand)
	score := cards.Highest(activating.ScorePile)
	return &effects.Optional{Operation: &effects.ExchangeCards{
		AllowedGiving:     []*player.Player{activating},
		AllowedReceiving:  []*player.Player{activating},
		GivingCards:       effects.Fixed(hand...),
		ReceivingCards:    effects.Fixed(score...),
		NumGiving:         len(hand),
		NumReceiving:      len(score),
		GivingLocation:    effects.LocationHand,
		ReceivingLocation: effects.LocationScorePile,
	}}
}

// Draw a 2 for every two leaves on your board.
func fermenting(_ *state.GameState, activating *player.Player) effects.Effect {
	n := activating.SymbolCount()[cards.SymbolLeaf] / 2
	if n == 0 {
		return nil
	}
	draw := drawTo(activating, 2, effects.LocationHand)
	draw.NumCards = n
	return draw
}

// You may return any number of cards from your hand. If you do, draw and
// score a 2 for every different value returned.
func currency(_ *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.Hand) == 0 {
		return nil
	}
	return &effects.Optional{Operation: &effects.Return{
		Player:   activating,
		Allowed:  effects.HandOf(activating),
		MinCards: 1,
		MaxCards: len(activating.Hand),
		OnCompletion: func(o effects.Outcome) effects.Effect {
			ages := make(map[int]bool)
			for _, c := range o.Cards {
				ages[c.Age] = true
			}
			if len(ages) == 0 {
				return nil
			}
			draw := drawTo(activating, 2, effects.LocationScorePile)
			draw.NumCards = len(ages)
			return draw
		},
	}}
}

// I demand you transfer a 1 from your score pile to my score pile.
func mapmaking(_ *state.GameState, activating, target *player.Player) effects.Effect {
	if len(cards.OfAge(target.ScorePile, 1)) == 0 {
		return nil
	}
	return &effects.TransferCard{
		Giving:           target,
		AllowedReceiving: []*player.Player{activating},
		Allowed:          effects.Filtered(effects.ScorePileOf(target), func(c *cards.Card) bool { return c.Age == 1 }),
		From:             effects.LocationScorePile,
		To:               effects.LocationScorePile,
	}
}

// If any card was transferred, draw and score a 1.
func mapmakingChained(_ *state.GameState, activating *player.Player, outcomes []*effects.Outcome) effects.Effect {
	if dogma.NoneAffected(outcomes) {
		return nil
	}
	return drawTo(activating, 1, effects.LocationScorePile)
}

// If you have more cards in your score pile than in your hand, draw two 3.
func calendar(_ *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.ScorePile) <= len(activating.Hand) {
		return nil
	}
	draw := drawTo(activating, 3, effects.LocationHand)
	draw.NumCards = 2
	return draw
}

// You may return a card from your hand. If you do, draw and meld a card of
// value one higher.
func mathematics(_ *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.Hand) == 0 {
		return nil
	}
	return &effects.Optional{Operation: &effects.Return{
		Player:   activating,
		Allowed:  effects.HandOf(activating),
		MinCards: 1,
		MaxCards: 1,
		OnCompletion: func(o effects.Outcome) effects.Effect {
			if len(o.Cards) == 0 {
				return nil
			}
			return drawTo(activating, o.Cards[0].Age+1, effects.LocationBoard)
		},
	}}
}

// I demand you transfer a top card on your board of a color I do not have
// to my score pile. If you do, draw and tuck a 1.
func monotheismDemand(_ *state.GameState, activating, target *player.Player) effects.Effect {
	mine := activating.ColorsWithCards()
	missing := func(c *cards.Card) bool { return !hasColor(mine, c.Color) }
	if len(cards.Filter(target.TopCards(), missing)) == 0 {
		return nil
	}
	tuck := drawTo(target, 1, effects.LocationBoard)
	tuck.Tuck = true
	return &effects.TransferCard{
		Giving:           target,
		AllowedReceiving: []*player.Player{activating},
		Allowed:          effects.Filtered(effects.TopCardsOf(target), missing),
		From:             effects.LocationBoard,
		To:               effects.LocationScorePile,
		OnCompletion:     effects.Then(tuck),
	}
}

// Draw and tuck a 1.
func monotheismTuck(_ *state.GameState, activating *player.Player) effects.Effect {
	tuck := drawTo(activating, 1, effects.LocationBoard)
	tuck.Tuck = true
	return tuck
}

// You may splay left any one color of your cards.
func philosophySplay(_ *state.GameState, activating *player.Player) effects.Effect {
	colors := activating.SplayableColors()
	if len(colors) == 0 {
		return nil
	}
	return &effects.Optional{Operation: &effects.Splay{
		Player:            activating,
		AllowedColors:     colors,
		AllowedDirections: []cards.SplayDirection{cards.SplayLeft},
	}}
}

// You may score a card from your hand.
func philosophyScore(_ *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.Hand) == 0 {
		return nil
	}
	return &effects.Optional{Operation: &effects.Score{
		Player:   activating,
		Allowed:  effects.HandOf(activating),
		MinCards: 1,
		MaxCards: 1,
	}}
}
