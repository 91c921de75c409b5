package catalog

import (
	"github.com/innovationgame/innovation-server-go/internal/game/achievements"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/dogma"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

func drawTo(p *player.Player, level int, loc effects.Location) *effects.Draw {
	return &effects.Draw{Player: p, Level: level, Location: effects.Always(loc)}
}

func ageOne() map[string][]dogma.Effect {
	return map[string][]dogma.Effect{
		"Archery":       {dogma.NewDemand(cards.SymbolCastle, archery, nil)},
		"Metalworking":  {dogma.NewDogma(cards.SymbolCastle, metalworking)},
		"Oars":          {dogma.NewDemand(cards.SymbolCastle, oars, oarsChained)},
		"Agriculture":   {dogma.NewDogma(cards.SymbolLeaf, agriculture)},
		"Domestication": {dogma.NewDogma(cards.SymbolCastle, domestication)},
		"Masonry":       {dogma.NewDogma(cards.SymbolCastle, masonry)},
		"Clothing": {
			dogma.NewDogma(cards.SymbolLeaf, clothingMeld),
			dogma.NewDogma(cards.SymbolLeaf, clothingScore),
		},
		"Sailing":   {dogma.NewDogma(cards.SymbolCrown, sailing)},
		"The Wheel": {dogma.NewDogma(cards.SymbolCastle, theWheel)},
		"Pottery": {
			dogma.NewDogma(cards.SymbolLeaf, potteryReturn),
			dogma.NewDogma(cards.SymbolLeaf, potteryDraw),
		},
		"Tools": {
			dogma.NewDogma(cards.SymbolLightBulb, toolsReturnThree),
			dogma.NewDogma(cards.SymbolLightBulb, toolsReturnAgeThree),
		},
		"Writing":      {dogma.NewDogma(cards.SymbolLightBulb, writing)},
		"Code of Laws": {dogma.NewDogma(cards.SymbolCrown, codeOfLaws)},
		"City States":  {dogma.NewDemand(cards.SymbolCrown, cityStates, nil)},
		"Mysticism":    {dogma.NewDogma(cards.SymbolCastle, mysticism)},
	}
}

// I demand you draw a 1, then transfer the highest card in your hand to my
// hand.
func archery(_ *state.GameState, activating, target *player.Player) effects.Effect {
	return &effects.Draw{
		Player:   target,
		Level:    1,
		Location: effects.Always(effects.LocationHand),
		OnCompletion: effects.Then(&effects.TransferCard{
			Giving:           target,
			AllowedReceiving: []*player.Player{activating},
			Allowed:          effects.HighestOf(effects.HandOf(target)),
			From:             effects.LocationHand,
			To:               effects.LocationHand,
		}),
	}
}

func hasCastle(drawn []*cards.Card) bool {
	return len(cards.WithSymbol(drawn, cards.SymbolCastle)) > 0
}

// Draw and reveal a 1. Score it and repeat while it has a castle, otherwise
// keep it.
func metalworking(_ *state.GameState, activating *player.Player) effects.Effect {
	return &effects.Draw{
		Player: activating,
		Level:  1,
		Location: func(drawn []*cards.Card) effects.Location {
			if hasCastle(drawn) {
				return effects.LocationScorePile
			}
			return effects.LocationHand
		},
		RepeatWhile: hasCastle,
		Reveal:      true,
	}
}

// I demand you transfer a card with a crown from your hand to my score
// pile. If you do, draw a 1.
func oars(_ *state.GameState, activating, target *player.Player) effects.Effect {
	if len(cards.WithSymbol(target.Hand, cards.SymbolCrown)) == 0 {
		return nil
	}
	return &effects.TransferCard{
		Giving:           target,
		AllowedReceiving: []*player.Player{activating},
		Allowed:          effects.Filtered(effects.HandOf(target), func(c *cards.Card) bool { return c.HasSymbol(cards.SymbolCrown) }),
		From:             effects.LocationHand,
		To:               effects.LocationScorePile,
		OnCompletion:     effects.Then(drawTo(target, 1, effects.LocationHand)),
	}
}

// If no cards were transferred, draw a 1.
func oarsChained(_ *state.GameState, activating *player.Player, outcomes []*effects.Outcome) effects.Effect {
	if dogma.AnyAffected(outcomes) {
		return nil
	}
	return drawTo(activating, 1, effects.LocationHand)
}

// You may return a card from your hand. If you do, draw and score a card of
// value one higher.
func agriculture(_ *state.GameState, activating *player.Player) effects.Effect {
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
			return drawTo(activating, o.Cards[0].Age+1, effects.LocationScorePile)
		},
	}}
}

// Meld the lowest card in your hand. Draw a 1.
func domestication(_ *state.GameState, activating *player.Player) effects.Effect {
	draw := drawTo(activating, 1, effects.LocationHand)
	if len(activating.Hand) == 0 {
		return draw
	}
	return &effects.Meld{
		Player:       activating,
		Allowed:      effects.LowestOf(effects.HandOf(activating)),
		OnCompletion: effects.Then(draw),
	}
}

// You may meld any number of cards from your hand, each with a castle. If
// you meld four or more, claim Monument.
func masonry(_ *state.GameState, activating *player.Player) effects.Effect {
	castles := cards.WithSymbol(activating.Hand, cards.SymbolCastle)
	if len(castles) == 0 {
		return nil
	}
	return &effects.Optional{Operation: &effects.Meld{
		Player:   activating,
		Allowed:  effects.Fixed(castles...),
		MinCards: 1,
		MaxCards: len(castles),
		OnCompletion: func(o effects.Outcome) effects.Effect {
			if len(o.Cards) < 4 {
				return nil
			}
			return &effects.Achieve{Player: activating, Achievement: achievements.Monument}
		},
	}}
}

// Meld a card from your hand of a color not on your board.
func clothingMeld(_ *state.GameState, activating *player.Player) effects.Effect {
	occupied := activating.ColorsWithCards()
	fresh := cards.Filter(activating.Hand, func(c *cards.Card) bool { return !hasColor(occupied, c.Color) })
	if len(fresh) == 0 {
		return nil
	}
	return &effects.Meld{Player: activating, Allowed: effects.Fixed(fresh...)}
}

// Draw and score a 1 for each color on your board that no opponent has.
func clothingScore(gs *state.GameState, activating *player.Player) effects.Effect {
	var others []cards.Color
	for _, p := range gs.Opponents(activating) {
		others = append(others, p.ColorsWithCards()...)
	}
	unique := 0
	for _, c := range activating.ColorsWithCards() {
		if !hasColor(others, c) {
			unique++
		}
	}
	if unique == 0 {
		return nil
	}
	draw := drawTo(activating, 1, effects.LocationScorePile)
	draw.NumCards = unique
	return draw
}

// Draw and meld a 1.
func sailing(_ *state.GameState, activating *player.Player) effects.Effect {
	return drawTo(activating, 1, effects.LocationBoard)
}

// Draw two 1.
func theWheel(_ *state.GameState, activating *player.Player) effects.Effect {
	first := drawTo(activating, 1, effects.LocationHand)
	first.OnCompletion = effects.Then(drawTo(activating, 1, effects.LocationHand))
	return first
}

// You may return up to three cards from your hand. If you do, draw and
// score a card of value equal to the number returned.
func potteryReturn(_ *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.Hand) == 0 {
		return nil
	}
	return &effects.Optional{Operation: &effects.Return{
		Player:   activating,
		Allowed:  effects.HandOf(activating),
		MinCards: 1,
		MaxCards: 3,
		OnCompletion: func(o effects.Outcome) effects.Effect {
			if len(o.Cards) == 0 {
				return nil
			}
			return drawTo(activating, len(o.Cards), effects.LocationScorePile)
		},
	}}
}

// Draw a 1.
func potteryDraw(_ *state.GameState, activating *player.Player) effects.Effect {
	return drawTo(activating, 1, effects.LocationHand)
}

// You may return three cards from your hand. If you do, draw and meld a 3.
func toolsReturnThree(_ *state.GameState, activating *player.Player) effects.Effect {
	if len(activating.Hand) < 3 {
		return nil
	}
	return &effects.Optional{Operation: &effects.Return{
		Player:       activating,
		Allowed:      effects.HandOf(activating),
		MinCards:     3,
		MaxCards:     3,
		OnCompletion: effects.Then(drawTo(activating, 3, effects.LocationBoard)),
	}}
}

// You may return a 3 from your hand. If you do, draw three 1.
func toolsReturnAgeThree(_ *state.GameState, activating *player.Player) effects.Effect {
	threes := cards.OfAge(activating.Hand, 3)
	if len(threes) == 0 {
		return nil
	}
	draw := drawTo(activating, 1, effects.LocationHand)
	draw.NumCards = 3
	return &effects.Optional{Operation: &effects.Return{
		Player:       activating,
		Allowed:      effects.Fixed(threes...),
		MinCards:     1,
		MaxCards:     1,
		OnCompletion: effects.Then(draw),
	}}
}

// Draw a 2.
func writing(_ *state.GameState, activating *player.Player) effects.Effect {
	return drawTo(activating, 2, effects.LocationHand)
}

// You may tuck a card from your hand of a color on your board. If you do,
// you may splay that color left.
func codeOfLaws(_ *state.GameState, activating *player.Player) effects.Effect {
	occupied := activating.ColorsWithCards()
	matching := cards.OfColors(activating.Hand, occupied...)
	if len(matching) == 0 {
		return nil
	}
	return &effects.Optional{Operation: &effects.Tuck{
		Player:  activating,
		Allowed: effects.Fixed(matching...),
		OnCompletion: func(o effects.Outcome) effects.Effect {
			if len(o.Cards) == 0 {
				return nil
			}
			return &effects.Optional{Operation: &effects.Splay{
				Player:            activating,
				AllowedColors:     cards.Colors(o.Cards),
				AllowedDirections: []cards.SplayDirection{cards.SplayLeft},
			}}
		},
	}}
}

// I demand you transfer a top card with a castle from your board to my
// board if you have at least four castles on your board. If you do, draw
// a 1.
func cityStates(_ *state.GameState, activating, target *player.Player) effects.Effect {
	if target.SymbolCount()[cards.SymbolCastle] < 4 {
		return nil
	}
	if len(cards.WithSymbol(target.TopCards(), cards.SymbolCastle)) == 0 {
		return nil
	}
	return &effects.TransferCard{
		Giving:           target,
		AllowedReceiving: []*player.Player{activating},
		Allowed:          effects.Filtered(effects.TopCardsOf(target), func(c *cards.Card) bool { return c.HasSymbol(cards.SymbolCastle) }),
		From:             effects.LocationBoard,
		To:               effects.LocationBoard,
		OnCompletion:     effects.Then(drawTo(target, 1, effects.LocationHand)),
	}
}

// Draw a 1. If it is the same color as any card on your board, meld it and
// draw a 1.
func mysticism(_ *state.GameState, activating *player.Player) effects.Effect {
	occupied := activating.ColorsWithCards()
	matches := func(drawn []*cards.Card) bool {
		for _, c := range drawn {
			if hasColor(occupied, c.Color) {
				return true
			}
		}
		return false
	}
	return &effects.Draw{
		Player: activating,
		Level:  1,
		Location: func(drawn []*cards.Card) effects.Location {
			if matches(drawn) {
				return effects.LocationBoard
			}
			return effects.LocationHand
		},
		OnCompletion: func(o effects.Outcome) effects.Effect {
			if !matches(o.Cards) {
				return nil
			}
			return drawTo(activating, 1, effects.LocationHand)
		},
	}
}
