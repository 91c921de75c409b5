package effects

import (
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
)

// Draw takes NumCards cards of age Level from the draw piles and places
// them where Location decides after looking at them. A zero Level means the
// player's highest top-card age. RepeatWhile, when set, repeats the draw
// while it holds for the cards of the last round.
type Draw struct {
	Player       *player.Player
	Location     func(drawn []*cards.Card) Location
	Level        int
	NumCards     int
	RepeatWhile  func(drawn []*cards.Card) bool
	Reveal       bool
	Tuck         bool
	OnCompletion Continuation
}

// Meld lets the acting player meld between MinCards and MaxCards of the
// allowed cards from hand. Player defaults to the player being resolved for.
type Meld struct {
	Player       *player.Player
	Allowed      CardSelector
	MinCards     int
	MaxCards     int
	OnCompletion Continuation
}

// Tuck is Meld onto the bottom of the color pile.
type Tuck struct {
	Player       *player.Player
	Allowed      CardSelector
	MinCards     int
	MaxCards     int
	OnCompletion Continuation
}

// Return moves chosen hand cards to the bottom of their age's draw pile.
type Return struct {
	Player       *player.Player
	Allowed      CardSelector
	MinCards     int
	MaxCards     int
	OnCompletion Continuation
}

// TransferCard moves NumCards of the allowed cards from one zone of the
// giving player to a zone of a receiving player chosen from
// AllowedReceiving.
type TransferCard struct {
	Giving           *player.Player
	AllowedReceiving []*player.Player
	Allowed          CardSelector
	From             Location
	To               Location
	NumCards         int
	OnCompletion     Continuation
}

// ExchangeCards swaps cards between two players at once. The giving
// cards travel from the giver's GivingLocation to the receiver's
// ReceivingLocation and the receiving cards travel back the other way.
// GivingCards and ReceivingCards are called with (gs, giver, receiver).
type ExchangeCards struct {
	AllowedGiving     []*player.Player
	AllowedReceiving  []*player.Player
	GivingCards       CardSelector
	ReceivingCards    CardSelector
	NumGiving         int
	NumReceiving      int
	GivingLocation    Location
	ReceivingLocation Location
	OnCompletion      Continuation
}

// Splay lets the player splay one allowed color in one allowed direction.
type Splay struct {
	Player            *player.Player
	AllowedColors     []cards.Color
	AllowedDirections []cards.SplayDirection
	OnCompletion      Continuation
}

// Achieve grants a special achievement. The caller has checked the condition.
type Achieve struct {
	Player       *player.Player
	Achievement  string
	OnCompletion Continuation
}

// Score moves chosen hand cards to the score pile. A zero MaxCards scores
// every allowed card without a prompt.
type Score struct {
	Player       *player.Player
	Allowed      CardSelector
	MinCards     int
	MaxCards     int
	OnCompletion Continuation
}

func (*Draw) effectNode()          {}
func (*Meld) effectNode()          {}
func (*Tuck) effectNode()          {}
func (*Return) effectNode()        {}
func (*TransferCard) effectNode()  {}
func (*ExchangeCards) effectNode() {}
func (*Splay) effectNode()         {}
func (*Achieve) effectNode()       {}
func (*Score) effectNode()         {}

func (*Draw) primitive()          {}
func (*Meld) primitive()          {}
func (*Tuck) primitive()          {}
func (*Return) primitive()        {}
func (*TransferCard) primitive()  {}
func (*ExchangeCards) primitive() {}
func (*Splay) primitive()         {}
func (*Achieve) primitive()       {}
func (*Score) primitive()         {}

func (e *Draw) Continuation() Continuation          { return e.OnCompletion }
func (e *Meld) Continuation() Continuation          { return e.OnCompletion }
func (e *Tuck) Continuation() Continuation          { return e.OnCompletion }
func (e *Return) Continuation() Continuation        { return e.OnCompletion }
func (e *TransferCard) Continuation() Continuation  { return e.OnCompletion }
func (e *ExchangeCards) Continuation() Continuation { return e.OnCompletion }
func (e *Splay) Continuation() Continuation         { return e.OnCompletion }
func (e *Achieve) Continuation() Continuation       { return e.OnCompletion }
func (e *Score) Continuation() Continuation         { return e.OnCompletion }

// Count returns the number of cards to draw per round.
func (e *Draw) Count() int {
	if e.NumCards <= 0 {
		return 1
	}
	return e.NumCards
}

// Bounds clamps a min/max cardinality pair against the number of options.
// A zero max means exactly one card.
func Bounds(min, max, options int) (int, int) {
	if max <= 0 {
		max = 1
	}
	if min < 0 {
		min = 0
	}
	if min == 0 && max > 0 {
		min = 1
	}
	if max > options {
		max = options
	}
	if min > max {
		min = max
	}
	return min, max
}
