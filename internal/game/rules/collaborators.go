package rules

import (
	"context"

	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// Mutator performs the card movements the resolver has decided on. Every
// method either applies the whole change or returns an error wrapping
// ErrInvariantViolation and leaves the state untouched.
type Mutator interface {
	// Draw takes up to n cards from the top of the age pile. Fewer cards
	// come back when the pile runs out. The cards are not yet placed.
	Draw(gs *state.GameState, p *player.Player, age, n int) []*cards.Card
	// Place puts a drawn card into one of the player's zones. On the board
	// the card is melded, or tucked when tuck is set.
	Place(gs *state.GameState, p *player.Player, card *cards.Card, loc effects.Location, tuck bool) error
	Meld(gs *state.GameState, p *player.Player, card *cards.Card) error
	Tuck(gs *state.GameState, p *player.Player, card *cards.Card) error
	// Return moves a hand card to the bottom of its age pile.
	Return(gs *state.GameState, p *player.Player, card *cards.Card) error
	Score(gs *state.GameState, p *player.Player, card *cards.Card) error
	Transfer(gs *state.GameState, from, to *player.Player, card *cards.Card, fromLoc, toLoc effects.Location) error
	// Exchange moves giving from the giver's givingLoc to the receiver's
	// receivingLoc and receiving the other way, as one step.
	Exchange(gs *state.GameState, giver, receiver *player.Player, giving, receiving []*cards.Card, givingLoc, receivingLoc effects.Location) error
	Splay(gs *state.GameState, p *player.Player, color cards.Color, dir cards.SplayDirection) error
	// Achieve grants an unclaimed achievement and reports whether it did.
	Achieve(gs *state.GameState, p *player.Player, name string) (bool, error)
}

// PromptKind names the decision being asked for.
type PromptKind string

const (
	PromptMeld           PromptKind = "MELD"
	PromptTuck           PromptKind = "TUCK"
	PromptReturn         PromptKind = "RETURN"
	PromptScore          PromptKind = "SCORE"
	PromptTransfer       PromptKind = "TRANSFER"
	PromptExchangeGive   PromptKind = "EXCHANGE_GIVE"
	PromptExchangeTake   PromptKind = "EXCHANGE_TAKE"
	PromptChooseReceiver PromptKind = "CHOOSE_RECEIVER"
	PromptChooseGiver    PromptKind = "CHOOSE_GIVER"
	PromptSplay          PromptKind = "SPLAY"
	PromptOptional       PromptKind = "OPTIONAL"
)

// CardPrompt asks a player to pick between Min and Max of Options.
type CardPrompt struct {
	Kind         PromptKind
	ActivationID string
	SourceCard   string
	Player       *player.Player
	Options      []*cards.Card
	Min          int
	Max          int
}

// PlayerPrompt asks a player to pick one of Options.
type PlayerPrompt struct {
	Kind         PromptKind
	ActivationID string
	SourceCard   string
	Player       *player.Player
	Options      []*player.Player
}

// SplayPrompt asks a player to pick a color and a direction.
type SplayPrompt struct {
	ActivationID string
	SourceCard   string
	Player       *player.Player
	Colors       []cards.Color
	Directions   []cards.SplayDirection
}

// Allows reports whether color and dir answer the prompt: both must be
// offered and the pile must not already be splayed that way.
func (p SplayPrompt) Allows(color cards.Color, dir cards.SplayDirection) bool {
	if !containsColor(p.Colors, color) || !containsDirection(p.Directions, dir) {
		return false
	}
	if p.Player == nil {
		return false
	}
	stack := p.Player.Stack(color)
	return stack != nil && stack.Splay() != dir
}

// AcceptPrompt asks a player whether to resolve an optional effect.
type AcceptPrompt struct {
	ActivationID string
	SourceCard   string
	Player       *player.Player
	// Effect is the Describe rendering of the optional operation.
	Effect string
}

// Decider supplies player decisions. Calls block until the player has
// answered; cancellation and timeouts belong to the implementation and
// surface as ctx errors.
type Decider interface {
	ChooseCards(ctx context.Context, prompt CardPrompt) ([]*cards.Card, error)
	ChoosePlayer(ctx context.Context, prompt PlayerPrompt) (*player.Player, error)
	ChooseSplay(ctx context.Context, prompt SplayPrompt) (cards.Color, cards.SplayDirection, error)
	Accept(ctx context.Context, prompt AcceptPrompt) (bool, error)
}
