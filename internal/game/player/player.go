package player

import (
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
)

// Player owns a board of color stacks, a hand, a score pile and the names
// of claimed achievements. Players are identified by ID.
type Player struct {
	ID           string
	Board        map[cards.Color]*cards.CardStack
	Hand         []*cards.Card
	ScorePile    []*cards.Card
	Achievements []string
}

// New creates a player with an empty board.
func New(id string, hand ...*cards.Card) *Player {
	return &Player{
		ID:    id,
		Board: make(map[cards.Color]*cards.CardStack),
		Hand:  append([]*cards.Card(nil), hand...),
	}
}

// Equal compares players by ID.
func (p *Player) Equal(other *Player) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.ID == other.ID
}

// Score is the sum of the ages in the score pile.
func (p *Player) Score() int {
	total := 0
	for _, c := range p.ScorePile {
		total += c.Age
	}
	return total
}

// Stack returns the stack for a color, or nil when the color was never melded.
func (p *Player) Stack(color cards.Color) *cards.CardStack {
	return p.Board[color]
}

// stackFor returns the stack for a color, creating it on first use.
func (p *Player) stackFor(color cards.Color) *cards.CardStack {
	if p.Board == nil {
		p.Board = make(map[cards.Color]*cards.CardStack)
	}
	stack, ok := p.Board[color]
	if !ok {
		stack = cards.NewStack(cards.SplayNone)
		p.Board[color] = stack
	}
	return stack
}

// TopCards returns the top card of each occupied color in palette order.
func (p *Player) TopCards() []*cards.Card {
	var out []*cards.Card
	for _, color := range cards.AllColors {
		if stack, ok := p.Board[color]; ok {
			if top, ok := stack.TopCard(); ok {
				out = append(out, top)
			}
		}
	}
	return out
}

// TopCard returns the top card of a color.
func (p *Player) TopCard(color cards.Color) (*cards.Card, bool) {
	stack, ok := p.Board[color]
	if !ok {
		return nil, false
	}
	return stack.TopCard()
}

// MaxTopAge is the highest age among top cards, or 1 for an empty board.
func (p *Player) MaxTopAge() int {
	max := 0
	for _, c := range p.TopCards() {
		if c.Age > max {
			max = c.Age
		}
	}
	if max == 0 {
		return 1
	}
	return max
}

// SymbolCount sums the visible symbols of every stack.
func (p *Player) SymbolCount() map[cards.SymbolType]int {
	totals := make(map[cards.SymbolType]int, len(cards.AllSymbols))
	for _, sym := range cards.AllSymbols {
		totals[sym] = 0
	}
	for _, stack := range p.Board {
		for sym, n := range stack.SymbolCount() {
			totals[sym] += n
		}
	}
	return totals
}

// ColorsWithCards returns occupied colors in palette order.
func (p *Player) ColorsWithCards() []cards.Color {
	var out []cards.Color
	for _, color := range cards.AllColors {
		if stack, ok := p.Board[color]; ok && !stack.IsEmpty() {
			out = append(out, color)
		}
	}
	return out
}

// HasColor reports whether the color pile is occupied.
func (p *Player) HasColor(color cards.Color) bool {
	stack, ok := p.Board[color]
	return ok && !stack.IsEmpty()
}

// SplayableColors returns colors whose stack has at least two cards.
func (p *Player) SplayableColors() []cards.Color {
	var out []cards.Color
	for _, color := range cards.AllColors {
		if stack, ok := p.Board[color]; ok && stack.CanSplay() {
			out = append(out, color)
		}
	}
	return out
}

// HasAchievement reports whether the named achievement was claimed.
func (p *Player) HasAchievement(name string) bool {
	for _, a := range p.Achievements {
		if a == name {
			return true
		}
	}
	return false
}

// Meld moves a card from hand to the top of its color stack.
func (p *Player) Meld(card *cards.Card) bool {
	if !p.RemoveFromHand(card) {
		return false
	}
	p.MeldOnBoard(card)
	return true
}

// MeldOnBoard places a card on top of its color stack without touching the hand.
func (p *Player) MeldOnBoard(card *cards.Card) {
	p.stackFor(card.Color).Push(card)
}

// TuckOnBoard places a card at the bottom of its color stack.
func (p *Player) TuckOnBoard(card *cards.Card) {
	p.stackFor(card.Color).Tuck(card)
}

// RemoveTopCard removes the card when it is the top card of its color.
func (p *Player) RemoveTopCard(card *cards.Card) bool {
	stack, ok := p.Board[card.Color]
	if !ok {
		return false
	}
	top, ok := stack.TopCard()
	if !ok || !top.Equal(card) {
		return false
	}
	stack.PopTop()
	return true
}

// AddToHand puts a card into the hand.
func (p *Player) AddToHand(card *cards.Card) {
	p.Hand = append(p.Hand, card)
}

// RemoveFromHand takes a card out of the hand.
func (p *Player) RemoveFromHand(card *cards.Card) bool {
	var ok bool
	p.Hand, ok = remove(p.Hand, card)
	return ok
}

// AddToScorePile puts a card into the score pile.
func (p *Player) AddToScorePile(card *cards.Card) {
	p.ScorePile = append(p.ScorePile, card)
}

// RemoveFromScorePile takes a card out of the score pile.
func (p *Player) RemoveFromScorePile(card *cards.Card) bool {
	var ok bool
	p.ScorePile, ok = remove(p.ScorePile, card)
	return ok
}

// Clone deep-copies the zones. Card values are shared.
func (p *Player) Clone() *Player {
	clone := &Player{
		ID:           p.ID,
		Board:        make(map[cards.Color]*cards.CardStack, len(p.Board)),
		Hand:         append([]*cards.Card(nil), p.Hand...),
		ScorePile:    append([]*cards.Card(nil), p.ScorePile...),
		Achievements: append([]string(nil), p.Achievements...),
	}
	for color, stack := range p.Board {
		clone.Board[color] = stack.Clone()
	}
	return clone
}

func remove(list []*cards.Card, card *cards.Card) ([]*cards.Card, bool) {
	for i, c := range list {
		if c.Equal(card) {
			out := make([]*cards.Card, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}
