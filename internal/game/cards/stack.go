package cards

// SplayDirection tilts a color pile so lower cards show some icons.
type SplayDirection int

const (
	SplayNone SplayDirection = iota
	SplayLeft
	SplayRight
	SplayUp
)

// String returns the direction name.
func (d SplayDirection) String() string {
	switch d {
	case SplayNone:
		return "none"
	case SplayLeft:
		return "left"
	case SplayRight:
		return "right"
	case SplayUp:
		return "up"
	default:
		return "unknown"
	}
}

// visiblePositions maps a splay direction to the positions counted on
// every card below the top card.
var visiblePositions = map[SplayDirection]map[Position]bool{
	SplayNone:  {},
	SplayLeft:  {PositionBottomRight: true},
	SplayRight: {PositionTopLeft: true, PositionBottomLeft: true},
	SplayUp:    {PositionBottomLeft: true, PositionBottomMiddle: true, PositionBottomRight: true},
}

// CardStack is a player's pile for one color. Cards are ordered bottom to
// top; the last card is the top card.
type CardStack struct {
	cards []*Card
	splay SplayDirection
}

// NewStack builds a stack from cards listed bottom to top.
func NewStack(splay SplayDirection, cards ...*Card) *CardStack {
	return &CardStack{
		cards: append([]*Card(nil), cards...),
		splay: splay,
	}
}

// Cards returns a copy of the pile, bottom first.
func (s *CardStack) Cards() []*Card {
	out := make([]*Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Len returns the number of cards in the pile.
func (s *CardStack) Len() int {
	return len(s.cards)
}

// IsEmpty reports whether the pile has no cards.
func (s *CardStack) IsEmpty() bool {
	return len(s.cards) == 0
}

// Splay returns the current splay direction.
func (s *CardStack) Splay() SplayDirection {
	return s.splay
}

// TopCard returns the most recently melded card.
func (s *CardStack) TopCard() (*Card, bool) {
	if len(s.cards) == 0 {
		return nil, false
	}
	return s.cards[len(s.cards)-1], true
}

// CanSplay reports whether the pile holds at least two cards.
func (s *CardStack) CanSplay() bool {
	return len(s.cards) >= 2
}

// SymbolCount counts the top card fully and each lower card only at the
// positions exposed by the splay direction.
func (s *CardStack) SymbolCount() map[SymbolType]int {
	counts := make(map[SymbolType]int, len(AllSymbols))
	for _, sym := range AllSymbols {
		counts[sym] = 0
	}
	if len(s.cards) == 0 {
		return counts
	}

	top := s.cards[len(s.cards)-1]
	for _, sym := range top.Symbols {
		counts[sym.Type]++
	}

	visible := visiblePositions[s.splay]
	for _, card := range s.cards[:len(s.cards)-1] {
		for _, sym := range card.Symbols {
			if visible[sym.Position] {
				counts[sym.Type]++
			}
		}
	}
	return counts
}

// Push places a card on top of the pile.
func (s *CardStack) Push(card *Card) {
	s.cards = append(s.cards, card)
}

// Tuck places a card at the bottom of the pile.
func (s *CardStack) Tuck(card *Card) {
	s.cards = append([]*Card{card}, s.cards...)
}

// PopTop removes the top card. A pile left with fewer than two cards loses
// its splay.
func (s *CardStack) PopTop() (*Card, bool) {
	if len(s.cards) == 0 {
		return nil, false
	}
	top := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	if len(s.cards) < 2 {
		s.splay = SplayNone
	}
	return top, true
}

// SetSplay changes the splay direction. It reports false when the pile is
// too small to splay.
func (s *CardStack) SetSplay(direction SplayDirection) bool {
	if direction != SplayNone && !s.CanSplay() {
		return false
	}
	s.splay = direction
	return true
}

// Clone returns an independent copy of the pile.
func (s *CardStack) Clone() *CardStack {
	return NewStack(s.splay, s.cards...)
}
