package cards

import (
	"fmt"
	"strings"
)

// Color is one of the five board colors.
type Color int

const (
	ColorRed Color = iota + 1
	ColorYellow
	ColorGreen
	ColorBlue
	ColorPurple
)

// AllColors lists the palette in board order.
var AllColors = []Color{ColorRed, ColorYellow, ColorGreen, ColorBlue, ColorPurple}

// String returns the lowercase color name.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorPurple:
		return "purple"
	default:
		return "unknown"
	}
}

// ParseColor converts a color name into a Color.
func ParseColor(s string) (Color, error) {
	for _, c := range AllColors {
		if strings.EqualFold(c.String(), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// SymbolType is an icon printed on a card face.
type SymbolType int

const (
	SymbolLeaf SymbolType = iota + 1
	SymbolCrown
	SymbolLightBulb
	SymbolCastle
	SymbolFactory
	SymbolClock
)

// AllSymbols lists every symbol type.
var AllSymbols = []SymbolType{SymbolLeaf, SymbolCrown, SymbolLightBulb, SymbolCastle, SymbolFactory, SymbolClock}

// String returns the symbol name.
func (s SymbolType) String() string {
	switch s {
	case SymbolLeaf:
		return "leaf"
	case SymbolCrown:
		return "crown"
	case SymbolLightBulb:
		return "lightbulb"
	case SymbolCastle:
		return "castle"
	case SymbolFactory:
		return "factory"
	case SymbolClock:
		return "clock"
	default:
		return "unknown"
	}
}

// ParseSymbol converts a symbol name into a SymbolType.
func ParseSymbol(s string) (SymbolType, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "")
	for _, sym := range AllSymbols {
		if sym.String() == name {
			return sym, nil
		}
	}
	return 0, fmt.Errorf("unknown symbol %q", s)
}

// Position is one of the four icon slots on a card face.
type Position int

const (
	PositionTopLeft Position = iota + 1
	PositionBottomLeft
	PositionBottomMiddle
	PositionBottomRight
)

// String returns the position name.
func (p Position) String() string {
	switch p {
	case PositionTopLeft:
		return "top_left"
	case PositionBottomLeft:
		return "bottom_left"
	case PositionBottomMiddle:
		return "bottom_middle"
	case PositionBottomRight:
		return "bottom_right"
	default:
		return "unknown"
	}
}

// ParsePosition converts a position name into a Position.
func ParsePosition(s string) (Position, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range []Position{PositionTopLeft, PositionBottomLeft, PositionBottomMiddle, PositionBottomRight} {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown position %q", s)
}

// Symbol places a symbol type in a face position.
type Symbol struct {
	Type     SymbolType
	Position Position
}

// Card is an immutable catalog card. Cards are compared by name.
type Card struct {
	Name    string
	Color   Color
	Age     int
	Symbols []Symbol
}

// New builds a card value.
func New(name string, color Color, age int, symbols ...Symbol) *Card {
	return &Card{
		Name:    name,
		Color:   color,
		Age:     age,
		Symbols: append([]Symbol(nil), symbols...),
	}
}

// HasSymbol reports whether any face position carries the symbol.
func (c *Card) HasSymbol(sym SymbolType) bool {
	for _, s := range c.Symbols {
		if s.Type == sym {
			return true
		}
	}
	return false
}

// Equal compares cards by name.
func (c *Card) Equal(other *Card) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name == other.Name
}

func (c *Card) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s/%d)", c.Name, c.Color, c.Age)
}
