package cards

import "sort"

// Highest returns every card sharing the highest age. Order is preserved.
func Highest(cards []*Card) []*Card {
	if len(cards) == 0 {
		return nil
	}
	max := cards[0].Age
	for _, c := range cards[1:] {
		if c.Age > max {
			max = c.Age
		}
	}
	return OfAge(cards, max)
}

// Lowest returns every card sharing the lowest age. Order is preserved.
func Lowest(cards []*Card) []*Card {
	if len(cards) == 0 {
		return nil
	}
	min := cards[0].Age
	for _, c := range cards[1:] {
		if c.Age < min {
			min = c.Age
		}
	}
	return OfAge(cards, min)
}

// OfAge filters cards to the given age.
func OfAge(cards []*Card, age int) []*Card {
	return Filter(cards, func(c *Card) bool { return c.Age == age })
}

// WithSymbol filters cards carrying the symbol anywhere on their face.
func WithSymbol(cards []*Card, sym SymbolType) []*Card {
	return Filter(cards, func(c *Card) bool { return c.HasSymbol(sym) })
}

// WithoutSymbol filters cards that do not carry the symbol.
func WithoutSymbol(cards []*Card, sym SymbolType) []*Card {
	return Filter(cards, func(c *Card) bool { return !c.HasSymbol(sym) })
}

// OfColors filters cards whose color is in the set.
func OfColors(cards []*Card, colors ...Color) []*Card {
	return Filter(cards, func(c *Card) bool {
		for _, color := range colors {
			if c.Color == color {
				return true
			}
		}
		return false
	})
}

// Filter returns the cards matching keep. The result is nil when nothing
// matches.
func Filter(cards []*Card, keep func(*Card) bool) []*Card {
	var out []*Card
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Colors returns the distinct colors of the cards in palette order.
func Colors(cards []*Card) []Color {
	seen := make(map[Color]bool)
	for _, c := range cards {
		seen[c.Color] = true
	}
	var out []Color
	for _, color := range AllColors {
		if seen[color] {
			out = append(out, color)
		}
	}
	return out
}

// Contains reports whether a card with the same name is present.
func Contains(cards []*Card, card *Card) bool {
	for _, c := range cards {
		if c.Equal(card) {
			return true
		}
	}
	return false
}

// Names returns the card names sorted alphabetically.
func Names(cards []*Card) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Union concatenates card lists, dropping repeated names.
func Union(lists ...[]*Card) []*Card {
	var out []*Card
	for _, list := range lists {
		for _, c := range list {
			if !Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}
