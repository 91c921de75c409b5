// Package catalog holds the card catalog: the card faces and the ordered
// effect list of every card. A Catalog is built once through a Builder and
// is read-only afterwards, so it can be shared across games.
package catalog

import (
	"fmt"
	"sort"

	"github.com/innovationgame/innovation-server-go/internal/game/achievements"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/dogma"
)

// Entry is one catalog card and its effects in activation order.
type Entry struct {
	Card    *cards.Card
	Effects []dogma.Effect
}

// Builder collects cards and effects before the catalog is frozen.
type Builder struct {
	cards        map[string]*cards.Card
	effects      map[string]map[int]dogma.Effect
	achievements map[string]*achievements.Achievement
	err          error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		cards:        make(map[string]*cards.Card),
		effects:      make(map[string]map[int]dogma.Effect),
		achievements: make(map[string]*achievements.Achievement),
	}
}

// AddCards registers card faces. A repeated name is an error reported by
// Build.
func (b *Builder) AddCards(list ...*cards.Card) *Builder {
	for _, c := range list {
		if _, dup := b.cards[c.Name]; dup {
			b.fail(fmt.Errorf("card %s registered twice", c.Name))
			continue
		}
		b.cards[c.Name] = c
	}
	return b
}

// AddAchievements registers achievements by name.
func (b *Builder) AddAchievements(list ...*achievements.Achievement) *Builder {
	for _, a := range list {
		if _, dup := b.achievements[a.Name]; dup {
			b.fail(fmt.Errorf("achievement %s registered twice", a.Name))
			continue
		}
		b.achievements[a.Name] = a
	}
	return b
}

// Register places an effect at a position of a card's effect list.
func (b *Builder) Register(card string, position int, eff dogma.Effect) *Builder {
	if position < 0 {
		b.fail(fmt.Errorf("%s: negative effect position %d", card, position))
		return b
	}
	byPos, ok := b.effects[card]
	if !ok {
		byPos = make(map[int]dogma.Effect)
		b.effects[card] = byPos
	}
	if _, dup := byPos[position]; dup {
		b.fail(fmt.Errorf("%s: effect %d registered twice", card, position))
		return b
	}
	byPos[position] = eff
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build freezes the builder. Every effect must belong to a registered card
// and every card's positions must run 0..n-1 without gaps.
func (b *Builder) Build() (*Catalog, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := &Catalog{
		entries:      make(map[string]Entry, len(b.cards)),
		achievements: make(map[string]*achievements.Achievement, len(b.achievements)),
	}
	for name, byPos := range b.effects {
		if _, ok := b.cards[name]; !ok {
			return nil, fmt.Errorf("effects registered for unknown card %s", name)
		}
		for i := 0; i < len(byPos); i++ {
			if _, ok := byPos[i]; !ok {
				return nil, fmt.Errorf("%s: effect %d missing", name, i)
			}
		}
	}
	for name, card := range b.cards {
		byPos := b.effects[name]
		list := make([]dogma.Effect, len(byPos))
		for i := range list {
			list[i] = byPos[i]
		}
		c.entries[name] = Entry{Card: card, Effects: list}
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	for name, a := range b.achievements {
		c.achievements[name] = a
	}
	return c, nil
}

// Catalog is a read-only registry of cards and achievements.
type Catalog struct {
	entries      map[string]Entry
	names        []string
	achievements map[string]*achievements.Achievement
}

// Entry looks up a card by name. The effect slice is a copy.
func (c *Catalog) Entry(name string) (Entry, bool) {
	e, ok := c.entries[name]
	if !ok {
		return Entry{}, false
	}
	e.Effects = append([]dogma.Effect(nil), e.Effects...)
	return e, true
}

// Card looks up a card face by name.
func (c *Catalog) Card(name string) (*cards.Card, bool) {
	e, ok := c.entries[name]
	return e.Card, ok
}

// Effects returns a copy of a card's effect list.
func (c *Catalog) Effects(name string) []dogma.Effect {
	return append([]dogma.Effect(nil), c.entries[name].Effects...)
}

// Names lists every card name, sorted.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// OfAge returns the cards of one age, sorted by name.
func (c *Catalog) OfAge(age int) []*cards.Card {
	var out []*cards.Card
	for _, name := range c.names {
		if card := c.entries[name].Card; card.Age == age {
			out = append(out, card)
		}
	}
	return out
}

// Achievement looks up an achievement by name.
func (c *Catalog) Achievement(name string) (*achievements.Achievement, bool) {
	a, ok := c.achievements[name]
	return a, ok
}

// Achievements returns every registered achievement ordered by name.
func (c *Catalog) Achievements() []*achievements.Achievement {
	out := make([]*achievements.Achievement, 0, len(c.achievements))
	for _, a := range c.achievements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
