package catalog

import (
	"github.com/innovationgame/innovation-server-go/internal/game/achievements"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/dogma"
)

// New builds a catalog from card faces and the standard achievements,
// attaching the base effects of every face it knows.
func New(faces []*cards.Card) (*Catalog, error) {
	b := NewBuilder().AddCards(faces...).AddAchievements(achievements.Standard()...)
	for name, list := range baseEffects() {
		if _, ok := b.cards[name]; !ok {
			continue
		}
		for i, eff := range list {
			b.Register(name, i, eff)
		}
	}
	return b.Build()
}

// Base builds the catalog of the bundled base deck.
func Base() (*Catalog, error) {
	faces, err := BaseFaces()
	if err != nil {
		return nil, err
	}
	list, err := FaceCards(faces)
	if err != nil {
		return nil, err
	}
	return New(list)
}

func baseEffects() map[string][]dogma.Effect {
	all := make(map[string][]dogma.Effect)
	for _, set := range []map[string][]dogma.Effect{ageOne(), ageTwo(), ageThree()} {
		for name, list := range set {
			all[name] = list
		}
	}
	return all
}

func hasColor(list []cards.Color, c cards.Color) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}
