package achievements

import (
	"fmt"

	"github.com/innovationgame/innovation-server-go/internal/game/player"
)

// Special achievement names.
const (
	Monument = "Monument"
	Empire   = "Empire"
	Wonder   = "Wonder"
	World    = "World"
	Universe = "Universe"
)

// Achievement is a claimable marker. Automatic achievements are only granted
// by an explicit Achieve effect; the others are scoring achievements
// evaluated from a player's score and top cards.
type Achievement struct {
	Name         string
	IsAutomatic  bool
	Level        int
	ConditionMet func(p *player.Player) bool
}

// ScoringName returns the name of the scoring achievement for a level.
func ScoringName(level int) string {
	return fmt.Sprintf("Scoring Achievement %d", level)
}

// ScoringConditionMet reports whether a player qualifies for the scoring
// achievement of the given level.
func ScoringConditionMet(p *player.Player, level int) bool {
	return p.Score() >= level*5 && p.MaxTopAge() >= level
}

// Scoring builds the scoring achievement for a level.
func Scoring(level int) *Achievement {
	return &Achievement{
		Name:  ScoringName(level),
		Level: level,
		ConditionMet: func(p *player.Player) bool {
			return ScoringConditionMet(p, level)
		},
	}
}

// Special builds a special achievement whose condition is checked by the
// card effect that grants it.
func Special(name string) *Achievement {
	return &Achievement{
		Name:         name,
		IsAutomatic:  true,
		ConditionMet: func(*player.Player) bool { return false },
	}
}

// Standard returns the five special and nine scoring achievements.
func Standard() []*Achievement {
	out := []*Achievement{
		Special(Monument),
		Special(Empire),
		Special(Wonder),
		Special(World),
		Special(Universe),
	}
	for level := 1; level <= 9; level++ {
		out = append(out, Scoring(level))
	}
	return out
}

// Claimable returns the scoring achievements a player currently qualifies for.
func Claimable(p *player.Player, available []*Achievement) []*Achievement {
	var out []*Achievement
	for _, a := range available {
		if a.IsAutomatic || a.ConditionMet == nil {
			continue
		}
		if a.ConditionMet(p) {
			out = append(out, a)
		}
	}
	return out
}
