package effects

import (
	"fmt"
	"strings"

	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
)

// Describe renders an effect tree as a deterministic one-line string.
// Continuations cannot be inspected before they run and show as "then".
func Describe(e Effect) string {
	if IsNone(e) {
		return "none"
	}
	switch v := e.(type) {
	case *Draw:
		level := "max"
		if v.Level > 0 {
			level = fmt.Sprint(v.Level)
		}
		parts := []string{playerID(v.Player), "level=" + level, fmt.Sprintf("n=%d", v.Count())}
		if v.RepeatWhile != nil {
			parts = append(parts, "repeat")
		}
		if v.Reveal {
			parts = append(parts, "reveal")
		}
		if v.Tuck {
			parts = append(parts, "tuck")
		}
		return node("Draw", parts, v.OnCompletion)
	case *Meld:
		return node("Meld", choiceParts(v.Player, v.MinCards, v.MaxCards), v.OnCompletion)
	case *Tuck:
		return node("Tuck", choiceParts(v.Player, v.MinCards, v.MaxCards), v.OnCompletion)
	case *Return:
		return node("Return", choiceParts(v.Player, v.MinCards, v.MaxCards), v.OnCompletion)
	case *Score:
		return node("Score", choiceParts(v.Player, v.MinCards, v.MaxCards), v.OnCompletion)
	case *TransferCard:
		n := v.NumCards
		if n <= 0 {
			n = 1
		}
		parts := []string{
			"from=" + playerID(v.Giving),
			"to=" + playerIDs(v.AllowedReceiving),
			v.From.String() + "->" + v.To.String(),
			fmt.Sprintf("n=%d", n),
		}
		return node("TransferCard", parts, v.OnCompletion)
	case *ExchangeCards:
		parts := []string{
			"giving=" + playerIDs(v.AllowedGiving),
			"receiving=" + playerIDs(v.AllowedReceiving),
			v.GivingLocation.String() + "<->" + v.ReceivingLocation.String(),
			fmt.Sprintf("n=%d/%d", v.NumGiving, v.NumReceiving),
		}
		return node("ExchangeCards", parts, v.OnCompletion)
	case *Splay:
		colors := make([]string, 0, len(v.AllowedColors))
		for _, c := range v.AllowedColors {
			colors = append(colors, c.String())
		}
		dirs := make([]string, 0, len(v.AllowedDirections))
		for _, d := range v.AllowedDirections {
			dirs = append(dirs, d.String())
		}
		parts := []string{playerID(v.Player), "colors=" + strings.Join(colors, "|"), "dirs=" + strings.Join(dirs, "|")}
		return node("Splay", parts, v.OnCompletion)
	case *Achieve:
		return node("Achieve", []string{playerID(v.Player), v.Achievement}, v.OnCompletion)
	case *And:
		members := make([]string, 0, len(v.Members))
		for _, m := range v.Members {
			members = append(members, Describe(m))
		}
		return "And[" + strings.Join(members, ", ") + "]"
	case *UpTo:
		return fmt.Sprintf("UpTo(%d, %s)", v.NumTimes, Describe(v.Primitive))
	case *Optional:
		return "Optional(" + Describe(v.Operation) + ")"
	default:
		return fmt.Sprintf("%T", e)
	}
}

func node(name string, parts []string, next Continuation) string {
	if next != nil {
		parts = append(parts, "then")
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func choiceParts(p *player.Player, min, max int) []string {
	return []string{playerID(p), fmt.Sprintf("min=%d", min), fmt.Sprintf("max=%d", max)}
}

func playerID(p *player.Player) string {
	if p == nil {
		return "acting"
	}
	return p.ID
}

func playerIDs(ps []*player.Player) string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, "|")
}

// CardNames is a logging helper returning the names of cards in order.
func CardNames(list []*cards.Card) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}
