package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/innovationgame/innovation-server-go/internal/game/cards"
)

// Snapshot is a name-only copy of the table used for replay and state
// comparison.
type Snapshot struct {
	Timestamp    time.Time
	Label        string
	PlayerOrder  []string
	Players      map[string]PlayerSnapshot
	DrawPiles    map[int][]string
	Achievements []string
}

// PlayerSnapshot captures one player's zones.
type PlayerSnapshot struct {
	Hand         []string
	ScorePile    []string
	Achievements []string
	Board        map[string]StackSnapshot
}

// StackSnapshot captures one color pile, bottom card first.
type StackSnapshot struct {
	Cards []string
	Splay string
}

// Checksum identifies a snapshot's deterministic content.
type Checksum struct {
	Hash      string
	Timestamp string
	Version   int
}

// TakeSnapshot copies the table into a Snapshot.
func (gs *GameState) TakeSnapshot(label string) *Snapshot {
	snap := &Snapshot{
		Timestamp:   time.Now(),
		Label:       label,
		PlayerOrder: make([]string, 0, len(gs.Players)),
		Players:     make(map[string]PlayerSnapshot, len(gs.Players)),
		DrawPiles:   make(map[int][]string, len(gs.DrawPiles)),
	}

	for _, p := range gs.Players {
		snap.PlayerOrder = append(snap.PlayerOrder, p.ID)
		ps := PlayerSnapshot{
			Hand:         cardNames(p.Hand),
			ScorePile:    cardNames(p.ScorePile),
			Achievements: append([]string(nil), p.Achievements...),
			Board:        make(map[string]StackSnapshot, len(p.Board)),
		}
		for color, stack := range p.Board {
			if stack.IsEmpty() {
				continue
			}
			ps.Board[color.String()] = StackSnapshot{
				Cards: cardNames(stack.Cards()),
				Splay: stack.Splay().String(),
			}
		}
		snap.Players[p.ID] = ps
	}

	for _, age := range gs.pileAges() {
		snap.DrawPiles[age] = cardNames(gs.DrawPiles[age])
	}
	for _, a := range gs.Achievements {
		snap.Achievements = append(snap.Achievements, a.Name)
	}
	return snap
}

// ComputeChecksum hashes the deterministic representation of the snapshot.
func (s *Snapshot) ComputeChecksum() (*Checksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.deterministicRepresentation())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &Checksum{
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		Timestamp: s.Timestamp.Format("2006-01-02T15:04:05.000Z"),
		Version:   1,
	}, nil
}

// VerifyChecksum compares the snapshot against an expected checksum.
func (s *Snapshot) VerifyChecksum(expected *Checksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// deterministicRepresentation renders the snapshot independent of map order
// and timestamps. Hands and score piles are sets, so they are sorted; pile
// and stack order is significant and kept.
func (s *Snapshot) deterministicRepresentation() string {
	var buf bytes.Buffer

	buf.WriteString("PLAYER_ORDER:")
	buf.WriteString(strings.Join(s.PlayerOrder, ","))
	buf.WriteString("\n")

	ids := make([]string, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := s.Players[id]
		buf.WriteString(fmt.Sprintf("PLAYER:%s\n", id))
		buf.WriteString(fmt.Sprintf("  HAND:%s\n", strings.Join(sorted(p.Hand), ",")))
		buf.WriteString(fmt.Sprintf("  SCORE:%s\n", strings.Join(sorted(p.ScorePile), ",")))
		buf.WriteString(fmt.Sprintf("  ACHIEVEMENTS:%s\n", strings.Join(sorted(p.Achievements), ",")))

		colors := make([]string, 0, len(p.Board))
		for color := range p.Board {
			colors = append(colors, color)
		}
		sort.Strings(colors)
		for _, color := range colors {
			stack := p.Board[color]
			buf.WriteString(fmt.Sprintf("  STACK:%s|%s|%s\n", color, stack.Splay, strings.Join(stack.Cards, ",")))
		}
	}

	ages := make([]int, 0, len(s.DrawPiles))
	for age := range s.DrawPiles {
		ages = append(ages, age)
	}
	sort.Ints(ages)
	for _, age := range ages {
		buf.WriteString(fmt.Sprintf("PILE:%d|%s\n", age, strings.Join(s.DrawPiles[age], ",")))
	}

	buf.WriteString("ACHIEVEMENTS:")
	buf.WriteString(strings.Join(sorted(s.Achievements), ","))
	buf.WriteString("\n")

	return buf.String()
}

func cardNames(list []*cards.Card) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
