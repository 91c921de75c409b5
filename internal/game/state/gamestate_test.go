package state

import (
	"testing"

	"github.com/innovationgame/innovation-server-go/internal/game/achievements"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpponentsClockwise(t *testing.T) {
	a, b, c, d := player.New("a"), player.New("b"), player.New("c"), player.New("d")
	gs := New(a, b, c, d)

	ids := func(ps []*player.Player) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"b", "c", "d"}, ids(gs.Opponents(a)))
	assert.Equal(t, []string{"d", "a", "b"}, ids(gs.Opponents(c)))
	assert.Nil(t, gs.Opponents(player.New("stranger")))
}

func TestDrawAndReturnPile(t *testing.T) {
	first := cards.New("Writing", cards.ColorBlue, 1)
	second := cards.New("Tools", cards.ColorBlue, 1)
	gs := New()
	gs.DrawPiles[1] = []*cards.Card{first, second}

	card, ok := gs.DrawFromPile(1)
	require.True(t, ok)
	assert.Equal(t, first, card)

	gs.ReturnToPile(card)
	assert.Equal(t, []*cards.Card{second, first}, gs.DrawPiles[1])

	_, ok = gs.DrawFromPile(2)
	assert.False(t, ok)
}

func TestClaimAchievement(t *testing.T) {
	gs := New()
	gs.Achievements = achievements.Standard()

	a, ok := gs.ClaimAchievement(achievements.Monument)
	require.True(t, ok)
	assert.Equal(t, achievements.Monument, a.Name)
	assert.Len(t, gs.Achievements, 13)

	_, ok = gs.ClaimAchievement(achievements.Monument)
	assert.False(t, ok)
}

func TestSnapshotChecksumIgnoresHandOrder(t *testing.T) {
	x := cards.New("X", cards.ColorRed, 1)
	y := cards.New("Y", cards.ColorRed, 1)

	one := New(player.New("alice", x, y))
	two := New(player.New("alice", y, x))

	c1, err := one.TakeSnapshot("one").ComputeChecksum()
	require.NoError(t, err)
	c2, err := two.TakeSnapshot("two").ComputeChecksum()
	require.NoError(t, err)
	assert.Equal(t, c1.Hash, c2.Hash)

	two.Players[0].Meld(x)
	ok, err := two.TakeSnapshot("after").VerifyChecksum(c1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	x := cards.New("X", cards.ColorRed, 1)
	gs := New(player.New("alice"))
	gs.DrawPiles[1] = []*cards.Card{x}

	clone := gs.Clone()
	clone.DrawFromPile(1)
	clone.Players[0].AddToHand(x)

	assert.Equal(t, 1, gs.PileSize(1))
	assert.Empty(t, gs.Players[0].Hand)
}
