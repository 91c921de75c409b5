package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/innovationgame/innovation-server-go/internal/game/achievements"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/decision"
	"github.com/innovationgame/innovation-server-go/internal/game/dogma"
	"github.com/innovationgame/innovation-server-go/internal/game/mutation"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

type table struct {
	t   *testing.T
	cat *Catalog
}

func newTable(t *testing.T) *table {
	t.Helper()
	cat, err := Base()
	require.NoError(t, err)
	return &table{t: t, cat: cat}
}

func (tb *table) card(name string) *cards.Card {
	tb.t.Helper()
	c, ok := tb.cat.Card(name)
	require.True(tb.t, ok, "no card %s", name)
	return c
}

func (tb *table) cards(names ...string) []*cards.Card {
	out := make([]*cards.Card, 0, len(names))
	for _, n := range names {
		out = append(out, tb.card(n))
	}
	return out
}

func (tb *table) meld(p *player.Player, names ...string) {
	for _, c := range tb.cards(names...) {
		p.MeldOnBoard(c)
	}
}

func (tb *table) activate(gs *state.GameState, decider rules.Decider, name string, activating *player.Player) *dogma.Activation {
	tb.t.Helper()
	logger := zaptest.NewLogger(tb.t)
	resolver := rules.NewResolver(mutation.New(logger), decider, nil, rules.DefaultOptions(), logger)
	d := dogma.NewDispatcher(resolver, nil, nil, logger)
	act, err := d.Activate(context.Background(), gs, "", name, activating, tb.cat.Effects(name))
	require.NoError(tb.t, err)
	return act
}

func TestArcheryDrawsThenGivesHighest(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice")
	bob := player.New("bob", tb.card("Optics"))
	gs := state.New(alice, bob)
	gs.DrawPiles[1] = tb.cards("Writing")

	tb.activate(gs, decision.NewScripted(), "Archery", alice)

	assert.Equal(t, tb.cards("Optics"), alice.Hand)
	assert.Equal(t, tb.cards("Writing"), bob.Hand)
}

func TestMetalworkingRepeatsWhileCastle(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice")
	gs := state.New(alice)
	gs.DrawPiles[1] = tb.cards("Archery", "Masonry", "Sailing", "Writing")

	act := tb.activate(gs, decision.NewScripted(), "Metalworking", alice)

	assert.Equal(t, tb.cards("Archery", "Masonry"), alice.ScorePile)
	assert.Equal(t, tb.cards("Sailing"), alice.Hand)
	assert.Equal(t, 1, gs.PileSize(1))
	require.Len(t, act.Steps, 1)
	assert.Equal(t, tb.cards("Archery", "Masonry", "Sailing"), act.Steps[0].Outcome.Revealed)
}

func TestOarsDrawsWhenNobodyGaveACard(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice")
	bob := player.New("bob", tb.card("Pottery"))
	gs := state.New(alice, bob)
	gs.DrawPiles[1] = tb.cards("Tools")

	act := tb.activate(gs, decision.NewScripted(), "Oars", alice)

	assert.Equal(t, tb.cards("Tools"), alice.Hand)
	assert.Equal(t, tb.cards("Pottery"), bob.Hand)
	require.Len(t, act.Steps, 1)
	assert.Nil(t, act.Steps[0].DemandOutcomes[0])
}

func TestOarsTransfersCrownAndSkipsBonus(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice")
	bob := player.New("bob", tb.card("Sailing"))
	gs := state.New(alice, bob)
	gs.DrawPiles[1] = tb.cards("Pottery", "Tools")

	tb.activate(gs, decision.NewScripted(), "Oars", alice)

	assert.Equal(t, tb.cards("Sailing"), alice.ScorePile)
	assert.Equal(t, tb.cards("Pottery"), bob.Hand)
	assert.Empty(t, alice.Hand)
	assert.Equal(t, 1, gs.PileSize(1))
}

func TestMasonryClaimsMonument(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice", tb.cards("Archery", "Metalworking", "Masonry", "Mysticism", "Writing")...)
	gs := state.New(alice)
	gs.Achievements = achievements.Standard()

	script := decision.NewScripted().Accepts(true).Cards("Archery", "Metalworking", "Masonry", "Mysticism")
	tb.activate(gs, script, "Masonry", alice)

	assert.True(t, alice.HasAchievement(achievements.Monument))
	assert.Equal(t, tb.cards("Writing"), alice.Hand)
	_, still := gs.Achievement(achievements.Monument)
	assert.False(t, still)
}

func TestMasonryBelowFourClaimsNothing(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice", tb.cards("Archery", "Masonry")...)
	gs := state.New(alice)
	gs.Achievements = achievements.Standard()

	tb.activate(gs, decision.NewScripted().Accepts(true).Cards("Archery", "Masonry"), "Masonry", alice)
	assert.Empty(t, alice.Achievements)
}

func TestAgricultureScoresOneHigher(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice", tb.card("Writing"))
	gs := state.New(alice)
	gs.DrawPiles[2] = tb.cards("Calendar")

	tb.activate(gs, decision.NewScripted().Accepts(true), "Agriculture", alice)

	assert.Empty(t, alice.Hand)
	assert.Equal(t, tb.cards("Calendar"), alice.ScorePile)
	assert.Equal(t, tb.cards("Writing"), gs.DrawPiles[1])
}

func TestCodeOfLawsTucksAndSplays(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice", tb.card("Oars"))
	tb.meld(alice, "Archery")
	gs := state.New(alice)

	tb.activate(gs, decision.NewScripted().Accepts(true).Accepts(true), "Code of Laws", alice)

	red := alice.Stack(cards.ColorRed)
	require.Equal(t, 2, red.Len())
	assert.Equal(t, cards.SplayLeft, red.Splay())
	top, _ := red.TopCard()
	assert.Equal(t, "Archery", top.Name)
}

func TestCanalBuildingSwapsHighest(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice", tb.cards("Calendar", "Writing")...)
	alice.ScorePile = tb.cards("Optics")
	gs := state.New(alice)

	tb.activate(gs, decision.NewScripted().Accepts(true), "Canal Building", alice)

	assert.ElementsMatch(t, tb.cards("Writing", "Optics"), alice.Hand)
	assert.Equal(t, tb.cards("Calendar"), alice.ScorePile)
}

func TestMonotheismDemandAndTuck(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice")
	tb.meld(alice, "Archery")
	bob := player.New("bob")
	tb.meld(bob, "Sailing", "Oars")
	gs := state.New(alice, bob)
	gs.DrawPiles[1] = tb.cards("Pottery", "Writing")

	tb.activate(gs, decision.NewScripted(), "Monotheism", alice)

	assert.Equal(t, tb.cards("Sailing"), alice.ScorePile)
	assert.False(t, bob.HasColor(cards.ColorGreen))
	assert.True(t, bob.HasColor(cards.ColorBlue))
	assert.True(t, alice.HasColor(cards.ColorBlue))
	assert.Zero(t, gs.PileSize(1))
}

func TestMapmakingChainedScoreWhenTransferred(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice")
	bob := player.New("bob")
	bob.ScorePile = tb.cards("Sailing")
	carol := player.New("carol")
	gs := state.New(alice, bob, carol)
	gs.DrawPiles[1] = tb.cards("Writing")

	act := tb.activate(gs, decision.NewScripted(), "Mapmaking", alice)

	assert.Equal(t, tb.cards("Sailing", "Writing"), alice.ScorePile)
	require.Len(t, act.Steps[0].DemandOutcomes, 2)
	assert.NotNil(t, act.Steps[0].DemandOutcomes[0])
	assert.Nil(t, act.Steps[0].DemandOutcomes[1])
}

func TestConstructionClaimsEmpire(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice")
	tb.meld(alice, "Archery", "Agriculture", "Sailing", "Pottery", "Mysticism")
	bob := player.New("bob")
	gs := state.New(alice, bob)
	gs.Achievements = achievements.Standard()

	tb.activate(gs, decision.NewScripted(), "Construction", alice)

	assert.True(t, alice.HasAchievement(achievements.Empire))
	assert.Empty(t, bob.Hand, "age 2 pile is empty")
}

func TestCompassSwapsBoards(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice")
	tb.meld(alice, "Archery")
	bob := player.New("bob")
	tb.meld(bob, "Agriculture")
	gs := state.New(alice, bob)

	tb.activate(gs, decision.NewScripted(), "Compass", alice)

	assert.True(t, alice.HasColor(cards.ColorYellow))
	assert.False(t, alice.HasColor(cards.ColorRed))
	assert.True(t, bob.HasColor(cards.ColorRed))
	assert.False(t, bob.HasColor(cards.ColorYellow))
}

func TestMachineryExchangesHighestHands(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice", tb.card("Calendar"))
	bob := player.New("bob", tb.cards("Writing", "Sailing")...)
	gs := state.New(alice, bob)

	tb.activate(gs, decision.NewScripted(), "Machinery", alice)

	assert.ElementsMatch(t, tb.cards("Writing", "Sailing"), alice.Hand)
	assert.Equal(t, tb.cards("Calendar"), bob.Hand)
}

func TestPhilosophyDeclinedChangesNothing(t *testing.T) {
	tb := newTable(t)
	alice := player.New("alice", tb.card("Writing"))
	tb.meld(alice, "Archery", "Oars")
	gs := state.New(alice)
	before, err := gs.TakeSnapshot("before").ComputeChecksum()
	require.NoError(t, err)

	script := decision.NewScripted().Accepts(false).Accepts(false)
	tb.activate(gs, script, "Philosophy", alice)

	same, err := gs.TakeSnapshot("after").VerifyChecksum(before)
	require.NoError(t, err)
	assert.True(t, same)
	assert.Zero(t, script.Remaining())
}
