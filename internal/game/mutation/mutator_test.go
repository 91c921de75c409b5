package mutation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/innovationgame/innovation-server-go/internal/game/achievements"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

func TestDrawReturnsFewerWhenPileRunsOut(t *testing.T) {
	m := New(zaptest.NewLogger(t))
	alice := player.New("alice")
	gs := state.New(alice)
	a := cards.New("A", cards.ColorRed, 1)
	gs.DrawPiles[1] = []*cards.Card{a}

	drawn := m.Draw(gs, alice, 1, 3)
	assert.Equal(t, []*cards.Card{a}, drawn)
	assert.Empty(t, m.Draw(gs, alice, 1, 1))
	assert.Empty(t, alice.Hand, "drawn cards are placed separately")
}

func TestMovesFailWhenCardNotInHand(t *testing.T) {
	m := New(nil)
	alice := player.New("alice")
	gs := state.New(alice)
	stray := cards.New("Stray", cards.ColorBlue, 2)

	for name, move := range map[string]func(*state.GameState, *player.Player, *cards.Card) error{
		"meld":   m.Meld,
		"tuck":   m.Tuck,
		"return": m.Return,
		"score":  m.Score,
	} {
		t.Run(name, func(t *testing.T) {
			err := move(gs, alice, stray)
			require.Error(t, err)
			assert.True(t, errors.Is(err, rules.ErrInvariantViolation))
		})
	}
	assert.Equal(t, 0, gs.PileSize(2))
	assert.Empty(t, alice.ScorePile)
}

func TestTransferScorePileToBoard(t *testing.T) {
	m := New(nil)
	alice := player.New("alice")
	bob := player.New("bob")
	gs := state.New(alice, bob)
	c := cards.New("C", cards.ColorGreen, 3)
	bob.ScorePile = []*cards.Card{c}

	require.NoError(t, m.Transfer(gs, bob, alice, c, effects.LocationScorePile, effects.LocationBoard))
	assert.Empty(t, bob.ScorePile)
	top, ok := alice.TopCard(cards.ColorGreen)
	require.True(t, ok)
	assert.Equal(t, c, top)
}

func TestExchangeChecksBothSidesFirst(t *testing.T) {
	m := New(nil)
	alice := player.New("alice")
	bob := player.New("bob")
	gs := state.New(alice, bob)
	mine := cards.New("Mine", cards.ColorRed, 1)
	alice.Hand = []*cards.Card{mine}
	missing := cards.New("Missing", cards.ColorBlue, 1)

	err := m.Exchange(gs, alice, bob, []*cards.Card{mine}, []*cards.Card{missing}, effects.LocationHand, effects.LocationHand)
	require.Error(t, err)
	assert.Equal(t, []*cards.Card{mine}, alice.Hand)
	assert.Empty(t, bob.Hand)
}

func TestSplayNeedsTwoCards(t *testing.T) {
	m := New(nil)
	alice := player.New("alice")
	gs := state.New(alice)
	alice.MeldOnBoard(cards.New("One", cards.ColorRed, 1))

	err := m.Splay(gs, alice, cards.ColorRed, cards.SplayLeft)
	assert.True(t, errors.Is(err, rules.ErrInvariantViolation))
	err = m.Splay(gs, alice, cards.ColorBlue, cards.SplayLeft)
	assert.True(t, errors.Is(err, rules.ErrInvariantViolation))

	alice.MeldOnBoard(cards.New("Two", cards.ColorRed, 1))
	require.NoError(t, m.Splay(gs, alice, cards.ColorRed, cards.SplayLeft))
	assert.Equal(t, cards.SplayLeft, alice.Stack(cards.ColorRed).Splay())
}

func TestAchieveClaimsFromTable(t *testing.T) {
	m := New(nil)
	alice := player.New("alice")
	gs := state.New(alice)
	gs.Achievements = []*achievements.Achievement{achievements.Special(achievements.World)}

	granted, err := m.Achieve(gs, alice, achievements.World)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Empty(t, gs.Achievements)

	granted, err = m.Achieve(gs, alice, achievements.World)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, []string{achievements.World}, alice.Achievements)
}
