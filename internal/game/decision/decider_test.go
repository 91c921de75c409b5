package decision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
)

func TestScriptedAnswersInOrder(t *testing.T) {
	ctx := context.Background()
	alice := player.New("alice")
	bob := player.New("bob")
	a := cards.New("A", cards.ColorRed, 1)
	b := cards.New("B", cards.ColorBlue, 1)

	s := NewScripted().Cards("B").Player("bob").Splay(cards.ColorRed, cards.SplayUp).Accepts(true)
	assert.Equal(t, 4, s.Remaining())

	chosen, err := s.ChooseCards(ctx, rules.CardPrompt{Kind: rules.PromptMeld, Player: alice, Options: []*cards.Card{a, b}, Min: 1, Max: 1})
	require.NoError(t, err)
	assert.Equal(t, []*cards.Card{b}, chosen)

	p, err := s.ChoosePlayer(ctx, rules.PlayerPrompt{Kind: rules.PromptChooseReceiver, Player: alice, Options: []*player.Player{alice, bob}})
	require.NoError(t, err)
	assert.Same(t, bob, p)

	color, dir, err := s.ChooseSplay(ctx, rules.SplayPrompt{Player: alice})
	require.NoError(t, err)
	assert.Equal(t, cards.ColorRed, color)
	assert.Equal(t, cards.SplayUp, dir)

	ok, err := s.Accept(ctx, rules.AcceptPrompt{Player: alice})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"MELD:alice", "CHOOSE_RECEIVER:alice", "SPLAY:alice", "OPTIONAL:alice"}, s.Asked())
	assert.Zero(t, s.Remaining())

	_, err = s.Accept(ctx, rules.AcceptPrompt{Player: alice})
	assert.True(t, errors.Is(err, ErrNoAnswer))
}

func TestScriptedUnknownCardIsReturnedAsIs(t *testing.T) {
	s := NewScripted().Cards("Ghost")
	chosen, err := s.ChooseCards(context.Background(), rules.CardPrompt{Options: []*cards.Card{cards.New("A", cards.ColorRed, 1)}})
	require.NoError(t, err)
	require.Len(t, chosen, 1)
	assert.Equal(t, "Ghost", chosen[0].Name)
}

func TestFirstChoice(t *testing.T) {
	ctx := context.Background()
	a := cards.New("A", cards.ColorRed, 1)
	b := cards.New("B", cards.ColorBlue, 1)
	c := cards.New("C", cards.ColorGreen, 1)
	d := FirstChoice{}

	chosen, err := d.ChooseCards(ctx, rules.CardPrompt{Options: []*cards.Card{a, b, c}, Min: 2, Max: 3})
	require.NoError(t, err)
	assert.Equal(t, []*cards.Card{a, b}, chosen)

	alice := player.New("alice")
	for _, name := range []string{"Y1", "Y2"} {
		alice.MeldOnBoard(cards.New(name, cards.ColorYellow, 1))
	}
	for _, name := range []string{"P1", "P2"} {
		alice.MeldOnBoard(cards.New(name, cards.ColorPurple, 1))
	}
	alice.Stack(cards.ColorYellow).SetSplay(cards.SplayRight)

	// Yellow is already splayed right, so the first legal pair is purple.
	color, dir, err := d.ChooseSplay(ctx, rules.SplayPrompt{
		Player:     alice,
		Colors:     []cards.Color{cards.ColorYellow, cards.ColorPurple},
		Directions: []cards.SplayDirection{cards.SplayRight},
	})
	require.NoError(t, err)
	assert.Equal(t, cards.ColorPurple, color)
	assert.Equal(t, cards.SplayRight, dir)

	alice.Stack(cards.ColorPurple).SetSplay(cards.SplayRight)
	_, _, err = d.ChooseSplay(ctx, rules.SplayPrompt{
		Player:     alice,
		Colors:     []cards.Color{cards.ColorYellow, cards.ColorPurple},
		Directions: []cards.SplayDirection{cards.SplayRight},
	})
	assert.Error(t, err)

	ok, err := d.Accept(ctx, rules.AcceptPrompt{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = FirstChoice{AcceptOptional: true}.Accept(ctx, rules.AcceptPrompt{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecidersHonourCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FirstChoice{}.ChooseCards(ctx, rules.CardPrompt{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = NewScripted().Accepts(true).Accept(ctx, rules.AcceptPrompt{})
	assert.ErrorIs(t, err, context.Canceled)
}
