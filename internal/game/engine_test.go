package game_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/innovationgame/innovation-server-go/internal/game"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/catalog"
	"github.com/innovationgame/innovation-server-go/internal/game/decision"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newEngine(t *testing.T) (*game.Engine, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Base()
	require.NoError(t, err)
	return game.NewEngine(cat, game.DefaultOptions(), zaptest.NewLogger(t)), cat
}

func named(t *testing.T, cat *catalog.Catalog, names ...string) []*cards.Card {
	t.Helper()
	out := make([]*cards.Card, 0, len(names))
	for _, n := range names {
		c, ok := cat.Card(n)
		require.True(t, ok, "no card %s", n)
		out = append(out, c)
	}
	return out
}

func onBoard(p *player.Player, list ...*cards.Card) *player.Player {
	for _, c := range list {
		p.MeldOnBoard(c)
	}
	return p
}

func TestStartGameIsDeterministic(t *testing.T) {
	first, _ := newEngine(t)
	second, _ := newEngine(t)

	require.NoError(t, first.StartGame("g", []string{"alice", "bob"}, 42))
	require.NoError(t, second.StartGame("g", []string{"alice", "bob"}, 42))

	a, err := first.Snapshot("g")
	require.NoError(t, err)
	b, err := second.Snapshot("g")
	require.NoError(t, err)

	if diff := cmp.Diff(a, b, cmpopts.IgnoreFields(state.Snapshot{}, "Timestamp")); diff != "" {
		t.Fatalf("same seed gave different tables (-first +second):\n%s", diff)
	}
	assert.Len(t, a.Players["alice"].Hand, 2)
	assert.Len(t, a.Players["bob"].Hand, 2)
	assert.Len(t, a.DrawPiles[1], 11)
	assert.Len(t, a.DrawPiles[2], 10)
	assert.NotEmpty(t, a.Achievements)

	require.NoError(t, second.StartGame("other", []string{"alice", "bob"}, 7))
	c, err := second.Snapshot("other")
	require.NoError(t, err)
	assert.NotEqual(t, a.DrawPiles[2], c.DrawPiles[2])
}

func TestStartGameValidation(t *testing.T) {
	engine, _ := newEngine(t)

	assert.Error(t, engine.StartGame("", []string{"alice", "bob"}, 1))
	assert.Error(t, engine.StartGame("g", []string{"alice"}, 1))
	assert.Error(t, engine.StartGame("g", []string{"alice", "alice"}, 1))
	require.NoError(t, engine.StartGame("g", []string{"alice", "bob"}, 1))
	assert.ErrorIs(t, engine.StartGame("g", []string{"alice", "bob"}, 1), game.ErrGameExists)
}

func TestActivateCardTargetsPlayersWithFewerSymbols(t *testing.T) {
	engine, cat := newEngine(t)
	notifications := make(chan game.GameNotification, 8)
	engine.SetNotificationHandler(func(n game.GameNotification) { notifications <- n })

	alice := onBoard(player.New("alice"), named(t, cat, "Archery")...)
	bob := player.New("bob")
	carol := onBoard(player.New("carol"), named(t, cat, "Masonry")...)
	gs := state.New(alice, bob, carol)
	gs.DrawPiles[1] = named(t, cat, "Writing")
	require.NoError(t, engine.LoadGame("g", gs))

	act, err := engine.ActivateCard(context.Background(), "g", "alice", "Archery", decision.NewScripted())
	require.NoError(t, err)

	require.Len(t, act.Steps, 1)
	assert.Equal(t, []string{"bob"}, act.Steps[0].Targets)
	assert.Equal(t, named(t, cat, "Writing"), alice.Hand)
	assert.Empty(t, bob.Hand)

	drawn, err := engine.CardsDrawn("g", "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, drawn)

	history, err := engine.History("g")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, act.ID, history[0].ID)

	done := waitFor(t, notifications, game.NotifyActivationDone)
	assert.Equal(t, "alice", done.PlayerID)
	assert.Equal(t, "Archery", done.Data["card"])
	assert.Equal(t, []string{"bob"}, done.Data["affected"])
}

func TestActivateCardRollsBackOnFailure(t *testing.T) {
	engine, cat := newEngine(t)
	notifications := make(chan game.GameNotification, 8)
	engine.SetNotificationHandler(func(n game.GameNotification) { notifications <- n })

	alice := onBoard(player.New("alice", named(t, cat, "Oars")...), named(t, cat, "Archery", "Code of Laws")...)
	require.NoError(t, engine.LoadGame("g", state.New(alice, player.New("bob"))))

	before, err := engine.Snapshot("g")
	require.NoError(t, err)
	sum, err := before.ComputeChecksum()
	require.NoError(t, err)

	// The tuck is accepted, the splay prompt has no answer.
	script := decision.NewScripted().Accepts(true)
	_, err = engine.ActivateCard(context.Background(), "g", "alice", "Code of Laws", script)
	require.ErrorIs(t, err, decision.ErrNoAnswer)

	after, err := engine.Snapshot("g")
	require.NoError(t, err)
	same, err := after.VerifyChecksum(sum)
	require.NoError(t, err)
	assert.True(t, same, "table should be restored after a failed activation")
	assert.Equal(t, []string{"Oars"}, after.Players["alice"].Hand)

	history, err := engine.History("g")
	require.NoError(t, err)
	assert.Empty(t, history)

	aborted := waitFor(t, notifications, game.NotifyActivationAborted)
	assert.Contains(t, aborted.Data["error"], "no scripted answer")

	// The restored table is playable.
	script = decision.NewScripted().Accepts(true).Accepts(true)
	_, err = engine.ActivateCard(context.Background(), "g", "alice", "Code of Laws", script)
	require.NoError(t, err)
	after, err = engine.Snapshot("g")
	require.NoError(t, err)
	assert.Equal(t, "left", after.Players["alice"].Board["red"].Splay)
}

func TestRollbackRestoresGameCounters(t *testing.T) {
	engine, cat := newEngine(t)
	alice := onBoard(player.New("alice"), named(t, cat, "Archery")...)
	bob := player.New("bob", named(t, cat, "Pottery")...)
	gs := state.New(alice, bob)
	gs.DrawPiles[1] = named(t, cat, "Writing")
	require.NoError(t, engine.LoadGame("g", gs))

	// Bob draws Writing, which ties Pottery for highest, and nobody answers.
	_, err := engine.ActivateCard(context.Background(), "g", "alice", "Archery", decision.NewScripted())
	require.ErrorIs(t, err, decision.ErrNoAnswer)

	snap, err := engine.Snapshot("g")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pottery"}, snap.Players["bob"].Hand)
	assert.Equal(t, []string{"Writing"}, snap.DrawPiles[1])

	drawn, err := engine.CardsDrawn("g", "bob")
	require.NoError(t, err)
	assert.Zero(t, drawn, "draws from a rolled back activation are not counted")

	_, err = engine.ActivateCard(context.Background(), "g", "alice", "Archery", decision.NewScripted().Cards("Writing"))
	require.NoError(t, err)
	drawn, err = engine.CardsDrawn("g", "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, drawn)
}

func TestActivateCardErrors(t *testing.T) {
	engine, cat := newEngine(t)
	alice := onBoard(player.New("alice", named(t, cat, "Writing")...), named(t, cat, "Archery", "Oars")...)
	require.NoError(t, engine.LoadGame("g", state.New(alice, player.New("bob"))))
	ctx := context.Background()

	_, err := engine.ActivateCard(ctx, "missing", "alice", "Oars", decision.FirstChoice{})
	assert.ErrorIs(t, err, game.ErrGameNotFound)

	_, err = engine.ActivateCard(ctx, "g", "dave", "Oars", decision.FirstChoice{})
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)

	_, err = engine.ActivateCard(ctx, "g", "alice", "Archery", decision.FirstChoice{})
	assert.ErrorIs(t, err, game.ErrNotTopCard, "Archery is covered by Oars")

	_, err = engine.ActivateCard(ctx, "g", "alice", "Writing", decision.FirstChoice{})
	assert.ErrorIs(t, err, game.ErrNotTopCard, "cards in hand cannot be activated")

	require.NoError(t, engine.EndGame("g"))
	_, err = engine.ActivateCard(ctx, "g", "alice", "Oars", decision.FirstChoice{})
	assert.ErrorContains(t, err, "has ended")

	require.NoError(t, engine.CleanupGame("g"))
	assert.ErrorIs(t, engine.CleanupGame("g"), game.ErrGameNotFound)
	_, err = engine.Snapshot("g")
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}

func TestActivationStepsAreRecordedForReplay(t *testing.T) {
	engine, cat := newEngine(t)
	alice := onBoard(player.New("alice", named(t, cat, "Writing")...), named(t, cat, "Construction")...)
	bob := player.New("bob", named(t, cat, "Sailing", "Tools")...)
	gs := state.New(alice, bob)
	gs.DrawPiles[2] = named(t, cat, "Calendar")
	require.NoError(t, engine.LoadGame("g", gs))

	act, err := engine.ActivateCard(context.Background(), "g", "alice", "Construction", decision.FirstChoice{})
	require.NoError(t, err)

	replay, ok := engine.Replays().GetReplay("g")
	require.True(t, ok)
	assert.Equal(t, 1+len(act.Steps), replay.Size())
	assert.Equal(t, "start", replay.GetStateAt(0).Label)

	last, err := engine.Snapshot("g")
	require.NoError(t, err)
	sum, err := last.ComputeChecksum()
	require.NoError(t, err)
	same, err := replay.GetStateAt(replay.Size() - 1).VerifyChecksum(sum)
	require.NoError(t, err)
	assert.True(t, same, "last recorded state is the current table")

	sums, err := replay.Checksums()
	require.NoError(t, err)
	assert.NotEqual(t, sums[0], sums[len(sums)-1])
}

func TestEnginePlaysGamesConcurrently(t *testing.T) {
	engine, cat := newEngine(t)

	const games = 8
	for i := 0; i < games; i++ {
		alice := onBoard(player.New("alice"), named(t, cat, "Sailing")...)
		gs := state.New(alice, player.New("bob"))
		gs.DrawPiles[1] = named(t, cat, "Writing", "Tools", "Pottery")
		require.NoError(t, engine.LoadGame(fmt.Sprintf("g%d", i), gs))
	}

	var wg sync.WaitGroup
	errs := make(chan error, games*3)
	for i := 0; i < games; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				if _, err := engine.ActivateCard(context.Background(), id, "alice", "Sailing", decision.FirstChoice{}); err != nil {
					errs <- err
				}
			}
		}(fmt.Sprintf("g%d", i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	for i := 0; i < games; i++ {
		snap, err := engine.Snapshot(fmt.Sprintf("g%d", i))
		require.NoError(t, err)
		assert.Empty(t, snap.DrawPiles[1])
		assert.Len(t, snap.Players["alice"].Board["blue"].Cards, 3)
	}
}

func TestCanceledContextAbortsActivation(t *testing.T) {
	engine, cat := newEngine(t)
	alice := onBoard(player.New("alice", named(t, cat, "Writing")...), named(t, cat, "Agriculture")...)
	require.NoError(t, engine.LoadGame("g", state.New(alice, player.New("bob"))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.ActivateCard(ctx, "g", "alice", "Agriculture", decision.FirstChoice{AcceptOptional: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, rules.ErrInvariantViolation))
}

func waitFor(t *testing.T, ch <-chan game.GameNotification, kind string) game.GameNotification {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case n := <-ch:
			if n.Type == kind {
				return n
			}
		case <-timeout:
			t.Fatalf("no %s notification", kind)
			return game.GameNotification{}
		}
	}
}
