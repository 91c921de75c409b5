package rules

import (
	"testing"
)

// testWatcherImpl flags any meld.
type testWatcherImpl struct {
	*BaseWatcher
}

func (t *testWatcherImpl) Watch(event Event) {
	if event.Type == EventMelded {
		t.SetCondition(true)
	}
}

func TestWatcherRegistry(t *testing.T) {
	registry := NewWatcherRegistry()

	testWatcher := &testWatcherImpl{BaseWatcher: NewBaseWatcher(WatcherScopeGame)}
	testWatcher.SetKey("TestWatcher")
	registry.AddWatcher(testWatcher)

	if registry.GetWatcher("TestWatcher") == nil {
		t.Fatal("should retrieve TestWatcher")
	}
	if got := len(registry.GetWatchersByScope(WatcherScopeGame)); got != 1 {
		t.Fatalf("expected 1 game watcher, got %d", got)
	}

	registry.NotifyWatchers(NewEvent(EventMelded, "act1", "Agriculture", "alice"))
	if !testWatcher.ConditionMet() {
		t.Fatal("testWatcher should have condition met")
	}

	registry.ResetWatchers()
	if testWatcher.ConditionMet() {
		t.Fatal("watcher should not have condition met after reset")
	}

	registry.RemoveWatcher("TestWatcher")
	if registry.GetWatcher("TestWatcher") != nil {
		t.Fatal("watcher should be removed")
	}
	if got := len(registry.GetWatchersByScope(WatcherScopeGame)); got != 0 {
		t.Fatalf("expected 0 game watchers, got %d", got)
	}
}

func TestWatcherGeneratedKey(t *testing.T) {
	registry := NewWatcherRegistry()

	w := &testWatcherImpl{BaseWatcher: NewBaseWatcher(WatcherScopePlayer)}
	w.SetPlayerID("alice")
	registry.AddWatcher(w)

	keys := registry.Keys()
	if len(keys) != 1 || keys[0] != "alice_*rules.testWatcherImpl" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if w.GetKey() != keys[0] {
		t.Fatalf("expected key to be set on watcher, got %q", w.GetKey())
	}
}

func TestWatcherScope(t *testing.T) {
	if WatcherScopeGame.String() != "GAME" {
		t.Fatalf("expected GAME, got %s", WatcherScopeGame.String())
	}
	if WatcherScopePlayer.String() != "PLAYER" {
		t.Fatalf("expected PLAYER, got %s", WatcherScopePlayer.String())
	}
	if WatcherScopeActivation.String() != "ACTIVATION" {
		t.Fatalf("expected ACTIVATION, got %s", WatcherScopeActivation.String())
	}
}

func TestBaseWatcher(t *testing.T) {
	bw := NewBaseWatcher(WatcherScopeGame)
	bw.SetKey("test_key")

	if bw.GetKey() != "test_key" {
		t.Fatalf("expected test_key, got %s", bw.GetKey())
	}
	if bw.GetScope() != WatcherScopeGame {
		t.Fatalf("expected GAME scope, got %v", bw.GetScope())
	}
	if bw.ConditionMet() {
		t.Fatal("should not have condition met initially")
	}

	bw.SetCondition(true)
	if !bw.ConditionMet() {
		t.Fatal("should have condition met after SetCondition")
	}
	bw.Reset()
	if bw.ConditionMet() {
		t.Fatal("should not have condition met after reset")
	}

	bw.SetPlayerID("alice")
	if bw.GetPlayerID() != "alice" {
		t.Fatalf("expected alice, got %s", bw.GetPlayerID())
	}
}

func TestWatcherRegistryIntegration(t *testing.T) {
	registry := NewWatcherRegistry()
	eventBus := NewEventBus()
	eventBus.Subscribe(registry.NotifyWatchers)

	testWatcher := &testWatcherImpl{BaseWatcher: NewBaseWatcher(WatcherScopeActivation)}
	testWatcher.SetKey("TestWatcher")
	registry.AddWatcher(testWatcher)

	eventBus.Publish(NewEvent(EventMelded, "act1", "Agriculture", "alice"))
	if !testWatcher.ConditionMet() {
		t.Fatal("testWatcher should have condition met")
	}

	registry.ResetWatchersByScope(WatcherScopeActivation)
	if testWatcher.ConditionMet() {
		t.Fatal("testWatcher should not have condition met after reset")
	}
}

// countingWatcher counts draws and can be bookmarked.
type countingWatcher struct {
	*BaseWatcher
	drawn int
}

func newCountingWatcher(scope WatcherScope, key string) *countingWatcher {
	w := &countingWatcher{BaseWatcher: NewBaseWatcher(scope)}
	w.SetKey(key)
	return w
}

func (c *countingWatcher) Watch(event Event) {
	if event.Type == EventDrew {
		c.drawn++
	}
}

func (c *countingWatcher) Copy() Watcher {
	w := newCountingWatcher(c.GetScope(), c.GetKey())
	w.drawn = c.drawn
	return w
}

func TestWatcherBookmarkRestore(t *testing.T) {
	registry := NewWatcherRegistry()
	game := newCountingWatcher(WatcherScopeGame, "game")
	activation := newCountingWatcher(WatcherScopeActivation, "activation")
	registry.AddWatcher(game)
	registry.AddWatcher(activation)

	registry.NotifyWatchers(NewEvent(EventDrew, "act1", "Writing", "alice"))
	saved := registry.Bookmark(WatcherScopeGame)
	if len(saved) != 1 {
		t.Fatalf("expected only the game watcher to be bookmarked, got %d", len(saved))
	}

	registry.NotifyWatchers(NewEvent(EventDrew, "act2", "Writing", "alice"))
	registry.NotifyWatchers(NewEvent(EventDrew, "act2", "Writing", "alice"))
	registry.Restore(saved)

	restored := registry.GetWatcher("game").(*countingWatcher)
	if restored.drawn != 1 {
		t.Fatalf("expected restored count 1, got %d", restored.drawn)
	}
	if got := registry.GetWatchersByScope(WatcherScopeGame); len(got) != 1 || got[0] != Watcher(restored) {
		t.Fatal("scope index should hold the restored watcher")
	}
	if activation.drawn != 3 {
		t.Fatalf("activation watcher should be untouched, got %d", activation.drawn)
	}

	registry.NotifyWatchers(NewEvent(EventDrew, "act3", "Writing", "alice"))
	if restored.drawn != 2 {
		t.Fatalf("restored watcher should keep watching, got %d", restored.drawn)
	}
}
