package watchers

import (
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
)

// CardsDrawnWatcher tracks cards drawn by players.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	cardsDrawn map[string]int // playerID -> count
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	w := &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		cardsDrawn:  make(map[string]int),
	}
	w.SetKey("CardsDrawnWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDrew || event.PlayerID == "" {
		return
	}
	w.cardsDrawn[event.PlayerID] += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.cardsDrawn = make(map[string]int)
}

// GetCount returns the number of cards drawn by a player.
func (w *CardsDrawnWatcher) GetCount(playerID string) int {
	return w.cardsDrawn[playerID]
}

// Copy creates a copy of this watcher.
func (w *CardsDrawnWatcher) Copy() rules.Watcher {
	copy := NewCardsDrawnWatcher()
	copy.SetCondition(w.ConditionMet())
	for k, v := range w.cardsDrawn {
		copy.cardsDrawn[k] = v
	}
	return copy
}

// CardsMeldedWatcher tracks cards put on top of a player's board, whether
// melded from hand or drawn and melded.
type CardsMeldedWatcher struct {
	*rules.BaseWatcher
	melded map[string][]string // playerID -> card names in meld order
}

// NewCardsMeldedWatcher creates a new cards melded watcher.
func NewCardsMeldedWatcher() *CardsMeldedWatcher {
	w := &CardsMeldedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		melded:      make(map[string][]string),
	}
	w.SetKey("CardsMeldedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsMeldedWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventMelded:
	case rules.EventDrew:
		if event.Data != effects.LocationBoard.String() || event.Metadata["tuck"] == "true" {
			return
		}
	default:
		return
	}
	if event.PlayerID == "" {
		return
	}
	w.melded[event.PlayerID] = append(w.melded[event.PlayerID], event.Cards...)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsMeldedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.melded = make(map[string][]string)
}

// GetMelded returns the names of the cards a player melded.
func (w *CardsMeldedWatcher) GetMelded(playerID string) []string {
	return w.melded[playerID]
}

// GetCount returns the number of cards a player melded.
func (w *CardsMeldedWatcher) GetCount(playerID string) int {
	return len(w.melded[playerID])
}

// Copy creates a copy of this watcher.
func (w *CardsMeldedWatcher) Copy() rules.Watcher {
	copy := NewCardsMeldedWatcher()
	copy.SetCondition(w.ConditionMet())
	for k, v := range w.melded {
		copy.melded[k] = append([]string(nil), v...)
	}
	return copy
}

// ScorePileWatcher tracks cards entering each player's score pile, by
// scoring, drawing or transfer.
type ScorePileWatcher struct {
	*rules.BaseWatcher
	scored map[string]int // playerID -> count
}

// NewScorePileWatcher creates a new score pile watcher.
func NewScorePileWatcher() *ScorePileWatcher {
	w := &ScorePileWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		scored:      make(map[string]int),
	}
	w.SetKey("ScorePileWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *ScorePileWatcher) Watch(event rules.Event) {
	scorePile := effects.LocationScorePile.String()
	playerID := event.PlayerID
	switch event.Type {
	case rules.EventScored:
	case rules.EventDrew:
		if event.Data != scorePile {
			return
		}
	case rules.EventTransferred:
		if event.Metadata["to"] != scorePile {
			return
		}
		playerID = event.TargetPlayerID
	default:
		return
	}
	if playerID == "" || event.Amount == 0 {
		return
	}
	w.scored[playerID] += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *ScorePileWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.scored = make(map[string]int)
}

// GetCount returns the number of cards that entered a player's score pile.
func (w *ScorePileWatcher) GetCount(playerID string) int {
	return w.scored[playerID]
}

// Copy creates a copy of this watcher.
func (w *ScorePileWatcher) Copy() rules.Watcher {
	copy := NewScorePileWatcher()
	copy.SetCondition(w.ConditionMet())
	for k, v := range w.scored {
		copy.scored[k] = v
	}
	return copy
}

// DemandOutcomeWatcher records, per activation, which demand targets were
// affected and which were not.
type DemandOutcomeWatcher struct {
	*rules.BaseWatcher
	affected   map[string][]string // activationID -> target IDs
	unaffected map[string][]string
}

// NewDemandOutcomeWatcher creates a new demand outcome watcher.
func NewDemandOutcomeWatcher() *DemandOutcomeWatcher {
	w := &DemandOutcomeWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeActivation),
		affected:    make(map[string][]string),
		unaffected:  make(map[string][]string),
	}
	w.SetKey("DemandOutcomeWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *DemandOutcomeWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDemandResolved || event.TargetPlayerID == "" {
		return
	}
	if event.Data != "affected" {
		w.unaffected[event.ActivationID] = append(w.unaffected[event.ActivationID], event.TargetPlayerID)
		return
	}
	w.affected[event.ActivationID] = append(w.affected[event.ActivationID], event.TargetPlayerID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DemandOutcomeWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.affected = make(map[string][]string)
	w.unaffected = make(map[string][]string)
}

// Affected returns the targets a demand changed something for.
func (w *DemandOutcomeWatcher) Affected(activationID string) []string {
	return w.affected[activationID]
}

// Unaffected returns the targets a demand left untouched.
func (w *DemandOutcomeWatcher) Unaffected(activationID string) []string {
	return w.unaffected[activationID]
}

// Forget drops what was recorded for one activation.
func (w *DemandOutcomeWatcher) Forget(activationID string) {
	delete(w.affected, activationID)
	delete(w.unaffected, activationID)
}
