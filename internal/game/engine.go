package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/innovationgame/innovation-server-go/internal/game/catalog"
	"github.com/innovationgame/innovation-server-go/internal/game/dogma"
	"github.com/innovationgame/innovation-server-go/internal/game/mutation"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
	"github.com/innovationgame/innovation-server-go/internal/game/watchers"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("game already exists")
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNotTopCard is returned when a player activates a card that is not
	// on top of one of their piles.
	ErrNotTopCard = errors.New("card is not a top card")
)

// Notification types.
const (
	NotifyGameStarted       = "GAME_STARTED"
	NotifyActivationDone    = "ACTIVATION_DONE"
	NotifyActivationAborted = "ACTIVATION_ABORTED"
	NotifyGameEnded         = "GAME_ENDED"
)

// GameNotification is pushed to the notification handler after a game
// changes.
type GameNotification struct {
	Type      string
	GameID    string
	PlayerID  string // empty for broadcast
	Timestamp time.Time
	Data      map[string]interface{}
}

// NotificationHandler receives game notifications.
type NotificationHandler func(notification GameNotification)

// Options configures an Engine.
type Options struct {
	Rules rules.Options
	// MaxAge is the highest age that gets a draw pile.
	MaxAge int
	// StartingHand is the number of age 1 cards dealt to each player.
	StartingHand int
	Replay       ReplayOptions
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Rules:        rules.DefaultOptions(),
		MaxAge:       state.MaxAge,
		StartingHand: 2,
		Replay:       ReplayOptions{Enabled: true, MaxStates: 256},
	}
}

// engineGame is the per-game state held by the engine.
type engineGame struct {
	gameID      string
	state       *state.GameState
	eventBus    *rules.EventBus
	watchers    *rules.WatcherRegistry
	watchHandle int
	demands     *watchers.DemandOutcomeWatcher
	history     []*dogma.Activation
	ended       bool
	startedAt   time.Time
	mu          sync.Mutex
}

// Engine runs card activations for any number of games. It is safe for
// concurrent use; activations within one game are serialized.
type Engine struct {
	logger              *zap.Logger
	catalog             *catalog.Catalog
	opts                Options
	mu                  sync.RWMutex
	games               map[string]*engineGame
	replays             *ReplayRecorder
	notificationHandler NotificationHandler
}

// NewEngine creates an engine over a card catalog.
func NewEngine(cat *catalog.Catalog, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.MaxAge <= 0 || opts.MaxAge > state.MaxAge {
		opts.MaxAge = defaults.MaxAge
	}
	if opts.StartingHand < 0 {
		opts.StartingHand = 0
	}
	return &Engine{
		logger:  logger,
		catalog: cat,
		opts:    opts,
		games:   make(map[string]*engineGame),
		replays: NewReplayRecorder(logger, opts.Replay),
	}
}

// SetNotificationHandler sets the handler for game notifications.
func (e *Engine) SetNotificationHandler(handler NotificationHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notificationHandler = handler
}

// Replays exposes the replay recorder.
func (e *Engine) Replays() *ReplayRecorder {
	return e.replays
}

// StartGame sets up a new table with NewTable and registers it.
func (e *Engine) StartGame(gameID string, playerIDs []string, seed uint64) error {
	if gameID == "" {
		return fmt.Errorf("gameID is required")
	}
	gs, err := e.NewTable(playerIDs, seed)
	if err != nil {
		return err
	}
	return e.LoadGame(gameID, gs)
}

// NewTable builds a starting table: shuffled draw piles for every age up
// to MaxAge, the catalog's achievements and a starting hand for each
// player. The same seed always produces the same table.
func (e *Engine) NewTable(playerIDs []string, seed uint64) (*state.GameState, error) {
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("at least 2 players required")
	}

	players := make([]*player.Player, 0, len(playerIDs))
	seen := make(map[string]bool, len(playerIDs))
	for _, id := range playerIDs {
		if id == "" || seen[id] {
			return nil, fmt.Errorf("player IDs must be unique and non-empty, got %q", id)
		}
		seen[id] = true
		players = append(players, player.New(id))
	}
	gs := state.New(players...)
	gs.Achievements = e.catalog.Achievements()

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for age := 1; age <= e.opts.MaxAge; age++ {
		pile := e.catalog.OfAge(age)
		rng.Shuffle(len(pile), func(i, j int) { pile[i], pile[j] = pile[j], pile[i] })
		if len(pile) > 0 {
			gs.DrawPiles[age] = pile
		}
	}
	for i := 0; i < e.opts.StartingHand; i++ {
		for _, p := range players {
			if c, ok := gs.DrawFromPile(1); ok {
				p.AddToHand(c)
			}
		}
	}
	return gs, nil
}

// LoadGame registers an existing table under gameID.
func (e *Engine) LoadGame(gameID string, gs *state.GameState) error {
	if gameID == "" {
		return fmt.Errorf("gameID is required")
	}

	game := &engineGame{
		gameID:    gameID,
		state:     gs,
		eventBus:  rules.NewEventBus(),
		watchers:  rules.NewWatcherRegistry(),
		demands:   watchers.NewDemandOutcomeWatcher(),
		startedAt: time.Now(),
	}
	game.watchers.AddWatcher(watchers.NewCardsDrawnWatcher())
	game.watchers.AddWatcher(watchers.NewCardsMeldedWatcher())
	game.watchers.AddWatcher(watchers.NewScorePileWatcher())
	game.watchers.AddWatcher(game.demands)
	game.watchHandle = game.eventBus.Subscribe(game.watchers.NotifyWatchers)

	e.mu.Lock()
	if _, exists := e.games[gameID]; exists {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	e.games[gameID] = game
	e.mu.Unlock()

	e.replays.StartRecording(gameID)
	e.replays.RecordState(gameID, gs.TakeSnapshot("start"))

	ids := make([]string, 0, len(gs.Players))
	for _, p := range gs.Players {
		ids = append(ids, p.ID)
	}
	e.emitNotification(GameNotification{
		Type:      NotifyGameStarted,
		GameID:    gameID,
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"players": ids},
	})
	e.logger.Info("started game",
		zap.String("game_id", gameID),
		zap.Strings("players", ids),
		zap.Strings("watchers", game.watchers.Keys()))
	return nil
}

// ActivateCard runs the dogma of one of a player's top cards. Decisions
// are asked of decider. If the activation fails the table is restored to
// what it was before the activation started.
func (e *Engine) ActivateCard(ctx context.Context, gameID, playerID, cardName string, decider rules.Decider) (*dogma.Activation, error) {
	game, err := e.game(gameID)
	if err != nil {
		return nil, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	if game.ended {
		return nil, fmt.Errorf("game %s has ended", gameID)
	}
	p, ok := game.state.Player(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if !isTopCard(p, cardName) {
		return nil, fmt.Errorf("%w: %s for %s", ErrNotTopCard, cardName, playerID)
	}

	bookmark := game.state.Clone()
	counters := game.watchers.Bookmark(rules.WatcherScopeGame)
	activationID := uuid.NewString()

	resolver := rules.NewResolver(mutation.New(e.logger), decider, game.eventBus, e.opts.Rules, e.logger)
	dispatcher := dogma.NewDispatcher(resolver, dogma.FewerSymbols, game.eventBus, e.logger)
	dispatcher.Observe(func(act *dogma.Activation) {
		label := fmt.Sprintf("%s/%s/%d", act.ID, act.Card, len(act.Steps)-1)
		e.replays.RecordState(gameID, game.state.TakeSnapshot(label))
	})

	act, err := dispatcher.Activate(ctx, game.state, activationID, cardName, p, e.catalog.Effects(cardName))
	affected := append([]string(nil), game.demands.Affected(activationID)...)
	game.demands.Forget(activationID)
	game.watchers.ResetWatchersByScope(rules.WatcherScopeActivation)

	if err != nil {
		game.state = bookmark
		game.watchers.Restore(counters)
		e.replays.RecordState(gameID, game.state.TakeSnapshot(activationID+"/restored"))
		e.logger.Warn("activation rolled back",
			zap.String("game_id", gameID),
			zap.String("activation_id", activationID),
			zap.String("card", cardName),
			zap.Error(err))
		e.emitNotification(GameNotification{
			Type:      NotifyActivationAborted,
			GameID:    gameID,
			PlayerID:  playerID,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"activation_id": activationID,
				"card":          cardName,
				"error":         err.Error(),
			},
		})
		return act, err
	}

	game.history = append(game.history, act)
	e.emitNotification(GameNotification{
		Type:      NotifyActivationDone,
		GameID:    gameID,
		PlayerID:  playerID,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"activation_id": activationID,
			"card":          cardName,
			"steps":         len(act.Steps),
			"affected":      affected,
		},
	})
	return act, nil
}

// Snapshot returns a name-only copy of a game's table.
func (e *Engine) Snapshot(gameID string) (*state.Snapshot, error) {
	game, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	return game.state.TakeSnapshot(gameID), nil
}

// History returns the finished activations of a game, oldest first.
func (e *Engine) History(gameID string) ([]*dogma.Activation, error) {
	game, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	return append([]*dogma.Activation(nil), game.history...), nil
}

// CardsDrawn returns how many cards a player has drawn this game.
func (e *Engine) CardsDrawn(gameID, playerID string) (int, error) {
	game, err := e.game(gameID)
	if err != nil {
		return 0, err
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	w, ok := game.watchers.GetWatcher("CardsDrawnWatcher").(*watchers.CardsDrawnWatcher)
	if !ok {
		return 0, nil
	}
	return w.GetCount(playerID), nil
}

// CardsScored returns how many cards entered a player's score pile this
// game.
func (e *Engine) CardsScored(gameID, playerID string) (int, error) {
	game, err := e.game(gameID)
	if err != nil {
		return 0, err
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	w, ok := game.watchers.GetWatcher("ScorePileWatcher").(*watchers.ScorePileWatcher)
	if !ok {
		return 0, nil
	}
	return w.GetCount(playerID), nil
}

// EndGame stops a game. Further activations are rejected and replay
// recording stops.
func (e *Engine) EndGame(gameID string) error {
	game, err := e.game(gameID)
	if err != nil {
		return err
	}
	game.mu.Lock()
	game.ended = true
	game.mu.Unlock()

	e.replays.StopRecording(gameID)
	e.emitNotification(GameNotification{
		Type:      NotifyGameEnded,
		GameID:    gameID,
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"duration": time.Since(game.startedAt).String()},
	})
	return nil
}

// CleanupGame removes a game and its in-memory replay.
func (e *Engine) CleanupGame(gameID string) error {
	e.mu.Lock()
	game, exists := e.games[gameID]
	if !exists {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	delete(e.games, gameID)
	e.mu.Unlock()

	game.mu.Lock()
	game.eventBus.Unsubscribe(game.watchHandle)
	game.watchers.ResetWatchers()
	game.mu.Unlock()
	e.replays.ClearReplay(gameID)

	e.logger.Info("cleaned up game", zap.String("game_id", gameID))
	return nil
}

func (e *Engine) game(gameID string) (*engineGame, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	game, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

func (e *Engine) emitNotification(notification GameNotification) {
	e.mu.RLock()
	handler := e.notificationHandler
	e.mu.RUnlock()

	if handler != nil {
		// Handlers may call back into the engine.
		go handler(notification)
	}
}

func isTopCard(p *player.Player, name string) bool {
	for _, c := range p.TopCards() {
		if c.Name == name {
			return true
		}
	}
	return false
}
