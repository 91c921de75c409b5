package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// ReplayOptions configures replay recording.
type ReplayOptions struct {
	Enabled bool
	// MaxStates bounds the snapshots kept per game; the oldest are dropped
	// first. Zero keeps everything.
	MaxStates int
	// Dir is where SaveReplay writes replay files.
	Dir string
}

// Replay is a recorded game: one snapshot per finished activation step.
type Replay struct {
	GameID       string
	States       []*state.Snapshot
	CurrentIndex int
	// Dropped counts snapshots discarded to stay under the bound.
	Dropped   int
	maxStates int
	mu        sync.RWMutex
}

// NewReplay creates a new replay instance.
func NewReplay(gameID string, maxStates int) *Replay {
	return &Replay{
		GameID:    gameID,
		States:    make([]*state.Snapshot, 0),
		maxStates: maxStates,
	}
}

// RecordState appends a snapshot, dropping the oldest one when the replay
// is full.
func (r *Replay) RecordState(snapshot *state.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, snapshot)
	if r.maxStates > 0 && len(r.States) > r.maxStates {
		over := len(r.States) - r.maxStates
		r.States = append([]*state.Snapshot(nil), r.States[over:]...)
		r.Dropped += over
		r.CurrentIndex -= over
		if r.CurrentIndex < 0 {
			r.CurrentIndex = 0
		}
	}
}

// Start rewinds the replay.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next returns the state at the cursor and advances it.
func (r *Replay) Next() *state.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		s := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return s
	}
	return nil
}

// Previous moves the cursor back and returns that state.
func (r *Replay) Previous() *state.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Skip moves the cursor by count states, clamped to the recording.
func (r *Replay) Skip(count int) *state.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.States) == 0 {
		return nil
	}
	newIndex := r.CurrentIndex + count
	if newIndex >= len(r.States) {
		newIndex = len(r.States) - 1
	}
	if newIndex < 0 {
		newIndex = 0
	}
	r.CurrentIndex = newIndex
	return r.States[r.CurrentIndex]
}

// Size returns the number of recorded states.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.States)
}

// GetStateAt returns the state at a specific index.
func (r *Replay) GetStateAt(index int) *state.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index]
	}
	return nil
}

// Checksums returns the checksum of every recorded state in order. Two
// runs of the same game from the same seed and decisions produce the same
// list.
func (r *Replay) Checksums() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.States))
	for i, s := range r.States {
		sum, err := s.ComputeChecksum()
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
		out = append(out, sum.Hash)
	}
	return out, nil
}

// SaveToFile writes the replay as a gzipped gob stream.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)
	metadata := replayMetadata{
		GameID:     r.GameID,
		Timestamp:  time.Now(),
		Version:    replayVersion,
		StateCount: len(r.States),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i, s := range r.States {
		data, err := SerializeSnapshot(s)
		if err != nil {
			return fmt.Errorf("state %d: %w", i, err)
		}
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile and checks every
// state against its stored checksum.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, 0)
	for i := 0; i < metadata.StateCount; i++ {
		var data []byte
		if err := decoder.Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		s, err := DeserializeSnapshot(data)
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
		replay.States = append(replay.States, s)
	}
	return replay, nil
}

const replayVersion = 2

type replayMetadata struct {
	GameID     string
	Timestamp  time.Time
	Version    int
	StateCount int
}

// ReplayRecorder keeps one replay per game.
type ReplayRecorder struct {
	logger  *zap.Logger
	opts    ReplayOptions
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
}

// NewReplayRecorder creates a replay recorder. A disabled recorder keeps
// nothing.
func NewReplayRecorder(logger *zap.Logger, opts ReplayOptions) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		opts:    opts,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
	}
}

// StartRecording begins recording a game.
func (rr *ReplayRecorder) StartRecording(gameID string) {
	if !rr.opts.Enabled {
		return
	}
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[gameID] = NewReplay(gameID, rr.opts.MaxStates)
	rr.enabled[gameID] = true
	rr.logger.Info("started replay recording", zap.String("game_id", gameID))
}

// StopRecording stops recording a game; what was recorded is kept.
func (rr *ReplayRecorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.enabled[gameID] {
		rr.enabled[gameID] = false
		rr.logger.Info("stopped replay recording", zap.String("game_id", gameID))
	}
}

// RecordState records a snapshot if the game is being recorded.
func (rr *ReplayRecorder) RecordState(gameID string, snapshot *state.Snapshot) {
	rr.mu.RLock()
	enabled := rr.enabled[gameID]
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}
	replay.RecordState(snapshot)
	rr.logger.Debug("recorded replay state",
		zap.String("game_id", gameID),
		zap.String("label", snapshot.Label),
		zap.Int("state_count", replay.Size()))
}

// GetReplay returns the replay for a game.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, exists := rr.replays[gameID]
	return replay, exists
}

// SaveReplay writes a replay to the configured directory and drops it from
// memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, exists := rr.replays[gameID]
	if !exists {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.opts.Dir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()),
		zap.String("directory", rr.opts.Dir))
	return nil
}

// LoadReplay reads a saved replay from the configured directory.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.opts.Dir, gameID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay from disk",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()))
	return replay, nil
}

// ClearReplay removes a replay from memory without saving.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
}

// IsRecording returns whether recording is enabled for a game.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.enabled[gameID]
}
