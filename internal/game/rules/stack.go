package rules

import (
	"errors"
	"fmt"
	"sync"
)

// FrameKind describes the type of effect node being resolved.
type FrameKind string

const (
	// FrameKindPrimitive is a card mutation.
	FrameKindPrimitive FrameKind = "PRIMITIVE"
	// FrameKindOperator is an And, UpTo or Optional node.
	FrameKindOperator FrameKind = "OPERATOR"
	// FrameKindContinuation is the effect returned by an OnCompletion hook.
	FrameKindContinuation FrameKind = "CONTINUATION"
)

// Frame is one effect node in the middle of resolution.
type Frame struct {
	ActivationID string
	SourceCard   string
	PlayerID     string
	Kind         FrameKind
	Description  string
}

// FrameStack tracks the effect nodes currently being resolved, innermost
// last. Pushing beyond the depth limit fails.
type FrameStack struct {
	mu       sync.Mutex
	frames   []Frame
	maxDepth int
}

// NewFrameStack creates a frame stack. A non-positive maxDepth disables the
// limit.
func NewFrameStack(maxDepth int) *FrameStack {
	return &FrameStack{
		frames:   make([]Frame, 0, 16),
		maxDepth: maxDepth,
	}
}

// Push adds a frame to the top of the stack.
func (fs *FrameStack) Push(frame Frame) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.maxDepth > 0 && len(fs.frames) >= fs.maxDepth {
		return fmt.Errorf("%w: resolution deeper than %d frames at %s", ErrInvariantViolation, fs.maxDepth, frame.Description)
	}
	fs.frames = append(fs.frames, frame)
	return nil
}

// Pop removes the top frame.
func (fs *FrameStack) Pop() (Frame, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.frames) == 0 {
		return Frame{}, errors.New("frame stack empty")
	}

	idx := len(fs.frames) - 1
	frame := fs.frames[idx]
	fs.frames = fs.frames[:idx]
	return frame, nil
}

// Peek returns the top frame without removing it.
func (fs *FrameStack) Peek() (Frame, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.frames) == 0 {
		return Frame{}, false
	}
	return fs.frames[len(fs.frames)-1], true
}

// List returns a copy of all frames (innermost last).
func (fs *FrameStack) List() []Frame {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cpy := make([]Frame, len(fs.frames))
	copy(cpy, fs.frames)
	return cpy
}

// Depth returns the number of frames.
func (fs *FrameStack) Depth() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.frames)
}

// IsEmpty returns whether the stack is empty.
func (fs *FrameStack) IsEmpty() bool {
	return fs.Depth() == 0
}

// Reset drops every frame. Used after an aborted activation.
func (fs *FrameStack) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.frames = fs.frames[:0]
}
