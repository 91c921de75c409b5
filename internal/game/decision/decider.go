// Package decision holds rules.Decider implementations that do not need a
// live player: a scripted one for tests and replays, and one that always
// takes the first legal option.
package decision

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
)

// ErrNoAnswer is returned when a scripted decider runs out of answers.
var ErrNoAnswer = errors.New("no scripted answer")

type splayAnswer struct {
	color cards.Color
	dir   cards.SplayDirection
}

// Scripted answers prompts from queues filled in advance, one queue per
// prompt family. Every prompt it sees is recorded.
type Scripted struct {
	mu      sync.Mutex
	cards   [][]string
	players []string
	splays  []splayAnswer
	accepts []bool
	asked   []string
}

var _ rules.Decider = (*Scripted)(nil)

// NewScripted creates an empty script.
func NewScripted() *Scripted {
	return &Scripted{}
}

// Cards queues an answer to the next card prompt, by card name.
func (s *Scripted) Cards(names ...string) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append(s.cards, names)
	return s
}

// Player queues an answer to the next player prompt.
func (s *Scripted) Player(id string) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append(s.players, id)
	return s
}

// Splay queues an answer to the next splay prompt.
func (s *Scripted) Splay(color cards.Color, dir cards.SplayDirection) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.splays = append(s.splays, splayAnswer{color: color, dir: dir})
	return s
}

// Accepts queues an answer to the next optional prompt.
func (s *Scripted) Accepts(accept bool) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepts = append(s.accepts, accept)
	return s
}

// Asked returns the prompts seen so far as "KIND:player".
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

// Remaining reports how many queued answers were never used.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards) + len(s.players) + len(s.splays) + len(s.accepts)
}

func (s *Scripted) ChooseCards(ctx context.Context, prompt rules.CardPrompt) ([]*cards.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(string(prompt.Kind), prompt.Player)
	if len(s.cards) == 0 {
		return nil, fmt.Errorf("%w for %s prompt", ErrNoAnswer, prompt.Kind)
	}
	names := s.cards[0]
	s.cards = s.cards[1:]

	chosen := make([]*cards.Card, 0, len(names))
	for _, name := range names {
		chosen = append(chosen, lookup(prompt.Options, name))
	}
	return chosen, nil
}

func (s *Scripted) ChoosePlayer(ctx context.Context, prompt rules.PlayerPrompt) (*player.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(string(prompt.Kind), prompt.Player)
	if len(s.players) == 0 {
		return nil, fmt.Errorf("%w for %s prompt", ErrNoAnswer, prompt.Kind)
	}
	id := s.players[0]
	s.players = s.players[1:]
	for _, p := range prompt.Options {
		if p.ID == id {
			return p, nil
		}
	}
	return player.New(id), nil
}

func (s *Scripted) ChooseSplay(ctx context.Context, prompt rules.SplayPrompt) (cards.Color, cards.SplayDirection, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(string(rules.PromptSplay), prompt.Player)
	if len(s.splays) == 0 {
		return 0, 0, fmt.Errorf("%w for %s prompt", ErrNoAnswer, rules.PromptSplay)
	}
	answer := s.splays[0]
	s.splays = s.splays[1:]
	return answer.color, answer.dir, nil
}

func (s *Scripted) Accept(ctx context.Context, prompt rules.AcceptPrompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(string(rules.PromptOptional), prompt.Player)
	if len(s.accepts) == 0 {
		return false, fmt.Errorf("%w for %s prompt", ErrNoAnswer, rules.PromptOptional)
	}
	answer := s.accepts[0]
	s.accepts = s.accepts[1:]
	return answer, nil
}

func (s *Scripted) record(kind string, p *player.Player) {
	id := ""
	if p != nil {
		id = p.ID
	}
	s.asked = append(s.asked, kind+":"+id)
}

// lookup finds an option by name. Unknown names come back as a bare card
// so the resolver sees, and rejects, the illegal answer.
func lookup(options []*cards.Card, name string) *cards.Card {
	for _, c := range options {
		if c.Name == name {
			return c
		}
	}
	return cards.New(name, 0, 0)
}

// FirstChoice takes the first legal option of every prompt. Optional
// effects are accepted when AcceptOptional is set.
type FirstChoice struct {
	AcceptOptional bool
}

var _ rules.Decider = FirstChoice{}

func (f FirstChoice) ChooseCards(ctx context.Context, prompt rules.CardPrompt) ([]*cards.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := prompt.Min
	if n < 1 {
		n = 1
	}
	if n > len(prompt.Options) {
		n = len(prompt.Options)
	}
	return append([]*cards.Card(nil), prompt.Options[:n]...), nil
}

func (f FirstChoice) ChoosePlayer(ctx context.Context, prompt rules.PlayerPrompt) (*player.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(prompt.Options) == 0 {
		return nil, fmt.Errorf("%s prompt has no options", prompt.Kind)
	}
	return prompt.Options[0], nil
}

func (f FirstChoice) ChooseSplay(ctx context.Context, prompt rules.SplayPrompt) (cards.Color, cards.SplayDirection, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	for _, color := range prompt.Colors {
		for _, dir := range prompt.Directions {
			if prompt.Allows(color, dir) {
				return color, dir, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("splay prompt has no legal options")
}

func (f FirstChoice) Accept(ctx context.Context, _ rules.AcceptPrompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return f.AcceptOptional, nil
}
