package dogma

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// Phase is the state of an activation.
type Phase int

const (
	PhasePendingEffects Phase = iota
	PhaseActivatingDogma
	PhaseActivatingDemand
	PhaseDone
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePendingEffects:
		return "PENDING_EFFECTS"
	case PhaseActivatingDogma:
		return "ACTIVATING_DOGMA"
	case PhaseActivatingDemand:
		return "ACTIVATING_DEMAND"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// TargetOrder picks the opponents a demand is issued to, in resolution
// order.
type TargetOrder func(gs *state.GameState, activating *player.Player, eff Effect) []*player.Player

// AllOpponents targets every other player clockwise from the activating
// player.
func AllOpponents(gs *state.GameState, activating *player.Player, _ Effect) []*player.Player {
	return gs.Opponents(activating)
}

// FewerSymbols targets opponents with fewer of the effect's featured symbol
// than the activating player, clockwise.
func FewerSymbols(gs *state.GameState, activating *player.Player, eff Effect) []*player.Player {
	mine := activating.SymbolCount()[eff.Symbol]
	var out []*player.Player
	for _, p := range gs.Opponents(activating) {
		if p.SymbolCount()[eff.Symbol] < mine {
			out = append(out, p)
		}
	}
	return out
}

// Step records what one entry of the effect list did.
type Step struct {
	Index int
	Kind  Kind
	// Outcome is the dogma outcome, or the chained outcome of a demand.
	Outcome *effects.Outcome
	// Targets and DemandOutcomes line up; a nil outcome means the demand
	// had no effect on that target.
	Targets        []string
	DemandOutcomes []*effects.Outcome
	Chained        bool
}

// Activation is one run of a card's effect list.
type Activation struct {
	ID         string
	Card       string
	Activating *player.Player
	Phase      Phase
	// History lists every phase entered, in order.
	History []Phase
	Steps   []Step
}

func (a *Activation) enter(phase Phase) {
	a.Phase = phase
	a.History = append(a.History, phase)
}

type handler func(ctx context.Context, gs *state.GameState, act *Activation, index int, eff Effect) (Step, error)

// Dispatcher runs activations through a resolver.
type Dispatcher struct {
	resolver *rules.Resolver
	targets  TargetOrder
	bus      *rules.EventBus
	logger   *zap.Logger
	table    map[Kind]handler
	phases   map[Kind]Phase
	observer func(*Activation)
}

// NewDispatcher creates a dispatcher. A nil targets uses AllOpponents.
func NewDispatcher(resolver *rules.Resolver, targets TargetOrder, bus *rules.EventBus, logger *zap.Logger) *Dispatcher {
	if targets == nil {
		targets = AllOpponents
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		resolver: resolver,
		targets:  targets,
		bus:      bus,
		logger:   logger,
		phases: map[Kind]Phase{
			KindDogma:  PhaseActivatingDogma,
			KindDemand: PhaseActivatingDemand,
		},
	}
	d.table = map[Kind]handler{
		KindDogma:  d.runDogma,
		KindDemand: d.runDemand,
	}
	return d
}

// Observe registers a callback run after every finished step.
func (d *Dispatcher) Observe(fn func(*Activation)) {
	d.observer = fn
}

// Activate runs a card's effects in order for the activating player. An
// empty activationID gets a generated one. On error the returned
// activation holds the steps finished before the failure.
func (d *Dispatcher) Activate(ctx context.Context, gs *state.GameState, activationID, card string, activating *player.Player, list []Effect) (*Activation, error) {
	if activationID == "" {
		activationID = uuid.NewString()
	}
	act := &Activation{ID: activationID, Card: card, Activating: activating}
	act.enter(PhasePendingEffects)

	d.logger.Info("activating card",
		zap.String("activation_id", act.ID),
		zap.String("card", card),
		zap.String("player", activating.ID),
		zap.Int("effects", len(list)))

	for i, eff := range list {
		run, ok := d.table[eff.Kind]
		if !ok {
			return act, fmt.Errorf("%w: %s effect %d has unknown kind %d", rules.ErrInvariantViolation, card, i, eff.Kind)
		}
		act.enter(d.phases[eff.Kind])
		step, err := run(ctx, gs, act, i, eff)
		if err != nil {
			d.logger.Warn("activation aborted",
				zap.String("activation_id", act.ID),
				zap.String("card", card),
				zap.Int("effect", i),
				zap.Error(err))
			return act, fmt.Errorf("%s effect %d: %w", card, i, err)
		}
		act.Steps = append(act.Steps, step)
		act.enter(PhasePendingEffects)
		if d.observer != nil {
			d.observer(act)
		}
	}

	act.enter(PhaseDone)
	d.bus.Publish(rules.NewEvent(rules.EventActivationDone, act.ID, card, activating.ID))
	return act, nil
}

func (d *Dispatcher) runDogma(ctx context.Context, gs *state.GameState, act *Activation, index int, eff Effect) (Step, error) {
	if eff.Dogma == nil {
		return Step{}, fmt.Errorf("%w: dogma effect without resolver", rules.ErrInvariantViolation)
	}
	d.bus.Publish(rules.NewEvent(rules.EventDogmaActivated, act.ID, act.Card, act.Activating.ID))

	scope := rules.Scope{ActivationID: act.ID, SourceCard: act.Card, Activating: act.Activating, Target: act.Activating}
	out, err := d.resolver.Resolve(ctx, gs, scope, eff.Dogma(gs, act.Activating))
	if err != nil {
		return Step{}, err
	}
	return Step{Index: index, Kind: KindDogma, Outcome: out}, nil
}

func (d *Dispatcher) runDemand(ctx context.Context, gs *state.GameState, act *Activation, index int, eff Effect) (Step, error) {
	if eff.Demand == nil {
		return Step{}, fmt.Errorf("%w: demand effect without resolver", rules.ErrInvariantViolation)
	}
	step := Step{Index: index, Kind: KindDemand}

	for _, target := range d.targets(gs, act.Activating, eff) {
		issued := rules.NewEvent(rules.EventDemandIssued, act.ID, act.Card, act.Activating.ID)
		issued.TargetPlayerID = target.ID
		d.bus.Publish(issued)

		var out *effects.Outcome
		if e := eff.Demand(gs, act.Activating, target); !effects.IsNone(e) {
			scope := rules.Scope{ActivationID: act.ID, SourceCard: act.Card, Activating: act.Activating, Target: target}
			var err error
			out, err = d.resolver.Resolve(ctx, gs, scope, e)
			if err != nil {
				return step, fmt.Errorf("demand on %s: %w", target.ID, err)
			}
		}
		step.Targets = append(step.Targets, target.ID)
		step.DemandOutcomes = append(step.DemandOutcomes, out)

		resolved := rules.NewEvent(rules.EventDemandResolved, act.ID, act.Card, act.Activating.ID)
		resolved.TargetPlayerID = target.ID
		if out != nil && !out.Empty() {
			resolved.Cards = effects.CardNames(out.Cards)
			resolved.Amount = len(out.Cards)
			resolved.Data = "affected"
		} else {
			resolved.Data = "none"
		}
		d.bus.Publish(resolved)
	}

	if eff.Chained == nil {
		return step, nil
	}
	step.Chained = true
	chained := eff.Chained(gs, act.Activating, step.DemandOutcomes)
	scope := rules.Scope{ActivationID: act.ID, SourceCard: act.Card, Activating: act.Activating, Target: act.Activating}
	out, err := d.resolver.Resolve(ctx, gs, scope, chained)
	if err != nil {
		return step, fmt.Errorf("chained effect: %w", err)
	}
	step.Outcome = out
	d.bus.Publish(rules.NewEvent(rules.EventChainedResolved, act.ID, act.Card, act.Activating.ID))
	return step, nil
}
