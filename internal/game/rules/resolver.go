package rules

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/player"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// Options bounds a resolver.
type Options struct {
	// MaxDepth limits how many effect nodes may be open at once.
	MaxDepth int
	// MaxRepeat limits the rounds of a repeating draw.
	MaxRepeat int
	// DecisionAttempts is how many times a decider is asked before an
	// illegal answer aborts the activation.
	DecisionAttempts int
}

// DefaultOptions returns the limits used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxDepth:         64,
		MaxRepeat:        32,
		DecisionAttempts: 3,
	}
}

// Scope says on whose behalf an effect is resolved.
type Scope struct {
	ActivationID string
	SourceCard   string
	Activating   *player.Player
	// Target is the player the effect is resolved for: the activating
	// player for dogma and chained effects, the demanded player for a
	// demand. Defaults to Activating.
	Target *player.Player
}

func (s Scope) actor(p *player.Player) *player.Player {
	if p != nil {
		return p
	}
	return s.Target
}

// Resolver interprets effect trees against a game state. Mutations go
// through the Mutator and choices through the Decider; the resolver itself
// never picks a card for a player.
type Resolver struct {
	mutator Mutator
	decider Decider
	bus     *EventBus
	frames  *FrameStack
	opts    Options
	logger  *zap.Logger
}

// NewResolver creates a resolver. Zero option fields take their defaults;
// bus and logger may be nil.
func NewResolver(mutator Mutator, decider Decider, bus *EventBus, opts Options, logger *zap.Logger) *Resolver {
	defaults := DefaultOptions()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaults.MaxDepth
	}
	if opts.MaxRepeat <= 0 {
		opts.MaxRepeat = defaults.MaxRepeat
	}
	if opts.DecisionAttempts <= 0 {
		opts.DecisionAttempts = defaults.DecisionAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		mutator: mutator,
		decider: decider,
		bus:     bus,
		frames:  NewFrameStack(opts.MaxDepth),
		opts:    opts,
		logger:  logger,
	}
}

// Frames exposes the nodes currently being resolved.
func (r *Resolver) Frames() *FrameStack {
	return r.frames
}

// Resolve runs an effect tree to completion and returns the union of
// everything its primitives touched. A nil effect returns a nil outcome
// without touching the state.
func (r *Resolver) Resolve(ctx context.Context, gs *state.GameState, scope Scope, e effects.Effect) (*effects.Outcome, error) {
	if scope.Target == nil {
		scope.Target = scope.Activating
	}
	if scope.Target == nil {
		return nil, fmt.Errorf("%w: no player to resolve for", ErrInvariantViolation)
	}
	out, err := r.resolve(ctx, gs, scope, e, "")
	if err != nil {
		r.frames.Reset()
		r.logger.Warn("effect resolution aborted",
			zap.String("activation_id", scope.ActivationID),
			zap.String("card", scope.SourceCard),
			zap.String("player", scope.Target.ID),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, gs *state.GameState, scope Scope, e effects.Effect, kind FrameKind) (*effects.Outcome, error) {
	if effects.IsNone(e) {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	description := effects.Describe(e)
	if kind == "" {
		kind = FrameKindOperator
		if _, ok := e.(effects.Primitive); ok {
			kind = FrameKindPrimitive
		}
	}
	if err := r.frames.Push(Frame{
		ActivationID: scope.ActivationID,
		SourceCard:   scope.SourceCard,
		PlayerID:     scope.Target.ID,
		Kind:         kind,
		Description:  description,
	}); err != nil {
		return nil, err
	}
	defer r.frames.Pop()

	r.logger.Debug("resolving effect",
		zap.String("activation_id", scope.ActivationID),
		zap.String("player", scope.Target.ID),
		zap.Int("depth", r.frames.Depth()),
		zap.String("effect", description))

	switch v := e.(type) {
	case *effects.And:
		var total *effects.Outcome
		for _, member := range v.Members {
			out, err := r.resolve(ctx, gs, scope, member, "")
			if err != nil {
				return nil, err
			}
			total = merge(total, out)
		}
		return total, nil

	case *effects.UpTo:
		var total *effects.Outcome
		for i := 0; i < v.NumTimes; i++ {
			if !r.satisfiable(gs, scope, v.Primitive) {
				break
			}
			out, err := r.resolve(ctx, gs, scope, v.Primitive, "")
			if err != nil {
				return nil, err
			}
			total = merge(total, out)
		}
		return total, nil

	case *effects.Optional:
		if effects.IsNone(v.Operation) {
			return nil, nil
		}
		p := promptPlayer(scope, v.Operation)
		accepted, err := r.decider.Accept(ctx, AcceptPrompt{
			ActivationID: scope.ActivationID,
			SourceCard:   scope.SourceCard,
			Player:       p,
			Effect:       effects.Describe(v.Operation),
		})
		if err != nil {
			return nil, err
		}
		if !accepted {
			r.bus.Publish(NewEvent(EventDeclined, scope.ActivationID, scope.SourceCard, p.ID))
			return nil, nil
		}
		return r.resolve(ctx, gs, scope, v.Operation, "")

	case effects.Primitive:
		out, err := r.apply(ctx, gs, scope, v)
		if err != nil {
			return nil, err
		}
		next := v.Continuation()
		if next == nil {
			return out, nil
		}
		follow, err := r.resolve(ctx, gs, scope, next(*out), FrameKindContinuation)
		if err != nil {
			return nil, err
		}
		return merge(out, follow), nil

	default:
		return nil, fmt.Errorf("%w: unknown effect %T", ErrInvariantViolation, e)
	}
}

// apply performs one primitive and returns its own outcome, never nil.
func (r *Resolver) apply(ctx context.Context, gs *state.GameState, scope Scope, prim effects.Primitive) (*effects.Outcome, error) {
	switch v := prim.(type) {
	case *effects.Draw:
		return r.applyDraw(gs, scope, v)
	case *effects.Meld:
		p := scope.actor(v.Player)
		min, max := effects.Bounds(v.MinCards, v.MaxCards, len(r.allowed(gs, scope, v.Allowed, p.Hand)))
		return r.applyFromHand(ctx, gs, scope, PromptMeld, EventMelded, p, v.Allowed, min, max, r.mutator.Meld)
	case *effects.Tuck:
		p := scope.actor(v.Player)
		min, max := effects.Bounds(v.MinCards, v.MaxCards, len(r.allowed(gs, scope, v.Allowed, p.Hand)))
		return r.applyFromHand(ctx, gs, scope, PromptTuck, EventTucked, p, v.Allowed, min, max, r.mutator.Tuck)
	case *effects.Return:
		p := scope.actor(v.Player)
		min, max := effects.Bounds(v.MinCards, v.MaxCards, len(r.allowed(gs, scope, v.Allowed, p.Hand)))
		return r.applyFromHand(ctx, gs, scope, PromptReturn, EventReturned, p, v.Allowed, min, max, r.mutator.Return)
	case *effects.Score:
		p := scope.actor(v.Player)
		options := len(r.allowed(gs, scope, v.Allowed, p.Hand))
		min, max := options, options
		if v.MaxCards > 0 {
			min, max = effects.Bounds(v.MinCards, v.MaxCards, options)
		}
		return r.applyFromHand(ctx, gs, scope, PromptScore, EventScored, p, v.Allowed, min, max, r.mutator.Score)
	case *effects.TransferCard:
		return r.applyTransfer(ctx, gs, scope, v)
	case *effects.ExchangeCards:
		return r.applyExchange(ctx, gs, scope, v)
	case *effects.Splay:
		return r.applySplay(ctx, gs, scope, v)
	case *effects.Achieve:
		p := scope.actor(v.Player)
		granted, err := r.mutator.Achieve(gs, p, v.Achievement)
		if err != nil {
			return nil, err
		}
		if !granted {
			return &effects.Outcome{}, nil
		}
		evt := NewEvent(EventAchieved, scope.ActivationID, scope.SourceCard, p.ID)
		evt.Data = v.Achievement
		r.bus.Publish(evt)
		return &effects.Outcome{Achievement: v.Achievement}, nil
	default:
		return nil, fmt.Errorf("%w: unknown primitive %T", ErrInvariantViolation, prim)
	}
}

func (r *Resolver) applyDraw(gs *state.GameState, scope Scope, v *effects.Draw) (*effects.Outcome, error) {
	p := scope.actor(v.Player)
	level := v.Level
	if level <= 0 {
		level = p.MaxTopAge()
	}

	var all []*cards.Card
	for round := 1; ; round++ {
		drawn := r.mutator.Draw(gs, p, level, v.Count())
		if len(drawn) > 0 {
			loc := effects.LocationHand
			if v.Location != nil {
				loc = v.Location(drawn)
			}
			for _, c := range drawn {
				if err := r.mutator.Place(gs, p, c, loc, v.Tuck); err != nil {
					return nil, err
				}
			}
			evt := NewCardEvent(EventDrew, scope.ActivationID, scope.SourceCard, p.ID, effects.CardNames(drawn))
			evt.Data = loc.String()
			evt.Metadata["age"] = fmt.Sprint(level)
			if v.Tuck {
				evt.Metadata["tuck"] = "true"
			}
			r.bus.Publish(evt)
			all = append(all, drawn...)
		}
		if v.RepeatWhile == nil || len(drawn) == 0 || !v.RepeatWhile(drawn) {
			break
		}
		if round >= r.opts.MaxRepeat {
			r.logger.Warn("repeating draw stopped at limit",
				zap.String("activation_id", scope.ActivationID),
				zap.String("player", p.ID),
				zap.Int("rounds", round))
			break
		}
	}

	out := &effects.Outcome{Cards: all}
	if v.Reveal && len(all) > 0 {
		out.Revealed = append([]*cards.Card(nil), all...)
		r.bus.Publish(NewCardEvent(EventRevealed, scope.ActivationID, scope.SourceCard, p.ID, effects.CardNames(all)))
	}
	return out, nil
}

func (r *Resolver) applyFromHand(
	ctx context.Context,
	gs *state.GameState,
	scope Scope,
	kind PromptKind,
	eventType EventType,
	p *player.Player,
	allowed effects.CardSelector,
	min, max int,
	move func(*state.GameState, *player.Player, *cards.Card) error,
) (*effects.Outcome, error) {
	options := r.allowed(gs, scope, allowed, p.Hand)
	chosen, err := r.chooseCards(ctx, scope, kind, p, options, min, max)
	if err != nil {
		return nil, err
	}
	for _, c := range chosen {
		if err := move(gs, p, c); err != nil {
			return nil, err
		}
	}
	if len(chosen) > 0 {
		r.bus.Publish(NewCardEvent(eventType, scope.ActivationID, scope.SourceCard, p.ID, effects.CardNames(chosen)))
	}
	return &effects.Outcome{Cards: chosen}, nil
}

func (r *Resolver) applyTransfer(ctx context.Context, gs *state.GameState, scope Scope, v *effects.TransferCard) (*effects.Outcome, error) {
	giver := scope.actor(v.Giving)
	options := r.allowed(gs, scope, v.Allowed, zoneCards(giver, v.From))
	if len(options) == 0 {
		return &effects.Outcome{}, nil
	}
	receivers := v.AllowedReceiving
	if len(receivers) == 0 {
		receivers = []*player.Player{scope.Activating}
	}
	receiver, err := r.choosePlayer(ctx, scope, PromptChooseReceiver, giver, receivers)
	if err != nil {
		return nil, err
	}

	n := v.NumCards
	if n <= 0 {
		n = 1
	}
	if n > len(options) {
		n = len(options)
	}
	chosen, err := r.chooseCards(ctx, scope, PromptTransfer, giver, options, n, n)
	if err != nil {
		return nil, err
	}
	for _, c := range chosen {
		if err := r.mutator.Transfer(gs, giver, receiver, c, v.From, v.To); err != nil {
			return nil, err
		}
	}
	evt := NewCardEvent(EventTransferred, scope.ActivationID, scope.SourceCard, giver.ID, effects.CardNames(chosen))
	evt.TargetPlayerID = receiver.ID
	evt.Data = v.From.String() + "->" + v.To.String()
	evt.Metadata["to"] = v.To.String()
	r.bus.Publish(evt)
	return &effects.Outcome{Cards: chosen, Player: receiver}, nil
}

func (r *Resolver) applyExchange(ctx context.Context, gs *state.GameState, scope Scope, v *effects.ExchangeCards) (*effects.Outcome, error) {
	givers := v.AllowedGiving
	if len(givers) == 0 {
		givers = []*player.Player{scope.Target}
	}
	receivers := v.AllowedReceiving
	if len(receivers) == 0 {
		receivers = []*player.Player{scope.Activating}
	}
	giver, err := r.choosePlayer(ctx, scope, PromptChooseGiver, scope.Target, givers)
	if err != nil {
		return nil, err
	}
	receiver, err := r.choosePlayer(ctx, scope, PromptChooseReceiver, giver, receivers)
	if err != nil {
		return nil, err
	}

	var givingOptions, receivingOptions []*cards.Card
	if v.GivingCards != nil {
		givingOptions = v.GivingCards(gs, giver, receiver)
	}
	if v.ReceivingCards != nil {
		receivingOptions = v.ReceivingCards(gs, giver, receiver)
	}
	nGive := clamp(v.NumGiving, len(givingOptions))
	nTake := clamp(v.NumReceiving, len(receivingOptions))

	giving, err := r.chooseCards(ctx, scope, PromptExchangeGive, giver, givingOptions, nGive, nGive)
	if err != nil {
		return nil, err
	}
	receiving, err := r.chooseCards(ctx, scope, PromptExchangeTake, receiver, receivingOptions, nTake, nTake)
	if err != nil {
		return nil, err
	}
	if len(giving) == 0 && len(receiving) == 0 {
		return &effects.Outcome{}, nil
	}
	if err := r.mutator.Exchange(gs, giver, receiver, giving, receiving, v.GivingLocation, v.ReceivingLocation); err != nil {
		return nil, err
	}

	evt := NewCardEvent(EventExchanged, scope.ActivationID, scope.SourceCard, giver.ID,
		append(effects.CardNames(giving), effects.CardNames(receiving)...))
	evt.TargetPlayerID = receiver.ID
	evt.Data = v.GivingLocation.String() + "<->" + v.ReceivingLocation.String()
	r.bus.Publish(evt)
	return &effects.Outcome{Cards: giving, Received: receiving, Player: receiver}, nil
}

func (r *Resolver) applySplay(ctx context.Context, gs *state.GameState, scope Scope, v *effects.Splay) (*effects.Outcome, error) {
	p := scope.actor(v.Player)
	colors := splayableColors(p, v)
	if len(colors) == 0 || len(v.AllowedDirections) == 0 {
		return &effects.Outcome{}, nil
	}

	color, dir := colors[0], v.AllowedDirections[0]
	if len(colors) > 1 || len(v.AllowedDirections) > 1 {
		prompt := SplayPrompt{
			ActivationID: scope.ActivationID,
			SourceCard:   scope.SourceCard,
			Player:       p,
			Colors:       colors,
			Directions:   v.AllowedDirections,
		}
		var err error
		color, dir, err = r.askSplay(ctx, prompt)
		if err != nil {
			return nil, err
		}
	}
	if err := r.mutator.Splay(gs, p, color, dir); err != nil {
		return nil, err
	}
	evt := NewEvent(EventSplayed, scope.ActivationID, scope.SourceCard, p.ID)
	evt.Data = color.String() + ":" + dir.String()
	r.bus.Publish(evt)
	return &effects.Outcome{Color: color, Direction: dir}, nil
}

// satisfiable reports whether a primitive still has something to act on.
func (r *Resolver) satisfiable(gs *state.GameState, scope Scope, prim effects.Primitive) bool {
	if effects.IsNone(prim) {
		return false
	}
	switch v := prim.(type) {
	case *effects.Draw:
		p := scope.actor(v.Player)
		level := v.Level
		if level <= 0 {
			level = p.MaxTopAge()
		}
		return gs.PileSize(level) > 0
	case *effects.Meld:
		return len(r.allowed(gs, scope, v.Allowed, scope.actor(v.Player).Hand)) > 0
	case *effects.Tuck:
		return len(r.allowed(gs, scope, v.Allowed, scope.actor(v.Player).Hand)) > 0
	case *effects.Return:
		return len(r.allowed(gs, scope, v.Allowed, scope.actor(v.Player).Hand)) > 0
	case *effects.Score:
		return len(r.allowed(gs, scope, v.Allowed, scope.actor(v.Player).Hand)) > 0
	case *effects.TransferCard:
		giver := scope.actor(v.Giving)
		return len(r.allowed(gs, scope, v.Allowed, zoneCards(giver, v.From))) > 0
	case *effects.Splay:
		return len(splayableColors(scope.actor(v.Player), v)) > 0 && len(v.AllowedDirections) > 0
	case *effects.Achieve:
		_, ok := gs.Achievement(v.Achievement)
		return ok && !scope.actor(v.Player).HasAchievement(v.Achievement)
	default:
		return true
	}
}

func (r *Resolver) allowed(gs *state.GameState, scope Scope, sel effects.CardSelector, fallback []*cards.Card) []*cards.Card {
	if sel == nil {
		return fallback
	}
	return sel(gs, scope.Activating, scope.Target)
}

func (r *Resolver) chooseCards(ctx context.Context, scope Scope, kind PromptKind, p *player.Player, options []*cards.Card, min, max int) ([]*cards.Card, error) {
	if len(options) == 0 || max <= 0 {
		return nil, nil
	}
	if min >= len(options) {
		return append([]*cards.Card(nil), options...), nil
	}
	prompt := CardPrompt{
		Kind:         kind,
		ActivationID: scope.ActivationID,
		SourceCard:   scope.SourceCard,
		Player:       p,
		Options:      options,
		Min:          min,
		Max:          max,
	}
	for attempt := 1; attempt <= r.opts.DecisionAttempts; attempt++ {
		chosen, err := r.decider.ChooseCards(ctx, prompt)
		if err != nil {
			return nil, err
		}
		verr := validateCards(prompt, chosen)
		if verr == nil {
			return chosen, nil
		}
		r.logger.Warn("illegal card choice",
			zap.String("activation_id", scope.ActivationID),
			zap.String("player", p.ID),
			zap.String("prompt", string(kind)),
			zap.Int("attempt", attempt),
			zap.Error(verr))
	}
	return nil, fmt.Errorf("%w: %s prompt for %s unanswered after %d attempts", ErrDecisionViolation, kind, p.ID, r.opts.DecisionAttempts)
}

func (r *Resolver) choosePlayer(ctx context.Context, scope Scope, kind PromptKind, chooser *player.Player, options []*player.Player) (*player.Player, error) {
	if len(options) == 1 {
		return options[0], nil
	}
	prompt := PlayerPrompt{
		Kind:         kind,
		ActivationID: scope.ActivationID,
		SourceCard:   scope.SourceCard,
		Player:       chooser,
		Options:      options,
	}
	for attempt := 1; attempt <= r.opts.DecisionAttempts; attempt++ {
		chosen, err := r.decider.ChoosePlayer(ctx, prompt)
		if err != nil {
			return nil, err
		}
		for _, o := range options {
			if o.Equal(chosen) {
				return o, nil
			}
		}
		r.logger.Warn("illegal player choice",
			zap.String("activation_id", scope.ActivationID),
			zap.String("player", chooser.ID),
			zap.String("prompt", string(kind)),
			zap.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("%w: %s prompt for %s unanswered after %d attempts", ErrDecisionViolation, kind, chooser.ID, r.opts.DecisionAttempts)
}

func (r *Resolver) askSplay(ctx context.Context, prompt SplayPrompt) (cards.Color, cards.SplayDirection, error) {
	for attempt := 1; attempt <= r.opts.DecisionAttempts; attempt++ {
		color, dir, err := r.decider.ChooseSplay(ctx, prompt)
		if err != nil {
			return 0, 0, err
		}
		if prompt.Allows(color, dir) {
			return color, dir, nil
		}
		r.logger.Warn("illegal splay choice",
			zap.String("activation_id", prompt.ActivationID),
			zap.String("player", prompt.Player.ID),
			zap.Stringer("color", color),
			zap.Stringer("direction", dir),
			zap.Int("attempt", attempt))
	}
	return 0, 0, fmt.Errorf("%w: %s prompt for %s unanswered after %d attempts", ErrDecisionViolation, PromptSplay, prompt.Player.ID, r.opts.DecisionAttempts)
}

func validateCards(prompt CardPrompt, chosen []*cards.Card) error {
	if len(chosen) < prompt.Min || len(chosen) > prompt.Max {
		return fmt.Errorf("chose %d cards, want %d..%d", len(chosen), prompt.Min, prompt.Max)
	}
	seen := make(map[string]bool, len(chosen))
	for _, c := range chosen {
		if c == nil {
			return fmt.Errorf("chose a nil card")
		}
		if seen[c.Name] {
			return fmt.Errorf("chose %s twice", c.Name)
		}
		seen[c.Name] = true
		if !cards.Contains(prompt.Options, c) {
			return fmt.Errorf("%s is not an option", c.Name)
		}
	}
	return nil
}

// splayableColors lists the allowed colors whose pile can splay in at
// least one allowed direction it is not already splayed in.
func splayableColors(p *player.Player, v *effects.Splay) []cards.Color {
	allowed := v.AllowedColors
	if len(allowed) == 0 {
		allowed = cards.AllColors
	}
	var out []cards.Color
	for _, color := range allowed {
		stack := p.Stack(color)
		if stack == nil || !stack.CanSplay() {
			continue
		}
		for _, dir := range v.AllowedDirections {
			if dir != stack.Splay() {
				out = append(out, color)
				break
			}
		}
	}
	return out
}

// promptPlayer is the player who decides on an optional effect.
func promptPlayer(scope Scope, e effects.Effect) *player.Player {
	switch v := e.(type) {
	case *effects.Draw:
		return scope.actor(v.Player)
	case *effects.Meld:
		return scope.actor(v.Player)
	case *effects.Tuck:
		return scope.actor(v.Player)
	case *effects.Return:
		return scope.actor(v.Player)
	case *effects.Score:
		return scope.actor(v.Player)
	case *effects.TransferCard:
		return scope.actor(v.Giving)
	case *effects.Splay:
		return scope.actor(v.Player)
	case *effects.Achieve:
		return scope.actor(v.Player)
	default:
		return scope.Target
	}
}

func zoneCards(p *player.Player, loc effects.Location) []*cards.Card {
	switch loc {
	case effects.LocationHand:
		return p.Hand
	case effects.LocationScorePile:
		return p.ScorePile
	case effects.LocationBoard:
		return p.TopCards()
	default:
		return nil
	}
}

func merge(a, b *effects.Outcome) *effects.Outcome {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	merged := a.Merge(*b)
	return &merged
}

func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}

func containsColor(list []cards.Color, c cards.Color) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func containsDirection(list []cards.SplayDirection, d cards.SplayDirection) bool {
	for _, x := range list {
		if x == d {
			return true
		}
	}
	return false
}
