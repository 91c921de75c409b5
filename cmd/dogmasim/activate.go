package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/innovationgame/innovation-server-go/internal/game"
	"github.com/innovationgame/innovation-server-go/internal/game/cards"
	"github.com/innovationgame/innovation-server-go/internal/game/decision"
	"github.com/innovationgame/innovation-server-go/internal/game/dogma"
	"github.com/innovationgame/innovation-server-go/internal/game/effects"
	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

var (
	seed           uint64
	players        []string
	acceptOptional bool
	saveReplay     bool
)

var activateCmd = &cobra.Command{
	Use:   "activate CARD[@PLAYER]...",
	Short: "Meld and activate cards in order on a seeded table",
	Long: `Build a table from the seed, then for each argument meld the card on
the player's board and activate it. Without @PLAYER the players take turns
in seat order. Every decision takes the first legal option.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runActivate,
}

func init() {
	activateCmd.Flags().Uint64Var(&seed, "seed", 1, "table seed")
	activateCmd.Flags().StringSliceVar(&players, "players", []string{"alice", "bob"}, "player IDs in seat order")
	activateCmd.Flags().BoolVar(&acceptOptional, "accept-optional", true, "accept every \"you may\" effect")
	activateCmd.Flags().BoolVar(&saveReplay, "save-replay", false, "write the replay to replay.dir")
}

type play struct {
	card   string
	player string
}

func parsePlays(args, seats []string) ([]play, error) {
	out := make([]play, 0, len(args))
	for i, arg := range args {
		card, who, found := strings.Cut(arg, "@")
		if !found {
			who = seats[i%len(seats)]
		}
		if card == "" || who == "" {
			return nil, fmt.Errorf("bad play %q", arg)
		}
		out = append(out, play{card: card, player: who})
	}
	return out, nil
}

func runActivate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.logger.Sync() //nolint:errcheck

	plays, err := parsePlays(args, players)
	if err != nil {
		return err
	}

	engine := game.NewEngine(e.catalog, engineOptions(e.cfg), e.logger)
	gs, err := engine.NewTable(players, seed)
	if err != nil {
		return err
	}
	const gameID = "dogmasim"
	if err := engine.LoadGame(gameID, gs); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	decider := decision.FirstChoice{AcceptOptional: acceptOptional}
	for _, pl := range plays {
		p, ok := gs.Player(pl.player)
		if !ok {
			return fmt.Errorf("unknown player %s", pl.player)
		}
		c, ok := e.catalog.Card(pl.card)
		if !ok {
			return fmt.Errorf("unknown card %s", pl.card)
		}
		pull(gs, c)
		p.MeldOnBoard(c)

		act, err := engine.ActivateCard(ctx, gameID, pl.player, pl.card, decider)
		if err != nil {
			return fmt.Errorf("%s by %s: %w", pl.card, pl.player, err)
		}
		printActivation(out, act)
	}

	snap, err := engine.Snapshot(gameID)
	if err != nil {
		return err
	}
	printTable(out, snap)

	if saveReplay {
		if err := engine.Replays().SaveReplay(gameID); err != nil {
			return err
		}
		e.logger.Info("replay saved", zap.String("dir", e.cfg.Replay.Dir))
	}
	return engine.EndGame(gameID)
}

// pull takes a card out of wherever it is on the table so it can be
// melded.
func pull(gs *state.GameState, c *cards.Card) {
	for age, pile := range gs.DrawPiles {
		for i, other := range pile {
			if other == c {
				gs.DrawPiles[age] = append(pile[:i:i], pile[i+1:]...)
				return
			}
		}
	}
	for _, p := range gs.Players {
		if p.RemoveFromHand(c) || p.RemoveFromScorePile(c) || p.RemoveTopCard(c) {
			return
		}
	}
}

func printActivation(w io.Writer, act *dogma.Activation) {
	fmt.Fprintf(w, "%s activates %s\n", act.Activating.ID, act.Card)
	for _, step := range act.Steps {
		switch step.Kind {
		case dogma.KindDemand:
			for i, target := range step.Targets {
				fmt.Fprintf(w, "  [%d] demand on %s: %s\n", step.Index, target, describeOutcome(step.DemandOutcomes[i]))
			}
			if len(step.Targets) == 0 {
				fmt.Fprintf(w, "  [%d] demand: no targets\n", step.Index)
			}
			if step.Chained {
				fmt.Fprintf(w, "  [%d] chained: %s\n", step.Index, describeOutcome(step.Outcome))
			}
		default:
			fmt.Fprintf(w, "  [%d] dogma: %s\n", step.Index, describeOutcome(step.Outcome))
		}
	}
}

func describeOutcome(o *effects.Outcome) string {
	if o == nil || o.Empty() {
		return "nothing"
	}
	var parts []string
	if len(o.Cards) > 0 {
		parts = append(parts, "cards "+strings.Join(effects.CardNames(o.Cards), ","))
	}
	if len(o.Received) > 0 {
		parts = append(parts, "received "+strings.Join(effects.CardNames(o.Received), ","))
	}
	if len(o.Revealed) > 0 {
		parts = append(parts, "revealed "+strings.Join(effects.CardNames(o.Revealed), ","))
	}
	if o.Player != nil {
		parts = append(parts, "to "+o.Player.ID)
	}
	if o.Color != 0 {
		parts = append(parts, fmt.Sprintf("splay %s %s", o.Color, o.Direction))
	}
	if o.Achievement != "" {
		parts = append(parts, "achieved "+o.Achievement)
	}
	return strings.Join(parts, "; ")
}

func printTable(w io.Writer, snap *state.Snapshot) {
	fmt.Fprintln(w, "table:")
	for _, id := range snap.PlayerOrder {
		p := snap.Players[id]
		fmt.Fprintf(w, "  %s hand=%v score=%v achievements=%v\n", id, p.Hand, p.ScorePile, p.Achievements)
		for _, color := range []string{"red", "yellow", "green", "blue", "purple"} {
			if stack, ok := p.Board[color]; ok {
				fmt.Fprintf(w, "    %-6s %-5s %v\n", color, stack.Splay, stack.Cards)
			}
		}
	}
}
