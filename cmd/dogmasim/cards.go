package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var cardsAge int

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the cards in the catalog",
	RunE:  runCards,
}

func init() {
	cardsCmd.Flags().IntVar(&cardsAge, "age", 0, "only list cards of this age")
}

func runCards(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer e.logger.Sync() //nolint:errcheck

	out := cmd.OutOrStdout()
	for _, name := range e.catalog.Names() {
		c, _ := e.catalog.Card(name)
		if cardsAge != 0 && c.Age != cardsAge {
			continue
		}
		kinds := make([]string, 0, 2)
		for _, eff := range e.catalog.Effects(name) {
			kinds = append(kinds, fmt.Sprintf("%s(%s)", eff.Kind, eff.Symbol))
		}
		fmt.Fprintf(out, "%-16s age %-2d %-7s %s\n", c.Name, c.Age, c.Color, strings.Join(kinds, " "))
	}
	return nil
}
