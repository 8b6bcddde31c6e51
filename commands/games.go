package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trechriron/agent-arcade-trentin/games"
)

func GamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List the registered games",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range games.List() {
				game, err := games.Get(name)
				if err != nil {
					return err
				}
				scoreRange := game.ScoreRange()
				fmt.Printf("%-20s v%-8s scores [%v, %v]  %s\n",
					game.Name(), game.Version(), scoreRange.Min, scoreRange.Max, game.Description())
			}
			return nil
		},
	}
}
