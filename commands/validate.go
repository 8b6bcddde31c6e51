package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trechriron/agent-arcade-trentin/games"
)

func ValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that a model file loads against the game",
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := games.Get(gameName)
			if err != nil {
				return err
			}
			path := resolveModelPath()
			if game.ValidateModel(path) {
				fmt.Printf("%s is a valid %s model\n", path, game.Name())
			} else {
				fmt.Printf("%s is not a valid %s model\n", path, game.Name())
			}
			return nil
		},
	}
}
