package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trechriron/agent-arcade-trentin/games"
)

func TrainCommand() *cobra.Command {
	var render bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train an agent for the selected game",
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := games.Get(gameName)
			if err != nil {
				return err
			}
			path, err := game.Train(render, configPath)
			if err != nil {
				return err
			}
			fmt.Printf("Trained model saved to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "Render the game while training")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a training config file")
	return cmd
}
