package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trechriron/agent-arcade-trentin/games"
	"github.com/trechriron/agent-arcade-trentin/games/spaceinvaders"
)

func resolveModelPath() string {
	if modelPath != "" {
		return modelPath
	}
	return spaceinvaders.ModelPath
}

func EvaluateCommand() *cobra.Command {
	var episodes int
	var record bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a trained model",
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := games.Get(gameName)
			if err != nil {
				return err
			}
			result, err := game.Evaluate(resolveModelPath(), episodes, record)
			if err != nil {
				return err
			}
			fmt.Printf("Mean score:       %.2f\n", result.Score)
			fmt.Printf("Episodes:         %d\n", result.Episodes)
			fmt.Printf("Success rate:     %.2f\n", result.SuccessRate)
			fmt.Printf("Best episode:     %.2f\n", result.BestEpisodeScore)
			fmt.Printf("Mean ep. length:  %.2f\n", result.AvgEpisodeLength)
			return nil
		},
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "e", 10, "Number of evaluation episodes")
	cmd.Flags().BoolVar(&record, "record", false, "Record evaluation videos")
	return cmd
}
