// Package commands wires the arcade operations into a cobra command tree.
package commands

import (
	"github.com/spf13/cobra"

	// Register the games.
	_ "github.com/trechriron/agent-arcade-trentin/games/spaceinvaders"
)

var (
	gameName  string
	modelPath string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "agent-arcade",
		Short:         "Train, evaluate and stake on arcade game agents",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCommand.PersistentFlags().StringVarP(&gameName, "game", "g", "space_invaders", "Name of the game to operate on")
	rootCommand.PersistentFlags().StringVarP(&modelPath, "model", "m", "", "Path to a model file (defaults to the game's trained model)")
	// adding the subcommands here
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(EvaluateCommand())
	rootCommand.AddCommand(ValidateCommand())
	rootCommand.AddCommand(StakeCommand())
	rootCommand.AddCommand(GamesCommand())
	rootCommand.AddCommand(MonitorCommand())
	return rootCommand
}
