package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trechriron/agent-arcade-trentin/games"
	"github.com/trechriron/agent-arcade-trentin/near"
)

func StakeCommand() *cobra.Command {
	var accountID string
	var amount float64
	var targetScore float64

	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Stake NEAR on a model reaching a target score",
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := games.Get(gameName)
			if err != nil {
				return err
			}
			wallet := near.NewWallet(accountID, nil)
			if err := game.Stake(context.Background(), wallet, resolveModelPath(), amount, targetScore); err != nil {
				return err
			}
			fmt.Printf("Staked %v NEAR on %s reaching %v\n", amount, game.Name(), targetScore)
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "NEAR account id")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount of NEAR to stake")
	cmd.Flags().Float64Var(&targetScore, "target-score", 0, "Score the agent must reach")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("target-score")
	return cmd
}
