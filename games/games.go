// Package games defines the game adapter contract and the registry the CLI
// resolves game names against.
package games

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/trechriron/agent-arcade-trentin/gym"
	"github.com/trechriron/agent-arcade-trentin/near"
	"github.com/trechriron/agent-arcade-trentin/types"
)

// Game is one arcade game: it knows how to build its environment, train,
// evaluate and validate an agent, and stake on its performance.
type Game interface {
	Name() string
	EnvID() string
	Description() string
	Version() string
	ScoreRange() types.ScoreRange
	DefaultConfig() types.GameConfig

	// MakeEnv builds the game's wrapped environment.
	MakeEnv() (gym.Env, error)
	// Train runs the training loop and returns the saved model path.
	Train(render bool, configPath string) (string, error)
	// Evaluate runs a saved model deterministically for episodes episodes.
	Evaluate(modelPath string, episodes int, record bool) (*types.EvaluationResult, error)
	// ValidateModel reports whether the model loads against the game's
	// environment. It never fails with an error.
	ValidateModel(modelPath string) bool
	// Stake wagers amount on the model reaching targetScore.
	Stake(ctx context.Context, wallet *near.Wallet, modelPath string, amount, targetScore float64) error
}

var registry = make(map[string]Game)

// Register adds a game to the registry, replacing any previous entry with
// the same name.
func Register(game Game) {
	registry[game.Name()] = game
}

// Get looks up a game by name.
func Get(name string) (Game, error) {
	game, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown game %q", name)
	}
	return game, nil
}

// List returns the registered game names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
