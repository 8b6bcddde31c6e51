// Package spaceinvaders is the Space Invaders arcade game: an Atari
// environment behind the standard preprocessing chain, a DQN trainer with
// a fast-training profile, evaluation, model validation and NEAR staking.
package spaceinvaders

import (
	"context"
	"fmt"
	"log"

	"github.com/trechriron/agent-arcade-trentin/dqn"
	"github.com/trechriron/agent-arcade-trentin/games"
	"github.com/trechriron/agent-arcade-trentin/gym"
	"github.com/trechriron/agent-arcade-trentin/near"
	"github.com/trechriron/agent-arcade-trentin/telemetry"
	"github.com/trechriron/agent-arcade-trentin/types"
)

const (
	GameName = "space_invaders"
	EnvName  = "ALE/SpaceInvaders-v5"

	// ModelPath is where the trainer persists the final model.
	ModelPath = "models/space_invaders_final.zip"
	// TelemetryDir receives training metrics for external visualization.
	TelemetryDir = "telemetry/space_invaders"
	// VideoDir receives recordings when video capture is enabled.
	VideoDir = "videos/training"

	// DefaultSimulatorHost is the gym-socket-api simulator address.
	DefaultSimulatorHost = "localhost:5001"

	// An episode scoring above this counts as a success.
	successScore = 100

	numTrainEnvs = 4
)

// Game is the Space Invaders adapter.
type Game struct {
	simHost string

	// Indirections for the collaborators, overridable in tests.
	connect          func(render bool) (gym.Env, error)
	makeEnv          func(render, record bool) (gym.Env, error)
	validate         func(modelPath string) bool
	stakingAvailable func() bool
	submitStake      func(ctx context.Context, wallet *near.Wallet, modelPath string,
		amount, targetScore float64, scoreRange types.ScoreRange) error

	modelPath    string
	telemetryDir string

	// Training length; the fast-training profile stops well short of the
	// configured default timesteps.
	trainTimesteps int
}

// New builds the game against the given simulator host; an empty host uses
// the default.
func New(simHost string) *Game {
	if simHost == "" {
		simHost = DefaultSimulatorHost
	}
	g := &Game{
		simHost:          simHost,
		stakingAvailable: near.Available,
		modelPath:        ModelPath,
		telemetryDir:     TelemetryDir,
		trainTimesteps:   250000,
	}
	g.connect = func(render bool) (gym.Env, error) {
		return gym.Connect(g.simHost, EnvName, render)
	}
	g.makeEnv = g.buildEnv
	g.validate = g.ValidateModel
	g.submitStake = func(ctx context.Context, wallet *near.Wallet, modelPath string,
		amount, targetScore float64, scoreRange types.ScoreRange) error {
		_, err := near.StakeOnGame(ctx, nil, wallet, GameName, modelPath, amount, targetScore, scoreRange)
		return err
	}
	return g
}

func init() {
	games.Register(New(""))
}

func (g *Game) Name() string        { return GameName }
func (g *Game) EnvID() string       { return EnvName }
func (g *Game) Description() string { return "Defend Earth from alien invasion" }
func (g *Game) Version() string     { return "1.0.0" }

func (g *Game) ScoreRange() types.ScoreRange {
	return types.ScoreRange{Min: 0, Max: 1000}
}

func (g *Game) DefaultConfig() types.GameConfig {
	return types.GameConfig{
		TotalTimesteps:       1000000,
		LearningRate:         0.00025,
		BufferSize:           250000,
		LearningStarts:       50000,
		BatchSize:            256,
		ExplorationFraction:  0.2,
		TargetUpdateInterval: 2000,
		FrameStack:           4,
	}
}

// MakeEnv builds the wrapped environment without rendering or recording.
func (g *Game) MakeEnv() (gym.Env, error) {
	return g.makeEnv(false, false)
}

// buildEnv applies the standard Atari chain. The order matters: no-op
// reset padding runs before frame skipping, life-loss episodes before the
// fire reset, and reward clipping sees the raw game reward before the
// observation pipeline reshapes anything.
func (g *Game) buildEnv(render, record bool) (gym.Env, error) {
	env, err := g.connect(render)
	if err != nil {
		return nil, err
	}
	// Recording prefers the simulator's own monitor; environments without
	// one fall back to the frame recorder below.
	monitored := false
	if record && !render {
		if m, ok := env.(interface{ Monitor(dir string) error }); ok {
			if err := m.Monitor(VideoDir); err != nil {
				env.Close()
				return nil, err
			}
			monitored = true
		}
	}
	wrapped := gym.Env(env)
	wrapped = gym.NoopReset(wrapped, 30)
	wrapped = gym.MaxAndSkip(wrapped, 4)
	wrapped = gym.EpisodicLife(wrapped)
	wrapped = gym.FireReset(wrapped)
	wrapped = gym.ClipReward(wrapped)
	wrapped = gym.Resize(wrapped, 84, 84)
	wrapped = gym.Grayscale(wrapped)
	wrapped = gym.FrameStack(wrapped, 4)
	if record && !render && !monitored {
		wrapped = gym.RecordVideo(wrapped, VideoDir, nil)
	}
	return wrapped, nil
}

// Train trains a Space Invaders agent and returns the saved model path.
//
// The loaded configuration drives only the frame stack depth; the agent
// hyperparameters below are the fast-training profile tuned for a short
// run, not the game defaults.
func (g *Game) Train(render bool, configPath string) (string, error) {
	cfg, err := games.LoadConfig(g, configPath)
	if err != nil {
		return "", err
	}

	envs := make([]gym.Env, 0, numTrainEnvs)
	for i := 0; i < numTrainEnvs; i++ {
		env, err := g.makeEnv(render, false)
		if err != nil {
			for _, e := range envs {
				e.Close()
			}
			return "", fmt.Errorf("build training environment: %w", err)
		}
		envs = append(envs, env)
	}
	vec, err := gym.NewDummyVecEnv(envs...)
	if err != nil {
		return "", err
	}
	stacked := gym.NewVecFrameStack(vec, cfg.FrameStack)
	defer stacked.Close()

	writer, err := telemetry.NewWriter(g.telemetryDir)
	if err != nil {
		return "", fmt.Errorf("open telemetry log: %w", err)
	}
	defer writer.Close()

	agent, err := dqn.New(stacked, dqn.Config{
		LearningRate:         0.0001,
		BufferSize:           50000,
		LearningStarts:       1000,
		BatchSize:            32,
		ExplorationFraction:  0.1,
		ExplorationInitial:   1.0,
		ExplorationFinal:     0.05,
		TargetUpdateInterval: 1000,
		TrainFreq:            4,
		GradientSteps:        1,
		MaxGradNorm:          10,
		Arch:                 []int{256, 128},
		EpisodeHook: func(episode int, ret float64, length int) {
			if err := writer.Append(telemetry.Record{Episode: episode, Return: ret, Length: length}); err != nil {
				log.Printf("telemetry write failed: %v", err)
			}
		},
	})
	if err != nil {
		return "", err
	}

	log.Printf("Training Space Invaders agent for %d timesteps...", g.trainTimesteps)
	log.Printf("Monitor progress under %s", g.telemetryDir)

	progress := func(done, total int) {
		fmt.Printf("\rTSteps:%*d/%d [%5.1f%%]", len(fmt.Sprint(total)), done, total,
			float64(done)/float64(total)*100)
	}
	if err := agent.Learn(g.trainTimesteps, progress); err != nil {
		log.Printf("Training failed: %v", err)
		return "", err
	}
	fmt.Println()

	if err := agent.Save(g.modelPath); err != nil {
		log.Printf("Saving model failed: %v", err)
		return "", err
	}
	log.Printf("Model saved to %s", g.modelPath)
	return g.modelPath, nil
}

// Evaluate runs a saved model deterministically for the given number of
// episodes against a single environment.
func (g *Game) Evaluate(modelPath string, episodes int, record bool) (*types.EvaluationResult, error) {
	if episodes <= 0 {
		return nil, fmt.Errorf("episodes must be positive, got %d", episodes)
	}
	env, err := g.makeEnv(false, record)
	if err != nil {
		return nil, fmt.Errorf("build evaluation environment: %w", err)
	}
	vec, err := gym.NewDummyVecEnv(env)
	if err != nil {
		return nil, err
	}
	stacked := gym.NewVecFrameStack(vec, 4)
	defer stacked.Close()

	agent, err := dqn.Load(modelPath, stacked)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	var totalScore float64
	bestScore := 0.0
	totalLength := 0
	successes := 0

	for episode := 0; episode < episodes; episode++ {
		obsBatch, err := stacked.Reset()
		if err != nil {
			return nil, err
		}
		obs := obsBatch[0]
		var score float64
		length := 0
		for {
			action := agent.Predict(obs, true)
			obsBatch, rewards, dones, err := stacked.Step([]int{action})
			if err != nil {
				return nil, err
			}
			score += rewards[0]
			length++
			obs = obsBatch[0]
			if dones[0] {
				break
			}
		}
		totalScore += score
		totalLength += length
		if episode == 0 || score > bestScore {
			bestScore = score
		}
		if score > successScore {
			successes++
		}
	}

	return &types.EvaluationResult{
		Score:            totalScore / float64(episodes),
		Episodes:         episodes,
		SuccessRate:      float64(successes) / float64(episodes),
		BestEpisodeScore: bestScore,
		AvgEpisodeLength: float64(totalLength) / float64(episodes),
	}, nil
}

// ValidateModel reports whether the model loads against a freshly built
// environment. Validation never fails with an error; problems are logged
// and reported as false.
func (g *Game) ValidateModel(modelPath string) bool {
	env, err := g.makeEnv(false, false)
	if err != nil {
		log.Printf("Invalid model file: %v", err)
		return false
	}
	vec, err := gym.NewDummyVecEnv(env)
	if err != nil {
		log.Printf("Invalid model file: %v", err)
		return false
	}
	stacked := gym.NewVecFrameStack(vec, 4)
	defer stacked.Close()
	if _, err := dqn.Load(modelPath, stacked); err != nil {
		log.Printf("Invalid model file: %v", err)
		return false
	}
	return true
}

// Stake wagers amount on the model reaching targetScore. Preconditions are
// checked in order: staking availability, wallet login, model validity,
// target score range.
func (g *Game) Stake(ctx context.Context, wallet *near.Wallet, modelPath string, amount, targetScore float64) error {
	if !g.stakingAvailable() {
		return types.ErrStakingUnavailable
	}
	if !wallet.IsLoggedIn() {
		return types.ErrNotLoggedIn
	}
	if !g.validate(modelPath) {
		return fmt.Errorf("%w: %s", types.ErrInvalidModel, modelPath)
	}
	scoreRange := g.ScoreRange()
	if !scoreRange.Contains(targetScore) {
		return fmt.Errorf("%w: target score must be between %v and %v",
			types.ErrScoreOutOfRange, scoreRange.Min, scoreRange.Max)
	}
	return g.submitStake(ctx, wallet, modelPath, amount, targetScore, scoreRange)
}

var _ games.Game = (*Game)(nil)
