package types

// GameConfig holds the training hyperparameters for a single game.
// A config is immutable once constructed; games hand out their defaults
// through DefaultConfig and a JSON file on disk can override them.
type GameConfig struct {
	TotalTimesteps       int     `json:"total_timesteps"`
	LearningRate         float64 `json:"learning_rate"`
	BufferSize           int     `json:"buffer_size"`
	LearningStarts       int     `json:"learning_starts"`
	BatchSize            int     `json:"batch_size"`
	ExplorationFraction  float64 `json:"exploration_fraction"`
	TargetUpdateInterval int     `json:"target_update_interval"`
	FrameStack           int     `json:"frame_stack"`
}

// EvaluationResult aggregates the statistics of one evaluation run.
type EvaluationResult struct {
	// Mean score over all episodes
	Score float64 `json:"score"`
	// Number of episodes evaluated
	Episodes int `json:"episodes"`
	// Fraction of episodes counted as a success
	SuccessRate float64 `json:"success_rate"`
	// Highest single-episode score
	BestEpisodeScore float64 `json:"best_episode_score"`
	// Mean number of steps per episode
	AvgEpisodeLength float64 `json:"avg_episode_length"`
}

// ScoreRange is the closed interval of scores a game can produce.
type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether the score lies within the range.
func (r ScoreRange) Contains(score float64) bool {
	return score >= r.Min && score <= r.Max
}

// ProgressFunc is invoked during training with the number of timesteps
// executed so far and the total number of timesteps planned.
type ProgressFunc func(done, total int)
