// Package dqn implements the value-based agent the arcade trains: a
// deep Q-network over flat observations with experience replay, an
// epsilon-greedy exploration schedule and a periodically synced target
// network. Models persist as zip archives; the format is owned here and
// opaque to every other package.
package dqn

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/trechriron/agent-arcade-trentin/gym"
	"github.com/trechriron/agent-arcade-trentin/types"
)

// Config are the agent hyperparameters. Zero values fall back to the
// defaults below.
type Config struct {
	LearningRate        float64
	BufferSize          int
	LearningStarts      int
	BatchSize           int
	ExplorationFraction float64
	ExplorationInitial  float64
	ExplorationFinal    float64
	// TargetUpdateInterval and TrainFreq are counted in environment steps,
	// summed over all vectorized environments.
	TargetUpdateInterval int
	TrainFreq            int
	GradientSteps        int
	Gamma                float64
	MaxGradNorm          float64
	// Arch lists the hidden layer widths.
	Arch []int
	Seed int64

	// EpisodeHook, when set, is called at every episode boundary with the
	// episode index, its return and its length.
	EpisodeHook func(episode int, ret float64, length int)
}

func (c *Config) fillDefaults() {
	if c.LearningRate == 0 {
		c.LearningRate = 1e-4
	}
	if c.BufferSize == 0 {
		c.BufferSize = 50000
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.ExplorationFraction == 0 {
		c.ExplorationFraction = 0.1
	}
	if c.ExplorationInitial == 0 {
		c.ExplorationInitial = 1.0
	}
	if c.ExplorationFinal == 0 {
		c.ExplorationFinal = 0.05
	}
	if c.TargetUpdateInterval == 0 {
		c.TargetUpdateInterval = 1000
	}
	if c.TrainFreq == 0 {
		c.TrainFreq = 4
	}
	if c.GradientSteps == 0 {
		c.GradientSteps = 1
	}
	if c.Gamma == 0 {
		c.Gamma = 0.99
	}
	if len(c.Arch) == 0 {
		c.Arch = []int{256, 128}
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

// Agent is a DQN bound to a vectorized environment.
type Agent struct {
	cfg     Config
	env     gym.VecEnv
	online  *network
	target  *network
	buffer  *replayBuffer
	rng     *rand.Rand
	obsSize int
	actions int
}

// New builds an untrained agent for the given environment.
func New(env gym.VecEnv, cfg Config) (*Agent, error) {
	cfg.fillDefaults()
	obsSize := gym.ObsSize(env.ObsShape())
	if obsSize == 0 || env.ActionCount() == 0 {
		return nil, fmt.Errorf("environment reports an empty observation or action space")
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	sizes := append(append([]int{obsSize}, cfg.Arch...), env.ActionCount())
	online := newNetwork(sizes, rng)
	return &Agent{
		cfg:     cfg,
		env:     env,
		online:  online,
		target:  online.clone(),
		buffer:  newReplayBuffer(cfg.BufferSize),
		rng:     rng,
		obsSize: obsSize,
		actions: env.ActionCount(),
	}, nil
}

// Predict returns the action for an observation. Deterministic prediction
// takes the argmax Q-value; otherwise the action is sampled from a softmax
// over the Q-values.
func (a *Agent) Predict(obs []float64, deterministic bool) int {
	q := a.online.Forward(obs)
	if deterministic {
		best := 0
		for i := 1; i < len(q); i++ {
			if q[i] > q[best] {
				best = i
			}
		}
		return best
	}
	weights := make([]float64, len(q))
	var sum float64
	for i, v := range q {
		weights[i] = math.Exp(v)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	i, ok := sampleuv.NewWeighted(weights, nil).Take()
	if !ok {
		return a.rng.Intn(len(q))
	}
	return i
}

// Learn runs the training loop for totalTimesteps environment steps,
// reporting through progress after every vectorized step.
func (a *Agent) Learn(totalTimesteps int, progress types.ProgressFunc) error {
	obs, err := a.env.Reset()
	if err != nil {
		return fmt.Errorf("reset environments: %w", err)
	}
	numEnvs := a.env.NumEnvs()
	returns := make([]float64, numEnvs)
	lengths := make([]int, numEnvs)
	episode := 0
	lastTrain := 0
	lastSync := 0

	for done := 0; done < totalTimesteps; done += numEnvs {
		eps := a.epsilon(done, totalTimesteps)
		actions := make([]int, numEnvs)
		for i := range actions {
			if a.rng.Float64() < eps {
				actions[i] = a.rng.Intn(a.actions)
			} else {
				actions[i] = a.Predict(obs[i], true)
			}
		}

		nextObs, rewards, dones, err := a.env.Step(actions)
		if err != nil {
			return fmt.Errorf("step environments: %w", err)
		}
		for i := range nextObs {
			a.buffer.Add(transition{
				Obs:     obs[i],
				Action:  actions[i],
				Reward:  rewards[i],
				NextObs: nextObs[i],
				Done:    dones[i],
			})
			returns[i] += rewards[i]
			lengths[i]++
			if dones[i] {
				if a.cfg.EpisodeHook != nil {
					a.cfg.EpisodeHook(episode, returns[i], lengths[i])
				}
				episode++
				returns[i] = 0
				lengths[i] = 0
			}
		}
		obs = nextObs

		steps := done + numEnvs
		if steps >= a.cfg.LearningStarts && a.buffer.Len() >= a.cfg.BatchSize &&
			steps-lastTrain >= a.cfg.TrainFreq {
			lastTrain = steps
			for g := 0; g < a.cfg.GradientSteps; g++ {
				a.gradientStep()
			}
		}
		if steps-lastSync >= a.cfg.TargetUpdateInterval {
			lastSync = steps
			a.target.copyFrom(a.online)
		}
		if progress != nil {
			progress(steps, totalTimesteps)
		}
	}
	return nil
}

func (a *Agent) epsilon(done, total int) float64 {
	decaySteps := float64(total) * a.cfg.ExplorationFraction
	if decaySteps <= 0 {
		return a.cfg.ExplorationFinal
	}
	frac := float64(done) / decaySteps
	if frac > 1 {
		frac = 1
	}
	return a.cfg.ExplorationInitial + frac*(a.cfg.ExplorationFinal-a.cfg.ExplorationInitial)
}

func (a *Agent) gradientStep() {
	batch := a.buffer.Sample(a.cfg.BatchSize, a.rng)
	grads := newGradients(a.online)
	for _, t := range batch {
		target := t.Reward
		if !t.Done {
			q := a.target.Forward(t.NextObs)
			best := q[0]
			for _, v := range q[1:] {
				if v > best {
					best = v
				}
			}
			target += a.cfg.Gamma * best
		}
		q := a.online.Forward(t.Obs)
		a.online.accumulate(grads, t.Obs, t.Action, q[t.Action]-target)
	}
	a.online.apply(grads, a.cfg.LearningRate, len(batch), a.cfg.MaxGradNorm)
}
