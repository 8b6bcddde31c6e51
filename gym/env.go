// Package gym provides the environment plumbing for the arcade: a minimal
// gymnasium-style Env interface, a remote environment backed by a
// gym-socket-api simulator process, the standard Atari wrapper chain and
// vectorized environments for batched training.
package gym

// Env is a single stateful game environment. Observations are flat float
// slices; ObsShape describes how to interpret them.
type Env interface {
	// Reset starts a new episode and returns the initial observation.
	Reset() ([]float64, error)
	// Step applies the action and returns the next observation, the reward
	// and the episode termination/truncation signals.
	Step(action int) (obs []float64, reward float64, terminated, truncated bool, err error)
	// ObsShape is the shape of the observation tensor.
	ObsShape() []int
	// ActionCount is the size of the discrete action space.
	ActionCount() int
	// Close releases the environment's resources.
	Close() error
}

// LivesReporter is implemented by environments that expose a life counter,
// such as the Atari simulator. The EpisodicLife wrapper depends on it.
type LivesReporter interface {
	Lives() int
}

// ObsSize returns the flat length of an observation with the given shape.
func ObsSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
