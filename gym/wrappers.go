package gym

import (
	"math/rand"
	"time"
)

// wrapper forwards everything to the inner env; concrete wrappers override
// the calls they shape.
type wrapper struct {
	Env
}

func (w *wrapper) Lives() int {
	if l, ok := w.Env.(LivesReporter); ok {
		return l.Lives()
	}
	return 0
}

// NoopResetEnv pads every reset with a random number of no-op actions so
// episodes start from varied states.
type NoopResetEnv struct {
	wrapper
	noopMax    int
	noopAction int
	rng        *rand.Rand
}

func NoopReset(env Env, noopMax int) *NoopResetEnv {
	return &NoopResetEnv{
		wrapper:    wrapper{env},
		noopMax:    noopMax,
		noopAction: 0,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (n *NoopResetEnv) Reset() ([]float64, error) {
	obs, err := n.Env.Reset()
	if err != nil {
		return nil, err
	}
	noops := 1 + n.rng.Intn(n.noopMax)
	for i := 0; i < noops; i++ {
		var terminated, truncated bool
		obs, _, terminated, truncated, err = n.Env.Step(n.noopAction)
		if err != nil {
			return nil, err
		}
		if terminated || truncated {
			obs, err = n.Env.Reset()
			if err != nil {
				return nil, err
			}
		}
	}
	return obs, nil
}

// MaxAndSkipEnv repeats each action skip times, sums the rewards and
// returns the pixel-wise max of the last two frames to cancel the Atari
// sprite flicker.
type MaxAndSkipEnv struct {
	wrapper
	skip int
}

func MaxAndSkip(env Env, skip int) *MaxAndSkipEnv {
	return &MaxAndSkipEnv{wrapper: wrapper{env}, skip: skip}
}

func (m *MaxAndSkipEnv) Step(action int) ([]float64, float64, bool, bool, error) {
	var prev, last []float64
	var total float64
	var terminated, truncated bool
	for i := 0; i < m.skip; i++ {
		obs, reward, term, trunc, err := m.Env.Step(action)
		if err != nil {
			return nil, 0, false, false, err
		}
		prev, last = last, obs
		total += reward
		terminated, truncated = term, trunc
		if terminated || truncated {
			break
		}
	}
	if prev == nil {
		return last, total, terminated, truncated, nil
	}
	merged := make([]float64, len(last))
	for i := range last {
		if prev[i] > last[i] {
			merged[i] = prev[i]
		} else {
			merged[i] = last[i]
		}
	}
	return merged, total, terminated, truncated, nil
}

// EpisodicLifeEnv ends an episode on every life loss while only resetting
// the simulator on true game over. Value-based agents learn faster when a
// lost life is terminal.
type EpisodicLifeEnv struct {
	wrapper
	lives    int
	realDone bool
}

func EpisodicLife(env Env) *EpisodicLifeEnv {
	return &EpisodicLifeEnv{wrapper: wrapper{env}, realDone: true}
}

func (e *EpisodicLifeEnv) Step(action int) ([]float64, float64, bool, bool, error) {
	obs, reward, terminated, truncated, err := e.Env.Step(action)
	if err != nil {
		return nil, 0, false, false, err
	}
	e.realDone = terminated || truncated
	lives := e.Lives()
	if lives < e.lives && lives > 0 {
		terminated = true
	}
	e.lives = lives
	return obs, reward, terminated, truncated, nil
}

func (e *EpisodicLifeEnv) Reset() ([]float64, error) {
	if e.realDone {
		obs, err := e.Env.Reset()
		if err != nil {
			return nil, err
		}
		e.lives = e.Lives()
		return obs, nil
	}
	// Still mid-game: advance past the life-loss frame instead of
	// resetting the simulator.
	obs, _, terminated, truncated, err := e.Env.Step(0)
	if err != nil {
		return nil, err
	}
	if terminated || truncated {
		obs, err = e.Env.Reset()
		if err != nil {
			return nil, err
		}
	}
	e.lives = e.Lives()
	return obs, nil
}

// FireResetEnv presses FIRE after every reset for games that sit idle until
// the first shot is fired.
type FireResetEnv struct {
	wrapper
}

func FireReset(env Env) *FireResetEnv {
	return &FireResetEnv{wrapper: wrapper{env}}
}

func (f *FireResetEnv) Reset() ([]float64, error) {
	const fireAction = 1
	obs, err := f.Env.Reset()
	if err != nil {
		return nil, err
	}
	obs, _, terminated, truncated, err := f.Env.Step(fireAction)
	if err != nil {
		return nil, err
	}
	if terminated || truncated {
		obs, err = f.Env.Reset()
		if err != nil {
			return nil, err
		}
	}
	return obs, nil
}

// ClipRewardEnv clips the raw game reward to its sign, keeping gradients
// comparable across games with very different score scales.
type ClipRewardEnv struct {
	wrapper
}

func ClipReward(env Env) *ClipRewardEnv {
	return &ClipRewardEnv{wrapper: wrapper{env}}
}

func (c *ClipRewardEnv) Step(action int) ([]float64, float64, bool, bool, error) {
	obs, reward, terminated, truncated, err := c.Env.Step(action)
	if err != nil {
		return nil, 0, false, false, err
	}
	switch {
	case reward > 0:
		reward = 1
	case reward < 0:
		reward = -1
	}
	return obs, reward, terminated, truncated, nil
}
