package gym

import "fmt"

// VecEnv steps a batch of environments together. Finished episodes are
// reset automatically; the returned done flag marks the boundary.
type VecEnv interface {
	Reset() ([][]float64, error)
	Step(actions []int) (obs [][]float64, rewards []float64, dones []bool, err error)
	NumEnvs() int
	ObsShape() []int
	ActionCount() int
	Close() error
}

// DummyVecEnv steps its environments sequentially in the calling
// goroutine. It trades throughput for simplicity, which is plenty for a
// handful of environments.
type DummyVecEnv struct {
	envs []Env
}

func NewDummyVecEnv(envs ...Env) (*DummyVecEnv, error) {
	if len(envs) == 0 {
		return nil, fmt.Errorf("vec env requires at least one environment")
	}
	return &DummyVecEnv{envs: envs}, nil
}

func (d *DummyVecEnv) Reset() ([][]float64, error) {
	obs := make([][]float64, len(d.envs))
	for i, env := range d.envs {
		o, err := env.Reset()
		if err != nil {
			return nil, err
		}
		obs[i] = o
	}
	return obs, nil
}

func (d *DummyVecEnv) Step(actions []int) ([][]float64, []float64, []bool, error) {
	if len(actions) != len(d.envs) {
		return nil, nil, nil, fmt.Errorf("got %d actions for %d environments", len(actions), len(d.envs))
	}
	obs := make([][]float64, len(d.envs))
	rewards := make([]float64, len(d.envs))
	dones := make([]bool, len(d.envs))
	for i, env := range d.envs {
		o, reward, terminated, truncated, err := env.Step(actions[i])
		if err != nil {
			return nil, nil, nil, err
		}
		if terminated || truncated {
			dones[i] = true
			o, err = env.Reset()
			if err != nil {
				return nil, nil, nil, err
			}
		}
		obs[i] = o
		rewards[i] = reward
	}
	return obs, rewards, dones, nil
}

func (d *DummyVecEnv) NumEnvs() int {
	return len(d.envs)
}

func (d *DummyVecEnv) ObsShape() []int {
	return d.envs[0].ObsShape()
}

func (d *DummyVecEnv) ActionCount() int {
	return d.envs[0].ActionCount()
}

func (d *DummyVecEnv) Close() error {
	var firstErr error
	for _, env := range d.envs {
		if err := env.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// VecFrameStack stacks the last n observations of every environment in the
// batch, mirroring FrameStackEnv at the vectorized level.
type VecFrameStack struct {
	inner  VecEnv
	n      int
	frames [][][]float64
}

func NewVecFrameStack(inner VecEnv, n int) *VecFrameStack {
	return &VecFrameStack{
		inner:  inner,
		n:      n,
		frames: make([][][]float64, inner.NumEnvs()),
	}
}

func (v *VecFrameStack) Reset() ([][]float64, error) {
	obs, err := v.inner.Reset()
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(obs))
	for i, o := range obs {
		v.frames[i] = v.frames[i][:0]
		for j := 0; j < v.n; j++ {
			v.frames[i] = append(v.frames[i], o)
		}
		out[i] = v.stacked(i)
	}
	return out, nil
}

func (v *VecFrameStack) Step(actions []int) ([][]float64, []float64, []bool, error) {
	obs, rewards, dones, err := v.inner.Step(actions)
	if err != nil {
		return nil, nil, nil, err
	}
	out := make([][]float64, len(obs))
	for i, o := range obs {
		if dones[i] {
			// Fresh episode: refill the stack with the reset frame.
			v.frames[i] = v.frames[i][:0]
			for j := 0; j < v.n; j++ {
				v.frames[i] = append(v.frames[i], o)
			}
		} else {
			v.frames[i] = append(v.frames[i][1:], o)
		}
		out[i] = v.stacked(i)
	}
	return out, rewards, dones, nil
}

func (v *VecFrameStack) NumEnvs() int {
	return v.inner.NumEnvs()
}

func (v *VecFrameStack) ObsShape() []int {
	return append([]int{v.n}, v.inner.ObsShape()...)
}

func (v *VecFrameStack) ActionCount() int {
	return v.inner.ActionCount()
}

func (v *VecFrameStack) Close() error {
	return v.inner.Close()
}

func (v *VecFrameStack) stacked(i int) []float64 {
	frameSize := ObsSize(v.inner.ObsShape())
	out := make([]float64, 0, v.n*frameSize)
	for _, frame := range v.frames[i] {
		out = append(out, frame...)
	}
	return out
}
