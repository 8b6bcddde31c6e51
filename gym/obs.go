package gym

import "fmt"

// ResizeEnv downsamples pixel observations to width×height using area
// averaging, per channel. The inner env must produce [H,W,C] or [H,W]
// observations.
type ResizeEnv struct {
	wrapper
	height int
	width  int
}

func Resize(env Env, height, width int) *ResizeEnv {
	return &ResizeEnv{wrapper: wrapper{env}, height: height, width: width}
}

func (r *ResizeEnv) ObsShape() []int {
	shape := r.Env.ObsShape()
	if len(shape) == 3 {
		return []int{r.height, r.width, shape[2]}
	}
	return []int{r.height, r.width}
}

func (r *ResizeEnv) Reset() ([]float64, error) {
	obs, err := r.Env.Reset()
	if err != nil {
		return nil, err
	}
	return r.resize(obs)
}

func (r *ResizeEnv) Step(action int) ([]float64, float64, bool, bool, error) {
	obs, reward, terminated, truncated, err := r.Env.Step(action)
	if err != nil {
		return nil, 0, false, false, err
	}
	obs, err = r.resize(obs)
	return obs, reward, terminated, truncated, err
}

func (r *ResizeEnv) resize(obs []float64) ([]float64, error) {
	shape := r.Env.ObsShape()
	if len(shape) != 2 && len(shape) != 3 {
		return nil, fmt.Errorf("resize: unsupported observation shape %v", shape)
	}
	srcH, srcW, channels := shape[0], shape[1], 1
	if len(shape) == 3 {
		channels = shape[2]
	}
	if len(obs) != srcH*srcW*channels {
		return nil, fmt.Errorf("resize: observation has %d values, want %d", len(obs), srcH*srcW*channels)
	}
	out := make([]float64, r.height*r.width*channels)
	for y := 0; y < r.height; y++ {
		y0 := y * srcH / r.height
		y1 := (y + 1) * srcH / r.height
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for x := 0; x < r.width; x++ {
			x0 := x * srcW / r.width
			x1 := (x + 1) * srcW / r.width
			if x1 <= x0 {
				x1 = x0 + 1
			}
			for c := 0; c < channels; c++ {
				var sum float64
				for sy := y0; sy < y1; sy++ {
					for sx := x0; sx < x1; sx++ {
						sum += obs[(sy*srcW+sx)*channels+c]
					}
				}
				out[(y*r.width+x)*channels+c] = sum / float64((y1-y0)*(x1-x0))
			}
		}
	}
	return out, nil
}

// GrayscaleEnv collapses an RGB observation to a single luma channel.
type GrayscaleEnv struct {
	wrapper
}

func Grayscale(env Env) *GrayscaleEnv {
	return &GrayscaleEnv{wrapper: wrapper{env}}
}

func (g *GrayscaleEnv) ObsShape() []int {
	shape := g.Env.ObsShape()
	return []int{shape[0], shape[1]}
}

func (g *GrayscaleEnv) Reset() ([]float64, error) {
	obs, err := g.Env.Reset()
	if err != nil {
		return nil, err
	}
	return g.gray(obs)
}

func (g *GrayscaleEnv) Step(action int) ([]float64, float64, bool, bool, error) {
	obs, reward, terminated, truncated, err := g.Env.Step(action)
	if err != nil {
		return nil, 0, false, false, err
	}
	obs, err = g.gray(obs)
	return obs, reward, terminated, truncated, err
}

func (g *GrayscaleEnv) gray(obs []float64) ([]float64, error) {
	shape := g.Env.ObsShape()
	if len(shape) != 3 || shape[2] != 3 {
		return nil, fmt.Errorf("grayscale: want an RGB observation, got shape %v", shape)
	}
	// ITU-R 601 luma coefficients, as gymnasium's grayscale conversion uses.
	out := make([]float64, shape[0]*shape[1])
	for i := range out {
		out[i] = 0.2125*obs[i*3] + 0.7154*obs[i*3+1] + 0.0721*obs[i*3+2]
	}
	return out, nil
}

// FrameStackEnv concatenates the last n observations so the policy sees
// short-term motion. The stack is refilled with the first frame on reset.
type FrameStackEnv struct {
	wrapper
	n      int
	frames [][]float64
}

func FrameStack(env Env, n int) *FrameStackEnv {
	return &FrameStackEnv{wrapper: wrapper{env}, n: n}
}

func (f *FrameStackEnv) ObsShape() []int {
	return append([]int{f.n}, f.Env.ObsShape()...)
}

func (f *FrameStackEnv) Reset() ([]float64, error) {
	obs, err := f.Env.Reset()
	if err != nil {
		return nil, err
	}
	f.frames = f.frames[:0]
	for i := 0; i < f.n; i++ {
		f.frames = append(f.frames, obs)
	}
	return f.stacked(), nil
}

func (f *FrameStackEnv) Step(action int) ([]float64, float64, bool, bool, error) {
	obs, reward, terminated, truncated, err := f.Env.Step(action)
	if err != nil {
		return nil, 0, false, false, err
	}
	f.frames = append(f.frames[1:], obs)
	return f.stacked(), reward, terminated, truncated, nil
}

func (f *FrameStackEnv) stacked() []float64 {
	frameSize := ObsSize(f.Env.ObsShape())
	out := make([]float64, 0, f.n*frameSize)
	for _, frame := range f.frames {
		out = append(out, frame...)
	}
	return out
}
