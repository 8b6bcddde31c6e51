package gym

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// RecordVideoEnv dumps the frames of selected episodes as PNG sequences
// under dir. Episodes are numbered from zero; trigger decides which ones
// are recorded.
type RecordVideoEnv struct {
	wrapper
	dir     string
	trigger func(episode int) bool
	episode int
	step    int
	active  bool
}

// RecordVideo wraps env with a frame recorder. A nil trigger records every
// 100th episode, matching the training default.
func RecordVideo(env Env, dir string, trigger func(episode int) bool) *RecordVideoEnv {
	if trigger == nil {
		trigger = func(episode int) bool { return episode%100 == 0 }
	}
	return &RecordVideoEnv{
		wrapper: wrapper{env},
		dir:     dir,
		trigger: trigger,
		episode: -1,
	}
}

func (r *RecordVideoEnv) Reset() ([]float64, error) {
	obs, err := r.Env.Reset()
	if err != nil {
		return nil, err
	}
	r.episode++
	r.step = 0
	r.active = r.trigger(r.episode)
	if r.active {
		if err := os.MkdirAll(r.episodeDir(), 0o755); err != nil {
			return nil, err
		}
		if err := r.writeFrame(obs); err != nil {
			return nil, err
		}
	}
	return obs, nil
}

func (r *RecordVideoEnv) Step(action int) ([]float64, float64, bool, bool, error) {
	obs, reward, terminated, truncated, err := r.Env.Step(action)
	if err != nil {
		return nil, 0, false, false, err
	}
	if r.active {
		r.step++
		if err := r.writeFrame(obs); err != nil {
			return nil, 0, false, false, err
		}
	}
	return obs, reward, terminated, truncated, nil
}

func (r *RecordVideoEnv) episodeDir() string {
	return filepath.Join(r.dir, fmt.Sprintf("episode_%d", r.episode))
}

// writeFrame renders the most recent frame of the observation. For stacked
// observations that is the last plane.
func (r *RecordVideoEnv) writeFrame(obs []float64) error {
	shape := r.Env.ObsShape()
	var h, w int
	switch len(shape) {
	case 2:
		h, w = shape[0], shape[1]
	case 3:
		h, w = shape[1], shape[2]
		obs = obs[(shape[0]-1)*h*w:]
	default:
		return fmt.Errorf("record video: unsupported observation shape %v", shape)
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := obs[y*w+x]
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	f, err := os.Create(filepath.Join(r.episodeDir(), fmt.Sprintf("frame_%05d.png", r.step)))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
