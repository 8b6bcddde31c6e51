package gym

import (
	"math"
	"testing"
)

// fakeEnv is a scripted environment: observations are filled with a frame
// counter, rewards come from rewardFn and episodes end after maxSteps.
type fakeEnv struct {
	shape    []int
	actions  int
	maxSteps int
	rewardFn func(step int) float64
	livesFn  func(step int) int

	steps   int
	resets  int
	frame   float64
	history []int
}

func newFakeEnv(shape []int, maxSteps int) *fakeEnv {
	return &fakeEnv{shape: shape, actions: 6, maxSteps: maxSteps}
}

func (f *fakeEnv) obs() []float64 {
	o := make([]float64, ObsSize(f.shape))
	for i := range o {
		o[i] = f.frame
	}
	return o
}

func (f *fakeEnv) Reset() ([]float64, error) {
	f.resets++
	f.steps = 0
	f.frame = float64(f.resets * 1000)
	return f.obs(), nil
}

func (f *fakeEnv) Step(action int) ([]float64, float64, bool, bool, error) {
	f.steps++
	f.frame++
	f.history = append(f.history, action)
	var reward float64
	if f.rewardFn != nil {
		reward = f.rewardFn(f.steps)
	}
	return f.obs(), reward, f.steps >= f.maxSteps, false, nil
}

func (f *fakeEnv) ObsShape() []int  { return f.shape }
func (f *fakeEnv) ActionCount() int { return f.actions }
func (f *fakeEnv) Close() error     { return nil }

func (f *fakeEnv) Lives() int {
	if f.livesFn == nil {
		return 0
	}
	return f.livesFn(f.steps)
}

func TestNoopResetPadsWithNoops(t *testing.T) {
	base := newFakeEnv([]int{4}, 1000)
	env := NoopReset(base, 30)
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	if len(base.history) < 1 || len(base.history) > 30 {
		t.Errorf("expected between 1 and 30 no-op steps, got %d", len(base.history))
	}
	for i, a := range base.history {
		if a != 0 {
			t.Errorf("step %d used action %d, want no-op", i, a)
		}
	}
}

func TestMaxAndSkipSumsRewardsAndMergesFrames(t *testing.T) {
	base := newFakeEnv([]int{2}, 1000)
	base.rewardFn = func(step int) float64 { return float64(step) }
	env := MaxAndSkip(base, 4)
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	obs, reward, _, _, err := env.Step(3)
	if err != nil {
		t.Fatal(err)
	}
	if base.steps != 4 {
		t.Errorf("expected 4 underlying steps, got %d", base.steps)
	}
	if reward != 1+2+3+4 {
		t.Errorf("expected summed reward 10, got %v", reward)
	}
	// The frame counter increases monotonically, so the merged frame is
	// the last one.
	want := base.frame
	for i, v := range obs {
		if v != want {
			t.Errorf("obs[%d] = %v, want max frame %v", i, v, want)
		}
	}
}

func TestEpisodicLifeEndsEpisodeOnLifeLoss(t *testing.T) {
	base := newFakeEnv([]int{2}, 1000)
	base.livesFn = func(step int) int {
		if step < 5 {
			return 3
		}
		return 2
	}
	env := EpisodicLife(base)
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	var terminated bool
	for i := 0; i < 5; i++ {
		var err error
		_, _, terminated, _, err = env.Step(0)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !terminated {
		t.Fatal("expected life loss to terminate the episode")
	}
	// The follow-up reset must not reset the simulator mid-game.
	resets := base.resets
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	if base.resets != resets {
		t.Errorf("reset reached the simulator on a life-loss boundary")
	}
}

func TestFireResetPressesFire(t *testing.T) {
	base := newFakeEnv([]int{2}, 1000)
	env := FireReset(base)
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	if len(base.history) == 0 || base.history[0] != 1 {
		t.Errorf("expected FIRE (action 1) after reset, history %v", base.history)
	}
}

func TestClipRewardClipsToSign(t *testing.T) {
	base := newFakeEnv([]int{2}, 1000)
	rewards := []float64{5, -3, 0}
	base.rewardFn = func(step int) float64 { return rewards[(step-1)%len(rewards)] }
	env := ClipReward(base)
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	want := []float64{1, -1, 0}
	for i, w := range want {
		_, reward, _, _, err := env.Step(0)
		if err != nil {
			t.Fatal(err)
		}
		if reward != w {
			t.Errorf("step %d: reward = %v, want %v", i, reward, w)
		}
	}
}

func TestResizeAveragesAreas(t *testing.T) {
	base := newFakeEnv([]int{4, 4}, 1000)
	env := Resize(base, 2, 2)
	obs, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if got := env.ObsShape(); got[0] != 2 || got[1] != 2 {
		t.Fatalf("shape = %v, want [2 2]", got)
	}
	if len(obs) != 4 {
		t.Fatalf("obs length = %d, want 4", len(obs))
	}
	// Constant input stays constant under area averaging.
	for i, v := range obs {
		if math.Abs(v-base.frame) > 1e-9 {
			t.Errorf("obs[%d] = %v, want %v", i, v, base.frame)
		}
	}
}

func TestGrayscaleUsesLumaWeights(t *testing.T) {
	base := newFakeEnv([]int{1, 1, 3}, 1000)
	env := Grayscale(base)
	obs, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 1 {
		t.Fatalf("obs length = %d, want 1", len(obs))
	}
	want := (0.2125 + 0.7154 + 0.0721) * base.frame
	if math.Abs(obs[0]-want) > 1e-9 {
		t.Errorf("luma = %v, want %v", obs[0], want)
	}
}

func TestFrameStackShapeAndContents(t *testing.T) {
	base := newFakeEnv([]int{3}, 1000)
	env := FrameStack(base, 4)
	shape := env.ObsShape()
	if len(shape) != 2 || shape[0] != 4 || shape[1] != 3 {
		t.Fatalf("shape = %v, want [4 3]", shape)
	}
	obs, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 12 {
		t.Fatalf("obs length = %d, want 12", len(obs))
	}
	first := obs[0]
	for i, v := range obs {
		if v != first {
			t.Fatalf("obs[%d] = %v, want the reset frame repeated", i, v)
		}
	}
	obs, _, _, _, err = env.Step(0)
	if err != nil {
		t.Fatal(err)
	}
	if obs[len(obs)-1] == obs[0] {
		t.Error("expected the newest frame to differ from the oldest after a step")
	}
}
