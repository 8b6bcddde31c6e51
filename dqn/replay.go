package dqn

import "math/rand"

type transition struct {
	Obs     []float64
	Action  int
	Reward  float64
	NextObs []float64
	Done    bool
}

// replayBuffer is a fixed-capacity ring of transitions.
type replayBuffer struct {
	buf  []transition
	next int
	full bool
}

func newReplayBuffer(capacity int) *replayBuffer {
	return &replayBuffer{buf: make([]transition, capacity)}
}

func (r *replayBuffer) Add(t transition) {
	r.buf[r.next] = t
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

func (r *replayBuffer) Len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Sample draws n transitions uniformly with replacement.
func (r *replayBuffer) Sample(n int, rng *rand.Rand) []transition {
	out := make([]transition, n)
	size := r.Len()
	for i := range out {
		out[i] = r.buf[rng.Intn(size)]
	}
	return out
}
