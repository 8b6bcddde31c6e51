package gym

import (
	"fmt"

	"github.com/unixpickle/essentials"
	gymapi "github.com/unixpickle/gym-socket-api/binding-go"
)

// RemoteEnv is an environment served by an external gym-socket-api process.
// The simulator owns the game dynamics; this side only shuttles actions and
// observations over the socket.
type RemoteEnv struct {
	client   gymapi.Env
	obsShape []int
	actions  int
	render   bool
	lives    int
}

// Connect dials the simulator at host and instantiates the named
// environment. When render is set the simulator is asked to render each
// step for a human viewer.
func Connect(host, envID string, render bool) (env *RemoteEnv, err error) {
	defer essentials.AddCtxTo(fmt.Sprintf("connect %s", envID), &err)
	client, err := gymapi.Make(host, envID)
	if err != nil {
		return nil, err
	}
	obsSpace, err := client.ObservationSpace()
	if err != nil {
		client.Close()
		return nil, err
	}
	actSpace, err := client.ActionSpace()
	if err != nil {
		client.Close()
		return nil, err
	}
	return &RemoteEnv{
		client:   client,
		obsShape: obsSpace.Shape,
		actions:  actSpace.N,
		render:   render,
	}, nil
}

// Monitor attaches the simulator's own episode monitor, writing recordings
// under dir.
func (r *RemoteEnv) Monitor(dir string) error {
	return r.client.Monitor(dir, true, false, true)
}

func (r *RemoteEnv) Reset() (obs []float64, err error) {
	defer essentials.AddCtxTo("reset remote environment", &err)
	rawObs, err := r.client.Reset()
	if err != nil {
		return nil, err
	}
	return gymapi.Flatten(rawObs)
}

func (r *RemoteEnv) Step(action int) (obs []float64, reward float64,
	terminated, truncated bool, err error) {
	defer essentials.AddCtxTo("step remote environment", &err)
	rawObs, reward, done, info, err := r.client.Step(action)
	if err != nil {
		return
	}
	obs, err = gymapi.Flatten(rawObs)
	if err != nil {
		return
	}
	r.lives = livesFromInfo(info)
	terminated = done
	if r.render {
		if err = r.client.Render(); err != nil {
			return
		}
	}
	return
}

// Lives reports the simulator's life counter from the last step, or 0 when
// the simulator does not expose one.
func (r *RemoteEnv) Lives() int {
	return r.lives
}

func (r *RemoteEnv) ObsShape() []int {
	return r.obsShape
}

func (r *RemoteEnv) ActionCount() int {
	return r.actions
}

func (r *RemoteEnv) Close() error {
	return r.client.Close()
}

func livesFromInfo(info interface{}) int {
	m, ok := info.(map[string]interface{})
	if !ok {
		return 0
	}
	for _, key := range []string{"lives", "ale.lives"} {
		if v, ok := m[key]; ok {
			if f, ok := v.(float64); ok {
				return int(f)
			}
			if n, ok := v.(int); ok {
				return n
			}
		}
	}
	return 0
}
