package dqn

import (
	"archive/zip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

const manifestVersion = 1

// manifest describes the archived agent. ObsSize and ActionCount pin the
// model to a compatible environment shape at load time.
type manifest struct {
	Version     int       `json:"version"`
	ObsSize     int       `json:"obs_size"`
	ActionCount int       `json:"action_count"`
	Arch        []int     `json:"arch"`
	Gamma       float64   `json:"gamma"`
	SavedAt     time.Time `json:"saved_at"`
}

// Save writes the agent to a zip archive at path, creating parent
// directories as needed.
func (a *Agent) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	mw, err := zw.Create("manifest.json")
	if err != nil {
		return err
	}
	m := manifest{
		Version:     manifestVersion,
		ObsSize:     a.obsSize,
		ActionCount: a.actions,
		Arch:        a.cfg.Arch,
		Gamma:       a.cfg.Gamma,
		SavedAt:     time.Now().UTC(),
	}
	if err := json.NewEncoder(mw).Encode(m); err != nil {
		return err
	}
	ww, err := zw.Create("weights.gob")
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(ww).Encode(a.online.state()); err != nil {
		return err
	}
	return zw.Close()
}

// Space is the environment surface a model is checked against when loaded.
// Both gym.Env and gym.VecEnv satisfy it.
type Space interface {
	ObsShape() []int
	ActionCount() int
}

// Load reads an archived agent and binds it to env. Loading fails when the
// archive is unreadable or its shapes do not match the environment.
func Load(path string, env Space) (*Agent, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open model archive: %w", err)
	}
	defer zr.Close()

	var m manifest
	if err := readArchiveJSON(&zr.Reader, "manifest.json", &m); err != nil {
		return nil, err
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported model version %d", m.Version)
	}

	obsSize := 1
	for _, d := range env.ObsShape() {
		obsSize *= d
	}
	if m.ObsSize != obsSize {
		return nil, fmt.Errorf("model expects observations of size %d, environment produces %d", m.ObsSize, obsSize)
	}
	if m.ActionCount != env.ActionCount() {
		return nil, fmt.Errorf("model expects %d actions, environment has %d", m.ActionCount, env.ActionCount())
	}

	var state netState
	if err := readArchiveGob(&zr.Reader, "weights.gob", &state); err != nil {
		return nil, err
	}
	online, err := networkFromState(state)
	if err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}

	cfg := Config{Arch: m.Arch, Gamma: m.Gamma}
	cfg.fillDefaults()
	return &Agent{
		cfg:     cfg,
		online:  online,
		target:  online.clone(),
		buffer:  newReplayBuffer(cfg.BufferSize),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		obsSize: m.ObsSize,
		actions: m.ActionCount,
	}, nil
}

func openArchiveFile(r *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range r.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("model archive is missing %s", name)
}

func readArchiveJSON(r *zip.Reader, name string, v interface{}) error {
	f, err := openArchiveFile(r, name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func readArchiveGob(r *zip.Reader, name string, v interface{}) error {
	f, err := openArchiveFile(r, name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
