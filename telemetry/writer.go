// Package telemetry records training metrics for external visualization:
// per-episode JSONL logs, reward-curve plots and a small HTTP monitor.
package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/trechriron/agent-arcade-trentin/util"
)

const logFileName = "episodes.jsonl"

// Record is one training episode's metrics.
type Record struct {
	Episode int       `json:"episode"`
	Return  float64   `json:"return"`
	Length  int       `json:"length"`
	Time    time.Time `json:"time"`
}

// Writer appends records to a JSONL file under the telemetry directory of
// a training run.
type Writer struct {
	dir string
	mu  sync.Mutex
}

func NewWriter(dir string) (*Writer, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) Append(r Record) error {
	if r.Time.IsZero() {
		r.Time = time.Now().UTC()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return util.AppendToFile(filepath.Join(w.dir, logFileName), string(data))
}

func (w *Writer) Dir() string {
	return w.dir
}

func (w *Writer) Close() error {
	return nil
}

// ReadRecords loads all records written under dir, in order.
func ReadRecords(dir string) ([]Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		return nil, err
	}
	var records []Record
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var r Record
		if err := dec.Decode(&r); err != nil {
			return records, err
		}
		records = append(records, r)
	}
	return records, nil
}
