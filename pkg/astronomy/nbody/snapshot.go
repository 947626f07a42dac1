package nbody

import (
	"bufio"
	"encoding/json"
	"os"
)

// SnapshotSink receives periodic states of a running simulation.
type SnapshotSink interface {
	OnStart(totalSteps int, snapEvery int) error
	OnSnapshot(t float64, bodies []Body) error
	OnEnd(finalT float64) error
	Close() error
}

// JSONLSnapshotWriter writes one JSON record per snapshot to disk.
type JSONLSnapshotWriter struct {
	f  *os.File
	bw *bufio.Writer
}

type jsonlSnapshot struct {
	Time   float64 `json:"time"`
	Bodies []Body  `json:"bodies"`
}

func NewJSONLSnapshotWriter(path string) (*JSONLSnapshotWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONLSnapshotWriter{f: f, bw: bufio.NewWriter(f)}, nil
}

func (w *JSONLSnapshotWriter) OnStart(totalSteps int, snapEvery int) error { return nil }

func (w *JSONLSnapshotWriter) OnSnapshot(t float64, bodies []Body) error {
	rec := jsonlSnapshot{Time: t, Bodies: bodies}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *JSONLSnapshotWriter) OnEnd(finalT float64) error { return w.bw.Flush() }

func (w *JSONLSnapshotWriter) Close() error {
	if w.bw != nil {
		_ = w.bw.Flush()
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}
