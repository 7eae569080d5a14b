package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/san-kum/testparticle/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrNotFound = errors.New("storage: run not found")

var header = []string{"time", "x", "y", "z", "vx", "vy", "vz"}

type Store struct {
	baseDir string
	logger  kitlog.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, logger: kitlog.NewNopLogger()}
}

func (s *Store) SetLogger(l kitlog.Logger) { s.logger = l }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Profile    string             `json:"profile"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Charge     float64            `json:"charge"`
	Mass       float64            `json:"mass"`
	Position   Vec                `json:"position"`
	Velocity   Vec                `json:"velocity"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Duration is the elapsed time covered by the stored samples.
func (m RunMetadata) Duration() float64 {
	return float64(m.Steps-1) * m.Dt
}

// Vec is a stored 3-vector. Finite components are JSON numbers; NaN and
// infinities are written as the strings "NaN", "+Inf" and "-Inf".
type Vec [3]float64

func vec(v r3.Vec) Vec { return Vec{v.X, v.Y, v.Z} }

func (v Vec) R3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func (v Vec) MarshalJSON() ([]byte, error) {
	out := make([]any, len(v))
	for i, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			out[i] = format(c)
		} else {
			out[i] = c
		}
	}
	return json.Marshal(out)
}

func (v *Vec) UnmarshalJSON(data []byte) error {
	var raw [3]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i, r := range raw {
		var str string
		if err := json.Unmarshal(r, &str); err == nil {
			c, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return fmt.Errorf("storage: vector component %d: %w", i, err)
			}
			v[i] = c
			continue
		}
		if err := json.Unmarshal(r, &v[i]); err != nil {
			return fmt.Errorf("storage: vector component %d: %w", i, err)
		}
	}
	return nil
}

// NewMetadata describes a run from its parameters and initial state.
func NewMetadata(p dynamo.Params, x0 dynamo.State, integrator string, metrics map[string]float64) RunMetadata {
	return RunMetadata{
		Profile:    p.Profile.String(),
		Dt:         p.Dt,
		Steps:      p.Steps,
		Charge:     p.Charge,
		Mass:       p.Mass,
		Position:   vec(x0.Position),
		Velocity:   vec(x0.Velocity),
		Integrator: integrator,
		Metrics:    metrics,
	}
}

// Save writes a new run directory and returns its id. Non-finite metric
// values are dropped since JSON cannot represent them.
func (s *Store) Save(meta RunMetadata, tr *dynamo.Trajectory) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Profile, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Metrics = finiteOnly(meta.Metrics)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeRun(runDir, meta, tr); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			level.Warn(s.logger).Log("msg", "cleanup failed", "dir", runDir, "err", rmErr)
		}
		return "", fmt.Errorf("storage: save %s: %w", meta.ID, err)
	}

	level.Info(s.logger).Log("msg", "run saved", "id", meta.ID, "samples", tr.Len())
	return meta.ID, nil
}

func finiteOnly(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

// createFile is swapped in tests to simulate write failures.
var createFile = os.Create

func writeRun(runDir string, meta RunMetadata, tr *dynamo.Trajectory) error {
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	return writeTrajectory(filepath.Join(runDir, trajectoryFile), tr)
}

func writeJSON(path string, v any) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrajectory(path string, tr *dynamo.Trajectory) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, tr); err != nil {
		return err
	}
	return f.Sync()
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Row renders sample i in column order time,x,y,z,vx,vy,vz.
func Row(tr *dynamo.Trajectory, i int) []string {
	s := tr.State(i)
	return []string{
		format(tr.Time(i)),
		format(s.Position.X), format(s.Position.Y), format(s.Position.Z),
		format(s.Velocity.X), format(s.Velocity.Y), format(s.Velocity.Z),
	}
}

// WriteCSV streams the trajectory with a header row. Values are written at
// full precision so a reload reproduces the run bit for bit.
func WriteCSV(w io.Writer, tr *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < tr.Len(); i++ {
		if err := cw.Write(Row(tr, i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns stored runs, oldest first. Unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			level.Debug(s.logger).Log("msg", "skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory reads back the stored samples of a run.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", runID, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("storage: run %s has no samples", runID)
	}

	states := make([]dynamo.State, 0, len(records)-1)
	times := make([]float64, 0, len(records)-1)
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: run %s line %d: %w", runID, line+2, err)
			}
			vals[j] = v
		}
		times = append(times, vals[0])
		states = append(states, dynamo.State{
			Position: r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]},
			Velocity: r3.Vec{X: vals[4], Y: vals[5], Z: vals[6]},
		})
	}

	return dynamo.RestoreTrajectory(states, times)
}
