package storage

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/integrators"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var circle = dynamo.State{Position: r3.Vec{X: 1}, Velocity: r3.Vec{Y: 1}}

func simulate(t *testing.T, steps int) (*dynamo.Trajectory, dynamo.Params) {
	t.Helper()
	p := dynamo.DefaultParams()
	p.Steps = steps
	tr, err := dynamo.New(integrators.NewRK4()).Run(context.Background(), p, circle)
	require.NoError(t, err)
	return tr, p
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	tr, p := simulate(t, 50)
	meta := NewMetadata(p, circle, "rk4", map[string]float64{"max_energy_drift": 1e-12})

	runID, err := st.Save(meta, tr)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, "gyration", loaded.Profile)
	require.Equal(t, 50, loaded.Steps)
	require.Equal(t, Vec{0, 1, 0}, loaded.Velocity)
	require.Equal(t, 1e-12, loaded.Metrics["max_energy_drift"])
	require.InDelta(t, 0.49, loaded.Duration(), 1e-12)

	back, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	require.Equal(t, tr.Len(), back.Len())
	for i := 0; i < tr.Len(); i++ {
		require.Equal(t, tr.State(i), back.State(i), "sample %d", i)
		require.Equal(t, tr.Time(i), back.Time(i), "time %d", i)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	tr, p := simulate(t, 3)
	for i := 0; i < 2; i++ {
		_, err := st.Save(NewMetadata(p, circle, "rk4", nil), tr)
		require.NoError(t, err)
	}

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.NotEqual(t, runs[0].ID, runs[1].ID)
	require.False(t, runs[1].Timestamp.Before(runs[0].Timestamp))
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	tr, p := simulate(t, 2)
	runID, err := st.Save(NewMetadata(p, circle, "rk4", nil), tr)
	require.NoError(t, err)

	for _, name := range []string{metadataFile, trajectoryFile} {
		_, err := os.Stat(filepath.Join(dir, runID, name))
		require.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, runID, trajectoryFile))
	require.NoError(t, err)
	require.Contains(t, string(data), "time,x,y,z,vx,vy,vz\n0,1,0,0,0,1,0\n")
}

func TestStoreDropsNonFiniteMetrics(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	tr, p := simulate(t, 2)
	metrics := map[string]float64{"ok": 1, "nan": math.NaN(), "inf": math.Inf(1)}
	runID, err := st.Save(NewMetadata(p, circle, "rk4", metrics), tr)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"ok": 1}, meta.Metrics)
}

func TestStoreDivergedTrajectoryRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	p := dynamo.DefaultParams()
	p.Steps = 3
	x0 := dynamo.State{Velocity: r3.Vec{X: math.Inf(1)}}
	tr, err := dynamo.New(integrators.NewRK4()).Run(context.Background(), p, x0)
	require.NoError(t, err)

	runID, err := st.Save(NewMetadata(p, x0, "rk4", nil), tr)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.True(t, math.IsInf(meta.Velocity[0], 1))

	back, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	require.False(t, back.Final().IsValid())
}

func TestStoreNonFiniteInitialState(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	p := dynamo.DefaultParams()
	p.Steps = 4
	x0 := dynamo.State{Position: r3.Vec{X: 1, Z: math.Inf(-1)}, Velocity: r3.Vec{Y: math.NaN()}}
	tr, err := dynamo.New(integrators.NewRK4()).Run(context.Background(), p, x0)
	require.NoError(t, err)

	runID, err := st.Save(NewMetadata(p, x0, "rk4", nil), tr)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, 1.0, meta.Position[0])
	require.True(t, math.IsInf(meta.Position[2], -1))
	require.True(t, math.IsNaN(meta.Velocity[1]))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestVecJSON(t *testing.T) {
	data, err := Vec{1.5, math.NaN(), math.Inf(1)}.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `[1.5, "NaN", "+Inf"]`, string(data))

	var v Vec
	require.NoError(t, v.UnmarshalJSON([]byte(`[0.25, "-Inf", 3]`)))
	require.Equal(t, 0.25, v[0])
	require.True(t, math.IsInf(v[1], -1))
	require.Equal(t, 3.0, v[2])

	require.Error(t, v.UnmarshalJSON([]byte(`[1, "bogus", 2]`)))
}

func TestStoreFailedSaveCleansUp(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	orig := createFile
	t.Cleanup(func() { createFile = orig })
	createFile = func(name string) (*os.File, error) {
		if filepath.Base(name) == trajectoryFile {
			return nil, errors.New("disk full")
		}
		return orig(name)
	}

	tr, p := simulate(t, 3)
	_, err := st.Save(NewMetadata(p, circle, "rk4", nil), tr)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	require.True(t, errors.Is(err, ErrNotFound))
	_, err = st.LoadTrajectory("nope")
	require.True(t, errors.Is(err, ErrNotFound))
}
