package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/storage"
)

type ExportData struct {
	ID         string             `json:"id"`
	Profile    string             `json:"profile"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Charge     float64            `json:"charge"`
	Mass       float64            `json:"mass"`
	Times      []float64          `json:"times"`
	Positions  [][3]*float64      `json:"positions"`
	Velocities [][3]*float64      `json:"velocities"`
	Metrics    map[string]float64 `json:"metrics"`
}

// finite maps non-finite components to null; JSON has no NaN or Inf.
func finite(x, y, z float64) [3]*float64 {
	var out [3]*float64
	for i, v := range [3]float64{x, y, z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v := v
		out[i] = &v
	}
	return out
}

func NewExportData(meta storage.RunMetadata, tr *dynamo.Trajectory) ExportData {
	data := ExportData{
		ID:         meta.ID,
		Profile:    meta.Profile,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Steps:      tr.Len(),
		Charge:     meta.Charge,
		Mass:       meta.Mass,
		Times:      tr.Times(),
		Positions:  make([][3]*float64, tr.Len()),
		Velocities: make([][3]*float64, tr.Len()),
		Metrics:    meta.Metrics,
	}

	for i := 0; i < tr.Len(); i++ {
		r, v := tr.Position(i), tr.Velocity(i)
		data.Positions[i] = finite(r.X, r.Y, r.Z)
		data.Velocities[i] = finite(v.X, v.Y, v.Z)
	}
	return data
}

// JSON writes the run as indented JSON.
func JSON(w io.Writer, meta storage.RunMetadata, tr *dynamo.Trajectory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(meta, tr))
}
