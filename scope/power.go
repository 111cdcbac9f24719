package scope

import "fmt"

// PowerTransform maps raw power (dB) to display units:
// display = Scale * (raw + Offset). The grid spans ten divisions below
// the reference level, so DBRef maps to 1 and DBRef-10*DBPerDiv to 0.
type PowerTransform struct {
	DBRef    int
	DBPerDiv int
	Scale    float64
	Offset   float64
}

// Default power range.
const (
	DefaultDBRef    = 0
	DefaultDBPerDiv = 10
)

// NewPowerTransform builds the transform for a reference level and a
// per-division step, both in dB. dbPerDiv must be positive.
func NewPowerTransform(dbRef, dbPerDiv int) (PowerTransform, error) {
	if dbPerDiv <= 0 {
		return PowerTransform{}, fmt.Errorf("scope: power step %d dB/div must be positive", dbPerDiv)
	}
	bottom := dbRef - GridDivisions*dbPerDiv
	return PowerTransform{
		DBRef:    dbRef,
		DBPerDiv: dbPerDiv,
		Scale:    1 / float64(GridDivisions*dbPerDiv),
		Offset:   -float64(bottom),
	}, nil
}

// Apply maps a raw power value to display units.
func (p PowerTransform) Apply(raw float64) float64 {
	return p.Scale * (raw + p.Offset)
}

// Label returns the power printed at grid division i (0 at the bottom).
func (p PowerTransform) Label(i int) int {
	return p.DBRef - (GridDivisions-i)*p.DBPerDiv
}
