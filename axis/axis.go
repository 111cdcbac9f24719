// Package axis formats frequency labels for the divisions of a spectrum
// grid.
//
// An [Axis] is built from the displayed center frequency and span. Each
// grid line i in [0, 2*HalfDivisions] is labeled with Render(i - HalfDivisions),
// so offset 0 is the center line.
package axis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Divisions is the number of grid divisions across the span.
const Divisions = 10

// HalfDivisions is the offset range on each side of the center line.
const HalfDivisions = Divisions / 2

// Mode selects how labels are printed.
type Mode uint8

const (
	// ModeNone prints bare division offsets; used when the span is unknown.
	ModeNone Mode = iota

	// ModeAbsolute prints the absolute frequency of every line.
	ModeAbsolute

	// ModeRelative prints the center frequency on the center line and
	// signed offsets from it elsewhere.
	ModeRelative
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeAbsolute:
		return "absolute"
	case ModeRelative:
		return "relative"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// maxSignificant is the longest absolute label, in significant digits,
// before the axis switches to relative labels.
const maxSignificant = 6

// Axis holds the formatting state for one center/span pair.
type Axis struct {
	Center float64
	Span   float64
	Step   float64
	Mode   Mode

	scale  float64
	prefix string
	digits int

	centerScale  float64
	centerPrefix string
	centerDigits int
}

// Build computes label formatting for a span centered on center.
// Frequencies are in Hz.
func Build(center, span float64) Axis {
	a := Axis{
		Center: center,
		Span:   span,
		Step:   span / Divisions,
	}
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		a.Mode = ModeNone
		return a
	}

	absMax := math.Abs(center) + span/2
	a.scale, a.prefix = siPrefix(absMax)
	a.digits = decimals(a.Step / a.scale)

	if significant(absMax/a.scale, a.digits) <= maxSignificant {
		a.Mode = ModeAbsolute
		return a
	}

	a.Mode = ModeRelative
	a.centerScale, a.centerPrefix = a.scale, a.prefix
	a.centerDigits = decimals(center / a.centerScale)
	a.scale, a.prefix = siPrefix(a.Step * HalfDivisions)
	a.digits = decimals(a.Step / a.scale)
	return a
}

// Render returns the label for the grid line at offset divisions from
// the center.
func (a Axis) Render(offset int) string {
	switch a.Mode {
	case ModeAbsolute:
		f := a.Center + float64(offset)*a.Step
		return format(f/a.scale, a.digits, false) + a.prefix
	case ModeRelative:
		if offset == 0 {
			return format(a.Center/a.centerScale, a.centerDigits, false) + a.centerPrefix
		}
		return format(float64(offset)*a.Step/a.scale, a.digits, true) + a.prefix
	default:
		if offset == 0 {
			return "0"
		}
		return fmt.Sprintf("%+d", offset)
	}
}

var prefixes = []string{"", "k", "M", "G", "T"}

// siPrefix returns the largest power-of-1000 scale not above v.
func siPrefix(v float64) (float64, string) {
	v = math.Abs(v)
	i := 0
	for i < len(prefixes)-1 && v >= math.Pow(1000, float64(i+1)) {
		i++
	}
	return math.Pow(1000, float64(i)), prefixes[i]
}

// decimals returns the fractional digits needed to print multiples of step.
func decimals(step float64) int {
	step = math.Abs(step)
	for d := 0; d < 6; d++ {
		v := step * math.Pow10(d)
		if math.Abs(v-math.Round(v)) < 1e-6*math.Max(1, v) {
			return d
		}
	}
	return 6
}

func significant(v float64, digits int) int {
	intDigits := 1
	if v = math.Abs(v); v >= 1 {
		intDigits = int(math.Floor(math.Log10(v))) + 1
	}
	return intDigits + digits
}

func format(v float64, digits int, signed bool) string {
	s := strconv.FormatFloat(v, 'f', digits, 64)
	if s == "-0" || strings.Trim(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	if signed && !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}
