package scope

import "testing"

func TestPowerTransform(t *testing.T) {
	p, err := NewPowerTransform(0, 10)
	if err != nil {
		t.Fatalf("NewPowerTransform() error = %v", err)
	}
	tests := []struct {
		raw, want float64
	}{
		{0, 1},
		{-100, 0},
		{-50, 0.5},
	}
	for _, tt := range tests {
		if got := p.Apply(tt.raw); !near(got, tt.want) {
			t.Errorf("Apply(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestPowerTransformLabels(t *testing.T) {
	p, _ := NewPowerTransform(-20, 5)
	tests := []struct{ i, want int }{
		{0, -70},
		{5, -45},
		{10, -20},
	}
	for _, tt := range tests {
		if got := p.Label(tt.i); got != tt.want {
			t.Errorf("Label(%d) = %d, want %d", tt.i, got, tt.want)
		}
	}
	if got := p.Apply(-20); !near(got, 1) {
		t.Errorf("Apply(ref) = %v, want 1", got)
	}
}

func TestPowerTransformInvalidStep(t *testing.T) {
	for _, step := range []int{0, -5} {
		if _, err := NewPowerTransform(0, step); err == nil {
			t.Errorf("NewPowerTransform(0, %d) error = nil, want error", step)
		}
	}
}
