package gpucore

import "testing"

func TestTileRegions(t *testing.T) {
	tests := []struct {
		name          string
		w, h, tile    int
		wantCount     int
		wantLastWidth int
	}{
		{"exact", 32, 32, 16, 4, 16},
		{"waterfall", 1024, 1024, 16, 64 * 64, 16},
		{"clipped", 20, 16, 16, 2, 4},
		{"empty", 0, 16, 16, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TileRegions(tt.w, tt.h, tt.tile)
			if len(got) != tt.wantCount {
				t.Fatalf("TileRegions() len = %d, want %d", len(got), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			if last := got[len(got)-1]; last.Width != tt.wantLastWidth {
				t.Errorf("last tile width = %d, want %d", last.Width, tt.wantLastWidth)
			}
		})
	}
}

func TestTileRegionsCoverage(t *testing.T) {
	const w, h = 48, 40
	covered := make([]int, w*h)
	for _, r := range TileRegions(w, h, 16) {
		for y := r.Y; y < r.Y+r.Height; y++ {
			for x := r.X; x < r.X+r.Width; x++ {
				covered[y*w+x]++
			}
		}
	}
	for i, c := range covered {
		if c != 1 {
			t.Fatalf("texel %d covered %d times, want 1", i, c)
		}
	}
}

func TestTextureDescSize(t *testing.T) {
	d := TextureDesc{Width: 1024, Height: 128, Format: TextureFormatR32Float}
	if got := d.Size(); got != 1024*128*4 {
		t.Errorf("Size() = %d, want %d", got, 1024*128*4)
	}
}

func TestBufferUsageHas(t *testing.T) {
	u := BufferUsageVertex | BufferUsageDynamic
	if !u.Has(BufferUsageVertex) {
		t.Error("Has(Vertex) = false, want true")
	}
	if u.Has(BufferUsageMapRead) {
		t.Error("Has(MapRead) = true, want false")
	}
}
