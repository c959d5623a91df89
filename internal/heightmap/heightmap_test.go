package heightmap

import (
	"testing"

	"landmass/internal/curve"
	"landmass/internal/falloff"
	"landmass/internal/noise"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.Noise.Seed = 2024
	s.Noise.Octaves = 4
	s.Noise.Scale = 25
	return s
}

func checkBounds(t *testing.T, hm *HeightMap) {
	t.Helper()
	for x := range hm.Width() {
		for y := range hm.Width() {
			v := hm.At(x, y)
			if v < hm.Min() || v > hm.Max() {
				t.Fatalf("value %f at (%d,%d) outside [%f,%f]", v, x, y, hm.Min(), hm.Max())
			}
		}
	}
}

func TestBuildBounds(t *testing.T) {
	for _, mode := range []noise.NormalizeMode{noise.NormalizeGlobal, noise.NormalizeLocal} {
		s := testSettings()
		s.Noise.Normalize = mode
		hm := Build(51, s, 120, -60)
		if hm.Width() != 51 {
			t.Fatalf("width = %d, want 51", hm.Width())
		}
		checkBounds(t, hm)
		if hm.Min() > hm.Max() {
			t.Errorf("min %f > max %f", hm.Min(), hm.Max())
		}
	}
}

func TestBuildWithFalloffBounds(t *testing.T) {
	s := testSettings()
	mask := falloff.Generate(51, falloff.Circular)
	for _, start := range [][2]int{{0, 0}, {-20, 10}, {40, 40}, {-200, 0}} {
		hm := BuildWithFalloff(51, s, 0, 0, mask, start[0], start[1])
		checkBounds(t, hm)
		if hm.Min() < 0 {
			t.Errorf("falloff build produced negative height %f", hm.Min())
		}
	}
}

// TestFalloffOnlyLowers verifies subtracting the mask never raises terrain
func TestFalloffOnlyLowers(t *testing.T) {
	s := testSettings()
	plain := Build(51, s, 0, 0)
	mask := falloff.Generate(51, falloff.Square)
	carved := BuildWithFalloff(51, s, 0, 0, mask, 0, 0)

	lowered := 0
	for x := range 51 {
		for y := range 51 {
			if carved.At(x, y) > plain.At(x, y) {
				t.Fatalf("falloff raised (%d,%d): %f > %f", x, y, carved.At(x, y), plain.At(x, y))
			}
			if carved.At(x, y) < plain.At(x, y) {
				lowered++
			}
		}
	}
	if lowered == 0 {
		t.Error("falloff did not lower any cell")
	}
}

// TestBuildSelfReferentialCurve verifies the curve is evaluated at the raw noise value
func TestBuildSelfReferentialCurve(t *testing.T) {
	s := testSettings()
	s.Multiplier = 10
	s.Curve = curve.MustNew(curve.Key{Time: 0, Value: 0}, curve.Key{Time: 1, Value: 1, InTangent: 2, OutTangent: 2})
	field := noise.Generate(9, 9, s.Noise, 3, 4)
	hm := Build(9, s, 3, 4)
	c := s.Curve.Clone()
	for x := range 9 {
		for y := range 9 {
			raw := field[x][y]
			want := raw * (c.Evaluate(raw) * s.Multiplier)
			if hm.At(x, y) != want {
				t.Fatalf("(%d,%d): got %f, want %f", x, y, hm.At(x, y), want)
			}
		}
	}
}

func TestBuildSeamless(t *testing.T) {
	const width = 27
	s := testSettings()
	a := Build(width, s, 0, 0)
	b := Build(width, s, width-1, 0)
	for y := range width {
		if a.At(width-1, y) != b.At(0, y) {
			t.Errorf("seam at y=%d: %f vs %f", y, a.At(width-1, y), b.At(0, y))
		}
	}
}

func TestMinMaxHeight(t *testing.T) {
	s := testSettings()
	s.Multiplier = 40
	if got := s.MinHeight(); got != 0 {
		t.Errorf("MinHeight = %f, want 0", got)
	}
	if got := s.MaxHeight(); got != 40 {
		t.Errorf("MaxHeight = %f, want 40", got)
	}
}

func TestFromValuesAndFlat(t *testing.T) {
	hm := FromValues([][]float32{{1, -2}, {5, 0}})
	if hm.Min() != -2 || hm.Max() != 5 {
		t.Errorf("FromValues extrema = [%f,%f], want [-2,5]", hm.Min(), hm.Max())
	}
	flat := Flat(4)
	if flat.Width() != 4 || flat.Min() != 0 || flat.Max() != 0 || flat.At(3, 3) != 0 {
		t.Error("Flat map is not all zeros")
	}
}

func BenchmarkBuildWithFalloff(b *testing.B) {
	s := testSettings()
	mask := falloff.Generate(243, falloff.Square)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildWithFalloff(99, s, 0, 0, mask, 72, 72)
	}
}
