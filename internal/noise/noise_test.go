package noise

import (
	"math"
	"math/rand"
	"testing"
)

func testSettings(source SourceKind, mode NormalizeMode) Settings {
	s := DefaultSettings()
	s.Seed = 1337
	s.OffsetX = 12.5
	s.OffsetY = -40
	s.Octaves = 4
	s.Scale = 30
	s.Source = source
	s.Normalize = mode
	return s
}

// TestGenerateDeterministic verifies identical arguments produce bit-identical fields
func TestGenerateDeterministic(t *testing.T) {
	for _, src := range []SourceKind{SourcePerlin, SourceSimplex, SourceValue} {
		for _, mode := range []NormalizeMode{NormalizeGlobal, NormalizeLocal} {
			s := testSettings(src, mode)
			a := Generate(24, 24, s, 100, -250)
			b := Generate(24, 24, s, 100, -250)
			for x := range a {
				for y := range a[x] {
					if math.Float32bits(a[x][y]) != math.Float32bits(b[x][y]) {
						t.Fatalf("%v/%v: not deterministic at (%d,%d): %v != %v", src, mode, x, y, a[x][y], b[x][y])
					}
				}
			}
		}
	}
}

// TestGenerateGlobalSeamless verifies two independently generated neighbours agree on their shared edge
func TestGenerateGlobalSeamless(t *testing.T) {
	const width = 26
	for _, src := range []SourceKind{SourcePerlin, SourceSimplex, SourceValue} {
		s := testSettings(src, NormalizeGlobal)
		left := Generate(width, width, s, 48, 96)
		right := Generate(width, width, s, 48+width-1, 96)
		for y := range width {
			l := left[width-1][y]
			r := right[0][y]
			if math.Abs(float64(l-r)) > 1e-6 {
				t.Errorf("%v: seam at y=%d: left=%f right=%f", src, y, l, r)
			}
		}
	}
}

// TestGenerateLocalRange verifies local normalization stays inside [0,1] and spans it
func TestGenerateLocalRange(t *testing.T) {
	s := testSettings(SourcePerlin, NormalizeLocal)
	field := Generate(32, 32, s, 0, 0)
	lo, hi := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for x := range field {
		for _, v := range field[x] {
			if v < 0 || v > 1 {
				t.Fatalf("local value %f outside [0,1]", v)
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if lo != 0 || hi != 1 {
		t.Errorf("expected local range [0,1], got [%f,%f]", lo, hi)
	}
}

// TestGenerateGlobalNonNegative verifies the global clamp
func TestGenerateGlobalNonNegative(t *testing.T) {
	s := testSettings(SourceSimplex, NormalizeGlobal)
	field := Generate(32, 32, s, -500, 500)
	for x := range field {
		for y, v := range field[x] {
			if v < 0 || math.IsNaN(float64(v)) {
				t.Fatalf("global value at (%d,%d) = %f", x, y, v)
			}
		}
	}
}

func TestGenerateNonPositiveScale(t *testing.T) {
	s := testSettings(SourcePerlin, NormalizeGlobal)
	s.Scale = 0
	field := Generate(8, 8, s, 0, 0)
	for x := range field {
		for _, v := range field[x] {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("scale 0 produced %f", v)
			}
		}
	}
}

func TestGenerateZeroOctaves(t *testing.T) {
	s := testSettings(SourcePerlin, NormalizeGlobal)
	s.Octaves = 0
	field := Generate(4, 4, s, 0, 0)
	for x := range field {
		for _, v := range field[x] {
			if v != 0 {
				t.Fatalf("expected flat field with no octaves, got %f", v)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	s := Settings{Scale: -3, Octaves: -2, Lacunarity: 0.2, Persistence: 1.7}.Clamp()
	if s.Scale != MinScale {
		t.Errorf("scale: got %f, want %f", s.Scale, MinScale)
	}
	if s.Octaves != 0 {
		t.Errorf("octaves: got %d, want 0", s.Octaves)
	}
	if s.Lacunarity != 1 {
		t.Errorf("lacunarity: got %f, want 1", s.Lacunarity)
	}
	if s.Persistence != 1 {
		t.Errorf("persistence: got %f, want 1", s.Persistence)
	}
}

func TestMaxAmplitude(t *testing.T) {
	s := Settings{Octaves: 3, Persistence: 0.5}
	if got := s.MaxAmplitude(); got != 1.75 {
		t.Errorf("MaxAmplitude = %f, want 1.75", got)
	}
}

// TestHash2DifferentInputs verifies hash2 separates axes and seeds
func TestHash2DifferentInputs(t *testing.T) {
	seed := int64(42)
	if hash2(1, 0, seed) == hash2(2, 0, seed) {
		t.Error("hash2 should differ for different X")
	}
	if hash2(0, 1, seed) == hash2(0, 2, seed) {
		t.Error("hash2 should differ for different Y")
	}
	if hash2(1, 2, seed) == hash2(2, 1, seed) {
		t.Error("hash2 should differ for axis swap")
	}
	if hash2(1, 1, 100) == hash2(1, 1, 200) {
		t.Error("hash2 should differ for different seed")
	}
}

// TestValueNoise2DRange verifies valueNoise2D outputs are in [0,1]
func TestValueNoise2DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for range 1000 {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		if v := valueNoise2D(x, y, 42); v < 0 || v > 1 {
			t.Errorf("valueNoise2D(%f, %f) = %f, expected in [0,1]", x, y, v)
		}
	}
}

// TestPerlinWrapContinuity verifies the lattice wrap does not introduce a jump at the period boundary
func TestPerlinWrapContinuity(t *testing.T) {
	src := NewSource(SourcePerlin, 7)
	a := src.Sample(-1e-7, 3.3)
	b := src.Sample(1e-7, 3.3)
	if diff := math.Abs(a - b); diff > 1e-3 {
		t.Errorf("perlin discontinuous across wrap: %f vs %f", a, b)
	}
	if c, d := src.Sample(-5000.25, 1.5), src.Sample(-5000.25+perlinLattice, 1.5); math.Abs(c-d) > 1e-9 {
		t.Errorf("perlin not periodic: %f vs %f", c, d)
	}
}

func TestSample01Range(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for _, kind := range []SourceKind{SourcePerlin, SourceSimplex, SourceValue} {
		src := NewSource(kind, 5)
		for range 500 {
			v := Sample01(src, rng.Float64()*1000-500, rng.Float64()*1000-500)
			if v < 0 || v > 1 {
				t.Fatalf("%v: Sample01 = %f", kind, v)
			}
		}
	}
}

func TestUnmarshalText(t *testing.T) {
	var m NormalizeMode
	if err := m.UnmarshalText([]byte("local")); err != nil || m != NormalizeLocal {
		t.Errorf("normalize local: got %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for unknown normalize mode")
	}
	var k SourceKind
	if err := k.UnmarshalText([]byte("simplex")); err != nil || k != SourceSimplex {
		t.Errorf("source simplex: got %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("worley")); err == nil {
		t.Error("expected error for unknown source")
	}
}

func BenchmarkGenerate(b *testing.B) {
	s := testSettings(SourcePerlin, NormalizeGlobal)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Generate(99, 99, s, float64(i), 0)
	}
}
