package mesh

import (
	"testing"

	"landmass/internal/heightmap"

	"github.com/go-gl/mathgl/mgl32"
)

func smallSettings() Settings {
	s := DefaultSettings()
	s.ChunkSizeIndex = 0
	return s
}

// ramp rises along x so every face shares the same normal.
func ramp(n int) *heightmap.HeightMap {
	values := make([][]float32, n)
	for x := range values {
		values[x] = make([]float32, n)
		for y := range values[x] {
			values[x][y] = float32(x) * 0.5
		}
	}
	return heightmap.FromValues(values)
}

func TestNumVertsPerLine(t *testing.T) {
	s := smallSettings()
	if got := s.NumVertsPerLine(); got != 51 {
		t.Errorf("NumVertsPerLine = %d, want 51", got)
	}
	if got := s.MeshWorldSize(); got != 48*s.Scale {
		t.Errorf("MeshWorldSize = %f, want %f", got, 48*s.Scale)
	}
}

func TestStridesDivideChunkSizes(t *testing.T) {
	for _, size := range SupportedChunkSizes {
		for lod := range NumSupportedLODs {
			if size%SkipIncrement(lod) != 0 {
				t.Errorf("chunk size %d not divisible by stride %d", size, SkipIncrement(lod))
			}
		}
	}
}

func TestBuildCounts(t *testing.T) {
	s := smallSettings()
	hm := heightmap.Flat(s.NumVertsPerLine())
	for lod := range NumSupportedLODs {
		d := Build(hm, s, lod)
		w := s.ChunkSize()/SkipIncrement(lod) + 1
		if len(d.Vertices) != w*w {
			t.Errorf("lod %d: %d vertices, want %d", lod, len(d.Vertices), w*w)
		}
		if d.TriangleCount() != 2*(w-1)*(w-1) {
			t.Errorf("lod %d: %d triangles, want %d", lod, d.TriangleCount(), 2*(w-1)*(w-1))
		}
		if len(d.Normals) != len(d.Vertices) || len(d.UVs) != len(d.Vertices) {
			t.Errorf("lod %d: attribute lengths differ from vertex count", lod)
		}
		if d.LOD != lod {
			t.Errorf("LOD = %d, want %d", d.LOD, lod)
		}
		for _, idx := range d.Triangles {
			if int(idx) >= len(d.Vertices) {
				t.Fatalf("lod %d: triangle index %d out of range", lod, idx)
			}
		}
	}
}

func TestBuildExtentsAndUVs(t *testing.T) {
	s := smallSettings()
	d := Build(heightmap.Flat(s.NumVertsPerLine()), s, 0)
	half := s.MeshWorldSize() / 2

	first, last := d.Vertices[0], d.Vertices[len(d.Vertices)-1]
	if first.X() != -half || first.Z() != half {
		t.Errorf("first vertex = %v, want (-%f, 0, %f)", first, half, half)
	}
	if last.X() != half || last.Z() != -half {
		t.Errorf("last vertex = %v, want (%f, 0, -%f)", last, half, -half)
	}
	if d.UVs[0] != (mgl32.Vec2{0, 0}) || d.UVs[len(d.UVs)-1] != (mgl32.Vec2{1, 1}) {
		t.Errorf("uv corners = %v, %v", d.UVs[0], d.UVs[len(d.UVs)-1])
	}
}

func TestFlatNormalsPointUp(t *testing.T) {
	s := smallSettings()
	d := Build(heightmap.Flat(s.NumVertsPerLine()), s, 2)
	up := mgl32.Vec3{0, 1, 0}
	for i, n := range d.Normals {
		if !n.ApproxEqualThreshold(up, 1e-5) {
			t.Fatalf("normal %d = %v, want %v", i, n, up)
		}
	}
}

// TestEdgeNormalsMatchInterior verifies the border ring makes edge normals agree with a plane
func TestEdgeNormalsMatchInterior(t *testing.T) {
	s := smallSettings()
	d := Build(ramp(s.NumVertsPerLine()), s, 0)
	want := d.Normals[len(d.Normals)/2]
	if want.Y() <= 0 || want.X() >= 0 {
		t.Fatalf("interior normal %v does not lean away from the slope", want)
	}
	for i, n := range d.Normals {
		if !n.ApproxEqualThreshold(want, 1e-4) {
			t.Fatalf("normal %d = %v, want %v", i, n, want)
		}
	}
}

func TestBuildHeights(t *testing.T) {
	s := smallSettings()
	hm := ramp(s.NumVertsPerLine())
	d := Build(hm, s, 1)
	w := s.ChunkSize()/SkipIncrement(1) + 1
	// vertex (gx, gy) samples height map cell (1+gx*stride, 1+gy*stride)
	for gy := range w {
		for gx := range w {
			v := d.Vertices[gy*w+gx]
			if want := hm.At(1+gx*2, 1+gy*2); v.Y() != want {
				t.Fatalf("vertex (%d,%d) height %f, want %f", gx, gy, v.Y(), want)
			}
		}
	}
}

func TestFlatShading(t *testing.T) {
	s := smallSettings()
	s.FlatShading = true
	s.FlatShadedChunkSizeIndex = 0
	d := Build(ramp(s.NumVertsPerLine()), s, 4)
	if len(d.Vertices) != len(d.Triangles) {
		t.Fatalf("flat shading: %d vertices for %d indices", len(d.Vertices), len(d.Triangles))
	}
	for t0 := 0; t0 < len(d.Triangles); t0 += 3 {
		if d.Normals[t0] != d.Normals[t0+1] || d.Normals[t0] != d.Normals[t0+2] {
			t.Fatalf("triangle %d has differing normals", t0/3)
		}
		if d.Triangles[t0] != uint32(t0) {
			t.Fatalf("index %d = %d, want sequential", t0, d.Triangles[t0])
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Settings)
		ok   bool
	}{
		{"default", func(*Settings) {}, true},
		{"size index", func(s *Settings) { s.ChunkSizeIndex = len(SupportedChunkSizes) }, false},
		{"flat index", func(s *Settings) { s.FlatShading = true; s.FlatShadedChunkSizeIndex = 3 }, false},
		{"scale", func(s *Settings) { s.Scale = 0 }, false},
		{"fixed size", func(s *Settings) { s.FixedTerrain = true; s.FixedTerrainSize = -1 }, false},
	}
	for _, c := range cases {
		s := DefaultSettings()
		c.mut(&s)
		if err := s.Validate(); (err == nil) != c.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", c.name, err, c.ok)
		}
	}
}

func BenchmarkBuild(b *testing.B) {
	s := DefaultSettings()
	hm := ramp(s.NumVertsPerLine())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(hm, s, 0)
	}
}
