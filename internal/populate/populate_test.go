package populate

import (
	"reflect"
	"testing"

	"landmass/internal/curve"
	"landmass/internal/heightmap"
	"landmass/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

func constant(n int, v float32) *heightmap.HeightMap {
	values := make([][]float32, n)
	for x := range values {
		values[x] = make([]float32, n)
		for y := range values[x] {
			values[x][y] = v
		}
	}
	return heightmap.FromValues(values)
}

func linearHeight() heightmap.Settings {
	hs := heightmap.DefaultSettings()
	hs.Multiplier = 10
	hs.Curve = curve.Linear()
	return hs
}

func TestPopulateEveryCell(t *testing.T) {
	s := Settings{Enabled: true, IndexStep: 2, Objects: []Object{{Name: "rock", NoiseThreshold: 2, MaxHeight: 1}}}
	hm := constant(11, 5)
	got := Populate(s, hm, 1, linearHeight(), noise.NewSource(noise.SourcePerlin, 1), 0, 0)
	// x, y in {1, 3, 5, 7, 9}
	if len(got) != 25 {
		t.Fatalf("placed %d objects, want 25", len(got))
	}
	want := mgl32.Vec3{-4, 5, 4}
	if got[0].Position != want || got[0].Object != "rock" {
		t.Errorf("first placement = %+v, want rock at %v", got[0], want)
	}
}

func TestPopulateLowestThresholdWins(t *testing.T) {
	s := Settings{Enabled: true, IndexStep: 1, Objects: []Object{
		{Name: "common", NoiseThreshold: 2, MaxHeight: 1},
		{Name: "rare", NoiseThreshold: 1.5, MaxHeight: 1, HeightOffset: 1},
	}}
	got := Populate(s, constant(8, 3), 2, linearHeight(), noise.NewSource(noise.SourceSimplex, 4), 10, 10)
	if len(got) == 0 {
		t.Fatal("nothing placed")
	}
	for _, p := range got {
		if p.Object != "rare" {
			t.Fatalf("placed %q, want rare", p.Object)
		}
		if p.Position.Y() != 4 {
			t.Fatalf("height %f, want 4", p.Position.Y())
		}
	}
}

func TestPopulateHeightBand(t *testing.T) {
	s := Settings{Enabled: true, IndexStep: 1, Objects: []Object{{Name: "peak", NoiseThreshold: 2, MinHeight: 0.8, MaxHeight: 1}}}
	if got := Populate(s, constant(8, 5), 1, linearHeight(), noise.NewSource(noise.SourcePerlin, 1), 0, 0); len(got) != 0 {
		t.Errorf("placed %d objects outside their height band", len(got))
	}
	if got := Populate(s, constant(8, 9), 1, linearHeight(), noise.NewSource(noise.SourcePerlin, 1), 0, 0); len(got) == 0 {
		t.Error("nothing placed inside the height band")
	}
}

func TestPopulateDeterministic(t *testing.T) {
	s := DefaultSettings()
	s.Enabled = true
	hs := heightmap.DefaultSettings()
	hs.Noise.Seed = 7
	hm := heightmap.Build(51, hs, 0, 0)
	src := noise.NewSource(noise.SourcePerlin, 7)
	a := Populate(s, hm, 2.5, hs, src, 0, 0)
	b := Populate(s, hm, 2.5, hs, src, 0, 0)
	if !reflect.DeepEqual(a, b) {
		t.Error("population differs between identical calls")
	}
}

func TestInRange(t *testing.T) {
	s := Settings{Enabled: true, MaxChunkRadius: 1}
	if !s.InRange(1, -1) || s.InRange(2, 0) {
		t.Error("radius 1 range check wrong")
	}
	s.MaxChunkRadius = 0
	if !s.InRange(100, 100) {
		t.Error("radius 0 should admit every chunk")
	}
	s.Enabled = false
	if s.InRange(0, 0) {
		t.Error("disabled population admitted a chunk")
	}
}

func TestValidate(t *testing.T) {
	s := DefaultSettings()
	s.Enabled = true
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	s.IndexStep = 0
	if s.Validate() == nil {
		t.Error("index step 0 accepted")
	}
	s.IndexStep = 1
	s.Objects = []Object{{Name: "x", MinHeight: 0.6, MaxHeight: 0.4}}
	if s.Validate() == nil {
		t.Error("inverted height band accepted")
	}
}
