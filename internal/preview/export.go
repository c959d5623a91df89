package preview

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"landmass/internal/falloff"
	"landmass/internal/heightmap"
	"landmass/internal/mesh"

	"go.uber.org/zap"
)

// WriteOBJ writes a mesh as a Wavefront OBJ with positions, texture coordinates and normals.
func WriteOBJ(w io.Writer, d *mesh.Data) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# lod %d, %d vertices, %d triangles\n", d.LOD, len(d.Vertices), d.TriangleCount())
	for _, v := range d.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, uv := range d.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv[0], uv[1])
	}
	for _, n := range d.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}
	for i := 0; i+2 < len(d.Triangles); i += 3 {
		a, b, c := d.Triangles[i]+1, d.Triangles[i+1]+1, d.Triangles[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	return bw.Flush()
}

// PreviewSize is the edge length in samples of a noise or falloff preview: one chunk, or the
// whole grid of a fixed-size terrain.
func PreviewSize(ms mesh.Settings) int {
	n := ms.NumVertsPerLine()
	if ms.FixedTerrain {
		return n * (2*ms.FixedTerrainSize + 1)
	}
	return n
}

// Render produces the preview image for noise and falloff modes.
func Render(s Settings, hs heightmap.Settings, ms mesh.Settings) (image.Image, error) {
	size := PreviewSize(ms)
	var img image.Image
	switch s.Mode {
	case ModeFalloff:
		img = FalloffImage(falloff.Generate(size, hs.FalloffMode))
	case ModeNoise:
		var hm *heightmap.HeightMap
		if hs.UseFalloff {
			hm = heightmap.BuildWithFalloff(size, hs, 0, 0, falloff.Generate(size, hs.FalloffMode), 0, 0)
		} else {
			hm = heightmap.Build(size, hs, 0, 0)
		}
		if s.Colored {
			grad, err := TerrainGradient()
			if err != nil {
				return nil, fmt.Errorf("build gradient: %w", err)
			}
			img = HeightImage(hm, hs.MinHeight(), hs.MaxHeight(), &grad)
		} else {
			img = HeightImage(hm, hm.Min(), hm.Max(), nil)
		}
	default:
		return nil, fmt.Errorf("mode %v does not produce an image", s.Mode)
	}
	return Upscale(img, s.Upscale), nil
}

// Export writes the preview selected by s to s.Output.
func Export(s Settings, hs heightmap.Settings, ms mesh.Settings, log *zap.Logger) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if log == nil {
		log = zap.NewNop()
	}
	hs.Noise = hs.Noise.Clamp()

	if s.Mode == ModeMesh {
		hm := heightmap.Build(ms.NumVertsPerLine(), hs, 0, 0)
		d := mesh.Build(hm, ms, s.LOD)
		f, err := os.Create(s.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", s.Output, err)
		}
		if err := WriteOBJ(f, d); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", s.Output, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info("mesh preview written", zap.String("path", s.Output), zap.Int("lod", s.LOD), zap.Int("triangles", d.TriangleCount()))
		return nil
	}

	img, err := Render(s, hs, ms)
	if err != nil {
		return err
	}
	if err := WritePNG(s.Output, img); err != nil {
		return err
	}
	log.Info("image preview written", zap.String("path", s.Output), zap.Stringer("mode", s.Mode), zap.Int("size", img.Bounds().Dx()))
	return nil
}
