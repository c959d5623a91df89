// Package preview renders height maps, falloff masks and chunk meshes to files for inspection.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"landmass/internal/falloff"
	"landmass/internal/heightmap"
	"landmass/internal/mesh"

	"github.com/mazznoer/colorgrad"
	"golang.org/x/image/draw"
)

// Mode selects what a preview shows.
type Mode int

const (
	ModeNoise Mode = iota
	ModeFalloff
	ModeMesh
)

func (m Mode) String() string {
	switch m {
	case ModeFalloff:
		return "falloff"
	case ModeMesh:
		return "mesh"
	default:
		return "noise"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "noise", "":
		*m = ModeNoise
	case "falloff":
		*m = ModeFalloff
	case "mesh":
		*m = ModeMesh
	default:
		return fmt.Errorf("unknown preview mode %q", text)
	}
	return nil
}

// Settings configures a preview export.
type Settings struct {
	Mode Mode `yaml:"mode"`
	// Colored maps heights through a water-to-snow gradient instead of grayscale.
	Colored bool `yaml:"colored"`
	// Upscale enlarges images by an integer factor with nearest-neighbour sampling.
	Upscale int `yaml:"upscale"`
	// LOD is the mesh LOD exported in mesh mode.
	LOD    int    `yaml:"lod"`
	Output string `yaml:"output"`
}

// DefaultSettings returns a grayscale noise preview written to preview.png.
func DefaultSettings() Settings {
	return Settings{Mode: ModeNoise, Upscale: 1, Output: "preview.png"}
}

// Validate reports settings that cannot be exported.
func (s Settings) Validate() error {
	if s.Upscale < 1 {
		return fmt.Errorf("preview upscale must be at least 1, got %d", s.Upscale)
	}
	if s.LOD < 0 || s.LOD >= mesh.NumSupportedLODs {
		return fmt.Errorf("preview lod %d outside [0,%d)", s.LOD, mesh.NumSupportedLODs)
	}
	if s.Output == "" {
		return fmt.Errorf("preview output path is empty")
	}
	return nil
}

// TerrainGradient builds the gradient used for colored previews, low to high.
func TerrainGradient() (colorgrad.Gradient, error) {
	return colorgrad.NewGradient().
		Colors(
			color.RGBA{0x1d, 0x3f, 0x8f, 0xff},
			color.RGBA{0x3c, 0x8c, 0xd0, 0xff},
			color.RGBA{0xd8, 0xcf, 0x8a, 0xff},
			color.RGBA{0x4f, 0x9a, 0x3c, 0xff},
			color.RGBA{0x6b, 0x5a, 0x3e, 0xff},
			color.RGBA{0xf4, 0xf4, 0xf4, 0xff},
		).
		Build()
}

// HeightImage renders a height map with lo mapped to the first colour and hi to the last.
// Pixel (x, y) shows cell (x, y). A nil gradient renders grayscale.
func HeightImage(hm *heightmap.HeightMap, lo, hi float32, grad *colorgrad.Gradient) image.Image {
	n := hm.Width()
	span := hi - lo
	t := func(v float32) float64 {
		if span <= 0 {
			return 0
		}
		return float64(min(max((v-lo)/span, 0), 1))
	}

	if grad == nil {
		img := image.NewGray(image.Rect(0, 0, n, n))
		for x := range n {
			for y := range n {
				img.SetGray(x, y, color.Gray{Y: uint8(t(hm.At(x, y))*255 + 0.5)})
			}
		}
		return img
	}

	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for x := range n {
		for y := range n {
			img.Set(x, y, grad.At(t(hm.At(x, y))))
		}
	}
	return img
}

// FalloffImage renders a falloff mask in grayscale, white where terrain is fully attenuated.
func FalloffImage(m *falloff.Mask) image.Image {
	n := m.Size()
	img := image.NewGray(image.Rect(0, 0, n, n))
	for x := range n {
		for y := range n {
			img.SetGray(x, y, color.Gray{Y: uint8(m.At(x, y)*255 + 0.5)})
		}
	}
	return img
}

// Upscale enlarges img by an integer factor without smoothing.
func Upscale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
