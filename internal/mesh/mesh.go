// Package mesh triangulates height grids into chunk meshes at a chosen level of detail.
package mesh

import (
	"landmass/internal/heightmap"

	"github.com/go-gl/mathgl/mgl32"
)

// Data is a finished chunk mesh in chunk-local space. Y is up; Z grows opposite to the grid's y index.
type Data struct {
	LOD       int
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Triangles []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (d *Data) TriangleCount() int { return len(d.Triangles) / 3 }

// builder accumulates mesh and border geometry. Border vertices carry negative indices
// (-1, -2, ...) and only take part in normal accumulation.
type builder struct {
	vertices       []mgl32.Vec3
	uvs            []mgl32.Vec2
	triangles      []uint32
	borderVertices []mgl32.Vec3
	borderTris     []int

	flatShading bool
}

func (b *builder) addVertex(pos mgl32.Vec3, uv mgl32.Vec2, index int) {
	if index < 0 {
		b.borderVertices[-index-1] = pos
		return
	}
	b.vertices[index] = pos
	b.uvs[index] = uv
}

func (b *builder) addTriangle(a, c, d int) {
	if a < 0 || c < 0 || d < 0 {
		b.borderTris = append(b.borderTris, a, c, d)
		return
	}
	b.triangles = append(b.triangles, uint32(a), uint32(c), uint32(d))
}

func (b *builder) position(i int) mgl32.Vec3 {
	if i < 0 {
		return b.borderVertices[-i-1]
	}
	return b.vertices[i]
}

func (b *builder) surfaceNormal(a, c, d int) mgl32.Vec3 {
	pa, pc, pd := b.position(a), b.position(c), b.position(d)
	return pc.Sub(pa).Cross(pd.Sub(pa)).Normalize()
}

func (b *builder) bakeNormals() []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(b.vertices))
	accumulate := func(tris func(i int) int, count int) {
		for t := 0; t < count; t++ {
			a, c, d := tris(3*t), tris(3*t+1), tris(3*t+2)
			n := b.surfaceNormal(a, c, d)
			for _, idx := range [3]int{a, c, d} {
				if idx >= 0 {
					normals[idx] = normals[idx].Add(n)
				}
			}
		}
	}
	accumulate(func(i int) int { return int(b.triangles[i]) }, len(b.triangles)/3)
	accumulate(func(i int) int { return b.borderTris[i] }, len(b.borderTris)/3)

	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	return normals
}

func (b *builder) flatShaded() *Data {
	d := &Data{
		Vertices:  make([]mgl32.Vec3, len(b.triangles)),
		Normals:   make([]mgl32.Vec3, len(b.triangles)),
		UVs:       make([]mgl32.Vec2, len(b.triangles)),
		Triangles: make([]uint32, len(b.triangles)),
	}
	for t := 0; t+2 < len(b.triangles); t += 3 {
		n := b.surfaceNormal(int(b.triangles[t]), int(b.triangles[t+1]), int(b.triangles[t+2]))
		for k := t; k < t+3; k++ {
			src := b.triangles[k]
			d.Vertices[k] = b.vertices[src]
			d.UVs[k] = b.uvs[src]
			d.Normals[k] = n
			d.Triangles[k] = uint32(k)
		}
	}
	return d
}

// Build triangulates a height map at the given LOD.
//
// The outermost ring of samples is a border: those vertices are positioned but never emitted,
// and the triangles touching them only contribute to the normals of the real edge vertices.
// Interior samples are taken every SkipIncrement(lod) cells.
func Build(hm *heightmap.HeightMap, s Settings, lod int) *Data {
	n := hm.Width()
	skip := SkipIncrement(lod)
	inner := n - 3

	// grid sample indices: border, every skip-th interior sample, border
	indices := make([]int, 0, inner/skip+3)
	indices = append(indices, 0)
	for i := 1; i <= n-2; i += skip {
		indices = append(indices, i)
	}
	if indices[len(indices)-1] != n-2 {
		indices = append(indices, n-2)
	}
	indices = append(indices, n-1)

	line := len(indices)
	meshLine := line - 2

	b := &builder{
		vertices:       make([]mgl32.Vec3, meshLine*meshLine),
		uvs:            make([]mgl32.Vec2, meshLine*meshLine),
		borderVertices: make([]mgl32.Vec3, line*line-meshLine*meshLine),
		triangles:      make([]uint32, 0, (meshLine-1)*(meshLine-1)*6),
		flatShading:    s.FlatShading,
	}

	vertexIndex := make([]int, line*line)
	meshCount, borderCount := 0, -1
	for gy := range line {
		for gx := range line {
			if gx == 0 || gy == 0 || gx == line-1 || gy == line-1 {
				vertexIndex[gy*line+gx] = borderCount
				borderCount--
			} else {
				vertexIndex[gy*line+gx] = meshCount
				meshCount++
			}
		}
	}

	half := float32(inner) / 2
	for gy := range line {
		for gx := range line {
			x, y := indices[gx], indices[gy]
			u := float32(x-1) / float32(inner)
			v := float32(y-1) / float32(inner)
			pos := mgl32.Vec3{
				(float32(x-1) - half) * s.Scale,
				hm.At(x, y),
				-(float32(y-1) - half) * s.Scale,
			}
			b.addVertex(pos, mgl32.Vec2{u, v}, vertexIndex[gy*line+gx])

			if gx < line-1 && gy < line-1 {
				a := vertexIndex[gy*line+gx]
				bb := vertexIndex[gy*line+gx+1]
				c := vertexIndex[(gy+1)*line+gx]
				d := vertexIndex[(gy+1)*line+gx+1]
				b.addTriangle(a, d, c)
				b.addTriangle(d, a, bb)
			}
		}
	}

	if b.flatShading {
		out := b.flatShaded()
		out.LOD = lod
		return out
	}
	return &Data{
		LOD:       lod,
		Vertices:  b.vertices,
		Normals:   b.bakeNormals(),
		UVs:       b.uvs,
		Triangles: b.triangles,
	}
}
