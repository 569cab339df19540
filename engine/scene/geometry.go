package scene

import "github.com/go-gl/mathgl/mgl32"

// Vertex is the interleaved vertex layout shared by every mesh pipeline.
// Stride: 32 bytes.
type Vertex struct {
	Position [3]float32 // offset  0
	Normal   [3]float32 // offset 12
	UV       [2]float32 // offset 24
}

// GeometryKind tells intersection code which exact test applies.
type GeometryKind int

const (
	// GeometryMesh is an arbitrary indexed triangle list.
	GeometryMesh GeometryKind = iota
	// GeometryPlane is a Width x Height rectangle centered on the local XY plane, facing +Z.
	GeometryPlane
)

// Geometry is immutable vertex and index data. Renderers cache GPU buffers per geometry pointer.
type Geometry struct {
	Kind     GeometryKind
	Vertices []Vertex
	Indices  []uint32

	// Width and Height are the plane extent for GeometryPlane.
	Width, Height float32
}

// NewPlaneGeometry builds a single-quad plane of the given size centered on the origin.
//
// Parameters:
//   - width: extent along local X
//   - height: extent along local Y
//
// Returns:
//   - *Geometry: the plane geometry
func NewPlaneGeometry(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	n := [3]float32{0, 0, 1}
	return &Geometry{
		Kind: GeometryPlane,
		Vertices: []Vertex{
			{Position: [3]float32{-hw, hh, 0}, Normal: n, UV: [2]float32{0, 0}},
			{Position: [3]float32{hw, hh, 0}, Normal: n, UV: [2]float32{1, 0}},
			{Position: [3]float32{-hw, -hh, 0}, Normal: n, UV: [2]float32{0, 1}},
			{Position: [3]float32{hw, -hh, 0}, Normal: n, UV: [2]float32{1, 1}},
		},
		Indices: []uint32{0, 2, 1, 2, 3, 1},
		Width:   width,
		Height:  height,
	}
}

// NewBoxGeometry builds an axis-aligned box centered on the origin with per-face normals and UVs.
//
// Parameters:
//   - width, height, depth: extents along X, Y and Z
//
// Returns:
//   - *Geometry: the box geometry
func NewBoxGeometry(width, height, depth float32) *Geometry {
	hw, hh, hd := width/2, height/2, depth/2
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	half := mgl32.Vec3{hw, hh, hd}

	g := &Geometry{Kind: GeometryMesh}
	for _, f := range faces {
		base := uint32(len(g.Vertices))
		center := mgl32.Vec3{f.normal[0] * half[0], f.normal[1] * half[1], f.normal[2] * half[2]}
		du := mgl32.Vec3{f.u[0] * half[0], f.u[1] * half[1], f.u[2] * half[2]}
		dv := mgl32.Vec3{f.v[0] * half[0], f.v[1] * half[1], f.v[2] * half[2]}
		corners := [4]struct {
			p  mgl32.Vec3
			uv [2]float32
		}{
			{center.Sub(du).Add(dv), [2]float32{0, 0}},
			{center.Add(du).Add(dv), [2]float32{1, 0}},
			{center.Sub(du).Sub(dv), [2]float32{0, 1}},
			{center.Add(du).Sub(dv), [2]float32{1, 1}},
		}
		for _, c := range corners {
			g.Vertices = append(g.Vertices, Vertex{Position: c.p, Normal: f.normal, UV: c.uv})
		}
		g.Indices = append(g.Indices, base, base+2, base+1, base+2, base+3, base+1)
	}
	return g
}

// Triangle returns the three local-space corners of triangle i.
//
// Parameters:
//   - i: triangle index in [0, TriangleCount)
//
// Returns:
//   - a, b, c: the triangle corners
func (g *Geometry) Triangle(i int) (a, b, c mgl32.Vec3) {
	return g.Vertices[g.Indices[i*3]].Position,
		g.Vertices[g.Indices[i*3+1]].Position,
		g.Vertices[g.Indices[i*3+2]].Position
}

// TriangleCount returns the number of indexed triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}
