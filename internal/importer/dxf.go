package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// FloorImportResult holds the floor footprint read from a drawing.
type FloorImportResult struct {
	Bounds   *model.Rect // Nil when no usable shape was found
	Shapes   int         // Closed shapes found in the drawing
	Errors   []string
	Warnings []string
}

// edge is a straight or circular piece of a floor outline. Drawing Y maps to
// floor Z. Only its endpoints and extent matter: the floor is a bounding box.
type edge struct {
	from, to model.Point2D
	extent   model.Rect
}

func lineEdge(a, b model.Point2D) edge {
	return edge{from: a, to: b, extent: pointRect(a).grow(b).Rect}
}

// arcEdge builds an edge along a circle from angle start, sweeping sweep
// radians (counter-clockwise when positive).
func arcEdge(center model.Point2D, r, start, sweep float64) edge {
	at := func(a float64) model.Point2D {
		return model.Point2D{X: center.X + r*math.Cos(a), Z: center.Z + r*math.Sin(a)}
	}
	from, to := at(start), at(start+sweep)
	lo, hi := start, start+sweep
	if sweep < 0 {
		lo, hi = hi, lo
	}
	ext := pointRect(from).grow(to)
	// Add every axis crossing inside the sweep.
	for k := math.Ceil(lo / (math.Pi / 2)); k*math.Pi/2 <= hi; k++ {
		ext = ext.grow(at(k * math.Pi / 2))
	}
	return edge{from: from, to: to, extent: ext.Rect}
}

// extent accumulates a bounding box.
type extent struct{ model.Rect }

func pointRect(p model.Point2D) extent {
	return extent{model.Rect{MinX: p.X, MaxX: p.X, MinZ: p.Z, MaxZ: p.Z}}
}

func (e extent) grow(p model.Point2D) extent {
	e.MinX = math.Min(e.MinX, p.X)
	e.MaxX = math.Max(e.MaxX, p.X)
	e.MinZ = math.Min(e.MinZ, p.Z)
	e.MaxZ = math.Max(e.MaxZ, p.Z)
	return e
}

func (e extent) union(r model.Rect) extent {
	return e.grow(model.Point2D{X: r.MinX, Z: r.MinZ}).grow(model.Point2D{X: r.MaxX, Z: r.MaxZ})
}

// polylineEdges turns LWPOLYLINE vertices into a closed ring of edges. A
// non-zero bulge on a vertex makes the edge to the next vertex an arc whose
// included angle is 4·atan(bulge).
func polylineEdges(vertices [][]float64, bulges []float64) []edge {
	n := len(vertices)
	edges := make([]edge, 0, n)
	for i := 0; i < n; i++ {
		a := model.Point2D{X: vertices[i][0], Z: vertices[i][1]}
		b := model.Point2D{X: vertices[(i+1)%n][0], Z: vertices[(i+1)%n][1]}
		bulge := 0.0
		if i < len(bulges) {
			bulge = bulges[i]
		}
		chord := math.Hypot(b.X-a.X, b.Z-a.Z)
		if math.Abs(bulge) < 1e-9 || chord < 1e-9 {
			edges = append(edges, lineEdge(a, b))
			continue
		}
		theta := 4 * math.Atan(bulge)
		// Center sits on the chord's left normal for counter-clockwise arcs.
		d := chord / 2 / math.Tan(theta/2)
		nx, nz := -(b.Z-a.Z)/chord, (b.X-a.X)/chord
		center := model.Point2D{X: (a.X+b.X)/2 + nx*d, Z: (a.Z+b.Z)/2 + nz*d}
		r := math.Hypot(a.X-center.X, a.Z-center.Z)
		start := math.Atan2(a.Z-center.Z, a.X-center.X)
		arc := arcEdge(center, r, start, theta)
		arc.from, arc.to = a, b
		edges = append(edges, arc)
	}
	return edges
}

// closedLoops groups loose edges by shared endpoints and returns the extent of
// every group that forms a closed loop, i.e. each endpoint joins exactly two
// edge ends. tolerance is the distance under which endpoints are joined.
func closedLoops(edges []edge, tolerance float64) []model.Rect {
	var nodes []model.Point2D
	nodeOf := func(p model.Point2D) int {
		for i, q := range nodes {
			if math.Hypot(p.X-q.X, p.Z-q.Z) <= tolerance {
				return i
			}
		}
		nodes = append(nodes, p)
		return len(nodes) - 1
	}

	ends := make([][2]int, len(edges))
	for i, e := range edges {
		ends[i] = [2]int{nodeOf(e.from), nodeOf(e.to)}
	}

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	degree := make([]int, len(nodes))
	for _, e := range ends {
		degree[e[0]]++
		degree[e[1]]++
		parent[find(e[0])] = find(e[1])
	}

	open := make(map[int]bool)
	for n, d := range degree {
		if d != 2 {
			open[find(n)] = true
		}
	}

	loops := make(map[int]extent)
	var order []int
	for i, e := range edges {
		root := find(ends[i][0])
		if open[root] {
			continue
		}
		ext, seen := loops[root]
		if !seen {
			order = append(order, root)
			ext = extent{e.extent}
		}
		loops[root] = ext.union(e.extent)
	}

	out := make([]model.Rect, 0, len(order))
	for _, root := range order {
		out = append(out, loops[root].Rect)
	}
	return out
}

// ImportFloorDXF reads a floor footprint from a DXF drawing. The closed shape
// with the largest extent (LWPOLYLINE, CIRCLE, or a loop of LINEs and ARCs)
// becomes the floor bounds. Drawing units are multiplied by unitScale, e.g.
// 0.001 for millimeter drawings.
func ImportFloorDXF(path string, unitScale float64) FloorImportResult {
	result := FloorImportResult{}
	if unitScale <= 0 {
		unitScale = 1
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []model.Rect
	var loose []edge
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			edges := polylineEdges(e.Vertices, e.Bulges)
			ext := extent{edges[0].extent}
			for _, ed := range edges[1:] {
				ext = ext.union(ed.extent)
			}
			shapes = append(shapes, ext.Rect)

		case *entity.Circle:
			c, r := e.Center, e.Radius
			shapes = append(shapes, model.Rect{MinX: c[0] - r, MaxX: c[0] + r, MinZ: c[1] - r, MaxZ: c[1] + r})

		case *entity.Arc:
			start := e.Angle[0] * math.Pi / 180
			sweep := e.Angle[1]*math.Pi/180 - start
			if sweep <= 0 {
				sweep += 2 * math.Pi
			}
			center := model.Point2D{X: e.Circle.Center[0], Z: e.Circle.Center[1]}
			loose = append(loose, arcEdge(center, e.Circle.Radius, start, sweep))

		case *entity.Line:
			loose = append(loose, lineEdge(
				model.Point2D{X: e.Start[0], Z: e.Start[1]},
				model.Point2D{X: e.End[0], Z: e.End[1]},
			))
		}
	}

	shapes = append(shapes, closedLoops(loose, 0.01)...)
	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].Area() > shapes[j].Area()
	})
	result.Shapes = len(shapes)
	if len(shapes) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d closed shapes, using the largest as the floor outline", len(shapes)))
	}

	bb := shapes[0]
	bounds := model.Rect{
		MinX: bb.MinX * unitScale,
		MaxX: bb.MaxX * unitScale,
		MinZ: bb.MinZ * unitScale,
		MaxZ: bb.MaxZ * unitScale,
	}
	if bounds.Width() <= 0 || bounds.Length() <= 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Floor outline is degenerate (%.3f x %.3f)", bounds.Width(), bounds.Length()))
		return result
	}
	result.Bounds = &bounds
	return result
}
