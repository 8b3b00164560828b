package accel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/scratch"
)

// randomTriangle builds a small, non-degenerate triangle with a random
// centroid inside [-extent, extent]^3, matching the scale of scenes the
// k-d-vs-brute-force property is meant to exercise.
func randomTriangle(rng *rand.Rand, id int, extent float32) *geometry.Triangle {
	obj := geometry.NewObject(id)
	cx := (rng.Float32()*2 - 1) * extent
	cy := (rng.Float32()*2 - 1) * extent
	cz := (rng.Float32()*2 - 1) * extent
	center := raymath.Vec3{X: cx, Y: cy, Z: cz}

	a := center.Add(raymath.Vec3{X: rng.Float32() - 0.5, Y: rng.Float32() - 0.5, Z: rng.Float32() - 0.5})
	b := center.Add(raymath.Vec3{X: rng.Float32() - 0.5, Y: rng.Float32() - 0.5, Z: rng.Float32() - 0.5})
	c := center.Add(raymath.Vec3{X: rng.Float32() - 0.5, Y: rng.Float32() - 0.5, Z: rng.Float32() - 0.5})
	obj.AddVertex(a)
	obj.AddVertex(b)
	obj.AddVertex(c)
	return geometry.NewTriangle(obj, 0, 1, 2, [3]uint32{}, id)
}

func buildRandomScene(n int, seed int64) []geometry.Primitive {
	rng := rand.New(rand.NewSource(seed))
	prims := make([]geometry.Primitive, 0, n)
	for i := 0; i < n; i++ {
		tri := randomTriangle(rng, i, 50)
		if tri.Degenerate() {
			continue
		}
		prims = append(prims, tri)
	}
	return prims
}

func bruteForceClosest(prims []geometry.Primitive, r raymath.Ray) (Hit, geometry.Primitive, bool) {
	cur := r
	var bestHit Hit
	var bestPrim geometry.Primitive
	found := false
	for _, p := range prims {
		if hit, ok := p.Intersect(cur); ok {
			bestHit = hit
			bestPrim = p
			found = true
			cur.TMax = hit.T
		}
	}
	return bestHit, bestPrim, found
}

func randomRayThroughScene(rng *rand.Rand, extent float32) raymath.Ray {
	origin := raymath.Vec3{
		X: (rng.Float32()*2 - 1) * extent * 2,
		Y: (rng.Float32()*2 - 1) * extent * 2,
		Z: (rng.Float32()*2 - 1) * extent * 2,
	}
	target := raymath.Vec3{
		X: (rng.Float32()*2 - 1) * extent,
		Y: (rng.Float32()*2 - 1) * extent,
		Z: (rng.Float32()*2 - 1) * extent,
	}
	dir := target.Sub(origin).Normalize()
	return raymath.Ray{Origin: origin, Direction: dir, TMax: raymath.Infinity}
}

// TestKdTreeMatchesBruteForce cross-checks traversal against a linear scan: for a
// 10k-triangle scene and 10^4 random rays, hit records agree exactly on
// primitive id and to 1e-5 on t.
func TestKdTreeMatchesBruteForce(t *testing.T) {
	prims := buildRandomScene(10000, 1)
	tree := Build(prims, DefaultParams())

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		r := randomRayThroughScene(rng, 50)

		treeHit, treePrim, treeOK := tree.IntersectClosest(r)
		bruteHit, brutePrim, bruteOK := bruteForceClosest(prims, r)

		if treeOK != bruteOK {
			t.Fatalf("ray %d: hit mismatch tree=%v brute=%v", i, treeOK, bruteOK)
		}
		if !treeOK {
			continue
		}
		if treePrim.ObjectID() != brutePrim.ObjectID() {
			t.Fatalf("ray %d: primitive id mismatch tree=%d brute=%d", i, treePrim.ObjectID(), brutePrim.ObjectID())
		}
		if math.Abs(float64(treeHit.T-bruteHit.T)) > 1e-5 {
			t.Fatalf("ray %d: t mismatch tree=%v brute=%v", i, treeHit.T, bruteHit.T)
		}
	}
}

// TestBuildParallelMatchesSequential checks the multi-threaded builder
// produces identical leaf contents (modulo intra-leaf order) to the
// sequential builder given the same inputs.
func TestBuildParallelMatchesSequential(t *testing.T) {
	prims := buildRandomScene(2000, 7)
	seq := Build(prims, DefaultParams())
	par := BuildParallel(prims, DefaultParams(), 4)

	seqLeaves := collectLeaves(seq.root)
	parLeaves := collectLeaves(par.root)

	if len(seqLeaves) != len(parLeaves) {
		t.Fatalf("leaf count mismatch: sequential=%d parallel=%d", len(seqLeaves), len(parLeaves))
	}
	for i := range seqLeaves {
		if !sameSet(seqLeaves[i], parLeaves[i]) {
			t.Fatalf("leaf %d contents mismatch: sequential=%v parallel=%v", i, seqLeaves[i], parLeaves[i])
		}
	}
}

func collectLeaves(n *node) [][]int {
	if n == nil {
		return nil
	}
	if n.leaf {
		return [][]int{n.prims}
	}
	return append(collectLeaves(n.left), collectLeaves(n.right)...)
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[int]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// floorPrimitive is a single axis-aligned quad (two implicit triangles
// collapsed to one for the test) used as an occluder for shadow-query tests.
func floorPrimitive() *geometry.Triangle {
	obj := geometry.NewObject(0)
	obj.AddVertex(raymath.Vec3{X: -10, Y: 0, Z: -10})
	obj.AddVertex(raymath.Vec3{X: 10, Y: 0, Z: -10})
	obj.AddVertex(raymath.Vec3{X: -10, Y: 0, Z: 10})
	return geometry.NewTriangle(obj, 0, 1, 2, [3]uint32{}, 0)
}

func TestIntersectAnyFindsOccluder(t *testing.T) {
	tree := Build([]geometry.Primitive{floorPrimitive()}, DefaultParams())

	r := raymath.Ray{
		Origin:    raymath.Vec3{X: -2, Y: 5, Z: -2},
		Direction: raymath.Vec3{X: 0, Y: -1, Z: 0},
		TMax:      10,
	}
	if !tree.IntersectAny(r, 1e-4) {
		t.Errorf("expected any-hit to find the floor occluder")
	}
}

func TestIntersectAnyRespectsShadowBias(t *testing.T) {
	tree := Build([]geometry.Primitive{floorPrimitive()}, DefaultParams())

	// A ray originating essentially on the floor, pointed straight up: with
	// the shadow bias applied the origin is pushed off the surface and
	// should not immediately re-intersect it.
	r := raymath.Ray{
		Origin:    raymath.Vec3{X: -2, Y: 0, Z: -2},
		Direction: raymath.Vec3{X: 0, Y: 1, Z: 0},
		TMax:      10,
	}
	if tree.IntersectAny(r, 1e-3) {
		t.Errorf("expected shadow bias to skip self-intersection with the origin surface")
	}
}

// stubGlassMaterial implements Transparent with a constant filter colour,
// standing in for shiny-diffuse's specular-transmit lobe in isolation.
type stubGlassMaterial struct {
	filter color.RGB
}

func (m stubGlassMaterial) GetTransparency(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB {
	return m.filter
}

// stackedPane returns a single triangle at the given z standing in for a
// glass pane.
func stackedPane(z float32) *geometry.Triangle {
	obj := geometry.NewObject(0)
	obj.AddVertex(raymath.Vec3{X: -5, Y: -5, Z: z})
	obj.AddVertex(raymath.Vec3{X: 5, Y: -5, Z: z})
	obj.AddVertex(raymath.Vec3{X: -5, Y: 5, Z: z})
	return geometry.NewTriangle(obj, 0, 1, 2, [3]uint32{}, 1)
}

// TestTransparentShadowThreeGlassPanes checks that three stacked glass panes
// (transparency=0.9 each) between camera and light produce a filter colour of
// 0.9^3 within 1e-4.
func TestTransparentShadowThreeGlassPanes(t *testing.T) {
	panes := []geometry.Primitive{stackedPane(2), stackedPane(4), stackedPane(6)}
	tree := Build(panes, DefaultParams())

	glass := stubGlassMaterial{filter: color.RGB{R: 0.9, G: 0.9, B: 0.9}}
	lookup := func(materialID int) Transparent { return glass }

	r := raymath.Ray{
		Origin:    raymath.Vec3{X: -2, Y: -2, Z: 0},
		Direction: raymath.Vec3{X: 0, Y: 0, Z: 1},
		TMax:      10,
	}

	arena := scratch.New(0, 0)
	filter, occluded := tree.IntersectTransparent(r, 1e-4, 8, lookup, arena)
	if occluded {
		t.Fatalf("expected all three panes to transmit, not occlude")
	}
	expected := float32(0.9 * 0.9 * 0.9)
	if math.Abs(float64(filter.R-expected)) > 1e-4 {
		t.Errorf("expected filter %v, got %v", expected, filter.R)
	}
}

func TestTransparentShadowOpaqueBlocks(t *testing.T) {
	tree := Build([]geometry.Primitive{floorPrimitive()}, DefaultParams())
	lookup := func(materialID int) Transparent { return nil }

	r := raymath.Ray{
		Origin:    raymath.Vec3{X: -2, Y: 5, Z: -2},
		Direction: raymath.Vec3{X: 0, Y: -1, Z: 0},
		TMax:      10,
	}
	arena := scratch.New(0, 0)
	_, occluded := tree.IntersectTransparent(r, 1e-4, 8, lookup, arena)
	if !occluded {
		t.Errorf("expected unregistered material to be treated as opaque")
	}
}

func TestDegenerateRayRangeMisses(t *testing.T) {
	tree := Build([]geometry.Primitive{floorPrimitive()}, DefaultParams())
	r := raymath.Ray{
		Origin:    raymath.Vec3{X: -2, Y: 5, Z: -2},
		Direction: raymath.Vec3{X: 0, Y: -1, Z: 0},
		TMin:      5,
		TMax:      1,
	}
	if _, _, ok := tree.IntersectClosest(r); ok {
		t.Errorf("expected t_min > t_max to report no hit")
	}
}
