package material

import (
	"math"
	"testing"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/scratch"
)

func TestNodeGraphEvaluationOrder(t *testing.T) {
	g := NewNodeGraph(2, -1,
		&ValueNode{Slot: 0, Value: color.RGB{R: 1}},
		&ValueNode{Slot: 1, Value: color.RGB{B: 1}},
		&MixNode{Slot: 2, A: 0, B: 1, Factor: 0.5},
	)

	arena := scratch.New(0, 0)
	g.EvalViewIndependent(arena)

	c, ok := g.DiffuseColor(arena)
	if !ok {
		t.Fatalf("expected a configured diffuse slot")
	}
	if math.Abs(float64(c.R-0.5)) > 1e-6 || math.Abs(float64(c.B-0.5)) > 1e-6 {
		t.Errorf("expected a 50/50 red/blue mix, got %v", c)
	}
}

func TestNodeGraphViewIndependentPrefix(t *testing.T) {
	g := NewNodeGraph(1, -1,
		&ValueNode{Slot: 0, Value: color.White, ViewDep: true},
		&ValueNode{Slot: 1, Value: color.RGB{G: 1}},
	)

	arena := scratch.New(0, 0)
	g.EvalViewIndependent(arena)

	// The view-dependent node must not have run yet.
	if arena.NodeStack[0] != 0 {
		t.Errorf("expected the view-dependent node to be deferred, slot 0 = %v", arena.NodeStack[0])
	}
	if c, _ := g.DiffuseColor(arena); c.G != 1 {
		t.Errorf("expected the view-independent prefix to have run, got %v", c)
	}

	g.EvalViewDependent(arena)
	if arena.NodeStack[0] != 1 {
		t.Errorf("expected the view-dependent suffix to run on demand, slot 0 = %v", arena.NodeStack[0])
	}
}

func TestShinyDiffuseReadsGraphDiffuseColor(t *testing.T) {
	mat := &ShinyDiffuse{
		DiffuseColor:    color.RGB{R: 1}, // overridden by the graph
		DiffuseStrength: 1,
		Slot:            0,
		Graph:           NewNodeGraph(0, -1, &ValueNode{Slot: 0, Value: color.RGB{G: 0.5}}),
	}

	sp := flatSurfacePoint()
	arena := scratch.New(0, 0)
	mat.InitBSDF(sp, arena)

	wo := raymath.Vec3{Z: 1}
	wi := raymath.Vec3{X: 0.3, Y: 0.1, Z: 1}.Normalize()
	f := mat.Eval(sp, wo, wi, DiffuseReflect, arena)
	if f.R != 0 {
		t.Errorf("expected the graph to override the flat diffuse colour, got %v", f)
	}
	if f.G <= 0 {
		t.Errorf("expected the graph's green output to shade, got %v", f)
	}
}
