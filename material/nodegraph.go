package material

import (
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/scratch"
)

// node is one entry of a NodeGraph's topologically-sorted evaluation
// order. Every node funnels its output through the shared scratch node
// stack rather than returning a value directly.
type node interface {
	eval(arena *scratch.Arena)
	viewDependent() bool
	slot() int
}

// colorSlots bounds how many scratch.NodeStack floats one node's colour
// output occupies (R,G,B packed consecutively starting at slot*colorSlots).
const colorSlots = 3

func writeColor(arena *scratch.Arena, slot int, c color.RGB) {
	base := slot * colorSlots
	arena.NodeStack[base] = c.R
	arena.NodeStack[base+1] = c.G
	arena.NodeStack[base+2] = c.B
}

func readColor(arena *scratch.Arena, slot int) color.RGB {
	base := slot * colorSlots
	return color.RGB{R: arena.NodeStack[base], G: arena.NodeStack[base+1], B: arena.NodeStack[base+2]}
}

// ValueNode is a leaf node producing a constant colour — the stand-in for a
// texture lookup or a flat parameter value.
type ValueNode struct {
	Slot  int
	Value color.RGB
	// ViewDep marks this node as needing per-query (not per-hit) evaluation.
	ViewDep bool
}

func (v *ValueNode) eval(arena *scratch.Arena) { writeColor(arena, v.Slot, v.Value) }
func (v *ValueNode) viewDependent() bool       { return v.ViewDep }
func (v *ValueNode) slot() int                 { return v.Slot }

// MixNode blends two upstream node outputs by Factor.
type MixNode struct {
	Slot    int
	A, B    int // upstream node slots, must be evaluated earlier in the graph
	Factor  float32
	ViewDep bool
}

func (m *MixNode) eval(arena *scratch.Arena) {
	a := readColor(arena, m.A)
	b := readColor(arena, m.B)
	writeColor(arena, m.Slot, a.Lerp(b, m.Factor))
}
func (m *MixNode) viewDependent() bool { return m.ViewDep }
func (m *MixNode) slot() int           { return m.Slot }

// NodeGraph is a small shader DAG, pre-sorted into a view-independent
// prefix (evaluated once in InitBSDF) and a view-dependent suffix
// (evaluated per eval/sample/pdf query). DiffuseSlot/MirrorSlot
// identify which node's output feeds the material's diffuse/mirror colour;
// -1 means the material's flat colour field is used instead.
type NodeGraph struct {
	Nodes       []node
	DiffuseSlot int
	MirrorSlot  int
}

// NewNodeGraph orders nodes view-independent first, then view-dependent,
// keeping the input order within each group. It does not sort by
// dependency: nodes must already list each node after its upstream
// dependencies, which is how every graph in this codebase constructs one.
func NewNodeGraph(diffuseSlot, mirrorSlot int, nodes ...node) *NodeGraph {
	sorted := make([]node, 0, len(nodes))
	sorted = append(sorted, nodes...)
	stableSortViewIndependentFirst(sorted)
	return &NodeGraph{Nodes: sorted, DiffuseSlot: diffuseSlot, MirrorSlot: mirrorSlot}
}

// stableSortViewIndependentFirst moves view-independent nodes ahead of
// view-dependent ones while preserving relative order within each group,
// so a dependency declared earlier in the input is still evaluated before
// its dependents of the same view-dependence class.
func stableSortViewIndependentFirst(nodes []node) {
	out := make([]node, 0, len(nodes))
	for _, n := range nodes {
		if !n.viewDependent() {
			out = append(out, n)
		}
	}
	for _, n := range nodes {
		if n.viewDependent() {
			out = append(out, n)
		}
	}
	copy(nodes, out)
}

// EvalViewIndependent runs the graph's view-independent prefix, called once
// from InitBSDF.
func (g *NodeGraph) EvalViewIndependent(arena *scratch.Arena) {
	for _, n := range g.Nodes {
		if !n.viewDependent() {
			n.eval(arena)
		}
	}
}

// EvalViewDependent runs the graph's view-dependent suffix; callers invoke
// this at query time before reading DiffuseColor/MirrorColor when the graph
// has any view-dependent nodes.
func (g *NodeGraph) EvalViewDependent(arena *scratch.Arena) {
	for _, n := range g.Nodes {
		if n.viewDependent() {
			n.eval(arena)
		}
	}
}

// DiffuseColor reads the graph's diffuse output, if configured.
func (g *NodeGraph) DiffuseColor(arena *scratch.Arena) (color.RGB, bool) {
	if g.DiffuseSlot < 0 {
		return color.RGB{}, false
	}
	return readColor(arena, g.DiffuseSlot), true
}

// MirrorColor reads the graph's mirror output, if configured.
func (g *NodeGraph) MirrorColor(arena *scratch.Arena) (color.RGB, bool) {
	if g.MirrorSlot < 0 {
		return color.RGB{}, false
	}
	return readColor(arena, g.MirrorSlot), true
}
