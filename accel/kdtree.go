// Package accel implements the k-d tree spatial accelerator over scene
// primitives: SAH-driven construction and the three traversal modes the
// shading kernel relies on — closest hit, any-hit shadow, and transparent
// shadow with per-hit filter accumulation.
package accel

import (
	"github.com/mrigankad/raytracer-core/config"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
)

// Params bundles the k-d tree construction parameters read from a ParamMap.
type Params struct {
	MaxDepth         int
	LeafSize         int
	CostTraversal    float32
	CostIntersection float32
	EmptyBonus       float32
}

// DefaultParams are common SAH kd-tree defaults.
func DefaultParams() Params {
	return Params{
		MaxDepth:         24,
		LeafSize:         2,
		CostTraversal:    1.0,
		CostIntersection: 1.5,
		EmptyBonus:       0.2,
	}
}

// ParamsFromMap reads Params out of a ParamMap, falling back to
// DefaultParams for any missing key.
func ParamsFromMap(p config.ParamMap) Params {
	d := DefaultParams()
	return Params{
		MaxDepth:         p.IntOrDefault("max_depth", d.MaxDepth),
		LeafSize:         p.IntOrDefault("leaf_size", d.LeafSize),
		CostTraversal:    p.FloatOrDefault("cost_traversal", d.CostTraversal),
		CostIntersection: p.FloatOrDefault("cost_intersection", d.CostIntersection),
		EmptyBonus:       p.FloatOrDefault("empty_bonus", d.EmptyBonus),
	}
}

// Hit aliases geometry.Hit so traversal signatures in this package read
// without a qualifier; callers on either side of the package boundary can
// use accel.Hit and geometry.Hit interchangeably.
type Hit = geometry.Hit

// Axis identifies a split axis; ties in SAH cost break X < Y < Z.
type Axis int8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// node is either an internal split node or a leaf holding primitive indices
// into the tree's Prims slice. Trees are immutable after Build.
type node struct {
	// Internal node fields (leaf == false).
	axis  Axis
	split float32
	left  *node
	right *node

	// Leaf fields (leaf == true).
	leaf  bool
	prims []int
}

// Tree is an immutable k-d tree over non-owning primitive references.
type Tree struct {
	root   *node
	prims  []geometry.Primitive
	bounds raymath.BBox
	params Params
}

// Bounds returns the root bounding box the tree was built over.
func (t *Tree) Bounds() raymath.BBox { return t.bounds }

// Primitives returns the tree's backing primitive slice (read-only use by
// callers that need to resolve an index from a leaf, e.g. coverage tests).
func (t *Tree) Primitives() []geometry.Primitive { return t.prims }
