package accel

import (
	"sort"

	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
)

// Build constructs a k-d tree over prims using the SAH cost-driven split
// policy. Degenerate primitives are never filtered here; callers
// (scene construction) are expected to have skipped zero-area triangles per
// the error/edge policy before reaching Build.
func Build(prims []geometry.Primitive, params Params) *Tree {
	bounds := raymath.EmptyBBox()
	indices := make([]int, len(prims))
	for i, p := range prims {
		indices[i] = i
		bounds = bounds.Union(p.BoundingBox())
	}
	root := buildNode(prims, indices, bounds, 0, params)
	return &Tree{root: root, prims: prims, bounds: bounds, params: params}
}

type sahEvent struct {
	pos      float32
	starting bool
}

// buildNode recursively partitions indices, choosing the minimum-SAH split
// candidate among primitive bounding-box edges on each axis. Ties
// break by axis order X<Y<Z then by lower split position, which falls out
// naturally here because axes are tried in order and a later axis only
// replaces the best candidate on a strict improvement.
func buildNode(prims []geometry.Primitive, indices []int, bounds raymath.BBox, depth int, params Params) *node {
	n := len(indices)
	if depth >= params.MaxDepth || n <= params.LeafSize {
		return &node{leaf: true, prims: indices}
	}

	bestAxis, bestSplit, ok := chooseSplit(prims, indices, bounds, params)
	if !ok {
		return &node{leaf: true, prims: indices}
	}

	leftBox, rightBox := splitBBox(bounds, bestAxis, bestSplit)
	var left, right []int
	for _, idx := range indices {
		lo, hi := prims[idx].BoundingBox().Axis(int(bestAxis))
		switch {
		case hi <= bestSplit:
			left = append(left, idx)
		case lo >= bestSplit:
			right = append(right, idx)
		default:
			left = append(left, idx)
			right = append(right, idx)
		}
	}

	// A split that fails to separate anything (every primitive straddles,
	// usually because all bounding boxes coincide) degrades to a leaf
	// rather than recursing forever.
	if len(left) == n || len(right) == n {
		return &node{leaf: true, prims: indices}
	}

	return &node{
		axis:  bestAxis,
		split: bestSplit,
		left:  buildNode(prims, left, leftBox, depth+1, params),
		right: buildNode(prims, right, rightBox, depth+1, params),
	}
}

// chooseSplit enumerates candidate planes at primitive bounding-box edges
// on each axis and returns the minimum-SAH candidate, or ok=false when no
// split improves over the leaf cost C_isec*N. Shared by the
// sequential and parallel builders so both produce identical split
// decisions given the same (prims, indices, bounds).
func chooseSplit(prims []geometry.Primitive, indices []int, bounds raymath.BBox, params Params) (axis Axis, split float32, ok bool) {
	n := len(indices)
	leafCost := params.CostIntersection * float32(n)
	parentArea := bounds.SurfaceArea()

	bestCost := leafCost
	bestAxis := Axis(-1)
	var bestSplit float32

	for a := AxisX; a <= AxisZ; a++ {
		axisLo, axisHi := bounds.Axis(int(a))
		if axisHi <= axisLo || parentArea <= 0 {
			continue
		}

		events := make([]sahEvent, 0, 2*n)
		for _, idx := range indices {
			lo, hi := prims[idx].BoundingBox().Axis(int(a))
			events = append(events, sahEvent{lo, true}, sahEvent{hi, false})
		}
		sort.Slice(events, func(i, j int) bool {
			if events[i].pos != events[j].pos {
				return events[i].pos < events[j].pos
			}
			// Process end events before start events at the same position
			// so a primitive exactly touching a candidate plane is not
			// double-counted as straddling it.
			return !events[i].starting && events[j].starting
		})

		nl, nr := 0, n
		i := 0
		for i < len(events) {
			pos := events[i].pos
			startsHere, endsHere := 0, 0
			j := i
			for j < len(events) && events[j].pos == pos {
				if events[j].starting {
					startsHere++
				} else {
					endsHere++
				}
				j++
			}
			nr -= endsHere

			if pos > axisLo && pos < axisHi {
				leftBox, rightBox := splitBBox(bounds, a, pos)
				pL := leftBox.SurfaceArea() / parentArea
				pR := rightBox.SurfaceArea() / parentArea
				empty := nl == 0 || nr == 0
				cost := sahCost(params, pL, pR, nl, nr, empty)
				if cost < bestCost {
					bestCost = cost
					bestAxis = a
					bestSplit = pos
				}
			}

			nl += startsHere
			i = j
		}
	}

	if bestAxis < 0 {
		return 0, 0, false
	}
	return bestAxis, bestSplit, true
}

func sahCost(params Params, pL, pR float32, nl, nr int, emptySide bool) float32 {
	cost := params.CostTraversal + params.CostIntersection*(pL*float32(nl)+pR*float32(nr))
	if emptySide {
		cost *= 1 - params.EmptyBonus
	}
	return cost
}

func splitBBox(b raymath.BBox, axis Axis, pos float32) (left, right raymath.BBox) {
	left, right = b, b
	switch axis {
	case AxisX:
		left.Max.X, right.Min.X = pos, pos
	case AxisY:
		left.Max.Y, right.Min.Y = pos, pos
	default:
		left.Max.Z, right.Min.Z = pos, pos
	}
	return left, right
}
