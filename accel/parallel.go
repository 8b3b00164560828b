package accel

import (
	"runtime"
	"sync"

	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
)

// topLevels bounds how many levels the parallel builder partitions
// sequentially before handing subtrees to the worker pool. Beyond this depth
// subtrees are typically small enough that dispatch overhead would dominate
// actual SAH work.
const topLevels = 4

// BuildParallel builds the same tree as Build but forks subtree
// construction below depth topLevels onto a fixed worker pool sized to
// runtime.NumCPU (or workers, if positive). It must produce a tree with
// identical leaf contents, modulo intra-leaf primitive order, to the
// sequential builder given the same inputs — the split selection
// logic is shared verbatim with Build via buildNode/buildNodeParallel; only
// the dispatch of independent subtrees changes.
func BuildParallel(prims []geometry.Primitive, params Params, workers int) *Tree {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	bounds := raymath.EmptyBBox()
	indices := make([]int, len(prims))
	for i, p := range prims {
		indices[i] = i
		bounds = bounds.Union(p.BoundingBox())
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	root := buildNodeParallel(prims, indices, bounds, 0, params, sem, &wg)
	wg.Wait()
	return &Tree{root: root, prims: prims, bounds: bounds, params: params}
}

// buildNodeParallel shares chooseSplit with the sequential builder so both
// make identical split decisions given the same inputs, and delegates to
// buildNode once a subtree drops below topLevels or a leaf condition is
// reached. Subtree construction above that depth is forked onto goroutines
// guarded by sem, joined via wg before the caller observes the result
// through the returned *node's children — each child's fields are written
// by its own goroutine before wg.Done, and the parent only reads them after
// wg.Wait, so there is no data race on the shared node despite the fields
// being unsynchronized.
func buildNodeParallel(prims []geometry.Primitive, indices []int, bounds raymath.BBox, depth int, params Params, sem chan struct{}, wg *sync.WaitGroup) *node {
	n := len(indices)
	if depth >= params.MaxDepth || n <= params.LeafSize {
		return &node{leaf: true, prims: indices}
	}
	if depth >= topLevels {
		return buildNode(prims, indices, bounds, depth, params)
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
	if len(left) == n || len(right) == n {
		return &node{leaf: true, prims: indices}
	}

	result := &node{axis: bestAxis, split: bestSplit}

	wg.Add(1)
	go func() {
		defer wg.Done()
		sem <- struct{}{}
		defer func() { <-sem }()
		result.left = buildNodeParallel(prims, left, leftBox, depth+1, params, sem, wg)
	}()

	result.right = buildNodeParallel(prims, right, rightBox, depth+1, params, sem, wg)

	return result
}
