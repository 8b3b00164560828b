// Package scratch implements the per-ray scratch arena: the typed working
// state threaded through the intersection -> shading -> integrator call
// chain. Nested shadow queries receive their own sub-arena instead of
// save/restoring a shared pointer.
package scratch

// NodeStackSize bounds the shader-node evaluation stack every Arena
// carries.
const NodeStackSize = 64

// Arena is the thread-local, per-ray working state threaded through
// intersection -> shading -> integrator calls. Renderer worker goroutines
// each own exactly one Arena; it is never shared across goroutines.
type Arena struct {
	// Time is the active motion sample time and Depth the current
	// recursion depth for this ray.
	Time  float32
	Depth int

	// NodeStack holds the results of shader-node DAG evaluation: node slot
	// i's RGB output lives at NodeStack[3*i : 3*i+3].
	NodeStack [NodeStackSize]float32

	// lobes caches a material's per-hit lobe weights computed by InitBSDF,
	// keyed by the material's registered scratch slot so unrelated
	// materials sharing one Arena never collide.
	lobes [maxMaterialSlots]MaterialState
}

// maxMaterialSlots bounds how many distinct concrete material scratch
// layouts a single renderer may register; materials are immutable and few, so a
// fixed small table is simpler than a dynamic allocator here.
const maxMaterialSlots = 32

// MaxMaterialSlots exports maxMaterialSlots for callers that hand out slots
// (scene.Scene.NextMaterialSlot) and need to stop handing out slots the
// arena could never hold rather than panicking on first render.
const MaxMaterialSlots = maxMaterialSlots

// MaterialState is the per-hit cached state a material's InitBSDF writes
// and Eval/Sample/Pdf read back. Concrete materials interpret Weights
// according to their own lobe layout.
type MaterialState struct {
	Valid   bool
	Flags   uint32
	Weights [4]float32
}

// New returns a fresh per-ray Arena for the given render time/depth.
func New(time float32, depth int) *Arena {
	return &Arena{Time: time, Depth: depth}
}

// Sub derives a nested scratch buffer for a shadow/reflection query spawned
// from this ray, bumping Depth and handing back an independent MaterialState
// table so the nested query can never clobber the caller's cached lobe
// weights (the explicit-parameter replacement for a save/restore of shared state).
func (a *Arena) Sub() *Arena {
	return &Arena{Time: a.Time, Depth: a.Depth + 1}
}

// MaterialSlot returns a pointer to the cached state for the given
// registration slot. Index must be < maxMaterialSlots; scene.Scene
// enforces this when it hands slots out at material-registration time.
func (a *Arena) MaterialSlot(slot int) *MaterialState {
	return &a.lobes[slot]
}
