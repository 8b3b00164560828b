// Package scene implements the arena-allocated scene container: primitives
// carry a MaterialID/ObjectID rather than pointers, and the scene owns the
// object and material tables those ids resolve against, so primitive,
// object, and material never hold cyclic references to one another.
package scene

import (
	"fmt"

	"github.com/mrigankad/raytracer-core/accel"
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/config"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/logging"
	"github.com/mrigankad/raytracer-core/material"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/registry"
	"github.com/mrigankad/raytracer-core/scratch"
)

// Scene owns the object and material tables and the primitive list built
// from them. It is mutable during the geometry-build bracket and immutable once
// Build constructs the accelerator.
type Scene struct {
	Objects   []*geometry.Object
	Materials []material.BSDF
	prims     []geometry.Primitive

	nextMaterialSlot int
	log              logging.Logger
}

// New returns an empty Scene that logs construction diagnostics through l
// (nil is accepted and treated as logging.Null).
func New(l logging.Logger) *Scene {
	if l == nil {
		l = logging.Null
	}
	return &Scene{log: l}
}

// AddObject registers obj, sets obj.ID to its index in the object table
// (overwriting any value the caller set), and returns that ObjectID.
func (s *Scene) AddObject(obj *geometry.Object) int {
	id := len(s.Objects)
	obj.ID = id
	s.Objects = append(s.Objects, obj)
	return id
}

// AddMaterial registers kind/params with registry.MaterialFactory and
// returns the resulting material's MaterialID, assigning it a fresh scratch
// arena slot.
func (s *Scene) AddMaterial(kind string, params config.ParamMap) int {
	mat := registry.MaterialFactory(s.log, kind, params, s.NextMaterialSlot())
	return s.AddMaterialInstance(mat)
}

// NextMaterialSlot reserves and returns the next scratch.Arena material
// slot. Callers constructing a material.BSDF directly (bypassing
// registry.MaterialFactory, e.g. sceneio's glTF import) must call this once
// per material so distinct materials sharing one render Arena never
// collide on cached lobe weights. Past scratch.MaxMaterialSlots the
// arena has nowhere left to cache lobe weights; rather than hand out a slot
// that would index out of range on first render, every further call keeps
// returning the last valid slot and logs a Warning once, so an
// over-populated scene degrades (several materials sharing one cache entry)
// instead of panicking.
func (s *Scene) NextMaterialSlot() int {
	if s.nextMaterialSlot >= scratch.MaxMaterialSlots {
		if s.nextMaterialSlot == scratch.MaxMaterialSlots {
			logging.Warnf(s.log, "scene: material count exceeds scratch.MaxMaterialSlots (%d), reusing last slot", scratch.MaxMaterialSlots)
			s.nextMaterialSlot++
		}
		return scratch.MaxMaterialSlots - 1
	}
	slot := s.nextMaterialSlot
	s.nextMaterialSlot++
	return slot
}

// AddMaterialInstance registers an already-constructed material (used by
// sceneio and tests that build a material.BSDF directly rather than through
// the string-keyed factory) and returns its MaterialID.
func (s *Scene) AddMaterialInstance(mat material.BSDF) int {
	id := len(s.Materials)
	s.Materials = append(s.Materials, mat)
	return id
}

// AddTriangle constructs a Triangle on obj and appends it to the scene's
// primitive list, unless it is degenerate, in which case it is silently
// skipped with a Verbose note.
func (s *Scene) AddTriangle(obj *geometry.Object, a, b, c uint32, uv [3]uint32, materialID int) {
	tri := geometry.NewTriangle(obj, a, b, c, uv, materialID)
	if tri.Degenerate() {
		logging.Verbosef(s.log, "scene: skipping degenerate triangle in object %d", obj.ID)
		return
	}
	s.AddPrimitive(tri)
}

// AddPrimitive appends an already-constructed primitive directly to the
// scene's flat primitive list, for callers that need to keep their own
// handle to it afterwards (e.g. the embedding API's add_face, which keeps
// the *geometry.Triangle around for a later smooth_mesh call).
func (s *Scene) AddPrimitive(p geometry.Primitive) {
	s.prims = append(s.prims, p)
}

// AddInstance wraps base in an Instance transformed by toWorld and appends
// it to the scene's primitive list.
func (s *Scene) AddInstance(base geometry.Primitive, toWorld raymath.Mat4) {
	s.AddPrimitive(geometry.NewInstance(base, toWorld))
}

// Primitives returns the scene's flat primitive list (triangles plus
// instances) accumulated so far.
func (s *Scene) Primitives() []geometry.Primitive { return s.prims }

// Material resolves a MaterialID to its BSDF, or nil if id is out of range
// (callers treat an unregistered material id as fully opaque black).
func (s *Scene) Material(id int) material.BSDF {
	if id < 0 || id >= len(s.Materials) {
		return nil
	}
	return s.Materials[id]
}

// TransparencyLookup returns the accel.MaterialLookup view of the scene's
// material table for transparent-shadow traversal. Each hit's material is
// initialized against the query's own arena before its transparency is
// read: the shadow query runs on a fresh sub-arena that never saw the
// caller's InitBSDF state.
func (s *Scene) TransparencyLookup() accel.MaterialLookup {
	return func(id int) accel.Transparent {
		m := s.Material(id)
		if m == nil {
			return nil
		}
		return initTransparent{m}
	}
}

type initTransparent struct {
	m material.BSDF
}

func (t initTransparent) GetTransparency(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB {
	t.m.InitBSDF(sp, arena)
	return t.m.GetTransparency(sp, wo, arena)
}

// Build constructs the accelerator over the scene's current primitive list
// using kind/params, post-geometry, immutable thereafter. An empty scene is a
// configuration error: rendering an empty scene is meaningless, so Build
// reports it rather than returning a degenerate empty tree silently.
func (s *Scene) Build(kind string, params config.ParamMap) (*accel.Tree, error) {
	if len(s.prims) == 0 {
		err := fmt.Errorf("scene: cannot build accelerator over zero primitives")
		logging.Errorf(s.log, "%v", err)
		return nil, err
	}
	return registry.AcceleratorFactory(s.log, kind, s.prims, params), nil
}
