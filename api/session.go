// Package api implements the embedding facade: a flat, stateful Go API
// mirroring a scene-construction/render session. CreateScene opens it, a
// geometry bracket (StartGeometry/CreateObject/.../EndObject/EndGeometry)
// populates it, SetupRender/Render drive the built accelerator through a
// minimal direct-lighting stand-in integrator over the render package's
// tile worker pool, and Cancel stops an in-flight render. Session state
// accumulates across calls until a terminal action consumes it.
package api

import (
	"github.com/mrigankad/raytracer-core/accel"
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/logging"
	"github.com/mrigankad/raytracer-core/material"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/registry"
	"github.com/mrigankad/raytracer-core/render"
	"github.com/mrigankad/raytracer-core/scene"
)

// namedObject tracks one in-progress or finished geometry-bracket object:
// its vertex pool plus the triangles built against it, kept around after
// EndObject so a later smooth_mesh or add_instance call can still find it
// by name.
type namedObject struct {
	obj        *geometry.Object
	faces      []*geometry.Triangle
	materialID int
}

// camera is the minimal pinhole camera this facade's stand-in integrator
// drives the accelerator with. Full camera models (orthographic, thin-lens,
// fisheye) are an external collaborator this facade does not attempt.
type camera struct {
	eye, lookAt, up raymath.Vec3
	fovDeg          float32
}

// Session is the embedding API's single mutable unit of state. The
// zero value is not usable; construct one with CreateScene.
type Session struct {
	log logging.Logger

	scn      *Scene
	renderer *render.Renderer
}

// Scene is the scene half of Session's state, split out so ClearAll can
// swap it wholesale. The render settings (image size, samples, workers,
// tile size, seed, accelerator kind, camera) live here too and are reset
// with it; only the logger and the renderer stay on Session.
type Scene struct {
	inner *scene.Scene

	geometryOpen bool
	active       *namedObject
	activeName   string
	objects      map[string]*namedObject
	materials    map[string]int
	textures     map[string]color.RGB

	cam        camera
	haveCamera bool
	lightDir   raymath.Vec3
	lightColor color.RGB
	background color.RGB

	accelKind string
	tree      *accel.Tree

	width, height, spp, workers, tileSize int
	seed                                  uint64
}

// CreateScene opens a new Session backed by an empty scene. A nil log is
// treated as logging.Null.
func CreateScene(log logging.Logger) *Session {
	if log == nil {
		log = logging.Null
	}
	s := &Session{log: log}
	s.scn = newScene(log)
	return s
}

func newScene(log logging.Logger) *Scene {
	return &Scene{
		inner:      scene.New(log),
		objects:    make(map[string]*namedObject),
		materials:  make(map[string]int),
		textures:   make(map[string]color.RGB),
		lightDir:   raymath.Vec3{X: -1, Y: -1, Z: -1}.Normalize(),
		lightColor: color.White,
		background: color.Black,
		accelKind:  registry.AccelKDTree,
		width:      320,
		height:     240,
		spp:        1,
		tileSize:   32,
		seed:       1,
	}
}

// ClearAll discards the scene entirely, returning the Session to the state
// CreateScene left it in.
func (s *Session) ClearAll() {
	s.scn = newScene(s.log)
}

// StartGeometry opens the geometry-build bracket.
// Calling it twice without an intervening EndGeometry is an error.
func (s *Session) StartGeometry() bool {
	if s.scn.geometryOpen {
		logging.Errorf(s.log, "api: start_geometry called while already open")
		return false
	}
	s.scn.geometryOpen = true
	return true
}

// EndGeometry closes the geometry-build bracket. Calling
// it with an object still open (no matching EndObject) is an error.
func (s *Session) EndGeometry() bool {
	if !s.scn.geometryOpen {
		logging.Errorf(s.log, "api: end_geometry called without start_geometry")
		return false
	}
	if s.scn.active != nil {
		logging.Errorf(s.log, "api: end_geometry called with object %q still open", s.scn.activeName)
		return false
	}
	s.scn.geometryOpen = false
	return true
}

// CreateObject opens one named object within the geometry bracket. The recognized
// parameter is "material", the name of a material already registered with
// CreateMaterial; an unset or unknown name resolves to -1.
func (s *Session) CreateObject(name string, params *ParamBuilder) bool {
	if !s.scn.geometryOpen {
		logging.Errorf(s.log, "api: create_object(%q) outside a start_geometry/end_geometry bracket", name)
		return false
	}
	if s.scn.active != nil {
		logging.Errorf(s.log, "api: create_object(%q) while %q still open", name, s.scn.activeName)
		return false
	}

	p := params.take()
	matID := -1
	if matName, ok := p.GetString("material"); ok {
		if id, ok := s.scn.materials[matName]; ok {
			matID = id
		} else {
			logging.Warnf(s.log, "api: create_object(%q): unknown material %q, leaving unassigned", name, matName)
		}
	}

	no := &namedObject{obj: geometry.NewObject(0), materialID: matID}
	s.scn.active = no
	s.scn.activeName = name
	s.scn.objects[name] = no
	return true
}

// AddVertex appends a position to the active object's vertex pool and
// returns its index, or -1 if no object is open.
func (s *Session) AddVertex(x, y, z float32) int {
	if s.scn.active == nil {
		logging.Errorf(s.log, "api: add_vertex called with no object open")
		return -1
	}
	return s.scn.active.obj.AddVertex(raymath.Vec3{X: x, Y: y, Z: z})
}

// AddNormal appends a per-vertex normal override to the active object,
// returning its index or -1 if no object is open.
func (s *Session) AddNormal(x, y, z float32) int {
	if s.scn.active == nil {
		logging.Errorf(s.log, "api: add_normal called with no object open")
		return -1
	}
	return s.scn.active.obj.AddNormal(raymath.Vec3{X: x, Y: y, Z: z})
}

// AddUV appends a texture coordinate to the active object, returning its
// index or -1 if no object is open.
func (s *Session) AddUV(u, v float32) int {
	if s.scn.active == nil {
		logging.Errorf(s.log, "api: add_uv called with no object open")
		return -1
	}
	return s.scn.active.obj.AddUV(u, v)
}

// AddFace builds a triangle from three already-added vertex indices on the
// active object, using the object's CreateObject-time material. A degenerate
// face is silently skipped, matching the scene package's own
// degenerate-triangle policy, and still reports success since skipping a
// zero-area face is not itself a caller error.
func (s *Session) AddFace(a, b, c uint32) bool {
	return s.addFace(a, b, c, [3]uint32{a, b, c})
}

// AddFaceUV is AddFace with explicit UV indices, for meshes whose texture
// seams reuse positions under different texture coordinates.
func (s *Session) AddFaceUV(a, b, c, uvA, uvB, uvC uint32) bool {
	return s.addFace(a, b, c, [3]uint32{uvA, uvB, uvC})
}

func (s *Session) addFace(a, b, c uint32, uv [3]uint32) bool {
	if s.scn.active == nil {
		logging.Errorf(s.log, "api: add_face called with no object open")
		return false
	}
	tri := geometry.NewTriangle(s.scn.active.obj, a, b, c, uv, s.scn.active.materialID)
	if tri.Degenerate() {
		logging.Verbosef(s.log, "api: skipping degenerate face in object %q", s.scn.activeName)
		return true
	}
	s.scn.inner.AddPrimitive(tri)
	s.scn.active.faces = append(s.scn.active.faces, tri)
	return true
}

// SmoothMesh recomputes name's per-vertex normals by averaging its faces'
// normals within angleDeg of each other, via
// geometry.SmoothMesh. It can be called any time after the named object's
// faces exist, typically just before EndObject.
func (s *Session) SmoothMesh(name string, angleDeg float32) bool {
	no, ok := s.scn.objects[name]
	if !ok {
		logging.Warnf(s.log, "api: smooth_mesh(%q): unknown object", name)
		return false
	}
	geometry.SmoothMesh(no.obj, no.faces, angleDeg)
	no.obj.SmoothGroup = true
	return true
}

// EndObject closes the currently open object, registering it with the
// scene.
func (s *Session) EndObject() bool {
	if s.scn.active == nil {
		logging.Errorf(s.log, "api: end_object called with no object open")
		return false
	}
	s.scn.inner.AddObject(s.scn.active.obj)
	s.scn.active = nil
	s.scn.activeName = ""
	return true
}

// AddInstance wraps a previously finished named object's faces in a new
// Instance transformed by toWorld. The object must
// already have been closed with EndObject and must have at least one face.
func (s *Session) AddInstance(name string, toWorld raymath.Mat4) bool {
	no, ok := s.scn.objects[name]
	if !ok {
		logging.Errorf(s.log, "api: add_instance(%q): unknown object", name)
		return false
	}
	if len(no.faces) == 0 {
		logging.Warnf(s.log, "api: add_instance(%q): object has no faces", name)
		return false
	}
	for _, tri := range no.faces {
		s.scn.inner.AddInstance(tri, toWorld)
	}
	return true
}

// CreateMaterial registers a material under name from params's current
// map. The recognized "type" string selects the
// registry.MaterialFactory kind (default registry.MaterialShinyDiffuse);
// every other key is passed straight through to the factory. A
// "diffuse_shader" key naming a texture created earlier with CreateTexture
// attaches that texture's colour as a ValueNode shader graph feeding the
// material's diffuse input.
func (s *Session) CreateMaterial(name string, params *ParamBuilder) bool {
	p := params.take()
	kind := p.StringOrDefault("type", registry.MaterialShinyDiffuse)
	id := s.scn.inner.AddMaterial(kind, p)

	if texName, ok := p.GetString("diffuse_shader"); ok {
		tex, found := s.scn.textures[texName]
		sd, isShiny := s.scn.inner.Material(id).(*material.ShinyDiffuse)
		switch {
		case !found:
			logging.Warnf(s.log, "api: create_material(%q): unknown texture %q for diffuse_shader", name, texName)
		case !isShiny:
			logging.Warnf(s.log, "api: create_material(%q): diffuse_shader requires a shinydiffuse material, ignoring", name)
		default:
			sd.Graph = material.NewNodeGraph(0, -1, &material.ValueNode{Slot: 0, Value: tex})
		}
	}

	s.scn.materials[name] = id
	return true
}

// CreateLight registers name's "from"/"color" parameters as this facade's
// single directional light. Point, area, and mesh
// lights are an external collaborator this stand-in does not model; the
// most recently created light wins, matching a single-sun-light scene.
func (s *Session) CreateLight(name string, params *ParamBuilder) bool {
	p := params.take()
	if dir, ok := p.GetVector("from"); ok {
		s.scn.lightDir = dir.Negate().Normalize()
	}
	if c, ok := p.GetColor("color"); ok {
		s.scn.lightColor = c.ToRGB()
	}
	return true
}

// CreateTexture registers name as a constant-colour texture. Image-backed
// textures are out of scope; a texture here is always the flat "color"
// parameter, later wired into a material's shader graph as a material.ValueNode
// when a create_material call names it via "diffuse_shader".
func (s *Session) CreateTexture(name string, params *ParamBuilder) bool {
	p := params.take()
	c := p.ColorOrDefault("color", color.RGBA{R: 1, G: 1, B: 1, A: 1})
	s.scn.textures[name] = c.ToRGB()
	logging.Verbosef(s.log, "api: create_texture(%q): registered as a constant colour stand-in", name)
	return true
}

// CreateCamera registers name's "from"/"to"/"up"/"fov" parameters as the
// active pinhole camera. The most recently created
// camera is the one Render uses.
func (s *Session) CreateCamera(name string, params *ParamBuilder) bool {
	p := params.take()
	cam := camera{
		eye:    p.VectorOrDefault("from", raymath.Vec3{X: 0, Y: 0, Z: 5}),
		lookAt: p.VectorOrDefault("to", raymath.Vec3Zero),
		up:     p.VectorOrDefault("up", raymath.Vec3Up),
		fovDeg: p.FloatOrDefault("fov", 45),
	}
	s.scn.cam = cam
	s.scn.haveCamera = true
	return true
}

// CreateBackground sets the constant background colour returned for rays
// that miss the scene entirely. Environment-map and
// procedural-sky backgrounds are out of scope; only "color" is read.
func (s *Session) CreateBackground(name string, params *ParamBuilder) bool {
	p := params.take()
	if c, ok := p.GetColor("color"); ok {
		s.scn.background = c.ToRGB()
	}
	return true
}

// CreateIntegrator always fails: the full light-transport integrator loop
// is explicitly out of scope, and this facade's Render drives a
// fixed built-in direct-lighting stand-in rather than a pluggable
// integrator, so there is nothing a named integrator could configure.
func (s *Session) CreateIntegrator(name string, params *ParamBuilder) bool {
	params.take()
	logging.Errorf(s.log, "api: create_integrator(%q): full light-transport integrators are out of scope", name)
	return false
}

// CreateVolumeRegion always fails for the same reason as CreateIntegrator:
// volumetric participating media are explicitly out of scope.
func (s *Session) CreateVolumeRegion(name string, params *ParamBuilder) bool {
	params.take()
	logging.Errorf(s.log, "api: create_volume_region(%q): volume regions are out of scope", name)
	return false
}

// CreateRenderView registers the output resolution and sample count. Multiple
// named views are not supported; the most recently created view is the one
// Render uses.
func (s *Session) CreateRenderView(name string, params *ParamBuilder) bool {
	p := params.take()
	s.scn.width = p.IntOrDefault("width", s.scn.width)
	s.scn.height = p.IntOrDefault("height", s.scn.height)
	s.scn.spp = p.IntOrDefault("samples", s.scn.spp)
	return true
}

// CreateImage is a no-op success: image buffers are owned by the caller's
// PutPixelFunc (the putPixel callback passed to Render), not by the Session.
func (s *Session) CreateImage(name string, params *ParamBuilder) bool {
	params.take()
	return true
}

// CreateOutput reads "accelerator" and "workers"/"tile_size"/"seed" render
// knobs from params. Actual image writing is the
// caller's PutPixelFunc; this call only configures how Render drives the
// accelerator and worker pool.
func (s *Session) CreateOutput(name string, params *ParamBuilder) bool {
	p := params.take()
	s.scn.accelKind = p.StringOrDefault("accelerator", s.scn.accelKind)
	s.scn.workers = p.IntOrDefault("workers", s.scn.workers)
	s.scn.tileSize = p.IntOrDefault("tile_size", s.scn.tileSize)
	if seed, ok := p.GetInt("seed"); ok {
		s.scn.seed = uint64(seed)
	}
	return true
}
