package api

import (
	"context"
	"testing"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/logging"
	"github.com/mrigankad/raytracer-core/material"
	"github.com/mrigankad/raytracer-core/raymath"
)

// buildTriangleSession assembles a minimal one-triangle scene through the
// full embedding call sequence: material, geometry bracket, camera,
// light, view, setup.
func buildTriangleSession(t *testing.T) *Session {
	t.Helper()
	s := CreateScene(logging.Null)
	pb := NewParamBuilder()

	pb.SetString("type", "lambert")
	pb.SetColor("color", color.RGBA{R: 1, A: 1})
	if !s.CreateMaterial("red", pb) {
		t.Fatal("create_material failed")
	}

	if !s.StartGeometry() {
		t.Fatal("start_geometry failed")
	}
	pb.SetString("material", "red")
	if !s.CreateObject("tri", pb) {
		t.Fatal("create_object failed")
	}
	if got := s.AddVertex(-1, -1, 0); got != 0 {
		t.Fatalf("expected first vertex index 0, got %d", got)
	}
	s.AddVertex(1, -1, 0)
	s.AddVertex(0, 1, 0)
	if !s.AddFace(0, 1, 2) {
		t.Fatal("add_face failed")
	}
	if !s.EndObject() {
		t.Fatal("end_object failed")
	}
	if !s.EndGeometry() {
		t.Fatal("end_geometry failed")
	}

	pb.SetVector("from", raymath.NewVec3(0, 0, 3))
	pb.SetVector("to", raymath.NewVec3(0, 0, 0))
	pb.SetFloat("fov", 60)
	s.CreateCamera("cam", pb)

	pb.SetVector("from", raymath.NewVec3(1, 1, 1))
	s.CreateLight("sun", pb)

	pb.SetInt("width", 16)
	pb.SetInt("height", 16)
	pb.SetInt("samples", 1)
	s.CreateRenderView("view", pb)

	if !s.SetupRender(NewParamBuilder()) {
		t.Fatal("setup_render failed")
	}
	return s
}

func TestSessionRenderLitTriangle(t *testing.T) {
	s := buildTriangleSession(t)

	pixels := 0
	putPixel := func(view string, x, y int, r, g, b, a float32) { pixels++ }
	progressed := false
	progress := func(tag string, current, total int) { progressed = true }

	fb, err := s.Render(context.Background(), progress, putPixel)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if pixels != 16*16 {
		t.Errorf("expected put_pixel for every pixel, got %d", pixels)
	}
	if !progressed {
		t.Errorf("expected at least one progress callback")
	}

	center := fb.At(8, 8)
	if center.R <= 0 {
		t.Errorf("expected the lit red triangle at the image center, got %v", center)
	}
	if center.G != 0 {
		t.Errorf("expected a pure red material to shade with G=0, got %v", center)
	}

	corner := fb.At(0, 0)
	if corner != color.Black {
		t.Errorf("expected the background at the corner, got %v", corner)
	}
}

func TestSessionGeometryBracketMisuse(t *testing.T) {
	s := CreateScene(logging.Null)
	pb := NewParamBuilder()

	if s.EndGeometry() {
		t.Errorf("end_geometry without start_geometry should fail")
	}
	if s.AddVertex(0, 0, 0) != -1 {
		t.Errorf("add_vertex outside an object should return -1")
	}
	if s.AddFace(0, 1, 2) {
		t.Errorf("add_face outside an object should fail")
	}
	if s.CreateObject("o", pb) {
		t.Errorf("create_object outside the geometry bracket should fail")
	}

	if !s.StartGeometry() {
		t.Fatal("start_geometry failed")
	}
	if s.StartGeometry() {
		t.Errorf("nested start_geometry should fail")
	}
	s.CreateObject("o", pb)
	if s.EndGeometry() {
		t.Errorf("end_geometry with an open object should fail")
	}
}

func TestSessionRenderBeforeSetupFails(t *testing.T) {
	s := CreateScene(logging.Null)
	if _, err := s.Render(context.Background(), nil, nil); err == nil {
		t.Errorf("expected render before setup_render to fail")
	}
}

func TestSessionCancelledRenderReturnsPartialFramebuffer(t *testing.T) {
	s := buildTriangleSession(t)
	s.Cancel()

	fb, err := s.Render(context.Background(), nil, nil)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fb == nil || fb.Width != 16 || fb.Height != 16 {
		t.Errorf("expected the partial framebuffer to stay readable")
	}
}

func TestSessionTextureFeedsMaterialGraph(t *testing.T) {
	s := CreateScene(logging.Null)
	pb := NewParamBuilder()

	pb.SetColor("color", color.RGBA{G: 1, A: 1})
	if !s.CreateTexture("greentex", pb) {
		t.Fatal("create_texture failed")
	}

	pb.SetString("type", "shinydiffuse")
	pb.SetString("diffuse_shader", "greentex")
	if !s.CreateMaterial("shaded", pb) {
		t.Fatal("create_material failed")
	}

	id := s.scn.materials["shaded"]
	sd, ok := s.scn.inner.Material(id).(*material.ShinyDiffuse)
	if !ok {
		t.Fatalf("expected a ShinyDiffuse, got %T", s.scn.inner.Material(id))
	}
	if sd.Graph == nil {
		t.Errorf("expected diffuse_shader to attach a node graph")
	}
}

func TestSessionInstanceOfNamedObject(t *testing.T) {
	s := CreateScene(logging.Null)
	pb := NewParamBuilder()

	s.StartGeometry()
	s.CreateObject("base", pb)
	s.AddVertex(-1, -1, 0)
	s.AddVertex(1, -1, 0)
	s.AddVertex(0, 1, 0)
	s.AddFace(0, 1, 2)
	s.EndObject()

	if s.AddInstance("missing", raymath.Mat4Identity()) {
		t.Errorf("add_instance of an unknown object should fail")
	}
	if !s.AddInstance("base", raymath.Mat4Translation(raymath.NewVec3(3, 0, 0))) {
		t.Errorf("add_instance of a finished object should succeed")
	}
	s.EndGeometry()

	// One triangle plus its instance.
	if got := len(s.scn.inner.Primitives()); got != 2 {
		t.Errorf("expected 2 primitives (face + instance), got %d", got)
	}
}

func TestParamBuilderList(t *testing.T) {
	pb := NewParamBuilder()
	pb.SetString("type", "first").PushList()
	pb.SetString("type", "second")
	list := pb.EndList()

	if len(list) != 2 {
		t.Fatalf("expected 2 list entries, got %d", len(list))
	}
	if v, _ := list[0].GetString("type"); v != "first" {
		t.Errorf("expected first entry, got %q", v)
	}
	if v, _ := list[1].GetString("type"); v != "second" {
		t.Errorf("expected second entry, got %q", v)
	}

	pb.SetString("left", "over").ClearAll()
	if len(pb.EndList()) != 0 {
		t.Errorf("expected ClearAll to discard pending state")
	}
}
