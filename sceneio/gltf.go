// Package sceneio imports external scene-description formats into a
// render-ready scene.Scene. LoadGLTF walks a glTF document in three passes
// (materials, mesh primitives, nodes): it populates geometry.Object vertex
// pools, builds Triangle primitives for each mesh, composes each node's TRS
// into a raymath.Mat4, and adds the referenced mesh's primitives to the
// scene wrapped in an Instance. A mesh no node references adds no
// primitives.
package sceneio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/logging"
	"github.com/mrigankad/raytracer-core/material"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/scene"
)

// LoadGLTF opens a .gltf/.glb document at path and populates a new
// scene.Scene with its materials, mesh geometry, and nodes. Each node is
// placed by its own TRS only; a parent node's transform is not applied to
// its children. Embedded texture images are not decoded: a material's base colour is
// read as the glTF PBR baseColorFactor only, never from a
// baseColorTexture.
func LoadGLTF(path string, log logging.Logger) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sceneio: gltf open %q: %w", path, err)
	}

	s := scene.New(log)

	matIDs := make([]int, len(doc.Materials))
	for i, gm := range doc.Materials {
		matIDs[i] = s.AddMaterialInstance(shinyDiffuseFromGLTFMaterial(gm, s.NextMaterialSlot()))
	}
	defaultMat := s.AddMaterialInstance(&material.ShinyDiffuse{
		DiffuseColor:    color.White,
		DiffuseStrength: 1,
		Slot:            s.NextMaterialSlot(),
	})

	// meshPrims[meshIdx] holds the base (un-instanced) primitives for every
	// glTF mesh primitive in that mesh, built once and shared across every
	// node that references the mesh.
	meshPrims := make([][]geometry.Primitive, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			prims, err := loadGLTFPrimitive(doc, s, *prim, matIDs, defaultMat)
			if err != nil {
				logging.Warnf(log, "sceneio: gltf mesh %d prim %d: %v", mi, pi, err)
				continue
			}
			meshPrims[mi] = append(meshPrims[mi], prims...)
		}
	}

	for _, gn := range doc.Nodes {
		if gn.Mesh == nil || int(*gn.Mesh) >= len(meshPrims) {
			continue
		}
		toWorld := nodeTransform(gn)
		for _, base := range meshPrims[*gn.Mesh] {
			s.AddInstance(base, toWorld)
		}
	}

	return s, nil
}

// shinyDiffuseFromGLTFMaterial approximates a glTF PBR metallic-roughness
// material as a ShinyDiffuse: roughness feeds Oren-Nayar sigma, metallic
// feeds the specular-mirror strength, and baseColorFactor feeds diffuse.
func shinyDiffuseFromGLTFMaterial(gm *gltf.Material, slot int) *material.ShinyDiffuse {
	m := &material.ShinyDiffuse{
		DiffuseColor:    color.White,
		MirrorColor:     color.White,
		DiffuseStrength: 1,
		Slot:            slot,
	}
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		cf := pbr.BaseColorFactorOrDefault()
		m.DiffuseColor = color.RGB{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2])}

		roughness := float32(pbr.RoughnessFactorOrDefault())
		metallic := float32(pbr.MetallicFactorOrDefault())

		m.MirrorStrength = metallic
		m.DiffuseStrength = 1 - metallic
		m.OrenNayarSigma = roughness
	}
	return m
}

// loadGLTFPrimitive converts one glTF mesh primitive's POSITION/NORMAL/
// TEXCOORD_0/indices accessors into Triangle primitives backed by a fresh
// geometry.Object.
func loadGLTFPrimitive(doc *gltf.Document, s *scene.Scene, prim gltf.Primitive, matIDs []int, defaultMat int) ([]geometry.Primitive, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	obj := geometry.NewObject(0)
	for _, p := range positions {
		obj.AddVertex(raymath.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	for _, n := range normals {
		obj.AddNormal(raymath.Vec3{X: n[0], Y: n[1], Z: n[2]})
	}
	for _, uv := range uvs {
		obj.AddUV(uv[0], uv[1])
	}
	s.AddObject(obj)

	matID := defaultMat
	if prim.Material != nil && int(*prim.Material) < len(matIDs) {
		matID = matIDs[*prim.Material]
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	var out []geometry.Primitive
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		tri := geometry.NewTriangle(obj, a, b, c, [3]uint32{}, matID)
		if tri.Degenerate() {
			continue
		}
		out = append(out, tri)
	}
	return out, nil
}

// nodeTransform composes a glTF node's TRS fields into a world matrix:
// scale, then rotate, then translate, the order Mat4.Mul applies its
// row-vector factors in. The rotation is renormalized first since
// serialized quaternions drift off unit length.
func nodeTransform(gn *gltf.Node) raymath.Mat4 {
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	sc := gn.ScaleOrDefault()

	translation := raymath.Mat4Translation(raymath.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])})
	rotation := raymath.NewQuaternion(float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3])).Normalize().ToMat4()
	scale := raymath.Mat4Scale(raymath.Vec3{X: float32(sc[0]), Y: float32(sc[1]), Z: float32(sc[2])})

	return scale.Mul(rotation).Mul(translation)
}
