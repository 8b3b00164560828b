// Package registry implements the string-keyed factory component:
// construction of accelerators, materials, and image formats from a
// config.ParamMap. Unknown accelerator and material keys fall back to a
// safe default with a Warning log; unknown format keys fail outright.
package registry

import (
	"fmt"

	"github.com/mrigankad/raytracer-core/accel"
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/config"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/logging"
	"github.com/mrigankad/raytracer-core/material"
)

// Accelerator kind keys recognized by AcceleratorFactory.
const (
	AccelKDTree         = "kdtree"
	AccelKDTreeParallel = "kdtree-parallel"
)

// Material kind keys recognized by MaterialFactory.
const (
	MaterialShinyDiffuse = "shinydiffuse"
	MaterialLambert      = "lambert"
	MaterialMirror       = "mirror"
)

// ErrUnknownFormat is returned by FormatFactory for an unrecognized format
// key; formats fail with an error rather than substituting a default,
// since image codecs are out-of-scope collaborators.
var ErrUnknownFormat = fmt.Errorf("registry: unknown image format")

// AcceleratorFactory builds the accelerator named by kind over prims,
// using params for the k-d tree's SAH construction parameters. An unknown
// kind substitutes a single-threaded k-d tree and logs a Warning.
func AcceleratorFactory(log logging.Logger, kind string, prims []geometry.Primitive, params config.ParamMap) *accel.Tree {
	p := accel.ParamsFromMap(params)
	switch kind {
	case AccelKDTreeParallel:
		workers := params.IntOrDefault("workers", 0)
		return accel.BuildParallel(prims, p, workers)
	case AccelKDTree:
		return accel.Build(prims, p)
	default:
		logging.Warnf(log, "registry: unknown accelerator kind %q, substituting %q", kind, AccelKDTree)
		return accel.Build(prims, p)
	}
}

// MaterialFactory builds the material named by kind from params. An
// unknown kind substitutes an opaque Lambert diffuse and logs a Warning.
// slot is the per-ray arena material-state slot this instance should use
// (callers assign one distinct slot per registered material).
func MaterialFactory(log logging.Logger, kind string, params config.ParamMap, slot int) material.BSDF {
	switch kind {
	case MaterialShinyDiffuse:
		return shinyDiffuseFromParams(params, slot)
	case MaterialLambert:
		return &material.Lambert{Color: colorFromParams(params, "color", color.White)}
	case MaterialMirror:
		return &material.Mirror{Color: colorFromParams(params, "color", color.White)}
	default:
		logging.Warnf(log, "registry: unknown material kind %q, substituting %q", kind, MaterialLambert)
		return &material.Lambert{Color: colorFromParams(params, "color", color.White)}
	}
}

// FormatFactory reports whether kind names a recognized image format.
// Image codecs themselves live with external collaborators; this exists
// only to keep format selection behind the same factory surface. There are
// currently no in-scope format keys, so every call fails.
func FormatFactory(kind string) error {
	return fmt.Errorf("%s: %w", kind, ErrUnknownFormat)
}

func shinyDiffuseFromParams(params config.ParamMap, slot int) *material.ShinyDiffuse {
	return &material.ShinyDiffuse{
		DiffuseColor:           colorFromParams(params, "diffuse_color", color.White),
		MirrorColor:            colorFromParams(params, "mirror_color", color.White),
		MirrorStrength:         params.FloatOrDefault("mirror", 0),
		TransparencyStrength:   params.FloatOrDefault("transparency", 0),
		TranslucencyStrength:   params.FloatOrDefault("translucency", 0),
		DiffuseStrength:        params.FloatOrDefault("diffuse_reflect", 1),
		TransmitFilterStrength: params.FloatOrDefault("transmit_filter", 1),
		EmitStrength:           params.FloatOrDefault("emit", 0),
		IORSquared:             iorSquaredFromParams(params),
		OrenNayarSigma:         params.FloatOrDefault("sigma", 0),
		Slot:                   slot,
	}
}

// iorSquaredFromParams reads an "ior" parameter (the index of refraction,
// not its square) if present, matching the way a scene file would specify a
// material's Fresnel behaviour; 0 disables Fresnel coupling.
func iorSquaredFromParams(params config.ParamMap) float32 {
	ior := params.FloatOrDefault("ior", 0)
	if ior <= 0 {
		return 0
	}
	return ior * ior
}

func colorFromParams(params config.ParamMap, key string, def color.RGB) color.RGB {
	if c, ok := params.GetColor(key); ok {
		return c.ToRGB()
	}
	return def
}
