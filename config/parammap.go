// Package config implements ParamMap, the sole configuration vocabulary at
// component boundaries: a string-keyed map of tagged values consumed by
// accelerator/material/format factories and by the embedding API's
// parameter builder.
package config

import (
	"fmt"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/raymath"
)

// Kind tags the dynamic type carried by a Value.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindVector
	KindColor
	KindMatrix
)

// Value is a single tagged configuration value. Only the field matching Kind
// is meaningful; the zero Value is an untyped bool false.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int
	Float   float32
	String  string
	Vector  raymath.Vec3
	Color   color.RGBA
	Matrix  raymath.Mat4
}

func Bool(v bool) Value          { return Value{Kind: KindBool, Bool: v} }
func Int(v int) Value            { return Value{Kind: KindInt, Int: v} }
func Float(v float32) Value      { return Value{Kind: KindFloat, Float: v} }
func String(v string) Value      { return Value{Kind: KindString, String: v} }
func Vector(v raymath.Vec3) Value { return Value{Kind: KindVector, Vector: v} }
func Color(v color.RGBA) Value   { return Value{Kind: KindColor, Color: v} }
func Matrix(v raymath.Mat4) Value { return Value{Kind: KindMatrix, Matrix: v} }

// ParamMap is an ordered-by-insertion-irrelevant string-keyed bag of Values.
// A ParameterList (shader tree) is simply []ParamMap.
type ParamMap map[string]Value

// New returns an empty ParamMap, mirroring the builder pattern the embedding
// API exposes over params_set_* calls.
func New() ParamMap { return make(ParamMap) }

func (p ParamMap) SetBool(key string, v bool) ParamMap      { p[key] = Bool(v); return p }
func (p ParamMap) SetInt(key string, v int) ParamMap        { p[key] = Int(v); return p }
func (p ParamMap) SetFloat(key string, v float32) ParamMap  { p[key] = Float(v); return p }
func (p ParamMap) SetString(key string, v string) ParamMap  { p[key] = String(v); return p }
func (p ParamMap) SetVector(key string, v raymath.Vec3) ParamMap {
	p[key] = Vector(v)
	return p
}
func (p ParamMap) SetColor(key string, v color.RGBA) ParamMap {
	p[key] = Color(v)
	return p
}

// SetMatrix accepts a row-major 4x4 matrix. Use SetMatrixTransposed for
// column-major/transposed input, matching the embedding API's dual matrix
// setters.
func (p ParamMap) SetMatrix(key string, v raymath.Mat4) ParamMap {
	p[key] = Matrix(v)
	return p
}

func (p ParamMap) SetMatrixTransposed(key string, v raymath.Mat4) ParamMap {
	p[key] = Matrix(v.Transpose())
	return p
}

// GetBool, GetInt, GetFloat, GetString, GetVector, GetColor, GetMatrix return
// the stored value if present and of the matching Kind, else (zero, false).
func (p ParamMap) GetBool(key string) (bool, bool) {
	v, ok := p[key]
	if !ok || v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

func (p ParamMap) GetInt(key string) (int, bool) {
	v, ok := p[key]
	if !ok || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

func (p ParamMap) GetFloat(key string) (float32, bool) {
	v, ok := p[key]
	if !ok || v.Kind != KindFloat {
		return 0, false
	}
	return v.Float, true
}

func (p ParamMap) GetString(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.String, true
}

func (p ParamMap) GetVector(key string) (raymath.Vec3, bool) {
	v, ok := p[key]
	if !ok || v.Kind != KindVector {
		return raymath.Vec3{}, false
	}
	return v.Vector, true
}

func (p ParamMap) GetColor(key string) (color.RGBA, bool) {
	v, ok := p[key]
	if !ok || v.Kind != KindColor {
		return color.RGBA{}, false
	}
	return v.Color, true
}

func (p ParamMap) GetMatrix(key string) (raymath.Mat4, bool) {
	v, ok := p[key]
	if !ok || v.Kind != KindMatrix {
		return raymath.Mat4{}, false
	}
	return v.Matrix, true
}

// FloatOrDefault and friends cover the common "missing key falls back to a
// default" pattern used throughout factory construction.
func (p ParamMap) FloatOrDefault(key string, def float32) float32 {
	if v, ok := p.GetFloat(key); ok {
		return v
	}
	return def
}

func (p ParamMap) IntOrDefault(key string, def int) int {
	if v, ok := p.GetInt(key); ok {
		return v
	}
	return def
}

func (p ParamMap) StringOrDefault(key string, def string) string {
	if v, ok := p.GetString(key); ok {
		return v
	}
	return def
}

func (p ParamMap) BoolOrDefault(key string, def bool) bool {
	if v, ok := p.GetBool(key); ok {
		return v
	}
	return def
}

func (p ParamMap) VectorOrDefault(key string, def raymath.Vec3) raymath.Vec3 {
	if v, ok := p.GetVector(key); ok {
		return v
	}
	return def
}

func (p ParamMap) ColorOrDefault(key string, def color.RGBA) color.RGBA {
	if v, ok := p.GetColor(key); ok {
		return v
	}
	return def
}

// String renders the map for diagnostics/logging at the Params log level.
func (p ParamMap) String() string {
	return fmt.Sprintf("ParamMap(%d keys)", len(p))
}
