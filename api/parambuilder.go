package api

import (
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/config"
	"github.com/mrigankad/raytracer-core/raymath"
)

// ParamBuilder is the stateful parameter builder behind the embedding API's
// params_set_*/params_push_list/params_end_list calls: a caller sets
// typed values onto a current config.ParamMap, optionally pushes a sequence
// of them into an ordered list (a shader tree, []config.ParamMap), then
// hands the builder to one of the Session's CreateXxx calls, which
// consumes and clears the current map.
type ParamBuilder struct {
	current config.ParamMap
	list    []config.ParamMap
}

// NewParamBuilder returns an empty builder.
func NewParamBuilder() *ParamBuilder {
	return &ParamBuilder{current: config.New()}
}

func (b *ParamBuilder) SetBool(key string, v bool) *ParamBuilder {
	b.current.SetBool(key, v)
	return b
}

func (b *ParamBuilder) SetInt(key string, v int) *ParamBuilder {
	b.current.SetInt(key, v)
	return b
}

func (b *ParamBuilder) SetFloat(key string, v float32) *ParamBuilder {
	b.current.SetFloat(key, v)
	return b
}

func (b *ParamBuilder) SetString(key string, v string) *ParamBuilder {
	b.current.SetString(key, v)
	return b
}

func (b *ParamBuilder) SetVector(key string, v raymath.Vec3) *ParamBuilder {
	b.current.SetVector(key, v)
	return b
}

func (b *ParamBuilder) SetColor(key string, v color.RGBA) *ParamBuilder {
	b.current.SetColor(key, v)
	return b
}

// SetMatrix stores a row-major 4x4 matrix; SetMatrixTransposed accepts the
// transposed layout, matching the embedding API's dual matrix setters.
func (b *ParamBuilder) SetMatrix(key string, v raymath.Mat4) *ParamBuilder {
	b.current.SetMatrix(key, v)
	return b
}

func (b *ParamBuilder) SetMatrixTransposed(key string, v raymath.Mat4) *ParamBuilder {
	b.current.SetMatrixTransposed(key, v)
	return b
}

// PushList closes the current map out as one entry of an ordered parameter
// list (a shader node tree) and starts a fresh one.
func (b *ParamBuilder) PushList() *ParamBuilder {
	b.list = append(b.list, b.current)
	b.current = config.New()
	return b
}

// EndList returns the accumulated list, including a non-empty current map
// as its final entry, and resets the builder to a fresh empty list.
func (b *ParamBuilder) EndList() []config.ParamMap {
	out := b.list
	if len(b.current) > 0 {
		out = append(out, b.current)
	}
	b.list = nil
	b.current = config.New()
	return out
}

// ClearAll discards both the current map and any accumulated list.
func (b *ParamBuilder) ClearAll() *ParamBuilder {
	b.current = config.New()
	b.list = nil
	return b
}

// take returns the current map and resets the builder to a fresh one,
// matching "CreateXxx consumes the builder's current params": every
// create call gets its own map, so the builder never leaks state into the
// next object.
func (b *ParamBuilder) take() config.ParamMap {
	p := b.current
	b.current = config.New()
	return p
}
