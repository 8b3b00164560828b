package config

import (
	"testing"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/raymath"
)

func TestParamMapRoundTrip(t *testing.T) {
	p := New().
		SetBool("flag", true).
		SetInt("count", 7).
		SetFloat("weight", 0.5).
		SetString("kind", "kdtree").
		SetVector("dir", raymath.NewVec3(1, 2, 3)).
		SetColor("tint", color.RGBA{R: 0.1, G: 0.2, B: 0.3, A: 1})

	if v, ok := p.GetBool("flag"); !ok || !v {
		t.Errorf("bool round trip failed: %v %v", v, ok)
	}
	if v, ok := p.GetInt("count"); !ok || v != 7 {
		t.Errorf("int round trip failed: %v %v", v, ok)
	}
	if v, ok := p.GetFloat("weight"); !ok || v != 0.5 {
		t.Errorf("float round trip failed: %v %v", v, ok)
	}
	if v, ok := p.GetString("kind"); !ok || v != "kdtree" {
		t.Errorf("string round trip failed: %q %v", v, ok)
	}
	if v, ok := p.GetVector("dir"); !ok || v != raymath.NewVec3(1, 2, 3) {
		t.Errorf("vector round trip failed: %v %v", v, ok)
	}
	if v, ok := p.GetColor("tint"); !ok || v.G != 0.2 {
		t.Errorf("color round trip failed: %v %v", v, ok)
	}
}

func TestParamMapKindMismatch(t *testing.T) {
	p := New().SetInt("n", 3)
	if _, ok := p.GetFloat("n"); ok {
		t.Errorf("expected a kind mismatch to report not-found")
	}
	if _, ok := p.GetInt("missing"); ok {
		t.Errorf("expected a missing key to report not-found")
	}
}

func TestParamMapDefaults(t *testing.T) {
	p := New().SetFloat("set", 2)
	if v := p.FloatOrDefault("set", 9); v != 2 {
		t.Errorf("expected stored value 2, got %v", v)
	}
	if v := p.FloatOrDefault("unset", 9); v != 9 {
		t.Errorf("expected default 9, got %v", v)
	}
	if v := p.IntOrDefault("unset", 4); v != 4 {
		t.Errorf("expected default 4, got %v", v)
	}
	if v := p.StringOrDefault("unset", "fallback"); v != "fallback" {
		t.Errorf("expected default string, got %q", v)
	}
}

func TestParamMapMatrixTransposed(t *testing.T) {
	m := raymath.Mat4Translation(raymath.NewVec3(1, 2, 3))

	p := New()
	p.SetMatrix("row", m)
	p.SetMatrixTransposed("col", m.Transpose())

	row, _ := p.GetMatrix("row")
	col, _ := p.GetMatrix("col")
	if row != col {
		t.Errorf("expected transposed input to normalize to the row-major layout")
	}
}
