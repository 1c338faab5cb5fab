package interop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsinterop/reexport/internal/ast"
)

func TestRealm_TransitiveWildcard(t *testing.T) {
	r := NewRealm(nil)
	r.Provide("./leaf", FromMap(map[string]Value{"deep": 1, "default": "leaf"}))
	r.Register("./middle", lowered("./middle",
		&ast.ReExportAll{Source: from("./leaf")},
		named("./leaf", "default"),
	), nil)
	r.Register("./index", lowered("./index",
		&ast.ReExportAll{Source: from("./middle")},
	), nil)

	inst, err := r.Instantiate("./index")
	require.NoError(t, err)

	assert.Equal(t, 1, get(t, inst.Exports, "deep"))
	// The middle module's explicit default is not forwarded by `export *`.
	assert.False(t, inst.Exports.Has("default"))

	middle, err := r.Namespace("./middle")
	require.NoError(t, err)
	assert.Equal(t, "leaf", get(t, middle, "default"))
}

func TestRealm_InstantiatesOnce(t *testing.T) {
	r := NewRealm(nil)
	r.Provide("host", FromMap(map[string]Value{"v": 1}))
	r.Register("shared", lowered("shared", named("host", "v")), nil)
	r.Register("a", lowered("a", &ast.ReExportAll{Source: from("shared")}), nil)
	r.Register("b", lowered("b", &ast.ReExportAll{Source: from("shared")}), nil)

	a, err := r.Instantiate("a")
	require.NoError(t, err)
	b, err := r.Instantiate("b")
	require.NoError(t, err)

	again, err := r.Instantiate("a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	shared, err := r.Namespace("shared")
	require.NoError(t, err)
	require.NoError(t, shared.Set("v", 9))

	// Both importers copied the value, not the accessor.
	assert.Equal(t, 1, get(t, a.Exports, "v"))
	assert.Equal(t, 1, get(t, b.Exports, "v"))
}

func TestRealm_Cycle(t *testing.T) {
	r := NewRealm(nil)
	r.Register("a", lowered("a", &ast.ReExportAll{Source: from("b")}), nil)
	r.Register("b", lowered("b", &ast.ReExportAll{Source: from("a")}), nil)

	_, err := r.Instantiate("a")
	require.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "a -> b")
}

func TestRealm_NotFound(t *testing.T) {
	r := NewRealm(nil)
	_, err := r.Instantiate("nope")
	require.ErrorIs(t, err, ErrNotFound)

	r.Register("a", lowered("a", &ast.ReExportAll{Source: from("missing")}), nil)
	_, err = r.Instantiate("a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRealm_Locals(t *testing.T) {
	r := NewRealm(nil)
	r.Register("m", lowered("m",
		&ast.ExportLocal{Specifiers: []ast.ExportSpecifier{{Name: ident("x"), Exported: ident("x")}}},
	), map[string]Value{"x": "local"})

	inst, err := r.Instantiate("m")
	require.NoError(t, err)
	assert.Equal(t, "local", get(t, inst.Exports, "x"))
}
