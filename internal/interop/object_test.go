package interop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_KeysInsertionOrder(t *testing.T) {
	o := NewObject()
	require.NoError(t, o.Set("b", 1))
	require.NoError(t, o.Set("a", 2))
	require.NoError(t, o.DefineProperty("hidden", Property{Value: 3}))
	require.NoError(t, o.Set("b", 4))

	assert.Equal(t, []string{"b", "a"}, o.Keys())
	assert.Equal(t, 3, o.Len())
	assert.True(t, o.Has("hidden"))
}

func TestObject_FromMapSorted(t *testing.T) {
	o := FromMap(map[string]Value{"z": 1, "a": 2, "m": 3})
	assert.Equal(t, []string{"a", "m", "z"}, o.Keys())
}

func TestObject_AccessorRoutesThroughSetter(t *testing.T) {
	var backing Value = "initial"
	o := NewObject()
	require.NoError(t, o.DefineProperty("x", Property{
		Get:          func() Value { return backing },
		Set:          func(v Value) { backing = v },
		Enumerable:   true,
		Configurable: true,
	}))

	v, ok := o.Get("x")
	require.True(t, ok)
	assert.Equal(t, "initial", v)

	require.NoError(t, o.Set("x", "changed"))
	assert.Equal(t, "changed", backing)

	backing = "live"
	v, _ = o.Get("x")
	assert.Equal(t, "live", v)
}

func TestObject_NonConfigurable(t *testing.T) {
	o := NewObject()
	require.NoError(t, o.DefineProperty("__esModule", Property{Value: true}))

	err := o.DefineProperty("__esModule", DataProperty(false))
	require.ErrorIs(t, err, ErrNotConfigurable)

	err = o.Set("__esModule", false)
	require.ErrorIs(t, err, ErrReadOnly)
	assert.NotContains(t, o.Keys(), "__esModule")
}

func TestObject_GetterOnlyIsReadOnly(t *testing.T) {
	o := NewObject()
	require.NoError(t, o.DefineProperty("x", Property{Get: func() Value { return 1 }, Configurable: true}))
	require.ErrorIs(t, o.Set("x", 2), ErrReadOnly)
}

func TestStrictEqual(t *testing.T) {
	shared := map[string]Value{"k": 1}
	other := map[string]Value{"k": 1}
	slice := []int{1, 2}
	ptr := &struct{ n int }{1}
	type box struct{ V any }

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"undefined", nil, nil, true},
		{"undefined vs value", nil, 0, false},
		{"same int", 1, 1, true},
		{"int vs float", 1, 1.0, false},
		{"strings", "a", "a", true},
		{"NaN", math.NaN(), math.NaN(), false},
		{"same map", shared, shared, true},
		{"equal maps", shared, other, false},
		{"same slice", slice, slice, true},
		{"subslice", slice, slice[:1], false},
		{"same pointer", ptr, ptr, true},
		{"distinct pointers", ptr, &struct{ n int }{1}, false},
		{"struct holding slice", box{[]int{1}}, box{[]int{1}}, false},
		{"struct holding int", box{1}, box{1}, true},
		{"array holding map", [1]any{shared}, [1]any{shared}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StrictEqual(tt.a, tt.b))
		})
	}
}
