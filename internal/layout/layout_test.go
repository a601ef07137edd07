package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeof(t *testing.T) {
	require.Equal(t, uintptr(8), Sizeof[int64]())
	require.Equal(t, uintptr(0), Sizeof[struct{}]())
	require.Equal(t, uintptr(0), Sizeof[[0]int]())
	require.True(t, ZeroSized[struct{}]())
	require.False(t, ZeroSized[byte]())
}

func TestPointerFree(t *testing.T) {
	type flat struct {
		a int64
		b [4]uint16
		c struct{ d float64 }
	}
	type withString struct {
		id   int
		name string
	}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"int", PointerFree[int](), true},
		{"uintptr", PointerFree[uintptr](), true},
		{"flat struct", PointerFree[flat](), true},
		{"empty struct", PointerFree[struct{}](), true},
		{"zero-length pointer array", PointerFree[[0]*int](), true},
		{"string", PointerFree[string](), false},
		{"pointer", PointerFree[*int](), false},
		{"slice", PointerFree[[]byte](), false},
		{"map", PointerFree[map[int]int](), false},
		{"interface", PointerFree[any](), false},
		{"struct with string", PointerFree[withString](), false},
		{"array of pointers", PointerFree[[2]*int](), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.got)
		})
	}
}
