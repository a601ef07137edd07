package arena_test

import (
	"fmt"

	"github.com/pavanmanishd/vec"
	"github.com/pavanmanishd/vec/arena"
)

// Example builds request-scoped vectors inside one arena
func Example() {
	a := arena.NewArena(0)
	defer a.Release()

	ids := vec.NewWithOptions(vec.Options[uint32]{
		Capacity:  vec.SmallCapacity,
		Allocator: arena.NewAllocator[uint32](a),
	})
	for i := uint32(1); i <= 10; i++ {
		ids.Push(i * 100)
	}
	fmt.Println("ids:", ids.Slice())
	fmt.Printf("arena in use: %d bytes\n", a.SizeInUse())

	ids.Release()
	a.Reset()
	fmt.Printf("after reset: %d bytes\n", a.SizeInUse())

	// Output:
	// ids: [100 200 300 400 500 600 700 800 900 1000]
	// arena in use: 64 bytes
	// after reset: 0 bytes
}
