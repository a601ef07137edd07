// Package vec implements a generic growable array over explicitly owned
// storage.
//
// # Overview
//
// A Vec keeps its elements in a single contiguous block obtained from an
// Allocator. The block is owned by a RawBuffer, which doubles it when a
// write would overflow it and hands it back to the Allocator exactly once.
// This makes the lifetime of the storage explicit, which is useful for:
//
//   - Keeping large element arrays outside the Go heap (package offheap)
//   - Carving many short-lived arrays out of one arena (package arena)
//   - Counting allocations per host (package instrument)
//   - Element types that hold resources and need a destructor
//
// # Basic Usage
//
//	v := vec.New[int]()
//	defer v.Release()
//
//	v.Push(10)
//	v.Push(30)
//	v.Insert(1, 20)      // [10 20 30]
//	x := v.Remove(0)     // 10, v is [20 30]
//	last, ok := v.Pop()  // 30, true
//
//	for i, x := range v.All() {
//		fmt.Println(i, x)
//	}
//
// # Ownership
//
// Every element pushed into a Vec is destroyed exactly once: when it is
// popped or removed ownership passes to the caller; otherwise the Vec
// destroys it on Clear or Release. Destruction calls Options.Drop, or the
// element's Drop method if it implements Dropper.
//
// IntoIter moves the storage into a consuming iterator:
//
//	it := v.IntoIter() // v is no longer usable
//	defer it.Close()   // destroys whatever was not consumed
//
//	first, _ := it.Next()
//	last, _ := it.NextBack()
//
// # Contract Violations
//
// Out of range indexes, use after Release or IntoIter, and stepping a
// Cursor after its source changed are caller bugs. They panic with one of
// the Err* values of this package instead of returning an error. So does an
// Allocator failure, since no fallback storage exists.
//
// # Thread Safety
//
// A Vec has a single owner and must not be used from more than one
// goroutine at a time.
//
// # Performance Characteristics
//
//   - Push: O(1) amortized, capacity doubles from Options.Capacity
//   - Pop: O(1)
//   - Insert, Remove: O(Len() - index)
//   - Append: O(other.Len())
//   - Capacity never shrinks
package vec
