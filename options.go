package vec

import (
	"reflect"

	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the starting capacity of a new buffer.
	DefaultCapacity = 32
	// SmallCapacity is a starting capacity for short-lived or small vectors.
	SmallCapacity = 4
)

// Dropper is implemented by element types that hold resources which must be
// released when the element is destroyed.
type Dropper interface {
	Drop()
}

// Options configures a Vec or RawBuffer. The zero value selects the defaults.
type Options[T any] struct {
	// Capacity is the starting capacity. If <= 0, DefaultCapacity is used.
	Capacity int
	// Allocator supplies storage. If nil, HeapAllocator is used.
	Allocator Allocator[T]
	// Logger receives debug events about the buffer. If nil, logging is off.
	Logger *zap.Logger
	// Drop destroys a single element. If nil and T or *T implements
	// Dropper, Drop is called on the element.
	Drop func(T)
}

func (o Options[T]) withDefaults() Options[T] {
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.Allocator == nil {
		o.Allocator = HeapAllocator[T]{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Drop == nil {
		o.Drop = dropperFor[T]()
	}
	return o
}

var dropperType = reflect.TypeFor[Dropper]()

// dropperFor returns a destructor for T when T or *T implements Dropper,
// otherwise nil.
func dropperFor[T any]() func(T) {
	t := reflect.TypeFor[T]()
	switch {
	case t.Implements(dropperType):
		return func(v T) {
			// A nil interface value has nothing to release.
			if d, ok := any(v).(Dropper); ok {
				d.Drop()
			}
		}
	case reflect.PointerTo(t).Implements(dropperType):
		return func(v T) {
			any(&v).(Dropper).Drop()
		}
	}
	return nil
}
