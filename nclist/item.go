package nclist

import (
	"reflect"

	"github.com/grailbio/nclist/interval"
)

// Item is the constraint on values stored in a List or Store.
//
// Two items are the same entry if a.Equal(b) returns true, when the type has
// an "Equal(T) bool" method, and if a == b otherwise.  For struct values ==
// is full value equality; pointer types without Equal are matched by
// identity.
type Item interface {
	comparable
	interval.Interval
}

type equaler[T any] interface {
	Equal(T) bool
}

func equal[T Item](a, b T) bool {
	if e, ok := any(a).(equaler[T]); ok {
		return e.Equal(b)
	}
	return a == b
}

// isNil returns whether x is a nil pointer or interface.  Any other value,
// including the zero Range, is a valid item.
func isNil[T Item](x T) bool {
	v := any(x)
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
