package reflector

import "reflect"

// compositeID identifies a map or slice by where it lives, not what it
// contains. Two structurally equal but distinct composites get different IDs.
// Slices also carry their length: re-slices share a backing array pointer
// without being the same value.
type compositeID struct {
	ptr  uintptr
	len  int
	kind reflect.Kind
}

// HasCycle reports whether a reference cycle is reachable from v. It is pure
// and non-mutating: the traversal tracks only the identities of composites
// currently on the descent stack, so diamond-shaped graphs that share a
// sub-object without referencing an ancestor are not reported as cycles.
//
// Values are traversed as decoded JSON shapes (map[string]any objects and
// []any arrays); primitives are never cyclic.
func HasCycle(v any) bool {
	return hasCycle(v, make(map[compositeID]struct{}))
}

func hasCycle(v any, onStack map[compositeID]struct{}) bool {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			return false
		}
		id := compositeID{ptr: reflect.ValueOf(val).Pointer(), kind: reflect.Map}
		if _, ok := onStack[id]; ok {
			return true
		}
		onStack[id] = struct{}{}
		for _, child := range val {
			if hasCycle(child, onStack) {
				return true
			}
		}
		delete(onStack, id)
		return false
	case []any:
		if len(val) == 0 {
			return false
		}
		id := compositeID{ptr: reflect.ValueOf(val).Pointer(), len: len(val), kind: reflect.Slice}
		if _, ok := onStack[id]; ok {
			return true
		}
		onStack[id] = struct{}{}
		for _, child := range val {
			if hasCycle(child, onStack) {
				return true
			}
		}
		delete(onStack, id)
		return false
	default:
		return false
	}
}
