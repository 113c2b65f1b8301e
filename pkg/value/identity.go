package value

import "reflect"

// identity names a map or a list backing array. Lists that share an array
// but differ in length are distinct.
type identity struct {
	ptr   uintptr
	len   int
	isMap bool
}

func mapIdentity(m Map) identity {
	return identity{ptr: reflect.ValueOf(m).Pointer(), isMap: true}
}

func listIdentity(l []Value) identity {
	return identity{ptr: reflect.ValueOf(l).Pointer(), len: len(l)}
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// cyclic reports whether rv reaches itself through pointers, maps, slices
// or interfaces. Only fields visible to JSON encoding are followed.
func cyclic(rv reflect.Value, visiting map[visitKey]struct{}) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if rv.IsNil() || (rv.Kind() != reflect.Ptr && rv.Len() == 0) {
			return false
		}
		key := visitKey{ptr: rv.Pointer(), typ: rv.Type()}
		if _, ok := visiting[key]; ok {
			return true
		}
		visiting[key] = struct{}{}
		defer delete(visiting, key)

		switch rv.Kind() {
		case reflect.Ptr:
			return cyclic(rv.Elem(), visiting)
		case reflect.Map:
			iter := rv.MapRange()
			for iter.Next() {
				if cyclic(iter.Value(), visiting) {
					return true
				}
			}
		default:
			for i := 0; i < rv.Len(); i++ {
				if cyclic(rv.Index(i), visiting) {
					return true
				}
			}
		}
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if cyclic(rv.Index(i), visiting) {
				return true
			}
		}
	case reflect.Interface:
		if !rv.IsNil() {
			return cyclic(rv.Elem(), visiting)
		}
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			if t.Field(i).PkgPath != "" {
				continue
			}
			if cyclic(rv.Field(i), visiting) {
				return true
			}
		}
	}
	return false
}
