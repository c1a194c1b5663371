package stencil

import (
	"math/big"
	"reflect"

	"github.com/zoobzio/sentinel"
)

// TypeValue builds the shape of a Go struct type as a value tree,
// without needing an instance. Field metadata comes from sentinel;
// nested types fall back to plain reflection.
//
// Shape mapping: exported struct fields become record keys in
// declaration-independent (sorted) order, scalars become placeholder
// scalars of the matching kind, slices and arrays become a
// single-element sequence describing the element type, string-keyed
// maps become an empty record (their key set is dynamic), pointers
// dereference, and interfaces map to the absent kind. A recursive type
// contributes a null where it would otherwise recurse forever.
func TypeValue[T any]() Value {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return typeShape(rt, make(map[reflect.Type]bool))
	}

	spec := sentinel.Scan[T]()
	seen := map[reflect.Type]bool{rt: true}
	rec := NewRecord()
	for _, field := range spec.Fields {
		rec.Set(field.Name, typeShape(field.ReflectType, seen))
	}
	return RecordValue(rec)
}

// TypeID fingerprints the static shape of T using the default engine.
func TypeID[T any](opts ...Option) string {
	return defaultEngine.ID(TypeValue[T](), opts...)
}

// TypeSignature returns the structural signature of T's static shape
// using the default engine.
func TypeSignature[T any]() string {
	return defaultEngine.Signature(TypeValue[T]())
}

var bigIntType = reflect.TypeOf(big.Int{})

// typeShape maps one reflect type to its placeholder value.
func typeShape(rt reflect.Type, seen map[reflect.Type]bool) Value {
	if rt == bigIntType {
		return BigInt(new(big.Int))
	}

	switch rt.Kind() {
	case reflect.Bool:
		return Bool(false)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number(0)
	case reflect.String:
		return String("")
	case reflect.Pointer:
		return typeShape(rt.Elem(), seen)
	case reflect.Interface:
		return Undefined()
	case reflect.Slice, reflect.Array:
		return SequenceValue(NewSequence(typeShape(rt.Elem(), seen)))
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return Value{}
		}
		return RecordValue(NewRecord())
	case reflect.Struct:
		if seen[rt] {
			return Null()
		}
		seen[rt] = true
		defer delete(seen, rt)
		return structShape(rt, seen)
	default:
		return Value{}
	}
}

// structShape builds a record from a struct type's exported fields,
// consulting sentinel's metadata cache before scanning manually, the
// same way nested types are resolved during tag processing.
func structShape(rt reflect.Type, seen map[reflect.Type]bool) Value {
	rec := NewRecord()
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		for _, field := range spec.Fields {
			rec.Set(field.Name, typeShape(field.ReflectType, seen))
		}
		return RecordValue(rec)
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		rec.Set(sf.Name, typeShape(sf.Type, seen))
	}
	return RecordValue(rec)
}
