package stencil

import (
	"encoding/json"
	"math/big"
	"reflect"
	"sort"
)

// Kind identifies the category of a Value.
type Kind uint8

const (
	// KindInvalid marks input the value model does not recognize
	// (functions, channels, foreign handles). Invalid values still
	// fingerprint; they contribute a zero discriminant.
	KindInvalid Kind = iota

	// KindNumber is any numeric scalar.
	KindNumber

	// KindString is a text scalar.
	KindString

	// KindBool is a boolean scalar.
	KindBool

	// KindBigInt is an arbitrary-precision integer scalar.
	KindBigInt

	// KindNull is an explicit null.
	KindNull

	// KindUndefined marks an absent value, distinct from an explicit null.
	KindUndefined

	// KindSymbol is an opaque token scalar.
	KindSymbol

	// KindRecord is an unordered string-keyed container.
	KindRecord

	// KindSequence is an ordered container.
	KindSequence
)

// String returns the lowercase category name, as used in scalar
// signatures ("type:number") and traversal labels.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindBigInt:
		return "bigint"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindSymbol:
		return "symbol"
	case KindRecord:
		return "record"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Shape discriminants. Each recognized category owns one power-of-two
// constant; every visited value adds its constant to the accumulator of
// its depth. The root constant doubles as the depth-0 seed (1 << 0).
const (
	bitRoot uint64 = 1 << iota
	bitNumber
	bitString
	bitBool
	bitBigInt
	bitNull
	bitUndefined
	bitSymbol
	bitRecord
	bitSequence
)

// discriminant returns the shape constant for k, zero for unrecognized kinds.
func (k Kind) discriminant() uint64 {
	switch k {
	case KindNumber:
		return bitNumber
	case KindString:
		return bitString
	case KindBool:
		return bitBool
	case KindBigInt:
		return bitBigInt
	case KindNull:
		return bitNull
	case KindUndefined:
		return bitUndefined
	case KindSymbol:
		return bitSymbol
	case KindRecord:
		return bitRecord
	case KindSequence:
		return bitSequence
	default:
		return 0
	}
}

// Value is a node in a value tree: a scalar, a Record, or a Sequence.
// The zero Value has KindInvalid.
//
// Values are cheap to copy. Container values share the underlying
// Record or Sequence pointer; that pointer identity is what cycle
// detection and the identity caches key on.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	bi   *big.Int
	rec  *Record
	seq  *Sequence
}

// Kind returns the value's category.
func (v Value) Kind() Kind { return v.kind }

// container reports whether v carries a Record or Sequence.
func (v Value) container() bool {
	return v.kind == KindRecord || v.kind == KindSequence
}

// identity returns a comparable key for the underlying container,
// nil for scalars.
func (v Value) identity() any {
	switch v.kind {
	case KindRecord:
		return v.rec
	case KindSequence:
		return v.seq
	default:
		return nil
	}
}

// Record returns the underlying record, nil for other kinds.
func (v Value) Record() *Record { return v.rec }

// Sequence returns the underlying sequence, nil for other kinds.
func (v Value) Sequence() *Sequence { return v.seq }

// Number returns a numeric scalar value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a numeric scalar value from an integer.
func Int(n int64) Value { return Value{kind: KindNumber, num: float64(n)} }

// String returns a text scalar value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean scalar value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// BigInt returns an arbitrary-precision integer scalar value.
// A nil argument yields Null.
func BigInt(n *big.Int) Value {
	if n == nil {
		return Null()
	}
	return Value{kind: KindBigInt, bi: n}
}

// Null returns an explicit null value.
func Null() Value { return Value{kind: KindNull} }

// Undefined returns an absent value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Symbol returns an opaque token value.
func Symbol() Value { return Value{kind: KindSymbol} }

// RecordValue wraps a Record as a Value. A nil record yields Null.
func RecordValue(r *Record) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: KindRecord, rec: r}
}

// SequenceValue wraps a Sequence as a Value. A nil sequence yields Null.
func SequenceValue(s *Sequence) Value {
	if s == nil {
		return Null()
	}
	return Value{kind: KindSequence, seq: s}
}

// Record is an unordered string-keyed container.
type Record struct {
	fields map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Set stores v under key and returns the record for chaining.
func (r *Record) Set(key string, v Value) *Record {
	r.fields[key] = v
	return r
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Len returns the number of keys.
func (r *Record) Len() int { return len(r.fields) }

// Keys returns the key set sorted lexicographically ascending. This is
// the single canonicalization rule that makes records with equal key
// sets fingerprint identically regardless of insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sequence is an ordered container.
type Sequence struct {
	elems []Value
}

// NewSequence returns a sequence holding the given elements.
func NewSequence(elems ...Value) *Sequence {
	return &Sequence{elems: elems}
}

// Append adds elements to the end and returns the sequence for chaining.
func (s *Sequence) Append(elems ...Value) *Sequence {
	s.elems = append(s.elems, elems...)
	return s
}

// Len returns the element count.
func (s *Sequence) Len() int { return len(s.elems) }

// At returns the element at index i.
func (s *Sequence) At(i int) Value { return s.elems[i] }

// FromAny converts a dynamic Go value into the closed value model.
//
// Recognized inputs: Value (returned as-is), *Record, *Sequence, nil,
// booleans, strings, all numeric types, *big.Int, json.Number,
// map[string]any and other string-keyed maps, slices and arrays,
// structs (exported fields), and pointers to any of these. Anything
// else becomes a KindInvalid value.
//
// Container identity is preserved: converting a graph where the same
// map or slice appears twice yields a tree where the same Record or
// Sequence appears twice, so cycles survive conversion and terminate
// during fingerprinting.
func FromAny(v any) Value {
	return fromAny(v, make(map[uintptr]Value))
}

func fromAny(v any, seen map[uintptr]Value) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case *Record:
		return RecordValue(x)
	case *Sequence:
		return SequenceValue(x)
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Number(float64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Number(float64(x))
	case *big.Int:
		return BigInt(x)
	case big.Int:
		return BigInt(new(big.Int).Set(&x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return Value{}
	}
	return fromReflect(reflect.ValueOf(v), seen)
}

// fromReflect handles inputs without a direct case: named types, maps,
// slices, structs, pointers.
func fromReflect(rv reflect.Value, seen map[uintptr]Value) Value {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		if cached, ok := seen[rv.Pointer()]; ok {
			return cached
		}
		// Pointers are the only way a struct graph can cycle, so the
		// target's identity is registered before descending into it.
		if rv.Elem().Kind() == reflect.Struct {
			rec := NewRecord()
			out := RecordValue(rec)
			seen[rv.Pointer()] = out
			fillStructRecord(rec, rv.Elem(), seen)
			return out
		}
		return fromReflect(rv.Elem(), seen)
	case reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return fromAny(rv.Interface(), seen)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}
		}
		if rv.IsNil() {
			return Null()
		}
		if cached, ok := seen[rv.Pointer()]; ok {
			return cached
		}
		rec := NewRecord()
		out := RecordValue(rec)
		seen[rv.Pointer()] = out
		iter := rv.MapRange()
		for iter.Next() {
			rec.Set(iter.Key().String(), fromAny(iter.Value().Interface(), seen))
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return Null()
		}
		// Empty slices may share a base address; identity tracking
		// only applies when there is something to recurse into.
		if rv.Len() > 0 {
			if cached, ok := seen[rv.Pointer()]; ok {
				return cached
			}
		}
		seq := NewSequence()
		out := SequenceValue(seq)
		if rv.Len() > 0 {
			seen[rv.Pointer()] = out
		}
		for i := 0; i < rv.Len(); i++ {
			seq.Append(fromAny(rv.Index(i).Interface(), seen))
		}
		return out
	case reflect.Array:
		seq := NewSequence()
		for i := 0; i < rv.Len(); i++ {
			seq.Append(fromAny(rv.Index(i).Interface(), seen))
		}
		return SequenceValue(seq)
	case reflect.Struct:
		rec := NewRecord()
		fillStructRecord(rec, rv, seen)
		return RecordValue(rec)
	default:
		return Value{}
	}
}

func fillStructRecord(rec *Record, rv reflect.Value, seen map[uintptr]Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		rec.Set(sf.Name, fromAny(rv.Field(i).Interface(), seen))
	}
}
