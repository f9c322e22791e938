package value

import "strconv"

// Handle is an opaque, non-owning reference to a slot in an arena.
// The zero Handle is reserved and always invalid.
type Handle uint64

// Valid reports whether h is not the reserved zero handle.
// It says nothing about whether an arena still holds h.
func (h Handle) Valid() bool { return h != 0 }

func (h Handle) String() string { return "#" + strconv.FormatUint(uint64(h), 16) }

// Symbol is an interned name. Symbols are only comparable for equality;
// the zero Symbol is never produced by an interner.
type Symbol uint32

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindConstArray
	KindObject
	KindObjPayload
	KindStruct
	KindObjectMap
	KindResource
	KindPromise
	KindUninitialized
	KindAppendPlaceholder
)

var kindNames = [...]string{
	KindNull:              "null",
	KindBool:              "bool",
	KindInt:               "int",
	KindFloat:             "float",
	KindString:            "string",
	KindArray:             "array",
	KindConstArray:        "const-array",
	KindObject:            "object",
	KindObjPayload:        "object-payload",
	KindStruct:            "struct",
	KindObjectMap:         "object-map",
	KindResource:          "resource",
	KindPromise:           "promise",
	KindUninitialized:     "uninitialized",
	KindAppendPlaceholder: "append-placeholder",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the payload stored in an arena slot.
// The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	Null  struct{}
	Bool  bool
	Int   int64
	Float float64
	// String is an immutable byte string; Go strings share their backing bytes.
	String string

	// Array holds shared ArrayData. The data must be treated as read-only
	// unless it was freshly cloned by the writer.
	Array struct{ Data *ArrayData }

	// ConstArray is a literal array produced at compile time. It is
	// materialized into an Array on first mutation.
	ConstArray struct{ Entries []ConstEntry }

	// Object is a reference to an ObjPayload slot. Copies of an Object
	// alias the same payload.
	Object struct{ Payload Handle }

	// ObjPayload is the mutable body an Object points to.
	ObjPayload struct{ Data *ObjectData }

	// Struct holds shared ObjectData with value semantics.
	Struct struct{ Data *ObjectData }

	// ObjectMap is a schemaless ordered property bag.
	ObjectMap struct{ Props *PropertyMap }

	Resource struct {
		Type string
		ID   int64
	}

	Promise struct {
		Result Handle
		State  PromiseState
	}

	Uninitialized     struct{}
	AppendPlaceholder struct{}
)

// ConstEntry is one key/value pair of a ConstArray.
type ConstEntry struct {
	Value Value
	Key   ArrayKey
}

// PromiseState is the settlement state of a Promise.
type PromiseState uint8

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

func (Null) Kind() Kind              { return KindNull }
func (Bool) Kind() Kind              { return KindBool }
func (Int) Kind() Kind               { return KindInt }
func (Float) Kind() Kind             { return KindFloat }
func (String) Kind() Kind            { return KindString }
func (Array) Kind() Kind             { return KindArray }
func (ConstArray) Kind() Kind        { return KindConstArray }
func (Object) Kind() Kind            { return KindObject }
func (ObjPayload) Kind() Kind        { return KindObjPayload }
func (Struct) Kind() Kind            { return KindStruct }
func (ObjectMap) Kind() Kind         { return KindObjectMap }
func (Resource) Kind() Kind          { return KindResource }
func (Promise) Kind() Kind           { return KindPromise }
func (Uninitialized) Kind() Kind     { return KindUninitialized }
func (AppendPlaceholder) Kind() Kind { return KindAppendPlaceholder }

func (Null) isValue()              {}
func (Bool) isValue()              {}
func (Int) isValue()               {}
func (Float) isValue()             {}
func (String) isValue()            {}
func (Array) isValue()             {}
func (ConstArray) isValue()        {}
func (Object) isValue()            {}
func (ObjPayload) isValue()        {}
func (Struct) isValue()            {}
func (ObjectMap) isValue()         {}
func (Resource) isValue()          {}
func (Promise) isValue()           {}
func (Uninitialized) isValue()     {}
func (AppendPlaceholder) isValue() {}

// TypeName returns the user-facing type name of v, as used in error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case nil, Null, Uninitialized:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Array, ConstArray:
		return "array"
	case Object, ObjPayload, Struct, ObjectMap:
		return "object"
	case Resource:
		return "resource"
	case Promise:
		return "promise"
	}
	return v.Kind().String()
}

// IsArrayLike reports whether v is an Array or ConstArray.
func IsArrayLike(v Value) bool {
	switch v.(type) {
	case Array, ConstArray:
		return true
	}
	return false
}

// Materialize converts a ConstArray into ArrayData, allocating nested
// constant values through alloc. Later duplicate keys overwrite earlier ones.
func (c ConstArray) Materialize(alloc func(Value) Handle) *ArrayData {
	d := NewArrayData(len(c.Entries))
	for _, e := range c.Entries {
		d.Set(e.Key, alloc(e.Value))
	}
	return d
}
