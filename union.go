package archivable

import "reflect"

// TaggedUnionRepr constrains the underlying scalar types a tagged union's
// discriminator may be represented as (spec.md §4.2, "tagged-union type
// whose representation is an archivable scalar"). Dynamic, type-tag-based
// polymorphism (an open-ended Any) is explicitly out of scope (spec.md §1
// Non-goals); a tagged union here is always a closed, named set of
// variants backed by one fixed-width integer representation.
type TaggedUnionRepr interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// WriteTaggedUnion writes v by delegating to the scalar codec of its
// representation.
func WriteTaggedUnion[T TaggedUnionRepr](w *Writer, v T) error {
	return w.Write(scalarOf(v))
}

// ReadTaggedUnion reads back a tagged union written by WriteTaggedUnion.
// isValid reports whether the decoded scalar corresponds to a defined
// variant; if it does not, decode fails with ReadFailed rather than
// silently producing an out-of-range discriminator (spec.md §4.2, §7).
func ReadTaggedUnion[T TaggedUnionRepr](r *Reader, isValid func(T) bool) (T, error) {
	v, err := readScalarAs[T](r)
	if err != nil {
		return v, err
	}
	if !isValid(v) {
		return v, newReadFailed("tagged-union discriminator does not correspond to a valid variant", nil)
	}
	return v, nil
}

// scalarOf widens v to the exact builtin numeric type Writer.Write's type
// switch recognizes. A defined type like `type Color uint8` has Color, not
// uint8, as its dynamic type when boxed into an any, so Write would
// otherwise fall through to the Encodable branch and fail; reflect.Kind
// reports the underlying representation regardless of the defined name.
func scalarOf[T TaggedUnionRepr](v T) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8:
		return int8(rv.Int())
	case reflect.Int16:
		return int16(rv.Int())
	case reflect.Int32:
		return int32(rv.Int())
	case reflect.Int64:
		return rv.Int()
	case reflect.Uint8:
		return uint8(rv.Uint())
	case reflect.Uint16:
		return uint16(rv.Uint())
	case reflect.Uint32:
		return uint32(rv.Uint())
	case reflect.Uint64:
		return rv.Uint()
	default:
		panic("archivable: unreachable: TaggedUnionRepr exhausted")
	}
}

// readScalarAs reads the scalar representation of T and converts it back
// to the named type.
func readScalarAs[T TaggedUnionRepr](r *Reader) (T, error) {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8:
		v, err := Read[int8](r)
		return T(v), err
	case reflect.Int16:
		v, err := Read[int16](r)
		return T(v), err
	case reflect.Int32:
		v, err := Read[int32](r)
		return T(v), err
	case reflect.Int64:
		v, err := Read[int64](r)
		return T(v), err
	case reflect.Uint8:
		v, err := Read[uint8](r)
		return T(v), err
	case reflect.Uint16:
		v, err := Read[uint16](r)
		return T(v), err
	case reflect.Uint32:
		v, err := Read[uint32](r)
		return T(v), err
	case reflect.Uint64:
		v, err := Read[uint64](r)
		return T(v), err
	default:
		panic("archivable: unreachable: TaggedUnionRepr exhausted")
	}
}
