package archivable

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"unicode/utf8"
)

// encodingVersion is the only wire-format version this package understands
// (spec.md I2). Any other value in the header is IncompatibleArchiver.
const encodingVersion = 1

// Reader owns the input source and the per-archive string and object
// materialization tables (spec.md §3, "Reader materialization tables"). As
// with Writer, it is created for one archive, used once via ReadRoot, and
// discarded; a Reader that fails mid-stream leaves its tables in whatever
// partial state they reached (spec.md §7).
type Reader struct {
	source io.Reader

	strings map[int64]string
	objects map[int64]any

	userVersion int64
	userInfo    any
}

// NewReader returns a Reader that consumes from source.
func NewReader(source io.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{
		source:  source,
		strings: make(map[int64]string),
		objects: make(map[int64]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UserInfo returns the opaque value attached via WithReaderUserInfo, or nil.
func (r *Reader) UserInfo() any { return r.userInfo }

// UserVersion returns the opaque user_version read from the archive
// header. It is only valid after ReadRoot has returned successfully.
func (r *Reader) UserVersion() int64 { return r.userVersion }

// ReadRoot decodes the archive header, validates encodingVersion, stashes
// user_version, and decodes one value of type T (spec.md §4.5).
func ReadRoot[T any](r *Reader) (T, error) {
	var zero T
	version, err := r.readNativeInt()
	if err != nil {
		return zero, err
	}
	if version != encodingVersion {
		return zero, newIncompatibleArchiver(version)
	}
	userVersion, err := r.readNativeInt()
	if err != nil {
		return zero, err
	}
	r.userVersion = userVersion
	return Read[T](r)
}

// Read is the polymorphic entry point (spec.md §4.5): it dispatches on T's
// kind exactly the way Writer.Write dispatches on a value's runtime kind.
// String and pointer (reference) types are routed through the intern
// tables; everything else is default-constructed, decoded, and awoken via
// its Decodable codec.
func Read[T any](r *Reader) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		s, err := r.readInternedString()
		if err != nil {
			return zero, err
		}
		return any(s).(T), nil
	case bool:
		v, err := r.readBool()
		return any(v).(T), err
	case int8:
		buf, err := r.ReadRawBytes(1)
		if err != nil {
			return zero, err
		}
		return any(int8(buf[0])).(T), nil
	case int16:
		v, err := r.readFixed16()
		return any(int16(v)).(T), err
	case int32:
		v, err := r.readFixed32()
		return any(int32(v)).(T), err
	case int64:
		v, err := r.readFixed64()
		return any(int64(v)).(T), err
	case int:
		// Platform-native width was always widened to 64-bit on the wire
		// (spec.md §4.1).
		v, err := r.readNativeInt()
		return any(int(v)).(T), err
	case uint8:
		buf, err := r.ReadRawBytes(1)
		if err != nil {
			return zero, err
		}
		return any(buf[0]).(T), nil
	case uint16:
		v, err := r.readFixed16()
		return any(v).(T), err
	case uint32:
		v, err := r.readFixed32()
		return any(v).(T), err
	case uint64:
		v, err := r.readFixed64()
		return any(v).(T), err
	case uint:
		v, err := r.readNativeUint()
		return any(uint(v)).(T), err
	case float32:
		v, err := r.readFloat32()
		return any(v).(T), err
	case float64:
		v, err := r.readFloat64()
		return any(v).(T), err
	case []byte:
		v, err := r.readBlob()
		return any(v).(T), err
	}

	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		v, err := r.readReference(typ)
		if err != nil {
			return zero, err
		}
		return v.(T), nil
	}

	dec, ok := any(&zero).(Decodable)
	if !ok {
		return zero, newReadFailed(fmt.Sprintf("type %T has no Decodable codec", zero), nil)
	}
	if err := dec.Decode(r); err != nil {
		return zero, err
	}
	if a, ok := any(&zero).(Awakable); ok {
		a.Awake()
	}
	return zero, nil
}

// readReference implements the reference read path of spec.md §4.5, the
// critical cycle-safe path: a cycle encountered mid-decode observes the
// slot already registered in r.objects and returns it as-is, per I4.
func (r *Reader) readReference(typ reflect.Type) (result any, err error) {
	id, err := r.readNativeInt()
	if err != nil {
		return nil, err
	}
	if obj, ok := r.objects[id]; ok {
		return obj, nil
	}

	elemType := typ.Elem()
	instVal := reflect.New(elemType)
	inst := instVal.Interface()

	// Register before decoding (I4): a cycle through this id during the
	// Decode call below must observe this exact, still-empty instance.
	r.objects[id] = inst

	dec, ok := inst.(Decodable)
	if !ok {
		return nil, newReadFailed(fmt.Sprintf("reference type %s has no Decodable codec", typ), nil)
	}
	if err := dec.Decode(r); err != nil {
		return nil, err
	}
	if a, ok := inst.(Awakable); ok {
		a.Awake()
	}
	return inst, nil
}

func (r *Reader) readBool() (bool, error) {
	buf, err := r.ReadRawBytes(1)
	if err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

func (r *Reader) readNativeInt() (int64, error) {
	buf, err := r.ReadRawBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(getUint64(buf)), nil
}

func (r *Reader) readNativeUint() (uint64, error) {
	buf, err := r.ReadRawBytes(8)
	if err != nil {
		return 0, err
	}
	return getUint64(buf), nil
}

// readFixed16/32/64 read a sized integer's big-endian byte image at its
// declared width, the mirror of Writer.writeFixed16/32/64.
func (r *Reader) readFixed16() (uint16, error) {
	buf, err := r.ReadRawBytes(2)
	if err != nil {
		return 0, err
	}
	return getUint16(buf), nil
}

func (r *Reader) readFixed32() (uint32, error) {
	buf, err := r.ReadRawBytes(4)
	if err != nil {
		return 0, err
	}
	return getUint32(buf), nil
}

func (r *Reader) readFixed64() (uint64, error) {
	buf, err := r.ReadRawBytes(8)
	if err != nil {
		return 0, err
	}
	return getUint64(buf), nil
}

func (r *Reader) readFloat32() (float32, error) {
	v, err := r.readFixed32()
	if err != nil {
		return 0, err
	}
	return float32FromBits(v), nil
}

func (r *Reader) readFloat64() (float64, error) {
	v, err := r.readFixed64()
	if err != nil {
		return 0, err
	}
	return float64FromBits(v), nil
}

// readBlob reads a length-prefixed byte blob: length as native-int, then
// that many raw bytes.
func (r *Reader) readBlob() ([]byte, error) {
	n, err := r.readNativeInt()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	if n < 0 {
		return nil, newReadFailed(fmt.Sprintf("negative blob length %d", n), nil)
	}
	return r.ReadRawBytes(int(n))
}

// readInternedString implements the string intern read path of spec.md
// §4.5.
func (r *Reader) readInternedString() (string, error) {
	id, err := r.readNativeInt()
	if err != nil {
		return "", err
	}
	if s, ok := r.strings[id]; ok {
		return s, nil
	}
	raw, err := r.readBlob()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", newReadFailed(fmt.Sprintf("string id %d is not valid UTF-8", id), nil)
	}
	s := string(raw)
	r.strings[id] = s
	return s, nil
}

// ReadRawBytes reads exactly count bytes from the source or fails with
// ReadFailed (spec.md §4.5).
func (r *Reader) ReadRawBytes(count int) ([]byte, error) {
	buf := make([]byte, count)
	if _, err := io.ReadFull(r.source, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, newReadFailed("source exhausted before count bytes were available", err)
		}
		return nil, newReadFailed("source read failed", err)
	}
	return buf, nil
}
