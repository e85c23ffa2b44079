package archivable

import (
	"io"
	"reflect"
)

// Writer owns the output sink and the per-archive string-intern and
// object-identity tables (spec.md §3, "Writer interning tables"). It is
// created for one archive, used for one top-level value via WriteRoot, and
// then discarded: its tables are not reusable across archives, and it is
// not safe for concurrent use.
//
// The ptr→id bookkeeping mirrors vom.Encoder's stateV.ptrToRefID /
// nextRefID almost exactly; the difference is that vom tracks reflect
// uintptrs for its dynamically-typed Value model, while this Writer keys
// directly off the any-boxed pointer, since the static type tree is known
// at every call site.
type Writer struct {
	sink io.Writer

	stringIDs map[string]int64
	objectIDs map[any]int64

	userInfo any
}

// NewWriter returns a Writer that emits to sink.
func NewWriter(sink io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		sink:      sink,
		stringIDs: make(map[string]int64),
		objectIDs: make(map[any]int64),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// UserInfo returns the opaque value attached via WithWriterUserInfo, or nil.
func (w *Writer) UserInfo() any { return w.userInfo }

// WriteRoot emits the archive header (encodingVersion=1, then userVersion,
// both as native-int) followed by value's wire encoding (spec.md I2, §6).
func (w *Writer) WriteRoot(value any, userVersion int64) error {
	if err := w.writeNativeInt(encodingVersion); err != nil {
		return err
	}
	if err := w.writeNativeInt(userVersion); err != nil {
		return err
	}
	return w.Write(value)
}

// Write is the polymorphic entry point (spec.md §4.4). It dispatches on the
// value's kind: string and reference values are routed through the intern
// tables; everything else is encoded in place via its Encodable codec (or,
// for raw-byte-convertible scalars, via the built-in codec of §4.1/§4.2).
func (w *Writer) Write(value any) error {
	switch v := value.(type) {
	case string:
		return w.writeInternedString(v)
	case bool:
		return w.writeBool(v)
	case int8:
		return w.WriteRawBytes([]byte{byte(v)})
	case int16:
		return w.writeFixed16(uint16(v))
	case int32:
		return w.writeFixed32(uint32(v))
	case int64:
		return w.writeFixed64(uint64(v))
	case int:
		// Platform-native width is always widened to 64-bit on the wire
		// (spec.md §4.1).
		return w.writeNativeInt(int64(v))
	case uint8:
		return w.WriteRawBytes([]byte{v})
	case uint16:
		return w.writeFixed16(v)
	case uint32:
		return w.writeFixed32(v)
	case uint64:
		return w.writeFixed64(v)
	case uint:
		return w.writeNativeUint(uint64(v))
	case float32:
		return w.writeFloat32(v)
	case float64:
		return w.writeFloat64(v)
	case []byte:
		return w.writeBlob(v)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		return w.writeReference(value, rv)
	}

	enc, ok := value.(Encodable)
	if !ok {
		return newWriteFailed("value has no Encodable codec", nil) //nolint:err113
	}
	return enc.Encode(w)
}

// WriteRawBytes is a direct passthrough to the sink for codec internals
// (spec.md §4.4). It fails with WriteFailed if the sink accepts fewer
// bytes than requested.
func (w *Writer) WriteRawBytes(p []byte) error {
	n, err := w.sink.Write(p)
	if err != nil {
		return newWriteFailed("sink write failed", err)
	}
	if n < len(p) {
		return newWriteFailed("short write", nil)
	}
	return nil
}

// writeInternedString implements the string intern path of spec.md §4.4.
func (w *Writer) writeInternedString(s string) error {
	if id, ok := w.stringIDs[s]; ok {
		return w.writeNativeInt(id)
	}
	id := int64(len(w.stringIDs))
	w.stringIDs[s] = id
	if err := w.writeNativeInt(id); err != nil {
		return err
	}
	return w.writeBlob([]byte(s))
}

// writeReference implements the reference intern path of spec.md §4.4. The
// object identity key is the any-boxed pointer itself: Go interface
// equality for two pointer values of the same concrete type is exactly
// pointer equality, which is the heap identity the spec requires.
func (w *Writer) writeReference(value any, rv reflect.Value) error {
	if rv.IsNil() {
		return newWriteFailed("cannot intern a nil reference", nil)
	}
	if id, ok := w.objectIDs[value]; ok {
		return w.writeNativeInt(id)
	}
	id := int64(len(w.objectIDs))
	w.objectIDs[value] = id
	if err := w.writeNativeInt(id); err != nil {
		return err
	}
	enc, ok := value.(Encodable)
	if !ok {
		return newWriteFailed("reference type has no Encodable codec", nil)
	}
	return enc.Encode(w)
}

func (w *Writer) writeBool(v bool) error {
	if v {
		return w.WriteRawBytes([]byte{1})
	}
	return w.WriteRawBytes([]byte{0})
}

func (w *Writer) writeNativeInt(v int64) error {
	var buf [8]byte
	putUint64(buf[:], uint64(v))
	return w.WriteRawBytes(buf[:])
}

func (w *Writer) writeNativeUint(v uint64) error {
	var buf [8]byte
	putUint64(buf[:], v)
	return w.WriteRawBytes(buf[:])
}

// writeFixed16/32/64 write a sized integer's big-endian byte image at its
// declared width — unlike writeNativeInt/writeNativeUint, these do not
// widen to 64 bits (spec.md §4.1, "fixed-width int | big-endian bytes of
// width").
func (w *Writer) writeFixed16(v uint16) error {
	var buf [2]byte
	putUint16(buf[:], v)
	return w.WriteRawBytes(buf[:])
}

func (w *Writer) writeFixed32(v uint32) error {
	var buf [4]byte
	putUint32(buf[:], v)
	return w.WriteRawBytes(buf[:])
}

func (w *Writer) writeFixed64(v uint64) error {
	var buf [8]byte
	putUint64(buf[:], v)
	return w.WriteRawBytes(buf[:])
}

func (w *Writer) writeFloat32(v float32) error {
	return w.writeFixed32(float32Bits(v))
}

func (w *Writer) writeFloat64(v float64) error {
	return w.writeFixed64(float64Bits(v))
}

// writeBlob writes a length-prefixed byte blob: length as native-int, then
// the raw bytes (spec.md §4.2, "byte blob").
func (w *Writer) writeBlob(p []byte) error {
	if err := w.writeNativeInt(int64(len(p))); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	return w.WriteRawBytes(p)
}
