package archivable

// This file implements the collection codecs of spec.md §4.2: ordered
// sequences, key/value mappings, unordered sets, and optionals. Each is a
// pair of free generic functions rather than a method on a container type,
// since Go cannot attach methods to built-in slice/map types; element
// encoding recurses through Writer.Write / Read[T], so sequences of
// references, strings, or nested records work without any special-casing
// here.

// WriteSequence writes an ordered sequence of T: its length as native-int,
// then each element's encoding in order (spec.md §4.2 "ordered sequence of
// T", P6).
func WriteSequence[T any](w *Writer, items []T) error {
	if err := w.writeNativeInt(int64(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// ReadSequence reads back a sequence written by WriteSequence.
func ReadSequence[T any](r *Reader) ([]T, error) {
	n, err := r.readNativeInt()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, newReadFailed("negative sequence length", nil)
	}
	items := make([]T, 0, n)
	for i := int64(0); i < n; i++ {
		v, err := Read[T](r)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// WriteMapping writes a mapping as two parallel sequences, keys then
// values, snapshotted from a single pass over m so that the key order and
// value order are guaranteed to line up on decode (spec.md §4.2, §9 Open
// Question #3 — iterating m twice independently would not make this
// guarantee, since Go's map iteration order is randomized per range).
func WriteMapping[K comparable, V any](w *Writer, m map[K]V) error {
	keys := make([]K, 0, len(m))
	values := make([]V, 0, len(m))
	for k, v := range m {
		keys = append(keys, k)
		values = append(values, v)
	}
	if err := WriteSequence(w, keys); err != nil {
		return err
	}
	return WriteSequence(w, values)
}

// ReadMapping reads back a mapping written by WriteMapping. The target map
// is always freshly allocated, satisfying the "decode must clear the
// target before populating" requirement of spec.md §4.2.
func ReadMapping[K comparable, V any](r *Reader) (map[K]V, error) {
	keys, err := ReadSequence[K](r)
	if err != nil {
		return nil, err
	}
	values, err := ReadSequence[V](r)
	if err != nil {
		return nil, err
	}
	if len(keys) != len(values) {
		return nil, newReadFailed("mapping key/value sequence lengths disagree", nil)
	}
	out := make(map[K]V, len(keys))
	for i, k := range keys {
		out[k] = values[i]
	}
	return out, nil
}

// WriteSet writes an unordered set of T as a sequence of T (spec.md §4.2
// "unordered set of T"). Sets are represented on the Go side as
// map[T]struct{}.
func WriteSet[T comparable](w *Writer, s map[T]struct{}) error {
	items := make([]T, 0, len(s))
	for v := range s {
		items = append(items, v)
	}
	return WriteSequence(w, items)
}

// ReadSet reads back a set written by WriteSet.
func ReadSet[T comparable](r *Reader) (map[T]struct{}, error) {
	items, err := ReadSequence[T](r)
	if err != nil {
		return nil, err
	}
	out := make(map[T]struct{}, len(items))
	for _, v := range items {
		out[v] = struct{}{}
	}
	return out, nil
}

// WriteOptional writes a single bool tag, followed by value's encoding iff
// present is true (spec.md §4.2 "optional T", P7).
func WriteOptional[T any](w *Writer, value T, present bool) error {
	if err := w.writeBool(present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return w.Write(value)
}

// ReadOptional reads back an optional written by WriteOptional.
func ReadOptional[T any](r *Reader) (value T, present bool, err error) {
	present, err = r.readBool()
	if err != nil || !present {
		return value, false, err
	}
	value, err = Read[T](r)
	if err != nil {
		return value, false, err
	}
	return value, true, nil
}
