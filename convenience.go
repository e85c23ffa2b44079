package archivable

import "bytes"

// EncodeToBytes is a convenience wrapper around Writer.WriteRoot that
// returns the full encoded archive as a byte slice (spec.md §6,
// "encode_to_bytes(value, user_version) → byte_blob").
func EncodeToBytes(value any, userVersion int64) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteRoot(value, userVersion); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeFromBytes is a convenience wrapper around ReadRoot that decodes a
// full archive held in memory, returning the decoded value and the
// archive's user_version.
func DecodeFromBytes[T any](data []byte) (T, int64, error) {
	r := NewReader(bytes.NewReader(data))
	v, err := ReadRoot[T](r)
	if err != nil {
		return v, 0, err
	}
	return v, r.UserVersion(), nil
}
