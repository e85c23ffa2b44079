/*
Package archivable implements a binary archiving engine: it serializes
object and value graphs into a compact stream and faithfully reconstructs
them. Its distinguishing feature over naive byte serialization is identity
preservation — shared references (objects and strings) appear in the
output exactly once, and on decode they are restored as shared references
to the same reconstructed entity.

A Writer assigns identities, dedupes, and emits; a Reader performs
two-phase instance materialization and resolves back-references. Both
operate on a single archive: they are constructed for one top-level value,
used once, and discarded. Their intern tables do not survive across
archives.

# Basic usage

Encoding a value that implements Encodable:

	data, err := archivable.EncodeToBytes(point, 1)

Decoding it back:

	p, userVersion, err := archivable.DecodeFromBytes[Point](data)

For streaming use, construct a Writer/Reader directly over any io.Writer/
io.Reader:

	w := archivable.NewWriter(sink)
	if err := w.WriteRoot(value, userVersion); err != nil { ... }

	r := archivable.NewReader(source)
	v, err := archivable.ReadRoot[Point](r)

# Reference types

A reference type is any Go type used through a pointer that has heap
identity worth preserving across the archive — shared pointers round-trip
as shared pointers, and cycles through such pointers are reconstructed
intact. A reference type must implement Encodable and Decodable on its
pointer receiver, and may optionally implement Awakable to run
post-decode fixups. Reader materializes a reference in two phases: it
default-constructs an empty instance and registers it under its wire id
before decoding its fields, so that a cycle encountered mid-decode
resolves to the same, possibly still-populating, instance.

Plain values (including records described via Schema) have no identity;
each occurrence is encoded in place. Strings are value-typed but interned
like references: the first occurrence carries the payload, later
occurrences are a single back-reference id.

No compression, no schema migration, and no type-tag–based dynamic
polymorphism are implemented: Reader and Writer must agree on the static
type tree ahead of time.
*/
package archivable
