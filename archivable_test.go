package archivable

// Shared fixtures for the test suite: a plain value record (Point), a
// reference record with a required link to a Node, possibly itself (Node),
// a reference record whose link may be absent (NilableNode), and a closed tagged
// union (Color). These mirror the concrete scenarios of spec.md §8.

// Point is a plain value type: no heap identity, described entirely by
// its Schema.
type Point struct {
	X, Y int32
}

var pointSchema = NewSchema[Point](
	NewField(func(p *Point) int32 { return p.X }, func(p *Point, v int32) { p.X = v }),
	NewField(func(p *Point) int32 { return p.Y }, func(p *Point, v int32) { p.Y = v }),
)

func (p Point) Encode(w *Writer) error  { return pointSchema.Encode(w, &p) }
func (p *Point) Decode(r *Reader) error { return pointSchema.Decode(r, p) }

// Node is a reference type: instances are shared and cycled through
// pointers, so Writer/Reader intern it by heap identity rather than by
// value.
type Node struct {
	Value   int32
	Label   string
	Next    *Node
	awoken  bool
	decoded bool
}

var nodeSchema = NewSchema[Node](
	NewField(func(n *Node) int32 { return n.Value }, func(n *Node, v int32) { n.Value = v }),
	NewField(func(n *Node) string { return n.Label }, func(n *Node, v string) { n.Label = v }),
	NewField(func(n *Node) *Node { return n.Next }, func(n *Node, v *Node) { n.Next = v }),
)

func (n *Node) Encode(w *Writer) error { return nodeSchema.Encode(w, n) }
func (n *Node) Decode(r *Reader) error { n.decoded = true; return nodeSchema.Decode(r, n) }
func (n *Node) Awake()                 { n.awoken = true }

// NilableNode is a reference type whose Next may legitimately be absent;
// it is encoded via WriteOptional/ReadOptional instead of a bare pointer
// field, since a bare *Node field always round-trips through the
// reference intern path and a nil one there is a write error (see
// writer_test.go TestWriteNilReference).
type NilableNode struct {
	Value int32
	Next  *NilableNode
}

func (n *NilableNode) Encode(w *Writer) error {
	if err := w.Write(n.Value); err != nil {
		return err
	}
	return WriteOptional(w, n.Next, n.Next != nil)
}

func (n *NilableNode) Decode(r *Reader) error {
	v, err := Read[int32](r)
	if err != nil {
		return err
	}
	n.Value = v
	next, present, err := ReadOptional[*NilableNode](r)
	if err != nil {
		return err
	}
	if present {
		n.Next = next
	}
	return nil
}

// StringPair is a plain value record with two string fields, used to
// exercise P2 (idempotent interning) across a record boundary.
type StringPair struct {
	A, B string
}

var stringPairSchema = NewSchema[StringPair](
	NewField(func(p *StringPair) string { return p.A }, func(p *StringPair, v string) { p.A = v }),
	NewField(func(p *StringPair) string { return p.B }, func(p *StringPair, v string) { p.B = v }),
)

func (p StringPair) Encode(w *Writer) error  { return stringPairSchema.Encode(w, &p) }
func (p *StringPair) Decode(r *Reader) error { return stringPairSchema.Decode(r, p) }

// Color is a closed tagged union backed by a uint8 discriminator.
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

func (c Color) valid() bool {
	switch c {
	case ColorRed, ColorGreen, ColorBlue:
		return true
	default:
		return false
	}
}
