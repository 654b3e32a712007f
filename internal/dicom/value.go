package dicom

// ValueKind discriminates the closed set of decoded payload categories.
type ValueKind int

const (
	// KindStrings holds one or more backslash-separated text values.
	KindStrings ValueKind = iota
	// KindInts holds integer scalars decoded from US/UL/SS/SL.
	KindInts
	// KindFloats holds floating point scalars decoded from FL/FD.
	KindFloats
	// KindBytes holds a raw byte range (OB/OW/UN and friends).
	KindBytes
	// KindSequence holds the ordered item datasets of an SQ element.
	KindSequence
)

// Value is the decoded payload of an element. It is a closed union: the
// only implementations are Strings, Ints, Floats, Bytes and Sequence,
// selected by VR at decode time.
type Value interface {
	Kind() ValueKind
}

// Strings is the payload of textual VRs, already split on the DICOM
// backslash delimiter and stripped of NUL/space padding.
type Strings []string

// Kind implements Value.
func (Strings) Kind() ValueKind { return KindStrings }

// Ints is the payload of integer VRs. A multi-valued element (length a
// multiple of the scalar width) decodes to multiple entries.
type Ints []int64

// Kind implements Value.
func (Ints) Kind() ValueKind { return KindInts }

// Floats is the payload of FL/FD elements.
type Floats []float64

// Kind implements Value.
func (Floats) Kind() ValueKind { return KindFloats }

// Bytes is an opaque payload, a sub-slice of the decoded buffer. The
// caller reinterprets it, e.g. as pixel data.
type Bytes []byte

// Kind implements Value.
func (Bytes) Kind() ValueKind { return KindBytes }

// Sequence is the payload of an SQ element: nested item datasets in file
// order.
type Sequence []*Dataset

// Kind implements Value.
func (Sequence) Kind() ValueKind { return KindSequence }
