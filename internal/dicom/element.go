package dicom

import (
	"encoding/binary"
	"math"
	"strings"
)

// reader is a bounds-checked cursor over the input buffer. Every read
// past the end yields a DecodeError carrying the offending offset; the
// decoder never panics on truncated input.
type reader struct {
	buf    []byte
	pos    int
	little bool
}

func (r *reader) order() binary.ByteOrder {
	if r.little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return decodeErrorf(r.pos, "need %d bytes, %d remain", n, r.remaining())
	}
	return nil
}

func (r *reader) uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := r.order().Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

func (r *reader) uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := r.order().Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// tag reads a 4-byte tag: group then element, each in the stream's
// current byte order.
func (r *reader) tag() (Tag, error) {
	if err := r.need(4); err != nil {
		return Tag{}, err
	}
	group := r.order().Uint16(r.buf[r.pos : r.pos+2])
	element := r.order().Uint16(r.buf[r.pos+2 : r.pos+4])
	r.pos += 4
	return Tag{Group: group, Element: element}, nil
}

func (r *reader) peekTag() (Tag, error) {
	if err := r.need(4); err != nil {
		return Tag{}, err
	}
	group := r.order().Uint16(r.buf[r.pos : r.pos+2])
	element := r.order().Uint16(r.buf[r.pos+2 : r.pos+4])
	return Tag{Group: group, Element: element}, nil
}

// decodeElement decodes one tag-length-value element at the reader's
// position using the dataset's fixed encoding mode, returning the element
// with the reader advanced to the byte immediately following it.
//
// Continuable oddities (unknown VR, non-integral numeric lengths) are
// recorded as warnings on ds; structural failures return a DecodeError.
func decodeElement(r *reader, ds *Dataset) (*Element, error) {
	start := r.pos

	tag, err := r.tag()
	if err != nil {
		return nil, err
	}

	var vr string
	var length uint32

	if ds.ImplicitVR {
		vr = DictionaryVR(tag)
		length, err = r.uint32()
		if err != nil {
			return nil, err
		}
	} else {
		if err := r.need(2); err != nil {
			return nil, err
		}
		b0, b1 := r.buf[r.pos], r.buf[r.pos+1]
		if !plausibleVR(b0, b1) {
			return nil, decodeErrorf(r.pos, "invalid VR bytes %#02x %#02x for tag %s", b0, b1, tag)
		}
		vr = string([]byte{b0, b1})
		r.pos += 2

		if !knownVR(vr) {
			ds.warnf("unknown VR %q for tag %s at offset %d, decoding as UN", vr, tag, start)
		}

		if longFormVRs[vr] {
			// 2 reserved bytes precede the 32-bit length.
			if _, err := r.uint16(); err != nil {
				return nil, err
			}
			length, err = r.uint32()
			if err != nil {
				return nil, err
			}
		} else {
			l16, err := r.uint16()
			if err != nil {
				return nil, err
			}
			length = uint32(l16)
		}
	}

	elem := &Element{
		Tag:         tag,
		VR:          vr,
		Length:      length,
		ByteOffset:  start,
		ValueOffset: r.pos,
	}

	elem.Value, err = decodeValue(r, ds, elem)
	if err != nil {
		return nil, err
	}
	return elem, nil
}

func decodeValue(r *reader, ds *Dataset, elem *Element) (Value, error) {
	kind, ok := vrKinds[elem.VR]
	if !ok {
		kind = kindBulk
	}

	if elem.Length == UndefinedLength {
		switch {
		case kind == kindSequence, elem.VR == "UN":
			// Undefined-length UN is a sequence in disguise (PS3.5 6.2.2),
			// typically an implicit-VR element missing from the dictionary.
			return decodeSequence(r, ds, UndefinedLength), nil
		case elem.Tag == TagPixelData:
			// Undefined-length pixel data means encapsulated (compressed)
			// frames, which this core does not decode. Hand the remainder
			// of the buffer to the caller unchanged.
			ds.warnf("encapsulated pixel data at offset %d is not supported, keeping raw remainder", elem.ByteOffset)
			rest, _ := r.bytes(r.remaining())
			return Bytes(rest), nil
		default:
			return nil, decodeErrorf(elem.ByteOffset, "undefined length on non-sequence element %s (%s)", elem.Tag, elem.VR)
		}
	}

	switch kind {
	case kindText:
		return decodeText(r, elem)
	case kindBinaryNumber:
		return decodeNumbers(r, ds, elem)
	case kindSequence:
		return decodeSequence(r, ds, elem.Length), nil
	default:
		b, err := r.bytes(int(elem.Length))
		if err != nil {
			return nil, err
		}
		return Bytes(b), nil
	}
}

// decodeText reads a textual value field, splits it on the DICOM value
// multiplicity delimiter and strips NUL padding and surrounding
// whitespace from each part.
func decodeText(r *reader, elem *Element) (Value, error) {
	if elem.Length == 0 {
		return Strings{}, nil
	}
	b, err := r.bytes(int(elem.Length))
	if err != nil {
		return nil, err
	}
	parts := strings.Split(string(b), "\\")
	for i, s := range parts {
		parts[i] = strings.Trim(s, "\x00 \t\r\n")
	}
	return Strings(parts), nil
}

// decodeNumbers reads one or more fixed-width binary scalars. A value
// field longer than one scalar decodes as an array (multi-valued
// elements, e.g. paired Window Center values).
func decodeNumbers(r *reader, ds *Dataset, elem *Element) (Value, error) {
	width := numberWidth(elem.VR)
	count := int(elem.Length) / width
	if int(elem.Length)%width != 0 {
		ds.warnf("length %d of %s element %s at offset %d is not a multiple of %d, trailing bytes ignored",
			elem.Length, elem.VR, elem.Tag, elem.ByteOffset, width)
	}

	b, err := r.bytes(int(elem.Length))
	if err != nil {
		return nil, err
	}
	order := r.order()

	switch elem.VR {
	case "US":
		vs := make(Ints, count)
		for i := range vs {
			vs[i] = int64(order.Uint16(b[i*2:]))
		}
		return vs, nil
	case "SS":
		vs := make(Ints, count)
		for i := range vs {
			vs[i] = int64(int16(order.Uint16(b[i*2:])))
		}
		return vs, nil
	case "UL":
		vs := make(Ints, count)
		for i := range vs {
			vs[i] = int64(order.Uint32(b[i*4:]))
		}
		return vs, nil
	case "SL":
		vs := make(Ints, count)
		for i := range vs {
			vs[i] = int64(int32(order.Uint32(b[i*4:])))
		}
		return vs, nil
	case "FL":
		vs := make(Floats, count)
		for i := range vs {
			vs[i] = float64(math.Float32frombits(order.Uint32(b[i*4:])))
		}
		return vs, nil
	case "FD":
		vs := make(Floats, count)
		for i := range vs {
			vs[i] = math.Float64frombits(order.Uint64(b[i*8:]))
		}
		return vs, nil
	}
	return Bytes(b), nil
}
