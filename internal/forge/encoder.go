// Package forge builds binary DICOM fixtures. The Encoder assembles
// element streams byte by byte, which is what decoder tests need: full
// control over VR forms, lengths, delimiters and deliberate damage. The
// file writer in fixture.go produces complete realistic files through an
// independent third-party writer.
package forge

import (
	"bytes"
	"encoding/binary"
)

// UndefinedLength marks sequences and items framed by delimiters.
const UndefinedLength = 0xFFFFFFFF

var longFormVRs = map[string]bool{
	"OB": true, "OD": true, "OF": true, "OL": true, "OW": true,
	"SQ": true, "UC": true, "UN": true, "UR": true, "UT": true,
}

// Encoder writes DICOM elements in one fixed encoding mode. Zero value is
// not usable; construct with NewEncoder.
type Encoder struct {
	buf      bytes.Buffer
	little   bool
	implicit bool
}

func NewEncoder(littleEndian, implicitVR bool) *Encoder {
	return &Encoder{little: littleEndian, implicit: implicitVR}
}

func (e *Encoder) order() binary.ByteOrder {
	if e.little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e *Encoder) putUint16(v uint16) {
	var b [2]byte
	e.order().PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) putUint32(v uint32) {
	var b [4]byte
	e.order().PutUint32(b[:], v)
	e.buf.Write(b[:])
}

// RawTag writes just a 4-byte tag, for hand-building item framing.
func (e *Encoder) RawTag(group, element uint16) {
	e.putUint16(group)
	e.putUint16(element)
}

// RawUint32 writes a bare 32-bit value, for hand-building item framing.
func (e *Encoder) RawUint32(v uint32) {
	e.putUint32(v)
}

// Raw appends arbitrary bytes unchanged.
func (e *Encoder) Raw(b []byte) {
	e.buf.Write(b)
}

// header writes tag, VR and length per the encoder's mode.
func (e *Encoder) header(group, element uint16, vr string, length uint32) {
	e.RawTag(group, element)
	if e.implicit {
		e.putUint32(length)
		return
	}
	e.buf.WriteString(vr)
	if longFormVRs[vr] {
		e.putUint16(0)
		e.putUint32(length)
	} else {
		e.putUint16(uint16(length))
	}
}

// Element writes a complete element with an even-padded value field.
// Textual VRs pad with a trailing space, everything else with NUL.
func (e *Encoder) Element(group, element uint16, vr string, value []byte) {
	if len(value)%2 != 0 {
		pad := byte(0)
		switch vr {
		case "AE", "AS", "CS", "DA", "DS", "DT", "IS", "LO", "LT",
			"PN", "SH", "ST", "TM", "UC", "UR", "UT":
			pad = ' '
		}
		value = append(append([]byte{}, value...), pad)
	}
	e.header(group, element, vr, uint32(len(value)))
	e.buf.Write(value)
}

// Text writes a string element, joining multiple values with the DICOM
// backslash delimiter.
func (e *Encoder) Text(group, element uint16, vr string, values ...string) {
	e.Element(group, element, vr, []byte(join(values)))
}

// UInt16s writes a US element.
func (e *Encoder) UInt16s(group, element uint16, values ...uint16) {
	payload := make([]byte, 2*len(values))
	for i, v := range values {
		e.order().PutUint16(payload[i*2:], v)
	}
	e.header(group, element, "US", uint32(len(payload)))
	e.buf.Write(payload)
}

// UInt32s writes a UL element.
func (e *Encoder) UInt32s(group, element uint16, values ...uint32) {
	payload := make([]byte, 4*len(values))
	for i, v := range values {
		e.order().PutUint32(payload[i*4:], v)
	}
	e.header(group, element, "UL", uint32(len(payload)))
	e.buf.Write(payload)
}

// Sequence writes an SQ element with a defined length enclosing
// defined-length items. Each item payload comes from a child encoder in
// the same mode.
func (e *Encoder) Sequence(group, element uint16, items ...[]byte) {
	var body bytes.Buffer
	for _, item := range items {
		var b [4]byte
		e.order().PutUint16(b[:2], 0xFFFE)
		e.order().PutUint16(b[2:], 0xE000)
		body.Write(b[:])
		e.order().PutUint32(b[:], uint32(len(item)))
		body.Write(b[:])
		body.Write(item)
	}
	e.header(group, element, "SQ", uint32(body.Len()))
	e.buf.Write(body.Bytes())
}

// SequenceUndefined writes an SQ element with undefined length,
// undefined-length items, and the full set of delimiters.
func (e *Encoder) SequenceUndefined(group, element uint16, items ...[]byte) {
	e.header(group, element, "SQ", UndefinedLength)
	for _, item := range items {
		e.RawTag(0xFFFE, 0xE000)
		e.putUint32(UndefinedLength)
		e.buf.Write(item)
		e.RawTag(0xFFFE, 0xE00D)
		e.putUint32(0)
	}
	e.RawTag(0xFFFE, 0xE0DD)
	e.putUint32(0)
}

// TruncatedElement writes an element header whose declared length runs
// past the bytes that follow it. Only keep bytes of the value are written.
func (e *Encoder) TruncatedElement(group, element uint16, vr string, declared uint32, keep []byte) {
	e.header(group, element, vr, declared)
	e.buf.Write(keep)
}

func (e *Encoder) Len() int {
	return e.buf.Len()
}

func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

func join(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	out := values[0]
	for _, v := range values[1:] {
		out += "\\" + v
	}
	return out
}

// File wraps a main dataset body into a Part-10 buffer: 128-byte
// preamble, DICM marker, then the file meta group (always explicit little
// endian) announcing the given transfer syntax.
func File(transferSyntaxUID, sopInstanceUID string, body []byte) []byte {
	meta := NewEncoder(true, false)
	if sopInstanceUID != "" {
		meta.Text(0x0002, 0x0003, "UI", sopInstanceUID)
	}
	meta.Text(0x0002, 0x0010, "UI", transferSyntaxUID)
	metaBytes := meta.Bytes()

	head := NewEncoder(true, false)
	head.UInt32s(0x0002, 0x0000, uint32(len(metaBytes)))

	out := make([]byte, 128, 128+4+head.Len()+len(metaBytes)+len(body))
	out = append(out, "DICM"...)
	out = append(out, head.Bytes()...)
	out = append(out, metaBytes...)
	out = append(out, body...)
	return out
}
