package dicom

import "bytes"

const preambleSize = 128

var magicDICM = []byte("DICM")

// Parse decodes a Part-10 style binary buffer into a Dataset.
//
// The layout handled is: 128-byte preamble, "DICM" marker, file meta group
// (always explicit VR little endian), then the main dataset in the
// encoding named by the meta group's transfer syntax UID. Buffers without
// the preamble and marker are retried from offset zero with a sniffed
// encoding mode and a warning.
//
// Element decoding stops at the pixel data element: its header and raw
// value are captured, but nothing after it is read.
//
// A non-nil error is always a *DecodeError describing structural damage.
// The returned dataset is non-nil even then and holds every element
// decoded before the failure, alongside the failure text in Errors.
func Parse(buf []byte) (*Dataset, error) {
	ds := NewDataset()
	r := &reader{buf: buf, little: true}

	if len(buf) >= preambleSize+4 && bytes.Equal(buf[preambleSize:preambleSize+4], magicDICM) {
		r.pos = preambleSize + 4
	} else {
		ds.warnf("no DICM marker after %d-byte preamble, assuming headerless stream", preambleSize)
		if !sniffExplicitVR(buf) {
			ds.ImplicitVR = true
		}
	}

	if err := parseMetaGroup(r, ds); err != nil {
		ds.Errors = append(ds.Errors, err.Error())
		return ds, err
	}

	applyTransferSyntax(r, ds)

	for r.remaining() > 0 {
		elem, err := decodeElement(r, ds)
		if err != nil {
			ds.Errors = append(ds.Errors, err.Error())
			return ds, err
		}
		ds.add(elem)
		if elem.Tag == TagPixelData {
			break
		}
	}
	return ds, nil
}

// sniffExplicitVR guesses the encoding mode of a headerless stream from
// the two bytes where an explicit-VR code would sit in the first element.
func sniffExplicitVR(buf []byte) bool {
	if len(buf) < 6 {
		return true
	}
	return plausibleVR(buf[4], buf[5])
}

// parseMetaGroup decodes the group 0x0002 file meta elements into ds. The
// meta group is always explicit VR little endian regardless of the
// transfer syntax it announces. The group length element bounds the run
// when present; otherwise elements are consumed while their group stays
// 0x0002.
func parseMetaGroup(r *reader, ds *Dataset) error {
	first, err := r.peekTag()
	if err != nil || first.Group != 0x0002 {
		if r.remaining() > 0 {
			ds.warnf("no file meta group at offset %d", r.pos)
		}
		return nil
	}

	// Meta elements are explicit VR no matter what the sniff decided.
	savedImplicit := ds.ImplicitVR
	ds.ImplicitVR = false
	defer func() { ds.ImplicitVR = savedImplicit }()

	metaEnd := -1
	for r.remaining() > 0 {
		next, err := r.peekTag()
		if err != nil {
			return err
		}
		if next.Group != 0x0002 {
			break
		}
		if metaEnd >= 0 && r.pos >= metaEnd {
			break
		}

		elem, err := decodeElement(r, ds)
		if err != nil {
			return err
		}
		ds.add(elem)

		if elem.Tag == TagFileMetaGroupLength {
			if vs, ok := elem.Value.(Ints); ok && len(vs) > 0 {
				groupLen := int(vs[0])
				if err := r.need(groupLen); err != nil {
					return decodeErrorf(elem.ByteOffset, "file meta group length %d exceeds buffer", groupLen)
				}
				metaEnd = r.pos + groupLen
			}
		}
	}

	if metaEnd >= 0 && r.pos < metaEnd {
		ds.warnf("file meta group ended %d bytes before its declared length", metaEnd-r.pos)
		r.pos = metaEnd
	}
	return nil
}

// applyTransferSyntax fixes the dataset's encoding mode for the main
// element loop from the meta group's transfer syntax UID.
func applyTransferSyntax(r *reader, ds *Dataset) {
	uid := ds.GetString(TagTransferSyntaxUID, "")
	if uid == "" {
		// Headerless streams keep the sniffed mode.
		if _, ok := ds.Get(TagFileMetaGroupLength); ok {
			ds.warnf("file meta group has no transfer syntax UID, assuming explicit VR little endian")
		}
		return
	}

	ds.TransferSyntaxUID = uid
	little, implicit, known := resolveTransferSyntax(uid)
	if !known {
		ds.warnf("unknown transfer syntax %q, assuming explicit VR little endian", uid)
	}
	ds.LittleEndian = little
	ds.ImplicitVR = implicit
	r.little = little
}
