package dicom

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gchahal1982/G3DAI-sub005/internal/forge"
)

// explicitBody builds a typical main dataset in explicit VR little endian.
func explicitBody() *forge.Encoder {
	e := forge.NewEncoder(true, false)
	e.Text(0x0010, 0x0010, "PN", "DOE^JANE")
	e.Text(0x0008, 0x0060, "CS", "MR")
	e.Text(0x0020, 0x000D, "UI", "1.2.840.99999.5.1")
	e.UInt16s(0x0028, 0x0010, 256)
	e.UInt16s(0x0028, 0x0011, 256)
	e.Text(0x0028, 0x0030, "DS", "0.9", "0.9")
	return e
}

func TestParse(t *testing.T) {
	body := explicitBody()
	pixels := make([]byte, 2*256*256)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	body.Element(0x7FE0, 0x0010, "OW", pixels)

	buf := forge.File(ExplicitVRLittleEndianUID, "1.2.840.99999.5.3", body.Bytes())
	ds, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(ds.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", ds.Warnings)
	}
	if ds.TransferSyntaxUID != ExplicitVRLittleEndianUID {
		t.Errorf("TransferSyntaxUID = %q, want %q", ds.TransferSyntaxUID, ExplicitVRLittleEndianUID)
	}
	if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
		t.Errorf("PatientName = %q, want %q", got, "DOE^JANE")
	}
	if got := ds.GetInt(TagRows, 0); got != 256 {
		t.Errorf("Rows = %d, want 256", got)
	}
	if diff := cmp.Diff([]float64{0.9, 0.9}, ds.GetFloats(TagPixelSpacing)); diff != "" {
		t.Errorf("PixelSpacing mismatch (-want +got):\n%s", diff)
	}
	raw := ds.GetBytes(TagPixelData)
	if len(raw) != len(pixels) {
		t.Fatalf("PixelData length = %d, want %d", len(raw), len(pixels))
	}
	if raw[17] != pixels[17] {
		t.Errorf("PixelData[17] = %#x, want %#x", raw[17], pixels[17])
	}
}

func TestParseStopsAtPixelData(t *testing.T) {
	body := forge.NewEncoder(true, false)
	body.Text(0x0010, 0x0010, "PN", "DOE^JANE")
	body.Element(0x7FE0, 0x0010, "OW", make([]byte, 32))
	// Junk after pixel data must never be touched.
	body.Raw([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	ds, err := Parse(forge.File(ExplicitVRLittleEndianUID, "", body.Bytes()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(ds.Errors) != 0 {
		t.Errorf("Errors = %v, want none", ds.Errors)
	}
	last := ds.Order[len(ds.Order)-1]
	if last != TagPixelData {
		t.Errorf("last decoded tag = %s, want %s", last, TagPixelData)
	}
}

// mainGroupValues projects the non-meta elements of a dataset to a
// comparable map, so datasets decoded from different encodings of the
// same content can be diffed.
func mainGroupValues(ds *Dataset) map[Tag]Value {
	out := make(map[Tag]Value)
	for tag, e := range ds.Elements {
		if tag.Group == 0x0002 {
			continue
		}
		out[tag] = e.Value
	}
	return out
}

func TestParseImplicitMatchesExplicit(t *testing.T) {
	implicitBody := forge.NewEncoder(true, true)
	implicitBody.Text(0x0010, 0x0010, "PN", "DOE^JANE")
	implicitBody.Text(0x0008, 0x0060, "CS", "MR")
	implicitBody.Text(0x0020, 0x000D, "UI", "1.2.840.99999.5.1")
	implicitBody.UInt16s(0x0028, 0x0010, 256)
	implicitBody.UInt16s(0x0028, 0x0011, 256)
	implicitBody.Text(0x0028, 0x0030, "DS", "0.9", "0.9")

	explicit, err := Parse(forge.File(ExplicitVRLittleEndianUID, "", explicitBody().Bytes()))
	if err != nil {
		t.Fatalf("Parse(explicit) error = %v", err)
	}
	implicit, err := Parse(forge.File(ImplicitVRLittleEndianUID, "", implicitBody.Bytes()))
	if err != nil {
		t.Fatalf("Parse(implicit) error = %v", err)
	}

	if !implicit.ImplicitVR {
		t.Error("implicit dataset did not record implicit VR mode")
	}
	if diff := cmp.Diff(mainGroupValues(explicit), mainGroupValues(implicit)); diff != "" {
		t.Errorf("decoded values differ between encodings (-explicit +implicit):\n%s", diff)
	}
}

func TestParseBigEndian(t *testing.T) {
	body := forge.NewEncoder(false, false)
	body.UInt16s(0x0028, 0x0010, 512)
	body.Text(0x0010, 0x0010, "PN", "DOE^JANE")

	ds, err := Parse(forge.File(ExplicitVRBigEndianUID, "", body.Bytes()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if ds.LittleEndian {
		t.Error("dataset did not record big endian mode")
	}
	if got := ds.GetInt(TagRows, 0); got != 512 {
		t.Errorf("Rows = %d, want 512", got)
	}
}

func TestParseHeaderlessFallback(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		ds, err := Parse(explicitBody().Bytes())
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if ds.ImplicitVR {
			t.Error("sniff chose implicit VR for an explicit stream")
		}
		if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
			t.Errorf("PatientName = %q, want %q", got, "DOE^JANE")
		}
		if len(ds.Warnings) == 0 || !strings.Contains(ds.Warnings[0], "no DICM marker") {
			t.Errorf("Warnings = %v, want a missing-marker warning first", ds.Warnings)
		}
	})

	t.Run("implicit", func(t *testing.T) {
		body := forge.NewEncoder(true, true)
		body.UInt16s(0x0028, 0x0010, 256)
		body.Text(0x0010, 0x0010, "PN", "DOE^JANE")

		ds, err := Parse(body.Bytes())
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if !ds.ImplicitVR {
			t.Error("sniff chose explicit VR for an implicit stream")
		}
		if got := ds.GetInt(TagRows, 0); got != 256 {
			t.Errorf("Rows = %d, want 256", got)
		}
	})
}

func TestParseTruncatedLength(t *testing.T) {
	body := forge.NewEncoder(true, false)
	body.Text(0x0010, 0x0010, "PN", "DOE^JANE")
	body.TruncatedElement(0x0028, 0x0030, "DS", 100, []byte("0.9\\"))

	buf := forge.File(ExplicitVRLittleEndianUID, "", body.Bytes())
	ds, err := Parse(buf)
	if err == nil {
		t.Fatal("Parse() succeeded on truncated element")
	}

	var dErr *DecodeError
	if !errors.As(err, &dErr) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if want := len(buf) - 4; dErr.Offset != want {
		t.Errorf("error offset = %d, want %d", dErr.Offset, want)
	}
	if ds == nil {
		t.Fatal("Parse() returned nil dataset alongside the error")
	}
	if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
		t.Errorf("partial dataset lost PatientName, got %q", got)
	}
	if len(ds.Errors) == 0 {
		t.Error("structural failure not recorded in Errors")
	}
}

func TestParseSequences(t *testing.T) {
	item := func(name string) []byte {
		e := forge.NewEncoder(true, false)
		e.Text(0x0008, 0x103E, "LO", name)
		return e.Bytes()
	}

	t.Run("defined length", func(t *testing.T) {
		body := forge.NewEncoder(true, false)
		body.Sequence(0x0008, 0x1115, item("first"), item("second"), item("third"))
		body.Text(0x0010, 0x0010, "PN", "DOE^JANE")

		ds, err := Parse(forge.File(ExplicitVRLittleEndianUID, "", body.Bytes()))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		items := ds.GetSequence(Tag{0x0008, 0x1115})
		if len(items) != 3 {
			t.Fatalf("decoded %d items, want 3", len(items))
		}
		for i, want := range []string{"first", "second", "third"} {
			if got := items[i].GetString(TagSeriesDescription, ""); got != want {
				t.Errorf("item %d description = %q, want %q", i, got, want)
			}
		}
		if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
			t.Error("element after sequence was not decoded")
		}
	})

	t.Run("undefined length", func(t *testing.T) {
		body := forge.NewEncoder(true, false)
		body.SequenceUndefined(0x0008, 0x1115, item("first"), item("second"))
		body.Text(0x0010, 0x0010, "PN", "DOE^JANE")

		ds, err := Parse(forge.File(ExplicitVRLittleEndianUID, "", body.Bytes()))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		items := ds.GetSequence(Tag{0x0008, 0x1115})
		if len(items) != 2 {
			t.Fatalf("decoded %d items, want 2", len(items))
		}
		if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
			t.Error("element after sequence was not decoded")
		}
	})

	t.Run("items inherit implicit mode", func(t *testing.T) {
		itemBody := forge.NewEncoder(true, true)
		itemBody.UInt16s(0x0028, 0x0010, 64)

		body := forge.NewEncoder(true, true)
		body.Sequence(0x0008, 0x1115, itemBody.Bytes())

		ds, err := Parse(forge.File(ImplicitVRLittleEndianUID, "", body.Bytes()))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		items := ds.GetSequence(Tag{0x0008, 0x1115})
		if len(items) != 1 {
			t.Fatalf("decoded %d items, want 1", len(items))
		}
		if got := items[0].GetInt(TagRows, 0); got != 64 {
			t.Errorf("nested Rows = %d, want 64", got)
		}
	})

	t.Run("malformed item tag terminates early", func(t *testing.T) {
		body := forge.NewEncoder(true, false)
		// One good item, then garbage where the next item tag belongs.
		inner := forge.NewEncoder(true, false)
		inner.RawTag(0xFFFE, 0xE000)
		inner.RawUint32(uint32(len(item("first"))))
		inner.Raw(item("first"))
		inner.RawTag(0x1234, 0x5678)
		inner.Raw([]byte{0, 0, 0, 0})
		body.Element(0x0008, 0x1115, "SQ", inner.Bytes())
		body.Text(0x0010, 0x0010, "PN", "DOE^JANE")

		ds, err := Parse(forge.File(ExplicitVRLittleEndianUID, "", body.Bytes()))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		items := ds.GetSequence(Tag{0x0008, 0x1115})
		if len(items) != 1 {
			t.Fatalf("decoded %d items, want the 1 before the damage", len(items))
		}
		if len(ds.Warnings) == 0 {
			t.Error("malformed item recorded no warning")
		}
		if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
			t.Error("decoding did not resume after the damaged sequence")
		}
	})
}

func TestParseUnknownTransferSyntax(t *testing.T) {
	ds, err := Parse(forge.File("1.2.840.10008.1.2.4.70", "", explicitBody().Bytes()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(ds.Warnings) == 0 || !strings.Contains(ds.Warnings[0], "unknown transfer syntax") {
		t.Errorf("Warnings = %v, want unknown transfer syntax warning", ds.Warnings)
	}
	if !ds.LittleEndian || ds.ImplicitVR {
		t.Error("unknown syntax did not fall back to explicit VR little endian")
	}
	if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
		t.Errorf("PatientName = %q, want %q", got, "DOE^JANE")
	}
}

func TestParseUnknownVR(t *testing.T) {
	body := forge.NewEncoder(true, false)
	body.Element(0x0009, 0x0010, "QQ", []byte{0x01, 0x02})
	body.Text(0x0010, 0x0010, "PN", "DOE^JANE")

	ds, err := Parse(forge.File(ExplicitVRLittleEndianUID, "", body.Bytes()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(ds.Warnings) == 0 || !strings.Contains(ds.Warnings[0], `unknown VR "QQ"`) {
		t.Errorf("Warnings = %v, want unknown VR warning", ds.Warnings)
	}
	e, ok := ds.Get(Tag{0x0009, 0x0010})
	if !ok {
		t.Fatal("unknown-VR element was dropped")
	}
	if _, isBytes := e.Value.(Bytes); !isBytes {
		t.Errorf("unknown-VR value type = %T, want Bytes", e.Value)
	}
	if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
		t.Error("decoding did not continue past the unknown VR")
	}
}

func TestParseInvalidVRBytes(t *testing.T) {
	body := forge.NewEncoder(true, false)
	body.Text(0x0010, 0x0010, "PN", "DOE^JANE")
	body.RawTag(0x0028, 0x0010)
	body.Raw([]byte{0x07, 0x99, 0x02, 0x00, 0x00, 0x01})

	ds, err := Parse(forge.File(ExplicitVRLittleEndianUID, "", body.Bytes()))
	var dErr *DecodeError
	if !errors.As(err, &dErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if got := ds.GetString(TagPatientName, ""); got != "DOE^JANE" {
		t.Error("partial dataset lost the element before the damage")
	}
}

func TestParseEncapsulatedPixelData(t *testing.T) {
	body := forge.NewEncoder(true, false)
	body.Text(0x0010, 0x0010, "PN", "DOE^JANE")
	body.TruncatedElement(0x7FE0, 0x0010, "OB", forge.UndefinedLength, []byte{0xFE, 0xFF, 0x00, 0xE0})

	ds, err := Parse(forge.File(ExplicitVRLittleEndianUID, "", body.Bytes()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(ds.Warnings) == 0 || !strings.Contains(ds.Warnings[0], "encapsulated pixel data") {
		t.Errorf("Warnings = %v, want encapsulated pixel data warning", ds.Warnings)
	}
	if raw := ds.GetBytes(TagPixelData); len(raw) != 4 {
		t.Errorf("raw remainder length = %d, want 4", len(raw))
	}
}

func TestParseEmptyAndTinyBuffers(t *testing.T) {
	for _, tc := range []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"preamble only", make([]byte, 128)},
		{"three bytes", []byte{1, 2, 3}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := Parse(tc.buf)
			if ds == nil {
				t.Fatal("Parse() returned nil dataset")
			}
			if err != nil && len(ds.Errors) == 0 {
				t.Error("returned error was not mirrored in Errors")
			}
		})
	}
}
