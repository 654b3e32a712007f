package forge

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gchahal1982/G3DAI-sub005/internal/dicom"
)

func TestEncoderExplicitShortForm(t *testing.T) {
	e := NewEncoder(true, false)
	e.Text(0x0010, 0x0010, "PN", "DOE")

	want := []byte{
		0x10, 0x00, 0x10, 0x00, // tag
		'P', 'N', // VR
		0x04, 0x00, // length, padded to even
		'D', 'O', 'E', ' ',
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("encoded = % x, want % x", e.Bytes(), want)
	}
}

func TestEncoderExplicitLongForm(t *testing.T) {
	e := NewEncoder(true, false)
	e.Element(0x7FE0, 0x0010, "OW", []byte{1, 2})

	want := []byte{
		0xE0, 0x7F, 0x10, 0x00, // tag
		'O', 'W',
		0x00, 0x00, // reserved
		0x02, 0x00, 0x00, 0x00, // 32-bit length
		1, 2,
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("encoded = % x, want % x", e.Bytes(), want)
	}
}

func TestEncoderImplicit(t *testing.T) {
	e := NewEncoder(true, true)
	e.UInt16s(0x0028, 0x0010, 256)

	want := []byte{
		0x28, 0x00, 0x10, 0x00,
		0x02, 0x00, 0x00, 0x00, // always 32-bit length, no VR
		0x00, 0x01,
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("encoded = % x, want % x", e.Bytes(), want)
	}
}

func TestEncoderBigEndian(t *testing.T) {
	e := NewEncoder(false, false)
	e.UInt16s(0x0028, 0x0010, 256)

	want := []byte{
		0x00, 0x28, 0x00, 0x10,
		'U', 'S',
		0x00, 0x02,
		0x01, 0x00,
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("encoded = % x, want % x", e.Bytes(), want)
	}
}

func TestFileFraming(t *testing.T) {
	buf := File("1.2.840.10008.1.2.1", "", nil)

	if len(buf) < 132 {
		t.Fatalf("file is %d bytes, too short for preamble and marker", len(buf))
	}
	for i := 0; i < 128; i++ {
		if buf[i] != 0 {
			t.Fatalf("preamble byte %d = %#x, want 0", i, buf[i])
		}
	}
	if string(buf[128:132]) != "DICM" {
		t.Fatalf("marker = %q, want DICM", buf[128:132])
	}
}

func TestWriteFixtureRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.dcm")
	err := WriteFixture(FixtureOptions{
		Path:        path,
		Rows:        64,
		Columns:     64,
		PatientName: "DOE^JANE",
		Overlay:     "T",
		Seed:        7,
	})
	if err != nil {
		t.Fatalf("WriteFixture() error = %v", err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	ds, err := dicom.Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := ds.GetString(dicom.TagPatientName, ""); got != "DOE^JANE" {
		t.Errorf("PatientName = %q, want DOE^JANE", got)
	}
	if got := ds.GetInt(dicom.TagRows, 0); got != 64 {
		t.Errorf("Rows = %d, want 64", got)
	}
	if raw := ds.GetBytes(dicom.TagPixelData); len(raw) != 64*64*2 {
		t.Errorf("pixel data = %d bytes, want %d", len(raw), 64*64*2)
	}
}

func TestWriteFixtureDeterministic(t *testing.T) {
	dir := t.TempDir()
	paths := [2]string{filepath.Join(dir, "a.dcm"), filepath.Join(dir, "b.dcm")}
	for _, p := range paths {
		if err := WriteFixture(FixtureOptions{Path: p, Rows: 32, Columns: 32, Seed: 42}); err != nil {
			t.Fatalf("WriteFixture(%s) error = %v", p, err)
		}
	}

	a, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different files")
	}
}
