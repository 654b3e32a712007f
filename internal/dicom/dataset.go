package dicom

import (
	"fmt"
	"strconv"
	"strings"
)

// Element is one decoded tag-length-value entry. Immutable once decoded.
type Element struct {
	Tag    Tag
	VR     string
	Length uint32
	Value  Value

	// ByteOffset is the buffer offset of the element's tag bytes;
	// ValueOffset is the offset of its first value byte.
	ByteOffset  int
	ValueOffset int
}

// Dataset is the decoded element collection of one file or one sequence
// item. Elements preserves uniqueness per tag, Order preserves file order.
// A Dataset is populated incrementally during a decode call and must be
// treated as read-only afterwards.
type Dataset struct {
	Elements map[Tag]*Element
	Order    []Tag

	// TransferSyntaxUID and the two flags below are fixed once the meta
	// header is resolved and never change mid-parse.
	TransferSyntaxUID string
	LittleEndian      bool
	ImplicitVR        bool

	// Warnings holds non-fatal decode notes (unknown VR, unknown
	// transfer syntax, malformed sequence items) in encounter order.
	Warnings []string
	// Errors holds fatal element-level failures. A non-empty list means
	// parsing stopped early and the dataset is partial.
	Errors []string
}

// NewDataset returns an empty dataset with explicit-VR little endian
// defaults.
func NewDataset() *Dataset {
	return &Dataset{
		Elements:     make(map[Tag]*Element),
		LittleEndian: true,
	}
}

func (d *Dataset) add(e *Element) {
	if _, exists := d.Elements[e.Tag]; !exists {
		d.Order = append(d.Order, e.Tag)
	}
	d.Elements[e.Tag] = e
}

func (d *Dataset) warnf(format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// Get returns the element for a tag.
func (d *Dataset) Get(t Tag) (*Element, bool) {
	e, ok := d.Elements[t]
	return e, ok
}

// GetString returns the first string value for a tag, or the default when
// the tag is absent or not textual.
func (d *Dataset) GetString(t Tag, def string) string {
	if ss := d.GetStrings(t); len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return def
}

// GetStrings returns all string values for a tag, already split on the
// backslash delimiter. Nil when the tag is absent or not textual.
func (d *Dataset) GetStrings(t Tag) []string {
	e, ok := d.Elements[t]
	if !ok {
		return nil
	}
	if ss, ok := e.Value.(Strings); ok {
		return ss
	}
	return nil
}

// GetInt returns the first integer value for a tag. Textual numbers
// (IS elements) are parsed; absent or unparsable values yield the default.
func (d *Dataset) GetInt(t Tag, def int) int {
	e, ok := d.Elements[t]
	if !ok {
		return def
	}
	switch v := e.Value.(type) {
	case Ints:
		if len(v) > 0 {
			return int(v[0])
		}
	case Floats:
		if len(v) > 0 {
			return int(v[0])
		}
	case Strings:
		if len(v) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(v[0])); err == nil {
				return n
			}
		}
	}
	return def
}

// GetFloat returns the first float value for a tag, parsing decimal
// strings where needed. Absent or unparsable values yield the default.
func (d *Dataset) GetFloat(t Tag, def float64) float64 {
	if fs := d.GetFloats(t); len(fs) > 0 {
		return fs[0]
	}
	return def
}

// GetFloats returns all float values for a tag. Multi-valued decimal
// strings are split on the backslash delimiter; any segment that fails to
// parse contributes 0.0 rather than dropping out, so positions stay
// aligned with the source value multiplicity. Nil when the tag is absent.
func (d *Dataset) GetFloats(t Tag) []float64 {
	e, ok := d.Elements[t]
	if !ok {
		return nil
	}
	switch v := e.Value.(type) {
	case Floats:
		return v
	case Ints:
		fs := make([]float64, len(v))
		for i, n := range v {
			fs[i] = float64(n)
		}
		return fs
	case Strings:
		fs := make([]float64, len(v))
		for i, s := range v {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				f = 0.0
			}
			fs[i] = f
		}
		return fs
	}
	return nil
}

// GetBytes returns the raw byte payload of a bulk element, or nil.
func (d *Dataset) GetBytes(t Tag) []byte {
	e, ok := d.Elements[t]
	if !ok {
		return nil
	}
	if b, ok := e.Value.(Bytes); ok {
		return b
	}
	return nil
}

// GetSequence returns the nested item datasets of an SQ element, or nil.
func (d *Dataset) GetSequence(t Tag) []*Dataset {
	e, ok := d.Elements[t]
	if !ok {
		return nil
	}
	if seq, ok := e.Value.(Sequence); ok {
		return seq
	}
	return nil
}
