package dicom

// vrKind groups value representations that share a decoding strategy.
type vrKind int

const (
	// kindText covers string VRs: split on backslash, strip padding.
	kindText vrKind = iota
	// kindBinaryNumber covers fixed-width binary scalars and arrays.
	kindBinaryNumber
	// kindBulk covers opaque byte ranges handed to the caller unchanged.
	kindBulk
	// kindSequence covers SQ nested item lists.
	kindSequence
)

// UndefinedLength is the all-ones length sentinel. An element carrying it
// is terminated by a delimiter, never by length arithmetic.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
const UndefinedLength = 0xFFFFFFFF

var vrKinds = map[string]vrKind{
	// textual
	"AE": kindText, "AS": kindText, "CS": kindText, "DA": kindText,
	"DS": kindText, "DT": kindText, "IS": kindText, "LO": kindText,
	"LT": kindText, "PN": kindText, "SH": kindText, "ST": kindText,
	"TM": kindText, "UC": kindText, "UI": kindText, "UR": kindText,
	"UT": kindText,

	// binary numbers
	"SS": kindBinaryNumber, "US": kindBinaryNumber,
	"SL": kindBinaryNumber, "UL": kindBinaryNumber,
	"FL": kindBinaryNumber, "FD": kindBinaryNumber,

	// opaque byte ranges
	"OB": kindBulk, "OW": kindBulk, "UN": kindBulk, "AT": kindBulk,
	"OD": kindBulk, "OF": kindBulk, "OL": kindBulk,

	// nested datasets
	"SQ": kindSequence,
}

// longFormVRs use the explicit-VR 12-byte header: 2 reserved bytes
// followed by a 32-bit length instead of a 16-bit length.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
var longFormVRs = map[string]bool{
	"OB": true, "OD": true, "OF": true, "OL": true, "OW": true,
	"SQ": true, "UC": true, "UN": true, "UR": true, "UT": true,
}

// numberWidth returns the byte width of one scalar for a binary numeric VR.
func numberWidth(vr string) int {
	switch vr {
	case "SS", "US":
		return 2
	case "SL", "UL", "FL":
		return 4
	case "FD":
		return 8
	}
	return 0
}

// knownVR reports whether the 2-character code is a VR this decoder
// understands. Codes outside this set are recorded as warnings and
// decoded as UN.
func knownVR(code string) bool {
	_, ok := vrKinds[code]
	return ok
}

// plausibleVR reports whether two bytes look like a VR code at all.
// In explicit mode, failing this check usually means the stream is not
// actually explicit VR and decoding cannot continue.
func plausibleVR(b0, b1 byte) bool {
	return b0 >= 'A' && b0 <= 'Z' && b1 >= 'A' && b1 <= 'Z'
}
