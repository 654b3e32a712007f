package dicom

// Transfer syntax UIDs this decoder resolves to concrete encoding rules.
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_A
const (
	ImplicitVRLittleEndianUID = "1.2.840.10008.1.2"
	ExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1"
	ExplicitVRBigEndianUID    = "1.2.840.10008.1.2.2"
)

// resolveTransferSyntax maps a transfer syntax UID to the dataset's
// (littleEndian, implicitVR) pair. Unrecognized UIDs, including the
// compressed syntaxes this core does not decode, fall back to explicit VR
// little endian per PS3.5 A.4; known reports whether the UID was matched
// so the caller can record a warning.
func resolveTransferSyntax(uid string) (littleEndian, implicitVR, known bool) {
	switch uid {
	case ImplicitVRLittleEndianUID:
		return true, true, true
	case ExplicitVRLittleEndianUID:
		return true, false, true
	case ExplicitVRBigEndianUID:
		return false, false, true
	default:
		return true, false, false
	}
}
