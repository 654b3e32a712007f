// Package dicom decodes DICOM Part-10 binary datasets into typed,
// immutable in-memory representations. It covers uncompressed transfer
// syntaxes only; compressed pixel encodings are out of scope.
package dicom

import "fmt"

// Tag identifies one data element as a (group, element) pair.
type Tag struct {
	Group   uint16
	Element uint16
}

// String returns the tag in (gggg,eeee) format.
func (t Tag) String() string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

// Hex returns the conventional 8-hex-digit tag identifier.
func (t Tag) Hex() string {
	return fmt.Sprintf("%04x%04x", t.Group, t.Element)
}

// Tags the decoder and extractors read directly.
var (
	TagFileMetaGroupLength = Tag{0x0002, 0x0000}
	TagMediaStorageSOPUID  = Tag{0x0002, 0x0003}
	TagTransferSyntaxUID   = Tag{0x0002, 0x0010}

	TagSpecificCharacterSet = Tag{0x0008, 0x0005}
	TagSOPClassUID          = Tag{0x0008, 0x0016}
	TagSOPInstanceUID       = Tag{0x0008, 0x0018}
	TagStudyDate            = Tag{0x0008, 0x0020}
	TagAcquisitionDate      = Tag{0x0008, 0x0022}
	TagStudyTime            = Tag{0x0008, 0x0030}
	TagAcquisitionTime      = Tag{0x0008, 0x0032}
	TagAccessionNumber      = Tag{0x0008, 0x0050}
	TagModality             = Tag{0x0008, 0x0060}
	TagManufacturer         = Tag{0x0008, 0x0070}
	TagInstitutionName      = Tag{0x0008, 0x0080}
	TagReferringPhysician   = Tag{0x0008, 0x0090}
	TagStationName          = Tag{0x0008, 0x1010}
	TagStudyDescription     = Tag{0x0008, 0x1030}
	TagSeriesDescription    = Tag{0x0008, 0x103E}
	TagManufacturerModel    = Tag{0x0008, 0x1090}
	TagReferencedSeriesSeq  = Tag{0x0008, 0x1115}

	TagPatientName      = Tag{0x0010, 0x0010}
	TagPatientID        = Tag{0x0010, 0x0020}
	TagPatientBirthDate = Tag{0x0010, 0x0030}
	TagPatientSex       = Tag{0x0010, 0x0040}
	TagPatientAge       = Tag{0x0010, 0x1010}

	TagBodyPartExamined = Tag{0x0018, 0x0015}
	TagSliceThickness   = Tag{0x0018, 0x0050}
	TagSoftwareVersions = Tag{0x0018, 0x1020}
	TagProtocolName     = Tag{0x0018, 0x1030}

	TagStudyInstanceUID  = Tag{0x0020, 0x000D}
	TagSeriesInstanceUID = Tag{0x0020, 0x000E}
	TagStudyID           = Tag{0x0020, 0x0010}
	TagSeriesNumber      = Tag{0x0020, 0x0011}
	TagInstanceNumber    = Tag{0x0020, 0x0013}
	TagImagePosition     = Tag{0x0020, 0x0032}
	TagImageOrientation  = Tag{0x0020, 0x0037}
	TagSliceLocation     = Tag{0x0020, 0x1041}

	TagSamplesPerPixel     = Tag{0x0028, 0x0002}
	TagPhotometricInterp   = Tag{0x0028, 0x0004}
	TagNumberOfFrames      = Tag{0x0028, 0x0008}
	TagRows                = Tag{0x0028, 0x0010}
	TagColumns             = Tag{0x0028, 0x0011}
	TagPixelSpacing        = Tag{0x0028, 0x0030}
	TagBitsAllocated       = Tag{0x0028, 0x0100}
	TagBitsStored          = Tag{0x0028, 0x0101}
	TagHighBit             = Tag{0x0028, 0x0102}
	TagPixelRepresentation = Tag{0x0028, 0x0103}
	TagWindowCenter        = Tag{0x0028, 0x1050}
	TagWindowWidth         = Tag{0x0028, 0x1051}
	TagRescaleIntercept    = Tag{0x0028, 0x1052}
	TagRescaleSlope        = Tag{0x0028, 0x1053}

	TagPixelData = Tag{0x7FE0, 0x0010}
)

// Sequence framing tags, group 0xFFFE. Items and delimiters carry no VR.
var (
	tagItem              = Tag{0xFFFE, 0xE000}
	tagItemDelimiter     = Tag{0xFFFE, 0xE00D}
	tagSequenceDelimiter = Tag{0xFFFE, 0xE0DD}
)
