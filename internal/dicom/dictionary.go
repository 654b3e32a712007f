package dicom

import (
	"fmt"
	"strings"
)

// DictEntry describes one tag in the built-in data dictionary: the VR
// assumed in implicit-VR streams and a human readable label.
//
// This is deliberately not the full DICOM dictionary. It covers the tags
// the clinical metadata and geometry extractors read, plus the file meta
// group. Unknown tags decode as UN in implicit mode.
type DictEntry struct {
	Tag  Tag
	VR   string
	Name string
}

var dictionary = map[Tag]DictEntry{
	TagFileMetaGroupLength: {TagFileMetaGroupLength, "UL", "FileMetaInformationGroupLength"},
	TagMediaStorageSOPUID:  {TagMediaStorageSOPUID, "UI", "MediaStorageSOPInstanceUID"},
	TagTransferSyntaxUID:   {TagTransferSyntaxUID, "UI", "TransferSyntaxUID"},

	TagSpecificCharacterSet: {TagSpecificCharacterSet, "CS", "SpecificCharacterSet"},
	TagSOPClassUID:          {TagSOPClassUID, "UI", "SOPClassUID"},
	TagSOPInstanceUID:       {TagSOPInstanceUID, "UI", "SOPInstanceUID"},
	TagStudyDate:            {TagStudyDate, "DA", "StudyDate"},
	TagAcquisitionDate:      {TagAcquisitionDate, "DA", "AcquisitionDate"},
	TagStudyTime:            {TagStudyTime, "TM", "StudyTime"},
	TagAcquisitionTime:      {TagAcquisitionTime, "TM", "AcquisitionTime"},
	TagAccessionNumber:      {TagAccessionNumber, "SH", "AccessionNumber"},
	TagModality:             {TagModality, "CS", "Modality"},
	TagManufacturer:         {TagManufacturer, "LO", "Manufacturer"},
	TagInstitutionName:      {TagInstitutionName, "LO", "InstitutionName"},
	TagReferringPhysician:   {TagReferringPhysician, "PN", "ReferringPhysicianName"},
	TagStationName:          {TagStationName, "SH", "StationName"},
	TagStudyDescription:     {TagStudyDescription, "LO", "StudyDescription"},
	TagSeriesDescription:    {TagSeriesDescription, "LO", "SeriesDescription"},
	TagManufacturerModel:    {TagManufacturerModel, "LO", "ManufacturerModelName"},
	TagReferencedSeriesSeq:  {TagReferencedSeriesSeq, "SQ", "ReferencedSeriesSequence"},

	TagPatientName:      {TagPatientName, "PN", "PatientName"},
	TagPatientID:        {TagPatientID, "LO", "PatientID"},
	TagPatientBirthDate: {TagPatientBirthDate, "DA", "PatientBirthDate"},
	TagPatientSex:       {TagPatientSex, "CS", "PatientSex"},
	TagPatientAge:       {TagPatientAge, "AS", "PatientAge"},

	TagBodyPartExamined: {TagBodyPartExamined, "CS", "BodyPartExamined"},
	TagSliceThickness:   {TagSliceThickness, "DS", "SliceThickness"},
	TagSoftwareVersions: {TagSoftwareVersions, "LO", "SoftwareVersions"},
	TagProtocolName:     {TagProtocolName, "LO", "ProtocolName"},

	TagStudyInstanceUID:  {TagStudyInstanceUID, "UI", "StudyInstanceUID"},
	TagSeriesInstanceUID: {TagSeriesInstanceUID, "UI", "SeriesInstanceUID"},
	TagStudyID:           {TagStudyID, "SH", "StudyID"},
	TagSeriesNumber:      {TagSeriesNumber, "IS", "SeriesNumber"},
	TagInstanceNumber:    {TagInstanceNumber, "IS", "InstanceNumber"},
	TagImagePosition:     {TagImagePosition, "DS", "ImagePositionPatient"},
	TagImageOrientation:  {TagImageOrientation, "DS", "ImageOrientationPatient"},
	TagSliceLocation:     {TagSliceLocation, "DS", "SliceLocation"},

	TagSamplesPerPixel:     {TagSamplesPerPixel, "US", "SamplesPerPixel"},
	TagPhotometricInterp:   {TagPhotometricInterp, "CS", "PhotometricInterpretation"},
	TagNumberOfFrames:      {TagNumberOfFrames, "IS", "NumberOfFrames"},
	TagRows:                {TagRows, "US", "Rows"},
	TagColumns:             {TagColumns, "US", "Columns"},
	TagPixelSpacing:        {TagPixelSpacing, "DS", "PixelSpacing"},
	TagBitsAllocated:       {TagBitsAllocated, "US", "BitsAllocated"},
	TagBitsStored:          {TagBitsStored, "US", "BitsStored"},
	TagHighBit:             {TagHighBit, "US", "HighBit"},
	TagPixelRepresentation: {TagPixelRepresentation, "US", "PixelRepresentation"},
	TagWindowCenter:        {TagWindowCenter, "DS", "WindowCenter"},
	TagWindowWidth:         {TagWindowWidth, "DS", "WindowWidth"},
	TagRescaleIntercept:    {TagRescaleIntercept, "DS", "RescaleIntercept"},
	TagRescaleSlope:        {TagRescaleSlope, "DS", "RescaleSlope"},

	TagPixelData: {TagPixelData, "OW", "PixelData"},
}

// nameIndex maps lowercase tag names to dictionary entries for
// case-insensitive lookup by name.
var nameIndex = func() map[string]DictEntry {
	idx := make(map[string]DictEntry, len(dictionary))
	for _, e := range dictionary {
		idx[strings.ToLower(e.Name)] = e
	}
	return idx
}()

// Lookup returns the dictionary entry for a tag.
func Lookup(t Tag) (DictEntry, bool) {
	e, ok := dictionary[t]
	return e, ok
}

// DictionaryVR returns the implicit-VR representation for a tag,
// defaulting to UN when the tag is unknown.
func DictionaryVR(t Tag) string {
	if e, ok := dictionary[t]; ok {
		return e.VR
	}
	return "UN"
}

// TagName returns the dictionary label for a tag, or its hex identifier
// when unknown.
func TagName(t Tag) string {
	if e, ok := dictionary[t]; ok {
		return e.Name
	}
	return t.Hex()
}

// LookupName returns the dictionary entry for a tag name. The lookup is
// case-insensitive. If the name is not found, the error carries a
// suggestion for the closest matching name (by Levenshtein distance).
func LookupName(name string) (DictEntry, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if e, ok := nameIndex[normalized]; ok {
		return e, nil
	}
	if suggestion := closestTagName(normalized); suggestion != "" {
		return DictEntry{}, fmt.Errorf("unknown tag %q, did you mean %q?", name, suggestion)
	}
	return DictEntry{}, fmt.Errorf("unknown tag %q", name)
}

// closestTagName finds the nearest dictionary name within edit distance 5.
func closestTagName(input string) string {
	const maxDistance = 5
	bestDistance := maxDistance + 1
	var bestMatch string

	for key, e := range nameIndex {
		distance := levenshteinDistance(input, key)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = e.Name
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance calculates the minimum number of single-character
// edits (insertions, deletions, or substitutions) required to change one
// string into the other.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
