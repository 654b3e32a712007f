// Package clinical projects decoded datasets onto flat clinical records:
// who was scanned, in which study and series, on what machine. Absent
// elements fall back to neutral defaults so downstream display code never
// has to nil-check.
package clinical

import (
	"github.com/gchahal1982/G3DAI-sub005/internal/dicom"
)

// Patient identifies the scanned subject.
type Patient struct {
	Name      string
	ID        string
	BirthDate string
	Sex       string
	Age       string
}

// Study groups every acquisition performed during one visit.
type Study struct {
	InstanceUID        string
	ID                 string
	Date               string
	Time               string
	Description        string
	AccessionNumber    string
	ReferringPhysician string
}

// Series is one acquisition run within a study.
type Series struct {
	InstanceUID string
	Number      int
	Description string
	Modality    string
	BodyPart    string
	Protocol    string
}

// Image identifies a single instance within a series.
type Image struct {
	SOPClassUID     string
	SOPInstanceUID  string
	InstanceNumber  int
	AcquisitionDate string
	AcquisitionTime string
	SliceLocation   float64
}

// Equipment describes the scanner that produced the instance.
type Equipment struct {
	Manufacturer     string
	Model            string
	StationName      string
	Institution      string
	SoftwareVersions string
}

// Metadata is the full clinical projection of one instance.
type Metadata struct {
	Patient   Patient
	Study     Study
	Series    Series
	Image     Image
	Equipment Equipment
}

// Extract reads the clinical identification elements out of a dataset.
// Missing textual elements yield empty strings, except the two values a
// viewer always displays: PatientName defaults to "Anonymous" and
// Modality to "OT" (other).
func Extract(ds *dicom.Dataset) *Metadata {
	return &Metadata{
		Patient: Patient{
			Name:      ds.GetString(dicom.TagPatientName, "Anonymous"),
			ID:        ds.GetString(dicom.TagPatientID, ""),
			BirthDate: ds.GetString(dicom.TagPatientBirthDate, ""),
			Sex:       ds.GetString(dicom.TagPatientSex, ""),
			Age:       ds.GetString(dicom.TagPatientAge, ""),
		},
		Study: Study{
			InstanceUID:        ds.GetString(dicom.TagStudyInstanceUID, ""),
			ID:                 ds.GetString(dicom.TagStudyID, ""),
			Date:               ds.GetString(dicom.TagStudyDate, ""),
			Time:               ds.GetString(dicom.TagStudyTime, ""),
			Description:        ds.GetString(dicom.TagStudyDescription, ""),
			AccessionNumber:    ds.GetString(dicom.TagAccessionNumber, ""),
			ReferringPhysician: ds.GetString(dicom.TagReferringPhysician, ""),
		},
		Series: Series{
			InstanceUID: ds.GetString(dicom.TagSeriesInstanceUID, ""),
			Number:      ds.GetInt(dicom.TagSeriesNumber, 0),
			Description: ds.GetString(dicom.TagSeriesDescription, ""),
			Modality:    ds.GetString(dicom.TagModality, "OT"),
			BodyPart:    ds.GetString(dicom.TagBodyPartExamined, ""),
			Protocol:    ds.GetString(dicom.TagProtocolName, ""),
		},
		Image: Image{
			SOPClassUID:     ds.GetString(dicom.TagSOPClassUID, ""),
			SOPInstanceUID:  ds.GetString(dicom.TagSOPInstanceUID, ""),
			InstanceNumber:  ds.GetInt(dicom.TagInstanceNumber, 0),
			AcquisitionDate: ds.GetString(dicom.TagAcquisitionDate, ""),
			AcquisitionTime: ds.GetString(dicom.TagAcquisitionTime, ""),
			SliceLocation:   ds.GetFloat(dicom.TagSliceLocation, 0),
		},
		Equipment: Equipment{
			Manufacturer:     ds.GetString(dicom.TagManufacturer, ""),
			Model:            ds.GetString(dicom.TagManufacturerModel, ""),
			StationName:      ds.GetString(dicom.TagStationName, ""),
			Institution:      ds.GetString(dicom.TagInstitutionName, ""),
			SoftwareVersions: ds.GetString(dicom.TagSoftwareVersions, ""),
		},
	}
}
