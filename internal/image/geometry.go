// Package image interprets the image-description elements of a decoded
// dataset: frame geometry, raw pixel access, enhancement passes and
// simple quality statistics.
package image

import (
	"github.com/gchahal1982/G3DAI-sub005/internal/dicom"
)

// Geometry captures how the pixel buffer is shaped and scaled. Every
// field has a working default, so rendering code can rely on a Geometry
// extracted from even a sparse dataset.
type Geometry struct {
	Rows           int
	Columns        int
	NumberOfFrames int

	SamplesPerPixel           int
	PhotometricInterpretation string

	BitsAllocated       int
	BitsStored          int
	HighBit             int
	PixelRepresentation int

	// PixelSpacing is (row spacing, column spacing) in millimetres.
	PixelSpacing   [2]float64
	SliceThickness float64
	SliceLocation  float64

	ImagePosition    [3]float64
	ImageOrientation [6]float64

	// Window values are multi-valued when the file ships several presets.
	WindowCenters []float64
	WindowWidths  []float64

	RescaleSlope     float64
	RescaleIntercept float64
}

// ExtractGeometry reads the image geometry elements, substituting the
// defaults of a 512x512 single-frame 16-bit grayscale slice with
// isotropic 1mm spacing and identity orientation for whatever is absent.
func ExtractGeometry(ds *dicom.Dataset) *Geometry {
	g := &Geometry{
		Rows:                      ds.GetInt(dicom.TagRows, 512),
		Columns:                   ds.GetInt(dicom.TagColumns, 512),
		NumberOfFrames:            ds.GetInt(dicom.TagNumberOfFrames, 1),
		SamplesPerPixel:           ds.GetInt(dicom.TagSamplesPerPixel, 1),
		PhotometricInterpretation: ds.GetString(dicom.TagPhotometricInterp, "MONOCHROME2"),
		BitsAllocated:             ds.GetInt(dicom.TagBitsAllocated, 16),
		BitsStored:                ds.GetInt(dicom.TagBitsStored, 16),
		HighBit:                   ds.GetInt(dicom.TagHighBit, 15),
		PixelRepresentation:       ds.GetInt(dicom.TagPixelRepresentation, 0),
		PixelSpacing:              [2]float64{1.0, 1.0},
		SliceThickness:            ds.GetFloat(dicom.TagSliceThickness, 1.0),
		SliceLocation:             ds.GetFloat(dicom.TagSliceLocation, 0),
		ImageOrientation:          [6]float64{1, 0, 0, 0, 1, 0},
		RescaleSlope:              ds.GetFloat(dicom.TagRescaleSlope, 1.0),
		RescaleIntercept:          ds.GetFloat(dicom.TagRescaleIntercept, 0.0),
	}

	if spacing := ds.GetFloats(dicom.TagPixelSpacing); len(spacing) >= 2 {
		g.PixelSpacing = [2]float64{spacing[0], spacing[1]}
	} else if len(spacing) == 1 {
		g.PixelSpacing = [2]float64{spacing[0], spacing[0]}
	}
	if pos := ds.GetFloats(dicom.TagImagePosition); len(pos) >= 3 {
		copy(g.ImagePosition[:], pos[:3])
	}
	if orient := ds.GetFloats(dicom.TagImageOrientation); len(orient) >= 6 {
		copy(g.ImageOrientation[:], orient[:6])
	}

	g.WindowCenters = ds.GetFloats(dicom.TagWindowCenter)
	g.WindowWidths = ds.GetFloats(dicom.TagWindowWidth)
	return g
}

// ExpectedSize returns the byte size the geometry implies for the raw
// pixel buffer.
func (g *Geometry) ExpectedSize() int {
	return g.Rows * g.Columns * g.NumberOfFrames * g.SamplesPerPixel * (g.BitsAllocated / 8)
}

// FrameSize returns the byte size of one frame.
func (g *Geometry) FrameSize() int {
	return g.Rows * g.Columns * g.SamplesPerPixel * (g.BitsAllocated / 8)
}
