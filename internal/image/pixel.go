package image

import (
	"errors"
	"fmt"

	"github.com/gchahal1982/G3DAI-sub005/internal/dicom"
)

// ErrNoPixelData reports a dataset without a pixel data element, which is
// legal DICOM (structured reports, presentation states) but useless to an
// image pipeline.
var ErrNoPixelData = errors.New("image: dataset has no pixel data")

// ExtractPixels returns the raw pixel data bytes of a dataset. The slice
// aliases the decode buffer; callers that mutate pixels must copy first.
func ExtractPixels(ds *dicom.Dataset) ([]byte, error) {
	e, ok := ds.Get(dicom.TagPixelData)
	if !ok {
		return nil, ErrNoPixelData
	}
	if b, ok := e.Value.(dicom.Bytes); ok {
		return b, nil
	}
	return nil, fmt.Errorf("image: pixel data element holds %T, not raw bytes", e.Value)
}

// Enhancer is one pass of the processing pipeline.
type Enhancer interface {
	// Name labels the pass in processing reports.
	Name() string
	// Enhance transforms the raw pixel buffer. Implementations must not
	// modify buf in place; return it unchanged or return a new buffer.
	Enhance(buf []byte, g *Geometry) ([]byte, error)
}

// NoiseReduction is a placeholder denoising pass. It records its
// application without altering pixels; the real filter runs on dedicated
// inference hardware upstream of this repository.
type NoiseReduction struct{}

func (NoiseReduction) Name() string { return "noise_reduction" }

func (NoiseReduction) Enhance(buf []byte, _ *Geometry) ([]byte, error) {
	return buf, nil
}

// ContrastEnhancement is a placeholder contrast pass, same contract as
// NoiseReduction.
type ContrastEnhancement struct{}

func (ContrastEnhancement) Name() string { return "contrast_enhancement" }

func (ContrastEnhancement) Enhance(buf []byte, _ *Geometry) ([]byte, error) {
	return buf, nil
}

// CheckSize compares a pixel buffer against the size its geometry
// implies. A mismatch is reported as text rather than an error: files
// with padded or short buffers are still displayable.
func CheckSize(buf []byte, g *Geometry) string {
	expected := g.ExpectedSize()
	if len(buf) == expected {
		return ""
	}
	return fmt.Sprintf("pixel buffer is %d bytes, geometry implies %d", len(buf), expected)
}
