package forge

import (
	"fmt"
	"image"
	"image/color"
	"math"
	randv2 "math/rand/v2"
	"os"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FixtureOptions parameterizes one generated file. Zero values fall back
// to a 256x256 MR slice with anonymous demographics.
type FixtureOptions struct {
	Path string

	Rows    int
	Columns int

	Modality    string
	PatientName string
	PatientID   string

	StudyUID       string
	SeriesUID      string
	SOPInstanceUID string

	// Overlay is burned into the pixel data so a human opening the file
	// can tell fixtures apart.
	Overlay string

	// Seed makes the pixel noise reproducible. Same seed, same bytes.
	Seed uint64
}

func (o *FixtureOptions) applyDefaults() {
	if o.Rows == 0 {
		o.Rows = 256
	}
	if o.Columns == 0 {
		o.Columns = 256
	}
	if o.Modality == "" {
		o.Modality = "MR"
	}
	if o.PatientName == "" {
		o.PatientName = "Anonymous"
	}
	if o.PatientID == "" {
		o.PatientID = "PID000000"
	}
	if o.StudyUID == "" {
		o.StudyUID = "1.2.840.99999.1.1"
	}
	if o.SeriesUID == "" {
		o.SeriesUID = "1.2.840.99999.1.2"
	}
	if o.SOPInstanceUID == "" {
		o.SOPInstanceUID = "1.2.840.99999.1.3"
	}
}

// WriteFixture writes a complete explicit-VR little endian file with a
// 16-bit grayscale frame: a radial gradient with layered noise and the
// overlay text burned in.
func WriteFixture(opts FixtureOptions) error {
	opts.applyDefaults()

	width, height := opts.Columns, opts.Rows
	nativeFrame := generatePixels(width, height, opts.Seed)
	if opts.Overlay != "" {
		drawOverlay(nativeFrame, width, height, opts.Overlay)
	}

	pixelDataInfo := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}

	elements := []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.4"}),
		mustNewElement(tag.SOPInstanceUID, []string{opts.SOPInstanceUID}),
		mustNewElement(tag.PatientName, []string{opts.PatientName}),
		mustNewElement(tag.PatientID, []string{opts.PatientID}),
		mustNewElement(tag.Modality, []string{opts.Modality}),
		mustNewElement(tag.StudyInstanceUID, []string{opts.StudyUID}),
		mustNewElement(tag.SeriesInstanceUID, []string{opts.SeriesUID}),
		mustNewElement(tag.SeriesNumber, []string{"1"}),
		mustNewElement(tag.InstanceNumber, []string{"1"}),
		mustNewElement(tag.Rows, []int{height}),
		mustNewElement(tag.Columns, []int{width}),
		mustNewElement(tag.BitsAllocated, []int{16}),
		mustNewElement(tag.BitsStored, []int{16}),
		mustNewElement(tag.HighBit, []int{15}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.PixelSpacing, []string{floatToDS(0.9), floatToDS(0.9)}),
		mustNewElement(tag.SliceThickness, []string{floatToDS(1.5)}),
		mustNewElement(tag.ImagePositionPatient, []string{floatToDS(-100), floatToDS(-100), floatToDS(0)}),
		mustNewElement(tag.ImageOrientationPatient, []string{
			floatToDS(1), floatToDS(0), floatToDS(0),
			floatToDS(0), floatToDS(1), floatToDS(0),
		}),
		mustNewElement(tag.WindowCenter, []string{floatToDS(300)}),
		mustNewElement(tag.WindowWidth, []string{floatToDS(600)}),
		mustNewElement(tag.RescaleIntercept, []string{floatToDS(0)}),
		mustNewElement(tag.RescaleSlope, []string{floatToDS(1)}),
		mustNewElement(tag.PixelData, pixelDataInfo),
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := dicom.Write(f, dicom.Dataset{Elements: elements}); err != nil {
		return fmt.Errorf("write fixture %s: %w", opts.Path, err)
	}
	return nil
}

func mustNewElement(t tag.Tag, data interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, data)
	if err != nil {
		panic(fmt.Sprintf("create element for tag %v: %v", t, err))
	}
	return elem
}

func floatToDS(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

// generatePixels fills a frame with a center-bright radial gradient plus
// layered noise, which looks enough like a scan for eyeballing viewers.
func generatePixels(width, height int, seed uint64) *frame.NativeFrame[uint16] {
	rng := randv2.New(randv2.NewPCG(seed, seed))
	nativeFrame := frame.NewNativeFrame[uint16](16, height, width, width*height, 1)

	centerX, centerY := float64(width)/2, float64(height)/2
	maxDist := math.Sqrt(centerX*centerX + centerY*centerY)
	const valueRange = 600.0
	const baseValue = 100.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x) - centerX
			dy := float64(y) - centerY
			dist := math.Sqrt(dx*dx+dy*dy) / maxDist

			intensity := baseValue + (1.0-dist)*valueRange*0.3
			intensity += (rng.Float64() - 0.5) * valueRange * 0.3
			intensity += (rng.Float64() - 0.5) * valueRange * 0.15

			clamped := math.Max(0, math.Min(65535, intensity))
			nativeFrame.RawData[y*width+x] = uint16(clamped)
		}
	}
	return nativeFrame
}

// drawOverlay scales the text to roughly a third of the frame width and
// burns it in centered, white on the existing pixels.
func drawOverlay(nativeFrame *frame.NativeFrame[uint16], width, height int, text string) {
	face := basicfont.Face7x13
	baseWidth := font.MeasureString(face, text).Ceil()
	const baseHeight = 13

	textImg := image.NewRGBA(image.Rect(0, 0, baseWidth, baseHeight))
	drawer := &font.Drawer{
		Dst:  textImg,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.Point26_6{Y: fixed.I(baseHeight)},
	}
	drawer.DrawString(text)

	scale := float64(width) * 0.3 / float64(baseWidth)
	if scale < 2.0 {
		scale = 2.0
	}
	scaledWidth := int(float64(baseWidth) * scale)
	scaledHeight := int(float64(baseHeight) * scale)

	scaled := image.NewRGBA(image.Rect(0, 0, scaledWidth, scaledHeight))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), textImg, textImg.Bounds(), draw.Over, nil)

	offX := (width - scaledWidth) / 2
	offY := (height - scaledHeight) / 2
	for sy := 0; sy < scaledHeight; sy++ {
		for sx := 0; sx < scaledWidth; sx++ {
			_, _, _, a := scaled.At(sx, sy).RGBA()
			if a == 0 {
				continue
			}
			x, y := offX+sx, offY+sy
			if x >= 0 && x < width && y >= 0 && y < height {
				nativeFrame.RawData[y*width+x] = 0xFFFF
			}
		}
	}
}
