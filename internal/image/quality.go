package image

import (
	"encoding/binary"
	"math"
	"sort"
)

// Quality holds the three statistics the processing report exposes.
// All are unitless and only comparable between images of the same
// modality and geometry.
type Quality struct {
	// SNR is mean intensity over its standard deviation.
	SNR float64
	// Contrast is the 5th-to-95th percentile intensity spread, normalized
	// by the representable range.
	Contrast float64
	// Sharpness is the mean absolute gradient between horizontal
	// neighbours, normalized by the representable range.
	Sharpness float64
}

// AssessQuality computes the statistics of the first frame. Buffers that
// are empty or too short for one frame produce a zero Quality.
func AssessQuality(buf []byte, g *Geometry) Quality {
	samples := frameSamples(buf, g)
	if len(samples) == 0 {
		return Quality{}
	}

	maxValue := float64(uint64(1)<<uint(g.BitsStored) - 1)
	if maxValue <= 0 {
		maxValue = 65535
	}

	var sum float64
	for _, v := range samples {
		sum += v
	}
	mean := sum / float64(len(samples))

	var variance float64
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(samples)))

	q := Quality{}
	if stddev > 0 {
		q.SNR = mean / stddev
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	p5 := sorted[len(sorted)*5/100]
	p95 := sorted[len(sorted)*95/100]
	q.Contrast = (p95 - p5) / maxValue

	if g.Columns > 1 {
		var gradient float64
		var count int
		for row := 0; row < g.Rows; row++ {
			base := row * g.Columns
			if base+g.Columns > len(samples) {
				break
			}
			for col := 1; col < g.Columns; col++ {
				gradient += math.Abs(samples[base+col] - samples[base+col-1])
				count++
			}
		}
		if count > 0 {
			q.Sharpness = gradient / float64(count) / maxValue
		}
	}
	return q
}

// frameSamples converts the first frame of a buffer to float64 samples,
// honoring the allocated bit depth. Little endian buffers only; big
// endian pixel data is rare enough to not matter for statistics.
func frameSamples(buf []byte, g *Geometry) []float64 {
	n := g.Rows * g.Columns * g.SamplesPerPixel
	if n <= 0 {
		return nil
	}

	switch g.BitsAllocated {
	case 8:
		if len(buf) < n {
			return nil
		}
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = float64(buf[i])
		}
		return out
	default:
		if len(buf) < n*2 {
			return nil
		}
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = float64(binary.LittleEndian.Uint16(buf[i*2:]))
		}
		return out
	}
}
