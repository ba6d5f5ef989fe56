package pitch

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Matrix holds the interpolated frequency and magnitude of every detected
// peak, indexed by (bin, frame). Zero frequency means no peak.
type Matrix struct {
	Bins   int
	Frames int
	freqs  []float64
	mags   []float64
}

func newMatrix(bins int, frames int) Matrix {
	return Matrix{
		Bins:   bins,
		Frames: frames,
		freqs:  make([]float64, bins*frames),
		mags:   make([]float64, bins*frames),
	}
}

func (m Matrix) index(bin int, frame int) int {
	return frame*m.Bins + bin
}

func (m Matrix) set(bin int, frame int, freq float64, mag float64) {
	i := m.index(bin, frame)
	m.freqs[i] = freq
	m.mags[i] = mag
}

func (m Matrix) At(bin int, frame int) (freq float64, mag float64) {
	i := m.index(bin, frame)
	return m.freqs[i], m.mags[i]
}

type Selector string

const (
	// MagnitudeSelector picks the strongest peak of the frame.
	MagnitudeSelector Selector = "magnitude"
	// FrequencySelector picks the highest frequency peak of the frame.
	FrequencySelector Selector = "frequency"
)

func ParseSelector(s string) (Selector, error) {
	switch Selector(s) {
	case MagnitudeSelector, FrequencySelector:
		return Selector(s), nil
	default:
		return "", errors.Newf("Unknown peak selector %q", s)
	}
}

// Peak returns the selected frequency of a frame, or 0 when nothing was detected.
func (m Matrix) Peak(frame int, selector Selector) float64 {
	best := 0.0
	bestMag := math.Inf(-1)

	for bin := 0; bin < m.Bins; bin++ {
		freq, mag := m.At(bin, frame)
		if freq <= 0 {
			continue
		}

		switch selector {
		case FrequencySelector:
			if freq > best {
				best = freq
			}
		default:
			if mag > bestMag {
				best = freq
				bestMag = mag
			}
		}
	}

	return best
}

func (m Matrix) Peaks(selector Selector) []float64 {
	peaks := make([]float64, m.Frames)
	for frame := range peaks {
		peaks[frame] = m.Peak(frame, selector)
	}

	return peaks
}

func HzToMidi(hz float64) float64 {
	return 12*math.Log2(hz/440) + 69
}

func NearestSemitone(hz float64) int {
	return int(math.Round(HzToMidi(hz)))
}
