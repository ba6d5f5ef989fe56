// Package pitch estimates spectral peak frequencies frame by frame using
// parabolic interpolation over STFT magnitudes.
package pitch

import (
	"math"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/audio"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// DefaultSampleRate is the analysis rate stems are brought to before tracking.
const DefaultSampleRate = 22050

type Options struct {
	// SampleRate resamples the buffer before tracking. Zero keeps the native rate.
	SampleRate int
	FrameSize  int
	HopSize    int
	MinFreq    float64
	MaxFreq    float64
	// Threshold is relative to the loudest bin of each frame.
	Threshold float64
}

func DefaultOptions() Options {
	return Options{
		SampleRate: DefaultSampleRate,
		FrameSize:  2048,
		HopSize:    512,
		MinFreq:    150,
		MaxFreq:    4000,
		Threshold:  0.1,
	}
}

// Track resamples the buffer to SampleRate, runs a centered, zero padded STFT
// over it and keeps every local maximum above the per frame threshold inside
// [MinFreq, MaxFreq).
func Track(buffer audio.Buffer, opts Options) Matrix {
	buffer = audio.Resample(buffer, opts.SampleRate)
	n := opts.FrameSize
	bins := n/2 + 1

	if len(buffer.Samples) == 0 || buffer.SampleRate <= 0 {
		return newMatrix(bins, 0)
	}

	padded := make([]float64, len(buffer.Samples)+n)
	copy(padded[n/2:], buffer.Samples)

	frames := 1 + (len(padded)-n)/opts.HopSize
	matrix := newMatrix(bins, frames)

	hann := periodicHann(n)
	fft := fourier.NewFFT(n)
	binWidth := float64(buffer.SampleRate) / float64(n)

	segment := make([]float64, n)
	coeffs := make([]complex128, bins)
	spectrum := make([]float64, bins)
	masked := make([]float64, bins)

	for frame := 0; frame < frames; frame++ {
		start := frame * opts.HopSize
		copy(segment, padded[start:start+n])
		hann.Transform(segment)
		coeffs = fft.Coefficients(coeffs, segment)

		for k, c := range coeffs {
			spectrum[k] = math.Hypot(real(c), imag(c))
		}

		ref := opts.Threshold * floats.Max(spectrum)
		for k, s := range spectrum {
			if s > ref {
				masked[k] = s
			} else {
				masked[k] = 0
			}
		}

		for k := 1; k < bins-1; k++ {
			freq := float64(k) * binWidth
			if freq < opts.MinFreq || freq >= opts.MaxFreq {
				continue
			}

			if !isLocalMax(masked, k) {
				continue
			}

			avg := 0.5 * (spectrum[k+1] - spectrum[k-1])
			curvature := 2*spectrum[k] - spectrum[k+1] - spectrum[k-1]
			if math.Abs(curvature) < tiny {
				curvature += 1
			}
			shift := avg / curvature

			matrix.set(k, frame,
				(float64(k)+shift)*binWidth,
				spectrum[k]+0.5*avg*shift)
		}
	}

	return matrix
}

const tiny = 1.1754943508222875e-38

func isLocalMax(x []float64, i int) bool {
	left := x[i]
	if i > 0 {
		left = x[i-1]
	}

	right := x[i]
	if i < len(x)-1 {
		right = x[i+1]
	}

	return x[i] > left && x[i] >= right
}

func periodicHann(n int) window.Values {
	return window.NewValues(window.Hann, n+1)[:n]
}
