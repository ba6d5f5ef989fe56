package audio

import "math"

// zeroCrossings is the half width of the interpolation kernel, counted in
// zero crossings of the sinc at the lower of the two rates.
const zeroCrossings = 16

// Resample converts the buffer to targetRate with a Hann windowed sinc
// interpolator. The output has ceil(len * targetRate / rate) samples. When
// downsampling the kernel is widened so content above the new Nyquist
// frequency is filtered out first.
func Resample(buffer Buffer, targetRate int) Buffer {
	if targetRate <= 0 || buffer.SampleRate <= 0 || targetRate == buffer.SampleRate {
		return buffer
	}

	ratio := float64(targetRate) / float64(buffer.SampleRate)
	outLen := int(math.Ceil(float64(len(buffer.Samples)) * ratio))
	out := make([]float64, outLen)

	cutoff := math.Min(1, ratio)
	halfWidth := float64(zeroCrossings) / cutoff
	reach := int(math.Ceil(halfWidth))

	for i := range out {
		position := float64(i) / ratio
		center := int(math.Floor(position))

		lo := max(center-reach+1, 0)
		hi := min(center+reach, len(buffer.Samples)-1)

		sum := 0.0
		for k := lo; k <= hi; k++ {
			distance := position - float64(k)
			if math.Abs(distance) >= halfWidth {
				continue
			}

			taper := 0.5 * (1 + math.Cos(math.Pi*distance/halfWidth))
			sum += buffer.Samples[k] * cutoff * sinc(cutoff*distance) * taper
		}
		out[i] = sum
	}

	return Buffer{Samples: out, SampleRate: targetRate}
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}
