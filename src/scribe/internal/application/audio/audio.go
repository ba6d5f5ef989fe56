package audio

import (
	"io"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

const (
	pcmFormat   = 1
	floatFormat = 3

	DefaultBitDepth = 16
)

// Buffer is a mono waveform with samples in [-1, 1].
type Buffer struct {
	Samples    []float64
	SampleRate int
}

func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	seconds := float64(len(b.Samples)) / float64(b.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

func LoadWAV(path string) (Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return Buffer{}, cerr.Field("path", path).Wrap(err).Error("Failed to open audio file")
	}
	defer file.Close()

	buffer, err := DecodeWAV(file)
	if err != nil {
		return Buffer{}, cerr.Field("path", path).Wrap(err).Error("Failed to decode audio file")
	}

	return buffer, nil
}

// DecodeWAV reads an integer PCM or 32 bit float wav stream and averages all
// channels down to mono.
func DecodeWAV(r io.ReadSeeker) (Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Buffer{}, cerr.Error("Not a valid wav file")
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return Buffer{}, cerr.Wrap(err).Error("Failed to read PCM data")
	}

	numChannels := pcm.Format.NumChannels
	if numChannels <= 0 {
		return Buffer{}, cerr.Field("num_channels", numChannels).Error("Wav file has no channels")
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = pcm.SourceBitDepth
	}

	toFloat, err := sampleConverter(decoder.WavAudioFormat, bitDepth)
	if err != nil {
		return Buffer{}, err
	}

	frameCount := len(pcm.Data) / numChannels
	samples := make([]float64, frameCount)

	for i := 0; i < frameCount; i++ {
		sum := 0.0
		for ch := 0; ch < numChannels; ch++ {
			sum += toFloat(pcm.Data[i*numChannels+ch])
		}
		samples[i] = sum / float64(numChannels)
	}

	return Buffer{
		Samples:    samples,
		SampleRate: pcm.Format.SampleRate,
	}, nil
}

// sampleConverter maps a raw decoded sample to [-1, 1]. 8 bit PCM is
// unsigned, wider PCM is signed and float data arrives as its IEEE bits.
func sampleConverter(audioFormat uint16, bitDepth int) (func(int) float64, error) {
	errctx := cerr.Fields(cerr.F{
		"audio_format": audioFormat,
		"bit_depth":    bitDepth,
	})

	switch audioFormat {
	case pcmFormat:
		if bitDepth <= 0 || bitDepth > 32 {
			return nil, errctx.Error("Unsupported PCM bit depth")
		}

		if bitDepth == 8 {
			return func(v int) float64 {
				return float64(v-128) / 128
			}, nil
		}

		scale := math.Pow(2, float64(bitDepth-1))
		return func(v int) float64 {
			return float64(v) / scale
		}, nil

	case floatFormat:
		if bitDepth != 32 {
			return nil, errctx.Error("Unsupported float bit depth")
		}

		return func(v int) float64 {
			return float64(math.Float32frombits(uint32(v)))
		}, nil

	default:
		return nil, errctx.Error("Unsupported wav audio format")
	}
}

// WriteWAV writes the buffer as a mono PCM wav file.
func WriteWAV(path string, buffer Buffer, bitDepth int) error {
	errctx := cerr.Field("path", path)

	file, err := os.Create(path)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to create wav file")
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, buffer.SampleRate, bitDepth, 1, pcmFormat)

	scale := math.Pow(2, float64(bitDepth-1)) - 1
	data := make([]int, len(buffer.Samples))
	for i, sample := range buffer.Samples {
		clamped := math.Max(-1, math.Min(1, sample))
		data[i] = int(math.Round(clamped * scale))
	}

	pcm := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  buffer.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(pcm); err != nil {
		return errctx.Wrap(err).Error("Failed to write PCM data")
	}

	if err := encoder.Close(); err != nil {
		return errctx.Wrap(err).Error("Failed to finalize wav file")
	}

	return nil
}

// Sine generates a tone, mostly useful for fixtures.
func Sine(frequency float64, amplitude float64, sampleRate int, duration time.Duration) Buffer {
	count := int(duration.Seconds() * float64(sampleRate))
	samples := make([]float64, count)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate))
	}

	return Buffer{Samples: samples, SampleRate: sampleRate}
}

func Silence(sampleRate int, duration time.Duration) Buffer {
	count := int(duration.Seconds() * float64(sampleRate))
	return Buffer{Samples: make([]float64, count), SampleRate: sampleRate}
}
