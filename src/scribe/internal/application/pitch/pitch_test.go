package pitch_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/audio"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/pitch"
)

var _ = Describe("Pitch", func() {
	Describe("HzToMidi", func() {
		It("maps concert A to 69", func() {
			Expect(pitch.HzToMidi(440)).To(BeNumerically("~", 69, 1e-9))
			Expect(pitch.NearestSemitone(440)).To(Equal(69))
		})

		It("rounds to the nearest semitone", func() {
			Expect(pitch.NearestSemitone(261.63)).To(Equal(60))
			Expect(pitch.NearestSemitone(452)).To(Equal(69))
			Expect(pitch.NearestSemitone(460)).To(Equal(70))
		})
	})

	Describe("ParseSelector", func() {
		It("accepts the known selectors", func() {
			Expect(pitch.ParseSelector("magnitude")).To(Equal(pitch.MagnitudeSelector))
			Expect(pitch.ParseSelector("frequency")).To(Equal(pitch.FrequencySelector))
		})

		It("rejects anything else", func() {
			_, err := pitch.ParseSelector("loudest")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Track", func() {
		var (
			sampleRate int
			buffer     audio.Buffer
			matrix     pitch.Matrix
		)

		JustBeforeEach(func() {
			matrix = pitch.Track(buffer, pitch.DefaultOptions())
		})

		BeforeEach(func() {
			sampleRate = 22050
		})

		Describe("Silence", func() {
			BeforeEach(func() {
				buffer = audio.Silence(sampleRate, time.Second)
			})

			It("has one frame per hop", func() {
				Expect(matrix.Frames).To(Equal(1 + len(buffer.Samples)/512))
				Expect(matrix.Bins).To(Equal(1025))
			})

			It("detects nothing", func() {
				for _, peak := range matrix.Peaks(pitch.MagnitudeSelector) {
					Expect(peak).To(BeZero())
				}
			})
		})

		Describe("Empty buffer", func() {
			BeforeEach(func() {
				buffer = audio.Buffer{SampleRate: sampleRate}
			})

			It("has no frames", func() {
				Expect(matrix.Frames).To(BeZero())
			})
		})

		Describe("A sinusoid recorded at 44.1 kHz", func() {
			BeforeEach(func() {
				sampleRate = 44100
				buffer = audio.Sine(440, 0.8, sampleRate, time.Second)
			})

			It("is tracked at the analysis rate", func() {
				Expect(matrix.Frames).To(Equal(1 + pitch.DefaultSampleRate/512))
			})

			It("frames the same as the tone at the analysis rate", func() {
				native := pitch.Track(audio.Sine(440, 0.8, pitch.DefaultSampleRate, time.Second), pitch.DefaultOptions())
				Expect(matrix.Frames).To(Equal(native.Frames))
			})

			It("still finds the tone", func() {
				peaks := matrix.Peaks(pitch.MagnitudeSelector)
				Expect(peaks[len(peaks)/2]).To(BeNumerically("~", 440, 3))
			})

			It("keeps the native rate when asked to", func() {
				options := pitch.DefaultOptions()
				options.SampleRate = 0

				Expect(pitch.Track(buffer, options).Frames).To(Equal(1 + 44100/512))
			})
		})

		for _, tone := range []struct {
			hz   float64
			midi int
		}{
			{hz: 440, midi: 69},
			{hz: 261.63, midi: 60},
			{hz: 987.77, midi: 83},
		} {
			tone := tone

			Describe("A single sinusoid", func() {
				BeforeEach(func() {
					buffer = audio.Sine(tone.hz, 0.8, sampleRate, time.Second)
				})

				It("detects the tone in every frame", func() {
					for _, peak := range matrix.Peaks(pitch.MagnitudeSelector) {
						Expect(peak).To(BeNumerically(">", 0))
					}
				})

				It("stays within a semitone of the tone", func() {
					for _, peak := range matrix.Peaks(pitch.MagnitudeSelector) {
						Expect(pitch.NearestSemitone(peak)).To(BeNumerically("~", tone.midi, 1))
					}
				})

				It("interpolates close to the true frequency away from the edges", func() {
					peaks := matrix.Peaks(pitch.MagnitudeSelector)
					middle := peaks[len(peaks)/2]
					Expect(middle).To(BeNumerically("~", tone.hz, 3))
				})

				It("stores the peak in the matrix", func() {
					frame := matrix.Frames / 2
					found := false
					for bin := 0; bin < matrix.Bins; bin++ {
						freq, mag := matrix.At(bin, frame)
						if freq > 0 {
							found = true
							Expect(mag).To(BeNumerically(">", 0))
						}
					}
					Expect(found).To(BeTrue())
				})
			})
		}
	})
})
