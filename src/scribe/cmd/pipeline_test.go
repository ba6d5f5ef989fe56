package cmd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/driver"
)

var _ = Describe("Pipeline flags", func() {
	It("registers the run defaults", func() {
		flags := runCmd.Flags()

		Expect(flags.Lookup("output").DefValue).To(Equal("./output"))
		Expect(flags.Lookup("engine").DefValue).To(Equal("spleeter"))
		Expect(flags.Lookup("split").DefValue).To(Equal("5stems"))
		Expect(flags.Lookup("stem-ext").DefValue).To(Equal(".wav"))
		Expect(flags.Lookup("peak").DefValue).To(Equal("magnitude"))
		Expect(flags.Lookup("sample-rate").DefValue).To(Equal("22050"))
	})

	It("picks the path scheme", func() {
		Expect((&pipelineFlags{}).scheme()).To(Equal(driver.LegacyScheme))
		Expect((&pipelineFlags{cleanPaths: true}).scheme()).To(Equal(driver.CleanScheme))
	})

	It("rejects an unknown peak selector", func() {
		_, err := (&pipelineFlags{peak: "loudest"}).transcriber()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a negative sample rate", func() {
		_, err := (&pipelineFlags{peak: "magnitude", sampleRate: -1}).transcriber()
		Expect(err).To(HaveOccurred())
	})

	It("accepts the native sample rate", func() {
		_, err := (&pipelineFlags{peak: "magnitude", sampleRate: 0}).transcriber()
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects an unknown engine before looking for binaries", func() {
		_, err := (&pipelineFlags{engine: "audacity", splitType: "5stems"}).separator()
		Expect(err).To(HaveOccurred())
	})

	It("takes the default audio file when none is given", func() {
		Expect(runCmd.Args(runCmd, []string{})).To(Succeed())
		Expect(runCmd.Args(runCmd, []string{"a.mp3", "b.mp3"})).NotTo(Succeed())
	})
})
