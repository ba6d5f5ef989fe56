package cmd

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/envvar"
)

var _ = Describe("Worker config", func() {
	setenv := func(key string, value string) {
		previous, wasSet := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())

		DeferCleanup(func() {
			if wasSet {
				_ = os.Setenv(key, previous)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	BeforeEach(func() {
		setenv(envvar.ENVIRONMENT, "production")
		setenv(envvar.AWS_ACCESS_KEY_ID, "key-id")
		setenv(envvar.AWS_SECRET_ACCESS_KEY, "secret")
		setenv(envvar.GOOGLE_CLOUD_KEY, "{}")
		setenv(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME, "bucket")
		setenv(envvar.RABBITMQ_URL, "amqp://localhost")
		setenv(envvar.RABBITMQ_QUEUE_NAME, "scribe")
		setenv(envvar.SPLEETER_BIN_PATH, "/usr/bin/spleeter")
		setenv(envvar.SCRIBE_WORKING_DIR_PATH, "/tmp/scribe")
		setenv(envvar.SCRIBE_ENGINE, "")
		setenv(envvar.SCRIBE_SPLIT_TYPE, "")
	})

	It("leaves the separation to the app defaults when unset", func() {
		config := workerConfig()

		Expect(config.Engine).To(BeEmpty())
		Expect(config.SplitType).To(BeEmpty())
	})

	It("reads the separation engine and split from the environment", func() {
		setenv(envvar.SCRIBE_ENGINE, "demucs")
		setenv(envvar.SCRIBE_SPLIT_TYPE, "4stems")

		config := workerConfig()

		Expect(config.Engine).To(Equal("demucs"))
		Expect(config.SplitType).To(Equal("4stems"))
		Expect(config.SpleeterBinPath).To(Equal("/usr/bin/spleeter"))
	})
})
