//go:build integration

package transcribe_job_test

import (
	"fmt"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	worker_app "github.com/veedubyou/chord-paper-scribe/src/scribe/application"
	server_app "github.com/veedubyou/chord-paper-scribe/src/server/application"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
	. "github.com/veedubyou/chord-paper-scribe/src/shared/testing"
)

var _ = Describe("TranscribeJob", Ordered, func() {
	var (
		server server_app.App
	)

	ServerHealthCheck := func() (int, error) {
		response, err := RequestFactory{
			Method: "GET",
			Target: ServerEndpoint("/health-check"),
		}.Do()

		if err != nil {
			return 0, err
		}

		return response.StatusCode, nil
	}

	CreateJob := func(originalURL string) jobentity.Job {
		response := ExpectSuccess(RequestFactory{
			Method: "POST",
			Target: ServerEndpoint("/jobs"),
			JSONObj: map[string]any{
				"original_url": originalURL,
				"title":        "Shelter",
			},
		}.Do())

		Expect(response.StatusCode).To(Equal(http.StatusOK))
		return DecodeJSON[jobentity.Job](response.Body)
	}

	GetJob := func(jobID string) jobentity.Job {
		response := ExpectSuccess(RequestFactory{
			Method: "GET",
			Target: ServerEndpoint(fmt.Sprintf("/jobs/%s", jobID)),
		}.Do())

		Expect(response.StatusCode).To(Equal(http.StatusOK))
		return DecodeJSON[jobentity.Job](response.Body)
	}

	BeforeAll(func() {
		ResetDB(db)
		ResetRabbitMQ(rabbitMQConn)

		By("Initializing Server")
		server = server_app.NewApp(ServerConfig(region))

		go func() {
			defer GinkgoRecover()
			Expect(server.Start()).To(Succeed())
		}()

		Eventually(ServerHealthCheck).
			WithTimeout(10 * time.Second).
			Should(Equal(http.StatusOK))
	})

	AfterAll(func() {
		Expect(server.Stop()).To(Succeed())
	})

	Describe("Requesting a job", func() {
		var (
			consumer RabbitMQConsumer
			job      jobentity.Job
		)

		BeforeEach(func() {
			ResetRabbitMQ(rabbitMQConn)
			consumer = NewRabbitMQConsumer(rabbitMQConn)
			go consumer.AsyncStart()

			job = CreateJob(fmt.Sprintf("%s/%s/uploads/shelter.mp3", storageHost, bucketName))
		})

		AfterEach(func() {
			consumer.Stop()
		})

		It("stores the requested job", func() {
			storedJob := GetJob(job.ID)
			Expect(storedJob.Status).To(Equal(jobentity.RequestedStatus))
			Expect(storedJob.OriginalURL).To(Equal(job.OriginalURL))
			Expect(storedJob.Metadata).To(HaveKeyWithValue("title", "Shelter"))
		})

		It("queues a start job message", func() {
			var received []ReceivedMessage
			Eventually(func() []ReceivedMessage {
				messages := ExpectSuccess(consumer.Unload())
				received = append(received, messages...)
				return received
			}).WithTimeout(5 * time.Second).Should(HaveLen(1))

			Expect(received[0].Type).To(Equal("start_job"))
			Expect(received[0].Message).To(HaveKeyWithValue("job_id", job.ID))
		})
	})

	Describe("Processing a job", func() {
		var (
			worker worker_app.App
		)

		BeforeEach(func() {
			ResetRabbitMQ(rabbitMQConn)

			By("Initializing Worker")
			worker = worker_app.NewApp(WorkerConfig(region, config.LocalCloudStorage{
				StorageHost:  storageHost,
				HostEndpoint: fmt.Sprintf("%s/storage/v1/", storageHost),
				BucketName:   bucketName,
			}))

			go func() {
				defer GinkgoRecover()
				_ = worker.Start()
			}()
		})

		AfterEach(func() {
			worker.Stop()
		})

		It("marks a job with audio outside the storage host as failed", func() {
			job := CreateJob("https://elsewhere.example.com/uploads/shelter.mp3")

			Eventually(func() jobentity.Status {
				return GetJob(job.ID).Status
			}).WithTimeout(10 * time.Second).Should(Equal(jobentity.ErrorStatus))

			failedJob := GetJob(job.ID)
			Expect(failedJob.StatusMessage).To(Equal("Failed to separate and transcribe the song"))
			Expect(failedJob.StatusDebugLog).NotTo(BeEmpty())
			Expect(failedJob.ArtifactURLs).To(BeEmpty())
		})
	})
})
