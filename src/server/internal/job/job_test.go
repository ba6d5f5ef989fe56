package job_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-scribe/src/server/application"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
	testinghelpers "github.com/veedubyou/chord-paper-scribe/src/shared/testing"
)

var _ = Describe("Job", func() {
	var (
		jobStore  *memoryJobStore
		publisher *recordingPublisher
		app       application.App
	)

	BeforeEach(func() {
		jobStore = newMemoryJobStore()
		publisher = &recordingPublisher{}
		app = application.NewAppWithDependencies(
			testinghelpers.ServerConfig("test-region"),
			jobStore,
			publisher,
		)
	})

	serve := func(request *http.Request) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		app.Handler().ServeHTTP(recorder, request)
		return recorder
	}

	It("answers health checks", func() {
		response := serve(testinghelpers.RequestFactory{
			Method: "GET",
			Target: "/health-check",
		}.MakeFake())

		Expect(response.Code).To(Equal(http.StatusOK))
	})

	Describe("Create job", func() {
		var requestBody map[string]any

		BeforeEach(func() {
			requestBody = map[string]any{
				"original_url": "https://storage.googleapis.com/bucket/uploads/shelter.mp3",
				"title":        "Shelter",
			}
		})

		createJob := func() *httptest.ResponseRecorder {
			return serve(testinghelpers.RequestFactory{
				Method:  "POST",
				Target:  "/jobs",
				JSONObj: requestBody,
			}.MakeFake())
		}

		Describe("Happy path", func() {
			var (
				response *httptest.ResponseRecorder
				job      jobentity.Job
			)

			BeforeEach(func() {
				response = createJob()
				Expect(response.Code).To(Equal(http.StatusOK))
				job = testinghelpers.DecodeJSON[jobentity.Job](response.Body)
			})

			It("returns a requested job", func() {
				Expect(job.ID).NotTo(BeEmpty())
				Expect(job.OriginalURL).To(Equal(requestBody["original_url"]))
				Expect(job.Status).To(Equal(jobentity.RequestedStatus))
			})

			It("keeps the extra fields as metadata", func() {
				Expect(job.Metadata).To(HaveKeyWithValue("title", "Shelter"))
			})

			It("stores the job", func() {
				stored, err := jobStore.GetJob(context.Background(), job.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(stored.Status).To(Equal(jobentity.RequestedStatus))
			})

			It("publishes a start job", func() {
				Expect(publisher.messages).To(HaveLen(1))
				Expect(publisher.messages[0].Type).To(Equal("start_job"))

				body := map[string]any{}
				Expect(json.Unmarshal(publisher.messages[0].Body, &body)).To(Succeed())
				Expect(body).To(Equal(map[string]any{"job_id": job.ID}))
			})
		})

		It("rejects a missing original URL", func() {
			delete(requestBody, "original_url")

			response := createJob()
			Expect(response.Code).To(Equal(http.StatusBadRequest))
			Expect(testinghelpers.DecodeJSONError(response.Body).Code).To(Equal("bad_job_data"))
			Expect(publisher.messages).To(BeEmpty())
		})

		It("rejects an empty body", func() {
			response := serve(testinghelpers.RequestFactory{
				Method: "POST",
				Target: "/jobs",
				Mods: testinghelpers.RequestModifiers{
					testinghelpers.WithHeader("Content-Type", "application/json"),
				},
			}.MakeFake())

			Expect(response.Code).NotTo(Equal(http.StatusOK))
		})

		It("marks the job failed when the queue is down", func() {
			publisher.unavailable = true

			response := createJob()
			Expect(response.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(testinghelpers.DecodeJSONError(response.Body).Code).To(Equal("job_publish_failed"))

			Expect(jobStore.jobs).To(HaveLen(1))
			for _, job := range jobStore.jobs {
				Expect(job.Status).To(Equal(jobentity.ErrorStatus))
				Expect(job.StatusDebugLog).To(ContainSubstring("connection refused"))
			}
		})
	})

	Describe("Get job", func() {
		It("returns a stored job", func() {
			job := jobentity.NewJob("https://storage.googleapis.com/bucket/shelter.mp3")
			Expect(jobStore.SetJob(context.Background(), job)).To(Succeed())

			response := serve(testinghelpers.RequestFactory{
				Method: "GET",
				Target: "/jobs/" + job.ID,
			}.MakeFake())

			Expect(response.Code).To(Equal(http.StatusOK))
			fetched := testinghelpers.DecodeJSON[jobentity.Job](response.Body)
			Expect(fetched.ID).To(Equal(job.ID))
			Expect(fetched.OriginalURL).To(Equal(job.OriginalURL))
		})

		It("returns 404 for an unknown job", func() {
			response := serve(testinghelpers.RequestFactory{
				Method: "GET",
				Target: "/jobs/nope",
			}.MakeFake())

			Expect(response.Code).To(Equal(http.StatusNotFound))
			Expect(testinghelpers.DecodeJSONError(response.Body).Code).To(Equal("job_not_found"))
		})
	})
})
