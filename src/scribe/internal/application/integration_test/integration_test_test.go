package integration_test_test

import (
	"context"
	"encoding/json"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/driver"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/integration_test/dummy"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/job_router"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/save_artifacts_to_db"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/start"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/transcribe_song"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/pitch"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/render"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/separate"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/transcribe"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/worker"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/storagepath"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
)

const pipelineTimeout = 10 * time.Second

var _ = Describe("IntegrationTest", func() {
	var (
		jobID            string
		originalURL      string
		originalSongData []byte
		pathGenerator    storagepath.Generator
		workingDir       string

		rabbitMQ          *dummy.RabbitMQ
		fileStore         *dummy.FileStore
		jobStore          *dummy.JobStore
		separatorExecutor *dummy.SeparatorExecutor

		queueWorker worker.QueueWorker
		run         func()
	)

	getJob := func() jobentity.Job {
		job, err := jobStore.GetJob(context.Background(), jobID)
		Expect(err).NotTo(HaveOccurred())
		return job
	}

	BeforeEach(func() {
		By("Assigning data to variables", func() {
			pathGenerator = storagepath.Generator{
				Host:   "https://storage.googleapis.com",
				Bucket: "bucket-head",
			}

			originalURL = pathGenerator.GeneratePath("uploads", "shelter.mp3")
			originalSongData = []byte("cool-jamz")

			var err error
			workingDir, err = os.MkdirTemp("", "integration-test")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, workingDir)
		})

		By("Instantiating all dummies", func() {
			rabbitMQ = dummy.NewRabbitMQ()
			fileStore = dummy.NewDummyFileStore()
			jobStore = dummy.NewDummyJobStore()
			separatorExecutor = dummy.NewDummySeparatorExecutor()
		})

		By("Setting up the stores", func() {
			job := jobentity.NewJob(originalURL)
			jobID = job.ID

			Expect(jobStore.SetJob(context.Background(), job)).To(Succeed())
			Expect(fileStore.WriteFile(context.Background(), originalURL, originalSongData)).To(Succeed())
		})

		var startHandler start.JobHandler
		By("Creating the start job handler", func() {
			startHandler = start.NewJobHandler(jobStore)
		})

		var transcribeHandler transcribe_song.JobHandler
		By("Creating the transcribe job handler", func() {
			separator, err := separate.NewLocalSeparator(separate.Config{
				WorkingDir:      workingDir,
				SpleeterBinPath: "/whatever/spleeter",
				Engine:          separate.SpleeterEngine,
				SplitType:       separate.SplitFourStemsType,
			}, separatorExecutor)
			Expect(err).NotTo(HaveOccurred())

			songDriver := driver.NewDriver(
				driver.Config{},
				separator,
				transcribe.NewTranscriber(pitch.DefaultOptions(), pitch.MagnitudeSelector),
				render.NewRenderer(render.Letter, false),
			)

			songTranscriber, err := transcribe_song.NewSongTranscriber(songDriver, fileStore, pathGenerator, workingDir)
			Expect(err).NotTo(HaveOccurred())

			transcribeHandler = transcribe_song.NewJobHandler(songTranscriber)
		})

		var saveHandler save_artifacts_to_db.JobHandler
		By("Creating the save artifacts to DB job handler", func() {
			saveHandler = save_artifacts_to_db.NewJobHandler(jobStore)
		})

		By("Instantiating the worker", func() {
			router := job_router.NewJobRouter(
				jobStore,
				rabbitMQ,
				startHandler,
				transcribeHandler,
				saveHandler,
			)
			queueWorker = worker.NewQueueWorker(rabbitMQ, "test-queue", router)
			DeferCleanup(queueWorker.Stop)
		})

		By("Setting up the run routine", func() {
			run = func() {
				go func() {
					defer GinkgoRecover()
					_ = queueWorker.Start()
				}()

				startJobParams := start.JobParams{
					JobIdentifier: job_message.JobIdentifier{JobID: jobID},
				}

				jsonBytes, err := json.Marshal(startJobParams)
				Expect(err).NotTo(HaveOccurred())

				err = rabbitMQ.Publish(amqp091.Publishing{
					Type: start.JobType,
					Body: jsonBytes,
				})
				Expect(err).NotTo(HaveOccurred())
			}
		})
	})

	Describe("All jobs run successfully", func() {
		BeforeEach(func() {
			run()
		})

		It("gets 3 acks", func() {
			Eventually(rabbitMQ.AckCounter, pipelineTimeout).Should(Equal(3))
		})

		It("gets no nacks", func() {
			Eventually(rabbitMQ.AckCounter, pipelineTimeout).Should(Equal(3))
			Consistently(rabbitMQ.NackCounter).Should(Equal(0))
		})

		It("runs the stages in order", func() {
			Eventually(rabbitMQ.PublishedTypes, pipelineTimeout).Should(Equal([]string{
				start.JobType,
				transcribe_song.JobType,
				save_artifacts_to_db.JobType,
			}))
		})

		It("uploads the artifacts and marks the job done", func() {
			Eventually(func() jobentity.Status {
				return getJob().Status
			}, pipelineTimeout).Should(Equal(jobentity.DoneStatus))

			job := getJob()
			Expect(job.Progress).To(Equal(100))
			Expect(job.ArtifactURLs).To(HaveKeyWithValue("original",
				pathGenerator.GeneratePath(jobID, "original/shelter.mp3")))
			Expect(job.ArtifactURLs).To(HaveKeyWithValue("shelter/vocals.wav",
				pathGenerator.GeneratePath(jobID, "shelter/vocals.wav")))
			Expect(job.ArtifactURLs).To(HaveKey("shelter/vocals.midi.midi"))
			Expect(job.ArtifactURLs).To(HaveKey("shelter/drums.pdf.pdf"))
			Expect(job.ArtifactURLs).NotTo(HaveKey("shelter/drums.midi.midi"))

			for _, artifactURL := range job.ArtifactURLs {
				contents, err := fileStore.GetFile(context.Background(), artifactURL)
				Expect(err).NotTo(HaveOccurred())
				Expect(contents).NotTo(BeEmpty())
			}

			original, err := fileStore.GetFile(context.Background(), job.ArtifactURLs["original"])
			Expect(err).NotTo(HaveOccurred())
			Expect(original).To(Equal(originalSongData))
		})
	})

	Describe("File storage is down", func() {
		BeforeEach(func() {
			fileStore.Unavailable = true
			run()
		})

		It("gets 1 ack for the start job", func() {
			Eventually(rabbitMQ.AckCounter, pipelineTimeout).Should(Equal(1))
		})

		It("gets 1 nack for the transcribe job failing", func() {
			Eventually(rabbitMQ.NackCounter, pipelineTimeout).Should(Equal(1))
		})

		It("reports the error status", func() {
			Eventually(func() jobentity.Status {
				return getJob().Status
			}, pipelineTimeout).Should(Equal(jobentity.ErrorStatus))

			job := getJob()
			Expect(job.StatusMessage).To(Equal(transcribe_song.ErrorMessage))
			Expect(job.StatusDebugLog).To(ContainSubstring("Network failure"))
		})
	})

	Describe("Separation fails", func() {
		BeforeEach(func() {
			separatorExecutor.Fail = true
			separatorExecutor.Output = "out of memory"
			run()
		})

		It("reports the tool output on the job", func() {
			Eventually(func() string {
				return getJob().StatusDebugLog
			}, pipelineTimeout).Should(ContainSubstring("out of memory"))

			Expect(getJob().Status).To(Equal(jobentity.ErrorStatus))
			Expect(rabbitMQ.NackCounter()).To(Equal(1))
		})
	})

	Describe("Job was already started", func() {
		BeforeEach(func() {
			err := jobStore.UpdateJob(context.Background(), jobID, func(job jobentity.Job) (jobentity.Job, error) {
				job.Status = jobentity.ProcessingStatus
				return job, nil
			})
			Expect(err).NotTo(HaveOccurred())

			run()
		})

		It("refuses to start it again", func() {
			Eventually(rabbitMQ.NackCounter, pipelineTimeout).Should(Equal(1))
			Expect(rabbitMQ.AckCounter()).To(Equal(0))
			Expect(getJob().StatusMessage).To(Equal(start.ErrorMessage))
		})
	})
})
