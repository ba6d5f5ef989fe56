package application

import (
	"github.com/rabbitmq/amqp091-go"
	cloudstorage "github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/cloud_storage/entity"
	filestore "github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/cloud_storage/store"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/driver"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/executor"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/job_router"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/save_artifacts_to_db"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/start"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/transcribe_song"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/pitch"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/render"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/separate"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/transcribe"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/worker"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/storagepath"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
	jobstorage "github.com/veedubyou/chord-paper-scribe/src/shared/job/storage"
	dynamolib "github.com/veedubyou/chord-paper-scribe/src/shared/lib/dynamo"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/rabbitmq"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	worker worker.QueueWorker
}

type Config struct {
	RabbitMQURL        string
	RabbitMQQueueName  string
	DynamoConfig       config.Dynamo
	CloudStorageConfig config.CloudStorage

	SpleeterBinPath string
	DemucsBinPath   string
	WorkingDirPath  string

	// Engine and SplitType fall back to spleeter with 5 stems.
	Engine    string
	SplitType string
}

func NewApp(config Config) App {
	consumerConn := must(amqp091.Dial(config.RabbitMQURL))

	return App{
		worker: newWorker(config, consumerConn),
	}
}

func (a *App) Start() error {
	err := a.worker.Start()
	if err != nil {
		return cerr.Wrap(err).Error("Failed to start worker")
	}

	return nil
}

func (a *App) Stop() {
	a.worker.Stop()
}

func newWorker(config Config, consumerConn *amqp091.Connection) worker.QueueWorker {
	publisher := must(rabbitmq.NewQueuePublisher(config.RabbitMQURL, config.RabbitMQQueueName))
	jobStore := jobstorage.NewDB(dynamolib.MakeDynamoDB(config.DynamoConfig))

	return must(worker.NewQueueWorkerFromConnection(
		consumerConn,
		config.RabbitMQQueueName,
		newJobRouter(config, jobStore, publisher)))
}

func newGoogleFileStore(cloudStorageConfig config.CloudStorage) filestore.GoogleFileStore {
	return must(filestore.NewGoogleFileStore(
		cloudStorageConfig.GetStorageHost(),
		cloudStorageConfig.ClientOptions()...,
	))
}

func newJobRouter(config Config, jobStore jobentity.Store, publisher rabbitmq.Publisher) job_router.JobRouter {
	pathGenerator := storagepath.Generator{
		Host:   config.CloudStorageConfig.GetStorageHost(),
		Bucket: config.CloudStorageConfig.GetBucket(),
	}

	return job_router.NewJobRouter(
		jobStore,
		publisher,
		start.NewJobHandler(jobStore),
		newTranscribeJobHandler(config, newGoogleFileStore(config.CloudStorageConfig), pathGenerator),
		save_artifacts_to_db.NewJobHandler(jobStore))
}

func newTranscribeJobHandler(config Config, fileStore cloudstorage.FileStore, pathGenerator storagepath.Generator) transcribe_song.JobHandler {
	engine := separate.SpleeterEngine
	if config.Engine != "" {
		engine = must(separate.ParseEngine(config.Engine))
	}

	splitType := separate.SplitFiveStemsType
	if config.SplitType != "" {
		splitType = must(separate.ParseSplitType(config.SplitType))
	}

	separator := must(separate.NewLocalSeparator(separate.Config{
		WorkingDir:      config.WorkingDirPath,
		SpleeterBinPath: config.SpleeterBinPath,
		DemucsBinPath:   config.DemucsBinPath,
		Engine:          engine,
		SplitType:       splitType,
	}, executor.BinaryFileExecutor{}))

	songDriver := driver.NewDriver(
		driver.Config{},
		separator,
		transcribe.NewTranscriber(pitch.DefaultOptions(), pitch.MagnitudeSelector),
		render.NewRenderer(render.Letter, false),
	)

	songTranscriber := must(transcribe_song.NewSongTranscriber(
		songDriver,
		fileStore,
		pathGenerator,
		config.WorkingDirPath,
	))

	return transcribe_song.NewJobHandler(songTranscriber)
}
