package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/application"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/dev"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/envvar"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/local"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/prod"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/env"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume transcription jobs from RabbitMQ",
	Long: `Runs the queue worker. Configuration comes from the environment, see
ENVIRONMENT, RABBITMQ_URL, GOOGLE_CLOUD_KEY and friends. SCRIBE_ENGINE and
SCRIBE_SPLIT_TYPE pick the separation, spleeter 5stems when unset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := application.NewApp(workerConfig())

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-signals
			log.Info("Stopping worker")
			app.Stop()
		}()

		return app.Start()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func workerConfig() application.Config {
	switch env.Get() {
	case env.Production:
		return application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			CloudStorageConfig: config.ProdCloudStorage{
				StorageHost: prod.GOOGLE_STORAGE_HOST,
				SecretKey:   envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName:  envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
			},
			RabbitMQURL:       envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName: envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			SpleeterBinPath:   envvar.MustGet(envvar.SPLEETER_BIN_PATH),
			DemucsBinPath:     envvar.Get(envvar.DEMUCS_BIN_PATH, ""),
			WorkingDirPath:    envvar.MustGet(envvar.SCRIBE_WORKING_DIR_PATH),
			Engine:            envvar.Get(envvar.SCRIBE_ENGINE, ""),
			SplitType:         envvar.Get(envvar.SCRIBE_SPLIT_TYPE, ""),
		}

	case env.Development:
		return application.Config{
			DynamoConfig:       dev.DynamoConfig,
			CloudStorageConfig: dev.CloudStorageConfig,
			RabbitMQURL:        dev.RabbitMQHost,
			RabbitMQQueueName:  dev.RabbitMQQueueName,
			SpleeterBinPath:    config.SpleeterPath(),
			DemucsBinPath:      envvar.Get(envvar.DEMUCS_BIN_PATH, ""),
			WorkingDirPath:     local.WorkingDir("worker"),
			Engine:             envvar.Get(envvar.SCRIBE_ENGINE, ""),
			SplitType:          envvar.Get(envvar.SCRIBE_SPLIT_TYPE, ""),
		}

	default:
		panic("Unexpected environment")
	}
}
