package cmd

import (
	"encoding/json"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/start"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/dev"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/envvar"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/rabbitmq"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <job-id>",
	Short: "Publish a start job for an existing job record",
	Long: `Publishes start_job for a job that is already stored in DynamoDB. Useful
to retry a job by hand once its status is back to requested.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID := args[0]
		errctx := cerr.Field("job_id", jobID)

		rabbitURL := envvar.Get(envvar.RABBITMQ_URL, dev.RabbitMQHost)
		queueName := envvar.Get(envvar.RABBITMQ_QUEUE_NAME, dev.RabbitMQQueueName)

		publisher, err := rabbitmq.NewQueuePublisher(rabbitURL, queueName)
		if err != nil {
			return errctx.Wrap(err).Error("Failed to connect to RabbitMQ")
		}

		body, err := json.Marshal(start.JobParams{
			JobIdentifier: job_message.JobIdentifier{JobID: jobID},
		})
		if err != nil {
			return errctx.Wrap(err).Error("Failed to marshal start job")
		}

		err = publisher.Publish(amqp091.Publishing{Type: start.JobType, Body: body})
		if err != nil {
			return errctx.Wrap(err).Error("Failed to publish start job")
		}

		log.WithFields(log.Fields{
			"jobID": jobID,
			"queue": queueName,
		}).Info("Published start job")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(enqueueCmd)
}
