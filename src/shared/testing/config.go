package testing

import (
	"github.com/veedubyou/chord-paper-scribe/src/scribe/application"
	server_app "github.com/veedubyou/chord-paper-scribe/src/server/application"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/dev"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/local"
)

func ServerConfig(dbRegion string) server_app.Config {
	return server_app.Config{
		DynamoConfig:       DynamoConfig(dbRegion),
		RabbitMQURL:        RabbitMQHost,
		RabbitMQQueueName:  RabbitMQQueueName,
		CORSAllowedOrigins: []string{"*"},
		Port:               ServerPort,
		Log:                false,
	}
}

func WorkerConfig(dbRegion string, cloudStorageConfig config.LocalCloudStorage) application.Config {
	return application.Config{
		DynamoConfig:       DynamoConfig(dbRegion),
		CloudStorageConfig: cloudStorageConfig,
		RabbitMQURL:        RabbitMQHost,
		RabbitMQQueueName:  RabbitMQQueueName,
		SpleeterBinPath:    "/not-a-real-path-until-we-need-one",
		DemucsBinPath:      "/not-a-real-path-until-we-need-one",
		WorkingDirPath:     local.WorkingDir("test"),
	}
}

// DynamoDB
const (
	DynamoAccessKeyID     = dev.DynamoAccessKeyID
	DynamoSecretAccessKey = dev.DynamoSecretAccessKey
	DynamoDBHost          = dev.DynamoDBHost
)

func DynamoConfig(region string) config.LocalDynamo {
	return config.LocalDynamo{
		AccessKeyID:     DynamoAccessKeyID,
		SecretAccessKey: DynamoSecretAccessKey,
		Region:          region,
		Host:            DynamoDBHost,
	}
}

// RabbitMQ
const (
	RabbitMQHost      = dev.RabbitMQHost
	RabbitMQQueueName = "chord-paper-scribe-test"
)

// Server
const (
	ServerPort = ":5010"
)
