package jobstorage

import (
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/dynamo"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/errors/mark"
)

const (
	idKey     = "id"
	statusKey = "job_status"
)

var _ dynamo.ItemUnmarshaler = &dbJob{}

type dbJob map[string]any

func (d *dbJob) UnmarshalDynamoItem(dynamoItem map[string]*dynamodb.AttributeValue) error {
	if err := dynamolib.ValidateStringField(dynamoItem, idKey); err != nil {
		return mark.Wrap(err, UnmarshalMark, "Failed to validate id field")
	}

	if err := dynamolib.ValidateStringField(dynamoItem, statusKey); err != nil {
		return mark.Wrap(err, UnmarshalMark, "Failed to validate status field")
	}

	plainMap := map[string]any{}
	err := dynamo.UnmarshalItem(dynamoItem, &plainMap)
	if err != nil {
		return mark.Wrap(err, UnmarshalMark, "Failed to unmarshal dynamo item")
	}

	*d = plainMap

	return nil
}
