package testing

import (
	"encoding/json"
	"sync"

	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/rabbitmq"
)

func MakeRabbitMQConnection() *amqp091.Connection {
	return ExpectSuccess(amqp091.Dial(RabbitMQHost))
}

func ResetRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	ExpectWithOffset(1, rabbitmq.DeclareQueue(channel, RabbitMQQueueName)).To(Succeed())
	ExpectSuccess(channel.QueuePurge(RabbitMQQueueName, false))
}

func AfterSuiteRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	ExpectSuccess(channel.QueueDelete(RabbitMQQueueName, false, false, false))
}

type ReceivedMessage struct {
	Type    string
	Message map[string]any
}

type RabbitMQConsumer struct {
	channel          *amqp091.Channel
	channelLock      sync.Mutex
	queueName        string
	receivedMessages []ReceivedMessage
	err              error
}

func NewRabbitMQConsumer(conn *amqp091.Connection) RabbitMQConsumer {
	channel := ExpectSuccess(conn.Channel())

	return RabbitMQConsumer{
		channel:          channel,
		channelLock:      sync.Mutex{},
		queueName:        RabbitMQQueueName,
		receivedMessages: nil,
		err:              nil,
	}
}

func (r *RabbitMQConsumer) AsyncStart() {
	r.channelLock.Lock()
	if r.channel == nil {
		r.channelLock.Unlock()
		return
	}

	messageStream := ExpectSuccess(r.channel.Consume(
		r.queueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	))
	r.channelLock.Unlock()

	for message := range messageStream {
		if r.err != nil {
			continue
		}

		body := map[string]any{}
		err := json.Unmarshal(message.Body, &body)
		if err != nil {
			r.err = err
			continue
		}

		newMessage := ReceivedMessage{
			Type:    message.Type,
			Message: body,
		}

		r.receivedMessages = append(r.receivedMessages, newMessage)
	}
}

func (r *RabbitMQConsumer) Stop() {
	r.channelLock.Lock()
	defer r.channelLock.Unlock()
	_ = r.channel.Close()
	r.channel = nil
}

func (r *RabbitMQConsumer) Unload() ([]ReceivedMessage, error) {
	if r.err != nil {
		return nil, r.err
	}

	receivedMessages := r.receivedMessages
	r.receivedMessages = nil
	return receivedMessages, nil
}
