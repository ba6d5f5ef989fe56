package dummy

import (
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/worker"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/rabbitmq"
)

var _ rabbitmq.Publisher = &RabbitMQ{}
var _ worker.MessageChannel = &RabbitMQ{}
var _ amqp091.Acknowledger = RabbitMQAcknowledger{}

type RabbitMQ struct {
	Unavailable    bool
	MessageChannel chan amqp091.Delivery
	Published      []amqp091.Publishing

	ackCounter  int
	nackCounter int
	closed      bool
	mutex       sync.Mutex
}

type RabbitMQAcknowledger struct {
	ack  func()
	nack func()
}

func NewRabbitMQ() *RabbitMQ {
	return &RabbitMQ{
		Unavailable:    false,
		MessageChannel: make(chan amqp091.Delivery, 100),
	}
}

func (r *RabbitMQ) AckCounter() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.ackCounter
}

func (r *RabbitMQ) NackCounter() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.nackCounter
}

func (r *RabbitMQ) PublishedTypes() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var types []string
	for _, msg := range r.Published {
		types = append(types, msg.Type)
	}

	return types
}

func (r *RabbitMQ) Publish(msg amqp091.Publishing) error {
	if r.Unavailable {
		return NetworkFailure
	}

	acknowledger := RabbitMQAcknowledger{
		ack: func() {
			r.mutex.Lock()
			defer r.mutex.Unlock()
			r.ackCounter++
		},
		nack: func() {
			r.mutex.Lock()
			defer r.mutex.Unlock()
			r.nackCounter++
		},
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return NetworkFailure
	}

	r.Published = append(r.Published, msg)
	r.MessageChannel <- amqp091.Delivery{
		Acknowledger:    acknowledger,
		ContentType:     msg.ContentType,
		ContentEncoding: msg.ContentEncoding,
		DeliveryMode:    msg.DeliveryMode,
		Timestamp:       msg.Timestamp,
		Type:            msg.Type,
		Body:            msg.Body,
	}
	return nil
}

func (r *RabbitMQ) Consume(_ string, _ string, _ bool, _ bool, _ bool, _ bool, _ amqp091.Table) (<-chan amqp091.Delivery, error) {
	if r.Unavailable {
		return nil, NetworkFailure
	}

	return r.MessageChannel, nil
}

func (r *RabbitMQ) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.closed {
		r.closed = true
		close(r.MessageChannel)
	}
	return nil
}

func (r RabbitMQAcknowledger) Ack(_ uint64, _ bool) error {
	r.ack()
	return nil
}

func (r RabbitMQAcknowledger) Nack(_ uint64, _ bool, _ bool) error {
	r.nack()
	return nil
}

func (r RabbitMQAcknowledger) Reject(_ uint64, _ bool) error {
	r.nack()
	return nil
}
