package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Channel часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Message сообщение для публикации. CorrelationID и Type попадают в свойства AMQP.
type Message struct {
	CorrelationID string
	Type          string
	Timestamp     time.Time
	Body          any
}

// PublishMessage сериализует тело в JSON и публикует его в обменник.
func PublishMessage(ch Channel, exchange string, routingkey string, message Message) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			CorrelationId: message.CorrelationID,
			Type:          message.Type,
			Timestamp:     message.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
