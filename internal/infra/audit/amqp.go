package audit

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	ExchangeName = "ex.audit"
	QueueName    = "q.activity"
	RoutingKey   = "k.activity"
)

// AMQPRecorder publishes entries to a durable exchange so downstream
// consumers (reporting, SIEM) can tail the activity stream. Publishing is
// best-effort like every other sink.
type AMQPRecorder struct {
	ch     *amqp.Channel
	logger *zap.Logger
}

func NewAMQPRecorder(conn *amqp.Connection, logger *zap.Logger) (*AMQPRecorder, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := setupTopology(ch); err != nil {
		return nil, err
	}
	return &AMQPRecorder{ch: ch, logger: logger}, nil
}

func setupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil)
}

func (r *AMQPRecorder) Record(ctx context.Context, actorID *int64, action, details string) {
	body, err := json.Marshal(Entry{
		ActorID:   actorID,
		Action:    action,
		Details:   details,
		IPAddress: ClientIP(ctx),
	})
	if err != nil {
		r.logger.Warn("audit event marshal failed", zap.String("action", action), zap.Error(err))
		return
	}

	err = r.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		r.logger.Warn("audit event publish failed", zap.String("action", action), zap.Error(err))
	}
}

func (r *AMQPRecorder) Close() error {
	return r.ch.Close()
}
