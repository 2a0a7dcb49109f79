package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

const (
	ExchangeName   = "arrival-audit-exchange"
	MainQueueName  = "arrival-audit"
	RetryQueueName = "arrival-audit-retry"
	DLQName        = "arrival-audit-dlq"
	RoutingKey     = "arrival-audit"
)

// RepairJob asks the audit worker to re-apply the sent status for a record
// whose write failed after the message was already delivered.
type RepairJob struct {
	RecordID       uuid.UUID `json:"record_id"`
	IdempotencyKey string    `json:"idempotency_key"`
}

// AuditQueue is the RabbitMQ topology for audit-repair jobs: a main queue
// dead-lettering into the DLQ, and a retry queue feeding back into the main
// queue after a TTL.
type AuditQueue struct {
	Publisher *rabbitmq.Publisher
	Consumer  *rabbitmq.Consumer
}

func NewAuditQueue(ch *rabbitmq.Channel) (*AuditQueue, error) {
	exchange := rabbitmq.NewExchange(ExchangeName, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	_, err := qm.DeclareQueue(DLQName, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	retryArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": MainQueueName,
		"x-message-ttl":             int32(5000),
	}

	_, err = qm.DeclareQueue(RetryQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    retryArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	mainArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DLQName,
	}

	mainQ, err := qm.DeclareQueue(MainQueueName, rabbitmq.QueueConfig{
		Durable: true,
		Args:    mainArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())
	cons := rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(mainQ.Name))

	return &AuditQueue{Publisher: pub, Consumer: cons}, nil
}

func (q *AuditQueue) Publish(job RepairJob, strategy retry.Strategy) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal repair job: %w", err)
	}

	return q.Publisher.PublishWithRetry(body, RoutingKey, "application/json", strategy)
}

func (q *AuditQueue) Consume(ctx context.Context, out chan<- RepairJob, strategy retry.Strategy) error {
	msgChan := make(chan []byte)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgChan:
				if !ok {
					return
				}

				var job RepairJob
				if err := json.Unmarshal(m, &job); err != nil {
					zlog.Logger.Error().Err(err).Msg("failed to unmarshal repair job")
					continue
				}

				out <- job
			}
		}
	}()

	return q.Consumer.ConsumeWithRetry(msgChan, strategy)
}
