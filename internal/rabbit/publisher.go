package rabbit

import (
	"context"
	"encoding/json"
	"sync"

	"floreria-service/internal/model"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// NotificacionMessage es el sobre que viaja por la cola.
type NotificacionMessage struct {
	CorrelationID string             `json:"correlation_id"`
	RoutingKey    string             `json:"routing_key"`
	Message       model.Notificacion `json:"message"`
}

// Publisher implementa notify.Sink publicando en RabbitMQ.
type Publisher struct {
	mu sync.Mutex
	ch *amqp091.Channel
}

func (p *Publisher) Deliver(ctx context.Context, n *model.Notificacion) error {
	body, err := json.Marshal(NotificacionMessage{
		CorrelationID: uuid.NewString(),
		RoutingKey:    QueueNotificaciones,
		Message:       *n,
	})
	if err != nil {
		return err
	}

	// Un canal AMQP no admite publicaciones concurrentes.
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		"", // exchange por defecto: la routing key es el nombre de la cola
		QueueNotificaciones,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    n.ID,
			Timestamp:    n.CreatedAt,
			Body:         body,
		},
	)
}

// reintentar copia la entrega a la cola de espera con el contador de intentos actualizado.
func (p *Publisher) reintentar(ctx context.Context, m amqp091.Delivery, n int) error {
	headers := amqp091.Table{}
	for k, v := range m.Headers {
		headers[k] = v
	}
	headers[headerIntentos] = int32(n)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, "", QueueNotificacionesRetry, false, false,
		amqp091.Publishing{
			ContentType:  m.ContentType,
			DeliveryMode: amqp091.Persistent,
			MessageId:    m.MessageId,
			Timestamp:    m.Timestamp,
			Headers:      headers,
			Body:         m.Body,
		},
	)
}
