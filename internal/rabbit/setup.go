// setup.go
package rabbit

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// QueueNotificaciones es la cola durable por la que viajan las notificaciones internas.
	QueueNotificaciones = "floreria.notificaciones"
	// QueueNotificacionesRetry demora los reintentos; al vencer el TTL el mensaje vuelve a la cola principal.
	QueueNotificacionesRetry = "floreria.notificaciones.retry"
	// QueueNotificacionesDLQ recibe lo que no se pudo procesar.
	QueueNotificacionesDLQ = "floreria.notificaciones.dlq"

	headerIntentos = "x-intentos"
	retryDelay     = 5 * time.Second
	maxIntentos    = 5
)

// Conn agrupa la conexión y los canales que usa el servicio.
type Conn struct {
	conn    *amqp091.Connection
	publish *Publisher
	consume *amqp091.Channel
}

func Dial(url string) (*Conn, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectando a RabbitMQ: %w", err)
	}
	pub, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("creando canal de publicación: %w", err)
	}
	con, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("creando canal de consumo: %w", err)
	}
	if err := declareQueues(pub); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Conn{conn: conn, publish: &Publisher{ch: pub}, consume: con}, nil
}

func declareQueues(ch *amqp091.Channel) error {
	queues := []struct {
		name string
		args amqp091.Table
	}{
		{name: QueueNotificacionesDLQ},
		{name: QueueNotificaciones, args: amqp091.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": QueueNotificacionesDLQ,
		}},
		{name: QueueNotificacionesRetry, args: amqp091.Table{
			"x-message-ttl":             int32(retryDelay.Milliseconds()),
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": QueueNotificaciones,
		}},
	}
	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			q.args,
		)
		if err != nil {
			return fmt.Errorf("declarando queue %s: %w", q.name, err)
		}
	}
	return nil
}

type accion int

const (
	accionAck accion = iota
	accionReintentar
	accionDescartar
)

// decidir resuelve qué hacer con una entrega según el resultado del handler y los
// intentos previos. Descartar hace nack sin requeue, con lo que va a la DLQ.
func decidir(err error, intentos int) accion {
	switch {
	case err == nil:
		return accionAck
	case IsPoison(err):
		return accionDescartar
	case intentos+1 >= maxIntentos:
		return accionDescartar
	default:
		return accionReintentar
	}
}

func intentos(h amqp091.Table) int {
	switch v := h[headerIntentos].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// SetupConsumers empieza a consumir la cola de notificaciones. El loop termina
// cuando se cierra el canal.
func (c *Conn) SetupConsumers(consumer *NotificacionConsumer, log *zap.Logger) error {
	if err := c.consume.Qos(10, 0, false); err != nil {
		return fmt.Errorf("configurando qos: %w", err)
	}

	msgs, err := c.consume.Consume(
		QueueNotificaciones,
		"floreria-service",
		false, // autoAck: confirmamos a mano después de persistir
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumiendo queue %s: %w", QueueNotificaciones, err)
	}

	go func() {
		for m := range msgs {
			n := intentos(m.Headers)
			switch decidir(consumer.Handle(m.Body), n) {
			case accionAck:
				_ = m.Ack(false)
			case accionDescartar:
				log.Warn("notificación a DLQ", zap.String("message_id", m.MessageId), zap.Int("intentos", n+1))
				_ = m.Nack(false, false)
			case accionReintentar:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := c.publish.reintentar(ctx, m, n+1)
				cancel()
				if err != nil {
					log.Error("no se pudo reprogramar notificación", zap.String("message_id", m.MessageId), zap.Error(err))
					_ = m.Nack(false, false)
					continue
				}
				_ = m.Ack(false)
			}
		}
		log.Info("consumer de notificaciones detenido")
	}()

	log.Info("suscrito a queue", zap.String("queue", QueueNotificaciones))
	return nil
}

func (c *Conn) Publisher() *Publisher {
	return c.publish
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
