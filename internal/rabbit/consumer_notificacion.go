package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"floreria-service/internal/notify"
	"floreria-service/internal/repository"

	"go.uber.org/zap"
)

var errPoison = errors.New("mensaje inválido")

// IsPoison indica que el mensaje no tiene arreglo y no debe reintentarse.
func IsPoison(err error) bool { return errors.Is(err, errPoison) }

type NotificacionConsumer struct {
	repo notify.Creator
	log  *zap.Logger
}

func NewNotificacionConsumer(repo notify.Creator, log *zap.Logger) *NotificacionConsumer {
	return &NotificacionConsumer{repo: repo, log: log}
}

func (c *NotificacionConsumer) Handle(msg []byte) error {
	var event NotificacionMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		c.log.Warn("error parseando mensaje", zap.Error(err))
		return errors.Join(errPoison, err)
	}
	n := event.Message
	if n.ID == "" || n.UsuarioID == "" {
		c.log.Warn("notificación sin id o destinatario", zap.String("correlation_id", event.CorrelationID))
		return errPoison
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.repo.Create(ctx, &n)
	if errors.Is(err, repository.ErrDuplicate) {
		// Reentrega de un mensaje ya persistido.
		c.log.Debug("notificación ya registrada", zap.String("id", n.ID))
		return nil
	}
	if err != nil {
		c.log.Error("error guardando notificación", zap.Error(err), zap.String("id", n.ID))
		return err
	}

	c.log.Debug("notificación registrada",
		zap.String("id", n.ID),
		zap.String("usuario_id", n.UsuarioID),
		zap.String("tipo", string(n.Tipo)))
	return nil
}
