// Package notify despacha notificaciones internas sin bloquear la operación que las origina.
package notify

//go:generate mockgen -source=emitter.go -destination=mocks/mock_emitter.go -package=mocks

import (
	"context"

	"floreria-service/internal/model"
)

// Emitter es lo que ven los servicios. Emit nunca devuelve error: la entrega es best-effort.
type Emitter interface {
	Emit(ctx context.Context, n model.Notificacion)
}

// Sink entrega una notificación a su destino final (base de datos o cola).
type Sink interface {
	Deliver(ctx context.Context, n *model.Notificacion) error
}

type Creator interface {
	Create(ctx context.Context, n *model.Notificacion) error
}

// StoreSink persiste directamente en el repositorio de notificaciones.
type StoreSink struct {
	Repo Creator
}

func (s StoreSink) Deliver(ctx context.Context, n *model.Notificacion) error {
	return s.Repo.Create(ctx, n)
}
