package service

import (
	"context"
	"time"

	"floreria-service/internal/model"
	"floreria-service/internal/notify"
	"floreria-service/internal/repository"

	"go.uber.org/zap"
)

type ResultadoSweep struct {
	Urgentes int
	Manana   int
}

// ReminderSweeper recuerda a los empleados las entregas próximas. No lleva
// registro de lo ya avisado: cada pasada vuelve a notificar lo que cae en la ventana.
type ReminderSweeper struct {
	Interval time.Duration
	pedidos  PedidoRepository
	usuarios UsuarioRepository
	notifier notify.Emitter
	log      *zap.Logger
	now      func() time.Time
}

func NewReminderSweeper(st *Store, n notify.Emitter, interval time.Duration, log *zap.Logger) *ReminderSweeper {
	return &ReminderSweeper{
		Interval: interval,
		pedidos:  st.Pedidos,
		usuarios: st.Usuarios,
		notifier: n,
		log:      log,
		now:      time.Now,
	}
}

// Run hace una pasada inmediata y luego una por intervalo hasta que ctx termine.
func (r *ReminderSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		if res, err := r.Sweep(ctx); err != nil {
			r.log.Error("error verificando recordatorios", zap.Error(err))
		} else if res.Urgentes+res.Manana > 0 {
			r.log.Info("recordatorios enviados", zap.Int("urgentes", res.Urgentes), zap.Int("manana", res.Manana))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

var estadosEnCurso = []model.Estado{model.EstadoAsignado, model.EstadoEnProceso}

func (r *ReminderSweeper) Sweep(ctx context.Context) (ResultadoSweep, error) {
	var res ResultadoSweep
	ahora := r.now()

	unaHora := ahora.Add(time.Hour)
	urgentes, err := r.enVentana(ctx, ahora, unaHora)
	if err != nil {
		return res, err
	}

	manana := ahora.Add(24 * time.Hour)
	deManana, err := r.enVentana(ctx, manana, manana.Add(time.Hour))
	if err != nil {
		return res, err
	}

	us := newUsuarios(r.usuarios)
	for _, p := range urgentes {
		if r.avisar(ctx, us, p, "⚠️ Entrega Urgente", "se entrega en menos de 1 hora") {
			res.Urgentes++
		}
	}
	for _, p := range deManana {
		if r.avisar(ctx, us, p, "Recordatorio de Entrega", "se entrega mañana") {
			res.Manana++
		}
	}
	return res, nil
}

func (r *ReminderSweeper) enVentana(ctx context.Context, desde, hasta time.Time) ([]*model.Pedido, error) {
	return r.pedidos.Find(ctx, repository.PedidoFilter{
		Estados:      estadosEnCurso,
		EntregaDesde: &desde,
		EntregaHasta: &hasta,
	})
}

func (r *ReminderSweeper) avisar(ctx context.Context, us *usuarios, p *model.Pedido, titulo, cuando string) bool {
	if p.EmpleadoID == "" {
		return false
	}
	cliente := "un cliente"
	if c, err := us.get(ctx, p.ClienteID); err != nil {
		r.log.Warn("no se pudo obtener el cliente del pedido", zap.String("pedido_id", p.ID), zap.Error(err))
	} else if c != nil {
		cliente = c.Nombre
	}
	r.notifier.Emit(ctx, model.Notificacion{
		UsuarioID: p.EmpleadoID,
		Tipo:      model.NotifRecordatorioEntrega,
		Titulo:    titulo,
		Mensaje:   "El pedido de " + cliente + " " + cuando + ": " + formatoFecha(p.HoraEntrega),
		PedidoID:  p.ID,
	})
	return true
}
