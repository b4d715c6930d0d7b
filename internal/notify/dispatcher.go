package notify

import (
	"context"
	"sync"
	"time"

	"floreria-service/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliverTimeout = 5 * time.Second

// Dispatcher encola notificaciones y las entrega con un pool de workers.
// Si la cola está llena la notificación se descarta con un warning.
type Dispatcher struct {
	sink   Sink
	log    *zap.Logger
	queue  chan model.Notificacion
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

func NewDispatcher(sink Sink, workers, buffer int, log *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan model.Notificacion, buffer),
		now:   time.Now,
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) Emit(_ context.Context, n model.Notificacion) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("notificación descartada: dispatcher cerrado",
			zap.String("usuario_id", n.UsuarioID), zap.String("tipo", string(n.Tipo)))
		return
	}
	select {
	case d.queue <- n:
	default:
		d.log.Warn("notificación descartada: cola llena",
			zap.String("usuario_id", n.UsuarioID), zap.String("tipo", string(n.Tipo)))
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		if err := d.sink.Deliver(ctx, &n); err != nil {
			d.log.Error("error al entregar notificación",
				zap.Error(err),
				zap.String("usuario_id", n.UsuarioID),
				zap.String("tipo", string(n.Tipo)),
				zap.String("pedido_id", n.PedidoID))
		}
		cancel()
	}
}

// Close deja de aceptar notificaciones y espera a que se vacíe la cola.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
