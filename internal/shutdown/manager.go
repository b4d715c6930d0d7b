package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Manager espera SIGINT/SIGTERM y ejecuta las funciones registradas en orden inverso.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger
	mu      sync.Mutex
	funcs   []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{timeout: timeout, logger: logger}
}

func (m *Manager) Add(name string, fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append(m.funcs, closer{name: name, fn: fn})
}

// Wait bloquea hasta recibir una señal (o hasta que ctx termine) y luego cierra todo.
func (m *Manager) Wait(ctx context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case s := <-sig:
		m.logger.Info("señal recibida, iniciando apagado", zap.String("signal", s.String()))
	case <-ctx.Done():
		m.logger.Info("contexto cancelado, iniciando apagado")
	}
	m.Shutdown()
}

// Shutdown ejecuta los closers registrados, el último primero.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	funcs := make([]closer, len(m.funcs))
	copy(funcs, m.funcs)
	m.funcs = nil
	m.mu.Unlock()

	for i := len(funcs) - 1; i >= 0; i-- {
		c := funcs[i]
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		start := time.Now()
		err := c.fn(ctx)
		cancel()

		if err != nil {
			m.logger.Error("error al cerrar",
				zap.String("name", c.name),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)))
			continue
		}
		m.logger.Info("cerrado",
			zap.String("name", c.name),
			zap.Duration("duration", time.Since(start)))
	}
	m.logger.Info("apagado completo")
}

func ShutdownHTTPServer(srv interface {
	Shutdown(context.Context) error
}) func(context.Context) error {
	return srv.Shutdown
}

func DisconnectMongo(client interface {
	Disconnect(context.Context) error
}) func(context.Context) error {
	return client.Disconnect
}
