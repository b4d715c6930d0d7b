package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"floreria-service/internal/model"
	"floreria-service/internal/notify"
	"floreria-service/internal/notify/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type entregadas struct {
	mu sync.Mutex
	ns []model.Notificacion
}

func (e *entregadas) deliver(_ context.Context, n *model.Notificacion) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ns = append(e.ns, *n)
	return nil
}

func (e *entregadas) len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ns)
}

func TestDispatcherEntregaYCierra(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	rec := &entregadas{}
	sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(rec.deliver).Times(3)

	d := notify.NewDispatcher(sink, 2, 10, zap.NewNop())
	for _, u := range []string{"u1", "u2", "u3"} {
		d.Emit(context.Background(), model.Notificacion{UsuarioID: u, Tipo: model.NotifNuevoPedido})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	require.Equal(t, 3, rec.len())
	for _, n := range rec.ns {
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.CreatedAt.IsZero())
	}

	// después de cerrar se descarta sin llegar al sink
	d.Emit(context.Background(), model.Notificacion{UsuarioID: "u4"})
	assert.Equal(t, 3, rec.len())
	require.NoError(t, d.Close(ctx), "Close es idempotente")
}

func TestDispatcherErrorDelSinkNoDetieneWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	rec := &entregadas{}
	gomock.InOrder(
		sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(errors.New("sin conexión")),
		sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(rec.deliver),
	)

	d := notify.NewDispatcher(sink, 1, 4, zap.NewNop())
	d.Emit(context.Background(), model.Notificacion{UsuarioID: "u1"})
	d.Emit(context.Background(), model.Notificacion{UsuarioID: "u2"})
	require.NoError(t, d.Close(context.Background()))
	require.Equal(t, 1, rec.len())
	assert.Equal(t, "u2", rec.ns[0].UsuarioID)
}

func TestDispatcherColaLlenaDescarta(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)

	bloqueo := make(chan struct{})
	entregadas := make(chan string, 4)
	sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n *model.Notificacion) error {
		<-bloqueo
		entregadas <- n.UsuarioID
		return nil
	}).AnyTimes()

	d := notify.NewDispatcher(sink, 1, 1, zap.NewNop())
	d.Emit(context.Background(), model.Notificacion{UsuarioID: "u1"})
	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), model.Notificacion{UsuarioID: "extra"})
	}
	close(bloqueo)
	require.NoError(t, d.Close(context.Background()))
	close(entregadas)

	var got []string
	for u := range entregadas {
		got = append(got, u)
	}
	// worker bloqueado más un lugar en el buffer
	assert.LessOrEqual(t, len(got), 2)
	assert.Contains(t, got, "u1")
}

func TestStoreSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCreator(ctrl)
	n := &model.Notificacion{ID: "n1", UsuarioID: "u1"}
	repo.EXPECT().Create(gomock.Any(), n).Return(nil)

	require.NoError(t, notify.StoreSink{Repo: repo}.Deliver(context.Background(), n))
}
