package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"floreria-service/internal/model"
	"floreria-service/internal/notify/mocks"
	"floreria-service/internal/repository"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func mensaje(t *testing.T, n model.Notificacion) []byte {
	t.Helper()
	b, err := json.Marshal(NotificacionMessage{CorrelationID: "c-1", RoutingKey: QueueNotificaciones, Message: n})
	require.NoError(t, err)
	return b
}

func TestNotificacionConsumerHandle(t *testing.T) {
	valida := model.Notificacion{ID: "n1", UsuarioID: "u1", Tipo: model.NotifPedidoAsignado, Titulo: "Pedido Asignado"}

	tests := []struct {
		name     string
		msg      func(t *testing.T) []byte
		repoErr  error
		llamadas int
		poison   bool
		wantErr  bool
	}{
		{name: "ok", msg: func(t *testing.T) []byte { return mensaje(t, valida) }, llamadas: 1},
		{name: "json inválido", msg: func(*testing.T) []byte { return []byte("{no json") }, poison: true, wantErr: true},
		{
			name:    "sin destinatario",
			msg:     func(t *testing.T) []byte { return mensaje(t, model.Notificacion{ID: "n2"}) },
			poison:  true,
			wantErr: true,
		},
		{
			name:     "reentrega",
			msg:      func(t *testing.T) []byte { return mensaje(t, valida) },
			repoErr:  repository.ErrDuplicate,
			llamadas: 1,
		},
		{
			name:     "error de base se reintenta",
			msg:      func(t *testing.T) []byte { return mensaje(t, valida) },
			repoErr:  errors.New("timeout"),
			llamadas: 1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockCreator(ctrl)
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, n *model.Notificacion) error {
					assert.Equal(t, "n1", n.ID)
					return tt.repoErr
				}).Times(tt.llamadas)

			err := NewNotificacionConsumer(repo, zap.NewNop()).Handle(tt.msg(t))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.poison, IsPoison(err))
		})
	}
}

func TestDecidirReintentos(t *testing.T) {
	caida := errors.New("mongo caído")

	tests := []struct {
		name     string
		err      error
		intentos int
		want     accion
	}{
		{"procesado", nil, 0, accionAck},
		{"mal formado va a la DLQ", errPoison, 0, accionDescartar},
		{"error de base se demora", caida, 0, accionReintentar},
		{"último reintento", caida, maxIntentos - 2, accionReintentar},
		{"agotó los intentos", caida, maxIntentos - 1, accionDescartar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decidir(tt.err, tt.intentos))
		})
	}
}

func TestIntentosDesdeHeaders(t *testing.T) {
	assert.Equal(t, 0, intentos(nil))
	assert.Equal(t, 0, intentos(amqp091.Table{headerIntentos: "3"}))
	assert.Equal(t, 3, intentos(amqp091.Table{headerIntentos: int32(3)}))
	assert.Equal(t, 4, intentos(amqp091.Table{headerIntentos: int64(4)}))
}
