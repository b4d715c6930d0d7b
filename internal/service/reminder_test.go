package service

import (
	"context"
	"testing"
	"time"

	"floreria-service/internal/model"
	"floreria-service/internal/notify/mocks"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestReminderSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	emitter := mocks.NewMockEmitter(ctrl)
	rec := &emitidas{}
	emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(rec.add).AnyTimes()

	st := nuevoStore()
	ctx := context.Background()
	cliente := crearUsuario(t, st, model.RolCliente, "Carla", "")
	empleado := crearUsuario(t, st, model.RolEmpleado, "Ernesto", "")
	arreglo := crearArreglo(t, st, empleado, "100", true)

	ahora := time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)
	pedido := func(estado model.Estado, empleadoID string, en time.Duration) string {
		p := &model.Pedido{
			ID:                 uuid.NewString(),
			ClienteID:          cliente.ID,
			EmpleadoID:         empleadoID,
			ArregloID:          arreglo.ID,
			HoraEntrega:        ahora.Add(en),
			ValorAcordado:      decimal.NewFromInt(100),
			Estado:             estado,
			ComprobantesExtras: []string{},
			HistorialEstado:    []model.RegistroEstado{},
			CreatedAt:          ahora,
			UpdatedAt:          ahora,
		}
		require.NoError(t, st.Pedidos.Create(ctx, p))
		return p.ID
	}

	urgente := pedido(model.EstadoAsignado, empleado.ID, 30*time.Minute)
	manana := pedido(model.EstadoEnProceso, empleado.ID, 24*time.Hour+30*time.Minute)
	pedido(model.EstadoAsignado, empleado.ID, 3*time.Hour)      // fuera de ventana
	pedido(model.EstadoPendiente, empleado.ID, 20*time.Minute)  // estado no elegible
	pedido(model.EstadoCompletado, empleado.ID, 10*time.Minute) // estado no elegible
	pedido(model.EstadoEnProceso, "", 40*time.Minute)           // sin empleado

	sw := NewReminderSweeper(st, emitter, time.Minute, zap.NewNop())
	sw.now = func() time.Time { return ahora }

	res, err := sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, ResultadoSweep{Urgentes: 1, Manana: 1}, res)

	ns := rec.deTipo(model.NotifRecordatorioEntrega)
	require.Len(t, ns, 2)
	porPedido := map[string]model.Notificacion{}
	for _, n := range ns {
		assert.Equal(t, empleado.ID, n.UsuarioID)
		porPedido[n.PedidoID] = n
	}
	assert.Equal(t, "⚠️ Entrega Urgente", porPedido[urgente].Titulo)
	assert.Contains(t, porPedido[urgente].Mensaje, "Carla")
	assert.Equal(t, "Recordatorio de Entrega", porPedido[manana].Titulo)

	// sin deduplicación: una segunda pasada vuelve a avisar
	_, err = sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Len(t, rec.deTipo(model.NotifRecordatorioEntrega), 4)
}

func TestReminderRunTerminaConContexto(t *testing.T) {
	ctrl := gomock.NewController(t)
	emitter := mocks.NewMockEmitter(ctrl)

	sw := NewReminderSweeper(nuevoStore(), emitter, 10*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run no terminó al cancelar el contexto")
	}
}
