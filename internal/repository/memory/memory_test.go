package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"floreria-service/internal/model"
	"floreria-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarcarVendidoUnaSolaVez(t *testing.T) {
	repo := NewStockRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Stock{ID: "s1", Estado: model.StockDisponible}))

	var ok, conflicto atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.MarcarVendido(ctx, "s1", model.Venta{MetodoPago: "EFECTIVO", Fecha: time.Now()})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, repository.ErrConflict):
				conflicto.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 9, conflicto.Load())
	assert.ErrorIs(t, repo.MarcarVendido(ctx, "nada", model.Venta{}), repository.ErrNotFound)
}

func TestPedidoUpdateAislaCopias(t *testing.T) {
	repo := NewPedidoRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Pedido{
		ID:                 "p1",
		Estado:             model.EstadoPendiente,
		HistorialEstado:    []model.RegistroEstado{{Estado: model.EstadoPendiente}},
		ComprobantesExtras: []string{},
	}))

	leido, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)

	estado := model.EstadoAsignado
	require.NoError(t, repo.Update(ctx, "p1",
		model.PedidoCambios{Estado: &estado, ComprobantesExtras: []string{"c1"}},
		&model.RegistroEstado{Estado: estado}))

	// la copia leída antes no cambia
	assert.Equal(t, model.EstadoPendiente, leido.Estado)
	assert.Len(t, leido.HistorialEstado, 1)

	actual, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAsignado, actual.Estado)
	assert.Len(t, actual.HistorialEstado, 2)
	assert.Equal(t, []string{"c1"}, actual.ComprobantesExtras)

	assert.ErrorIs(t, repo.Update(ctx, "nada", model.PedidoCambios{}, nil), repository.ErrNotFound)
}

func TestUsuarioEmailUnico(t *testing.T) {
	repo := NewUsuarioRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Usuario{ID: "u1", Email: "ana@flores.com"}))
	assert.ErrorIs(t, repo.Create(ctx, &model.Usuario{ID: "u2", Email: "ANA@flores.com"}), repository.ErrDuplicate)

	require.NoError(t, repo.Create(ctx, &model.Usuario{ID: "u2", Email: "bea@flores.com"}))
	assert.ErrorIs(t, repo.Update(ctx, &model.Usuario{ID: "u2", Email: "ana@flores.com"}), repository.ErrDuplicate)
}
