//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"floreria-service/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := mongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := Connect(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("floreria_test")
	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	ahora := time.Now().UTC().Truncate(time.Millisecond)

	usuarios := NewMongoUsuarioRepository(db)
	u := &model.Usuario{ID: "u1", Email: "ana@flores.com", Nombre: "Ana", Rol: model.RolAdmin, Activo: true, CreatedAt: ahora}
	require.NoError(t, usuarios.Create(ctx, u))
	dup := *u
	dup.ID = "u2"
	assert.ErrorIs(t, usuarios.Create(ctx, &dup), ErrDuplicate)

	t.Run("decimal se conserva", func(t *testing.T) {
		arreglos := NewMongoArregloRepository(db)
		a := &model.Arreglo{
			ID: "a1", Nombre: "Ramo", Costo: decimal.RequireFromString("33.33"),
			Disponible: true, CreadorID: u.ID, ImagenesAdicionales: []string{}, CreatedAt: ahora,
		}
		require.NoError(t, arreglos.Create(ctx, a))
		require.NoError(t, arreglos.UpdateCosto(ctx, a.ID, decimal.RequireFromString("38.50")))

		got, err := arreglos.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "38.5", got.Costo.String())
	})

	t.Run("update de pedido agrega historial", func(t *testing.T) {
		pedidos := NewMongoPedidoRepository(db)
		p := &model.Pedido{
			ID: "p1", ClienteID: u.ID, ArregloID: "a1", HoraEntrega: ahora.Add(time.Hour),
			ValorAcordado: decimal.NewFromInt(50000), Estado: model.EstadoPendiente,
			HistorialEstado:    []model.RegistroEstado{{Estado: model.EstadoPendiente, Fecha: ahora, Usuario: "Ana"}},
			ComprobantesExtras: []string{}, CreatedAt: ahora,
		}
		require.NoError(t, pedidos.Create(ctx, p))

		estado := model.EstadoAsignado
		empleado := "e1"
		require.NoError(t, pedidos.Update(ctx, p.ID,
			model.PedidoCambios{Estado: &estado, EmpleadoID: &empleado, ComprobantesExtras: []string{"https://cdn/c.png"}},
			&model.RegistroEstado{Estado: estado, Fecha: ahora, Usuario: "Ana"}))

		got, err := pedidos.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EstadoAsignado, got.Estado)
		assert.Len(t, got.HistorialEstado, 2)
		assert.Equal(t, []string{"https://cdn/c.png"}, got.ComprobantesExtras)

		desde, hasta := ahora, ahora.Add(2*time.Hour)
		en, err := pedidos.Find(ctx, PedidoFilter{Estados: []model.Estado{model.EstadoAsignado, model.EstadoEnProceso}, EntregaDesde: &desde, EntregaHasta: &hasta})
		require.NoError(t, err)
		assert.Len(t, en, 1)

		assert.ErrorIs(t, pedidos.Update(ctx, "nada", model.PedidoCambios{}, nil), ErrNotFound)
	})

	t.Run("venta condicional", func(t *testing.T) {
		stock := NewMongoStockRepository(db)
		s := &model.Stock{ID: "s1", ArregloID: "a1", PrecioVenta: decimal.NewFromInt(100), Estado: model.StockDisponible, CreatedAt: ahora}
		require.NoError(t, stock.Create(ctx, s))

		venta := model.Venta{VendidoPorID: u.ID, MetodoPago: "EFECTIVO", Fecha: ahora}
		require.NoError(t, stock.MarcarVendido(ctx, s.ID, venta))
		assert.ErrorIs(t, stock.MarcarVendido(ctx, s.ID, venta), ErrConflict)
		assert.ErrorIs(t, stock.MarcarVendido(ctx, "nada", venta), ErrNotFound)
	})

	t.Run("tipos con nombre único", func(t *testing.T) {
		tipos := NewMongoTipoArregloRepository(db)
		require.NoError(t, tipos.Create(ctx, &model.TipoArreglo{ID: "t1", Nombre: "Bodas", Activo: true, CreatedAt: ahora}))
		assert.ErrorIs(t, tipos.Create(ctx, &model.TipoArreglo{ID: "t2", Nombre: "Bodas", Activo: true, CreatedAt: ahora}), ErrDuplicate)
	})

	t.Run("configuración upsert", func(t *testing.T) {
		conf := NewMongoConfiguracionRepository(db)
		require.NoError(t, conf.Upsert(ctx, &model.Configuracion{Clave: "logo", Valor: "a", Tipo: "image"}))
		require.NoError(t, conf.Upsert(ctx, &model.Configuracion{Clave: "logo", Valor: "b", Tipo: "image"}))
		c, err := conf.FindByClave(ctx, "logo")
		require.NoError(t, err)
		assert.Equal(t, "b", c.Valor)
	})
}
