package service

import (
	"context"
	"testing"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockCrearYVender(t *testing.T) {
	st := nuevoStore()
	svc := NewStockService(st, &fakeMedia{})
	ctx := context.Background()
	empleado := crearUsuario(t, st, model.RolEmpleado, "Eva", "")
	arreglo := crearArreglo(t, st, empleado, "30000", true)
	precio := decimal.RequireFromString("35000")

	creado, err := svc.Crear(ctx, empleado, CrearStockInput{ArregloID: arreglo.ID, Cantidad: 3, PrecioVenta: &precio})
	require.NoError(t, err)
	assert.Equal(t, "Se crearon 3 artículos en stock", creado.Message)
	require.Len(t, creado.Stock, 3)
	for _, u := range creado.Stock {
		assert.Equal(t, model.StockDisponible, u.Estado)
		require.NotNil(t, u.Arreglo)
		assert.Equal(t, arreglo.ID, u.Arreglo.ID)
		assert.Equal(t, empleado.ID, u.CreadoPor.ID)
	}

	uno, err := svc.Crear(ctx, empleado, CrearStockInput{ArregloID: arreglo.ID, Cantidad: 0, PrecioVenta: &precio})
	require.NoError(t, err)
	assert.Equal(t, "Se crearon 1 artículo en stock", uno.Message)

	id := creado.Stock[0].ID
	vendido, err := svc.Vender(ctx, empleado, id, VenderStockInput{MetodoPago: "efectivo"})
	require.NoError(t, err)
	assert.Equal(t, model.StockVendido, vendido.Estado)
	assert.Equal(t, "EFECTIVO", vendido.MetodoPago)
	require.NotNil(t, vendido.FechaVenta)
	require.NotNil(t, vendido.VendidoPor)
	assert.Equal(t, empleado.ID, vendido.VendidoPor.ID)

	_, err = svc.Vender(ctx, empleado, id, VenderStockInput{MetodoPago: "EFECTIVO"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "segunda venta")

	_, err = svc.Vender(ctx, empleado, creado.Stock[1].ID, VenderStockInput{MetodoPago: "TRANSFERENCIA"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "transferencia sin comprobante")

	comp := media.Archivo{Nombre: "comprobante.png", ContentType: "image/png", Data: []byte{1}}
	transf, err := svc.Vender(ctx, empleado, creado.Stock[1].ID, VenderStockInput{MetodoPago: "transferencia", ComprobantePago: &comp})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/comprobante.png", transf.ComprobantePago)

	_, err = svc.Vender(ctx, empleado, creado.Stock[2].ID, VenderStockInput{})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "sin método")
}

func TestStockValidaciones(t *testing.T) {
	st := nuevoStore()
	svc := NewStockService(st, media.Disabled{})
	ctx := context.Background()
	gerente := crearUsuario(t, st, model.RolGerente, "Gabriela", "")
	admin := crearUsuario(t, st, model.RolAdmin, "Ana", "")
	arreglo := crearArreglo(t, st, admin, "100", true)
	precio := decimal.NewFromInt(150)

	_, err := svc.Crear(ctx, gerente, CrearStockInput{ArregloID: arreglo.ID})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Crear(ctx, gerente, CrearStockInput{ArregloID: "nada", PrecioVenta: &precio})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	creado, err := svc.Crear(ctx, gerente, CrearStockInput{ArregloID: arreglo.ID, PrecioVenta: &precio})
	require.NoError(t, err)
	id := creado.Stock[0].ID

	reservado, err := svc.Actualizar(ctx, gerente, id, ActualizarStockInput{Estado: ptr("reservado")})
	require.NoError(t, err)
	assert.Equal(t, model.StockReservado, reservado.Estado)

	// VENDIDO no se acepta por esta vía
	igual, err := svc.Actualizar(ctx, gerente, id, ActualizarStockInput{Estado: ptr("VENDIDO")})
	require.NoError(t, err)
	assert.Equal(t, model.StockReservado, igual.Estado)

	_, err = svc.Vender(ctx, gerente, id, VenderStockInput{MetodoPago: "EFECTIVO"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "reservado no se vende")

	_, err = svc.Actualizar(ctx, gerente, id, ActualizarStockInput{Estado: ptr("DISPONIBLE")})
	require.NoError(t, err)
	_, err = svc.Vender(ctx, gerente, id, VenderStockInput{MetodoPago: "EFECTIVO"})
	require.NoError(t, err)

	_, err = svc.Actualizar(ctx, gerente, id, ActualizarStockInput{Notas: ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	nuevo := decimal.NewFromInt(180)
	actualizado, err := svc.Actualizar(ctx, admin, id, ActualizarStockInput{PrecioVenta: &nuevo})
	require.NoError(t, err)
	assert.True(t, actualizado.PrecioVenta.Equal(nuevo))

	assert.True(t, apperr.Is(svc.Eliminar(ctx, id), apperr.KindValidation))
	assert.True(t, apperr.Is(svc.Eliminar(ctx, "nada"), apperr.KindNotFound))
}

func TestStockStats(t *testing.T) {
	st := nuevoStore()
	svc := NewStockService(st, media.Disabled{})
	ahora := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return ahora }
	ctx := context.Background()
	admin := crearUsuario(t, st, model.RolAdmin, "Ana", "")
	arreglo := crearArreglo(t, st, admin, "100", true)

	esteMes := ahora.Add(-48 * time.Hour)
	mesPasado := ahora.AddDate(0, -1, 0)
	unidades := []model.Stock{
		{ID: "a", PrecioVenta: decimal.NewFromInt(100), Estado: model.StockDisponible},
		{ID: "b", PrecioVenta: decimal.NewFromInt(250), Estado: model.StockDisponible},
		{ID: "c", PrecioVenta: decimal.NewFromInt(70), Estado: model.StockReservado},
		{ID: "d", PrecioVenta: decimal.NewFromInt(300), Estado: model.StockVendido, FechaVenta: &esteMes},
		{ID: "e", PrecioVenta: decimal.NewFromInt(999), Estado: model.StockVendido, FechaVenta: &mesPasado},
	}
	for i := range unidades {
		unidades[i].ArregloID = arreglo.ID
		unidades[i].CreadoPorID = admin.ID
		require.NoError(t, st.Stock.Create(ctx, &unidades[i]))
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.Total)
	assert.EqualValues(t, 2, stats.Disponible)
	assert.EqualValues(t, 1, stats.Reservado)
	assert.EqualValues(t, 2, stats.Vendido)
	assert.Equal(t, "350", stats.ValorTotalDisponible.String())
	assert.Equal(t, 1, stats.CantidadVentasMes)
	assert.Equal(t, "300", stats.TotalVentasMes.String())
}
