package service

import (
	"context"
	"testing"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUsuarioService(t *testing.T) {
	st := nuevoStore()
	svc := NewUsuarioService(st)
	ctx := context.Background()

	admin, creado, err := svc.SeedAdmin(ctx, "admin@flores.com", "admin123")
	require.NoError(t, err)
	assert.True(t, creado)
	assert.Equal(t, model.RolAdmin, admin.Rol)

	again, creado, err := svc.SeedAdmin(ctx, "otro@flores.com", "x")
	require.NoError(t, err)
	assert.False(t, creado)
	assert.Equal(t, admin.ID, again.ID)

	login, err := newAuth(st).Login(ctx, "admin@flores.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, login.User.ID)

	_, err = svc.Crear(ctx, UsuarioInput{Email: "x@flores.com", Nombre: ptr("X"), Rol: ptr("JEFE")})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "rol inválido")
	_, err = svc.Crear(ctx, UsuarioInput{Email: "admin@flores.com", Nombre: ptr("X")})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "email duplicado")

	emp, err := svc.Crear(ctx, UsuarioInput{Email: "Zoe@Flores.com", Nombre: ptr("Zoe"), Rol: ptr("empleado")})
	require.NoError(t, err)
	assert.Equal(t, model.RolEmpleado, emp.Rol)
	assert.Equal(t, "zoe@flores.com", emp.Email)
	_, err = svc.Crear(ctx, UsuarioInput{Email: "bruno@flores.com", Nombre: ptr("Bruno"), Rol: ptr("EMPLEADO")})
	require.NoError(t, err)

	empleados, err := svc.PorRol(ctx, model.RolEmpleado)
	require.NoError(t, err)
	require.Len(t, empleados, 2)
	assert.Equal(t, "Bruno", empleados[0].Nombre)

	_, err = svc.Actualizar(ctx, emp.ID, UsuarioInput{Activo: ptr(false)})
	require.NoError(t, err)
	empleados, err = svc.PorRol(ctx, model.RolEmpleado)
	require.NoError(t, err)
	assert.Len(t, empleados, 1)

	_, err = svc.Actualizar(ctx, emp.ID, UsuarioInput{Rol: ptr("nada")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	assert.True(t, apperr.Is(svc.Eliminar(ctx, admin, admin.ID), apperr.KindValidation))
	require.NoError(t, svc.Eliminar(ctx, admin, emp.ID))
	assert.True(t, apperr.Is(svc.Eliminar(ctx, admin, emp.ID), apperr.KindNotFound))
}

func TestEstadisticas(t *testing.T) {
	st := nuevoStore()
	svc := NewUsuarioService(st)
	ctx := context.Background()
	cliente := crearUsuario(t, st, model.RolCliente, "Carla", "")
	admin := crearUsuario(t, st, model.RolAdmin, "Ana", "")
	arreglo := crearArreglo(t, st, admin, "100", true)

	for _, p := range []struct {
		estado model.Estado
		valor  string
	}{
		{model.EstadoPendiente, "10"},
		{model.EstadoCompletado, "50000.50"},
		{model.EstadoCompletado, "20000"},
		{model.EstadoCancelado, "999"},
	} {
		require.NoError(t, st.Pedidos.Create(ctx, &model.Pedido{
			ID:            uuid.NewString(),
			ClienteID:     cliente.ID,
			ArregloID:     arreglo.ID,
			ValorAcordado: decimal.RequireFromString(p.valor),
			Estado:        p.estado,
			CreatedAt:     time.Now(),
		}))
	}

	e, err := svc.Estadisticas(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, e.TotalUsuarios)
	assert.EqualValues(t, 4, e.TotalPedidos)
	assert.EqualValues(t, 1, e.PedidosPendientes)
	assert.EqualValues(t, 2, e.PedidosCompletados)
	assert.Equal(t, "70000.5", e.IngresosTotales.String())

	detalle, err := svc.Obtener(ctx, cliente.ID)
	require.NoError(t, err)
	assert.Len(t, detalle.Pedidos, 4)
}

func TestNotificacionService(t *testing.T) {
	st := nuevoStore()
	svc := NewNotificacionService(st.Notificaciones)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, usuario := range []string{"u1", "u1", "u2"} {
		require.NoError(t, st.Notificaciones.Create(ctx, &model.Notificacion{
			ID:        uuid.NewString(),
			UsuarioID: usuario,
			Tipo:      model.NotifNuevoPedido,
			Titulo:    "Nuevo Pedido",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	ns, err := svc.Listar(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ns, 2)
	assert.True(t, ns[0].CreatedAt.After(ns[1].CreatedAt))

	ajena, err := svc.Listar(ctx, "u2")
	require.NoError(t, err)
	_, err = svc.MarcarLeida(ctx, "u1", ajena[0].ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "notificación de otro usuario")

	n, err := svc.MarcarLeida(ctx, "u1", ns[0].ID)
	require.NoError(t, err)
	assert.True(t, n.Leida)

	count, err := svc.NoLeidas(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	marcadas, err := svc.MarcarTodasLeidas(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, marcadas)

	count, err = svc.NoLeidas(ctx, "u2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestConfiguracionService(t *testing.T) {
	st := nuevoStore()
	fm := &fakeMedia{}
	svc := NewConfiguracionService(st.Configuracion, fm, zap.NewNop())
	ctx := context.Background()
	admin := crearUsuario(t, st, model.RolAdmin, "Ana", "")

	assert.Empty(t, svc.Publicas(ctx))

	_, err := svc.Guardar(ctx, admin, ConfiguracionInput{Clave: "nombre_tienda"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	c, err := svc.Guardar(ctx, admin, ConfiguracionInput{Clave: "nombre_tienda", Valor: ptr("Flores Ana")})
	require.NoError(t, err)
	assert.Equal(t, "text", c.Tipo)
	assert.Equal(t, admin.ID, c.UpdatedBy)

	banner := archivo("banner.png")
	c, err = svc.Guardar(ctx, admin, ConfiguracionInput{Clave: "banner", Valor: ptr(""), Tipo: "image", Archivo: &banner})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/banner.png", c.Valor)

	tema, err := svc.ActualizarTema(ctx, admin, TemaInput{ColorPrimario: "#ff0000", Logo: "https://cdn.test/logo.png"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		ClaveLogo:          "https://cdn.test/logo.png",
		ClaveColorPrimario: "#ff0000",
	}, tema)

	publicas := svc.Publicas(ctx)
	assert.Equal(t, "Flores Ana", publicas["nombre_tienda"])
	assert.Len(t, publicas, 4)

	todas, err := svc.Todas(ctx)
	require.NoError(t, err)
	assert.Equal(t, "color", todas[ClaveColorPrimario].Tipo)

	require.NoError(t, svc.Eliminar(ctx, "banner"))
	_, err = svc.Obtener(ctx, "banner")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Eliminar(ctx, "banner"), apperr.KindNotFound))
}

func TestFlorService(t *testing.T) {
	st := nuevoStore()
	svc := NewFlorService(st, media.Disabled{})
	ctx := context.Background()

	_, err := svc.Crear(ctx, FlorInput{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Crear(ctx, FlorInput{Nombre: ptr("Rosa"), Temporada: ptr("todo el año")})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "sin costo base")

	costo := decimal.RequireFromString("1500.555")
	f, err := svc.Crear(ctx, FlorInput{Nombre: ptr("Rosa"), Temporada: ptr("todo el año"), CostoBase: &costo})
	require.NoError(t, err)
	assert.True(t, f.Disponible)
	assert.Equal(t, "1500.56", f.CostoBase.StringFixed(2))

	got, err := svc.Obtener(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rosa", got.Nombre)

	require.NoError(t, svc.Eliminar(ctx, f.ID))
	_, err = svc.Obtener(ctx, f.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
