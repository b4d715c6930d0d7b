package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"
	"floreria-service/internal/notify"
	"floreria-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CrearPedidoInput struct {
	ArregloID        string
	HoraEntrega      time.Time
	ValorAcordado    decimal.Decimal
	Extras           decimal.Decimal
	Notas            string
	ImagenReferencia *media.Archivo
	ComprobantePago  *media.Archivo
}

// ActualizarPedidoInput trae solo lo que vino en el request; nil es "no enviado".
type ActualizarPedidoInput struct {
	Estado                  *string
	EmpleadoID              *string
	Extras                  *decimal.Decimal
	Notas                   *string
	NotasCliente            *string
	Prioridad               *int
	TransferenciaVerificada *bool
	ComprobanteExtras       *media.Archivo
}

type ListarPedidosInput struct {
	Estado    string
	ClienteID string
}

type PedidoService struct {
	store    *Store
	media    media.Store
	notifier notify.Emitter
	log      *zap.Logger
	now      func() time.Time
	Metrics  Recorder
}

func NewPedidoService(st *Store, m media.Store, n notify.Emitter, log *zap.Logger) *PedidoService {
	return &PedidoService{
		store:    st,
		media:    m,
		notifier: n,
		log:      log,
		now:      time.Now,
		Metrics:  nopRecorder{},
	}
}

func (s *PedidoService) record(op string, err error) {
	res := "ok"
	if err != nil {
		res = "error"
		if ae := apperr.From(err); ae.Kind == apperr.KindValidation || ae.Kind == apperr.KindForbidden || ae.Kind == apperr.KindNotFound {
			res = "rechazado"
		}
	}
	s.Metrics.Record(op, res)
}

// Crear registra un pedido nuevo de un cliente. Congela el precio del arreglo.
func (s *PedidoService) Crear(ctx context.Context, actor *model.Usuario, in CrearPedidoInput) (_ *model.PedidoDetalle, err error) {
	defer func() { s.record("crear", err) }()

	if actor.Rol != model.RolCliente {
		return nil, apperr.Forbidden("Solo los clientes pueden crear pedidos")
	}
	if strings.TrimSpace(in.ArregloID) == "" {
		return nil, apperr.Validation("Se requiere un arreglo para crear el pedido")
	}
	if in.HoraEntrega.IsZero() {
		return nil, apperr.Validation("La hora de entrega es requerida")
	}
	if in.ValorAcordado.IsNegative() || in.Extras.IsNegative() {
		return nil, apperr.Validation("Los montos no pueden ser negativos")
	}

	arreglo, err := s.store.Arreglos.FindByID(ctx, in.ArregloID)
	if err != nil {
		return nil, notFoundOr(err, "Arreglo no encontrado", "Error al crear pedido")
	}

	// Las imágenes se suben antes de crear el registro: si falla una, no queda nada a medias.
	imagenReferencia, err := subir(ctx, s.media, in.ImagenReferencia)
	if err != nil {
		return nil, err
	}
	comprobante, err := subir(ctx, s.media, in.ComprobantePago)
	if err != nil {
		return nil, err
	}

	ahora := s.now().UTC()
	p := &model.Pedido{
		ID:                 uuid.NewString(),
		ClienteID:          actor.ID,
		ArregloID:          arreglo.ID,
		ImagenReferencia:   imagenReferencia,
		HoraEntrega:        in.HoraEntrega.UTC(),
		ValorAcordado:      in.ValorAcordado,
		PrecioArreglo:      arreglo.Costo,
		Extras:             in.Extras,
		ComprobantePago:    comprobante,
		ComprobantesExtras: []string{},
		Notas:              in.Notas,
		Estado:             model.EstadoPendiente,
		HistorialEstado: []model.RegistroEstado{{
			Estado:  model.EstadoPendiente,
			Fecha:   ahora,
			Usuario: actor.NombreCompleto(),
		}},
		CreatedAt: ahora,
		UpdatedAt: ahora,
	}
	if err := s.store.Pedidos.Create(ctx, p); err != nil {
		return nil, apperr.Internal("Error al crear pedido", err)
	}

	s.notificarNuevoPedido(ctx, actor, p)

	return s.detalle(ctx, newUsuarios(s.store.Usuarios), p)
}

func (s *PedidoService) notificarNuevoPedido(ctx context.Context, cliente *model.Usuario, p *model.Pedido) {
	for _, rol := range []model.Rol{model.RolGerente, model.RolAdmin} {
		destinatarios, err := s.store.Usuarios.Find(ctx, repository.UsuarioFilter{Rol: rol, Activo: boolPtr(true)})
		if err != nil {
			s.log.Error("error buscando destinatarios de notificación", zap.Error(err), zap.String("rol", string(rol)))
			continue
		}
		for _, u := range destinatarios {
			s.notifier.Emit(ctx, model.Notificacion{
				UsuarioID: u.ID,
				Tipo:      model.NotifNuevoPedido,
				Titulo:    "Nuevo Pedido Recibido",
				Mensaje:   "El cliente " + cliente.Nombre + " ha realizado un nuevo pedido. Revisa la transferencia.",
				PedidoID:  p.ID,
			})
		}
	}
}

// Listar aplica la visibilidad por rol: el cliente ve los suyos, el empleado los asignados.
func (s *PedidoService) Listar(ctx context.Context, actor *model.Usuario, in ListarPedidosInput) ([]*model.PedidoDetalle, error) {
	f := repository.PedidoFilter{}
	switch actor.Rol {
	case model.RolCliente:
		f.ClienteID = actor.ID
	case model.RolEmpleado:
		f.EmpleadoID = actor.ID
	case model.RolGerente, model.RolAdmin:
		f.ClienteID = in.ClienteID
	default:
		return nil, apperr.Forbidden("No tienes permisos para ver pedidos")
	}
	if in.Estado != "" {
		e, ok := model.ParseEstado(in.Estado)
		if !ok {
			return nil, apperr.Validation("Estado inválido")
		}
		f.Estados = []model.Estado{e}
	}

	pedidos, err := s.store.Pedidos.Find(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Error al obtener pedidos", err)
	}
	return s.detalles(ctx, pedidos)
}

func (s *PedidoService) Pendientes(ctx context.Context, actor *model.Usuario) ([]*model.PedidoDetalle, error) {
	if actor.Rol != model.RolGerente && actor.Rol != model.RolAdmin {
		return nil, apperr.Forbidden("No tienes permisos para ver pedidos pendientes")
	}
	pedidos, err := s.store.Pedidos.Find(ctx, repository.PedidoFilter{
		Estados: []model.Estado{model.EstadoPendiente, model.EstadoTransferenciaVerificada},
	})
	if err != nil {
		return nil, apperr.Internal("Error al obtener pedidos pendientes", err)
	}
	return s.detalles(ctx, pedidos)
}

func (s *PedidoService) Obtener(ctx context.Context, actor *model.Usuario, id string) (*model.PedidoDetalle, error) {
	p, err := s.store.Pedidos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Pedido no encontrado", "Error al obtener pedido")
	}
	if actor.Rol == model.RolCliente && p.ClienteID != actor.ID {
		return nil, apperr.Forbidden("No tienes permisos para ver este pedido")
	}

	us := newUsuarios(s.store.Usuarios)
	d, err := s.detalle(ctx, us, p)
	if err != nil {
		return nil, err
	}
	verificador, err := us.get(ctx, p.VerificadaPor)
	if err != nil {
		return nil, apperr.Internal("Error al obtener pedido", err)
	}
	if verificador != nil {
		d.VerificadaPorNombre = verificador.NombreCompleto()
	}
	return d, nil
}

// Actualizar aplica los campos que el rol puede tocar, resuelve el estado y
// persiste cambios e historial en una sola escritura.
func (s *PedidoService) Actualizar(ctx context.Context, actor *model.Usuario, id string, in ActualizarPedidoInput) (_ *model.PedidoDetalle, err error) {
	defer func() { s.record("actualizar", err) }()

	p, err := s.store.Pedidos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Pedido no encontrado", "Error al actualizar pedido")
	}

	rol := actor.Rol
	switch rol {
	case model.RolAdmin, model.RolGerente:
	case model.RolEmpleado:
		if p.EmpleadoID != actor.ID {
			return nil, apperr.Forbidden("No tienes permisos para editar este pedido")
		}
	case model.RolCliente:
		if p.ClienteID != actor.ID {
			return nil, apperr.Forbidden("No tienes permisos para editar este pedido")
		}
	default:
		return nil, apperr.Forbidden("No tienes permisos para editar este pedido")
	}

	var (
		cambios   model.PedidoCambios
		solicitud Solicitud
		asignado  *model.Usuario
	)

	if in.Estado != nil && *in.Estado != "" && Puede(rol, CampoEstado) {
		e, ok := model.ParseEstado(*in.Estado)
		if !ok {
			return nil, apperr.Validation("Estado inválido")
		}
		if EstadoPermitido(rol, e) {
			solicitud.Estado = &e
		}
	}

	if in.EmpleadoID != nil && *in.EmpleadoID != "" && Puede(rol, CampoEmpleado) {
		u, err := s.store.Usuarios.FindByID(ctx, *in.EmpleadoID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal("Error al actualizar pedido", err)
		}
		if u == nil {
			return nil, apperr.Validation("Empleado no encontrado")
		}
		if !PuedeAsignarA(rol, u.Rol) {
			if rol == model.RolGerente {
				return nil, apperr.Validation("El usuario especificado no es un empleado")
			}
			return nil, apperr.Validation("El usuario especificado no puede ser asignado")
		}
		cambios.EmpleadoID = &u.ID
		solicitud.Asignacion = true
		asignado = u
	}

	if in.Extras != nil && Puede(rol, CampoExtras) {
		if in.Extras.IsNegative() {
			return nil, apperr.Validation("Los extras no pueden ser negativos")
		}
		cambios.Extras = in.Extras
	}

	// Las notas del cliente van a su propio campo.
	if in.Notas != nil {
		switch {
		case Puede(rol, CampoNotas):
			cambios.Notas = in.Notas
		case Puede(rol, CampoNotasCliente):
			cambios.NotasCliente = in.Notas
		}
	}
	if in.NotasCliente != nil && Puede(rol, CampoNotasCliente) {
		cambios.NotasCliente = in.NotasCliente
	}

	if in.Prioridad != nil && Puede(rol, CampoPrioridad) {
		cambios.Prioridad = in.Prioridad
	}

	if in.TransferenciaVerificada != nil && Puede(rol, CampoTransferenciaVerificada) {
		cambios.TransferenciaVerificada = in.TransferenciaVerificada
		cambios.VerificadaPor = &actor.ID
		solicitud.PagoVerificado = *in.TransferenciaVerificada
	}

	if in.ComprobanteExtras != nil && Puede(rol, CampoComprobanteExtras) {
		url, err := subir(ctx, s.media, in.ComprobanteExtras)
		if err != nil {
			return nil, err
		}
		cambios.ComprobantesExtras = []string{url}
	}

	var registro *model.RegistroEstado
	if nuevo := Resolver(p.Estado, solicitud); nuevo != p.Estado {
		cambios.Estado = &nuevo
		registro = &model.RegistroEstado{
			Estado:  nuevo,
			Fecha:   s.now().UTC(),
			Usuario: actor.NombreCompleto(),
		}
	}

	us := newUsuarios(s.store.Usuarios)
	if cambios.Vacio() {
		return s.detalle(ctx, us, p)
	}

	if err := s.store.Pedidos.Update(ctx, id, cambios, registro); err != nil {
		return nil, notFoundOr(err, "Pedido no encontrado", "Error al actualizar pedido")
	}

	if asignado != nil {
		s.notifier.Emit(ctx, model.Notificacion{
			UsuarioID: asignado.ID,
			Tipo:      model.NotifPedidoAsignado,
			Titulo:    "Nuevo Pedido Asignado",
			Mensaje:   "Te han asignado un nuevo pedido. Entrega: " + formatoFecha(p.HoraEntrega),
			PedidoID:  p.ID,
		})
	}

	actualizado, err := s.store.Pedidos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Pedido no encontrado", "Error al actualizar pedido")
	}
	return s.detalle(ctx, us, actualizado)
}

func (s *PedidoService) detalles(ctx context.Context, pedidos []*model.Pedido) ([]*model.PedidoDetalle, error) {
	us := newUsuarios(s.store.Usuarios)
	arreglos := make(map[string]*model.Arreglo)
	out := make([]*model.PedidoDetalle, 0, len(pedidos))
	for _, p := range pedidos {
		d, err := s.detalleCon(ctx, us, arreglos, p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *PedidoService) detalle(ctx context.Context, us *usuarios, p *model.Pedido) (*model.PedidoDetalle, error) {
	return s.detalleCon(ctx, us, make(map[string]*model.Arreglo), p)
}

func (s *PedidoService) detalleCon(ctx context.Context, us *usuarios, arreglos map[string]*model.Arreglo, p *model.Pedido) (*model.PedidoDetalle, error) {
	d := &model.PedidoDetalle{Pedido: p}

	var err error
	if d.Cliente, err = us.resumen(ctx, p.ClienteID); err != nil {
		return nil, apperr.Internal("Error al obtener pedido", err)
	}
	if d.Empleado, err = us.resumen(ctx, p.EmpleadoID); err != nil {
		return nil, apperr.Internal("Error al obtener pedido", err)
	}

	a, ok := arreglos[p.ArregloID]
	if !ok {
		a, err = s.store.Arreglos.FindByID(ctx, p.ArregloID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal("Error al obtener pedido", err)
		}
		arreglos[p.ArregloID] = a
	}
	d.Arreglo = a
	return d, nil
}
