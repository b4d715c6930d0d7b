package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/model"
	"floreria-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UsuarioInput struct {
	Email     string
	Password  string
	Nombre    *string
	Apellido  *string
	Rol       *string
	Telefono  *string
	Direccion *string
	Activo    *bool
}

type PedidoResumen struct {
	ID            string          `json:"id"`
	Estado        model.Estado    `json:"estado"`
	ValorAcordado decimal.Decimal `json:"valorAcordado"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type UsuarioConPedidos struct {
	*model.Usuario
	Pedidos []PedidoResumen `json:"pedidos"`
}

type Estadisticas struct {
	TotalUsuarios      int64           `json:"totalUsuarios"`
	TotalPedidos       int64           `json:"totalPedidos"`
	PedidosPendientes  int64           `json:"pedidosPendientes"`
	PedidosCompletados int64           `json:"pedidosCompletados"`
	IngresosTotales    decimal.Decimal `json:"ingresosTotales"`
}

// UsuarioService cubre la administración de cuentas.
type UsuarioService struct {
	store *Store
	now   func() time.Time
}

func NewUsuarioService(st *Store) *UsuarioService {
	return &UsuarioService{store: st, now: time.Now}
}

func parseRol(s string) (model.Rol, error) {
	r := model.Rol(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valido() {
		return "", apperr.Validation("Rol inválido")
	}
	return r, nil
}

func (s *UsuarioService) Crear(ctx context.Context, in UsuarioInput) (*model.Usuario, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Nombre == nil || strings.TrimSpace(*in.Nombre) == "" {
		return nil, apperr.Validation("Email y nombre son requeridos")
	}

	rol := model.RolCliente
	if in.Rol != nil && *in.Rol != "" {
		r, err := parseRol(*in.Rol)
		if err != nil {
			return nil, err
		}
		rol = r
	}

	if _, err := s.store.Usuarios.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("El email ya está registrado")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("Error al crear usuario", err)
	}

	ahora := s.now().UTC()
	u := &model.Usuario{
		ID:        uuid.NewString(),
		Email:     email,
		Nombre:    strings.TrimSpace(*in.Nombre),
		Rol:       rol,
		Activo:    true,
		CreatedAt: ahora,
		UpdatedAt: ahora,
	}
	// Sin contraseña el usuario no puede iniciar sesión hasta que se le asigne una.
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, apperr.Internal("Error al crear usuario", err)
		}
		u.Password = hash
	}
	if in.Apellido != nil {
		u.Apellido = strings.TrimSpace(*in.Apellido)
	}
	if in.Telefono != nil {
		u.Telefono = strings.TrimSpace(*in.Telefono)
	}
	if in.Direccion != nil {
		u.Direccion = strings.TrimSpace(*in.Direccion)
	}

	if err := s.store.Usuarios.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Validation("El email ya está registrado")
		}
		return nil, apperr.Internal("Error al crear usuario", err)
	}
	return u, nil
}

func (s *UsuarioService) Listar(ctx context.Context, rol string, activo *bool) ([]*model.Usuario, error) {
	f := repository.UsuarioFilter{Activo: activo}
	if rol != "" {
		f.Rol = model.Rol(strings.ToUpper(rol))
	}
	us, err := s.store.Usuarios.Find(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Error al obtener usuarios", err)
	}
	return us, nil
}

func (s *UsuarioService) Obtener(ctx context.Context, id string) (*UsuarioConPedidos, error) {
	u, err := s.store.Usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Usuario no encontrado", "Error al obtener usuario")
	}
	pedidos, err := s.store.Pedidos.Find(ctx, repository.PedidoFilter{ClienteID: id})
	if err != nil {
		return nil, apperr.Internal("Error al obtener usuario", err)
	}
	out := &UsuarioConPedidos{Usuario: u, Pedidos: make([]PedidoResumen, 0, len(pedidos))}
	for _, p := range pedidos {
		out.Pedidos = append(out.Pedidos, PedidoResumen{
			ID:            p.ID,
			Estado:        p.Estado,
			ValorAcordado: p.ValorAcordado,
			CreatedAt:     p.CreatedAt,
		})
	}
	return out, nil
}

func (s *UsuarioService) Actualizar(ctx context.Context, id string, in UsuarioInput) (*model.Usuario, error) {
	u, err := s.store.Usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Usuario no encontrado", "Error al actualizar usuario")
	}

	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != "" {
		u.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Apellido != nil {
		u.Apellido = strings.TrimSpace(*in.Apellido)
	}
	if in.Rol != nil && *in.Rol != "" {
		if u.Rol, err = parseRol(*in.Rol); err != nil {
			return nil, err
		}
	}
	if in.Telefono != nil {
		u.Telefono = strings.TrimSpace(*in.Telefono)
	}
	if in.Direccion != nil {
		u.Direccion = strings.TrimSpace(*in.Direccion)
	}
	if in.Activo != nil {
		u.Activo = *in.Activo
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.store.Usuarios.Update(ctx, u); err != nil {
		return nil, notFoundOr(err, "Usuario no encontrado", "Error al actualizar usuario")
	}
	return u, nil
}

func (s *UsuarioService) Eliminar(ctx context.Context, actor *model.Usuario, id string) error {
	if actor.ID == id {
		return apperr.Validation("No puedes eliminar tu propio usuario")
	}
	if err := s.store.Usuarios.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Usuario no encontrado", "Error al eliminar usuario")
	}
	return nil
}

func (s *UsuarioService) Estadisticas(ctx context.Context) (*Estadisticas, error) {
	fail := func(err error) (*Estadisticas, error) {
		return nil, apperr.Internal("Error al obtener estadísticas", err)
	}

	st := &Estadisticas{IngresosTotales: decimal.Zero}
	var err error
	if st.TotalUsuarios, err = s.store.Usuarios.Count(ctx); err != nil {
		return fail(err)
	}
	if st.TotalPedidos, err = s.store.Pedidos.Count(ctx, repository.PedidoFilter{}); err != nil {
		return fail(err)
	}
	if st.PedidosPendientes, err = s.store.Pedidos.Count(ctx, repository.PedidoFilter{
		Estados: []model.Estado{model.EstadoPendiente},
	}); err != nil {
		return fail(err)
	}

	completados, err := s.store.Pedidos.Find(ctx, repository.PedidoFilter{
		Estados: []model.Estado{model.EstadoCompletado},
	})
	if err != nil {
		return fail(err)
	}
	st.PedidosCompletados = int64(len(completados))
	for _, p := range completados {
		st.IngresosTotales = st.IngresosTotales.Add(p.ValorAcordado)
	}
	return st, nil
}

// PorRol lista los usuarios activos de un rol, ordenados por nombre.
func (s *UsuarioService) PorRol(ctx context.Context, rol model.Rol) ([]*model.UsuarioResumen, error) {
	us, err := s.store.Usuarios.Find(ctx, repository.UsuarioFilter{
		Rol:       rol,
		Activo:    boolPtr(true),
		PorNombre: true,
	})
	if err != nil {
		return nil, apperr.Internal("Error al obtener usuarios", err)
	}
	out := make([]*model.UsuarioResumen, 0, len(us))
	for _, u := range us {
		out = append(out, u.Resumen())
	}
	return out, nil
}

// SeedAdmin crea el administrador inicial si todavía no hay ninguno.
func (s *UsuarioService) SeedAdmin(ctx context.Context, email, password string) (*model.Usuario, bool, error) {
	admins, err := s.store.Usuarios.Find(ctx, repository.UsuarioFilter{Rol: model.RolAdmin})
	if err != nil {
		return nil, false, err
	}
	if len(admins) > 0 {
		return admins[0], false, nil
	}
	nombre, apellido, rol := "Admin", "Sistema", string(model.RolAdmin)
	u, err := s.Crear(ctx, UsuarioInput{
		Email:    email,
		Password: password,
		Nombre:   &nombre,
		Apellido: &apellido,
		Rol:      &rol,
	})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}
