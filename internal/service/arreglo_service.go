package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"
	"floreria-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ArregloInput sirve para crear y actualizar; nil es "no enviado".
type ArregloInput struct {
	Nombre      *string
	Descripcion *string
	Costo       *decimal.Decimal
	Disponible  *bool
	TipoID      *string
	CreadorID   string
	// ImagenEditada es una data URL o una URL http(s) ya subida.
	ImagenEditada string
	Imagen        *media.Archivo
	Adicionales   []media.Archivo
}

type PrecioActualizado struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	PrecioAnterior decimal.Decimal `json:"precioAnterior"`
	PrecioNuevo    decimal.Decimal `json:"precioNuevo"`
}

type ActualizacionPrecios struct {
	Message              string              `json:"message"`
	ArreglosActualizados int                 `json:"arreglosActualizados"`
	PorcentajeAplicado   decimal.Decimal     `json:"porcentajeAplicado"`
	Detalles             []PrecioActualizado `json:"detalles"`
}

type ArregloService struct {
	store    *Store
	media    media.Store
	maxBytes int64
	log      *zap.Logger
	now      func() time.Time
}

func NewArregloService(st *Store, m media.Store, maxBytes int64, log *zap.Logger) *ArregloService {
	return &ArregloService{store: st, media: m, maxBytes: maxBytes, log: log, now: time.Now}
}

func (s *ArregloService) Listar(ctx context.Context, disponible *bool) ([]*model.ArregloDetalle, error) {
	arreglos, err := s.store.Arreglos.Find(ctx, repository.ArregloFilter{Disponible: disponible})
	if err != nil {
		return nil, apperr.Internal("Error al obtener arreglos", err)
	}
	us := newUsuarios(s.store.Usuarios)
	tipos := make(map[string]*model.TipoResumen)
	out := make([]*model.ArregloDetalle, 0, len(arreglos))
	for _, a := range arreglos {
		d, err := s.detalle(ctx, us, tipos, a)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *ArregloService) Obtener(ctx context.Context, id string) (*model.ArregloDetalle, error) {
	a, err := s.store.Arreglos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Arreglo no encontrado", "Error al obtener arreglo")
	}
	return s.detalle(ctx, newUsuarios(s.store.Usuarios), make(map[string]*model.TipoResumen), a)
}

func (s *ArregloService) Crear(ctx context.Context, actor *model.Usuario, in ArregloInput) (*model.ArregloDetalle, error) {
	if in.Nombre == nil || strings.TrimSpace(*in.Nombre) == "" || in.Costo == nil {
		return nil, apperr.Validation("Nombre y costo son requeridos")
	}
	if in.Costo.IsNegative() {
		return nil, apperr.Validation("El costo no puede ser negativo")
	}
	if s.media == nil || !s.media.Configured() {
		return nil, apperr.Validation(msgMediaNoConfigurada)
	}

	creadorID := actor.ID
	if actor.Rol == model.RolAdmin && in.CreadorID != "" {
		creador, err := s.store.Usuarios.FindByID(ctx, in.CreadorID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("Usuario no encontrado")
		}
		if err != nil {
			return nil, apperr.Internal("Error al crear arreglo", err)
		}
		if !creador.Rol.Personal() {
			return nil, apperr.Validation("El usuario especificado no puede crear arreglos")
		}
		creadorID = creador.ID
	}

	tipoID := ""
	if in.TipoID != nil {
		tipoID = strings.TrimSpace(*in.TipoID)
		if err := s.validarTipo(ctx, tipoID); err != nil {
			return nil, err
		}
	}

	var imagen, imagenEditada string
	switch {
	case media.IsDataURL(in.ImagenEditada):
		a, err := media.DecodeDataURL(in.ImagenEditada, s.maxBytes)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		url, err := subir(ctx, s.media, &a)
		if err != nil {
			return nil, err
		}
		imagen, imagenEditada = url, url
	case in.Imagen != nil:
		url, err := subir(ctx, s.media, in.Imagen)
		if err != nil {
			return nil, err
		}
		imagen = url
	default:
		return nil, apperr.Validation("Imagen requerida")
	}

	disponible := true
	if in.Disponible != nil {
		disponible = *in.Disponible
	}

	ahora := s.now().UTC()
	a := &model.Arreglo{
		ID:                  uuid.NewString(),
		Nombre:              strings.TrimSpace(*in.Nombre),
		Imagen:              imagen,
		ImagenEditada:       imagenEditada,
		ImagenesAdicionales: s.subirAdicionales(ctx, in.Adicionales),
		Costo:               in.Costo.Round(2),
		Disponible:          disponible,
		CreadorID:           creadorID,
		TipoID:              tipoID,
		CreatedAt:           ahora,
		UpdatedAt:           ahora,
	}
	if in.Descripcion != nil {
		a.Descripcion = *in.Descripcion
	}
	if err := s.store.Arreglos.Create(ctx, a); err != nil {
		return nil, apperr.Internal("Error al crear arreglo", err)
	}
	return s.detalle(ctx, newUsuarios(s.store.Usuarios), make(map[string]*model.TipoResumen), a)
}

func (s *ArregloService) Actualizar(ctx context.Context, actor *model.Usuario, id string, in ArregloInput) (*model.ArregloDetalle, error) {
	a, err := s.store.Arreglos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Arreglo no encontrado", "Error al actualizar arreglo")
	}
	if actor.Rol != model.RolAdmin && a.CreadorID != actor.ID {
		return nil, apperr.Forbidden("No tienes permisos para editar este arreglo")
	}

	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != "" {
		a.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		a.Descripcion = *in.Descripcion
	}
	if in.Costo != nil {
		if in.Costo.IsNegative() {
			return nil, apperr.Validation("El costo no puede ser negativo")
		}
		a.Costo = in.Costo.Round(2)
	}
	if in.Disponible != nil {
		a.Disponible = *in.Disponible
	}
	if in.TipoID != nil {
		tipoID := strings.TrimSpace(*in.TipoID)
		if err := s.validarTipo(ctx, tipoID); err != nil {
			return nil, err
		}
		a.TipoID = tipoID
	}

	switch {
	case media.IsDataURL(in.ImagenEditada):
		// Si la imagen editada no se puede subir se conserva la anterior.
		if url, err := s.subirDataURL(ctx, in.ImagenEditada); err != nil {
			s.log.Warn("no se pudo subir la imagen editada", zap.String("arreglo_id", id), zap.Error(err))
		} else {
			a.ImagenEditada = url
		}
	case strings.HasPrefix(in.ImagenEditada, "http://"), strings.HasPrefix(in.ImagenEditada, "https://"):
		a.ImagenEditada = in.ImagenEditada
	}

	if nuevas := s.subirAdicionales(ctx, in.Adicionales); len(nuevas) > 0 {
		a.ImagenesAdicionales = append(a.ImagenesAdicionales, nuevas...)
	}

	if in.Imagen != nil {
		if s.media == nil || !s.media.Configured() {
			return nil, apperr.Validation(msgMediaNoConfigurada)
		}
		url, err := subir(ctx, s.media, in.Imagen)
		if err != nil {
			return nil, err
		}
		a.Imagen = url
	}

	a.UpdatedAt = s.now().UTC()
	if err := s.store.Arreglos.Update(ctx, a); err != nil {
		return nil, notFoundOr(err, "Arreglo no encontrado", "Error al actualizar arreglo")
	}
	return s.detalle(ctx, newUsuarios(s.store.Usuarios), make(map[string]*model.TipoResumen), a)
}

func (s *ArregloService) Eliminar(ctx context.Context, actor *model.Usuario, id string) error {
	a, err := s.store.Arreglos.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Arreglo no encontrado", "Error al eliminar arreglo")
	}
	if actor.Rol != model.RolAdmin && a.CreadorID != actor.ID {
		return apperr.Forbidden("No tienes permisos para eliminar este arreglo")
	}

	pedidos, err := s.store.Pedidos.Count(ctx, repository.PedidoFilter{ArregloID: id})
	if err != nil {
		return apperr.Internal("Error al eliminar arreglo", err)
	}
	unidades, err := s.store.Stock.Count(ctx, repository.StockFilter{ArregloID: id})
	if err != nil {
		return apperr.Internal("Error al eliminar arreglo", err)
	}
	if pedidos > 0 || unidades > 0 {
		return apperr.Validation("No se puede eliminar el arreglo porque tiene pedidos o stock asociados")
	}

	if err := s.store.Arreglos.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Arreglo no encontrado", "Error al eliminar arreglo")
	}
	return nil
}

var cien = decimal.NewFromInt(100)

// ActualizarPrecios multiplica el costo de cada arreglo por (1 + pct/100). Cada
// arreglo se escribe por separado: si uno falla, los anteriores quedan actualizados.
func (s *ArregloService) ActualizarPrecios(ctx context.Context, porcentaje decimal.Decimal, soloDisponibles bool) (*ActualizacionPrecios, error) {
	if !porcentaje.IsPositive() {
		return nil, apperr.Validation("El porcentaje debe ser mayor a 0")
	}

	f := repository.ArregloFilter{}
	if soloDisponibles {
		f.Disponible = boolPtr(true)
	}
	arreglos, err := s.store.Arreglos.Find(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Error al actualizar precios masivamente", err)
	}
	if len(arreglos) == 0 {
		return nil, apperr.Validation("No hay arreglos para actualizar")
	}

	factor := decimal.NewFromInt(1).Add(porcentaje.Div(cien))
	detalles := make([]PrecioActualizado, len(arreglos))
	for i, a := range arreglos {
		detalles[i] = PrecioActualizado{
			ID:             a.ID,
			Nombre:         a.Nombre,
			PrecioAnterior: a.Costo,
			PrecioNuevo:    NuevoPrecio(a.Costo, factor),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, d := range detalles {
		g.Go(func() error {
			return s.store.Arreglos.UpdateCosto(gctx, d.ID, d.PrecioNuevo)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("Error al actualizar precios masivamente", err)
	}

	s.log.Info("precios actualizados",
		zap.Int("arreglos", len(arreglos)),
		zap.String("porcentaje", porcentaje.String()))

	return &ActualizacionPrecios{
		Message:              "Precios actualizados exitosamente",
		ArreglosActualizados: len(arreglos),
		PorcentajeAplicado:   porcentaje,
		Detalles:             detalles,
	}, nil
}

// NuevoPrecio redondea a 2 decimales, mitad hacia arriba.
func NuevoPrecio(costo, factor decimal.Decimal) decimal.Decimal {
	return costo.Mul(factor).Round(2)
}

func (s *ArregloService) validarTipo(ctx context.Context, tipoID string) error {
	if tipoID == "" {
		return nil
	}
	_, err := s.store.Tipos.FindByID(ctx, tipoID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Validation("Tipo de arreglo no encontrado")
	}
	if err != nil {
		return apperr.Internal("Error al validar tipo de arreglo", err)
	}
	return nil
}

func (s *ArregloService) subirDataURL(ctx context.Context, dataURL string) (string, error) {
	a, err := media.DecodeDataURL(dataURL, s.maxBytes)
	if err != nil {
		return "", err
	}
	return subir(ctx, s.media, &a)
}

// subirAdicionales sube en paralelo y conserva el orden; los que fallan se omiten.
func (s *ArregloService) subirAdicionales(ctx context.Context, archivos []media.Archivo) []string {
	if len(archivos) == 0 {
		return []string{}
	}
	urls := make([]string, len(archivos))
	var g errgroup.Group
	for i := range archivos {
		g.Go(func() error {
			url, err := subir(ctx, s.media, &archivos[i])
			if err != nil {
				s.log.Warn("no se pudo subir imagen adicional", zap.Int("indice", i), zap.Error(err))
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s *ArregloService) detalle(ctx context.Context, us *usuarios, tipos map[string]*model.TipoResumen, a *model.Arreglo) (*model.ArregloDetalle, error) {
	return detalleArreglo(ctx, s.store, us, tipos, a)
}

// detalleArreglo también lo usa stock para expandir sus unidades.
func detalleArreglo(ctx context.Context, st *Store, us *usuarios, tipos map[string]*model.TipoResumen, a *model.Arreglo) (*model.ArregloDetalle, error) {
	d := &model.ArregloDetalle{Arreglo: a}
	creador, err := us.resumen(ctx, a.CreadorID)
	if err != nil {
		return nil, apperr.Internal("Error al obtener arreglo", err)
	}
	d.Creador = creador

	if a.TipoID == "" {
		return d, nil
	}
	t, ok := tipos[a.TipoID]
	if !ok {
		tipo, err := st.Tipos.FindByID(ctx, a.TipoID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal("Error al obtener arreglo", err)
		}
		if tipo != nil {
			t = &model.TipoResumen{ID: tipo.ID, Nombre: tipo.Nombre}
		}
		tipos[a.TipoID] = t
	}
	d.Tipo = t
	return d, nil
}
