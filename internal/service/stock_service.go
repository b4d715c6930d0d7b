package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"
	"floreria-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CrearStockInput struct {
	ArregloID   string
	Cantidad    int
	PrecioVenta *decimal.Decimal
	Notas       string
	Imagen      *media.Archivo
}

type VenderStockInput struct {
	MetodoPago      string
	Notas           string
	ComprobantePago *media.Archivo
}

type ActualizarStockInput struct {
	PrecioVenta *decimal.Decimal
	Estado      *string
	Notas       *string
}

type StockCreado struct {
	Message string                `json:"message"`
	Stock   []*model.StockDetalle `json:"stock"`
}

type StockService struct {
	store *Store
	media media.Store
	now   func() time.Time
}

func NewStockService(st *Store, m media.Store) *StockService {
	return &StockService{store: st, media: m, now: time.Now}
}

func (s *StockService) Listar(ctx context.Context, estado, arregloID string) ([]*model.StockDetalle, error) {
	unidades, err := s.store.Stock.Find(ctx, repository.StockFilter{
		Estado:    model.EstadoStock(strings.ToUpper(estado)),
		ArregloID: arregloID,
	})
	if err != nil {
		return nil, apperr.Internal("Error al obtener stock", err)
	}
	return s.detalles(ctx, unidades)
}

// Stats calcula los totales del inventario y las ventas del mes en curso.
func (s *StockService) Stats(ctx context.Context) (*model.StockStats, error) {
	unidades, err := s.store.Stock.Find(ctx, repository.StockFilter{})
	if err != nil {
		return nil, apperr.Internal("Error al obtener estadísticas", err)
	}

	ahora := s.now()
	inicioMes := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())

	st := &model.StockStats{
		ValorTotalDisponible: decimal.Zero,
		TotalVentasMes:       decimal.Zero,
	}
	for _, u := range unidades {
		st.Total++
		switch u.Estado {
		case model.StockDisponible:
			st.Disponible++
			st.ValorTotalDisponible = st.ValorTotalDisponible.Add(u.PrecioVenta)
		case model.StockReservado:
			st.Reservado++
		case model.StockVendido:
			st.Vendido++
			if u.FechaVenta != nil && !u.FechaVenta.Before(inicioMes) {
				st.CantidadVentasMes++
				st.TotalVentasMes = st.TotalVentasMes.Add(u.PrecioVenta)
			}
		}
	}
	return st, nil
}

func (s *StockService) Crear(ctx context.Context, actor *model.Usuario, in CrearStockInput) (*StockCreado, error) {
	if strings.TrimSpace(in.ArregloID) == "" || in.PrecioVenta == nil {
		return nil, apperr.Validation("Arreglo y precio de venta son requeridos")
	}
	if in.PrecioVenta.IsNegative() {
		return nil, apperr.Validation("El precio de venta no puede ser negativo")
	}
	if _, err := s.store.Arreglos.FindByID(ctx, in.ArregloID); err != nil {
		return nil, notFoundOr(err, "Arreglo no encontrado", "Error al crear stock")
	}

	cantidad := in.Cantidad
	if cantidad < 1 {
		cantidad = 1
	}

	imagen, err := subir(ctx, s.media, in.Imagen)
	if err != nil {
		return nil, err
	}

	ahora := s.now().UTC()
	creados := make([]*model.Stock, 0, cantidad)
	for i := 0; i < cantidad; i++ {
		u := &model.Stock{
			ID:          uuid.NewString(),
			ArregloID:   in.ArregloID,
			PrecioVenta: in.PrecioVenta.Round(2),
			Estado:      model.StockDisponible,
			CreadoPorID: actor.ID,
			Notas:       in.Notas,
			Imagen:      imagen,
			CreatedAt:   ahora,
			UpdatedAt:   ahora,
		}
		if err := s.store.Stock.Create(ctx, u); err != nil {
			return nil, apperr.Internal("Error al crear stock", err)
		}
		creados = append(creados, u)
	}

	detalles, err := s.detalles(ctx, creados)
	if err != nil {
		return nil, err
	}
	palabra := "artículos"
	if cantidad == 1 {
		palabra = "artículo"
	}
	return &StockCreado{
		Message: fmt.Sprintf("Se crearon %d %s en stock", cantidad, palabra),
		Stock:   detalles,
	}, nil
}

// Vender marca la unidad como vendida. La escritura solo prospera si sigue DISPONIBLE.
func (s *StockService) Vender(ctx context.Context, actor *model.Usuario, id string, in VenderStockInput) (*model.StockDetalle, error) {
	metodo := strings.ToUpper(strings.TrimSpace(in.MetodoPago))
	if metodo == "" {
		return nil, apperr.Validation("Método de pago es requerido")
	}

	u, err := s.store.Stock.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Artículo de stock no encontrado", "Error al vender stock")
	}
	if u.Estado != model.StockDisponible {
		return nil, apperr.Validation("Este artículo no está disponible para venta")
	}

	var comprobante string
	if metodo == model.MetodoPagoTransferencia {
		if in.ComprobantePago == nil {
			return nil, apperr.Validation("Comprobante de transferencia es requerido")
		}
		if comprobante, err = subir(ctx, s.media, in.ComprobantePago); err != nil {
			return nil, err
		}
	}

	err = s.store.Stock.MarcarVendido(ctx, id, model.Venta{
		VendidoPorID:    actor.ID,
		MetodoPago:      metodo,
		ComprobantePago: comprobante,
		Notas:           in.Notas,
		Fecha:           s.now().UTC(),
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, apperr.Validation("Este artículo no está disponible para venta")
	}
	if err != nil {
		return nil, notFoundOr(err, "Artículo de stock no encontrado", "Error al vender stock")
	}
	return s.obtener(ctx, id)
}

func (s *StockService) Actualizar(ctx context.Context, actor *model.Usuario, id string, in ActualizarStockInput) (*model.StockDetalle, error) {
	u, err := s.store.Stock.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Artículo de stock no encontrado", "Error al actualizar stock")
	}
	if u.Estado == model.StockVendido && actor.Rol != model.RolAdmin {
		return nil, apperr.Forbidden("No se puede modificar un artículo ya vendido")
	}

	if in.PrecioVenta != nil {
		if in.PrecioVenta.IsNegative() {
			return nil, apperr.Validation("El precio de venta no puede ser negativo")
		}
		u.PrecioVenta = in.PrecioVenta.Round(2)
	}
	// Solo se puede pasar a DISPONIBLE o RESERVADO; la venta tiene su propio endpoint.
	if in.Estado != nil {
		switch e := model.EstadoStock(strings.ToUpper(*in.Estado)); e {
		case model.StockDisponible, model.StockReservado:
			u.Estado = e
		}
	}
	if in.Notas != nil {
		u.Notas = *in.Notas
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.store.Stock.Update(ctx, u); err != nil {
		return nil, notFoundOr(err, "Artículo de stock no encontrado", "Error al actualizar stock")
	}
	return s.obtener(ctx, id)
}

func (s *StockService) Eliminar(ctx context.Context, id string) error {
	u, err := s.store.Stock.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Artículo de stock no encontrado", "Error al eliminar stock")
	}
	if u.Estado == model.StockVendido {
		return apperr.Validation("No se puede eliminar un artículo ya vendido")
	}
	if err := s.store.Stock.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Artículo de stock no encontrado", "Error al eliminar stock")
	}
	return nil
}

func (s *StockService) obtener(ctx context.Context, id string) (*model.StockDetalle, error) {
	u, err := s.store.Stock.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Artículo de stock no encontrado", "Error al obtener stock")
	}
	d, err := s.detalles(ctx, []*model.Stock{u})
	if err != nil {
		return nil, err
	}
	return d[0], nil
}

func (s *StockService) detalles(ctx context.Context, unidades []*model.Stock) ([]*model.StockDetalle, error) {
	us := newUsuarios(s.store.Usuarios)
	tipos := make(map[string]*model.TipoResumen)
	arreglos := make(map[string]*model.ArregloDetalle)

	out := make([]*model.StockDetalle, 0, len(unidades))
	for _, u := range unidades {
		d := &model.StockDetalle{Stock: u}

		a, ok := arreglos[u.ArregloID]
		if !ok {
			arreglo, err := s.store.Arreglos.FindByID(ctx, u.ArregloID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.Internal("Error al obtener stock", err)
			}
			if arreglo != nil {
				if a, err = detalleArreglo(ctx, s.store, us, tipos, arreglo); err != nil {
					return nil, err
				}
			}
			arreglos[u.ArregloID] = a
		}
		d.Arreglo = a

		var err error
		if d.CreadoPor, err = us.resumen(ctx, u.CreadoPorID); err != nil {
			return nil, apperr.Internal("Error al obtener stock", err)
		}
		if d.VendidoPor, err = us.resumen(ctx, u.VendidoPorID); err != nil {
			return nil, apperr.Internal("Error al obtener stock", err)
		}
		out = append(out, d)
	}
	return out, nil
}
