package service

import (
	"context"
	"strings"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"
	"floreria-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FlorInput struct {
	Nombre      *string
	Descripcion *string
	Temporada   *string
	CostoBase   *decimal.Decimal
	Disponible  *bool
	Imagen      *media.Archivo
}

type FlorService struct {
	store *Store
	media media.Store
	now   func() time.Time
}

func NewFlorService(st *Store, m media.Store) *FlorService {
	return &FlorService{store: st, media: m, now: time.Now}
}

func (s *FlorService) Listar(ctx context.Context, temporada string, disponible *bool) ([]*model.Flor, error) {
	flores, err := s.store.Flores.Find(ctx, repository.FlorFilter{Temporada: temporada, Disponible: disponible})
	if err != nil {
		return nil, apperr.Internal("Error al obtener flores", err)
	}
	return flores, nil
}

func (s *FlorService) Obtener(ctx context.Context, id string) (*model.Flor, error) {
	f, err := s.store.Flores.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Flor no encontrada", "Error al obtener flor")
	}
	return f, nil
}

func (s *FlorService) Crear(ctx context.Context, in FlorInput) (*model.Flor, error) {
	if in.Nombre == nil || strings.TrimSpace(*in.Nombre) == "" ||
		in.Temporada == nil || strings.TrimSpace(*in.Temporada) == "" || in.CostoBase == nil {
		return nil, apperr.Validation("Nombre, temporada y costo base son requeridos")
	}
	if in.CostoBase.IsNegative() {
		return nil, apperr.Validation("El costo base no puede ser negativo")
	}

	imagen, err := subir(ctx, s.media, in.Imagen)
	if err != nil {
		return nil, err
	}

	ahora := s.now().UTC()
	f := &model.Flor{
		ID:         uuid.NewString(),
		Nombre:     strings.TrimSpace(*in.Nombre),
		Temporada:  strings.TrimSpace(*in.Temporada),
		CostoBase:  in.CostoBase.Round(2),
		Disponible: true,
		Imagen:     imagen,
		CreatedAt:  ahora,
		UpdatedAt:  ahora,
	}
	if in.Descripcion != nil {
		f.Descripcion = *in.Descripcion
	}
	if in.Disponible != nil {
		f.Disponible = *in.Disponible
	}
	if err := s.store.Flores.Create(ctx, f); err != nil {
		return nil, apperr.Internal("Error al crear flor", err)
	}
	return f, nil
}

func (s *FlorService) Actualizar(ctx context.Context, id string, in FlorInput) (*model.Flor, error) {
	f, err := s.store.Flores.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Flor no encontrada", "Error al actualizar flor")
	}

	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != "" {
		f.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		f.Descripcion = *in.Descripcion
	}
	if in.Temporada != nil && strings.TrimSpace(*in.Temporada) != "" {
		f.Temporada = strings.TrimSpace(*in.Temporada)
	}
	if in.CostoBase != nil {
		if in.CostoBase.IsNegative() {
			return nil, apperr.Validation("El costo base no puede ser negativo")
		}
		f.CostoBase = in.CostoBase.Round(2)
	}
	if in.Disponible != nil {
		f.Disponible = *in.Disponible
	}
	if in.Imagen != nil {
		url, err := subir(ctx, s.media, in.Imagen)
		if err != nil {
			return nil, err
		}
		f.Imagen = url
	}
	f.UpdatedAt = s.now().UTC()

	if err := s.store.Flores.Update(ctx, f); err != nil {
		return nil, notFoundOr(err, "Flor no encontrada", "Error al actualizar flor")
	}
	return f, nil
}

func (s *FlorService) Eliminar(ctx context.Context, id string) error {
	if err := s.store.Flores.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Flor no encontrada", "Error al eliminar flor")
	}
	return nil
}
