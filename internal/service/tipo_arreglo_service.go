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
)

type TipoArregloInput struct {
	Nombre      *string
	Descripcion *string
	Activo      *bool
}

type TipoArregloService struct {
	store *Store
	now   func() time.Time
}

func NewTipoArregloService(st *Store) *TipoArregloService {
	return &TipoArregloService{store: st, now: time.Now}
}

// Listar devuelve los tipos activos ordenados por nombre, con la cantidad de arreglos de cada uno.
func (s *TipoArregloService) Listar(ctx context.Context) ([]*model.TipoArregloDetalle, error) {
	tipos, err := s.store.Tipos.Find(ctx, true)
	if err != nil {
		return nil, apperr.Internal("Error al obtener tipos de arreglo", err)
	}
	out := make([]*model.TipoArregloDetalle, 0, len(tipos))
	for _, t := range tipos {
		n, err := s.store.Arreglos.CountByTipo(ctx, t.ID)
		if err != nil {
			return nil, apperr.Internal("Error al obtener tipos de arreglo", err)
		}
		d := &model.TipoArregloDetalle{TipoArreglo: t}
		d.Count.Arreglos = n
		out = append(out, d)
	}
	return out, nil
}

func (s *TipoArregloService) Crear(ctx context.Context, in TipoArregloInput) (*model.TipoArreglo, error) {
	if in.Nombre == nil || strings.TrimSpace(*in.Nombre) == "" {
		return nil, apperr.Validation("El nombre es requerido")
	}
	ahora := s.now().UTC()
	t := &model.TipoArreglo{
		ID:        uuid.NewString(),
		Nombre:    strings.TrimSpace(*in.Nombre),
		Activo:    true,
		CreatedAt: ahora,
		UpdatedAt: ahora,
	}
	if in.Descripcion != nil {
		t.Descripcion = strings.TrimSpace(*in.Descripcion)
	}
	if err := s.store.Tipos.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Validation("Ya existe un tipo con ese nombre")
		}
		return nil, apperr.Internal("Error al crear tipo de arreglo", err)
	}
	return t, nil
}

func (s *TipoArregloService) Actualizar(ctx context.Context, id string, in TipoArregloInput) (*model.TipoArreglo, error) {
	t, err := s.store.Tipos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Tipo de arreglo no encontrado", "Error al actualizar tipo de arreglo")
	}

	if in.Activo != nil && !*in.Activo && t.Activo {
		n, err := s.store.Arreglos.CountByTipo(ctx, id)
		if err != nil {
			return nil, apperr.Internal("Error al actualizar tipo de arreglo", err)
		}
		if n > 0 {
			return nil, apperr.Validation("No se puede desactivar un tipo que tiene arreglos asociados")
		}
	}

	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != "" {
		t.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		t.Descripcion = strings.TrimSpace(*in.Descripcion)
	}
	if in.Activo != nil {
		t.Activo = *in.Activo
	}
	t.UpdatedAt = s.now().UTC()

	if err := s.store.Tipos.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Validation("Ya existe un tipo con ese nombre")
		}
		return nil, notFoundOr(err, "Tipo de arreglo no encontrado", "Error al actualizar tipo de arreglo")
	}
	return t, nil
}

func (s *TipoArregloService) Eliminar(ctx context.Context, id string) error {
	if _, err := s.store.Tipos.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "Tipo de arreglo no encontrado", "Error al eliminar tipo de arreglo")
	}
	n, err := s.store.Arreglos.CountByTipo(ctx, id)
	if err != nil {
		return apperr.Internal("Error al eliminar tipo de arreglo", err)
	}
	if n > 0 {
		return apperr.Validation("No se puede eliminar un tipo que tiene arreglos asociados")
	}
	if err := s.store.Tipos.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Tipo de arreglo no encontrado", "Error al eliminar tipo de arreglo")
	}
	return nil
}
